package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/beatclash/backend/internal/config"
	"github.com/beatclash/backend/internal/models"
	"github.com/beatclash/backend/pkg/crypto"
	jwtpkg "github.com/beatclash/backend/pkg/jwt"
	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type AuthService struct {
	db    *gorm.DB
	redis *redis.Client
	cfg   *config.Config
	oauth *oauth2.Config
}

func NewAuthService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *AuthService {
	return &AuthService{
		db:    db,
		redis: redisClient,
		cfg:   cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// Register creates a new user account with the listener role
func (s *AuthService) Register(username, email, password, firstName, lastName string) (*models.User, error) {
	var existingUser models.User
	if err := s.db.Where("username = ? OR email = ?", username, email).First(&existingUser).Error; err == nil {
		if existingUser.Username == username {
			return nil, errors.New("username already taken")
		}
		return nil, errors.New("email already registered")
	}

	hashedPassword, err := crypto.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		FirstName: firstName,
		LastName:  lastName,
		Role:      models.RoleListener,
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates a user and returns an access/refresh token pair
func (s *AuthService) Login(username, password string) (string, string, *models.User, error) {
	var user models.User

	if err := s.db.Where("username = ? OR email = ?", username, username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", nil, errors.New("invalid credentials")
		}
		return "", "", nil, err
	}

	if !user.IsActive {
		return "", "", nil, errors.New("account is deactivated")
	}

	if !crypto.CheckPassword(password, user.Password) {
		return "", "", nil, errors.New("invalid credentials")
	}

	accessToken, refreshToken, err := s.issueTokens(&user)
	if err != nil {
		return "", "", nil, err
	}

	return accessToken, refreshToken, &user, nil
}

// issueTokens mints a token pair and persists the refresh token
func (s *AuthService) issueTokens(user *models.User) (string, string, error) {
	accessToken, err := jwtpkg.GenerateToken(user.ID.String(), jwtpkg.AccessToken, s.cfg.JWTSecret, s.cfg.JWTAccessTokenDuration)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := jwtpkg.GenerateToken(user.ID.String(), jwtpkg.RefreshToken, s.cfg.JWTSecret, s.cfg.JWTRefreshTokenDuration)
	if err != nil {
		return "", "", err
	}

	refreshTokenModel := &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshTokenDuration),
	}

	if err := s.db.Create(refreshTokenModel).Error; err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// RefreshToken generates a new access token from a refresh token
func (s *AuthService) RefreshToken(refreshToken string) (string, error) {
	claims, err := jwtpkg.ValidateToken(refreshToken, s.cfg.JWTSecret)
	if err != nil {
		return "", errors.New("invalid refresh token")
	}

	if claims.TokenType != jwtpkg.RefreshToken {
		return "", errors.New("invalid token type")
	}

	var tokenModel models.RefreshToken
	if err := s.db.Where("token = ?", refreshToken).First(&tokenModel).Error; err != nil {
		return "", errors.New("refresh token not found")
	}

	if time.Now().After(tokenModel.ExpiresAt) {
		return "", errors.New("refresh token expired")
	}

	accessToken, err := jwtpkg.GenerateToken(claims.UserID, jwtpkg.AccessToken, s.cfg.JWTSecret, s.cfg.JWTAccessTokenDuration)
	if err != nil {
		return "", err
	}

	return accessToken, nil
}

// Logout deletes the user's refresh tokens and blacklists the access token
// for its remaining lifetime
func (s *AuthService) Logout(userID uuid.UUID, accessToken string) error {
	if err := s.db.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
		return err
	}

	if accessToken != "" {
		claims, err := jwtpkg.ValidateToken(accessToken, s.cfg.JWTSecret)
		if err == nil && claims.ExpiresAt != nil {
			ttl := time.Until(claims.ExpiresAt.Time)
			if ttl > 0 {
				blacklistKey := fmt.Sprintf("blacklist:token:%s", accessToken)
				if err := s.redis.Set(context.Background(), blacklistKey, "1", ttl).Err(); err != nil {
					log.Printf("WARN: Could not blacklist token in Redis: %v", err)
				}
			}
		}
	}

	return nil
}

// ValidateAccessToken validates an access token and returns its claims
func (s *AuthService) ValidateAccessToken(token string) (*jwtpkg.Claims, error) {
	claims, err := jwtpkg.ValidateToken(token, s.cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != jwtpkg.AccessToken {
		return nil, errors.New("invalid token type")
	}

	// If Redis is down, allow the request to proceed
	ctx := context.Background()
	blacklistKey := fmt.Sprintf("blacklist:token:%s", token)
	exists, err := s.redis.Exists(ctx, blacklistKey).Result()
	if err != nil {
		log.Printf("WARN: Could not connect to Redis to check token blacklist: %v", err)
	} else if exists > 0 {
		return nil, errors.New("token is blacklisted")
	}

	return claims, nil
}

// GoogleAuthURL stores the state in Redis and returns the consent page URL
func (s *AuthService) GoogleAuthURL(ctx context.Context) (string, error) {
	state := uuid.NewString()
	stateKey := fmt.Sprintf("oauth:state:%s", state)
	if err := s.redis.Set(ctx, stateKey, "1", 10*time.Minute).Err(); err != nil {
		return "", fmt.Errorf("failed to store oauth state: %w", err)
	}
	return s.oauth.AuthCodeURL(state), nil
}

// VerifyGoogleState consumes a previously issued state value
func (s *AuthService) VerifyGoogleState(ctx context.Context, state string) error {
	stateKey := fmt.Sprintf("oauth:state:%s", state)
	deleted, err := s.redis.Del(ctx, stateKey).Result()
	if err != nil {
		return fmt.Errorf("failed to verify oauth state: %w", err)
	}
	if deleted == 0 {
		return errors.New("invalid oauth state")
	}
	return nil
}

type googleUserInfo struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

// GoogleLogin exchanges the OAuth code, upserts the matching user and
// returns a token pair
func (s *AuthService) GoogleLogin(ctx context.Context, code string) (string, string, *models.User, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	resp, err := s.oauth.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", "", nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	if info.Email == "" {
		return "", "", nil, errors.New("google account has no email")
	}

	user, err := s.upsertGoogleUser(&info)
	if err != nil {
		return "", "", nil, err
	}

	if !user.IsActive {
		return "", "", nil, errors.New("account is deactivated")
	}

	accessToken, refreshToken, err := s.issueTokens(user)
	if err != nil {
		return "", "", nil, err
	}

	return accessToken, refreshToken, user, nil
}

// upsertGoogleUser finds a user by Google subject, links by email, or
// creates a new listener account
func (s *AuthService) upsertGoogleUser(info *googleUserInfo) (*models.User, error) {
	var user models.User

	err := s.db.Where("google_id = ?", info.ID).First(&user).Error
	if err == nil {
		updates := map[string]interface{}{
			"first_name":        info.GivenName,
			"last_name":         info.FamilyName,
			"profile_image_url": info.Picture,
		}
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Link an existing password account with the same email
	err = s.db.Where("email = ?", info.Email).First(&user).Error
	if err == nil {
		if err := s.db.Model(&user).Update("google_id", info.ID).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// OAuth-only accounts get an unusable random password
	hashedPassword, err := crypto.HashPassword(crypto.GenerateRandomPassword(32), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user = models.User{
		Username:        s.usernameFromEmail(info.Email),
		Email:           info.Email,
		Password:        hashedPassword,
		FirstName:       info.GivenName,
		LastName:        info.FamilyName,
		ProfileImageURL: info.Picture,
		GoogleID:        info.ID,
		Role:            models.RoleListener,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// usernameFromEmail derives a free username from the email local part
func (s *AuthService) usernameFromEmail(email string) string {
	base := strings.SplitN(email, "@", 2)[0]
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return '_'
	}, base)
	if len(base) < 3 {
		base = "user_" + base
	}

	candidate := base
	for i := 0; i < 5; i++ {
		var count int64
		if err := s.db.Model(&models.User{}).Where("username = ?", candidate).Count(&count).Error; err != nil || count == 0 {
			return candidate
		}
		candidate = fmt.Sprintf("%s_%s", base, uuid.NewString()[:8])
	}
	return candidate
}

// GetUserByID retrieves a user by ID
func (s *AuthService) GetUserByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CleanupExpiredTokens removes expired refresh tokens
func (s *AuthService) CleanupExpiredTokens() (int64, error) {
	result := s.db.Where("expires_at < ?", time.Now()).Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}

// StartCleanupScheduler periodically removes expired refresh tokens
func (s *AuthService) StartCleanupScheduler() {
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("ERROR: Failed to create token cleanup scheduler: %v", err)
		return
	}

	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			deleted, err := s.CleanupExpiredTokens()
			if err != nil {
				log.Printf("ERROR: Refresh token cleanup failed: %v", err)
			} else if deleted > 0 {
				log.Printf("INFO: Refresh token cleanup removed %d expired tokens", deleted)
			}
		}),
	)
	if err != nil {
		log.Printf("ERROR: Failed to schedule token cleanup: %v", err)
		return
	}

	sched.Start()
}
