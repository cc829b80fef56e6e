package middleware

import (
	"net/http"

	"github.com/beatclash/backend/internal/models"
	"github.com/beatclash/backend/internal/services"
	"github.com/gin-gonic/gin"
)

// RequireRole loads the caller and enforces a minimum role. Admins pass
// every check; this is the single place role policy lives.
func RequireRole(authService *services.AuthService, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		user, err := authService.GetUserByID(userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}

		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is deactivated"})
			c.Abort()
			return
		}

		switch role {
		case models.RoleAdmin:
			if user.Role != models.RoleAdmin {
				c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
				c.Abort()
				return
			}
		case models.RoleParticipant:
			if !user.IsParticipant() {
				c.JSON(http.StatusForbidden, gin.H{"error": "Participant access required"})
				c.Abort()
				return
			}
		}

		c.Set("currentUser", user)
		c.Next()
	}
}

// CurrentUser returns the user loaded by RequireRole
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, ok := c.Get("currentUser")
	if !ok {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
