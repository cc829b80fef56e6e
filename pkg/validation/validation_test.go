package validation

import "testing"

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{"USER@EXAMPLE.COM", true},
		{"not-an-email", false},
		{"@example.com", false},
		{"user@", false},
		{"user@example", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidateEmail(tt.email); got != tt.want {
			t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Str0ng!Pass", true},
		{"short1!A", true},
		{"alllowercase1!", false},
		{"ALLUPPERCASE1!", false},
		{"NoNumbers!", false},
		{"NoSpecial123", false},
		{"Sh0rt!", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidatePassword(tt.password); got != tt.want {
			t.Errorf("ValidatePassword(%q) = %v, want %v", tt.password, got, tt.want)
		}
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		username string
		want     bool
	}{
		{"validuser", true},
		{"user_name-1", true},
		{"ab", false},
		{"has spaces", false},
		{"bad!chars", false},
		{"thisusernameiswaytoolongtobeaccepted", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidateUsername(tt.username); got != tt.want {
			t.Errorf("ValidateUsername(%q) = %v, want %v", tt.username, got, tt.want)
		}
	}
}
