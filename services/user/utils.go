package user

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.]{3,30}$`)
	validate        = validator.New()
)

// VerifyPasswordComplexity checks that the password meets complexity requirements.
func VerifyPasswordComplexity(pw string) error {
	var (
		hasMinLen = len(pw) >= 8
		hasUpper  = regexp.MustCompile(`[A-Z]`).MatchString(pw)
		hasLower  = regexp.MustCompile(`[a-z]`).MatchString(pw)
		hasNumber = regexp.MustCompile(`[0-9]`).MatchString(pw)
	)
	if !hasMinLen {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if !hasUpper {
		return fmt.Errorf("password must include at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must include at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must include at least one number")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateSignup(req SignupRequest) error {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return InputError{"username, email and password are required"}
	}
	if !usernamePattern.MatchString(req.Username) {
		return InputError{"username must be 3-30 letters, digits, dots or underscores"}
	}
	if err := validate.Var(req.Email, "required,email"); err != nil {
		return InputError{"email address is not valid"}
	}
	if err := VerifyPasswordComplexity(req.Password); err != nil {
		return InputError{err.Error()}
	}
	return nil
}
