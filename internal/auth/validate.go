package auth

import (
	"errors"
	"regexp"
	"strings"
)

const (
	PasswordMinLength = 6
	NameMinLength     = 2
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	ErrInvalidEmail    = errors.New("email address is not valid")
	ErrInvalidPassword = errors.New("password must have at least 6 characters")
	ErrInvalidName     = errors.New("name must have at least 2 characters")
)

// IsValidEmail checks the shape of an email address
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidPassword checks the minimum password length
func IsValidPassword(password string) bool {
	return len(password) >= PasswordMinLength
}

// IsValidName checks the trimmed display name length
func IsValidName(name string) bool {
	return len([]rune(strings.TrimSpace(name))) >= NameMinLength
}

// validateRegistration returns the first failing rule
func validateRegistration(name, email, password string) error {
	switch {
	case !IsValidName(name):
		return ErrInvalidName
	case !IsValidEmail(email):
		return ErrInvalidEmail
	case !IsValidPassword(password):
		return ErrInvalidPassword
	}
	return nil
}
