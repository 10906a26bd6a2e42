// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"pensionfund/config"
	"pensionfund/internal/domain/service"
)

// commonPasswords is a short denylist of passwords rejected outright.
var commonPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password123": {},
	"12345678":    {},
	"123456789":   {},
	"1234567890":  {},
	"qwerty123":   {},
	"qwertyuiop":  {},
	"letmein1":    {},
	"welcome1":    {},
	"iloveyou1":   {},
	"admin123":    {},
	"pension123":  {},
}

// keyboardRuns are sequences that add no real entropy when they make up a
// large part of the password.
var keyboardRuns = []string{
	"qwerty", "asdfgh", "zxcvbn", "qwertz", "azerty",
	"123456", "654321", "abcdef",
}

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost      int
	minLength int
	maxLength int
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg.Auth != nil && cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost {
		cost = cfg.Auth.BcryptCost
	}

	minLength, maxLength := 8, 128
	if cfg.PasswordStrength != nil {
		if cfg.PasswordStrength.MinLength > 0 {
			minLength = cfg.PasswordStrength.MinLength
		}
		if cfg.PasswordStrength.MaxLength > 0 {
			maxLength = cfg.PasswordStrength.MaxLength
		}
	}

	return &bcryptHasher{
		cost:      cost,
		minLength: minLength,
		maxLength: maxLength,
	}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)

	return string(bytes), err
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// Validate applies the strength policy and returns the per-rule failures
// together with a coarse strength rating.
func (h *bcryptHasher) Validate(password string) service.PasswordValidation {
	result := service.PasswordValidation{IsValid: true, Strength: service.StrengthWeak}
	fail := func(msg string) {
		result.IsValid = false
		result.Errors = append(result.Errors, msg)
	}

	if len(password) < h.minLength {
		fail(fmt.Sprintf("password must be at least %d characters long", h.minLength))
	}
	if len(password) > h.maxLength {
		fail(fmt.Sprintf("password must be at most %d characters long", h.maxLength))
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		fail("password must contain an uppercase letter")
	}
	if !hasLower {
		fail("password must contain a lowercase letter")
	}
	if !hasDigit {
		fail("password must contain a digit")
	}
	if !hasSpecial {
		fail("password must contain a symbol")
	}

	lowered := strings.ToLower(password)
	if _, ok := commonPasswords[lowered]; ok {
		fail("password is too common")
	}
	if hasRepeatedRun(password, 3) {
		fail("password must not repeat the same character three or more times in a row")
	}
	for _, run := range keyboardRuns {
		if strings.Contains(lowered, run) {
			fail("password must not contain keyboard sequences")

			break
		}
	}

	if !result.IsValid {
		return result
	}

	// Score only valid passwords. All four character classes are mandatory,
	// so the bonuses come from length and from character variety beyond the
	// minimum.
	score := 0
	if len(password) >= 12 {
		score++
	}
	if len(password) >= 16 {
		score++
	}
	if uniqueRunes(password) >= 10 {
		score++
	}

	result.Score = score
	switch {
	case score >= 3:
		result.Strength = service.StrengthStrong
	case score >= 2:
		result.Strength = service.StrengthMedium
	default:
		result.Strength = service.StrengthWeak
	}

	return result
}

// hasRepeatedRun reports whether any character repeats limit or more times
// consecutively.
func hasRepeatedRun(s string, limit int) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
			if run >= limit {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}

	return false
}

// uniqueRunes counts the distinct characters in s.
func uniqueRunes(s string) int {
	seen := make(map[rune]struct{}, len(s))
	for _, r := range s {
		seen[r] = struct{}{}
	}

	return len(seen)
}
