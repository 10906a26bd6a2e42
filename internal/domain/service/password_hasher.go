// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordStrength is the tier assigned by the password validator.
type PasswordStrength string

const (
	// StrengthWeak means the password failed at least one rule.
	StrengthWeak PasswordStrength = "weak"
	// StrengthMedium means the password passed all rules with a modest score.
	StrengthMedium PasswordStrength = "medium"
	// StrengthStrong means the password passed all rules with a high score.
	StrengthStrong PasswordStrength = "strong"
)

// PasswordValidation is the outcome of the deterministic strength check.
// The same input always yields the same result.
type PasswordValidation struct {
	IsValid  bool             `json:"is_valid"`
	Errors   []string         `json:"errors,omitempty"`
	Strength PasswordStrength `json:"strength"`
	Score    int              `json:"score"`
}

// PasswordHasher defines the interface for password hashing, verification
// and strength validation. This abstracts the underlying hashing algorithm
// (e.g., bcrypt), keeping the domain pure.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	Hash(password string) (string, error)

	// Check compares a plaintext password with a hash to see if they match.
	Check(password, hash string) bool

	// Validate runs the pure strength rules: length bounds, character-class
	// coverage, common-password list, repeated runs and keyboard patterns.
	Validate(password string) PasswordValidation
}
