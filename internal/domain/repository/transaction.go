package repository

import "context"

// TransactionManager defines the interface for managing database transactions.
// This allows the use case layer to handle transactions without depending on a specific DB driver like GORM.
type TransactionManager interface {
	// Execute runs a function within a database transaction.
	// If the function returns an error, the transaction is rolled back. Otherwise, it's committed.
	// All repository operations within the function will use the same database transaction.
	Execute(ctx context.Context, fn func(repoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides repository instances bound to a specific
// transaction, so every operation inside the callback shares one connection.
type RepositoryFactory interface {
	// UserRepo returns a UserRepository bound to the current transaction.
	UserRepo() UserRepository

	// CredentialRepo returns a CredentialRepository bound to the current transaction.
	CredentialRepo() CredentialRepository

	// RefreshTokenRepo returns a RefreshTokenRepository bound to the current transaction.
	RefreshTokenRepo() RefreshTokenRepository

	// ResetTokenRepo returns a ResetTokenRepository bound to the current transaction.
	ResetTokenRepo() ResetTokenRepository

	// MemberRepo returns a MemberRepository bound to the current transaction.
	MemberRepo() MemberRepository

	// ContributionRepo returns a ContributionRepository bound to the current transaction.
	ContributionRepo() ContributionRepository

	// ClaimRepo returns a ClaimRepository bound to the current transaction.
	ClaimRepo() ClaimRepository

	// BeneficiaryRepo returns a BeneficiaryRepository bound to the current transaction.
	BeneficiaryRepo() BeneficiaryRepository
}
