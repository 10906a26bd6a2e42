package service

import "context"

// Mailer sends transactional mail. Implementations must be safe for
// concurrent use; callers treat send failures as non-fatal.
type Mailer interface {
	// SendPasswordReset mails the raw reset token to the given address.
	SendPasswordReset(ctx context.Context, to string, token string) error
}
