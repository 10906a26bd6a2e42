package context

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"pensionfund/internal/domain/entity"
)

// KeyIdentity is the key for storing the authenticated identity in context.
const KeyIdentity ContextKey = "identity"

// Identity is the authenticated principal derived from a verified access
// token. It carries everything the authorization middleware needs without
// another database round trip.
type Identity struct {
	UserID      uuid.UUID
	Email       string
	Role        entity.Role
	MemberID    *uuid.UUID
	Permissions []string
}

// HasPermission reports whether the identity carries the given permission.
func (id *Identity) HasPermission(perm string) bool {
	return slices.Contains(id.Permissions, perm)
}

// CanAccessMember reports whether the identity may read the given member
// record: admin tier and pension officers see every member, a member account
// only its own record.
func (id *Identity) CanAccessMember(memberID uuid.UUID) bool {
	if id.Role.CanAccessAnyMember() {
		return true
	}

	return id.MemberID != nil && *id.MemberID == memberID
}

// WithIdentity returns a new context carrying the authenticated identity.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, KeyIdentity, identity)
}

// GetIdentity extracts the authenticated identity from the context.
// Returns nil when the request is unauthenticated.
func GetIdentity(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(KeyIdentity).(*Identity); ok {
		return identity
	}

	return nil
}
