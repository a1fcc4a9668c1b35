package domain

import (
	"context"
	"errors"
)

// User is the authenticated caller of an operation.
type User struct {
	ID    string
	Email string
	Role  Role
}

// SystemUser is used when no authenticated user is attached to the context.
var SystemUser = &User{ID: "system", Role: RoleAdmin}

// Role represents a user's access level
type Role string

const (
	// RoleAdmin can manage the chart of accounts and do everything else
	RoleAdmin Role = "admin"

	// RoleManager can review journal groups and submit them
	RoleManager Role = "manager"

	// RoleAccountant can submit journal groups and comment on entries
	RoleAccountant Role = "accountant"

	// RoleViewer can only read
	RoleViewer Role = "viewer"
)

var roleRank = map[Role]int{
	RoleViewer:     1,
	RoleAccountant: 2,
	RoleManager:    3,
	RoleAdmin:      4,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants everything min grants.
func (r Role) AtLeast(min Role) bool {
	return r.IsValid() && roleRank[r] >= roleRank[min]
}

// CanManageAccounts checks if the role can create and edit accounts
func (r Role) CanManageAccounts() bool {
	return r == RoleAdmin
}

// CanReview checks if the role can approve or reject journal groups
func (r Role) CanReview() bool {
	return r.AtLeast(RoleManager)
}

// CanSubmit checks if the role can submit journal groups and comments
func (r Role) CanSubmit() bool {
	return r.AtLeast(RoleAccountant)
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)

type userContextKey struct{}

// WithUser attaches the authenticated user to ctx.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext returns the user attached by WithUser.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*User)
	return user, ok && user != nil
}

// ActorID returns the ID of the user in ctx, or "system".
func ActorID(ctx context.Context) string {
	if user, ok := UserFromContext(ctx); ok {
		return user.ID
	}
	return SystemUser.ID
}
