package repositories

import "errors"

// Sentinel errors surfaced by state-changing repository operations.
// Read lookups signal a missing row with a nil result instead.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrRoleNotFound = errors.New("role not found")
	ErrEmailInUse   = errors.New("email already in use")
)
