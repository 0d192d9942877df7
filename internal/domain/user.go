package domain

import "time"

// UserStatus is the numeric account status reported by the identity platform.
type UserStatus int

const (
	UserStatusActive             UserStatus = 1
	UserStatusDeactivated        UserStatus = 8
	UserStatusDeactivatedConsent UserStatus = 9
)

// Blocked reports whether the status is one of the deactivated states that
// reactivation can lift.
func (s UserStatus) Blocked() bool {
	return s == UserStatusDeactivated || s == UserStatusDeactivatedConsent
}

// User is the identity platform account record loaded for one request.
type User struct {
	ID       int64
	Email    string
	Birthday time.Time
	Status   UserStatus
}
