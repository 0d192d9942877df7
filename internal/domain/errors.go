package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotLoaded is returned when block status is queried before a
	// user has been loaded.
	ErrUserNotLoaded = errors.New("user not loaded")
	// ErrUserNotFound is returned by the identity platform for unknown references.
	ErrUserNotFound = errors.New("user not found")
	// ErrIdentityTokenMissing means the identity client has no access token,
	// typically because admin login requires a captcha.
	ErrIdentityTokenMissing = errors.New("identity access token not set")
)

// UserLoadError wraps a failure to load a user from the identity platform.
type UserLoadError struct {
	Ref string
	Err error
}

func (e *UserLoadError) Error() string {
	return fmt.Sprintf("load user %q: %v", e.Ref, e.Err)
}

func (e *UserLoadError) Unwrap() error {
	return e.Err
}

// Reactivation stages.
const (
	StageUnlock  = "unlock"
	StageApprove = "approve"
)

// ReactivationError reports a failed unlock or approve call. Unblocked is
// true when the unlock call succeeded before approve failed.
type ReactivationError struct {
	UserID    int64
	Stage     string
	Unblocked bool
	Err       error
}

func (e *ReactivationError) Error() string {
	return fmt.Sprintf("reactivate user %d: %s: %v", e.UserID, e.Stage, e.Err)
}

func (e *ReactivationError) Unwrap() error {
	return e.Err
}

// Notification stages.
const (
	StageReply          = "reply"
	StageUpdateCategory = "update_category"
	StageTeamAlert      = "team_alert"
)

// NotificationDispatchError reports a notification failure that happened
// after the account was already reactivated.
type NotificationDispatchError struct {
	TicketID  int64
	Stage     string
	ReplySent bool
	Err       error
}

func (e *NotificationDispatchError) Error() string {
	return fmt.Sprintf("user reactivated but notification failed (ticket %d, %s): %v", e.TicketID, e.Stage, e.Err)
}

func (e *NotificationDispatchError) Unwrap() error {
	return e.Err
}
