package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/supportdesk/reactivation-service/internal/domain"
)

// ReactivationService holds the eligibility policy and starts one
// UserReactivation per request.
type ReactivationService struct {
	identity  IdentityClient
	overrides map[int64]struct{}
	logger    *zap.Logger
}

// NewReactivationService creates the service. Users listed in overrideIDs
// are eligible whatever their status.
func NewReactivationService(identity IdentityClient, overrideIDs []int64, logger *zap.Logger) *ReactivationService {
	overrides := make(map[int64]struct{}, len(overrideIDs))
	for _, id := range overrideIDs {
		overrides[id] = struct{}{}
	}
	return &ReactivationService{identity: identity, overrides: overrides, logger: logger}
}

// Begin returns an empty reactivation; call Load before anything else.
func (s *ReactivationService) Begin() *UserReactivation {
	return &UserReactivation{svc: s}
}

// UserReactivation carries the single user loaded for one request.
type UserReactivation struct {
	svc  *ReactivationService
	user *domain.User
}

// Load fetches the user from the identity platform.
func (r *UserReactivation) Load(ctx context.Context, ref string) (*domain.User, error) {
	user, err := r.svc.identity.GetUser(ctx, ref)
	if err != nil {
		r.svc.logger.Error("get user failed", zap.String("user_ref", ref), zap.Error(err))
		return nil, &domain.UserLoadError{Ref: ref, Err: err}
	}
	if user == nil {
		return nil, &domain.UserLoadError{Ref: ref, Err: domain.ErrUserNotFound}
	}
	r.user = user
	r.svc.logger.Info("user loaded", zap.Int64("user_id", user.ID))
	return user, nil
}

// User returns the loaded user or nil.
func (r *UserReactivation) User() *domain.User {
	return r.user
}

// IsBlocked reports whether the loaded user is in a deactivated status.
func (r *UserReactivation) IsBlocked() (bool, error) {
	if r.user == nil {
		return false, domain.ErrUserNotLoaded
	}
	return r.user.Status.Blocked(), nil
}

// IsEligible reports whether reactivation should be attempted.
func (r *UserReactivation) IsEligible() (bool, error) {
	blocked, err := r.IsBlocked()
	if err != nil {
		return false, err
	}
	if blocked {
		return true, nil
	}
	_, override := r.svc.overrides[r.user.ID]
	return override, nil
}

// Reactivate unlocks then approves an eligible user. Ineligible users are
// left untouched. Approve is never attempted when unlock fails.
func (r *UserReactivation) Reactivate(ctx context.Context) (domain.ReactivationOutcome, error) {
	eligible, err := r.IsEligible()
	if err != nil {
		return domain.ReactivationOutcome{}, err
	}
	if !eligible {
		return domain.ReactivationOutcome{Reactivated: false, Message: domain.MessageActivationNotNeeded}, nil
	}

	id := r.user.ID
	if err := r.svc.identity.UnlockUser(ctx, id); err != nil {
		return domain.ReactivationOutcome{}, &domain.ReactivationError{UserID: id, Stage: domain.StageUnlock, Err: err}
	}
	if err := r.svc.identity.ApproveUser(ctx, id); err != nil {
		r.svc.logger.Error("user unlocked but approve failed", zap.Int64("user_id", id), zap.Error(err))
		return domain.ReactivationOutcome{}, &domain.ReactivationError{UserID: id, Stage: domain.StageApprove, Unblocked: true, Err: err}
	}

	r.svc.logger.Info("user unblocked",
		zap.Int64("user_id", id),
		zap.String("birthday", r.user.Birthday.Format("2006-01-02")))
	return domain.ReactivationOutcome{Reactivated: true, Message: domain.MessageReactivated}, nil
}
