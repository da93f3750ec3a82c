package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/periksa/pkg/domain/interfaces"
	"github.com/grc-lab/periksa/pkg/domain/model"
	"github.com/grc-lab/periksa/pkg/domain/model/auth"
	"github.com/grc-lab/periksa/pkg/domain/model/config"
	"github.com/grc-lab/periksa/pkg/domain/types"
)

// QuotaUseCase exposes the submission quota ledger: read-only checks
// for gating the questionnaire UI and the admin limit override. The
// authoritative reserve happens inside the repository submit.
type QuotaUseCase struct {
	repo      interfaces.Repository
	engineCfg *config.EngineConfig
}

func NewQuotaUseCase(repo interfaces.Repository, engineCfg *config.EngineConfig) *QuotaUseCase {
	return &QuotaUseCase{repo: repo, engineCfg: engineCfg}
}

// QuotaStatus is the resolved state of one (user, type) counter. Missing
// counters resolve against the configured default limit.
type QuotaStatus struct {
	Type      types.AssessmentType
	Count     int
	Limit     *int
	Unlimited bool
	Remaining int
	Exhausted bool
}

// CheckResult is the outcome of a read-only quota check
type CheckResult struct {
	Allowed bool

	// AllExhausted distinguishes "this type is used up but others
	// remain" from "everything is used up". Only meaningful when
	// Allowed is false.
	AllExhausted bool
}

func (uc *QuotaUseCase) resolve(ctx context.Context, userID types.UserID, assessmentType types.AssessmentType) (*model.QuotaCounter, error) {
	counter, err := uc.repo.Quota().Get(ctx, userID, assessmentType)
	if err == nil {
		return counter, nil
	}
	if !errors.Is(err, model.ErrQuotaNotFound) {
		return nil, goerr.Wrap(err, "failed to get quota counter",
			goerr.V(UserIDKey, userID), goerr.V(TypeKey, assessmentType))
	}

	// No counter stored yet: the default limit applies with zero usage.
	counter = &model.QuotaCounter{UserID: userID, Type: assessmentType}
	if limit := uc.engineCfg.DefaultLimit(assessmentType); limit != nil {
		value := *limit
		counter.Limit = &value
	}
	return counter, nil
}

func statusOf(counter *model.QuotaCounter) QuotaStatus {
	return QuotaStatus{
		Type:      counter.Type,
		Count:     counter.Count,
		Limit:     counter.Limit,
		Unlimited: counter.Unlimited(),
		Remaining: counter.Remaining(),
		Exhausted: counter.Exhausted(),
	}
}

// Status resolves the counters of a user for every assessment type
func (uc *QuotaUseCase) Status(ctx context.Context, userID types.UserID) ([]QuotaStatus, error) {
	statuses := make([]QuotaStatus, 0, len(types.AllAssessmentTypes()))
	for _, assessmentType := range types.AllAssessmentTypes() {
		counter, err := uc.resolve(ctx, userID, assessmentType)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, statusOf(counter))
	}
	return statuses, nil
}

// Check is the read-only gate shown before the questionnaire starts. It
// never reserves anything; two users passing the check can still race
// for the last unit and one of them will fail at submit.
func (uc *QuotaUseCase) Check(ctx context.Context, userID types.UserID, assessmentType types.AssessmentType) (*CheckResult, error) {
	counter, err := uc.resolve(ctx, userID, assessmentType)
	if err != nil {
		return nil, err
	}
	if !counter.Exhausted() {
		return &CheckResult{Allowed: true}, nil
	}

	allExhausted, err := uc.othersExhausted(ctx, userID, assessmentType)
	if err != nil {
		return nil, err
	}
	return &CheckResult{Allowed: false, AllExhausted: allExhausted}, nil
}

// othersExhausted reports whether every assessment type other than the
// given one is also out of quota
func (uc *QuotaUseCase) othersExhausted(ctx context.Context, userID types.UserID, exclude types.AssessmentType) (bool, error) {
	for _, assessmentType := range types.AllAssessmentTypes() {
		if assessmentType == exclude {
			continue
		}
		counter, err := uc.resolve(ctx, userID, assessmentType)
		if err != nil {
			return false, err
		}
		if !counter.Exhausted() {
			return false, nil
		}
	}
	return true, nil
}

// SetLimit overrides the cap for a user/type pair. Admin only. A nil
// limit removes the cap; the usage count is never reset.
func (uc *QuotaUseCase) SetLimit(ctx context.Context, actor auth.Actor, userID types.UserID, assessmentType types.AssessmentType, limit *int) (*model.QuotaCounter, error) {
	if !actor.CanAdmin() {
		return nil, goerr.Wrap(ErrPermissionDenied, "quota limit change requires admin role",
			goerr.V("actor", actor.UserID), goerr.V(UserIDKey, userID))
	}
	if !assessmentType.IsValid() {
		return nil, goerr.New("invalid assessment type", goerr.V(TypeKey, assessmentType))
	}

	counter, err := uc.repo.Quota().SetLimit(ctx, userID, assessmentType, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to set quota limit",
			goerr.V(UserIDKey, userID), goerr.V(TypeKey, assessmentType))
	}
	return counter, nil
}
