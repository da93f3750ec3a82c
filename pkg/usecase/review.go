package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/periksa/pkg/domain/interfaces"
	"github.com/grc-lab/periksa/pkg/domain/model"
	"github.com/grc-lab/periksa/pkg/domain/model/auth"
	"github.com/grc-lab/periksa/pkg/domain/types"
	"github.com/grc-lab/periksa/pkg/utils/logging"
)

// ReviewUseCase drives the consultant review state machine over
// submitted assessment records
type ReviewUseCase struct {
	repo      interfaces.Repository
	narrative NarrativeService
}

func NewReviewUseCase(repo interfaces.Repository, narrative NarrativeService) *ReviewUseCase {
	return &ReviewUseCase{repo: repo, narrative: narrative}
}

func (uc *ReviewUseCase) get(ctx context.Context, id types.AssessmentID) (*model.AssessmentRecord, error) {
	record, err := uc.repo.Assessment().Get(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrAssessmentNotFound) {
			return nil, goerr.Wrap(ErrAssessmentNotFound, "assessment record not found", goerr.V(AssessmentIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get assessment record", goerr.V(AssessmentIDKey, id))
	}
	return record, nil
}

// Get retrieves one record. Members can only read their own records;
// reviewers can read any.
func (uc *ReviewUseCase) Get(ctx context.Context, actor auth.Actor, id types.AssessmentID) (*model.AssessmentRecord, error) {
	record, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanReview() && record.UserID != actor.UserID {
		return nil, goerr.Wrap(ErrPermissionDenied, "record belongs to another user",
			goerr.V(AssessmentIDKey, id), goerr.V("actor", actor.UserID))
	}
	return record, nil
}

// List returns the records visible to the actor: all of them for
// reviewers, own submissions for members
func (uc *ReviewUseCase) List(ctx context.Context, actor auth.Actor) ([]*model.AssessmentRecord, error) {
	if actor.CanReview() {
		records, err := uc.repo.Assessment().List(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list assessment records")
		}
		return records, nil
	}

	records, err := uc.repo.Assessment().ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessment records", goerr.V(UserIDKey, actor.UserID))
	}
	return records, nil
}

// Transition applies a review action to a record. Opening an already
// opened or completed record is a no-op; finalizing requires the record
// to be in review, and essay records must carry a manual score.
func (uc *ReviewUseCase) Transition(ctx context.Context, actor auth.Actor, id types.AssessmentID, action types.ReviewAction) (*model.AssessmentRecord, error) {
	if !actor.CanReview() {
		return nil, goerr.Wrap(ErrPermissionDenied, "review transition requires reviewer role",
			goerr.V(AssessmentIDKey, id), goerr.V("actor", actor.UserID))
	}
	if !action.IsValid() {
		return nil, goerr.Wrap(ErrInvalidTransition, "unknown review action", goerr.V("action", action))
	}

	record, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}

	next, ok := record.Status.Next(action)
	if !ok {
		return nil, goerr.Wrap(ErrInvalidTransition, "transition not allowed from current status",
			goerr.V(AssessmentIDKey, id),
			goerr.V("status", record.Status),
			goerr.V("action", action))
	}

	if next == record.Status {
		// Idempotent no-op, nothing to persist.
		return record, nil
	}

	if action == types.ReviewActionFinalize && !record.CanFinalize() {
		return nil, goerr.Wrap(ErrManualScoreRequired, "cannot finalize unscored essay assessment",
			goerr.V(AssessmentIDKey, id))
	}

	record.Status = next
	updated, err := uc.repo.Assessment().Update(ctx, record)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to persist review transition", goerr.V(AssessmentIDKey, id))
	}

	logging.From(ctx).Info("review transition",
		"assessment_id", id,
		"action", action,
		"status", updated.Status,
		"reviewer", actor.UserID,
	)

	return updated, nil
}

// SaveDraft stores consultant notes and report content on a record that
// is not yet completed
func (uc *ReviewUseCase) SaveDraft(ctx context.Context, actor auth.Actor, id types.AssessmentID, notes, reportContent string) (*model.AssessmentRecord, error) {
	if !actor.CanReview() {
		return nil, goerr.Wrap(ErrPermissionDenied, "draft save requires reviewer role",
			goerr.V(AssessmentIDKey, id), goerr.V("actor", actor.UserID))
	}

	record, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status.IsTerminal() {
		return nil, goerr.Wrap(ErrInvalidTransition, "completed record is read-only",
			goerr.V(AssessmentIDKey, id), goerr.V("status", record.Status))
	}

	record.ConsultantNotes = notes
	record.FinalReportContent = reportContent

	updated, err := uc.repo.Assessment().Update(ctx, record)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save review draft", goerr.V(AssessmentIDKey, id))
	}
	return updated, nil
}

// SetManualScore assigns a reviewer score to an essay record. The score
// must be 0..100; the health level is recomputed from it. Standard
// records keep their computed score and reject manual overrides.
func (uc *ReviewUseCase) SetManualScore(ctx context.Context, actor auth.Actor, id types.AssessmentID, score int) (*model.AssessmentRecord, error) {
	if !actor.CanReview() {
		return nil, goerr.Wrap(ErrPermissionDenied, "manual scoring requires reviewer role",
			goerr.V(AssessmentIDKey, id), goerr.V("actor", actor.UserID))
	}
	if score < 0 || score > 100 {
		return nil, goerr.Wrap(ErrInvalidManualScore, "score must be between 0 and 100",
			goerr.V(AssessmentIDKey, id), goerr.V("score", score))
	}

	record, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Type != types.AssessmentTypeEssay {
		return nil, goerr.Wrap(ErrInvalidManualScore, "manual scoring applies to essay assessments only",
			goerr.V(AssessmentIDKey, id), goerr.V(TypeKey, record.Type))
	}
	if record.Status.IsTerminal() {
		return nil, goerr.Wrap(ErrInvalidTransition, "completed record is read-only",
			goerr.V(AssessmentIDKey, id), goerr.V("status", record.Status))
	}

	record.RiskScore = score
	record.RiskLevel = types.ClassifyHealthScore(score)
	record.ManualScored = true

	updated, err := uc.repo.Assessment().Update(ctx, record)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save manual score", goerr.V(AssessmentIDKey, id))
	}

	logging.From(ctx).Info("manual score set",
		"assessment_id", id,
		"score", score,
		"level", updated.RiskLevel,
		"reviewer", actor.UserID,
	)

	return updated, nil
}

// DraftNarrative asks the narrative collaborator for a report draft.
// The draft is returned to the caller and never persisted here; the
// reviewer decides what to keep via SaveDraft.
func (uc *ReviewUseCase) DraftNarrative(ctx context.Context, actor auth.Actor, id types.AssessmentID) (string, error) {
	if !actor.CanReview() {
		return "", goerr.Wrap(ErrPermissionDenied, "narrative draft requires reviewer role",
			goerr.V(AssessmentIDKey, id), goerr.V("actor", actor.UserID))
	}
	if uc.narrative == nil {
		return "", goerr.Wrap(ErrCollaboratorUnavailable, "narrative service is not configured",
			goerr.V(AssessmentIDKey, id))
	}

	record, err := uc.get(ctx, id)
	if err != nil {
		return "", err
	}

	set, err := uc.repo.Question().GetActive(ctx, record.Type)
	if err != nil {
		return "", goerr.Wrap(err, "failed to load question set for narrative",
			goerr.V(AssessmentIDKey, id), goerr.V(TypeKey, record.Type))
	}

	draft, err := uc.narrative.DraftReport(ctx, record, set)
	if err != nil {
		return "", goerr.Wrap(ErrCollaboratorUnavailable, "narrative generation failed",
			goerr.V(AssessmentIDKey, id), goerr.V("cause", err.Error()))
	}

	return draft, nil
}
