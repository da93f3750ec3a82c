package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/grc-lab/periksa/pkg/domain/interfaces"
	"github.com/grc-lab/periksa/pkg/domain/model"
	"github.com/grc-lab/periksa/pkg/domain/types"
	"github.com/grc-lab/periksa/pkg/repository/memory"
	"github.com/grc-lab/periksa/pkg/usecase"
)

func submitStandard(t *testing.T, uc *usecase.UseCases, uid types.UserID) *model.AssessmentRecord {
	t.Helper()
	created, err := uc.Submission.Submit(context.Background(), memberActor(uid), fullStandardAnswers())
	gt.NoError(t, err).Required()
	return created
}

func submitEssay(t *testing.T, uc *usecase.UseCases, uid types.UserID) *model.AssessmentRecord {
	t.Helper()
	created, err := uc.Submission.Submit(context.Background(), memberActor(uid), model.NewEssayAnswers(map[types.QuestionID]string{
		"essay-incident": "On-call rotation with runbooks.",
		"essay-vendor":   "Annual procurement review.",
	}))
	gt.NoError(t, err).Required()
	return created
}

func newReviewFixture(t *testing.T) (interfaces.Repository, *usecase.UseCases) {
	t.Helper()
	repo := memory.New()
	seedStandardSet(t, repo)
	seedEssaySet(t, repo)
	return repo, usecase.New(repo)
}

func TestReviewUseCase_Transition(t *testing.T) {
	t.Run("open moves submitted to in review", func(t *testing.T) {
		_, uc := newReviewFixture(t)
		ctx := context.Background()
		record := submitStandard(t, uc, "user-1")

		updated, err := uc.Review.Transition(ctx, consultantActor("cons-1"), record.ID, types.ReviewActionOpen)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Status).Equal(types.AssessmentStatusInReview)
	})

	t.Run("open is idempotent on in review and completed", func(t *testing.T) {
		_, uc := newReviewFixture(t)
		ctx := context.Background()
		record := submitStandard(t, uc, "user-1")
		reviewer := consultantActor("cons-1")

		_, err := uc.Review.Transition(ctx, reviewer, record.ID, types.ReviewActionOpen)
		gt.NoError(t, err).Required()

		again, err := uc.Review.Transition(ctx, reviewer, record.ID, types.ReviewActionOpen)
		gt.NoError(t, err).Required()
		gt.Value(t, again.Status).Equal(types.AssessmentStatusInReview)

		_, err = uc.Review.Transition(ctx, reviewer, record.ID, types.ReviewActionFinalize)
		gt.NoError(t, err).Required()

		done, err := uc.Review.Transition(ctx, reviewer, record.ID, types.ReviewActionOpen)
		gt.NoError(t, err).Required()
		gt.Value(t, done.Status).Equal(types.AssessmentStatusCompleted)
	})

	t.Run("finalize from submitted is rejected", func(t *testing.T) {
		_, uc := newReviewFixture(t)
		ctx := context.Background()
		record := submitStandard(t, uc, "user-1")

		_, err := uc.Review.Transition(ctx, consultantActor("cons-1"), record.ID, types.ReviewActionFinalize)
		gt.True(t, errors.Is(err, usecase.ErrInvalidTransition))
	})

	t.Run("finalize from in review completes the record", func(t *testing.T) {
		_, uc := newReviewFixture(t)
		ctx := context.Background()
		record := submitStandard(t, uc, "user-1")
		reviewer := consultantActor("cons-1")

		_, err := uc.Review.Transition(ctx, reviewer, record.ID, types.ReviewActionOpen)
		gt.NoError(t, err).Required()

		updated, err := uc.Review.Transition(ctx, reviewer, record.ID, types.ReviewActionFinalize)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Status).Equal(types.AssessmentStatusCompleted)
	})

	t.Run("essay finalize requires a manual score", func(t *testing.T) {
		_, uc := newReviewFixture(t)
		ctx := context.Background()
		record := submitEssay(t, uc, "user-1")
		reviewer := consultantActor("cons-1")

		_, err := uc.Review.Transition(ctx, reviewer, record.ID, types.ReviewActionOpen)
		gt.NoError(t, err).Required()

		_, err = uc.Review.Transition(ctx, reviewer, record.ID, types.ReviewActionFinalize)
		gt.True(t, errors.Is(err, usecase.ErrManualScoreRequired))

		_, err = uc.Review.SetManualScore(ctx, reviewer, record.ID, 72)
		gt.NoError(t, err).Required()

		updated, err := uc.Review.Transition(ctx, reviewer, record.ID, types.ReviewActionFinalize)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Status).Equal(types.AssessmentStatusCompleted)
	})

	t.Run("member cannot drive transitions", func(t *testing.T) {
		_, uc := newReviewFixture(t)
		ctx := context.Background()
		record := submitStandard(t, uc, "user-1")

		_, err := uc.Review.Transition(ctx, memberActor("user-1"), record.ID, types.ReviewActionOpen)
		gt.True(t, errors.Is(err, usecase.ErrPermissionDenied))
	})

	t.Run("missing record surfaces not found", func(t *testing.T) {
		_, uc := newReviewFixture(t)
		ctx := context.Background()

		_, err := uc.Review.Transition(ctx, consultantActor("cons-1"), "missing", types.ReviewActionOpen)
		gt.True(t, errors.Is(err, usecase.ErrAssessmentNotFound))
	})
}

func TestReviewUseCase_SetManualScore(t *testing.T) {
	t.Run("score recomputes the health level", func(t *testing.T) {
		_, uc := newReviewFixture(t)
		ctx := context.Background()
		record := submitEssay(t, uc, "user-1")
		reviewer := consultantActor("cons-1")

		updated, err := uc.Review.SetManualScore(ctx, reviewer, record.ID, 85)
		gt.NoError(t, err).Required()
		gt.Number(t, updated.RiskScore).Equal(85)
		gt.Value(t, updated.RiskLevel).Equal(types.HealthLevelLow)
		gt.True(t, updated.ManualScored)
	})

	t.Run("standard records reject manual scores", func(t *testing.T) {
		_, uc := newReviewFixture(t)
		ctx := context.Background()
		record := submitStandard(t, uc, "user-1")

		_, err := uc.Review.SetManualScore(ctx, consultantActor("cons-1"), record.ID, 85)
		gt.True(t, errors.Is(err, usecase.ErrInvalidManualScore))
	})

	t.Run("score out of range is rejected", func(t *testing.T) {
		_, uc := newReviewFixture(t)
		ctx := context.Background()
		record := submitEssay(t, uc, "user-1")

		_, err := uc.Review.SetManualScore(ctx, consultantActor("cons-1"), record.ID, 101)
		gt.True(t, errors.Is(err, usecase.ErrInvalidManualScore))
		_, err = uc.Review.SetManualScore(ctx, consultantActor("cons-1"), record.ID, -1)
		gt.True(t, errors.Is(err, usecase.ErrInvalidManualScore))
	})

	t.Run("completed record is read-only", func(t *testing.T) {
		_, uc := newReviewFixture(t)
		ctx := context.Background()
		record := submitEssay(t, uc, "user-1")
		reviewer := consultantActor("cons-1")

		_, err := uc.Review.Transition(ctx, reviewer, record.ID, types.ReviewActionOpen)
		gt.NoError(t, err).Required()
		_, err = uc.Review.SetManualScore(ctx, reviewer, record.ID, 40)
		gt.NoError(t, err).Required()
		_, err = uc.Review.Transition(ctx, reviewer, record.ID, types.ReviewActionFinalize)
		gt.NoError(t, err).Required()

		_, err = uc.Review.SetManualScore(ctx, reviewer, record.ID, 90)
		gt.True(t, errors.Is(err, usecase.ErrInvalidTransition))
	})
}

func TestReviewUseCase_SaveDraft(t *testing.T) {
	t.Run("draft persists on non-terminal record", func(t *testing.T) {
		_, uc := newReviewFixture(t)
		ctx := context.Background()
		record := submitStandard(t, uc, "user-1")
		reviewer := consultantActor("cons-1")

		updated, err := uc.Review.SaveDraft(ctx, reviewer, record.ID, "strong governance", "## Draft report")
		gt.NoError(t, err).Required()
		gt.Value(t, updated.ConsultantNotes).Equal("strong governance")
		gt.Value(t, updated.FinalReportContent).Equal("## Draft report")
	})

	t.Run("draft on completed record is rejected", func(t *testing.T) {
		_, uc := newReviewFixture(t)
		ctx := context.Background()
		record := submitStandard(t, uc, "user-1")
		reviewer := consultantActor("cons-1")

		_, err := uc.Review.Transition(ctx, reviewer, record.ID, types.ReviewActionOpen)
		gt.NoError(t, err).Required()
		_, err = uc.Review.Transition(ctx, reviewer, record.ID, types.ReviewActionFinalize)
		gt.NoError(t, err).Required()

		_, err = uc.Review.SaveDraft(ctx, reviewer, record.ID, "late notes", "")
		gt.True(t, errors.Is(err, usecase.ErrInvalidTransition))
	})

	t.Run("member cannot save drafts", func(t *testing.T) {
		_, uc := newReviewFixture(t)
		ctx := context.Background()
		record := submitStandard(t, uc, "user-1")

		_, err := uc.Review.SaveDraft(ctx, memberActor("user-1"), record.ID, "notes", "")
		gt.True(t, errors.Is(err, usecase.ErrPermissionDenied))
	})
}

func TestReviewUseCase_Visibility(t *testing.T) {
	t.Run("member reads own record only", func(t *testing.T) {
		_, uc := newReviewFixture(t)
		ctx := context.Background()
		mine := submitStandard(t, uc, "user-1")
		theirs := submitStandard(t, uc, "user-2")

		got, err := uc.Review.Get(ctx, memberActor("user-1"), mine.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(mine.ID)

		_, err = uc.Review.Get(ctx, memberActor("user-1"), theirs.ID)
		gt.True(t, errors.Is(err, usecase.ErrPermissionDenied))
	})

	t.Run("consultant reads any record", func(t *testing.T) {
		_, uc := newReviewFixture(t)
		ctx := context.Background()
		record := submitStandard(t, uc, "user-1")

		got, err := uc.Review.Get(ctx, consultantActor("cons-1"), record.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(record.ID)
	})

	t.Run("list is scoped by role", func(t *testing.T) {
		_, uc := newReviewFixture(t)
		ctx := context.Background()
		submitStandard(t, uc, "user-1")
		submitStandard(t, uc, "user-2")

		own, err := uc.Review.List(ctx, memberActor("user-1"))
		gt.NoError(t, err).Required()
		gt.Number(t, len(own)).Equal(1)

		all, err := uc.Review.List(ctx, consultantActor("cons-1"))
		gt.NoError(t, err).Required()
		gt.Number(t, len(all)).Equal(2)
	})
}

type fakeNarrative struct {
	draft string
	err   error
}

func (f *fakeNarrative) DraftReport(ctx context.Context, record *model.AssessmentRecord, set *model.QuestionSet) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.draft, nil
}

func TestReviewUseCase_DraftNarrative(t *testing.T) {
	t.Run("returns the collaborator draft without persisting", func(t *testing.T) {
		repo := memory.New()
		seedStandardSet(t, repo)
		uc := usecase.New(repo, usecase.WithNarrative(&fakeNarrative{draft: "## Executive summary"}))
		ctx := context.Background()
		record := submitStandard(t, uc, "user-1")

		draft, err := uc.Review.DraftNarrative(ctx, consultantActor("cons-1"), record.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, draft).Equal("## Executive summary")

		stored, err := repo.Assessment().Get(ctx, record.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, stored.FinalReportContent).Equal("")
	})

	t.Run("unconfigured collaborator is unavailable", func(t *testing.T) {
		_, uc := newReviewFixture(t)
		ctx := context.Background()
		record := submitStandard(t, uc, "user-1")

		_, err := uc.Review.DraftNarrative(ctx, consultantActor("cons-1"), record.ID)
		gt.True(t, errors.Is(err, usecase.ErrCollaboratorUnavailable))
	})

	t.Run("collaborator failure maps to unavailable", func(t *testing.T) {
		repo := memory.New()
		seedStandardSet(t, repo)
		uc := usecase.New(repo, usecase.WithNarrative(&fakeNarrative{err: errors.New("rate limited")}))
		ctx := context.Background()
		record := submitStandard(t, uc, "user-1")

		_, err := uc.Review.DraftNarrative(ctx, consultantActor("cons-1"), record.ID)
		gt.True(t, errors.Is(err, usecase.ErrCollaboratorUnavailable))
	})

	t.Run("member cannot request drafts", func(t *testing.T) {
		_, uc := newReviewFixture(t)
		ctx := context.Background()
		record := submitStandard(t, uc, "user-1")

		_, err := uc.Review.DraftNarrative(ctx, memberActor("user-1"), record.ID)
		gt.True(t, errors.Is(err, usecase.ErrPermissionDenied))
	})
}
