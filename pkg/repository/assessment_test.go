package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/grc-lab/periksa/pkg/domain/interfaces"
	"github.com/grc-lab/periksa/pkg/domain/model"
	"github.com/grc-lab/periksa/pkg/domain/types"
)

func intPtr(n int) *int { return &n }

func newStandardRecord(userID types.UserID) *model.AssessmentRecord {
	return &model.AssessmentRecord{
		UserID: userID,
		Type:   types.AssessmentTypeStandard,
		Answers: model.NewChoiceAnswers(map[types.QuestionID]int{
			"gov-policy": 10,
			"gov-review": 5,
		}),
		RiskScore: 75,
		RiskLevel: types.HealthLevelMedium,
		Status:    types.AssessmentStatusSubmitted,
	}
}

func runAssessmentTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Submit creates record and increments quota", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Assessment().Submit(ctx, newStandardRecord("user-1"), intPtr(3))
		if err != nil {
			t.Fatalf("failed to submit: %v", err)
		}

		if created.ID == "" {
			t.Error("expected generated assessment ID")
		}
		if created.Status != types.AssessmentStatusSubmitted {
			t.Errorf("expected status submitted, got %s", created.Status)
		}
		if created.CreatedAt.IsZero() {
			t.Error("expected non-zero CreatedAt")
		}

		counter, err := repo.Quota().Get(ctx, "user-1", types.AssessmentTypeStandard)
		if err != nil {
			t.Fatalf("failed to get quota counter: %v", err)
		}
		if counter.Count != 1 {
			t.Errorf("expected count=1, got %d", counter.Count)
		}
		if counter.Unlimited() {
			t.Error("expected counter to carry the default limit")
		}
		if counter.Remaining() != 2 {
			t.Errorf("expected remaining=2, got %d", counter.Remaining())
		}
	})

	t.Run("Submit with exhausted quota fails without side effects", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if _, err := repo.Assessment().Submit(ctx, newStandardRecord("user-2"), intPtr(1)); err != nil {
			t.Fatalf("first submit should succeed: %v", err)
		}

		_, err := repo.Assessment().Submit(ctx, newStandardRecord("user-2"), intPtr(1))
		if !errors.Is(err, model.ErrQuotaExhausted) {
			t.Fatalf("expected ErrQuotaExhausted, got %v", err)
		}

		// The denied submit must not consume quota or create a record.
		counter, err := repo.Quota().Get(ctx, "user-2", types.AssessmentTypeStandard)
		if err != nil {
			t.Fatalf("failed to get quota counter: %v", err)
		}
		if counter.Count != 1 {
			t.Errorf("expected count=1 after denial, got %d", counter.Count)
		}

		records, err := repo.Assessment().ListByUser(ctx, "user-2")
		if err != nil {
			t.Fatalf("failed to list records: %v", err)
		}
		if len(records) != 1 {
			t.Errorf("expected 1 record, got %d", len(records))
		}
	})

	t.Run("Submit with nil default limit is unlimited", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i := 0; i < 10; i++ {
			if _, err := repo.Assessment().Submit(ctx, newStandardRecord("user-3"), nil); err != nil {
				t.Fatalf("submit %d failed: %v", i, err)
			}
		}

		counter, err := repo.Quota().Get(ctx, "user-3", types.AssessmentTypeStandard)
		if err != nil {
			t.Fatalf("failed to get quota counter: %v", err)
		}
		if !counter.Unlimited() {
			t.Error("expected unlimited counter")
		}
		if counter.Count != 10 {
			t.Errorf("expected count=10, got %d", counter.Count)
		}
	})

	t.Run("Submit honors stored limit override over default", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if _, err := repo.Quota().SetLimit(ctx, "user-4", types.AssessmentTypeStandard, intPtr(0)); err != nil {
			t.Fatalf("failed to set limit: %v", err)
		}

		_, err := repo.Assessment().Submit(ctx, newStandardRecord("user-4"), intPtr(5))
		if !errors.Is(err, model.ErrQuotaExhausted) {
			t.Errorf("expected ErrQuotaExhausted with zero limit override, got %v", err)
		}
	})

	t.Run("concurrent submits for the last quota unit race safely", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		const attempts = 8
		var wg sync.WaitGroup
		errs := make([]error, attempts)

		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				_, errs[n] = repo.Assessment().Submit(ctx, newStandardRecord("user-5"), intPtr(1))
			}(i)
		}
		wg.Wait()

		successes := 0
		for _, err := range errs {
			if err == nil {
				successes++
			} else if !errors.Is(err, model.ErrQuotaExhausted) {
				t.Errorf("unexpected error: %v", err)
			}
		}
		if successes != 1 {
			t.Errorf("expected exactly 1 success, got %d", successes)
		}

		counter, err := repo.Quota().Get(ctx, "user-5", types.AssessmentTypeStandard)
		if err != nil {
			t.Fatalf("failed to get quota counter: %v", err)
		}
		if counter.Count != 1 {
			t.Errorf("count must never exceed the limit, got %d", counter.Count)
		}
	})

	t.Run("Get round-trips answers and score", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Assessment().Submit(ctx, newStandardRecord("user-6"), nil)
		if err != nil {
			t.Fatalf("failed to submit: %v", err)
		}

		retrieved, err := repo.Assessment().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get record: %v", err)
		}
		if retrieved.RiskScore != 75 {
			t.Errorf("expected stored score 75, got %d", retrieved.RiskScore)
		}
		if retrieved.RiskLevel != types.HealthLevelMedium {
			t.Errorf("expected stored level %s, got %s", types.HealthLevelMedium, retrieved.RiskLevel)
		}
		if got := retrieved.Answers.Choices["gov-policy"]; got != 10 {
			t.Errorf("expected answer 10, got %d", got)
		}
		if got := retrieved.Answers.Choices["gov-review"]; got != 5 {
			t.Errorf("expected answer 5, got %d", got)
		}
	})

	t.Run("Get returns ErrAssessmentNotFound for missing record", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Assessment().Get(ctx, "missing")
		if !errors.Is(err, model.ErrAssessmentNotFound) {
			t.Errorf("expected ErrAssessmentNotFound, got %v", err)
		}
	})

	t.Run("Update persists review fields and preserves CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Assessment().Submit(ctx, newStandardRecord("user-7"), nil)
		if err != nil {
			t.Fatalf("failed to submit: %v", err)
		}

		created.Status = types.AssessmentStatusInReview
		created.ConsultantNotes = "needs follow-up on continuity plan"

		updated, err := repo.Assessment().Update(ctx, created)
		if err != nil {
			t.Fatalf("failed to update record: %v", err)
		}
		if updated.Status != types.AssessmentStatusInReview {
			t.Errorf("expected status in_review, got %s", updated.Status)
		}
		if updated.ConsultantNotes != created.ConsultantNotes {
			t.Errorf("expected notes to persist, got %q", updated.ConsultantNotes)
		}
		if !updated.CreatedAt.Equal(created.CreatedAt) {
			t.Errorf("CreatedAt should not change, got %v", updated.CreatedAt)
		}
	})

	t.Run("ListByUser filters by user", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if _, err := repo.Assessment().Submit(ctx, newStandardRecord("user-8"), nil); err != nil {
			t.Fatalf("failed to submit: %v", err)
		}
		if _, err := repo.Assessment().Submit(ctx, newStandardRecord("user-9"), nil); err != nil {
			t.Fatalf("failed to submit: %v", err)
		}

		records, err := repo.Assessment().ListByUser(ctx, "user-8")
		if err != nil {
			t.Fatalf("failed to list records: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("expected 1 record, got %d", len(records))
		}
		if records[0].UserID != "user-8" {
			t.Errorf("expected user-8, got %s", records[0].UserID)
		}
	})
}
