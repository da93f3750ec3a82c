package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/grc-lab/periksa/pkg/domain/interfaces"
	"github.com/grc-lab/periksa/pkg/domain/model"
	"github.com/grc-lab/periksa/pkg/domain/types"
)

func runQuotaTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Get returns ErrQuotaNotFound before first use", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Quota().Get(ctx, "quota-user-1", types.AssessmentTypeStandard)
		if !errors.Is(err, model.ErrQuotaNotFound) {
			t.Errorf("expected ErrQuotaNotFound, got %v", err)
		}
	})

	t.Run("SetLimit creates counter with zero count", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		counter, err := repo.Quota().SetLimit(ctx, "quota-user-2", types.AssessmentTypeEssay, intPtr(5))
		if err != nil {
			t.Fatalf("failed to set limit: %v", err)
		}
		if counter.Count != 0 {
			t.Errorf("expected count=0, got %d", counter.Count)
		}
		if counter.Limit == nil || *counter.Limit != 5 {
			t.Errorf("expected limit=5, got %v", counter.Limit)
		}
		if counter.Remaining() != 5 {
			t.Errorf("expected remaining=5, got %d", counter.Remaining())
		}
	})

	t.Run("SetLimit preserves existing count", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if _, err := repo.Assessment().Submit(ctx, newStandardRecord("quota-user-3"), intPtr(10)); err != nil {
			t.Fatalf("failed to submit: %v", err)
		}

		counter, err := repo.Quota().SetLimit(ctx, "quota-user-3", types.AssessmentTypeStandard, intPtr(2))
		if err != nil {
			t.Fatalf("failed to set limit: %v", err)
		}
		if counter.Count != 1 {
			t.Errorf("expected count=1 to survive the limit change, got %d", counter.Count)
		}
		if counter.Remaining() != 1 {
			t.Errorf("expected remaining=1, got %d", counter.Remaining())
		}
	})

	t.Run("SetLimit with nil clears the cap", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if _, err := repo.Quota().SetLimit(ctx, "quota-user-4", types.AssessmentTypeStandard, intPtr(1)); err != nil {
			t.Fatalf("failed to set limit: %v", err)
		}

		counter, err := repo.Quota().SetLimit(ctx, "quota-user-4", types.AssessmentTypeStandard, nil)
		if err != nil {
			t.Fatalf("failed to clear limit: %v", err)
		}
		if !counter.Unlimited() {
			t.Error("expected unlimited counter after clearing the cap")
		}
	})

	t.Run("SetLimit rejects negative values", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if _, err := repo.Quota().SetLimit(ctx, "quota-user-5", types.AssessmentTypeStandard, intPtr(-1)); err == nil {
			t.Error("expected error for negative limit")
		}
	})

	t.Run("List returns counters of one user only", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if _, err := repo.Quota().SetLimit(ctx, "quota-user-6", types.AssessmentTypeStandard, intPtr(3)); err != nil {
			t.Fatalf("failed to set limit: %v", err)
		}
		if _, err := repo.Quota().SetLimit(ctx, "quota-user-6", types.AssessmentTypeEssay, intPtr(1)); err != nil {
			t.Fatalf("failed to set limit: %v", err)
		}
		if _, err := repo.Quota().SetLimit(ctx, "quota-user-7", types.AssessmentTypeStandard, intPtr(2)); err != nil {
			t.Fatalf("failed to set limit: %v", err)
		}

		counters, err := repo.Quota().List(ctx, "quota-user-6")
		if err != nil {
			t.Fatalf("failed to list counters: %v", err)
		}
		if len(counters) != 2 {
			t.Fatalf("expected 2 counters, got %d", len(counters))
		}
		for _, counter := range counters {
			if counter.UserID != "quota-user-6" {
				t.Errorf("unexpected user %s in list", counter.UserID)
			}
		}
	})
}
