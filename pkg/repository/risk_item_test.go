package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/grc-lab/periksa/pkg/domain/interfaces"
	"github.com/grc-lab/periksa/pkg/domain/model"
)

func runRiskItemTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create creates risk item with auto-increment ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		item1 := &model.RiskItem{
			Name:        "Unpatched internet-facing server",
			Description: "Public server missing security updates",
			RiskType:    "operational",
			Inherent:    model.ScoredPair{Likelihood: 4, Impact: 5},
			Residual:    model.ScoredPair{Likelihood: 2, Impact: 5},
		}

		created1, err := repo.RiskItem().Create(ctx, item1)
		if err != nil {
			t.Fatalf("failed to create item1: %v", err)
		}

		if created1.ID != 1 {
			t.Errorf("expected ID=1, got %d", created1.ID)
		}
		if created1.Name != item1.Name {
			t.Errorf("expected name=%s, got %s", item1.Name, created1.Name)
		}
		if created1.Inherent != item1.Inherent {
			t.Errorf("expected inherent pair %+v, got %+v", item1.Inherent, created1.Inherent)
		}
		if created1.CreatedAt.IsZero() {
			t.Error("expected non-zero CreatedAt")
		}

		created2, err := repo.RiskItem().Create(ctx, &model.RiskItem{
			Name:     "Regulatory reporting gap",
			RiskType: "compliance",
		})
		if err != nil {
			t.Fatalf("failed to create item2: %v", err)
		}
		if created2.ID != 2 {
			t.Errorf("expected ID=2, got %d", created2.ID)
		}
	})

	t.Run("Get retrieves existing risk item", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.RiskItem().Create(ctx, &model.RiskItem{
			Name:     "Third-party outage",
			RiskType: "operational",
			Inherent: model.ScoredPair{Likelihood: 3, Impact: 4},
		})
		if err != nil {
			t.Fatalf("failed to create item: %v", err)
		}

		retrieved, err := repo.RiskItem().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get item: %v", err)
		}
		if retrieved.Name != created.Name {
			t.Errorf("expected name=%s, got %s", created.Name, retrieved.Name)
		}
		if retrieved.Inherent.Score() != 12 {
			t.Errorf("expected inherent score 12, got %d", retrieved.Inherent.Score())
		}
	})

	t.Run("Get returns ErrRiskNotFound for missing item", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.RiskItem().Get(ctx, 99999)
		if !errors.Is(err, model.ErrRiskNotFound) {
			t.Errorf("expected ErrRiskNotFound, got %v", err)
		}
	})

	t.Run("Update modifies item and preserves CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.RiskItem().Create(ctx, &model.RiskItem{
			Name:     "Original",
			RiskType: "strategic",
		})
		if err != nil {
			t.Fatalf("failed to create item: %v", err)
		}

		time.Sleep(10 * time.Millisecond)

		updated, err := repo.RiskItem().Update(ctx, &model.RiskItem{
			ID:       created.ID,
			Name:     "Updated",
			RiskType: "strategic",
			Residual: model.ScoredPair{Likelihood: 1, Impact: 2},
		})
		if err != nil {
			t.Fatalf("failed to update item: %v", err)
		}

		if updated.Name != "Updated" {
			t.Errorf("expected name=Updated, got %s", updated.Name)
		}
		if !updated.CreatedAt.Equal(created.CreatedAt) {
			t.Errorf("CreatedAt should not change, got %v", updated.CreatedAt)
		}
		if !updated.UpdatedAt.After(created.UpdatedAt) {
			t.Errorf("UpdatedAt should advance, got %v", updated.UpdatedAt)
		}
	})

	t.Run("Update returns error for non-existent item", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.RiskItem().Update(ctx, &model.RiskItem{ID: 99999, Name: "ghost"})
		if !errors.Is(err, model.ErrRiskNotFound) {
			t.Errorf("expected ErrRiskNotFound, got %v", err)
		}
	})

	t.Run("List returns all items ordered by ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, name := range []string{"first", "second", "third"} {
			if _, err := repo.RiskItem().Create(ctx, &model.RiskItem{Name: name, RiskType: "operational"}); err != nil {
				t.Fatalf("failed to create item %s: %v", name, err)
			}
		}

		items, err := repo.RiskItem().List(ctx)
		if err != nil {
			t.Fatalf("failed to list items: %v", err)
		}
		if len(items) != 3 {
			t.Fatalf("expected 3 items, got %d", len(items))
		}
		for i := 1; i < len(items); i++ {
			if items[i].ID <= items[i-1].ID {
				t.Errorf("items not ordered by ID: %d after %d", items[i].ID, items[i-1].ID)
			}
		}
	})

	t.Run("Delete removes item", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.RiskItem().Create(ctx, &model.RiskItem{Name: "to delete", RiskType: "operational"})
		if err != nil {
			t.Fatalf("failed to create item: %v", err)
		}

		if err := repo.RiskItem().Delete(ctx, created.ID); err != nil {
			t.Fatalf("failed to delete item: %v", err)
		}

		if _, err := repo.RiskItem().Get(ctx, created.ID); !errors.Is(err, model.ErrRiskNotFound) {
			t.Errorf("expected ErrRiskNotFound after delete, got %v", err)
		}

		if err := repo.RiskItem().Delete(ctx, created.ID); !errors.Is(err, model.ErrRiskNotFound) {
			t.Errorf("expected ErrRiskNotFound on double delete, got %v", err)
		}
	})
}
