package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/grc-lab/periksa/pkg/domain/model"
)

type riskItemRepository struct {
	mu     sync.RWMutex
	items  map[int64]*model.RiskItem
	nextID int64
}

func newRiskItemRepository() *riskItemRepository {
	return &riskItemRepository{
		items:  make(map[int64]*model.RiskItem),
		nextID: 1,
	}
}

func copyRiskItem(item *model.RiskItem) *model.RiskItem {
	copied := *item
	return &copied
}

func (r *riskItemRepository) Create(ctx context.Context, item *model.RiskItem) (*model.RiskItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyRiskItem(item)
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.items[created.ID] = created
	return copyRiskItem(created), nil
}

func (r *riskItemRepository) Get(ctx context.Context, id int64) (*model.RiskItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrRiskNotFound, "risk item not found", goerr.V("id", id))
	}

	// Return a copy to prevent external modification
	return copyRiskItem(item), nil
}

func (r *riskItemRepository) List(ctx context.Context) ([]*model.RiskItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*model.RiskItem, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, copyRiskItem(item))
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})

	return items, nil
}

func (r *riskItemRepository) Update(ctx context.Context, item *model.RiskItem) (*model.RiskItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.items[item.ID]
	if !exists {
		return nil, goerr.Wrap(model.ErrRiskNotFound, "risk item not found", goerr.V("id", item.ID))
	}

	updated := copyRiskItem(item)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.items[item.ID] = updated
	return copyRiskItem(updated), nil
}

func (r *riskItemRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[id]; !exists {
		return goerr.Wrap(model.ErrRiskNotFound, "risk item not found", goerr.V("id", id))
	}

	delete(r.items, id)
	return nil
}
