package interfaces

import (
	"context"

	"github.com/grc-lab/periksa/pkg/domain/model"
)

type RiskItemRepository interface {
	// Create creates a new risk item with auto-generated ID
	Create(ctx context.Context, item *model.RiskItem) (*model.RiskItem, error)

	// Get retrieves a risk item by ID
	Get(ctx context.Context, id int64) (*model.RiskItem, error)

	// List retrieves all risk items
	List(ctx context.Context) ([]*model.RiskItem, error)

	// Update updates an existing risk item
	Update(ctx context.Context, item *model.RiskItem) (*model.RiskItem, error)

	// Delete deletes a risk item by ID
	Delete(ctx context.Context, id int64) error
}
