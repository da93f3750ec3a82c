package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/periksa/pkg/domain/interfaces"
	"github.com/grc-lab/periksa/pkg/domain/model"
)

// RiskUseCase manages the risk register feeding the matrix aggregator
type RiskUseCase struct {
	repo interfaces.Repository
}

func NewRiskUseCase(repo interfaces.Repository) *RiskUseCase {
	return &RiskUseCase{repo: repo}
}

func validateRiskItem(item *model.RiskItem) error {
	if item.Name == "" {
		return goerr.Wrap(ErrInvalidRiskItem, "risk item name is required")
	}
	if item.RiskType == "" {
		return goerr.Wrap(ErrInvalidRiskItem, "risk type is required", goerr.V("name", item.Name))
	}
	for _, pair := range []struct {
		field string
		value model.ScoredPair
	}{
		{"inherent", item.Inherent},
		{"residual", item.Residual},
	} {
		if err := validateScoredPair(pair.field, pair.value); err != nil {
			return err
		}
	}
	return nil
}

// validateScoredPair allows the zero value (not yet scored) but rejects
// levels outside the 1..5 scales
func validateScoredPair(field string, pair model.ScoredPair) error {
	if pair.Likelihood == 0 && pair.Impact == 0 {
		return nil
	}
	if !pair.IsScorable() {
		return goerr.Wrap(ErrInvalidRiskItem, "likelihood and impact must both be between 1 and 5",
			goerr.V("field", field),
			goerr.V("likelihood", pair.Likelihood),
			goerr.V("impact", pair.Impact))
	}
	return nil
}

// Create adds a risk item to the register
func (uc *RiskUseCase) Create(ctx context.Context, item *model.RiskItem) (*model.RiskItem, error) {
	if err := validateRiskItem(item); err != nil {
		return nil, err
	}

	created, err := uc.repo.RiskItem().Create(ctx, item)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create risk item", goerr.V("name", item.Name))
	}
	return created, nil
}

// Get retrieves one risk item
func (uc *RiskUseCase) Get(ctx context.Context, id int64) (*model.RiskItem, error) {
	item, err := uc.repo.RiskItem().Get(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrRiskNotFound) {
			return nil, goerr.Wrap(ErrRiskNotFound, "risk item not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get risk item", goerr.V("id", id))
	}
	return item, nil
}

// List retrieves the whole register
func (uc *RiskUseCase) List(ctx context.Context) ([]*model.RiskItem, error) {
	items, err := uc.repo.RiskItem().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risk items")
	}
	return items, nil
}

// Update replaces a risk item
func (uc *RiskUseCase) Update(ctx context.Context, item *model.RiskItem) (*model.RiskItem, error) {
	if err := validateRiskItem(item); err != nil {
		return nil, err
	}

	updated, err := uc.repo.RiskItem().Update(ctx, item)
	if err != nil {
		if errors.Is(err, model.ErrRiskNotFound) {
			return nil, goerr.Wrap(ErrRiskNotFound, "risk item not found", goerr.V("id", item.ID))
		}
		return nil, goerr.Wrap(err, "failed to update risk item", goerr.V("id", item.ID))
	}
	return updated, nil
}

// Delete removes a risk item from the register
func (uc *RiskUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.repo.RiskItem().Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrRiskNotFound) {
			return goerr.Wrap(ErrRiskNotFound, "risk item not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to delete risk item", goerr.V("id", id))
	}
	return nil
}

// Aggregate builds the dashboard view over the whole register: the 5x5
// matrices, band and type distributions and summary statistics
func (uc *RiskUseCase) Aggregate(ctx context.Context) (*model.AggregateResult, error) {
	items, err := uc.repo.RiskItem().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risk items for aggregation")
	}
	return model.Aggregate(items), nil
}
