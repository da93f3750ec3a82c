package model

import (
	"time"

	"github.com/grc-lab/periksa/pkg/domain/types"
)

// RiskItem is one entry of the risk register. Inherent and residual
// pairs are scored independently; either may be unscorable while the
// item is still being edited.
type RiskItem struct {
	ID          int64
	Name        string
	Description string
	RiskType    string
	Owner       types.UserID
	Inherent    ScoredPair
	Residual    ScoredPair
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InherentBand returns the band of the inherent pair
func (r *RiskItem) InherentBand() types.RiskBand {
	return r.Inherent.Band()
}

// ResidualBand returns the band of the residual pair
func (r *RiskItem) ResidualBand() types.RiskBand {
	return r.Residual.Band()
}

// Ref returns a lightweight reference for matrix cell membership
func (r *RiskItem) Ref() RiskItemRef {
	return RiskItemRef{ID: r.ID, Name: r.Name}
}

// RiskItemRef identifies a risk item inside an aggregation result
type RiskItemRef struct {
	ID   int64
	Name string
}
