package model

import "github.com/grc-lab/periksa/pkg/domain/types"

// ScoredPair is a likelihood/impact pair on the 1..5 scales. A risk item
// carries two independent pairs: inherent (before controls) and residual
// (after controls). The zero value is unscorable.
type ScoredPair struct {
	Likelihood int
	Impact     int
}

// IsScorable reports whether both levels are inside the 1..5 domain.
// Unscorable pairs are excluded from banding and matrices but counted
// separately as unscored.
func (p ScoredPair) IsScorable() bool {
	return p.Likelihood >= 1 && p.Likelihood <= 5 &&
		p.Impact >= 1 && p.Impact <= 5
}

// Score returns likelihood×impact (1..25), or 0 for an unscorable pair
func (p ScoredPair) Score() int {
	if !p.IsScorable() {
		return 0
	}
	return p.Likelihood * p.Impact
}

// Band returns the risk band of the pair, BandUndefined when unscorable
func (p ScoredPair) Band() types.RiskBand {
	return types.ClassifyRiskScore(p.Score())
}
