package config

import "github.com/grc-lab/periksa/pkg/domain/types"

// Scoring holds the health-score normalization settings. The maximum
// points per question is kept configurable until the constant is
// confirmed against the authoritative scoring service.
type Scoring struct {
	MaxPointsPerQuestion int
}

// QuotaDefault is the default submission cap applied to a user/type pair
// that has no stored override. A nil Limit means unlimited.
type QuotaDefault struct {
	Type  types.AssessmentType
	Limit *int
}

// EngineConfig holds all scoring and quota configuration consumed by the
// use case layer
type EngineConfig struct {
	Scoring       Scoring
	QuotaDefaults []QuotaDefault
}

// DefaultLimit resolves the default quota limit for an assessment type.
// Types without an entry are unlimited.
func (c *EngineConfig) DefaultLimit(assessmentType types.AssessmentType) *int {
	if c == nil {
		return nil
	}
	for _, d := range c.QuotaDefaults {
		if d.Type == assessmentType {
			return d.Limit
		}
	}
	return nil
}

// MaxPointsPerQuestion returns the configured normalization constant,
// falling back to the 0/5/10 option scale maximum
func (c *EngineConfig) MaxPointsPerQuestion() int {
	if c == nil || c.Scoring.MaxPointsPerQuestion <= 0 {
		return 10
	}
	return c.Scoring.MaxPointsPerQuestion
}
