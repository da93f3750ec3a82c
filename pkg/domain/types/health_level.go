package types

// HealthLevel is the classification of a 0-100 health score from the
// quick risk check. Polarity is the inverse of RiskBand: a higher score
// means a healthier organization.
type HealthLevel string

const (
	HealthLevelLow    HealthLevel = "Low Risk (Optimized)"
	HealthLevelMedium HealthLevel = "Medium Risk (Managed)"
	HealthLevelHigh   HealthLevel = "High Risk (Vulnerable)"

	// HealthLevelUnscored is the sentinel for essay assessments until a
	// reviewer sets a manual score.
	HealthLevelUnscored HealthLevel = "unscored"
)

// ClassifyHealthScore maps a 0-100 health score to its level. Thresholds
// are inclusive: exactly 80 is low risk, exactly 50 is medium risk.
func ClassifyHealthScore(score int) HealthLevel {
	switch {
	case score >= 80:
		return HealthLevelLow
	case score >= 50:
		return HealthLevelMedium
	default:
		return HealthLevelHigh
	}
}

// IsScored reports whether the level is a real classification rather
// than the unscored sentinel
func (h HealthLevel) IsScored() bool {
	switch h {
	case HealthLevelLow, HealthLevelMedium, HealthLevelHigh:
		return true
	default:
		return false
	}
}

// String returns the string representation of the health level
func (h HealthLevel) String() string {
	return string(h)
}
