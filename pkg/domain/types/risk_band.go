package types

// RiskBand is an ordinal severity band derived from a likelihood×impact
// score. Severity grows with the numeric value, so bands can be compared
// directly.
type RiskBand int

const (
	// BandUndefined is returned for an unscorable pair (any level outside
	// 1..5). It is not a band of its own and carries no score range.
	BandUndefined RiskBand = iota
	BandLow
	BandLowToModerate
	BandModerate
	BandModerateToHigh
	BandHigh
)

// AllRiskBands returns the real bands ordered from least to most severe,
// excluding BandUndefined.
func AllRiskBands() []RiskBand {
	return []RiskBand{
		BandLow,
		BandLowToModerate,
		BandModerate,
		BandModerateToHigh,
		BandHigh,
	}
}

// Band ranges are inclusive lower bounds. A boundary score (exactly 15,
// 8, 4 or 2) belongs to the higher band; existing reports depend on this,
// do not change it.
var bandInfo = map[RiskBand]struct {
	label    string
	min, max int
	color    string
}{
	BandLow:            {label: "Low", min: 1, max: 1, color: "#22c55e"},
	BandLowToModerate:  {label: "Low to Moderate", min: 2, max: 3, color: "#84cc16"},
	BandModerate:       {label: "Moderate", min: 4, max: 7, color: "#eab308"},
	BandModerateToHigh: {label: "Moderate to High", min: 8, max: 14, color: "#f97316"},
	BandHigh:           {label: "High", min: 15, max: 25, color: "#ef4444"},
}

// ClassifyRiskScore maps a likelihood×impact score (1..25) to its band.
// Scores outside the domain yield BandUndefined rather than an error:
// upstream data may be incomplete while a register entry is being edited.
func ClassifyRiskScore(score int) RiskBand {
	switch {
	case score > 25:
		return BandUndefined
	case score >= 15:
		return BandHigh
	case score >= 8:
		return BandModerateToHigh
	case score >= 4:
		return BandModerate
	case score >= 2:
		return BandLowToModerate
	case score == 1:
		return BandLow
	default:
		return BandUndefined
	}
}

// IsValid checks if the risk band is a real band
func (b RiskBand) IsValid() bool {
	_, ok := bandInfo[b]
	return ok
}

// Label returns the display label of the band
func (b RiskBand) Label() string {
	if info, ok := bandInfo[b]; ok {
		return info.label
	}
	return "Undefined"
}

// Color returns the display color of the band as a hex code
func (b RiskBand) Color() string {
	if info, ok := bandInfo[b]; ok {
		return info.color
	}
	return "#9ca3af"
}

// MinScore returns the inclusive lower bound of the band's score range
func (b RiskBand) MinScore() int {
	return bandInfo[b].min
}

// MaxScore returns the inclusive upper bound of the band's score range
func (b RiskBand) MaxScore() int {
	return bandInfo[b].max
}

// Severity returns the ordinal severity of the band (1..5, 0 for
// BandUndefined)
func (b RiskBand) Severity() int {
	return int(b)
}

// String returns the display label of the band
func (b RiskBand) String() string {
	return b.Label()
}
