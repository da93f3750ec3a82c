package model

import "math"

// DefaultMaxPointsPerQuestion is the highest point value a single
// standard-type answer option can carry (options score 0, 5 or 10).
const DefaultMaxPointsPerQuestion = 10

// HealthScore normalizes a raw point sum over questionCount questions to
// the 0-100 health scale: round(100 * sum / (maxPoints * questionCount)).
//
// The denominator constant is configurable because the authoritative
// scoring service has not confirmed it; maxPoints <= 0 falls back to
// DefaultMaxPointsPerQuestion. A non-positive questionCount yields 0.
func HealthScore(sum, questionCount, maxPoints int) int {
	if questionCount <= 0 || sum < 0 {
		return 0
	}
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPointsPerQuestion
	}
	score := int(math.Round(100 * float64(sum) / float64(maxPoints*questionCount)))
	if score > 100 {
		score = 100
	}
	return score
}
