package model

import "github.com/grc-lab/periksa/pkg/domain/types"

// QuotaCounter tracks how many assessments of one type a user has
// submitted against a cap. A nil Limit means unlimited. Count is only
// ever mutated by a successful submission; changing the limit never
// retroactively changes the count.
type QuotaCounter struct {
	UserID types.UserID
	Type   types.AssessmentType
	Count  int
	Limit  *int
}

// Unlimited reports whether the counter has no cap
func (q *QuotaCounter) Unlimited() bool {
	return q.Limit == nil
}

// Remaining returns max(limit-count, 0). Only meaningful for limited
// counters; callers must check Unlimited first.
func (q *QuotaCounter) Remaining() int {
	if q.Limit == nil {
		return 0
	}
	if remaining := *q.Limit - q.Count; remaining > 0 {
		return remaining
	}
	return 0
}

// Exhausted reports whether no quota is left for this counter
func (q *QuotaCounter) Exhausted() bool {
	return !q.Unlimited() && q.Remaining() == 0
}
