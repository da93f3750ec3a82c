package types

import "fmt"

// AssessmentStatus represents the review status of an assessment record
type AssessmentStatus string

const (
	AssessmentStatusSubmitted AssessmentStatus = "submitted"
	AssessmentStatusInReview  AssessmentStatus = "in_review"
	AssessmentStatusCompleted AssessmentStatus = "completed"
)

// AllAssessmentStatuses returns all valid assessment statuses
func AllAssessmentStatuses() []AssessmentStatus {
	return []AssessmentStatus{
		AssessmentStatusSubmitted,
		AssessmentStatusInReview,
		AssessmentStatusCompleted,
	}
}

// IsValid checks if the assessment status is valid
func (s AssessmentStatus) IsValid() bool {
	switch s {
	case AssessmentStatusSubmitted,
		AssessmentStatusInReview,
		AssessmentStatusCompleted:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is possible
func (s AssessmentStatus) IsTerminal() bool {
	return s == AssessmentStatusCompleted
}

// Next returns the status after applying the given review action. The
// second return value is false when the (status, action) pair is not a
// legal transition. Re-opening a record that is already in review or
// completed is a legal no-op.
func (s AssessmentStatus) Next(action ReviewAction) (AssessmentStatus, bool) {
	switch action {
	case ReviewActionOpen:
		switch s {
		case AssessmentStatusSubmitted:
			return AssessmentStatusInReview, true
		case AssessmentStatusInReview, AssessmentStatusCompleted:
			return s, true
		}
	case ReviewActionFinalize:
		if s == AssessmentStatusInReview {
			return AssessmentStatusCompleted, true
		}
	}
	return s, false
}

// String returns the string representation of the assessment status
func (s AssessmentStatus) String() string {
	return string(s)
}

// ParseAssessmentStatus parses a string into an AssessmentStatus
func ParseAssessmentStatus(s string) (AssessmentStatus, error) {
	status := AssessmentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid assessment status: %s", s)
	}
	return status, nil
}
