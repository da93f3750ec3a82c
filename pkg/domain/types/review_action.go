package types

import "fmt"

// ReviewAction represents a reviewer-triggered transition of an
// assessment record
type ReviewAction string

const (
	// ReviewActionOpen marks a submitted record as being in review.
	ReviewActionOpen ReviewAction = "open"

	// ReviewActionFinalize completes a record under review.
	ReviewActionFinalize ReviewAction = "finalize"
)

// AllReviewActions returns all valid review actions
func AllReviewActions() []ReviewAction {
	return []ReviewAction{
		ReviewActionOpen,
		ReviewActionFinalize,
	}
}

// IsValid checks if the review action is valid
func (a ReviewAction) IsValid() bool {
	switch a {
	case ReviewActionOpen, ReviewActionFinalize:
		return true
	default:
		return false
	}
}

// String returns the string representation of the review action
func (a ReviewAction) String() string {
	return string(a)
}

// ParseReviewAction parses a string into a ReviewAction
func ParseReviewAction(s string) (ReviewAction, error) {
	action := ReviewAction(s)
	if !action.IsValid() {
		return "", fmt.Errorf("invalid review action: %s", s)
	}
	return action, nil
}
