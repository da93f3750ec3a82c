package types

import "fmt"

// AssessmentType represents the kind of assessment questionnaire
type AssessmentType string

const (
	// AssessmentTypeStandard is a multiple-choice questionnaire whose
	// health score is computed automatically at submission time.
	AssessmentTypeStandard AssessmentType = "standard"

	// AssessmentTypeEssay is a free-text questionnaire whose score is
	// only ever set manually by a reviewer.
	AssessmentTypeEssay AssessmentType = "essay"
)

// AllAssessmentTypes returns all valid assessment types
func AllAssessmentTypes() []AssessmentType {
	return []AssessmentType{
		AssessmentTypeStandard,
		AssessmentTypeEssay,
	}
}

// IsValid checks if the assessment type is valid
func (t AssessmentType) IsValid() bool {
	switch t {
	case AssessmentTypeStandard, AssessmentTypeEssay:
		return true
	default:
		return false
	}
}

// String returns the string representation of the assessment type
func (t AssessmentType) String() string {
	return string(t)
}

// ParseAssessmentType parses a string into an AssessmentType
func ParseAssessmentType(s string) (AssessmentType, error) {
	t := AssessmentType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid assessment type: %s", s)
	}
	return t, nil
}
