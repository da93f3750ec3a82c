package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

var idPattern = regexp.MustCompile(`^[a-z0-9]+([-_][a-z0-9]+)*$`)

// UserID represents a unique identifier for a user, issued by the
// external identity collaborator.
type UserID string

// Validate checks if the UserID is valid
func (u UserID) Validate() error {
	if u == "" {
		return goerr.New("user ID cannot be empty")
	}
	return nil
}

// String returns the string representation of UserID
func (u UserID) String() string {
	return string(u)
}

// AssessmentID represents a unique identifier for an assessment record
type AssessmentID string

// Validate checks if the AssessmentID is valid
func (a AssessmentID) Validate() error {
	if a == "" {
		return goerr.New("assessment ID cannot be empty")
	}
	return nil
}

// String returns the string representation of AssessmentID
func (a AssessmentID) String() string {
	return string(a)
}

// QuestionID represents a unique identifier for a questionnaire question
type QuestionID string

// Validate checks if the QuestionID is valid
func (q QuestionID) Validate() error {
	if q == "" {
		return goerr.New("question ID cannot be empty")
	}
	if !idPattern.MatchString(string(q)) {
		return goerr.New("question ID must be lowercase alphanumeric with hyphens or underscores", goerr.V("id", q))
	}
	return nil
}

// String returns the string representation of QuestionID
func (q QuestionID) String() string {
	return string(q)
}

// DimensionName represents a questionnaire dimension (the category a
// question belongs to, shown as one wizard step)
type DimensionName string

// Validate checks if the DimensionName is valid
func (d DimensionName) Validate() error {
	if d == "" {
		return goerr.New("dimension name cannot be empty")
	}
	return nil
}

// String returns the string representation of DimensionName
func (d DimensionName) String() string {
	return string(d)
}
