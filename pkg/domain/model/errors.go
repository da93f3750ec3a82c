package model

import "errors"

// Sentinel errors shared by all repository backends
var (
	ErrRiskNotFound        = errors.New("risk item not found")
	ErrAssessmentNotFound  = errors.New("assessment record not found")
	ErrQuestionSetNotFound = errors.New("question set not found")
	ErrQuotaNotFound       = errors.New("quota counter not found")

	// ErrQuotaExhausted is returned by the atomic submit when the
	// counter for the record's user and type has no remaining quota.
	// The counter is not incremented and no record is created.
	ErrQuotaExhausted = errors.New("quota exhausted")
)
