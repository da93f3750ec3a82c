package usecase

import "errors"

// Sentinel errors for the use case layer
var (
	// Submission validation errors
	ErrIncompleteAnswers = errors.New("not all questions are answered")
	ErrUnknownQuestion   = errors.New("answer references an unknown question")
	ErrInvalidAnswer     = errors.New("answer does not match any option")

	// Quota errors. ForType means other assessment types still have
	// quota left; ForAll means every type is exhausted.
	ErrQuotaExceededForType = errors.New("submission quota exceeded for this assessment type")
	ErrQuotaExceededForAll  = errors.New("submission quota exceeded for all assessment types")

	// Review errors
	ErrPermissionDenied    = errors.New("actor is not allowed to perform this operation")
	ErrInvalidTransition   = errors.New("invalid review status transition")
	ErrManualScoreRequired = errors.New("essay assessment requires a manual score before finalize")
	ErrInvalidManualScore  = errors.New("manual score is not applicable")

	// Collaborator errors
	ErrCollaboratorUnavailable = errors.New("narrative collaborator is unavailable")

	// Risk register errors
	ErrInvalidRiskItem = errors.New("risk item is invalid")

	// Not found errors
	ErrAssessmentNotFound  = errors.New("assessment not found")
	ErrQuestionSetNotFound = errors.New("question set not found")
	ErrRiskNotFound        = errors.New("risk item not found")
)

// Context keys for error values
const (
	AssessmentIDKey = "assessment_id"
	UserIDKey       = "user_id"
	TypeKey         = "assessment_type"
	UnansweredKey   = "unanswered_count"
)
