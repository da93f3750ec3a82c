package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/grc-lab/periksa/pkg/domain/types"
)

// AssessmentRecord is one submitted questionnaire. It is created once by
// the submission workflow and afterwards mutated only by the review
// state machine; records are never deleted here.
type AssessmentRecord struct {
	ID      types.AssessmentID
	UserID  types.UserID
	Type    types.AssessmentType
	Answers AnswerSet

	// RiskScore and RiskLevel are computed once at creation for standard
	// assessments. Essay assessments start at 0/unscored until a
	// reviewer sets a manual score.
	RiskScore int
	RiskLevel types.HealthLevel

	// ManualScored records that a reviewer has set a score at least
	// once; an essay record cannot be finalized before that.
	ManualScored bool

	Status             types.AssessmentStatus
	ConsultantNotes    string
	FinalReportContent string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAssessmentID issues a new random assessment record ID
func NewAssessmentID() types.AssessmentID {
	return types.AssessmentID(uuid.NewString())
}

// CanFinalize reports whether the record satisfies the finalize
// precondition: essay records must have been manually scored at least
// once, standard scores are fixed at submission time.
func (r *AssessmentRecord) CanFinalize() bool {
	if r.Type == types.AssessmentTypeEssay {
		return r.ManualScored
	}
	return true
}

// Clone returns a deep copy of the record
func (r *AssessmentRecord) Clone() *AssessmentRecord {
	copied := *r
	copied.Answers = r.Answers.Clone()
	return &copied
}
