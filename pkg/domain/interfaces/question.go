package interfaces

import (
	"context"

	"github.com/grc-lab/periksa/pkg/domain/model"
	"github.com/grc-lab/periksa/pkg/domain/types"
)

type QuestionRepository interface {
	// PutActive stores the active question set for its assessment type,
	// replacing any previous set
	PutActive(ctx context.Context, set *model.QuestionSet) error

	// GetActive retrieves the active question set for an assessment
	// type. Returns model.ErrQuestionSetNotFound when none is stored.
	GetActive(ctx context.Context, assessmentType types.AssessmentType) (*model.QuestionSet, error)
}
