package interfaces

import (
	"context"

	"github.com/grc-lab/periksa/pkg/domain/model"
	"github.com/grc-lab/periksa/pkg/domain/types"
)

type QuotaRepository interface {
	// Get retrieves the counter for a user and assessment type.
	// Returns model.ErrQuotaNotFound when nothing has been stored yet.
	Get(ctx context.Context, userID types.UserID, assessmentType types.AssessmentType) (*model.QuotaCounter, error)

	// List retrieves all stored counters of a user
	List(ctx context.Context, userID types.UserID) ([]*model.QuotaCounter, error)

	// SetLimit sets the cap for a user and assessment type, creating
	// the counter when absent. A nil limit means unlimited. The count
	// is never changed by this operation.
	SetLimit(ctx context.Context, userID types.UserID, assessmentType types.AssessmentType, limit *int) (*model.QuotaCounter, error)
}
