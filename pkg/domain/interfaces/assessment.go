package interfaces

import (
	"context"

	"github.com/grc-lab/periksa/pkg/domain/model"
	"github.com/grc-lab/periksa/pkg/domain/types"
)

type AssessmentRepository interface {
	// Submit atomically reserves one unit of quota for the record's
	// user and type, then creates the record. Either both happen or
	// neither: when no quota remains, model.ErrQuotaExhausted is
	// returned and the counter stays untouched. defaultLimit is the
	// configured cap applied when no counter exists yet for the pair
	// (nil means unlimited).
	Submit(ctx context.Context, record *model.AssessmentRecord, defaultLimit *int) (*model.AssessmentRecord, error)

	// Get retrieves an assessment record by ID
	Get(ctx context.Context, id types.AssessmentID) (*model.AssessmentRecord, error)

	// List retrieves all assessment records
	List(ctx context.Context) ([]*model.AssessmentRecord, error)

	// ListByUser retrieves the records submitted by one user
	ListByUser(ctx context.Context, userID types.UserID) ([]*model.AssessmentRecord, error)

	// Update updates an existing assessment record. Records are never
	// deleted through this interface.
	Update(ctx context.Context, record *model.AssessmentRecord) (*model.AssessmentRecord, error)
}
