package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/grc-lab/periksa/pkg/domain/model"
	"github.com/grc-lab/periksa/pkg/domain/types"
)

type assessmentRepository struct {
	mu      *sync.Mutex
	quota   *quotaRepository
	records map[types.AssessmentID]*model.AssessmentRecord
}

func newAssessmentRepository(mu *sync.Mutex, quota *quotaRepository) *assessmentRepository {
	return &assessmentRepository{
		mu:      mu,
		quota:   quota,
		records: make(map[types.AssessmentID]*model.AssessmentRecord),
	}
}

func (r *assessmentRepository) Submit(ctx context.Context, record *model.AssessmentRecord, defaultLimit *int) (*model.AssessmentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Reserve first: if the counter is exhausted nothing is written.
	if err := r.quota.reserveLocked(record.UserID, record.Type, defaultLimit); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := record.Clone()
	if created.ID == "" {
		created.ID = model.NewAssessmentID()
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	r.records[created.ID] = created
	return created.Clone(), nil
}

func (r *assessmentRepository) Get(ctx context.Context, id types.AssessmentID) (*model.AssessmentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, exists := r.records[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrAssessmentNotFound, "assessment record not found", goerr.V("id", id))
	}

	return record.Clone(), nil
}

func (r *assessmentRepository) List(ctx context.Context) ([]*model.AssessmentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := make([]*model.AssessmentRecord, 0, len(r.records))
	for _, record := range r.records {
		records = append(records, record.Clone())
	}

	sortRecords(records)
	return records, nil
}

func (r *assessmentRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*model.AssessmentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []*model.AssessmentRecord
	for _, record := range r.records {
		if record.UserID == userID {
			records = append(records, record.Clone())
		}
	}

	sortRecords(records)
	return records, nil
}

func (r *assessmentRepository) Update(ctx context.Context, record *model.AssessmentRecord) (*model.AssessmentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.records[record.ID]
	if !exists {
		return nil, goerr.Wrap(model.ErrAssessmentNotFound, "assessment record not found", goerr.V("id", record.ID))
	}

	updated := record.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.records[record.ID] = updated
	return updated.Clone(), nil
}

// sortRecords orders newest first, ID as tie-breaker for stable output
func sortRecords(records []*model.AssessmentRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
}
