package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/grc-lab/periksa/pkg/domain/model"
	"github.com/grc-lab/periksa/pkg/domain/types"
)

type quotaKey struct {
	userID         types.UserID
	assessmentType types.AssessmentType
}

type quotaRepository struct {
	// mu is shared with the assessment repository so a submit can
	// reserve quota and create the record in one critical section.
	mu       *sync.Mutex
	counters map[quotaKey]*model.QuotaCounter
}

func newQuotaRepository(mu *sync.Mutex) *quotaRepository {
	return &quotaRepository{
		mu:       mu,
		counters: make(map[quotaKey]*model.QuotaCounter),
	}
}

func copyQuotaCounter(c *model.QuotaCounter) *model.QuotaCounter {
	copied := *c
	if c.Limit != nil {
		limit := *c.Limit
		copied.Limit = &limit
	}
	return &copied
}

func (r *quotaRepository) Get(ctx context.Context, userID types.UserID, assessmentType types.AssessmentType) (*model.QuotaCounter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counter, exists := r.counters[quotaKey{userID: userID, assessmentType: assessmentType}]
	if !exists {
		return nil, goerr.Wrap(model.ErrQuotaNotFound, "quota counter not found",
			goerr.V("userID", userID), goerr.V("type", assessmentType))
	}

	return copyQuotaCounter(counter), nil
}

func (r *quotaRepository) List(ctx context.Context, userID types.UserID) ([]*model.QuotaCounter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var counters []*model.QuotaCounter
	for key, counter := range r.counters {
		if key.userID == userID {
			counters = append(counters, copyQuotaCounter(counter))
		}
	}

	sort.Slice(counters, func(i, j int) bool {
		return counters[i].Type < counters[j].Type
	})

	return counters, nil
}

func (r *quotaRepository) SetLimit(ctx context.Context, userID types.UserID, assessmentType types.AssessmentType, limit *int) (*model.QuotaCounter, error) {
	if limit != nil && *limit < 0 {
		return nil, goerr.New("quota limit cannot be negative", goerr.V("limit", *limit))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := quotaKey{userID: userID, assessmentType: assessmentType}
	counter, exists := r.counters[key]
	if !exists {
		counter = &model.QuotaCounter{UserID: userID, Type: assessmentType}
		r.counters[key] = counter
	}

	if limit != nil {
		value := *limit
		counter.Limit = &value
	} else {
		counter.Limit = nil
	}

	return copyQuotaCounter(counter), nil
}

// reserveLocked increments the counter if quota remains. The caller must
// hold mu. A missing counter is created with defaultLimit.
func (r *quotaRepository) reserveLocked(userID types.UserID, assessmentType types.AssessmentType, defaultLimit *int) error {
	key := quotaKey{userID: userID, assessmentType: assessmentType}
	counter, exists := r.counters[key]
	if !exists {
		counter = &model.QuotaCounter{UserID: userID, Type: assessmentType}
		if defaultLimit != nil {
			limit := *defaultLimit
			counter.Limit = &limit
		}
		r.counters[key] = counter
	}

	if counter.Exhausted() {
		return goerr.Wrap(model.ErrQuotaExhausted, "no quota remaining",
			goerr.V("userID", userID), goerr.V("type", assessmentType), goerr.V("count", counter.Count))
	}

	counter.Count++
	return nil
}
