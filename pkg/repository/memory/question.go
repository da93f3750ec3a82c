package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/grc-lab/periksa/pkg/domain/model"
	"github.com/grc-lab/periksa/pkg/domain/types"
)

type questionRepository struct {
	mu   sync.RWMutex
	sets map[types.AssessmentType]*model.QuestionSet
}

func newQuestionRepository() *questionRepository {
	return &questionRepository{
		sets: make(map[types.AssessmentType]*model.QuestionSet),
	}
}

func copyQuestionSet(set *model.QuestionSet) *model.QuestionSet {
	copied := &model.QuestionSet{
		Type:      set.Type,
		Questions: make([]*model.Question, 0, len(set.Questions)),
	}
	for _, q := range set.Questions {
		question := *q
		question.Options = append([]model.AnswerOption(nil), q.Options...)
		copied.Questions = append(copied.Questions, &question)
	}
	return copied
}

func (r *questionRepository) PutActive(ctx context.Context, set *model.QuestionSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sets[set.Type] = copyQuestionSet(set)
	return nil
}

func (r *questionRepository) GetActive(ctx context.Context, assessmentType types.AssessmentType) (*model.QuestionSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, exists := r.sets[assessmentType]
	if !exists {
		return nil, goerr.Wrap(model.ErrQuestionSetNotFound, "no active question set", goerr.V("type", assessmentType))
	}

	return copyQuestionSet(set), nil
}
