package memory

import (
	"sync"

	"github.com/grc-lab/periksa/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is the in-memory repository used for development and tests.
// Quota counters and assessment records share one mutex so an atomic
// submit sees both under a single critical section.
type Memory struct {
	riskItem   *riskItemRepository
	assessment *assessmentRepository
	quota      *quotaRepository
	question   *questionRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	submitMu := &sync.Mutex{}
	quotaRepo := newQuotaRepository(submitMu)
	assessmentRepo := newAssessmentRepository(submitMu, quotaRepo)

	return &Memory{
		riskItem:   newRiskItemRepository(),
		assessment: assessmentRepo,
		quota:      quotaRepo,
		question:   newQuestionRepository(),
	}
}

func (m *Memory) RiskItem() interfaces.RiskItemRepository {
	return m.riskItem
}

func (m *Memory) Assessment() interfaces.AssessmentRepository {
	return m.assessment
}

func (m *Memory) Quota() interfaces.QuotaRepository {
	return m.quota
}

func (m *Memory) Question() interfaces.QuestionRepository {
	return m.question
}

func (m *Memory) Close() error {
	return nil
}
