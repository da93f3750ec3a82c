package usecase

import (
	"context"

	"github.com/grc-lab/periksa/pkg/domain/interfaces"
	"github.com/grc-lab/periksa/pkg/domain/model"
	"github.com/grc-lab/periksa/pkg/domain/model/config"
)

// NarrativeService drafts report text for a record under review
type NarrativeService interface {
	DraftReport(ctx context.Context, record *model.AssessmentRecord, set *model.QuestionSet) (string, error)
}

type UseCases struct {
	repo      interfaces.Repository
	engineCfg *config.EngineConfig
	narrative NarrativeService

	Submission *SubmissionUseCase
	Quota      *QuotaUseCase
	Review     *ReviewUseCase
	Risk       *RiskUseCase
}

type Option func(*UseCases)

func WithEngineConfig(cfg *config.EngineConfig) Option {
	return func(uc *UseCases) {
		uc.engineCfg = cfg
	}
}

func WithNarrative(svc NarrativeService) Option {
	return func(uc *UseCases) {
		uc.narrative = svc
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Quota = NewQuotaUseCase(repo, uc.engineCfg)
	uc.Submission = NewSubmissionUseCase(repo, uc.engineCfg, uc.Quota)
	uc.Review = NewReviewUseCase(repo, uc.narrative)
	uc.Risk = NewRiskUseCase(repo)

	return uc
}
