package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/periksa/pkg/domain/interfaces"
	"github.com/grc-lab/periksa/pkg/domain/model"
	"github.com/grc-lab/periksa/pkg/domain/model/auth"
	"github.com/grc-lab/periksa/pkg/domain/model/config"
	"github.com/grc-lab/periksa/pkg/domain/types"
	"github.com/grc-lab/periksa/pkg/utils/logging"
)

// SubmissionUseCase drives the questionnaire workflow from the wizard
// steps through the atomic submit
type SubmissionUseCase struct {
	repo      interfaces.Repository
	engineCfg *config.EngineConfig
	quota     *QuotaUseCase
}

func NewSubmissionUseCase(repo interfaces.Repository, engineCfg *config.EngineConfig, quota *QuotaUseCase) *SubmissionUseCase {
	return &SubmissionUseCase{repo: repo, engineCfg: engineCfg, quota: quota}
}

func (uc *SubmissionUseCase) activeSet(ctx context.Context, assessmentType types.AssessmentType) (*model.QuestionSet, error) {
	set, err := uc.repo.Question().GetActive(ctx, assessmentType)
	if err != nil {
		if errors.Is(err, model.ErrQuestionSetNotFound) {
			return nil, goerr.Wrap(ErrQuestionSetNotFound, "no active question set",
				goerr.V(TypeKey, assessmentType))
		}
		return nil, goerr.Wrap(err, "failed to load question set", goerr.V(TypeKey, assessmentType))
	}
	return set, nil
}

// Dimensions returns the wizard steps for an assessment type: the
// active questions partitioned by category in first-seen order
func (uc *SubmissionUseCase) Dimensions(ctx context.Context, assessmentType types.AssessmentType) ([]model.Dimension, error) {
	set, err := uc.activeSet(ctx, assessmentType)
	if err != nil {
		return nil, err
	}
	return set.Dimensions(), nil
}

// Preview resolves answers against the active question definitions for
// the review step before submission
func (uc *SubmissionUseCase) Preview(ctx context.Context, answers model.AnswerSet) ([]model.AnswerPreview, error) {
	set, err := uc.activeSet(ctx, answers.Type)
	if err != nil {
		return nil, err
	}
	if err := validateAnswers(set, answers); err != nil {
		return nil, err
	}
	return answers.Preview(set), nil
}

// validateAnswers checks answers for unknown questions and, for the
// standard type, point values that match no option. Completeness is
// checked separately at submit.
func validateAnswers(set *model.QuestionSet, answers model.AnswerSet) error {
	switch answers.Type {
	case types.AssessmentTypeStandard:
		for id, points := range answers.Choices {
			question := set.Find(id)
			if question == nil {
				return goerr.Wrap(ErrUnknownQuestion, "unknown question in answers", goerr.V("question_id", id))
			}
			if _, ok := question.OptionLabel(points); !ok {
				return goerr.Wrap(ErrInvalidAnswer, "point value matches no option",
					goerr.V("question_id", id), goerr.V("points", points))
			}
		}
	case types.AssessmentTypeEssay:
		for id := range answers.Essays {
			if set.Find(id) == nil {
				return goerr.Wrap(ErrUnknownQuestion, "unknown question in answers", goerr.V("question_id", id))
			}
		}
	default:
		return goerr.New("invalid answer set type", goerr.V(TypeKey, answers.Type))
	}
	return nil
}

// unansweredCount counts questions of the set without a usable answer
func unansweredCount(set *model.QuestionSet, answers model.AnswerSet) int {
	count := 0
	for _, q := range set.Questions {
		if !answers.Answered(q.ID) {
			count++
		}
	}
	return count
}

// Submit validates the answers, computes the score for standard
// assessments and creates the record while reserving one unit of quota.
// Quota reserve and record creation are one atomic step in the
// repository; a denial maps to the for-type/for-all error split using a
// follow-up read of the other types.
func (uc *SubmissionUseCase) Submit(ctx context.Context, actor auth.Actor, answers model.AnswerSet) (*model.AssessmentRecord, error) {
	set, err := uc.activeSet(ctx, answers.Type)
	if err != nil {
		return nil, err
	}
	if err := validateAnswers(set, answers); err != nil {
		return nil, err
	}
	if unanswered := unansweredCount(set, answers); unanswered > 0 {
		return nil, goerr.Wrap(ErrIncompleteAnswers, "questionnaire is incomplete",
			goerr.V(UnansweredKey, unanswered),
			goerr.V(TypeKey, answers.Type))
	}

	record := &model.AssessmentRecord{
		UserID:    actor.UserID,
		Type:      answers.Type,
		Answers:   answers.Clone(),
		RiskLevel: types.HealthLevelUnscored,
		Status:    types.AssessmentStatusSubmitted,
	}

	if answers.Type == types.AssessmentTypeStandard {
		score := model.HealthScore(answers.PointSum(set), len(set.Questions), uc.engineCfg.MaxPointsPerQuestion())
		record.RiskScore = score
		record.RiskLevel = types.ClassifyHealthScore(score)
	}

	created, err := uc.repo.Assessment().Submit(ctx, record, uc.engineCfg.DefaultLimit(answers.Type))
	if err != nil {
		if errors.Is(err, model.ErrQuotaExhausted) {
			return nil, uc.quotaDenied(ctx, actor.UserID, answers.Type)
		}
		return nil, goerr.Wrap(err, "failed to submit assessment",
			goerr.V(UserIDKey, actor.UserID), goerr.V(TypeKey, answers.Type))
	}

	logging.From(ctx).Info("assessment submitted",
		"assessment_id", created.ID,
		"user_id", created.UserID,
		"type", created.Type,
		"score", created.RiskScore,
		"level", created.RiskLevel,
	)

	return created, nil
}

func (uc *SubmissionUseCase) quotaDenied(ctx context.Context, userID types.UserID, assessmentType types.AssessmentType) error {
	allExhausted, err := uc.quota.othersExhausted(ctx, userID, assessmentType)
	if err != nil {
		// The denial itself is certain; fall back to the narrower error.
		logging.From(ctx).Warn("failed to resolve quota state of other types", "error", err.Error())
		allExhausted = false
	}
	sentinel := ErrQuotaExceededForType
	if allExhausted {
		sentinel = ErrQuotaExceededForAll
	}
	return goerr.Wrap(sentinel, "submission denied by quota",
		goerr.V(UserIDKey, userID), goerr.V(TypeKey, assessmentType))
}
