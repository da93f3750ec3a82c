package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/grc-lab/periksa/pkg/domain/interfaces"
	"github.com/grc-lab/periksa/pkg/domain/model"
	"github.com/grc-lab/periksa/pkg/domain/types"
)

func newGovernanceQuestionSet() *model.QuestionSet {
	return &model.QuestionSet{
		Type: types.AssessmentTypeStandard,
		Questions: []*model.Question{
			{
				ID:       "gov-policy",
				Category: "Governance",
				Text:     "Is there a documented information security policy?",
				Options: []model.AnswerOption{
					{Label: "No policy exists", Points: 0},
					{Label: "Draft in progress", Points: 5},
					{Label: "Approved and reviewed annually", Points: 10},
				},
			},
			{
				ID:       "ops-bcp",
				Category: "Operations",
				Text:     "Is a business continuity plan tested regularly?",
				Options: []model.AnswerOption{
					{Label: "Never tested", Points: 0},
					{Label: "Tested within the last year", Points: 10},
				},
			},
		},
	}
}

func runQuestionTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("GetActive returns ErrQuestionSetNotFound when nothing stored", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Question().GetActive(ctx, types.AssessmentTypeStandard)
		if !errors.Is(err, model.ErrQuestionSetNotFound) {
			t.Errorf("expected ErrQuestionSetNotFound, got %v", err)
		}
	})

	t.Run("PutActive and GetActive round-trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if err := repo.Question().PutActive(ctx, newGovernanceQuestionSet()); err != nil {
			t.Fatalf("failed to put question set: %v", err)
		}

		set, err := repo.Question().GetActive(ctx, types.AssessmentTypeStandard)
		if err != nil {
			t.Fatalf("failed to get question set: %v", err)
		}
		if set.Type != types.AssessmentTypeStandard {
			t.Errorf("expected standard type, got %s", set.Type)
		}
		if len(set.Questions) != 2 {
			t.Fatalf("expected 2 questions, got %d", len(set.Questions))
		}

		question := set.Find("gov-policy")
		if question == nil {
			t.Fatal("expected to find question gov-policy")
		}
		if question.Category != "Governance" {
			t.Errorf("expected category Governance, got %s", question.Category)
		}
		if len(question.Options) != 3 {
			t.Fatalf("expected 3 options, got %d", len(question.Options))
		}
		if question.Options[2].Points != 10 {
			t.Errorf("expected top option worth 10 points, got %d", question.Options[2].Points)
		}
	})

	t.Run("PutActive replaces the previous set", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if err := repo.Question().PutActive(ctx, newGovernanceQuestionSet()); err != nil {
			t.Fatalf("failed to put question set: %v", err)
		}

		replacement := &model.QuestionSet{
			Type: types.AssessmentTypeStandard,
			Questions: []*model.Question{
				{
					ID:       "gov-policy",
					Category: "Governance",
					Text:     "Is there a documented information security policy?",
					Options: []model.AnswerOption{
						{Label: "No", Points: 0},
						{Label: "Yes", Points: 10},
					},
				},
			},
		}
		if err := repo.Question().PutActive(ctx, replacement); err != nil {
			t.Fatalf("failed to replace question set: %v", err)
		}

		set, err := repo.Question().GetActive(ctx, types.AssessmentTypeStandard)
		if err != nil {
			t.Fatalf("failed to get question set: %v", err)
		}
		if len(set.Questions) != 1 {
			t.Errorf("expected 1 question after replacement, got %d", len(set.Questions))
		}
	})

	t.Run("sets of different types are independent", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if err := repo.Question().PutActive(ctx, newGovernanceQuestionSet()); err != nil {
			t.Fatalf("failed to put standard set: %v", err)
		}
		essaySet := &model.QuestionSet{
			Type: types.AssessmentTypeEssay,
			Questions: []*model.Question{
				{
					ID:       "essay-incident",
					Category: "Operations",
					Text:     "Describe your incident response process.",
				},
			},
		}
		if err := repo.Question().PutActive(ctx, essaySet); err != nil {
			t.Fatalf("failed to put essay set: %v", err)
		}

		standard, err := repo.Question().GetActive(ctx, types.AssessmentTypeStandard)
		if err != nil {
			t.Fatalf("failed to get standard set: %v", err)
		}
		essay, err := repo.Question().GetActive(ctx, types.AssessmentTypeEssay)
		if err != nil {
			t.Fatalf("failed to get essay set: %v", err)
		}
		if len(standard.Questions) != 2 || len(essay.Questions) != 1 {
			t.Errorf("sets interfered: standard=%d essay=%d", len(standard.Questions), len(essay.Questions))
		}
	})
}
