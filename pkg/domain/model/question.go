package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/grc-lab/periksa/pkg/domain/types"
)

// AnswerOption is one selectable option of a standard-type question
type AnswerOption struct {
	Label  string
	Points int
}

// Question is one questionnaire question. Standard-type questions carry
// scored options; essay-type questions are free text and have none.
type Question struct {
	ID       types.QuestionID
	Category types.DimensionName
	Text     string
	Options  []AnswerOption
}

// OptionLabel resolves a stored point value back to its option label
// using this question's definitions. The preview step must use the same
// definitions that were active at submission time, never later edits.
func (q *Question) OptionLabel(points int) (string, bool) {
	for _, opt := range q.Options {
		if opt.Points == points {
			return opt.Label, true
		}
	}
	return "", false
}

// Validate checks the question definition against its assessment type
func (q *Question) Validate(assessmentType types.AssessmentType) error {
	if err := q.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid question ID")
	}
	if err := q.Category.Validate(); err != nil {
		return goerr.Wrap(err, "invalid question category", goerr.V("id", q.ID))
	}
	if q.Text == "" {
		return goerr.New("question text is required", goerr.V("id", q.ID))
	}

	switch assessmentType {
	case types.AssessmentTypeStandard:
		if len(q.Options) == 0 {
			return goerr.New("standard question requires at least one option", goerr.V("id", q.ID))
		}
		for _, opt := range q.Options {
			if opt.Label == "" {
				return goerr.New("option label is required", goerr.V("id", q.ID))
			}
			if opt.Points < 0 {
				return goerr.New("option points cannot be negative", goerr.V("id", q.ID), goerr.V("points", opt.Points))
			}
		}
	case types.AssessmentTypeEssay:
		if len(q.Options) > 0 {
			return goerr.New("essay question cannot have options", goerr.V("id", q.ID))
		}
	}

	return nil
}

// QuestionSet is the active questionnaire for one assessment type
type QuestionSet struct {
	Type      types.AssessmentType
	Questions []*Question
}

// Dimension is one wizard step: all questions sharing a category,
// ordered as they appear in the question set
type Dimension struct {
	Name      types.DimensionName
	Questions []*Question
}

// Dimensions partitions the questions by category. Dimension order is
// the order categories first appear in the set.
func (s *QuestionSet) Dimensions() []Dimension {
	index := make(map[types.DimensionName]int)
	var dims []Dimension
	for _, q := range s.Questions {
		idx, ok := index[q.Category]
		if !ok {
			idx = len(dims)
			index[q.Category] = idx
			dims = append(dims, Dimension{Name: q.Category})
		}
		dims[idx].Questions = append(dims[idx].Questions, q)
	}
	return dims
}

// Find returns the question with the given ID, nil when absent
func (s *QuestionSet) Find(id types.QuestionID) *Question {
	for _, q := range s.Questions {
		if q.ID == id {
			return q
		}
	}
	return nil
}

// Validate checks the whole question set
func (s *QuestionSet) Validate() error {
	if !s.Type.IsValid() {
		return goerr.New("invalid assessment type", goerr.V("type", s.Type))
	}
	if len(s.Questions) == 0 {
		return goerr.New("question set cannot be empty", goerr.V("type", s.Type))
	}

	seen := make(map[types.QuestionID]bool)
	for _, q := range s.Questions {
		if err := q.Validate(s.Type); err != nil {
			return goerr.Wrap(err, "invalid question", goerr.V("type", s.Type))
		}
		if seen[q.ID] {
			return goerr.New("duplicate question ID", goerr.V("id", q.ID), goerr.V("type", s.Type))
		}
		seen[q.ID] = true
	}

	return nil
}
