package model

import (
	"strings"

	"github.com/grc-lab/periksa/pkg/domain/types"
)

// AnswerSet is a tagged union of questionnaire answers keyed by the
// assessment type: standard answers are numeric point selections, essay
// answers are free text. Only the map matching Type is populated.
type AnswerSet struct {
	Type    types.AssessmentType
	Choices map[types.QuestionID]int
	Essays  map[types.QuestionID]string
}

// NewChoiceAnswers builds a standard-type answer set
func NewChoiceAnswers(choices map[types.QuestionID]int) AnswerSet {
	return AnswerSet{Type: types.AssessmentTypeStandard, Choices: choices}
}

// NewEssayAnswers builds an essay-type answer set
func NewEssayAnswers(essays map[types.QuestionID]string) AnswerSet {
	return AnswerSet{Type: types.AssessmentTypeEssay, Essays: essays}
}

// Answered reports whether the question has a non-empty answer: a
// recorded numeric selection for standard, non-blank trimmed text for
// essay.
func (a AnswerSet) Answered(id types.QuestionID) bool {
	switch a.Type {
	case types.AssessmentTypeStandard:
		_, ok := a.Choices[id]
		return ok
	case types.AssessmentTypeEssay:
		text, ok := a.Essays[id]
		return ok && strings.TrimSpace(text) != ""
	default:
		return false
	}
}

// PointSum returns the raw point sum over the question set. Only
// meaningful for standard-type answers; essay answers always sum to 0.
func (a AnswerSet) PointSum(set *QuestionSet) int {
	if a.Type != types.AssessmentTypeStandard {
		return 0
	}
	sum := 0
	for _, q := range set.Questions {
		sum += a.Choices[q.ID]
	}
	return sum
}

// Len returns the number of recorded answers
func (a AnswerSet) Len() int {
	if a.Type == types.AssessmentTypeEssay {
		return len(a.Essays)
	}
	return len(a.Choices)
}

// Clone returns a deep copy of the answer set
func (a AnswerSet) Clone() AnswerSet {
	copied := AnswerSet{Type: a.Type}
	if a.Choices != nil {
		copied.Choices = make(map[types.QuestionID]int, len(a.Choices))
		for k, v := range a.Choices {
			copied.Choices[k] = v
		}
	}
	if a.Essays != nil {
		copied.Essays = make(map[types.QuestionID]string, len(a.Essays))
		for k, v := range a.Essays {
			copied.Essays[k] = v
		}
	}
	return copied
}

// AnswerPreview is one row of the review step shown before submission
// and in the consultant view: the question, the stored value and the
// label it resolves to.
type AnswerPreview struct {
	QuestionID types.QuestionID
	Category   types.DimensionName
	Question   string
	Points     int
	Label      string
}

// Preview resolves the answers against the question definitions used at
// submission time. Standard answers map their stored numeric value back
// to the option label; essay answers carry the text itself.
func (a AnswerSet) Preview(set *QuestionSet) []AnswerPreview {
	previews := make([]AnswerPreview, 0, len(set.Questions))
	for _, q := range set.Questions {
		p := AnswerPreview{
			QuestionID: q.ID,
			Category:   q.Category,
			Question:   q.Text,
		}
		switch a.Type {
		case types.AssessmentTypeStandard:
			points, ok := a.Choices[q.ID]
			if !ok {
				continue
			}
			p.Points = points
			if label, found := q.OptionLabel(points); found {
				p.Label = label
			}
		case types.AssessmentTypeEssay:
			text, ok := a.Essays[q.ID]
			if !ok {
				continue
			}
			p.Label = text
		}
		previews = append(previews, p)
	}
	return previews
}
