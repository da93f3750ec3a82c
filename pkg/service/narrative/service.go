package narrative

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/grc-lab/periksa/pkg/domain/model"
)

//go:embed prompt/draft_report.md
var draftReportPromptTmpl string

var draftReportPrompt = template.Must(template.New("draft_report").Parse(draftReportPromptTmpl))

// Service drafts review report narratives with an LLM. The service only
// produces text; persisting it on the record is the caller's business.
type Service struct {
	llmClient gollem.LLMClient
}

// New creates a narrative service backed by the given LLM client
func New(llmClient gollem.LLMClient) *Service {
	return &Service{llmClient: llmClient}
}

type promptAnswer struct {
	Question string
	Answer   string
}

type promptDimension struct {
	Name    string
	Answers []promptAnswer
}

type promptData struct {
	Type            string
	UserID          string
	Score           string
	Level           string
	Dimensions      []promptDimension
	ConsultantNotes string
}

func buildPromptData(record *model.AssessmentRecord, set *model.QuestionSet) promptData {
	data := promptData{
		Type:            record.Type.String(),
		UserID:          record.UserID.String(),
		Level:           record.RiskLevel.String(),
		ConsultantNotes: record.ConsultantNotes,
	}
	if record.RiskLevel.IsScored() {
		data.Score = fmt.Sprintf("%d / 100", record.RiskScore)
	} else {
		data.Score = "not yet scored"
	}

	previews := record.Answers.Preview(set)
	byCategory := make(map[string]int)
	for _, p := range previews {
		answer := p.Label
		if answer == "" {
			answer = "(no matching option)"
		}
		name := p.Category.String()
		idx, ok := byCategory[name]
		if !ok {
			idx = len(data.Dimensions)
			byCategory[name] = idx
			data.Dimensions = append(data.Dimensions, promptDimension{Name: name})
		}
		data.Dimensions[idx].Answers = append(data.Dimensions[idx].Answers, promptAnswer{
			Question: p.Question,
			Answer:   answer,
		})
	}
	return data
}

// DraftReport generates a report draft for a record under review. The
// question set must be the one the answers were submitted against.
func (s *Service) DraftReport(ctx context.Context, record *model.AssessmentRecord, set *model.QuestionSet) (string, error) {
	var buf bytes.Buffer
	if err := draftReportPrompt.Execute(&buf, buildPromptData(record, set)); err != nil {
		return "", goerr.Wrap(err, "failed to render draft report prompt")
	}

	session, err := s.llmClient.NewSession(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buf.String()))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate report draft",
			goerr.V("assessmentID", record.ID))
	}
	if len(resp.Texts) == 0 {
		return "", goerr.New("LLM returned empty draft", goerr.V("assessmentID", record.ID))
	}

	return strings.Join(resp.Texts, "\n"), nil
}
