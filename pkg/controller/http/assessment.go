package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/periksa/pkg/domain/model"
	"github.com/grc-lab/periksa/pkg/domain/types"
)

type answerSetRequest struct {
	Type    string            `json:"type"`
	Choices map[string]int    `json:"choices,omitempty"`
	Essays  map[string]string `json:"essays,omitempty"`
}

func (req *answerSetRequest) toModel() (model.AnswerSet, error) {
	assessmentType, err := types.ParseAssessmentType(req.Type)
	if err != nil {
		return model.AnswerSet{}, goerr.Wrap(err, "invalid assessment type")
	}

	switch assessmentType {
	case types.AssessmentTypeStandard:
		choices := make(map[types.QuestionID]int, len(req.Choices))
		for id, points := range req.Choices {
			choices[types.QuestionID(id)] = points
		}
		return model.NewChoiceAnswers(choices), nil
	default:
		essays := make(map[types.QuestionID]string, len(req.Essays))
		for id, text := range req.Essays {
			essays[types.QuestionID(id)] = text
		}
		return model.NewEssayAnswers(essays), nil
	}
}

type assessmentResponse struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	Type               string    `json:"type"`
	RiskScore          int       `json:"risk_score"`
	RiskLevel          string    `json:"risk_level"`
	ManualScored       bool      `json:"manual_scored"`
	Status             string    `json:"status"`
	ConsultantNotes    string    `json:"consultant_notes,omitempty"`
	FinalReportContent string    `json:"final_report_content,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func newAssessmentResponse(record *model.AssessmentRecord) assessmentResponse {
	return assessmentResponse{
		ID:                 record.ID.String(),
		UserID:             record.UserID.String(),
		Type:               record.Type.String(),
		RiskScore:          record.RiskScore,
		RiskLevel:          record.RiskLevel.String(),
		ManualScored:       record.ManualScored,
		Status:             record.Status.String(),
		ConsultantNotes:    record.ConsultantNotes,
		FinalReportContent: record.FinalReportContent,
		CreatedAt:          record.CreatedAt,
		UpdatedAt:          record.UpdatedAt,
	}
}

func assessmentTypeQuery(r *http.Request) (types.AssessmentType, error) {
	assessmentType, err := types.ParseAssessmentType(r.URL.Query().Get("type"))
	if err != nil {
		return "", goerr.Wrap(err, "invalid assessment type")
	}
	return assessmentType, nil
}

// dimensionsHandler returns the wizard steps of the active question set
func (s *Server) dimensionsHandler(w http.ResponseWriter, r *http.Request) {
	assessmentType, err := assessmentTypeQuery(r)
	if err != nil {
		errorBadRequest(s, w, r, err)
		return
	}

	dims, err := s.uc.Submission.Dimensions(r.Context(), assessmentType)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	type optionPayload struct {
		Label  string `json:"label"`
		Points int    `json:"points"`
	}
	type questionPayload struct {
		ID      string          `json:"id"`
		Text    string          `json:"text"`
		Options []optionPayload `json:"options,omitempty"`
	}
	type dimensionPayload struct {
		Name      string            `json:"name"`
		Questions []questionPayload `json:"questions"`
	}

	resp := make([]dimensionPayload, 0, len(dims))
	for _, dim := range dims {
		payload := dimensionPayload{Name: dim.Name.String()}
		for _, q := range dim.Questions {
			question := questionPayload{ID: q.ID.String(), Text: q.Text}
			for _, opt := range q.Options {
				question.Options = append(question.Options, optionPayload{Label: opt.Label, Points: opt.Points})
			}
			payload.Questions = append(payload.Questions, question)
		}
		resp = append(resp, payload)
	}

	respondJSON(w, r, http.StatusOK, map[string]any{"dimensions": resp})
}

// previewHandler resolves answers to their labels for the review step
func (s *Server) previewHandler(w http.ResponseWriter, r *http.Request) {
	var req answerSetRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	answers, err := req.toModel()
	if err != nil {
		errorBadRequest(s, w, r, err)
		return
	}

	previews, err := s.uc.Submission.Preview(r.Context(), answers)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	type previewPayload struct {
		QuestionID string `json:"question_id"`
		Category   string `json:"category"`
		Question   string `json:"question"`
		Points     int    `json:"points"`
		Label      string `json:"label"`
	}
	resp := make([]previewPayload, 0, len(previews))
	for _, p := range previews {
		resp = append(resp, previewPayload{
			QuestionID: p.QuestionID.String(),
			Category:   p.Category.String(),
			Question:   p.Question,
			Points:     p.Points,
			Label:      p.Label,
		})
	}

	respondJSON(w, r, http.StatusOK, map[string]any{"answers": resp})
}

// submitHandler creates the record, reserving quota atomically
func (s *Server) submitHandler(w http.ResponseWriter, r *http.Request) {
	var req answerSetRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	answers, err := req.toModel()
	if err != nil {
		errorBadRequest(s, w, r, err)
		return
	}

	created, err := s.uc.Submission.Submit(r.Context(), actorFrom(r), answers)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, newAssessmentResponse(created))
}

func (s *Server) getAssessmentHandler(w http.ResponseWriter, r *http.Request) {
	id := types.AssessmentID(chi.URLParam(r, "id"))
	record, err := s.uc.Review.Get(r.Context(), actorFrom(r), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, newAssessmentResponse(record))
}

func (s *Server) listAssessmentsHandler(w http.ResponseWriter, r *http.Request) {
	records, err := s.uc.Review.List(r.Context(), actorFrom(r))
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	resp := make([]assessmentResponse, 0, len(records))
	for _, record := range records {
		resp = append(resp, newAssessmentResponse(record))
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"assessments": resp})
}

func (s *Server) transition(w http.ResponseWriter, r *http.Request, action types.ReviewAction) {
	id := types.AssessmentID(chi.URLParam(r, "id"))
	updated, err := s.uc.Review.Transition(r.Context(), actorFrom(r), id, action)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, newAssessmentResponse(updated))
}

func (s *Server) openHandler(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, types.ReviewActionOpen)
}

func (s *Server) finalizeHandler(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, types.ReviewActionFinalize)
}

func (s *Server) saveDraftHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConsultantNotes    string `json:"consultant_notes"`
		FinalReportContent string `json:"final_report_content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	id := types.AssessmentID(chi.URLParam(r, "id"))
	updated, err := s.uc.Review.SaveDraft(r.Context(), actorFrom(r), id, req.ConsultantNotes, req.FinalReportContent)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, newAssessmentResponse(updated))
}

func (s *Server) manualScoreHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Score int `json:"score"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	id := types.AssessmentID(chi.URLParam(r, "id"))
	updated, err := s.uc.Review.SetManualScore(r.Context(), actorFrom(r), id, req.Score)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, newAssessmentResponse(updated))
}

func (s *Server) narrativeHandler(w http.ResponseWriter, r *http.Request) {
	id := types.AssessmentID(chi.URLParam(r, "id"))
	draft, err := s.uc.Review.DraftNarrative(r.Context(), actorFrom(r), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"draft": draft})
}
