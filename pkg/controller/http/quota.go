package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/periksa/pkg/domain/types"
	"github.com/grc-lab/periksa/pkg/usecase"
)

type quotaStatusPayload struct {
	Type      string `json:"type"`
	Count     int    `json:"count"`
	Limit     *int   `json:"limit"`
	Unlimited bool   `json:"unlimited"`
	Remaining int    `json:"remaining"`
	Exhausted bool   `json:"exhausted"`
}

func newQuotaStatusPayload(status usecase.QuotaStatus) quotaStatusPayload {
	return quotaStatusPayload{
		Type:      status.Type.String(),
		Count:     status.Count,
		Limit:     status.Limit,
		Unlimited: status.Unlimited,
		Remaining: status.Remaining,
		Exhausted: status.Exhausted,
	}
}

// quotaStatusHandler returns the caller's counters for every type
func (s *Server) quotaStatusHandler(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.uc.Quota.Status(r.Context(), actorFrom(r).UserID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	resp := make([]quotaStatusPayload, 0, len(statuses))
	for _, status := range statuses {
		resp = append(resp, newQuotaStatusPayload(status))
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"quotas": resp})
}

// quotaCheckHandler is the read-only gate queried before the
// questionnaire wizard starts
func (s *Server) quotaCheckHandler(w http.ResponseWriter, r *http.Request) {
	assessmentType, err := assessmentTypeQuery(r)
	if err != nil {
		errorBadRequest(s, w, r, err)
		return
	}

	result, err := s.uc.Quota.Check(r.Context(), actorFrom(r).UserID, assessmentType)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]bool{
		"allowed":       result.Allowed,
		"all_exhausted": result.AllExhausted,
	})
}

// quotaSetLimitHandler overrides the cap of a user/type pair. Admin only.
func (s *Server) quotaSetLimitHandler(w http.ResponseWriter, r *http.Request) {
	userID := types.UserID(chi.URLParam(r, "userID"))
	assessmentType, err := types.ParseAssessmentType(chi.URLParam(r, "type"))
	if err != nil {
		errorBadRequest(s, w, r, goerr.Wrap(err, "invalid assessment type"))
		return
	}

	var req struct {
		// A null limit removes the cap.
		Limit *int `json:"limit"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	counter, err := s.uc.Quota.SetLimit(r.Context(), actorFrom(r), userID, assessmentType, req.Limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, quotaStatusPayload{
		Type:      counter.Type.String(),
		Count:     counter.Count,
		Limit:     counter.Limit,
		Unlimited: counter.Unlimited(),
		Remaining: counter.Remaining(),
		Exhausted: counter.Exhausted(),
	})
}
