package http

import (
	"net/http"

	"github.com/grc-lab/periksa/pkg/domain/model"
	"github.com/grc-lab/periksa/pkg/domain/types"
)

type bandResponse struct {
	Label    string `json:"label"`
	Color    string `json:"color"`
	Severity int    `json:"severity"`
	MinScore int    `json:"min_score,omitempty"`
	MaxScore int    `json:"max_score,omitempty"`
}

func newBandResponse(band types.RiskBand) bandResponse {
	resp := bandResponse{
		Label:    band.Label(),
		Color:    band.Color(),
		Severity: band.Severity(),
	}
	if band.IsValid() {
		resp.MinScore = band.MinScore()
		resp.MaxScore = band.MaxScore()
	}
	return resp
}

// classifyRiskHandler bands a likelihood/impact pair without touching
// the register
func (s *Server) classifyRiskHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Likelihood int `json:"likelihood"`
		Impact     int `json:"impact"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	pair := model.ScoredPair{Likelihood: req.Likelihood, Impact: req.Impact}
	respondJSON(w, r, http.StatusOK, struct {
		Likelihood int          `json:"likelihood"`
		Impact     int          `json:"impact"`
		Score      int          `json:"score"`
		Scorable   bool         `json:"scorable"`
		Band       bandResponse `json:"band"`
	}{
		Likelihood: req.Likelihood,
		Impact:     req.Impact,
		Score:      pair.Score(),
		Scorable:   pair.IsScorable(),
		Band:       newBandResponse(pair.Band()),
	})
}

// classifyHealthHandler maps a 0-100 health score to its level
func (s *Server) classifyHealthHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Score int `json:"score"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, struct {
		Score int    `json:"score"`
		Level string `json:"level"`
	}{
		Score: req.Score,
		Level: types.ClassifyHealthScore(req.Score).String(),
	})
}
