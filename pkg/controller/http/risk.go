package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/periksa/pkg/domain/model"
	"github.com/grc-lab/periksa/pkg/domain/types"
	"github.com/grc-lab/periksa/pkg/utils/errutil"
)

type scoredPairPayload struct {
	Likelihood int `json:"likelihood"`
	Impact     int `json:"impact"`
}

type riskItemRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	RiskType    string            `json:"risk_type"`
	Owner       string            `json:"owner"`
	Inherent    scoredPairPayload `json:"inherent"`
	Residual    scoredPairPayload `json:"residual"`
}

func (req *riskItemRequest) toModel(id int64) *model.RiskItem {
	return &model.RiskItem{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		RiskType:    req.RiskType,
		Owner:       types.UserID(req.Owner),
		Inherent:    model.ScoredPair{Likelihood: req.Inherent.Likelihood, Impact: req.Inherent.Impact},
		Residual:    model.ScoredPair{Likelihood: req.Residual.Likelihood, Impact: req.Residual.Impact},
	}
}

type riskItemResponse struct {
	ID           int64             `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	RiskType     string            `json:"risk_type"`
	Owner        string            `json:"owner,omitempty"`
	Inherent     scoredPairPayload `json:"inherent"`
	Residual     scoredPairPayload `json:"residual"`
	InherentBand bandResponse      `json:"inherent_band"`
	ResidualBand bandResponse      `json:"residual_band"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func newRiskItemResponse(item *model.RiskItem) riskItemResponse {
	return riskItemResponse{
		ID:           item.ID,
		Name:         item.Name,
		Description:  item.Description,
		RiskType:     item.RiskType,
		Owner:        item.Owner.String(),
		Inherent:     scoredPairPayload{Likelihood: item.Inherent.Likelihood, Impact: item.Inherent.Impact},
		Residual:     scoredPairPayload{Likelihood: item.Residual.Likelihood, Impact: item.Residual.Impact},
		InherentBand: newBandResponse(item.InherentBand()),
		ResidualBand: newBandResponse(item.ResidualBand()),
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

func riskIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid risk item ID", goerr.V("id", raw))
	}
	return id, nil
}

func (s *Server) createRiskHandler(w http.ResponseWriter, r *http.Request) {
	var req riskItemRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	created, err := s.uc.Risk.Create(r.Context(), req.toModel(0))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, newRiskItemResponse(created))
}

func (s *Server) getRiskHandler(w http.ResponseWriter, r *http.Request) {
	id, err := riskIDParam(r)
	if err != nil {
		errorBadRequest(s, w, r, err)
		return
	}

	item, err := s.uc.Risk.Get(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, newRiskItemResponse(item))
}

func (s *Server) listRisksHandler(w http.ResponseWriter, r *http.Request) {
	items, err := s.uc.Risk.List(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	resp := make([]riskItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, newRiskItemResponse(item))
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"risks": resp})
}

func (s *Server) updateRiskHandler(w http.ResponseWriter, r *http.Request) {
	id, err := riskIDParam(r)
	if err != nil {
		errorBadRequest(s, w, r, err)
		return
	}

	var req riskItemRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	updated, err := s.uc.Risk.Update(r.Context(), req.toModel(id))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, newRiskItemResponse(updated))
}

func (s *Server) deleteRiskHandler(w http.ResponseWriter, r *http.Request) {
	id, err := riskIDParam(r)
	if err != nil {
		errorBadRequest(s, w, r, err)
		return
	}

	if err := s.uc.Risk.Delete(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type matrixCellResponse struct {
	Likelihood int          `json:"likelihood"`
	Impact     int          `json:"impact"`
	Score      int          `json:"score"`
	Band       bandResponse `json:"band"`
	Inherent   []refPayload `json:"inherent,omitempty"`
	Residual   []refPayload `json:"residual,omitempty"`
}

type refPayload struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (s *Server) aggregateHandler(w http.ResponseWriter, r *http.Request) {
	result, err := s.uc.Risk.Aggregate(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	cells := make([]matrixCellResponse, 0, model.MatrixSize*model.MatrixSize)
	for l := 1; l <= model.MatrixSize; l++ {
		for i := 1; i <= model.MatrixSize; i++ {
			cell := result.Matrix.Cell(l, i)
			cells = append(cells, matrixCellResponse{
				Likelihood: cell.Likelihood,
				Impact:     cell.Impact,
				Score:      cell.Score,
				Band:       newBandResponse(cell.Band),
				Inherent:   refPayloads(cell.Inherent),
				Residual:   refPayloads(cell.Residual),
			})
		}
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"cells":             cells,
		"unscored_inherent": result.Matrix.UnscoredInherent,
		"unscored_residual": result.Matrix.UnscoredResidual,
		"inherent_bands":    bandCounts(result.Inherent),
		"residual_bands":    bandCounts(result.Residual),
		"types":             result.Types,
		"summary": map[string]any{
			"total":            result.Summary.TotalCount,
			"highest_band":     newBandResponse(result.Summary.HighestBand),
			"most_common_band": newBandResponse(result.Summary.MostCommonBand),
		},
	})
}

func refPayloads(refs []model.RiskItemRef) []refPayload {
	if len(refs) == 0 {
		return nil
	}
	payloads := make([]refPayload, 0, len(refs))
	for _, ref := range refs {
		payloads = append(payloads, refPayload{ID: ref.ID, Name: ref.Name})
	}
	return payloads
}

func bandCounts(dist model.BandDistribution) map[string]int {
	counts := make(map[string]int, len(dist.Counts)+1)
	for band, n := range dist.Counts {
		counts[band.Label()] = n
	}
	if dist.Undefined > 0 {
		counts["Undefined"] = dist.Undefined
	}
	return counts
}

// errorBadRequest reports path or query parameter problems that never
// reach the use case layer
func errorBadRequest(s *Server, w http.ResponseWriter, r *http.Request, err error) {
	errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
}
