package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/periksa/pkg/domain/types"
	"github.com/grc-lab/periksa/pkg/usecase"
	"github.com/grc-lab/periksa/pkg/utils/errutil"
	"github.com/grc-lab/periksa/pkg/utils/logging"
)

type Server struct {
	router    *chi.Mux
	uc        *usecase.UseCases
	noAuthUID types.UserID
}

type Options func(*Server)

// WithNoAuthUID enables the development no-auth mode: requests without
// identity headers run as this user with admin capabilities
func WithNoAuthUID(uid types.UserID) Options {
	return func(s *Server) {
		s.noAuthUID = uid
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(identityMiddleware(s.noAuthUID))

		r.Post("/classify/risk", s.classifyRiskHandler)
		r.Post("/classify/health", s.classifyHealthHandler)

		r.Route("/risks", func(r chi.Router) {
			r.Get("/", s.listRisksHandler)
			r.Post("/", s.createRiskHandler)
			r.Get("/matrix", s.aggregateHandler)
			r.Get("/{id}", s.getRiskHandler)
			r.Put("/{id}", s.updateRiskHandler)
			r.Delete("/{id}", s.deleteRiskHandler)
		})

		r.Route("/assessments", func(r chi.Router) {
			r.Get("/", s.listAssessmentsHandler)
			r.Post("/", s.submitHandler)
			r.Get("/dimensions", s.dimensionsHandler)
			r.Post("/preview", s.previewHandler)
			r.Get("/{id}", s.getAssessmentHandler)
			r.Post("/{id}/open", s.openHandler)
			r.Post("/{id}/finalize", s.finalizeHandler)
			r.Put("/{id}/draft", s.saveDraftHandler)
			r.Put("/{id}/score", s.manualScoreHandler)
			r.Post("/{id}/narrative", s.narrativeHandler)
		})

		r.Route("/quota", func(r chi.Router) {
			r.Get("/", s.quotaStatusHandler)
			r.Get("/check", s.quotaCheckHandler)
			r.Put("/{userID}/{type}", s.quotaSetLimitHandler)
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// accessLogger is a middleware that logs HTTP requests. It also embeds a
// request-scoped logger carrying the request ID, so every log line and
// error report downstream can be correlated with its request.
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		r = r.WithContext(logging.With(r.Context(), logger))

		defer func() {
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func respondJSON(w http.ResponseWriter, r *http.Request, statusCode int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(data) //nolint:errcheck // header already committed
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return goerr.Wrap(err, "failed to decode request body")
	}
	return nil
}

// handleError maps use case errors onto HTTP statuses and logs them
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := http.StatusInternalServerError

	switch {
	case errors.Is(err, usecase.ErrAssessmentNotFound),
		errors.Is(err, usecase.ErrQuestionSetNotFound),
		errors.Is(err, usecase.ErrRiskNotFound):
		statusCode = http.StatusNotFound

	case errors.Is(err, usecase.ErrPermissionDenied):
		statusCode = http.StatusForbidden

	case errors.Is(err, usecase.ErrQuotaExceededForType),
		errors.Is(err, usecase.ErrQuotaExceededForAll):
		statusCode = http.StatusTooManyRequests

	case errors.Is(err, usecase.ErrInvalidTransition),
		errors.Is(err, usecase.ErrManualScoreRequired):
		statusCode = http.StatusConflict

	case errors.Is(err, usecase.ErrIncompleteAnswers),
		errors.Is(err, usecase.ErrUnknownQuestion),
		errors.Is(err, usecase.ErrInvalidAnswer),
		errors.Is(err, usecase.ErrInvalidManualScore),
		errors.Is(err, usecase.ErrInvalidRiskItem):
		statusCode = http.StatusBadRequest

	case errors.Is(err, usecase.ErrCollaboratorUnavailable):
		statusCode = http.StatusServiceUnavailable
	}

	errutil.HandleHTTP(r.Context(), w, err, statusCode)
}
