package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"kycengine/internal/domain"
	"kycengine/pkg/platform/httputil"
	"kycengine/pkg/requestcontext"
)

// Service defines the decision operations exposed over HTTP.
type Service interface {
	Validate(ctx context.Context, p *domain.Profile, asOf time.Time) (*domain.ValidationResult, error)
	ValidateBatch(ctx context.Context, profiles []*domain.Profile, asOf time.Time) ([]domain.ValidationResult, error)
	Trace(ctx context.Context, p *domain.Profile, asOf time.Time) (*domain.TraceSection, error)
}

// Handler wires decision endpoints to the decision service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a decision handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts decision endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/kyc/validate", h.HandleValidate)
	r.Post("/kyc/validate/batch", h.HandleValidateBatch)
	r.Post("/kyc/trace", h.HandleTrace)
}

// HandleValidate handles POST /kyc/validate requests.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ValidateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Validate(ctx, req.ParsedProfile(), req.ParsedAsOf())
	if err != nil {
		h.logger.ErrorContext(ctx, "validation failed",
			"request_id", requestID,
			"customer_id", req.Profile.CustomerID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &ValidateResponse{RunID: uuid.NewString(), Result: result})
}

// HandleValidateBatch handles POST /kyc/validate/batch requests.
func (h *Handler) HandleValidateBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[BatchValidateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	results, err := h.service.ValidateBatch(ctx, req.ParsedProfiles(), req.ParsedAsOf())
	if err != nil {
		h.logger.ErrorContext(ctx, "batch validation failed",
			"request_id", requestID,
			"batch_size", len(req.Profiles),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &BatchValidateResponse{RunID: uuid.NewString(), Results: results})
}

// HandleTrace handles POST /kyc/trace requests.
func (h *Handler) HandleTrace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ValidateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	section, err := h.service.Trace(ctx, req.ParsedProfile(), req.ParsedAsOf())
	if err != nil {
		h.logger.ErrorContext(ctx, "trace failed",
			"request_id", requestID,
			"customer_id", req.Profile.CustomerID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &TraceResponse{
		RunID:      uuid.NewString(),
		CustomerID: req.Profile.CustomerID,
		Trace:      section,
	})
}
