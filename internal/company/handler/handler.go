package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ukid/internal/company/models"
	"ukid/internal/platform/middleware"
	dErrors "ukid/pkg/domain-errors"
	"ukid/pkg/identifier"
	"ukid/pkg/platform/httputil"
	"ukid/pkg/requestcontext"
)

// Service defines the company register operations the handler needs.
type Service interface {
	Register(ctx context.Context, reg models.Registration) (*models.Company, error)
	Get(ctx context.Context, number identifier.CompanyRegistrationNumber) (*models.Company, error)
	GetMany(ctx context.Context, numbers []identifier.CompanyRegistrationNumber) (*models.LookupResult, error)
	ListByOutward(ctx context.Context, outward string, limit int) ([]*models.Company, error)
	Delete(ctx context.Context, number identifier.CompanyRegistrationNumber) error
}

// Handler wires company endpoints to the company service.
type Handler struct {
	service      Service
	logger       *slog.Logger
	jwtValidator middleware.JWTValidator
}

func New(service Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		service:      service,
		logger:       logger,
		jwtValidator: jwtValidator,
	}
}

// Register mounts company endpoints. Writes require an operator token.
func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/companies", h.HandleListByOutward)
	r.Get("/v1/companies/{number}", h.HandleGet)
	r.Post("/v1/companies/lookup", h.HandleLookup)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Post("/v1/companies", h.HandleRegister)
		r.Delete("/v1/companies/{number}", h.HandleDelete)
	})
}

// HandleRegister handles POST /v1/companies.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	company, err := h.service.Register(ctx, models.Registration{
		Name:     req.Name,
		Number:   req.number,
		VAT:      req.vat,
		Postcode: req.postcode,
	})
	if err != nil {
		h.logFailure(ctx, "company registration failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "company registered",
		"request_id", requestID,
		"company_number", company.Number.String(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromCompany(company))
}

// HandleGet handles GET /v1/companies/{number}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	number, err := numberParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	company, err := h.service.Get(ctx, number)
	if err != nil {
		h.logFailure(ctx, "company lookup failed", requestcontext.RequestID(ctx), err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromCompany(company))
}

// HandleLookup handles POST /v1/companies/lookup.
func (h *Handler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LookupRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.GetMany(ctx, req.numbers)
	if err != nil {
		h.logFailure(ctx, "company batch lookup failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromLookup(result))
}

// HandleListByOutward handles GET /v1/companies?outward=SW1A&limit=20.
func (h *Handler) HandleListByOutward(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	outward := q.Get("outward")
	if outward == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "outward query parameter is required"))
		return
	}
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	companies, err := h.service.ListByOutward(ctx, outward, limit)
	if err != nil {
		h.logFailure(ctx, "company listing failed", requestcontext.RequestID(ctx), err)
		httputil.WriteError(w, err)
		return
	}
	out := fromCompanies(companies)
	httputil.WriteJSON(w, http.StatusOK, ListResponse{Companies: out, Count: len(out)})
}

// HandleDelete handles DELETE /v1/companies/{number}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	number, err := numberParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Delete(ctx, number); err != nil {
		h.logFailure(ctx, "company deletion failed", requestcontext.RequestID(ctx), err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func numberParam(r *http.Request) (identifier.CompanyRegistrationNumber, error) {
	number, err := identifier.ParseCompanyRegistrationNumber(chi.URLParam(r, "number"))
	if err != nil {
		return number, dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
	}
	return number, nil
}

// logFailure logs server-side failures at error level and client mistakes
// at info.
func (h *Handler) logFailure(ctx context.Context, msg, requestID string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err)
		return
	}
	h.logger.InfoContext(ctx, msg, "request_id", requestID, "error", err)
}
