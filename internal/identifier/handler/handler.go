package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"ukid/internal/identifier/metrics"
	dErrors "ukid/pkg/domain-errors"
	"ukid/pkg/identifier"
	"ukid/pkg/platform/httputil"
	"ukid/pkg/requestcontext"
)

const defaultBatchLimit = 500

// Handler exposes the identifier library over HTTP.
type Handler struct {
	logger     *slog.Logger
	metrics    *metrics.Metrics
	batchLimit int
}

// New constructs an identifier handler. A non-positive batchLimit falls back
// to the default.
func New(logger *slog.Logger, metrics *metrics.Metrics, batchLimit int) *Handler {
	if batchLimit <= 0 {
		batchLimit = defaultBatchLimit
	}
	return &Handler{
		logger:     logger,
		metrics:    metrics,
		batchLimit: batchLimit,
	}
}

// Register mounts identifier endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/identifiers/{kind}/parse", h.HandleParse)
	r.Get("/v1/identifiers/{kind}/compact/{compact}", h.HandleDecodeCompact)
	r.Post("/v1/identifiers/batch", h.HandleBatch)
}

// HandleParse handles POST /v1/identifiers/{kind}/parse.
func (h *Handler) HandleParse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	kind, err := kindParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[ParseRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	id, err := identifier.Parse(kind, req.Value)
	h.metrics.IncrementParse(kind.String(), err == nil)
	if err != nil {
		h.logger.InfoContext(ctx, "identifier rejected",
			"request_id", requestID,
			"kind", kind.String(),
			"error", err,
		)
		httputil.WriteError(w, toDomainError(err))
		return
	}

	resp, err := FromIdentifier(id)
	if err != nil {
		httputil.WriteError(w, toDomainError(err))
		return
	}
	if req.Format != "" {
		formatted, err := id.FormatAs(req.Format)
		if err != nil {
			httputil.WriteError(w, toDomainError(err))
			return
		}
		resp.Formatted = formatted
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleDecodeCompact handles GET /v1/identifiers/{kind}/compact/{compact}.
func (h *Handler) HandleDecodeCompact(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	compact, err := strconv.ParseUint(chi.URLParam(r, "compact"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "compact must be an unsigned decimal integer"))
		return
	}

	id, err := identifier.FromCompact(kind, compact)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeValidation, "compact value out of range for "+kind.Description()))
		return
	}
	if id.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "compact value does not encode a "+kind.Description()))
		return
	}

	resp, err := FromIdentifier(id)
	if err != nil {
		httputil.WriteError(w, toDomainError(err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleBatch handles POST /v1/identifiers/batch. Items are parsed
// independently and reported in request order.
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[BatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if len(req.Items) > h.batchLimit {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation,
			"items must contain at most "+strconv.Itoa(h.batchLimit)+" entries"))
		return
	}
	h.metrics.ObserveBatchSize(len(req.Items))

	resp := BatchResponse{Items: make([]BatchItemResponse, len(req.Items))}
	for i, item := range req.Items {
		out := BatchItemResponse{Index: i, Kind: item.Kind, Value: item.Value}

		kind, err := identifier.ParseKind(item.Kind)
		if err != nil {
			out.Error = "unknown identifier kind"
			resp.Items[i] = out
			resp.Invalid++
			continue
		}

		id, err := identifier.Parse(kind, item.Value)
		h.metrics.IncrementParse(kind.String(), err == nil)
		if err == nil {
			out.Result, err = FromIdentifier(id)
		}
		if err != nil {
			out.Error = err.Error()
			resp.Invalid++
		} else {
			out.Valid = true
			resp.Valid++
		}
		resp.Items[i] = out
	}

	h.logger.InfoContext(ctx, "identifier batch processed",
		"request_id", requestID,
		"items", len(req.Items),
		"invalid", resp.Invalid,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func kindParam(r *http.Request) (identifier.Kind, error) {
	kind, err := identifier.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		return 0, dErrors.New(dErrors.CodeNotFound, "unknown identifier kind")
	}
	return kind, nil
}

// toDomainError maps library errors onto API error codes.
func toDomainError(err error) error {
	var fe *identifier.FormatError
	if errors.As(err, &fe) {
		return dErrors.Wrap(err, dErrors.CodeValidation, fe.Error())
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to render identifier")
}
