package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ukid/internal/identifier/metrics"
	"ukid/pkg/identifier"
	"ukid/pkg/platform/httputil"
	"ukid/pkg/testutil"
)

func newRouter(t *testing.T, batchLimit int) (chi.Router, *metrics.Metrics) {
	t.Helper()
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), m, batchLimit)
	r := chi.NewRouter()
	h.Register(r)
	return r, m
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.DoRequest(r, testutil.NewJSONRequest(t, method, path, body))
}

func TestHandleParse(t *testing.T) {
	r, m := newRouter(t, 10)

	t.Run("postcode", func(t *testing.T) {
		rec := do(t, r, http.MethodPost, "/v1/identifiers/postcode/parse", `{"value":"sw1a 0aa"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := testutil.UnmarshalResponse[IdentifierResponse](t, rec)
		assert.Equal(t, "postcode", resp.Kind)
		assert.Equal(t, "SW1A0AA", resp.General)
		assert.Equal(t, "SW1A 0AA", resp.Spaced)
		assert.Equal(t, identifier.MustPostalCode("SW1A 0AA").Compact(), resp.Compact)
		assert.Equal(t, "SW1A", resp.Parts["outward"])
		assert.Equal(t, "SW1A 0", resp.Parts["sector"])
	})

	t.Run("vat with explicit format", func(t *testing.T) {
		rec := do(t, r, http.MethodPost, "/v1/identifiers/vat/parse", `{"value":"GB999999973001","format":"s"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := testutil.UnmarshalResponse[IdentifierResponse](t, rec)
		assert.Equal(t, "GB 999 9999 73 001", resp.Formatted)
		assert.Equal(t, "branch", resp.Parts["type"])
		assert.Equal(t, "001", resp.Parts["branch"])
		assert.Equal(t, "mod97", resp.Parts["check_scheme"])
	})

	t.Run("numeric parts keep their printed width", func(t *testing.T) {
		tests := []struct {
			kind, value, part, want string
		}{
			{"vat", "GB100299800", "check_digits", "00"},
			{"vat", "GB100299800", "main", "1002998"},
			{"vat", "GBGD042", "department", "042"},
			{"nino", "AB012345C", "number", "012345"},
			{"crn", "00000001", "number", "00000001"},
			{"crn", "SC000042", "number", "000042"},
		}
		for _, tt := range tests {
			rec := do(t, r, http.MethodPost, "/v1/identifiers/"+tt.kind+"/parse", `{"value":"`+tt.value+`"}`)
			require.Equal(t, http.StatusOK, rec.Code, tt.value)
			resp := testutil.UnmarshalResponse[IdentifierResponse](t, rec)
			assert.Equal(t, tt.want, resp.Parts[tt.part], "%s %s", tt.value, tt.part)
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		rec := do(t, r, http.MethodPost, "/v1/identifiers/nino/parse", `{"value":"QQ123456C"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		resp := testutil.UnmarshalResponse[httputil.ErrorResponse](t, rec)
		assert.Equal(t, "validation_error", resp.Error)
		assert.Contains(t, resp.ErrorDescription, "national insurance number")
	})

	t.Run("unknown format specifier", func(t *testing.T) {
		rec := do(t, r, http.MethodPost, "/v1/identifiers/crn/parse", `{"value":"SC123456","format":"X"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown kind", func(t *testing.T) {
		rec := do(t, r, http.MethodPost, "/v1/identifiers/passport/parse", `{"value":"123"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing value", func(t *testing.T) {
		rec := do(t, r, http.MethodPost, "/v1/identifiers/crn/parse", `{"value":"  "}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	assert.Equal(t, 1.0, promtest.ToFloat64(m.ParseOutcomes.WithLabelValues("nino", "invalid")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.ParseOutcomes.WithLabelValues("postcode", "valid")))
}

func TestHandleDecodeCompact(t *testing.T) {
	r, _ := newRouter(t, 10)

	crn := identifier.MustCompanyRegistrationNumber("SC123456")
	path := "/v1/identifiers/crn/compact/" + strconv.FormatUint(uint64(crn.Compact()), 10)
	rec := do(t, r, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := testutil.UnmarshalResponse[IdentifierResponse](t, rec)
	assert.Equal(t, "SC123456", resp.General)
	assert.Equal(t, "SC", resp.Parts["prefix"])

	tests := []struct {
		name string
		path string
		want int
	}{
		{"zero value", "/v1/identifiers/nino/compact/0", http.StatusBadRequest},
		{"not a number", "/v1/identifiers/nino/compact/abc", http.StatusBadRequest},
		{"out of range", "/v1/identifiers/crn/compact/" + strconv.FormatUint(1<<40, 10), http.StatusBadRequest},
		{"postcode with bits above 48", "/v1/identifiers/postcode/compact/" +
			strconv.FormatUint(identifier.MustPostalCode("SW1A 0AA").Compact()|1<<50, 10), http.StatusBadRequest},
		{"vat with bits above 40", "/v1/identifiers/vat/compact/" +
			strconv.FormatUint(identifier.MustVATRegistrationNumber("GB999999973").Compact()|1<<40, 10), http.StatusBadRequest},
		{"missing presence bit", "/v1/identifiers/crn/compact/16777216", http.StatusBadRequest},
		{"unknown kind", "/v1/identifiers/iban/compact/1", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, do(t, r, http.MethodGet, tt.path, "").Code)
		})
	}
}

func TestHandleBatch(t *testing.T) {
	r, m := newRouter(t, 3)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/identifiers/batch", BatchRequest{Items: []BatchItem{
		{Kind: "vat", Value: "GBGD499"},
		{Kind: "nino", Value: "AB123456C"},
		{Kind: "passport", Value: "X"},
	}})
	rec := testutil.DoRequest(r, req)
	testutil.AssertStatus(t, rec, http.StatusOK)

	resp := testutil.UnmarshalResponse[BatchResponse](t, rec)
	require.Len(t, resp.Items, 3)
	assert.Equal(t, 2, resp.Valid)
	assert.Equal(t, 1, resp.Invalid)
	assert.Equal(t, "GB GD 499", resp.Items[0].Result.Spaced)
	assert.Equal(t, "AB 12 34 56 C", resp.Items[1].Result.Spaced)
	assert.False(t, resp.Items[2].Valid)
	assert.Equal(t, 2, resp.Items[2].Index)
	assert.Equal(t, 1, promtest.CollectAndCount(m.BatchSize))
}

func TestHandleBatch_Limits(t *testing.T) {
	r, _ := newRouter(t, 2)

	rec := do(t, r, http.MethodPost, "/v1/identifiers/batch",
		`{"items":[{"kind":"crn","value":"1"},{"kind":"crn","value":"2"},{"kind":"crn","value":"3"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPost, "/v1/identifiers/batch", `{"items":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPost, "/v1/identifiers/batch", `{"items":[],"extra":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
