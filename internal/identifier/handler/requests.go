package handler

import (
	"strings"

	dErrors "ukid/pkg/domain-errors"
)

const maxValueLength = 64

// ParseRequest is the HTTP request body for POST /v1/identifiers/{kind}/parse.
type ParseRequest struct {
	Value  string `json:"value"`
	Format string `json:"format,omitempty"`
}

// Validate implements httputil.Validatable.
func (r *ParseRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Value) > maxValueLength {
		return dErrors.New(dErrors.CodeValidation, "value must be at most 64 characters")
	}
	if strings.TrimSpace(r.Value) == "" {
		return dErrors.New(dErrors.CodeValidation, "value is required")
	}
	r.Format = strings.TrimSpace(r.Format)
	return nil
}

// BatchItem is one entry of a batch request.
type BatchItem struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// BatchRequest is the HTTP request body for POST /v1/identifiers/batch.
// Item-level problems are reported per item; only the envelope is
// validated here.
type BatchRequest struct {
	Items []BatchItem `json:"items"`
}

func (r *BatchRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Items) == 0 {
		return dErrors.New(dErrors.CodeValidation, "items must not be empty")
	}
	return nil
}
