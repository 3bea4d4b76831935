package handler

import (
	"strings"

	dErrors "ukid/pkg/domain-errors"
	"ukid/pkg/identifier"
	strutil "ukid/pkg/platform/strings"
)

// RegisterRequest is the HTTP request body for POST /v1/companies.
type RegisterRequest struct {
	Name     string `json:"name"`
	Number   string `json:"number"`
	VAT      string `json:"vat,omitempty"`
	Postcode string `json:"postcode"`

	// Parsed values (populated by Validate)
	number   identifier.CompanyRegistrationNumber
	vat      identifier.VATRegistrationNumber
	postcode identifier.PostalCode
}

// Validate implements httputil.Validatable.
func (r *RegisterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Name) > 640 || len(r.Number) > 32 || len(r.VAT) > 32 || len(r.Postcode) > 32 {
		return dErrors.New(dErrors.CodeValidation, "request field too long")
	}

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(r.Number) == "" {
		return dErrors.New(dErrors.CodeValidation, "number is required")
	}
	if strings.TrimSpace(r.Postcode) == "" {
		return dErrors.New(dErrors.CodeValidation, "postcode is required")
	}

	var err error
	if r.number, err = identifier.ParseCompanyRegistrationNumber(r.Number); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
	}
	if r.postcode, err = identifier.ParsePostalCode(r.Postcode); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
	}
	if strings.TrimSpace(r.VAT) != "" {
		if r.vat, err = identifier.ParseVATRegistrationNumber(r.VAT); err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
		}
	}
	return nil
}

// LookupRequest is the HTTP request body for POST /v1/companies/lookup.
type LookupRequest struct {
	Numbers []string `json:"numbers"`

	numbers []identifier.CompanyRegistrationNumber
}

func (r *LookupRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	raw := strutil.DedupeAndTrim(r.Numbers)
	if len(raw) == 0 {
		return dErrors.New(dErrors.CodeValidation, "numbers must not be empty")
	}
	r.numbers = make([]identifier.CompanyRegistrationNumber, 0, len(raw))
	for _, s := range raw {
		n, err := identifier.ParseCompanyRegistrationNumber(s)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
		}
		r.numbers = append(r.numbers, n)
	}
	return nil
}
