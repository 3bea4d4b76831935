package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	dErrors "ukid/pkg/domain-errors"
	"ukid/pkg/identifier"
)

const maxNameLength = 160

// Company is a registered company, keyed by its registration number.
//
// Invariants:
//   - Number and Postcode are present
//   - Name is non-empty and at most 160 characters after trimming
//   - VAT is optional; the zero value means not VAT registered
//   - CreatedAt is immutable after construction
type Company struct {
	ID        uuid.UUID                            `json:"id"`
	Name      string                               `json:"name"`
	Number    identifier.CompanyRegistrationNumber `json:"number"`
	VAT       identifier.VATRegistrationNumber     `json:"vat"`
	Postcode  identifier.PostalCode                `json:"postcode"`
	CreatedBy string                               `json:"created_by,omitempty"`
	CreatedAt time.Time                            `json:"created_at"`
}

// Registration carries the already-parsed fields of a new company.
type Registration struct {
	Name     string
	Number   identifier.CompanyRegistrationNumber
	VAT      identifier.VATRegistrationNumber
	Postcode identifier.PostalCode
}

// NewCompany builds a Company, enforcing its invariants.
func NewCompany(id uuid.UUID, reg Registration, createdBy string, now time.Time) (*Company, error) {
	name := strings.TrimSpace(reg.Name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "company name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "company name must be at most 160 characters")
	}
	if reg.Number.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "company number is required")
	}
	if reg.Postcode.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "registered office postcode is required")
	}
	if id == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "company ID cannot be nil")
	}
	return &Company{
		ID:        id,
		Name:      name,
		Number:    reg.Number,
		VAT:       reg.VAT,
		Postcode:  reg.Postcode,
		CreatedBy: createdBy,
		CreatedAt: now,
	}, nil
}

// IsVATRegistered reports whether the company carries a VAT number.
func (c *Company) IsVATRegistered() bool {
	return !c.VAT.IsZero()
}

// LookupResult is the outcome of a multi-number lookup. Found keeps request
// order; Missing lists numbers with no registered company.
type LookupResult struct {
	Found   []*Company
	Missing []identifier.CompanyRegistrationNumber
}
