package handler

import (
	"time"

	"github.com/google/uuid"

	"ukid/internal/company/models"
	"ukid/pkg/identifier"
)

// CompanyResponse renders identifiers in their spaced form for display and
// the general form for machine use.
type CompanyResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Number         string    `json:"number"`
	VAT            string    `json:"vat,omitempty"`
	VATDisplay     string    `json:"vat_display,omitempty"`
	Postcode       string    `json:"postcode"`
	PostcodeSpaced string    `json:"postcode_display"`
	CreatedBy      string    `json:"created_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type LookupResponse struct {
	Companies []*CompanyResponse `json:"companies"`
	Missing   []string           `json:"missing"`
}

type ListResponse struct {
	Companies []*CompanyResponse `json:"companies"`
	Count     int                `json:"count"`
}

func FromCompany(c *models.Company) *CompanyResponse {
	resp := &CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Number:    c.Number.String(),
		Postcode:  c.Postcode.String(),
		CreatedBy: c.CreatedBy,
		CreatedAt: c.CreatedAt,
	}
	resp.PostcodeSpaced, _ = c.Postcode.FormatAs(identifier.Spaced)
	if c.IsVATRegistered() {
		resp.VAT = c.VAT.String()
		resp.VATDisplay, _ = c.VAT.FormatAs(identifier.Spaced)
	}
	return resp
}

func fromCompanies(companies []*models.Company) []*CompanyResponse {
	out := make([]*CompanyResponse, 0, len(companies))
	for _, c := range companies {
		out = append(out, FromCompany(c))
	}
	return out
}

func FromLookup(result *models.LookupResult) *LookupResponse {
	resp := &LookupResponse{
		Companies: fromCompanies(result.Found),
		Missing:   make([]string, 0, len(result.Missing)),
	}
	for _, n := range result.Missing {
		resp.Missing = append(resp.Missing, n.String())
	}
	return resp
}
