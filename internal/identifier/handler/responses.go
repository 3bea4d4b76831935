package handler

import (
	"fmt"

	"ukid/pkg/identifier"
)

// IdentifierResponse describes one parsed or decoded identifier.
type IdentifierResponse struct {
	Kind        string            `json:"kind"`
	Description string            `json:"description"`
	General     string            `json:"general"`
	Spaced      string            `json:"spaced"`
	Formatted   string            `json:"formatted,omitempty"`
	Compact     uint64            `json:"compact"`
	Parts       map[string]string `json:"parts,omitempty"`
}

// BatchItemResponse reports the outcome for one batch item, in request order.
type BatchItemResponse struct {
	Index  int                 `json:"index"`
	Kind   string              `json:"kind"`
	Value  string              `json:"value"`
	Valid  bool                `json:"valid"`
	Result *IdentifierResponse `json:"result,omitempty"`
	Error  string              `json:"error,omitempty"`
}

// BatchResponse is the HTTP response for POST /v1/identifiers/batch.
type BatchResponse struct {
	Items   []BatchItemResponse `json:"items"`
	Valid   int                 `json:"valid"`
	Invalid int                 `json:"invalid"`
}

// FromIdentifier renders id in both standard forms plus its components.
func FromIdentifier(id identifier.Identifier) (*IdentifierResponse, error) {
	general, err := id.FormatAs(identifier.General)
	if err != nil {
		return nil, err
	}
	spaced, err := id.FormatAs(identifier.Spaced)
	if err != nil {
		return nil, err
	}
	return &IdentifierResponse{
		Kind:        id.Kind().String(),
		Description: id.Kind().Description(),
		General:     general,
		Spaced:      spaced,
		Compact:     id.CompactValue(),
		Parts:       partsOf(id),
	}, nil
}

func partsOf(id identifier.Identifier) map[string]string {
	switch v := id.(type) {
	case identifier.PostalCode:
		parts := map[string]string{
			"outward":  v.Outward().String(),
			"inward":   v.Inward().String(),
			"area":     v.Area(),
			"district": v.District(),
			"sector":   v.Sector(),
		}
		if v.IsGirobank() {
			parts["special"] = "girobank"
		}
		return parts
	case identifier.NationalInsuranceNumber:
		return map[string]string{
			"prefix": v.Prefix(),
			"number": digits(v.Number(), 6),
			"suffix": string(v.Suffix()),
		}
	case identifier.CompanyRegistrationNumber:
		parts := map[string]string{"number": digits(v.Number(), 8)}
		if !v.IsNumeric() {
			parts["prefix"] = v.Prefix()
			parts["number"] = digits(v.Number(), 6)
		}
		return parts
	case identifier.VATRegistrationNumber:
		parts := map[string]string{"type": v.Type().String()}
		switch v.Type() {
		case identifier.VATGovernment, identifier.VATHealthAuthority:
			parts["department"] = digits(v.DepartmentCode(), 3)
		default:
			parts["main"] = digits(v.MainNumber(), 7)
			parts["check_digits"] = digits(v.CheckDigits(), 2)
			parts["check_scheme"] = "mod97"
			if v.UsesMod9755() {
				parts["check_scheme"] = "mod9755"
			}
			if v.Type() == identifier.VATBranch {
				parts["branch"] = digits(v.BranchCode(), 3)
			}
		}
		return parts
	}
	return nil
}

// digits zero-pads n to the width it has in the formatted identifier.
func digits(n uint32, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}
