package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/gford1000-go/serialise"
	"github.com/google/uuid"

	"ukid/internal/company/models"
	"ukid/pkg/identifier"
)

const snapshotVersion int64 = 1

// ErrCorruptSnapshot is returned when a cached value cannot be decoded.
var ErrCorruptSnapshot = errors.New("corrupt company snapshot")

func approach() serialise.Approach {
	return serialise.NewMinDataApproachWithVersion(serialise.V1)
}

// encode flattens a company into scalar fields. Identifiers travel in
// compact form.
func encode(c *models.Company) ([]byte, error) {
	b, _, err := serialise.ToBytesMany(
		[]any{
			snapshotVersion,
			c.ID.String(),
			c.Name,
			int64(c.Number.Compact()),
			int64(c.VAT.Compact()),
			int64(c.Postcode.Compact()),
			c.CreatedBy,
			c.CreatedAt.UnixNano(),
		}, serialise.WithSerialisationApproach(approach()))
	if err != nil {
		return nil, fmt.Errorf("encode company snapshot: %w", err)
	}
	return b, nil
}

func decode(data []byte) (*models.Company, error) {
	v, err := serialise.FromBytesMany(data, approach())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if len(v) != 8 {
		return nil, ErrCorruptSnapshot
	}
	if version, ok := v[0].(int64); !ok || version != snapshotVersion {
		return nil, ErrCorruptSnapshot
	}

	id, ok1 := v[1].(string)
	name, ok2 := v[2].(string)
	number, ok3 := v[3].(int64)
	vat, ok4 := v[4].(int64)
	postcode, ok5 := v[5].(int64)
	createdBy, ok6 := v[6].(string)
	createdAt, ok7 := v[7].(int64)
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7) {
		return nil, ErrCorruptSnapshot
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return &models.Company{
		ID:        parsedID,
		Name:      name,
		Number:    identifier.CompanyRegistrationNumberFromCompact(uint32(number)),
		VAT:       identifier.VATRegistrationNumberFromCompact(uint64(vat)),
		Postcode:  identifier.PostalCodeFromCompact(uint64(postcode)),
		CreatedBy: createdBy,
		CreatedAt: time.Unix(0, createdAt).UTC(),
	}, nil
}
