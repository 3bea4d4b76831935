package cache

import (
	"context"

	"ukid/internal/company/models"
	"ukid/pkg/identifier"
	"ukid/pkg/platform/sentinel"
)

// Noop is used when no Redis is configured. Every Get misses.
type Noop struct{}

func (Noop) Get(context.Context, identifier.CompanyRegistrationNumber) (*models.Company, error) {
	return nil, sentinel.ErrNotFound
}

func (Noop) Set(context.Context, *models.Company) error { return nil }

func (Noop) Delete(context.Context, identifier.CompanyRegistrationNumber) error { return nil }
