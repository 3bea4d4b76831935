package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"ukid/internal/company/models"
	"ukid/pkg/identifier"
	"ukid/pkg/platform/sentinel"
)

// InMemory is a map-backed company store for tests and local runs.
type InMemory struct {
	mu        sync.RWMutex
	companies map[identifier.CompanyRegistrationNumber]*models.Company
}

func NewInMemory() *InMemory {
	return &InMemory{companies: make(map[identifier.CompanyRegistrationNumber]*models.Company)}
}

func (s *InMemory) Create(_ context.Context, c *models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies[c.Number]; ok {
		return fmt.Errorf("company %s: %w", c.Number, sentinel.ErrAlreadyUsed)
	}
	stored := *c
	s.companies[c.Number] = &stored
	return nil
}

func (s *InMemory) FindByNumber(_ context.Context, number identifier.CompanyRegistrationNumber) (*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.companies[number]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	found := *c
	return &found, nil
}

// FindByNumbers returns the companies that exist, in no particular order.
func (s *InMemory) FindByNumbers(_ context.Context, numbers []identifier.CompanyRegistrationNumber) ([]*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Company, 0, len(numbers))
	for _, n := range numbers {
		if c, ok := s.companies[n]; ok {
			found := *c
			out = append(out, &found)
		}
	}
	return out, nil
}

// ListByOutward returns up to limit companies whose registered office is in
// the outward code, oldest registration first.
func (s *InMemory) ListByOutward(_ context.Context, outward identifier.OutwardCode, limit int) ([]*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Company
	for _, c := range s.companies {
		if c.Postcode.Outward() == outward {
			found := *c
			out = append(out, &found)
		}
	}
	slices.SortFunc(out, compareRegistration)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemory) Delete(_ context.Context, number identifier.CompanyRegistrationNumber) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies[number]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.companies, number)
	return nil
}

func compareRegistration(a, b *models.Company) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	switch {
	case a.Number.Compact() < b.Number.Compact():
		return -1
	case a.Number.Compact() > b.Number.Compact():
		return 1
	}
	return 0
}
