package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"ukid/internal/company/models"
	"ukid/pkg/identifier"
	"ukid/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) newCompany(number, postcode string, created time.Time) *models.Company {
	c, err := models.NewCompany(uuid.New(), models.Registration{
		Name:     "Company " + number,
		Number:   identifier.MustCompanyRegistrationNumber(number),
		Postcode: identifier.MustPostalCode(postcode),
	}, "ops@example.com", created)
	s.Require().NoError(err)
	return c
}

func (s *InMemoryStoreSuite) TestCreateAndFind() {
	c := s.newCompany("SC123456", "EH1 1YZ", time.Now())
	s.Require().NoError(s.store.Create(s.ctx, c))

	s.Run("finds by number", func() {
		found, err := s.store.FindByNumber(s.ctx, c.Number)
		s.Require().NoError(err)
		s.Equal(c.Name, found.Name)
		s.Equal(c.Postcode, found.Postcode)
	})

	s.Run("returned value is a copy", func() {
		found, err := s.store.FindByNumber(s.ctx, c.Number)
		s.Require().NoError(err)
		found.Name = "changed"
		again, err := s.store.FindByNumber(s.ctx, c.Number)
		s.Require().NoError(err)
		s.Equal(c.Name, again.Name)
	})

	s.Run("rejects a duplicate number", func() {
		dup := s.newCompany("SC123456", "SW1A 0AA", time.Now())
		s.Require().ErrorIs(s.store.Create(s.ctx, dup), sentinel.ErrAlreadyUsed)
	})

	s.Run("returns ErrNotFound for unknown number", func() {
		_, err := s.store.FindByNumber(s.ctx, identifier.MustCompanyRegistrationNumber("01234567"))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestFindByNumbers() {
	a := s.newCompany("SC123456", "EH1 1YZ", time.Now())
	b := s.newCompany("01234567", "SW1A 0AA", time.Now())
	s.Require().NoError(s.store.Create(s.ctx, a))
	s.Require().NoError(s.store.Create(s.ctx, b))

	found, err := s.store.FindByNumbers(s.ctx, []identifier.CompanyRegistrationNumber{
		a.Number, identifier.MustCompanyRegistrationNumber("NI000001"), b.Number,
	})
	s.Require().NoError(err)
	s.Len(found, 2)

	none, err := s.store.FindByNumbers(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *InMemoryStoreSuite) TestListByOutward() {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.Create(s.ctx, s.newCompany("00000003", "SW1A 2AA", base.Add(2*time.Hour))))
	s.Require().NoError(s.store.Create(s.ctx, s.newCompany("00000001", "SW1A 0AA", base)))
	s.Require().NoError(s.store.Create(s.ctx, s.newCompany("00000002", "SW1A 1AA", base.Add(time.Hour))))
	s.Require().NoError(s.store.Create(s.ctx, s.newCompany("SC000001", "EH1 1YZ", base)))

	outward, err := identifier.ParseOutwardCode("SW1A")
	s.Require().NoError(err)

	s.Run("oldest first", func() {
		list, err := s.store.ListByOutward(s.ctx, outward, 10)
		s.Require().NoError(err)
		s.Require().Len(list, 3)
		s.Equal("00000001", list[0].Number.String())
		s.Equal("00000003", list[2].Number.String())
	})

	s.Run("respects limit", func() {
		list, err := s.store.ListByOutward(s.ctx, outward, 2)
		s.Require().NoError(err)
		s.Len(list, 2)
	})
}

func (s *InMemoryStoreSuite) TestDelete() {
	c := s.newCompany("OC300000", "DN55 1PT", time.Now())
	s.Require().NoError(s.store.Create(s.ctx, c))

	s.Require().NoError(s.store.Delete(s.ctx, c.Number))
	_, err := s.store.FindByNumber(s.ctx, c.Number)
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.Delete(s.ctx, c.Number), sentinel.ErrNotFound)
}
