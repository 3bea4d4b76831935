package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"ukid/internal/audit"
	"ukid/internal/company/metrics"
	"ukid/internal/company/models"
	"ukid/internal/company/service/mocks"
	dErrors "ukid/pkg/domain-errors"
	"ukid/pkg/identifier"
	"ukid/pkg/platform/sentinel"
	"ukid/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	store     *mocks.MockStore
	cache     *mocks.MockCache
	publisher *mocks.MockAuditPublisher
	metrics   *metrics.Metrics
	service   *Service
	ctx       context.Context
	now       time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.cache = mocks.NewMockCache(s.ctrl)
	s.publisher = mocks.NewMockAuditPublisher(s.ctrl)
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())
	s.now = time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	s.service = New(s.store,
		WithCache(s.cache),
		WithAuditPublisher(s.publisher),
		WithMetrics(s.metrics),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithLookupLimit(3),
		WithClock(func() time.Time { return s.now }),
	)
	s.ctx = requestcontext.WithRequestID(
		requestcontext.WithOperator(context.Background(), "ops@example.com"), "req-1")
}

func crn(s string) identifier.CompanyRegistrationNumber {
	return identifier.MustCompanyRegistrationNumber(s)
}

func (s *ServiceSuite) company(number string) *models.Company {
	c, err := models.NewCompany(uuid.New(), models.Registration{
		Name:     "Company " + number,
		Number:   crn(number),
		Postcode: identifier.MustPostalCode("SW1A 1AA"),
	}, "ops@example.com", s.now)
	s.Require().NoError(err)
	return c
}

func (s *ServiceSuite) TestRegister() {
	reg := models.Registration{
		Name:     "Acme Widgets Ltd",
		Number:   crn("SC123456"),
		VAT:      identifier.MustVATRegistrationNumber("GB999999973"),
		Postcode: identifier.MustPostalCode("EH1 1YZ"),
	}

	s.Run("stores, caches and audits", func() {
		s.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		s.cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)
		s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e audit.Event) error {
				s.Equal(audit.ActionCompanyRegistered, e.Action)
				s.Equal("SC123456", e.Subject)
				s.Equal("ops@example.com", e.Operator)
				s.Equal("req-1", e.RequestID)
				s.Equal("Acme Widgets Ltd", e.Detail)
				s.Equal("crn", e.Kind)
				return nil
			})

		c, err := s.service.Register(s.ctx, reg)
		s.Require().NoError(err)
		s.Equal("ops@example.com", c.CreatedBy)
		s.Equal(s.now, c.CreatedAt)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.RegisteredTotal))
	})

	s.Run("duplicate number is a conflict", func() {
		s.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrAlreadyUsed)

		_, err := s.service.Register(s.ctx, reg)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("invariant violations become validation errors", func() {
		bad := reg
		bad.Name = ""
		_, err := s.service.Register(s.ctx, bad)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("cache failure does not fail the registration", func() {
		s.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		s.cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
		s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err := s.service.Register(s.ctx, reg)
		s.NoError(err)
	})

	s.Run("store failure is internal", func() {
		s.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
		_, err := s.service.Register(s.ctx, reg)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestGet() {
	c := s.company("01234567")

	s.Run("cache hit skips the store", func() {
		s.cache.EXPECT().Get(gomock.Any(), c.Number).Return(c, nil)

		got, err := s.service.Get(s.ctx, c.Number)
		s.Require().NoError(err)
		s.Equal(c, got)
	})

	s.Run("cache miss reads through", func() {
		s.cache.EXPECT().Get(gomock.Any(), c.Number).Return(nil, sentinel.ErrNotFound)
		s.store.EXPECT().FindByNumber(gomock.Any(), c.Number).Return(c, nil)
		s.cache.EXPECT().Set(gomock.Any(), c).Return(nil)

		got, err := s.service.Get(s.ctx, c.Number)
		s.Require().NoError(err)
		s.Equal(c, got)
	})

	s.Run("unavailable cache falls back to the store", func() {
		s.cache.EXPECT().Get(gomock.Any(), c.Number).Return(nil, sentinel.ErrUnavailable)
		s.store.EXPECT().FindByNumber(gomock.Any(), c.Number).Return(c, nil)
		s.cache.EXPECT().Set(gomock.Any(), c).Return(sentinel.ErrUnavailable)

		_, err := s.service.Get(s.ctx, c.Number)
		s.Require().NoError(err)
	})

	s.Run("unknown number is not found", func() {
		s.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrNotFound)
		s.store.EXPECT().FindByNumber(gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.Get(s.ctx, crn("SC000001"))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("zero number is rejected", func() {
		_, err := s.service.Get(s.ctx, identifier.CompanyRegistrationNumber{})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Equal(1.0, testutil.ToFloat64(s.metrics.CacheLookups.WithLabelValues("hit")))
	s.Equal(2.0, testutil.ToFloat64(s.metrics.CacheLookups.WithLabelValues("miss")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.CacheLookups.WithLabelValues("error")))
}

func (s *ServiceSuite) TestGetMany() {
	hit := s.company("SC123456")
	stored := s.company("01234567")
	missing := crn("NI000001")

	s.Run("merges cache hits with one batched store read", func() {
		s.cache.EXPECT().Get(gomock.Any(), hit.Number).Return(hit, nil)
		s.cache.EXPECT().Get(gomock.Any(), stored.Number).Return(nil, sentinel.ErrNotFound)
		s.cache.EXPECT().Get(gomock.Any(), missing).Return(nil, sentinel.ErrNotFound)
		s.store.EXPECT().FindByNumbers(gomock.Any(), gomock.Len(2)).Return([]*models.Company{stored}, nil)
		s.cache.EXPECT().Set(gomock.Any(), stored).Return(nil)

		result, err := s.service.GetMany(s.ctx, []identifier.CompanyRegistrationNumber{
			missing, stored.Number, hit.Number, stored.Number,
		})
		s.Require().NoError(err)
		s.Require().Len(result.Found, 2)
		s.Equal(stored.Number, result.Found[0].Number, "request order is kept")
		s.Equal(hit.Number, result.Found[1].Number)
		s.Equal([]identifier.CompanyRegistrationNumber{missing}, result.Missing)
	})

	s.Run("all cached needs no store call", func() {
		s.cache.EXPECT().Get(gomock.Any(), hit.Number).Return(hit, nil)

		result, err := s.service.GetMany(s.ctx, []identifier.CompanyRegistrationNumber{hit.Number})
		s.Require().NoError(err)
		s.Len(result.Found, 1)
		s.Empty(result.Missing)
	})

	s.Run("limits", func() {
		_, err := s.service.GetMany(s.ctx, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = s.service.GetMany(s.ctx, []identifier.CompanyRegistrationNumber{
			crn("00000001"), crn("00000002"), crn("00000003"), crn("00000004"),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("store failure is internal", func() {
		s.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrNotFound)
		s.store.EXPECT().FindByNumbers(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

		_, err := s.service.GetMany(s.ctx, []identifier.CompanyRegistrationNumber{stored.Number})
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestListByOutward() {
	s.Run("parses the outward code", func() {
		want, err := identifier.ParseOutwardCode("SW1A")
		s.Require().NoError(err)
		s.store.EXPECT().ListByOutward(gomock.Any(), want, 3).Return([]*models.Company{s.company("01234567")}, nil)

		list, err := s.service.ListByOutward(s.ctx, "sw1a", 0)
		s.Require().NoError(err)
		s.Len(list, 1)
	})

	s.Run("invalid outward code", func() {
		_, err := s.service.ListByOutward(s.ctx, "12", 10)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestDelete() {
	number := crn("SC123456")

	s.Run("deletes, evicts and audits", func() {
		s.store.EXPECT().Delete(gomock.Any(), number).Return(nil)
		s.cache.EXPECT().Delete(gomock.Any(), number).Return(nil)
		s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e audit.Event) error {
				s.Equal(audit.ActionCompanyDeleted, e.Action)
				s.Equal("SC123456", e.Subject)
				return nil
			})

		s.NoError(s.service.Delete(s.ctx, number))
	})

	s.Run("unknown company", func() {
		s.store.EXPECT().Delete(gomock.Any(), number).Return(sentinel.ErrNotFound)
		s.True(dErrors.HasCode(s.service.Delete(s.ctx, number), dErrors.CodeNotFound))
	})

	s.Run("audit failure does not fail the delete", func() {
		s.store.EXPECT().Delete(gomock.Any(), number).Return(nil)
		s.cache.EXPECT().Delete(gomock.Any(), number).Return(errors.New("redis down"))
		s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("kafka down"))

		s.NoError(s.service.Delete(s.ctx, number))
	})
}

func TestNew_Defaults(t *testing.T) {
	svc := New(nil)
	if svc.lookupLimit != defaultLookupLimit {
		t.Fatalf("expected default lookup limit %d, got %d", defaultLookupLimit, svc.lookupLimit)
	}
}
