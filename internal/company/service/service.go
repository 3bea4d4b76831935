package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"ukid/internal/audit"
	"ukid/internal/company/cache"
	"ukid/internal/company/metrics"
	"ukid/internal/company/models"
	"ukid/pkg/attrs"
	dErrors "ukid/pkg/domain-errors"
	"ukid/pkg/identifier"
	"ukid/pkg/platform/sentinel"
	strutil "ukid/pkg/platform/strings"
	"ukid/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

type Store interface {
	Create(ctx context.Context, c *models.Company) error
	FindByNumber(ctx context.Context, number identifier.CompanyRegistrationNumber) (*models.Company, error)
	FindByNumbers(ctx context.Context, numbers []identifier.CompanyRegistrationNumber) ([]*models.Company, error)
	ListByOutward(ctx context.Context, outward identifier.OutwardCode, limit int) ([]*models.Company, error)
	Delete(ctx context.Context, number identifier.CompanyRegistrationNumber) error
}

// Cache is a read-through cache in front of Store. Get returns
// sentinel.ErrNotFound on a miss; any other error is treated as a miss.
type Cache interface {
	Get(ctx context.Context, number identifier.CompanyRegistrationNumber) (*models.Company, error)
	Set(ctx context.Context, c *models.Company) error
	Delete(ctx context.Context, number identifier.CompanyRegistrationNumber) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

const (
	defaultLookupLimit = 100
	defaultListLimit   = 50
	cacheConcurrency   = 8
)

// Service orchestrates the company register.
type Service struct {
	store          Store
	cache          Cache
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	lookupLimit    int
	now            func(ctx context.Context) time.Time
	newID          func() uuid.UUID
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithCache(c Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithLookupLimit bounds how many numbers one GetMany call may request.
func WithLookupLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.lookupLimit = n
		}
	}
}

// WithClock overrides the request-scoped time used for CreatedAt and audit
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = func(context.Context) time.Time { return now() }
		}
	}
}

// New constructs a Service. Without WithCache every read goes to the store.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:       store,
		cache:       cache.Noop{},
		tracer:      otel.Tracer("ukid/company"),
		lookupLimit: defaultLookupLimit,
		now:         requestcontext.Now,
		newID:       uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates and stores a new company. The operator comes from the
// request context.
func (s *Service) Register(ctx context.Context, reg models.Registration) (_ *models.Company, err error) {
	ctx, span := s.tracer.Start(ctx, "company.Register",
		trace.WithAttributes(attribute.String("company.number", reg.Number.String())))
	defer s.finish(span, "register", time.Now(), &err)

	operator := requestcontext.Operator(ctx)
	c, err := models.NewCompany(s.newID(), reg, operator, s.now(ctx))
	if err != nil {
		if de, ok := dErrors.As(err); ok && de.Code == dErrors.CodeInvariantViolation {
			return nil, dErrors.New(dErrors.CodeValidation, de.Message)
		}
		return nil, err
	}

	if err := s.store.Create(ctx, c); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "company number is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register company")
	}
	s.cacheSet(ctx, c)

	s.logAudit(ctx, audit.ActionCompanyRegistered,
		"company_number", c.Number,
		"company_id", c.ID,
		"name", c.Name,
		"operator", operator,
	)
	s.metrics.IncrementRegistered()
	return c, nil
}

// Get fetches one company, reading through the cache.
func (s *Service) Get(ctx context.Context, number identifier.CompanyRegistrationNumber) (_ *models.Company, err error) {
	ctx, span := s.tracer.Start(ctx, "company.Get",
		trace.WithAttributes(attribute.String("company.number", number.String())))
	defer s.finish(span, "get", time.Now(), &err)

	if number.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "company number is required")
	}
	if c, ok := s.cacheGet(ctx, number); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return c, nil
	}

	c, err := s.store.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "company not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load company")
	}
	s.cacheSet(ctx, c)
	return c, nil
}

// GetMany looks up several numbers at once. Cache reads fan out
// concurrently; all misses are then loaded in a single store call. Found
// keeps the order of first appearance in numbers.
func (s *Service) GetMany(ctx context.Context, numbers []identifier.CompanyRegistrationNumber) (_ *models.LookupResult, err error) {
	ctx, span := s.tracer.Start(ctx, "company.GetMany")
	defer s.finish(span, "get_many", time.Now(), &err)

	numbers = strutil.Dedupe(numbers)
	span.SetAttributes(attribute.Int("company.count", len(numbers)))
	if len(numbers) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "at least one company number is required")
	}
	if len(numbers) > s.lookupLimit {
		return nil, dErrors.New(dErrors.CodeValidation,
			"at most "+strconv.Itoa(s.lookupLimit)+" company numbers may be looked up at once")
	}
	for _, n := range numbers {
		if n.IsZero() {
			return nil, dErrors.New(dErrors.CodeValidation, "company number is required")
		}
	}

	found := make([]*models.Company, len(numbers))
	var g errgroup.Group
	g.SetLimit(cacheConcurrency)
	for i, n := range numbers {
		g.Go(func() error {
			if c, ok := s.cacheGet(ctx, n); ok {
				found[i] = c
			}
			return nil
		})
	}
	_ = g.Wait()

	var misses []identifier.CompanyRegistrationNumber
	for i, c := range found {
		if c == nil {
			misses = append(misses, numbers[i])
		}
	}

	if len(misses) > 0 {
		loaded, err := s.store.FindByNumbers(ctx, misses)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load companies")
		}
		byNumber := make(map[identifier.CompanyRegistrationNumber]*models.Company, len(loaded))
		for _, c := range loaded {
			byNumber[c.Number] = c
		}
		for i, n := range numbers {
			if found[i] == nil {
				found[i] = byNumber[n]
			}
		}

		var warm errgroup.Group
		warm.SetLimit(cacheConcurrency)
		for _, c := range loaded {
			warm.Go(func() error {
				s.cacheSet(ctx, c)
				return nil
			})
		}
		_ = warm.Wait()
	}

	result := &models.LookupResult{}
	for i, c := range found {
		if c == nil {
			result.Missing = append(result.Missing, numbers[i])
			continue
		}
		result.Found = append(result.Found, c)
	}
	return result, nil
}

// ListByOutward lists companies registered in one postcode outward code.
func (s *Service) ListByOutward(ctx context.Context, outward string, limit int) (_ []*models.Company, err error) {
	ctx, span := s.tracer.Start(ctx, "company.ListByOutward",
		trace.WithAttributes(attribute.String("postcode.outward", outward)))
	defer s.finish(span, "list_by_outward", time.Now(), &err)

	code, err := identifier.ParseOutwardCode(outward)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "outward must be a UK postcode outward code")
	}
	if limit <= 0 || limit > s.lookupLimit {
		limit = min(defaultListLimit, s.lookupLimit)
	}

	companies, err := s.store.ListByOutward(ctx, code, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list companies")
	}
	return companies, nil
}

// Delete removes a company and its cache entry.
func (s *Service) Delete(ctx context.Context, number identifier.CompanyRegistrationNumber) (err error) {
	ctx, span := s.tracer.Start(ctx, "company.Delete",
		trace.WithAttributes(attribute.String("company.number", number.String())))
	defer s.finish(span, "delete", time.Now(), &err)

	if number.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "company number is required")
	}
	if err := s.store.Delete(ctx, number); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "company not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete company")
	}
	if err := s.cache.Delete(ctx, number); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to evict company from cache",
			"company_number", number.String(),
			"error", err,
		)
	}

	s.logAudit(ctx, audit.ActionCompanyDeleted,
		"company_number", number,
		"operator", requestcontext.Operator(ctx),
	)
	return nil
}

func (s *Service) cacheGet(ctx context.Context, number identifier.CompanyRegistrationNumber) (*models.Company, bool) {
	c, err := s.cache.Get(ctx, number)
	switch {
	case err == nil:
		s.metrics.IncrementCacheLookup("hit")
		return c, true
	case errors.Is(err, sentinel.ErrNotFound):
		s.metrics.IncrementCacheLookup("miss")
	default:
		s.metrics.IncrementCacheLookup("error")
		if s.logger != nil && !errors.Is(err, sentinel.ErrUnavailable) {
			s.logger.WarnContext(ctx, "company cache read failed",
				"company_number", number.String(),
				"error", err,
			)
		}
	}
	return nil, false
}

func (s *Service) cacheSet(ctx context.Context, c *models.Company) {
	if err := s.cache.Set(ctx, c); err != nil && s.logger != nil && !errors.Is(err, sentinel.ErrUnavailable) {
		s.logger.WarnContext(ctx, "company cache write failed",
			"company_number", c.Number.String(),
			"error", err,
		)
	}
}

func (s *Service) finish(span trace.Span, operation string, start time.Time, errp *error) {
	err := *errp
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	}
	span.End()
	s.metrics.ObserveOperation(operation, err, time.Since(start))
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	requestID := requestcontext.RequestID(ctx)
	if requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, event, args...)
	}
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Timestamp: s.now(ctx),
		Action:    event,
		Subject:   attrs.ExtractString(attributes, "company_number"),
		Kind:      identifier.KindCompanyRegistrationNumber.String(),
		Operator:  attrs.ExtractString(attributes, "operator"),
		RequestID: requestID,
		Detail:    attrs.ExtractString(attributes, "name"),
	})
	if err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to publish audit event", "event", event, "error", err)
	}
}
