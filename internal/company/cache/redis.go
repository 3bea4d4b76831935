package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"ukid/internal/company/models"
	"ukid/pkg/identifier"
	"ukid/pkg/platform/circuit"
	"ukid/pkg/platform/sentinel"
)

const (
	keyPrefix         = "ukid:company:"
	defaultTTL        = 10 * time.Minute
	defaultProbeEvery = 5 * time.Second
	breakerName       = "company-cache"
)

// Redis caches company snapshots keyed by registration number. Failures
// feed a circuit breaker; while it is open calls return
// sentinel.ErrUnavailable without touching Redis, apart from one probe per
// interval.
type Redis struct {
	client     redis.Cmdable
	ttl        time.Duration
	breaker    *circuit.Breaker
	logger     *slog.Logger
	probeEvery time.Duration
	now        func() time.Time

	mu        sync.Mutex
	lastProbe time.Time
}

type Option func(*Redis)

func WithTTL(ttl time.Duration) Option {
	return func(r *Redis) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(r *Redis) {
		if b != nil {
			r.breaker = b
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Redis) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithProbeInterval sets how often an open circuit lets one call through.
func WithProbeInterval(d time.Duration) Option {
	return func(r *Redis) {
		if d > 0 {
			r.probeEvery = d
		}
	}
}

func NewRedis(client redis.Cmdable, opts ...Option) *Redis {
	r := &Redis{
		client:     client,
		ttl:        defaultTTL,
		breaker:    circuit.New(breakerName),
		logger:     slog.Default(),
		probeEvery: defaultProbeEvery,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func key(number identifier.CompanyRegistrationNumber) string {
	return keyPrefix + number.String()
}

// Get returns sentinel.ErrNotFound on a miss.
func (r *Redis) Get(ctx context.Context, number identifier.CompanyRegistrationNumber) (*models.Company, error) {
	if !r.allow() {
		return nil, sentinel.ErrUnavailable
	}
	data, err := r.client.Get(ctx, key(number)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.record(ctx, nil)
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		r.record(ctx, err)
		return nil, fmt.Errorf("cache get: %w", err)
	}
	r.record(ctx, nil)

	c, err := decode(data)
	if err != nil {
		_ = r.client.Del(ctx, key(number)).Err()
		return nil, err
	}
	return c, nil
}

func (r *Redis) Set(ctx context.Context, c *models.Company) error {
	if !r.allow() {
		return sentinel.ErrUnavailable
	}
	data, err := encode(c)
	if err != nil {
		return err
	}
	err = r.client.Set(ctx, key(c.Number), data, r.ttl).Err()
	r.record(ctx, err)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes the entry. Deletes are attempted even while the circuit
// is open so a recovered Redis does not serve a removed company.
func (r *Redis) Delete(ctx context.Context, number identifier.CompanyRegistrationNumber) error {
	err := r.client.Del(ctx, key(number)).Err()
	r.record(ctx, err)
	if err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// State reports the breaker position.
func (r *Redis) State() circuit.State {
	return r.breaker.State()
}

func (r *Redis) allow() bool {
	if !r.breaker.IsOpen() {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if now.Sub(r.lastProbe) < r.probeEvery {
		return false
	}
	r.lastProbe = now
	return true
}

func (r *Redis) record(ctx context.Context, err error) {
	var change circuit.StateChange
	if err != nil {
		_, change = r.breaker.RecordFailure()
	} else {
		_, change = r.breaker.RecordSuccess()
	}
	switch {
	case change.Opened:
		r.mu.Lock()
		r.lastProbe = r.now()
		r.mu.Unlock()
		r.logger.WarnContext(ctx, "company cache circuit opened", "breaker", r.breaker.Name(), "error", err)
	case change.Closed:
		r.logger.InfoContext(ctx, "company cache circuit closed", "breaker", r.breaker.Name())
	}
}
