package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the complete process configuration.
type Config struct {
	Server     Server
	Postgres   PostgresConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Auth       AuthConfig
	Company    CompanyConfig
	Identifier IdentifierConfig
	LogLevel   string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// PostgresConfig selects the company store. An empty URL keeps the
// in-memory store.
type PostgresConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig configures the company cache. An empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures audit publishing. No brokers means audit events
// stay in memory.
type KafkaConfig struct {
	Brokers     []string
	AuditTopic  string
	Partitions  int32
	Replication int16
}

// AuthConfig holds the operator token settings.
type AuthConfig struct {
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
}

// CompanyConfig tunes the company register.
type CompanyConfig struct {
	CacheTTL    time.Duration
	LookupLimit int
}

// IdentifierConfig tunes the identifier endpoints.
type IdentifierConfig struct {
	BatchLimit int
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:            getString("UKID_ADDR", ":8080"),
			ReadTimeout:     getDuration("UKID_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDuration("UKID_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getDuration("UKID_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Postgres: PostgresConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: getInt("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns: getInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:     getList("KAFKA_BROKERS"),
			AuditTopic:  getString("AUDIT_TOPIC", "ukid.audit"),
			Partitions:  int32(getInt("AUDIT_TOPIC_PARTITIONS", 3)),
			Replication: int16(getInt("AUDIT_TOPIC_REPLICATION", 1)),
		},
		Auth: AuthConfig{
			// Development default; production deployments must override it.
			JWTSigningKey: getString("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			JWTIssuer:     getString("JWT_ISSUER", "ukid"),
			JWTAudience:   getString("JWT_AUDIENCE", "ukid-operators"),
		},
		Company: CompanyConfig{
			CacheTTL:    getDuration("COMPANY_CACHE_TTL", 10*time.Minute),
			LookupLimit: getInt("COMPANY_LOOKUP_LIMIT", 100),
		},
		Identifier: IdentifierConfig{
			BatchLimit: getInt("BATCH_LIMIT", 500),
		},
		LogLevel: getString("LOG_LEVEL", "info"),
	}
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
