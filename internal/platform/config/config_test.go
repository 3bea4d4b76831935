package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"UKID_ADDR", "DATABASE_URL", "REDIS_URL", "KAFKA_BROKERS", "BATCH_LIMIT", "COMPANY_CACHE_TTL"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Empty(t, cfg.Postgres.URL)
	assert.Empty(t, cfg.Redis.URL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "ukid.audit", cfg.Kafka.AuditTopic)
	assert.Equal(t, 500, cfg.Identifier.BatchLimit)
	assert.Equal(t, 10*time.Minute, cfg.Company.CacheTTL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("UKID_ADDR", ":9090")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,,")
	t.Setenv("BATCH_LIMIT", "50")
	t.Setenv("COMPANY_CACHE_TTL", "30s")
	t.Setenv("REDIS_POOL_SIZE", "not-a-number")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 50, cfg.Identifier.BatchLimit)
	assert.Equal(t, 30*time.Second, cfg.Company.CacheTTL)
	assert.Equal(t, 10, cfg.Redis.PoolSize, "invalid values fall back to the default")
}
