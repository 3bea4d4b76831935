package kafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ukid/internal/platform/config"
)

func TestNewProducer_NoBrokers(t *testing.T) {
	client, err := NewProducer(context.Background(), config.KafkaConfig{AuditTopic: "ukid.audit"})
	require.NoError(t, err)
	assert.Nil(t, client)
}
