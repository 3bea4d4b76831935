package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))

	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, p.Emit(context.Background(), Event{
		Timestamp: at,
		Action:    ActionCompanyRegistered,
		Subject:   "SC123456",
		Kind:      "crn",
		Operator:  "ops@example.com",
		RequestID: "req-1",
	}))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "audit", line["log_type"])
	assert.Equal(t, ActionCompanyRegistered, line["action"])
	assert.Equal(t, "SC123456", line["subject"])
	assert.Equal(t, "ops@example.com", line["operator"])
	assert.Equal(t, "req-1", line["request_id"])
}

func TestLogPublisher_OneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))
	for range 1000 {
		require.NoError(t, p.Emit(context.Background(), Event{Action: ActionCompanyDeleted, Subject: "01234567"}))
	}
	assert.Equal(t, 1000, bytes.Count(buf.Bytes(), []byte("\n")))
}
