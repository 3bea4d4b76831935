package httpserver

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ukid/internal/platform/config"
)

func TestRun_StopsOnCancel(t *testing.T) {
	srv := New(config.Server{Addr: "127.0.0.1:0", ReadTimeout: time.Second, WriteTimeout: time.Second}, http.NotFoundHandler())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, srv, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNew_AppliesTimeouts(t *testing.T) {
	srv := New(config.Server{Addr: ":0", ReadTimeout: 3 * time.Second, WriteTimeout: 4 * time.Second}, http.NotFoundHandler())
	assert.Equal(t, 3*time.Second, srv.ReadTimeout)
	assert.Equal(t, 4*time.Second, srv.WriteTimeout)
	assert.Equal(t, 5*time.Second, srv.ReadHeaderTimeout)
}
