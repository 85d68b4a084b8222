package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weegigs/wee-counter-go/auth"
	"github.com/weegigs/wee-counter-go/connectors/wehttp"
	"github.com/weegigs/wee-counter-go/samples/counter"
	"github.com/weegigs/wee-counter-go/support"
)

func newServer(t *testing.T) http.Handler {
	store, cleanup, err := openStore(context.Background(), support.Config{Store: support.MemoryStore})
	require.NoError(t, err)
	t.Cleanup(cleanup)

	registry, metrics, err := newRegistry()
	require.NoError(t, err)

	return routes(counter.CreateCounterService(store, metrics), registry, nil)
}

func post(t *testing.T, handler http.Handler, path string, key auth.PrivateKey, body []byte) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	wehttp.Sign(r, body, key)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	return w
}

func servesHealth(t *testing.T) {
	w := httptest.NewRecorder()
	newServer(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func countsCommandsInMetrics(t *testing.T) {
	server := newServer(t)

	key, err := auth.GeneratePrivateKey()
	require.NoError(t, err)

	create, err := json.Marshal(map[string]any{
		"command": "counter:create",
		"payload": map[string]any{"owner": key.Identity().String()},
	})
	require.NoError(t, err)

	w := post(t, server, "/counter/metered", key, create)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = post(t, server, "/counter/metered", key, []byte(`{"command":"counter:decrement"}`))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	metrics := w.Body.String()
	assert.True(t, strings.Contains(metrics, `we_commands_dispatched_total{command="counter:create",outcome="accepted"} 1`), metrics)
	assert.True(t, strings.Contains(metrics, `we_commands_dispatched_total{command="counter:decrement",outcome="rejected"} 1`), metrics)
}

func servesCounters(t *testing.T) {
	w := httptest.NewRecorder()
	newServer(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/counter/nothing-here", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer(t *testing.T) {
	t.Run("serves health", servesHealth)
	t.Run("counts commands in metrics", countsCommandsInMetrics)
	t.Run("serves counters", servesCounters)
}
