package chain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFlakyRPC serves eth_blockNumber and fails the first failures requests.
func newFlakyRPC(t *testing.T, failures int32) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) <= failures {
			http.Error(w, "starting", http.StatusServiceUnavailable)
			return
		}

		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  "0x2a",
		})
	}))
	t.Cleanup(server.Close)

	return server, &requests
}

func TestWaitForRPCRetriesUntilReady(t *testing.T) {
	server, requests := newFlakyRPC(t, 2)

	client, err := WaitForRPC(context.Background(), server.URL, 5, 10*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	assert.Equal(t, int32(3), requests.Load())

	blockNumber, err := client.BlockNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(42), blockNumber)
}

func TestWaitForRPCReturnsAfterLastAttempt(t *testing.T) {
	server, requests := newFlakyRPC(t, 100)

	// A wait after the final attempt would outlast the context.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := WaitForRPC(ctx, server.URL, 1, time.Hour)
	require.ErrorContains(t, err, "timed out waiting for RPC at "+server.URL)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), requests.Load())
}

func TestDial(t *testing.T) {
	server, _ := newFlakyRPC(t, 0)

	client, err := Dial(context.Background(), server.URL)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	blockNumber, err := client.BlockNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(42), blockNumber)

	_, err = Dial(context.Background(), "ftp://127.0.0.1")
	assert.ErrorContains(t, err, "failed to connect to ftp://127.0.0.1")
}
