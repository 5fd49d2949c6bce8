package jsonrpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	t.Run("successful call", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

			assert.Equal(t, "2.0", req["jsonrpc"])
			assert.Equal(t, "getHealth", req["method"])
			assert.NotEmpty(t, req["id"])

			_ = json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0",
				"id":      req["id"],
				"result":  "ok",
			})
		}))
		defer srv.Close()

		c := NewClient(srv.Client(), srv.URL)

		result, err := c.Fetch(context.Background(), "getHealth")
		require.NoError(t, err)
		assert.JSONEq(t, `"ok"`, string(result))
	})

	t.Run("positional params are forwarded", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Params []json.RawMessage `json:"params"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req.Params, 2)
			assert.JSONEq(t, `"some-address"`, string(req.Params[0]))
			assert.JSONEq(t, `{"limit":3}`, string(req.Params[1]))

			_ = json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "result": []any{}})
		}))
		defer srv.Close()

		c := NewClient(srv.Client(), srv.URL)

		_, err := c.Fetch(context.Background(), "getSignaturesForAddress",
			"some-address", map[string]any{"limit": 3})
		require.NoError(t, err)
	})

	t.Run("provider error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0",
				"error":   map[string]any{"code": -32601, "message": "method not found"},
			})
		}))
		defer srv.Close()

		c := NewClient(srv.Client(), srv.URL)

		_, err := c.Fetch(context.Background(), "bogusMethod")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrProviderReturnedError)
		assert.Contains(t, err.Error(), "method not found")
	})

	t.Run("malformed response body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer srv.Close()

		c := NewClient(srv.Client(), srv.URL)

		_, err := c.Fetch(context.Background(), "getHealth")
		assert.Error(t, err)
	})
}
