// Package jsonrpc implements a generic JSON-RPC 2.0 client over HTTP. It is
// transport for any JSON-RPC compatible service; in this project it talks to
// Solana RPC nodes, whose methods take positional parameters mixing plain
// values and option objects.
package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrProviderReturnedError indicates the remote server answered with a
// JSON-RPC error object.
var ErrProviderReturnedError = errors.New("provider error")

// response is a standard JSON-RPC 2.0 response envelope.
type response struct {
	JsonRPC string `json:"jsonrpc"` // protocol version, normally "2.0"
	Error   *struct {
		Code    int    `json:"code"`    // server-defined error code
		Message string `json:"message"` // human-readable description
	} `json:"error"`
	Result json.RawMessage `json:"result"` // raw result payload
}

// Err converts an error object in the response into a Go error wrapping
// ErrProviderReturnedError, or returns nil when the call succeeded.
func (r response) Err() error {
	if r.Error == nil {
		return nil
	}

	return fmt.Errorf("%w: [%d] - %s", ErrProviderReturnedError, r.Error.Code, r.Error.Message)
}

// Client is the JSON-RPC call surface, abstracted for mocking in tests.
type Client interface {
	// Fetch sends a JSON-RPC request with the given method and positional
	// parameters, returning the raw result or an error when either the
	// transport or the server fails.
	Fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error)
}

// client is the default Client implementation, posting requests to a single
// provider endpoint through the supplied HTTP client.
type client struct {
	providerEndpoint string       // URL of the remote JSON-RPC server
	httpClient       *http.Client // HTTP client used to perform requests
}

var _ Client = (*client)(nil)

// Fetch implements Client. Request ids are generated as UUID strings.
func (c *client) Fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      uuid.NewString(),
		"method":  method,
		"params":  params,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.providerEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var data response
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, err
	}

	return data.Result, data.Err()
}

// NewClient returns a Client posting to providerEndpoint with httpClient.
func NewClient(httpClient *http.Client, providerEndpoint string) *client {
	return &client{
		providerEndpoint: providerEndpoint,
		httpClient:       httpClient,
	}
}
