// Package rpcclient is the shared HTTP transport for the typed
// backend clients. Every backend speaks the same protocol: POST
// /{interface}/{method} with a JSON payload, a JSON result on 200 and
// an rpcstatus envelope otherwise.
package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vyatkin0/micro-services/pkg/rpcstatus"
)

// Conn is a connection descriptor for one backend service.
type Conn struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Conn {
	return &Conn{
		BaseURL: baseURL,
		HTTP: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Post invokes one backend method. in may be nil for methods without a
// payload; out may be nil when the result is discarded. headers are
// forwarded verbatim. Transport failures map to Unavailable, never to
// an argument error.
func (c *Conn) Post(ctx context.Context, path string, in, out any, headers http.Header) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return status.Errorf(codes.Internal, "Internal error. %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, body)
	if err != nil {
		return status.Errorf(codes.Internal, "Internal error. %v", err)
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return status.Errorf(codes.Unavailable, "Unavailable. %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var env rpcstatus.Envelope
		data, readErr := io.ReadAll(resp.Body)
		if readErr != nil || json.Unmarshal(data, &env) != nil || env.Code == 0 {
			return status.Errorf(codes.Internal, "Internal error. backend returned status %d", resp.StatusCode)
		}
		return rpcstatus.FromEnvelope(env)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return status.Errorf(codes.Internal, "Internal error. %v", err)
	}
	return nil
}
