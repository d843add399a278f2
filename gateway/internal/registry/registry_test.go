package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoPayload struct {
	Name  string `json:"name" validate:"required"`
	Count int    `json:"count"`
}

func newTestRegistry() *Registry {
	r := New()
	r.Add("Identity", "Accounts", "Login", Handler{
		NewPayload: func() any { return new(echoPayload) },
		Invoke: func(ctx context.Context, payload any, headers http.Header) (any, error) {
			return payload, nil
		},
	})
	r.Add("Identity", "Accounts", "Logout", Handler{
		Invoke: func(ctx context.Context, payload any, headers http.Header) (any, error) {
			return "ok", nil
		},
	})
	return r
}

func TestResolve(t *testing.T) {
	t.Parallel()
	r := newTestRegistry()

	_, err := r.Resolve("Identity", "Accounts", "Login")
	assert.NoError(t, err)

	// Service and interface are normalized by capitalization.
	_, err = r.Resolve("identity", "accounts", "Login")
	assert.NoError(t, err)

	_, err = r.Resolve("billing", "Accounts", "Login")
	assert.Equal(t, ErrWrongProvider, err)

	_, err = r.Resolve("Identity", "sessions", "Login")
	assert.Equal(t, ErrWrongClient, err)

	_, err = r.Resolve("Identity", "Accounts", "Refresh")
	assert.Equal(t, ErrWrongMethod, err)
}

func TestResolveMethodCaseRetry(t *testing.T) {
	t.Parallel()
	r := newTestRegistry()

	// The capitalized re-try of the method only applies when the
	// interface arrived lower-case.
	_, err := r.Resolve("identity", "accounts", "login")
	assert.NoError(t, err)

	_, err = r.Resolve("Identity", "Accounts", "login")
	assert.Equal(t, ErrWrongMethod, err)
}

func TestDecodePayload(t *testing.T) {
	t.Parallel()
	r := newTestRegistry()
	h, err := r.Resolve("Identity", "Accounts", "Login")
	require.NoError(t, err)

	payload, err := r.DecodePayload(h, json.RawMessage(`{"name":"alice","count":2}`))
	require.NoError(t, err)
	require.IsType(t, &echoPayload{}, payload)
	assert.Equal(t, &echoPayload{Name: "alice", Count: 2}, payload)
}

func TestDecodePayloadWrongMessage(t *testing.T) {
	t.Parallel()
	r := newTestRegistry()
	h, err := r.Resolve("Identity", "Accounts", "Login")
	require.NoError(t, err)

	for name, message := range map[string]string{
		"unknown field":    `{"name":"alice","extra":true}`,
		"wrong field type": `{"name":7}`,
		"missing required": `{"count":1}`,
		"empty object":     `{}`,
		"null message":     `null`,
		"no message":       ``,
		"not json":         `not-json`,
	} {
		_, err := r.DecodePayload(h, json.RawMessage(message))
		assert.Equal(t, ErrWrongMessage, err, name)
	}
}

func TestDecodePayloadNoPayloadMethod(t *testing.T) {
	t.Parallel()
	r := newTestRegistry()
	h, err := r.Resolve("Identity", "Accounts", "Logout")
	require.NoError(t, err)

	// Methods without a payload ignore whatever the envelope carries.
	payload, err := r.DecodePayload(h, json.RawMessage(`{"anything":"goes"}`))
	require.NoError(t, err)
	assert.Nil(t, payload)

	payload, err = r.DecodePayload(h, nil)
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestMetadata(t *testing.T) {
	t.Parallel()

	out := Metadata(map[string]string{
		"Authorization": "token-123",
		"X-Request-Id":  "req-1",
	})
	assert.Equal(t, "Bearer token-123", out.Get("Authorization"))
	assert.Equal(t, "req-1", out.Get("X-Request-Id"))

	// The rewrite is case-insensitive on the incoming name.
	out = Metadata(map[string]string{"authorization": "token-456"})
	assert.Equal(t, "Bearer token-456", out.Get("Authorization"))

	assert.Empty(t, Metadata(nil))
}
