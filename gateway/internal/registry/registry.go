package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Resolution failures use these exact messages; calling UIs match on
// them.
var (
	ErrWrongProvider = status.Error(codes.InvalidArgument, "Wrong provider")
	ErrWrongClient   = status.Error(codes.InvalidArgument, "Wrong client")
	ErrWrongMethod   = status.Error(codes.InvalidArgument, "Wrong method")
	ErrWrongMessage  = status.Error(codes.InvalidArgument, "Wrong message")
)

// Handler is one dispatchable backend method.
type Handler struct {
	// NewPayload returns a pointer to the method's request shape.
	// Nil for methods that take no payload.
	NewPayload func() any
	Invoke     func(ctx context.Context, payload any, headers http.Header) (any, error)
}

// Registry maps (service, interface, method) to handlers. It is
// populated once at startup and read-only afterwards.
type Registry struct {
	validate  *validator.Validate
	providers map[string]map[string]map[string]Handler
}

func New() *Registry {
	return &Registry{
		validate:  validator.New(),
		providers: make(map[string]map[string]map[string]Handler),
	}
}

func (r *Registry) Add(service, iface, method string, h Handler) {
	contracts, ok := r.providers[service]
	if !ok {
		contracts = make(map[string]map[string]Handler)
		r.providers[service] = contracts
	}
	methods, ok := contracts[iface]
	if !ok {
		methods = make(map[string]Handler)
		contracts[iface] = methods
	}
	methods[method] = h
}

// Resolve finds the handler for an envelope. Service and interface
// names are normalized by capitalizing the first letter. The method is
// matched case-sensitive first and re-tried capitalized when the
// incoming interface name was lower-case.
func (r *Registry) Resolve(service, iface, method string) (Handler, error) {
	contracts, ok := r.providers[capitalize(service)]
	if !ok {
		return Handler{}, ErrWrongProvider
	}

	methods, ok := contracts[capitalize(iface)]
	if !ok {
		return Handler{}, ErrWrongClient
	}

	h, ok := methods[method]
	if !ok && iface != capitalize(iface) {
		h, ok = methods[capitalize(method)]
	}
	if !ok {
		return Handler{}, ErrWrongMethod
	}
	return h, nil
}

// DecodePayload builds the typed payload for a handler from the raw
// envelope message. Unknown fields, type mismatches, and failed field
// validation are all "Wrong message".
func (r *Registry) DecodePayload(h Handler, message json.RawMessage) (any, error) {
	if h.NewPayload == nil {
		return nil, nil
	}

	payload := h.NewPayload()
	if len(message) > 0 && !bytes.Equal(message, []byte("null")) {
		dec := json.NewDecoder(bytes.NewReader(message))
		dec.DisallowUnknownFields()
		if err := dec.Decode(payload); err != nil {
			return nil, ErrWrongMessage
		}
	}
	if err := r.validate.Struct(payload); err != nil {
		return nil, ErrWrongMessage
	}
	return payload, nil
}

// Metadata builds the outgoing headers: everything is forwarded
// verbatim except authorization, which is rewritten to bearer form.
func Metadata(headers map[string]string) http.Header {
	out := make(http.Header, len(headers))
	for name, value := range headers {
		if strings.EqualFold(name, "authorization") {
			out.Set("Authorization", "Bearer "+value)
			continue
		}
		out.Set(name, value)
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + s[size:]
}
