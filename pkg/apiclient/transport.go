package apiclient

import (
	"net/http"

	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// bearerTransport is the request interceptor: every outgoing request carries
// the current token when one exists and goes out unauthenticated otherwise.
type bearerTransport struct {
	tokens TokenSource
	base   http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())

	if t.tokens != nil {
		if tok, ok := t.tokens.Token(r.Context()); ok {
			r.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	if r.Header.Get(HeaderRequestID) == "" {
		r.Header.Set(HeaderRequestID, uuid.NewString())
	}

	return t.base.RoundTrip(r)
}
