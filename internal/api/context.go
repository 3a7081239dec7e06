package api

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"vivendi/backend/internal/model"
)

type contextKey string

const (
	identityKey contextKey = "identity"
	bodyKey     contextKey = "rawBody"
)

// identityFrom returns the authenticated identity attached by the auth
// middleware, or nil when none is present.
func identityFrom(ctx context.Context) *model.Identity {
	identity, _ := ctx.Value(identityKey).(*model.Identity)
	return identity
}

func withIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

const maxEchoBody = 1 << 20 // 1 MiB

// BufferBody keeps a copy of the request body in the context so the error
// responder can echo it in non-production environments. The body stays
// readable for handlers.
func BufferBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil && r.Body != http.NoBody {
			raw, err := io.ReadAll(io.LimitReader(r.Body, maxEchoBody))
			if err == nil {
				r.Body = io.NopCloser(bytes.NewReader(raw))
				r = r.WithContext(context.WithValue(r.Context(), bodyKey, raw))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func bufferedBody(ctx context.Context) []byte {
	raw, _ := ctx.Value(bodyKey).([]byte)
	return raw
}
