package http

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/vncsmyrnk/dailygoals/internal/core/domain"
	"github.com/vncsmyrnk/dailygoals/internal/core/ports"
	"github.com/vncsmyrnk/dailygoals/internal/dbx"
	"github.com/vncsmyrnk/dailygoals/internal/logging"
)

// PublicPaths bypass the auth gate.
var PublicPaths = []string{"/health", "/auth/register", "/auth/login", "/auth/refresh"}

// RevocationTolerantPaths accept an authentic access token that was already
// revoked, so repeating a logout is not an error.
var RevocationTolerantPaths = []string{"/auth/logout"}

// AuthGate resolves the bearer token of every non-public request to a user id
// and stores it in the request context. Every rejection is a 401.
func AuthGate(auth ports.AuthService, log logging.Logger) func(http.Handler) http.Handler {
	public := toSet(PublicPaths)
	tolerant := toSet(RevocationTolerantPaths)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := public[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok || token == "" {
				writeError(w, r, log, domain.ErrMissingAuthToken)
				return
			}

			authenticate := auth.Authenticate
			if _, ok := tolerant[r.URL.Path]; ok {
				authenticate = auth.AuthenticateForLogout
			}

			userID, err := authenticate(r.Context(), token)
			if err != nil {
				writeError(w, r, log, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

var errRollback = errors.New("rollback")

// TxMiddleware runs each request in its own transaction. The response is
// buffered and only sent after the transaction commits; requests that end
// with a status of 400 or above are rolled back.
func TxMiddleware(db *sql.DB, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			buf := newBufferedResponse()

			err := dbx.WithTx(r.Context(), db, nil, func(ctx context.Context, _ dbx.DBTX) error {
				next.ServeHTTP(buf, r.WithContext(ctx))
				if buf.status >= http.StatusBadRequest {
					return errRollback
				}
				return nil
			})
			if err != nil && !errors.Is(err, errRollback) {
				writeError(w, r, log, err)
				return
			}

			buf.flush(w)
		})
	}
}

type bufferedResponse struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{header: http.Header{}}
}

func (b *bufferedResponse) Header() http.Header {
	return b.header
}

func (b *bufferedResponse) WriteHeader(status int) {
	if b.status == 0 {
		b.status = status
	}
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}

func (b *bufferedResponse) flush(w http.ResponseWriter) {
	for k, v := range b.header {
		w.Header()[k] = v
	}
	status := b.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(b.body.Bytes())
}

// RequestLogger logs one line per request through log.
func RequestLogger(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
