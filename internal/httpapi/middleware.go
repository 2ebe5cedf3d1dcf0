package httpapi

import (
	"context"
	"log"
	"net/http"
	"runtime/debug"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/camposanto/camposanto/internal/platform/errors"
	"github.com/camposanto/camposanto/internal/platform/requestctx"
	"github.com/camposanto/camposanto/internal/platform/timeouts"
	"github.com/camposanto/camposanto/internal/storage"
)

// middleware wraps an HTTP handler.
type middleware func(http.Handler) http.Handler

// chain applies middleware in declaration order.
func chain(handler http.Handler, wrappers ...middleware) http.Handler {
	wrapped := handler
	for idx := len(wrappers) - 1; idx >= 0; idx-- {
		wrapped = wrappers[idx](wrapped)
	}
	return wrapped
}

// recoverPanic converts panics into HTTP 500 responses.
func recoverPanic() middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if recovered := recover(); recovered != nil {
					log.Printf("panic recovered method=%s path=%s panic=%v stack=%s",
						r.Method, r.URL.Path, recovered, strings.TrimSpace(string(debug.Stack())))
					writeError(w, r, apperrors.New(apperrors.CodeInternalError, "panic"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// withTimeout caps each request, including its database work.
func withTimeout() middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeouts.Request)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// withTracing opens one span per request. A no-op when no tracer provider
// is registered.
func withTracing() middleware {
	tracer := otel.Tracer("httpapi")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.path", r.URL.Path),
				),
			)
			defer span.End()

			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r.WithContext(ctx))

			span.SetAttributes(attribute.Int("http.status_code", recorder.status))
			if recorder.status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(recorder.status))
			}
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// sessionVerifier verifies a bearer token into a session.
type sessionVerifier interface {
	Verify(tokenString string) (requestctx.Session, error)
}

// requireSession verifies the Authorization bearer token and stores the
// resulting session in the request context.
func requireSession(tokens sessionVerifier) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				writeError(w, r, apperrors.New(apperrors.CodeUnauthorized, "missing bearer token"))
				return
			}
			session, err := tokens.Verify(tokenString)
			if err != nil {
				writeError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(requestctx.WithSession(r.Context(), session)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

// requireOrgKind rejects sessions from the wrong tenant kind.
func requireOrgKind(kind storage.OrgKind) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := requestctx.SessionFromContext(r.Context())
			if !ok {
				writeError(w, r, apperrors.New(apperrors.CodeUnauthorized, "no session"))
				return
			}
			if storage.OrgKind(session.OrgKind) != kind {
				writeError(w, r, apperrors.New(apperrors.CodeWrongOrgKind, "operation requires a "+string(kind)+" organization"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireActiveSite rejects sessions without a selected site. Site-scoped
// handlers read the site from the session, never from the URL.
func requireActiveSite() middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := requestctx.SessionFromContext(r.Context())
			if !ok {
				writeError(w, r, apperrors.New(apperrors.CodeUnauthorized, "no session"))
				return
			}
			if session.ActiveSite == 0 {
				writeError(w, r, apperrors.New(apperrors.CodeNoActiveSite, "no active site selected"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
