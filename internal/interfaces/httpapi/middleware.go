package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/umatomo/predict-api/internal/domain/user"
	"github.com/umatomo/predict-api/internal/platform/logging"
	"github.com/umatomo/predict-api/internal/usecase"
)

// TokenVerifier verifies bearer tokens against the account service.
type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (user.Principal, error)
}

// RequireAuth resolves the Authorization header into a principal and stores
// it on the request context. Handlers behind it can assume a principal exists.
func RequireAuth(verifier TokenVerifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.RequireAuth")
		defer span.End()

		token, err := bearerToken(r)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		principal, err := verifier.VerifyAccessToken(ctx, token)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withPrincipal(ctx, principal)))
	})
}

func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", fmt.Errorf("%w: missing Authorization header", usecase.ErrUnauthorized)
	}
	scheme, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", fmt.Errorf("%w: invalid Authorization header format", usecase.ErrUnauthorized)
	}
	return token, nil
}

// RequireInternalJobToken guards the admin endpoints behind a shared secret
// sent in X-Internal-Job-Token. An unconfigured secret fails closed.
func RequireInternalJobToken(token string, next http.Handler) http.Handler {
	want := strings.TrimSpace(token)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.RequireInternalJobToken")
		defer span.End()

		if want == "" {
			writeError(ctx, w, fmt.Errorf("%w: internal job token is not configured", usecase.ErrDependencyUnavailable))
			return
		}
		got := strings.TrimSpace(r.Header.Get("X-Internal-Job-Token"))
		if got == "" || got != want {
			writeError(ctx, w, fmt.Errorf("%w: invalid internal job token", usecase.ErrUnauthorized))
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestLogging emits one access log line per request, correlated with the
// active trace when there is one.
func RequestLogging(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.RequestLogging")
		defer span.End()

		started := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))

		traceID, spanID := spanIDs(ctx)
		logger.InfoContext(ctx, "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(started).Milliseconds(),
			"trace_id", traceID,
			"span_id", spanID,
		)
	})
}

func spanIDs(ctx context.Context) (traceID, spanID string) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", ""
	}
	return sc.TraceID().String(), sc.SpanID().String()
}

// Health probes are high-frequency and carry no signal worth a span.
var untracedPaths = map[string]struct{}{
	"/healthz": {},
	"/health":  {},
	"/livez":   {},
	"/readyz":  {},
}

func RequestTracing(next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, "predict-api-http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			path := strings.ToLower(strings.TrimSpace(r.URL.Path))
			_, skip := untracedPaths[path]
			return !skip
		}),
	)
}

// CaptureRequestBody attaches a truncated copy of mutating request bodies to
// the active span. The body is restored so downstream decoding still works.
func CaptureRequestBody(maxBytes int, next http.Handler) http.Handler {
	if maxBytes <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		span := trace.SpanFromContext(r.Context())
		if r.Body == nil || !mutatingMethod(r.Method) || !span.SpanContext().IsValid() {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, int64(maxBytes)+1))
		_ = r.Body.Close()
		if err != nil {
			writeError(r.Context(), w, fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err))
			return
		}

		captured, truncated := body, false
		if len(captured) > maxBytes {
			captured, truncated = captured[:maxBytes], true
		}
		span.SetAttributes(
			attribute.String("http.request.body", string(captured)),
			attribute.Bool("http.request.body_truncated", truncated),
		)

		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

func mutatingMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// CORS answers preflight requests and stamps allow headers for configured
// origins. "*" in the origin list allows everyone.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	policy := newOriginPolicy(allowedOrigins)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.CORS")
		defer span.End()

		if origin := strings.TrimSpace(r.Header.Get("Origin")); origin != "" {
			policy.apply(w.Header(), origin)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type originPolicy struct {
	allowAll bool
	allowed  map[string]struct{}
}

func newOriginPolicy(origins []string) originPolicy {
	p := originPolicy{allowed: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		o = strings.TrimSpace(o)
		switch o {
		case "":
		case "*":
			p.allowAll = true
		default:
			p.allowed[o] = struct{}{}
		}
	}
	return p
}

func (p originPolicy) apply(h http.Header, origin string) {
	if p.allowAll {
		h.Set("Access-Control-Allow-Origin", "*")
	} else if _, ok := p.allowed[origin]; ok {
		h.Set("Access-Control-Allow-Origin", origin)
		h.Add("Vary", "Origin")
	} else {
		return
	}
	h.Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Authorization,Content-Type,Accept")
	h.Set("Access-Control-Max-Age", "600")
}
