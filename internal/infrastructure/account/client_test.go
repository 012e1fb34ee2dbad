package account

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/umatomo/predict-api/internal/platform/logging"
	"github.com/umatomo/predict-api/internal/platform/resilience"
	"github.com/umatomo/predict-api/internal/usecase"
)

func TestVerifyAccessTokenParsesResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/v1/auth/introspect" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Admin-Key"); got != "admin-secret" {
			t.Errorf("unexpected admin key: %s", got)
		}

		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		if req["token"] != "token-abc" {
			t.Errorf("unexpected token value: %s", req["token"])
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"active":   true,
			"user_id":  "user-123",
			"username": "ayu",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "/v1/auth/introspect", "admin-secret", time.Second, nil, logging.NewNop())

	principal, err := client.VerifyAccessToken(context.Background(), "token-abc")
	if err != nil {
		t.Fatalf("verify token failed: %v", err)
	}
	if principal.UserID != "user-123" {
		t.Fatalf("unexpected user id: %s", principal.UserID)
	}
	if principal.Username != "ayu" {
		t.Fatalf("unexpected username: %s", principal.Username)
	}
}

func TestVerifyAccessTokenInactiveToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"active": false})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "/v1/auth/introspect", "", time.Second, nil, logging.NewNop())

	_, err := client.VerifyAccessToken(context.Background(), "stale-token")
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerifyAccessTokenEmptyToken(t *testing.T) {
	t.Parallel()

	client := NewClient("http://localhost:0", "/v1/auth/introspect", "", time.Second, nil, logging.NewNop())

	_, err := client.VerifyAccessToken(context.Background(), "  ")
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerifyAccessTokenOpenCircuit(t *testing.T) {
	t.Parallel()

	breaker := resilience.NewCircuitBreaker(1, time.Minute, 1)
	breaker.RecordFailure()

	client := NewClient("http://localhost:0", "/v1/auth/introspect", "", time.Second, breaker, logging.NewNop())

	_, err := client.VerifyAccessToken(context.Background(), "token-abc")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestBuildURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		base string
		path string
		want string
	}{
		{"http://svc:8081/", "/v1/auth/introspect", "http://svc:8081/v1/auth/introspect"},
		{"http://svc:8081", "v1/auth/introspect", "http://svc:8081/v1/auth/introspect"},
		{"http://svc:8081", "", "http://svc:8081"},
		{"http://svc:8081", "https://other/introspect", "https://other/introspect"},
	}
	for _, tc := range cases {
		if got := buildURL(tc.base, tc.path); got != tc.want {
			t.Fatalf("buildURL(%q, %q) = %q, want %q", tc.base, tc.path, got, tc.want)
		}
	}
}
