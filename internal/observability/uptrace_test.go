package observability

import (
	"context"
	"testing"

	"github.com/umatomo/predict-api/internal/config"
	"github.com/umatomo/predict-api/internal/platform/logging"
)

func TestUptraceDisabledReason(t *testing.T) {
	t.Parallel()

	if got := uptraceDisabledReason(config.Config{UptraceEnabled: false}); got != "UPTRACE_ENABLED=false" {
		t.Fatalf("reason: got=%q", got)
	}
	if got := uptraceDisabledReason(config.Config{UptraceEnabled: true, UptraceDSN: "  "}); got != "UPTRACE_DSN empty" {
		t.Fatalf("reason: got=%q", got)
	}
	if got := uptraceDisabledReason(config.Config{UptraceEnabled: true, UptraceDSN: "https://token@api.uptrace.dev/1"}); got != "" {
		t.Fatalf("expected no disable reason, got %q", got)
	}
}

func TestInitUptrace_DisabledReturnsNoopShutdown(t *testing.T) {
	t.Parallel()

	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "predict-api",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
