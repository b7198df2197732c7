package otel_test

import (
	"context"
	"testing"

	"github.com/louisbranch/cardapp/internal/platform/otel"
	gotel "go.opentelemetry.io/otel"
)

func TestSetup_NoopWhenEndpointEmpty(t *testing.T) {
	shutdown, err := otel.Setup(context.Background(), "test-service", otel.Config{Enabled: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_NoopWhenExplicitlyDisabled(t *testing.T) {
	shutdown, err := otel.Setup(context.Background(), "test-service", otel.Config{
		Endpoint: "http://localhost:4318",
		Enabled:  false,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_InstallsTraceContextPropagator(t *testing.T) {
	if _, err := otel.Setup(context.Background(), "test-service", otel.Config{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fields := gotel.GetTextMapPropagator().Fields()
	found := false
	for _, field := range fields {
		if field == "traceparent" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected traceparent propagator field, got %v", fields)
	}
}

func TestSetup_CreatesProviderWhenEndpointSet(t *testing.T) {
	// Use a non-routable address so no actual export happens.
	shutdown, err := otel.Setup(context.Background(), "test-service", otel.Config{
		Endpoint:    "http://192.0.2.1:4318",
		Enabled:     true,
		SampleRatio: 0.25,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Shutdown should flush cleanly even though the endpoint is unreachable.
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestConfigActive(t *testing.T) {
	tests := []struct {
		name string
		cfg  otel.Config
		want bool
	}{
		{name: "empty", cfg: otel.Config{Enabled: true}},
		{name: "blank endpoint", cfg: otel.Config{Enabled: true, Endpoint: "  "}},
		{name: "disabled", cfg: otel.Config{Endpoint: "http://collector:4318"}},
		{name: "enabled", cfg: otel.Config{Enabled: true, Endpoint: "http://collector:4318"}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Active(); got != tt.want {
				t.Fatalf("Active() = %v, want %v", got, tt.want)
			}
		})
	}
}
