package healthcheck

import (
	"context"
	"testing"
)

func TestCheckAggregatesStatuses(t *testing.T) {
	checker := NewBuilder().
		Indicator("always", AlwaysHealthyIndicator{}).
		Check("flaky", func(ctx context.Context) Result { return Unhealthy() }).
		Build()

	resp := checker.Check(context.Background())
	if resp.Status != Down {
		t.Fatalf("expected Down overall status, got %s", resp.Status)
	}
	if len(resp.Indicators) != 2 {
		t.Fatalf("expected 2 indicator results, got %d", len(resp.Indicators))
	}
}

func TestCheckLivenessAlwaysUp(t *testing.T) {
	checker := NewBuilder().
		Check("db", func(ctx context.Context) Result { return Unhealthy() }).
		Build()

	resp := checker.CheckLiveness(context.Background())
	if resp.Status != Up {
		t.Fatalf("expected liveness to always report Up, got %s", resp.Status)
	}
}

func TestReadinessRunsOnlyRegisteredIndicators(t *testing.T) {
	checker := NewBuilder().
		Indicator("cache", AlwaysHealthyIndicator{}).
		ReadinessIndicator("db", NewCustomIndicator("db", func(ctx context.Context) Result { return Unhealthy() })).
		Build()

	resp := checker.CheckReadiness(context.Background())
	if resp.Status != Down {
		t.Fatalf("expected readiness to fail on db indicator, got %s", resp.Status)
	}
	if _, ok := resp.Indicators["cache"]; ok {
		t.Fatalf("expected non-readiness indicator to be excluded from readiness check")
	}
}

func TestReadinessFallsBackToFullCheckWhenNoneRegistered(t *testing.T) {
	checker := NewBuilder().
		Indicator("cache", AlwaysHealthyIndicator{}).
		Build()

	resp := checker.CheckReadiness(context.Background())
	if resp.Status != Up {
		t.Fatalf("expected Up, got %s", resp.Status)
	}
	if _, ok := resp.Indicators["cache"]; !ok {
		t.Fatalf("expected fallback readiness check to include all indicators")
	}
}

func TestStatusCombine(t *testing.T) {
	if Up.Combine(Down) != Down {
		t.Fatal("Down should dominate Up")
	}
	if Degraded.Combine(Up) != Degraded {
		t.Fatal("Degraded should dominate Up")
	}
	if Unknown.Combine(Degraded) != Unknown {
		t.Fatal("Unknown should dominate Degraded")
	}
}

func TestStatusHTTPCode(t *testing.T) {
	if Up.HTTPStatusCode() != 200 {
		t.Fatal("expected Up to map to 200")
	}
	if Down.HTTPStatusCode() != 503 {
		t.Fatal("expected Down to map to 503")
	}
}
