package weaveconfig

import (
	"testing"
	"time"
)

func TestParseDurationBareIntegerIsSeconds(t *testing.T) {
	d, err := ParseDuration("30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 30*time.Second {
		t.Fatalf("expected 30s, got %v", d)
	}
}

func TestParseDurationUnitSuffixes(t *testing.T) {
	cases := map[string]time.Duration{
		"30s":  30 * time.Second,
		"5m":   5 * time.Minute,
		"2h":   2 * time.Hour,
		"1d":   24 * time.Hour,
		"250ms": 250 * time.Millisecond,
	}
	for input, want := range cases {
		got, err := ParseDuration(input)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", input, err)
		}
		if got != want {
			t.Fatalf("%s: expected %v, got %v", input, want, got)
		}
	}
}

func TestParseDurationRejectsGarbage(t *testing.T) {
	if _, err := ParseDuration("banana"); err == nil {
		t.Fatalf("expected error for garbage input")
	}
	if _, err := ParseDuration(""); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestParseByteSizeBareIntegerIsBytes(t *testing.T) {
	n, err := ParseByteSize("1024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1024 {
		t.Fatalf("expected 1024, got %d", n)
	}
}

func TestParseByteSizeUnitSuffixes(t *testing.T) {
	cases := map[string]int64{
		"1KB": 1024,
		"1MB": 1024 * 1024,
		"1GB": 1024 * 1024 * 1024,
		"10B": 10,
	}
	for input, want := range cases {
		got, err := ParseByteSize(input)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", input, err)
		}
		if got != want {
			t.Fatalf("%s: expected %d, got %d", input, want, got)
		}
	}
}

func TestParseByteSizeRejectsGarbage(t *testing.T) {
	if _, err := ParseByteSize("banana"); err == nil {
		t.Fatalf("expected error for garbage input")
	}
}
