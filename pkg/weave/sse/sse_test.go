package sse

import (
	"strings"
	"testing"
)

func TestEventStringWithDataOnly(t *testing.T) {
	e := WithData("hello")
	got := e.String()
	if !strings.Contains(got, "data: hello\n") {
		t.Fatalf("expected data line, got %q", got)
	}
	if !strings.HasSuffix(got, "\n\n") {
		t.Fatalf("expected trailing blank line, got %q", got)
	}
}

func TestEventStringMultilineData(t *testing.T) {
	e := WithData("line1\nline2")
	got := e.String()
	if !strings.Contains(got, "data: line1\n") || !strings.Contains(got, "data: line2\n") {
		t.Fatalf("expected each line prefixed, got %q", got)
	}
}

func TestEventStringIncludesEventAndID(t *testing.T) {
	e := NewEvent().Type("update").ID("42").Data("payload")
	got := e.String()
	if !strings.Contains(got, "event: update\n") || !strings.Contains(got, "id: 42\n") {
		t.Fatalf("missing event/id lines: %q", got)
	}
}

func TestKeepAliveIsComment(t *testing.T) {
	got := KeepAlive().String()
	if !strings.HasPrefix(got, ": ping\n") {
		t.Fatalf("expected leading comment, got %q", got)
	}
}

func TestIsEmpty(t *testing.T) {
	if !NewEvent().IsEmpty() {
		t.Fatal("expected a fresh event to be empty")
	}
	if WithData("x").IsEmpty() {
		t.Fatal("expected a data event not to be empty")
	}
}

func TestSenderSendAndReceive(t *testing.T) {
	s := NewSender(1)
	if err := s.SendData("hi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	event := <-s.Channel()
	if event.data != "hi" {
		t.Fatalf("expected hi, got %q", event.data)
	}
}

func TestSenderTrySendFullReturnsErrFull(t *testing.T) {
	s := NewSender(1)
	if err := s.TrySend(WithData("first")); err != nil {
		t.Fatalf("unexpected error on first send: %v", err)
	}
	if err := s.TrySend(WithData("second")); err != ErrFull {
		t.Fatalf("expected ErrFull, got %v", err)
	}
}

func TestSenderSendJSON(t *testing.T) {
	s := NewSender(1)
	if err := s.SendJSON(map[string]int{"count": 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	event := <-s.Channel()
	if !strings.Contains(event.data, `"count":3`) {
		t.Fatalf("expected json payload, got %q", event.data)
	}
}

func TestSenderSendAfterCloseReturnsErrClosed(t *testing.T) {
	s := NewSender(1)
	s.Close()
	if err := s.Send(WithData("x")); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
