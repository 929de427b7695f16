// Package sse implements server-sent-events: an event builder matching the
// SSE wire format and a bounded, channel-backed sender a handler can write
// to from any goroutine while the connection's write loop drains it.
package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrClosed is returned when a send targets a channel whose receiver has
// gone away.
var ErrClosed = errors.New("weave/sse: channel closed")

// ErrFull is returned by TrySend when the bounded channel has no capacity.
var ErrFull = errors.New("weave/sse: channel full")

// Event is a single server-sent event, built up via its fluent setters.
type Event struct {
	eventType    string
	data         string
	hasData      bool
	id           string
	retryMS      uint64
	hasRetry     bool
	comment      string
	customFields map[string]string
}

// NewEvent returns an empty event.
func NewEvent() Event { return Event{} }

// WithData returns an event carrying only a data payload.
func WithData(data string) Event { return NewEvent().Data(data) }

// Comment returns a comment-only event (useful for keep-alives).
func Comment(comment string) Event { return Event{comment: comment} }

// KeepAlive returns the conventional ": ping" comment event.
func KeepAlive() Event { return Comment("ping") }

// RetryInterval returns an event that only sets the client's reconnect
// retry interval.
func RetryInterval(milliseconds uint64) Event {
	return Event{retryMS: milliseconds, hasRetry: true}
}

// Type sets the event's "event:" field.
func (e Event) Type(eventType string) Event {
	e.eventType = eventType
	return e
}

// Data sets the event's "data:" field.
func (e Event) Data(data string) Event {
	e.data = data
	e.hasData = true
	return e
}

// JSON marshals value and sets it as the data field.
func (e Event) JSON(value any) (Event, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return Event{}, err
	}
	return e.Data(string(encoded)), nil
}

// ID sets the event's "id:" field.
func (e Event) ID(id string) Event {
	e.id = id
	return e
}

// RetryMS sets the reconnect interval in milliseconds.
func (e Event) RetryMS(milliseconds uint64) Event {
	e.retryMS = milliseconds
	e.hasRetry = true
	return e
}

// WithComment sets a leading ": comment" block.
func (e Event) WithComment(comment string) Event {
	e.comment = comment
	return e
}

// Field sets a custom "key: value" line.
func (e Event) Field(key, value string) Event {
	if e.customFields == nil {
		e.customFields = map[string]string{}
	}
	e.customFields[key] = value
	return e
}

// IsEmpty reports whether the event carries no content at all.
func (e Event) IsEmpty() bool {
	return e.eventType == "" && !e.hasData && e.id == "" && !e.hasRetry &&
		e.comment == "" && len(e.customFields) == 0
}

// String renders the event in SSE wire format, terminated by a blank line.
func (e Event) String() string {
	var b strings.Builder

	if e.comment != "" {
		for _, line := range strings.Split(e.comment, "\n") {
			fmt.Fprintf(&b, ": %s\n", line)
		}
	}
	if e.eventType != "" {
		fmt.Fprintf(&b, "event: %s\n", e.eventType)
	}
	if e.id != "" {
		fmt.Fprintf(&b, "id: %s\n", e.id)
	}
	if e.hasRetry {
		fmt.Fprintf(&b, "retry: %d\n", e.retryMS)
	}
	for key, value := range e.customFields {
		fmt.Fprintf(&b, "%s: %s\n", key, value)
	}
	if e.hasData {
		if e.data == "" {
			b.WriteString("data:\n")
		} else {
			for _, line := range strings.Split(e.data, "\n") {
				fmt.Fprintf(&b, "data: %s\n", line)
			}
		}
	}

	b.WriteString("\n")
	return b.String()
}

// Bytes renders the event as a byte slice.
func (e Event) Bytes() []byte { return []byte(e.String()) }

// Sender wraps a bounded channel of Events. Handlers call Send/TrySend/
// SendJSON from any goroutine; the connection's write loop ranges over
// Channel() to stream them out.
type Sender struct {
	ch chan Event
}

// NewSender returns a Sender backed by a channel of the given capacity.
func NewSender(capacity int) *Sender {
	if capacity <= 0 {
		capacity = 16
	}
	return &Sender{ch: make(chan Event, capacity)}
}

// Channel exposes the underlying receive side for the connection writer.
func (s *Sender) Channel() <-chan Event { return s.ch }

// Send blocks until the event is queued or the channel is closed.
func (s *Sender) Send(event Event) (err error) {
	defer func() {
		if recover() != nil {
			err = ErrClosed
		}
	}()
	s.ch <- event
	return nil
}

// TrySend queues event without blocking, failing with ErrFull if the
// channel has no spare capacity.
func (s *Sender) TrySend(event Event) (err error) {
	defer func() {
		if recover() != nil {
			err = ErrClosed
		}
	}()
	select {
	case s.ch <- event:
		return nil
	default:
		return ErrFull
	}
}

// SendData is shorthand for Send(WithData(data)).
func (s *Sender) SendData(data string) error {
	return s.Send(WithData(data))
}

// SendNamed is shorthand for Send(NewEvent().Type(t).Data(data)).
func (s *Sender) SendNamed(eventType, data string) error {
	return s.Send(NewEvent().Type(eventType).Data(data))
}

// SendJSON marshals value and sends it as a data-only event.
func (s *Sender) SendJSON(value any) error {
	event, err := NewEvent().JSON(value)
	if err != nil {
		return fmt.Errorf("weave/sse: marshal event: %w", err)
	}
	return s.Send(event)
}

// Ping sends a keep-alive comment event.
func (s *Sender) Ping() error { return s.Send(KeepAlive()) }

// Close closes the underlying channel; subsequent sends return ErrClosed.
func (s *Sender) Close() { close(s.ch) }

// SetHeaders sets the response headers an SSE stream requires before the
// first event is written.
func SetHeaders(h http.Header) {
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
}
