package healthcheck

import (
	"context"
	"time"
)

// Result is a single indicator's outcome.
type Result struct {
	Status     Status         `json:"status"`
	Details    map[string]any `json:"details,omitempty"`
	DurationMS *int64         `json:"duration_ms,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// Healthy returns an Up result with no details.
func Healthy() Result { return Result{Status: Up} }

// Unhealthy returns a Down result with no details.
func Unhealthy() Result { return Result{Status: Down} }

// DegradedResult returns a Degraded result with no details.
func DegradedResult() Result { return Result{Status: Degraded} }

// WithError returns a Down result carrying the given error message.
func WithError(err string) Result { return Result{Status: Down, Error: err} }

// Detail attaches a key/value pair to the result's Details map.
func (r Result) Detail(key string, value any) Result {
	if r.Details == nil {
		r.Details = make(map[string]any)
	}
	r.Details[key] = value
	return r
}

// WithDuration stamps the elapsed-time field.
func (r Result) WithDuration(d time.Duration) Result {
	ms := d.Milliseconds()
	r.DurationMS = &ms
	return r
}

// Indicator is a single named health check.
type Indicator interface {
	Name() string
	Check(ctx context.Context) Result
	// Timeout sets the deadline on the context passed to Check; a Check
	// that does not watch its context is not interrupted. Zero means the
	// checker's Config.Timeout applies.
	Timeout() time.Duration
}

// CustomIndicator adapts a plain function into an Indicator.
type CustomIndicator struct {
	name    string
	fn      func(ctx context.Context) Result
	timeout time.Duration
}

// NewCustomIndicator wraps fn under name with a 5-second default timeout.
func NewCustomIndicator(name string, fn func(ctx context.Context) Result) *CustomIndicator {
	return &CustomIndicator{name: name, fn: fn, timeout: 5 * time.Second}
}

// WithTimeout overrides the indicator's timeout.
func (c *CustomIndicator) WithTimeout(d time.Duration) *CustomIndicator {
	c.timeout = d
	return c
}

func (c *CustomIndicator) Name() string                    { return c.name }
func (c *CustomIndicator) Check(ctx context.Context) Result { return c.fn(ctx) }
func (c *CustomIndicator) Timeout() time.Duration           { return c.timeout }

// AlwaysHealthyIndicator is the trivial "liveness" indicator: the process
// being able to answer at all means it's up.
type AlwaysHealthyIndicator struct{}

func (AlwaysHealthyIndicator) Name() string                { return "liveness" }
func (AlwaysHealthyIndicator) Check(context.Context) Result { return Healthy() }
func (AlwaysHealthyIndicator) Timeout() time.Duration       { return 5 * time.Second }
