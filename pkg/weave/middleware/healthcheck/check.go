package healthcheck

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Config configures the checker's endpoints and reporting detail.
type Config struct {
	Path          string
	LivenessPath  string // empty disables the liveness endpoint
	ReadinessPath string // empty disables the readiness endpoint

	IncludeDetails   bool
	IncludeTimestamp bool
	IncludeDuration  bool

	Version  string
	Timeout  time.Duration
	Parallel bool
}

// DefaultConfig matches the original's defaults: /health, /health/live,
// /health/ready, full detail, parallel execution.
func DefaultConfig() Config {
	return Config{
		Path:             "/health",
		LivenessPath:     "/health/live",
		ReadinessPath:    "/health/ready",
		IncludeDetails:   true,
		IncludeTimestamp: true,
		IncludeDuration:  true,
		Timeout:          10 * time.Second,
		Parallel:         true,
	}
}

// Response is the JSON body returned from any health endpoint.
type Response struct {
	Status          Status            `json:"status"`
	Indicators      map[string]Result `json:"indicators,omitempty"`
	Version         string            `json:"version,omitempty"`
	Timestamp       string            `json:"timestamp,omitempty"`
	TotalDurationMS *int64            `json:"total_duration_ms,omitempty"`
}

func healthyResponse() Response {
	return Response{Status: Up, Timestamp: time.Now().UTC().Format(time.RFC3339)}
}

// namedIndicator pairs an indicator with the registration name it was
// added under (which may differ from indicator.Name() for readability).
type namedIndicator struct {
	name      string
	indicator Indicator
}

// Checker runs a registered set of indicators and reports liveness,
// readiness, and full-check responses.
type Checker struct {
	config              Config
	indicators          []namedIndicator
	readinessIndicators map[string]bool
}

// Builder assembles a Checker via chained configuration calls.
type Builder struct {
	config              Config
	indicators          []namedIndicator
	readinessIndicators map[string]bool
}

// NewBuilder starts from DefaultConfig.
func NewBuilder() *Builder {
	return &Builder{config: DefaultConfig(), readinessIndicators: make(map[string]bool)}
}

func (b *Builder) Path(path string) *Builder          { b.config.Path = path; return b }
func (b *Builder) LivenessPath(path string) *Builder  { b.config.LivenessPath = path; return b }
func (b *Builder) ReadinessPath(path string) *Builder { b.config.ReadinessPath = path; return b }
func (b *Builder) NoLiveness() *Builder               { b.config.LivenessPath = ""; return b }
func (b *Builder) NoReadiness() *Builder              { b.config.ReadinessPath = ""; return b }
func (b *Builder) IncludeDetails(v bool) *Builder     { b.config.IncludeDetails = v; return b }
func (b *Builder) IncludeTimestamp(v bool) *Builder   { b.config.IncludeTimestamp = v; return b }
func (b *Builder) IncludeDuration(v bool) *Builder    { b.config.IncludeDuration = v; return b }
func (b *Builder) Version(v string) *Builder          { b.config.Version = v; return b }
func (b *Builder) Timeout(d time.Duration) *Builder   { b.config.Timeout = d; return b }
func (b *Builder) Parallel(v bool) *Builder           { b.config.Parallel = v; return b }

// Indicator registers a named indicator that counts toward the full check
// but not readiness.
func (b *Builder) Indicator(name string, ind Indicator) *Builder {
	b.indicators = append(b.indicators, namedIndicator{name: name, indicator: ind})
	return b
}

// ReadinessIndicator registers a named indicator that also gates the
// readiness endpoint.
func (b *Builder) ReadinessIndicator(name string, ind Indicator) *Builder {
	b.readinessIndicators[name] = true
	return b.Indicator(name, ind)
}

// Check registers a bare check function as a CustomIndicator.
func (b *Builder) Check(name string, fn func(ctx context.Context) Result) *Builder {
	return b.Indicator(name, NewCustomIndicator(name, fn))
}

// Build finalizes the Checker.
func (b *Builder) Build() *Checker {
	return &Checker{
		config:              b.config,
		indicators:          b.indicators,
		readinessIndicators: b.readinessIndicators,
	}
}

// New builds a Checker with no indicators registered.
func New() *Checker { return NewBuilder().Build() }

func (c *Checker) Path() string          { return c.config.Path }
func (c *Checker) LivenessPath() string  { return c.config.LivenessPath }
func (c *Checker) ReadinessPath() string { return c.config.ReadinessPath }

// CheckLiveness always reports Up: if the process can answer at all, it's
// alive.
func (c *Checker) CheckLiveness(context.Context) Response {
	return healthyResponse()
}

// CheckReadiness runs only the indicators registered via
// ReadinessIndicator, or every indicator if none were so registered.
func (c *Checker) CheckReadiness(ctx context.Context) Response {
	if len(c.readinessIndicators) == 0 {
		return c.Check(ctx)
	}
	var subset []namedIndicator
	for _, ni := range c.indicators {
		if c.readinessIndicators[ni.name] {
			subset = append(subset, ni)
		}
	}
	return c.runIndicators(ctx, subset)
}

// Check runs every registered indicator.
func (c *Checker) Check(ctx context.Context) Response {
	return c.runIndicators(ctx, c.indicators)
}

func (c *Checker) runIndicators(ctx context.Context, indicators []namedIndicator) Response {
	start := time.Now()
	resp := healthyResponse()
	resp.Version = c.config.Version
	if !c.config.IncludeTimestamp {
		resp.Timestamp = ""
	}

	if len(indicators) == 0 {
		if c.config.IncludeDuration {
			ms := time.Since(start).Milliseconds()
			resp.TotalDurationMS = &ms
		}
		return resp
	}

	results := make(map[string]Result, len(indicators))
	overall := Up

	runOne := func(ni namedIndicator) Result {
		indStart := time.Now()
		timeout := ni.indicator.Timeout()
		if timeout <= 0 {
			timeout = c.config.Timeout
		}
		runCtx := ctx
		var cancel context.CancelFunc
		if timeout > 0 {
			runCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		result := ni.indicator.Check(runCtx)
		if c.config.IncludeDuration {
			result = result.WithDuration(time.Since(indStart))
		}
		return result
	}

	if c.config.Parallel {
		type outcome struct {
			name   string
			result Result
		}
		outcomes := make([]outcome, len(indicators))
		var g errgroup.Group
		for i, ni := range indicators {
			i, ni := i, ni
			g.Go(func() error {
				outcomes[i] = outcome{name: ni.name, result: runOne(ni)}
				return nil
			})
		}
		_ = g.Wait() // runOne never returns an error; Wait only joins goroutines
		for _, o := range outcomes {
			overall = overall.Combine(o.result.Status)
			results[o.name] = o.result
		}
	} else {
		for _, ni := range indicators {
			result := runOne(ni)
			overall = overall.Combine(result.Status)
			results[ni.name] = result
		}
	}

	resp.Status = overall
	if c.config.IncludeDetails {
		resp.Indicators = results
	}
	if c.config.IncludeDuration {
		ms := time.Since(start).Milliseconds()
		resp.TotalDurationMS = &ms
	}
	return resp
}
