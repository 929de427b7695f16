//go:build !linux

package healthcheck

import (
	"context"
	"time"
)

func (d *DiskIndicator) Timeout() time.Duration { return 5 * time.Second }

// Check reports Up with the configured thresholds only; free-space
// probing is implemented for Linux only.
func (d *DiskIndicator) Check(context.Context) Result {
	return Healthy().
		Detail("path", d.Path).
		Detail("min_free_bytes", d.MinFreeBytes)
}
