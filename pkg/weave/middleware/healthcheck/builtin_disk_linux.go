//go:build linux

package healthcheck

import (
	"context"
	"fmt"
	"syscall"
	"time"
)

func (d *DiskIndicator) Timeout() time.Duration { return 5 * time.Second }

func (d *DiskIndicator) Check(context.Context) Result {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(d.Path, &stat); err != nil {
		return WithError(fmt.Sprintf("statfs %s: %v", d.Path, err))
	}

	freeBytes := uint64(stat.Bavail) * uint64(stat.Bsize)
	result := Healthy().
		Detail("path", d.Path).
		Detail("free_bytes", freeBytes).
		Detail("min_free_bytes", d.MinFreeBytes)

	if freeBytes < d.MinFreeBytes {
		result.Status = Down
	}
	return result
}
