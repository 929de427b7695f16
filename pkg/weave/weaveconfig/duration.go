package weaveconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses the duration grammar from spec §6: a bare integer
// is whole seconds; otherwise a trailing ms/s/m/h/d unit suffix scales a
// leading integer. "ms" is checked before "s" so it isn't swallowed by
// the single-letter seconds suffix.
func ParseDuration(s string) (time.Duration, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		return 0, fmt.Errorf("weaveconfig: empty duration string")
	}

	if secs, err := strconv.ParseUint(trimmed, 10, 64); err == nil {
		return time.Duration(secs) * time.Second, nil
	}

	var numStr string
	var unit time.Duration
	switch {
	case strings.HasSuffix(trimmed, "ms"):
		numStr, unit = strings.TrimSuffix(trimmed, "ms"), time.Millisecond
	case strings.HasSuffix(trimmed, "s"):
		numStr, unit = strings.TrimSuffix(trimmed, "s"), time.Second
	case strings.HasSuffix(trimmed, "m"):
		numStr, unit = strings.TrimSuffix(trimmed, "m"), time.Minute
	case strings.HasSuffix(trimmed, "h"):
		numStr, unit = strings.TrimSuffix(trimmed, "h"), time.Hour
	case strings.HasSuffix(trimmed, "d"):
		numStr, unit = strings.TrimSuffix(trimmed, "d"), 24*time.Hour
	default:
		return 0, fmt.Errorf("weaveconfig: unrecognized duration %q", s)
	}

	n, err := strconv.ParseUint(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("weaveconfig: unrecognized duration %q", s)
	}
	return time.Duration(n) * unit, nil
}

// ParseByteSize parses the byte-size grammar from spec §6: a bare
// integer is bytes; otherwise a trailing KB/MB/GB/B unit suffix scales a
// leading integer by powers of 1024.
func ParseByteSize(s string) (int64, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	if trimmed == "" {
		return 0, fmt.Errorf("weaveconfig: empty byte-size string")
	}

	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return n, nil
	}

	var numStr string
	var multiplier int64
	switch {
	case strings.HasSuffix(trimmed, "GB"):
		numStr, multiplier = strings.TrimSuffix(trimmed, "GB"), 1024*1024*1024
	case strings.HasSuffix(trimmed, "MB"):
		numStr, multiplier = strings.TrimSuffix(trimmed, "MB"), 1024*1024
	case strings.HasSuffix(trimmed, "KB"):
		numStr, multiplier = strings.TrimSuffix(trimmed, "KB"), 1024
	case strings.HasSuffix(trimmed, "B"):
		numStr, multiplier = strings.TrimSuffix(trimmed, "B"), 1
	default:
		return 0, fmt.Errorf("weaveconfig: unrecognized byte size %q", s)
	}

	n, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("weaveconfig: unrecognized byte size %q", s)
	}
	return n * multiplier, nil
}
