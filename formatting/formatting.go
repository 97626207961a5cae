// Package formatting renders byte counts and timestamps for display.
package formatting

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	kib = 1 << 10
	mib = 1 << 20
	gib = 1 << 30
	tib = 1 << 40

	kb = 1000
	mb = 1000 * kb
	gb = 1000 * mb
	tb = 1000 * gb
)

// FormatBytesIEC renders a byte count with binary units.
func FormatBytesIEC(bytes uint64) string {
	switch {
	case bytes < kib:
		return fmt.Sprintf("%d B", bytes)
	case bytes < mib:
		return fmt.Sprintf("%.1f KiB", float64(bytes)/kib)
	case bytes < gib:
		return fmt.Sprintf("%.1f MiB", float64(bytes)/mib)
	case bytes < tib:
		return fmt.Sprintf("%.1f GiB", float64(bytes)/gib)
	default:
		return fmt.Sprintf("%.1f TiB", float64(bytes)/tib)
	}
}

// FormatBytesSI renders a byte count with decimal units.
func FormatBytesSI(bytes uint64) string {
	switch {
	case bytes < kb:
		return fmt.Sprintf("%d B", bytes)
	case bytes < mb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/kb)
	case bytes < gb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/mb)
	case bytes < tb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/gb)
	default:
		return fmt.Sprintf("%.1f TB", float64(bytes)/tb)
	}
}

// FuzzyFormatBytesSI renders a byte count the way transmission-show does:
// whole numbers without decimals, small values with two, larger ones with
// one, stepping units at 1000.
func FuzzyFormatBytesSI(bytes uint64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}

	val := float64(bytes)
	for idx := 0; ; idx++ {
		hasNext := idx+1 < len(units)
		isWhole := math.Abs(val-math.Floor(val)) < 0.001

		if isWhole && (val < 999.5 || !hasNext) {
			return fmt.Sprintf("%.0f %s", math.Floor(val), units[idx])
		}
		if val < 99.995 {
			return fmt.Sprintf("%.2f %s", val, units[idx])
		}
		if val < 999.95 || !hasNext {
			return fmt.Sprintf("%.1f %s", val, units[idx])
		}
		val /= 1000
	}
}

// FormatLocalTime renders seconds since the epoch in the local timezone,
// in the fixed-width layout torrent tools print.
func FormatLocalTime(secondsSinceEpoch int64) string {
	return time.Unix(secondsSinceEpoch, 0).Format("Mon Jan 02 15:04:05 2006")
}

// ParseSize converts a formatted size such as "12.5 MiB" back to bytes.
func ParseSize(s string) (uint64, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed size %q", s)
	}
	number, err := strconv.ParseFloat(parts[0], 64)
	if err != nil || number < 0 {
		return 0, fmt.Errorf("malformed size %q", s)
	}

	var multiplier uint64
	switch parts[1] {
	case "B":
		multiplier = 1
	case "KiB":
		multiplier = kib
	case "MiB":
		multiplier = mib
	case "GiB":
		multiplier = gib
	case "TiB":
		multiplier = tib
	case "KB":
		multiplier = kb
	case "MB":
		multiplier = mb
	case "GB":
		multiplier = gb
	case "TB":
		multiplier = tb
	default:
		return 0, fmt.Errorf("unknown size unit %q", parts[1])
	}
	return uint64(number * float64(multiplier)), nil
}
