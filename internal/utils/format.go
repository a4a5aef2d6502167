package utils

import (
	"time"

	"github.com/dustin/go-humanize"
)

const (
	DateTime    = "2006-01-02 15:04"
	DateTimeSec = "2006-01-02 15:04:05"
)

// Bytes formats an object size with binary units, e.g. "1.5 KiB".
// Negative sizes never come back from S3 and render as "0 B".
func Bytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

// TimeOrDash formats a time value using the given layout, or returns "—" if zero.
func TimeOrDash(t time.Time, layout string) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format(layout)
}
