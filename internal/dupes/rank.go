package dupes

import (
	"context"
	"slices"
	"time"

	awss3 "tasnim.dev/s3-dupes/internal/aws/s3"
)

// FetchResult is the outcome of one metadata fetch. Exactly one of
// LastModified or Error is set; Err keeps the original error for callers
// that classify it.
type FetchResult struct {
	Key          string     `json:"key"`
	LastModified *time.Time `json:"last_modified,omitempty"`
	Error        string     `json:"error,omitempty"`
	Err          error      `json:"-"`
}

func Fetched(key string, lastModified time.Time) FetchResult {
	return FetchResult{Key: key, LastModified: &lastModified}
}

func FetchFailed(key string, err error) FetchResult {
	return FetchResult{Key: key, Error: err.Error(), Err: err}
}

func (r FetchResult) OK() bool {
	return r.Err == nil && r.Error == ""
}

// Modified returns the fetched timestamp, or the zero time for a failure.
func (r FetchResult) Modified() time.Time {
	if r.LastModified == nil {
		return time.Time{}
	}
	return *r.LastModified
}

// HeadFunc fetches metadata for a single key.
type HeadFunc func(ctx context.Context, bucket, key string) (awss3.ObjectEntry, error)

// FetchAll issues one HEAD per key, in order, one at a time. A failing key
// does not stop the batch. Once ctx is done the remaining keys are marked
// with the context error without being requested.
func FetchAll(ctx context.Context, head HeadFunc, bucket string, keys []string) []FetchResult {
	results := make([]FetchResult, 0, len(keys))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			results = append(results, FetchFailed(key, err))
			continue
		}

		entry, err := head(ctx, bucket, key)
		if err != nil {
			results = append(results, FetchFailed(key, err))
			continue
		}
		results = append(results, Fetched(key, entry.LastModified))
	}
	return results
}

// Rank splits results into successes sorted newest first and failures in
// their original order. Equal timestamps keep their input order.
func Rank(results []FetchResult) (ranked, failed []FetchResult) {
	ranked = []FetchResult{}
	for _, r := range results {
		if r.OK() {
			ranked = append(ranked, r)
		} else {
			failed = append(failed, r)
		}
	}
	slices.SortStableFunc(ranked, func(a, b FetchResult) int {
		return b.Modified().Compare(a.Modified())
	})
	return ranked, failed
}
