// Package dupes finds likely duplicate objects in a bucket by grouping the
// listing on byte size and ranking the candidates by last-modified time.
package dupes

import (
	"context"
	"fmt"
	"iter"

	"go.uber.org/zap"

	awss3 "tasnim.dev/s3-dupes/internal/aws/s3"
)

// Source is a bucket that can be listed and HEADed. Both the AWS SDK client
// and the minio-go client satisfy it.
type Source interface {
	Objects(ctx context.Context, bucket, prefix string) iter.Seq2[awss3.ObjectEntry, error]
	HeadObject(ctx context.Context, bucket, key string) (awss3.ObjectEntry, error)
}

// notFounder is implemented by sources that can tell a missing object apart
// from other HEAD failures.
type notFounder interface {
	IsNotFound(err error) bool
}

type Options struct {
	// IncludeEmpty groups zero-byte objects too. Off by default since every
	// empty object trivially "duplicates" every other one.
	IncludeEmpty bool
	// AllGroups ranks the members of every duplicate group instead of only
	// the first one found.
	AllGroups bool
}

type Target struct {
	Bucket string
	Prefix string
}

func (t Target) String() string {
	return "s3://" + t.Bucket + "/" + t.Prefix
}

type Finder struct {
	src  Source
	log  *zap.Logger
	opts Options
}

func NewFinder(src Source, log *zap.Logger, opts Options) *Finder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Finder{src: src, log: log, opts: opts}
}

// Find lists target, groups by size and ranks the duplicate candidates.
// A listing failure is returned as an error. A bucket without duplicate
// sizes yields an empty report.
func (f *Finder) Find(ctx context.Context, target Target) (*Report, error) {
	if target.Bucket == "" {
		return nil, awss3.ErrEmptyBucket
	}
	log := f.log.With(zap.String("bucket", target.Bucket), zap.String("prefix", target.Prefix))

	groups, err := GroupBySize(f.src.Objects(ctx, target.Bucket, target.Prefix), f.opts.IncludeEmpty)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", target, err)
	}

	report := &Report{
		Bucket:        target.Bucket,
		Prefix:        target.Prefix,
		Scanned:       groups.scanned,
		FolderMarkers: groups.markers,
		EmptyObjects:  groups.empty,
		Groups:        groups.Duplicates(),
		Ranked:        []FetchResult{},
	}
	log.Debug("listing grouped",
		zap.Int("scanned", report.Scanned),
		zap.Int("sizes", len(groups.Sizes())),
		zap.Int("duplicateGroups", len(report.Groups)))

	if len(report.Groups) == 0 {
		log.Info("no duplicate-size objects", zap.Int("scanned", report.Scanned))
		return report, nil
	}

	selected := report.Groups[0]
	report.Selected = &selected
	candidates := selected.Keys
	if f.opts.AllGroups {
		candidates = nil
		for _, g := range report.Groups {
			candidates = append(candidates, g.Keys...)
		}
	}
	report.Folders = FolderPaths(candidates)

	results := FetchAll(ctx, f.src.HeadObject, target.Bucket, candidates)
	report.Ranked, report.Failed = Rank(results)
	nf, _ := f.src.(notFounder)
	for _, r := range report.Failed {
		if nf != nil && nf.IsNotFound(r.Err) {
			log.Info("object removed since listing, skipping", zap.String("key", r.Key))
			continue
		}
		log.Warn("metadata fetch failed, skipping", zap.String("key", r.Key), zap.Error(r.Err))
	}

	log.Info("duplicate candidates ranked",
		zap.Int("groups", len(report.Groups)),
		zap.Int("ranked", len(report.Ranked)),
		zap.Int("failed", len(report.Failed)))
	return report, nil
}
