package dupes

import (
	"context"
	"errors"
	"iter"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	awss3 "tasnim.dev/s3-dupes/internal/aws/s3"
)

// fakeSource serves a fixed set of pages and per-key HEAD results.
type fakeSource struct {
	pages    [][]awss3.ObjectEntry
	listErr  error
	times    map[string]time.Time
	headErrs map[string]error

	pageCalls int
	heads     []string
}

func (f *fakeSource) Objects(ctx context.Context, bucket, prefix string) iter.Seq2[awss3.ObjectEntry, error] {
	return func(yield func(awss3.ObjectEntry, error) bool) {
		for _, page := range f.pages {
			f.pageCalls++
			for _, e := range page {
				if !yield(e, nil) {
					return
				}
			}
		}
		if f.listErr != nil {
			yield(awss3.ObjectEntry{}, f.listErr)
		}
	}
}

func (f *fakeSource) HeadObject(ctx context.Context, bucket, key string) (awss3.ObjectEntry, error) {
	f.heads = append(f.heads, key)
	if err, ok := f.headErrs[key]; ok {
		return awss3.ObjectEntry{}, err
	}
	return awss3.ObjectEntry{Key: key, LastModified: f.times[key]}, nil
}

func TestFinder_Find(t *testing.T) {
	src := &fakeSource{
		pages: [][]awss3.ObjectEntry{
			{{Key: "d1/a.log", Size: 10}, {Key: "d1/", Size: 0}},
			{{Key: "d2/b.log", Size: 10}, {Key: "c.log", Size: 20}},
		},
		times: map[string]time.Time{
			"d1/a.log": time.Unix(100, 0),
			"d2/b.log": time.Unix(200, 0),
		},
	}

	report, err := NewFinder(src, nil, Options{}).Find(context.Background(), Target{Bucket: "b", Prefix: "p/"})
	require.NoError(t, err)

	assert.Equal(t, 2, src.pageCalls)
	assert.Equal(t, 4, report.Scanned)
	assert.Equal(t, 1, report.FolderMarkers)
	require.Len(t, report.Groups, 1)
	require.NotNil(t, report.Selected)
	assert.Equal(t, int64(10), report.Selected.Size)
	assert.Equal(t, []string{"d1", "d2"}, report.Folders)
	assert.Equal(t, []string{"d1/a.log", "d2/b.log"}, src.heads)

	require.Len(t, report.Ranked, 2)
	assert.Equal(t, "d2/b.log", report.Ranked[0].Key)
	assert.Equal(t, "d1/a.log", report.Ranked[1].Key)
	assert.Empty(t, report.Failed)
	assert.Contains(t, report.Summary(), "newest candidate d2/b.log")
}

func TestFinder_NoDuplicatesIsEmpty(t *testing.T) {
	src := &fakeSource{
		pages: [][]awss3.ObjectEntry{{{Key: "a", Size: 1}, {Key: "b", Size: 2}}},
	}

	report, err := NewFinder(src, nil, Options{}).Find(context.Background(), Target{Bucket: "b"})
	require.NoError(t, err)
	assert.False(t, report.HasDuplicates())
	assert.Nil(t, report.Selected)
	assert.Empty(t, report.Ranked)
	assert.Empty(t, src.heads)
	assert.Contains(t, report.Summary(), "no duplicate-size objects")

	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"groups":[]`)
	assert.Contains(t, string(data), `"ranked":[]`)
}

func TestFinder_ListingErrorIsFatal(t *testing.T) {
	denied := errors.New("access denied")
	src := &fakeSource{
		pages:   [][]awss3.ObjectEntry{{{Key: "a", Size: 1}, {Key: "b", Size: 1}}},
		listErr: denied,
	}

	report, err := NewFinder(src, nil, Options{}).Find(context.Background(), Target{Bucket: "b", Prefix: "x/"})
	assert.Nil(t, report)
	assert.ErrorIs(t, err, denied)
	assert.Contains(t, err.Error(), "s3://b/x/")
	assert.Empty(t, src.heads)
}

func TestFinder_EmptyBucket(t *testing.T) {
	_, err := NewFinder(&fakeSource{}, nil, Options{}).Find(context.Background(), Target{})
	assert.ErrorIs(t, err, awss3.ErrEmptyBucket)
}

func TestFinder_MetadataFailureLoggedAndSkipped(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	src := &fakeSource{
		pages:    [][]awss3.ObjectEntry{{{Key: "a", Size: 5}, {Key: "b", Size: 5}, {Key: "c", Size: 5}}},
		times:    map[string]time.Time{"a": time.Unix(10, 0), "c": time.Unix(30, 0)},
		headErrs: map[string]error{"b": errors.New("forbidden")},
	}

	report, err := NewFinder(src, zap.New(core), Options{}).Find(context.Background(), Target{Bucket: "b"})
	require.NoError(t, err)

	require.Len(t, report.Ranked, 2)
	assert.Equal(t, "c", report.Ranked[0].Key)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "b", report.Failed[0].Key)
	assert.Contains(t, report.Summary(), "1 candidate(s) skipped")

	warnings := logs.FilterMessage("metadata fetch failed, skipping").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "b", warnings[0].ContextMap()["key"])
}

var errGone = errors.New("gone")

// classifyingSource reports errGone as a missing object.
type classifyingSource struct {
	*fakeSource
}

func (classifyingSource) IsNotFound(err error) bool {
	return errors.Is(err, errGone)
}

func TestFinder_RemovedObjectLoggedAtInfo(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	src := classifyingSource{&fakeSource{
		pages:    [][]awss3.ObjectEntry{{{Key: "a", Size: 5}, {Key: "b", Size: 5}}},
		times:    map[string]time.Time{"a": time.Unix(10, 0)},
		headErrs: map[string]error{"b": errGone},
	}}

	report, err := NewFinder(src, zap.New(core), Options{}).Find(context.Background(), Target{Bucket: "b"})
	require.NoError(t, err)
	require.Len(t, report.Failed, 1)

	assert.Empty(t, logs.FilterMessage("metadata fetch failed, skipping").All())
	removed := logs.FilterMessage("object removed since listing, skipping").All()
	require.Len(t, removed, 1)
	assert.Equal(t, "b", removed[0].ContextMap()["key"])
}

func TestFinder_AllGroups(t *testing.T) {
	src := &fakeSource{
		pages: [][]awss3.ObjectEntry{{
			{Key: "x1", Size: 1}, {Key: "x2", Size: 1},
			{Key: "y1", Size: 2}, {Key: "y2", Size: 2},
		}},
		times: map[string]time.Time{
			"x1": time.Unix(1, 0), "x2": time.Unix(2, 0),
			"y1": time.Unix(3, 0), "y2": time.Unix(4, 0),
		},
	}

	first, err := NewFinder(src, nil, Options{}).Find(context.Background(), Target{Bucket: "b"})
	require.NoError(t, err)
	assert.Len(t, first.Ranked, 2)

	src.heads = nil
	all, err := NewFinder(src, nil, Options{AllGroups: true}).Find(context.Background(), Target{Bucket: "b"})
	require.NoError(t, err)
	require.Len(t, all.Ranked, 4)
	assert.Equal(t, "y2", all.Ranked[0].Key)
	assert.Equal(t, []string{"x1", "x2", "y1", "y2"}, src.heads)
	assert.Equal(t, int64(1), all.Selected.Size)
}
