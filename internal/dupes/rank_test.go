package dupes

import (
	"context"
	"errors"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	awss3 "tasnim.dev/s3-dupes/internal/aws/s3"
)

func headFrom(times map[string]time.Time, failures map[string]error) HeadFunc {
	return func(ctx context.Context, bucket, key string) (awss3.ObjectEntry, error) {
		if err, ok := failures[key]; ok {
			return awss3.ObjectEntry{}, err
		}
		return awss3.ObjectEntry{Key: key, LastModified: times[key]}, nil
	}
}

func TestRank_NewestFirst(t *testing.T) {
	results := []FetchResult{
		Fetched("a", time.Unix(100, 0)),
		Fetched("b", time.Unix(200, 0)),
	}

	ranked, failed := Rank(results)
	assert.Empty(t, failed)
	require.Len(t, ranked, 2)
	assert.Equal(t, "b", ranked[0].Key)
	assert.Equal(t, "a", ranked[1].Key)
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	ts := time.Unix(500, 0)
	ranked, _ := Rank([]FetchResult{
		Fetched("first", ts),
		Fetched("second", ts),
		Fetched("older", ts.Add(-time.Hour)),
	})
	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"first", "second", "older"}, []string{ranked[0].Key, ranked[1].Key, ranked[2].Key})
}

func TestFetchAll_FailureIsolated(t *testing.T) {
	denied := errors.New("forbidden")
	var calls []string
	head := func(ctx context.Context, bucket, key string) (awss3.ObjectEntry, error) {
		calls = append(calls, key)
		return headFrom(
			map[string]time.Time{"a": time.Unix(100, 0), "c": time.Unix(300, 0)},
			map[string]error{"b": denied},
		)(ctx, bucket, key)
	}

	results := FetchAll(context.Background(), head, "bucket", []string{"a", "b", "c"})
	require.Len(t, results, 3)
	assert.Equal(t, []string{"a", "b", "c"}, calls)
	assert.True(t, results[0].OK())
	assert.ErrorIs(t, results[1].Err, denied)

	ranked, failed := Rank(results)
	require.Len(t, ranked, 2)
	assert.Equal(t, "c", ranked[0].Key)
	assert.Equal(t, "a", ranked[1].Key)
	require.Len(t, failed, 1)
	assert.Equal(t, "b", failed[0].Key)
}

func TestFetchAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	head := func(ctx context.Context, bucket, key string) (awss3.ObjectEntry, error) {
		calls++
		cancel()
		return awss3.ObjectEntry{Key: key, LastModified: time.Unix(1, 0)}, nil
	}

	results := FetchAll(ctx, head, "bucket", []string{"a", "b", "c"})
	require.Len(t, results, 3)
	assert.Equal(t, 1, calls)
	assert.True(t, results[0].OK())
	assert.ErrorIs(t, results[1].Err, context.Canceled)
	assert.ErrorIs(t, results[2].Err, context.Canceled)
}

func TestFetchResult_JSON(t *testing.T) {
	jsonAPI := jsoniter.ConfigCompatibleWithStandardLibrary

	ok, err := jsonAPI.Marshal(Fetched("a", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"a","last_modified":"2024-01-02T03:04:05Z"}`, string(ok))

	bad, err := jsonAPI.Marshal(FetchFailed("b", errors.New("forbidden")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"b","error":"forbidden"}`, string(bad))

	indented, err := jsonAPI.MarshalIndent([]FetchResult{Fetched("a", time.Unix(0, 0).UTC())}, "", "  ")
	require.NoError(t, err)
	assert.Contains(t, string(indented), "\n    \"key\": \"a\",\n    \"last_modified\": \"1970-01-01T00:00:00Z\"\n")
}

func TestFetchResult_OKAndModified(t *testing.T) {
	ts := time.Unix(42, 0)
	assert.True(t, Fetched("a", ts).OK())
	assert.True(t, Fetched("a", ts).Modified().Equal(ts))

	failed := FetchFailed("b", context.DeadlineExceeded)
	assert.False(t, failed.OK())
	assert.True(t, failed.Modified().IsZero())
	assert.ErrorIs(t, failed.Err, context.DeadlineExceeded)
}

func TestRank_AllFailedGivesEmptyRanked(t *testing.T) {
	ranked, failed := Rank([]FetchResult{FetchFailed("a", errors.New("forbidden"))})
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)
	assert.Len(t, failed, 1)
}
