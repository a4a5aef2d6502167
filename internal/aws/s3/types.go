package s3

import (
	"strings"
	"time"
)

// ObjectEntry is one listed object. LastModified is zero until fetched.
type ObjectEntry struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// IsFolderMarker reports whether the key is a console-created "directory" placeholder.
func (e ObjectEntry) IsFolderMarker() bool {
	return strings.HasSuffix(e.Key, "/")
}

type ListObjectsResult struct {
	Objects   []ObjectEntry
	NextToken string
}
