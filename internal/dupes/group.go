package dupes

import (
	"iter"

	awss3 "tasnim.dev/s3-dupes/internal/aws/s3"
	"tasnim.dev/s3-dupes/internal/utils"
)

// Group is a set of keys that share one byte size.
type Group struct {
	Size int64    `json:"size"`
	Keys []string `json:"keys"`
}

// SizeGroups maps size to keys. Sizes keep the order in which the listing
// first produced them, so the "first" duplicate group is deterministic for a
// given listing.
type SizeGroups struct {
	includeEmpty bool

	order []int64
	keys  map[int64][]string

	scanned int
	markers int
	empty   int
}

func NewSizeGroups(includeEmpty bool) *SizeGroups {
	return &SizeGroups{
		includeEmpty: includeEmpty,
		keys:         make(map[int64][]string),
	}
}

// Add records one entry and reports whether it was grouped. Folder markers
// are never grouped; zero-byte objects only when includeEmpty is set.
func (g *SizeGroups) Add(e awss3.ObjectEntry) bool {
	g.scanned++
	if e.IsFolderMarker() {
		g.markers++
		return false
	}
	if e.Size == 0 && !g.includeEmpty {
		g.empty++
		return false
	}

	if _, ok := g.keys[e.Size]; !ok {
		g.order = append(g.order, e.Size)
	}
	g.keys[e.Size] = append(g.keys[e.Size], e.Key)
	return true
}

func (g *SizeGroups) Sizes() []int64 {
	return g.order
}

func (g *SizeGroups) Keys(size int64) []string {
	return g.keys[size]
}

// Duplicates returns every group with at least two members, in size
// insertion order.
func (g *SizeGroups) Duplicates() []Group {
	groups := []Group{}
	for _, size := range g.order {
		if keys := g.keys[size]; len(keys) > 1 {
			groups = append(groups, Group{Size: size, Keys: keys})
		}
	}
	return groups
}

// GroupBySize drains seq. On the first error the partial grouping is
// dropped and the error returned.
func GroupBySize(seq iter.Seq2[awss3.ObjectEntry, error], includeEmpty bool) (*SizeGroups, error) {
	groups := NewSizeGroups(includeEmpty)
	for entry, err := range seq {
		if err != nil {
			return nil, err
		}
		groups.Add(entry)
	}
	return groups, nil
}

// FolderPaths strips the file name from each key: "a/b/c.txt" becomes "a/b"
// and a key at the bucket root becomes "".
func FolderPaths(keys []string) []string {
	folders := make([]string, 0, len(keys))
	for _, key := range keys {
		folders = append(folders, utils.ParentDir(key))
	}
	return folders
}
