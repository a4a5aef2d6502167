package utils

import "strings"

// ParentDir strips the last "/" segment from an object key.
// A key at the bucket root has parent "".
func ParentDir(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[:i]
	}
	return ""
}
