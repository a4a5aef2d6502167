package dupes

import (
	"fmt"
	"time"
)

// Report is everything one Find produced. It holds no handles and can be
// serialised as-is.
type Report struct {
	Bucket        string        `json:"bucket"`
	Prefix        string        `json:"prefix"`
	Scanned       int           `json:"scanned"`
	FolderMarkers int           `json:"folder_markers"`
	EmptyObjects  int           `json:"empty_objects"`
	Groups        []Group       `json:"groups"`
	Selected      *Group        `json:"selected,omitempty"`
	Folders       []string      `json:"folders,omitempty"`
	Ranked        []FetchResult `json:"ranked"`
	Failed        []FetchResult `json:"failed,omitempty"`
}

func (r *Report) HasDuplicates() bool {
	return len(r.Groups) > 0
}

// Newest returns the most recently modified candidate, if any was fetched.
func (r *Report) Newest() (FetchResult, bool) {
	if len(r.Ranked) == 0 {
		return FetchResult{}, false
	}
	return r.Ranked[0], true
}

// Summary is a one-line human description of the report.
func (r *Report) Summary() string {
	where := Target{Bucket: r.Bucket, Prefix: r.Prefix}.String()
	if !r.HasDuplicates() {
		return fmt.Sprintf("no duplicate-size objects under %s (%d scanned)", where, r.Scanned)
	}

	msg := fmt.Sprintf("%d duplicate-size group(s) under %s (%d scanned)", len(r.Groups), where, r.Scanned)
	if newest, ok := r.Newest(); ok {
		msg += fmt.Sprintf("; newest candidate %s at %s", newest.Key, newest.Modified().UTC().Format(time.RFC3339))
	}
	if len(r.Failed) > 0 {
		msg += fmt.Sprintf("; %d candidate(s) skipped", len(r.Failed))
	}
	return msg
}
