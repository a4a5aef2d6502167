// Package report renders a duplicate-search report for the terminal or as JSON.
package report

import (
	"fmt"
	"io"
	"strconv"

	"charm.land/lipgloss/v2"
	jsoniter "github.com/json-iterator/go"

	"tasnim.dev/s3-dupes/internal/dupes"
	"tasnim.dev/s3-dupes/internal/theme"
	"tasnim.dev/s3-dupes/internal/utils"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

const labelWidth = 18

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// CheckFormat rejects output formats Write cannot render.
func CheckFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, "":
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// Write renders r in the given format. account may be empty.
func Write(w io.Writer, format string, r *dupes.Report, account string) error {
	switch format {
	case FormatJSON:
		data, err := JSON(r)
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case FormatText, "":
		// Fprintln downsamples colors to what w supports (none for pipes).
		_, err := lipgloss.Fprintln(w, Text(r, account))
		return err
	default:
		return CheckFormat(format)
	}
}

func JSON(r *dupes.Report) ([]byte, error) {
	return jsonAPI.MarshalIndent(r, "", "  ")
}

func Text(r *dupes.Report, account string) string {
	db := utils.NewDetailBuilder(labelWidth, theme.SectionStyle)

	db.Section("Scan")
	db.Row("Target", dupes.Target{Bucket: r.Bucket, Prefix: r.Prefix}.String())
	if account != "" {
		db.Row("Account", account)
	}
	db.Row("Objects scanned", strconv.Itoa(r.Scanned))
	db.Row("Folder markers", strconv.Itoa(r.FolderMarkers))
	if r.EmptyObjects > 0 {
		db.Row("Empty objects", strconv.Itoa(r.EmptyObjects))
	}
	db.Row("Duplicate groups", strconv.Itoa(len(r.Groups)))

	if !r.HasDuplicates() {
		db.Blank()
		db.Row("Result", theme.MutedStyle.Render("no duplicate-size objects"))
		return theme.ReportBoxStyle.Render(db.String())
	}

	db.Blank()
	db.Section("Groups")
	for _, g := range r.Groups {
		db.Row(utils.Bytes(g.Size), fmt.Sprintf("%d objects", len(g.Keys)))
	}

	if len(r.Folders) > 0 {
		db.Blank()
		db.Section("Folders")
		for _, f := range uniq(r.Folders) {
			if f == "" {
				f = theme.MutedStyle.Render("(bucket root)")
			}
			db.Item("-", f)
		}
	}

	db.Blank()
	db.Section("Candidates")
	for i, c := range r.Ranked {
		status := theme.StatusOlder
		if i == 0 {
			status = theme.StatusNewest
		}
		db.Item(fmt.Sprintf("%2d.", i+1), fmt.Sprintf("%s  %s  %s",
			utils.TimeOrDash(c.Modified().UTC(), utils.DateTimeSec), c.Key, theme.RenderStatus(status)))
	}
	for _, c := range r.Failed {
		db.Item(" -", fmt.Sprintf("%s  %s  %s", c.Key, theme.RenderStatus(theme.StatusSkipped),
			theme.ErrorStyle.Render(c.Error)))
	}

	return theme.ReportBoxStyle.Render(db.String())
}

func uniq(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
