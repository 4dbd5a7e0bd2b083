package main

import (
	"io"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/handiism/ibb-album/internal/download"
	"github.com/jedib0t/go-pretty/v6/table"
)

// renderSummary prints one row per downloaded image plus a totals footer.
func renderSummary(w io.Writer, results []download.Result) {
	if len(results) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "File", "Size", "Status"})

	var total uint64
	var failed int
	for i, r := range results {
		size := ""
		if r.Err == nil {
			size = humanize.Bytes(uint64(r.Bytes))
			total += uint64(r.Bytes)
		} else {
			failed++
		}
		t.AppendRow(table.Row{i + 1, filepath.Base(r.Path), size, resultStatus(r)})
	}

	t.AppendFooter(table.Row{"", humanize.Comma(int64(len(results)-failed)) + " saved", humanize.Bytes(total), statusFooter(failed)})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func resultStatus(r download.Result) string {
	switch {
	case r.Err != nil:
		return "failed: " + r.Err.Error()
	case r.Skipped:
		return "exists"
	default:
		return "downloaded"
	}
}

func statusFooter(failed int) string {
	if failed == 0 {
		return "ok"
	}
	return humanize.Comma(int64(failed)) + " failed"
}
