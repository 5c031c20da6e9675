package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/bamsammich/sneaker/internal/manifest"
)

// TableOptions controls RenderInstructions.
type TableOptions struct {
	Color bool
	Width int // terminal width; paths are elided to fit. 0 means unlimited.
}

// RenderInstructions writes list as an aligned ACTION / PATH / SIZE table.
// MOVE rows show "source -> destination".
func RenderInstructions(w io.Writer, list []manifest.Instruction, opts TableOptions) {
	if len(list) == 0 {
		fmt.Fprintln(w, paint(styleMuted, "Nothing to do.", opts.Color))
		return
	}

	const actionWidth = 6
	sizeWidth := len("SIZE")
	for _, in := range list {
		sizeWidth = max(sizeWidth, len(in.SizeInfo()))
	}
	pathWidth := 0
	if opts.Width > 0 {
		pathWidth = max(opts.Width-actionWidth-sizeWidth-4, 20)
	}

	header := fmt.Sprintf("%-*s  %*s  %s", actionWidth, "ACTION", sizeWidth, "SIZE", "PATH")
	fmt.Fprintln(w, paint(styleHeader, header, opts.Color))

	for _, in := range list {
		path := in.Source
		if in.Action == manifest.Move {
			path = in.Source + " -> " + in.Destination
		}
		if pathWidth > 0 {
			path = Truncate(path, pathWidth)
		}
		action := fmt.Sprintf("%-*s", actionWidth, in.Action)
		size := fmt.Sprintf("%*s", sizeWidth, in.SizeInfo())
		fmt.Fprintf(w, "%s  %s  %s\n",
			paint(actionStyle(in.Action), action, opts.Color),
			paint(styleMuted, size, opts.Color),
			path,
		)
	}
}

// Totals summarizes an instruction list in one line.
func Totals(list []manifest.Instruction) string {
	copies, moves, deletes := manifest.Counts(list)
	parts := []string{
		fmt.Sprintf("%s to copy (%s)", FormatCount(int64(copies)), FormatBytes(manifest.TotalBytes(list))),
		fmt.Sprintf("%s to move", FormatCount(int64(moves))),
		fmt.Sprintf("%s to delete", FormatCount(int64(deletes))),
	}
	return strings.Join(parts, ", ")
}
