package ui

import (
	"fmt"
	"strings"

	"github.com/bamsammich/sneaker/internal/stats"
)

// Summary renders the result of a batch. title names the batch, e.g.
// "Transfer" or "Apply".
func Summary(title string, r stats.Result, color bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s complete in %s\n", title, FormatDuration(r.Elapsed))
	fmt.Fprintf(&b, "  Copied:  %s (%s)\n", FormatCount(r.FilesCopied), FormatBytes(r.BytesTransferred))
	fmt.Fprintf(&b, "  Moved:   %s\n", FormatCount(r.FilesMoved))
	fmt.Fprintf(&b, "  Deleted: %s\n", FormatCount(r.FilesDeleted))
	if r.FilesSkipped > 0 {
		b.WriteString(paint(styleWarn, fmt.Sprintf("  Skipped: %s", FormatCount(r.FilesSkipped)), color))
		b.WriteByte('\n')
	}
	if r.Errors > 0 {
		b.WriteString(paint(styleError, fmt.Sprintf("  Errors:  %s (see messages above)", FormatCount(r.Errors)), color))
		b.WriteByte('\n')
	}
	return b.String()
}
