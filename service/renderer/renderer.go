// Package renderer formats directory listings as numbered menus.
package renderer

import (
	"strconv"
	"strings"

	"github.com/viant/meshgopher/model"
)

// Render produces the display text for a directory listing: a "[path]"
// header followed by one "i. name" line per entry, directories marked
// with a trailing slash. The output is size-unaware; the chunker splits
// it like any other content. An empty listing renders as "(empty)".
func Render(path string, entries []model.Entry) string {
	if len(entries) == 0 {
		return "(empty)"
	}

	var builder strings.Builder
	builder.WriteString("[")
	builder.WriteString(path)
	builder.WriteString("]")

	for i, entry := range entries {
		builder.WriteString("\n")
		builder.WriteString(strconv.Itoa(i + 1))
		builder.WriteString(". ")
		builder.WriteString(entry.Name)
		if entry.IsDir {
			builder.WriteString("/")
		}
	}
	return builder.String()
}
