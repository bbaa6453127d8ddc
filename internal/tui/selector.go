package tui

import (
	"strings"

	"github.com/rshade/fintrack/internal/pagination"
)

// Selector labels for the previous/next controls.
const (
	prevLabel = "« Prev"
	nextLabel = "Next »"
)

// RenderSelector draws the page selector on one line. An empty selector
// renders as "". In plain mode the active page is bracketed and disabled
// previous/next controls are parenthesized.
func RenderSelector(sel pagination.Selector, plain bool) string {
	if sel.Empty() {
		return ""
	}
	parts := make([]string, 0, len(sel.Controls))
	for _, c := range sel.Controls {
		label := c.Label
		switch c.Kind {
		case pagination.ControlPrevious:
			label = prevLabel
		case pagination.ControlNext:
			label = nextLabel
		case pagination.ControlPage, pagination.ControlEllipsis:
		}

		if plain {
			switch {
			case c.Disabled && c.Kind != pagination.ControlEllipsis:
				label = "(" + label + ")"
			case c.Active:
				label = "[" + label + "]"
			}
			parts = append(parts, label)
			continue
		}

		switch {
		case c.Active:
			parts = append(parts, PageActiveStyle.Render(label))
		case c.Disabled:
			parts = append(parts, PageDisabledStyle.Render(label))
		default:
			parts = append(parts, PageStyle.Render(label))
		}
	}
	sep := ""
	if plain {
		sep = " "
	}
	return strings.Join(parts, sep)
}

// RenderCaption styles the "Showing x-y of z" line.
func RenderCaption(caption string, plain bool) string {
	if plain {
		return caption
	}
	return SubtleStyle.Render(caption)
}
