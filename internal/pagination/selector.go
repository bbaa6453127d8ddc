package pagination

import "strconv"

// WindowSize is the maximum number of consecutive page numbers shown.
const WindowSize = 5

// ControlKind identifies one element of the page selector.
type ControlKind int

// Selector control kinds.
const (
	ControlPrevious ControlKind = iota
	ControlPage
	ControlEllipsis
	ControlNext
)

// Control is one element of the page selector. Page is the 0-based target
// page for Previous, Page and Next controls and -1 for ellipses.
type Control struct {
	Kind     ControlKind
	Page     int
	Label    string
	Active   bool
	Disabled bool
}

// Interactive reports whether selecting the control should trigger a load.
func (c Control) Interactive() bool {
	return c.Kind != ControlEllipsis && !c.Disabled && !c.Active
}

// Selector is the rendered page-navigation control.
type Selector struct {
	Controls []Control
	// WindowStart and WindowEnd bound the sliding window, inclusive.
	WindowStart int
	WindowEnd   int
}

// Empty reports whether nothing should be shown.
func (s Selector) Empty() bool {
	return len(s.Controls) == 0
}

// Pages returns the page indexes of the numbered controls, in order.
func (s Selector) Pages() []int {
	var pages []int
	for _, c := range s.Controls {
		if c.Kind == ControlPage {
			pages = append(pages, c.Page)
		}
	}
	return pages
}

// BuildSelector computes the page selector for the 0-based page number out
// of totalPages. When totalPages <= 1 the selector is empty.
//
// The window holds up to WindowSize pages centred on number and re-anchored
// against either edge. Page 1 and the last page are always reachable, with
// an ellipsis when they are not adjacent to the window. If number is outside
// [0, totalPages-1] the window is anchored on the nearest valid page and no
// control is marked active.
func BuildSelector(number, totalPages int) Selector {
	if totalPages <= 1 {
		return Selector{}
	}

	last := totalPages - 1
	anchor := min(max(number, 0), last)

	start := max(0, anchor-WindowSize/2)
	end := min(last, start+WindowSize-1)
	if end-start < WindowSize-1 {
		start = max(0, end-WindowSize+1)
	}

	controls := make([]Control, 0, WindowSize+6)
	controls = append(controls, Control{
		Kind:     ControlPrevious,
		Page:     min(number-1, last),
		Label:    "Previous",
		Disabled: number <= 0,
	})

	if start > 0 {
		controls = append(controls, pageControl(0, number))
		if start > 1 {
			controls = append(controls, ellipsis())
		}
	}
	for p := start; p <= end; p++ {
		controls = append(controls, pageControl(p, number))
	}
	if end < last {
		if end < last-1 {
			controls = append(controls, ellipsis())
		}
		controls = append(controls, pageControl(last, number))
	}

	controls = append(controls, Control{
		Kind:     ControlNext,
		Page:     number + 1,
		Label:    "Next",
		Disabled: number >= last,
	})

	return Selector{Controls: controls, WindowStart: start, WindowEnd: end}
}

func pageControl(page, current int) Control {
	return Control{
		Kind:   ControlPage,
		Page:   page,
		Label:  strconv.Itoa(page + 1),
		Active: page == current,
	}
}

func ellipsis() Control {
	return Control{Kind: ControlEllipsis, Page: -1, Label: "…", Disabled: true}
}
