package listctl

import "github.com/rshade/fintrack/internal/pagination"

// View receives the rendered projection of a successful load. Each call
// replaces whatever the view showed before.
type View[T any] interface {
	// RenderRows is called with the full page when it has at least one item.
	RenderRows(items []T)
	// RenderEmpty is called instead of RenderRows when the page is empty.
	RenderEmpty()
	// RenderSelector is called with the page selector, which is empty when
	// there is at most one page.
	RenderSelector(sel pagination.Selector)
	// RenderCaption is called with the "Showing x-y of z" line.
	RenderCaption(caption string)
}

// ViewFuncs adapts plain functions to View. Nil funcs are skipped.
type ViewFuncs[T any] struct {
	Rows     func(items []T)
	Empty    func()
	Selector func(sel pagination.Selector)
	Caption  func(caption string)
}

// RenderRows implements View.
func (v ViewFuncs[T]) RenderRows(items []T) {
	if v.Rows != nil {
		v.Rows(items)
	}
}

// RenderEmpty implements View.
func (v ViewFuncs[T]) RenderEmpty() {
	if v.Empty != nil {
		v.Empty()
	}
}

// RenderSelector implements View.
func (v ViewFuncs[T]) RenderSelector(sel pagination.Selector) {
	if v.Selector != nil {
		v.Selector(sel)
	}
}

// RenderCaption implements View.
func (v ViewFuncs[T]) RenderCaption(caption string) {
	if v.Caption != nil {
		v.Caption(caption)
	}
}

// Snapshot is a View that just keeps the last render. It is what the TUI
// models and CLI commands read from after a load completes.
type Snapshot[T any] struct {
	Items    []T
	IsEmpty  bool
	Selector pagination.Selector
	Caption  string
	Renders  int
}

// RenderRows implements View.
func (s *Snapshot[T]) RenderRows(items []T) {
	s.Items = items
	s.IsEmpty = false
	s.Renders++
}

// RenderEmpty implements View.
func (s *Snapshot[T]) RenderEmpty() {
	s.Items = nil
	s.IsEmpty = true
	s.Renders++
}

// RenderSelector implements View.
func (s *Snapshot[T]) RenderSelector(sel pagination.Selector) {
	s.Selector = sel
}

// RenderCaption implements View.
func (s *Snapshot[T]) RenderCaption(caption string) {
	s.Caption = caption
}
