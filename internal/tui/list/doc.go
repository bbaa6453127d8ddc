// Package listview is the cursor list used by the paged TUI screens.
//
// It holds one page of items, tracks the cursor row and a set of marked
// rows for bulk actions, and renders each row through a caller-supplied
// function. Marks are keyed by item identity so they survive a reload of
// the same page.
package listview
