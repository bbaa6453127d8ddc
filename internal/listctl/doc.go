// Package listctl drives a server-paged, filtered list view.
//
// A Controller owns the filter fields, page size and the last page envelope
// for one list. Each load turns that state into a single request, and each
// successful response replaces the rendered rows, page selector and caption
// in full. Failed loads leave the view untouched and are reported through a
// notify.Sink.
//
// The controller is not safe for concurrent use. It is meant to be driven
// from one event loop: Begin snapshots the state into a Request that may run
// on any goroutine, and Complete applies the Result back on the loop. Every
// Request carries a sequence number and only the most recently issued one is
// applied, so a slow response can never overwrite a newer one.
package listctl
