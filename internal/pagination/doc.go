// Package pagination holds the page arithmetic shared by every list view.
//
// This package contains:
//   - Params: page/size/sort flags and their validation
//   - State: the page envelope numbers returned by the server, with the
//     "Showing x-y of z" caption
//   - Selector: the Previous / sliding window / Next page control
//
// Page indexes are 0-based everywhere in this package. CLI flags accept a
// 1-based --page and convert on the way in.
package pagination
