// Package batch runs one API call per item over a set of items, such as
// deleting every selected transaction, with bounded concurrency and progress
// reporting.
//
// Items are processed in fixed-size batches. Within a batch up to
// Concurrency calls run at once. A failing item does not stop the run:
// failures are collected per item and returned in the Result, so the caller
// can report "deleted 18 of 20" and list what went wrong.
package batch
