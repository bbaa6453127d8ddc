// Package detail lazily loads and shows a single record, such as one
// transaction fetched by ID when the user opens it from a list.
//
// Loading starts when the view is opened, a spinner line is shown until the
// result arrives, and a failed load shows the error inline with 'r' to retry.
package detail
