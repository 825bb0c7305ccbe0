// Package httputil provides shared HTTP response/request utilities for handlers.
//
// Handlers use these helpers instead of raw http.ResponseWriter calls so
// JSON formatting, error envelopes, and logging stay consistent across the
// API surface.
package httputil
