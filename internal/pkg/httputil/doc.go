// Package httputil provides shared HTTP response helpers for API handlers.
//
// Handlers use these instead of raw http.ResponseWriter calls so JSON
// formatting and error envelopes stay consistent across endpoints.
package httputil
