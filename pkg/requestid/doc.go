// Package requestid tags every request with an X-Request-ID and makes it
// available to handlers and to the logger through the request context.
package requestid
