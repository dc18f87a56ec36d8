// Package middleware wraps the HTTP API with request logging in W3C
// Extended Log Format, Prometheus request metrics and gzip compression of
// JSON responses.
package middleware
