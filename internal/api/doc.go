// Package api implements the HTTP transport layer: request and response
// models, handlers for authentication, course content and answer submission,
// and the mapping from internal errors to HTTP status codes. Handlers stay
// thin; all domain decisions live in the service packages.
package api
