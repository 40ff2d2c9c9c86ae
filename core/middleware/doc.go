// Package middleware contains HTTP middleware for the Fiber application.
//
// It provides cross-cutting concerns that sit between the request and the handler.
//
// # Components
//
//   - Auth: Implements API key validation to protect the mutating endpoints.
//   - RayID: Generates a unique Request ID (RayID) for every incoming request,
//     injecting it into the context and response headers so log entries of a
//     single request can be correlated.
//
// These middleware components are designed to be registered globally or per-route group
// in the main application setup.
package middleware
