// Package vendor exposes hardware-address vendor lookups over HTTP.
//
// It is a thin feature layer over feature/vendor/registry, which owns the
// snapshot cache and refresh machinery. The handlers never block on refresh
// activity; they read whatever snapshot is currently active.
//
// # HTTP Endpoints
//
//   - GET  /vendors/{mac}    : Resolve the vendor for a hardware address.
//   - GET  /vendors/stats    : Record count and version of the active snapshot.
//   - POST /vendors/refresh  : Run one refresh cycle (supports ?force=true).
package vendor
