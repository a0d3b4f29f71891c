// Package server hosts the task board over HTTP.
//
// New opens the configured SQLite store and wires the tracker controller,
// the web UI and the nonce replay guard onto one ServeMux, alongside:
//
//	GET /health        200 "OK" while the process is up
//	GET /health/ready  200 when the store answers a ping, 503 otherwise
//
// Run listens on server.http_addr, or on port 80 of a tsnet node when
// tailscale.enabled is set, and shuts down within 5 seconds of context
// cancellation, closing the store on the way out.
package server
