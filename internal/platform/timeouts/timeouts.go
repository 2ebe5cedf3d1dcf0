// Package timeouts defines shared timeout constants used across the server.
// Centralizing these values keeps the durations discoverable and prevents
// drift between entry points.
package timeouts

import "time"

// ReadHeader limits how long the HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Request caps the time allowed for a single request, including its
// database work.
const Request = 10 * time.Second

// Shutdown limits how long the HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second
