// Package server wires and runs the application's HTTP server.
//
// It owns the listener lifecycle: startup, signal handling and graceful
// shutdown bounded by the configured shutdown timeout.
package server
