// Package http implements the REST surface of the credential service.
//
// It exposes route wiring, request handlers, and middleware. Authentication
// (bearer tokens), role and worker type gates, forced password rotation,
// request tracing, access logging, CORS and login throttling are handled in
// this package before requests are delegated to the service layer. Every
// response uses the {success, data, message, error, details} envelope.
package http
