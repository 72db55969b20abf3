// Package httpserver provides the HTTP/HTTPS transport for Jubilee.
//
// It serves a resolved application handle on a canonical host:port,
// optionally over TLS, and supplies the middleware used around it:
// request IDs, panic recovery, the Server header and the Common Log
// Format request logger used in development mode.
package httpserver
