// Package application turns an application source into an http.Handler.
//
// Three sources exist, tried by the configuration builder in strict order:
// an application block (Build with a *Stack), an entry-point file whose base
// name selects a registered Factory (LoadEntryPoint), and a default
// descriptor, application.yml or application.toml, found in the working
// directory (Discover).
//
// The built-in applications are "static", a file server, and "hello".
package application
