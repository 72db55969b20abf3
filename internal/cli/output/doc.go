// Package output renders configuration options for the jubilee command.
//
// Options are nested maps as held by the configuration builder. The table
// format flattens them to one dotted key per line; json and yaml keep the
// nesting.
package output
