// Package clusterserver lets Jubilee instances find each other.
//
// When a cluster port is configured, each instance joins a memberlist
// gossip pool on that port and advertises its HTTP listen address as node
// metadata. Log output of the hashicorp libraries is routed to slog through
// an hclog adapter.
package clusterserver
