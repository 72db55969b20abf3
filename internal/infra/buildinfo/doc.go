// Package buildinfo provides build information for Jubilee.
//
// Version, Commit and BuildTime are injected via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/jubilee-go/internal/infra/buildinfo.Version=v1.0.0"
package buildinfo
