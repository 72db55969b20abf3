// Package confloader holds the options store behind a Jubilee
// configuration and watches configuration scripts for edits.
//
// Loader wraps koanf. Sources merge in call order, so the usual bootstrap
// is defaults, then a YAML file, then JUBILEE_ environment variables, then
// command-line values:
//
//	l := confloader.NewLoader()
//	_ = l.LoadMap(defaults)
//	_ = l.LoadEnv()
//	_ = l.LoadMap(cliValues)
//
// Watcher reports writes to individual files. Bursts of events for the same
// file are coalesced and reloads are rate limited.
package confloader
