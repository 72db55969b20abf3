// Package domain defines the core domain errors for Jubilee.
//
// Every failure the configuration subsystem reports is a *ConfigError carrying
// a stable code:
//
//   - ErrInvalidAddress: address grammar or canonicalization failure
//   - ErrValidation: type or range violation on a setting
//   - ErrAccessibility: config file unreadable from a working directory
//   - ErrScript: configuration script syntax error
//   - ErrResolution: application source could not be loaded
//   - ErrFrozen: mutation after the configuration was resolved
//
// Errors compare by code through errors.Is.
package domain
