// Package config builds the Jubilee server configuration.
//
// A Builder is seeded with options from the command line and environment,
// then evaluates the configuration script named by "config_file". Each
// script directive maps onto a setter that validates its value before
// storing it:
//
//	- listen: 3000
//	- worker_threads: 4
//	- clustering: 2000
//	- ssl:
//	    keystore: /etc/jubilee/keystore.p12
//	    password: secret
//
// Resolve verifies the options and freezes the builder into a Config.
// App resolves the HTTP application the server hosts.
package config
