// Package confscript parses Jubilee configuration scripts.
//
// A script is a YAML list of setter invocations, applied in order:
//
//	# listen on the IPv6 loopback
//	- listen: "[::1]:3000"
//	- worker_threads: 4
//	- ssl:
//	    keystore: /etc/jubilee/keystore.p12
//	    password: changeit
//	- listen: [3000, {quiet: true}]
//
// A list value is the argument list; any other value is the single
// argument. A bare name is a call without arguments. A top-level mapping
// is accepted too and read in document order. The package only produces
// Directives; it has no notion of which names are valid and never executes
// code from the script.
package confscript
