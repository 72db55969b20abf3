// Package command defines the jubilee command line.
//
// Without a subcommand, jubilee serves the application named by the
// optional RACKUP argument (or the descriptor in --chdir) using the
// configuration assembled from defaults, JUBILEE_* environment variables,
// flags and the configuration script:
//
//	jubilee -p 3000 -c jubilee.yml app.rb
//	jubilee -c jubilee.yml check app.rb
//	jubilee directives
package command
