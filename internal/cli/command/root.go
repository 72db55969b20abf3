package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/jubilee-go/internal/infra/buildinfo"
	"github.com/yndnr/jubilee-go/internal/server/config"
)

// Flag names.
const (
	flagHost        = "host"
	flagPort        = "port"
	flagConfig      = "config"
	flagEnvironment = "environment"
	flagChdir       = "chdir"
	flagQuiet       = "quiet"
	flagJoin        = "join"
	flagMetricsAddr = "metrics-addr"
	flagLogFormat   = "log-format"
	flagLogLevel    = "log-level"
	flagOutput      = "output"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:      "jubilee",
		Usage:     "serve an HTTP application",
		ArgsUsage: "[RACKUP]",
		Version:   buildinfo.String(),
		Flags:     globalFlags(),
		Action:    serveAction,
		Commands: []*cli.Command{
			checkCommand(),
			directivesCommand(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagHost,
			Aliases: []string{"b"},
			Usage:   "bind to `HOST`",
			Value:   config.DefaultHost,
		},
		&cli.IntFlag{
			Name:    flagPort,
			Aliases: []string{"p"},
			Usage:   "listen on `PORT`",
			Value:   config.DefaultPort,
		},
		&cli.StringFlag{
			Name:    flagConfig,
			Aliases: []string{"c"},
			Usage:   "evaluate the configuration script at `FILE`",
		},
		&cli.StringFlag{
			Name:    flagEnvironment,
			Aliases: []string{"e"},
			Usage:   "application environment (development, deployment, production, none, test)",
			Value:   config.DefaultEnvironment,
		},
		&cli.StringFlag{
			Name:  flagChdir,
			Usage: "look for an application descriptor in `DIR`",
		},
		&cli.BoolFlag{
			Name:    flagQuiet,
			Aliases: []string{"q"},
			Usage:   "do not log requests in development",
		},
		&cli.StringSliceFlag{
			Name:  flagJoin,
			Usage: "cluster member `ADDR` to join when clustering is enabled (repeatable)",
		},
		&cli.StringFlag{
			Name:  flagMetricsAddr,
			Usage: "serve Prometheus metrics on `ADDR`",
		},
		&cli.StringFlag{
			Name:  flagLogFormat,
			Usage: "log format: text or json",
			Value: "text",
		},
		&cli.StringFlag{
			Name:  flagLogLevel,
			Usage: "log level: debug, info, warn or error",
			Value: "info",
		},
	}
}
