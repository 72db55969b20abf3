package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/jubilee-go/internal/cli/output"
	"github.com/yndnr/jubilee-go/internal/server/config"
	"github.com/yndnr/jubilee-go/internal/telemetry/logger"
	"github.com/yndnr/jubilee-go/internal/telemetry/metric"
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "evaluate the configuration, resolve the application and print the options",
		ArgsUsage: "[RACKUP]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagOutput,
				Aliases: []string{"o"},
				Usage:   "output format: table, json or yaml",
				Value:   string(output.FormatTable),
			},
			&cli.BoolFlag{
				Name:  "skip-app",
				Usage: "do not resolve the application",
			},
		},
		Action: checkAction,
	}
}

func checkAction(c *cli.Context) error {
	f, err := output.NewFormatter(output.Format(c.String(flagOutput)))
	if err != nil {
		return err
	}
	log, err := newLogger(c)
	if err != nil {
		return err
	}

	res, err := resolve(c, log, metric.NewRegistry())
	if err != nil {
		return err
	}
	if !c.Bool("skip-app") {
		if _, err := res.builder.App(); err != nil {
			return err
		}
	}

	return f.Format(c.App.Writer, sanitizedOptions(res.builder.Options()))
}

// sanitizedOptions masks secrets in a copy of the options.
func sanitizedOptions(opts map[string]any) map[string]any {
	if pw, ok := opts["ssl_password"]; ok && pw != nil {
		opts["ssl_password"] = logger.Mask(fmt.Sprint(pw))
	}
	return opts
}

func directivesCommand() *cli.Command {
	return &cli.Command{
		Name:  "directives",
		Usage: "list the configuration script directives",
		Action: func(c *cli.Context) error {
			for _, name := range config.Directives() {
				if _, err := fmt.Fprintln(c.App.Writer, name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
