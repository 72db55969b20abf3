package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/jubilee-go/internal/infra/confloader"
	"github.com/yndnr/jubilee-go/internal/server/config"
)

// seedKeys maps flags onto the options they set.
var seedKeys = []struct {
	flag string
	key  string
}{
	{flagHost, "host"},
	{flagPort, "port"},
	{flagConfig, "config_file"},
	{flagEnvironment, "environment"},
	{flagChdir, "chdir"},
	{flagQuiet, "quiet"},
}

// buildSeed assembles the initial options: defaults, then JUBILEE_*
// environment variables, then flags given explicitly, then the RACKUP
// argument.
func buildSeed(c *cli.Context) (map[string]any, error) {
	l := confloader.NewLoader()
	if err := l.LoadMap(config.Defaults()); err != nil {
		return nil, err
	}
	if err := l.LoadEnv(); err != nil {
		return nil, err
	}

	for _, s := range seedKeys {
		if !c.IsSet(s.flag) {
			continue
		}
		if err := l.Set(s.key, c.Value(s.flag)); err != nil {
			return nil, fmt.Errorf("flag --%s: %w", s.flag, err)
		}
	}

	switch c.NArg() {
	case 0:
	case 1:
		if err := l.Set("rackup", c.Args().First()); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("expected at most one RACKUP argument, got %d", c.NArg())
	}

	return l.Raw(), nil
}
