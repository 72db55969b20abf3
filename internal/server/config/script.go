package config

import (
	"sort"
	"strconv"

	"github.com/yndnr/jubilee-go/internal/core/domain"
	"github.com/yndnr/jubilee-go/internal/infra/confscript"
)

// directive binds a script name to a setter.
type directive struct {
	minArgs, maxArgs int
	call             func(b *Builder, args []any) error
}

// directives is the complete script vocabulary. reload is not callable
// from a script.
var directives = map[string]directive{
	"listen": {1, 2, func(b *Builder, args []any) error {
		overrides, err := b.blockArg("listen", args, 1)
		if err != nil {
			return err
		}
		return b.Listen(args[0], overrides)
	}},
	"worker_threads": {1, 1, func(b *Builder, args []any) error {
		return b.WorkerThreads(args[0])
	}},
	"clustering": {1, 1, func(b *Builder, args []any) error {
		return b.Clustering(args[0])
	}},
	"debug": {1, 1, func(b *Builder, args []any) error {
		return b.Debug(args[0])
	}},
	"daemonize": {1, 1, func(b *Builder, args []any) error {
		return b.Daemonize(args[0])
	}},
	"ssl": {0, 1, func(b *Builder, args []any) error {
		opts, err := b.blockArg("ssl", args, 0)
		if err != nil {
			return err
		}
		return b.SSL(opts)
	}},
	"pid": {1, 1, func(b *Builder, args []any) error {
		return b.PID(args[0])
	}},
	"stderr_path": {1, 1, func(b *Builder, args []any) error {
		return b.StderrPath(args[0])
	}},
	"stdout_path": {1, 1, func(b *Builder, args []any) error {
		return b.StdoutPath(args[0])
	}},
	"eventbus": {1, 2, func(b *Builder, args []any) error {
		opts, err := b.blockArg("eventbus", args, 1)
		if err != nil {
			return err
		}
		return b.EventBus(args[0], opts)
	}},
	"working_directory": {1, 1, func(b *Builder, args []any) error {
		return b.WorkingDirectory(args[0])
	}},
	"tcp": {1, 1, func(b *Builder, args []any) error {
		opts, err := b.blockArg("tcp", args, 0)
		if err != nil {
			return err
		}
		return b.TCP(opts)
	}},
}

// Directives returns the names a configuration script may use, sorted.
func Directives() []string {
	names := make([]string, 0, len(directives))
	for name := range directives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (b *Builder) apply(d confscript.Directive) error {
	dir, ok := directives[d.Name]
	if !ok {
		return b.fail(d.Name, domain.ErrValidation.Detailf("unknown directive %q", d.Name))
	}
	if n := len(d.Args); n < dir.minArgs || n > dir.maxArgs {
		return b.fail(d.Name, domain.ErrValidation.Detailf("%s takes %s, got %d",
			d.Name, arity(dir.minArgs, dir.maxArgs), n))
	}
	return dir.call(b, d.Args)
}

// blockArg returns args[i] as a map. A missing argument is an empty map.
func (b *Builder) blockArg(name string, args []any, i int) (map[string]any, error) {
	if i >= len(args) {
		return map[string]any{}, nil
	}
	m, ok := args[i].(map[string]any)
	if !ok {
		return nil, b.fail(name, domain.ErrValidation.Detailf("%s: argument %d must be a block, got %#v", name, i+1, args[i]))
	}
	return m, nil
}

func arity(lo, hi int) string {
	switch {
	case lo == hi && lo == 1:
		return "1 argument"
	case lo == hi:
		return strconv.Itoa(lo) + " arguments"
	default:
		return strconv.Itoa(lo) + " to " + strconv.Itoa(hi) + " arguments"
	}
}
