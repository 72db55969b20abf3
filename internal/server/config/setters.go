package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/yndnr/jubilee-go/internal/core/domain"
	"github.com/yndnr/jubilee-go/internal/infra/confloader"
	"github.com/yndnr/jubilee-go/internal/infra/netaddr"
)

// Minimums enforced by the integer settings.
const (
	MinWorkerThreads = 1
	MinClusterPort   = 1025
	MinBufferSize    = 1
	MinSoLinger      = 0
)

// Listen sets host and port from an address in any form netaddr.Normalize
// accepts, then copies overrides into the options verbatim. Override keys
// are top-level option names; a key containing "." is rejected.
//
//	b.Listen(3000, nil)              // 0.0.0.0:3000
//	b.Listen("[::1]:3000", nil)      // IPv6 loopback
//	b.Listen("127.0.0.1:3000", map[string]any{"quiet": true})
func (b *Builder) Listen(addr any, overrides map[string]any) error {
	if err := b.mutable("listen"); err != nil {
		return err
	}

	for k := range overrides {
		if k == "" || strings.Contains(k, confloader.Delim) {
			return b.fail("listen", domain.ErrValidation.Detailf("listen: invalid override key %q", k))
		}
	}

	canonical, err := netaddr.Normalize(addr)
	if err != nil {
		return b.fail("listen", err)
	}
	host, port, err := netaddr.Split(canonical)
	if err != nil {
		return b.fail("listen", err)
	}

	b.set("host", host)
	b.set("port", port)
	for k, v := range overrides {
		b.set(k, v)
	}
	return nil
}

// WorkerThreads sets the size of the worker pool. Each worker serves one
// client at a time.
func (b *Builder) WorkerThreads(n any) error {
	return b.setInt("worker_threads", "worker_threads", n, MinWorkerThreads)
}

// Clustering sets the port other instances discover this one on.
func (b *Builder) Clustering(port any) error {
	return b.setInt("clustering", "cluster_port", port, MinClusterPort)
}

// Debug enables debug messages.
func (b *Builder) Debug(v any) error {
	return b.setBool("debug", "debug", v)
}

// Daemonize enables daemon mode.
func (b *Builder) Daemonize(v any) error {
	return b.setBool("daemonize", "daemonize", v)
}

// SSL enables HTTPS. opts may carry "keystore", a path or nil, and
// "password", any value or nil.
func (b *Builder) SSL(opts map[string]any) error {
	if err := b.mutable("ssl"); err != nil {
		return err
	}

	keystore := opts["keystore"]
	if err := checkPath("ssl_keystore", keystore); err != nil {
		return b.fail("ssl", err)
	}

	b.setOrDelete("ssl_keystore", keystore)
	b.setOrDelete("ssl_password", opts["password"])
	b.set("ssl", true)
	return nil
}

// PID sets the path of the PID file.
func (b *Builder) PID(path any) error {
	return b.setPath("pid", "pid", path)
}

// StderrPath redirects stderr to path.
func (b *Builder) StderrPath(path any) error {
	return b.setPath("stderr_path", "stderr_path", path)
}

// StdoutPath redirects stdout to path.
func (b *Builder) StdoutPath(path any) error {
	return b.setPath("stdout_path", "stdout_path", path)
}

// EventBus sets the event bus bridge prefix and its inbound and outbound
// filters. The filters are stored as given.
func (b *Builder) EventBus(prefix any, opts map[string]any) error {
	if err := b.mutable("eventbus"); err != nil {
		return err
	}

	p, ok := prefix.(string)
	if !ok {
		return b.fail("eventbus", domain.ErrValidation.Detailf("not a string: event_bus.prefix=%#v", prefix))
	}

	b.set("event_bus.prefix", p)
	b.setOrDelete("event_bus.inbound", opts["inbound"])
	b.setOrDelete("event_bus.outbound", opts["outbound"])
	return nil
}

// WorkingDirectory checks that a relative configuration script would still
// be readable from path. It changes nothing.
func (b *Builder) WorkingDirectory(path any) error {
	if err := b.mutable("working_directory"); err != nil {
		return err
	}

	p, ok := path.(string)
	if !ok {
		return b.fail("working_directory", domain.ErrValidation.Detailf("not a string: working_directory=%#v", path))
	}
	dir, err := expandPath(p)
	if err != nil {
		return b.fail("working_directory", domain.ErrValidation.Detailf("working_directory=%s", p).WithCause(err))
	}

	script := b.ScriptPath()
	if script == "" || filepath.IsAbs(script) {
		return nil
	}
	if !readable(filepath.Join(dir, script)) {
		return b.fail("working_directory", domain.ErrAccessibility.Detailf(
			"config_file=%s would not be accessible in working_directory=%s", script, dir))
	}
	return nil
}

// tcpSetting describes one key accepted by TCP.
type tcpSetting struct {
	min    int
	isBool bool
}

var tcpSettings = map[string]tcpSetting{
	"send_buffer_size":    {min: MinBufferSize},
	"receive_buffer_size": {min: MinBufferSize},
	"so_linger":           {min: MinSoLinger},
	"keep_alive":          {isBool: true},
	"reuse_address":       {isBool: true},
	"no_delay":            {isBool: true},
}

// TCP records socket options for accepted connections. Every key is
// checked before any is stored.
func (b *Builder) TCP(opts map[string]any) error {
	if err := b.mutable("tcp"); err != nil {
		return err
	}

	for k, v := range opts {
		s, ok := tcpSettings[k]
		if !ok {
			return b.fail("tcp", domain.ErrValidation.Detailf("unknown tcp option %q", k))
		}
		key := "tcp." + k
		var err error
		if s.isBool {
			_, err = checkBool(key, v)
		} else {
			_, err = checkInt(key, v, s.min)
		}
		if err != nil {
			return b.fail("tcp", err)
		}
	}

	for k, v := range opts {
		if n, ok := toInt(v); ok {
			b.set("tcp."+k, n)
			continue
		}
		b.set("tcp."+k, v)
	}
	return nil
}

func (b *Builder) setInt(setting, key string, v any, min int) error {
	if err := b.mutable(setting); err != nil {
		return err
	}
	n, err := checkInt(key, v, min)
	if err != nil {
		return b.fail(setting, err)
	}
	b.set(key, n)
	return nil
}

func (b *Builder) setBool(setting, key string, v any) error {
	if err := b.mutable(setting); err != nil {
		return err
	}
	val, err := checkBool(key, v)
	if err != nil {
		return b.fail(setting, err)
	}
	b.set(key, val)
	return nil
}

func (b *Builder) setPath(setting, key string, v any) error {
	if err := b.mutable(setting); err != nil {
		return err
	}
	if err := checkPath(key, v); err != nil {
		return b.fail(setting, err)
	}
	b.setOrDelete(key, v)
	return nil
}

// set writes one option. koanf only fails on a nil store, so the error is
// not surfaced.
func (b *Builder) set(key string, v any) {
	_ = b.opts.Set(key, v)
	b.logger.Debug("setting applied", slog.Any(key, v))
}

func (b *Builder) setOrDelete(key string, v any) {
	if v == nil {
		b.opts.Delete(key)
		b.logger.Debug("setting cleared", "key", key)
		return
	}
	b.set(key, v)
}

func checkInt(key string, v any, min int) (int, error) {
	n, ok := toInt(v)
	if !ok {
		return 0, domain.ErrValidation.Detailf("not an integer: %s=%#v", key, v)
	}
	if n < min {
		return 0, domain.ErrValidation.Detailf("too low (< %d): %s=%d", min, key, n)
	}
	return n, nil
}

func checkBool(key string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, domain.ErrValidation.Detailf("not a boolean: %s=%#v", key, v)
	}
	return b, nil
}

func checkPath(key string, v any) error {
	switch v.(type) {
	case nil, string:
		return nil
	default:
		return domain.ErrValidation.Detailf("not a path: %s=%#v", key, v)
	}
}

// toInt accepts Go integer types only. Strings and floats are not integers
// even when they look like one.
func toInt(v any) (int, bool) {
	const maxInt = int(^uint(0) >> 1)
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint:
		if n > uint(maxInt) {
			return 0, false
		}
		return int(n), true
	case uint64:
		if n > uint64(maxInt) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func expandPath(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return filepath.Abs(p)
}

func readable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}
