package command

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/jubilee-go/internal/core/domain"
	"github.com/yndnr/jubilee-go/internal/server/config"
	"github.com/yndnr/jubilee-go/internal/telemetry/logger"
	"github.com/yndnr/jubilee-go/internal/telemetry/metric"
)

// runApp runs the CLI with args and returns what it wrote to stdout.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	app := App()
	app.Writer = &stdout
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"jubilee"}, args...))
	return stdout.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestApp(t *testing.T) {
	app := App()
	if app.Name != "jubilee" {
		t.Errorf("Name = %q, want jubilee", app.Name)
	}

	commands := make(map[string]bool)
	for _, cmd := range app.Commands {
		commands[cmd.Name] = true
	}
	for _, name := range []string{"check", "directives"} {
		if !commands[name] {
			t.Errorf("missing command %q", name)
		}
	}

	flags := make(map[string]bool)
	for _, f := range app.Flags {
		flags[f.Names()[0]] = true
	}
	for _, name := range []string{flagHost, flagPort, flagConfig, flagEnvironment, flagChdir, flagQuiet, flagJoin, flagMetricsAddr, flagLogFormat, flagLogLevel} {
		if !flags[name] {
			t.Errorf("missing flag --%s", name)
		}
	}
}

func TestBuildSeed(t *testing.T) {
	t.Setenv("JUBILEE_WORKER_THREADS", "8")
	t.Setenv("JUBILEE_EVENT_BUS__PREFIX", "/eb")

	var seed map[string]any
	app := App()
	app.Writer, app.ErrWriter = io.Discard, io.Discard
	app.Action = func(c *cli.Context) error {
		var err error
		seed, err = buildSeed(c)
		return err
	}
	if err := app.Run([]string{"jubilee", "-p", "4000", "-q", "app.rb"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := map[string]any{
		"host":           config.DefaultHost,
		"port":           4000,
		"quiet":          true,
		"rackup":         "app.rb",
		"worker_threads": "8",
		"environment":    config.DefaultEnvironment,
	}
	for k, v := range want {
		if !reflect.DeepEqual(seed[k], v) {
			t.Errorf("seed[%s] = %#v, want %#v", k, seed[k], v)
		}
	}
	eb, _ := seed["event_bus"].(map[string]any)
	if eb["prefix"] != "/eb" {
		t.Errorf("seed[event_bus] = %#v", seed["event_bus"])
	}
	if _, ok := seed["config_file"]; ok {
		t.Error("config_file set without --config")
	}
}

func TestBuildSeed_TooManyArgs(t *testing.T) {
	app := App()
	app.Writer, app.ErrWriter = io.Discard, io.Discard
	app.Action = func(c *cli.Context) error {
		_, err := buildSeed(c)
		return err
	}
	if err := app.Run([]string{"jubilee", "a.rb", "b.rb"}); err == nil {
		t.Error("Run() error = nil for two RACKUP arguments")
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "jubilee.yml", `
- listen: 3100
- worker_threads: 2
- ssl:
    keystore: /etc/jubilee/keystore.p12
    password: changeit
`)
	rackup := writeFile(t, dir, "hello.rb", "")

	out, err := runApp(t, "-c", script, "-e", "production", "check", "-o", "json", rackup)
	if err != nil {
		t.Fatalf("check error = %v", err)
	}

	var opts map[string]any
	if err := json.Unmarshal([]byte(out), &opts); err != nil {
		t.Fatalf("check output is not JSON: %v\n%s", err, out)
	}
	if opts["port"] != float64(3100) || opts["worker_threads"] != float64(2) {
		t.Errorf("options = %v", opts)
	}
	if opts["ssl_password"] != "ch****it" {
		t.Errorf("ssl_password = %v, want masked", opts["ssl_password"])
	}
}

func TestCheck_Table(t *testing.T) {
	out, err := runApp(t, "check", "--skip-app")
	if err != nil {
		t.Fatalf("check error = %v", err)
	}
	if !strings.Contains(out, "worker_threads") || !strings.Contains(out, "KEY") {
		t.Errorf("table output:\n%s", out)
	}
}

func TestCheck_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.yml", "- worker_threads: 0\n")

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"invalid setting", []string{"-c", bad, "check", "--skip-app"}, domain.ErrValidation},
		{"bad environment", []string{"-e", "staging", "check", "--skip-app"}, domain.ErrValidation},
		{"unknown application", []string{"-e", "test", "check", writeFile(t, dir, "nope.rb", "")}, domain.ErrResolution},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runApp(t, tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDirectives(t *testing.T) {
	out, err := runApp(t, "directives")
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Fields(out)
	if !reflect.DeepEqual(got, config.Directives()) {
		t.Errorf("directives = %v", got)
	}
}

func TestReloader(t *testing.T) {
	defer logger.SetLevel(logger.GetLevel())

	dir := t.TempDir()
	script := writeFile(t, dir, "jubilee.yml", "- worker_threads: 2\n")
	seed := config.Defaults()
	seed["config_file"] = script
	log := slog.New(slog.DiscardHandler)

	r := newReloader(seed, []config.Option{config.WithLogger(log)}, log, metric.NewRegistry(), "info")

	reloaded := make(chan config.Config, 1)
	failed := make(chan error, 1)
	_ = r.bus.Subscribe(TopicReloaded, func(cfg config.Config) { reloaded <- cfg })
	_ = r.bus.Subscribe(TopicReloadFailed, func(err error) { failed <- err })

	writeFile(t, dir, "jubilee.yml", "- worker_threads: 6\n- debug: true\n")
	r.reload(script)
	select {
	case cfg := <-reloaded:
		if cfg.WorkerThreads != 6 {
			t.Errorf("WorkerThreads = %d, want 6", cfg.WorkerThreads)
		}
	case <-time.After(time.Second):
		t.Fatal("no reload published")
	}
	if logger.GetLevel() != "debug" {
		t.Errorf("log level = %s, want debug", logger.GetLevel())
	}

	writeFile(t, dir, "jubilee.yml", "- clustering: 80\n")
	r.reload(script)
	select {
	case err := <-failed:
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("failure = %v, want ErrValidation", err)
		}
	case <-time.After(time.Second):
		t.Fatal("no failure published")
	}
}

func TestNewTunedListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	if got := newTunedListener(ln, config.TCPConfig{}); got != ln {
		t.Error("zero options should not wrap the listener")
	}

	tuned := newTunedListener(ln, config.TCPConfig{KeepAlive: true, NoDelay: true, SendBufferSize: 4096})
	go func() {
		conn, err := net.Dial("tcp", ln.Addr().String())
		if err == nil {
			_ = conn.Close()
		}
	}()
	conn, err := tuned.Accept()
	if err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	_ = conn.Close()
}
