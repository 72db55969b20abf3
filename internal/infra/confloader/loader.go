package confloader

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks the environment variables LoadEnv reads.
const EnvPrefix = "JUBILEE_"

// Delim separates nested keys, e.g. "event_bus.prefix".
const Delim = "."

// Loader is a nested key/value store fed from maps, files and the
// environment. It is not safe for concurrent mutation.
type Loader struct {
	k *koanf.Koanf
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{k: koanf.New(Delim)}
}

// LoadFile loads configuration from a YAML file.
func (l *Loader) LoadFile(path string) error {
	if path == "" {
		return nil
	}

	if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("load file %s: %w", path, err)
	}

	return nil
}

// LoadEnv loads configuration from environment variables.
//
// A double underscore separates nesting levels so that keys may keep their
// own underscores:
//
//	JUBILEE_WORKER_THREADS=8     -> worker_threads
//	JUBILEE_EVENT_BUS__PREFIX=/eb -> event_bus.prefix
func (l *Loader) LoadEnv() error {
	envTransformer := func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", Delim)
	}

	if err := l.k.Load(env.Provider(EnvPrefix, Delim, envTransformer), nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	return nil
}

// LoadMap merges a map into the store. Keys may be nested maps or flat
// dotted paths; later values override earlier ones.
func (l *Loader) LoadMap(data map[string]any) error {
	if len(data) == 0 {
		return nil
	}
	if err := l.k.Load(mapProvider(data), nil); err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	return nil
}

// Set replaces the value at key. Unlike a merge, a map value does not keep
// keys from the previous map.
func (l *Loader) Set(key string, val any) error {
	l.k.Delete(key)
	if err := l.k.Set(key, val); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key and everything nested below it.
func (l *Loader) Delete(key string) {
	l.k.Delete(key)
}

// Unmarshal unmarshals the loaded configuration into the target struct.
// Uses koanf tags for struct field mapping.
func (l *Loader) Unmarshal(target any) error {
	return l.k.Unmarshal("", target)
}

// Get returns a value from the configuration by key.
func (l *Loader) Get(key string) any {
	return l.k.Get(key)
}

// GetString returns a string value from the configuration.
func (l *Loader) GetString(key string) string {
	return l.k.String(key)
}

// GetBool returns a bool value from the configuration.
func (l *Loader) GetBool(key string) bool {
	return l.k.Bool(key)
}

// Raw returns a nested copy of the configuration.
func (l *Loader) Raw() map[string]any {
	return l.k.Raw()
}
