package application

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/yndnr/jubilee-go/internal/core/domain"
	"github.com/yndnr/jubilee-go/internal/infra/confloader"
)

// DescriptorNames are the default descriptor file names, in lookup order.
var DescriptorNames = []string{"application.yml", "application.yaml", "application.toml"}

// Descriptor names the application to run from a directory.
//
//	application: static
//	options:
//	  root: public
type Descriptor struct {
	Application string         `koanf:"application" toml:"application"`
	Options     map[string]any `koanf:"options" toml:"options"`
}

// FindDescriptor returns the path of the first default descriptor present
// in dir.
func FindDescriptor(dir string) (string, error) {
	for _, name := range DescriptorNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", domain.ErrResolution.Detailf("stat %s", path).WithCause(err)
		}
	}
	return "", domain.ErrResolution.Detailf("no application descriptor (%s) in %s",
		DescriptorNames[0], dir)
}

// LoadDescriptor parses a YAML or TOML descriptor.
func LoadDescriptor(path string) (*Descriptor, error) {
	var d Descriptor

	switch filepath.Ext(path) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &d); err != nil {
			return nil, domain.ErrResolution.Detailf("parse %s", path).WithCause(err)
		}
	case ".yml", ".yaml":
		l := confloader.NewLoader()
		if err := l.LoadFile(path); err != nil {
			return nil, domain.ErrResolution.Detailf("parse %s", path).WithCause(err)
		}
		if err := l.Unmarshal(&d); err != nil {
			return nil, domain.ErrResolution.Detailf("decode %s", path).WithCause(err)
		}
	default:
		return nil, domain.ErrResolution.Detailf("unsupported descriptor %s", path)
	}

	if d.Application == "" {
		return nil, domain.ErrResolution.Detailf("%s: application name is required", path)
	}
	return &d, nil
}

// Discover finds the default descriptor in dir and instantiates the
// application it names.
func Discover(reg *Registry, dir string) (http.Handler, error) {
	path, err := FindDescriptor(dir)
	if err != nil {
		return nil, err
	}
	d, err := LoadDescriptor(path)
	if err != nil {
		return nil, err
	}

	factory, ok := reg.Lookup(d.Application)
	if !ok {
		return nil, domain.ErrResolution.Detailf("%s: no application named %q", path, d.Application)
	}
	h, err := factory(Source{Options: d.Options})
	if err != nil {
		return nil, domain.ErrResolution.Detailf("instantiate %q", d.Application).WithCause(err)
	}
	return h, nil
}

func optionString(opts map[string]any, key, def string) string {
	v, ok := opts[key]
	if !ok || v == nil {
		return def
	}
	return fmt.Sprint(v)
}
