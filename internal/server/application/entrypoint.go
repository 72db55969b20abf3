package application

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/yndnr/jubilee-go/internal/core/domain"
)

// EntryPointName is the application name an entry-point file stands for:
// its base name without extension ("config/app.rb" -> "app").
func EntryPointName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadEntryPoint reads the entry-point file at path and instantiates the
// factory named after it.
func LoadEntryPoint(reg *Registry, path string) (http.Handler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.ErrResolution.Detailf("read entry point %s", path).WithCause(err)
	}

	name := EntryPointName(path)
	factory, ok := reg.Lookup(name)
	if !ok {
		return nil, domain.ErrResolution.Detailf("entry point %s: no application named %q", path, name)
	}

	h, err := factory(Source{Path: path, Data: data})
	if err != nil {
		return nil, domain.ErrResolution.Detailf("instantiate %q", name).WithCause(err)
	}
	return h, nil
}
