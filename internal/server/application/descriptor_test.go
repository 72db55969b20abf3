package application

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yndnr/jubilee-go/internal/core/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestLoadDescriptor_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "application.yml")
	writeFile(t, path, "application: hello\noptions:\n  message: hi there\n")

	d, err := LoadDescriptor(path)
	if err != nil {
		t.Fatalf("LoadDescriptor() error = %v", err)
	}
	if d.Application != "hello" || d.Options["message"] != "hi there" {
		t.Errorf("descriptor = %+v", d)
	}
}

func TestLoadDescriptor_TOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "application.toml")
	writeFile(t, path, "application = \"static\"\n\n[options]\nroot = \"public\"\n")

	d, err := LoadDescriptor(path)
	if err != nil {
		t.Fatalf("LoadDescriptor() error = %v", err)
	}
	if d.Application != "static" || d.Options["root"] != "public" {
		t.Errorf("descriptor = %+v", d)
	}
}

func TestLoadDescriptor_Errors(t *testing.T) {
	dir := t.TempDir()
	noName := filepath.Join(dir, "application.yml")
	writeFile(t, noName, "options:\n  root: .\n")
	badTOML := filepath.Join(dir, "application.toml")
	writeFile(t, badTOML, "application = \n")
	other := filepath.Join(dir, "application.json")
	writeFile(t, other, "{}")

	for _, path := range []string{noName, badTOML, other} {
		if _, err := LoadDescriptor(path); !errors.Is(err, domain.ErrResolution) {
			t.Errorf("LoadDescriptor(%s) error = %v, want ErrResolution", filepath.Base(path), err)
		}
	}
}

func TestFindDescriptor_Order(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "application.toml"), "application = \"hello\"\n")
	writeFile(t, filepath.Join(dir, "application.yml"), "application: hello\n")

	path, err := FindDescriptor(dir)
	if err != nil {
		t.Fatalf("FindDescriptor() error = %v", err)
	}
	if filepath.Base(path) != "application.yml" {
		t.Errorf("FindDescriptor() = %s, want application.yml first", path)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "application.yml"), "application: hello\noptions:\n  message: from descriptor\n")

	h, err := Discover(DefaultRegistry(), dir)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if got := get(t, h, "/"); strings.TrimSpace(got) != "from descriptor" {
		t.Errorf("body = %q", got)
	}
}

func TestDiscover_Errors(t *testing.T) {
	empty := t.TempDir()
	if _, err := Discover(DefaultRegistry(), empty); !errors.Is(err, domain.ErrResolution) {
		t.Errorf("Discover(empty) error = %v, want ErrResolution", err)
	}

	unknown := t.TempDir()
	writeFile(t, filepath.Join(unknown, "application.yml"), "application: nope\n")
	if _, err := Discover(DefaultRegistry(), unknown); !errors.Is(err, domain.ErrResolution) {
		t.Errorf("Discover(unknown) error = %v, want ErrResolution", err)
	}

	failing := t.TempDir()
	writeFile(t, filepath.Join(failing, "application.yml"), "application: static\noptions:\n  root: missing\n")
	reg := DefaultRegistry()
	if _, err := Discover(reg, failing); !errors.Is(err, domain.ErrResolution) {
		t.Errorf("Discover(failing) error = %v, want ErrResolution", err)
	}
}
