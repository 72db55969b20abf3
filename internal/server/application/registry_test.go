package application

import (
	"net/http"
	"reflect"
	"testing"
)

func TestRegistry_RegisterLookup(t *testing.T) {
	r := NewRegistry()
	f := func(Source) (http.Handler, error) { return http.NotFoundHandler(), nil }

	if err := r.Register("App", f); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, ok := r.Lookup("app"); !ok {
		t.Error("Lookup() should be case-insensitive")
	}
	if _, ok := r.Lookup("APP"); !ok {
		t.Error("Lookup() should be case-insensitive")
	}
	if _, ok := r.Lookup("missing"); ok {
		t.Error("Lookup() found an unregistered name")
	}
}

func TestRegistry_RegisterErrors(t *testing.T) {
	r := NewRegistry()
	f := func(Source) (http.Handler, error) { return nil, nil }

	if err := r.Register("", f); err == nil {
		t.Error("Register() should reject an empty name")
	}
	_ = r.Register("app", f)
	if err := r.Register("APP", f); err == nil {
		t.Error("Register() should reject a duplicate name")
	}
}

func TestDefaultRegistry(t *testing.T) {
	got := DefaultRegistry().Names()
	want := []string{"hello", "static"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}
