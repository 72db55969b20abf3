package application

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// DefaultGreeting is served by the hello application.
const DefaultGreeting = "Hello from Jubilee"

// newStatic serves files from a root directory. The root comes from the
// "root" option, or the entry-point file's content, relative to the
// entry point's directory. The default is the current directory.
func newStatic(src Source) (http.Handler, error) {
	root := optionString(src.Options, "root", "")
	if root == "" {
		root = strings.TrimSpace(string(src.Data))
	}
	if root == "" {
		root = "."
	}
	if src.Path != "" && !filepath.IsAbs(root) {
		root = filepath.Join(filepath.Dir(src.Path), root)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("static root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("static root %s is not a directory", root)
	}
	return http.FileServer(http.Dir(root)), nil
}

// newHello answers every request with a fixed plain-text greeting taken
// from the "message" option or the entry-point file's content.
func newHello(src Source) (http.Handler, error) {
	msg := optionString(src.Options, "message", "")
	if msg == "" {
		msg = strings.TrimSpace(string(src.Data))
	}
	if msg == "" {
		msg = DefaultGreeting
	}

	body := msg + "\n"
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, body)
	}), nil
}
