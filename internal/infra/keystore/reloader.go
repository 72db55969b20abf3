package keystore

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"sync"

	"github.com/yndnr/jubilee-go/internal/infra/confloader"
)

// Reloader serves the certificate from a keystore file and reloads it when
// the file changes. A failed reload keeps the previous certificate.
type Reloader struct {
	path     string
	password string
	logger   *slog.Logger

	mu      sync.RWMutex
	cert    *tls.Certificate
	watcher *confloader.Watcher
}

// ReloaderOption configures a Reloader.
type ReloaderOption func(*Reloader)

// WithLogger sets the logger for the reloader.
func WithLogger(logger *slog.Logger) ReloaderOption {
	return func(r *Reloader) {
		r.logger = logger
	}
}

// NewReloader loads the keystore at path. Call Watch to follow changes.
func NewReloader(path, password string, opts ...ReloaderOption) (*Reloader, error) {
	r := &Reloader{
		path:     path,
		password: password,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Watch starts reloading the keystore on change.
func (r *Reloader) Watch() error {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(r.logger))
	if err != nil {
		return fmt.Errorf("keystore watcher: %w", err)
	}
	if err := w.Watch(r.path); err != nil {
		_ = w.Stop()
		return fmt.Errorf("keystore watcher: %w", err)
	}
	w.OnChange(func(string) {
		if err := r.reload(); err != nil {
			r.logger.Error("keystore reload failed", "file", r.path, "error", err)
		}
	})
	w.StartAsync()

	r.mu.Lock()
	r.watcher = w
	r.mu.Unlock()
	return nil
}

// Stop stops watching. It is safe to call without Watch.
func (r *Reloader) Stop() error {
	r.mu.RLock()
	w := r.watcher
	r.mu.RUnlock()
	if w == nil {
		return nil
	}
	return w.Stop()
}

// GetCertificate returns the current certificate.
// This implements tls.Config.GetCertificate.
func (r *Reloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cert, nil
}

// TLSConfig returns a server configuration that always presents the
// current certificate.
func (r *Reloader) TLSConfig() *tls.Config {
	return &tls.Config{
		GetCertificate: r.GetCertificate,
		MinVersion:     tls.VersionTLS12,
	}
}

func (r *Reloader) reload() error {
	cert, err := Load(r.path, r.password)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.cert = &cert
	r.mu.Unlock()

	r.logger.Info("keystore loaded", "file", r.path)
	return nil
}
