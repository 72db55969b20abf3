package application

import (
	"net/http"
	"strings"

	"github.com/yndnr/jubilee-go/internal/core/domain"
	"github.com/yndnr/jubilee-go/internal/server/httpserver"
)

// Stack assembles an application from middleware, mounted handlers and a
// terminal handler. It is the Go form of an application block passed to
// the configuration builder.
type Stack struct {
	middlewares []httpserver.Middleware
	mounts      []mount
	run         http.Handler
}

type mount struct {
	prefix  string
	handler http.Handler
}

// Use appends middleware. The first middleware added is the outermost.
func (s *Stack) Use(mw httpserver.Middleware) {
	s.middlewares = append(s.middlewares, mw)
}

// Map mounts h under prefix. The prefix is stripped before h sees the
// request. Mapping a prefix again replaces the earlier handler.
func (s *Stack) Map(prefix string, h http.Handler) {
	prefix = "/" + strings.Trim(prefix, "/")
	for i := range s.mounts {
		if s.mounts[i].prefix == prefix {
			s.mounts[i].handler = h
			return
		}
	}
	s.mounts = append(s.mounts, mount{prefix: prefix, handler: h})
}

// Run sets the handler for requests no mount claims.
func (s *Stack) Run(h http.Handler) {
	s.run = h
}

// Handler assembles the stack.
func (s *Stack) Handler() (http.Handler, error) {
	if s.run == nil && len(s.mounts) == 0 {
		return nil, domain.ErrResolution.WithDetails("application block defines no handler")
	}

	var h http.Handler
	if len(s.mounts) == 0 {
		h = s.run
	} else {
		h = s.router()
	}
	return httpserver.Chain(h, s.middlewares...), nil
}

func (s *Stack) router() http.Handler {
	mux := http.NewServeMux()
	for _, m := range s.mounts {
		if m.prefix == "/" {
			mux.Handle("/", m.handler)
			continue
		}
		stripped := http.StripPrefix(m.prefix, m.handler)
		mux.Handle(m.prefix, stripped)
		mux.Handle(m.prefix+"/", stripped)
	}
	if s.run != nil && !s.mounted("/") {
		mux.Handle("/", s.run)
	}
	return mux
}

func (s *Stack) mounted(prefix string) bool {
	for _, m := range s.mounts {
		if m.prefix == prefix {
			return true
		}
	}
	return false
}

// Build runs fn against a fresh Stack and returns the assembled handler.
func Build(fn func(*Stack)) (http.Handler, error) {
	s := &Stack{}
	fn(s)
	return s.Handler()
}
