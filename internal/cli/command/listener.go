package command

import (
	"net"
	"time"

	"github.com/yndnr/jubilee-go/internal/server/config"
)

// tunedListener applies the tcp options to every accepted connection.
type tunedListener struct {
	net.Listener
	opts config.TCPConfig
}

func newTunedListener(ln net.Listener, opts config.TCPConfig) net.Listener {
	if opts == (config.TCPConfig{}) {
		return ln
	}
	return &tunedListener{Listener: ln, opts: opts}
}

func (l *tunedListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		applyTCP(tc, l.opts)
	}
	return conn, nil
}

// applyTCP is best effort: an option the platform rejects is skipped.
func applyTCP(tc *net.TCPConn, o config.TCPConfig) {
	if o.SendBufferSize > 0 {
		_ = tc.SetWriteBuffer(o.SendBufferSize)
	}
	if o.ReceiveBufferSize > 0 {
		_ = tc.SetReadBuffer(o.ReceiveBufferSize)
	}
	if o.SoLinger > 0 {
		_ = tc.SetLinger(o.SoLinger)
	}
	if o.KeepAlive {
		_ = tc.SetKeepAlive(true)
		_ = tc.SetKeepAlivePeriod(30 * time.Second)
	}
	// TCP_NODELAY is already on by default in Go.
	if o.NoDelay {
		_ = tc.SetNoDelay(true)
	}
}
