package transport

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	ncerr "stickman/internal/errors"
	"stickman/internal/metrics"
	"stickman/util"
)

// Defaults applied by [New] to zero-valued options.
const (
	DefaultMaxMessage = 1024
	DefaultIOTimeout  = 30 * time.Second
)

// Options configures an [Endpoint].
type Options struct {
	// BindHost and Port form the listen address.  Port 0 picks an
	// ephemeral port.
	BindHost string
	Port     int

	// MaxMessage bounds a single inbound message in bytes.  Longer
	// messages are truncated.
	MaxMessage int

	// IOTimeout is the read/write deadline on every connection.
	IOTimeout time.Duration

	// Dialer opens outbound connections (default: plain TCP).
	Dialer Dialer

	Metrics *metrics.Collector
	Logger  *util.Logger
}

// Message is one received text and the address it came from.
type Message struct {
	Text string
	From string
}

// Endpoint is a process's single network identity: at most one
// listener, bound on first use and kept until Close, plus the dialer
// used for sending.  Exactly one connection is open at a time.
type Endpoint struct {
	opts Options

	mu sync.Mutex
	ln *net.TCPListener
}

// New returns an unbound endpoint.
func New(opts Options) *Endpoint {
	if opts.MaxMessage <= 0 {
		opts.MaxMessage = DefaultMaxMessage
	}
	if opts.IOTimeout <= 0 {
		opts.IOTimeout = DefaultIOTimeout
	}
	if opts.Dialer == nil {
		opts.Dialer = &TCPDialer{Timeout: opts.IOTimeout}
	}
	if opts.Logger == nil {
		opts.Logger = util.NewLogger(0)
	}
	return &Endpoint{opts: opts}
}

// Open binds the listener if it is not bound yet.  Connections that
// arrive before the next ListenOnce wait in the kernel backlog.
func (e *Endpoint) Open() error {
	_, err := e.listener()
	return err
}

func (e *Endpoint) listener() (*net.TCPListener, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ln != nil {
		return e.ln, nil
	}
	addr := util.FormatAddr(e.opts.BindHost, e.opts.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		e.opts.Metrics.RecordError(err.Error())
		return nil, ncerr.Wrap("listen", addr, err)
	}
	e.ln = ln.(*net.TCPListener)
	e.opts.Logger.Verbose("listening on %s", e.ln.Addr())
	return e.ln, nil
}

// Addr returns the bound listen address, or the configured one when
// the listener is not open.
func (e *Endpoint) Addr() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ln != nil {
		return e.ln.Addr().String()
	}
	return util.FormatAddr(e.opts.BindHost, e.opts.Port)
}

// Close releases the listener.  Closing an unbound endpoint is a no-op.
func (e *Endpoint) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ln == nil {
		return nil
	}
	err := e.ln.Close()
	e.ln = nil
	return err
}

// ── Receiving ────────────────────────────────────────────────────────

// ListenOnce waits up to timeout for one inbound connection, reads one
// message from it and closes it.  A zero timeout waits until ctx ends.
func (e *Endpoint) ListenOnce(ctx context.Context, timeout time.Duration) (Message, error) {
	conn, err := e.accept(ctx, timeout)
	if err != nil {
		return Message{}, err
	}
	defer e.closeConn(conn)

	text, err := e.read(conn)
	if err != nil {
		return Message{}, err
	}
	return Message{Text: text, From: conn.RemoteAddr().String()}, nil
}

// ListenAndReply is ListenOnce that writes reply back on the same
// connection before closing it.  An empty inbound message means the
// peer aborted and is reported as a disconnect.
func (e *Endpoint) ListenAndReply(ctx context.Context, reply string, timeout time.Duration) (Message, error) {
	data, err := e.encode(reply)
	if err != nil {
		return Message{}, err
	}

	conn, err := e.accept(ctx, timeout)
	if err != nil {
		return Message{}, err
	}
	defer e.closeConn(conn)

	from := conn.RemoteAddr().String()
	text, err := e.read(conn)
	if err != nil {
		return Message{}, err
	}
	if text == "" {
		return Message{}, e.fail(ncerr.Wrap("read", from, ncerr.ErrDisconnect))
	}
	if err := e.write(conn, data); err != nil {
		return Message{}, err
	}
	return Message{Text: text, From: from}, nil
}

// ── Sending ──────────────────────────────────────────────────────────

// SendOnce dials peer, writes text and closes.  A peer that is not
// listening yields ErrConnectionRefused.
func (e *Endpoint) SendOnce(ctx context.Context, peer, text string) error {
	data, err := e.encode(text)
	if err != nil {
		return err
	}
	conn, err := e.dial(ctx, peer)
	if err != nil {
		return err
	}
	defer e.closeConn(conn)
	return e.write(conn, data)
}

// SendAndWait dials peer, writes text, half-closes the write side and
// reads the reply until the peer closes.  IOTimeout does not bound the
// reply; only ctx does.  An empty reply is a disconnect.
func (e *Endpoint) SendAndWait(ctx context.Context, peer, text string) (string, error) {
	data, err := e.encode(text)
	if err != nil {
		return "", err
	}
	conn, err := e.dial(ctx, peer)
	if err != nil {
		return "", err
	}
	defer e.closeConn(conn)

	if err := e.write(conn, data); err != nil {
		return "", err
	}
	if err := util.CloseWrite(conn); err != nil {
		return "", e.fail(ncerr.Wrap("write", peer, err))
	}

	conn.SetReadDeadline(time.Time{})
	stop := context.AfterFunc(ctx, func() { conn.SetReadDeadline(aLongTimeAgo) })
	defer stop()

	reply, err := e.read(conn)
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err != nil {
		return "", err
	}
	if reply == "" {
		return "", e.fail(ncerr.Wrap("read", peer, ncerr.ErrDisconnect))
	}
	return reply, nil
}

// ── Connection plumbing ──────────────────────────────────────────────

// aLongTimeAgo is a deadline that makes a blocked Accept return now.
var aLongTimeAgo = time.Unix(1, 0)

func (e *Endpoint) accept(ctx context.Context, timeout time.Duration) (net.Conn, error) {
	ln, err := e.listener()
	if err != nil {
		return nil, err
	}
	addr := ln.Addr().String()

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if err := ln.SetDeadline(deadline); err != nil {
		return nil, e.fail(ncerr.Wrap("accept", addr, err))
	}
	stop := context.AfterFunc(ctx, func() { ln.SetDeadline(aLongTimeAgo) })
	defer stop()

	e.opts.Logger.Debug("waiting up to %s for a connection on %s", timeout, addr)
	conn, err := ln.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		nerr := ncerr.Wrap("accept", addr, err)
		if nerr.Kind == ncerr.ErrTimeout {
			e.opts.Metrics.RecordTimeout()
		}
		return nil, e.fail(nerr)
	}

	e.opts.Metrics.ConnectionOpened()
	e.opts.Logger.Debug("accepted connection from %s", conn.RemoteAddr())
	conn.SetDeadline(time.Now().Add(e.opts.IOTimeout))
	return conn, nil
}

func (e *Endpoint) dial(ctx context.Context, peer string) (net.Conn, error) {
	conn, err := e.opts.Dialer.Dial(ctx, "tcp", peer)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var nerr *ncerr.NetworkError
		if !ncerr.As(err, &nerr) {
			nerr = ncerr.Wrap("dial", peer, err)
		}
		// A peer that is not up yet is expected during the handshake.
		if nerr.Kind == ncerr.ErrConnectionRefused {
			e.opts.Logger.Debug("%v", nerr)
			return nil, nerr
		}
		return nil, e.fail(nerr)
	}

	e.opts.Metrics.ConnectionOpened()
	e.opts.Logger.Debug("connected to %s", peer)
	conn.SetDeadline(time.Now().Add(e.opts.IOTimeout))
	return conn, nil
}

func (e *Endpoint) read(conn net.Conn) (string, error) {
	from := conn.RemoteAddr().String()
	text, truncated, err := util.ReadMessage(conn, e.opts.MaxMessage)
	if err != nil {
		return "", e.fail(ncerr.Wrap("read", from, err))
	}
	if truncated {
		e.opts.Logger.Warn("message from %s exceeds %d bytes, truncated", from, e.opts.MaxMessage)
	}
	e.opts.Metrics.MessageReceived(len(text))
	e.opts.Logger.Debug("received %d bytes from %s", len(text), from)
	return text, nil
}

func (e *Endpoint) write(conn net.Conn, data []byte) error {
	to := conn.RemoteAddr().String()
	if _, err := conn.Write(data); err != nil {
		return e.fail(ncerr.Wrap("write", to, err))
	}
	e.opts.Metrics.MessageSent(len(data))
	e.opts.Logger.Debug("sent %d bytes to %s", len(data), to)
	return nil
}

func (e *Endpoint) closeConn(conn net.Conn) {
	conn.Close()
	e.opts.Metrics.ConnectionClosed()
}

func (e *Endpoint) fail(err *ncerr.NetworkError) error {
	e.opts.Metrics.RecordError(err.Error())
	e.opts.Logger.Verbose("%v", err)
	return err
}

// encode rejects text the peer could not read back whole: non-ASCII,
// or longer than MaxMessage.
func (e *Endpoint) encode(text string) ([]byte, error) {
	data, err := util.EncodeASCII(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ncerr.ErrInvalidInput, err)
	}
	if len(data) > e.opts.MaxMessage {
		return nil, fmt.Errorf("%w: message is %d bytes, limit %d", ncerr.ErrInvalidInput, len(data), e.opts.MaxMessage)
	}
	return data, nil
}
