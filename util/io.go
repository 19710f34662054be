package util

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
)

// DefaultBufSize is the size of pooled read buffers.
const DefaultBufSize = 4 * 1024

// readBufs recycles message buffers across accepted connections.
var readBufs = sync.Pool{
	New: func() any {
		b := make([]byte, DefaultBufSize)
		return &b
	},
}

// ReadMessage reads one message from r: everything up to EOF, capped at
// limit bytes.  truncated reports whether the sender wrote more than
// limit; the excess is left unread.
func ReadMessage(r io.Reader, limit int) (msg string, truncated bool, err error) {
	if limit <= 0 {
		limit = DefaultBufSize
	}

	var buf []byte
	if limit <= DefaultBufSize {
		pb := readBufs.Get().(*[]byte)
		defer readBufs.Put(pb)
		buf = (*pb)[:limit]
	} else {
		buf = make([]byte, limit)
	}

	n := 0
	for n < limit {
		m, err := r.Read(buf[n:])
		n += m
		if errors.Is(err, io.EOF) {
			return string(buf[:n]), false, nil
		}
		if err != nil {
			return string(buf[:n]), false, err
		}
	}

	// Buffer full: peek one byte to tell "exactly limit" from "more".
	var extra [1]byte
	m, err := r.Read(extra[:])
	if m > 0 {
		return string(buf[:n]), true, nil
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return string(buf[:n]), false, err
	}
	return string(buf[:n]), false, nil
}

// CloseWrite half-closes conn so the remote sees end-of-message while
// the read side stays open for a reply.  Both *net.TCPConn and SSH
// channel connections support it.
func CloseWrite(conn net.Conn) error {
	if cw, ok := conn.(interface{ CloseWrite() error }); ok {
		return cw.CloseWrite()
	}
	return fmt.Errorf("%T does not support half-close", conn)
}

// EncodeASCII returns text as bytes, rejecting anything outside 7-bit
// ASCII.
func EncodeASCII(text string) ([]byte, error) {
	for i := 0; i < len(text); i++ {
		if text[i] > 0x7f {
			return nil, fmt.Errorf("non-ASCII byte 0x%02x at offset %d", text[i], i)
		}
	}
	return []byte(text), nil
}
