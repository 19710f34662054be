// Package transport moves single text messages between two stickman
// processes.  Every message rides its own TCP connection: connect, send,
// close.  The connection boundary is the message boundary, so there is
// no framing on the wire.
package transport

import (
	"context"
	"net"
)

// Dialer opens outbound network connections.  Implementations are a
// plain TCP dialer and an SSH-tunnelled dialer that routes traffic
// through a gateway.
type Dialer interface {
	// Dial establishes a connection to the given network address.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close releases any long-lived resources held by the dialer
	// (e.g. an SSH session).  Stateless dialers return nil.
	Close() error
}
