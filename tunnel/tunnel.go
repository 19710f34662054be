// Package tunnel carries a match's outbound connections through an SSH
// gateway, for peers that can only reach each other via a bastion.
package tunnel

import (
	"context"
	"net"
)

// Tunnel is an encrypted channel that outbound TCP dials can be
// forwarded through.  Inbound listening is never tunnelled.
type Tunnel interface {
	// Connect establishes the tunnel to the gateway.
	Connect(ctx context.Context) error

	// Dial opens a connection to address through the tunnel.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close tears down the tunnel.
	Close() error

	// IsAlive reports whether the gateway connection is still up.
	IsAlive() bool
}
