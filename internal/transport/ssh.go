package transport

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	ncerr "stickman/internal/errors"
	"stickman/internal/retry"
	"stickman/tunnel"
	"stickman/util"
)

// gatewayAttempts bounds how often the gateway itself is redialled
// before a Dial gives up.
const gatewayAttempts = 3

// SSHDialer routes the match's outbound connections through an SSH
// gateway.  The tunnel is connected on the first Dial, which is the
// first handshake attempt, and reconnected if the gateway drops it
// between messages.
type SSHDialer struct {
	tunnel    tunnel.Tunnel
	config    *tunnel.SSHConfig
	logger    *util.Logger
	mu        sync.Mutex
	connected bool
}

// NewSSHDialer creates a dialer that forwards connections through an
// SSH tunnel.  The tunnel is not connected until the first Dial.
func NewSSHDialer(cfg *tunnel.SSHConfig, logger *util.Logger) *SSHDialer {
	return &SSHDialer{
		tunnel: tunnel.NewSSHTunnel(cfg, logger),
		config: cfg,
		logger: logger,
	}
}

// connect establishes the SSH tunnel if not already connected.
func (d *SSHDialer) connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected && d.tunnel.IsAlive() {
		return nil
	}
	if d.connected {
		d.logger.Warn("SSH tunnel to %s dropped, reconnecting", d.config.Addr())
		d.tunnel.Close()
		d.connected = false
	}

	d.logger.Verbose("establishing SSH tunnel to %s@%s", d.config.User, d.config.Addr())

	b := retry.DefaultBackoff()
	b.MaxAttempts = gatewayAttempts
	b.OnRetry = func(attempt int, err error, wait time.Duration) {
		d.logger.Verbose("SSH gateway attempt %d: %v, retrying in %s", attempt, err, wait)
	}
	err := b.Do(ctx, func(int) error {
		err := d.tunnel.Connect(ctx)
		if err != nil && !ncerr.IsRetryable(err) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("tunnel: %w", err)
	}

	d.connected = true
	d.logger.Verbose("SSH tunnel established")
	return nil
}

// Dial connects to address through the SSH tunnel, connecting the
// tunnel first when needed.
func (d *SSHDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	if err := d.connect(ctx); err != nil {
		return nil, err
	}
	return d.tunnel.Dial(ctx, network, address)
}

// Close tears down the underlying SSH tunnel.
func (d *SSHDialer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		d.connected = false
		return d.tunnel.Close()
	}
	return nil
}
