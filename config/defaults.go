package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags, config file parsing, and environment variable
// loading.

const (
	// DefaultPort is the fixed port both peers listen on.
	DefaultPort = 7777

	// DefaultSSHPort is the standard SSH port.
	DefaultSSHPort = 22

	// DefaultHandshakeTimeout is how long the word-setter waits for the
	// guesser's name before asking whether to keep waiting.
	DefaultHandshakeTimeout = 15 * time.Second

	// DefaultRoundTimeout bounds the wait for a secret word or a guess.
	DefaultRoundTimeout = 180 * time.Second

	// DefaultRetryInterval is the guesser's pause between refused dials.
	DefaultRetryInterval = 5 * time.Second

	// DefaultIOTimeout is the read/write deadline on each connection.
	DefaultIOTimeout = 30 * time.Second

	// DefaultMaxMessage bounds one message in bytes.
	DefaultMaxMessage = 1024
)

// Default returns a Config with every default applied.
func Default() *Config {
	return &Config{
		Port:             DefaultPort,
		HandshakeTimeout: DefaultHandshakeTimeout,
		RoundTimeout:     DefaultRoundTimeout,
		RetryInterval:    DefaultRetryInterval,
		IOTimeout:        DefaultIOTimeout,
		MaxMessage:       DefaultMaxMessage,
	}
}
