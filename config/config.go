// Package config defines the runtime configuration for stickman and
// the helpers that load, parse and validate it.
package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	ncerr "stickman/internal/errors"
	"stickman/internal/game"
	"stickman/util"
	"stickman/words"
)

// Modes accepted by --mode.  An empty mode is asked for interactively.
const (
	ModeOnline  = "online"
	ModeOffline = "offline"
)

// Config holds every tuneable for one stickman process.  Empty game
// fields are completed by prompting the operator.
type Config struct {
	// ── Game ─────────────────────────────────────────────────────────
	Mode       string // "online", "offline", or "" to ask
	Role       string // "setter"/"1", "guesser"/"2", or "" to ask
	Name       string
	Difficulty string // offline only; "" asks every round
	WordsDir   string // directory with the_<difficulty>_library.txt files

	// ── Network ──────────────────────────────────────────────────────
	Peer             string // opponent "host[:port]"
	BindHost         string // listen address, "" for every interface
	Port             int    // fixed port both peers listen on
	HandshakeTimeout time.Duration
	RoundTimeout     time.Duration // wait for a word or a guess
	RetryInterval    time.Duration // guesser redial pause
	IOTimeout        time.Duration
	MaxMessage       int

	// ── SSH tunnel ───────────────────────────────────────────────────
	TunnelSpec     string // raw [user@]host[:port] from --tunnel
	TunnelEnabled  bool
	TunnelUser     string
	TunnelHost     string
	TunnelPort     int
	SSHKeyPath     string
	SSHPassword    bool // true → prompt interactively
	UseSSHAgent    bool
	StrictHostKey  bool
	KnownHostsPath string

	// ── Output ───────────────────────────────────────────────────────
	Verbose    int
	ConfigFile string
	DryRun     bool
}

// Online reports whether the configuration selects network play.
func (c *Config) Online() bool { return c.Mode == ModeOnline }

// ApplyTunnelSpec parses TunnelSpec into the tunnel fields.  An empty
// spec leaves the tunnel disabled.
func (c *Config) ApplyTunnelSpec() error {
	if c.TunnelSpec == "" {
		return nil
	}
	user, host, port, err := ParseTunnelSpec(c.TunnelSpec)
	if err != nil {
		return &ncerr.ConfigError{
			Field:   "tunnel",
			Value:   c.TunnelSpec,
			Message: err.Error(),
			Hint:    "use --tunnel user@gateway or user@gateway:2222",
		}
	}
	c.TunnelEnabled = true
	c.TunnelUser = user
	c.TunnelHost = host
	c.TunnelPort = port
	return nil
}

// ── Tunnel-spec parser ───────────────────────────────────────────────

// tunnelRe matches [user@]host[:port].
var tunnelRe = regexp.MustCompile(`^(?:([^@]+)@)?([^:@]+)(?::(\d+))?$`)

// ParseTunnelSpec extracts user, host, and port from a string such as
// "alice@bastion.example.com:2222".  Port defaults to 22.
func ParseTunnelSpec(spec string) (user, host string, port int, err error) {
	m := tunnelRe.FindStringSubmatch(spec)
	if m == nil {
		return "", "", 0, fmt.Errorf("invalid tunnel spec %q, expected [user@]host[:port]", spec)
	}
	user = m[1]
	host = m[2]
	port = DefaultSSHPort
	if m[3] != "" {
		port, err = strconv.Atoi(m[3])
		if err != nil || port < 1 || port > 65535 {
			return "", "", 0, fmt.Errorf("invalid tunnel port %q", m[3])
		}
	}
	return user, host, port, nil
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent.
// Failures are *errors.ConfigError values carrying a hint.
func (c *Config) Validate() error {
	switch c.Mode {
	case "", ModeOnline, ModeOffline:
	default:
		return &ncerr.ConfigError{Field: "mode", Value: c.Mode,
			Message: "unknown mode", Hint: "use --mode online or --mode offline"}
	}

	if c.Role != "" {
		if c.Mode == ModeOffline {
			return &ncerr.ConfigError{Field: "role", Value: c.Role,
				Message: "roles only apply online", Hint: "drop --role or use --mode online"}
		}
		if _, err := game.ParseRole(c.Role); err != nil {
			return &ncerr.ConfigError{Field: "role", Value: c.Role,
				Message: err.Error(), Hint: "player 1 sets the word (--role 1), player 2 guesses (--role 2)"}
		}
	}

	if c.Difficulty != "" {
		if _, err := words.ParseDifficulty(c.Difficulty); err != nil {
			return &ncerr.ConfigError{Field: "difficulty", Value: c.Difficulty,
				Message: err.Error(), Hint: "one of easy, normal, hard, brutal"}
		}
	}

	if !util.ValidPort(c.Port) {
		return &ncerr.ConfigError{Field: "port", Value: c.Port,
			Message: "port out of range 1-65535", Hint: "both players must use the same port"}
	}

	if c.Peer != "" {
		if _, err := util.PeerAddr(c.Peer, c.Port); err != nil {
			return &ncerr.ConfigError{Field: "peer", Value: c.Peer,
				Message: err.Error(), Hint: "give the address your opponent was shown, e.g. 192.168.1.20"}
		}
	}

	for _, d := range []struct {
		field string
		value time.Duration
	}{
		{"handshake-timeout", c.HandshakeTimeout},
		{"round-timeout", c.RoundTimeout},
		{"retry-interval", c.RetryInterval},
		{"io-timeout", c.IOTimeout},
	} {
		if d.value <= 0 {
			return &ncerr.ConfigError{Field: d.field, Value: d.value,
				Message: "must be positive", Hint: "use a duration such as 15s or 3m"}
		}
	}

	if c.MaxMessage < 1 {
		return &ncerr.ConfigError{Field: "max-message", Value: c.MaxMessage,
			Message: "must be at least 1 byte"}
	}

	if c.Name != "" {
		data, err := util.EncodeASCII(c.Name)
		if err != nil {
			return &ncerr.ConfigError{Field: "name", Value: c.Name,
				Message: err.Error(), Hint: "names travel as plain ASCII, e.g. --name alice"}
		}
		if len(data) > c.MaxMessage {
			return &ncerr.ConfigError{Field: "name", Value: c.Name,
				Message: fmt.Sprintf("longer than max-message (%d bytes)", c.MaxMessage)}
		}
	}

	if c.TunnelEnabled {
		if c.Mode == ModeOffline {
			return &ncerr.ConfigError{Field: "tunnel", Value: c.TunnelSpec,
				Message: "a tunnel only makes sense online", Hint: "drop --tunnel or use --mode online"}
		}
		if c.TunnelHost == "" {
			return &ncerr.ConfigError{Field: "tunnel", Message: "tunnel host is required",
				Hint: "use --tunnel user@gateway"}
		}
	}

	return nil
}

// ── Dry-run summary ──────────────────────────────────────────────────

// Summary renders the resolved configuration, one setting per line.
func (c *Config) Summary() string {
	ask := func(s string) string {
		if s == "" {
			return "(ask)"
		}
		return s
	}
	var b strings.Builder
	fmt.Fprintf(&b, "mode:              %s\n", ask(c.Mode))
	fmt.Fprintf(&b, "role:              %s\n", ask(c.Role))
	fmt.Fprintf(&b, "name:              %s\n", ask(c.Name))
	fmt.Fprintf(&b, "difficulty:        %s\n", ask(c.Difficulty))
	fmt.Fprintf(&b, "words-dir:         %s\n", orDefault(c.WordsDir, "(embedded)"))
	fmt.Fprintf(&b, "peer:              %s\n", ask(c.Peer))
	fmt.Fprintf(&b, "listen:            %s\n", util.FormatAddr(c.BindHost, c.Port))
	fmt.Fprintf(&b, "handshake-timeout: %s\n", c.HandshakeTimeout)
	fmt.Fprintf(&b, "round-timeout:     %s\n", c.RoundTimeout)
	fmt.Fprintf(&b, "retry-interval:    %s\n", c.RetryInterval)
	fmt.Fprintf(&b, "io-timeout:        %s\n", c.IOTimeout)
	fmt.Fprintf(&b, "max-message:       %d\n", c.MaxMessage)
	if c.TunnelEnabled {
		fmt.Fprintf(&b, "tunnel:            %s@%s:%d\n", c.TunnelUser, c.TunnelHost, c.TunnelPort)
	}
	if c.ConfigFile != "" {
		fmt.Fprintf(&b, "config-file:       %s\n", c.ConfigFile)
	}
	return b.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
