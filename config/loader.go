package config

// loader.go - configuration loading from a config file and environment
// variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables  (LoadFromEnv)
//   3. Config file  (LoadFile)
//   4. Defaults   (defaults.go)

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvConfigFile names the config file when --config is not given.
const EnvConfigFile = "STICKMAN_CONFIG"

// ── Config file ──────────────────────────────────────────────────────
//
// Any format viper understands (YAML, TOML, JSON) works; the extension
// picks the parser.  Keys mirror the long flag names:
//
//	mode: online
//	role: setter
//	name: alice
//	port: 7777
//	round-timeout: 3m
//	tunnel: alice@bastion:2222

// LoadFile overlays the settings present in the file at path onto cfg.
// Keys absent from the file leave cfg untouched.
func LoadFile(cfg *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}

	setString(v, "mode", &cfg.Mode)
	setString(v, "role", &cfg.Role)
	setString(v, "name", &cfg.Name)
	setString(v, "difficulty", &cfg.Difficulty)
	setString(v, "words-dir", &cfg.WordsDir)

	setString(v, "peer", &cfg.Peer)
	setString(v, "bind", &cfg.BindHost)
	if v.IsSet("port") {
		cfg.Port = v.GetInt("port")
	}
	setDuration(v, "handshake-timeout", &cfg.HandshakeTimeout)
	setDuration(v, "round-timeout", &cfg.RoundTimeout)
	setDuration(v, "retry-interval", &cfg.RetryInterval)
	setDuration(v, "io-timeout", &cfg.IOTimeout)
	if v.IsSet("max-message") {
		cfg.MaxMessage = v.GetInt("max-message")
	}

	setString(v, "tunnel", &cfg.TunnelSpec)
	setString(v, "ssh-key", &cfg.SSHKeyPath)
	setBool(v, "ssh-password", &cfg.SSHPassword)
	setBool(v, "ssh-agent", &cfg.UseSSHAgent)
	setBool(v, "strict-hostkey", &cfg.StrictHostKey)
	setString(v, "known-hosts", &cfg.KnownHostsPath)

	if v.IsSet("verbose") {
		cfg.Verbose = v.GetInt("verbose")
	}

	cfg.ConfigFile = path
	return nil
}

func setString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}

func setBool(v *viper.Viper, key string, dst *bool) {
	if v.IsSet(key) {
		*dst = v.GetBool(key)
	}
}

func setDuration(v *viper.Viper, key string, dst *time.Duration) {
	if v.IsSet(key) {
		*dst = v.GetDuration(key)
	}
}

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the STICKMAN_ prefix.  Boolean values
// accept "1", "true", "yes" (case-insensitive).  Durations accept Go
// syntax ("15s") or a bare number of seconds.

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.  This should be called BEFORE
// CLI flag parsing so that flags take precedence.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("STICKMAN_MODE"); v != "" {
		cfg.Mode = strings.ToLower(v)
	}
	if v := os.Getenv("STICKMAN_ROLE"); v != "" {
		cfg.Role = v
	}
	if v := os.Getenv("STICKMAN_NAME"); v != "" {
		cfg.Name = v
	}
	if v := os.Getenv("STICKMAN_DIFFICULTY"); v != "" {
		cfg.Difficulty = v
	}
	if v := os.Getenv("STICKMAN_WORDS_DIR"); v != "" {
		cfg.WordsDir = v
	}

	// Network
	if v := os.Getenv("STICKMAN_PEER"); v != "" {
		cfg.Peer = v
	}
	if v := os.Getenv("STICKMAN_BIND"); v != "" {
		cfg.BindHost = v
	}
	if v := envInt("STICKMAN_PORT"); v > 0 {
		cfg.Port = v
	}
	if v := envDuration("STICKMAN_HANDSHAKE_TIMEOUT"); v > 0 {
		cfg.HandshakeTimeout = v
	}
	if v := envDuration("STICKMAN_ROUND_TIMEOUT"); v > 0 {
		cfg.RoundTimeout = v
	}
	if v := envDuration("STICKMAN_RETRY_INTERVAL"); v > 0 {
		cfg.RetryInterval = v
	}
	if v := envDuration("STICKMAN_IO_TIMEOUT"); v > 0 {
		cfg.IOTimeout = v
	}
	if v := envInt("STICKMAN_MAX_MESSAGE"); v > 0 {
		cfg.MaxMessage = v
	}

	// SSH tunnel
	if v := os.Getenv("STICKMAN_TUNNEL"); v != "" {
		cfg.TunnelSpec = v
	}
	if v := os.Getenv("STICKMAN_SSH_KEY"); v != "" {
		cfg.SSHKeyPath = v
	}
	if envBool("STICKMAN_SSH_PASSWORD") {
		cfg.SSHPassword = true
	}
	if envBool("STICKMAN_SSH_AGENT") {
		cfg.UseSSHAgent = true
	}
	if envBool("STICKMAN_STRICT_HOSTKEY") {
		cfg.StrictHostKey = true
	}
	if v := os.Getenv("STICKMAN_KNOWN_HOSTS"); v != "" {
		cfg.KnownHostsPath = v
	}

	// Output
	if v := envInt("STICKMAN_VERBOSE"); v > 0 {
		cfg.Verbose = v
	}
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}

func envDuration(key string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return 0
}
