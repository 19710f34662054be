// Package cmd wires up the CLI flags and dispatches to the game core.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"stickman/config"
	"stickman/internal/console"
	"stickman/internal/core"
	"stickman/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X stickman/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and plays stickman on the process's terminal.
func Execute(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdin, os.Stdout)
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	// ── defaults → config file → environment ─────────────────────
	cfg := config.Default()
	if path := configPath(args); path != "" {
		if err := config.LoadFile(cfg, path); err != nil {
			return err
		}
	}
	config.LoadFromEnv(cfg)

	// Flags start from the values resolved so far, so only the flags
	// given on the command line override them.
	fs := flag.NewFlagSet("stickman", flag.ContinueOnError)

	// ── game ─────────────────────────────────────────────────────
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "online or offline (asked when empty)")
	fs.StringVarP(&cfg.Role, "role", "r", cfg.Role, "1/setter or 2/guesser for the first round")
	fs.StringVar(&cfg.Name, "name", cfg.Name, "Name shown to your opponent")
	fs.StringVarP(&cfg.Difficulty, "difficulty", "d", cfg.Difficulty, "Offline word library: easy, normal, hard, brutal")
	fs.StringVar(&cfg.WordsDir, "words-dir", cfg.WordsDir, "Directory with the_<difficulty>_library.txt files")

	// ── connection ───────────────────────────────────────────────
	fs.StringVar(&cfg.Peer, "peer", cfg.Peer, "Opponent address host[:port]")
	fs.StringVar(&cfg.BindHost, "bind", cfg.BindHost, "Listen address (all interfaces if empty)")
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "Port both players listen on")
	fs.DurationVar(&cfg.HandshakeTimeout, "handshake-timeout", cfg.HandshakeTimeout, "How long player 1 waits for player 2")
	fs.DurationVar(&cfg.RoundTimeout, "round-timeout", cfg.RoundTimeout, "How long to wait for a word or a guess")
	fs.DurationVar(&cfg.RetryInterval, "retry-interval", cfg.RetryInterval, "Pause between connection attempts")
	fs.DurationVarP(&cfg.IOTimeout, "io-timeout", "w", cfg.IOTimeout, "Read/write deadline per message")
	fs.IntVar(&cfg.MaxMessage, "max-message", cfg.MaxMessage, "Largest accepted message in bytes")

	// ── SSH tunnel ───────────────────────────────────────────────
	fs.StringVarP(&cfg.TunnelSpec, "tunnel", "T", cfg.TunnelSpec, "Reach the opponent via SSH gateway [user@]host[:port]")
	fs.StringVar(&cfg.SSHKeyPath, "ssh-key", cfg.SSHKeyPath, "SSH private key file")
	fs.BoolVar(&cfg.SSHPassword, "ssh-password", cfg.SSHPassword, "Prompt for SSH password")
	fs.BoolVar(&cfg.UseSSHAgent, "ssh-agent", cfg.UseSSHAgent, "Use SSH agent")
	fs.BoolVar(&cfg.StrictHostKey, "strict-hostkey", cfg.StrictHostKey, "Verify SSH host keys")
	fs.StringVar(&cfg.KnownHostsPath, "known-hosts", cfg.KnownHostsPath, "Custom known_hosts path")

	// ── output ───────────────────────────────────────────────────
	// CountVarP resets its target, so file/env verbosity is added back
	// after parsing.
	baseVerbose := cfg.Verbose
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity (repeatable)")
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Config file (YAML, TOML or JSON); also $"+config.EnvConfigFile)
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Print the resolved settings and exit")

	var showVersion, showHelp bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.Verbose += baseVerbose
	if showHelp {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Fprintf(out, "stickman %s\n", version)
		return nil
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments %v (use --help for usage)", fs.Args())
	}

	// Network-only settings imply online play.
	if cfg.Mode == "" && (cfg.Role != "" || cfg.Peer != "" || cfg.TunnelSpec != "") {
		cfg.Mode = config.ModeOnline
	}

	// ── tunnel spec ──────────────────────────────────────────────
	if err := cfg.ApplyTunnelSpec(); err != nil {
		return err
	}

	// ── validate ─────────────────────────────────────────────────
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.DryRun {
		fmt.Fprint(out, cfg.Summary())
		return nil
	}

	// ── build components ─────────────────────────────────────────
	logger := util.NewLogger(cfg.Verbose)
	if cfg.ConfigFile != "" {
		logger.Verbose("loaded %s", cfg.ConfigFile)
	}

	term := console.NewTerminal(in, out)
	if err := core.Complete(cfg, term); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	mode, err := core.Build(cfg, term, logger)
	if err != nil {
		return err
	}
	return mode.Run(ctx)
}

// ── helpers ──────────────────────────────────────────────────────────

// configPath finds --config ahead of the full parse so the file can
// sit beneath the environment and the flags.  $STICKMAN_CONFIG is the
// fallback.
func configPath(args []string) string {
	var path string
	pre := flag.NewFlagSet("stickman", flag.ContinueOnError)
	pre.ParseErrorsWhitelist.UnknownFlags = true
	pre.SetOutput(io.Discard)
	pre.Usage = func() {}
	pre.StringVar(&path, "config", "", "")
	pre.Parse(args) //nolint:errcheck

	if path == "" {
		path = os.Getenv(config.EnvConfigFile)
	}
	return path
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `stickman – hangman for one or two players v%s

Play offline against a word library, or online against a friend on
another machine: player 1 sets a word, player 2 guesses, then swap.

Usage:
  stickman [options]                               Ask for everything
  stickman --mode offline -d hard                  Offline
  stickman --role 1 --name alice                   Online, set the first word
  stickman --role 2 --name bob --peer <host>       Online, guess first

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  stickman --mode offline --words-dir ./lists      Custom word lists
  stickman -r 2 --peer 192.168.1.20 -p 7800        Non-default port
  stickman -r 2 --peer 10.0.0.7 -T me@bastion      Through an SSH gateway
  STICKMAN_CONFIG=~/.stickman.yaml stickman        Settings from a file
`)
}
