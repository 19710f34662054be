package core

import (
	"fmt"
	"strings"

	"stickman/config"
	"stickman/internal/console"
	"stickman/internal/game"
	"stickman/util"
)

// Complete asks the operator for every setting the configuration left
// open: mode, then for online play the role, the display name and, for
// the guesser, the opponent's address.  The address to share with the
// opponent is shown before asking.
func Complete(cfg *config.Config, con console.Console) error {
	for cfg.Mode == "" {
		line, err := con.ReadLine(promptMode)
		if err != nil {
			return err
		}
		switch m := strings.ToLower(strings.TrimSpace(line)); m {
		case config.ModeOnline, config.ModeOffline:
			cfg.Mode = m
		}
	}
	if !cfg.Online() {
		return nil
	}

	for cfg.Role == "" {
		line, err := con.ReadLine(promptRole)
		if err != nil {
			return err
		}
		switch strings.TrimSpace(line) {
		case "1":
			cfg.Role = game.WordSetter.String()
		case "2":
			cfg.Role = game.Guesser.String()
		default:
			con.Display("Must be '1' or '2'")
		}
	}
	role, err := game.ParseRole(cfg.Role)
	if err != nil {
		return err
	}

	for cfg.Name == "" {
		line, err := con.ReadLine(promptName)
		if err != nil {
			return err
		}
		name := strings.TrimSpace(line)
		if _, err := util.EncodeASCII(name); err != nil {
			con.Display("Plain ASCII only, please.")
			continue
		}
		cfg.Name = name
	}

	con.Display(fmt.Sprintf("Send this IP (%s) to your opponent!", advertisedHost(cfg)))

	for role == game.Guesser && cfg.Peer == "" {
		line, err := con.ReadLine(promptPeer)
		if err != nil {
			return err
		}
		peer := strings.TrimSpace(line)
		if _, err := util.PeerAddr(peer, cfg.Port); err != nil {
			con.Display(fmt.Sprintf("That doesn't look like an address: %v", err))
			continue
		}
		cfg.Peer = peer
	}
	return nil
}

// advertisedHost is the address the opponent should dial.
func advertisedHost(cfg *config.Config) string {
	if cfg.BindHost != "" {
		return cfg.BindHost
	}
	return util.LocalIP()
}
