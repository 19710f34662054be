package core

import (
	"fmt"

	"github.com/google/uuid"

	"stickman/config"
	"stickman/internal/game"
	"stickman/internal/metrics"
	"stickman/internal/player"
	"stickman/internal/session"
	"stickman/internal/transport"
	"stickman/tunnel"
	"stickman/util"
	"stickman/words"
)

// Build constructs the Mode for a completed configuration.  Every
// field Complete would ask for must be set.
func Build(cfg *config.Config, ui UI, logger *util.Logger) (Mode, error) {
	id := uuid.NewString()
	logger = logger.Named("match " + id[:8])

	switch cfg.Mode {
	case config.ModeOffline:
		return buildOffline(cfg, ui, logger)
	case config.ModeOnline:
		return buildOnline(cfg, ui, logger, id)
	default:
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
}

// ── mode builders ────────────────────────────────────────────────────

func buildOffline(cfg *config.Config, ui UI, logger *util.Logger) (Mode, error) {
	var diff words.Difficulty
	if cfg.Difficulty != "" {
		d, err := words.ParseDifficulty(cfg.Difficulty)
		if err != nil {
			return nil, err
		}
		diff = d
	}

	return &OfflineMode{
		Player:     player.New(cfg.Name, game.Offline, nil),
		Library:    words.Dir(cfg.WordsDir),
		Difficulty: diff,
		UI:         ui,
		Logger:     logger,
	}, nil
}

func buildOnline(cfg *config.Config, ui UI, logger *util.Logger, matchID string) (Mode, error) {
	role, err := game.ParseRole(cfg.Role)
	if err != nil {
		return nil, err
	}
	if role == game.Offline {
		return nil, fmt.Errorf("online play needs a setter or guesser role")
	}

	m := metrics.New()
	dialer := buildDialer(cfg, ui, logger)
	ep := transport.New(transport.Options{
		BindHost:   cfg.BindHost,
		Port:       cfg.Port,
		MaxMessage: cfg.MaxMessage,
		IOTimeout:  cfg.IOTimeout,
		Dialer:     dialer,
		Metrics:    m,
		Logger:     logger,
	})

	p := player.New(cfg.Name, role, ep)
	if cfg.Peer != "" {
		addr, err := util.PeerAddr(cfg.Peer, cfg.Port)
		if err != nil {
			return nil, err
		}
		p.OpponentAddr = addr
	}

	neg := session.New(ep, ui, session.Options{
		HandshakeTimeout: cfg.HandshakeTimeout,
		RetryInterval:    cfg.RetryInterval,
		Port:             cfg.Port,
		Metrics:          m,
		Logger:           logger,
	})

	return &OnlineMode{
		MatchID:      matchID,
		Player:       p,
		Negotiator:   neg,
		Dialer:       dialer,
		UI:           ui,
		RoundTimeout: cfg.RoundTimeout,
		Metrics:      m,
		Logger:       logger,
	}, nil
}

// ── shared helpers ───────────────────────────────────────────────────

// buildDialer creates the transport.Dialer for the configuration:
// through the SSH gateway when a tunnel is set, plain TCP otherwise.
func buildDialer(cfg *config.Config, ui UI, logger *util.Logger) transport.Dialer {
	if cfg.TunnelEnabled {
		return transport.NewSSHDialer(&tunnel.SSHConfig{
			User:          cfg.TunnelUser,
			Host:          cfg.TunnelHost,
			Port:          cfg.TunnelPort,
			KeyPath:       cfg.SSHKeyPath,
			PromptPass:    cfg.SSHPassword,
			UseAgent:      cfg.UseSSHAgent,
			StrictHostKey: cfg.StrictHostKey,
			KnownHosts:    cfg.KnownHostsPath,
			Prompt:        ui.SecretPrompt,
		}, logger)
	}
	return &transport.TCPDialer{Timeout: cfg.IOTimeout}
}
