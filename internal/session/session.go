// Package session runs the opening exchange of every online round: the
// two processes trade display names over a one-shot request/reply,
// which also proves both endpoints are reachable before a secret word
// is sent.
package session

import (
	"context"
	"fmt"
	"time"

	ncerr "stickman/internal/errors"
	"stickman/internal/game"
	"stickman/internal/metrics"
	"stickman/internal/player"
	"stickman/internal/retry"
	"stickman/internal/transport"
	"stickman/util"
)

// State is where the negotiator is in the handshake.
type State int

const (
	Idle State = iota
	AwaitingPeer
	Connected
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingPeer:
		return "awaiting-peer"
	case Connected:
		return "connected"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Link is the part of the transport the handshake needs.
type Link interface {
	Open() error
	ListenAndReply(ctx context.Context, reply string, timeout time.Duration) (transport.Message, error)
	SendAndWait(ctx context.Context, peer, text string) (string, error)
}

// Prompter asks the operator whether to keep waiting and shows
// progress.
type Prompter interface {
	Confirm(prompt string) (bool, error)
	Display(text string)
}

// Options tunes the handshake.
type Options struct {
	// HandshakeTimeout is how long the word-setter listens per attempt.
	HandshakeTimeout time.Duration
	// RetryInterval is the guesser's pause between refused dials.
	RetryInterval time.Duration
	// Port completes the opponent address the word-setter learns from
	// the handshake connection.
	Port int

	Metrics *metrics.Collector
	Logger  *util.Logger
}

// Negotiator establishes who is playing whom.
type Negotiator struct {
	link  Link
	ui    Prompter
	opts  Options
	state State
}

// New returns an idle negotiator.
func New(link Link, ui Prompter, opts Options) *Negotiator {
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = 15 * time.Second
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = util.NewLogger(0)
	}
	return &Negotiator{link: link, ui: ui, opts: opts}
}

// State returns the outcome of the last Negotiate call.
func (n *Negotiator) State() State { return n.state }

// Negotiate runs the handshake for p's current role and fills in
// p.Opponent (and p.OpponentAddr for a word-setter that had none).
// Failures wrap ErrHandshakeFailed unless ctx ended.
func (n *Negotiator) Negotiate(ctx context.Context, p *player.Participant) error {
	n.state = AwaitingPeer

	var err error
	switch p.Role {
	case game.WordSetter:
		err = n.await(ctx, p)
	case game.Guesser:
		err = n.reach(ctx, p)
	default:
		err = fmt.Errorf("%w: %v has no opponent", ncerr.ErrHandshakeFailed, p.Role)
	}
	if err != nil {
		n.state = Failed
		return err
	}

	n.state = Connected
	n.opts.Logger.Verbose("connected to %s at %s as %v", p.Opponent, p.OpponentAddr, p.Role)
	n.ui.Display(fmt.Sprintf("Connected!\nYou are playing against %s.\n", p.Opponent))
	return nil
}

// await is the word-setter side: listen, answer with our name.
func (n *Negotiator) await(ctx context.Context, p *player.Participant) error {
	for {
		n.opts.Metrics.HandshakeAttempt()
		msg, err := n.link.ListenAndReply(ctx, p.Name, n.opts.HandshakeTimeout)
		if err == nil {
			p.Opponent = msg.Text
			if p.OpponentAddr == "" {
				p.OpponentAddr = util.FormatAddr(util.HostOf(msg.From), n.opts.Port)
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !ncerr.IsTimeout(err) && !ncerr.IsDisconnect(err) {
			return fmt.Errorf("%w: %w", ncerr.ErrHandshakeFailed, err)
		}

		again, cerr := n.ui.Confirm(fmt.Sprintf("O~O Sorry, %s took too long! Try again?", n.waitingFor(p)))
		if cerr != nil {
			return fmt.Errorf("%w: %w", ncerr.ErrHandshakeFailed, cerr)
		}
		if !again {
			return fmt.Errorf("%w: %w", ncerr.ErrHandshakeFailed, err)
		}
	}
}

// reach is the guesser side: dial until the word-setter is listening.
func (n *Negotiator) reach(ctx context.Context, p *player.Participant) error {
	if p.OpponentAddr == "" {
		return fmt.Errorf("%w: no opponent address", ncerr.ErrHandshakeFailed)
	}
	// Our listener has to be up before the word-setter can send the
	// secret word.
	if err := n.link.Open(); err != nil {
		return fmt.Errorf("%w: %w", ncerr.ErrHandshakeFailed, err)
	}

	b := retry.Fixed(n.opts.RetryInterval)
	b.OnRetry = func(attempt int, err error, wait time.Duration) {
		n.opts.Logger.Verbose("handshake attempt %d: %v, retrying in %s", attempt, err, wait)
		n.ui.Display("~Attempting to connect...\n")
	}

	err := b.Do(ctx, func(int) error {
		n.opts.Metrics.HandshakeAttempt()
		reply, err := n.link.SendAndWait(ctx, p.OpponentAddr, p.Name)
		if err == nil {
			p.Opponent = reply
			return nil
		}
		// Refused, timed out or dropped: the word-setter is not
		// answering yet.
		if ncerr.IsNetwork(err) {
			return err
		}
		return retry.Permanent(err)
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", ncerr.ErrHandshakeFailed, err)
	}
	return nil
}

func (n *Negotiator) waitingFor(p *player.Participant) string {
	if p.Opponent != "" {
		return p.Opponent
	}
	return "player 2"
}
