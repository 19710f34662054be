package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ncerr "stickman/internal/errors"
	"stickman/internal/game"
	"stickman/internal/metrics"
	"stickman/internal/player"
	"stickman/internal/session"
	"stickman/internal/transport"
	"stickman/util"
)

// OnlineMode plays a match against another stickman process.  Each
// round opens with a handshake; the word-setter then sends the secret,
// and every guess travels from guesser to word-setter as its own
// message.  Both sides run the same round logic on the same inputs.
// Roles swap between rounds.
type OnlineMode struct {
	// MatchID tags this match in the logs.
	MatchID    string
	Player     *player.Participant
	Negotiator *session.Negotiator
	Dialer     transport.Dialer
	UI         UI
	// RoundTimeout bounds the wait for the secret word and for each
	// guess.  Zero waits indefinitely.
	RoundTimeout time.Duration
	Metrics      *metrics.Collector
	Logger       *util.Logger
}

// Run executes the match.  An opponent that disconnects mid-match ends
// it normally with the report; a handshake that never completes is an
// error.
func (m *OnlineMode) Run(ctx context.Context) error {
	p := m.Player
	m.Logger.Verbose("match %s: %s as %v", m.MatchID, p.Name, p.Role)
	defer func() {
		p.Close()
		if m.Dialer != nil {
			m.Dialer.Close()
		}
		m.Logger.Debug("match %s metrics: %s", m.MatchID, m.Metrics.JSON())
	}()

	for {
		if err := m.Negotiator.Negotiate(ctx, p); err != nil {
			m.report()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		err := m.round(ctx)
		var nerr *ncerr.NetworkError
		switch {
		case errors.Is(err, io.EOF):
			m.report()
			return nil
		case errors.As(err, &nerr):
			m.Logger.Verbose("%v", err)
			m.UI.Display(fmt.Sprintf("%s has disconnected! O~O", p.Opponent))
			m.report()
			return nil
		case err != nil:
			m.report()
			return err
		}

		again, err := m.UI.Confirm(promptRestart)
		if err != nil && !errors.Is(err, io.EOF) {
			m.report()
			return err
		}
		if !again {
			m.report()
			return nil
		}
		p.SwapRole()
		m.Logger.Verbose("next round as %v", p.Role)
	}
}

// round plays one round from the local side and records it.
func (m *OnlineMode) round(ctx context.Context) error {
	p := m.Player

	var (
		word string
		src  game.GuessSource
		err  error
	)
	switch p.Role {
	case game.WordSetter:
		word, err = m.sendSecret(ctx)
		src = m.receivedGuesses()
	case game.Guesser:
		word, err = m.receiveSecret(ctx)
		src = m.sentGuesses()
	default:
		return fmt.Errorf("%v cannot play online", p.Role)
	}
	if err != nil {
		return err
	}

	r := game.NewRound(word)
	outcome, err := game.Play(ctx, r, src, m.UI)
	if err != nil {
		return err
	}

	ev, err := p.Record(outcome, word)
	if err != nil {
		return err
	}
	m.UI.Result(ev, p.Opponent)
	return nil
}

// ── word-setter ──────────────────────────────────────────────────────

// sendSecret asks for the secret without echo and sends it.
func (m *OnlineMode) sendSecret(ctx context.Context) (string, error) {
	p := m.Player
	for {
		line, err := m.UI.ReadSecret(promptSecret)
		if err != nil {
			return "", err
		}
		word := strings.ToLower(line)
		if word == "" {
			m.UI.Display("You gotta pick a word...")
			continue
		}
		if _, err := util.EncodeASCII(word); err != nil {
			m.UI.Display("Plain ASCII only, please.")
			continue
		}

		err = p.Endpoint.SendOnce(ctx, p.OpponentAddr, word)
		if errors.Is(err, ncerr.ErrInvalidInput) {
			m.Logger.Verbose("%v", err)
			m.UI.Display(msgTooLong)
			continue
		}
		if err != nil {
			return "", err
		}
		m.UI.Display(fmt.Sprintf("Waiting for %s to guess...", p.Opponent))
		return word, nil
	}
}

// receivedGuesses takes each guess off the network.  An empty message
// reaches the round as an empty guess and changes nothing.
func (m *OnlineMode) receivedGuesses() game.GuessSource {
	return game.GuessFunc(func(ctx context.Context) (string, error) {
		msg, err := m.Player.Endpoint.ListenOnce(ctx, m.RoundTimeout)
		if err != nil {
			return "", err
		}
		guess := strings.ToLower(strings.TrimSpace(msg.Text))
		m.Logger.Verbose("%s guessed %q", m.Player.Opponent, guess)
		return guess, nil
	})
}

// ── guesser ──────────────────────────────────────────────────────────

// receiveSecret waits for the word-setter's word.
func (m *OnlineMode) receiveSecret(ctx context.Context) (string, error) {
	p := m.Player
	m.UI.Display(fmt.Sprintf("Waiting for %s to pick a word...", p.Opponent))

	msg, err := p.Endpoint.ListenOnce(ctx, m.RoundTimeout)
	if err != nil {
		return "", err
	}
	if msg.Text == "" {
		return "", ncerr.Wrap("read", msg.From, ncerr.ErrDisconnect)
	}
	return strings.ToLower(msg.Text), nil
}

// sentGuesses reads each guess from the keyboard and sends it before
// the round applies it.  Empty lines are refused locally and never
// sent, and so is anything the opponent could not read back whole.
func (m *OnlineMode) sentGuesses() game.GuessSource {
	p := m.Player
	return game.GuessFunc(func(ctx context.Context) (string, error) {
		for {
			line, err := m.UI.ReadLine(promptGuess)
			if err != nil {
				return "", err
			}
			guess := strings.ToLower(strings.TrimSpace(line))
			if guess == "" {
				m.UI.Rejected(ncerr.ErrInvalidInput)
				continue
			}
			if _, err := util.EncodeASCII(guess); err != nil {
				m.UI.Display("Plain ASCII only, please.")
				continue
			}

			err = p.Endpoint.SendOnce(ctx, p.OpponentAddr, guess)
			if errors.Is(err, ncerr.ErrInvalidInput) {
				m.Logger.Verbose("%v", err)
				m.UI.Display(msgTooLong)
				continue
			}
			if err != nil {
				return "", err
			}
			return guess, nil
		}
	})
}

func (m *OnlineMode) report() {
	m.UI.Report(&m.Player.Stats, m.Player.Opponent, true)
}
