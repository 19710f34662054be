package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"stickman/internal/game"
	"stickman/internal/player"
	"stickman/util"
	"stickman/words"
)

// OfflineMode plays rounds against words drawn from a library until
// the operator stops, then prints the totals.
type OfflineMode struct {
	Player  *player.Participant
	Library words.Library
	// Difficulty fixes the library for every round.  Empty asks before
	// each round.
	Difficulty words.Difficulty
	UI         UI
	Logger     *util.Logger
}

// Run executes offline play.  Running out of input ends the match like
// answering no.
func (m *OfflineMode) Run(ctx context.Context) error {
	defer m.UI.Report(&m.Player.Stats, "", false)

	for {
		err := m.round(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		again, err := m.UI.Confirm(promptRestart)
		if errors.Is(err, io.EOF) || (err == nil && !again) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (m *OfflineMode) round(ctx context.Context) error {
	d, err := m.difficulty()
	if err != nil {
		return err
	}
	word, err := m.Library.Word(d)
	if err != nil {
		return err
	}
	m.Logger.Debug("round %d: %s word, %d letters", m.Player.Stats.Rounds()+1, d, len(word))

	r := game.NewRound(word)
	outcome, err := game.Play(ctx, r, typedGuesses(m.UI), m.UI)
	if err != nil {
		return err
	}

	ev, err := m.Player.Record(outcome, word)
	if err != nil {
		return err
	}
	m.UI.Result(ev, "")
	return nil
}

// difficulty returns the configured difficulty or asks until the
// operator names one.
func (m *OfflineMode) difficulty() (words.Difficulty, error) {
	if m.Difficulty != "" {
		return m.Difficulty, nil
	}
	for {
		line, err := m.UI.ReadLine(promptDifficulty)
		if err != nil {
			return "", err
		}
		d, err := words.ParseDifficulty(line)
		if err == nil {
			return d, nil
		}
		m.UI.Display(fmt.Sprintf("%v", err))
	}
}

// typedGuesses reads guesses from the keyboard, normalised to lower
// case.  Empty lines reach the round and are rejected there.
func typedGuesses(ui UI) game.GuessSource {
	return game.GuessFunc(func(ctx context.Context) (string, error) {
		line, err := ui.ReadLine(promptGuess)
		if err != nil {
			return "", err
		}
		return strings.ToLower(strings.TrimSpace(line)), nil
	})
}
