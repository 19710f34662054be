// Package stats keeps a participant's running record across the rounds
// of one match.
package stats

import (
	"fmt"

	"stickman/internal/game"
)

// Verdict compares wins to losses at the end of a match.
type Verdict int

const (
	Tie Verdict = iota
	Ahead
	Behind
)

func (v Verdict) String() string {
	switch v {
	case Ahead:
		return "YOU WIN IT ALL!!~~"
	case Behind:
		return "You lost this time V~V"
	default:
		return "WHOoOaA!! it was a tie..."
	}
}

// Event describes how one finished round counted for the local side.
type Event struct {
	Role     game.Role
	Outcome  game.Outcome
	Word     string
	LocalWon bool
}

// Tracker accumulates results.  The zero value is ready to use.
type Tracker struct {
	Wins   int
	Losses int

	GuessedWords         []string // secrets this side revealed
	FailedWords          []string // secrets this side failed to reveal
	WinningWords         []string // own secrets the opponent failed on
	OpponentGuessedWords []string // own secrets the opponent revealed
}

// Record counts a terminal round.  outcome is the guesser's result; the
// local role decides whether that is a win or a loss here.
func (t *Tracker) Record(role game.Role, outcome game.Outcome, word string) (Event, error) {
	ev := Event{Role: role, Outcome: outcome, Word: word}

	switch outcome {
	case game.Won, game.Lost:
	default:
		return ev, fmt.Errorf("stats: cannot record a round that is %v", outcome)
	}

	guesserWon := outcome == game.Won
	switch role {
	case game.Offline, game.Guesser:
		if guesserWon {
			t.Wins++
			t.GuessedWords = append(t.GuessedWords, word)
		} else {
			t.Losses++
			t.FailedWords = append(t.FailedWords, word)
		}
		ev.LocalWon = guesserWon
	case game.WordSetter:
		if guesserWon {
			t.Losses++
			t.OpponentGuessedWords = append(t.OpponentGuessedWords, word)
		} else {
			t.Wins++
			t.WinningWords = append(t.WinningWords, word)
		}
		ev.LocalWon = !guesserWon
	default:
		return ev, fmt.Errorf("stats: unknown role %v", role)
	}
	return ev, nil
}

// Rounds returns the number of rounds recorded.
func (t *Tracker) Rounds() int { return t.Wins + t.Losses }

// Verdict compares wins and losses.
func (t *Tracker) Verdict() Verdict {
	switch {
	case t.Wins > t.Losses:
		return Ahead
	case t.Wins < t.Losses:
		return Behind
	default:
		return Tie
	}
}
