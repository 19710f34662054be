package game

import (
	"context"
	"errors"

	ncerr "stickman/internal/errors"
)

// GuessSource produces the next raw guess: the keyboard for the
// guesser, the network for the word-setter.
type GuessSource interface {
	NextGuess(ctx context.Context) (string, error)
}

// GuessFunc adapts a function to [GuessSource].
type GuessFunc func(ctx context.Context) (string, error)

// NextGuess calls f.
func (f GuessFunc) NextGuess(ctx context.Context) (string, error) { return f(ctx) }

// View is told about every turn.
type View interface {
	// Turn is called after each accepted guess.
	Turn(r *Round, c Classification)
	// Rejected is called when a guess was invalid and nothing changed.
	Rejected(err error)
}

// Play drives r to a terminal outcome, pulling guesses from src and
// reporting each turn to view.  A round that is already over (a
// whitespace-only secret) returns at once.  Errors from src end the
// round with Playing and that error.
func Play(ctx context.Context, r *Round, src GuessSource, view View) (Outcome, error) {
	for r.Outcome() == Playing {
		if err := ctx.Err(); err != nil {
			return Playing, err
		}

		raw, err := src.NextGuess(ctx)
		if err != nil {
			return Playing, err
		}

		c, err := r.Guess(raw)
		if errors.Is(err, ncerr.ErrInvalidInput) {
			view.Rejected(err)
			continue
		}
		if err != nil {
			return r.Outcome(), err
		}
		view.Turn(r, c)
	}
	return r.Outcome(), nil
}

// stages is the gallows, drawn one more line per wrong guess.
var stages = []string{
	`             `,
	`_______      `,
	`|     v      `,
	`|     |      `,
	`|     0      `,
	`|    /?\     `,
	`|___ / \     `,
	`    R I P    `,
}

// Stage returns the gallows lines for wrong misses: wrong+1 lines,
// clamped to the full drawing.
func Stage(wrong int) []string {
	n := wrong + 1
	if n < 1 {
		n = 1
	}
	if n > len(stages) {
		n = len(stages)
	}
	return stages[:n]
}
