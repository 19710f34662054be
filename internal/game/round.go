package game

import (
	"fmt"

	"stickman/internal/board"
	ncerr "stickman/internal/errors"
)

// MaxWrong is the number of wrong guesses a guesser survives.  The
// seventh distinct wrong character loses the round.
const MaxWrong = 6

// Outcome is the state of a round from the guesser's point of view.
type Outcome int

const (
	Playing Outcome = iota
	Won
	Lost
)

func (o Outcome) String() string {
	switch o {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Classification is what one guess did, in the order its characters
// first appear in the guess.
type Classification struct {
	Correct   []rune // newly revealed characters
	Incorrect []rune // newly missed characters, each costing one wrong
	Repeated  []rune // already guessed, right or wrong; free
}

// Round is one secret word being guessed.
type Round struct {
	secret    string
	board     board.Board
	correct   board.Set
	incorrect board.Set
	order     []rune // incorrect characters in guess order
	wrong     int
}

// NewRound starts a round on secret with nothing guessed.
func NewRound(secret string) *Round {
	r := &Round{
		secret:    secret,
		correct:   board.NewSet(),
		incorrect: board.NewSet(),
	}
	r.board = board.Reveal(secret, r.correct)
	return r
}

// Guess classifies every distinct character of raw and updates the
// board.  An empty guess is ErrInvalidInput and changes nothing; any
// guess after the round has ended is ErrRoundOver.
func (r *Round) Guess(raw string) (Classification, error) {
	var c Classification
	if r.Outcome() != Playing {
		return c, ncerr.ErrRoundOver
	}
	if raw == "" {
		return c, fmt.Errorf("%w: empty guess", ncerr.ErrInvalidInput)
	}

	seen := board.NewSet()
	for _, ch := range raw {
		if !seen.Add(ch) {
			continue
		}
		switch {
		case r.correct.Has(ch), r.incorrect.Has(ch):
			c.Repeated = append(c.Repeated, ch)
		case r.inSecret(ch):
			r.correct.Add(ch)
			c.Correct = append(c.Correct, ch)
		default:
			r.incorrect.Add(ch)
			r.order = append(r.order, ch)
			r.wrong++
			c.Incorrect = append(c.Incorrect, ch)
		}
	}

	if len(c.Correct) > 0 {
		r.board = board.Reveal(r.secret, r.correct)
	}
	return c, nil
}

func (r *Round) inSecret(ch rune) bool {
	for _, s := range r.secret {
		if s == ch {
			return true
		}
	}
	return false
}

// Outcome reports Lost once wrong exceeds MaxWrong, Won when the board
// is complete, Playing otherwise.  A loss takes precedence.
func (r *Round) Outcome() Outcome {
	if r.wrong > MaxWrong {
		return Lost
	}
	if r.board.Complete() {
		return Won
	}
	return Playing
}

// Secret returns the word being guessed.
func (r *Round) Secret() string { return r.secret }

// Board returns the current masked board.
func (r *Round) Board() board.Board { return r.board }

// Wrong returns the number of distinct wrong characters so far.
func (r *Round) Wrong() int { return r.wrong }

// Correct reports whether ch has been correctly guessed.
func (r *Round) Correct(ch rune) bool { return r.correct.Has(ch) }

// Incorrect returns the wrong characters in the order they were guessed.
func (r *Round) Incorrect() []rune {
	out := make([]rune, len(r.order))
	copy(out, r.order)
	return out
}
