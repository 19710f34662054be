// Package game holds the rules of a stickman round: roles, guess
// classification, outcome, and the turn loop.
package game

import (
	"fmt"
	"strings"
)

// Role is what a participant does in the current round.
type Role int

const (
	// Offline plays alone against a word library.
	Offline Role = iota
	// WordSetter picks the secret and watches the opponent guess.
	WordSetter
	// Guesser receives the secret and guesses letters.
	Guesser
)

func (r Role) String() string {
	switch r {
	case Offline:
		return "offline"
	case WordSetter:
		return "word-setter"
	case Guesser:
		return "guesser"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Swap returns the role the participant takes next round.  Offline
// stays offline.
func (r Role) Swap() Role {
	switch r {
	case WordSetter:
		return Guesser
	case Guesser:
		return WordSetter
	default:
		return r
	}
}

// ParseRole accepts "setter", "word-setter" or "1" for the word-setter
// and "guesser" or "2" for the guesser, case-insensitively.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "setter", "word-setter":
		return WordSetter, nil
	case "2", "guesser":
		return Guesser, nil
	case "offline":
		return Offline, nil
	default:
		return Offline, fmt.Errorf("unknown role %q (want 1/setter or 2/guesser)", s)
	}
}
