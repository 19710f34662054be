// Package board masks a secret word against the letters guessed so far.
package board

import (
	"strings"
	"unicode"
)

// Set is a set of guessed characters.
type Set map[rune]struct{}

// NewSet returns a set holding rs.
func NewSet(rs ...rune) Set {
	s := make(Set, len(rs))
	for _, r := range rs {
		s[r] = struct{}{}
	}
	return s
}

// Add inserts r and reports whether it was new.
func (s Set) Add(r rune) bool {
	if _, ok := s[r]; ok {
		return false
	}
	s[r] = struct{}{}
	return true
}

// Has reports whether r is in the set.
func (s Set) Has(r rune) bool {
	_, ok := s[r]
	return ok
}

// Len returns the number of characters in the set.
func (s Set) Len() int { return len(s) }

// Cell is one position of the board.
type Cell struct {
	Char  rune
	Shown bool
}

// Board is the masked view of a secret, one cell per rune.
type Board []Cell

// Reveal builds the board for secret given the correctly guessed
// characters.  Whitespace is always shown.
func Reveal(secret string, correct Set) Board {
	b := make(Board, 0, len(secret))
	for _, r := range secret {
		b = append(b, Cell{
			Char:  r,
			Shown: unicode.IsSpace(r) || correct.Has(r),
		})
	}
	return b
}

// Complete reports whether every cell is shown.
func (b Board) Complete() bool {
	return b.Hidden() == 0
}

// Hidden returns the number of cells still masked.
func (b Board) Hidden() int {
	n := 0
	for _, c := range b {
		if !c.Shown {
			n++
		}
	}
	return n
}

// String renders the board with "_" for hidden cells, cells joined by
// single spaces: "c a _".
func (b Board) String() string {
	var sb strings.Builder
	sb.Grow(len(b) * 2)
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if c.Shown {
			sb.WriteRune(c.Char)
		} else {
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
