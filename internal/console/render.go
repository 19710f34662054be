package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"stickman/internal/game"
	"stickman/internal/stats"
)

type styles struct {
	prompt lipgloss.Style
	board  lipgloss.Style
	misses lipgloss.Style
	stage  lipgloss.Style
	win    lipgloss.Style
	loss   lipgloss.Style
	note   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		prompt: r.NewStyle().Foreground(lipgloss.Color("#F1FA8C")),
		board:  r.NewStyle().Foreground(lipgloss.Color("#BD93F9")).Bold(true),
		misses: r.NewStyle().Foreground(lipgloss.Color("#FF5555")),
		stage:  r.NewStyle().Foreground(lipgloss.Color("#6272A4")),
		win:    r.NewStyle().Foreground(lipgloss.Color("#50FA7B")).Bold(true),
		loss:   r.NewStyle().Foreground(lipgloss.Color("#FFB86C")).Bold(true),
		note:   r.NewStyle().Foreground(lipgloss.Color("#8BE9FD")),
	}
}

// Turn renders the board, the misses so far and the gallows.  It makes
// Terminal a [game.View].
func (t *Terminal) Turn(r *game.Round, _ game.Classification) {
	t.Display(t.styles.board.Render(r.Board().String()))
	t.Display(t.styles.misses.Render(formatMisses(r.Incorrect())))
	t.Display(t.styles.stage.Render(strings.Join(game.Stage(r.Wrong()), "\n")))
}

// Rejected tells the operator an empty guess does not count.
func (t *Terminal) Rejected(error) {
	t.Display(t.styles.note.Render("You gotta take a guess...\n"))
}

// Result announces a finished round from the local side.
func (t *Terminal) Result(ev stats.Event, opponent string) {
	var msg string
	switch {
	case ev.Role == game.WordSetter && ev.LocalWon:
		msg = fmt.Sprintf("YOU WIN!!\n%s couldn't guess %s\n", opponent, ev.Word)
	case ev.Role == game.WordSetter:
		msg = fmt.Sprintf("You lost v~v\n%s guessed your word, %s\n", opponent, ev.Word)
	case ev.Role == game.Guesser && ev.LocalWon:
		msg = fmt.Sprintf("YOU WIN!!\n%s's word was %s\n", opponent, ev.Word)
	case ev.Role == game.Guesser:
		msg = fmt.Sprintf("You lost v~v\n%s's word was %s\n", opponent, ev.Word)
	case ev.LocalWon:
		msg = fmt.Sprintf("YOU WIN!!\nThe word was %s\n", ev.Word)
	default:
		msg = fmt.Sprintf("You lost v~v\nThe word was %s\n", ev.Word)
	}
	if ev.LocalWon {
		t.Display(t.styles.win.Render(msg))
	} else {
		t.Display(t.styles.loss.Render(msg))
	}
}

// Report prints the match totals.  Online reports add the words this
// side set and what the opponent guessed.
func (t *Terminal) Report(s *stats.Tracker, opponent string, online bool) {
	var b strings.Builder
	fmt.Fprintf(&b, "\nYou had %d wins, and %d losses\n", s.Wins, s.Losses)
	if online {
		fmt.Fprintf(&b, "Your winning words were %s\n", formatWords(s.WinningWords))
	}
	fmt.Fprintf(&b, "Your guessed words were %s\n", formatWords(s.GuessedWords))
	fmt.Fprintf(&b, "You failed to guess %s\n", formatWords(s.FailedWords))
	if online {
		fmt.Fprintf(&b, "%s guessed these words %s\n", opponent, formatWords(s.OpponentGuessedWords))
	}
	t.Display(b.String())

	v := s.Verdict()
	switch v {
	case stats.Ahead:
		t.Display(t.styles.win.Render(v.String()))
	case stats.Behind:
		t.Display(t.styles.loss.Render(v.String()))
	default:
		t.Display(t.styles.note.Render(v.String()))
	}
}

func formatMisses(rs []rune) string {
	if len(rs) == 0 {
		return "misses: none"
	}
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = string(r)
	}
	return "misses: " + strings.Join(parts, " ")
}

func formatWords(words []string) string {
	if len(words) == 0 {
		return "[]"
	}
	return "[" + strings.Join(words, ", ") + "]"
}
