package game

import (
	"errors"
	"testing"

	ncerr "stickman/internal/errors"
)

func TestRound_CatScenario(t *testing.T) {
	r := NewRound("cat")
	if got := r.Board().String(); got != "_ _ _" {
		t.Fatalf("start board = %q", got)
	}

	steps := []struct {
		guess string
		board string
	}{
		{"a", "_ a _"},
		{"c", "c a _"},
		{"t", "c a t"},
	}
	for _, s := range steps {
		if _, err := r.Guess(s.guess); err != nil {
			t.Fatalf("Guess(%q): %v", s.guess, err)
		}
		if got := r.Board().String(); got != s.board {
			t.Errorf("after %q board = %q, want %q", s.guess, got, s.board)
		}
	}
	if r.Wrong() != 0 {
		t.Errorf("wrong = %d, want 0", r.Wrong())
	}
	if r.Outcome() != Won {
		t.Errorf("outcome = %v, want won", r.Outcome())
	}
}

func TestRound_DogScenario(t *testing.T) {
	r := NewRound("dog")
	for i, g := range []string{"a", "b", "c", "e", "f", "h", "i"} {
		if _, err := r.Guess(g); err != nil {
			t.Fatalf("Guess(%q): %v", g, err)
		}
		want := Playing
		if i == 6 {
			want = Lost
		}
		if r.Outcome() != want {
			t.Fatalf("after %d misses outcome = %v, want %v", i+1, r.Outcome(), want)
		}
	}
	if r.Wrong() != 7 {
		t.Errorf("wrong = %d, want 7", r.Wrong())
	}
	if _, err := r.Guess("d"); !errors.Is(err, ncerr.ErrRoundOver) {
		t.Errorf("guess after loss: err = %v, want ErrRoundOver", err)
	}
}

func TestRound_SpaceScenario(t *testing.T) {
	r := NewRound("a b")
	if got := r.Board().String(); got != "_   _" {
		t.Fatalf("start board = %q", got)
	}
	r.Guess("a")
	r.Guess("b")
	if r.Outcome() != Won || r.Wrong() != 0 {
		t.Errorf("outcome = %v wrong = %d, want won/0", r.Outcome(), r.Wrong())
	}
}

func TestRound_EmptyGuess(t *testing.T) {
	r := NewRound("cat")
	_, err := r.Guess("")
	if !errors.Is(err, ncerr.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if r.Wrong() != 0 || r.Board().String() != "_ _ _" {
		t.Error("empty guess changed state")
	}
}

func TestRound_RepeatsAreFree(t *testing.T) {
	r := NewRound("cat")
	r.Guess("x")
	r.Guess("a")

	c, err := r.Guess("xa")
	if err != nil {
		t.Fatal(err)
	}
	if r.Wrong() != 1 {
		t.Errorf("wrong = %d, want 1", r.Wrong())
	}
	if string(c.Repeated) != "xa" {
		t.Errorf("repeated = %q, want %q", string(c.Repeated), "xa")
	}
	if len(c.Correct) != 0 || len(c.Incorrect) != 0 {
		t.Errorf("classification = %+v, want only repeats", c)
	}
}

func TestRound_MultiCharacterGuess(t *testing.T) {
	r := NewRound("cat")
	c, err := r.Guess("taxxqa")
	if err != nil {
		t.Fatal(err)
	}
	if string(c.Correct) != "ta" {
		t.Errorf("correct = %q, want %q", string(c.Correct), "ta")
	}
	if string(c.Incorrect) != "xq" {
		t.Errorf("incorrect = %q, want %q", string(c.Incorrect), "xq")
	}
	if r.Wrong() != 2 {
		t.Errorf("wrong = %d, want 2 (duplicates collapse)", r.Wrong())
	}
	if got := r.Board().String(); got != "_ a t" {
		t.Errorf("board = %q", got)
	}
	if string(r.Incorrect()) != "xq" {
		t.Errorf("Incorrect() = %q", string(r.Incorrect()))
	}
	if !r.Correct('t') || r.Correct('c') {
		t.Error("Correct() mismatch")
	}
}

func TestRound_LossTakesPrecedence(t *testing.T) {
	r := NewRound("cat")
	r.Guess("bdefgh") // six misses
	if r.Outcome() != Playing {
		t.Fatalf("outcome = %v after six misses, want playing", r.Outcome())
	}
	// One batch that completes the board and adds the seventh miss.
	r.Guess("catz")
	if !r.Board().Complete() {
		t.Fatal("board should be complete")
	}
	if r.Outcome() != Lost {
		t.Errorf("outcome = %v, want lost", r.Outcome())
	}
}

func TestRound_WhitespaceSecretStartsWon(t *testing.T) {
	r := NewRound("  ")
	if r.Outcome() != Won {
		t.Errorf("outcome = %v, want won", r.Outcome())
	}
	if _, err := r.Guess("a"); !errors.Is(err, ncerr.ErrRoundOver) {
		t.Errorf("err = %v, want ErrRoundOver", err)
	}
}

func TestRound_WrongNeverDecreases(t *testing.T) {
	r := NewRound("stickman")
	prev := 0
	for _, g := range []string{"z", "zz", "s", "zq", "q", "", "sk", "yq"} {
		r.Guess(g)
		if r.Wrong() < prev {
			t.Fatalf("wrong dropped from %d to %d after %q", prev, r.Wrong(), g)
		}
		prev = r.Wrong()
	}
	if prev != 3 {
		t.Errorf("wrong = %d, want 3 (z, q, y)", prev)
	}
}

func TestOutcome_String(t *testing.T) {
	tests := map[Outcome]string{Playing: "playing", Won: "won", Lost: "lost", Outcome(9): "Outcome(9)"}
	for o, want := range tests {
		if o.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(o), o.String(), want)
		}
	}
}
