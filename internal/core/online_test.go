package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"stickman/config"
	"stickman/internal/console"
	ncerr "stickman/internal/errors"
	"stickman/internal/transport"
	"stickman/util"
)

func freePort(t *testing.T) int {
	t.Helper()
	p, err := util.FindFreePort()
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func onlineConfig(role, name string, port, peerPort int) *config.Config {
	cfg := config.Default()
	cfg.Mode = config.ModeOnline
	cfg.Role = role
	cfg.Name = name
	cfg.BindHost = "127.0.0.1"
	cfg.Port = port
	cfg.Peer = util.FormatAddr("127.0.0.1", peerPort)
	cfg.HandshakeTimeout = 2 * time.Second
	cfg.RetryInterval = 50 * time.Millisecond
	cfg.RoundTimeout = 5 * time.Second
	cfg.IOTimeout = 2 * time.Second
	return cfg
}

func buildOnlineMode(t *testing.T, cfg *config.Config, ui UI) *OnlineMode {
	t.Helper()
	mode, err := Build(cfg, ui, testLogger())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return mode.(*OnlineMode)
}

func runAsync(m Mode) <-chan error {
	done := make(chan error, 1)
	go func() { done <- m.Run(context.Background()) }()
	return done
}

func wait(t *testing.T, name string, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(15 * time.Second):
		t.Fatalf("%s did not finish", name)
		return nil
	}
}

func TestOnline_TwoRoundMatch(t *testing.T) {
	pa, pb := freePort(t), freePort(t)

	// alice sets "cat" then guesses; bob guesses then sets "dog".
	aliceUI, aliceOut := scripted("cat\ny\nd\no\ng\nn\n")
	bobUI, bobOut := scripted("c\na\nt\ny\ndog\nn\n")

	alice := buildOnlineMode(t, onlineConfig("setter", "alice", pa, pb), aliceUI)
	bob := buildOnlineMode(t, onlineConfig("guesser", "bob", pb, pa), bobUI)

	aliceDone := runAsync(alice)
	bobDone := runAsync(bob)

	if err := wait(t, "alice", aliceDone); err != nil {
		t.Errorf("alice: %v", err)
	}
	if err := wait(t, "bob", bobDone); err != nil {
		t.Errorf("bob: %v", err)
	}

	as, bs := alice.Player.Stats, bob.Player.Stats
	if as.Wins != 1 || as.Losses != 1 || bs.Wins != 1 || bs.Losses != 1 {
		t.Errorf("alice %d/%d, bob %d/%d, want 1/1 each", as.Wins, as.Losses, bs.Wins, bs.Losses)
	}
	if fmt.Sprint(as.OpponentGuessedWords) != "[cat]" || fmt.Sprint(as.GuessedWords) != "[dog]" {
		t.Errorf("alice words: opponent guessed %v, guessed %v", as.OpponentGuessedWords, as.GuessedWords)
	}
	if fmt.Sprint(bs.GuessedWords) != "[cat]" || fmt.Sprint(bs.OpponentGuessedWords) != "[dog]" {
		t.Errorf("bob words: guessed %v, opponent guessed %v", bs.GuessedWords, bs.OpponentGuessedWords)
	}
	if alice.Player.Opponent != "bob" || bob.Player.Opponent != "alice" {
		t.Errorf("opponents = %q/%q", alice.Player.Opponent, bob.Player.Opponent)
	}

	a := aliceOut.String()
	for _, want := range []string{
		"You are playing against bob.",
		"bob guessed your word, cat",
		"bob's word was dog",
		"bob guessed these words [cat]",
		"WHOoOaA!! it was a tie...",
	} {
		if !strings.Contains(a, want) {
			t.Errorf("alice output missing %q:\n%s", want, a)
		}
	}
	b := bobOut.String()
	for _, want := range []string{
		"You are playing against alice.",
		"alice's word was cat",
		"alice guessed your word, dog",
	} {
		if !strings.Contains(b, want) {
			t.Errorf("bob output missing %q:\n%s", want, b)
		}
	}

	if alice.Metrics.HandshakeAttempts() < 2 || alice.Metrics.MessagesIn() == 0 {
		t.Errorf("alice metrics not recorded: %s", alice.Metrics.JSON())
	}
	if alice.Metrics.ActiveConnections() != 0 || bob.Metrics.ActiveConnections() != 0 {
		t.Error("connections left open")
	}
}

func TestOnline_OpponentDisconnects(t *testing.T) {
	pa, pb := freePort(t), freePort(t)

	in, feed := io.Pipe()
	defer feed.Close()
	var out bytes.Buffer
	bobUI := console.NewTerminal(in, &out)
	bob := buildOnlineMode(t, onlineConfig("guesser", "bob", pb, pa), bobUI)

	setterGone := make(chan error, 1)
	go func() { setterGone <- hitAndRun(pa, pb, "cat") }()

	bobDone := runAsync(bob)
	if err := <-setterGone; err != nil {
		t.Fatalf("fake setter: %v", err)
	}
	go feed.Write([]byte("c\n"))

	if err := wait(t, "bob", bobDone); err != nil {
		t.Fatalf("Run: %v, want nil after a disconnect", err)
	}
	s := out.String()
	for _, want := range []string{"alice has disconnected! O~O", "You had 0 wins, and 0 losses"} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q:\n%s", want, s)
		}
	}
}

func TestOnline_HandshakeFailure(t *testing.T) {
	pa := freePort(t)
	cfg := onlineConfig("setter", "alice", pa, freePort(t))
	cfg.HandshakeTimeout = 100 * time.Millisecond
	ui, out := scripted("n\n")
	alice := buildOnlineMode(t, cfg, ui)

	err := wait(t, "alice", runAsync(alice))
	if !errors.Is(err, ncerr.ErrHandshakeFailed) {
		t.Fatalf("err = %v, want ErrHandshakeFailed", err)
	}
	s := out.String()
	for _, want := range []string{"O~O Sorry, player 2 took too long! Try again?", "You had 0 wins, and 0 losses"} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q:\n%s", want, s)
		}
	}
}

func TestOnline_EmptySecretAskedAgain(t *testing.T) {
	pa, pb := freePort(t), freePort(t)

	aliceUI, aliceOut := scripted("\nox\nn\n")
	bobUI, _ := scripted("ox\nn\n")
	alice := buildOnlineMode(t, onlineConfig("setter", "alice", pa, pb), aliceUI)
	bob := buildOnlineMode(t, onlineConfig("guesser", "bob", pb, pa), bobUI)

	aliceDone, bobDone := runAsync(alice), runAsync(bob)
	if err := wait(t, "alice", aliceDone); err != nil {
		t.Errorf("alice: %v", err)
	}
	if err := wait(t, "bob", bobDone); err != nil {
		t.Errorf("bob: %v", err)
	}

	if !strings.Contains(aliceOut.String(), "You gotta pick a word...") {
		t.Errorf("empty secret not refused:\n%s", aliceOut.String())
	}
	if fmt.Sprint(alice.Player.Stats.OpponentGuessedWords) != "[ox]" {
		t.Errorf("OpponentGuessedWords = %v", alice.Player.Stats.OpponentGuessedWords)
	}
}

func TestOnline_OversizedSecretAskedAgain(t *testing.T) {
	pa, pb := freePort(t), freePort(t)

	cfg := onlineConfig("setter", "alice", pa, pb)
	cfg.MaxMessage = len("alice")
	aliceUI, aliceOut := scripted("elephant\nox\nn\n")
	bobUI, _ := scripted("ox\nn\n")
	alice := buildOnlineMode(t, cfg, aliceUI)
	bob := buildOnlineMode(t, onlineConfig("guesser", "bob", pb, pa), bobUI)

	aliceDone, bobDone := runAsync(alice), runAsync(bob)
	if err := wait(t, "alice", aliceDone); err != nil {
		t.Errorf("alice: %v", err)
	}
	if err := wait(t, "bob", bobDone); err != nil {
		t.Errorf("bob: %v", err)
	}

	if !strings.Contains(aliceOut.String(), msgTooLong) {
		t.Errorf("oversized secret not refused:\n%s", aliceOut.String())
	}
	if fmt.Sprint(bob.Player.Stats.GuessedWords) != "[ox]" {
		t.Errorf("bob guessed %v, want [ox]", bob.Player.Stats.GuessedWords)
	}
}

func TestOnline_MetricsLineCarriesMatchID(t *testing.T) {
	var logs bytes.Buffer
	logger := util.NewLogger(int(util.LogDebug))
	logger.SetOutput(&logs)

	cfg := onlineConfig("setter", "alice", freePort(t), freePort(t))
	cfg.HandshakeTimeout = 100 * time.Millisecond
	ui, _ := scripted("n\n")
	mode, err := Build(cfg, ui, logger)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	alice := mode.(*OnlineMode)

	wait(t, "alice", runAsync(alice))

	want := fmt.Sprintf("match %s metrics: {", alice.MatchID)
	if !strings.Contains(logs.String(), want) {
		t.Errorf("logs missing %q:\n%s", want, logs.String())
	}
}

// hitAndRun is a word-setter that completes the handshake, sends its
// word and leaves.
func hitAndRun(port, peerPort int, word string) error {
	ctx := context.Background()
	fake := transport.New(transport.Options{BindHost: "127.0.0.1", Port: port, IOTimeout: 2 * time.Second})
	defer fake.Close()

	if _, err := fake.ListenAndReply(ctx, "alice", 5*time.Second); err != nil {
		return err
	}
	return fake.SendOnce(ctx, util.FormatAddr("127.0.0.1", peerPort), word)
}
