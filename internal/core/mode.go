// Package core is the orchestration layer.  It turns a completed Config
// into a runnable Mode: offline play against a word library, or a
// two-process match over the network.
//
// Architecture layers (bottom → top):
//
//	transport  →  session  →  game/stats/player  →  core  →  cmd (CLI)
//
// Build is the single dispatch point from configuration to mode.
package core

import (
	"context"

	"stickman/internal/console"
	"stickman/internal/game"
	"stickman/internal/stats"
)

// Mode is a complete way of playing.  Each mode owns its lifecycle from
// the first prompt to the final report.
type Mode interface {
	Run(ctx context.Context) error
}

// UI is the console plus the game rendering a mode needs.
// *console.Terminal implements it.
type UI interface {
	console.Console
	game.View
	Result(ev stats.Event, opponent string)
	Report(s *stats.Tracker, opponent string, online bool)
	// SecretPrompt reads an SSH passphrase or password.
	SecretPrompt(prompt string) ([]byte, error)
}

// Operator-facing text shared by the modes.
const (
	promptMode       = "Online or Offline?"
	promptRole       = "Are you player 1 or player 2?"
	promptName       = "What is your name?"
	promptPeer       = "What is your opponent's IP?:"
	promptDifficulty = "Choose your difficulty\nEasy, Normal, Hard, Brutal"
	promptSecret     = "Type a word for your opponent, no cheating!"
	promptGuess      = "Guess a letter:"
	promptRestart    = "Would you like to keep playing Y or N?"

	msgTooLong = "That's too long to send, try something shorter."
)
