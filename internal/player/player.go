// Package player models one side of a match.
package player

import (
	"stickman/internal/game"
	"stickman/internal/stats"
	"stickman/internal/transport"
)

// Participant is the local player: identity, current role, what is
// known about the opponent, the running record, and the network
// endpoint (nil offline).
type Participant struct {
	Name string
	Role game.Role

	Opponent     string // learned in the handshake
	OpponentAddr string // dialable "host:port"

	Stats    stats.Tracker
	Endpoint *transport.Endpoint
}

// New returns a participant.  ep may be nil for offline play.
func New(name string, role game.Role, ep *transport.Endpoint) *Participant {
	return &Participant{Name: name, Role: role, Endpoint: ep}
}

// Online reports whether the participant plays over the network.
func (p *Participant) Online() bool { return p.Role != game.Offline }

// SwapRole flips word-setter and guesser for the next round.
func (p *Participant) SwapRole() { p.Role = p.Role.Swap() }

// Record counts a finished round under the current role.
func (p *Participant) Record(outcome game.Outcome, word string) (stats.Event, error) {
	return p.Stats.Record(p.Role, outcome, word)
}

// Close releases the endpoint.
func (p *Participant) Close() error {
	if p.Endpoint == nil {
		return nil
	}
	return p.Endpoint.Close()
}
