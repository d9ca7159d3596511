// Package room implements the client side of the Triman protocol: a replica
// holding the full game state, mutating it local-first, announcing every
// mutation to the room, and reconciling with peers through full-state
// snapshots. The relay rebroadcasts events verbatim and holds no game state,
// so every replica applies the same deterministic transitions to converge.
package room

import (
	"github.com/xonyis/triman/internal/game"
)

// Wire event names, one per concern. These match the socket.io events of the
// browser client, so Go replicas and browsers can share a room.
const (
	EventRoomJoin     = "room:join"
	EventRoomJoined   = "room:joined"
	EventPlayerAdd    = "player:add"
	EventPlayerRemove = "player:remove"
	EventPlayerUpdate = "player:update"
	EventGameStart    = "game:start"
	EventGameReset    = "game:reset"
	EventDiceRoll     = "dice:roll"
	EventStateRequest = "state:request"
	EventStateUpdate  = "state:update"
)

// RelayedEvents are rebroadcast by the relay to everyone else in the room,
// payload untouched.
var RelayedEvents = []string{
	EventPlayerAdd,
	EventPlayerRemove,
	EventPlayerUpdate,
	EventGameStart,
	EventGameReset,
	EventDiceRoll,
	EventStateRequest,
}

type PlayerPayload struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type RollPayload struct {
	D1   int    `json:"d1"`
	D2   int    `json:"d2"`
	Meta string `json:"meta,omitempty"`
}

type StateRequestPayload struct {
	RequesterID string `json:"requesterId"`
}

// StateUpdatePayload is the only point-to-point message: the relay forwards
// it to the socket named by To instead of the whole room.
type StateUpdatePayload struct {
	To    string     `json:"to,omitempty"`
	State game.State `json:"state"`
}

// Emitter publishes one named event to the room channel. The transport is an
// external collaborator; tests wire replicas together with an in-memory bus.
type Emitter interface {
	Emit(event string, payload any)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(event string, payload any)

func (f EmitterFunc) Emit(event string, payload any) { f(event, payload) }
