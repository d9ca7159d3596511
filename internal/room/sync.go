package room

import (
	"encoding/json"
	"fmt"

	"github.com/xonyis/triman/internal/game"
)

// Handle applies one incoming room event to the replica. Payloads carry the
// announcer's inputs (roll values, roster edits), never derived state; each
// replica re-runs the same transition locally. Decode failures are reported
// so the transport binding can log and drop the event.
func (c *Client) Handle(event string, data json.RawMessage) error {
	switch event {
	case EventPlayerAdd:
		var p PlayerPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("%s: %w", event, err)
		}
		c.onPlayerAdd(p)

	case EventPlayerRemove:
		var p PlayerPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("%s: %w", event, err)
		}
		c.onPlayerRemove(p.ID)

	case EventPlayerUpdate:
		var p PlayerPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("%s: %w", event, err)
		}
		c.onPlayerUpdate(p)

	case EventGameStart:
		c.mu.Lock()
		c.state = game.Start(c.state)
		c.mu.Unlock()

	case EventGameReset:
		c.mu.Lock()
		c.state = game.Reset(c.state)
		c.rollPending = false
		c.mu.Unlock()

	case EventDiceRoll:
		var r RollPayload
		if err := json.Unmarshal(data, &r); err != nil {
			return fmt.Errorf("%s: %w", event, err)
		}
		c.scheduleRoll(r.D1, r.D2)

	case EventStateRequest:
		var req StateRequestPayload
		if err := json.Unmarshal(data, &req); err != nil {
			return fmt.Errorf("%s: %w", event, err)
		}
		c.onStateRequest(req.RequesterID)

	case EventStateUpdate:
		var upd StateUpdatePayload
		if err := json.Unmarshal(data, &upd); err != nil {
			return fmt.Errorf("%s: %w", event, err)
		}
		c.mergeSnapshot(upd.State)
	}
	return nil
}

func (c *Client) onPlayerAdd(p PlayerPayload) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// The roster is frozen while a game runs; a lobby edit that lost the
	// cross-sender race against game:start is dropped, not applied to a
	// running round. Ids are globally unique, so a duplicate is a replay.
	if p.ID == "" || c.state.HasStarted || c.state.SeatOf(p.ID) != -1 {
		return
	}
	c.state.Players = append(c.state.Players, game.Player{ID: p.ID, Name: p.Name})
}

func (c *Client) onPlayerRemove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Same freeze as onPlayerAdd: shrinking the roster mid-round would
	// leave the triman seat and round order pointing past it.
	if c.state.HasStarted {
		return
	}
	c.dropSeatLocked(id)
	// A peer removing our seat releases the claim, but only removals made on
	// this device join the suppression set.
	if id == c.localID {
		c.localID = ""
	}
}

func (c *Client) onPlayerUpdate(p PlayerPayload) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seat := c.state.SeatOf(p.ID); seat != -1 && p.Name != "" {
		c.state.Players[seat].Name = p.Name
	}
}

// onStateRequest answers a peer's bootstrap request with a full snapshot,
// addressed to the requester only.
func (c *Client) onStateRequest(requesterID string) {
	c.mu.Lock()
	if requesterID == "" || requesterID == c.selfID {
		c.mu.Unlock()
		return
	}
	snap := c.state.Clone()
	c.mu.Unlock()

	c.emit.Emit(EventStateUpdate, StateUpdatePayload{To: requesterID, State: snap})
}

// mergeSnapshot adopts an incoming full-state snapshot. Scalar fields are
// copied verbatim; the roster keeps the locally claimed player even when the
// snapshot predates a very recent local add. With no current claim, a
// remembered identity from a prior session is re-claimed when it still has a
// seat in the merged roster.
func (c *Client) mergeSnapshot(in game.State) {
	in = game.Normalize(in)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.localID != "" && !c.removed[c.localID] && in.SeatOf(c.localID) == -1 {
		if seat := c.state.SeatOf(c.localID); seat != -1 {
			in.Players = append(in.Players, c.state.Players[seat])
			in = game.Normalize(in)
		}
	}
	c.state = in

	if c.localID != "" || c.store == nil {
		return
	}
	remembered, ok := c.store.Lookup(c.room)
	if !ok || c.removed[remembered.ID] {
		return
	}
	if c.state.SeatOf(remembered.ID) != -1 {
		c.localID = remembered.ID
		return
	}
	// The seat may have been re-added under a fresh id; fall back to the
	// remembered name.
	for _, p := range c.state.Players {
		if p.Name == remembered.Name {
			c.localID = p.ID
			c.rememberLocked(p)
			return
		}
	}
}
