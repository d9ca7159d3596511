package room

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xonyis/triman/internal/game"
	"github.com/xonyis/triman/internal/identity"
)

// DefaultRevealDelay is the presentation delay between a roll announcement
// and its state effect becoming visible, reserved for the dice animation.
// The transition itself is computed eagerly; only its application waits.
const DefaultRevealDelay = time.Second

// Client is one device's replica of a room. All mutations are local-first:
// they apply synchronously, then the corresponding event is announced.
// Refused preconditions (not your turn, game not started, seat already
// claimed) are silent no-ops, never errors.
type Client struct {
	room string
	emit Emitter

	mu          sync.Mutex
	selfID      string // transport identity, set on Connect
	state       game.State
	localID     string          // id of the player this device claims, "" if none
	removed     map[string]bool // ids removed on this device; never re-added here
	store       *identity.Store
	roll        func() (int, int)
	revealDelay time.Duration
	rollPending bool
}

func NewClient(roomID string, emit Emitter) *Client {
	return &Client{
		room:        roomID,
		emit:        emit,
		state:       game.NewState(),
		removed:     make(map[string]bool),
		roll:        game.Roll,
		revealDelay: DefaultRevealDelay,
	}
}

// SetIdentity attaches a persistent identity store, enabling claim recovery
// across restarts of the same device.
func (c *Client) SetIdentity(s *identity.Store) { c.store = s }

// SetRevealDelay overrides the presentation delay; zero applies rolls
// immediately.
func (c *Client) SetRevealDelay(d time.Duration) { c.revealDelay = d }

// SetRoll overrides the dice source.
func (c *Client) SetRoll(roll func() (int, int)) { c.roll = roll }

// Connect announces presence after the transport has joined the room.
// A remembered player is re-added unless it was explicitly removed on this
// device, then a state request tagged with the transport identity goes out
// so any already-connected peer can answer with a snapshot.
func (c *Client) Connect(selfID string) {
	var readd *game.Player

	c.mu.Lock()
	c.selfID = selfID
	if c.store != nil && c.localID == "" {
		if p, ok := c.store.Lookup(c.room); ok && !c.removed[p.ID] {
			if c.state.SeatOf(p.ID) == -1 {
				c.state.Players = append(c.state.Players, p)
			}
			c.localID = p.ID
			readd = &p
		}
	}
	c.mu.Unlock()

	if readd != nil {
		c.emit.Emit(EventPlayerAdd, PlayerPayload{ID: readd.ID, Name: readd.Name})
	}
	c.emit.Emit(EventStateRequest, StateRequestPayload{RequesterID: selfID})
}

// AddPlayer creates and claims a seat. One seat per device: refused while a
// local player is already claimed, and refused once the game has started.
func (c *Client) AddPlayer(name string) (game.Player, bool) {
	c.mu.Lock()
	if name == "" || c.localID != "" || c.state.HasStarted {
		c.mu.Unlock()
		return game.Player{}, false
	}
	p := game.Player{ID: uuid.NewString(), Name: name}
	c.state.Players = append(c.state.Players, p)
	c.localID = p.ID
	c.rememberLocked(p)
	c.mu.Unlock()

	c.emit.Emit(EventPlayerAdd, PlayerPayload{ID: p.ID, Name: p.Name})
	return p, true
}

// RemovePlayer removes the device's own claimed seat, lobby only. The id
// joins the local suppression set so a later reconnect does not resurrect it.
func (c *Client) RemovePlayer(id string) bool {
	c.mu.Lock()
	if id == "" || id != c.localID || c.state.HasStarted {
		c.mu.Unlock()
		return false
	}
	c.dropSeatLocked(id)
	c.removed[id] = true
	c.localID = ""
	if c.store != nil {
		_ = c.store.Forget(c.room)
	}
	c.mu.Unlock()

	c.emit.Emit(EventPlayerRemove, PlayerPayload{ID: id})
	return true
}

// RenamePlayer renames the device's own claimed seat, lobby or in-game.
func (c *Client) RenamePlayer(id, name string) bool {
	c.mu.Lock()
	seat := c.state.SeatOf(id)
	if name == "" || id != c.localID || seat == -1 {
		c.mu.Unlock()
		return false
	}
	c.state.Players[seat].Name = name
	c.rememberLocked(c.state.Players[seat])
	c.mu.Unlock()

	c.emit.Emit(EventPlayerUpdate, PlayerPayload{ID: id, Name: name})
	return true
}

// Claim attaches local ownership to an existing seat, used for device
// handoff. Ownership is advisory and purely local, so nothing is announced.
func (c *Client) Claim(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	seat := c.state.SeatOf(id)
	if c.localID != "" || seat == -1 {
		return false
	}
	c.localID = id
	delete(c.removed, id)
	c.rememberLocked(c.state.Players[seat])
	return true
}

func (c *Client) StartGame() bool {
	c.mu.Lock()
	if c.state.HasStarted || len(c.state.Players) < 2 {
		c.mu.Unlock()
		return false
	}
	c.state = game.Start(c.state)
	c.mu.Unlock()

	c.emit.Emit(EventGameStart, nil)
	return true
}

func (c *Client) ResetGame() {
	c.mu.Lock()
	c.state = game.Reset(c.state)
	c.rollPending = false
	c.mu.Unlock()

	c.emit.Emit(EventGameReset, nil)
}

// Roll rolls the dice for the device's own player. Refused unless the game
// is running, it is this player's turn, and no earlier roll is still waiting
// on its reveal delay.
func (c *Client) Roll() bool {
	c.mu.Lock()
	n := len(c.state.Players)
	ok := c.state.HasStarted && !c.rollPending && n >= 2 &&
		c.localID != "" && c.state.Players[c.state.CurrentIndex].ID == c.localID
	if !ok {
		c.mu.Unlock()
		return false
	}
	d1, d2 := c.roll()
	c.rollPending = true
	meta := c.localID
	c.mu.Unlock()

	c.emit.Emit(EventDiceRoll, RollPayload{D1: d1, D2: d2, Meta: meta})
	c.scheduleRoll(d1, d2)
	return true
}

// Snapshot returns a deep copy of the replica's current state.
func (c *Client) Snapshot() game.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// LocalPlayerID returns the id of the seat this device claims, or "".
func (c *Client) LocalPlayerID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.localID
}

// RollPending reports whether a roll's reveal delay is still running; the
// roll action stays disabled until it elapses.
func (c *Client) RollPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rollPending
}

// scheduleRoll applies the deterministic transition once the reveal delay
// elapses. The delay gates only visibility; with a zero delay the transition
// applies synchronously.
func (c *Client) scheduleRoll(d1, d2 int) {
	c.mu.Lock()
	c.rollPending = true
	c.mu.Unlock()

	apply := func() {
		c.mu.Lock()
		c.state = game.ApplyRoll(c.state, d1, d2)
		c.rollPending = false
		c.mu.Unlock()
	}
	if c.revealDelay <= 0 {
		apply()
		return
	}
	time.AfterFunc(c.revealDelay, apply)
}

func (c *Client) rememberLocked(p game.Player) {
	delete(c.removed, p.ID)
	if c.store != nil {
		_ = c.store.Remember(c.room, p)
	}
}

func (c *Client) dropSeatLocked(id string) {
	seat := c.state.SeatOf(id)
	if seat == -1 {
		return
	}
	c.state.Players = append(c.state.Players[:seat], c.state.Players[seat+1:]...)
	if c.state.CurrentIndex >= len(c.state.Players) {
		c.state.CurrentIndex = 0
	}
}
