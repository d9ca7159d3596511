package game

// Phase of the shared game: hunting for the triman, or unwinding the
// retribution round once one is found.
type Phase string

const (
	PhaseSearch Phase = "search"
	PhasePlay   Phase = "play"
)

type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// State is the unit of synchronization. Every client holds its own copy and
// applies the same deterministic transitions; a full State travels the wire
// only for bootstrap/catch-up snapshots.
type State struct {
	Players      []Player `json:"players"`
	HasStarted   bool     `json:"hasStarted"`
	Phase        Phase    `json:"phase"`
	TrimanIndex  *int     `json:"trimanIndex,omitempty"`
	CurrentIndex int      `json:"currentIndex"`
	RoundOrder   []int    `json:"roundOrder,omitempty"`
	RoundCursor  int      `json:"roundCursor"`
	Dice         []int    `json:"dice,omitempty"`
	Messages     []string `json:"messages,omitempty"`
}

func NewState() State {
	return State{
		Players: []Player{},
		Phase:   PhaseSearch,
	}
}

// Clone returns a deep copy, so a snapshot handed out over the wire or to a
// UI never aliases the replica's live state.
func (s State) Clone() State {
	out := s
	out.Players = append([]Player(nil), s.Players...)
	out.RoundOrder = append([]int(nil), s.RoundOrder...)
	out.Dice = append([]int(nil), s.Dice...)
	out.Messages = append([]string(nil), s.Messages...)
	if s.TrimanIndex != nil {
		ix := *s.TrimanIndex
		out.TrimanIndex = &ix
	}
	return out
}

// Normalize repairs a snapshot that arrived with missing or inconsistent
// fields, defaulting field by field to initial values rather than rejecting
// the whole snapshot.
func Normalize(s State) State {
	if s.Players == nil {
		s.Players = []Player{}
	}
	if s.Phase != PhaseSearch && s.Phase != PhasePlay {
		s.Phase = PhaseSearch
	}
	n := len(s.Players)
	if n == 0 {
		s.CurrentIndex = 0
	} else if s.CurrentIndex < 0 || s.CurrentIndex >= n {
		s.CurrentIndex = 0
	}
	if s.TrimanIndex != nil && (*s.TrimanIndex < 0 || *s.TrimanIndex >= n) {
		s.TrimanIndex = nil
	}
	// Phase and triman identity must agree.
	if s.TrimanIndex == nil {
		s.Phase = PhaseSearch
		s.RoundOrder = nil
		s.RoundCursor = 0
	} else {
		s.Phase = PhasePlay
		if len(s.RoundOrder) != n {
			s.RoundOrder = RoundOrder(*s.TrimanIndex, n)
		}
		if s.RoundCursor < 0 || s.RoundCursor >= len(s.RoundOrder) {
			s.RoundCursor = 0
		}
	}
	if len(s.Dice) != 2 {
		s.Dice = nil
	}
	return s
}

func (s State) SeatOf(id string) int {
	for i, p := range s.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}
