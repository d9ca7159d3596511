package game

import "fmt"

// foundTriman is the search-phase hit condition: a 3 on either die, or a
// total of 3.
func foundTriman(d1, d2 int) bool {
	return d1 == 3 || d2 == 3 || d1+d2 == 3
}

// Start begins a game from the lobby. Starting with fewer than two players
// is silently refused, not an error.
func Start(s State) State {
	if len(s.Players) < 2 {
		return s
	}
	s = Reset(s)
	s.HasStarted = true
	return s
}

// Reset returns the game to its initial values. The roster survives a
// reset; everything else, including the started flag, is cleared.
func Reset(s State) State {
	out := NewState()
	out.Players = append([]Player(nil), s.Players...)
	return out
}

// ApplyRoll is the deterministic turn transition. Every replica applies it
// to the same announced dice values and converges on the same state; the
// announcer's own derived state is never trusted.
func ApplyRoll(s State, d1, d2 int) State {
	n := len(s.Players)
	if !s.HasStarted || n < 2 {
		return s
	}
	s = s.Clone()
	s.Dice = []int{d1, d2}

	switch s.Phase {
	case PhaseSearch:
		current := s.Players[s.CurrentIndex].Name
		if foundTriman(d1, d2) {
			ix := s.CurrentIndex
			s.TrimanIndex = &ix
			s.RoundOrder = RoundOrder(ix, n)
			s.RoundCursor = 0
			s.CurrentIndex = s.RoundOrder[0]
			s.Phase = PhasePlay
			s.Messages = []string{fmt.Sprintf("%s becomes the triman and drinks 1 sip", current)}
		} else {
			s.CurrentIndex = (s.CurrentIndex + 1) % n
			s.Messages = []string{fmt.Sprintf("%s rolled %d, no 3, next player", current, d1+d2)}
		}

	case PhasePlay:
		s.Messages = Evaluate(d1, d2, s.CurrentIndex, *s.TrimanIndex, s.Players)
		if !IsNoRule(s.Messages) {
			// A rule fired: the current player keeps the dice.
			return s
		}
		s.RoundCursor++
		if s.RoundCursor < len(s.RoundOrder) {
			s.CurrentIndex = s.RoundOrder[s.RoundCursor]
		} else {
			// Round exhausted: the triman is released and the seat after
			// the old triman opens the next search.
			next := (*s.TrimanIndex + 1) % n
			s.TrimanIndex = nil
			s.RoundOrder = nil
			s.RoundCursor = 0
			s.CurrentIndex = next
			s.Phase = PhaseSearch
		}
	}
	return s
}
