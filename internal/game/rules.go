package game

import "fmt"

// NoRuleMessage is the sentinel outcome for a roll that triggers nothing.
// It doubles as the turn-advance signal in the play phase: any other outcome
// means the current player keeps the dice and rolls again.
const NoRuleMessage = "no rule applies, next player"

// Evaluate runs the play-phase rules against a roll and returns the outcome
// messages in rule order. A single roll can trigger several rules; names are
// frozen at evaluation time.
func Evaluate(d1, d2, currentSeat, trimanSeat int, players []Player) []string {
	n := len(players)
	total := d1 + d2
	current := players[currentSeat].Name
	triman := players[trimanSeat].Name

	var out []string

	// Rule of 3: each visible 3 (either die, or the sum) is one sip for
	// the triman.
	threes := 0
	if d1 == 3 {
		threes++
	}
	if d2 == 3 {
		threes++
	}
	if total == 3 {
		threes++
	}
	if threes > 0 {
		out = append(out, fmt.Sprintf("%s drinks %s", triman, sips(threes)))
	}

	if d1 == d2 {
		out = append(out, fmt.Sprintf("double %d, %s distributes %s", d1, current, sips(d1)))
	}

	switch total {
	case 9:
		left := players[(currentSeat-1+n)%n].Name
		out = append(out, fmt.Sprintf("%s (left of %s) drinks %s", left, current, sips(1)))
	case 10:
		out = append(out, fmt.Sprintf("%s drinks %s", current, sips(1)))
	case 11:
		right := players[(currentSeat+1)%n].Name
		out = append(out, fmt.Sprintf("%s (right of %s) drinks %s", right, current, sips(1)))
	}

	if len(out) == 0 {
		return []string{NoRuleMessage}
	}
	return out
}

// IsNoRule reports whether an outcome set is the sentinel, i.e. the roll
// advances the turn.
func IsNoRule(messages []string) bool {
	return len(messages) == 1 && messages[0] == NoRuleMessage
}

func sips(n int) string {
	if n == 1 {
		return "1 sip"
	}
	return fmt.Sprintf("%d sips", n)
}
