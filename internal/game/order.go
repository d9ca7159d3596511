package game

// RoundOrder computes the seat traversal for a retribution round: every seat
// after the triman in table order, wrapping around, with the triman itself
// last. The result is a permutation of [0,n) of length n and is computed
// exactly once per triman discovery.
func RoundOrder(trimanSeat, playerCount int) []int {
	order := make([]int, 0, playerCount)
	for i := 1; i < playerCount; i++ {
		order = append(order, (trimanSeat+i)%playerCount)
	}
	return append(order, trimanSeat)
}
