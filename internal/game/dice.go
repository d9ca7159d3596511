package game

import "math/rand"

// Roll returns two independent uniform dice in [1,6]. There is no shared
// seed: every client rolls its own dice and announces the values, peers
// re-derive the transition from those values.
func Roll() (int, int) {
	return rand.Intn(6) + 1, rand.Intn(6) + 1
}
