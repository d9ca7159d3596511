package game

import "testing"

func TestRoundOrderIsRotatedPermutation(t *testing.T) {
	for n := 2; n <= 8; n++ {
		for triman := 0; triman < n; triman++ {
			order := RoundOrder(triman, n)

			if len(order) != n {
				t.Fatalf("n=%d triman=%d: expected length %d, got %d", n, triman, n, len(order))
			}
			if order[len(order)-1] != triman {
				t.Fatalf("n=%d triman=%d: triman should be last, got %v", n, triman, order)
			}

			seen := make(map[int]bool)
			for _, seat := range order {
				if seat < 0 || seat >= n {
					t.Fatalf("n=%d triman=%d: seat %d out of range in %v", n, triman, seat, order)
				}
				if seen[seat] {
					t.Fatalf("n=%d triman=%d: duplicate seat %d in %v", n, triman, seat, order)
				}
				seen[seat] = true
			}

			if order[0] != (triman+1)%n {
				t.Fatalf("n=%d triman=%d: round should open at the seat after the triman, got %v", n, triman, order)
			}
		}
	}
}

func TestRoundOrderTwoPlayers(t *testing.T) {
	order := RoundOrder(0, 2)
	if order[0] != 1 || order[1] != 0 {
		t.Fatalf("expected [1 0], got %v", order)
	}
}
