package calculator

import (
	"sort"

	"github.com/shopspring/decimal"
)

// largestRemainder turns exact fractional shares into whole minor-unit
// counts summing to target. Each share is floored, then the leftover
// units (target minus the floor sum) are handed out one at a time to the
// shares with the largest fractional remainder. Ties go to the lower
// index, which keeps the result deterministic for identical input.
//
// The floor sum can also overshoot the target (percentage sums just
// above 100 but inside the tolerance); then units are taken back one at
// a time from the smallest fractional remainders instead, so the result
// sums to target in both directions.
func largestRemainder(exact []decimal.Decimal, target int64) []int64 {
	units := make([]int64, len(exact))
	fracs := make([]decimal.Decimal, len(exact))

	var floored int64
	for i, e := range exact {
		f := e.Floor()
		units[i] = f.IntPart()
		fracs[i] = e.Sub(f)
		floored += units[i]
	}

	leftover := target - floored
	if leftover == 0 || len(exact) == 0 {
		return units
	}
	step := int64(1)
	if leftover < 0 {
		step = -1
		leftover = -leftover
	}

	order := make([]int, len(exact))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		cmp := fracs[order[a]].Cmp(fracs[order[b]])
		if step > 0 {
			return cmp > 0
		}
		return cmp < 0
	})

	for i := int64(0); i < leftover; i++ {
		units[order[i%int64(len(order))]] += step
	}
	return units
}
