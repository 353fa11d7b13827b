// Package allocator converts usage proportions into concrete quantities.
//
// The largest-remainder method is the one rounding policy used everywhere:
// round each exact share half-up to the target precision, then move the
// leftover one smallest unit at a time to the entries with the largest
// fractional remainder until the total matches the requested quantity
// exactly. The exact-sum invariant
//
//	sum(allocated) == requested_total
//
// holds for every result, never off by rounding.
package allocator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/domain/usage"
)

// ErrInvalidInput marks malformed allocation arguments: empty proportions,
// negative totals or negative shares. These are caller mistakes, rejected
// before any computation.
var ErrInvalidInput = errors.New("invalid allocation input")

// Entry is one department's final allocation.
type Entry struct {
	Department   string
	SharePercent float64
	Allocated    decimal.Decimal
}

// Options control precision and the optional minimum-floor policy.
type Options struct {
	// Precision is the number of decimal places to allocate at. Zero (the
	// default) allocates whole units.
	Precision int32

	// MinFloorPercent, when positive, guarantees every department at least
	// this percentage of the total, funded by clawing the shortfall back
	// proportionally from the departments above the floor. Zero disables the
	// policy.
	MinFloorPercent float64
}

// Allocate distributes total across the proportions. The proportions must be
// non-empty and already normalized (shares summing to 100); the caller is
// expected to have handled usage.ErrNoUsage before getting here.
func Allocate(proportions []usage.Proportion, total decimal.Decimal, opts Options) ([]Entry, error) {
	if len(proportions) == 0 {
		return nil, fmt.Errorf("%w: no proportions to allocate against", ErrInvalidInput)
	}
	if total.IsNegative() {
		return nil, fmt.Errorf("%w: total quantity cannot be negative", ErrInvalidInput)
	}
	if opts.Precision < 0 {
		return nil, fmt.Errorf("%w: precision cannot be negative", ErrInvalidInput)
	}
	if opts.MinFloorPercent < 0 || opts.MinFloorPercent > 100 {
		return nil, fmt.Errorf("%w: min floor percent must be in [0,100]", ErrInvalidInput)
	}
	for _, p := range proportions {
		if p.SharePercent < 0 {
			return nil, fmt.Errorf("%w: negative share for %q", ErrInvalidInput, p.Department)
		}
	}

	// Allocate against a total already at the target precision, otherwise no
	// integer-step correction can ever reach it.
	total = total.Round(opts.Precision)
	hundred := decimal.NewFromInt(100)

	exact := make([]decimal.Decimal, len(proportions))
	for i, p := range proportions {
		exact[i] = decimal.NewFromFloat(p.SharePercent).Mul(total).Div(hundred)
	}

	if opts.MinFloorPercent > 0 {
		exact = applyFloor(exact, total, opts.MinFloorPercent)
	}

	entries := make([]Entry, len(proportions))
	allocated := decimal.Zero
	for i, p := range proportions {
		rounded := exact[i].Round(opts.Precision)
		entries[i] = Entry{
			Department:   p.Department,
			SharePercent: p.SharePercent,
			Allocated:    rounded,
		}
		allocated = allocated.Add(rounded)
	}

	distributeRemainder(entries, exact, total.Sub(allocated), opts.Precision)

	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Allocated)
	}
	if !sum.Equal(total) {
		// A failed correction is a bug in this package, not a recoverable
		// condition. Fail loudly.
		panic(fmt.Sprintf("allocator: allocated %s != requested %s", sum, total))
	}

	return entries, nil
}

// applyFloor lifts every below-floor entry to the floor quantity and reduces
// the rest proportionally to cover the shortfall. If everything is below the
// floor the total is split equally instead.
func applyFloor(exact []decimal.Decimal, total decimal.Decimal, floorPercent float64) []decimal.Decimal {
	minQty := decimal.NewFromFloat(floorPercent).Mul(total).Div(decimal.NewFromInt(100))

	var below, above []int
	for i, q := range exact {
		if q.LessThan(minQty) {
			below = append(below, i)
		} else {
			above = append(above, i)
		}
	}

	if len(below) == 0 {
		return exact
	}

	out := make([]decimal.Decimal, len(exact))
	copy(out, exact)

	if len(above) == 0 {
		// Every department is under the floor: equal split.
		share := total.Div(decimal.NewFromInt(int64(len(exact))))
		for i := range out {
			out[i] = share
		}
		return out
	}

	needed := decimal.Zero
	for _, i := range below {
		needed = needed.Add(minQty.Sub(out[i]))
		out[i] = minQty
	}

	aboveTotal := decimal.Zero
	for _, i := range above {
		aboveTotal = aboveTotal.Add(out[i])
	}

	for _, i := range above {
		cut := needed.Mul(out[i]).Div(aboveTotal)
		out[i] = out[i].Sub(cut)
		if out[i].IsNegative() {
			out[i] = decimal.Zero
		}
	}

	return out
}

// distributeRemainder absorbs the rounding leftover one smallest unit at a
// time. A positive remainder goes to the largest fractional parts first, a
// negative one comes out of the smallest; ties keep the input order, which
// is descending by share.
func distributeRemainder(entries []Entry, exact []decimal.Decimal, remainder decimal.Decimal, precision int32) {
	if remainder.IsZero() {
		return
	}

	step := decimal.New(1, -precision)
	units := remainder.Abs().Div(step).IntPart()

	frac := make([]decimal.Decimal, len(exact))
	for i, q := range exact {
		frac[i] = q.Sub(q.RoundFloor(precision))
	}

	idx := make([]int, len(entries))
	for i := range idx {
		idx[i] = i
	}
	if remainder.IsPositive() {
		sort.SliceStable(idx, func(a, b int) bool {
			return frac[idx[a]].GreaterThan(frac[idx[b]])
		})
	} else {
		sort.SliceStable(idx, func(a, b int) bool {
			return frac[idx[a]].LessThan(frac[idx[b]])
		})
		step = step.Neg()
	}

	for k := int64(0); k < units; k++ {
		i := idx[k%int64(len(idx))]
		if step.IsNegative() && entries[i].Allocated.Add(step).IsNegative() {
			// Never push an allocation below zero; take the unit from the
			// next candidate instead.
			units++
			continue
		}
		entries[i].Allocated = entries[i].Allocated.Add(step)
	}
}
