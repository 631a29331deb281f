package tally

import (
	"math"

	"github.com/veilvote/veilvote/pkg/math/curve"
)

// BabyStepGiantStep solves bounded discrete logarithms n from n⋅G with
// O(√max) precomputation and O(√max) additions per query. The table is
// read-only after construction and safe for concurrent use; rebuild it when
// the bound changes.
type BabyStepGiantStep struct {
	group curve.Curve

	// table maps the encoding of j⋅G to j, for j < stride.
	table  map[string]uint64
	stride uint64

	// giant = −stride⋅G
	giant curve.Point
	max   uint64
}

// NewBabyStepGiantStep builds the lookup table for counts up to max, which
// must be at least one.
func NewBabyStepGiantStep(group curve.Curve, max uint64) *BabyStepGiantStep {
	if max < 1 {
		panic("tally: discrete log bound must be at least one")
	}
	stride := uint64(math.Sqrt(float64(max))) + 1

	table := make(map[string]uint64, stride)
	cur := group.NewPoint()
	base := group.NewBasePoint()
	for j := uint64(0); j < stride; j++ {
		key, err := cur.MarshalBinary()
		if err != nil {
			panic("tally: failed to marshal table point: " + err.Error())
		}
		table[string(key)] = j
		cur = cur.Add(base)
	}

	giant := group.NewScalar().SetUint64(stride).ActOnBase().Negate()
	return &BabyStepGiantStep{
		group:  group,
		table:  table,
		stride: stride,
		giant:  giant,
		max:    max,
	}
}

// Max returns the search bound.
func (t *BabyStepGiantStep) Max() uint64 {
	return t.max
}

// DiscreteLog returns n such that p = n⋅G, or ErrMaxLogExceeded when
// n would exceed the bound.
func (t *BabyStepGiantStep) DiscreteLog(p curve.Point) (uint64, error) {
	x := t.group.NewPoint().Set(p)
	for i := uint64(0); i*t.stride <= t.max; i++ {
		key, err := x.MarshalBinary()
		if err != nil {
			return 0, err
		}
		if j, ok := t.table[string(key)]; ok {
			n := i*t.stride + j
			if n > t.max {
				return 0, ErrMaxLogExceeded
			}
			return n, nil
		}
		x = x.Add(t.giant)
	}
	return 0, ErrMaxLogExceeded
}
