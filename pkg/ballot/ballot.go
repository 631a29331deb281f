// Package ballot holds the voter-side vote representation: a choice among a
// fixed set of options encoded as a unit vector, and its encryption, one
// ciphertext per option.
package ballot

import "errors"

var (
	ErrTooFewOptions    = errors.New("ballot: a vote needs at least one option")
	ErrChoiceOutOfRange = errors.New("ballot: choice out of range")
	ErrByteStructure    = errors.New("ballot: invalid byte structure")
)

// Vote is a choice among options, represented as the unit vector with a one
// at the chosen index.
type Vote struct {
	options int
	choice  int
}

func NewVote(options, choice int) (Vote, error) {
	if options < 1 {
		return Vote{}, ErrTooFewOptions
	}
	if choice < 0 || choice >= options {
		return Vote{}, ErrChoiceOutOfRange
	}
	return Vote{options: options, choice: choice}, nil
}

func (v Vote) Options() int {
	return v.options
}

func (v Vote) Choice() int {
	return v.choice
}

// Bit returns the i-th coordinate of the unit vector.
func (v Vote) Bit(i int) bool {
	return i == v.choice
}

// IndexBits returns the binary representation of index over the given number
// of bits, most significant bit first.
func IndexBits(index, bits int) []bool {
	out := make([]bool, bits)
	for i := 0; i < bits; i++ {
		out[i] = (index>>(bits-1-i))&1 == 1
	}
	return out
}

// Padded is a vector padded with filler elements up to a power of two, the
// shape the unit-vector proof works over. Prover and verifier must pad
// identically.
type Padded[T any] struct {
	Elements []T
	original int
}

// Pad extends elements to the next power of two (at least two), appending
// values produced by filler.
func Pad[T any](elements []T, filler func() T) Padded[T] {
	original := len(elements)
	padded := nextPowerOfTwo(original)
	if padded < 2 {
		padded = 2
	}
	out := make([]T, padded)
	copy(out, elements)
	for i := original; i < padded; i++ {
		out[i] = filler()
	}
	return Padded[T]{Elements: out, original: original}
}

// Original returns the length before padding.
func (p Padded[T]) Original() int {
	return p.original
}

// Len returns the padded length.
func (p Padded[T]) Len() int {
	return len(p.Elements)
}

// Bits returns log₂ of the padded length.
func (p Padded[T]) Bits() int {
	bits := 0
	for n := len(p.Elements); n > 1; n >>= 1 {
		bits++
	}
	return bits
}

func nextPowerOfTwo(n int) int {
	v := 1
	for v < n {
		v <<= 1
	}
	return v
}
