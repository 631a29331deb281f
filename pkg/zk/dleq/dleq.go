// Package zkdleq proves equality of the discrete logarithms of two points
// with respect to two bases, without revealing it. It is used to show that a
// tally decryption share was produced with the key behind a member's public
// key.
package zkdleq

import (
	"crypto/rand"
	"errors"

	"github.com/veilvote/veilvote/pkg/hash"
	"github.com/veilvote/veilvote/pkg/math/curve"
	"github.com/veilvote/veilvote/pkg/math/sample"
)

type Public struct {
	// Base = H, the second base; the first base is the group generator G.
	Base curve.Point

	// X = x⋅G
	X curve.Point

	// Y = x⋅H
	Y curve.Point
}

type Private struct {
	// X is the shared discrete logarithm.
	X curve.Scalar
}

// Proof is the compressed form of the sigma protocol: the challenge and the
// response, from which the verifier recomputes both first-move commitments.
type Proof struct {
	group curve.Curve

	// E is the Fiat-Shamir challenge.
	E curve.Scalar

	// Z = w + e⋅x (mod q)
	Z curve.Scalar
}

func (p *Proof) IsValid() bool {
	if p == nil || p.E == nil || p.Z == nil {
		return false
	}
	return true
}

func NewProof(group curve.Curve, hash *hash.Hash, public Public, private Private) *Proof {
	w := sample.Scalar(rand.Reader, group)
	a1 := w.ActOnBase()      // a1 = w⋅G
	a2 := w.Act(public.Base) // a2 = w⋅H

	e := challenge(hash, group, public, a1, a2)

	return &Proof{
		group: group,
		E:     e,
		Z:     group.NewScalar().Set(e).Mul(private.X).Add(w), // Z = w+ex (mod q)
	}
}

func (p *Proof) Verify(hash *hash.Hash, public Public) bool {
	if !p.IsValid() {
		return false
	}

	a1 := p.Z.ActOnBase().Sub(p.E.Act(public.X))      // a1 = z⋅G−e⋅X
	a2 := p.Z.Act(public.Base).Sub(p.E.Act(public.Y)) // a2 = z⋅H−e⋅Y

	e := challenge(hash, p.group, public, a1, a2)
	return e.Equal(p.E)
}

func challenge(hash *hash.Hash, group curve.Curve, public Public, a1, a2 curve.Point) curve.Scalar {
	_ = hash.WriteAny(public.Base, public.X, public.Y, a1, a2)
	return sample.Scalar(hash.Digest(), group)
}

func Empty(group curve.Curve) *Proof {
	return &Proof{
		group: group,
		E:     group.NewScalar(),
		Z:     group.NewScalar(),
	}
}

// Size returns the length of a marshalled proof for the group.
func Size(group curve.Curve) int {
	return 2 * group.ScalarBytes()
}

func (p *Proof) MarshalBinary() ([]byte, error) {
	e, err := p.E.MarshalBinary()
	if err != nil {
		return nil, err
	}
	z, err := p.Z.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(e, z...), nil
}

func (p *Proof) UnmarshalBinary(data []byte) error {
	scalarBytes := p.group.ScalarBytes()
	if len(data) != 2*scalarBytes {
		return errors.New("zkdleq: invalid proof encoding")
	}
	if err := p.E.UnmarshalBinary(data[:scalarBytes]); err != nil {
		return err
	}
	return p.Z.UnmarshalBinary(data[scalarBytes:])
}
