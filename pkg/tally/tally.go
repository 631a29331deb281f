// Package tally accumulates encrypted votes homomorphically and decrypts the
// result from committee decrypt shares, without ever decrypting an
// individual ballot.
package tally

import (
	"fmt"
	"runtime"

	"github.com/veilvote/veilvote/pkg/ballot"
	"github.com/veilvote/veilvote/pkg/committee"
	"github.com/veilvote/veilvote/pkg/elgamal"
	"github.com/veilvote/veilvote/pkg/hash"
	"github.com/veilvote/veilvote/pkg/math/curve"
	zkdleq "github.com/veilvote/veilvote/pkg/zk/dleq"
	"golang.org/x/sync/errgroup"
)

// EncryptedTally is the running homomorphic sum of encrypted votes, one
// ciphertext per option.
type EncryptedTally struct {
	group curve.Curve
	sums  []*elgamal.Ciphertext
	votes int
}

func NewEncryptedTally(group curve.Curve, options int) (*EncryptedTally, error) {
	if options < 1 {
		return nil, ErrTooFewOptions
	}
	sums := make([]*elgamal.Ciphertext, options)
	for i := range sums {
		sums[i] = elgamal.NewCiphertext(group)
	}
	return &EncryptedTally{group: group, sums: sums}, nil
}

func (t *EncryptedTally) Options() int {
	return len(t.sums)
}

// Votes returns the number of accumulated ballots.
func (t *EncryptedTally) Votes() int {
	return t.votes
}

// Add accumulates a ballot scaled by the voter's weight. The ballot must
// already have passed unit-vector verification.
func (t *EncryptedTally) Add(vote ballot.EncryptedVote, weight uint64) error {
	if vote.Options() != len(t.sums) {
		return ErrCiphertextSize
	}
	w := t.group.NewScalar().SetUint64(weight)
	for i, ct := range vote {
		t.sums[i] = t.sums[i].Add(ct.Mul(w))
	}
	t.votes++
	return nil
}

// ProvenDecryptShare is one member's decryption contribution for a single
// option, with a proof that it used the key behind the member's public key.
type ProvenDecryptShare struct {
	// Share = sk⋅E1
	Share curve.Point
	Proof *zkdleq.Proof
}

// TallyDecryptShare is one member's decryption contribution for every
// option.
type TallyDecryptShare struct {
	Elements []ProvenDecryptShare
}

func (s TallyDecryptShare) Options() int {
	return len(s.Elements)
}

// PartialDecrypt produces this member's decrypt share for the current state
// of the tally.
func (t *EncryptedTally) PartialDecrypt(secret committee.MemberSecretKey) TallyDecryptShare {
	pk := secret.SecretKey.PublicKey()
	elements := make([]ProvenDecryptShare, len(t.sums))
	for i, ct := range t.sums {
		share := secret.SecretKey.Scalar.Act(ct.E1)
		h := shareTranscript(pk, ct, share)
		proof := zkdleq.NewProof(t.group, h, zkdleq.Public{
			Base: ct.E1,
			X:    pk.Point,
			Y:    share,
		}, zkdleq.Private{X: secret.SecretKey.Scalar})
		elements[i] = ProvenDecryptShare{Share: share, Proof: proof}
	}
	return TallyDecryptShare{Elements: elements}
}

// ValidateDecryptShares checks every member's share against its public key,
// in parallel across members. Validation only reads the tally and the
// shares, so it is safe to run concurrently with other readers.
func (t *EncryptedTally) ValidateDecryptShares(members []committee.MemberPublicKey, shares []TallyDecryptShare) (*ValidatedTally, error) {
	if len(members) != len(shares) {
		return nil, ErrShareCount
	}
	for _, s := range shares {
		if s.Options() != len(t.sums) {
			return nil, ErrShareCount
		}
	}

	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for m := range shares {
		m := m
		g.Go(func() error {
			pk := members[m].PublicKey
			for i, ct := range t.sums {
				element := shares[m].Elements[i]
				h := shareTranscript(pk, ct, element.Share)
				ok := element.Proof.Verify(h, zkdleq.Public{
					Base: ct.E1,
					X:    pk.Point,
					Y:    element.Share,
				})
				if !ok {
					return fmt.Errorf("%w: member %d, option %d", ErrDecryptionShare, m+1, i)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ValidatedTally{group: t.group, sums: t.sums, shares: shares}, nil
}

func shareTranscript(pk elgamal.PublicKey, ct *elgamal.Ciphertext, share curve.Point) *hash.Hash {
	h := hash.New()
	_ = h.WriteAny(pk.Point, ct, share)
	return h
}

// ValidatedTally is an encrypted tally together with decrypt shares that
// passed validation. What remains is a discrete logarithm search per option.
type ValidatedTally struct {
	group  curve.Curve
	sums   []*elgamal.Ciphertext
	shares []TallyDecryptShare
}

func (v *ValidatedTally) Options() int {
	return len(v.sums)
}

// decryptedPoints combines the shares into countᵢ⋅G for every option.
func (v *ValidatedTally) decryptedPoints() []curve.Point {
	points := make([]curve.Point, len(v.sums))
	for i, ct := range v.sums {
		combined := v.group.NewPoint()
		for _, share := range v.shares {
			combined = combined.Add(share.Elements[i].Share)
		}
		points[i] = ct.E2.Sub(combined)
	}
	return points
}

// Tally is the decrypted result: the number of votes per option.
type Tally struct {
	Votes []uint64
}

// VerifyTally checks published results against the validated tally by
// re-deriving each option's count point.
func (v *ValidatedTally) VerifyTally(t *Tally) error {
	if t == nil || len(t.Votes) != len(v.sums) {
		return ErrTallyMismatch
	}
	points := v.decryptedPoints()
	for i, votes := range t.Votes {
		expected := v.group.NewScalar().SetUint64(votes).ActOnBase()
		if !points[i].Equal(expected) {
			return fmt.Errorf("%w: option %d", ErrTallyMismatch, i)
		}
	}
	return nil
}
