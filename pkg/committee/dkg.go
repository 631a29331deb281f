package committee

import (
	"errors"
	"fmt"
	"io"

	"github.com/veilvote/veilvote/pkg/elgamal"
	"github.com/veilvote/veilvote/pkg/math/curve"
	"github.com/veilvote/veilvote/pkg/math/polynomial"
	"github.com/veilvote/veilvote/pkg/pedersen"
)

var (
	ErrInvalidThreshold     = errors.New("committee: threshold must satisfy n/2 < t <= n")
	ErrInvalidIndex         = errors.New("committee: member index out of range")
	ErrShareDecryption      = errors.New("committee: failed to decrypt an indexed share")
	ErrScalarOutOfBounds    = errors.New("committee: decrypted share is not a valid scalar")
	ErrShareValidity        = errors.New("committee: share does not match the committed coefficients")
	ErrTooManyMisbehaving   = errors.New("committee: misbehaving parties reached the threshold")
	ErrMisbehaviourDetected = errors.New("committee: misbehaving parties detected")
)

// EncryptedShares carries one member's secret sharing evaluations for a
// single recipient, sealed to that recipient's communication key.
type EncryptedShares struct {
	// Recipient is the 1-based index of the member the shares are for.
	Recipient int
	// VoteShare encrypts the share polynomial evaluated at Recipient.
	VoteShare *elgamal.HybridCiphertext
	// BlindingShare encrypts the blinding polynomial evaluated at Recipient.
	BlindingShare *elgamal.HybridCiphertext
}

// MemberFetchedState is what one member fetched from another member's
// phase-one broadcast: the shares addressed to it, and the sender's
// committed coefficients.
type MemberFetchedState struct {
	// Sender is the 1-based index of the member that produced the shares.
	Sender                int
	Shares                EncryptedShares
	CommittedCoefficients []curve.Point
}

// Misbehaviour records a member whose phase-one contribution failed
// verification.
type Misbehaviour struct {
	// Member is the 1-based index of the accused sender.
	Member int
	// Reason is the check that failed.
	Reason error
}

// MemberState1 is a committee member after the first DKG phase: it has
// sampled its share and blinding polynomials, committed to their
// coefficients, and sealed evaluations for every member.
type MemberState1 struct {
	ck        pedersen.CommitmentKey
	index     int
	threshold int
	members   int

	secret MemberSecretKey
	public MemberPublicKey

	committedCoefficients []curve.Point
	shares                []EncryptedShares
}

// NewMemberState runs the first DKG phase for the member at the given
// 1-based index. All members must use the same commitment key and the same
// ordering of communication keys. The threshold bounds tolerated
// misbehaviour and must leave an honest majority.
func NewMemberState(rand io.Reader, ck pedersen.CommitmentKey, threshold, index int, commPKs []MemberCommunicationPublicKey) (*MemberState1, error) {
	group := ck.Group()
	n := len(commPKs)
	if n == 0 {
		return nil, ErrNoMembers
	}
	if threshold < 1 || threshold > n || 2*threshold <= n {
		return nil, ErrInvalidThreshold
	}
	if index < 1 || index > n {
		return nil, ErrInvalidIndex
	}

	sharePoly := polynomial.NewPolynomial(group, rand, threshold)
	blindPoly := polynomial.NewPolynomial(group, rand, threshold)

	h := ck.H()
	committed := make([]curve.Point, threshold)
	for k := range committed {
		// eₖ = aₖ⋅G + bₖ⋅H
		committed[k] = sharePoly.Coefficient(k).ActOnBase().Add(blindPoly.Coefficient(k).Act(h))
	}

	shares := make([]EncryptedShares, n)
	for i, cpk := range commPKs {
		at := group.NewScalar().SetUint64(uint64(i + 1))
		voteShare, err := sealScalar(rand, cpk, sharePoly.Evaluate(at))
		if err != nil {
			return nil, err
		}
		blindingShare, err := sealScalar(rand, cpk, blindPoly.Evaluate(at))
		if err != nil {
			return nil, err
		}
		shares[i] = EncryptedShares{
			Recipient:     i + 1,
			VoteShare:     voteShare,
			BlindingShare: blindingShare,
		}
	}

	secret := sharePoly.Constant()
	return &MemberState1{
		ck:        ck,
		index:     index,
		threshold: threshold,
		members:   n,
		secret:    MemberSecretKey{SecretKey: elgamal.SecretKey{Scalar: secret}},
		public:    MemberPublicKey{PublicKey: elgamal.PublicKey{Point: secret.ActOnBase()}},

		committedCoefficients: committed,
		shares:                shares,
	}, nil
}

func sealScalar(rand io.Reader, cpk MemberCommunicationPublicKey, s curve.Scalar) (*elgamal.HybridCiphertext, error) {
	data, err := s.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return cpk.HybridEncrypt(rand, data)
}

// SecretKey returns the member's share of the election decryption key. It is
// only meaningful once phase two validated the other members.
func (m *MemberState1) SecretKey() MemberSecretKey {
	return m.secret
}

// PublicKey returns the public counterpart of the member's share.
func (m *MemberState1) PublicKey() MemberPublicKey {
	return m.public
}

// EncryptedShares returns the sealed evaluations for every member, to be
// broadcast along with the committed coefficients.
func (m *MemberState1) EncryptedShares() []EncryptedShares {
	return m.shares
}

// CommittedCoefficients returns the Pedersen commitments eₖ = aₖ⋅G + bₖ⋅H to
// the polynomial coefficients.
func (m *MemberState1) CommittedCoefficients() []curve.Point {
	return m.committedCoefficients
}

// Phase2 decrypts the shares the other members addressed to this member and
// verifies them against the senders' committed coefficients, recording every
// sender that fails a check.
func (m *MemberState1) Phase2(key MemberCommunicationKey, fetched []MemberFetchedState) *MemberState2 {
	group := m.ck.Group()
	h := m.ck.H()
	index := group.NewScalar().SetUint64(uint64(m.index))

	state := &MemberState2{threshold: m.threshold}
	for _, f := range fetched {
		voteShare, err := openScalar(group, key, f.Shares.VoteShare)
		if err != nil {
			state.accuse(f.Sender, err)
			continue
		}
		blindingShare, err := openScalar(group, key, f.Shares.BlindingShare)
		if err != nil {
			state.accuse(f.Sender, err)
			continue
		}

		// s⋅G + s'⋅H must equal Σₖ indexᵏ⋅eₖ.
		check := voteShare.ActOnBase().Add(blindingShare.Act(h))
		expected := group.NewPoint()
		pow := group.NewScalar().SetUint64(1)
		for _, e := range f.CommittedCoefficients {
			expected = expected.Add(pow.Act(e))
			pow.Mul(index)
		}
		if !check.Equal(expected) {
			state.accuse(f.Sender, ErrShareValidity)
		}
	}
	return state
}

func openScalar(group curve.Curve, key MemberCommunicationKey, ct *elgamal.HybridCiphertext) (curve.Scalar, error) {
	data, err := key.HybridDecrypt(ct)
	if err != nil {
		return nil, ErrShareDecryption
	}
	s := group.NewScalar()
	if err := s.UnmarshalBinary(data); err != nil {
		return nil, ErrScalarOutOfBounds
	}
	return s, nil
}

// MemberState2 is a committee member after verifying the fetched shares.
type MemberState2 struct {
	threshold   int
	misbehaving []Misbehaviour
}

func (m *MemberState2) accuse(member int, reason error) {
	m.misbehaving = append(m.misbehaving, Misbehaviour{Member: member, Reason: reason})
}

// Misbehaving returns the recorded accusations.
func (m *MemberState2) Misbehaving() []Misbehaviour {
	return m.misbehaving
}

// Validate returns nil when every fetched contribution checked out.
// Once the number of misbehaving parties reaches the threshold the whole
// ceremony is compromised and must be abandoned.
func (m *MemberState2) Validate() error {
	if len(m.misbehaving) >= m.threshold {
		return fmt.Errorf("%w: %d misbehaving", ErrTooManyMisbehaving, len(m.misbehaving))
	}
	if len(m.misbehaving) > 0 {
		return fmt.Errorf("%w: %d misbehaving", ErrMisbehaviourDetected, len(m.misbehaving))
	}
	return nil
}
