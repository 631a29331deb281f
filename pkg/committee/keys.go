// Package committee implements the committee side of the protocol: the
// distributed generation of the election key, and the key material members
// use to communicate and to decrypt the tally.
package committee

import (
	"errors"
	"io"

	"github.com/veilvote/veilvote/pkg/ballot"
	"github.com/veilvote/veilvote/pkg/elgamal"
	"github.com/veilvote/veilvote/pkg/math/curve"
	"github.com/veilvote/veilvote/pkg/pedersen"
	zkuv "github.com/veilvote/veilvote/pkg/zk/uv"
)

var (
	ErrNoMembers       = errors.New("committee: election key needs at least one member")
	ErrUnitVectorProof = errors.New("committee: ballot carries an invalid unit vector proof")
	ErrKeyBytes        = errors.New("committee: invalid key encoding")
)

// MemberCommunicationKey is a member's long-term channel key. It only
// transports DKG shares confidentially and never touches votes.
type MemberCommunicationKey struct {
	sk elgamal.SecretKey
}

func NewMemberCommunicationKey(rand io.Reader, group curve.Curve) MemberCommunicationKey {
	return MemberCommunicationKey{sk: elgamal.NewKeypair(rand, group).Secret}
}

func (k MemberCommunicationKey) PublicKey() MemberCommunicationPublicKey {
	return MemberCommunicationPublicKey{pk: k.sk.PublicKey()}
}

func (k MemberCommunicationKey) HybridDecrypt(ct *elgamal.HybridCiphertext) ([]byte, error) {
	return k.sk.HybridDecrypt(ct)
}

// MemberCommunicationPublicKey is the public half of a channel key.
type MemberCommunicationPublicKey struct {
	pk elgamal.PublicKey
}

func (k MemberCommunicationPublicKey) HybridEncrypt(rand io.Reader, message []byte) (*elgamal.HybridCiphertext, error) {
	return k.pk.HybridEncrypt(rand, message)
}

func (k MemberCommunicationPublicKey) MarshalBinary() ([]byte, error) {
	return k.pk.Point.MarshalBinary()
}

func UnmarshalMemberCommunicationPublicKey(group curve.Curve, data []byte) (MemberCommunicationPublicKey, error) {
	p := group.NewPoint()
	if err := p.UnmarshalBinary(data); err != nil {
		return MemberCommunicationPublicKey{}, ErrKeyBytes
	}
	return MemberCommunicationPublicKey{pk: elgamal.PublicKey{Point: p}}, nil
}

// MemberSecretKey is a member's share of the election decryption key.
type MemberSecretKey struct {
	SecretKey elgamal.SecretKey
}

// MemberPublicKey is the public counterpart of a member share.
type MemberPublicKey struct {
	PublicKey elgamal.PublicKey
}

func (k MemberPublicKey) MarshalBinary() ([]byte, error) {
	return k.PublicKey.Point.MarshalBinary()
}

func UnmarshalMemberPublicKey(group curve.Curve, data []byte) (MemberPublicKey, error) {
	p := group.NewPoint()
	if err := p.UnmarshalBinary(data); err != nil {
		return MemberPublicKey{}, ErrKeyBytes
	}
	return MemberPublicKey{PublicKey: elgamal.PublicKey{Point: p}}, nil
}

// ElectionPublicKey is the key votes are encrypted to: the sum of all member
// public keys, so decrypting a tally takes a share from every member.
type ElectionPublicKey struct {
	PublicKey elgamal.PublicKey
}

func NewElectionPublicKey(members []MemberPublicKey) (ElectionPublicKey, error) {
	if len(members) == 0 {
		return ElectionPublicKey{}, ErrNoMembers
	}
	group := members[0].PublicKey.Point.Curve()
	sum := group.NewPoint()
	for _, m := range members {
		sum = sum.Add(m.PublicKey.Point)
	}
	return ElectionPublicKey{PublicKey: elgamal.PublicKey{Point: sum}}, nil
}

func (e ElectionPublicKey) MarshalBinary() ([]byte, error) {
	return e.PublicKey.Point.MarshalBinary()
}

func UnmarshalElectionPublicKey(group curve.Curve, data []byte) (ElectionPublicKey, error) {
	p := group.NewPoint()
	if err := p.UnmarshalBinary(data); err != nil {
		return ElectionPublicKey{}, ErrKeyBytes
	}
	return ElectionPublicKey{PublicKey: elgamal.PublicKey{Point: p}}, nil
}

// EncryptAndProve encrypts a vote to the election key and proves it encrypts
// a unit vector.
func (e ElectionPublicKey) EncryptAndProve(rand io.Reader, ck pedersen.CommitmentKey, vote ballot.Vote) (ballot.EncryptedVote, *zkuv.Proof) {
	enc := ballot.Prepare(rand, e.PublicKey, vote)
	proof := zkuv.NewProof(zkuv.Public{
		CommitmentKey: ck,
		PublicKey:     e.PublicKey,
		Ciphertexts:   enc.Ciphertexts,
	}, zkuv.Private{Vote: enc})
	return enc.Ciphertexts, proof
}

// VerifyBallot checks the unit-vector proof of an encrypted vote.
func (e ElectionPublicKey) VerifyBallot(ck pedersen.CommitmentKey, vote ballot.EncryptedVote, proof *zkuv.Proof) error {
	ok := proof.Verify(zkuv.Public{
		CommitmentKey: ck,
		PublicKey:     e.PublicKey,
		Ciphertexts:   vote,
	})
	if !ok {
		return ErrUnitVectorProof
	}
	return nil
}
