package ballot

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/veilvote/veilvote/pkg/math/curve"
)

// Ballot is the transport envelope a voter submits to the ledger. The proof
// is carried opaquely; the ledger hands it back to the tally side for
// verification.
type Ballot struct {
	// VotePlan identifies the vote plan the ballot belongs to.
	VotePlan []byte
	// Proposal is the index of the proposal inside the vote plan.
	Proposal uint8
	// Vote is the encrypted unit vector.
	Vote EncryptedVote
	// Proof is the marshalled unit-vector proof for Vote.
	Proof []byte
}

type ballotCBOR struct {
	VotePlan []byte `cbor:"1,keyasint"`
	Proposal uint8  `cbor:"2,keyasint"`
	Vote     []byte `cbor:"3,keyasint"`
	Proof    []byte `cbor:"4,keyasint"`
}

func (b *Ballot) MarshalBinary() ([]byte, error) {
	vote, err := b.Vote.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(ballotCBOR{
		VotePlan: b.VotePlan,
		Proposal: b.Proposal,
		Vote:     vote,
		Proof:    b.Proof,
	})
}

// UnmarshalBallot decodes a ballot envelope for the given group.
func UnmarshalBallot(group curve.Curve, data []byte) (*Ballot, error) {
	var raw ballotCBOR
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	vote, err := UnmarshalEncryptedVote(group, raw.Vote)
	if err != nil {
		return nil, err
	}
	return &Ballot{
		VotePlan: raw.VotePlan,
		Proposal: raw.Proposal,
		Vote:     vote,
		Proof:    raw.Proof,
	}, nil
}
