package zkuv

import (
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veilvote/veilvote/pkg/ballot"
	"github.com/veilvote/veilvote/pkg/elgamal"
	"github.com/veilvote/veilvote/pkg/math/curve"
	"github.com/veilvote/veilvote/pkg/math/sample"
	"github.com/veilvote/veilvote/pkg/pedersen"
)

func proveVote(t *testing.T, group curve.Curve, options, choice int) (Public, *Proof) {
	t.Helper()
	ck := pedersen.NewCommitmentKey(group, []byte("unit vector test"))
	kp := elgamal.NewKeypair(rand.Reader, group)

	vote, err := ballot.NewVote(options, choice)
	require.NoError(t, err)
	enc := ballot.Prepare(rand.Reader, kp.Public, vote)

	public := Public{
		CommitmentKey: ck,
		PublicKey:     kp.Public,
		Ciphertexts:   enc.Ciphertexts,
	}
	return public, NewProof(public, Private{Vote: enc})
}

func TestProofCompleteness(t *testing.T) {
	for _, options := range []int{1, 2, 3, 4, 5, 8} {
		for choice := 0; choice < options; choice++ {
			options, choice := options, choice
			t.Run(fmt.Sprintf("options=%d/choice=%d", options, choice), func(t *testing.T) {
				public, proof := proveVote(t, curve.Ristretto255{}, options, choice)
				assert.True(t, proof.Verify(public), "honest proof should verify")
			})
		}
	}
}

func TestProofCompletenessSecp256k1(t *testing.T) {
	public, proof := proveVote(t, curve.Secp256k1{}, 4, 1)
	assert.True(t, proof.Verify(public))
}

func TestProofRejectsTampering(t *testing.T) {
	group := curve.Ristretto255{}
	public, proof := proveVote(t, group, 4, 2)
	require.True(t, proof.Verify(public))

	tampered := *proof
	tampered.Announcements = append([]Announcement{}, proof.Announcements...)
	tampered.Announcements[0].B = public.CommitmentKey.Commit(
		sample.Scalar(rand.Reader, group),
		sample.Scalar(rand.Reader, group),
	)
	assert.False(t, tampered.Verify(public), "a modified announcement should fail")

	tampered = *proof
	tampered.R = sample.Scalar(rand.Reader, group)
	assert.False(t, tampered.Verify(public), "a modified aggregate response should fail")
}

func TestProofRejectsWrongCiphertexts(t *testing.T) {
	group := curve.Ristretto255{}
	public, proof := proveVote(t, group, 4, 2)

	otherVote, err := ballot.NewVote(4, 3)
	require.NoError(t, err)
	other := ballot.Prepare(rand.Reader, public.PublicKey, otherVote)

	wrong := public
	wrong.Ciphertexts = other.Ciphertexts
	assert.False(t, proof.Verify(wrong), "the proof is bound to its ciphertexts")
}

func TestProofMarshal(t *testing.T) {
	group := curve.Ristretto255{}
	public, proof := proveVote(t, group, 5, 3)

	data, err := proof.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, Size(group, 3))

	decoded, err := UnmarshalProof(group, data)
	require.NoError(t, err)
	assert.True(t, decoded.Verify(public))

	_, err = UnmarshalProof(group, data[1:])
	assert.ErrorIs(t, err, ErrEncoding)

	_, err = UnmarshalProof(group, data[:group.ScalarBytes()])
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestFromParts(t *testing.T) {
	group := curve.Ristretto255{}
	_, proof := proveVote(t, group, 4, 0)

	_, err := FromParts(group, proof.Announcements, proof.Coefficients, proof.Responses[:1], proof.R)
	assert.ErrorIs(t, err, ErrPartsSize)

	_, err = FromParts(group, nil, nil, nil, proof.R)
	assert.ErrorIs(t, err, ErrPartsSize)

	rebuilt, err := FromParts(group, proof.Announcements, proof.Coefficients, proof.Responses, proof.R)
	require.NoError(t, err)
	assert.True(t, rebuilt.IsValid())
}

func TestUnmarshalAnnouncement(t *testing.T) {
	group := curve.Ristretto255{}
	_, proof := proveVote(t, group, 2, 1)

	data, err := proof.Announcements[0].MarshalBinary()
	require.NoError(t, err)

	decoded, err := UnmarshalAnnouncement(group, data)
	require.NoError(t, err)
	assert.True(t, decoded.I.Equal(proof.Announcements[0].I))
	assert.True(t, decoded.B.Equal(proof.Announcements[0].B))
	assert.True(t, decoded.A.Equal(proof.Announcements[0].A))

	_, err = UnmarshalAnnouncement(group, data[1:])
	assert.ErrorIs(t, err, ErrEncoding)
}
