package ballot

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veilvote/veilvote/pkg/elgamal"
	"github.com/veilvote/veilvote/pkg/math/curve"
)

func TestNewVote(t *testing.T) {
	_, err := NewVote(0, 0)
	assert.ErrorIs(t, err, ErrTooFewOptions)

	_, err = NewVote(3, 3)
	assert.ErrorIs(t, err, ErrChoiceOutOfRange)

	_, err = NewVote(3, -1)
	assert.ErrorIs(t, err, ErrChoiceOutOfRange)

	v, err := NewVote(3, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Options())
	assert.Equal(t, 1, v.Choice())
	assert.False(t, v.Bit(0))
	assert.True(t, v.Bit(1))
	assert.False(t, v.Bit(2))
}

func TestIndexBits(t *testing.T) {
	assert.Equal(t, []bool{false, true, false, true}, IndexBits(5, 4))
	assert.Equal(t, []bool{true, false, true}, IndexBits(5, 3))
	assert.Equal(t, []bool{false, false}, IndexBits(0, 2))
	assert.Equal(t, []bool{true}, IndexBits(1, 1))
}

func TestPad(t *testing.T) {
	filler := func() int { return -1 }

	for _, tc := range []struct {
		length, padded, bits int
	}{
		{1, 2, 1},
		{2, 2, 1},
		{3, 4, 2},
		{4, 4, 2},
		{5, 8, 3},
		{8, 8, 3},
		{9, 16, 4},
	} {
		in := make([]int, tc.length)
		p := Pad(in, filler)
		assert.Equal(t, tc.padded, p.Len(), "length %d", tc.length)
		assert.Equal(t, tc.bits, p.Bits(), "length %d", tc.length)
		assert.Equal(t, tc.length, p.Original())
		for i := tc.length; i < tc.padded; i++ {
			assert.Equal(t, -1, p.Elements[i])
		}
	}
}

func TestPrepare(t *testing.T) {
	group := curve.Ristretto255{}
	kp := elgamal.NewKeypair(rand.Reader, group)
	vote, err := NewVote(4, 2)
	require.NoError(t, err)

	enc := Prepare(rand.Reader, kp.Public, vote)
	require.Len(t, enc.Ciphertexts, 4)
	require.Len(t, enc.Randomness, 4)

	one := group.NewScalar().SetUint64(1).ActOnBase()
	for i, ct := range enc.Ciphertexts {
		plain := kp.Secret.Decrypt(ct)
		if i == vote.Choice() {
			assert.True(t, plain.Equal(one), "chosen option should encrypt one")
		} else {
			assert.True(t, plain.IsIdentity(), "other options should encrypt zero")
		}
	}
}

func TestEncryptedVoteMarshal(t *testing.T) {
	group := curve.Ristretto255{}
	kp := elgamal.NewKeypair(rand.Reader, group)
	vote, err := NewVote(3, 0)
	require.NoError(t, err)
	enc := Prepare(rand.Reader, kp.Public, vote)

	data, err := enc.Ciphertexts.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, 3*elgamal.Size(group))

	decoded, err := UnmarshalEncryptedVote(group, data)
	require.NoError(t, err)
	require.Equal(t, 3, decoded.Options())
	for i := range decoded {
		assert.True(t, decoded[i].Equal(enc.Ciphertexts[i]))
	}

	_, err = UnmarshalEncryptedVote(group, data[1:])
	assert.ErrorIs(t, err, ErrByteStructure)

	_, err = UnmarshalEncryptedVote(group, nil)
	assert.ErrorIs(t, err, ErrByteStructure)
}

func TestBallotEnvelope(t *testing.T) {
	group := curve.Ristretto255{}
	kp := elgamal.NewKeypair(rand.Reader, group)
	vote, err := NewVote(3, 2)
	require.NoError(t, err)
	enc := Prepare(rand.Reader, kp.Public, vote)

	b := &Ballot{
		VotePlan: []byte{0xde, 0xad, 0xbe, 0xef},
		Proposal: 7,
		Vote:     enc.Ciphertexts,
		Proof:    []byte("opaque proof payload"),
	}
	data, err := b.MarshalBinary()
	require.NoError(t, err)

	decoded, err := UnmarshalBallot(group, data)
	require.NoError(t, err)
	assert.Equal(t, b.VotePlan, decoded.VotePlan)
	assert.Equal(t, b.Proposal, decoded.Proposal)
	assert.Equal(t, b.Proof, decoded.Proof)
	require.Equal(t, 3, decoded.Vote.Options())
	for i := range decoded.Vote {
		assert.True(t, decoded.Vote[i].Equal(enc.Ciphertexts[i]))
	}

	_, err = UnmarshalBallot(group, data[:len(data)-1])
	assert.Error(t, err)
}
