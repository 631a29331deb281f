package zkdleq

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veilvote/veilvote/pkg/hash"
	"github.com/veilvote/veilvote/pkg/math/curve"
	"github.com/veilvote/veilvote/pkg/math/sample"
)

func testPublicPrivate(group curve.Curve) (Public, Private) {
	x := sample.Scalar(rand.Reader, group)
	_, base := sample.ScalarPointPair(rand.Reader, group)
	return Public{
		Base: base,
		X:    x.ActOnBase(),
		Y:    x.Act(base),
	}, Private{X: x}
}

func TestDleq(t *testing.T) {
	for _, group := range []curve.Curve{curve.Ristretto255{}, curve.Secp256k1{}} {
		group := group
		t.Run(group.Name(), func(t *testing.T) {
			public, private := testPublicPrivate(group)

			proof := NewProof(group, hash.New(), public, private)
			assert.True(t, proof.Verify(hash.New(), public), "proof should verify")
		})
	}
}

func TestDleqRejectsWrongStatement(t *testing.T) {
	group := curve.Ristretto255{}
	public, private := testPublicPrivate(group)
	proof := NewProof(group, hash.New(), public, private)

	wrong := public
	wrong.Y = sample.Scalar(rand.Reader, group).Act(public.Base)
	assert.False(t, proof.Verify(hash.New(), wrong))

	wrong = public
	wrong.X = sample.Scalar(rand.Reader, group).ActOnBase()
	assert.False(t, proof.Verify(hash.New(), wrong))
}

func TestDleqTranscriptBinding(t *testing.T) {
	group := curve.Ristretto255{}
	public, private := testPublicPrivate(group)

	transcript := hash.New(hash.BytesWithDomain{TheDomain: "context", Bytes: []byte("A")})
	proof := NewProof(group, transcript, public, private)

	other := hash.New(hash.BytesWithDomain{TheDomain: "context", Bytes: []byte("B")})
	assert.False(t, proof.Verify(other, public), "a different transcript should not verify")

	same := hash.New(hash.BytesWithDomain{TheDomain: "context", Bytes: []byte("A")})
	assert.True(t, proof.Verify(same, public))
}

func TestDleqMarshal(t *testing.T) {
	group := curve.Ristretto255{}
	public, private := testPublicPrivate(group)
	proof := NewProof(group, hash.New(), public, private)

	data, err := proof.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, Size(group))

	decoded := Empty(group)
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.True(t, decoded.Verify(hash.New(), public))

	assert.Error(t, Empty(group).UnmarshalBinary(data[1:]))
}

func TestDleqInvalid(t *testing.T) {
	group := curve.Ristretto255{}
	public, _ := testPublicPrivate(group)
	var nilProof *Proof
	assert.False(t, nilProof.Verify(hash.New(), public))
	assert.False(t, (&Proof{group: group}).Verify(hash.New(), public))
}
