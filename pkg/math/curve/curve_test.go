package curve_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veilvote/veilvote/pkg/math/curve"
	"github.com/veilvote/veilvote/pkg/math/sample"
)

func testGroups() []curve.Curve {
	return []curve.Curve{curve.Ristretto255{}, curve.Secp256k1{}}
}

func TestScalarArithmetic(t *testing.T) {
	for _, group := range testGroups() {
		group := group
		t.Run(group.Name(), func(t *testing.T) {
			a := sample.Scalar(rand.Reader, group)
			b := sample.Scalar(rand.Reader, group)

			c := group.NewScalar().Set(a).Add(b).Sub(b)
			assert.True(t, c.Equal(a), "a+b-b should equal a")

			neg := group.NewScalar().Set(a).Negate().Add(a)
			assert.True(t, neg.IsZero(), "a + (-a) should be zero")

			u := sample.ScalarUnit(rand.Reader, group)
			inv := group.NewScalar().Set(u).Invert().Mul(u)
			one := group.NewScalar().SetUint64(1)
			assert.True(t, inv.Equal(one), "u⁻¹·u should be one")
		})
	}
}

func TestScalarSetUint64(t *testing.T) {
	for _, group := range testGroups() {
		group := group
		t.Run(group.Name(), func(t *testing.T) {
			one := group.NewScalar().SetUint64(1)
			sum := group.NewScalar()
			for i := 0; i < 5; i++ {
				sum.Add(one)
			}
			assert.True(t, sum.Equal(group.NewScalar().SetUint64(5)))
		})
	}
}

func TestScalarMarshal(t *testing.T) {
	for _, group := range testGroups() {
		group := group
		t.Run(group.Name(), func(t *testing.T) {
			s := sample.Scalar(rand.Reader, group)
			data, err := s.MarshalBinary()
			require.NoError(t, err)
			assert.Len(t, data, group.ScalarBytes())

			decoded := group.NewScalar()
			require.NoError(t, decoded.UnmarshalBinary(data))
			assert.True(t, decoded.Equal(s))

			assert.Error(t, group.NewScalar().UnmarshalBinary(data[1:]), "short buffer should fail")
		})
	}
}

func TestPointArithmetic(t *testing.T) {
	for _, group := range testGroups() {
		group := group
		t.Run(group.Name(), func(t *testing.T) {
			a := sample.Scalar(rand.Reader, group)
			b := sample.Scalar(rand.Reader, group)

			lhs := group.NewScalar().Set(a).Add(b).ActOnBase()
			rhs := a.ActOnBase().Add(b.ActOnBase())
			assert.True(t, lhs.Equal(rhs), "(a+b)G should equal aG+bG")

			assert.True(t, a.Act(group.NewBasePoint()).Equal(a.ActOnBase()))

			p := a.ActOnBase()
			assert.True(t, p.Sub(p).IsIdentity(), "p-p should be the identity")
			assert.True(t, p.Add(p.Negate()).IsIdentity())
			assert.True(t, group.NewPoint().IsIdentity())
		})
	}
}

func TestPointMarshal(t *testing.T) {
	for _, group := range testGroups() {
		group := group
		t.Run(group.Name(), func(t *testing.T) {
			_, p := sample.ScalarPointPair(rand.Reader, group)
			data, err := p.MarshalBinary()
			require.NoError(t, err)
			assert.Len(t, data, group.PointBytes())

			decoded := group.NewPoint()
			require.NoError(t, decoded.UnmarshalBinary(data))
			assert.True(t, decoded.Equal(p))

			assert.Error(t, group.NewPoint().UnmarshalBinary(data[1:]), "short buffer should fail")
		})
	}
}

func TestIdentityMarshal(t *testing.T) {
	for _, group := range testGroups() {
		group := group
		t.Run(group.Name(), func(t *testing.T) {
			data, err := group.NewPoint().MarshalBinary()
			require.NoError(t, err)
			decoded := group.NewPoint()
			require.NoError(t, decoded.UnmarshalBinary(data))
			assert.True(t, decoded.IsIdentity())
		})
	}
}

func TestFromUniformBytes(t *testing.T) {
	for _, group := range testGroups() {
		group := group
		t.Run(group.Name(), func(t *testing.T) {
			seed1 := make([]byte, group.SafeScalarBytes())
			seed2 := make([]byte, group.SafeScalarBytes())
			_, err := rand.Read(seed1)
			require.NoError(t, err)
			_, err = rand.Read(seed2)
			require.NoError(t, err)

			p1 := group.FromUniformBytes(seed1)
			p2 := group.FromUniformBytes(seed1)
			p3 := group.FromUniformBytes(seed2)
			assert.True(t, p1.Equal(p2), "hash-to-group should be deterministic")
			assert.False(t, p1.Equal(p3), "different inputs should map to different points")
			assert.False(t, p1.IsIdentity())
		})
	}
}

func TestFromHash(t *testing.T) {
	for _, group := range testGroups() {
		group := group
		t.Run(group.Name(), func(t *testing.T) {
			digest := make([]byte, 64)
			_, err := rand.Read(digest)
			require.NoError(t, err)
			s1 := curve.FromHash(group, digest)
			s2 := curve.FromHash(group, digest)
			assert.True(t, s1.Equal(s2))
		})
	}
}

func TestPower(t *testing.T) {
	for _, group := range testGroups() {
		group := group
		t.Run(group.Name(), func(t *testing.T) {
			x := sample.Scalar(rand.Reader, group)
			expected := group.NewScalar().Set(x).Mul(x).Mul(x)
			assert.True(t, curve.Power(group, x, 3).Equal(expected))
			assert.True(t, curve.Power(group, x, 0).Equal(group.NewScalar().SetUint64(1)))
		})
	}
}
