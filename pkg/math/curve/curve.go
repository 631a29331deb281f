package curve

import (
	"encoding"

	"github.com/cronokirby/saferith"
)

// Curve represents the starting point for working with a prime-order group.
//
// All scalars and points used by a protocol instance must come from the same
// Curve, and the concrete types panic when mixed with another backend.
type Curve interface {
	NewPoint() Point
	NewBasePoint() Point
	NewScalar() Scalar
	Name() string
	// ScalarBytes is the length of a marshalled scalar.
	ScalarBytes() int
	// PointBytes is the length of a marshalled point.
	PointBytes() int
	// SafeScalarBytes returns the number of random bytes needed to sample
	// a scalar with negligible bias.
	SafeScalarBytes() int
	Order() *saferith.Modulus
	// FromUniformBytes maps uniformly random bytes to a point with unknown
	// discrete logarithm. At least SafeScalarBytes bytes must be provided.
	FromUniformBytes(data []byte) Point
}

type Scalar interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Scalar) Scalar
	Sub(Scalar) Scalar
	Negate() Scalar
	Mul(Scalar) Scalar
	Invert() Scalar
	Equal(Scalar) bool
	IsZero() bool
	Set(Scalar) Scalar
	SetNat(*saferith.Nat) Scalar
	SetUint64(uint64) Scalar
	Act(Point) Point
	ActOnBase() Point
}

type Point interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Point) Point
	Sub(Point) Point
	Negate() Point
	Set(Point) Point
	Equal(Point) bool
	IsIdentity() bool
}

// FromHash converts a hash value to a Scalar.
//
// There is some disagreement about how this should be done.
// [NSA] suggests that this is done in the obvious
// manner, but [SECG] truncates the hash to the bit-length of the curve order
// first. We follow [SECG] because that's what OpenSSL does. Additionally,
// OpenSSL right shifts excess bits from the number if the hash is too large
// and we mirror that too.
//
// Taken from crypto/ecdsa.
func FromHash(group Curve, h []byte) Scalar {
	order := group.Order()
	orderBits := order.BitLen()
	orderBytes := (orderBits + 7) / 8
	if len(h) > orderBytes {
		h = h[:orderBytes]
	}
	s := new(saferith.Nat).SetBytes(h)
	excess := len(h)*8 - orderBits
	if excess > 0 {
		s.Rsh(s, uint(excess), -1)
	}
	return group.NewScalar().SetNat(s)
}

// Power returns xⁿ for a small public exponent n.
func Power(group Curve, x Scalar, n int) Scalar {
	out := group.NewScalar().SetUint64(1)
	for i := 0; i < n; i++ {
		out.Mul(x)
	}
	return out
}
