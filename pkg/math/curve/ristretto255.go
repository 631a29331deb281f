package curve

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/bwesterb/go-ristretto"
	"github.com/cronokirby/saferith"
)

// Ristretto255 is the default group: the prime-order quotient of curve25519.
type Ristretto255 struct{}

const ristretto255Bytes = 32

// l = 2²⁵² + 27742317777372353535851937790883648493
var ristretto255Order *saferith.Modulus

func (Ristretto255) Name() string {
	return "ristretto255"
}

func (Ristretto255) ScalarBytes() int {
	return ristretto255Bytes
}

func (Ristretto255) PointBytes() int {
	return ristretto255Bytes
}

func (Ristretto255) SafeScalarBytes() int {
	return 2 * ristretto255Bytes
}

func (Ristretto255) Order() *saferith.Modulus {
	return ristretto255Order
}

func (Ristretto255) NewScalar() Scalar {
	return new(ristrettoScalar)
}

func (Ristretto255) NewPoint() Point {
	out := new(ristrettoPoint)
	out.value.SetZero()
	return out
}

func (Ristretto255) NewBasePoint() Point {
	out := new(ristrettoPoint)
	out.value.SetBase()
	return out
}

// FromUniformBytes maps 64 uniform bytes to a point by adding the Elligator
// images of each half, the standard one-way map for ristretto255.
func (Ristretto255) FromUniformBytes(data []byte) Point {
	if len(data) < 2*ristretto255Bytes {
		panic(fmt.Sprintf("ristretto255: FromUniformBytes expects %d bytes", 2*ristretto255Bytes))
	}
	var b1, b2 [ristretto255Bytes]byte
	copy(b1[:], data[:ristretto255Bytes])
	copy(b2[:], data[ristretto255Bytes:2*ristretto255Bytes])
	var p1, p2 ristretto.Point
	p1.SetElligator(&b1)
	p2.SetElligator(&b2)
	out := new(ristrettoPoint)
	out.value.Add(&p1, &p2)
	return out
}

type ristrettoScalar struct {
	value ristretto.Scalar
}

func ristrettoCastScalar(generic Scalar) *ristrettoScalar {
	out, ok := generic.(*ristrettoScalar)
	if !ok {
		panic(fmt.Sprintf("failed to convert to ristrettoScalar: %v", generic))
	}
	return out
}

func (s *ristrettoScalar) Curve() Curve {
	return Ristretto255{}
}

func (s *ristrettoScalar) MarshalBinary() ([]byte, error) {
	return s.value.Bytes(), nil
}

func (s *ristrettoScalar) UnmarshalBinary(data []byte) error {
	if len(data) != ristretto255Bytes {
		return fmt.Errorf("invalid length for ristretto255 scalar: %d", len(data))
	}
	var buf [ristretto255Bytes]byte
	copy(buf[:], data)
	s.value.SetBytes(&buf)
	// SetBytes reduces mod l; a canonical encoding survives the round trip.
	for i, b := range s.value.Bytes() {
		if b != data[i] {
			return errors.New("invalid bytes for ristretto255 scalar")
		}
	}
	return nil
}

func (s *ristrettoScalar) Add(that Scalar) Scalar {
	other := ristrettoCastScalar(that)
	s.value.Add(&s.value, &other.value)
	return s
}

func (s *ristrettoScalar) Sub(that Scalar) Scalar {
	other := ristrettoCastScalar(that)
	s.value.Sub(&s.value, &other.value)
	return s
}

func (s *ristrettoScalar) Negate() Scalar {
	s.value.Neg(&s.value)
	return s
}

func (s *ristrettoScalar) Mul(that Scalar) Scalar {
	other := ristrettoCastScalar(that)
	s.value.Mul(&s.value, &other.value)
	return s
}

func (s *ristrettoScalar) Invert() Scalar {
	s.value.Inverse(&s.value)
	return s
}

func (s *ristrettoScalar) Equal(that Scalar) bool {
	other := ristrettoCastScalar(that)
	return s.value.Equals(&other.value)
}

func (s *ristrettoScalar) IsZero() bool {
	return s.value.IsNonZeroI() == 0
}

func (s *ristrettoScalar) Set(that Scalar) Scalar {
	other := ristrettoCastScalar(that)
	s.value.Set(&other.value)
	return s
}

func (s *ristrettoScalar) SetNat(x *saferith.Nat) Scalar {
	reduced := new(saferith.Nat).Mod(x, ristretto255Order)
	var be [ristretto255Bytes]byte
	reduced.FillBytes(be[:])
	var le [ristretto255Bytes]byte
	for i := range be {
		le[i] = be[ristretto255Bytes-1-i]
	}
	s.value.SetBytes(&le)
	return s
}

func (s *ristrettoScalar) SetUint64(x uint64) Scalar {
	var buf [ristretto255Bytes]byte
	binary.LittleEndian.PutUint64(buf[:], x)
	s.value.SetBytes(&buf)
	return s
}

func (s *ristrettoScalar) Act(that Point) Point {
	other := ristrettoCastPoint(that)
	out := new(ristrettoPoint)
	out.value.ScalarMult(&other.value, &s.value)
	return out
}

func (s *ristrettoScalar) ActOnBase() Point {
	out := new(ristrettoPoint)
	out.value.ScalarMultBase(&s.value)
	return out
}

type ristrettoPoint struct {
	value ristretto.Point
}

func ristrettoCastPoint(generic Point) *ristrettoPoint {
	out, ok := generic.(*ristrettoPoint)
	if !ok {
		panic(fmt.Sprintf("failed to convert to ristrettoPoint: %v", generic))
	}
	return out
}

func (p *ristrettoPoint) Curve() Curve {
	return Ristretto255{}
}

func (p *ristrettoPoint) MarshalBinary() ([]byte, error) {
	return p.value.Bytes(), nil
}

func (p *ristrettoPoint) UnmarshalBinary(data []byte) error {
	if len(data) != ristretto255Bytes {
		return fmt.Errorf("invalid length for ristretto255 point: %d", len(data))
	}
	var buf [ristretto255Bytes]byte
	copy(buf[:], data)
	if !p.value.SetBytes(&buf) {
		return errors.New("invalid bytes for ristretto255 point")
	}
	return nil
}

func (p *ristrettoPoint) Add(that Point) Point {
	other := ristrettoCastPoint(that)
	out := new(ristrettoPoint)
	out.value.Add(&p.value, &other.value)
	return out
}

func (p *ristrettoPoint) Sub(that Point) Point {
	other := ristrettoCastPoint(that)
	out := new(ristrettoPoint)
	out.value.Sub(&p.value, &other.value)
	return out
}

func (p *ristrettoPoint) Negate() Point {
	out := new(ristrettoPoint)
	out.value.Neg(&p.value)
	return out
}

func (p *ristrettoPoint) Set(that Point) Point {
	other := ristrettoCastPoint(that)
	p.value.Set(&other.value)
	return p
}

func (p *ristrettoPoint) Equal(that Point) bool {
	other := ristrettoCastPoint(that)
	return p.value.Equals(&other.value)
}

func (p *ristrettoPoint) IsIdentity() bool {
	var zero ristretto.Point
	zero.SetZero()
	return p.value.Equals(&zero)
}

func init() {
	orderBytes, err := hex.DecodeString("1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3ed")
	if err != nil {
		panic(err)
	}
	ristretto255Order = saferith.ModulusFromBytes(orderBytes)
}
