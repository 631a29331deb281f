package pedersen

import (
	"io"

	"github.com/veilvote/veilvote/internal/params"
	"github.com/veilvote/veilvote/pkg/hash"
	"github.com/veilvote/veilvote/pkg/math/curve"
)

type Error string

const (
	ErrNilFields    Error = "commitment contains nil field"
	ErrBufferSize   Error = "invalid buffer size"
	ErrInvalidPoint Error = "invalid point encoding"
)

func (e Error) Error() string {
	return "pedersen: " + string(e)
}

// Validity is the result of opening a commitment.
type Validity int

const (
	Invalid Validity = iota
	Valid
)

func (v Validity) String() string {
	if v == Valid {
		return "valid"
	}
	return "invalid"
}

// CommitmentKey is the common reference string of the protocol: a second
// generator H whose discrete logarithm relative to the group base is unknown
// to every participant.
type CommitmentKey struct {
	group curve.Curve
	h     curve.Point
}

// NewCommitmentKey derives a commitment key from a public seed, by hashing
// into the group. Every participant must derive it from the same seed.
func NewCommitmentKey(group curve.Curve, seed []byte) CommitmentKey {
	h := hash.New(hash.BytesWithDomain{TheDomain: "pedersen/CommitmentKey", Bytes: seed})
	buf := make([]byte, params.UniformBytes)
	if _, err := io.ReadFull(h.Digest(), buf); err != nil {
		panic("pedersen: failed to derive commitment key: " + err.Error())
	}
	return CommitmentKey{group: group, h: group.FromUniformBytes(buf)}
}

// CommitmentKeyFromPoint wraps an already derived generator.
func CommitmentKeyFromPoint(h curve.Point) CommitmentKey {
	return CommitmentKey{group: h.Curve(), h: h}
}

func (ck CommitmentKey) Group() curve.Curve {
	return ck.group
}

// H returns a copy of the commitment generator.
func (ck CommitmentKey) H() curve.Point {
	return ck.group.NewPoint().Set(ck.h)
}

// Commit returns Com(m; r) = m⋅G + r⋅H.
func (ck CommitmentKey) Commit(m, r curve.Scalar) Commitment {
	return Commitment{C: m.ActOnBase().Add(r.Act(ck.h))}
}

// CommitWith is Commit over an Open.
func (ck CommitmentKey) CommitWith(o Open) Commitment {
	return ck.Commit(o.Message, o.Randomness)
}

// Verify checks that c opens to o. It never panics on adversarial input.
func (ck CommitmentKey) Verify(c Commitment, o Open) Validity {
	if c.C == nil || o.Message == nil || o.Randomness == nil {
		return Invalid
	}
	if ck.CommitWith(o).C.Equal(c.C) {
		return Valid
	}
	return Invalid
}

// MarshalBinary returns the encoding of the generator H.
func (ck CommitmentKey) MarshalBinary() ([]byte, error) {
	return ck.h.MarshalBinary()
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (ck CommitmentKey) WriteTo(w io.Writer) (int64, error) {
	data, err := ck.h.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (CommitmentKey) Domain() string {
	return "pedersen/CommitmentKey"
}

// Open is the opening (message, randomness) of a commitment.
type Open struct {
	Message    curve.Scalar
	Randomness curve.Scalar
}

// Commitment is a Pedersen commitment m⋅G + r⋅H.
type Commitment struct {
	C curve.Point
}

// Add returns the commitment to the sum of the openings.
func (c Commitment) Add(other Commitment) Commitment {
	return Commitment{C: c.C.Add(other.C)}
}

// Mul returns the commitment scaled by e.
func (c Commitment) Mul(e curve.Scalar) Commitment {
	return Commitment{C: e.Act(c.C)}
}

func (c Commitment) Equal(other Commitment) bool {
	if c.C == nil || other.C == nil {
		return false
	}
	return c.C.Equal(other.C)
}

func (c Commitment) MarshalBinary() ([]byte, error) {
	if c.C == nil {
		return nil, ErrNilFields
	}
	return c.C.MarshalBinary()
}

// UnmarshalCommitment decodes a commitment for the given group, failing on
// any malformed encoding.
func UnmarshalCommitment(group curve.Curve, data []byte) (Commitment, error) {
	if len(data) != group.PointBytes() {
		return Commitment{}, ErrBufferSize
	}
	c := group.NewPoint()
	if err := c.UnmarshalBinary(data); err != nil {
		return Commitment{}, ErrInvalidPoint
	}
	return Commitment{C: c}, nil
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (c Commitment) WriteTo(w io.Writer) (int64, error) {
	data, err := c.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (Commitment) Domain() string {
	return "pedersen/Commitment"
}
