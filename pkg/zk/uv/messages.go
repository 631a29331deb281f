package zkuv

import (
	"io"

	"github.com/veilvote/veilvote/pkg/math/curve"
	"github.com/veilvote/veilvote/pkg/math/sample"
	"github.com/veilvote/veilvote/pkg/pedersen"
)

// blindingRandomness is the per-bit prover randomness α, β, γ, δ.
type blindingRandomness struct {
	alpha, beta, gamma, delta curve.Scalar
}

func newBlindingRandomness(rand io.Reader, group curve.Curve) *blindingRandomness {
	return &blindingRandomness{
		alpha: sample.Scalar(rand, group),
		beta:  sample.Scalar(rand, group),
		gamma: sample.Scalar(rand, group),
		delta: sample.Scalar(rand, group),
	}
}

// announce commits to one bit of the choice index:
// I = Com(bit; α), B = Com(β; γ), A = Com(bit⋅β; δ).
func (b *blindingRandomness) announce(ck pedersen.CommitmentKey, bit bool) Announcement {
	group := ck.Group()
	bitScalar := group.NewScalar()
	aMessage := group.NewScalar()
	if bit {
		bitScalar.SetUint64(1)
		aMessage.Set(b.beta)
	}
	return Announcement{
		I: ck.Commit(bitScalar, b.alpha),
		B: ck.Commit(b.beta, b.gamma),
		A: ck.Commit(aMessage, b.delta),
	}
}

// respond answers the second challenge for one bit:
// z = bit⋅c + β, w = α⋅c + γ, v = α⋅(c−z) + δ.
func (b *blindingRandomness) respond(group curve.Curve, c curve.Scalar, bit bool) ResponseRandomness {
	z := group.NewScalar().Set(b.beta)
	if bit {
		z.Add(c)
	}
	return ResponseRandomness{
		Z: z,
		W: group.NewScalar().Set(c).Mul(b.alpha).Add(b.gamma),
		V: group.NewScalar().Set(c).Sub(z).Mul(b.alpha).Add(b.delta),
	}
}

// Announcement is the first-move commitment triple for one bit of the choice
// index.
type Announcement struct {
	I pedersen.Commitment
	B pedersen.Commitment
	A pedersen.Commitment
}

// AnnouncementSize returns the length of a marshalled announcement.
func AnnouncementSize(group curve.Curve) int {
	return 3 * group.PointBytes()
}

func (a Announcement) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, AnnouncementSize(a.I.C.Curve()))
	for _, c := range []pedersen.Commitment{a.I, a.B, a.A} {
		data, err := c.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
	}
	return out, nil
}

// UnmarshalAnnouncement decodes I‖B‖A, failing on any length mismatch or
// invalid point.
func UnmarshalAnnouncement(group curve.Curve, data []byte) (Announcement, error) {
	if len(data) != AnnouncementSize(group) {
		return Announcement{}, ErrEncoding
	}
	pt := group.PointBytes()
	var out Announcement
	var err error
	if out.I, err = pedersen.UnmarshalCommitment(group, data[:pt]); err != nil {
		return Announcement{}, ErrEncoding
	}
	if out.B, err = pedersen.UnmarshalCommitment(group, data[pt:2*pt]); err != nil {
		return Announcement{}, ErrEncoding
	}
	if out.A, err = pedersen.UnmarshalCommitment(group, data[2*pt:]); err != nil {
		return Announcement{}, ErrEncoding
	}
	return out, nil
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (a Announcement) WriteTo(w io.Writer) (int64, error) {
	data, err := a.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (Announcement) Domain() string {
	return "zkuv/Announcement"
}

// ResponseRandomness is the per-bit response triple.
type ResponseRandomness struct {
	Z curve.Scalar
	W curve.Scalar
	V curve.Scalar
}

// ResponseSize returns the length of a marshalled response triple.
func ResponseSize(group curve.Curve) int {
	return 3 * group.ScalarBytes()
}

func (r ResponseRandomness) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, ResponseSize(r.Z.Curve()))
	for _, s := range []curve.Scalar{r.Z, r.W, r.V} {
		data, err := s.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
	}
	return out, nil
}

// UnmarshalResponse decodes z‖w‖v, failing on any length mismatch or
// non-canonical scalar.
func UnmarshalResponse(group curve.Curve, data []byte) (ResponseRandomness, error) {
	if len(data) != ResponseSize(group) {
		return ResponseRandomness{}, ErrEncoding
	}
	sc := group.ScalarBytes()
	out := ResponseRandomness{
		Z: group.NewScalar(),
		W: group.NewScalar(),
		V: group.NewScalar(),
	}
	if err := out.Z.UnmarshalBinary(data[:sc]); err != nil {
		return ResponseRandomness{}, ErrEncoding
	}
	if err := out.W.UnmarshalBinary(data[sc : 2*sc]); err != nil {
		return ResponseRandomness{}, ErrEncoding
	}
	if err := out.V.UnmarshalBinary(data[2*sc:]); err != nil {
		return ResponseRandomness{}, ErrEncoding
	}
	return out, nil
}
