// Package zkuv implements a non-interactive proof that a vector of ElGamal
// ciphertexts encrypts a unit vector, following the protocol of Zhang,
// Oliynykov and Balogun. The proof is logarithmic in the number of options:
// the choice index is committed bit by bit, and one batched polynomial
// relation replaces the per-option checks.
package zkuv

import (
	"crypto/rand"
	"errors"

	"github.com/veilvote/veilvote/pkg/ballot"
	"github.com/veilvote/veilvote/pkg/elgamal"
	"github.com/veilvote/veilvote/pkg/math/curve"
	"github.com/veilvote/veilvote/pkg/math/polynomial"
	"github.com/veilvote/veilvote/pkg/pedersen"
)

var (
	ErrEncoding  = errors.New("zkuv: invalid proof encoding")
	ErrPartsSize = errors.New("zkuv: proof parts have inconsistent sizes")
)

type Public struct {
	CommitmentKey pedersen.CommitmentKey
	PublicKey     elgamal.PublicKey

	// Ciphertexts is the encrypted vote being proven, before padding.
	Ciphertexts ballot.EncryptedVote
}

type Private struct {
	// Vote holds the unit vector, its ciphertexts and their nonces.
	Vote ballot.EncryptingVote
}

type Proof struct {
	group curve.Curve

	// Announcements holds one IBA triple per bit of the padded choice index.
	Announcements []Announcement

	// Coefficients are the encryptions Dₗ of the batched polynomial
	// coefficients.
	Coefficients []*elgamal.Ciphertext

	// Responses holds one zwv triple per bit.
	Responses []ResponseRandomness

	// R is the aggregate response binding the encryption nonces.
	R curve.Scalar
}

func NewProof(public Public, private Private) *Proof {
	group := public.CommitmentKey.Group()
	ciphertexts := padCiphertexts(group, private.Vote.Ciphertexts)
	nonces := ballot.Pad(private.Vote.Randomness, func() curve.Scalar { return group.NewScalar() })
	bits := ciphertexts.Bits()
	choiceBits := ballot.IndexBits(private.Vote.Vote.Choice(), bits)

	blinders := make([]*blindingRandomness, bits)
	announcements := make([]Announcement, bits)
	for i := range blinders {
		blinders[i] = newBlindingRandomness(rand.Reader, group)
		announcements[i] = blinders[i].announce(public.CommitmentKey, choiceBits[i])
	}

	cc := newChallengeContext(public.CommitmentKey, public.PublicKey, ciphertexts.Elements)
	cy := cc.firstChallenge(announcements)

	polys := indexPolynomials(group, ciphertexts.Len(), bits, choiceBits, blinders)

	// Dₗ = Enc(Σⱼ cyʲ ⋅ pⱼ[l]; rₗ)
	coefficients := make([]*elgamal.Ciphertext, bits)
	coefficientNonces := make([]curve.Scalar, bits)
	for l := 0; l < bits; l++ {
		sum := group.NewScalar()
		yPow := group.NewScalar().SetUint64(1)
		for _, p := range polys {
			sum.Add(group.NewScalar().Set(yPow).Mul(p.Coefficient(l)))
			yPow.Mul(cy)
		}
		coefficients[l], coefficientNonces[l] = public.PublicKey.Encrypt(rand.Reader, sum)
	}

	cx := cc.secondChallenge(coefficients)

	responses := make([]ResponseRandomness, bits)
	for i := range responses {
		responses[i] = blinders[i].respond(group, cx, choiceBits[i])
	}

	return &Proof{
		group:         group,
		Announcements: announcements,
		Coefficients:  coefficients,
		Responses:     responses,
		R:             aggregateResponse(group, cx, cy, nonces.Elements, coefficientNonces),
	}
}

func (p *Proof) IsValid() bool {
	if p == nil || p.R == nil {
		return false
	}
	if len(p.Announcements) == 0 ||
		len(p.Announcements) != len(p.Coefficients) ||
		len(p.Announcements) != len(p.Responses) {
		return false
	}
	return true
}

func (p *Proof) Verify(public Public) bool {
	if !p.IsValid() {
		return false
	}
	group := public.CommitmentKey.Group()
	ciphertexts := padCiphertexts(group, public.Ciphertexts)
	bits := ciphertexts.Bits()
	if len(p.Announcements) != bits {
		return false
	}

	cc := newChallengeContext(public.CommitmentKey, public.PublicKey, ciphertexts.Elements)
	cy := cc.firstChallenge(p.Announcements)
	cx := cc.secondChallenge(p.Coefficients)

	if !p.verifyResponses(public.CommitmentKey, cx) {
		return false
	}
	return p.verifySums(group, public.PublicKey, ciphertexts.Elements, cx, cy)
}

// verifyResponses checks the two commitment relations per bit:
// Com(z; w) == cx⋅I + B and Com(0; v) == (cx−z)⋅I + A.
func (p *Proof) verifyResponses(ck pedersen.CommitmentKey, cx curve.Scalar) bool {
	group := ck.Group()
	zero := group.NewScalar()
	for i, resp := range p.Responses {
		ann := p.Announcements[i]
		if !ck.Commit(resp.Z, resp.W).Equal(ann.I.Mul(cx).Add(ann.B)) {
			return false
		}
		e := group.NewScalar().Set(cx).Sub(resp.Z)
		if !ck.Commit(zero, resp.V).Equal(ann.I.Mul(e).Add(ann.A)) {
			return false
		}
	}
	return true
}

// verifySums checks the batched product relation:
// Σⱼ cyʲ⋅(cx^bits⋅Cⱼ + Enc(−Πₖ zⱼₖ; 0)) + Σₗ cxˡ⋅Dₗ == Enc(0; R),
// where zⱼₖ is zₖ when bit k of j is set and cx−zₖ otherwise.
func (p *Proof) verifySums(group curve.Curve, pk elgamal.PublicKey, ciphertexts []*elgamal.Ciphertext, cx, cy curve.Scalar) bool {
	bits := len(p.Responses)
	xPowBits := curve.Power(group, cx, bits)
	zero := group.NewScalar()

	sum := elgamal.NewCiphertext(group)
	yPow := group.NewScalar().SetUint64(1)
	for j, ct := range ciphertexts {
		multz := group.NewScalar().SetUint64(1)
		for k, bit := range ballot.IndexBits(j, bits) {
			if bit {
				multz.Mul(p.Responses[k].Z)
			} else {
				multz.Mul(group.NewScalar().Set(cx).Sub(p.Responses[k].Z))
			}
		}
		enc := pk.EncryptWith(multz.Negate(), zero)
		sum = sum.Add(ct.Mul(xPowBits).Add(enc).Mul(yPow))
		yPow.Mul(cy)
	}

	xPow := group.NewScalar().SetUint64(1)
	for _, d := range p.Coefficients {
		sum = sum.Add(d.Mul(xPow))
		xPow.Mul(cx)
	}

	return sum.Equal(pk.EncryptWith(zero, p.R))
}

// indexPolynomials builds one polynomial per padded option index j:
// pⱼ(x) = Πₖ (bit k of j set ? βₖ + choiceBitₖ⋅x : −βₖ + (1−choiceBitₖ)⋅x).
// Evaluated at the challenge, pⱼ multiplies out to x^bits exactly when j is
// the chosen index.
func indexPolynomials(group curve.Curve, options, bits int, choiceBits []bool, blinders []*blindingRandomness) []*polynomial.Polynomial {
	one := group.NewScalar().SetUint64(1)
	polys := make([]*polynomial.Polynomial, options)
	for j := range polys {
		var p *polynomial.Polynomial
		for k, bit := range ballot.IndexBits(j, bits) {
			c1 := group.NewScalar()
			if choiceBits[k] {
				c1.Set(one)
			}
			var term *polynomial.Polynomial
			if bit {
				term = polynomial.NewLinear(group, group.NewScalar().Set(blinders[k].beta), c1)
			} else {
				term = polynomial.NewLinear(group, group.NewScalar().Set(blinders[k].beta).Negate(), group.NewScalar().Set(one).Sub(c1))
			}
			if p == nil {
				p = term
			} else {
				p = p.Mul(term)
			}
		}
		polys[j] = p
	}
	return polys
}

// aggregateResponse computes R = Σᵢ rᵢ⋅cx^bits⋅cyⁱ + Σₗ rₗ'⋅cxˡ.
func aggregateResponse(group curve.Curve, cx, cy curve.Scalar, voteNonces, coefficientNonces []curve.Scalar) curve.Scalar {
	bits := len(coefficientNonces)
	xPowBits := curve.Power(group, cx, bits)

	r := group.NewScalar()
	yPow := group.NewScalar().SetUint64(1)
	for _, ri := range voteNonces {
		r.Add(group.NewScalar().Set(ri).Mul(xPowBits).Mul(yPow))
		yPow.Mul(cy)
	}
	xPow := group.NewScalar().SetUint64(1)
	for _, rl := range coefficientNonces {
		r.Add(group.NewScalar().Set(rl).Mul(xPow))
		xPow.Mul(cx)
	}
	return r
}

func padCiphertexts(group curve.Curve, ciphertexts []*elgamal.Ciphertext) ballot.Padded[*elgamal.Ciphertext] {
	return ballot.Pad(ciphertexts, func() *elgamal.Ciphertext { return elgamal.NewCiphertext(group) })
}

// FromParts assembles a proof from already decoded parts, enforcing
// consistent lengths.
func FromParts(group curve.Curve, announcements []Announcement, coefficients []*elgamal.Ciphertext, responses []ResponseRandomness, r curve.Scalar) (*Proof, error) {
	if len(announcements) == 0 ||
		len(announcements) != len(coefficients) ||
		len(announcements) != len(responses) {
		return nil, ErrPartsSize
	}
	return &Proof{
		group:         group,
		Announcements: announcements,
		Coefficients:  coefficients,
		Responses:     responses,
		R:             r,
	}, nil
}

// Size returns the length of a marshalled proof with the given number of
// bits.
func Size(group curve.Curve, bits int) int {
	return bits*(AnnouncementSize(group)+elgamal.Size(group)+ResponseSize(group)) + group.ScalarBytes()
}

// MarshalBinary encodes announcements, coefficient ciphertexts, responses
// and the aggregate response, in that order.
func (p *Proof) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, Size(p.group, len(p.Announcements)))
	for _, a := range p.Announcements {
		data, err := a.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
	}
	for _, d := range p.Coefficients {
		data, err := d.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
	}
	for _, r := range p.Responses {
		data, err := r.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
	}
	data, err := p.R.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(out, data...), nil
}

// UnmarshalProof decodes a proof for the given group. The number of bits is
// recovered from the length; any mismatch fails the whole decode.
func UnmarshalProof(group curve.Curve, data []byte) (*Proof, error) {
	unit := AnnouncementSize(group) + elgamal.Size(group) + ResponseSize(group)
	rest := len(data) - group.ScalarBytes()
	if rest <= 0 || rest%unit != 0 {
		return nil, ErrEncoding
	}
	bits := rest / unit

	announcements := make([]Announcement, bits)
	for i := range announcements {
		var err error
		announcements[i], err = UnmarshalAnnouncement(group, data[:AnnouncementSize(group)])
		if err != nil {
			return nil, err
		}
		data = data[AnnouncementSize(group):]
	}
	coefficients := make([]*elgamal.Ciphertext, bits)
	for i := range coefficients {
		var err error
		coefficients[i], err = elgamal.UnmarshalCiphertext(group, data[:elgamal.Size(group)])
		if err != nil {
			return nil, ErrEncoding
		}
		data = data[elgamal.Size(group):]
	}
	responses := make([]ResponseRandomness, bits)
	for i := range responses {
		var err error
		responses[i], err = UnmarshalResponse(group, data[:ResponseSize(group)])
		if err != nil {
			return nil, err
		}
		data = data[ResponseSize(group):]
	}
	r := group.NewScalar()
	if err := r.UnmarshalBinary(data); err != nil {
		return nil, ErrEncoding
	}
	return FromParts(group, announcements, coefficients, responses, r)
}
