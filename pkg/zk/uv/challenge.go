package zkuv

import (
	"github.com/veilvote/veilvote/pkg/elgamal"
	"github.com/veilvote/veilvote/pkg/hash"
	"github.com/veilvote/veilvote/pkg/math/curve"
	"github.com/veilvote/veilvote/pkg/math/sample"
	"github.com/veilvote/veilvote/pkg/pedersen"
)

// challengeContext accumulates the Fiat-Shamir transcript. The order is
// fixed: commitment key, public key, padded ciphertexts, then announcements
// for the first challenge, then coefficient ciphertexts for the second.
// Prover and verifier must feed it identically.
type challengeContext struct {
	group curve.Curve
	h     *hash.Hash
}

func newChallengeContext(ck pedersen.CommitmentKey, pk elgamal.PublicKey, ciphertexts []*elgamal.Ciphertext) *challengeContext {
	h := hash.New()
	_ = h.WriteAny(ck, pk.Point)
	for _, ct := range ciphertexts {
		_ = h.WriteAny(ct)
	}
	return &challengeContext{group: ck.Group(), h: h}
}

func (cc *challengeContext) firstChallenge(announcements []Announcement) curve.Scalar {
	for _, a := range announcements {
		_ = cc.h.WriteAny(a)
	}
	return sample.Scalar(cc.h.Clone().Digest(), cc.group)
}

func (cc *challengeContext) secondChallenge(coefficients []*elgamal.Ciphertext) curve.Scalar {
	for _, d := range coefficients {
		_ = cc.h.WriteAny(d)
	}
	return sample.Scalar(cc.h.Clone().Digest(), cc.group)
}
