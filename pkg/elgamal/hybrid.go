package elgamal

import (
	"crypto/cipher"
	"errors"
	"io"

	"github.com/veilvote/veilvote/pkg/hash"
	"github.com/veilvote/veilvote/pkg/math/curve"
	"github.com/veilvote/veilvote/pkg/math/sample"
	"golang.org/x/crypto/chacha20poly1305"
)

var (
	ErrHybridDecrypt = errors.New("elgamal: hybrid decryption failed")
	ErrHybridBytes   = errors.New("elgamal: invalid hybrid ciphertext encoding")
)

// HybridCiphertext is an ElGamal key encapsulation around an AEAD box:
// a fresh shared secret r⋅pk is hashed into a ChaCha20-Poly1305 key sealing
// the payload. Tampering with either part makes decryption fail.
type HybridCiphertext struct {
	// E is the ephemeral key share r⋅G.
	E curve.Point
	// Box is the sealed payload, including the authentication tag.
	Box []byte
}

// HybridEncrypt seals message to pk.
func (pk PublicKey) HybridEncrypt(rand io.Reader, message []byte) (*HybridCiphertext, error) {
	group := pk.Point.Curve()
	r := sample.ScalarUnit(rand, group)
	aead, err := hybridAEAD(r.Act(pk.Point))
	if err != nil {
		return nil, err
	}
	// The key is single-use, so a fixed nonce is fine.
	nonce := make([]byte, aead.NonceSize())
	return &HybridCiphertext{
		E:   r.ActOnBase(),
		Box: aead.Seal(nil, nonce, message, nil),
	}, nil
}

// HybridDecrypt opens the box, failing closed on any mismatch.
func (sk SecretKey) HybridDecrypt(ct *HybridCiphertext) ([]byte, error) {
	aead, err := hybridAEAD(sk.Scalar.Act(ct.E))
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	message, err := aead.Open(nil, nonce, ct.Box, nil)
	if err != nil {
		return nil, ErrHybridDecrypt
	}
	return message, nil
}

func hybridAEAD(shared curve.Point) (cipher.AEAD, error) {
	h := hash.New(hash.BytesWithDomain{TheDomain: "elgamal/HybridKey", Bytes: nil})
	if err := h.WriteAny(shared); err != nil {
		return nil, err
	}
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(h.Digest(), key); err != nil {
		return nil, err
	}
	return chacha20poly1305.New(key)
}

func (ct *HybridCiphertext) MarshalBinary() ([]byte, error) {
	e, err := ct.E.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(e, ct.Box...), nil
}

// UnmarshalHybridCiphertext decodes ephemeral-share‖box for the given group.
func UnmarshalHybridCiphertext(group curve.Curve, data []byte) (*HybridCiphertext, error) {
	if len(data) < group.PointBytes() {
		return nil, ErrHybridBytes
	}
	e := group.NewPoint()
	if err := e.UnmarshalBinary(data[:group.PointBytes()]); err != nil {
		return nil, ErrHybridBytes
	}
	box := make([]byte, len(data)-group.PointBytes())
	copy(box, data[group.PointBytes():])
	return &HybridCiphertext{E: e, Box: box}, nil
}
