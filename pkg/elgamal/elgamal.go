// Package elgamal implements lifted ElGamal over an abstract prime-order
// group: messages are scalars encrypted in the exponent, so ciphertexts can
// be added and scaled without decrypting.
package elgamal

import (
	"errors"
	"io"

	"github.com/veilvote/veilvote/pkg/math/curve"
	"github.com/veilvote/veilvote/pkg/math/sample"
)

var ErrCiphertextBytes = errors.New("elgamal: invalid ciphertext encoding")

// SecretKey is a decryption key.
type SecretKey struct {
	Scalar curve.Scalar
}

// PublicKey is an encryption key.
type PublicKey struct {
	Point curve.Point
}

// Keypair is a full ElGamal keypair.
type Keypair struct {
	Secret SecretKey
	Public PublicKey
}

// NewKeypair generates a keypair using the randomness from rand.
func NewKeypair(rand io.Reader, group curve.Curve) Keypair {
	sk, pk := sample.ScalarPointPair(rand, group)
	return Keypair{
		Secret: SecretKey{Scalar: sk},
		Public: PublicKey{Point: pk},
	}
}

// PublicKey returns the encryption key matching sk.
func (sk SecretKey) PublicKey() PublicKey {
	return PublicKey{Point: sk.Scalar.ActOnBase()}
}

// Encrypt returns the encryption of m⋅G under pk along with the nonce used,
// which callers such as proof generation need to keep.
func (pk PublicKey) Encrypt(rand io.Reader, m curve.Scalar) (*Ciphertext, curve.Scalar) {
	r := sample.Scalar(rand, pk.Point.Curve())
	return pk.EncryptWith(m, r), r
}

// EncryptWith returns (r⋅G, m⋅G + r⋅pk), the encryption of m⋅G with the
// given nonce.
func (pk PublicKey) EncryptWith(m, r curve.Scalar) *Ciphertext {
	return &Ciphertext{
		E1: r.ActOnBase(),
		E2: m.ActOnBase().Add(r.Act(pk.Point)),
	}
}

// Decrypt returns the message point m⋅G. Recovering m itself requires a
// discrete logarithm search and is left to the caller.
func (sk SecretKey) Decrypt(ct *Ciphertext) curve.Point {
	return ct.E2.Sub(sk.Scalar.Act(ct.E1))
}

// Ciphertext is a lifted ElGamal ciphertext.
type Ciphertext struct {
	// E1 = r⋅G
	E1 curve.Point
	// E2 = m⋅G + r⋅pk
	E2 curve.Point
}

// NewCiphertext returns the encryption of zero with a zero nonce, the
// neutral element for Add.
func NewCiphertext(group curve.Curve) *Ciphertext {
	return &Ciphertext{E1: group.NewPoint(), E2: group.NewPoint()}
}

// Add returns the ciphertext encrypting the sum of the two plaintexts.
func (ct *Ciphertext) Add(other *Ciphertext) *Ciphertext {
	return &Ciphertext{E1: ct.E1.Add(other.E1), E2: ct.E2.Add(other.E2)}
}

// Mul returns the ciphertext encrypting e times the plaintext.
func (ct *Ciphertext) Mul(e curve.Scalar) *Ciphertext {
	return &Ciphertext{E1: e.Act(ct.E1), E2: e.Act(ct.E2)}
}

func (ct *Ciphertext) Equal(other *Ciphertext) bool {
	return ct.E1.Equal(other.E1) && ct.E2.Equal(other.E2)
}

// Size returns the length of a marshalled ciphertext for the group.
func Size(group curve.Curve) int {
	return 2 * group.PointBytes()
}

func (ct *Ciphertext) MarshalBinary() ([]byte, error) {
	e1, err := ct.E1.MarshalBinary()
	if err != nil {
		return nil, err
	}
	e2, err := ct.E2.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(e1, e2...), nil
}

// UnmarshalCiphertext decodes e1‖e2 for the given group.
func UnmarshalCiphertext(group curve.Curve, data []byte) (*Ciphertext, error) {
	if len(data) != Size(group) {
		return nil, ErrCiphertextBytes
	}
	ct := NewCiphertext(group)
	if err := ct.E1.UnmarshalBinary(data[:group.PointBytes()]); err != nil {
		return nil, ErrCiphertextBytes
	}
	if err := ct.E2.UnmarshalBinary(data[group.PointBytes():]); err != nil {
		return nil, ErrCiphertextBytes
	}
	return ct, nil
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (ct *Ciphertext) WriteTo(w io.Writer) (int64, error) {
	data, err := ct.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (*Ciphertext) Domain() string {
	return "elgamal/Ciphertext"
}
