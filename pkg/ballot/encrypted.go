package ballot

import (
	"io"

	"github.com/veilvote/veilvote/pkg/elgamal"
	"github.com/veilvote/veilvote/pkg/math/curve"
)

// EncryptedVote is the element-wise encryption of a unit vector, one
// ciphertext per option.
type EncryptedVote []*elgamal.Ciphertext

// Options returns the number of options the vote covers.
func (e EncryptedVote) Options() int {
	return len(e)
}

func (e EncryptedVote) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, len(e)*elgamal.Size(e[0].E1.Curve()))
	for _, ct := range e {
		data, err := ct.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
	}
	return out, nil
}

// UnmarshalEncryptedVote decodes a concatenation of ciphertexts for the
// given group.
func UnmarshalEncryptedVote(group curve.Curve, data []byte) (EncryptedVote, error) {
	size := elgamal.Size(group)
	if len(data) == 0 || len(data)%size != 0 {
		return nil, ErrByteStructure
	}
	out := make(EncryptedVote, len(data)/size)
	for i := range out {
		ct, err := elgamal.UnmarshalCiphertext(group, data[i*size:(i+1)*size])
		if err != nil {
			return nil, ErrByteStructure
		}
		out[i] = ct
	}
	return out, nil
}

// EncryptingVote pairs the ciphertexts of a vote with the encryption
// randomness, which the unit-vector proof consumes as witness.
type EncryptingVote struct {
	Vote        Vote
	Ciphertexts EncryptedVote
	Randomness  []curve.Scalar
}

// Prepare encrypts each coordinate of the unit vector under pk, keeping the
// nonces for proof generation.
func Prepare(rand io.Reader, pk elgamal.PublicKey, vote Vote) EncryptingVote {
	group := pk.Point.Curve()
	ciphertexts := make(EncryptedVote, vote.Options())
	randomness := make([]curve.Scalar, vote.Options())
	one := group.NewScalar().SetUint64(1)
	for i := range ciphertexts {
		m := group.NewScalar()
		if vote.Bit(i) {
			m.Set(one)
		}
		ciphertexts[i], randomness[i] = pk.Encrypt(rand, m)
	}
	return EncryptingVote{Vote: vote, Ciphertexts: ciphertexts, Randomness: randomness}
}
