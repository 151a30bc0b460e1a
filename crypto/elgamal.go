package crypto

import (
	"crypto/cipher"

	"github.com/wikiocracy/voteflow/errs"
)

// Ciphertext is an ElGamal pair (ephemeral public share, masked message
// point) over Suite. Decrypting it requires the matching private scalar,
// or a quorum of partial decryptions of C1 reconstructed via
// LagrangeAtZero.
type Ciphertext struct {
	C1 Point
	C2 Point
}

// MaxPlaintextLen is the largest byte slice Encrypt can embed directly in
// a curve point in one shot. Longer messages need chunking by the caller.
func MaxPlaintextLen() int { return Suite.Point().EmbedLen() }

// Encrypt ElGamal-encrypts message under publicKey, embedding message
// directly into a curve point via Point.Embed rather than treating it as
// an exponent: unlike textbook ElGamal over small message spaces, this
// lets Decrypt recover arbitrary short byte strings without a discrete-log
// search.
func Encrypt(publicKey Point, message []byte, rand cipher.Stream) (Ciphertext, error) {
	if len(message) > MaxPlaintextLen() {
		return Ciphertext{}, &errs.DecryptFailure{Reason: "message too long to embed"}
	}
	m := Suite.Point().Embed(message, rand)
	k := Suite.Scalar().Pick(rand)
	c1 := Suite.Point().Mul(k, nil)
	s := Suite.Point().Mul(k, publicKey)
	c2 := Suite.Point().Add(m, s)
	return Ciphertext{C1: c1, C2: c2}, nil
}

// Decrypt recovers the embedded message given the matching private key.
func Decrypt(privateKey Scalar, ct Ciphertext) ([]byte, error) {
	s := Suite.Point().Mul(privateKey, ct.C1)
	m := Suite.Point().Sub(ct.C2, s)
	data, err := m.Data()
	if err != nil {
		return nil, &errs.DecryptFailure{Reason: err.Error()}
	}
	return data, nil
}

// DecryptCombined recovers the embedded message given the reconstructed
// shared secret point s = privateKey * C1 (built up from partial
// decryptions instead of a single private key).
func DecryptCombined(ct Ciphertext, sharedSecret Point) ([]byte, error) {
	m := Suite.Point().Sub(ct.C2, sharedSecret)
	data, err := m.Data()
	if err != nil {
		return nil, &errs.DecryptFailure{Reason: err.Error()}
	}
	return data, nil
}

// ReconstructSecret combines a quorum's partial decryptions
// (share_i = privateShare_i * C1) into the full shared secret point
// privateKey * C1, via Lagrange interpolation in the exponent. indices
// gives each shares[i]'s 1-based trustee index.
func ReconstructSecret(shares []Point, indices []int) Point {
	sum := Suite.Point().Null()
	for i, share := range shares {
		lambda := LagrangeAtZero(indices, indices[i])
		sum = Suite.Point().Add(sum, Suite.Point().Mul(lambda, share))
	}
	return sum
}
