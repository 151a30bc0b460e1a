package crypto

import (
	"crypto/sha256"

	"github.com/wikiocracy/voteflow/errs"
)

// DecryptionProof is a non-interactive Chaum-Pedersen proof that a
// trustee's partial decryption share = x*C1 uses the same secret x as its
// public commitment pub = x*G, without revealing x. Verifiers run
// VerifyDecryptionProof against (pub, c1, share) independently of any
// quorum the share is eventually combined into.
type DecryptionProof struct {
	// Commitments to the prover's random nonce, one in each base.
	A1 Point // r*G
	A2 Point // r*C1
	// Challenge response: z = r + e*x.
	Z Scalar
}

// ProveDecryption builds a DLEQ proof that share = x*c1 and pub = x*G for
// the same x, using Fiat-Shamir (challenge = H(pub, c1, share, A1, A2))
// in place of an interactive verifier.
func ProveDecryption(x Scalar, pub, c1, share Point) (DecryptionProof, error) {
	r := Suite.Scalar().Pick(RandomStream())
	a1 := Suite.Point().Mul(r, nil)
	a2 := Suite.Point().Mul(r, c1)

	e, err := fiatShamirChallenge(pub, c1, share, a1, a2)
	if err != nil {
		return DecryptionProof{}, err
	}
	z := Suite.Scalar().Add(r, Suite.Scalar().Mul(e, x))
	return DecryptionProof{A1: a1, A2: a2, Z: z}, nil
}

// VerifyDecryptionProof checks that z*G == A1 + e*pub and z*c1 == A2 +
// e*share, for e recomputed the same way the prover did. A true result
// means the same secret x underlies both pub and share.
func VerifyDecryptionProof(pub, c1, share Point, proof DecryptionProof) (bool, error) {
	e, err := fiatShamirChallenge(pub, c1, share, proof.A1, proof.A2)
	if err != nil {
		return false, err
	}

	lhs1 := Suite.Point().Mul(proof.Z, nil)
	rhs1 := Suite.Point().Add(proof.A1, Suite.Point().Mul(e, pub))
	if !lhs1.Equal(rhs1) {
		return false, nil
	}

	lhs2 := Suite.Point().Mul(proof.Z, c1)
	rhs2 := Suite.Point().Add(proof.A2, Suite.Point().Mul(e, share))
	return lhs2.Equal(rhs2), nil
}

// fiatShamirChallenge hashes the proof transcript into a scalar challenge.
func fiatShamirChallenge(points ...Point) (Scalar, error) {
	h := sha256.New()
	for _, p := range points {
		b, err := p.MarshalBinary()
		if err != nil {
			return nil, &errs.BadProof{}
		}
		h.Write(b)
	}
	e := Suite.Scalar().SetBytes(h.Sum(nil))
	return e, nil
}
