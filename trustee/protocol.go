package trustee

import (
	"crypto/cipher"
	"crypto/ed25519"

	"github.com/wikiocracy/voteflow/crypto"
	"github.com/wikiocracy/voteflow/errs"
	"github.com/wikiocracy/voteflow/transaction"
	"github.com/wikiocracy/voteflow/types"
)

// polynomial rebuilds t's deterministic secret polynomial from sk. Every
// protocol step that needs it calls this fresh rather than caching a
// Polynomial across calls, so a trustee has no in-memory secret state
// beyond the Ed25519 key it was given.
func (t Trustee) polynomial(sk ed25519.PrivateKey) (*crypto.Polynomial, error) {
	stream, err := crypto.GeneratorStream(sk)
	if err != nil {
		return nil, err
	}
	return crypto.NewPolynomial(t.Threshold, stream), nil
}

// eciesPrivate rebuilds t's ECIES private key from sk.
func eciesPrivate(sk ed25519.PrivateKey) (crypto.Scalar, error) {
	_, priv, err := crypto.ECIESKeyPair(sk)
	return priv, err
}

// KeygenCommitment builds t's Feldman commitment to its secret DKG
// polynomial.
func (t Trustee) KeygenCommitment(sk ed25519.PrivateKey) (crypto.Commitment, error) {
	poly, err := t.polynomial(sk)
	if err != nil {
		return crypto.Commitment{}, err
	}
	return poly.Commit(), nil
}

// GenerateShares evaluates t's secret polynomial at every trustee's index
// and hybrid-encrypts each result to that trustee's ECIES key, including
// an entry addressed to t itself. rand seeds every ECIES encryption; pass
// a deterministic crypto.DRBG stream to make the ciphertexts themselves
// reproducible (used by the determinism scenario test), or
// crypto.RandomStream() for normal operation.
func (t Trustee) GenerateShares(sk ed25519.PrivateKey, rand cipher.Stream, trustees []Trustee, commitments map[string]crypto.Commitment) (map[string]transaction.EncryptedShare, error) {
	if err := validateCommitments(trustees, commitments); err != nil {
		return nil, err
	}
	poly, err := t.polynomial(sk)
	if err != nil {
		return nil, err
	}

	shares := make(map[string]transaction.EncryptedShare, len(trustees))
	for _, recipient := range trustees {
		share := poly.Eval(recipient.Index)
		shareBytes, err := share.MarshalBinary()
		if err != nil {
			return nil, err
		}
		ct, err := crypto.ECIESEncrypt(recipient.ECIESKey, shareBytes, rand)
		if err != nil {
			return nil, err
		}
		ephemeralBytes, err := ct.Ephemeral.MarshalBinary()
		if err != nil {
			return nil, err
		}
		shares[recipient.ID] = transaction.EncryptedShare{
			Ephemeral: ephemeralBytes,
			Nonce:     ct.Nonce,
			Cipher:    ct.Cipher,
		}
	}
	return shares, nil
}

// decryptIncomingShares recovers every trustee's share addressed to t
// from incoming (keyed by sender trustee ID), checking each against the
// sender's published commitment before accepting it.
func (t Trustee) decryptIncomingShares(sk ed25519.PrivateKey, trustees []Trustee, commitments map[string]crypto.Commitment, incoming map[string]transaction.EncryptedShare) ([]crypto.Scalar, error) {
	if err := validateCommitments(trustees, commitments); err != nil {
		return nil, err
	}
	if err := validateShares(trustees, incoming); err != nil {
		return nil, err
	}
	priv, err := eciesPrivate(sk)
	if err != nil {
		return nil, err
	}

	shares := make([]crypto.Scalar, 0, len(trustees))
	for _, sender := range trustees {
		enc := incoming[sender.ID]
		ephemeral := crypto.Suite.Point()
		if err := ephemeral.UnmarshalBinary(enc.Ephemeral); err != nil {
			return nil, &errs.ScalarConversion{Reason: "malformed share ephemeral key: " + err.Error()}
		}
		plaintext, err := crypto.ECIESDecrypt(priv, crypto.ECIESCiphertext{
			Ephemeral: ephemeral,
			Nonce:     enc.Nonce,
			Cipher:    enc.Cipher,
		})
		if err != nil {
			return nil, err
		}
		share, err := crypto.ScalarFromBytes(plaintext)
		if err != nil {
			return nil, err
		}
		commitment := commitments[sender.ID]
		if !crypto.VerifyShare(commitment, t.Index, share) {
			return nil, &errs.BadProof{}
		}
		shares = append(shares, share)
	}
	return shares, nil
}

// GeneratePublicKey combines every trustee's commitment into the joint
// ElGamal public key, and every incoming share into t's own secret-key
// share, returning the joint key plus the PubkeyProof that anchors t's
// future DecryptShares. Every honest trustee that runs this over the same
// (trustees, commitments, shares) derives the identical ElGamalPublicKey.
func (t Trustee) GeneratePublicKey(sk ed25519.PrivateKey, trustees []Trustee, commitments map[string]crypto.Commitment, incoming map[string]transaction.EncryptedShare) (types.HexBytes, transaction.PubkeyProof, error) {
	shares, err := t.decryptIncomingShares(sk, trustees, commitments, incoming)
	if err != nil {
		return nil, transaction.PubkeyProof{}, err
	}

	allCommitments := make([]crypto.Commitment, 0, len(trustees))
	for _, tr := range trustees {
		allCommitments = append(allCommitments, commitments[tr.ID])
	}
	jointPublic := crypto.CombineSecret(allCommitments)
	jointPublicBytes, err := jointPublic.MarshalBinary()
	if err != nil {
		return nil, transaction.PubkeyProof{}, err
	}

	secretShare := crypto.CombineShares(shares)
	partialPublic := crypto.Suite.Point().Mul(secretShare, nil)
	partialPublicBytes, err := partialPublic.MarshalBinary()
	if err != nil {
		return nil, transaction.PubkeyProof{}, err
	}

	return jointPublicBytes, transaction.PubkeyProof{PartialPublicKey: partialPublicBytes}, nil
}

// PartialDecrypt computes t's share of decrypting ciphertext, share_i =
// x_i*C1, and a DLEQ proof that x_i is the same secret backing t's
// PubkeyProof.
func (t Trustee) PartialDecrypt(sk ed25519.PrivateKey, trustees []Trustee, commitments map[string]crypto.Commitment, incoming map[string]transaction.EncryptedShare, ciphertext transaction.Ciphertext) (transaction.DecryptShare, error) {
	shares, err := t.decryptIncomingShares(sk, trustees, commitments, incoming)
	if err != nil {
		return transaction.DecryptShare{}, err
	}
	secretShare := crypto.CombineShares(shares)
	partialPublic := crypto.Suite.Point().Mul(secretShare, nil)

	c1 := crypto.Suite.Point()
	if err := c1.UnmarshalBinary(ciphertext.C1); err != nil {
		return transaction.DecryptShare{}, &errs.ScalarConversion{Reason: "malformed ciphertext c1: " + err.Error()}
	}

	shareValue := crypto.Suite.Point().Mul(secretShare, c1)
	proof, err := crypto.ProveDecryption(secretShare, partialPublic, c1, shareValue)
	if err != nil {
		return transaction.DecryptShare{}, err
	}

	shareBytes, err := shareValue.MarshalBinary()
	if err != nil {
		return transaction.DecryptShare{}, err
	}
	a1Bytes, err := proof.A1.MarshalBinary()
	if err != nil {
		return transaction.DecryptShare{}, err
	}
	a2Bytes, err := proof.A2.MarshalBinary()
	if err != nil {
		return transaction.DecryptShare{}, err
	}
	zBytes, err := proof.Z.MarshalBinary()
	if err != nil {
		return transaction.DecryptShare{}, err
	}

	return transaction.DecryptShare{
		Share: shareBytes,
		Proof: transaction.DecryptionProof{A1: a1Bytes, A2: a2Bytes, Z: zBytes},
	}, nil
}
