package trustee

import (
	"slices"

	"github.com/wikiocracy/voteflow/crypto"
	"github.com/wikiocracy/voteflow/errs"
	"github.com/wikiocracy/voteflow/transaction"
)

// Decryption accumulates partial decryptions of a single ciphertext until
// a quorum of k is reached, verifying each share's proof as it arrives
// rather than deferring verification to Finish.
type Decryption struct {
	k          int
	ciphertext crypto.Ciphertext
	indices    []int
	shares     []crypto.Point
}

// NewDecryption starts accumulating partial decryptions of ciphertext
// toward a quorum of k.
func NewDecryption(k int, ciphertext transaction.Ciphertext) (*Decryption, error) {
	c1 := crypto.Suite.Point()
	if err := c1.UnmarshalBinary(ciphertext.C1); err != nil {
		return nil, &errs.ScalarConversion{Reason: "malformed ciphertext c1: " + err.Error()}
	}
	c2 := crypto.Suite.Point()
	if err := c2.UnmarshalBinary(ciphertext.C2); err != nil {
		return nil, &errs.ScalarConversion{Reason: "malformed ciphertext c2: " + err.Error()}
	}
	return &Decryption{k: k, ciphertext: crypto.Ciphertext{C1: c1, C2: c2}}, nil
}

// AddShare verifies index's DecryptShare against its PubkeyProof and the
// ciphertext this Decryption was built from, then records it. A share
// whose proof fails to verify is rejected with errs.BadProof and never
// counted toward the quorum.
func (d *Decryption) AddShare(index int, pubkeyProof transaction.PubkeyProof, share transaction.DecryptShare) error {
	if slices.Contains(d.indices, index) {
		return &errs.DuplicateTrusteeIndex{Index: index}
	}
	partialPublic := crypto.Suite.Point()
	if err := partialPublic.UnmarshalBinary(pubkeyProof.PartialPublicKey); err != nil {
		return &errs.ScalarConversion{Reason: "malformed partial public key: " + err.Error()}
	}
	shareValue := crypto.Suite.Point()
	if err := shareValue.UnmarshalBinary(share.Share); err != nil {
		return &errs.ScalarConversion{Reason: "malformed share value: " + err.Error()}
	}
	a1 := crypto.Suite.Point()
	if err := a1.UnmarshalBinary(share.Proof.A1); err != nil {
		return &errs.ScalarConversion{Reason: "malformed proof a1: " + err.Error()}
	}
	a2 := crypto.Suite.Point()
	if err := a2.UnmarshalBinary(share.Proof.A2); err != nil {
		return &errs.ScalarConversion{Reason: "malformed proof a2: " + err.Error()}
	}
	z := crypto.Suite.Scalar()
	if err := z.UnmarshalBinary(share.Proof.Z); err != nil {
		return &errs.ScalarConversion{Reason: "malformed proof z: " + err.Error()}
	}

	ok, err := crypto.VerifyDecryptionProof(partialPublic, d.ciphertext.C1, shareValue, crypto.DecryptionProof{A1: a1, A2: a2, Z: z})
	if err != nil {
		return err
	}
	if !ok {
		return &errs.BadProof{}
	}

	d.indices = append(d.indices, index)
	d.shares = append(d.shares, shareValue)
	return nil
}

// Finish reconstructs the shared secret from the accumulated shares and
// recovers the plaintext, failing with errs.DecryptFailure if fewer than
// k valid shares have been added.
func (d *Decryption) Finish() ([]byte, error) {
	if len(d.shares) < d.k {
		return nil, &errs.DecryptFailure{Reason: "below quorum"}
	}
	secret := crypto.ReconstructSecret(d.shares, d.indices)
	return crypto.DecryptCombined(d.ciphertext, secret)
}
