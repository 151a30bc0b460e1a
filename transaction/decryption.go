package transaction

import (
	"crypto/ed25519"

	"github.com/wikiocracy/voteflow/types"
)

// DecryptionProof is a Chaum-Pedersen proof that a DecryptShare uses the
// same secret as the issuing trustee's PubkeyProof.
type DecryptionProof struct {
	A1 types.HexBytes `cbor:"a1" json:"a1"`
	A2 types.HexBytes `cbor:"a2" json:"a2"`
	Z  types.HexBytes `cbor:"z" json:"z"`
}

// DecryptShare is a trustee's partial decryption of a vote ciphertext,
// plus the proof that it was computed correctly.
type DecryptShare struct {
	Share types.HexBytes  `cbor:"share" json:"share"`
	Proof DecryptionProof `cbor:"proof" json:"proof"`
}

// PartialDecryptionTransaction is one trustee's partial decryption of one
// vote's ciphertext.
type PartialDecryptionTransaction struct {
	PartialDecryptionID types.Identifier `cbor:"id" json:"id"`
	TrusteeID           string           `cbor:"trustee_id" json:"trustee_id"`
	TrusteePublicKey    types.HexBytes   `cbor:"trustee_public_key" json:"trustee_public_key"`
	VoteID              types.Identifier `cbor:"vote_id" json:"vote_id"`
	Share               DecryptShare     `cbor:"share" json:"share"`
}

func (p PartialDecryptionTransaction) ID() types.Identifier { return p.PartialDecryptionID }

func (p PartialDecryptionTransaction) PublicKey() (ed25519.PublicKey, bool) {
	if len(p.TrusteePublicKey) == 0 {
		return nil, false
	}
	return ed25519.PublicKey(p.TrusteePublicKey), true
}

func (p PartialDecryptionTransaction) CanonicalBytes() ([]byte, error) { return canonicalBytes(p) }

// DecryptionTransaction records the final combined plaintext for a vote,
// along with the identifiers of the quorum of partial decryptions that
// produced it.
type DecryptionTransaction struct {
	DecryptionID         types.Identifier   `cbor:"id" json:"id"`
	VoteID               types.Identifier   `cbor:"vote_id" json:"vote_id"`
	Plaintext            types.HexBytes     `cbor:"plaintext" json:"plaintext"`
	PartialDecryptionIDs []types.Identifier `cbor:"partial_decryption_ids" json:"partial_decryption_ids"`
}

func (d DecryptionTransaction) ID() types.Identifier { return d.DecryptionID }

func (d DecryptionTransaction) PublicKey() (ed25519.PublicKey, bool) { return nil, false }

func (d DecryptionTransaction) CanonicalBytes() ([]byte, error) { return canonicalBytes(d) }
