package transaction

import (
	"crypto/ed25519"

	"github.com/wikiocracy/voteflow/types"
)

// KeyGenCommitmentTransaction publishes one trustee's Feldman commitment
// to its secret DKG polynomial. Commitment holds one marshaled curve
// point per polynomial coefficient, lowest-degree first.
type KeyGenCommitmentTransaction struct {
	CommitmentID     types.Identifier `cbor:"id" json:"id"`
	TrusteeID        string           `cbor:"trustee_id" json:"trustee_id"`
	TrusteePublicKey types.HexBytes   `cbor:"trustee_public_key" json:"trustee_public_key"`
	Commitment       []types.HexBytes `cbor:"commitment" json:"commitment"`
}

func (k KeyGenCommitmentTransaction) ID() types.Identifier { return k.CommitmentID }

func (k KeyGenCommitmentTransaction) PublicKey() (ed25519.PublicKey, bool) {
	if len(k.TrusteePublicKey) == 0 {
		return nil, false
	}
	return ed25519.PublicKey(k.TrusteePublicKey), true
}

func (k KeyGenCommitmentTransaction) CanonicalBytes() ([]byte, error) { return canonicalBytes(k) }

// EncryptedShare is one recipient's polynomial evaluation, hybrid
// encrypted under that recipient's ECIES public key.
type EncryptedShare struct {
	Ephemeral types.HexBytes `cbor:"ephemeral" json:"ephemeral"`
	Nonce     types.HexBytes `cbor:"nonce" json:"nonce"`
	Cipher    types.HexBytes `cbor:"cipher" json:"cipher"`
}

// KeyGenShareTransaction is one trustee's broadcast of every recipient's
// encrypted share, keyed by recipient trustee UUID. The payload is
// visible to every store reader even though only the named recipient can
// decrypt any one entry; the encryption, not restricted store access, is
// what protects each share.
type KeyGenShareTransaction struct {
	ShareID          types.Identifier          `cbor:"id" json:"id"`
	TrusteeID        string                    `cbor:"trustee_id" json:"trustee_id"`
	TrusteePublicKey types.HexBytes            `cbor:"trustee_public_key" json:"trustee_public_key"`
	Shares           map[string]EncryptedShare `cbor:"shares" json:"shares"`
}

func (k KeyGenShareTransaction) ID() types.Identifier { return k.ShareID }

func (k KeyGenShareTransaction) PublicKey() (ed25519.PublicKey, bool) {
	if len(k.TrusteePublicKey) == 0 {
		return nil, false
	}
	return ed25519.PublicKey(k.TrusteePublicKey), true
}

func (k KeyGenShareTransaction) CanonicalBytes() ([]byte, error) { return canonicalBytes(k) }

// PubkeyProof is the per-trustee artifact that lets anyone later verify a
// DecryptShare against the joint public key: the trustee's own partial
// public key y_i = g^x_i, where x_i is the secret share it holds after
// combining every incoming KeyGenShareTransaction. A DecryptShare's
// DecryptionProof is checked against this point, not against
// ElGamalPublicKey itself.
type PubkeyProof struct {
	PartialPublicKey types.HexBytes `cbor:"partial_public_key" json:"partial_public_key"`
}

// KeyGenPublicKeyTransaction publishes the joint ElGamal public key one
// trustee derived, plus the proof that backs its future partial
// decryptions. A well-formed election has every trustee publish the same
// ElGamalPublicKey bit for bit.
type KeyGenPublicKeyTransaction struct {
	PublicKeyID      types.Identifier `cbor:"id" json:"id"`
	TrusteeID        string           `cbor:"trustee_id" json:"trustee_id"`
	TrusteePublicKey types.HexBytes   `cbor:"trustee_public_key" json:"trustee_public_key"`
	ElGamalPublicKey types.HexBytes   `cbor:"elgamal_public_key" json:"elgamal_public_key"`
	Proof            PubkeyProof      `cbor:"proof" json:"proof"`
}

func (k KeyGenPublicKeyTransaction) ID() types.Identifier { return k.PublicKeyID }

func (k KeyGenPublicKeyTransaction) PublicKey() (ed25519.PublicKey, bool) {
	if len(k.TrusteePublicKey) == 0 {
		return nil, false
	}
	return ed25519.PublicKey(k.TrusteePublicKey), true
}

func (k KeyGenPublicKeyTransaction) CanonicalBytes() ([]byte, error) { return canonicalBytes(k) }
