package transaction

import (
	"crypto/ed25519"

	"github.com/wikiocracy/voteflow/types"
)

// MixTransaction's payload is intentionally opaque: the mixing scheme
// that would produce and consume it is outside this package's scope, so
// Payload is carried as uninterpreted bytes.
type MixTransaction struct {
	MixID           types.Identifier `cbor:"id" json:"id"`
	IssuerPublicKey types.HexBytes   `cbor:"issuer_public_key,omitempty" json:"issuer_public_key,omitempty"`
	Payload         types.HexBytes   `cbor:"payload" json:"payload"`
}

func (m MixTransaction) ID() types.Identifier { return m.MixID }

func (m MixTransaction) PublicKey() (ed25519.PublicKey, bool) {
	if len(m.IssuerPublicKey) == 0 {
		return nil, false
	}
	return ed25519.PublicKey(m.IssuerPublicKey), true
}

func (m MixTransaction) CanonicalBytes() ([]byte, error) { return canonicalBytes(m) }
