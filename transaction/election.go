package transaction

import (
	"crypto/ed25519"

	"github.com/wikiocracy/voteflow/types"
)

// Trustee is one participant in an election's DKG, as recorded in its
// ElectionTransaction. NumTrustees and Threshold are denormalized copies
// of the election's own fields, kept off the wire since they're derivable
// from the enclosing ElectionTransaction and only needed for local
// protocol computation.
type Trustee struct {
	ID          string         `cbor:"id" json:"id"`
	PublicKey   types.HexBytes `cbor:"public_key" json:"public_key"`
	ECIESKey    types.HexBytes `cbor:"ecies_key" json:"ecies_key"`
	Index       int            `cbor:"index" json:"index"`
	NumTrustees int            `cbor:"-" json:"-"`
	Threshold   int            `cbor:"-" json:"-"`
}

// ElectionTransaction is the genesis record of an election: its trustee
// roster, quorum size, and authority signing key.
type ElectionTransaction struct {
	ElectionID         types.Identifier `cbor:"id" json:"id"`
	Trustees           []Trustee        `cbor:"trustees" json:"trustees"`
	TrusteesThreshold  int              `cbor:"trustees_threshold" json:"trustees_threshold"`
	AuthorityPublicKey types.HexBytes   `cbor:"authority_public_key" json:"authority_public_key"`
	Parameters         types.HexBytes   `cbor:"parameters,omitempty" json:"parameters,omitempty"`
}

func (e ElectionTransaction) ID() types.Identifier { return e.ElectionID }

func (e ElectionTransaction) PublicKey() (ed25519.PublicKey, bool) {
	if len(e.AuthorityPublicKey) == 0 {
		return nil, false
	}
	return ed25519.PublicKey(e.AuthorityPublicKey), true
}

func (e ElectionTransaction) CanonicalBytes() ([]byte, error) { return canonicalBytes(e) }
