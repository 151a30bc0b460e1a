package transaction

import (
	"crypto/ed25519"

	"github.com/wikiocracy/voteflow/types"
)

// Ciphertext is an ElGamal-encrypted ballot.
type Ciphertext struct {
	C1 types.HexBytes `cbor:"c1" json:"c1"`
	C2 types.HexBytes `cbor:"c2" json:"c2"`
}

// VoteTransaction carries an encrypted ballot. VoterPublicKey is absent
// for anonymous ballots, in which case authenticity is a higher layer's
// responsibility (e.g. a separate voter-credential check), not this
// package's.
type VoteTransaction struct {
	VoteID         types.Identifier `cbor:"id" json:"id"`
	Ciphertext     Ciphertext       `cbor:"ciphertext" json:"ciphertext"`
	VoterPublicKey types.HexBytes   `cbor:"voter_public_key,omitempty" json:"voter_public_key,omitempty"`
}

func (v VoteTransaction) ID() types.Identifier { return v.VoteID }

func (v VoteTransaction) PublicKey() (ed25519.PublicKey, bool) {
	if len(v.VoterPublicKey) == 0 {
		return nil, false
	}
	return ed25519.PublicKey(v.VoterPublicKey), true
}

func (v VoteTransaction) CanonicalBytes() ([]byte, error) { return canonicalBytes(v) }
