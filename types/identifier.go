package types

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/wikiocracy/voteflow/errs"
)

const (
	electionIDLen = 15
	uniqueIDLen   = 16
	// IdentifierLen is the total byte length of an Identifier:
	// election_id (15) || transaction_type (1) || unique_id (16).
	IdentifierLen = electionIDLen + 1 + uniqueIDLen
)

// Identifier is the 32-byte content-addressed, typed transaction key:
// election_id ‖ transaction_type ‖ unique_id. Its canonical string form is
// lowercase hex; lexicographic order over either the byte form or the hex
// form yields the same total order, which the Store's range queries rely
// on (see store.GetMultiple).
type Identifier [IdentifierLen]byte

// NewForElection draws a fresh election_id and unique_id and tags the
// Identifier as the election-creation transaction of that election.
func NewForElection() (Identifier, error) {
	var id Identifier
	if _, err := rand.Read(id[:electionIDLen]); err != nil {
		return Identifier{}, err
	}
	id[electionIDLen] = byte(Election)
	if _, err := rand.Read(id[electionIDLen+1:]); err != nil {
		return Identifier{}, err
	}
	return id, nil
}

// New mints an Identifier belonging to the same election as electionID
// (i.e. copies its election_id), tagged txType, with a fresh unique_id.
func New(electionID Identifier, txType TransactionType) (Identifier, error) {
	var id Identifier
	copy(id[:electionIDLen], electionID[:electionIDLen])
	id[electionIDLen] = byte(txType)
	if _, err := rand.Read(id[electionIDLen+1:]); err != nil {
		return Identifier{}, err
	}
	return id, nil
}

// ElectionID returns the 15-byte election identifier shared by every
// transaction in the election.
func (id Identifier) ElectionID() [electionIDLen]byte {
	var e [electionIDLen]byte
	copy(e[:], id[:electionIDLen])
	return e
}

// Type returns the transaction-type tag byte.
func (id Identifier) Type() TransactionType { return TransactionType(id[electionIDLen]) }

// UniqueID returns the 16-byte per-transaction unique suffix.
func (id Identifier) UniqueID() [uniqueIDLen]byte {
	var u [uniqueIDLen]byte
	copy(u[:], id[electionIDLen+1:])
	return u
}

// Start returns the inclusive lower bound of the contiguous range of
// Identifiers for (electionID, txType, *): unique_id set to all zero
// bytes. If uniqueID is non-nil it is used verbatim instead (to bound a
// range to a single transaction).
func Start(electionID Identifier, txType TransactionType, uniqueID *[uniqueIDLen]byte) Identifier {
	var id Identifier
	copy(id[:electionIDLen], electionID[:electionIDLen])
	id[electionIDLen] = byte(txType)
	if uniqueID != nil {
		copy(id[electionIDLen+1:], uniqueID[:])
	}
	return id
}

// End returns the inclusive upper bound of the contiguous range of
// Identifiers for (electionID, txType, *): unique_id set to all 0xFF
// bytes, unless uniqueID is supplied.
func End(electionID Identifier, txType TransactionType, uniqueID *[uniqueIDLen]byte) Identifier {
	var id Identifier
	copy(id[:electionIDLen], electionID[:electionIDLen])
	id[electionIDLen] = byte(txType)
	if uniqueID != nil {
		copy(id[electionIDLen+1:], uniqueID[:])
	} else {
		for i := electionIDLen + 1; i < IdentifierLen; i++ {
			id[i] = 0xFF
		}
	}
	return id
}

// Bytes returns the 32-byte array as a slice.
func (id Identifier) Bytes() []byte { return id[:] }

// String returns the canonical lowercase-hex form of id.
func (id Identifier) String() string { return hex.EncodeToString(id[:]) }

// FromString parses the canonical lowercase-hex form of an Identifier. The
// input must decode to exactly IdentifierLen bytes and the type byte must
// be a defined TransactionType.
func FromString(s string) (Identifier, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Identifier{}, &errs.BadHex{Value: s}
	}
	return FromBytes(b)
}

// FromBytes parses the 32-byte binary form of an Identifier.
func FromBytes(b []byte) (Identifier, error) {
	if len(b) != IdentifierLen {
		return Identifier{}, &errs.BadLength{Got: len(b), Want: IdentifierLen}
	}
	if !TransactionType(b[electionIDLen]).Valid() {
		return Identifier{}, &errs.UnknownTransactionType{Value: b[electionIDLen]}
	}
	var id Identifier
	copy(id[:], b)
	return id, nil
}

// MarshalBinary implements encoding.BinaryMarshaler (wire form: 32 raw bytes).
func (id Identifier) MarshalBinary() ([]byte, error) { return append([]byte(nil), id[:]...), nil }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (id *Identifier) UnmarshalBinary(data []byte) error {
	parsed, err := FromBytes(data)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler (human-readable form: hex).
func (id Identifier) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *Identifier) UnmarshalText(data []byte) error {
	parsed, err := FromString(string(data))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalCBOR encodes id as a 32-byte CBOR byte string (binary wire form).
func (id Identifier) MarshalCBOR() ([]byte, error) {
	return cborEncodeBytes(id[:])
}

// UnmarshalCBOR decodes a 32-byte CBOR byte string into id.
func (id *Identifier) UnmarshalCBOR(data []byte) error {
	b, err := cborDecodeBytes(data)
	if err != nil {
		return err
	}
	parsed, err := FromBytes(b)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalJSON encodes id as its lowercase-hex string (human-readable form).
func (id Identifier) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.String() + `"`), nil
}

// UnmarshalJSON decodes a lowercase-hex JSON string into id.
func (id *Identifier) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return &errs.BadHex{Value: string(data)}
	}
	parsed, err := FromString(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
