package types

import "github.com/wikiocracy/voteflow/errs"

// TransactionType is the one-byte tag embedded in every Identifier and at
// the top of every wire envelope. The numeric value is part of the wire
// format and MUST stay stable; new variants are appended at the end.
type TransactionType byte

const (
	Election TransactionType = iota
	KeyGenCommitment
	KeyGenShare
	KeyGenPublicKey
	Vote
	PartialDecryption
	Decryption
	Mix

	transactionTypeCount
)

// name is the snake_case wire name used as the "type" discriminator in
// both CBOR and JSON encodings.
var name = [transactionTypeCount]string{
	Election:          "election",
	KeyGenCommitment:  "key_gen_commitment",
	KeyGenShare:       "secret_share",
	KeyGenPublicKey:   "key_gen_public_key",
	Vote:              "vote",
	PartialDecryption: "partial_decryption",
	Decryption:        "decryption",
	Mix:               "mix",
}

// String returns the snake_case wire name for t.
func (t TransactionType) String() string {
	if t.Valid() {
		return name[t]
	}
	return "unknown"
}

// Valid reports whether t is one of the defined TransactionType variants.
func (t TransactionType) Valid() bool { return t < transactionTypeCount }

// TransactionTypeFromString resolves the snake_case wire name back to a
// TransactionType.
func TransactionTypeFromString(s string) (TransactionType, error) {
	for i, n := range name {
		if n == s {
			return TransactionType(i), nil
		}
	}
	return 0, &errs.UnknownTransactionType{Value: s}
}

func (t TransactionType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *TransactionType) UnmarshalText(data []byte) error {
	v, err := TransactionTypeFromString(string(data))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
