// Package transaction implements the signed, content-addressed payload
// types that make up voteflow's append-only transaction log: a tagged
// union of payloads, each wrapped in a detached Ed25519 signature.
package transaction

import (
	"crypto/ed25519"
	"encoding/json"

	"github.com/fxamacker/cbor/v2"
	"github.com/wikiocracy/voteflow/errs"
	"github.com/wikiocracy/voteflow/types"
)

// Signable is implemented by every transaction payload. CanonicalBytes is
// the exact byte sequence that gets signed and that gets stored; changing
// its encoding breaks every existing signature.
type Signable interface {
	ID() types.Identifier
	PublicKey() (ed25519.PublicKey, bool)
	CanonicalBytes() ([]byte, error)
}

// Envelope is the erased, storable form of a SignedTransaction[T]: every
// instantiation of SignedTransaction satisfies it, which lets the Store
// hold transactions of any payload type in one collection.
type Envelope interface {
	ID() types.Identifier
	Type() types.TransactionType
	VerifySignature() error
	MarshalCBOR() ([]byte, error)
	MarshalJSON() ([]byte, error)
}

// SignedTransaction pairs a payload with a 64-byte Ed25519 signature over
// its canonical bytes.
type SignedTransaction[T Signable] struct {
	Transaction T
	Signature   types.HexBytes
}

// Sign builds a SignedTransaction by signing payload's canonical bytes
// with sk.
func Sign[T Signable](payload T, sk ed25519.PrivateKey) (SignedTransaction[T], error) {
	b, err := payload.CanonicalBytes()
	if err != nil {
		return SignedTransaction[T]{}, err
	}
	return SignedTransaction[T]{
		Transaction: payload,
		Signature:   types.HexBytes(ed25519.Sign(sk, b)),
	}, nil
}

// ID returns the wrapped payload's identifier.
func (s SignedTransaction[T]) ID() types.Identifier { return s.Transaction.ID() }

// Type returns the transaction type tag carried by the payload's id.
func (s SignedTransaction[T]) Type() types.TransactionType { return s.Transaction.ID().Type() }

// VerifySignature checks the signature against the payload's canonical
// bytes using the payload's own public key. Payloads that expose no
// public key (anonymous votes) verify trivially; the caller must apply
// its own authenticity rule in that case.
func (s SignedTransaction[T]) VerifySignature() error {
	b, err := s.Transaction.CanonicalBytes()
	if err != nil {
		return err
	}
	pub, ok := s.Transaction.PublicKey()
	if !ok {
		return nil
	}
	if !ed25519.Verify(pub, b, s.Signature) {
		return &errs.BadSignature{}
	}
	return nil
}

type wireEnvelope struct {
	Type        string          `cbor:"type" json:"type"`
	Transaction cbor.RawMessage `cbor:"transaction" json:"-"`
	Signature   types.HexBytes  `cbor:"signature" json:"signature"`
}

type jsonEnvelope struct {
	Type        string          `json:"type"`
	Transaction json.RawMessage `json:"transaction"`
	Signature   types.HexBytes  `json:"signature"`
}

// MarshalCBOR encodes s as a tagged-union envelope: {"type": ..., "transaction": <payload>, "signature": ...}.
func (s SignedTransaction[T]) MarshalCBOR() ([]byte, error) {
	payloadBytes, err := s.Transaction.CanonicalBytes()
	if err != nil {
		return nil, err
	}
	return canonicalBytes(wireEnvelope{
		Type:        s.Type().String(),
		Transaction: payloadBytes,
		Signature:   s.Signature,
	})
}

// MarshalJSON encodes s the same way as MarshalCBOR, but as JSON with hex
// strings for Identifier and other binary fields.
func (s SignedTransaction[T]) MarshalJSON() ([]byte, error) {
	payloadBytes, err := json.Marshal(s.Transaction)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonEnvelope{
		Type:        s.Type().String(),
		Transaction: payloadBytes,
		Signature:   s.Signature,
	})
}

// expectedType returns the TransactionType T itself represents,
// independent of any particular instance's data: every Signable payload
// backs exactly one wire variant. Unrecognized T (impossible for the
// Signable implementations this package defines) reports ok=false.
func expectedType[T Signable]() (types.TransactionType, bool) {
	var zero T
	switch any(zero).(type) {
	case ElectionTransaction:
		return types.Election, true
	case KeyGenCommitmentTransaction:
		return types.KeyGenCommitment, true
	case KeyGenShareTransaction:
		return types.KeyGenShare, true
	case KeyGenPublicKeyTransaction:
		return types.KeyGenPublicKey, true
	case VoteTransaction:
		return types.Vote, true
	case PartialDecryptionTransaction:
		return types.PartialDecryption, true
	case DecryptionTransaction:
		return types.Decryption, true
	case MixTransaction:
		return types.Mix, true
	default:
		return 0, false
	}
}

// UnmarshalCBOR decodes a tagged-union envelope previously produced by
// MarshalCBOR, verifying the "type" field matches T's own static variant.
// This is checked against T itself, not against the decoded payload's
// embedded Identifier: every payload's id shares the same wire tag name,
// so comparing against the payload's own Type() would let bytes for one
// variant decode into a SignedTransaction of a different T undetected.
func (s *SignedTransaction[T]) UnmarshalCBOR(data []byte) error {
	var raw wireEnvelope
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return &errs.MalformedCBOR{Err: err}
	}
	gotType, err := types.TransactionTypeFromString(raw.Type)
	if err != nil {
		return err
	}
	want, ok := expectedType[T]()
	if !ok || gotType != want {
		return &errs.WrongVariant{Expected: want, Got: gotType}
	}
	var payload T
	if err := cbor.Unmarshal(raw.Transaction, &payload); err != nil {
		return &errs.MalformedCBOR{Err: err}
	}
	s.Transaction = payload
	s.Signature = raw.Signature
	return nil
}

// Marshal encodes any Envelope to its canonical CBOR wire form.
func Marshal(e Envelope) ([]byte, error) { return e.MarshalCBOR() }

// Unmarshal decodes the canonical CBOR wire form of any transaction
// variant, dispatching on the embedded "type" discriminator to the
// matching SignedTransaction[T].
func Unmarshal(data []byte) (Envelope, error) {
	var raw wireEnvelope
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return nil, &errs.MalformedCBOR{Err: err}
	}
	txType, err := types.TransactionTypeFromString(raw.Type)
	if err != nil {
		return nil, err
	}
	switch txType {
	case types.Election:
		return unmarshalPayload[ElectionTransaction](raw)
	case types.KeyGenCommitment:
		return unmarshalPayload[KeyGenCommitmentTransaction](raw)
	case types.KeyGenShare:
		return unmarshalPayload[KeyGenShareTransaction](raw)
	case types.KeyGenPublicKey:
		return unmarshalPayload[KeyGenPublicKeyTransaction](raw)
	case types.Vote:
		return unmarshalPayload[VoteTransaction](raw)
	case types.PartialDecryption:
		return unmarshalPayload[PartialDecryptionTransaction](raw)
	case types.Decryption:
		return unmarshalPayload[DecryptionTransaction](raw)
	case types.Mix:
		return unmarshalPayload[MixTransaction](raw)
	default:
		return nil, &errs.UnknownTransactionType{Value: raw.Type}
	}
}

func unmarshalPayload[T Signable](raw wireEnvelope) (Envelope, error) {
	var payload T
	if err := cbor.Unmarshal(raw.Transaction, &payload); err != nil {
		return nil, &errs.MalformedCBOR{Err: err}
	}
	return SignedTransaction[T]{Transaction: payload, Signature: raw.Signature}, nil
}
