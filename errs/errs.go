// Package errs centralizes the domain-error taxonomy used across voteflow.
//
// Every fallible operation in types, transaction, store, crypto, and
// trustee returns an error instead of panicking, so that untrusted input
// (store contents, wire bytes, peer messages) can never terminate the
// process. Domain failures are reported with the types below; errors from
// the CBOR, curve and cipher libraries underneath (for example a malformed
// CBOR byte string inside types, or a point that fails to marshal) are in
// places returned as those libraries report them. Callers distinguish
// error kinds with errors.As/errors.Is.
package errs

import "fmt"

// Encoding errors.

// BadHex is returned when a hex-encoded value fails to decode.
type BadHex struct {
	Value string
}

func (e *BadHex) Error() string { return fmt.Sprintf("bad hex encoding: %q", e.Value) }

// BadLength is returned when a fixed-size encoding has the wrong length.
type BadLength struct {
	Got, Want int
}

func (e *BadLength) Error() string {
	return fmt.Sprintf("bad length: got %d bytes, want %d", e.Got, e.Want)
}

// UnknownTransactionType is returned when a type byte or wire name does not
// correspond to a defined TransactionType variant.
type UnknownTransactionType struct {
	Value any // byte or string, whichever form was being parsed
}

func (e *UnknownTransactionType) Error() string {
	return fmt.Sprintf("unknown transaction type: %v", e.Value)
}

// MalformedCBOR wraps a CBOR decode failure.
type MalformedCBOR struct {
	Err error
}

func (e *MalformedCBOR) Error() string { return fmt.Sprintf("malformed cbor: %v", e.Err) }
func (e *MalformedCBOR) Unwrap() error { return e.Err }

// Lookup errors.

// NotFound is returned by the store when a transaction is absent, or
// present but not of the expected variant: both cases report the same
// shape so callers don't need to distinguish "missing" from "wrong kind".
type NotFound struct {
	ID           fmt.Stringer
	ExpectedType fmt.Stringer
}

func (e *NotFound) Error() string {
	return fmt.Sprintf("%s transaction %s not found", e.ExpectedType, e.ID)
}

// WrongVariant is returned when a caller projects a generic transaction
// onto the wrong payload type.
type WrongVariant struct {
	Expected, Got fmt.Stringer
}

func (e *WrongVariant) Error() string {
	return fmt.Sprintf("wrong transaction variant: expected %s, got %s", e.Expected, e.Got)
}

// Protocol errors.

// TrusteeNotInElection is returned when a signing public key does not
// match any trustee record in an election.
type TrusteeNotInElection struct{}

func (e *TrusteeNotInElection) Error() string { return "trustee not found in election" }

// TrusteeIndexZero is returned when a trustee index of 0 (reserved for
// "unknown") is used where a valid 1-based index is required.
type TrusteeIndexZero struct{}

func (e *TrusteeIndexZero) Error() string { return "trustee index cannot be zero" }

// DuplicateTrusteeIndex is returned when two trustees in the same
// election share an index.
type DuplicateTrusteeIndex struct {
	Index int
}

func (e *DuplicateTrusteeIndex) Error() string {
	return fmt.Sprintf("duplicate trustee index: %d", e.Index)
}

// TrusteeIndexOutOfRange is returned when a trustee index falls outside
// [1, numTrustees].
type TrusteeIndexOutOfRange struct {
	Index, NumTrustees int
}

func (e *TrusteeIndexOutOfRange) Error() string {
	return fmt.Sprintf("trustee index %d out of range [1, %d]", e.Index, e.NumTrustees)
}

// MissingCommitment is returned when a trustee referenced by a share or
// public-key computation has no recorded commitment.
type MissingCommitment struct {
	TrusteeIndex int
}

func (e *MissingCommitment) Error() string {
	return fmt.Sprintf("missing commitment for trustee index %d", e.TrusteeIndex)
}

// MissingShare is returned when a required encrypted share is absent.
type MissingShare struct {
	SenderIndex int
}

func (e *MissingShare) Error() string {
	return fmt.Sprintf("missing share from trustee index %d", e.SenderIndex)
}

// ThresholdOutOfRange is returned when 1 <= k <= n does not hold.
type ThresholdOutOfRange struct {
	K, N int
}

func (e *ThresholdOutOfRange) Error() string {
	return fmt.Sprintf("threshold out of range: k=%d, n=%d (require 1<=k<=n)", e.K, e.N)
}

// Cryptographic errors.

// BadSignature is returned when an Ed25519 signature fails to verify.
type BadSignature struct{}

func (e *BadSignature) Error() string { return "signature verification failed" }

// BadProof is returned when a zero-knowledge proof fails to verify.
type BadProof struct{}

func (e *BadProof) Error() string { return "proof verification failed" }

// DecryptFailure is returned when a ciphertext cannot be recovered, e.g.
// fewer than the threshold number of valid partial decryptions were
// supplied, or the recovered point does not decode to a byte message.
type DecryptFailure struct {
	Reason string
}

func (e *DecryptFailure) Error() string { return fmt.Sprintf("decryption failed: %s", e.Reason) }

// ScalarConversion is returned when bytes cannot be interpreted as a
// valid scalar in the curve's field.
type ScalarConversion struct {
	Reason string
}

func (e *ScalarConversion) Error() string {
	return fmt.Sprintf("scalar conversion failed: %s", e.Reason)
}
