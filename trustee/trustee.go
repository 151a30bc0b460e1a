// Package trustee implements the per-participant side of the DKG and
// threshold-decryption protocol: committing to a secret polynomial,
// distributing encrypted shares, deriving the joint public key, and
// producing partial decryptions that a Decryption aggregator combines.
//
// Every protocol method takes the trustee's signing secret as an
// explicit argument and recomputes whatever it needs from it via
// crypto.GeneratorStream rather than caching derived state: a Trustee
// value is just the public roster entry plus its denormalized role
// (index, quorum size), so two processes that agree on the roster and
// hold the same signing secret always rebuild byte-identical output.
package trustee

import (
	"crypto/ed25519"

	"github.com/google/uuid"
	"github.com/wikiocracy/voteflow/crypto"
	"github.com/wikiocracy/voteflow/errs"
	"github.com/wikiocracy/voteflow/transaction"
	"github.com/wikiocracy/voteflow/types"
)

// Trustee is one election participant's protocol identity: its signing
// and ECIES public keys, its 1-based index, and the election's quorum
// parameters.
type Trustee struct {
	ID          string
	PublicKey   ed25519.PublicKey
	ECIESKey    crypto.Point
	Index       int
	NumTrustees int
	Threshold   int
}

// ValidateRoster checks that roster is well-formed: every trustee index
// is within [1, len(roster)], and no two trustees share an index.
func ValidateRoster(roster []transaction.Trustee) error {
	seen := make(map[int]bool, len(roster))
	for _, t := range roster {
		if t.Index == 0 {
			return &errs.TrusteeIndexZero{}
		}
		if t.Index < 1 || t.Index > len(roster) {
			return &errs.TrusteeIndexOutOfRange{Index: t.Index, NumTrustees: len(roster)}
		}
		if seen[t.Index] {
			return &errs.DuplicateTrusteeIndex{Index: t.Index}
		}
		seen[t.Index] = true
	}
	return nil
}

// FromElectionTx locates the roster entry whose PublicKey matches
// signingPublicKey within electionTx and returns it as a Trustee. A
// trustee with index 0 is treated as malformed: 0 is reserved to mean
// "no such trustee" throughout the protocol.
func FromElectionTx(electionTx transaction.ElectionTransaction, signingPublicKey ed25519.PublicKey) (Trustee, error) {
	if err := ValidateRoster(electionTx.Trustees); err != nil {
		return Trustee{}, err
	}
	for _, t := range electionTx.Trustees {
		if !ed25519.PublicKey(t.PublicKey).Equal(signingPublicKey) {
			continue
		}
		if t.Index == 0 {
			return Trustee{}, &errs.TrusteeIndexZero{}
		}
		eciesPoint := crypto.Suite.Point()
		if err := eciesPoint.UnmarshalBinary(t.ECIESKey); err != nil {
			return Trustee{}, &errs.ScalarConversion{Reason: "malformed ecies key: " + err.Error()}
		}
		return Trustee{
			ID:          t.ID,
			PublicKey:   signingPublicKey,
			ECIESKey:    eciesPoint,
			Index:       t.Index,
			NumTrustees: len(electionTx.Trustees),
			Threshold:   electionTx.TrusteesThreshold,
		}, nil
	}
	return Trustee{}, &errs.TrusteeNotInElection{}
}

// New mints a fresh trustee identity for election slot index, generating
// a new Ed25519 signing key and deriving the matching ECIES key from it.
// The returned private key is the only secret the caller needs to
// persist; everything else is rederived on demand.
func New(index, numTrustees, threshold int) (Trustee, ed25519.PrivateKey, error) {
	if index == 0 {
		return Trustee{}, nil, &errs.TrusteeIndexZero{}
	}
	if index < 1 || index > numTrustees {
		return Trustee{}, nil, &errs.TrusteeIndexOutOfRange{Index: index, NumTrustees: numTrustees}
	}
	if threshold < 1 || threshold > numTrustees {
		return Trustee{}, nil, &errs.ThresholdOutOfRange{K: threshold, N: numTrustees}
	}
	pub, sk, err := ed25519.GenerateKey(nil)
	if err != nil {
		return Trustee{}, nil, err
	}
	eciesPublic, _, err := crypto.ECIESKeyPair(sk)
	if err != nil {
		return Trustee{}, nil, err
	}
	return Trustee{
		ID:          uuid.New().String(),
		PublicKey:   pub,
		ECIESKey:    eciesPublic,
		Index:       index,
		NumTrustees: numTrustees,
		Threshold:   threshold,
	}, sk, nil
}

// ElectionEntry renders t as the roster entry an ElectionTransaction
// publishes.
func (t Trustee) ElectionEntry() (transaction.Trustee, error) {
	eciesBytes, err := t.ECIESKey.MarshalBinary()
	if err != nil {
		return transaction.Trustee{}, err
	}
	return transaction.Trustee{
		ID:        t.ID,
		PublicKey: types.HexBytes(t.PublicKey),
		ECIESKey:  eciesBytes,
		Index:     t.Index,
	}, nil
}

// validateCommitments checks that commitments has exactly one entry for
// every trustee in trustees, keyed by trustee ID.
func validateCommitments(trustees []Trustee, commitments map[string]crypto.Commitment) error {
	for _, tr := range trustees {
		if _, ok := commitments[tr.ID]; !ok {
			return &errs.MissingCommitment{TrusteeIndex: tr.Index}
		}
	}
	return nil
}

// validateShares checks that shares has exactly one entry for every
// trustee in trustees, keyed by trustee ID (including this trustee's own
// self-addressed share).
func validateShares[V any](trustees []Trustee, shares map[string]V) error {
	for _, tr := range trustees {
		if _, ok := shares[tr.ID]; !ok {
			return &errs.MissingShare{SenderIndex: tr.Index}
		}
	}
	return nil
}
