package trustee

import (
	"crypto/cipher"
	"crypto/ed25519"

	"github.com/wikiocracy/voteflow/crypto"
	"github.com/wikiocracy/voteflow/store"
	"github.com/wikiocracy/voteflow/transaction"
	"github.com/wikiocracy/voteflow/types"
)

// State is one trustee's position in the DKG and decryption protocol for
// a single election, reconstructed entirely from what that trustee has
// already published to the store.
type State int

const (
	StateInit State = iota
	StateCommitted
	StateSharesDistributed
	StatePublicKeyDerived
	StateDecrypting
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateCommitted:
		return "committed"
	case StateSharesDistributed:
		return "shares_distributed"
	case StatePublicKeyDerived:
		return "public_key_derived"
	case StateDecrypting:
		return "decrypting"
	default:
		return "unknown"
	}
}

// ownerID returns the trustee_id a stored transaction was published
// under, for the four payload variants that drive the DKG/decryption
// state machine. Any other variant reports ok=false.
func ownerID(env transaction.Envelope) (string, bool) {
	switch tx := env.(type) {
	case transaction.SignedTransaction[transaction.KeyGenCommitmentTransaction]:
		return tx.Transaction.TrusteeID, true
	case transaction.SignedTransaction[transaction.KeyGenShareTransaction]:
		return tx.Transaction.TrusteeID, true
	case transaction.SignedTransaction[transaction.KeyGenPublicKeyTransaction]:
		return tx.Transaction.TrusteeID, true
	case transaction.SignedTransaction[transaction.PartialDecryptionTransaction]:
		return tx.Transaction.TrusteeID, true
	default:
		return "", false
	}
}

// published reports whether self has a valid-signature entry of txType
// in s for electionID.
func published(s store.Store, electionID types.Identifier, txType types.TransactionType, self Trustee) bool {
	for _, env := range s.GetMultiple(electionID, txType) {
		id, ok := ownerID(env)
		if !ok || id != self.ID {
			continue
		}
		if env.VerifySignature() != nil {
			continue
		}
		return true
	}
	return false
}

// CurrentState inspects the store for electionID and reports which stage
// of the protocol self has reached, based solely on which of its own
// transactions are already published. Every state transition this
// package makes is driven by store contents, never by in-memory history.
func CurrentState(s store.Store, electionID types.Identifier, self Trustee) State {
	if !published(s, electionID, types.KeyGenCommitment, self) {
		return StateInit
	}
	if !published(s, electionID, types.KeyGenShare, self) {
		return StateCommitted
	}
	if !published(s, electionID, types.KeyGenPublicKey, self) {
		return StateSharesDistributed
	}
	if !published(s, electionID, types.PartialDecryption, self) {
		return StatePublicKeyDerived
	}
	return StateDecrypting
}

// toHexBytes converts a commitment's marshaled point list into the wire
// representation KeyGenCommitmentTransaction carries.
func toHexBytes(points [][]byte) []types.HexBytes {
	out := make([]types.HexBytes, len(points))
	for i, p := range points {
		out[i] = types.HexBytes(p)
	}
	return out
}

func fromHexBytes(points []types.HexBytes) [][]byte {
	out := make([][]byte, len(points))
	for i, p := range points {
		out[i] = []byte(p)
	}
	return out
}

// gatherCommitments collects every trustee's published commitment from
// the store, reporting ready=false (not an error) if any trustee has not
// yet published one: a precondition miss is retried on the next store
// update, not treated as a failure.
func gatherCommitments(s store.Store, electionID types.Identifier, trustees []Trustee) (map[string]crypto.Commitment, bool, error) {
	out := make(map[string]crypto.Commitment, len(trustees))
	for _, env := range s.GetMultiple(electionID, types.KeyGenCommitment) {
		tx, ok := env.(transaction.SignedTransaction[transaction.KeyGenCommitmentTransaction])
		if !ok || tx.VerifySignature() != nil {
			continue
		}
		commitment, err := crypto.CommitmentFromBytes(fromHexBytes(tx.Transaction.Commitment))
		if err != nil {
			return nil, false, err
		}
		out[tx.Transaction.TrusteeID] = commitment
	}
	for _, tr := range trustees {
		if _, ok := out[tr.ID]; !ok {
			return nil, false, nil
		}
	}
	return out, true, nil
}

// gatherIncomingShares collects every KeyGenShareTransaction's entry
// addressed to self, keyed by sender trustee ID, reporting ready=false if
// any trustee (including self) has not yet broadcast its shares.
func gatherIncomingShares(s store.Store, electionID types.Identifier, trustees []Trustee, self Trustee) (map[string]transaction.EncryptedShare, bool, error) {
	out := make(map[string]transaction.EncryptedShare, len(trustees))
	for _, env := range s.GetMultiple(electionID, types.KeyGenShare) {
		tx, ok := env.(transaction.SignedTransaction[transaction.KeyGenShareTransaction])
		if !ok || tx.VerifySignature() != nil {
			continue
		}
		share, ok := tx.Transaction.Shares[self.ID]
		if !ok {
			continue
		}
		out[tx.Transaction.TrusteeID] = share
	}
	for _, tr := range trustees {
		if _, ok := out[tr.ID]; !ok {
			return nil, false, nil
		}
	}
	return out, true, nil
}

// tryPartialDecrypt builds and signs a PartialDecryptionTransaction for
// voteID if self has not already published one for it, and if the vote's
// ciphertext is already in the store. A missing vote is a non-fatal
// precondition miss, not an error: it is retried whenever the store is
// next consulted.
func tryPartialDecrypt(s store.Store, electionID types.Identifier, sk ed25519.PrivateKey, self Trustee, trustees []Trustee, commitments map[string]crypto.Commitment, shares map[string]transaction.EncryptedShare, voteID types.Identifier) (transaction.Envelope, error) {
	for _, env := range s.GetMultiple(electionID, types.PartialDecryption) {
		tx, ok := env.(transaction.SignedTransaction[transaction.PartialDecryptionTransaction])
		if ok && tx.Transaction.TrusteeID == self.ID && tx.Transaction.VoteID == voteID {
			return nil, nil
		}
	}

	voteTx, err := store.GetTyped[transaction.VoteTransaction](s, voteID)
	if err != nil {
		return nil, nil
	}

	decryptShare, err := self.PartialDecrypt(sk, trustees, commitments, shares, voteTx.Transaction.Ciphertext)
	if err != nil {
		return nil, err
	}
	id, err := types.New(electionID, types.PartialDecryption)
	if err != nil {
		return nil, err
	}
	payload := transaction.PartialDecryptionTransaction{
		PartialDecryptionID: id,
		TrusteeID:           self.ID,
		TrusteePublicKey:    types.HexBytes(self.PublicKey),
		VoteID:              voteID,
		Share:               decryptShare,
	}
	signed, err := transaction.Sign(payload, sk)
	if err != nil {
		return nil, err
	}
	return signed, nil
}

// Advance inspects self's CurrentState in s and, if that state's
// preconditions are already met in the store, builds and signs the next
// transaction in the DKG/decryption protocol. It returns (nil, state,
// nil) when the preconditions are not yet met: this is the protocol's
// normal "not ready yet" outcome, not an error, and the caller is
// expected to call Advance again after the store changes. The caller is
// responsible for inserting the returned transaction into the store.
//
// decryptVoteID is only consulted once self has reached
// StatePublicKeyDerived or StateDecrypting: it names the vote self should
// attempt a partial decryption for on this call, since a trustee may be
// asked to decrypt many votes over the lifetime of an election. A nil
// decryptVoteID leaves self in place with no work to do.
func Advance(s store.Store, electionID types.Identifier, sk ed25519.PrivateKey, self Trustee, trustees []Trustee, rand cipher.Stream, decryptVoteID *types.Identifier) (transaction.Envelope, State, error) {
	state := CurrentState(s, electionID, self)

	switch state {
	case StateInit:
		commitment, err := self.KeygenCommitment(sk)
		if err != nil {
			return nil, state, err
		}
		commitmentBytes, err := commitment.MarshalBinary()
		if err != nil {
			return nil, state, err
		}
		id, err := types.New(electionID, types.KeyGenCommitment)
		if err != nil {
			return nil, state, err
		}
		payload := transaction.KeyGenCommitmentTransaction{
			CommitmentID:     id,
			TrusteeID:        self.ID,
			TrusteePublicKey: types.HexBytes(self.PublicKey),
			Commitment:       toHexBytes(commitmentBytes),
		}
		signed, err := transaction.Sign(payload, sk)
		if err != nil {
			return nil, state, err
		}
		return signed, state, nil

	case StateCommitted:
		commitments, ready, err := gatherCommitments(s, electionID, trustees)
		if err != nil || !ready {
			return nil, state, err
		}
		shares, err := self.GenerateShares(sk, rand, trustees, commitments)
		if err != nil {
			return nil, state, err
		}
		id, err := types.New(electionID, types.KeyGenShare)
		if err != nil {
			return nil, state, err
		}
		payload := transaction.KeyGenShareTransaction{
			ShareID:          id,
			TrusteeID:        self.ID,
			TrusteePublicKey: types.HexBytes(self.PublicKey),
			Shares:           shares,
		}
		signed, err := transaction.Sign(payload, sk)
		if err != nil {
			return nil, state, err
		}
		return signed, state, nil

	case StateSharesDistributed:
		commitments, ready, err := gatherCommitments(s, electionID, trustees)
		if err != nil || !ready {
			return nil, state, err
		}
		incoming, ready, err := gatherIncomingShares(s, electionID, trustees, self)
		if err != nil || !ready {
			return nil, state, err
		}
		jointPublic, proof, err := self.GeneratePublicKey(sk, trustees, commitments, incoming)
		if err != nil {
			return nil, state, err
		}
		id, err := types.New(electionID, types.KeyGenPublicKey)
		if err != nil {
			return nil, state, err
		}
		payload := transaction.KeyGenPublicKeyTransaction{
			PublicKeyID:      id,
			TrusteeID:        self.ID,
			TrusteePublicKey: types.HexBytes(self.PublicKey),
			ElGamalPublicKey: jointPublic,
			Proof:            proof,
		}
		signed, err := transaction.Sign(payload, sk)
		if err != nil {
			return nil, state, err
		}
		return signed, state, nil

	case StatePublicKeyDerived, StateDecrypting:
		if decryptVoteID == nil {
			return nil, state, nil
		}
		commitments, ready, err := gatherCommitments(s, electionID, trustees)
		if err != nil || !ready {
			return nil, state, err
		}
		incoming, ready, err := gatherIncomingShares(s, electionID, trustees, self)
		if err != nil || !ready {
			return nil, state, err
		}
		env, err := tryPartialDecrypt(s, electionID, sk, self, trustees, commitments, incoming, *decryptVoteID)
		if err != nil || env == nil {
			return nil, state, err
		}
		return env, StateDecrypting, nil

	default:
		return nil, state, nil
	}
}
