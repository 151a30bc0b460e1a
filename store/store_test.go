package store

import (
	"crypto/ed25519"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/wikiocracy/voteflow/transaction"
	"github.com/wikiocracy/voteflow/types"
)

func signElection(c *qt.C, electionID types.Identifier) transaction.SignedTransaction[transaction.ElectionTransaction] {
	pub, sk, err := ed25519.GenerateKey(nil)
	c.Assert(err, qt.IsNil)
	signed, err := transaction.Sign(transaction.ElectionTransaction{
		ElectionID:         electionID,
		TrusteesThreshold:  2,
		AuthorityPublicKey: types.HexBytes(pub),
	}, sk)
	c.Assert(err, qt.IsNil)
	return signed
}

// signVote builds an anonymous vote envelope directly: VoteTransaction
// exposes no public key, so VerifySignature succeeds trivially regardless
// of the (here empty) signature bytes.
func signVote(c *qt.C, electionID types.Identifier) transaction.SignedTransaction[transaction.VoteTransaction] {
	voteID, err := types.New(electionID, types.Vote)
	c.Assert(err, qt.IsNil)
	return transaction.SignedTransaction[transaction.VoteTransaction]{
		Transaction: transaction.VoteTransaction{
			VoteID:     voteID,
			Ciphertext: transaction.Ciphertext{C1: []byte("c1"), C2: []byte("c2")},
		},
	}
}

// TestGetMultipleRangeIsolation is scenario S4: range queries only return
// transactions of the requested type within the requested election,
// regardless of insertion order, in ascending Identifier order.
func TestGetMultipleRangeIsolation(t *testing.T) {
	c := qt.New(t)
	s := NewMemStore()

	e1 := signElection(c, mustElectionID(c))
	e2 := mustElectionID(c)

	vote1 := signVote(c, e1.ID())
	vote2 := signVote(c, e1.ID())
	vote3 := signVote(c, e1.ID())
	otherElectionVote := signVote(c, e2)

	partialID, err := types.New(e1.ID(), types.PartialDecryption)
	c.Assert(err, qt.IsNil)
	partial := transaction.SignedTransaction[transaction.PartialDecryptionTransaction]{
		Transaction: transaction.PartialDecryptionTransaction{
			PartialDecryptionID: partialID,
			VoteID:              vote1.ID(),
		},
	}

	// Insert out of order on purpose.
	s.Set(vote3)
	s.Set(e1)
	s.Set(otherElectionVote)
	s.Set(partial)
	s.Set(vote1)
	s.Set(vote2)

	votes := s.GetMultiple(e1.ID(), types.Vote)
	c.Assert(len(votes), qt.Equals, 3)
	for i := 1; i < len(votes); i++ {
		c.Assert(votes[i-1].ID().String() < votes[i].ID().String(), qt.Equals, true)
	}
	for _, v := range votes {
		c.Assert(v.ID().ElectionID(), qt.Equals, e1.ID().ElectionID())
		c.Assert(v.ID().Type(), qt.Equals, types.Vote)
	}

	partials := s.GetMultiple(e1.ID(), types.PartialDecryption)
	c.Assert(len(partials), qt.Equals, 1)
}

// TestGetTypedWrongVariantIsNotFound is scenario S5.
func TestGetTypedWrongVariantIsNotFound(t *testing.T) {
	c := qt.New(t)
	s := NewMemStore()

	election := signElection(c, mustElectionID(c))
	s.Set(election)

	_, err := GetTyped[transaction.VoteTransaction](s, election.ID())
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestGetTypedAbsentIsNotFound(t *testing.T) {
	c := qt.New(t)
	s := NewMemStore()

	missingID, err := types.NewForElection()
	c.Assert(err, qt.IsNil)

	_, err = GetTyped[transaction.ElectionTransaction](s, missingID)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestGetTypedProjectsMatchingVariant(t *testing.T) {
	c := qt.New(t)
	s := NewMemStore()

	election := signElection(c, mustElectionID(c))
	s.Set(election)

	typed, err := GetTyped[transaction.ElectionTransaction](s, election.ID())
	c.Assert(err, qt.IsNil)
	c.Assert(typed.Transaction.TrusteesThreshold, qt.Equals, 2)
}

func mustElectionID(c *qt.C) types.Identifier {
	id, err := types.NewForElection()
	c.Assert(err, qt.IsNil)
	return id
}
