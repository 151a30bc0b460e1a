package trustee

import (
	"crypto/ed25519"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/wikiocracy/voteflow/crypto"
	"github.com/wikiocracy/voteflow/transaction"
)

// roster builds n trustees with threshold k and their signing keys.
func roster(c *qt.C, n, k int) ([]Trustee, []ed25519.PrivateKey) {
	trustees := make([]Trustee, n)
	sks := make([]ed25519.PrivateKey, n)
	for i := 0; i < n; i++ {
		tr, sk, err := New(i+1, n, k)
		c.Assert(err, qt.IsNil)
		trustees[i] = tr
		sks[i] = sk
	}
	return trustees, sks
}

// TestDKGAndThresholdDecrypt is scenario S1: three trustees run the full
// DKG, derive byte-identical joint public keys, and a 2-of-3 quorum
// recovers "SANTA CLAUS".
func TestDKGAndThresholdDecrypt(t *testing.T) {
	c := qt.New(t)
	trustees, sks := roster(c, 3, 2)

	commitments := make(map[string]crypto.Commitment, 3)
	for i, tr := range trustees {
		commitment, err := tr.KeygenCommitment(sks[i])
		c.Assert(err, qt.IsNil)
		commitments[tr.ID] = commitment
	}

	// sharesFrom[senderID] = the shares that sender distributed to every recipient.
	sharesFrom := make(map[string]map[string]transaction.EncryptedShare, 3)
	for i, tr := range trustees {
		shares, err := tr.GenerateShares(sks[i], crypto.RandomStream(), trustees, commitments)
		c.Assert(err, qt.IsNil)
		sharesFrom[tr.ID] = shares
	}

	// incomingTo[recipientID] = one entry per sender, addressed to recipient.
	incomingTo := make(map[string]map[string]transaction.EncryptedShare, 3)
	for _, recipient := range trustees {
		incoming := make(map[string]transaction.EncryptedShare, 3)
		for _, sender := range trustees {
			incoming[sender.ID] = sharesFrom[sender.ID][recipient.ID]
		}
		incomingTo[recipient.ID] = incoming
	}

	var jointPublicKeys [][]byte
	proofs := make(map[string]transaction.PubkeyProof, 3)
	for i, tr := range trustees {
		jointKey, proof, err := tr.GeneratePublicKey(sks[i], trustees, commitments, incomingTo[tr.ID])
		c.Assert(err, qt.IsNil)
		jointPublicKeys = append(jointPublicKeys, jointKey)
		proofs[tr.ID] = proof
	}
	for i := 1; i < len(jointPublicKeys); i++ {
		c.Assert(jointPublicKeys[i], qt.DeepEquals, jointPublicKeys[0])
	}

	jointPublicPoint := crypto.Suite.Point()
	c.Assert(jointPublicPoint.UnmarshalBinary(jointPublicKeys[0]), qt.IsNil)
	ct, err := crypto.Encrypt(jointPublicPoint, []byte("SANTA CLAUS"), crypto.RandomStream())
	c.Assert(err, qt.IsNil)
	c1Bytes, err := ct.C1.MarshalBinary()
	c.Assert(err, qt.IsNil)
	c2Bytes, err := ct.C2.MarshalBinary()
	c.Assert(err, qt.IsNil)
	wireCiphertext := transaction.Ciphertext{C1: c1Bytes, C2: c2Bytes}

	share1, err := trustees[0].PartialDecrypt(sks[0], trustees, commitments, incomingTo[trustees[0].ID], wireCiphertext)
	c.Assert(err, qt.IsNil)
	share2, err := trustees[1].PartialDecrypt(sks[1], trustees, commitments, incomingTo[trustees[1].ID], wireCiphertext)
	c.Assert(err, qt.IsNil)

	decryption, err := NewDecryption(2, wireCiphertext)
	c.Assert(err, qt.IsNil)
	c.Assert(decryption.AddShare(trustees[0].Index, proofs[trustees[0].ID], share1), qt.IsNil)
	c.Assert(decryption.AddShare(trustees[1].Index, proofs[trustees[1].ID], share2), qt.IsNil)

	plaintext, err := decryption.Finish()
	c.Assert(err, qt.IsNil)
	c.Assert(string(plaintext), qt.Equals, "SANTA CLAUS")
}

// TestBelowQuorumFails is scenario S2.
func TestBelowQuorumFails(t *testing.T) {
	c := qt.New(t)
	trustees, sks := roster(c, 3, 2)

	commitments := make(map[string]crypto.Commitment, 3)
	for i, tr := range trustees {
		commitment, err := tr.KeygenCommitment(sks[i])
		c.Assert(err, qt.IsNil)
		commitments[tr.ID] = commitment
	}
	sharesFrom := make(map[string]map[string]transaction.EncryptedShare, 3)
	for i, tr := range trustees {
		shares, err := tr.GenerateShares(sks[i], crypto.RandomStream(), trustees, commitments)
		c.Assert(err, qt.IsNil)
		sharesFrom[tr.ID] = shares
	}
	incomingTo := make(map[string]map[string]transaction.EncryptedShare, 3)
	for _, recipient := range trustees {
		incoming := make(map[string]transaction.EncryptedShare, 3)
		for _, sender := range trustees {
			incoming[sender.ID] = sharesFrom[sender.ID][recipient.ID]
		}
		incomingTo[recipient.ID] = incoming
	}

	jointKey, proof1, err := trustees[0].GeneratePublicKey(sks[0], trustees, commitments, incomingTo[trustees[0].ID])
	c.Assert(err, qt.IsNil)
	jointPublicPoint := crypto.Suite.Point()
	c.Assert(jointPublicPoint.UnmarshalBinary(jointKey), qt.IsNil)

	ct, err := crypto.Encrypt(jointPublicPoint, []byte("SANTA CLAUS"), crypto.RandomStream())
	c.Assert(err, qt.IsNil)
	c1Bytes, _ := ct.C1.MarshalBinary()
	c2Bytes, _ := ct.C2.MarshalBinary()
	wireCiphertext := transaction.Ciphertext{C1: c1Bytes, C2: c2Bytes}

	share1, err := trustees[0].PartialDecrypt(sks[0], trustees, commitments, incomingTo[trustees[0].ID], wireCiphertext)
	c.Assert(err, qt.IsNil)

	decryption, err := NewDecryption(2, wireCiphertext)
	c.Assert(err, qt.IsNil)
	c.Assert(decryption.AddShare(trustees[0].Index, proof1, share1), qt.IsNil)

	_, err = decryption.Finish()
	c.Assert(err, qt.Not(qt.IsNil))
}

// TestTamperedProofRejected is scenario S3.
func TestTamperedProofRejected(t *testing.T) {
	c := qt.New(t)
	trustees, sks := roster(c, 3, 2)

	commitments := make(map[string]crypto.Commitment, 3)
	for i, tr := range trustees {
		commitment, err := tr.KeygenCommitment(sks[i])
		c.Assert(err, qt.IsNil)
		commitments[tr.ID] = commitment
	}
	sharesFrom := make(map[string]map[string]transaction.EncryptedShare, 3)
	for i, tr := range trustees {
		shares, err := tr.GenerateShares(sks[i], crypto.RandomStream(), trustees, commitments)
		c.Assert(err, qt.IsNil)
		sharesFrom[tr.ID] = shares
	}
	incomingTo := make(map[string]map[string]transaction.EncryptedShare, 3)
	for _, recipient := range trustees {
		incoming := make(map[string]transaction.EncryptedShare, 3)
		for _, sender := range trustees {
			incoming[sender.ID] = sharesFrom[sender.ID][recipient.ID]
		}
		incomingTo[recipient.ID] = incoming
	}

	jointKey, proof1, err := trustees[0].GeneratePublicKey(sks[0], trustees, commitments, incomingTo[trustees[0].ID])
	c.Assert(err, qt.IsNil)
	jointPublicPoint := crypto.Suite.Point()
	c.Assert(jointPublicPoint.UnmarshalBinary(jointKey), qt.IsNil)

	ct, err := crypto.Encrypt(jointPublicPoint, []byte("SANTA CLAUS"), crypto.RandomStream())
	c.Assert(err, qt.IsNil)
	c1Bytes, _ := ct.C1.MarshalBinary()
	c2Bytes, _ := ct.C2.MarshalBinary()
	wireCiphertext := transaction.Ciphertext{C1: c1Bytes, C2: c2Bytes}

	share1, err := trustees[0].PartialDecrypt(sks[0], trustees, commitments, incomingTo[trustees[0].ID], wireCiphertext)
	c.Assert(err, qt.IsNil)

	tampered := share1
	tampered.Proof.Z = append([]byte(nil), share1.Proof.Z...)
	tampered.Proof.Z[0] ^= 0xFF

	decryption, err := NewDecryption(2, wireCiphertext)
	c.Assert(err, qt.IsNil)
	c.Assert(decryption.AddShare(trustees[0].Index, proof1, tampered), qt.Not(qt.IsNil))
}

// TestDeterministicRederivation is scenario S6: two Trustee instances
// built from the same signing secret derive identical ECIES keys,
// identical commitments, and (given an identically-seeded stream)
// identical share ciphertexts.
func TestDeterministicRederivation(t *testing.T) {
	c := qt.New(t)

	_, sk, err := ed25519.GenerateKey(nil)
	c.Assert(err, qt.IsNil)

	recipientA, recipientASK, err := New(2, 3, 2)
	c.Assert(err, qt.IsNil)
	recipientB, recipientBSK, err := New(3, 3, 2)
	c.Assert(err, qt.IsNil)

	self1 := Trustee{ID: "self", ECIESKey: mustECIESPublic(c, sk), Index: 1, NumTrustees: 3, Threshold: 2}
	self2 := Trustee{ID: "self", ECIESKey: mustECIESPublic(c, sk), Index: 1, NumTrustees: 3, Threshold: 2}
	c.Assert(self1.ECIESKey.Equal(self2.ECIESKey), qt.Equals, true)

	commitment1, err := self1.KeygenCommitment(sk)
	c.Assert(err, qt.IsNil)
	commitment2, err := self2.KeygenCommitment(sk)
	c.Assert(err, qt.IsNil)
	enc1, err := commitment1.MarshalBinary()
	c.Assert(err, qt.IsNil)
	enc2, err := commitment2.MarshalBinary()
	c.Assert(err, qt.IsNil)
	c.Assert(enc1, qt.DeepEquals, enc2)

	recipientA.ID, recipientB.ID = "a", "b"
	trustees := []Trustee{self1, recipientA, recipientB}
	commitments := map[string]crypto.Commitment{
		"self": commitment1,
		"a":    mustCommitment(c, recipientA, recipientASK),
		"b":    mustCommitment(c, recipientB, recipientBSK),
	}

	seed, err := crypto.DeriveSeed(sk, "s6-determinism-test")
	c.Assert(err, qt.IsNil)
	stream1, err := crypto.DRBG(seed)
	c.Assert(err, qt.IsNil)
	shares1, err := self1.GenerateShares(sk, stream1, trustees, commitments)
	c.Assert(err, qt.IsNil)

	stream2, err := crypto.DRBG(seed)
	c.Assert(err, qt.IsNil)
	shares2, err := self2.GenerateShares(sk, stream2, trustees, commitments)
	c.Assert(err, qt.IsNil)

	for id := range shares1 {
		c.Assert(shares1[id].Ephemeral, qt.DeepEquals, shares2[id].Ephemeral)
		c.Assert(shares1[id].Nonce, qt.DeepEquals, shares2[id].Nonce)
		c.Assert(shares1[id].Cipher, qt.DeepEquals, shares2[id].Cipher)
	}
}

func mustECIESPublic(c *qt.C, sk ed25519.PrivateKey) crypto.Point {
	pub, _, err := crypto.ECIESKeyPair(sk)
	c.Assert(err, qt.IsNil)
	return pub
}

func mustCommitment(c *qt.C, tr Trustee, sk ed25519.PrivateKey) crypto.Commitment {
	commitment, err := tr.KeygenCommitment(sk)
	c.Assert(err, qt.IsNil)
	return commitment
}
