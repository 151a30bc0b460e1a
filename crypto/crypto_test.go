package crypto

import (
	"crypto/ed25519"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestPolynomialCommitmentRoundTrip(t *testing.T) {
	c := qt.New(t)

	stream, err := GeneratorStream([]byte("trustee-a-signing-secret"))
	c.Assert(err, qt.IsNil)

	poly := NewPolynomial(2, stream)
	commitment := poly.Commit()

	for x := 1; x <= 3; x++ {
		share := poly.Eval(x)
		c.Assert(VerifyShare(commitment, x, share), qt.Equals, true)
	}

	// A share for the wrong index must not verify.
	c.Assert(VerifyShare(commitment, 1, poly.Eval(2)), qt.Equals, false)
}

func TestCommitmentBinaryRoundTrip(t *testing.T) {
	c := qt.New(t)

	stream, err := GeneratorStream([]byte("trustee-b"))
	c.Assert(err, qt.IsNil)
	commitment := NewPolynomial(3, stream).Commit()

	encoded, err := commitment.MarshalBinary()
	c.Assert(err, qt.IsNil)
	c.Assert(len(encoded), qt.Equals, 3)

	decoded, err := CommitmentFromBytes(encoded)
	c.Assert(err, qt.IsNil)
	for i := range commitment.Points {
		c.Assert(decoded.Points[i].Equal(commitment.Points[i]), qt.Equals, true)
	}
}

func TestLagrangeReconstructsSecret(t *testing.T) {
	c := qt.New(t)

	stream, err := GeneratorStream([]byte("secret-for-reconstruction"))
	c.Assert(err, qt.IsNil)
	poly := NewPolynomial(2, stream)
	secret := poly.Eval(0) // f(0) is the shared secret

	shares := []Scalar{poly.Eval(1), poly.Eval(2)}
	indices := []int{1, 2}

	sum := Suite.Scalar().Zero()
	for i, s := range shares {
		lambda := LagrangeAtZero(indices, indices[i])
		sum = Suite.Scalar().Add(sum, Suite.Scalar().Mul(lambda, s))
	}
	c.Assert(sum.Equal(secret), qt.Equals, true)
}

func TestElGamalDirectDecrypt(t *testing.T) {
	c := qt.New(t)

	stream, err := GeneratorStream([]byte("voter-encryption-test"))
	c.Assert(err, qt.IsNil)

	priv := Suite.Scalar().Pick(stream)
	pub := Suite.Point().Mul(priv, nil)

	ct, err := Encrypt(pub, []byte("SANTA CLAUS"), stream)
	c.Assert(err, qt.IsNil)

	plaintext, err := Decrypt(priv, ct)
	c.Assert(err, qt.IsNil)
	c.Assert(string(plaintext), qt.Equals, "SANTA CLAUS")
}

func TestElGamalThresholdDecrypt(t *testing.T) {
	c := qt.New(t)

	stream, err := GeneratorStream([]byte("threshold-test-secret"))
	c.Assert(err, qt.IsNil)

	threshold, numTrustees := 2, 3
	poly := NewPolynomial(threshold, stream)
	secret := poly.Eval(0)
	pub := Suite.Point().Mul(secret, nil)

	ct, err := Encrypt(pub, []byte("SANTA CLAUS"), stream)
	c.Assert(err, qt.IsNil)

	// Only 2 of 3 trustees participate.
	indices := []int{1, 3}
	shares := make([]Point, len(indices))
	for i, idx := range indices {
		x := poly.Eval(idx)
		shares[i] = Suite.Point().Mul(x, ct.C1)
	}

	sharedSecret := ReconstructSecret(shares, indices)
	plaintext, err := DecryptCombined(ct, sharedSecret)
	c.Assert(err, qt.IsNil)
	c.Assert(string(plaintext), qt.Equals, "SANTA CLAUS")
	_ = numTrustees
}

func TestDecryptionProofRoundTrip(t *testing.T) {
	c := qt.New(t)

	stream, err := GeneratorStream([]byte("proof-test"))
	c.Assert(err, qt.IsNil)

	x := Suite.Scalar().Pick(stream)
	pub := Suite.Point().Mul(x, nil)
	c1 := Suite.Point().Pick(stream)
	share := Suite.Point().Mul(x, c1)

	proof, err := ProveDecryption(x, pub, c1, share)
	c.Assert(err, qt.IsNil)

	ok, err := VerifyDecryptionProof(pub, c1, share, proof)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.Equals, true)

	// A share computed with a different secret must fail verification.
	other := Suite.Scalar().Pick(stream)
	wrongShare := Suite.Point().Mul(other, c1)
	ok, err = VerifyDecryptionProof(pub, c1, wrongShare, proof)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.Equals, false)
}

func TestECIESRoundTrip(t *testing.T) {
	c := qt.New(t)

	recipientStream, err := GeneratorStream([]byte("recipient-secret"))
	c.Assert(err, qt.IsNil)
	recipientPriv := Suite.Scalar().Pick(recipientStream)
	recipientPub := Suite.Point().Mul(recipientPriv, nil)

	senderStream, err := GeneratorStream([]byte("sender-secret"))
	c.Assert(err, qt.IsNil)

	ct, err := ECIESEncrypt(recipientPub, []byte("a shamir share"), senderStream)
	c.Assert(err, qt.IsNil)

	plaintext, err := ECIESDecrypt(recipientPriv, ct)
	c.Assert(err, qt.IsNil)
	c.Assert(string(plaintext), qt.Equals, "a shamir share")
}

func TestECIESDeterministicGivenSameStream(t *testing.T) {
	c := qt.New(t)

	recipientStream, err := GeneratorStream([]byte("recipient-secret-2"))
	c.Assert(err, qt.IsNil)
	recipientPub := Suite.Point().Mul(Suite.Scalar().Pick(recipientStream), nil)

	seed, err := DeriveSeed([]byte("sender-fixed-secret"), "test-context")
	c.Assert(err, qt.IsNil)

	stream1, err := DRBG(seed)
	c.Assert(err, qt.IsNil)
	ct1, err := ECIESEncrypt(recipientPub, []byte("payload"), stream1)
	c.Assert(err, qt.IsNil)

	stream2, err := DRBG(seed)
	c.Assert(err, qt.IsNil)
	ct2, err := ECIESEncrypt(recipientPub, []byte("payload"), stream2)
	c.Assert(err, qt.IsNil)

	c.Assert(ct1.Nonce, qt.DeepEquals, ct2.Nonce)
	c.Assert(ct1.Cipher, qt.DeepEquals, ct2.Cipher)
	c.Assert(ct1.Ephemeral.Equal(ct2.Ephemeral), qt.Equals, true)
}

func TestECIESKeyPairDeterministic(t *testing.T) {
	c := qt.New(t)

	_, priv, err := ed25519.GenerateKey(nil)
	c.Assert(err, qt.IsNil)
	pub1, priv1, err := ECIESKeyPair(priv)
	c.Assert(err, qt.IsNil)
	pub2, priv2, err := ECIESKeyPair(priv)
	c.Assert(err, qt.IsNil)

	c.Assert(pub1.Equal(pub2), qt.Equals, true)
	c.Assert(priv1.Equal(priv2), qt.Equals, true)
}
