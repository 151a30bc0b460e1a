// Package crypto builds the threshold-ElGamal / Feldman-VSS / ECIES
// primitives voteflow's trustee protocol is built on, using
// go.dedis.ch/kyber/v4's abstract group algebra over edwards25519.
package crypto

import (
	"crypto/cipher"

	"go.dedis.ch/kyber/v4/group/edwards25519"
	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/hkdf"
)

// Suite is the curve group every trustee computation runs over.
var Suite = edwards25519.NewBlakeSHA256Ed25519()

// HKDF info strings. Changing either breaks every existing re-derivation:
// a trustee only persists its Ed25519 signing key and rebuilds everything
// else from these two labels.
const (
	infoECIESKey  = "cryptoballot_trustee_ecies_key"
	infoGenerator = "cryptoballot_trustee_generator"
)

// DeriveSeed runs HKDF-SHA256 with no salt over sk using info as context,
// producing a 32-byte seed. Deterministic: same (sk, info) always yields
// the same seed, on every platform.
func DeriveSeed(sk []byte, info string) ([32]byte, error) {
	var seed [32]byte
	r := hkdf.New(newSHA256, sk, nil, []byte(info))
	if _, err := r.Read(seed[:]); err != nil {
		return [32]byte{}, err
	}
	return seed, nil
}

// DRBG returns a deterministic ChaCha20-keyed cipher.Stream seeded from
// seed, suitable for feeding kyber's Scalar.Pick/Point.Embed wherever a
// computation needs to reproduce bit-identical output across invocations
// (commitments, key derivation): the caller derives seed via DeriveSeed
// first.
func DRBG(seed [32]byte) (cipher.Stream, error) {
	var nonce [chacha20.NonceSize]byte // deterministic: uniqueness already comes from the HKDF-derived key
	return chacha20.NewUnauthenticatedCipher(seed[:], nonce[:])
}

// ECIESKeyPair deterministically derives the trustee's ECIES encryption
// keypair from its Ed25519 signing secret.
func ECIESKeyPair(signingSecret []byte) (public Point, private Scalar, err error) {
	seed, err := DeriveSeed(signingSecret, infoECIESKey)
	if err != nil {
		return nil, nil, err
	}
	stream, err := DRBG(seed)
	if err != nil {
		return nil, nil, err
	}
	private = Suite.Scalar().Pick(stream)
	public = Suite.Point().Mul(private, nil)
	return public, private, nil
}

// RandomStream returns a non-deterministic randomness source backed by
// the suite's own CSPRNG, for protocol steps (ECIES share encryption,
// proof nonces) that have no reason to be reproducible.
func RandomStream() cipher.Stream { return Suite.RandomStream() }

// GeneratorStream derives the deterministic randomness source for this
// trustee's DKG polynomial: the only place where commitments and
// polynomial shares are produced, hence the only place that needs to
// reproduce bit-identical output across invocations.
func GeneratorStream(signingSecret []byte) (cipher.Stream, error) {
	seed, err := DeriveSeed(signingSecret, infoGenerator)
	if err != nil {
		return nil, err
	}
	return DRBG(seed)
}
