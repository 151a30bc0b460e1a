package crypto

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/wikiocracy/voteflow/errs"
	"golang.org/x/crypto/hkdf"
)

const infoECIESAEAD = "cryptoballot_share_aead_key"

// ECIESCiphertext is a hybrid-encrypted DKG share: an ephemeral Diffie-
// Hellman public key plus an AES-GCM ciphertext keyed by the resulting
// shared secret, in the manner of a standard ECIES construction.
type ECIESCiphertext struct {
	Ephemeral Point
	Nonce     []byte
	Cipher    []byte
}

// ECIESEncrypt hybrid-encrypts plaintext to recipientPublic. All
// randomness, including the GCM nonce, is drawn from stream, so passing a
// deterministic stream (crypto.DRBG) makes the entire ciphertext, byte for
// byte, a function of that stream's seed, recipientPublic and the plaintext.
func ECIESEncrypt(recipientPublic Point, plaintext []byte, stream cipher.Stream) (ECIESCiphertext, error) {
	ephemeralSecret := Suite.Scalar().Pick(stream)
	ephemeralPublic := Suite.Point().Mul(ephemeralSecret, nil)
	shared := Suite.Point().Mul(ephemeralSecret, recipientPublic)

	gcm, err := ecieshAEAD(shared)
	if err != nil {
		return ECIESCiphertext{}, err
	}
	nonce := make([]byte, gcm.NonceSize())
	stream.XORKeyStream(nonce, nonce)

	ct := gcm.Seal(nil, nonce, plaintext, nil)
	return ECIESCiphertext{Ephemeral: ephemeralPublic, Nonce: nonce, Cipher: ct}, nil
}

// ECIESDecrypt recovers the plaintext DKG share using the recipient's
// ECIES private key.
func ECIESDecrypt(recipientPrivate Scalar, ct ECIESCiphertext) ([]byte, error) {
	shared := Suite.Point().Mul(recipientPrivate, ct.Ephemeral)

	gcm, err := ecieshAEAD(shared)
	if err != nil {
		return nil, err
	}
	plaintext, err := gcm.Open(nil, ct.Nonce, ct.Cipher, nil)
	if err != nil {
		return nil, &errs.DecryptFailure{Reason: "ecies authentication failed"}
	}
	return plaintext, nil
}

// ecieshAEAD derives an AES-256-GCM instance from a DH shared point via
// HKDF-SHA256.
func ecieshAEAD(shared Point) (cipher.AEAD, error) {
	sharedBytes, err := shared.MarshalBinary()
	if err != nil {
		return nil, err
	}
	key := make([]byte, 32)
	kdf := hkdf.New(newSHA256, sharedBytes, nil, []byte(infoECIESAEAD))
	if _, err := kdf.Read(key); err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
