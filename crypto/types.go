package crypto

import (
	"crypto/sha256"
	"hash"

	"go.dedis.ch/kyber/v4"
)

// Point and Scalar alias kyber's abstract group element types so the rest
// of voteflow doesn't import go.dedis.ch/kyber/v4 directly.
type (
	Point  = kyber.Point
	Scalar = kyber.Scalar
)

func newSHA256() hash.Hash { return sha256.New() }
