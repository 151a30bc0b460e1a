package crypto

import (
	"crypto/cipher"

	"github.com/wikiocracy/voteflow/errs"
)

// Polynomial is a degree-(threshold-1) secret polynomial over the curve's
// scalar field, used for Feldman verifiable secret sharing. coeffs[0] is
// the secret.
type Polynomial struct {
	coeffs []Scalar
}

// NewPolynomial draws threshold random coefficients from stream. Pass a
// deterministic stream (crypto.DRBG seeded via crypto.GeneratorStream) to
// make the polynomial, and hence every commitment and share derived from
// it, reproducible from the trustee's signing secret alone.
func NewPolynomial(threshold int, stream cipher.Stream) *Polynomial {
	coeffs := make([]Scalar, threshold)
	for i := range coeffs {
		coeffs[i] = Suite.Scalar().Pick(stream)
	}
	return &Polynomial{coeffs: coeffs}
}

// Eval evaluates the polynomial at x (a trustee's 1-based index) via
// Horner's method.
func (p *Polynomial) Eval(x int) Scalar {
	xs := Suite.Scalar().SetInt64(int64(x))
	v := Suite.Scalar().Zero()
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		v = Suite.Scalar().Mul(v, xs)
		v = Suite.Scalar().Add(v, p.coeffs[i])
	}
	return v
}

// Commit returns the Feldman commitment to p: g^{coeffs[0]}, g^{coeffs[1]}, ...
func (p *Polynomial) Commit() Commitment {
	points := make([]Point, len(p.coeffs))
	for i, c := range p.coeffs {
		points[i] = Suite.Point().Mul(c, nil)
	}
	return Commitment{Points: points}
}

// Commitment is a trustee's published Feldman commitment to its secret
// polynomial.
type Commitment struct {
	Points []Point
}

// Threshold is the number of coefficients committed to (== the DKG's k).
func (c Commitment) Threshold() int { return len(c.Points) }

// Eval computes g^{f(x)} from the commitment alone, without knowledge of
// the polynomial: sum_k x^k * Points[k].
func (c Commitment) Eval(x int) Point {
	xs := Suite.Scalar().SetInt64(int64(x))
	v := Suite.Point().Null()
	xPow := Suite.Scalar().SetInt64(1)
	for _, pt := range c.Points {
		v = Suite.Point().Add(v, Suite.Point().Mul(xPow, pt))
		xPow = Suite.Scalar().Mul(xPow, xs)
	}
	return v
}

// VerifyShare checks that share is consistent with commitment c at
// position x: g^share == c.Eval(x). All share/commitment ingestion in the
// trustee protocol runs this before accepting a value.
func VerifyShare(c Commitment, x int, share Scalar) bool {
	return c.Eval(x).Equal(Suite.Point().Mul(share, nil))
}

// Secret returns the constant term of the committed polynomial, i.e. the
// contribution this commitment makes to the joint public key.
func (c Commitment) Secret() Point {
	if len(c.Points) == 0 {
		return Suite.Point().Null()
	}
	return c.Points[0]
}

// MarshalBinary encodes each commitment point independently.
func (c Commitment) MarshalBinary() ([][]byte, error) {
	out := make([][]byte, len(c.Points))
	for i, p := range c.Points {
		b, err := p.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// CommitmentFromBytes decodes a commitment from its per-point binary
// encoding (the inverse of Commitment.MarshalBinary).
func CommitmentFromBytes(points [][]byte) (Commitment, error) {
	out := make([]Point, len(points))
	for i, b := range points {
		p := Suite.Point()
		if err := p.UnmarshalBinary(b); err != nil {
			return Commitment{}, &errs.ScalarConversion{Reason: "malformed commitment point"}
		}
		out[i] = p
	}
	return Commitment{Points: out}, nil
}

// ScalarFromBytes decodes the 32-byte binary encoding of a share back into
// a curve scalar, failing with errs.ScalarConversion rather than panicking
// on malformed input.
func ScalarFromBytes(b []byte) (Scalar, error) {
	s := Suite.Scalar()
	if err := s.UnmarshalBinary(b); err != nil {
		return nil, &errs.ScalarConversion{Reason: err.Error()}
	}
	return s, nil
}

// CombineSecret sums the per-sender secret points into the joint public
// key: sum_j commitments[j].Secret().
func CombineSecret(commitments []Commitment) Point {
	sum := Suite.Point().Null()
	for _, c := range commitments {
		sum = Suite.Point().Add(sum, c.Secret())
	}
	return sum
}

// CombineShares sums the per-sender decrypted shares into this trustee's
// joint secret key share: sum_j shares[j].
func CombineShares(shares []Scalar) Scalar {
	sum := Suite.Scalar().Zero()
	for _, s := range shares {
		sum = Suite.Scalar().Add(sum, s)
	}
	return sum
}

// LagrangeAtZero returns the Lagrange basis coefficient lambda_index(0) for
// the share at x-coordinate index, when reconstructing the secret from the
// subset of x-coordinates xs (all 1-based trustee indices, index among them).
func LagrangeAtZero(xs []int, index int) Scalar {
	num := Suite.Scalar().SetInt64(1)
	den := Suite.Scalar().SetInt64(1)
	for _, xj := range xs {
		if xj == index {
			continue
		}
		// num *= (0 - xj) = -xj
		num = Suite.Scalar().Mul(num, Suite.Scalar().Neg(Suite.Scalar().SetInt64(int64(xj))))
		// den *= (index - xj)
		diff := Suite.Scalar().Sub(Suite.Scalar().SetInt64(int64(index)), Suite.Scalar().SetInt64(int64(xj)))
		den = Suite.Scalar().Mul(den, diff)
	}
	return Suite.Scalar().Div(num, den)
}
