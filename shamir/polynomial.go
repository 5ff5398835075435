package shamir

import "math/big"

// Polynomial is an integer polynomial a_0 + a_1*x + ... + a_t*x^t.
// Coefficients are in increasing order of degree; Coeffs[0] is the secret.
type Polynomial struct {
	Coeffs []*big.Int
}

// NewPolynomial builds a polynomial from small coefficients.
func NewPolynomial(coeffs ...int64) *Polynomial {
	p := &Polynomial{Coeffs: make([]*big.Int, len(coeffs))}
	for i, c := range coeffs {
		p.Coeffs[i] = big.NewInt(c)
	}
	return p
}

// Evaluate evaluates the polynomial at x with Horner's method.
func (p *Polynomial) Evaluate(x *big.Int) *big.Int {
	result := new(big.Int)
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		result.Mul(result, x)
		result.Add(result, p.Coeffs[i])
	}
	return result
}

// Sample evaluates the polynomial at each x and returns the points.
func (p *Polynomial) Sample(xs ...int64) []*Point {
	points := make([]*Point, len(xs))
	for i, x := range xs {
		bx := big.NewInt(x)
		points[i] = &Point{X: bx, Y: p.Evaluate(bx)}
	}
	return points
}
