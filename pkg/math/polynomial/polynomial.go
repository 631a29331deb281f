package polynomial

import (
	"io"

	"github.com/veilvote/veilvote/pkg/math/curve"
	"github.com/veilvote/veilvote/pkg/math/sample"
)

// Polynomial represents a polynomial over the scalar field of a group,
// stored by its coefficients f(X) = a₀ + a₁⋅X + … + aₜ⋅Xᵗ.
type Polynomial struct {
	group        curve.Curve
	coefficients []curve.Scalar
}

// NewPolynomial generates a Polynomial with n coefficients sampled from rand,
// i.e. a random polynomial of degree n-1. The constant coefficient a₀ is the
// secret being shared when used for verifiable secret sharing.
func NewPolynomial(group curve.Curve, rand io.Reader, n int) *Polynomial {
	polynomial := &Polynomial{
		group:        group,
		coefficients: make([]curve.Scalar, n),
	}
	for i := range polynomial.coefficients {
		polynomial.coefficients[i] = sample.Scalar(rand, group)
	}
	return polynomial
}

// NewLinear returns the polynomial c₀ + c₁⋅X. The coefficients are not copied.
func NewLinear(group curve.Curve, c0, c1 curve.Scalar) *Polynomial {
	return &Polynomial{
		group:        group,
		coefficients: []curve.Scalar{c0, c1},
	}
}

// Evaluate evaluates the polynomial at index using Horner's method.
//
// The index must be non-zero: evaluating a secret-sharing polynomial at 0
// would return the secret itself.
func (p *Polynomial) Evaluate(index curve.Scalar) curve.Scalar {
	if index.IsZero() {
		panic("attempt to leak secret")
	}
	result := p.group.NewScalar()
	// reverse order, so we iterate over coefficients aₜ, …, a₀
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		// bₕ = bₕ₊₁⋅x + aₕ
		result.Mul(index).Add(p.coefficients[i])
	}
	return result
}

// Constant returns a copy of the constant coefficient a₀.
func (p *Polynomial) Constant() curve.Scalar {
	return p.group.NewScalar().Set(p.coefficients[0])
}

// Coefficient returns the i-th coefficient, or zero beyond the degree.
// The returned scalar must not be modified.
func (p *Polynomial) Coefficient(i int) curve.Scalar {
	if i >= len(p.coefficients) {
		return p.group.NewScalar()
	}
	return p.coefficients[i]
}

// Degree returns the degree of the polynomial.
func (p *Polynomial) Degree() int {
	return len(p.coefficients) - 1
}

// Mul returns the product polynomial p⋅q.
func (p *Polynomial) Mul(q *Polynomial) *Polynomial {
	coefficients := make([]curve.Scalar, len(p.coefficients)+len(q.coefficients)-1)
	for i := range coefficients {
		coefficients[i] = p.group.NewScalar()
	}
	for i, a := range p.coefficients {
		for j, b := range q.coefficients {
			coefficients[i+j].Add(p.group.NewScalar().Set(a).Mul(b))
		}
	}
	return &Polynomial{group: p.group, coefficients: coefficients}
}
