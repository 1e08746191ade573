package core

import (
	"fmt"
	"math/big"
)

// Polynomial is a univariate polynomial over a field, stored dense by
// coefficient (lowest degree first).
type Polynomial struct {
	coefficients []*FieldElement
	field        *Field
}

// NewPolynomial builds a polynomial from coefficients, trimming trailing
// (high-degree) zeros so Degree() always reflects the true degree.
func NewPolynomial(coefficients []*FieldElement) (*Polynomial, error) {
	if len(coefficients) == 0 {
		return nil, fmt.Errorf("polynomial must have at least one coefficient")
	}

	field := coefficients[0].Field()
	for i, coeff := range coefficients {
		if !coeff.Field().Equals(field) {
			return nil, fmt.Errorf("coefficient %d is from a different field", i)
		}
	}

	trimmed := make([]*FieldElement, 0, len(coefficients))
	for i := len(coefficients) - 1; i >= 0; i-- {
		if !coefficients[i].IsZero() {
			trimmed = coefficients[:i+1]
			break
		}
	}
	if len(trimmed) == 0 {
		trimmed = []*FieldElement{field.Zero()}
	}

	return &Polynomial{coefficients: trimmed, field: field}, nil
}

// NewPolynomialFromInt64 builds a polynomial from int64 coefficients.
func NewPolynomialFromInt64(field *Field, coefficients []int64) (*Polynomial, error) {
	fieldCoeffs := make([]*FieldElement, len(coefficients))
	for i, coeff := range coefficients {
		fieldCoeffs[i] = field.NewElementFromInt64(coeff)
	}
	return NewPolynomial(fieldCoeffs)
}

// NewPolynomialFromBigInt builds a polynomial from big.Int coefficients.
func NewPolynomialFromBigInt(field *Field, coefficients []*big.Int) (*Polynomial, error) {
	fieldCoeffs := make([]*FieldElement, len(coefficients))
	for i, coeff := range coefficients {
		fieldCoeffs[i] = field.NewElement(coeff)
	}
	return NewPolynomial(fieldCoeffs)
}

// Degree is len(coefficients)-1; the zero polynomial has degree 0.
func (p *Polynomial) Degree() int {
	return len(p.coefficients) - 1
}

// Field returns the field p is defined over.
func (p *Polynomial) Field() *Field {
	return p.field
}

// Coefficient returns the coefficient of X^degree, or zero out of range.
func (p *Polynomial) Coefficient(degree int) *FieldElement {
	if degree < 0 || degree >= len(p.coefficients) {
		return p.field.Zero()
	}
	return p.coefficients[degree]
}

// LeadingCoefficient returns the coefficient of the highest-degree term.
func (p *Polynomial) LeadingCoefficient() *FieldElement {
	return p.coefficients[len(p.coefficients)-1]
}

// Coefficients returns a copy of p's coefficients, lowest degree first.
func (p *Polynomial) Coefficients() []*FieldElement {
	coeffs := make([]*FieldElement, len(p.coefficients))
	copy(coeffs, p.coefficients)
	return coeffs
}

// Point is an (x, f(x)) pair used for interpolation.
type Point struct {
	X *FieldElement
	Y *FieldElement
}

// NewPoint builds a Point.
func NewPoint(x, y *FieldElement) *Point {
	return &Point{X: x, Y: y}
}

// Eval evaluates p at point by summing each coefficient times the matching
// running power of point.
func (p *Polynomial) Eval(point *FieldElement) *FieldElement {
	if !point.Field().Equals(p.field) {
		panic("cannot evaluate polynomial at point from different field")
	}

	result := p.field.Zero()
	power := p.field.One()
	for i, coeff := range p.coefficients {
		if i > 0 {
			power = power.Mul(point)
		}
		result = result.Add(coeff.Mul(power))
	}
	return result
}

// Add returns p + other.
func (p *Polynomial) Add(other *Polynomial) (*Polynomial, error) {
	if !p.field.Equals(other.field) {
		return nil, fmt.Errorf("cannot add polynomials from different fields")
	}

	maxDegree := p.Degree()
	if other.Degree() > maxDegree {
		maxDegree = other.Degree()
	}

	coefficients := make([]*FieldElement, maxDegree+1)
	for i := 0; i <= maxDegree; i++ {
		coefficients[i] = p.Coefficient(i).Add(other.Coefficient(i))
	}
	return NewPolynomial(coefficients)
}

// Sub returns p - other.
func (p *Polynomial) Sub(other *Polynomial) (*Polynomial, error) {
	if !p.field.Equals(other.field) {
		return nil, fmt.Errorf("cannot subtract polynomials from different fields")
	}

	maxDegree := p.Degree()
	if other.Degree() > maxDegree {
		maxDegree = other.Degree()
	}

	coefficients := make([]*FieldElement, maxDegree+1)
	for i := 0; i <= maxDegree; i++ {
		coefficients[i] = p.Coefficient(i).Sub(other.Coefficient(i))
	}
	return NewPolynomial(coefficients)
}

// Mul returns p * other via schoolbook convolution.
func (p *Polynomial) Mul(other *Polynomial) (*Polynomial, error) {
	if !p.field.Equals(other.field) {
		return nil, fmt.Errorf("cannot multiply polynomials from different fields")
	}

	coefficients := make([]*FieldElement, p.Degree()+other.Degree()+1)
	for i := range coefficients {
		coefficients[i] = p.field.Zero()
	}
	for i, coeff1 := range p.coefficients {
		for j, coeff2 := range other.coefficients {
			coefficients[i+j] = coefficients[i+j].Add(coeff1.Mul(coeff2))
		}
	}
	return NewPolynomial(coefficients)
}

// MulScalar returns p scaled by a field element.
func (p *Polynomial) MulScalar(scalar *FieldElement) (*Polynomial, error) {
	if !scalar.Field().Equals(p.field) {
		return nil, fmt.Errorf("cannot multiply by scalar from different field")
	}

	coefficients := make([]*FieldElement, len(p.coefficients))
	for i, coeff := range p.coefficients {
		coefficients[i] = coeff.Mul(scalar)
	}
	return NewPolynomial(coefficients)
}

// LagrangeInterpolation builds the unique lowest-degree polynomial passing
// through points, via the classic O(n^2) Lagrange basis construction.
func LagrangeInterpolation(points []Point, field *Field) (*Polynomial, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("need at least one point for interpolation")
	}

	for i, point := range points {
		if !point.X.Field().Equals(field) || !point.Y.Field().Equals(field) {
			return nil, fmt.Errorf("point %d is from a different field", i)
		}
	}

	result, err := NewPolynomial([]*FieldElement{field.Zero()})
	if err != nil {
		return nil, err
	}

	for i, point := range points {
		basis, err := NewPolynomial([]*FieldElement{field.One()})
		if err != nil {
			return nil, err
		}

		for j, otherPoint := range points {
			if i == j {
				continue
			}

			numerator, err := NewPolynomialFromInt64(field, []int64{0, 1}) // X
			if err != nil {
				return nil, err
			}
			constant, err := NewPolynomial([]*FieldElement{otherPoint.X})
			if err != nil {
				return nil, err
			}
			numerator, err = numerator.Sub(constant)
			if err != nil {
				return nil, err
			}

			denominator := point.X.Sub(otherPoint.X)
			if denominator.IsZero() {
				return nil, fmt.Errorf("duplicate x-coordinates found")
			}
			invDenominator, err := field.One().Div(denominator)
			if err != nil {
				return nil, err
			}
			numerator, err = numerator.MulScalar(invDenominator)
			if err != nil {
				return nil, err
			}

			basis, err = basis.Mul(numerator)
			if err != nil {
				return nil, err
			}
		}

		term, err := basis.MulScalar(point.Y)
		if err != nil {
			return nil, err
		}
		result, err = result.Add(term)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}
