package fri

import (
	"fmt"

	"github.com/vybium/fri/internal/core"
)

// Transform converts between a codeword's coefficient form and its
// evaluation form over a CosetDomain. DRP needs both directions: interpolate
// the incoming layer to recover coefficients, then evaluate the recombined
// coefficients on the folded domain.
//
// Kept pluggable so a caller can swap in a GPU-backed NTT without touching
// the DRP algorithm itself; FFTTransform is the default, and DirectTransform
// is a slower, dependency-free reference used to cross-check test vectors.
type Transform interface {
	Interpolate(field *core.Field, evals []*core.FieldElement, domain *CosetDomain) ([]*core.FieldElement, error)
	Evaluate(field *core.Field, coeffs []*core.FieldElement, domain *CosetDomain) ([]*core.FieldElement, error)
}

// FFTTransform interpolates and evaluates via Cooley-Tukey NTT, scaling
// coefficients by powers of the domain's coset offset before/after the
// transform on the underlying subgroup.
type FFTTransform struct{}

// Interpolate recovers coefficients from values known to be the evaluation
// of some polynomial on domain.
func (FFTTransform) Interpolate(field *core.Field, evals []*core.FieldElement, domain *CosetDomain) ([]*core.FieldElement, error) {
	coeffs, err := core.IFFT(evals, domain.Generator, field)
	if err != nil {
		return nil, err
	}
	return unscaleByOffsetPowers(field, coeffs, domain.Offset)
}

// Evaluate computes a polynomial's values over domain.
func (FFTTransform) Evaluate(field *core.Field, coeffs []*core.FieldElement, domain *CosetDomain) ([]*core.FieldElement, error) {
	scaled, err := scaleByOffsetPowers(field, coeffs, domain.Offset)
	if err != nil {
		return nil, err
	}
	return core.FFT(scaled, domain.Generator, field)
}

func scaleByOffsetPowers(field *core.Field, coeffs []*core.FieldElement, offset *core.FieldElement) ([]*core.FieldElement, error) {
	scaled := make([]*core.FieldElement, len(coeffs))
	power := field.One()
	for i, c := range coeffs {
		scaled[i] = c.Mul(power)
		power = power.Mul(offset)
	}
	return scaled, nil
}

func unscaleByOffsetPowers(field *core.Field, coeffs []*core.FieldElement, offset *core.FieldElement) ([]*core.FieldElement, error) {
	powers := make([]*core.FieldElement, len(coeffs))
	power := field.One()
	for i := range coeffs {
		powers[i] = power
		power = power.Mul(offset)
	}
	inverses, err := field.BatchInversion(powers)
	if err != nil {
		return nil, fmt.Errorf("failed to invert offset powers: %w", err)
	}
	unscaled := make([]*core.FieldElement, len(coeffs))
	for i, c := range coeffs {
		unscaled[i] = c.Mul(inverses[i])
	}
	return unscaled, nil
}

// DirectTransform interpolates and evaluates via Lagrange interpolation
// directly against the domain's points, with no NTT involved. O(n^2)
// instead of O(n log n); exists so test vectors can be checked against a
// simple, obviously-correct implementation independent of the FFT code
// path.
type DirectTransform struct{}

// Interpolate recovers coefficients via Lagrange interpolation over
// domain's points.
func (DirectTransform) Interpolate(field *core.Field, evals []*core.FieldElement, domain *CosetDomain) ([]*core.FieldElement, error) {
	points := make([]core.Point, len(evals))
	for i, x := range domain.Elements() {
		points[i] = *core.NewPoint(x, evals[i])
	}
	poly, err := core.LagrangeInterpolation(points, field)
	if err != nil {
		return nil, err
	}
	coeffs := poly.Coefficients()
	for len(coeffs) < len(evals) {
		coeffs = append(coeffs, field.Zero())
	}
	return coeffs, nil
}

// Evaluate computes a polynomial's values over domain by direct evaluation
// of each point.
func (DirectTransform) Evaluate(field *core.Field, coeffs []*core.FieldElement, domain *CosetDomain) ([]*core.FieldElement, error) {
	poly, err := core.NewPolynomial(coeffs)
	if err != nil {
		return nil, err
	}
	points := domain.Elements()
	values := make([]*core.FieldElement, len(points))
	for i, x := range points {
		values[i] = poly.Eval(x)
	}
	return values, nil
}
