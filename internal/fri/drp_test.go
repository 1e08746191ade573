package fri

import (
	"testing"

	"github.com/vybium/fri/internal/core"
)

func drpTestField(t *testing.T) *core.Field {
	t.Helper()
	f, err := core.NewFieldFromUint64(3221225473) // 3*2^30 + 1
	if err != nil {
		t.Fatalf("NewFieldFromUint64: %v", err)
	}
	return f
}

// directAlphaCombination computes sum_j alpha^j * p_j(y), where p_j(y) =
// sum_i coeffs[i*k+j] * y^i, evaluated at y, entirely independent of
// ApplyDRP -- the textbook definition of the degree-respecting projection.
func directAlphaCombination(field *core.Field, coeffs []*core.FieldElement, alpha *core.FieldElement, k int, y *core.FieldElement) *core.FieldElement {
	n := len(coeffs)
	m := n / k
	total := field.Zero()
	alphaPow := field.One()
	for j := 0; j < k; j++ {
		subCoeffs := make([]*core.FieldElement, m)
		for i := 0; i < m; i++ {
			subCoeffs[i] = coeffs[i*k+j]
		}
		subPoly, err := core.NewPolynomial(subCoeffs)
		if err != nil {
			panic(err)
		}
		total = total.Add(subPoly.Eval(y).Mul(alphaPow))
		alphaPow = alphaPow.Mul(alpha)
	}
	return total
}

func TestDRPLaw(t *testing.T) {
	field := drpTestField(t)
	n := 16
	k := 4

	coeffs := make([]*core.FieldElement, n)
	for i := range coeffs {
		coeffs[i] = field.NewElementFromInt64(int64(i*3 + 1))
	}
	poly, err := core.NewPolynomial(coeffs)
	if err != nil {
		t.Fatalf("NewPolynomial: %v", err)
	}

	domain, err := NewCosetDomain(field, core.DefaultPrimeField.NewElementFromInt64(5), n)
	if err != nil {
		t.Fatalf("NewCosetDomain: %v", err)
	}
	transform := FFTTransform{}
	evals, err := transform.Evaluate(field, poly.Coefficients(), domain)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	alpha := field.NewElementFromInt64(17)
	foldedEvals, foldedDomain, err := ApplyDRP(transform, field, evals, domain, alpha, k)
	if err != nil {
		t.Fatalf("ApplyDRP: %v", err)
	}
	if len(foldedEvals) != n/k {
		t.Fatalf("folded evaluations length = %d, want %d", len(foldedEvals), n/k)
	}

	foldedCoeffs, err := transform.Interpolate(field, foldedEvals, foldedDomain)
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	foldedPoly, err := core.NewPolynomial(foldedCoeffs)
	if err != nil {
		t.Fatalf("NewPolynomial: %v", err)
	}

	for _, y := range []int64{0, 1, 2, 100} {
		point := field.NewElementFromInt64(y)
		got := foldedPoly.Eval(point)
		want := directAlphaCombination(field, coeffs, alpha, k, point)
		if !got.Equal(want) {
			t.Errorf("DRP law mismatch at y=%d: got %s, want %s", y, got, want)
		}
	}
}

func TestDRPReducesDomainSize(t *testing.T) {
	field := drpTestField(t)
	n := 32
	k := 2

	coeffs := make([]*core.FieldElement, n)
	for i := range coeffs {
		coeffs[i] = field.NewElementFromInt64(int64(i))
	}
	domain, err := NewCosetDomain(field, core.DefaultPrimeField.NewElementFromInt64(5), n)
	if err != nil {
		t.Fatalf("NewCosetDomain: %v", err)
	}
	transform := FFTTransform{}
	evals, err := transform.Evaluate(field, coeffs, domain)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	folded, foldedDomain, err := ApplyDRP(transform, field, evals, domain, field.NewElementFromInt64(3), k)
	if err != nil {
		t.Fatalf("ApplyDRP: %v", err)
	}
	if len(folded) != n/k {
		t.Errorf("folded length = %d, want %d", len(folded), n/k)
	}
	if foldedDomain.Length != n/k {
		t.Errorf("folded domain length = %d, want %d", foldedDomain.Length, n/k)
	}
}
