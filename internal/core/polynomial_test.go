package core

import "testing"

func TestPolynomialEval(t *testing.T) {
	f := testField(t)
	// p(x) = 1 + 2x + 3x^2
	poly, err := NewPolynomialFromInt64(f, []int64{1, 2, 3})
	if err != nil {
		t.Fatalf("NewPolynomialFromInt64: %v", err)
	}

	for _, x := range []int64{0, 1, 2, 5} {
		point := f.NewElementFromInt64(x)
		got := poly.Eval(point)
		want := f.NewElementFromInt64(1 + 2*x + 3*x*x)
		if !got.Equal(want) {
			t.Errorf("p(%d) = %s, want %s", x, got, want)
		}
	}
}

func TestPolynomialDegreeTrimsTrailingZeros(t *testing.T) {
	f := testField(t)
	poly, err := NewPolynomialFromInt64(f, []int64{1, 2, 0, 0})
	if err != nil {
		t.Fatalf("NewPolynomialFromInt64: %v", err)
	}
	if poly.Degree() != 1 {
		t.Errorf("Degree() = %d, want 1", poly.Degree())
	}
}

func TestLagrangeInterpolationRoundTrip(t *testing.T) {
	f := testField(t)
	original, err := NewPolynomialFromInt64(f, []int64{5, 3, 1, 4})
	if err != nil {
		t.Fatalf("NewPolynomialFromInt64: %v", err)
	}

	xs := []int64{0, 1, 2, 3}
	points := make([]Point, len(xs))
	for i, x := range xs {
		xe := f.NewElementFromInt64(x)
		points[i] = *NewPoint(xe, original.Eval(xe))
	}

	interp, err := LagrangeInterpolation(points, f)
	if err != nil {
		t.Fatalf("LagrangeInterpolation: %v", err)
	}

	for _, x := range []int64{0, 1, 2, 3, 10, 100} {
		xe := f.NewElementFromInt64(x)
		if got, want := interp.Eval(xe), original.Eval(xe); !got.Equal(want) {
			t.Errorf("interp(%d) = %s, want %s", x, got, want)
		}
	}
}

func TestLagrangeInterpolationRejectsDuplicateX(t *testing.T) {
	f := testField(t)
	x := f.NewElementFromInt64(1)
	points := []Point{
		*NewPoint(x, f.NewElementFromInt64(1)),
		*NewPoint(x, f.NewElementFromInt64(2)),
	}
	if _, err := LagrangeInterpolation(points, f); err == nil {
		t.Error("expected error for duplicate x-coordinates")
	}
}

func TestPolynomialAddSubMul(t *testing.T) {
	f := testField(t)
	p, _ := NewPolynomialFromInt64(f, []int64{1, 2})
	q, _ := NewPolynomialFromInt64(f, []int64{3, 4})

	sum, err := p.Add(q)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	x := f.NewElementFromInt64(7)
	if got, want := sum.Eval(x), p.Eval(x).Add(q.Eval(x)); !got.Equal(want) {
		t.Errorf("sum(7) = %s, want %s", got, want)
	}

	diff, err := p.Sub(q)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if got, want := diff.Eval(x), p.Eval(x).Sub(q.Eval(x)); !got.Equal(want) {
		t.Errorf("diff(7) = %s, want %s", got, want)
	}

	prod, err := p.Mul(q)
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}
	if got, want := prod.Eval(x), p.Eval(x).Mul(q.Eval(x)); !got.Equal(want) {
		t.Errorf("prod(7) = %s, want %s", got, want)
	}
}
