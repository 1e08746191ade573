package core

import "testing"

func TestFFTIFFTRoundTrip(t *testing.T) {
	f := testField(t)
	for _, n := range []int{2, 4, 8, 16, 64} {
		omega := f.GetPrimitiveRootOfUnity(n)
		if omega == nil {
			t.Fatalf("no root of unity of order %d", n)
		}
		coeffs := make([]*FieldElement, n)
		for i := range coeffs {
			coeffs[i] = f.NewElementFromInt64(int64(i*7 + 1))
		}

		evals, err := FFT(coeffs, omega, f)
		if err != nil {
			t.Fatalf("FFT(n=%d): %v", n, err)
		}
		recovered, err := IFFT(evals, omega, f)
		if err != nil {
			t.Fatalf("IFFT(n=%d): %v", n, err)
		}

		for i := range coeffs {
			if !recovered[i].Equal(coeffs[i]) {
				t.Errorf("n=%d coeff %d: got %s, want %s", n, i, recovered[i], coeffs[i])
			}
		}
	}
}

func BenchmarkFFT(b *testing.B) {
	f, _ := NewFieldFromUint64(3221225473)
	n := 1024
	omega := f.GetPrimitiveRootOfUnity(n)
	coeffs := make([]*FieldElement, n)
	for i := range coeffs {
		coeffs[i] = f.NewElementFromInt64(int64(i*7 + 1))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = FFT(coeffs, omega, f)
	}
}

func TestFFTMatchesDirectEvaluation(t *testing.T) {
	f := testField(t)
	n := 8
	omega := f.GetPrimitiveRootOfUnity(n)
	coeffs := []*FieldElement{
		f.NewElementFromInt64(1),
		f.NewElementFromInt64(2),
		f.NewElementFromInt64(3),
		f.NewElementFromInt64(4),
		f.Zero(), f.Zero(), f.Zero(), f.Zero(),
	}
	poly, err := NewPolynomial(coeffs)
	if err != nil {
		t.Fatalf("NewPolynomial: %v", err)
	}

	evals, err := FFT(coeffs, omega, f)
	if err != nil {
		t.Fatalf("FFT: %v", err)
	}

	point := f.One()
	for i := 0; i < n; i++ {
		want := poly.Eval(point)
		if !evals[i].Equal(want) {
			t.Errorf("FFT[%d] = %s, want direct eval %s", i, evals[i], want)
		}
		point = point.Mul(omega)
	}
}

func TestFFTRejectsNonPowerOfTwo(t *testing.T) {
	f := testField(t)
	values := []*FieldElement{f.One(), f.One(), f.One()}
	if _, err := FFT(values, f.One(), f); err == nil {
		t.Error("expected error for non-power-of-two length")
	}
}
