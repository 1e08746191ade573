package core

import (
	"fmt"
	"math/big"
)

// FFT evaluates a polynomial given in coefficient form at the powers of
// omega (a primitive n-th root of unity), using the iterative Cooley-Tukey
// radix-2 decimation-in-time algorithm. n must be a power of two.
func FFT(values []*FieldElement, omega *FieldElement, field *Field) ([]*FieldElement, error) {
	n := len(values)
	if n <= 1 {
		return values, nil
	}
	if n&(n-1) != 0 {
		return nil, fmt.Errorf("FFT requires power-of-2 size, got %d", n)
	}

	result := make([]*FieldElement, n)
	copy(result, values)

	logN := 0
	for temp := n; temp > 1; temp >>= 1 {
		logN++
	}

	for i := 0; i < n; i++ {
		j := reverseBits(i, logN)
		if i < j {
			result[i], result[j] = result[j], result[i]
		}
	}

	for s := 1; s <= logN; s++ {
		m := 1 << s
		halfM := m >> 1
		wm := omega.Exp(big.NewInt(int64(n / m)))

		for k := 0; k < n; k += m {
			w := field.One()
			for j := 0; j < halfM; j++ {
				t := w.Mul(result[k+j+halfM])
				u := result[k+j]
				result[k+j] = u.Add(t)
				result[k+j+halfM] = u.Sub(t)
				w = w.Mul(wm)
			}
		}
	}

	return result, nil
}

// IFFT recovers coefficients from evaluations at the powers of omega: FFT
// with the inverse root, scaled by 1/n.
func IFFT(values []*FieldElement, omega *FieldElement, field *Field) ([]*FieldElement, error) {
	n := len(values)
	if n == 0 {
		return []*FieldElement{}, nil
	}
	if n&(n-1) != 0 {
		return nil, fmt.Errorf("IFFT requires power-of-2 size, got %d", n)
	}

	omegaInv, err := omega.Inv()
	if err != nil {
		return nil, fmt.Errorf("failed to invert omega: %v", err)
	}

	coeffs, err := FFT(values, omegaInv, field)
	if err != nil {
		return nil, err
	}

	nInv, err := field.NewElementFromInt64(int64(n)).Inv()
	if err != nil {
		return nil, fmt.Errorf("failed to compute 1/n: %v", err)
	}
	for i := range coeffs {
		coeffs[i] = coeffs[i].Mul(nInv)
	}
	return coeffs, nil
}

func reverseBits(n int, bitLength int) int {
	result := 0
	for i := 0; i < bitLength; i++ {
		if n&(1<<i) != 0 {
			result |= 1 << (bitLength - 1 - i)
		}
	}
	return result
}

// GetPrimitiveRootOfUnity returns a primitive n-th root of unity in the
// field, or nil if n does not divide p-1. Searches small generator
// candidates and checks the resulting element has exact order n; FRI only
// ever calls this with power-of-two n drawn from the field's own two-adic
// subgroup, so the search terminates quickly in practice.
func (f *Field) GetPrimitiveRootOfUnity(n int) *FieldElement {
	pMinus1 := new(big.Int).Sub(f.modulus, big.NewInt(1))
	nBig := big.NewInt(int64(n))

	if new(big.Int).Mod(pMinus1, nBig).Sign() != 0 {
		return nil
	}

	exponent := new(big.Int).Div(pMinus1, nBig)
	for g := int64(2); g < 100; g++ {
		omega := f.NewElementFromInt64(g).Exp(exponent)
		if !omega.Exp(nBig).Equal(f.One()) {
			continue
		}

		hasOrderN := true
		for k := int64(1); k < int64(n); k++ {
			if omega.Exp(big.NewInt(k)).Equal(f.One()) {
				hasOrderN = false
				break
			}
		}
		if hasOrderN {
			return omega
		}
	}
	return nil
}
