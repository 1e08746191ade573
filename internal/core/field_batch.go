package core

import (
	"fmt"
	"math/big"
	"sync"
)

// BatchInversion inverts a slice of field elements using Montgomery's
// trick: one accumulated-product inversion plus O(n) multiplications,
// instead of n independent extended-Euclidean inversions. Used by the
// coset FFT transform's Interpolate to invert the powers of the coset
// offset.
func (f *Field) BatchInversion(elements []*FieldElement) ([]*FieldElement, error) {
	n := len(elements)
	if n == 0 {
		return []*FieldElement{}, nil
	}
	if n == 1 {
		inv, err := elements[0].Inv()
		if err != nil {
			return nil, err
		}
		return []*FieldElement{inv}, nil
	}

	for i, elem := range elements {
		if elem.IsZero() {
			return nil, fmt.Errorf("cannot invert zero element at index %d", i)
		}
	}

	acc := make([]*FieldElement, n)
	acc[0] = elements[0]
	for i := 1; i < n; i++ {
		acc[i] = acc[i-1].Mul(elements[i])
	}

	accInv, err := acc[n-1].Inv()
	if err != nil {
		return nil, fmt.Errorf("failed to invert accumulator: %w", err)
	}

	results := make([]*FieldElement, n)
	for i := n - 1; i > 0; i-- {
		results[i] = accInv.Mul(acc[i-1])
		accInv = accInv.Mul(elements[i])
	}
	results[0] = accInv

	return results, nil
}

// ParallelBatchInversion is BatchInversion split into numWorkers chunks
// run concurrently, each chunk inverted independently via Montgomery's
// trick and copied back into its slot. Below 1000 elements it falls back
// to the sequential path: chunking overhead dominates at small sizes.
func (f *Field) ParallelBatchInversion(elements []*FieldElement, numWorkers int) ([]*FieldElement, error) {
	n := len(elements)
	if n == 0 {
		return []*FieldElement{}, nil
	}
	if n < 1000 || numWorkers <= 1 {
		return f.BatchInversion(elements)
	}

	chunkSize := (n + numWorkers - 1) / numWorkers
	results := make([]*FieldElement, n)

	var wg sync.WaitGroup
	errChan := make(chan error, numWorkers)

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			start := workerID * chunkSize
			if start >= n {
				return
			}
			end := min(start+chunkSize, n)

			chunk := elements[start:end]
			inverted, err := f.BatchInversion(chunk)
			if err != nil {
				errChan <- fmt.Errorf("worker %d failed: %w", workerID, err)
				return
			}
			copy(results[start:end], inverted)
		}(w)
	}

	wg.Wait()
	close(errChan)

	if err := <-errChan; err != nil {
		return nil, err
	}
	return results, nil
}

// BatchExponentiation raises every base to the same exponent.
func (f *Field) BatchExponentiation(bases []*FieldElement, exponent *big.Int) []*FieldElement {
	results := make([]*FieldElement, len(bases))
	for i, b := range bases {
		results[i] = b.Exp(exponent)
	}
	return results
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
