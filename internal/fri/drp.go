package fri

import "github.com/vybium/fri/internal/core"

// ApplyDRP performs one Degree-Respecting Projection: it interpolates evals
// (known to lie on domain) back to coefficient form, combines the
// coefficients k at a time with ascending powers of alpha, and evaluates
// the resulting polynomial, whose degree bound is divided by k, on the
// folded domain.
//
// Combining in ascending index order is required, not cosmetic: the
// verifier recomputes the same combination from queried values and must
// land on the same polynomial, so prover and verifier must agree on which
// power of alpha multiplies which chunk slot.
func ApplyDRP(transform Transform, field *core.Field, evals []*core.FieldElement, domain *CosetDomain, alpha *core.FieldElement, k int) ([]*core.FieldElement, *CosetDomain, error) {
	coeffs, err := transform.Interpolate(field, evals, domain)
	if err != nil {
		return nil, nil, err
	}

	combined := combineChunks(field, coeffs, alpha, k)

	foldedDomain, err := domain.FoldedDomain(k)
	if err != nil {
		return nil, nil, err
	}

	foldedEvals, err := transform.Evaluate(field, combined, foldedDomain)
	if err != nil {
		return nil, nil, err
	}
	return foldedEvals, foldedDomain, nil
}

// combineChunks groups coeffs into chunks of k consecutive coefficients and
// folds each chunk into one coefficient via sum_j alpha^j * chunk[j]. Each
// chunk's combination only reads its own k-slice of coeffs and writes its
// own slot of combined, so the per-chunk work fans out across ParallelFor.
func combineChunks(field *core.Field, coeffs []*core.FieldElement, alpha *core.FieldElement, k int) []*core.FieldElement {
	n := len(coeffs)
	combined := make([]*core.FieldElement, n/k)
	alphaPowers := make([]*core.FieldElement, k)
	alphaPowers[0] = field.One()
	for j := 1; j < k; j++ {
		alphaPowers[j] = alphaPowers[j-1].Mul(alpha)
	}

	core.ParallelFor(n/k, func(i int) error {
		acc := field.Zero()
		for j := 0; j < k; j++ {
			acc = acc.Add(coeffs[i*k+j].Mul(alphaPowers[j]))
		}
		combined[i] = acc
		return nil
	})
	return combined
}
