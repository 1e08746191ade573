package fri

import (
	"fmt"
	"math/big"

	"github.com/vybium/fri/internal/core"
)

// CosetDomain is the evaluation domain a FRI layer's codeword lives on: the
// coset offset * <generator> of a multiplicative subgroup of size Length.
// Every layer's domain is a power-of-two size so it folds evenly by the
// configured folding factor until the remainder threshold is reached.
type CosetDomain struct {
	Offset    *core.FieldElement
	Generator *core.FieldElement
	Length    int
}

// NewCosetDomain builds the domain offset*<generator> where generator is a
// primitive length-th root of unity in field.
func NewCosetDomain(field *core.Field, offset *core.FieldElement, length int) (*CosetDomain, error) {
	if !core.IsPowerOfTwo(length) {
		return nil, fmt.Errorf("domain length must be a power of two, got %d", length)
	}
	generator := field.GetPrimitiveRootOfUnity(length)
	if generator == nil {
		return nil, fmt.Errorf("field has no primitive %d-th root of unity", length)
	}
	return &CosetDomain{Offset: offset, Generator: generator, Length: length}, nil
}

// Elements returns every point of the domain, in order: offset, offset*g,
// offset*g^2, ...
func (d *CosetDomain) Elements() []*core.FieldElement {
	elements := make([]*core.FieldElement, d.Length)
	current := d.Offset
	for i := 0; i < d.Length; i++ {
		elements[i] = current
		current = current.Mul(d.Generator)
	}
	return elements
}

// Element returns the i-th point of the domain, offset * generator^i,
// without materializing the whole domain -- used by the verifier, which
// only ever needs a handful of spot-checked points per query.
func (d *CosetDomain) Element(i int) *core.FieldElement {
	return d.Offset.Mul(d.Generator.Exp(big.NewInt(int64(i))))
}

// Halve returns the domain of half the size obtained by squaring both the
// offset and the generator -- the domain a DRP folded-by-2 codeword lives
// on. Folding by a larger power-of-two factor k applies this log2(k)
// times (see FoldedDomain).
func (d *CosetDomain) Halve() (*CosetDomain, error) {
	if d.Length < 2 {
		return nil, fmt.Errorf("cannot halve domain of length %d", d.Length)
	}
	return &CosetDomain{
		Offset:    d.Offset.Square(),
		Generator: d.Generator.Square(),
		Length:    d.Length / 2,
	}, nil
}

// FoldedDomain returns the domain a codeword on d folds onto under a
// k-to-1 DRP: offset^k and generator^k, both raised by an exponent k,
// applied via repeated squaring when k is itself a power of two.
func (d *CosetDomain) FoldedDomain(k int) (*CosetDomain, error) {
	if d.Length%k != 0 {
		return nil, fmt.Errorf("domain of length %d is not divisible by folding factor %d", d.Length, k)
	}
	folded := d
	for step := k; step > 1; step /= 2 {
		var err error
		folded, err = folded.Halve()
		if err != nil {
			return nil, err
		}
	}
	return folded, nil
}
