package fri

import "github.com/vybium/fri/internal/core"

// Options configures a FRI instance: how much redundancy the initial
// codeword carries, how aggressively each layer folds, and when folding
// stops in favor of sending the remainder directly.
type Options struct {
	// BlowupFactor is the ratio between the evaluation domain size and the
	// degree bound of the committed polynomial (any positive integer).
	BlowupFactor int

	// FoldingFactor is how many evaluations combine into one at each layer.
	// Must be one of 2, 4, 8, 16.
	FoldingFactor int

	// MaxRemainderSize is the codeword length at or below which folding
	// stops and the remainder is sent in the clear (it is still committed
	// to the transcript like every other layer, but never spot-checked).
	MaxRemainderSize int
}

// Validate checks that the options describe a protocol instance FRI can
// actually run: a folding factor FRI supports, a positive blowup, and a
// remainder threshold no smaller than the blowup (the remainder codeword
// must keep at least a blowup's worth of redundancy for its degree check
// to mean anything).
func (o *Options) Validate() error {
	switch o.FoldingFactor {
	case 2, 4, 8, 16:
	default:
		return &ConfigurationError{Message: "folding factor must be one of 2, 4, 8, 16"}
	}
	if o.BlowupFactor < 1 {
		return &ConfigurationError{Message: "blowup factor must be a positive integer"}
	}
	if o.MaxRemainderSize < o.BlowupFactor {
		return &ConfigurationError{Message: "max remainder size must be at least the blowup factor"}
	}
	return nil
}

// NumLayers returns how many folding rounds a codeword of the given domain
// size goes through before its size first drops to MaxRemainderSize or
// below.
func (o *Options) NumLayers(domainSize int) int {
	layers := 0
	size := domainSize
	for size > o.MaxRemainderSize {
		size /= o.FoldingFactor
		layers++
	}
	return layers
}

// RemainderSize returns the codeword size at which folding stops for a
// domain of the given initial size.
func (o *Options) RemainderSize(domainSize int) int {
	size := domainSize
	for size > o.MaxRemainderSize {
		size /= o.FoldingFactor
	}
	return size
}

// DomainOffset returns field's multiplicative generator g, the coset
// offset every layer's evaluation domain is built from (g, then g^k, then
// g^(k^2), ... as DRP folds the domain down).
func (o *Options) DomainOffset(field *core.Field) (*core.FieldElement, error) {
	return field.Generator()
}

