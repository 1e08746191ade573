package fri

import (
	"bytes"
	"fmt"

	"github.com/vybium/fri/internal/core"
	"github.com/vybium/fri/internal/transcript"
)

// State is the verifier's position in its small state machine: it is
// Constructed once the transcript has been replayed to recover every
// layer's root and folding challenge, moves to Verifying while checking
// query positions, and settles into Accepted or Rejected.
type State int

const (
	StateConstructed State = iota
	StateVerifying
	StateAccepted
	StateRejected
)

// Verifier replays a FRI proof's transcript and checks query consistency
// and the final remainder's degree, without ever touching the prover's
// full codewords.
type Verifier struct {
	field     *core.Field
	options   *Options
	transform Transform
	proof     *Proof

	roots           [][]byte
	alphas          []*core.FieldElement
	domains         []*CosetDomain
	remainderDomain *CosetDomain

	state  State
	reason string
}

// NewVerifier derives the initial domain size from maxPolyDegree (the
// strict degree bound of the committed polynomial, rounded up to a power of
// two and blown up), then replays ch against proof's layer roots to recover
// each layer's folding challenge. Layer codeword sizes are scanned for
// divisibility by the folding factor before any domain is built, so a
// truncating configuration surfaces as CodewordTruncationError rather than
// a root-of-unity lookup failure. The remainder is recommitted locally and
// reseeded last, mirroring the prover's final commit of the remainder
// layer, so prover and verifier transcripts stay in lockstep through the
// whole protocol.
func NewVerifier(field *core.Field, options *Options, transform Transform, ch *transcript.Channel, proof *Proof, maxPolyDegree int) (*Verifier, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}

	k := options.FoldingFactor
	domainSize := core.NextPowerOfTwo(maxPolyDegree) * options.BlowupFactor

	size := domainSize
	for i := range proof.Layers {
		if size%k != 0 {
			return nil, &CodewordTruncationError{Size: size, K: k, Layer: i}
		}
		size /= k
	}
	if size%k != 0 {
		return nil, &CodewordTruncationError{Size: size, K: k, Layer: len(proof.Layers)}
	}
	if want := options.NumLayers(domainSize); len(proof.Layers) != want {
		return nil, &VerificationRejectionError{
			Reason: fmt.Sprintf("proof has %d layers, expected %d for a domain of size %d", len(proof.Layers), want, domainSize),
		}
	}
	if len(proof.Remainder) != size {
		return nil, &VerificationRejectionError{
			Reason: fmt.Sprintf("remainder has %d elements, expected %d", len(proof.Remainder), size),
		}
	}

	offset, err := options.DomainOffset(field)
	if err != nil {
		return nil, err
	}
	domain, err := NewCosetDomain(field, offset, domainSize)
	if err != nil {
		return nil, err
	}

	v := &Verifier{
		field:     field,
		options:   options,
		transform: transform,
		proof:     proof,
		state:     StateConstructed,
	}

	for _, pl := range proof.Layers {
		root := pl.Root()
		if root == nil {
			return nil, &VerificationRejectionError{Reason: "layer has no committed proofs"}
		}

		ch.Reseed(root)
		alpha := ch.DrawFRIAlpha(field)

		v.roots = append(v.roots, root)
		v.alphas = append(v.alphas, alpha)
		v.domains = append(v.domains, domain)

		domain, err = domain.FoldedDomain(k)
		if err != nil {
			return nil, err
		}
	}
	v.remainderDomain = domain

	remainderTree, err := core.NewMerkleTree(fiberLeaves(proof.Remainder, k))
	if err != nil {
		return nil, err
	}
	ch.Reseed(remainderTree.Root())
	ch.DrawFRIAlpha(field)

	return v, nil
}

// State reports the verifier's current state.
func (v *Verifier) State() State {
	return v.state
}

// Reason returns the rejection reason, if the verifier has rejected.
func (v *Verifier) Reason() string {
	return v.reason
}

func (v *Verifier) reject(reason string) error {
	v.state = StateRejected
	v.reason = reason
	return &VerificationRejectionError{Reason: reason}
}

// Verify checks the remainder's degree and every queried position's
// inclusion and fold consistency, transitioning through Verifying to
// Accepted or Rejected.
func (v *Verifier) Verify(positions []int) error {
	v.state = StateVerifying

	if err := v.checkRemainderDegree(); err != nil {
		return v.reject(err.Error())
	}

	k := v.options.FoldingFactor
	layerPositions := make([][]int, len(v.proof.Layers))
	layerValueAt := make([]map[int]*core.FieldElement, len(v.proof.Layers))

	current := positions
	for i, pl := range v.proof.Layers {
		m := v.domains[i].Length / k
		current = foldPositions(current, m)
		layerPositions[i] = current

		if len(pl.Values) != len(current)*k {
			return v.reject(fmt.Sprintf("layer %d: expected %d values, got %d", i, len(current)*k, len(pl.Values)))
		}
		if len(pl.Proofs) != len(current) {
			return v.reject(fmt.Sprintf("layer %d: expected %d inclusion proofs, got %d", i, len(current), len(pl.Proofs)))
		}

		// Record every fiber value, keyed by its index in this layer's
		// domain: position p's k values live at p, p+m, p+2m, ... and the
		// previous layer's colinearity check looks any of them up.
		valueAt := make(map[int]*core.FieldElement, len(current)*k)

		for idx, pos := range current {
			values := pl.Values[idx*k : idx*k+k]
			proofNode := pl.Proofs[idx]

			if !bytes.Equal(proofNode.Root, v.roots[i]) {
				return v.reject(fmt.Sprintf("layer %d position %d: proof root does not match committed root", i, pos))
			}
			if proofNode.Index != pos {
				return v.reject(fmt.Sprintf("layer %d: proof index %d does not match queried position %d", i, proofNode.Index, pos))
			}
			if !core.VerifyMerkleProof(proofNode, valuesToLeafBytes(values)) {
				return v.reject(fmt.Sprintf("layer %d position %d: Merkle inclusion check failed", i, pos))
			}

			for j := 0; j < k; j++ {
				valueAt[pos+j*m] = values[j]
			}
		}

		layerValueAt[i] = valueAt
	}

	for i, pl := range v.proof.Layers {
		m := v.domains[i].Length / k
		for idx, pos := range layerPositions[i] {
			values := pl.Values[idx*k : idx*k+k]

			points := make([]core.Point, k)
			for j := 0; j < k; j++ {
				x := v.domains[i].Element(pos + j*m)
				points[j] = *core.NewPoint(x, values[j])
			}
			interp, err := core.LagrangeInterpolation(points, v.field)
			if err != nil {
				return v.reject(fmt.Sprintf("layer %d position %d: %v", i, pos, err))
			}
			expected := interp.Eval(v.alphas[i])

			var actual *core.FieldElement
			if i+1 < len(v.proof.Layers) {
				actual = layerValueAt[i+1][pos]
				if actual == nil {
					return v.reject(fmt.Sprintf("layer %d position %d: no matching query in next layer", i, pos))
				}
			} else {
				if pos < 0 || pos >= len(v.proof.Remainder) {
					return v.reject(fmt.Sprintf("layer %d position %d: out of remainder range", i, pos))
				}
				actual = v.proof.Remainder[pos]
			}

			if !expected.Equal(actual) {
				return v.reject(fmt.Sprintf("layer %d position %d: fold consistency check failed", i, pos))
			}
		}
	}

	v.state = StateAccepted
	return nil
}

// checkRemainderDegree interpolates the remainder (known to be in natural
// domain order) and checks its effective degree is below
// len(remainder)/BlowupFactor -- the low-degree bound the remainder must
// respect once folding bottoms out, independent of the original committed
// polynomial's degree.
func (v *Verifier) checkRemainderDegree() error {
	coeffs, err := v.transform.Interpolate(v.field, v.proof.Remainder, v.remainderDomain)
	if err != nil {
		return fmt.Errorf("failed to interpolate remainder: %w", err)
	}
	poly, err := core.NewPolynomial(coeffs)
	if err != nil {
		return fmt.Errorf("failed to build remainder polynomial: %w", err)
	}
	maxRemainderDeg := len(v.proof.Remainder)/v.options.BlowupFactor - 1
	if poly.Degree() > maxRemainderDeg {
		return fmt.Errorf("remainder degree %d exceeds bound %d", poly.Degree(), maxRemainderDeg)
	}
	return nil
}
