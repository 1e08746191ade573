package fri

import (
	"encoding/binary"

	"github.com/vybium/fri/internal/core"
	"github.com/vybium/fri/internal/transcript"
)

// layer is the prover's private record of one committed folding round: the
// codeword in natural domain order plus the tree built over its fiber
// groups, kept so IntoProof can answer queries after BuildLayers runs.
type layer struct {
	evals  []*core.FieldElement
	domain *CosetDomain
	tree   *core.MerkleTree
}

// Prover runs the commit phase of FRI: repeatedly apply DRP and commit each
// resulting codeword, stopping once the codeword is small enough to send
// directly as the remainder.
type Prover struct {
	field     *core.Field
	options   *Options
	transform Transform

	layers    []layer
	remainder []*core.FieldElement
}

// NewProver builds a Prover for field under options, using transform for
// the interpolate/evaluate steps of DRP.
func NewProver(field *core.Field, options *Options, transform Transform) (*Prover, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}
	return &Prover{field: field, options: options, transform: transform}, nil
}

// BuildLayers folds initialEvals (the evaluation of the committed
// polynomial over initialDomain) down to the remainder, committing each
// intermediate codeword to ch and drawing the next layer's folding
// challenge from it. The loop runs one more time than there are foldings:
// the final remainder-sized codeword is itself committed, so the transcript
// binds the remainder before any query positions are chosen. Must be called
// before IntoProof.
func (p *Prover) BuildLayers(ch *transcript.Channel, initialEvals []*core.FieldElement, initialDomain *CosetDomain) error {
	k := p.options.FoldingFactor
	evals := initialEvals
	domain := initialDomain

	for layerIndex := 0; ; layerIndex++ {
		if len(evals)%k != 0 {
			return &CodewordTruncationError{Size: len(evals), K: k, Layer: layerIndex}
		}

		leaves := fiberLeaves(evals, k)
		tree, err := core.NewMerkleTree(leaves)
		if err != nil {
			return err
		}

		ch.CommitFRILayer(tree.Root())
		alpha := ch.DrawFRIAlpha(p.field)

		p.layers = append(p.layers, layer{evals: evals, domain: domain, tree: tree})

		if len(evals) <= p.options.MaxRemainderSize {
			break
		}

		evals, domain, err = ApplyDRP(p.transform, p.field, evals, domain, alpha, k)
		if err != nil {
			return err
		}
	}

	p.remainder = evals
	return nil
}

// IntoProof answers the verifier's query positions against every committed
// layer except the last, folding positions into each layer's leaf space
// before opening it, and appends the final layer's codeword as the
// remainder. The last layer gets no openings: the verifier holds its whole
// codeword and recommits it locally instead of spot-checking it.
func (p *Prover) IntoProof(positions []int) (*Proof, error) {
	if len(p.layers) == 0 {
		return nil, &ConfigurationError{Message: "IntoProof called before BuildLayers"}
	}

	k := p.options.FoldingFactor
	proof := &Proof{Remainder: p.remainder}

	current := positions
	for _, l := range p.layers[:len(p.layers)-1] {
		m := len(l.evals) / k
		current = foldPositions(current, m)
		proofs := make([]*core.MerkleProof, len(current))
		values := make([][]*core.FieldElement, len(current))

		// Each position's path and fiber values depend only on that
		// position and the layer's own (already-built) tree and
		// evaluations, so the per-position extraction fans out.
		err := core.ParallelFor(len(current), func(idx int) error {
			pos := current[idx]
			mp, err := l.tree.Prove(pos)
			if err != nil {
				return err
			}
			proofs[idx] = mp
			values[idx] = fiberValues(l.evals, pos, m, k)
			return nil
		})
		if err != nil {
			return nil, err
		}

		pl := ProofLayer{Proofs: proofs}
		for _, v := range values {
			pl.Values = append(pl.Values, v...)
		}
		proof.Layers = append(proof.Layers, pl)
	}

	return proof, nil
}

// fiberLeaves groups evaluations into Merkle leaves by DRP fiber: the leaf
// at chunk index i commits to the k evaluations {evals[i], evals[i+m],
// evals[i+2m], ...} (m = len(evals)/k) that all land on the same folded
// domain point under x -> x^k, so one inclusion proof covers everything a
// query at the folded position needs. Per-leaf hashing touches nothing but
// its own slot of the output, so it fans out across ParallelFor without
// changing the result.
func fiberLeaves(evals []*core.FieldElement, k int) [][]byte {
	m := len(evals) / k
	leaves := make([][]byte, m)
	core.ParallelFor(m, func(i int) error {
		leaves[i] = fiberBytes(evals, i, m, k)
		return nil
	})
	return leaves
}

func fiberBytes(evals []*core.FieldElement, pos, m, k int) []byte {
	return valuesToLeafBytes(fiberValues(evals, pos, m, k))
}

func fiberValues(evals []*core.FieldElement, pos, m, k int) []*core.FieldElement {
	values := make([]*core.FieldElement, k)
	for j := 0; j < k; j++ {
		values[j] = evals[pos+j*m]
	}
	return values
}

// valuesToLeafBytes renders a fiber's k values into the byte content its
// Merkle leaf was hashed from: a tuple-length prefix followed by each
// value's fixed-width canonical encoding. Both prover and verifier must
// agree on this encoding: it is how the verifier checks a claimed Values
// tuple against an inclusion proof without ever seeing the tree.
func valuesToLeafBytes(values []*core.FieldElement) []byte {
	buf := make([]byte, 4, 4+len(values)*8)
	binary.BigEndian.PutUint32(buf, uint32(len(values)))
	for _, v := range values {
		buf = append(buf, v.CanonicalBytes()...)
	}
	return buf
}
