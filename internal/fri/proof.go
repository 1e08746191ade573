package fri

import "github.com/vybium/fri/internal/core"

// ProofLayer is the per-position material for one committed FRI layer: the
// k-tuple of fiber evaluations opened at each queried position, and the
// Merkle inclusion proof for that tuple's leaf.
type ProofLayer struct {
	Values []*core.FieldElement // len = k * len(positions), grouped by position
	Proofs []*core.MerkleProof  // one proof per queried position
}

// Proof is a complete FRI proof of proximity: one opened layer per folding
// round, followed by the final remainder codeword in natural domain order,
// small enough to ship whole and re-interpolate directly.
type Proof struct {
	Layers    []ProofLayer
	Remainder []*core.FieldElement
}

// Root returns the layer's committed root, read off its first proof, or nil
// when the layer has no proofs. Every proof within a layer carries the same
// root; the verifier reads each layer's root through this rather than a
// separate root list threaded through the proof.
func (pl *ProofLayer) Root() []byte {
	if len(pl.Proofs) == 0 {
		return nil
	}
	return pl.Proofs[0].Root
}
