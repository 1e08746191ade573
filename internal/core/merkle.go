package core

import (
	"bytes"
	"fmt"
)

// MerkleTree is a binary Merkle tree over opaque leaf data, used to commit
// to a FRI layer's interleaved evaluation chunks.
type MerkleTree struct {
	root   []byte
	leaves [][]byte
	levels [][][]byte
}

// NewMerkleTree hashes each element of data as a leaf and builds the tree
// bottom-up. An odd node at any level is paired with itself, matching the
// convention used by both prover and verifier.
func NewMerkleTree(data [][]byte) (*MerkleTree, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot build a Merkle tree over zero leaves")
	}

	leaves := make([][]byte, len(data))
	for i, item := range data {
		leaves[i] = ComputeLeafHash(item)
	}

	levels := [][][]byte{leaves}
	current := leaves

	for len(current) > 1 {
		next := make([][]byte, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			if i+1 < len(current) {
				next = append(next, hashPair(current[i], current[i+1]))
			} else {
				next = append(next, hashPair(current[i], current[i]))
			}
		}
		levels = append(levels, next)
		current = next
	}

	return &MerkleTree{root: current[0], leaves: leaves, levels: levels}, nil
}

// Root returns the tree's root digest.
func (mt *MerkleTree) Root() []byte {
	return append([]byte(nil), mt.root...)
}

// ProofNode is one sibling hash on the authentication path from a leaf to
// the root, together with which side of the parent hash it occupies.
type ProofNode struct {
	Hash    []byte
	IsRight bool
}

// MerkleProof is an inclusion proof for a single leaf. It carries the root
// it was produced against so a verifier holding only the proof (not a live
// tree) can check a leaf against a previously recorded root without
// needing a separate channel for the root bytes.
type MerkleProof struct {
	Root  []byte
	Path  []ProofNode
	Index int
}

// Prove builds an inclusion proof for the leaf at index.
func (mt *MerkleTree) Prove(index int) (*MerkleProof, error) {
	if index < 0 || index >= len(mt.leaves) {
		return nil, fmt.Errorf("index %d out of range [0, %d)", index, len(mt.leaves))
	}

	var path []ProofNode
	current := index

	for level := 0; level < len(mt.levels)-1; level++ {
		levelNodes := mt.levels[level]

		var siblingIndex int
		var isRight bool
		if current%2 == 0 {
			siblingIndex, isRight = current+1, true
		} else {
			siblingIndex, isRight = current-1, false
		}

		if siblingIndex < len(levelNodes) {
			path = append(path, ProofNode{Hash: levelNodes[siblingIndex], IsRight: isRight})
		} else {
			path = append(path, ProofNode{Hash: levelNodes[current], IsRight: isRight})
		}

		current /= 2
	}

	return &MerkleProof{Root: mt.Root(), Path: path, Index: index}, nil
}

// VerifyMerkleProof recomputes the root from leaf and the claimed
// authentication path and checks it matches proof.Root.
func VerifyMerkleProof(proof *MerkleProof, leaf []byte) bool {
	hash := ComputeLeafHash(leaf)
	for _, node := range proof.Path {
		if node.IsRight {
			hash = hashPair(hash, node.Hash)
		} else {
			hash = hashPair(node.Hash, hash)
		}
	}
	return bytes.Equal(hash, proof.Root)
}

func hashPair(left, right []byte) []byte {
	combined := make([]byte, 0, len(left)+len(right))
	combined = append(combined, left...)
	combined = append(combined, right...)
	return ComputeLeafHash(combined)
}
