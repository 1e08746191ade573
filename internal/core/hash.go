package core

import (
	"math/big"

	"golang.org/x/crypto/sha3"
)

// ComputeLeafHash is the byte-level digest used for Merkle leaves and
// internal node pairing. FRI commits to opaque serialized chunks (not bare
// field elements), so leaf hashing operates on bytes rather than going
// through a FieldFriendlyHash; sha3-256 is the one hash the rest of the
// surrounding codebase already depends on directly.
func ComputeLeafHash(data []byte) []byte {
	sum := sha3.Sum256(data)
	return sum[:]
}

// FieldFriendlyHash is a hash function that consumes field elements
// directly, for use inside algebraic constructions (e.g. as a
// Fiat-Shamir-friendly arithmetization target) rather than over opaque
// bytes. FRI's Merkle layer never uses this; transcript.Channel uses it
// only when constructed with "poseidon" or "rescue". It is kept pluggable
// so a caller building an AIR/STARK on top of this package can reuse the
// same field without reaching for a second hash implementation.
type FieldFriendlyHash interface {
	Hash(inputs []*FieldElement) (*FieldElement, error)
}

// GetFieldFriendlyHash returns a field-friendly hash function for the given
// field. "poseidon" and "rescue" select the corresponding construction;
// anything else defaults to Poseidon. The basic, fixed-round-count Poseidon
// sketch this package used to carry has been dropped in favor of
// EnhancedPoseidonHash, which derives its round constants and MDS matrix
// from the field's own characteristics instead of hand-tuned constants.
func GetFieldFriendlyHash(field *Field, hashType string) (FieldFriendlyHash, error) {
	switch hashType {
	case "rescue":
		return NewRescueHash(field), nil
	default:
		return GetEnhancedPoseidonHash(field, 128)
	}
}

// HashFieldElements hashes a slice of field elements with the named
// field-friendly construction.
func HashFieldElements(field *Field, hashType string, inputs []*FieldElement) (*FieldElement, error) {
	hasher, err := GetFieldFriendlyHash(field, hashType)
	if err != nil {
		return nil, err
	}
	return hasher.Hash(inputs)
}

// RescueHash is a field-friendly sponge alternative to Poseidon, using
// alternating forward/backward S-box rounds instead of full/partial rounds.
type RescueHash struct {
	field     *Field
	rounds    int
	sboxPower int
}

// NewRescueHash creates a Rescue hash instance with standard parameters.
func NewRescueHash(field *Field) *RescueHash {
	return &RescueHash{field: field, rounds: 10, sboxPower: 3}
}

// Hash absorbs inputs one at a time into a 2-element state.
func (r *RescueHash) Hash(inputs []*FieldElement) (*FieldElement, error) {
	if len(inputs) == 0 {
		return r.field.Zero(), nil
	}

	state := []*FieldElement{r.field.Zero(), r.field.Zero()}
	for _, in := range inputs {
		state[1] = state[1].Add(in)
		state = r.rescuePermutation(state)
	}
	return state[0], nil
}

func (r *RescueHash) rescuePermutation(state []*FieldElement) []*FieldElement {
	for round := 0; round < r.rounds; round++ {
		state = r.forwardRound(state, round)
		state = r.backwardRound(state, round)
	}
	return state
}

func (r *RescueHash) forwardRound(state []*FieldElement, round int) []*FieldElement {
	roundConstant := r.field.NewElementFromInt64(int64(round + 1))
	for i := range state {
		state[i] = r.sbox(state[i].Add(roundConstant))
	}
	state[0] = state[0].Add(state[1])
	state[1] = state[1].Add(state[0])
	return state
}

func (r *RescueHash) backwardRound(state []*FieldElement, round int) []*FieldElement {
	for i := range state {
		state[i] = r.inverseSbox(state[i])
	}
	roundConstant := r.field.NewElementFromInt64(int64(round + 1000))
	for i := range state {
		state[i] = state[i].Add(roundConstant)
	}
	state[0] = state[0].Add(state[1])
	state[1] = state[1].Add(state[0])
	return state
}

func (r *RescueHash) sbox(x *FieldElement) *FieldElement {
	result := x
	for i := 1; i < r.sboxPower; i++ {
		result = result.Mul(x)
	}
	return result
}

// inverseSbox raises x to floor(p/3). This is not the inverse of sbox: when
// p ≡ 2 mod 3, x^(3*floor(p/3)) = x^(p-2) = 1/x, and when p ≡ 1 mod 3 (as
// for DefaultPrimeField, whose p-1 = 3*2^30) cubing has no inverse map.
func (r *RescueHash) inverseSbox(x *FieldElement) *FieldElement {
	p := r.field.Modulus()
	exponent := new(big.Int).Div(p, big.NewInt(3))
	return x.Exp(exponent)
}
