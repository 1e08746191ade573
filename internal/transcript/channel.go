// Package transcript implements the Fiat-Shamir transcript both the FRI
// prover and verifier replay in lockstep to derive folding challenges
// without interaction.
package transcript

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/vybium/fri/internal/core"
)

// Channel accumulates prover messages into a running hash state and derives
// pseudo-random challenges from it. The prover calls CommitFRILayer/
// DrawFRIAlpha while building a proof; the verifier calls Reseed (which
// absorbs exactly as CommitFRILayer does) and DrawFRIAlpha in the same order
// while replaying it, so any divergence in what was committed changes every
// challenge downstream.
type Channel struct {
	state    []byte
	proof    []string
	hashFunc string
}

// NewChannel creates a channel using the named hash function ("sha256",
// "sha3", "poseidon", "rescue"); empty defaults to sha3.
func NewChannel(hashFunc string) *Channel {
	if hashFunc == "" {
		hashFunc = "sha3"
	}
	return &Channel{
		state:    []byte{0},
		proof:    make([]string, 0, 64),
		hashFunc: hashFunc,
	}
}

// CommitFRILayer absorbs a layer's Merkle root into the transcript. This is
// the prover-side counterpart to Reseed on the verifier side, and must be
// called in the same position within the protocol on both sides.
func (c *Channel) CommitFRILayer(root []byte) {
	c.Send(root)
}

// Reseed absorbs a layer's Merkle root read off a proof, mirroring
// CommitFRILayer during verification.
func (c *Channel) Reseed(root []byte) {
	c.Send(root)
}

// DrawFRIAlpha derives the next folding challenge in the given field by
// rejection sampling: the state is read as an integer and rejected (state
// advanced, sample retried) whenever it lands in the biased tail above the
// largest multiple of the modulus that fits, so accepted draws are uniform
// over the field. The state advances exactly once per attempt whether or
// not the attempt is accepted, keeping prover and verifier in lockstep.
func (c *Channel) DrawFRIAlpha(f *core.Field) *core.FieldElement {
	p := f.Modulus()
	for {
		stateAsInt := new(big.Int).SetBytes(c.state)
		stateBits := uint(len(c.state) * 8)

		// Largest multiple of p representable in the state's width; values
		// at or above it over-represent low residues.
		limit := new(big.Int).Lsh(big.NewInt(1), stateBits)
		limit.Div(limit, p)
		limit.Mul(limit, p)

		c.state = c.hash(c.state)

		// A state narrower than the modulus can never cover the field;
		// every draw would be rejected. Reduce directly instead -- the
		// field-friendly hashes whose digests are single field elements
		// are already uniform over the field by construction.
		if limit.Sign() == 0 {
			alpha := f.NewElement(stateAsInt)
			c.proof = append(c.proof, fmt.Sprintf("receiveRandFieldElement:%s", alpha))
			return alpha
		}

		if stateAsInt.Cmp(limit) < 0 {
			alpha := f.NewElement(stateAsInt)
			c.proof = append(c.proof, fmt.Sprintf("receiveRandFieldElement:%s", alpha))
			return alpha
		}
	}
}

// Send appends data to the transcript and mixes it into the state.
func (c *Channel) Send(data []byte) {
	c.proof = append(c.proof, fmt.Sprintf("send:%s", hex.EncodeToString(data)))
	c.state = c.hash(append(c.state, data...))
}

// ReceiveRandomInt derives a pseudo-random integer in [min, max] from the
// current state, then advances the state. Returns nil if min > max.
func (c *Channel) ReceiveRandomInt(min, max *big.Int) *big.Int {
	if min.Cmp(max) > 0 {
		return nil
	}

	stateAsInt := new(big.Int).SetBytes(c.state)

	rangeSize := new(big.Int).Sub(max, min)
	rangeSize.Add(rangeSize, big.NewInt(1))

	random := new(big.Int).Mod(stateAsInt, rangeSize)
	random.Add(random, min)

	c.proof = append(c.proof, fmt.Sprintf("receiveRandInt:%s", random.String()))
	c.state = c.hash(c.state)

	return random
}

// ReceiveRandomFieldElement derives a pseudo-random element of f.
func (c *Channel) ReceiveRandomFieldElement(f *core.Field) *core.FieldElement {
	max := new(big.Int).Sub(f.Modulus(), big.NewInt(1))
	random := c.ReceiveRandomInt(big.NewInt(0), max)
	return f.NewElement(random)
}

// State returns a copy of the channel's current hash state.
func (c *Channel) State() []byte {
	return append([]byte(nil), c.state...)
}

// Proof returns a copy of the transcript's message log.
func (c *Channel) Proof() []string {
	return append([]string(nil), c.proof...)
}

func (c *Channel) hash(data []byte) []byte {
	switch c.hashFunc {
	case "sha256":
		h := sha256.Sum256(data)
		return h[:]
	case "poseidon", "rescue":
		hashBytes, err := core.HashFieldElements(core.DefaultPrimeField, c.hashFunc, bytesToElements(core.DefaultPrimeField, data))
		if err != nil {
			h := sha3.Sum256(data)
			return h[:]
		}
		return hashBytes.CanonicalBytes()
	default:
		h := sha3.Sum256(data)
		return h[:]
	}
}

// bytesToElements packs 4 bytes per field element, the input convention
// the field-friendly hashers expect.
func bytesToElements(f *core.Field, data []byte) []*core.FieldElement {
	if len(data) == 0 {
		return []*core.FieldElement{f.Zero()}
	}
	var inputs []*core.FieldElement
	for i := 0; i < len(data); i += 4 {
		var value int64
		for j := 0; j < 4 && i+j < len(data); j++ {
			value |= int64(data[i+j]) << (8 * j)
		}
		inputs = append(inputs, f.NewElementFromInt64(value))
	}
	return inputs
}

// String renders the transcript's message log, space separated.
func (c *Channel) String() string {
	return strings.Join(c.proof, " ")
}
