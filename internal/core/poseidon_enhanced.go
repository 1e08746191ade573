package core

import (
	"fmt"
	"math/big"
)

// EnhancedPoseidonHash is a Poseidon sponge with round constants and an MDS
// matrix derived from the field's own characteristics via a Grain LFSR,
// rather than a fixed precomputed constant table, so it works for any
// modulus the channel is configured with. This is the FieldFriendlyHash
// implementation the "poseidon" hash selector resolves to.
type EnhancedPoseidonHash struct {
	field         *Field
	roundsFull    int
	roundsPartial int
	sboxPower     int
	width         int
	rate          int
	roundConstants [][]*FieldElement
	mdsMatrix      [][]*FieldElement
	securityLevel  int
}

// PoseidonParameters parameterizes an EnhancedPoseidonHash instance.
type PoseidonParameters struct {
	SecurityLevel int
	FieldSize     int
	Width         int
	Rate          int
	RoundsFull    int
	RoundsPartial int
	SboxPower     int
	FieldModulus  string
}

// NewEnhancedPoseidonHash builds a Poseidon instance from params, generating
// its round constants and MDS matrix. Passing a nil params selects 128-bit
// security defaults for the field.
func NewEnhancedPoseidonHash(field *Field, params *PoseidonParameters) (*EnhancedPoseidonHash, error) {
	if params == nil {
		params = GetDefaultPoseidonParameters(field, 128)
	}

	roundConstants, err := generateRoundConstants(field, params)
	if err != nil {
		return nil, fmt.Errorf("failed to generate round constants: %w", err)
	}

	mdsMatrix, err := generateMDSMatrix(field, params.Width)
	if err != nil {
		return nil, fmt.Errorf("failed to generate MDS matrix: %w", err)
	}

	return &EnhancedPoseidonHash{
		field:          field,
		roundsFull:     params.RoundsFull,
		roundsPartial:  params.RoundsPartial,
		sboxPower:      params.SboxPower,
		width:          params.Width,
		rate:           params.Rate,
		roundConstants: roundConstants,
		mdsMatrix:      mdsMatrix,
		securityLevel:  params.SecurityLevel,
	}, nil
}

// GetDefaultPoseidonParameters picks width/rate/round counts for a security
// level and field size, following the parameter choices from the Poseidon
// paper's worked examples.
func GetDefaultPoseidonParameters(field *Field, securityLevel int) *PoseidonParameters {
	fieldSize := field.Modulus().BitLen()

	switch {
	case securityLevel == 128 && fieldSize >= 256:
		return &PoseidonParameters{
			SecurityLevel: 128, FieldSize: fieldSize,
			Width: 3, Rate: 2, RoundsFull: 8, RoundsPartial: 83, SboxPower: 5,
			FieldModulus: field.Modulus().String(),
		}
	case securityLevel == 128 && fieldSize >= 128:
		return &PoseidonParameters{
			SecurityLevel: 128, FieldSize: fieldSize,
			Width: 4, Rate: 3, RoundsFull: 8, RoundsPartial: 84, SboxPower: 5,
			FieldModulus: field.Modulus().String(),
		}
	case securityLevel == 256 && fieldSize >= 256:
		return &PoseidonParameters{
			SecurityLevel: 256, FieldSize: fieldSize,
			Width: 3, Rate: 2, RoundsFull: 8, RoundsPartial: 170, SboxPower: 5,
			FieldModulus: field.Modulus().String(),
		}
	default:
		return &PoseidonParameters{
			SecurityLevel: securityLevel, FieldSize: fieldSize,
			Width: 3, Rate: 2, RoundsFull: 8, RoundsPartial: 100, SboxPower: 5,
			FieldModulus: field.Modulus().String(),
		}
	}
}

// Hash absorbs inputs rate elements at a time and squeezes the first state
// element as digest.
func (p *EnhancedPoseidonHash) Hash(inputs []*FieldElement) (*FieldElement, error) {
	if len(inputs) == 0 {
		return p.field.Zero(), nil
	}

	state := make([]*FieldElement, p.width)
	for i := range state {
		state[i] = p.field.Zero()
	}

	for i := 0; i < len(inputs); i += p.rate {
		for j := 0; j < p.rate && i+j < len(inputs); j++ {
			state[j] = state[j].Add(inputs[i+j])
		}
		state = p.poseidonPermutation(state)
	}

	return state[0], nil
}

// HashToBytes hashes inputs and returns the digest's canonical bytes.
func (p *EnhancedPoseidonHash) HashToBytes(inputs []*FieldElement) ([]byte, error) {
	hash, err := p.Hash(inputs)
	if err != nil {
		return nil, err
	}
	return hash.CanonicalBytes(), nil
}

func (p *EnhancedPoseidonHash) poseidonPermutation(state []*FieldElement) []*FieldElement {
	for round := 0; round < p.roundsFull/2; round++ {
		state = p.fullRound(state, round)
	}
	for round := 0; round < p.roundsPartial; round++ {
		state = p.partialRound(state, round)
	}
	for round := 0; round < p.roundsFull/2; round++ {
		state = p.fullRound(state, p.roundsFull/2+round)
	}
	return state
}

func (p *EnhancedPoseidonHash) fullRound(state []*FieldElement, round int) []*FieldElement {
	for i := 0; i < p.width; i++ {
		if round < len(p.roundConstants) && i < len(p.roundConstants[round]) {
			state[i] = state[i].Add(p.roundConstants[round][i])
		}
	}
	for i := 0; i < p.width; i++ {
		state[i] = p.sbox(state[i])
	}
	return p.applyMDSMatrix(state)
}

func (p *EnhancedPoseidonHash) partialRound(state []*FieldElement, round int) []*FieldElement {
	for i := 0; i < p.width; i++ {
		if round < len(p.roundConstants) && i < len(p.roundConstants[round]) {
			state[i] = state[i].Add(p.roundConstants[round][i])
		}
	}
	state[0] = p.sbox(state[0])
	return p.applyMDSMatrix(state)
}

func (p *EnhancedPoseidonHash) sbox(x *FieldElement) *FieldElement {
	result := x
	for i := 1; i < p.sboxPower; i++ {
		result = result.Mul(x)
	}
	return result
}

func (p *EnhancedPoseidonHash) applyMDSMatrix(state []*FieldElement) []*FieldElement {
	newState := make([]*FieldElement, p.width)
	for i := 0; i < p.width; i++ {
		newState[i] = p.field.Zero()
		for j := 0; j < p.width; j++ {
			if i < len(p.mdsMatrix) && j < len(p.mdsMatrix[i]) {
				newState[i] = newState[i].Add(state[j].Mul(p.mdsMatrix[i][j]))
			}
		}
	}
	return newState
}

// generateRoundConstants derives round constants from a Grain LFSR seeded
// with the instance's parameters, per the Poseidon paper's constant
// generation procedure.
func generateRoundConstants(field *Field, params *PoseidonParameters) ([][]*FieldElement, error) {
	lfsr := NewGrainLFSR(params)

	totalRounds := params.RoundsFull + params.RoundsPartial
	roundConstants := make([][]*FieldElement, totalRounds)
	for round := 0; round < totalRounds; round++ {
		roundConstants[round] = make([]*FieldElement, params.Width)
		for i := 0; i < params.Width; i++ {
			roundConstants[round][i] = lfsr.NextFieldElement(field)
		}
	}
	return roundConstants, nil
}

// generateMDSMatrix builds a Cauchy matrix, which is always MDS: M[i][j] =
// 1/(x_i + y_j) for disjoint point sets x, y.
func generateMDSMatrix(field *Field, width int) ([][]*FieldElement, error) {
	matrix := make([][]*FieldElement, width)
	for i := 0; i < width; i++ {
		matrix[i] = make([]*FieldElement, width)
		for j := 0; j < width; j++ {
			x := field.NewElementFromInt64(int64(i + 1))
			y := field.NewElementFromInt64(int64(j + width + 1))
			inv, err := x.Add(y).Inv()
			if err != nil {
				return nil, fmt.Errorf("failed to compute inverse for MDS matrix: %w", err)
			}
			matrix[i][j] = inv
		}
	}
	return matrix, nil
}

// GrainLFSR is the constant-generation LFSR specified by the Poseidon
// paper, seeded from the field and round parameters so constants are
// reproducible from (field, width, rounds) alone.
type GrainLFSR struct {
	state  [80]bool
	params *PoseidonParameters
}

// NewGrainLFSR seeds and warms up an LFSR for params.
func NewGrainLFSR(params *PoseidonParameters) *GrainLFSR {
	lfsr := &GrainLFSR{params: params}
	lfsr.initialize()
	return lfsr
}

func (g *GrainLFSR) initialize() {
	g.state[0] = true
	g.state[1] = true

	sboxBits := g.params.SboxPower
	for i := 0; i < 4; i++ {
		g.state[2+i] = (sboxBits>>i)&1 == 1
	}

	fieldSize := g.params.FieldSize
	for i := 0; i < 12; i++ {
		g.state[6+i] = (fieldSize>>i)&1 == 1
	}

	width := g.params.Width
	for i := 0; i < 12; i++ {
		g.state[18+i] = (width>>i)&1 == 1
	}

	rf := g.params.RoundsFull
	for i := 0; i < 10; i++ {
		g.state[30+i] = (rf>>i)&1 == 1
	}

	rp := g.params.RoundsPartial
	for i := 0; i < 10; i++ {
		g.state[40+i] = (rp>>i)&1 == 1
	}

	for i := 50; i < 80; i++ {
		g.state[i] = true
	}

	for i := 0; i < 160; i++ {
		g.update()
	}
}

func (g *GrainLFSR) update() {
	newBit := g.state[62] != g.state[51] != g.state[38] != g.state[23] != g.state[13] != g.state[0]
	for i := 0; i < 79; i++ {
		g.state[i] = g.state[i+1]
	}
	g.state[79] = newBit
}

// NextFieldElement samples a field element's worth of bits from the LFSR.
func (g *GrainLFSR) NextFieldElement(field *Field) *FieldElement {
	value := big.NewInt(0)
	for i := 0; i < field.Modulus().BitLen(); i++ {
		bit1 := g.sampleBit()
		bit2 := g.sampleBit()
		if bit1 && bit2 {
			value.SetBit(value, i, 1)
		}
	}
	value.Mod(value, field.Modulus())
	return field.NewElement(value)
}

func (g *GrainLFSR) sampleBit() bool {
	for {
		bit1 := g.state[0]
		g.update()
		bit2 := g.state[0]
		g.update()
		if bit1 {
			return bit2
		}
	}
}

// PoseidonSponge exposes Absorb/Squeeze directly, for callers that need
// variable-length output rather than a single fixed-width digest.
type PoseidonSponge struct {
	hash     *EnhancedPoseidonHash
	state    []*FieldElement
	absorbed int
}

// NewPoseidonSponge builds a sponge over an EnhancedPoseidonHash instance.
func NewPoseidonSponge(field *Field, params *PoseidonParameters) (*PoseidonSponge, error) {
	hash, err := NewEnhancedPoseidonHash(field, params)
	if err != nil {
		return nil, err
	}

	state := make([]*FieldElement, hash.width)
	for i := range state {
		state[i] = hash.field.Zero()
	}

	return &PoseidonSponge{hash: hash, state: state}, nil
}

// Absorb feeds inputs into the sponge, permuting whenever the rate fills.
func (s *PoseidonSponge) Absorb(inputs []*FieldElement) {
	for _, input := range inputs {
		s.state[s.absorbed] = s.state[s.absorbed].Add(input)
		s.absorbed++
		if s.absorbed >= s.hash.rate {
			s.state = s.hash.poseidonPermutation(s.state)
			s.absorbed = 0
		}
	}
}

// Squeeze reads outputLength elements out of the sponge, permuting as
// needed to produce more rate elements.
func (s *PoseidonSponge) Squeeze(outputLength int) []*FieldElement {
	outputs := make([]*FieldElement, outputLength)
	for i := 0; i < outputLength; i++ {
		if s.absorbed >= s.hash.rate {
			s.state = s.hash.poseidonPermutation(s.state)
			s.absorbed = 0
		}
		outputs[i] = s.state[s.absorbed]
		s.absorbed++
	}
	return outputs
}

// GetEnhancedPoseidonHash builds an EnhancedPoseidonHash with default
// parameters for the given security level.
func GetEnhancedPoseidonHash(field *Field, securityLevel int) (FieldFriendlyHash, error) {
	params := GetDefaultPoseidonParameters(field, securityLevel)
	return NewEnhancedPoseidonHash(field, params)
}
