// Command fri-demo drives one FRI commit/query/verify round over stdin
// configuration, the way cmd/vybium-vm-prover drives a full STARK proof: one
// JSON line in, a JSON result out.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/vybium/fri/internal/core"
	"github.com/vybium/fri/internal/fri"
	"github.com/vybium/fri/internal/transcript"
)

// RunInput configures one end-to-end FRI run.
type RunInput struct {
	Modulus          string `json:"modulus"`
	PolynomialDegree int    `json:"polynomial_degree"`
	BlowupFactor     int    `json:"blowup_factor"`
	FoldingFactor    int    `json:"folding_factor"`
	MaxRemainderSize int    `json:"max_remainder_size"`
	NumQueries       int    `json:"num_queries"`
	HashFunction     string `json:"hash_function"`
}

// RunResult reports whether the proof the demo built verifies.
type RunResult struct {
	Accepted    bool   `json:"accepted"`
	Reason      string `json:"reason,omitempty"`
	NumLayers   int    `json:"num_layers"`
	ProofLayers int    `json:"proof_layers"`
}

func main() {
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		fatal("failed to read run configuration")
	}
	var in RunInput
	if err := json.Unmarshal(scanner.Bytes(), &in); err != nil {
		fatal(fmt.Sprintf("failed to parse run configuration: %v", err))
	}

	result, err := run(in)
	if err != nil {
		fatal(err.Error())
	}

	out, err := json.Marshal(result)
	if err != nil {
		fatal(fmt.Sprintf("failed to encode result: %v", err))
	}
	fmt.Println(string(out))
}

func run(in RunInput) (*RunResult, error) {
	modulus, ok := new(big.Int).SetString(in.Modulus, 10)
	if !ok {
		return nil, fmt.Errorf("invalid modulus %q", in.Modulus)
	}
	field, err := core.NewField(modulus)
	if err != nil {
		return nil, err
	}

	options := &fri.Options{
		BlowupFactor:     in.BlowupFactor,
		FoldingFactor:    in.FoldingFactor,
		MaxRemainderSize: in.MaxRemainderSize,
	}
	if err := options.Validate(); err != nil {
		return nil, err
	}

	offset, err := options.DomainOffset(field)
	if err != nil {
		return nil, err
	}

	domainSize := core.NextPowerOfTwo(in.PolynomialDegree+1) * options.BlowupFactor
	domain, err := fri.NewCosetDomain(field, offset, domainSize)
	if err != nil {
		return nil, err
	}

	poly, err := randomPolynomial(field, in.PolynomialDegree)
	if err != nil {
		return nil, err
	}

	transform := fri.FFTTransform{}
	initialEvals, err := transform.Evaluate(field, poly.Coefficients(), domain)
	if err != nil {
		return nil, err
	}

	proverChannel := transcript.NewChannel(in.HashFunction)
	prover, err := fri.NewProver(field, options, transform)
	if err != nil {
		return nil, err
	}
	if err := prover.BuildLayers(proverChannel, initialEvals, domain); err != nil {
		return nil, err
	}

	firstLayerSize := domainSize / options.FoldingFactor
	positions := make([]int, in.NumQueries)
	for i := range positions {
		positions[i] = i % firstLayerSize
	}
	proof, err := prover.IntoProof(positions)
	if err != nil {
		return nil, err
	}

	verifierChannel := transcript.NewChannel(in.HashFunction)
	verifier, err := fri.NewVerifier(field, options, transform, verifierChannel, proof, in.PolynomialDegree+1)
	if err != nil {
		return nil, err
	}

	result := &RunResult{
		NumLayers:   options.NumLayers(domainSize),
		ProofLayers: len(proof.Layers),
	}
	if err := verifier.Verify(positions); err != nil {
		result.Accepted = false
		result.Reason = verifier.Reason()
		return result, nil
	}
	result.Accepted = true
	return result, nil
}

// randomPolynomial builds a polynomial of the given degree with uniformly
// random coefficients, standing in for whatever committed polynomial a
// caller would otherwise supply.
func randomPolynomial(field *core.Field, degree int) (*core.Polynomial, error) {
	coeffs := make([]*core.FieldElement, degree+1)
	for i := range coeffs {
		elem, err := field.RandomElement()
		if err != nil {
			return nil, err
		}
		coeffs[i] = elem
	}
	return core.NewPolynomial(coeffs)
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, "ERROR: "+msg)
	os.Exit(1)
}
