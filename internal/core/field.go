// Package core provides the finite field, polynomial, and Merkle-tree
// primitives the FRI protocol treats as external collaborators.
package core

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Field is a prime field F_p with p held as an arbitrary-precision modulus.
type Field struct {
	modulus *big.Int
}

// FieldElement is an element of a Field, always kept reduced mod p.
type FieldElement struct {
	field *Field
	value *big.Int
}

// NewField creates a prime field with the given modulus.
func NewField(modulus *big.Int) (*Field, error) {
	if modulus.Cmp(big.NewInt(2)) <= 0 {
		return nil, fmt.Errorf("modulus must be greater than 2")
	}
	return &Field{modulus: new(big.Int).Set(modulus)}, nil
}

// NewFieldFromUint64 creates a prime field from a uint64 modulus.
func NewFieldFromUint64(modulus uint64) (*Field, error) {
	return NewField(new(big.Int).SetUint64(modulus))
}

// Modulus returns a copy of the field's modulus.
func (f *Field) Modulus() *big.Int {
	return new(big.Int).Set(f.modulus)
}

// ByteLen is the number of bytes needed for canonical, fixed-width
// serialization of any element of this field.
func (f *Field) ByteLen() int {
	return (f.modulus.BitLen() + 7) / 8
}

// NewElement reduces value mod p and wraps it as a field element.
func (f *Field) NewElement(value *big.Int) *FieldElement {
	normalized := new(big.Int).Mod(value, f.modulus)
	return &FieldElement{field: f, value: normalized}
}

// NewElementFromInt64 creates a field element from an int64.
func (f *Field) NewElementFromInt64(value int64) *FieldElement {
	return f.NewElement(big.NewInt(value))
}

// NewElementFromUint64 creates a field element from a uint64.
func (f *Field) NewElementFromUint64(value uint64) *FieldElement {
	return f.NewElement(new(big.Int).SetUint64(value))
}

// NewElementFromCanonicalBytes decodes bytes produced by CanonicalBytes.
func (f *Field) NewElementFromCanonicalBytes(data []byte) *FieldElement {
	return f.NewElement(new(big.Int).SetBytes(data))
}

// RandomElement draws a uniformly random field element using a CSPRNG.
// Used by cmd/fri-demo to build its random polynomial; the transcript never
// calls this since FRI challenges must be derived deterministically from
// Fiat-Shamir state.
func (f *Field) RandomElement() (*FieldElement, error) {
	value, err := rand.Int(rand.Reader, f.modulus)
	if err != nil {
		return nil, fmt.Errorf("failed to generate random element: %w", err)
	}
	return f.NewElement(value), nil
}

// Zero returns the additive identity.
func (f *Field) Zero() *FieldElement {
	return f.NewElement(big.NewInt(0))
}

// One returns the multiplicative identity.
func (f *Field) One() *FieldElement {
	return f.NewElement(big.NewInt(1))
}

// Equals reports whether two Field values share the same modulus.
func (f *Field) Equals(other *Field) bool {
	return f.modulus.Cmp(other.modulus) == 0
}

// Big returns a copy of the element's value as a big.Int.
func (fe *FieldElement) Big() *big.Int {
	return new(big.Int).Set(fe.value)
}

// Field returns the field this element belongs to.
func (fe *FieldElement) Field() *Field {
	return fe.field
}

// Add performs field addition.
func (fe *FieldElement) Add(other *FieldElement) *FieldElement {
	if !fe.field.Equals(other.field) {
		panic("cannot add elements from different fields")
	}
	return fe.field.NewElement(new(big.Int).Add(fe.value, other.value))
}

// Sub performs field subtraction.
func (fe *FieldElement) Sub(other *FieldElement) *FieldElement {
	if !fe.field.Equals(other.field) {
		panic("cannot subtract elements from different fields")
	}
	return fe.field.NewElement(new(big.Int).Sub(fe.value, other.value))
}

// Neg returns the additive inverse.
func (fe *FieldElement) Neg() *FieldElement {
	return fe.field.NewElement(new(big.Int).Neg(fe.value))
}

// Mul performs field multiplication.
func (fe *FieldElement) Mul(other *FieldElement) *FieldElement {
	if !fe.field.Equals(other.field) {
		panic("cannot multiply elements from different fields")
	}
	return fe.field.NewElement(new(big.Int).Mul(fe.value, other.value))
}

// Div performs field division (multiplication by the inverse).
func (fe *FieldElement) Div(other *FieldElement) (*FieldElement, error) {
	if !fe.field.Equals(other.field) {
		return nil, fmt.Errorf("cannot divide elements from different fields")
	}
	inv, err := other.Inv()
	if err != nil {
		return nil, fmt.Errorf("division failed: %w", err)
	}
	return fe.Mul(inv), nil
}

// Inv computes the multiplicative inverse via the extended Euclidean algorithm.
func (fe *FieldElement) Inv() (*FieldElement, error) {
	if fe.value.Sign() == 0 {
		return nil, fmt.Errorf("cannot compute inverse of zero")
	}

	gcd, x := new(big.Int), new(big.Int)
	gcd.GCD(x, new(big.Int), fe.value, fe.field.modulus)
	if gcd.Cmp(big.NewInt(1)) != 0 {
		return nil, fmt.Errorf("inverse does not exist")
	}
	if x.Sign() < 0 {
		x.Add(x, fe.field.modulus)
	}
	return fe.field.NewElement(x), nil
}

// Exp performs field exponentiation by a non-negative exponent.
func (fe *FieldElement) Exp(exponent *big.Int) *FieldElement {
	return fe.field.NewElement(new(big.Int).Exp(fe.value, exponent, fe.field.modulus))
}

// Square computes fe * fe.
func (fe *FieldElement) Square() *FieldElement {
	return fe.Mul(fe)
}

// Equal reports value equality within the same field.
func (fe *FieldElement) Equal(other *FieldElement) bool {
	if !fe.field.Equals(other.field) {
		return false
	}
	return fe.value.Cmp(other.value) == 0
}

// IsZero reports whether the element is the additive identity.
func (fe *FieldElement) IsZero() bool {
	return fe.value.Sign() == 0
}

// IsOne reports whether the element is the multiplicative identity.
func (fe *FieldElement) IsOne() bool {
	return fe.value.Cmp(big.NewInt(1)) == 0
}

// String returns the decimal representation of the element's value.
func (fe *FieldElement) String() string {
	return fe.value.String()
}

// Bytes returns the big-endian representation of the element's value,
// without leading zero padding. Not suitable for transcript absorption or
// Merkle leaf hashing across elements of varying magnitude; use
// CanonicalBytes for that.
func (fe *FieldElement) Bytes() []byte {
	return fe.value.Bytes()
}

// CanonicalBytes returns the element's value as a fixed-width, zero-padded
// big-endian byte slice sized to the field's modulus. Two elements of the
// same field always serialize to the same length, which the proof's
// deterministic, length-prefixed tuple encoding depends on: naive Bytes()
// strips leading zero bytes and would make the serialization of
// equal-length tuples ambiguous.
func (fe *FieldElement) CanonicalBytes() []byte {
	out := make([]byte, fe.field.ByteLen())
	fe.value.FillBytes(out)
	return out
}

// DefaultPrimeField and DefaultGenerator establish the two-adic prime field
// used by the reference test vectors: p = 3*2^30 + 1, which has a
// multiplicative group of order divisible by 2^30, and g = 5 is a generator
// of that group.
var (
	DefaultPrimeField, _ = NewFieldFromUint64(3221225473)
	DefaultGenerator     = DefaultPrimeField.NewElementFromInt64(5)
)

// Generator returns an element of order p-1: a generator of the field's
// full multiplicative group. This is the canonical FRI coset offset --
// every layer's evaluation domain is a coset of this element's powers, so
// FRI codewords never land on a root of the domain's own vanishing
// polynomial.
//
// Found by factoring p-1 by trial division and checking, for each small
// candidate g, that g^((p-1)/q) != 1 for every prime factor q of p-1 --
// the standard primitive-root test, cheaper than GetPrimitiveRootOfUnity's
// exhaustive order search because it never has to enumerate all of a
// potentially huge group order.
func (f *Field) Generator() (*FieldElement, error) {
	pMinus1 := new(big.Int).Sub(f.modulus, big.NewInt(1))
	factors := primeFactors(pMinus1)

	for g := int64(2); g < 10000; g++ {
		candidate := f.NewElementFromInt64(g)
		if candidate.IsZero() {
			continue
		}

		isGenerator := true
		for _, q := range factors {
			exponent := new(big.Int).Div(pMinus1, q)
			if candidate.Exp(exponent).IsOne() {
				isGenerator = false
				break
			}
		}
		if isGenerator {
			return candidate, nil
		}
	}
	return nil, fmt.Errorf("no multiplicative generator found below search bound for modulus %s", f.modulus)
}

// primeFactors returns the distinct prime factors of n via trial division,
// sufficient for the field moduli FRI cares about (two-adic primes with a
// small odd cofactor).
func primeFactors(n *big.Int) []*big.Int {
	var factors []*big.Int
	remaining := new(big.Int).Set(n)

	two := big.NewInt(2)
	if new(big.Int).Mod(remaining, two).Sign() == 0 {
		factors = append(factors, two)
		for new(big.Int).Mod(remaining, two).Sign() == 0 {
			remaining.Div(remaining, two)
		}
	}

	for d := big.NewInt(3); new(big.Int).Mul(d, d).Cmp(remaining) <= 0; d.Add(d, big.NewInt(2)) {
		if new(big.Int).Mod(remaining, d).Sign() == 0 {
			factors = append(factors, new(big.Int).Set(d))
			for new(big.Int).Mod(remaining, d).Sign() == 0 {
				remaining.Div(remaining, d)
			}
		}
	}
	if remaining.Cmp(big.NewInt(1)) > 0 {
		factors = append(factors, remaining)
	}
	return factors
}
