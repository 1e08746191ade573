package fri

import (
	"encoding/binary"
	"fmt"

	"github.com/vybium/fri/internal/core"
)

// MarshalBinary renders the proof in its canonical on-wire form: every
// sequence is length-prefixed with a big-endian uint32, field elements use
// their fixed-width canonical encoding, and layers appear in folding order.
// Two equal proofs always serialize to identical bytes.
func (p *Proof) MarshalBinary() ([]byte, error) {
	var buf []byte

	buf = appendUint32(buf, uint32(len(p.Layers)))
	for _, pl := range p.Layers {
		buf = appendUint32(buf, uint32(len(pl.Proofs)))
		buf = appendUint32(buf, uint32(len(pl.Values)))
		for _, v := range pl.Values {
			buf = append(buf, v.CanonicalBytes()...)
		}
		for _, mp := range pl.Proofs {
			buf = appendBytes(buf, mp.Root)
			buf = appendUint32(buf, uint32(mp.Index))
			buf = appendUint32(buf, uint32(len(mp.Path)))
			for _, node := range mp.Path {
				buf = appendBytes(buf, node.Hash)
				if node.IsRight {
					buf = append(buf, 1)
				} else {
					buf = append(buf, 0)
				}
			}
		}
	}

	buf = appendUint32(buf, uint32(len(p.Remainder)))
	for _, v := range p.Remainder {
		buf = append(buf, v.CanonicalBytes()...)
	}

	return buf, nil
}

// UnmarshalProof parses data produced by MarshalBinary. Field elements are
// decoded against field, whose byte width fixes how the flat value regions
// are split.
func UnmarshalProof(field *core.Field, data []byte) (*Proof, error) {
	r := &byteReader{data: data}

	numLayers, err := r.uint32()
	if err != nil {
		return nil, err
	}

	proof := &Proof{}
	for i := uint32(0); i < numLayers; i++ {
		numProofs, err := r.uint32()
		if err != nil {
			return nil, err
		}
		numValues, err := r.uint32()
		if err != nil {
			return nil, err
		}

		pl := ProofLayer{}
		pl.Values, err = r.elements(field, int(numValues))
		if err != nil {
			return nil, err
		}

		for j := uint32(0); j < numProofs; j++ {
			mp := &core.MerkleProof{}
			if mp.Root, err = r.bytes(); err != nil {
				return nil, err
			}
			index, err := r.uint32()
			if err != nil {
				return nil, err
			}
			mp.Index = int(index)

			pathLen, err := r.uint32()
			if err != nil {
				return nil, err
			}
			for n := uint32(0); n < pathLen; n++ {
				var node core.ProofNode
				if node.Hash, err = r.bytes(); err != nil {
					return nil, err
				}
				side, err := r.byte()
				if err != nil {
					return nil, err
				}
				node.IsRight = side != 0
				mp.Path = append(mp.Path, node)
			}
			pl.Proofs = append(pl.Proofs, mp)
		}
		proof.Layers = append(proof.Layers, pl)
	}

	remainderLen, err := r.uint32()
	if err != nil {
		return nil, err
	}
	if proof.Remainder, err = r.elements(field, int(remainderLen)); err != nil {
		return nil, err
	}

	if r.pos != len(r.data) {
		return nil, fmt.Errorf("fri: %d trailing bytes after proof", len(r.data)-r.pos)
	}
	return proof, nil
}

func appendUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendBytes(buf, data []byte) []byte {
	buf = appendUint32(buf, uint32(len(data)))
	return append(buf, data...)
}

type byteReader struct {
	data []byte
	pos  int
}

func (r *byteReader) take(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, fmt.Errorf("fri: truncated proof at offset %d", r.pos)
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *byteReader) uint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *byteReader) byte() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *byteReader) bytes() ([]byte, error) {
	n, err := r.uint32()
	if err != nil {
		return nil, err
	}
	b, err := r.take(int(n))
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

func (r *byteReader) elements(field *core.Field, n int) ([]*core.FieldElement, error) {
	width := field.ByteLen()
	out := make([]*core.FieldElement, n)
	for i := 0; i < n; i++ {
		b, err := r.take(width)
		if err != nil {
			return nil, err
		}
		out[i] = field.NewElementFromCanonicalBytes(b)
	}
	return out, nil
}
