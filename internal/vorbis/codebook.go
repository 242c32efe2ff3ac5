package vorbis

import (
	"math"

	"github.com/vorbisdec/vorbis/internal/bitio"
	"github.com/vorbisdec/vorbis/internal/codecerr"
)

// codebookSync is the 24-bit signature at the start of every packed
// Vorbis codebook: the ASCII bytes 'B', 'C', 'V' read LSb-first.
const codebookSync = 0x564342

// Codebook is one decoded Vorbis codebook: a canonical Huffman tree
// for entry lookup, plus an optional vector-quantization lookup table
// used by residue decode to turn an entry index into a coordinate
// vector.
type Codebook struct {
	Dimensions int
	Entries    int

	tree *bitio.Codebook

	// vqTable holds Entries*Dimensions values when lookupType != 0,
	// row-major by entry. Unused (zero-length) entries have undefined
	// rows; callers never look them up, since the tree never decodes
	// to their index.
	vqTable []float32
}

// ReadCodebook parses one packed codebook from r, per the wire layout
// in the Vorbis setup header.
func ReadCodebook(r *bitio.Reader) (*Codebook, error) {
	sync, err := r.ReadBitsLEQ32(24)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	if sync != codebookSync {
		return nil, ErrBadSignature
	}

	dims, err := r.ReadBitsLEQ32(16)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	entries, err := r.ReadBitsLEQ32(24)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}

	lengths, sparse, err := readCodeLengths(r, int(entries))
	if err != nil {
		return nil, err
	}

	values := make([]int32, len(lengths))
	for i := range values {
		values[i] = int32(i)
	}
	tree, err := bitio.BuildCodebook(lengths, values, bitio.Reverse, sparse, 8)
	if err != nil {
		return nil, codecerr.ErrDecodeError
	}

	cb := &Codebook{Dimensions: int(dims), Entries: int(entries), tree: tree}

	lookupType, err := r.ReadBitsLEQ32(4)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	switch lookupType {
	case 0:
		// No VQ lookup.
	case 1, 2:
		if err := cb.readVQLookup(r, lookupType); err != nil {
			return nil, err
		}
	default:
		return nil, codecerr.ErrDecodeError
	}

	return cb, nil
}

func readCodeLengths(r *bitio.Reader, entries int) ([]int, bool, error) {
	ordered, err := r.ReadBool()
	if err != nil {
		return nil, false, codecerr.ErrEndOfStream
	}
	lengths := make([]int, entries)

	if !ordered {
		sparse, err := r.ReadBool()
		if err != nil {
			return nil, false, codecerr.ErrEndOfStream
		}
		for i := 0; i < entries; i++ {
			if sparse {
				used, err := r.ReadBool()
				if err != nil {
					return nil, false, codecerr.ErrEndOfStream
				}
				if !used {
					continue
				}
			}
			l, err := r.ReadBitsLEQ32(5)
			if err != nil {
				return nil, false, codecerr.ErrEndOfStream
			}
			lengths[i] = int(l) + 1
		}
		return lengths, sparse, nil
	}

	currentEntry := 0
	l, err := r.ReadBitsLEQ32(5)
	if err != nil {
		return nil, false, codecerr.ErrEndOfStream
	}
	currentLength := int(l) + 1
	for currentEntry < entries {
		bits := ilog(uint32(entries - currentEntry))
		number, err := r.ReadBitsLEQ32(bits)
		if err != nil {
			return nil, false, codecerr.ErrEndOfStream
		}
		if currentEntry+int(number) > entries {
			return nil, false, codecerr.ErrDecodeError
		}
		for i := 0; i < int(number); i++ {
			lengths[currentEntry+i] = currentLength
		}
		currentEntry += int(number)
		currentLength++
	}
	return lengths, false, nil
}

// ilog returns the position of the highest set bit of v, i.e. the
// number of bits needed to represent values in [0, v].
func ilog(v uint32) uint {
	n := uint(0)
	for v > 0 {
		n++
		v >>= 1
	}
	return n
}

func (cb *Codebook) readVQLookup(r *bitio.Reader, lookupType uint32) error {
	minRaw, err := r.ReadBitsLEQ32(32)
	if err != nil {
		return codecerr.ErrEndOfStream
	}
	deltaRaw, err := r.ReadBitsLEQ32(32)
	if err != nil {
		return codecerr.ErrEndOfStream
	}
	valueBitsField, err := r.ReadBitsLEQ32(4)
	if err != nil {
		return codecerr.ErrEndOfStream
	}
	valueBits := uint(valueBitsField) + 1
	sequenceP, err := r.ReadBool()
	if err != nil {
		return codecerr.ErrEndOfStream
	}

	minValue := unpackFloat32(minRaw)
	deltaValue := unpackFloat32(deltaRaw)

	var lookupValues int
	if lookupType == 1 {
		lookupValues = lookup1Values(cb.Entries, cb.Dimensions)
	} else {
		lookupValues = cb.Entries * cb.Dimensions
	}
	if lookupValues == 0 {
		return codecerr.ErrDecodeError
	}

	multiplicands := make([]uint32, lookupValues)
	for i := range multiplicands {
		v, err := r.ReadBitsLEQ32(valueBits)
		if err != nil {
			return codecerr.ErrEndOfStream
		}
		multiplicands[i] = v
	}

	cb.vqTable = make([]float32, cb.Entries*cb.Dimensions)
	for j := 0; j < cb.Entries; j++ {
		last := float32(0)
		if lookupType == 1 {
			indexDivisor := 1
			for k := 0; k < cb.Dimensions; k++ {
				idx := (j / indexDivisor) % lookupValues
				value := float32(multiplicands[idx])*deltaValue + minValue + last
				if sequenceP {
					last = value
				}
				cb.vqTable[j*cb.Dimensions+k] = value
				indexDivisor *= lookupValues
			}
		} else {
			for k := 0; k < cb.Dimensions; k++ {
				idx := j*cb.Dimensions + k
				value := float32(multiplicands[idx])*deltaValue + minValue + last
				if sequenceP {
					last = value
				}
				cb.vqTable[j*cb.Dimensions+k] = value
			}
		}
	}
	return nil
}

// unpackFloat32 decodes Vorbis's packed 32-bit float format: a 21-bit
// mantissa, a 10-bit biased exponent (bias 788), and a sign bit.
func unpackFloat32(raw uint32) float32 {
	mantissa := int32(raw & 0x1fffff)
	sign := raw & 0x80000000
	exponent := int32((raw&0x7fe00000)>>21) - 788
	if sign != 0 {
		mantissa = -mantissa
	}
	return float32(float64(mantissa) * math.Pow(2, float64(exponent)))
}

// lookup1Values returns the largest r such that r^dim <= entries.
func lookup1Values(entries, dim int) int {
	if dim <= 0 {
		return 0
	}
	r := int(math.Floor(math.Exp(math.Log(float64(entries)) / float64(dim))))
	for {
		if powInt(r+1, dim) <= entries {
			r++
			continue
		}
		break
	}
	for r > 0 && powInt(r, dim) > entries {
		r--
	}
	return r
}

func powInt(base, exp int) int {
	v := 1
	for i := 0; i < exp; i++ {
		v *= base
	}
	return v
}

// Decode reads one Huffman code from r and returns the decoded entry
// index.
func (cb *Codebook) Decode(r *bitio.Reader) (int32, error) {
	v, _, err := r.ReadCodebook(cb.tree)
	if err != nil {
		return 0, err
	}
	return v, nil
}

// VQVector returns the coordinate vector for a decoded entry, or nil
// if this codebook has no VQ lookup table.
func (cb *Codebook) VQVector(entry int32) []float32 {
	if cb.vqTable == nil {
		return nil
	}
	start := int(entry) * cb.Dimensions
	return cb.vqTable[start : start+cb.Dimensions]
}
