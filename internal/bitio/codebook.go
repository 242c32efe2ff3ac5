package bitio

import "errors"

// ErrTableOverflow is returned by codebook construction when a jump
// offset would exceed the packed entry's 31-bit range.
var ErrTableOverflow = errors.New("bitio: codebook table overflow")

// entry is a single flat Huffman table slot. Per the packed-entry
// design: the MSB is the jump flag, the next 31 bits hold either a
// jump offset (for jump entries) or a decoded value (for leaf
// entries), and the low 32 bits hold the bit width to consume --
// the descend width for a jump, the codeword's remaining width for
// a leaf.
type entry uint64

const (
	entryJumpBit    = uint64(1) << 63
	entryPayloadMax = uint64(1)<<31 - 1
)

func makeJumpEntry(offset uint32, width uint32) entry {
	if uint64(offset) > entryPayloadMax {
		panic("bitio: jump offset exceeds packed range")
	}
	return entry(entryJumpBit | uint64(offset)<<32 | uint64(width))
}

func makeValueEntry(value int32, width uint32) entry {
	return entry(uint64(uint32(value)&uint32(entryPayloadMax))<<32 | uint64(width))
}

func (e entry) isJump() bool   { return uint64(e)&entryJumpBit != 0 }
func (e entry) payload() int32 { return int32((uint64(e) >> 32) & entryPayloadMax) }
func (e entry) width() uint32  { return uint32(e) }

// Codebook is a flat Huffman decode table built by canonical
// construction (see the vorbis package's codebook builder). Entry 0 is
// always a sentinel jump entry giving the initial peek width and base
// offset.
type Codebook struct {
	table []entry
}

// newCodebookTable allocates a zeroed table of exactly n entries; a
// caller that wants the leading sentinel counts it in n.
func newCodebookTable(n int) []entry {
	return make([]entry, n)
}

// ReadCodebook decodes one Huffman code using cb, returning the
// decoded value and the number of bits the codeword itself occupied.
// It can fail with ErrEndOfStream mid-codeword when the packet tail is
// shorter than the tree's remaining depth.
func (r *Reader) ReadCodebook(cb *Codebook) (int32, uint, error) {
	if len(cb.table) == 0 {
		return 0, 0, errors.New("bitio: empty codebook")
	}

	sentinel := cb.table[0]
	width := sentinel.width()
	offset := uint32(sentinel.payload())
	var consumed uint

	for {
		peek := r.peekBits(uint(width))
		e := cb.table[offset+peek]
		if e.isJump() {
			if _, err := r.ReadBitsLEQ32(uint(width)); err != nil {
				return 0, consumed, ErrEndOfStream
			}
			consumed += uint(width)
			width = e.width()
			offset = uint32(e.payload())
			continue
		}
		w := e.width()
		if _, err := r.ReadBitsLEQ32(uint(w)); err != nil {
			return 0, consumed, ErrEndOfStream
		}
		consumed += uint(w)
		return e.payload(), consumed, nil
	}
}
