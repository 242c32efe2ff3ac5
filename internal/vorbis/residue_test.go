package vorbis

import (
	"testing"

	"github.com/vorbisdec/vorbis/internal/bitio"
)

// buildSingleEntryCodebook constructs a one-entry codebook (dims
// dimensions) with an optional type-1 VQ lookup table seeded from a
// single multiplicand, min and delta value 1.0.
func buildSingleEntryCodebook(t *testing.T, dims int, withVQ bool, multiplicand uint32) *Codebook {
	w := &bitWriter{}
	w.WriteBits(codebookSync, 24)
	w.WriteBits(uint32(dims), 16)
	w.WriteBits(1, 24) // entries = 1
	w.WriteBool(false) // not ordered
	w.WriteBool(true)  // sparse
	w.WriteBool(true)  // entry 0 used
	w.WriteBits(0, 5)  // length 1

	if withVQ {
		w.WriteBits(1, 4) // lookup type 1
		w.WriteBits(packFloat32(1.0), 32)
		w.WriteBits(packFloat32(1.0), 32)
		w.WriteBits(3, 4)   // valueBits - 1 == 3 -> 4 bit values
		w.WriteBool(false)  // sequence_p
		w.WriteBits(multiplicand, 4)
	} else {
		w.WriteBits(0, 4) // lookup type 0
	}

	r := bitio.NewReader(w.Bytes())
	cb, err := ReadCodebook(r)
	if err != nil {
		t.Fatalf("buildSingleEntryCodebook: %v", err)
	}
	return cb
}

// packFloat32 is the inverse of unpackFloat32, used only to build test
// fixtures: it encodes a small non-negative integer v with a zero
// exponent field (biased value 788), so it decodes back to exactly v.
func packFloat32(v float32) uint32 {
	const expBias788 = uint32(788) << 21
	return expBias788 | (uint32(int32(v)) & 0x1fffff)
}

func TestReadResidueSetupParsesBookMap(t *testing.T) {
	w := &bitWriter{}
	w.WriteBits(0, 24) // begin
	w.WriteBits(4, 24) // end
	w.WriteBits(1, 24) // partSize - 1 == 1 -> partSize 2
	w.WriteBits(0, 6)  // classifications - 1 == 0 -> 1 class
	w.WriteBits(0, 8)  // classbook index

	w.WriteBits(1, 3)   // low bits: bit0 set -> pass 0 has a book
	w.WriteBool(false)  // no high bits
	w.WriteBits(1, 8)   // pass 0 book index

	r := bitio.NewReader(w.Bytes())
	res, err := ReadResidueSetup(r, 1, 4)
	if err != nil {
		t.Fatalf("ReadResidueSetup: %v", err)
	}
	if res.begin != 0 || res.end != 4 || res.partSize != 2 {
		t.Fatalf("res = %+v, want begin:0 end:4 partSize:2", res)
	}
	if res.books[0][0] != 1 {
		t.Errorf("books[0][0] = %d, want 1", res.books[0][0])
	}
	for p := 1; p < maxResiduePasses; p++ {
		if res.books[0][p] != -1 {
			t.Errorf("books[0][%d] = %d, want -1", p, res.books[0][p])
		}
	}
}

func TestResidueDecodeType1SinglePass(t *testing.T) {
	classBook := buildSingleEntryCodebook(t, 1, false, 0)
	residueBook := buildSingleEntryCodebook(t, 2, true, 2)
	cbs := []*Codebook{classBook, residueBook}

	res := &Residue{
		Type:            1,
		begin:           0,
		end:             4,
		partSize:        2,
		classBook:       0,
		classifications: 1,
	}
	res.books = make([][maxResiduePasses]int, 1)
	for p := range res.books[0] {
		res.books[0][p] = -1
	}
	res.books[0][0] = 1

	bits := &bitWriter{}
	bits.WriteBits(0, 1) // classbook decode, group 0
	bits.WriteBits(0, 1) // classbook decode, group 1
	bits.WriteBits(0, 1) // residue decode, partition 0
	bits.WriteBits(0, 1) // residue decode, partition 1

	r := bitio.NewReader(bits.Bytes())
	dst := [][]float32{make([]float32, 4)}
	active := []bool{true}

	if err := res.Decode(r, cbs, active, dst, 4); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := []float32{3, 3, 3, 3}
	for i, v := range want {
		if dst[0][i] != v {
			t.Errorf("dst[0][%d] = %v, want %v", i, dst[0][i], v)
		}
	}
}

func TestResidueDecodeSkipsInactiveChannels(t *testing.T) {
	classBook := buildSingleEntryCodebook(t, 1, false, 0)
	residueBook := buildSingleEntryCodebook(t, 2, true, 2)
	cbs := []*Codebook{classBook, residueBook}

	res := &Residue{
		Type:            1,
		begin:           0,
		end:             4,
		partSize:        2,
		classBook:       0,
		classifications: 1,
	}
	res.books = make([][maxResiduePasses]int, 1)
	for p := range res.books[0] {
		res.books[0][p] = -1
	}
	res.books[0][0] = 1

	bits := &bitWriter{}
	bits.WriteBits(0, 1)
	bits.WriteBits(0, 1)
	bits.WriteBits(0, 1)
	bits.WriteBits(0, 1)

	r := bitio.NewReader(bits.Bytes())
	dst := [][]float32{make([]float32, 4), make([]float32, 4)}
	active := []bool{true, false}

	if err := res.Decode(r, cbs, active, dst, 4); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i, v := range dst[1] {
		if v != 0 {
			t.Errorf("inactive channel dst[1][%d] = %v, want untouched 0", i, v)
		}
	}
}

func TestCountActive(t *testing.T) {
	if countActive([]bool{true, false, true}) != 2 {
		t.Errorf("countActive = %d, want 2", countActive([]bool{true, false, true}))
	}
	if countActive(nil) != 0 {
		t.Errorf("countActive(nil) = %d, want 0", countActive(nil))
	}
}
