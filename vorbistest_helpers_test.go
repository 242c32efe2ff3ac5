package vorbis

import (
	"github.com/vorbisdec/vorbis/internal/vorbis"
)

// bitWriter mirrors internal/vorbis's LSb-first bit packing, for
// building raw header packets without a real encoder.
type bitWriter struct {
	out   []byte
	cache uint64
	nbits uint
}

func (w *bitWriter) WriteBits(v uint32, n uint) {
	if n == 0 {
		return
	}
	mask := uint64(1)<<n - 1
	w.cache |= (uint64(v) & mask) << w.nbits
	w.nbits += n
	for w.nbits >= 8 {
		w.out = append(w.out, byte(w.cache))
		w.cache >>= 8
		w.nbits -= 8
	}
}

func (w *bitWriter) WriteBool(b bool) {
	if b {
		w.WriteBits(1, 1)
	} else {
		w.WriteBits(0, 1)
	}
}

func (w *bitWriter) Bytes() []byte {
	if w.nbits == 0 {
		return w.out
	}
	return append(w.out, byte(w.cache))
}

const testVorbisSignature = "vorbis"

func writeVorbisHeaderSignature(w *bitWriter, packetType uint32) {
	w.WriteBits(packetType, 8)
	for i := 0; i < len(testVorbisSignature); i++ {
		w.WriteBits(uint32(testVorbisSignature[i]), 8)
	}
}

// buildIdentPacket returns a valid identification header packet for
// a mono stream with block sizes 2^6 (64 samples, both short and
// long), matching buildMinimalSetupPacket below.
func buildIdentPacket() []byte {
	w := &bitWriter{}
	writeVorbisHeaderSignature(w, 1)
	w.WriteBits(0, 32) // version
	w.WriteBits(1, 8)  // channels
	w.WriteBits(44100, 32)
	w.WriteBits(0, 32) // bitrate maximum
	w.WriteBits(0, 32) // bitrate nominal
	w.WriteBits(0, 32) // bitrate minimum
	w.WriteBits(6|(6<<4), 8)
	w.WriteBits(1, 8) // framing bit
	return w.Bytes()
}

// buildCommentPacket returns a valid comment header packet with an
// empty vendor string and no comments.
func buildCommentPacket() []byte {
	w := &bitWriter{}
	writeVorbisHeaderSignature(w, 3)
	w.WriteBits(0, 32) // vendor length
	w.WriteBits(0, 32) // comment count
	return w.Bytes()
}

// buildMinimalSetupPacket returns a valid setup header packet
// declaring one sparse single-entry codebook, one (unsupported
// placeholder) floor, one type-0 residue, one mapping, and one mode —
// enough for ParseSetupHeader to succeed, though not enough for
// DecodePacket to decode audio (floor type 0 has no decode path).
func buildMinimalSetupPacket() []byte {
	w := &bitWriter{}
	writeVorbisHeaderSignature(w, 5)

	w.WriteBits(0, 8) // codebook count - 1
	w.WriteBits(0x564342, 24)
	w.WriteBits(1, 16)
	w.WriteBits(1, 24)
	w.WriteBool(false)
	w.WriteBool(true)
	w.WriteBool(true)
	w.WriteBits(0, 5)
	w.WriteBits(0, 4)

	w.WriteBits(0, 6)  // time-domain transform count - 1
	w.WriteBits(0, 16) // transform type

	w.WriteBits(0, 6)  // floor count - 1
	w.WriteBits(0, 16) // floor type 0 (placeholder, no body)

	w.WriteBits(0, 6)  // residue count - 1
	w.WriteBits(0, 16) // residue type 0
	w.WriteBits(0, 24) // begin
	w.WriteBits(0, 24) // end
	w.WriteBits(0, 24) // partSize - 1
	w.WriteBits(0, 6)  // classifications - 1
	w.WriteBits(0, 8)  // classbook index
	w.WriteBits(0, 3)  // low bits, no passes
	w.WriteBool(false) // no high bits

	w.WriteBits(0, 6)  // mapping count - 1
	w.WriteBits(0, 16) // mapping type 0
	w.WriteBool(false) // no submaps
	w.WriteBool(false) // no coupling
	w.WriteBits(0, 2)  // reserved
	w.WriteBits(0, 8)  // submap placeholder
	w.WriteBits(0, 8)  // submap floor
	w.WriteBits(0, 8)  // submap residue

	w.WriteBits(0, 6)  // mode count - 1
	w.WriteBool(false) // block flag
	w.WriteBits(0, 16) // window type
	w.WriteBits(0, 16) // transform type
	w.WriteBits(0, 8)  // mapping index

	w.WriteBool(true) // framing bit
	return w.Bytes()
}

func buildMinimalSetupForTest(t interface{ Fatalf(string, ...interface{}) }) *vorbis.Setup {
	ident := &vorbis.IdentHeader{Channels: 1, Blocksize0Exp: 6, Blocksize1Exp: 6}
	setup, err := vorbis.ParseSetupHeader(buildMinimalSetupPacket(), ident)
	if err != nil {
		t.Fatalf("ParseSetupHeader: %v", err)
	}
	return setup
}
