package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/vorbisdec/vorbis/container/ogg"
)

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

func (w *bitWriter) Bytes() []byte {
	if w.nbits == 0 {
		return w.out
	}
	return append(w.out, byte(w.cache))
}

func writeVorbisHeaderSignature(w *bitWriter, packetType uint32) {
	w.WriteBits(packetType, 8)
	for i := 0; i < len("vorbis"); i++ {
		w.WriteBits(uint32("vorbis"[i]), 8)
	}
}

func buildIdentPacket() []byte {
	w := &bitWriter{}
	writeVorbisHeaderSignature(w, 1)
	w.WriteBits(0, 32)
	w.WriteBits(1, 8)
	w.WriteBits(44100, 32)
	w.WriteBits(0, 32)
	w.WriteBits(0, 32)
	w.WriteBits(0, 32)
	w.WriteBits(6|(6<<4), 8)
	w.WriteBits(1, 8)
	return w.Bytes()
}

func buildCommentPacket() []byte {
	w := &bitWriter{}
	writeVorbisHeaderSignature(w, 3)
	w.WriteBits(0, 32)
	w.WriteBits(0, 32)
	return w.Bytes()
}

func buildMinimalSetupPacket() []byte {
	w := &bitWriter{}
	writeVorbisHeaderSignature(w, 5)

	w.WriteBits(0, 8)
	w.WriteBits(0x564342, 24)
	w.WriteBits(1, 16)
	w.WriteBits(1, 24)
	w.WriteBits(0, 1)
	w.WriteBits(1, 1)
	w.WriteBits(1, 1)
	w.WriteBits(0, 5)
	w.WriteBits(0, 4)

	w.WriteBits(0, 6)
	w.WriteBits(0, 16)

	w.WriteBits(0, 6)
	w.WriteBits(0, 16)

	w.WriteBits(0, 6)
	w.WriteBits(0, 16)
	w.WriteBits(0, 24)
	w.WriteBits(0, 24)
	w.WriteBits(0, 24)
	w.WriteBits(0, 6)
	w.WriteBits(0, 8)
	w.WriteBits(0, 3)
	w.WriteBits(0, 1)

	w.WriteBits(0, 6)
	w.WriteBits(0, 16)
	w.WriteBits(0, 1)
	w.WriteBits(0, 1)
	w.WriteBits(0, 2)
	w.WriteBits(0, 8)
	w.WriteBits(0, 8)
	w.WriteBits(0, 8)

	w.WriteBits(0, 6)
	w.WriteBits(0, 1)
	w.WriteBits(0, 16)
	w.WriteBits(0, 16)
	w.WriteBits(0, 8)

	w.WriteBits(1, 1) // framing bit
	return w.Bytes()
}

func buildOggPage(serial, seq uint32, flags byte, payload []byte) []byte {
	p := &ogg.Page{
		HeaderType:   flags,
		SerialNumber: serial,
		PageSequence: seq,
		Segments:     ogg.BuildSegmentTable(len(payload)),
		Payload:      payload,
	}
	return p.Encode()
}

func buildHeaderOnlyOggFile() []byte {
	var buf bytes.Buffer
	buf.Write(buildOggPage(1, 0, ogg.PageFlagBOS, buildIdentPacket()))
	buf.Write(buildOggPage(1, 1, 0, buildCommentPacket()))
	buf.Write(buildOggPage(1, 2, ogg.PageFlagEOS, buildMinimalSetupPacket()))
	return buf.Bytes()
}

func TestDecodeWritesEmptyWavForHeaderOnlyStream(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "in.ogg")
	outputPath := filepath.Join(dir, "out.wav")

	if err := os.WriteFile(inputPath, buildHeaderOnlyOggFile(), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := decode(inputPath, outputPath, -1, true); err != nil {
		t.Fatalf("decode: %v", err)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		t.Fatalf("Stat(output): %v", err)
	}
	if info.Size() == 0 {
		t.Errorf("output WAV file is empty")
	}
}

func TestDecodeReturnsErrorForMissingInput(t *testing.T) {
	dir := t.TempDir()
	if err := decode(filepath.Join(dir, "missing.ogg"), filepath.Join(dir, "out.wav"), -1, true); err == nil {
		t.Fatalf("decode accepted a nonexistent input path")
	}
}

func TestDecodeReturnsErrorForUnrecognizedStream(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "in.ogg")
	outputPath := filepath.Join(dir, "out.wav")

	if err := os.WriteFile(inputPath, []byte("not an ogg stream"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := decode(inputPath, outputPath, -1, true); err == nil {
		t.Fatalf("decode accepted a non-Ogg input")
	}
}
