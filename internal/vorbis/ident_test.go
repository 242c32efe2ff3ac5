package vorbis

import (
	"testing"

	"github.com/vorbisdec/vorbis/internal/codecerr"
)

func writeIdentPacket(w *bitWriter, channels, sampleRate uint32, bs0, bs1, framing uint32) {
	w.WriteBits(packetTypeIdent, 8)
	for i := 0; i < len(vorbisSignature); i++ {
		w.WriteBits(uint32(vorbisSignature[i]), 8)
	}
	w.WriteBits(0, 32) // version
	w.WriteBits(channels, 8)
	w.WriteBits(sampleRate, 32)
	w.WriteBits(0, 32) // bitrate maximum
	w.WriteBits(0, 32) // bitrate nominal
	w.WriteBits(0, 32) // bitrate minimum
	w.WriteBits(bs0|(bs1<<4), 8)
	w.WriteBits(framing, 8)
}

func TestParseIdentHeaderValid(t *testing.T) {
	w := &bitWriter{}
	writeIdentPacket(w, 2, 44100, 8, 11, 1)

	h, err := ParseIdentHeader(w.Bytes())
	if err != nil {
		t.Fatalf("ParseIdentHeader: %v", err)
	}
	if h.Channels != 2 || h.SampleRate != 44100 {
		t.Fatalf("h = %+v, want Channels:2 SampleRate:44100", h)
	}
	if h.BlockSize0() != 256 || h.BlockSize1() != 2048 {
		t.Errorf("BlockSize0/1 = %d/%d, want 256/2048", h.BlockSize0(), h.BlockSize1())
	}
}

func TestParseIdentHeaderRejectsZeroChannels(t *testing.T) {
	w := &bitWriter{}
	writeIdentPacket(w, 0, 44100, 8, 11, 1)
	if _, err := ParseIdentHeader(w.Bytes()); err != codecerr.ErrDecodeError {
		t.Fatalf("err = %v, want ErrDecodeError", err)
	}
}

func TestParseIdentHeaderRejectsZeroSampleRate(t *testing.T) {
	w := &bitWriter{}
	writeIdentPacket(w, 2, 0, 8, 11, 1)
	if _, err := ParseIdentHeader(w.Bytes()); err != codecerr.ErrDecodeError {
		t.Fatalf("err = %v, want ErrDecodeError", err)
	}
}

func TestParseIdentHeaderRejectsInvertedBlockSizes(t *testing.T) {
	w := &bitWriter{}
	writeIdentPacket(w, 2, 44100, 11, 8, 1) // bs0 > bs1
	if _, err := ParseIdentHeader(w.Bytes()); err != ErrInvalidBlockSize {
		t.Fatalf("err = %v, want ErrInvalidBlockSize", err)
	}
}

func TestParseIdentHeaderRejectsMissingFramingBit(t *testing.T) {
	w := &bitWriter{}
	writeIdentPacket(w, 2, 44100, 8, 11, 0)
	if _, err := ParseIdentHeader(w.Bytes()); err != ErrBadFraming {
		t.Fatalf("err = %v, want ErrBadFraming", err)
	}
}

func TestParseIdentHeaderRejectsWrongVersion(t *testing.T) {
	w := &bitWriter{}
	w.WriteBits(packetTypeIdent, 8)
	for i := 0; i < len(vorbisSignature); i++ {
		w.WriteBits(uint32(vorbisSignature[i]), 8)
	}
	w.WriteBits(1, 32) // nonzero version
	if _, err := ParseIdentHeader(w.Bytes()); err != ErrBadVersion {
		t.Fatalf("err = %v, want ErrBadVersion", err)
	}
}
