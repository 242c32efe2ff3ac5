package vorbis

import (
	"testing"

	"github.com/vorbisdec/vorbis/internal/codecerr"
)

func TestNewDecoderParsesHeadersAndExposesMetadata(t *testing.T) {
	dec, err := NewDecoder(buildIdentPacket(), buildCommentPacket(), buildMinimalSetupPacket())
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	if dec.Channels() != 1 {
		t.Errorf("Channels() = %d, want 1", dec.Channels())
	}
	if dec.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", dec.SampleRate())
	}
	vendor, tags := dec.Comments()
	if vendor != "" || len(tags) != 0 {
		t.Errorf("Comments() = (%q, %v), want (\"\", empty)", vendor, tags)
	}
}

func TestNewDecoderPropagatesIdentError(t *testing.T) {
	_, err := NewDecoder([]byte{0, 0}, buildCommentPacket(), buildMinimalSetupPacket())
	if err == nil {
		t.Fatalf("NewDecoder accepted a malformed identification packet")
	}
}

func TestNewDecoderPropagatesCommentError(t *testing.T) {
	// Truncated comment packet: signature present, no vendor length.
	w := &bitWriter{}
	writeVorbisHeaderSignature(w, 3)
	_, err := NewDecoder(buildIdentPacket(), w.Bytes(), buildMinimalSetupPacket())
	if err == nil {
		t.Fatalf("NewDecoder accepted a truncated comment packet")
	}
}

func TestNewDecoderPropagatesSetupError(t *testing.T) {
	_, err := NewDecoder(buildIdentPacket(), buildCommentPacket(), []byte{0, 0})
	if err == nil {
		t.Fatalf("NewDecoder accepted a malformed setup packet")
	}
}

func TestDecoderResetDoesNotPanic(t *testing.T) {
	dec, err := NewDecoder(buildIdentPacket(), buildCommentPacket(), buildMinimalSetupPacket())
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	dec.Reset()
}

func TestDecoderDecodePropagatesUnsupportedFloor(t *testing.T) {
	dec, err := NewDecoder(buildIdentPacket(), buildCommentPacket(), buildMinimalSetupPacket())
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	w := &bitWriter{}
	w.WriteBool(false) // audio packet
	w.WriteBits(0, 0)  // single mode: no selector bits
	_, err = dec.Decode(OggPacket{Data: w.Bytes()})
	if err != codecerr.ErrUnsupportedFeature {
		t.Fatalf("Decode err = %v, want ErrUnsupportedFeature (setup's floor type has no decode path)", err)
	}
}

func TestDecoderDurationParserReflectsSetup(t *testing.T) {
	dec, err := NewDecoder(buildIdentPacket(), buildCommentPacket(), buildMinimalSetupPacket())
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	dp := dec.durationParser()
	if dp == nil {
		t.Fatalf("durationParser() = nil")
	}
}
