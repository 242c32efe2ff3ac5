package vorbis

import "testing"

func writeLengthPrefixedString(w *bitWriter, s string) {
	w.WriteBits(uint32(len(s)), 32)
	for i := 0; i < len(s); i++ {
		w.WriteBits(uint32(s[i]), 8)
	}
}

func TestParseCommentHeader(t *testing.T) {
	w := &bitWriter{}
	w.WriteBits(packetTypeComment, 8)
	for i := 0; i < len(vorbisSignature); i++ {
		w.WriteBits(uint32(vorbisSignature[i]), 8)
	}
	writeLengthPrefixedString(w, "test encoder 1.0")
	w.WriteBits(2, 32) // comment count
	writeLengthPrefixedString(w, "ARTIST=Test Artist")
	writeLengthPrefixedString(w, "title=My Title")

	h, err := ParseCommentHeader(w.Bytes())
	if err != nil {
		t.Fatalf("ParseCommentHeader: %v", err)
	}
	if h.Vendor != "test encoder 1.0" {
		t.Errorf("Vendor = %q, want %q", h.Vendor, "test encoder 1.0")
	}
	if h.Comments["ARTIST"] != "Test Artist" {
		t.Errorf("Comments[ARTIST] = %q, want %q", h.Comments["ARTIST"], "Test Artist")
	}
	if h.Comments["TITLE"] != "My Title" {
		t.Errorf("Comments[TITLE] = %q, want %q (key should be uppercased)", h.Comments["TITLE"], "My Title")
	}
}

func TestParseCommentHeaderTagWithoutEquals(t *testing.T) {
	w := &bitWriter{}
	w.WriteBits(packetTypeComment, 8)
	for i := 0; i < len(vorbisSignature); i++ {
		w.WriteBits(uint32(vorbisSignature[i]), 8)
	}
	writeLengthPrefixedString(w, "")
	w.WriteBits(1, 32)
	writeLengthPrefixedString(w, "NOEQUALSSIGN")

	h, err := ParseCommentHeader(w.Bytes())
	if err != nil {
		t.Fatalf("ParseCommentHeader: %v", err)
	}
	v, ok := h.Comments["NOEQUALSSIGN"]
	if !ok || v != "" {
		t.Errorf("Comments[NOEQUALSSIGN] = %q, ok=%v, want \"\", true", v, ok)
	}
}
