package vorbis

import "github.com/vorbisdec/vorbis/internal/bitio"

// FloorChannel holds one channel's decoded floor state for one
// packet: whether the channel was used, and the synthesized spectral
// envelope (length n/2 for the packet's block size).
type FloorChannel struct {
	Used  bool
	Curve []float32
}

// Floor is the per-mapping spectral envelope variant. Only Floor1 is
// implemented. Floor0 is a stub that setup parsing never constructs:
// a type-0 floor is recorded as a FloorEntry with floorTagUnsupported,
// and the tag switch in decode.go reports ErrUnsupportedFeature for it.
type Floor interface {
	// ReadChannel decodes one channel's floor curve for the current
	// packet into out (length n/2), using cbs to resolve codebook
	// indices. out is zeroed by the caller beforehand.
	ReadChannel(r *bitio.Reader, cbs []*Codebook, out []float32) (used bool, err error)
}
