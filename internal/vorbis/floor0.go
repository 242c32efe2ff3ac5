package vorbis

import (
	"github.com/vorbisdec/vorbis/internal/bitio"
	"github.com/vorbisdec/vorbis/internal/codecerr"
)

// Floor0 is recognized at setup time but never decoded: every
// operation reports UnsupportedFeature, matching the contract that a
// stream requiring it fails cleanly rather than producing silence.
type Floor0 struct{}

func (Floor0) ReadChannel(*bitio.Reader, []*Codebook, []float32) (bool, error) {
	return false, codecerr.ErrUnsupportedFeature
}
