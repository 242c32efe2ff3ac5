package vorbis

import "errors"

// ErrNotVorbis is returned when the identified default track's first
// packet is not a recognizable Vorbis identification header.
var ErrNotVorbis = errors.New("vorbis: stream is not a recognized Vorbis bitstream")

// ErrNoDefaultTrack is returned when a Reader is asked to decode
// before any track has been identified (typically: the source is not
// an Ogg stream at all, or ended before a BOS page arrived).
var ErrNoDefaultTrack = errors.New("vorbis: no Vorbis track identified in stream")
