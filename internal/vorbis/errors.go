package vorbis

import "errors"

// Vorbis-specific setup-time errors. Runtime decode errors use the
// shared codecerr taxonomy; these describe malformed setup-header
// fields that have no other natural home.
var (
	ErrBadSignature     = errors.New("vorbis: bad packet signature")
	ErrBadPacketType    = errors.New("vorbis: unexpected packet type")
	ErrBadVersion       = errors.New("vorbis: unsupported bitstream version")
	ErrBadFraming       = errors.New("vorbis: framing bit not set")
	ErrInvalidBlockSize = errors.New("vorbis: invalid block size exponents")
	ErrMissingReference = errors.New("vorbis: mapping references a nonexistent codebook, floor, or residue")
	ErrInvalidMapping   = errors.New("vorbis: unsupported mapping type")
	ErrInvalidMode      = errors.New("vorbis: mode references a nonexistent mapping")
)
