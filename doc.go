// Package vorbis decodes an Ogg-encapsulated Vorbis I audio stream
// into planar floating-point PCM, given a seekable byte source.
//
// The container and codec layers live in subpackages: container/ogg
// holds the physical/logical stream demultiplexer, internal/vorbis
// holds the codebook, floor, residue, and DSP machinery. This package
// wires the two together behind Decoder and Reader and carries
// nothing of its own beyond that adaptation — the same
// thin-root-over-internal-packages shape the teacher uses for its
// root gopus package over internal/celt and internal/silk.
package vorbis
