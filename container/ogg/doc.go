// Package ogg implements the generic Ogg container: page framing and
// CRC (page.go), a resyncing page reader over an arbitrary byte source
// (pagereader.go), packet reassembly and granule-position backfill for
// one logical bitstream (logicalstream.go), and multi-track
// demultiplexing with bisection seek (reader.go).
//
// The package is codec-agnostic. A codec plugs in by implementing
// Mapper, which lets the container recognize a logical stream's first
// packet and compute each packet's sample duration without the
// container itself knowing anything about Vorbis, FLAC, or Opus.
package ogg
