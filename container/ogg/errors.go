package ogg

import "errors"

// Package-level errors for Ogg page and stream parsing. Errors shared
// with the codec layer (decode, seek) come from codecerr; these are
// specific to container framing.
var (
	// ErrInvalidPage indicates the page structure is malformed: a
	// missing "OggS" magic, a non-zero version, reserved flag bits
	// set, or a segment table inconsistent with the data available.
	ErrInvalidPage = errors.New("ogg: invalid page structure")

	// ErrBadCRC indicates the page CRC checksum does not match the
	// computed value. This typically indicates data corruption; the
	// page reader absorbs it and resynchronizes within the same
	// NextPage call.
	ErrBadCRC = errors.New("ogg: CRC mismatch")

	// ErrPartialPacketTooLarge indicates a logical stream's
	// accumulated partial-packet buffer exceeded the 8 MiB hard cap.
	ErrPartialPacketTooLarge = errors.New("ogg: partial packet exceeds maximum size")

	// ErrNoFirstPage indicates the stream did not begin with a
	// beginning-of-stream page.
	ErrNoFirstPage = errors.New("ogg: stream does not begin with a first page")

	// ErrUnknownTrack indicates a track ID not present in the stream.
	ErrUnknownTrack = errors.New("ogg: unknown track")
)
