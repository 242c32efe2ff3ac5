// Package codecerr defines the shared error taxonomy used across the
// container and codec layers, so that both can report failures in a
// way callers can inspect with errors.Is/errors.As regardless of
// which layer raised them.
package codecerr

import "errors"

// Sentinel error kinds, per the error-kind taxonomy.
var (
	// ErrDecodeError marks malformed bits within an otherwise
	// well-framed packet or setup field. Recoverable per-packet.
	ErrDecodeError = errors.New("codec: decode error")

	// ErrIoError marks a failure of the underlying byte source.
	// Not recoverable.
	ErrIoError = errors.New("codec: io error")

	// ErrEndOfStream marks a clean termination, or a mid-codeword
	// truncation at a packet's tail. Whether this is tolerated is a
	// per-call-site decision (residue decode tolerates it; packet
	// header parsing does not).
	ErrEndOfStream = errors.New("codec: end of stream")

	// ErrCrcMismatch marks an invalid Ogg page CRC. Nothing in this
	// module returns it: the Ogg page reader reports a bad CRC as
	// ogg.ErrBadCRC and absorbs that internally.
	ErrCrcMismatch = errors.New("codec: page CRC mismatch")

	// ErrResetRequired marks the start of a new physical (chained)
	// stream; the caller must rebuild its decoder.
	ErrResetRequired = errors.New("codec: chained stream boundary, decoder reset required")

	// ErrUnsupportedFeature marks a feature this decoder does not
	// implement: floor 0, a non-zero mapping type, or a non-Vorbis
	// codec mapper. Streams with more than 8 channels are accepted.
	ErrUnsupportedFeature = errors.New("codec: unsupported feature")
)

// SeekErrorKind classifies why a seek failed.
type SeekErrorKind int

const (
	SeekUnseekable SeekErrorKind = iota
	SeekForwardOnly
	SeekOutOfRange
	SeekInvalidTrack
)

func (k SeekErrorKind) String() string {
	switch k {
	case SeekUnseekable:
		return "unseekable"
	case SeekForwardOnly:
		return "forward-only"
	case SeekOutOfRange:
		return "out of range"
	case SeekInvalidTrack:
		return "invalid track"
	default:
		return "unknown"
	}
}

// SeekError reports why Seek failed, along with the offending kind so
// callers can branch on it.
type SeekError struct {
	Kind SeekErrorKind
	Err  error
}

func (e *SeekError) Error() string {
	if e.Err != nil {
		return "codec: seek failed (" + e.Kind.String() + "): " + e.Err.Error()
	}
	return "codec: seek failed (" + e.Kind.String() + ")"
}

func (e *SeekError) Unwrap() error { return e.Err }

// NewSeekError constructs a SeekError of the given kind.
func NewSeekError(kind SeekErrorKind, err error) *SeekError {
	return &SeekError{Kind: kind, Err: err}
}
