// Package byteio provides a block-fetching byte source with seek-back
// support, used by the Ogg page reader for sync scanning and bisection
// seeking over a caller-supplied stream.
package byteio

import (
	"errors"
	"io"
)

// SeekOrigin selects the reference point for Seek, mirroring io.Seeker's
// whence values without importing the io constants directly into call
// sites that only need a byteio.Source.
type SeekOrigin int

const (
	SeekStart SeekOrigin = iota
	SeekCurrent
	SeekEnd
)

// ErrUnseekable is returned by Seek and EnsureSeekBack when the
// underlying stream does not support seeking.
var ErrUnseekable = errors.New("byteio: underlying stream is not seekable")

// Source is the abstract input a container reader pulls bytes from.
// It provides small fixed-width reads used by page and header parsing,
// plus enough positioning support for bisection seeking.
type Source interface {
	// ReadExact reads len(buf) bytes, failing with io.ErrUnexpectedEOF
	// (wrapped) if the stream ends first.
	ReadExact(buf []byte) error
	// ReadByte reads a single byte.
	ReadByte() (byte, error)
	// ReadQuad reads the next 4 bytes verbatim (used for magic checks).
	ReadQuad() ([4]byte, error)
	ReadU32LE() (uint32, error)
	ReadU64LE() (uint64, error)
	// Position returns the logical stream offset of the next unread byte.
	Position() int64
	// Seek repositions the stream. Returns ErrUnseekable if the
	// underlying source cannot seek.
	Seek(origin SeekOrigin, offset int64) (int64, error)
	// BufferedSeek repositions within data already buffered, without
	// touching the underlying stream, when possible; it falls back to
	// Seek otherwise.
	BufferedSeek(pos int64) error
	// EnsureSeekBack grows the retained seek-back window to at least n
	// bytes, so that a subsequent BufferedSeek within that window avoids
	// touching the underlying stream. Returns ErrUnseekable if the
	// source is not seekable and cannot otherwise satisfy the request.
	EnsureSeekBack(n int) error
	// Len returns the total stream length, or -1 if unknown (unseekable).
	Len() int64
}

// minBufferLen is the minimum ring buffer size (power of two), per the
// spec's resource model: "power of two, minimum 64 KiB".
const minBufferLen = 64 * 1024

// RingReader implements Source over an io.Reader, optionally an
// io.Seeker, using a growable ring buffer. Reads are served from the
// buffer; the buffer is refilled from the underlying stream as needed.
// When the underlying stream also implements io.Seeker, seeks are
// forwarded to it and the buffer is invalidated.
type RingReader struct {
	r  io.Reader
	rs io.Seeker // non-nil if r also supports seeking

	buf    []byte
	start  int64 // absolute stream offset of buf[0]
	fill   int   // valid bytes in buf, starting at index 0
	cursor int   // read position within buf, 0 <= cursor <= fill

	length int64 // total stream length, -1 if unknown
}

// NewRingReader constructs a Source over r. If r implements io.Seeker,
// absolute seeking and total-length queries are supported.
func NewRingReader(r io.Reader) *RingReader {
	rr := &RingReader{
		r:      r,
		buf:    make([]byte, minBufferLen),
		length: -1,
	}
	if rs, ok := r.(io.Seeker); ok {
		rr.rs = rs
		if end, err := rs.Seek(0, io.SeekEnd); err == nil {
			rr.length = end
			_, _ = rs.Seek(0, io.SeekStart)
		}
	}
	return rr
}

func (rr *RingReader) Len() int64 { return rr.length }

func (rr *RingReader) Position() int64 { return rr.start + int64(rr.cursor) }

// compact discards already-consumed bytes at the front of the buffer,
// the same grow/compact discipline the teacher's Ogg reader buffer uses.
func (rr *RingReader) compact() {
	if rr.cursor == 0 {
		return
	}
	remaining := rr.fill - rr.cursor
	copy(rr.buf, rr.buf[rr.cursor:rr.fill])
	rr.start += int64(rr.cursor)
	rr.fill = remaining
	rr.cursor = 0
}

// fillAtLeast ensures at least n unread bytes are buffered, growing the
// buffer (doubling) when it is full but still short.
func (rr *RingReader) fillAtLeast(n int) error {
	for rr.fill-rr.cursor < n {
		rr.compact()
		if rr.fill >= len(rr.buf) {
			newBuf := make([]byte, len(rr.buf)*2)
			copy(newBuf, rr.buf[:rr.fill])
			rr.buf = newBuf
		}
		read, err := rr.r.Read(rr.buf[rr.fill:])
		if read > 0 {
			rr.fill += read
		}
		if err != nil {
			if rr.fill-rr.cursor >= n {
				return nil
			}
			return err
		}
	}
	return nil
}

func (rr *RingReader) ReadExact(dst []byte) error {
	if err := rr.fillAtLeast(len(dst)); err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	copy(dst, rr.buf[rr.cursor:rr.cursor+len(dst)])
	rr.cursor += len(dst)
	return nil
}

func (rr *RingReader) ReadByte() (byte, error) {
	if err := rr.fillAtLeast(1); err != nil {
		return 0, err
	}
	b := rr.buf[rr.cursor]
	rr.cursor++
	return b, nil
}

func (rr *RingReader) ReadQuad() ([4]byte, error) {
	var q [4]byte
	err := rr.ReadExact(q[:])
	return q, err
}

func (rr *RingReader) ReadU32LE() (uint32, error) {
	var b [4]byte
	if err := rr.ReadExact(b[:]); err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

func (rr *RingReader) ReadU64LE() (uint64, error) {
	var b [8]byte
	if err := rr.ReadExact(b[:]); err != nil {
		return 0, err
	}
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v, nil
}

func (rr *RingReader) Seek(origin SeekOrigin, offset int64) (int64, error) {
	if rr.rs == nil {
		return 0, ErrUnseekable
	}
	var target int64
	switch origin {
	case SeekStart:
		target = offset
	case SeekCurrent:
		target = rr.Position() + offset
	case SeekEnd:
		target = rr.length + offset
	default:
		return 0, errors.New("byteio: invalid seek origin")
	}

	// Fast path: target already buffered.
	if target >= rr.start && target <= rr.start+int64(rr.fill) {
		rr.cursor = int(target - rr.start)
		return target, nil
	}

	pos, err := rr.rs.Seek(target, io.SeekStart)
	if err != nil {
		return 0, err
	}
	rr.start = pos
	rr.fill = 0
	rr.cursor = 0
	return pos, nil
}

func (rr *RingReader) BufferedSeek(pos int64) error {
	if pos >= rr.start && pos <= rr.start+int64(rr.fill) {
		rr.cursor = int(pos - rr.start)
		return nil
	}
	_, err := rr.Seek(SeekStart, pos)
	return err
}

func (rr *RingReader) EnsureSeekBack(n int) error {
	if rr.rs == nil {
		return ErrUnseekable
	}
	if n < minBufferLen {
		n = minBufferLen
	}
	if len(rr.buf) < n {
		newBuf := make([]byte, n)
		copy(newBuf, rr.buf[:rr.fill])
		rr.buf = newBuf
	}
	return nil
}
