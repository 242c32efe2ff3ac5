package ogg

import (
	"errors"

	"github.com/vorbisdec/vorbis/internal/byteio"
	"github.com/vorbisdec/vorbis/internal/codecerr"
)

// maxResyncScan bounds how far NextPage will scan for the next capture
// pattern before giving up on a stream as unrecoverably corrupt.
const maxResyncScan = 8 << 20

// PageReader reads successive Ogg pages from a byte source. A page
// with a bad CRC, or four bytes that happen to spell "OggS" without
// actually starting a well-formed page, is absorbed: the reader
// resumes scanning for the next capture pattern instead of failing
// the whole stream.
type PageReader struct {
	src byteio.Source
}

// NewPageReader wraps src for page-at-a-time reading.
func NewPageReader(src byteio.Source) *PageReader {
	return &PageReader{src: src}
}

// NextPage reads and validates the next page. It returns
// codecerr.ErrEndOfStream once the source is exhausted.
func (pr *PageReader) NextPage() (*Page, error) {
	for {
		if err := pr.syncToCapture(); err != nil {
			return nil, err
		}
		page, err := pr.readOnePage()
		if err == nil {
			return page, nil
		}
		if errors.Is(err, codecerr.ErrEndOfStream) {
			return nil, err
		}
		// ErrInvalidPage or ErrBadCRC: keep scanning past this
		// spurious or corrupt capture pattern.
	}
}

// syncToCapture advances the source until the next 4 bytes read spell
// "OggS", leaving the source positioned immediately after them.
func (pr *PageReader) syncToCapture() error {
	var window [4]byte
	filled := 0
	scanned := 0
	for {
		b, err := pr.src.ReadByte()
		if err != nil {
			return codecerr.ErrEndOfStream
		}
		scanned++
		if scanned > maxResyncScan {
			return codecerr.ErrDecodeError
		}
		if filled < 4 {
			window[filled] = b
			filled++
		} else {
			window[0], window[1], window[2] = window[1], window[2], window[3]
			window[3] = b
		}
		if filled == 4 && string(window[:]) == oggMagic {
			return nil
		}
	}
}

// readOnePage reads the remainder of a page whose capture pattern has
// already been consumed by syncToCapture, and validates it.
func (pr *PageReader) readOnePage() (*Page, error) {
	rest := make([]byte, pageHeaderSize-4)
	if err := pr.src.ReadExact(rest); err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	numSegments := int(rest[len(rest)-1])

	segTable := make([]byte, numSegments)
	if err := pr.src.ReadExact(segTable); err != nil {
		return nil, codecerr.ErrEndOfStream
	}

	payloadSize := 0
	for _, s := range segTable {
		payloadSize += int(s)
	}

	buf := make([]byte, pageHeaderSize+numSegments+payloadSize)
	copy(buf[0:4], oggMagic)
	copy(buf[4:pageHeaderSize], rest)
	copy(buf[pageHeaderSize:pageHeaderSize+numSegments], segTable)
	if err := pr.src.ReadExact(buf[pageHeaderSize+numSegments:]); err != nil {
		return nil, codecerr.ErrEndOfStream
	}

	page, _, err := ParsePage(buf)
	if err != nil {
		return nil, err
	}
	return page, nil
}
