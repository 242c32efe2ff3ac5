package vorbis

import (
	"strings"

	"github.com/vorbisdec/vorbis/internal/bitio"
	"github.com/vorbisdec/vorbis/internal/codecerr"
)

// CommentHeader is the second Vorbis header packet: a vendor string
// and a list of "KEY=VALUE" tags, exposed here as a map so the public
// Decoder can hand it straight to a caller without re-parsing.
type CommentHeader struct {
	Vendor   string
	Comments map[string]string
}

// ParseCommentHeader parses the vendor string and tag list. Unlike the
// ident and setup headers, the comment header carries no trailing
// framing bit inside an Ogg stream.
func ParseCommentHeader(data []byte) (*CommentHeader, error) {
	r := bitio.NewReader(data)
	if err := checkPacketSignature(r, packetTypeComment); err != nil {
		return nil, err
	}

	vendor, err := readLengthPrefixedString(r)
	if err != nil {
		return nil, err
	}

	count, err := r.ReadBitsLEQ32(32)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}

	comments := make(map[string]string, count)
	for i := uint32(0); i < count; i++ {
		tag, err := readLengthPrefixedString(r)
		if err != nil {
			return nil, err
		}
		key, value, ok := strings.Cut(tag, "=")
		if !ok {
			key, value = tag, ""
		}
		comments[strings.ToUpper(key)] = value
	}

	return &CommentHeader{Vendor: vendor, Comments: comments}, nil
}

func readLengthPrefixedString(r *bitio.Reader) (string, error) {
	n, err := r.ReadBitsLEQ32(32)
	if err != nil {
		return "", codecerr.ErrEndOfStream
	}
	buf := make([]byte, n)
	for i := range buf {
		b, err := r.ReadBitsLEQ32(8)
		if err != nil {
			return "", codecerr.ErrEndOfStream
		}
		buf[i] = byte(b)
	}
	return string(buf), nil
}
