package vorbis

// FormatOptions configures a Reader's behavior beyond the bare
// decode path: gapless trimming and seek-index construction. The
// zero value is usable; NewReader applies DefaultFormatOptions when
// none are given. Defaults match spec §6's configuration table.
type FormatOptions struct {
	// GaplessPlayback applies each packet's TrimStart/TrimEnd before
	// samples reach the caller. Defaults to false.
	GaplessPlayback bool

	// SeekIndex is stored but not read: Reader builds no seek index,
	// and every Seek bisects the byte range. Defaults to false.
	SeekIndex bool

	// SeekIndexFillRate is the seek index entry spacing, in seconds of
	// audio. Like SeekIndex it is stored but not read. Defaults to 20.
	SeekIndexFillRate int
}

// DefaultFormatOptions returns the baseline configuration: gapless
// playback off, no seek index, a 20-second seek index fill rate.
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{GaplessPlayback: false, SeekIndexFillRate: 20}
}

// Option mutates a FormatOptions during construction.
type Option func(*FormatOptions)

// WithGaplessPlayback overrides whether trim metadata is applied.
func WithGaplessPlayback(enabled bool) Option {
	return func(o *FormatOptions) { o.GaplessPlayback = enabled }
}

// WithSeekIndex sets FormatOptions.SeekIndex; no seek index is built
// either way.
func WithSeekIndex(enabled bool) Option {
	return func(o *FormatOptions) { o.SeekIndex = enabled }
}

// WithSeekIndexFillRate sets the spacing, in seconds of audio,
// between recorded seek index entries; values below 1 are clamped to
// 1.
func WithSeekIndexFillRate(n int) Option {
	return func(o *FormatOptions) {
		if n < 1 {
			n = 1
		}
		o.SeekIndexFillRate = n
	}
}

func applyOptions(opts []Option) FormatOptions {
	o := DefaultFormatOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
