package vorbis

// PlanarAudioBuffer stages one packet's decoded output: one []float32
// per channel, channel-major, samples clamped to [-1, 1]. It is
// cleared at the start of every packet and refilled by the orchestrator
// in decode.go.
type PlanarAudioBuffer struct {
	channels [][]float32
}

// NewPlanarAudioBuffer allocates a buffer for the given channel count.
func NewPlanarAudioBuffer(channels int) *PlanarAudioBuffer {
	return &PlanarAudioBuffer{channels: make([][]float32, channels)}
}

// Clear empties every channel's sample slice without releasing its
// backing array, so repeated packets reuse the same allocation.
func (b *PlanarAudioBuffer) Clear() {
	for i := range b.channels {
		b.channels[i] = b.channels[i][:0]
	}
}

// Reserve grows every channel's capacity to hold at least frames more
// samples, without changing the current length.
func (b *PlanarAudioBuffer) Reserve(frames int) {
	for i := range b.channels {
		if cap(b.channels[i])-len(b.channels[i]) < frames {
			grown := make([]float32, len(b.channels[i]), len(b.channels[i])+frames)
			copy(grown, b.channels[i])
			b.channels[i] = grown
		}
	}
}

// Channel returns channel c's sample slice, for the decode
// orchestrator to append IMDCT output into at the permuted slot.
func (b *PlanarAudioBuffer) Channel(c int) []float32 { return b.channels[c] }

// SetChannel replaces channel c's sample slice (used after an append
// that may have reallocated it).
func (b *PlanarAudioBuffer) SetChannel(c int, data []float32) { b.channels[c] = data }

// Channels returns the number of channels.
func (b *PlanarAudioBuffer) Channels() int { return len(b.channels) }

// Frames returns the number of frames currently staged, taken from
// channel 0 (every channel always has the same length).
func (b *PlanarAudioBuffer) Frames() int {
	if len(b.channels) == 0 {
		return 0
	}
	return len(b.channels[0])
}

// ClampAndTrim clamps every sample to [-1, 1] and removes trimStart
// frames from the front and trimEnd frames from the back, for gapless
// playback.
func (b *PlanarAudioBuffer) ClampAndTrim(trimStart, trimEnd int) {
	for i, ch := range b.channels {
		for j, v := range ch {
			if v > 1 {
				ch[j] = 1
			} else if v < -1 {
				ch[j] = -1
			}
		}
		lo, hi := trimStart, len(ch)-trimEnd
		if lo < 0 {
			lo = 0
		}
		if lo > len(ch) {
			lo = len(ch)
		}
		if hi < lo {
			hi = lo
		}
		if hi > len(ch) {
			hi = len(ch)
		}
		b.channels[i] = ch[lo:hi]
	}
}

// Samples returns the staged planar samples, one slice per channel.
func (b *PlanarAudioBuffer) Samples() [][]float32 { return b.channels }
