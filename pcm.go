package vorbis

import "math"

// ToInterleavedInt16 converts planar float32 samples in [-1, 1] to a
// single interleaved int16 slice, clamping out-of-range values and
// rounding to nearest, for sinks (like a WAV encoder) that want
// conventional PCM rather than planar float.
func ToInterleavedInt16(planar [][]float32) []int16 {
	if len(planar) == 0 {
		return nil
	}
	frames := len(planar[0])
	channels := len(planar)
	out := make([]int16, frames*channels)
	for f := 0; f < frames; f++ {
		for c := 0; c < channels; c++ {
			out[f*channels+c] = float32ToInt16(planar[c][f])
		}
	}
	return out
}

// float32ToInt16 clamps v to [-1, 1] and scales it to the int16 range.
func float32ToInt16(v float32) int16 {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int16(math.Round(float64(v) * 32767))
}
