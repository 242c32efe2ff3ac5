package vorbis

import "github.com/vorbisdec/vorbis/internal/codecerr"

// Coupling is one magnitude/angle channel pair in a mapping.
type Coupling struct {
	Magnitude int
	Angle     int
}

// applyInverseCoupling transforms residue[m] and residue[a] in place
// by the Vorbis inverse square-coupling rule, per spec §4.5.
func applyInverseCoupling(m, a []float32) error {
	if len(m) != len(a) {
		return codecerr.ErrDecodeError
	}
	for i := range m {
		M, A := m[i], a[i]
		var newM, newA float32
		if M > 0 {
			if A > 0 {
				newM, newA = M, M-A
			} else {
				newM, newA = M+A, M
			}
		} else {
			if A > 0 {
				newM, newA = M, M+A
			} else {
				newM, newA = M-A, M
			}
		}
		m[i], a[i] = newM, newA
	}
	return nil
}

// dotProduct multiplies a channel's floor curve by its residue vector
// in place. Channels left undecoded keep a zero floor and contribute
// silence.
func dotProduct(floor, residue []float32) {
	for i := range floor {
		floor[i] *= residue[i]
	}
}
