package vorbis

import (
	"math"
	"sync"
)

// imdctPlan holds the precomputed per-size twiddle factors an inverse
// MDCT needs. Building one requires a handful of trig calls per
// coefficient, cheap enough to do once and share across every packet
// at a given block size — the same memoize-by-size-behind-a-mutex
// shape used for other per-size DSP tables in this codebase.
type imdctPlan struct {
	n       int // coefficient count (block size / 2)
	twiddle []complex128
}

var (
	imdctPlanMu    sync.Mutex
	imdctPlanCache = map[int]*imdctPlan{}
)

func getIMDCTPlan(n int) *imdctPlan {
	imdctPlanMu.Lock()
	defer imdctPlanMu.Unlock()
	if p, ok := imdctPlanCache[n]; ok {
		return p
	}
	p := buildIMDCTPlan(n)
	imdctPlanCache[n] = p
	return p
}

func buildIMDCTPlan(n int) *imdctPlan {
	tw := make([]complex128, n)
	for k := 0; k < n; k++ {
		theta := (math.Pi / float64(n)) * (0.125 + float64(k))
		tw[k] = complex(math.Cos(theta), math.Sin(theta))
	}
	return &imdctPlan{n: n, twiddle: tw}
}

// InverseMDCT computes the inverse modified discrete cosine transform
// of spec (length n, a power of two >= 4) into out (length 2n), via a
// pre-twiddled size-n/2 complex FFT and a post-twiddled scatter, per
// spec §4.6.
func InverseMDCT(spec []float32, out []float32) {
	n := len(spec)
	if n < 4 || n&(n-1) != 0 {
		panic("vorbis: InverseMDCT: spectrum length must be a power of two >= 4")
	}
	if len(out) != 2*n {
		panic("vorbis: InverseMDCT: output length must be 2x spectrum length")
	}

	plan := getIMDCTPlan(n)
	half := n / 2
	quarter := n / 4

	z := make([]complex128, half)
	for i := 0; i < half; i++ {
		even := float64(spec[2*i])
		odd := -float64(spec[n-1-2*i])
		w := plan.twiddle[i]
		re, im := real(w), imag(w)
		z[i] = complex(odd*im-even*re, odd*re+even*im)
	}

	fftForward(z)

	for i := 0; i < quarter; i++ {
		a := z[i]
		b := z[half-1-i]
		wa := plan.twiddle[i]
		wb := plan.twiddle[half-1-i]

		pa := complex(real(a)*real(wa)-imag(a)*imag(wa), real(a)*imag(wa)+imag(a)*real(wa))
		pb := complex(real(b)*real(wb)-imag(b)*imag(wb), real(b)*imag(wb)+imag(b)*real(wb))

		out[quarter+i] = float32(imag(pa))
		out[quarter-1-i] = float32(-real(pa))
		out[quarter+half+i] = float32(-imag(pb))
		out[half+quarter-1-i] = float32(real(pb))
	}
}

// fftForward computes an unnormalized forward complex FFT of x
// (length a power of two) in place, via iterative radix-2
// Cooley-Tukey.
func fftForward(x []complex128) {
	n := len(x)
	if n <= 1 {
		return
	}

	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit
		if i < j {
			x[i], x[j] = x[j], x[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		half := size / 2
		theta := -2 * math.Pi / float64(size)
		wStep := complex(math.Cos(theta), math.Sin(theta))
		for start := 0; start < n; start += size {
			w := complex(1.0, 0.0)
			for k := 0; k < half; k++ {
				u := x[start+k]
				v := x[start+k+half] * w
				x[start+k] = u + v
				x[start+k+half] = u - v
				w *= wStep
			}
		}
	}
}
