package vorbis

import "testing"

func approxEqualF32(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func TestBuildWindowsSizesAndMonotonicity(t *testing.T) {
	w := BuildWindows(8, 32)
	if len(w.short) != 4 {
		t.Fatalf("len(short) = %d, want 4", len(w.short))
	}
	if len(w.long) != 16 {
		t.Fatalf("len(long) = %d, want 16", len(w.long))
	}
	for _, half := range [][]float32{w.short, w.long} {
		for i, v := range half {
			if v <= 0 || v >= 1 {
				t.Errorf("window value %v at index %d out of (0,1)", v, i)
			}
			if i > 0 && v <= half[i-1] {
				t.Errorf("window not monotonic increasing at index %d: %v <= %v", i, v, half[i-1])
			}
		}
	}
}

func TestWindowsFor(t *testing.T) {
	w := BuildWindows(8, 32)
	if len(w.For(0)) != len(w.short) {
		t.Errorf("For(0) returned wrong half-window")
	}
	if len(w.For(1)) != len(w.long) {
		t.Errorf("For(1) returned wrong half-window")
	}
}

func TestLappingStateFirstCallReturnsZeroFrames(t *testing.T) {
	win := &Windows{short: []float32{0.1, 0.2}}
	l := &LappingState{}
	var out []float32
	imdctOut := []float32{1, 2, 3, 4}

	frames := l.OverlapAdd(win, 0, imdctOut, &out)
	if frames != 0 {
		t.Fatalf("frames = %d, want 0 on first call", frames)
	}
	if len(out) != 0 {
		t.Fatalf("out grew on first call: %v", out)
	}
	if !l.havePrev {
		t.Fatalf("havePrev = false after first call")
	}
}

func TestLappingStateOverlapAddEqualBlockSizes(t *testing.T) {
	win := &Windows{short: []float32{0.1, 0.2}}
	l := &LappingState{}
	var out []float32

	l.OverlapAdd(win, 0, []float32{1, 2, 3, 4}, &out)
	frames := l.OverlapAdd(win, 0, []float32{5, 6, 7, 8}, &out)

	if frames != 2 {
		t.Fatalf("frames = %d, want 2", frames)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}

	want := []float32{0.6 + 5*0.1, 0.4 + 6*0.2}
	for i, v := range want {
		if !approxEqualF32(out[i], v, 1e-5) {
			t.Errorf("out[%d] = %v, want %v", i, out[i], v)
		}
	}

	wantPrev := []float32{7 * 0.2, 8 * 0.1}
	for i, v := range wantPrev {
		if !approxEqualF32(l.prevRight[i], v, 1e-5) {
			t.Errorf("prevRight[%d] = %v, want %v", i, l.prevRight[i], v)
		}
	}
}

// TestLappingStateShortToLongTransitionUsesShortTaper exercises the
// previous-short/current-long overlap with distinguishable short and
// long window arrays, so a regression that slices the long window at
// an offset (instead of applying the short window directly) changes
// the result rather than happening to agree with it.
func TestLappingStateShortToLongTransitionUsesShortTaper(t *testing.T) {
	win := &Windows{
		short: []float32{0.1, 0.2, 0.3, 0.4},
		long:  []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
	}
	l := &LappingState{}
	var out []float32

	imdctOut1 := []float32{1, 2, 3, 4, 5, 6, 7, 8} // short block, blockFlag 0
	l.OverlapAdd(win, 0, imdctOut1, &out)

	imdctOut2 := make([]float32, 32) // long block, blockFlag 1
	for i := range imdctOut2 {
		imdctOut2[i] = float32(i + 1)
	}
	frames := l.OverlapAdd(win, 1, imdctOut2, &out)

	if frames != 10 {
		t.Fatalf("frames = %d, want 10", frames)
	}
	if len(out) != 10 {
		t.Fatalf("len(out) = %d, want 10", len(out))
	}

	want := []float32{2.7, 3.4, 4.1, 4.8, 11, 12, 13, 14, 15, 16}
	for i, v := range want {
		if !approxEqualF32(out[i], v, 1e-5) {
			t.Errorf("out[%d] = %v, want %v", i, out[i], v)
		}
	}
}

func TestLappingStateReset(t *testing.T) {
	win := &Windows{short: []float32{0.1, 0.2}}
	l := &LappingState{}
	var out []float32
	l.OverlapAdd(win, 0, []float32{1, 2, 3, 4}, &out)

	l.Reset()
	if l.havePrev || l.prevRight != nil {
		t.Fatalf("Reset did not clear lapping state: %+v", l)
	}
}
