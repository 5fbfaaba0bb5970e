package spu

import "testing"

func TestCDAudioRingReadFrame(t *testing.T) {
	r := NewCDAudioRing(8)
	r.Push([]int16{1, 2, 3, 4})

	l, right, ok := r.ReadFrame()
	if !ok || l != 1 || right != 2 {
		t.Fatalf("ReadFrame() = %d,%d,%v, want 1,2,true", l, right, ok)
	}
	l, right, ok = r.ReadFrame()
	if !ok || l != 3 || right != 4 {
		t.Fatalf("ReadFrame() = %d,%d,%v, want 3,4,true", l, right, ok)
	}
	_, _, ok = r.ReadFrame()
	if ok {
		t.Fatal("ReadFrame() on an empty ring reported ok")
	}
}

func TestCDAudioRingEvictsOldestOnOverflow(t *testing.T) {
	r := NewCDAudioRing(4)
	r.Push([]int16{1, 2, 3, 4})
	r.Push([]int16{5, 6}) // no room: evicts the oldest pair (1,2)

	l, right, ok := r.ReadFrame()
	if !ok || l != 3 || right != 4 {
		t.Fatalf("ReadFrame() after overflow = %d,%d,%v, want 3,4,true", l, right, ok)
	}
	l, right, ok = r.ReadFrame()
	if !ok || l != 5 || right != 6 {
		t.Fatalf("ReadFrame() after overflow = %d,%d,%v, want 5,6,true", l, right, ok)
	}
}
