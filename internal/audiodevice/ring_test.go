package audiodevice

import "testing"

func TestCaptureRingPushPop(t *testing.T) {
	rb := newCaptureRing()
	if rb.pop() != nil {
		t.Fatal("expected empty ring to return nil")
	}

	in := []int16{1, 2, 3, 4}
	if !rb.push(in) {
		t.Fatal("push into empty ring should not drop")
	}

	out := rb.pop()
	if len(out) != len(in) {
		t.Fatalf("expected %d samples, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("sample %d: expected %d, got %d", i, in[i], out[i])
		}
	}
}

func TestCaptureRingDropsWhenFull(t *testing.T) {
	rb := newCaptureRing()
	for i := 0; i < captureRingSize; i++ {
		if !rb.push([]int16{int16(i)}) {
			t.Fatalf("unexpected drop at chunk %d", i)
		}
	}
	if rb.push([]int16{99}) {
		t.Fatal("expected ring to report full")
	}
}

func TestPlaybackRingPushPopOrder(t *testing.T) {
	rb := newPlaybackRing()
	written := rb.push([]int16{10, 20, 30})
	if written != 3 {
		t.Fatalf("expected 3 samples written, got %d", written)
	}

	for _, want := range []int16{10, 20, 30} {
		got, ok := rb.pop()
		if !ok {
			t.Fatal("expected a sample")
		}
		if got != want {
			t.Errorf("expected %d, got %d", want, got)
		}
	}

	if _, ok := rb.pop(); ok {
		t.Fatal("expected ring to be empty")
	}
}

func TestPlaybackRingClear(t *testing.T) {
	rb := newPlaybackRing()
	rb.push([]int16{1, 2, 3})
	rb.clear()
	if !rb.isEmpty() {
		t.Fatal("expected ring to be empty after clear")
	}
}

func TestPlaybackRingOverflowTruncates(t *testing.T) {
	rb := newPlaybackRing()
	huge := make([]int16, playbackRingSize+100)
	written := rb.push(huge)
	if written != playbackRingSize {
		t.Errorf("expected overflow to cap at %d, got %d", playbackRingSize, written)
	}
}

func TestResampleLinearSameRateNoop(t *testing.T) {
	in := []int16{1, 2, 3}
	out := resampleLinear(in, 16000, 16000)
	if len(out) != len(in) {
		t.Fatalf("expected unchanged length, got %d", len(out))
	}
}

func TestResampleLinearUpsamplesLength(t *testing.T) {
	in := make([]int16, 100)
	out := resampleLinear(in, 16000, 32000)
	if len(out) != 200 {
		t.Errorf("expected doubled length 200, got %d", len(out))
	}
}

func TestResampleLinearDownsamplesLength(t *testing.T) {
	in := make([]int16, 100)
	out := resampleLinear(in, 32000, 16000)
	if len(out) != 50 {
		t.Errorf("expected halved length 50, got %d", len(out))
	}
}
