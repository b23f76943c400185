package videoreader

import (
	"testing"

	"github.com/yazici/openfx-io/pkg/ports"
)

func TestSequentialReadSeeksOnce(t *testing.T) {
	info, packets := newFakeStream(10, 10) // only frame 0 is sync
	r, container, _ := newTestReader(info, packets)
	if r.IsInvalid() {
		t.Fatalf("reader invalid: %s", r.GetError())
	}

	container.SeekNearestSyncCalls = 0 // reset any seeks issued while deriving stream metadata at open

	for f := 0; f < 10; f++ {
		if !r.Decode(f, false, 1) {
			t.Fatalf("decode(%d) failed: %s", f, r.GetError())
		}
		if got := r.streams[0].decodeNextOut; got != int64(f+1) {
			t.Fatalf("decode(%d): decodeNextOut = %d, want %d", f, got, f+1)
		}
	}
	if container.SeekNearestSyncCalls != 1 {
		t.Fatalf("expected exactly 1 seek for sequential read, got %d", container.SeekNearestSyncCalls)
	}
}

func TestRandomAccessMatchesSequential(t *testing.T) {
	info, packets := newFakeStream(10, 3)
	r, _, _ := newTestReader(info, packets)

	for f := 0; f <= 7; f++ {
		if !r.Decode(f, false, 1) {
			t.Fatalf("sequential decode(%d) failed: %s", f, r.GetError())
		}
	}
	want := append([]byte(nil), r.GetData()...)

	for _, f := range []int{2, 9, 0} {
		if !r.Decode(f, false, 1) {
			t.Fatalf("decode(%d) failed: %s", f, r.GetError())
		}
	}
	if !r.Decode(7, false, 1) {
		t.Fatalf("re-decode(7) failed: %s", r.GetError())
	}
	got := r.GetData()
	if len(got) != len(want) || got[0] != want[0] {
		t.Fatalf("frame 7 mismatch after random access: got %v, want %v", got, want)
	}
}

func TestClampedRead(t *testing.T) {
	info, packets := newFakeStream(10, 3)
	r, _, _ := newTestReader(info, packets)

	if !r.Decode(0, false, 1) {
		t.Fatalf("decode(0) failed: %s", r.GetError())
	}
	frame0 := append([]byte(nil), r.GetData()...)

	if !r.Decode(-5, true, 1) {
		t.Fatalf("decode(-5, true) failed: %s", r.GetError())
	}
	if r.GetData()[0] != frame0[0] {
		t.Fatalf("decode(-5, true) = %v, want frame 0 = %v", r.GetData(), frame0)
	}

	if !r.Decode(9, false, 1) {
		t.Fatalf("decode(9) failed: %s", r.GetError())
	}
	frame9 := append([]byte(nil), r.GetData()...)

	if !r.Decode(100, true, 1) {
		t.Fatalf("decode(100, true) failed: %s", r.GetError())
	}
	if r.GetData()[0] != frame9[0] {
		t.Fatalf("decode(100, true) = %v, want frame 9 = %v", r.GetData(), frame9)
	}
}

func TestMissingFrameOutOfRange(t *testing.T) {
	info, packets := newFakeStream(10, 3)
	r, _, _ := newTestReader(info, packets)

	if r.Decode(-1, false, 1) {
		t.Fatalf("decode(-1, false) unexpectedly succeeded")
	}
	if r.GetError() != errMissingFrame.Error() {
		t.Fatalf("expected %q, got %q", errMissingFrame.Error(), r.GetError())
	}

	if r.Decode(10, false, 1) {
		t.Fatalf("decode(10, false) unexpectedly succeeded")
	}
	if r.GetError() != errMissingFrame.Error() {
		t.Fatalf("expected %q, got %q", errMissingFrame.Error(), r.GetError())
	}
}

func TestSelfHealingAfterFailedDecode(t *testing.T) {
	info, packets := newFakeStream(10, 3)
	r, container, _ := newTestReader(info, packets)

	failNext := true
	container.SeekNearestSyncFunc = func(streamIndex, targetFrame int) (int, error) {
		if failNext {
			failNext = false
			return 0, errSeekFailed
		}
		idx := targetFrame
		if idx >= len(container.Packets) {
			idx = len(container.Packets) - 1
		}
		landed := 0
		for i := idx; i >= 0; i-- {
			if container.Packets[i].IsSync {
				landed = i
				break
			}
		}
		return landed, nil
	}

	if r.Decode(5, false, 1) {
		t.Fatalf("expected decode(5) to fail due to injected seek error")
	}
	if !r.Decode(5, false, 1) {
		t.Fatalf("expected decode(5) to self-heal and succeed, got error: %s", r.GetError())
	}
}

func TestPTSAbsentFallsBackToDTS(t *testing.T) {
	info, packets := newFakeStream(10, 5)
	for i := range packets {
		packets[i].PTS = ports.NoPTS
	}
	r, _, _ := newTestReader(info, packets)

	if !r.Decode(4, false, 2) {
		t.Fatalf("decode(4) failed: %s", r.GetError())
	}
	if r.streams[0].timestampField != ports.TimestampDTS {
		t.Fatalf("expected timestamp field to switch to DTS, still %v", r.streams[0].timestampField)
	}
}

func TestCorruptSyncFlagRecoversByWalkingBack(t *testing.T) {
	info, packets := newFakeStream(10, 100) // only frame 0 naturally sync
	// The real keyframe is 3; the container additionally (wrongly) flags
	// 5 as a sync sample. Decoding starting cold from 5 produces no
	// output, forcing the post-seek stall recovery to walk back to 3.
	packets[3].IsSync = true
	packets[5].IsSync = true

	r, _, d := newTestReader(info, packets)
	const badSyncFrame = 5

	var lastIdx int
	firstSinceReset := true
	d.ResetFunc = func() error {
		firstSinceReset = true
		return nil
	}
	d.SendPacketFunc = func(data []byte) error {
		if len(data) > 0 {
			lastIdx = int(data[0])
		}
		return nil
	}
	d.ReceiveFrameFunc = func() (ports.DecodedFrame, error) {
		if firstSinceReset && lastIdx == badSyncFrame {
			return ports.DecodedFrame{}, ports.ErrNoFrameAvailable
		}
		firstSinceReset = false
		return ports.DecodedFrame{
			Format: ports.PixFmtRGB24, Width: 1, Height: 1,
			Planes: [][]byte{{byte(lastIdx)}}, Strides: []int{1},
		}, nil
	}

	if !r.Decode(6, false, 3) {
		t.Fatalf("decode(6) failed: %s", r.GetError())
	}
	if r.GetData()[0] != 6 {
		t.Fatalf("decode(6) returned frame marked %d, want 6", r.GetData()[0])
	}
}
