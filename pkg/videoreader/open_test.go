package videoreader

import (
	"testing"

	"github.com/yazici/openfx-io/pkg/mocks"
	"github.com/yazici/openfx-io/pkg/ports"
)

func TestEmptyFilenameIsInvalid(t *testing.T) {
	r := New("", mocks.NewContainer(), mocks.NewDecoder(), mocks.NewConverterCache(), mocks.NewLogger())
	if !r.IsInvalid() {
		t.Fatalf("expected reader with empty path to be invalid")
	}
	if r.GetError() != "empty filename" {
		t.Fatalf("unexpected error: %s", r.GetError())
	}
}

func TestAudioOnlyContainerIsInvalid(t *testing.T) {
	container := mocks.NewContainer()
	container.StreamInfos = nil // an audio-only file surfaces no video-capable streams

	r := New("audio.mp4", container, mocks.NewDecoder(), mocks.NewConverterCache(), mocks.NewLogger())
	if !r.IsInvalid() {
		t.Fatalf("expected audio-only container to be invalid")
	}
	if r.GetError() != errNoVideoStream.Error() {
		t.Fatalf("expected %q, got %q", errNoVideoStream.Error(), r.GetError())
	}
}

func TestUnsupportedCodecIsInvalid(t *testing.T) {
	container := mocks.NewContainer()
	container.StreamInfos = []ports.StreamInfo{
		{Index: 0, Codec: ports.CodecUnknown, Width: 4, Height: 2},
	}

	r := New("proprietary.mp4", container, mocks.NewDecoder(), mocks.NewConverterCache(), mocks.NewLogger())
	if !r.IsInvalid() {
		t.Fatalf("expected reader with only unrecognized codecs to be invalid")
	}
	if r.GetError() != errUnsupportedCodec.Error() {
		t.Fatalf("expected %q, got %q", errUnsupportedCodec.Error(), r.GetError())
	}
}

func TestMonochromeSourcePromotedToThreeComponents(t *testing.T) {
	info, packets := newFakeStream(4, 4)
	info.NumComponents = 1 // grayscale source

	r, _, _ := newTestReader(info, packets)
	if r.IsInvalid() {
		t.Fatalf("reader invalid: %s", r.GetError())
	}
	if got := r.GetNumComponents(); got != 3 {
		t.Fatalf("GetNumComponents() = %d, want 3 for a promoted monochrome source", got)
	}
}

func TestBufferSizeMatchesRowSizeTimesHeight(t *testing.T) {
	info, packets := newFakeStream(4, 4)
	r, _, _ := newTestReader(info, packets)

	_, height, _, _, ok := r.GetInfo(0)
	if !ok {
		t.Fatalf("GetInfo(0) reported not ok")
	}
	if got, want := r.GetBufferSize(), r.GetRowSize()*height; got != want {
		t.Fatalf("GetBufferSize() = %d, want GetRowSize()*height = %d", got, want)
	}
}

func TestPTSFrameRoundTrip(t *testing.T) {
	info, packets := newFakeStream(24, 8)
	r, _, _ := newTestReader(info, packets)

	desc := r.streams[0]
	total := int(desc.totalFrames)
	for f := 0; f < total; f++ {
		pts := desc.frameToPTS(int64(f))
		if got := desc.ptsToFrame(pts); got != int64(f) {
			t.Fatalf("ptsToFrame(frameToPTS(%d)) = %d, want %d", f, got, f)
		}
	}
}
