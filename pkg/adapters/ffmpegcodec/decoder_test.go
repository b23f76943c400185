package ffmpegcodec

import (
	"testing"

	"github.com/yazici/openfx-io/pkg/ports"
)

func TestDecodeYUV420PSplitsPlanes(t *testing.T) {
	const w, h = 4, 2
	ySize := w * h
	cSize := (w / 2) * (h / 2)
	buf := make([]byte, ySize+2*cSize)
	for i := range buf {
		buf[i] = byte(i)
	}

	frame := decodeYUV420P(buf, w, h)
	if frame.Format != ports.PixFmtYUV420P {
		t.Fatalf("Format = %v, want PixFmtYUV420P", frame.Format)
	}
	if frame.Width != w || frame.Height != h {
		t.Fatalf("dims = %dx%d, want %dx%d", frame.Width, frame.Height, w, h)
	}
	if len(frame.Planes) != 3 {
		t.Fatalf("Planes = %d, want 3", len(frame.Planes))
	}
	if len(frame.Planes[0]) != ySize || len(frame.Planes[1]) != cSize || len(frame.Planes[2]) != cSize {
		t.Fatalf("plane sizes = %d/%d/%d, want %d/%d/%d",
			len(frame.Planes[0]), len(frame.Planes[1]), len(frame.Planes[2]), ySize, cSize, cSize)
	}
	if frame.Planes[0][0] != buf[0] || frame.Planes[1][0] != buf[ySize] || frame.Planes[2][0] != buf[ySize+cSize] {
		t.Fatalf("plane contents not sliced from the expected offsets")
	}
}

func TestInputFormatRejectsUnsupportedCodec(t *testing.T) {
	if _, err := inputFormat(ports.CodecUnknown); err == nil {
		t.Fatalf("expected an error for CodecUnknown")
	}
	if got, err := inputFormat(ports.CodecH264); err != nil || got != "h264" {
		t.Fatalf("inputFormat(H264) = %q, %v", got, err)
	}
	if got, err := inputFormat(ports.CodecAV1); err != nil || got != "obu" {
		t.Fatalf("inputFormat(AV1) = %q, %v", got, err)
	}
}
