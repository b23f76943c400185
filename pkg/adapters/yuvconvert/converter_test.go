package yuvconvert

import (
	"testing"

	"github.com/yazici/openfx-io/pkg/ports"
)

func yuv420Frame(w, h int, y, u, v byte) ports.DecodedFrame {
	ySize := w * h
	yPlane := make([]byte, ySize)
	for i := range yPlane {
		yPlane[i] = y
	}
	cw, ch := (w+1)/2, (h+1)/2
	uPlane := make([]byte, cw*ch)
	vPlane := make([]byte, cw*ch)
	for i := range uPlane {
		uPlane[i] = u
		vPlane[i] = v
	}
	return ports.DecodedFrame{
		Format:  ports.PixFmtYUV420P,
		Width:   w,
		Height:  h,
		Planes:  [][]byte{yPlane, uPlane, vPlane},
		Strides: []int{w, cw, cw},
	}
}

func baseRequest(srcFmt, dstFmt ports.PixelFormat, w, h int) ports.ConverterRequest {
	return ports.ConverterRequest{
		SrcFormat: srcFmt,
		SrcWidth:  w,
		SrcHeight: h,
		DstFormat: dstFmt,
		DstWidth:  w,
		DstHeight: h,
	}
}

func TestConvertYUV420PLimitedRangeBlack(t *testing.T) {
	req := baseRequest(ports.PixFmtYUV420P, ports.PixFmtPackedRGB8, 2, 2)
	conv, err := newConverter(req, ports.OverrideNone)
	if err != nil {
		t.Fatalf("newConverter: %v", err)
	}
	frame := yuv420Frame(2, 2, 16, 128, 128) // limited-range black
	dst := make([]byte, 2*2*3)
	if err := conv.Convert(frame, dst); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	for i, v := range dst {
		if v != 0 {
			t.Fatalf("dst[%d] = %d, want 0 (black)", i, v)
		}
	}
}

func TestConvertYUV420PLimitedRangeWhite(t *testing.T) {
	req := baseRequest(ports.PixFmtYUV420P, ports.PixFmtPackedRGB8, 2, 2)
	conv, err := newConverter(req, ports.OverrideNone)
	if err != nil {
		t.Fatalf("newConverter: %v", err)
	}
	frame := yuv420Frame(2, 2, 235, 128, 128) // limited-range white
	dst := make([]byte, 2*2*3)
	if err := conv.Convert(frame, dst); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	for i, v := range dst {
		if v != 255 {
			t.Fatalf("dst[%d] = %d, want 255 (white)", i, v)
		}
	}
}

func TestConvertRGB24Passthrough(t *testing.T) {
	req := baseRequest(ports.PixFmtRGB24, ports.PixFmtPackedRGB8, 2, 1)
	conv, err := newConverter(req, ports.OverrideNone)
	if err != nil {
		t.Fatalf("newConverter: %v", err)
	}
	frame := ports.DecodedFrame{
		Format:  ports.PixFmtRGB24,
		Width:   2,
		Height:  1,
		Planes:  [][]byte{{10, 20, 30, 40, 50, 60}},
		Strides: []int{6},
	}
	dst := make([]byte, 2*1*3)
	if err := conv.Convert(frame, dst); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	want := []byte{10, 20, 30, 40, 50, 60}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst = %v, want %v", dst, want)
		}
	}
}

func TestNewConverterRejectsUnsupportedFormat(t *testing.T) {
	req := baseRequest(ports.PixFmtYUV420P10LE, ports.PixFmtPackedRGB8, 2, 2)
	if _, err := newConverter(req, ports.OverrideNone); err == nil {
		t.Fatalf("expected an error for an unsupported source format")
	}
}

func TestPackOutputRejectsUndersizedBuffer(t *testing.T) {
	req := baseRequest(ports.PixFmtRGB24, ports.PixFmtPackedRGBA8, 2, 2)
	conv, err := newConverter(req, ports.OverrideNone)
	if err != nil {
		t.Fatalf("newConverter: %v", err)
	}
	frame := ports.DecodedFrame{
		Format:  ports.PixFmtRGB24,
		Width:   2,
		Height:  2,
		Planes:  [][]byte{make([]byte, 2*2*3)},
		Strides: []int{6},
	}
	dst := make([]byte, 4) // too small for RGBA8 output (needs 16 bytes)
	if err := conv.Convert(frame, dst); err == nil {
		t.Fatalf("expected an error for an undersized destination buffer")
	}
}
