package yuvconvert

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/yazici/openfx-io/pkg/ports"
)

// converter is one built ports.Converter, valid only for the fixed
// (src format/size/range, dst format/size, matrix) tuple it was built for.
type converter struct {
	req    ports.ConverterRequest
	matrix coefficients
	inRng  ports.ColorRange
	isRGB  bool
}

func newConverter(req ports.ConverterRequest, override ports.ColorMatrixOverride) (*converter, error) {
	switch req.SrcFormat {
	case ports.PixFmtYUV420P, ports.PixFmtYUV422P, ports.PixFmtYUV444P, ports.PixFmtNV12,
		ports.PixFmtRGB24, ports.PixFmtRGBA:
	default:
		return nil, errUnsupportedFormat(req.SrcFormat)
	}
	c := &converter{
		req:   req,
		isRGB: req.SrcFormat.IsRGBFamily(),
	}
	if !c.isRGB {
		c.matrix = selectMatrix(req.SrcIsRec709, override)
	}
	c.inRng = selectInputRange(req.SrcFormat, req.SrcRange)
	return c, nil
}

func (c *converter) Convert(frame ports.DecodedFrame, dst []byte) error {
	if frame.Width != c.req.SrcWidth || frame.Height != c.req.SrcHeight {
		return fmt.Errorf("yuvconvert: frame size %dx%d does not match converter %dx%d",
			frame.Width, frame.Height, c.req.SrcWidth, c.req.SrcHeight)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	if c.isRGB {
		if err := c.copyRGB(frame, rgba); err != nil {
			return err
		}
	} else {
		c.convertYUV(frame, rgba)
	}

	scaled := rgba
	if c.req.DstWidth != frame.Width || c.req.DstHeight != frame.Height {
		out := image.NewRGBA(image.Rect(0, 0, c.req.DstWidth, c.req.DstHeight))
		// Bicubic-equivalent resampling.
		draw.CatmullRom.Scale(out, out.Bounds(), rgba, rgba.Bounds(), draw.Over, nil)
		scaled = out
	}

	return packOutput(scaled, c.req.DstFormat, dst)
}

func (c *converter) copyRGB(frame ports.DecodedFrame, dst *image.RGBA) error {
	if len(frame.Planes) == 0 {
		return fmt.Errorf("yuvconvert: rgb frame has no planes")
	}
	plane := frame.Planes[0]
	stride := frame.Strides[0]
	channels := 3
	if frame.Format == ports.PixFmtRGBA {
		channels = 4
	}
	for y := 0; y < frame.Height; y++ {
		row := plane[y*stride:]
		for x := 0; x < frame.Width; x++ {
			o := x * channels
			r, g, b := row[o], row[o+1], row[o+2]
			a := uint8(255)
			if channels == 4 {
				a = row[o+3]
			}
			dst.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: a})
		}
	}
	return nil
}

func (c *converter) convertYUV(frame ports.DecodedFrame, dst *image.RGBA) {
	yPlane, uPlane, vPlane := frame.Planes[0], frame.Planes[1], frame.Planes[2]
	yStride, uStride, vStride := frame.Strides[0], frame.Strides[1], frame.Strides[2]

	chromaShiftX, chromaShiftY := chromaSubsampling(frame.Format)

	for y := 0; y < frame.Height; y++ {
		cy := y >> chromaShiftY
		for x := 0; x < frame.Width; x++ {
			cx := x >> chromaShiftX
			yv := float64(yPlane[y*yStride+x])
			cb := float64(uPlane[cy*uStride+cx])
			cr := float64(vPlane[cy*vStride+cx])

			yv = rescaleLumaToFull(yv, c.inRng)
			cb = rescaleChromaToFull(cb, c.inRng)
			cr = rescaleChromaToFull(cr, c.inRng)

			r, g, b := yuvToRGB(yv, cb, cr, c.matrix)
			dst.SetRGBA(x, y, color.RGBA{
				R: uint8(r + 0.5), G: uint8(g + 0.5), B: uint8(b + 0.5), A: 255,
			})
		}
	}
}

func chromaSubsampling(f ports.PixelFormat) (shiftX, shiftY int) {
	switch f {
	case ports.PixFmtYUV444P:
		return 0, 0
	case ports.PixFmtYUV422P:
		return 1, 0
	default: // YUV420P, NV12
		return 1, 1
	}
}

// packOutput writes an image.RGBA into dst using the descriptor's fixed
// output pixel format packed rows with no padding.
func packOutput(img *image.RGBA, dstFmt ports.PixelFormat, dst []byte) error {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	switch dstFmt {
	case ports.PixFmtPackedRGB8:
		if len(dst) < w*h*3 {
			return fmt.Errorf("yuvconvert: dst buffer too small")
		}
		o := 0
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := img.RGBAAt(x, y)
				dst[o], dst[o+1], dst[o+2] = c.R, c.G, c.B
				o += 3
			}
		}
	case ports.PixFmtPackedRGBA8:
		if len(dst) < w*h*4 {
			return fmt.Errorf("yuvconvert: dst buffer too small")
		}
		o := 0
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := img.RGBAAt(x, y)
				dst[o], dst[o+1], dst[o+2], dst[o+3] = c.R, c.G, c.B, c.A
				o += 4
			}
		}
	case ports.PixFmtPackedRGB16LE:
		if len(dst) < w*h*6 {
			return fmt.Errorf("yuvconvert: dst buffer too small")
		}
		o := 0
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := img.RGBAAt(x, y)
				put16le(dst[o:], uint16(c.R)<<8|uint16(c.R))
				put16le(dst[o+2:], uint16(c.G)<<8|uint16(c.G))
				put16le(dst[o+4:], uint16(c.B)<<8|uint16(c.B))
				o += 6
			}
		}
	case ports.PixFmtPackedRGBA16LE:
		if len(dst) < w*h*8 {
			return fmt.Errorf("yuvconvert: dst buffer too small")
		}
		o := 0
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := img.RGBAAt(x, y)
				put16le(dst[o:], uint16(c.R)<<8|uint16(c.R))
				put16le(dst[o+2:], uint16(c.G)<<8|uint16(c.G))
				put16le(dst[o+4:], uint16(c.B)<<8|uint16(c.B))
				put16le(dst[o+6:], uint16(c.A)<<8|uint16(c.A))
				o += 8
			}
		}
	default:
		return fmt.Errorf("yuvconvert: unsupported destination format %d", dstFmt)
	}
	return nil
}

func put16le(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

var _ ports.Converter = (*converter)(nil)
