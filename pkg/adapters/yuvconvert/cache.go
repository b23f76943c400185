// Package yuvconvert implements ports.ConverterCache: a lazily-built,
// colorspace-aware YUV/RGB-to-packed-RGB(A) converter, cached until the
// requested conversion or the color-matrix override changes. Scaling, when
// source and destination sizes differ, is delegated to
// golang.org/x/image/draw's bicubic-equivalent CatmullRom kernel.
package yuvconvert

import (
	"fmt"

	"github.com/yazici/openfx-io/pkg/ports"
)

// Cache implements ports.ConverterCache.
type Cache struct {
	req       ports.ConverterRequest
	hasReq    bool
	converter *converter
	override  ports.ColorMatrixOverride
	dirty     bool
}

// New creates an empty cache. A change to the color-matrix override, via
// SetOverride or InvalidateOverride, forces the next GetConverter call to
// rebuild rather than reuse the cached converter.
func New() *Cache {
	return &Cache{dirty: true}
}

// SetOverride updates the color-matrix override and marks the cache dirty
// if it actually changed.
func (c *Cache) SetOverride(o ports.ColorMatrixOverride) {
	if o != c.override {
		c.override = o
		c.dirty = true
	}
}

func (c *Cache) InvalidateOverride() {
	c.dirty = true
}

func (c *Cache) GetConverter(req ports.ConverterRequest) (ports.Converter, error) {
	req.SrcFormat = ports.NormalizeDeprecatedYUV(req.SrcFormat)

	if c.dirty {
		c.converter = nil
		c.dirty = false
	}

	if c.converter == nil || !c.hasReq || req != c.req {
		conv, err := newConverter(req, c.override)
		if err != nil {
			// Failure is non-recoverable for this frame; do not cache a
			// half-built converter so the next call retries from scratch.
			c.converter = nil
			c.hasReq = false
			return nil, err
		}
		c.converter = conv
		c.req = req
		c.hasReq = true
	}
	return c.converter, nil
}

var _ ports.ConverterCache = (*Cache)(nil)

// errUnsupportedFormat is returned when asked to convert a source pixel
// format this package does not implement.
func errUnsupportedFormat(f ports.PixelFormat) error {
	return fmt.Errorf("yuvconvert: unsupported source format %d", f)
}
