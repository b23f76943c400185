// Package ports defines the interfaces the video-frame reader core depends
// on, so that container parsing, native decoding, color conversion and
// logging can each be swapped for a test double or an alternative adapter.
package ports

// CodecID identifies the compressed bitstream format of a video stream.
type CodecID int

const (
	CodecUnknown CodecID = iota
	CodecH264
	CodecAV1
)

func (c CodecID) String() string {
	switch c {
	case CodecH264:
		return "h264"
	case CodecAV1:
		return "av1"
	default:
		return "unknown"
	}
}

// PixelFormat identifies a raw sample layout, either the decoder's native
// output format or the reader's packed output format.
type PixelFormat int

const (
	PixFmtUnknown PixelFormat = iota
	PixFmtYUV420P
	PixFmtYUV422P
	PixFmtYUV444P
	PixFmtYUV420P10LE
	PixFmtNV12
	PixFmtRGB24
	PixFmtRGBA

	// Output pixel formats, derived from bit depth and channel count.
	PixFmtPackedRGB8
	PixFmtPackedRGBA8
	PixFmtPackedRGB16LE
	PixFmtPackedRGBA16LE
)

// IsRGBFamily reports whether the format carries RGB (as opposed to YUV)
// samples, i.e. one for which no colorspace conversion is meaningful.
func (p PixelFormat) IsRGBFamily() bool {
	switch p {
	case PixFmtRGB24, PixFmtRGBA, PixFmtPackedRGB8, PixFmtPackedRGBA8, PixFmtPackedRGB16LE, PixFmtPackedRGBA16LE:
		return true
	default:
		return false
	}
}

// NormalizeDeprecatedYUV maps deprecated "JPEG-range" tagged YUV formats to
// their modern equivalent, matching the codec library's own aliasing of
// e.g. YUVJ420P onto YUV420P before requesting a converter.
func NormalizeDeprecatedYUV(p PixelFormat) PixelFormat {
	// Full-range "J" pixel format tags (e.g. YUVJ420P) are not modeled as
	// distinct PixelFormat values here; range is carried by ColorRange
	// instead, so this is the identity function.
	return p
}

// ColorRange is the sample quantization range of a YUV source.
type ColorRange int

const (
	ColorRangeUnspecified ColorRange = iota
	ColorRangeMPEG                   // limited range, 16-235
	ColorRangeJPEG                   // full range, 0-255
)

// ColorMatrix selects the YUV<->RGB coefficient set.
type ColorMatrix int

const (
	MatrixUnspecified ColorMatrix = iota
	MatrixRec601
	MatrixRec709
)

// ColorMatrixOverride is a caller-controlled override of the coefficient
// matrix that would otherwise be inferred from stream tags.
type ColorMatrixOverride int

const (
	OverrideNone ColorMatrixOverride = iota
	OverrideRec709
	OverrideRec601
)

// TimestampField selects which field of a Packet carries the timestamp
// used for frame<->pts mapping. Modeled as a tagged enum with an accessor
// rather than a pointer-to-struct-field, so the zero value is meaningful
// and callers switch on it directly.
type TimestampField int

const (
	TimestampPTS TimestampField = iota
	TimestampDTS
)

func (t TimestampField) String() string {
	if t == TimestampDTS {
		return "dts"
	}
	return "pts"
}

// NoPTS is the sentinel value meaning "no timestamp carried".
const NoPTS int64 = -1 << 62
