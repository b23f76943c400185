package yuvconvert

import "github.com/yazici/openfx-io/pkg/ports"

// coefficients holds the ITU-R matrix used to convert Y'CbCr to R'G'B'.
type coefficients struct {
	kr, kb float64
}

var (
	coeffsRec601 = coefficients{kr: 0.299, kb: 0.114}
	coeffsRec709 = coefficients{kr: 0.2126, kb: 0.0722}
)

// selectMatrix picks the Y'CbCr matrix: an explicit override wins;
// otherwise Rec.709 is used only when the stream itself is tagged as such,
// defaulting to Rec.601.
func selectMatrix(srcIsRec709 bool, override ports.ColorMatrixOverride) coefficients {
	switch override {
	case ports.OverrideRec709:
		return coeffsRec709
	case ports.OverrideRec601:
		return coeffsRec601
	default:
		if srcIsRec709 {
			return coeffsRec709
		}
		return coeffsRec601
	}
}

// selectInputRange resolves the input quantization range: an explicit tag
// wins, RGB sources default to full range, everything else to studio range.
func selectInputRange(srcFmt ports.PixelFormat, r ports.ColorRange) ports.ColorRange {
	if r != ports.ColorRangeUnspecified {
		return r
	}
	if srcFmt.IsRGBFamily() {
		return ports.ColorRangeJPEG
	}
	return ports.ColorRangeMPEG
}

// yuvToRGB converts one full-range-normalized Y'CbCr triplet (each already
// rescaled to 0-255) to R'G'B' using the given coefficients, clamping to
// [0,255].
func yuvToRGB(y, cb, cr float64, c coefficients) (r, g, b float64) {
	cb -= 128
	cr -= 128
	kr, kb := c.kr, c.kb
	kg := 1 - kr - kb

	r = y + 2*(1-kr)*cr
	b = y + 2*(1-kb)*cb
	g = (y - kr*r - kb*b) / kg
	return clamp8(r), clamp8(g), clamp8(b)
}

func clamp8(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// rescaleLumaToFull and rescaleChromaToFull map a limited-range (16-235 luma / 16-240 chroma) sample
// to full range (0-255); a no-op for already-full-range sources.
func rescaleLumaToFull(v float64, in ports.ColorRange) float64 {
	if in == ports.ColorRangeMPEG {
		return clamp8((v - 16) * (255.0 / 219.0))
	}
	return v
}

func rescaleChromaToFull(v float64, in ports.ColorRange) float64 {
	if in == ports.ColorRangeMPEG {
		return clamp8(128 + (v-128)*(255.0/224.0))
	}
	return v
}
