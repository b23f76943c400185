package videoreader

import "github.com/yazici/openfx-io/pkg/ports"

// streamDescriptor holds all per-stream decode state. It is single-owner:
// the reader that created it is the only thing that ever touches it, and
// it never escapes the reader's public methods.
type streamDescriptor struct {
	index int

	width, height int
	bitDepth      int
	numComponents int
	outputFormat  ports.PixelFormat

	fpsNum, fpsDen int
	aspect         float64

	tbNum, tbDen int64
	startPTS     int64
	totalFrames  int64

	nativeFmt  ports.PixelFormat
	colorRange ports.ColorRange
	isRec709   bool
	lowDelay   bool
	metadata   map[string]string

	// decodeNextIn/decodeNextOut are 0-based frame indices; -1 means
	// "unknown", set right after a seek until resync lands.
	decodeNextIn  int64
	decodeNextOut int64

	accumLatency int

	timestampField ports.TimestampField
	ptsSeen        bool

	// lastSeekedFrame is the frame index most recently requested of the
	// container's SeekNearestSync; resync walks it strictly downward (apart
	// from the one-time PTS-to-DTS switch, which restarts it at the target),
	// which is what guarantees decodeFrame eventually terminates instead of
	// looping forever on a container that keeps mis-flagging keyframes.
	lastSeekedFrame int64

	matrixOverride ports.ColorMatrixOverride
}

// ptsToFrame maps a presentation timestamp to a 0-based frame index,
// truncating toward zero as Go's / operator already does for int64.
func (d *streamDescriptor) ptsToFrame(pts int64) int64 {
	return (pts - d.startPTS) * int64(d.fpsNum) * d.tbNum / (int64(d.fpsDen) * d.tbDen)
}

func (d *streamDescriptor) frameToPTS(frame int64) int64 {
	return frame*int64(d.fpsDen)*d.tbDen/(int64(d.fpsNum)*d.tbNum) + d.startPTS
}

func (d *streamDescriptor) sampleSize() int {
	if d.bitDepth > 8 {
		return 2
	}
	return 1
}

func (d *streamDescriptor) rowSize() int {
	return d.numComponents * d.width * d.sampleSize()
}

func (d *streamDescriptor) bufferSize() int {
	return d.rowSize() * d.height
}

// deriveOutputFormat maps (bit_depth, num_components) to the packed output
// pixel format the reader always emits into its output buffer.
func deriveOutputFormat(bitDepth, numComponents int) ports.PixelFormat {
	switch {
	case bitDepth <= 8 && numComponents == 4:
		return ports.PixFmtPackedRGBA8
	case bitDepth <= 8:
		return ports.PixFmtPackedRGB8
	case numComponents == 4:
		return ports.PixFmtPackedRGBA16LE
	default:
		return ports.PixFmtPackedRGB16LE
	}
}
