package ports

// VideoReader is the public surface of the frame-accurate random-access
// reader. The enclosing host plugin (not part of this module) is the only
// intended caller.
type VideoReader interface {
	// Decode decodes frame into the reader's shared output buffer.
	// If loadNearest, an out-of-range frame is clamped into
	// [0, total_frames); otherwise it fails with a "missing frame" error.
	// maxRetries bounds stall-recovery attempts (effective value is
	// max(1, maxRetries)).
	Decode(frame int, loadNearest bool, maxRetries int) bool

	// GetInfo reports the size, pixel aspect and frame count of the
	// given stream (0 is the only stream this reader actively decodes).
	GetInfo(streamIndex int) (width, height int, aspect float64, frames int, ok bool)

	// GetFPS reports the integer frame rate of the given stream.
	GetFPS(streamIndex int) (fpsNum, fpsDen int, ok bool)

	// GetColorspace returns the working colorspace name derived from
	// stream metadata (e.g. "AlexaV3LogC", "rec709", "Gamma2.2").
	GetColorspace() string

	// GetError returns the message set by the most recent failure.
	GetError() string

	// IsInvalid reports whether the reader is unusable (failed open).
	IsInvalid() bool

	GetBitDepth() int
	GetNumComponents() int
	GetRowSize() int
	GetBufferSize() int

	// GetData returns the shared output buffer; callers must copy it out
	// before the next Decode call on the same reader.
	GetData() []byte

	// Close releases the container and decoder resources.
	Close() error
}
