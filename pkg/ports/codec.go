package ports

import "errors"

// ErrNoFrameAvailable is returned by NativeDecoder.ReceiveFrame when the
// decoder has buffered the submitted packets but has not yet produced an
// output picture (the EAGAIN case of a real decode loop).
var ErrNoFrameAvailable = errors.New("ports: no frame available yet")

// ErrDecoderEOF is returned by ReceiveFrame once the decoder has been
// flushed and has no further buffered frames to emit.
var ErrDecoderEOF = errors.New("ports: decoder drained")

// DecoderParams configures a NativeDecoder at open time.
type DecoderParams struct {
	Codec         CodecID
	Width, Height int
	Threads       int  // clamp(host cpu count, 1, 16)
	LowDelay      bool // emulated-edge / low-res variant hint
}

// DecodedFrame is one decoded picture in the decoder's native pixel format,
// with tightly-packed planes.
type DecodedFrame struct {
	Format        PixelFormat
	Width, Height int
	// Planes holds one []byte per plane (1 for packed RGB/RGBA, 2-3 for
	// planar YUV), each row-major with Strides[i] bytes per row.
	Planes  [][]byte
	Strides []int
}

// NativeDecoder abstracts a stateful video decoder with a push/pull API,
// mirroring avcodec_send_packet/avcodec_receive_frame: submitting a packet
// does not guarantee an output frame, and a decoder may hold several
// packets' worth of state before it starts emitting (codec delay).
type NativeDecoder interface {
	// Open initializes the decoder for the given parameters.
	Open(params DecoderParams) error

	// SendPacket submits one compressed access unit for decoding.
	SendPacket(data []byte) error

	// ReceiveFrame retrieves the next decoded picture, if any is ready.
	// Returns ErrNoFrameAvailable if the decoder needs more input first.
	ReceiveFrame() (DecodedFrame, error)

	// Flush signals end of input, causing the decoder to drain any
	// frames buffered for reordering. After Flush, ReceiveFrame returns
	// ErrDecoderEOF once fully drained.
	Flush() error

	// Reset discards all buffered state without closing the decoder,
	// used when the reader seeks and resumes from a new position.
	Reset() error

	// Delay reports the decoder's currently declared maximum number of
	// packets it may consume before emitting output. This can increase
	// mid-stream as the decoder discovers B-frames.
	Delay() int

	// Close releases decoder resources.
	Close() error
}
