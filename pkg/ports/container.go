package ports

import "errors"

// ErrEOF is returned by Container.ReadPacket when the container has no more
// packets to deliver.
var ErrEOF = errors.New("ports: end of stream")

// StreamInfo describes one video stream/track as reported by the container,
// before any per-descriptor derivation (bit depth defaulting, frame-count
// inference, etc.) is applied.
type StreamInfo struct {
	Index int

	Codec CodecID

	Width, Height int

	// BitDepth is 0 when the container does not report it directly; the
	// caller falls back to BitsPerPixel/NumComponents.
	BitDepth      int
	BitsPerPixel  int
	NumComponents int

	FPSNum, FPSDen int

	// SampleAspect is the pixel (not picture) aspect ratio reported at
	// stream level; 0 means "not reported".
	SampleAspect float64

	// TimebaseNum/TimebaseDen express the stream's timestamp tick, in
	// seconds per tick = TimebaseNum/TimebaseDen.
	TimebaseNum, TimebaseDen int64

	// ContainerStartTime is the container-reported start PTS in timebase
	// ticks, or NoPTS if unavailable.
	ContainerStartTime int64

	// DurationTicks is the container-reported stream duration in timebase
	// ticks, 0 if unavailable.
	DurationTicks int64

	// NbSamplesHint is the stream's self-reported sample/frame count
	// (e.g. mp4 stsz sample count), 0 if unavailable.
	NbSamplesHint int64

	ColorRange  ColorRange
	IsRec709    bool
	NativeFmt   PixelFormat
	LowDelay    bool // codec reports a low-resolution/direct-render variant

	// Metadata holds free-form container tags (udta/meta), keyed exactly
	// as stored; lookups by the reader are case-insensitive.
	Metadata map[string]string
}

// Packet is one compressed access unit read from the container, tagged
// with both timestamp fields (either may be NoPTS).
type Packet struct {
	StreamIndex int
	PTS         int64
	DTS         int64
	Data        []byte
	IsSync      bool // container-flagged keyframe; the flag itself may be wrong
}

// TimestampValue extracts the packet's timestamp for the given field.
func (p *Packet) TimestampValue(field TimestampField) int64 {
	if field == TimestampDTS {
		return p.DTS
	}
	return p.PTS
}

// Container abstracts a demuxed media container, exposing only what the
// random-access decoder needs: stream enumeration, sequential packet
// reads, and sample-accurate backward seeking to the nearest sync sample.
type Container interface {
	// Open parses the container at path and enumerates its streams.
	Open(path string) error

	// Streams returns the enumerated stream descriptions, in container
	// order. Only entries with Codec != CodecUnknown are usable.
	Streams() []StreamInfo

	// SeekNearestSync repositions the read cursor for streamIndex to the
	// nearest sample flagged as a sync sample at or before targetFrame,
	// returning the frame number actually landed on. If no such sample
	// exists, it lands on frame 0. This mirrors a backward keyframe seek
	// on a compressed bitstream, including its failure mode when the
	// container's sync-sample index is wrong.
	SeekNearestSync(streamIndex, targetFrame int) (landedFrame int, err error)

	// ReadPacket returns the next packet in container order across all
	// streams (the caller discards packets for streams it does not care
	// about). Returns ErrEOF when exhausted.
	ReadPacket() (Packet, error)

	// FrameCount returns the container's own estimate of the stream's
	// frame count via whatever means it has (duration+fps, sample count,
	// or 0 if it cannot say), used by the descriptor's total_frames
	// derivation before falling back to a measured count.
	FrameCount(streamIndex int) (fromDuration, fromSampleCount int64)

	// Close releases the container handle.
	Close() error
}
