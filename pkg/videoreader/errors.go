package videoreader

import "errors"

// Sentinel errors matching the taxonomy the reader reports through
// GetError/IsInvalid; callers compare with errors.Is against the message
// text is not possible since the public surface only exposes strings, so
// these exist for internal control flow and for tests to assert on.
var (
	errUnsupportedCodec      = errors.New("unsupported codec")
	errNoVideoStream         = errors.New("unable to find video stream")
	errMissingFrame          = errors.New("missing frame")
	errSeekFailed            = errors.New("seek failed")
	errReadFailed            = errors.New("packet read failed")
	errDecodeFailed          = errors.New("decoder rejected packet")
	errTimingReferenceFailed = errors.New("failed to find timing reference frame")
	errDecodeReferenceFailed = errors.New("failed to find decode reference frame")
	errDecodingStall         = errors.New("detected decoding stall")
	errConvertFailed         = errors.New("frame conversion failed")
)
