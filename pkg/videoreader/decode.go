package videoreader

import (
	"fmt"

	"github.com/yazici/openfx-io/pkg/ports"
)

// Decode implements ports.VideoReader.Decode: the frame-accurate
// random-access read. Only stream 0 is ever actively decoded; the core
// considers other registered streams inert.
func (r *Reader) Decode(frame int, loadNearest bool, maxRetries int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.invalid || len(r.streams) == 0 {
		r.err = "reader is invalid"
		return false
	}
	desc := r.streams[0]

	target := int64(frame)
	if target < 0 || target >= desc.totalFrames {
		if !loadNearest {
			r.err = errMissingFrame.Error()
			return false
		}
		if target < 0 {
			target = 0
		}
		if target >= desc.totalFrames {
			target = desc.totalFrames - 1
		}
	}

	if err := r.decodeFrame(desc, target, loadNearest, maxRetries); err != nil {
		r.err = err.Error()
		// Self-healing: force the next call to seek from scratch.
		desc.decodeNextOut = -1
		return false
	}
	return true
}

// decodeFrame runs the seek/resync/decode/stall-recovery loop until frame
// target is emitted and converted, or a terminal error occurs. It never
// reads or writes anything outside desc, r's ports and r's output buffer,
// matching the single-owner descriptor design.
func (r *Reader) decodeFrame(desc *streamDescriptor, target int64, loadNearest bool, maxRetries int) error {
	retries := 0
	budget := max(1, maxRetries)

	needSeek := desc.decodeNextOut != target
	seekTarget := target
	emittedSinceSeek := false

	for {
		if needSeek {
			if err := r.seek(desc, seekTarget); err != nil {
				return err
			}
			needSeek = false
			emittedSinceSeek = false
		}

		pkt, err := r.container.ReadPacket()
		if err == ports.ErrEOF {
			corrected := desc.decodeNextIn
			if corrected < 1 {
				corrected = 1
			}
			desc.totalFrames = corrected

			if loadNearest && target >= desc.totalFrames {
				target = desc.totalFrames - 1
				seekTarget = target
				needSeek = true
				continue
			}

			if err := r.decoder.Flush(); err != nil {
				return fmt.Errorf("%w: %v", errReadFailed, err)
			}
			for {
				frame, ferr := r.decoder.ReceiveFrame()
				if ferr == ports.ErrDecoderEOF || ferr == ports.ErrNoFrameAvailable {
					return errMissingFrame
				}
				if ferr != nil {
					return fmt.Errorf("%w: %v", errDecodeFailed, ferr)
				}
				emitted := desc.decodeNextOut
				desc.decodeNextOut = emitted + 1
				if emitted == target {
					return r.convertAndStore(desc, frame)
				}
			}
		}
		if err != nil {
			return fmt.Errorf("%w: %v", errReadFailed, err)
		}
		if pkt.StreamIndex != desc.index {
			continue
		}

		// AWAITING_SYNC: decodeNextIn stays -1 until a packet's timestamp
		// confirms (or corrects) where the seek actually landed.
		if desc.decodeNextIn < 0 {
			value := pkt.TimestampValue(desc.timestampField)
			invalid := value == ports.NoPTS
			var landing int64
			if !invalid {
				landing = desc.ptsToFrame(value)
				if landing > desc.lastSeekedFrame {
					invalid = true
				}
			}
			if invalid {
				r.log.Debug("landing rejected at frame %d, walking back", desc.lastSeekedFrame)
				desc.lastSeekedFrame--
				if desc.lastSeekedFrame < 0 {
					if desc.timestampField == ports.TimestampPTS && !desc.ptsSeen {
						r.log.Debug("no PTS ever observed, falling back to DTS for timing")
						desc.timestampField = ports.TimestampDTS
						desc.lastSeekedFrame = target
						seekTarget = target
						needSeek = true
						continue
					}
					return errTimingReferenceFailed
				}
				seekTarget = desc.lastSeekedFrame
				needSeek = true
				continue
			}
			r.log.Debug("landing accepted at frame %d", landing)
			desc.decodeNextIn = landing
			desc.decodeNextOut = landing
		}

		if pkt.PTS != ports.NoPTS {
			desc.ptsSeen = true
		}
		desc.decodeNextIn++
		if err := r.decoder.SendPacket(pkt.Data); err != nil {
			return fmt.Errorf("%w: %v", errDecodeFailed, err)
		}

		frame, ferr := r.decoder.ReceiveFrame()
		switch {
		case ferr == nil:
			emitted := desc.decodeNextOut
			desc.decodeNextOut = emitted + 1
			desc.accumLatency = 0
			emittedSinceSeek = true
			if emitted == target {
				return r.convertAndStore(desc, frame)
			}

		case ferr == ports.ErrNoFrameAvailable:
			desc.accumLatency++
			if desc.accumLatency <= r.decoder.Delay() {
				continue
			}

			if !emittedSinceSeek {
				// Post-seek stall: walk one frame earlier before spending
				// a retry, since this is usually a wrong sync-sample flag
				// rather than a genuinely corrupt stream.
				if desc.decodeNextOut > 0 {
					r.log.Warn("decode stall right after seeking to frame %d, walking back to %d", seekTarget, desc.decodeNextOut-1)
					seekTarget = desc.decodeNextOut - 1
					needSeek = true
					continue
				}
				if retries >= budget {
					return errDecodeReferenceFailed
				}
				retries++
				r.log.Debug("stall declared, retry %d/%d, re-seeking to target frame %d", retries, budget, target)
				seekTarget = target
				needSeek = true
				continue
			}

			// Mid-decode stall.
			if retries >= budget {
				return errDecodingStall
			}
			retries++
			r.log.Debug("stall declared, retry %d/%d, re-seeking to target frame %d", retries, budget, target)
			seekTarget = target
			needSeek = true
			continue

		default:
			return fmt.Errorf("%w: %v", errDecodeFailed, ferr)
		}
	}
}

// seek flushes decoder state and repositions the container at the nearest
// sync sample at or before target, entering AWAITING_SYNC.
func (r *Reader) seek(desc *streamDescriptor, target int64) error {
	r.log.Debug("seek issued to frame %d", target)
	if err := r.decoder.Reset(); err != nil {
		return fmt.Errorf("%w: %v", errSeekFailed, err)
	}
	if _, err := r.container.SeekNearestSync(desc.index, int(target)); err != nil {
		return fmt.Errorf("%w: %v", errSeekFailed, err)
	}
	desc.decodeNextIn = -1
	desc.decodeNextOut = -1
	desc.accumLatency = 0
	desc.lastSeekedFrame = target
	return nil
}

// convertAndStore runs the decoded frame through the descriptor's cached
// converter into the reader's shared output buffer.
func (r *Reader) convertAndStore(desc *streamDescriptor, frame ports.DecodedFrame) error {
	req := ports.ConverterRequest{
		SrcFormat:      frame.Format,
		SrcWidth:       desc.width,
		SrcHeight:      desc.height,
		SrcRange:       desc.colorRange,
		SrcIsRec709:    desc.isRec709,
		DstFormat:      desc.outputFormat,
		DstWidth:       desc.width,
		DstHeight:      desc.height,
		MatrixOverride: desc.matrixOverride,
	}
	conv, err := r.converters.GetConverter(req)
	if err != nil {
		return fmt.Errorf("%w: %v", errConvertFailed, err)
	}
	if err := conv.Convert(frame, r.outputBuffer); err != nil {
		return fmt.Errorf("%w: %v", errConvertFailed, err)
	}
	return nil
}
