package videoreader

import (
	"fmt"

	"github.com/yazici/openfx-io/pkg/ports"
)

// avTimeBase mirrors the codec library convention of expressing durations
// in a fixed 1/1,000,000 second unit, used only by the total_frames
// derivation in step 1 below.
const avTimeBase = 1_000_000

func (r *Reader) open(path string) error {
	if err := r.container.Open(path); err != nil {
		return fmt.Errorf("open container: %w", err)
	}

	infos := r.container.Streams()

	registered := false
	for _, info := range infos {
		if info.Codec == ports.CodecUnknown {
			continue
		}

		if !registered {
			threads := clampThreads(hostCPUCount())
			params := ports.DecoderParams{
				Codec:    info.Codec,
				Width:    info.Width,
				Height:   info.Height,
				Threads:  threads,
				LowDelay: info.LowDelay,
			}
			if err := r.decoder.Open(params); err != nil {
				r.log.Warn("decoder open failed for stream %d: %s", info.Index, err)
				continue
			}
		}

		desc := r.buildDescriptor(info)
		r.streams = append(r.streams, desc)

		if !registered {
			r.outputBuffer = make([]byte, desc.bufferSize())
			registered = true
			r.log.Info("opened stream %d: %dx%d, %d frames at %d/%d fps", desc.index, desc.width, desc.height, desc.totalFrames, desc.fpsNum, desc.fpsDen)
		}
	}

	if len(r.streams) == 0 {
		hasAnyStream := len(infos) > 0
		if hasAnyStream {
			return errUnsupportedCodec
		}
		return errNoVideoStream
	}
	return nil
}

func (r *Reader) buildDescriptor(info ports.StreamInfo) *streamDescriptor {
	bitDepth := info.BitDepth
	if bitDepth == 0 && info.NumComponents > 0 && info.BitsPerPixel > 0 {
		bitDepth = info.BitsPerPixel / info.NumComponents
	}
	if bitDepth == 0 {
		bitDepth = 8
	}

	numComponents := info.NumComponents
	if numComponents < 3 {
		numComponents = 3
	}

	fpsNum, fpsDen := info.FPSNum, info.FPSDen
	if fpsNum == 0 || fpsDen == 0 {
		fpsNum, fpsDen = 1, 1
	}

	aspect := info.SampleAspect
	if aspect == 0 {
		aspect = 1.0
	}

	tbNum, tbDen := info.TimebaseNum, info.TimebaseDen
	if tbNum == 0 {
		tbNum = 1
	}
	if tbDen == 0 {
		tbDen = 1
	}

	d := &streamDescriptor{
		index:          info.Index,
		width:          info.Width,
		height:         info.Height,
		bitDepth:       bitDepth,
		numComponents:  numComponents,
		fpsNum:         fpsNum,
		fpsDen:         fpsDen,
		aspect:         aspect,
		tbNum:          tbNum,
		tbDen:          tbDen,
		nativeFmt:      info.NativeFmt,
		colorRange:     info.ColorRange,
		isRec709:       info.IsRec709,
		lowDelay:       info.LowDelay,
		metadata:       info.Metadata,
		decodeNextIn:   -1,
		decodeNextOut:  -1,
		timestampField: ports.TimestampPTS,
	}
	d.outputFormat = deriveOutputFormat(d.bitDepth, d.numComponents)
	d.startPTS = r.deriveStartPTS(info, d)
	d.totalFrames = r.deriveTotalFrames(info, d)
	return d
}

// deriveStartPTS resolves the stream's start_pts: the container's own
// start time if it reports one, otherwise the first packet's PTS found by
// seeking to the beginning and reading forward.
func (r *Reader) deriveStartPTS(info ports.StreamInfo, d *streamDescriptor) int64 {
	if info.ContainerStartTime != ports.NoPTS {
		return info.ContainerStartTime
	}

	if _, err := r.container.SeekNearestSync(info.Index, 0); err != nil {
		return 0
	}
	for {
		pkt, err := r.container.ReadPacket()
		if err != nil {
			return 0
		}
		if pkt.StreamIndex != info.Index {
			continue
		}
		if pkt.PTS != ports.NoPTS {
			return pkt.PTS
		}
	}
}

// deriveTotalFrames resolves total_frames through this preference order: a
// duration-derived frame count, replaced by the container's own sample
// count when the two differ by at most one frame; then the container's raw
// sample count; then the format's declared sample-count hint; then a plain
// duration/fps division; and only as a last resort a full measured pass
// over the stream in measureTotalFrames.
func (r *Reader) deriveTotalFrames(info ports.StreamInfo, d *streamDescriptor) int64 {
	_, fromSampleCount := r.container.FrameCount(info.Index)

	if info.DurationTicks > 0 {
		durationUs := info.DurationTicks * d.tbNum * avTimeBase / d.tbDen
		divisor := int64(avTimeBase) * int64(d.fpsDen)
		if divisor > 0 {
			frames := ((durationUs - 1) * int64(d.fpsNum) + divisor - 1) / divisor
			if fromSampleCount > 0 {
				diff := fromSampleCount - frames
				if diff < 0 {
					diff = -diff
				}
				if diff <= 1 {
					return fromSampleCount
				}
			}
			if frames > 0 {
				return frames
			}
		}
	}

	if fromSampleCount > 0 {
		return fromSampleCount
	}
	if info.NbSamplesHint > 0 {
		return info.NbSamplesHint
	}

	if info.DurationTicks > 0 {
		frames := info.DurationTicks * d.tbNum * int64(d.fpsNum) / (d.tbDen * int64(d.fpsDen))
		if frames > 0 {
			return frames
		}
	}

	return r.measureTotalFrames(info, d)
}

// measureTotalFrames implements the last-resort measured count: seek past
// the end, drain remaining packets, and take 1+ptsToFrame(max pts seen).
func (r *Reader) measureTotalFrames(info ports.StreamInfo, d *streamDescriptor) int64 {
	if _, err := r.container.SeekNearestSync(info.Index, 1<<30); err != nil {
		return 1
	}
	var maxPTS int64 = d.startPTS
	seen := false
	for {
		pkt, err := r.container.ReadPacket()
		if err != nil {
			break
		}
		if pkt.StreamIndex != info.Index {
			continue
		}
		if pkt.PTS == ports.NoPTS {
			continue
		}
		seen = true
		if pkt.PTS > maxPTS {
			maxPTS = pkt.PTS
		}
	}
	if !seen {
		return 1
	}
	return 1 + d.ptsToFrame(maxPTS)
}
