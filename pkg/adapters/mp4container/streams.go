package mp4container

import (
	"fmt"
	"io"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/yazici/openfx-io/pkg/ports"
)

// detectCodec classifies a track's sample entry by its sample description
// box tag (avc1/avc3 for H.264, av01 for AV1).
func detectCodec(trak *mp4.TrakBox) (ports.CodecID, *mp4.AvcCBox) {
	if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
		return ports.CodecUnknown, nil
	}
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return ports.CodecUnknown, nil
	}
	for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
		switch child.Type() {
		case "avc1", "avc3":
			var avcC *mp4.AvcCBox
			if v, ok := child.(*mp4.VisualSampleEntryBox); ok {
				avcC = v.AvcC
			}
			return ports.CodecH264, avcC
		case "av01":
			return ports.CodecAV1, nil
		}
	}
	return ports.CodecUnknown, nil
}

func sampleEntrySize(trak *mp4.TrakBox) (width, height, bitsPerPixel int) {
	if trak.Mdia == nil || trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return 0, 0, 0
	}
	for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
		if v, ok := child.(*mp4.VisualSampleEntryBox); ok {
			// mp4ff does not expose the sample entry's depth field (it is
			// always 0x0018 per spec and is skipped on decode / hardcoded
			// on encode by the library).
			return int(v.Width), int(v.Height), 24
		}
	}
	return 0, 0, 0
}

func spsPPSAnnexB(avcC *mp4.AvcCBox) []byte {
	if avcC == nil {
		return nil
	}
	var out []byte
	for _, sps := range avcC.SPSnalus {
		out = append(out, 0, 0, 0, 1)
		out = append(out, sps...)
	}
	for _, pps := range avcC.PPSnalus {
		out = append(out, 0, 0, 0, 1)
		out = append(out, pps...)
	}
	return out
}

// compositionOffset returns the composition time offset for a 1-based
// sample number, looked up through mp4ff's CttsBox; 0 when the track has
// no ctts box.
func compositionOffset(ctts *mp4.CttsBox, sampleNr uint32) int64 {
	if ctts == nil {
		return 0
	}
	return int64(ctts.GetCompositionTimeOffset(sampleNr))
}

func buildProgressiveStreams(f *mp4.File, r io.ReaderAt) ([]streamState, error) {
	if f.Moov == nil {
		return nil, fmt.Errorf("mp4container: no moov box")
	}

	var out []streamState
	streamIndex := 0
	for _, trak := range f.Moov.Traks {
		codec, avcC := detectCodec(trak)
		if codec == ports.CodecUnknown {
			streamIndex++
			continue
		}
		stbl := trak.Mdia.Minf.Stbl
		if stbl.Stsz == nil || stbl.Stsc == nil {
			streamIndex++
			continue
		}

		timescale := uint32(1000)
		if trak.Mdia.Mdhd != nil {
			timescale = trak.Mdia.Mdhd.Timescale
		}

		syncSamples := map[uint32]bool{}
		if stbl.Stss != nil {
			for _, nr := range stbl.Stss.SampleNumber {
				syncSamples[nr] = true
			}
		}
		allSync := stbl.Stss == nil

		width, height, bpp := sampleEntrySize(trak)

		sampleCount := stbl.Stsz.SampleNumber
		samples := make([]sampleRef, 0, sampleCount)
		for nr := uint32(1); nr <= sampleCount; nr++ {
			offset, size, err := sampleLocation(stbl, nr)
			if err != nil {
				continue
			}
			var dts uint64
			if stbl.Stts != nil {
				dts, _ = stbl.Stts.GetDecodeTime(nr)
			}
			pts := int64(dts) + compositionOffset(stbl.Ctts, nr)
			samples = append(samples, sampleRef{
				dts:    int64(dts),
				pts:    pts,
				isSync: allSync || syncSamples[nr],
				offset: offset,
				size:   size,
			})
		}
		if len(samples) == 0 {
			streamIndex++
			continue
		}

		info := ports.StreamInfo{
			Index:              streamIndex,
			Codec:              codec,
			Width:              width,
			Height:             height,
			BitsPerPixel:       bpp,
			NumComponents:      3,
			TimebaseNum:        1,
			TimebaseDen:        int64(timescale),
			ContainerStartTime: samples[0].pts,
			NbSamplesHint:      int64(len(samples)),
		}
		fps := estimateFPS(stbl, timescale)
		info.FPSNum, info.FPSDen = fps.num, fps.den
		if trak.Mdia.Mdhd != nil {
			info.DurationTicks = int64(trak.Mdia.Mdhd.Duration)
		}

		out = append(out, streamState{
			info:    info,
			samples: samples,
			spsPPS:  spsPPSAnnexB(avcC),
		})
		streamIndex++
	}
	return out, nil
}

func sampleLocation(stbl *mp4.StblBox, sampleNr uint32) (offset int64, size uint32, err error) {
	chunkNr, firstSampleInChunk, err := stbl.Stsc.ChunkNrFromSampleNr(int(sampleNr))
	if err != nil {
		return 0, 0, err
	}
	var chunkOffset uint64
	if stbl.Stco != nil {
		chunkOffset, err = stbl.Stco.GetOffset(chunkNr)
	} else if stbl.Co64 != nil {
		if chunkNr < 1 || chunkNr > len(stbl.Co64.ChunkOffset) {
			return 0, 0, fmt.Errorf("mp4container: chunk out of range")
		}
		chunkOffset = stbl.Co64.ChunkOffset[chunkNr-1]
	} else {
		return 0, 0, fmt.Errorf("mp4container: missing stco/co64")
	}
	if err != nil {
		return 0, 0, err
	}
	off := chunkOffset
	for s := uint32(firstSampleInChunk); s < sampleNr; s++ {
		off += uint64(stbl.Stsz.GetSampleSize(int(s)))
	}
	return int64(off), stbl.Stsz.GetSampleSize(int(sampleNr)), nil
}

type rational struct{ num, den int }

// estimateFPS derives an integer frame rate from the sample duration of the
// stts entry with the largest sample count; MP4 carries no explicit
// frame-rate field.
func estimateFPS(stbl *mp4.StblBox, timescale uint32) rational {
	if stbl.Stts == nil || len(stbl.Stts.SampleCount) == 0 {
		return rational{1, 1}
	}
	best := 0
	bestDelta := stbl.Stts.SampleTimeDelta[0]
	for i, c := range stbl.Stts.SampleCount {
		if int(c) > best {
			best = int(c)
			bestDelta = stbl.Stts.SampleTimeDelta[i]
		}
	}
	if bestDelta == 0 {
		return rational{1, 1}
	}
	return rational{int(timescale), int(bestDelta)}
}

func buildFragmentedStreams(f *mp4.File) ([]streamState, error) {
	if f.Init == nil || f.Init.Moov == nil {
		return nil, fmt.Errorf("mp4container: fragmented file missing init segment")
	}

	var out []streamState
	streamIndex := 0
	for _, trak := range f.Init.Moov.Traks {
		codec, avcC := detectCodec(trak)
		if codec == ports.CodecUnknown {
			streamIndex++
			continue
		}
		trackID := trak.Tkhd.TrackID
		timescale := uint32(1000)
		if trak.Mdia.Mdhd != nil {
			timescale = trak.Mdia.Mdhd.Timescale
		}
		width, height, bpp := sampleEntrySize(trak)

		var trex *mp4.TrexBox
		if f.Init.Moov.Mvex != nil {
			for _, t := range f.Init.Moov.Mvex.Trexs {
				if t.TrackID == trackID {
					trex = t
					break
				}
			}
		}

		var samples []sampleRef
		for _, seg := range f.Segments {
			for _, frag := range seg.Fragments {
				if frag.Moof == nil {
					continue
				}
				for _, traf := range frag.Moof.Trafs {
					if traf.Tfhd.TrackID != trackID {
						continue
					}
					var base uint64
					if traf.Tfdt != nil {
						base = traf.Tfdt.BaseMediaDecodeTime()
					}
					fullSamples, err := frag.GetFullSamples(trex)
					if err != nil {
						return nil, fmt.Errorf("mp4container: get samples: %w", err)
					}
					cur := base
					for _, s := range fullSamples {
						samples = append(samples, sampleRef{
							dts:    int64(cur),
							pts:    int64(cur),
							isSync: s.Flags == mp4.SyncSampleFlags || len(samples) == 0,
							data:   s.Data,
						})
						cur += uint64(s.Dur)
					}
				}
			}
		}
		if len(samples) == 0 {
			streamIndex++
			continue
		}

		info := ports.StreamInfo{
			Index:              streamIndex,
			Codec:              codec,
			Width:              width,
			Height:             height,
			BitsPerPixel:       bpp,
			NumComponents:      3,
			TimebaseNum:        1,
			TimebaseDen:        int64(timescale),
			ContainerStartTime: samples[0].pts,
			NbSamplesHint:      int64(len(samples)),
			FPSNum:             1,
			FPSDen:             1,
		}
		out = append(out, streamState{
			info:    info,
			samples: samples,
			spsPPS:  spsPPSAnnexB(avcC),
		})
		streamIndex++
	}
	return out, nil
}
