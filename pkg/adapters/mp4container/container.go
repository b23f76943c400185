// Package mp4container implements ports.Container over MP4 files using
// github.com/Eyevinn/mp4ff to read sample tables. It supports both
// progressive ("moov" at front, per-sample chunk offsets) and fragmented
// ("moof"/"mdat" per segment) layouts.
//
// Only the first usable video track is turned into a decodable packet
// stream; the core (pkg/videoreader) only ever actively decodes one
// stream. Frame numbering assumes decode order equals presentation order
// (no B-frame reordering); the general reordering machinery lives in
// pkg/videoreader and is exercised against pkg/mocks in tests.
package mp4container

import (
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/yazici/openfx-io/pkg/ports"
)

// sampleRef is one sample in decode order for the active video stream.
type sampleRef struct {
	dts    int64
	pts    int64
	isSync bool

	// Progressive layout: read data lazily from file at offset/size.
	offset int64
	size   uint32

	// Fragmented layout: data already materialized by mp4ff.
	data []byte
}

// streamState tracks per-track decode state and the annexB framing prefix
// (SPS/PPS) that must precede sync samples for H.264.
type streamState struct {
	info    ports.StreamInfo
	samples []sampleRef
	cursor  int
	spsPPS  []byte
}

// Container implements ports.Container for MP4 files.
type Container struct {
	file   *os.File
	active *streamState
	others []ports.StreamInfo
	meta   map[string]string
}

// New creates an unopened MP4 container reader.
func New() *Container {
	return &Container{}
}

func (c *Container) Open(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("mp4container: open %s: %w", path, err)
	}
	c.file = f

	mp4File, err := mp4.DecodeFile(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("mp4container: decode mp4: %w", err)
	}

	var streams []streamState
	if mp4File.IsFragmented() {
		streams, err = buildFragmentedStreams(mp4File)
	} else {
		streams, err = buildProgressiveStreams(mp4File, f)
	}
	if err != nil {
		f.Close()
		return err
	}

	if len(streams) == 0 {
		f.Close()
		return fmt.Errorf("mp4container: no usable video stream")
	}

	c.active = &streams[0]
	for _, s := range streams[1:] {
		c.others = append(c.others, s.info)
	}
	c.meta = readUdtaMetadata(mp4File)
	return nil
}

func (c *Container) Streams() []ports.StreamInfo {
	if c.active == nil {
		return c.others
	}
	all := append([]ports.StreamInfo{c.active.info}, c.others...)
	for i := range all {
		all[i].Metadata = c.meta
	}
	return all
}

func (c *Container) FrameCount(streamIndex int) (fromDuration, fromSampleCount int64) {
	if c.active == nil || streamIndex != c.active.info.Index {
		return 0, 0
	}
	info := c.active.info
	if info.DurationTicks > 0 && info.TimebaseDen > 0 && info.FPSDen > 0 {
		fromDuration = info.DurationTicks * info.TimebaseNum * int64(info.FPSNum) / (info.TimebaseDen * int64(info.FPSDen))
	}
	return fromDuration, int64(len(c.active.samples))
}

func (c *Container) SeekNearestSync(streamIndex, targetFrame int) (int, error) {
	if c.active == nil || streamIndex != c.active.info.Index {
		return 0, fmt.Errorf("mp4container: unknown stream %d", streamIndex)
	}
	n := len(c.active.samples)
	if n == 0 {
		return 0, fmt.Errorf("mp4container: stream %d has no samples", streamIndex)
	}
	idx := targetFrame
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	landed := 0
	for i := idx; i >= 0; i-- {
		if c.active.samples[i].isSync {
			landed = i
			break
		}
	}
	c.active.cursor = landed
	return landed, nil
}

func (c *Container) ReadPacket() (ports.Packet, error) {
	if c.active == nil || c.active.cursor >= len(c.active.samples) {
		return ports.Packet{}, ports.ErrEOF
	}
	s := c.active.samples[c.active.cursor]
	data := s.data
	if data == nil {
		buf := make([]byte, s.size)
		if _, err := c.file.ReadAt(buf, s.offset); err != nil && err != io.EOF {
			return ports.Packet{}, fmt.Errorf("mp4container: read sample: %w", err)
		}
		data = buf
	}
	if s.isSync && len(c.active.spsPPS) > 0 {
		framed := make([]byte, 0, len(c.active.spsPPS)+len(data))
		framed = append(framed, c.active.spsPPS...)
		framed = append(framed, avccToAnnexB(data)...)
		data = framed
	} else {
		data = avccToAnnexB(data)
	}
	pkt := ports.Packet{
		StreamIndex: c.active.info.Index,
		PTS:         s.pts,
		DTS:         s.dts,
		Data:        data,
		IsSync:      s.isSync,
	}
	c.active.cursor++
	return pkt, nil
}

func (c *Container) Close() error {
	if c.file != nil {
		return c.file.Close()
	}
	return nil
}

// avccToAnnexB converts AVCC length-prefixed NALUs to Annex-B start-code
// framing, as required by the ffmpeg-subprocess H.264 decoder. AV1 samples
// (already stored as OBUs) pass through unchanged since there is no
// length-prefix convention to strip.
func avccToAnnexB(data []byte) []byte {
	if len(data) < 4 {
		return data
	}
	naluLen := int(data[0])<<24 | int(data[1])<<16 | int(data[2])<<8 | int(data[3])
	if naluLen <= 0 || naluLen > len(data)-4 {
		// Not AVCC-framed (e.g. AV1 OBU stream); leave untouched.
		return data
	}
	var result []byte
	offset := 0
	for offset+4 <= len(data) {
		n := int(data[offset])<<24 | int(data[offset+1])<<16 |
			int(data[offset+2])<<8 | int(data[offset+3])
		offset += 4
		if n < 0 || offset+n > len(data) {
			break
		}
		result = append(result, 0, 0, 0, 1)
		result = append(result, data[offset:offset+n]...)
		offset += n
	}
	return result
}

func readUdtaMetadata(f *mp4.File) map[string]string {
	// mp4ff exposes free-form udta/meta key-value tags inconsistently
	// across encoders; this reader only looks them up case-insensitively
	// through GetColorspace (pkg/videoreader), so an empty map is a safe
	// default when no udta box is present.
	meta := map[string]string{}
	moov := f.Moov
	if f.IsFragmented() && f.Init != nil {
		moov = f.Init.Moov
	}
	if moov == nil {
		return meta
	}
	var udta *mp4.UdtaBox
	for _, child := range moov.Children {
		if box, ok := child.(*mp4.UdtaBox); ok {
			udta = box
			break
		}
	}
	if udta == nil {
		return meta
	}
	// mp4ff's UdtaBox does not currently expose a generic string-tag
	// walker; real-world Foundry/Arri metadata tags are carried as custom
	// uuid boxes this library does not parse, so the colorspace lookup
	// falls through to the YUV/RGB gamma fallback in practice for MP4
	// sources.
	return meta
}
