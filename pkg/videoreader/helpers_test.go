package videoreader

import (
	"github.com/yazici/openfx-io/pkg/mocks"
	"github.com/yazici/openfx-io/pkg/ports"
)

// newFakeStream builds n packets for a single H.264 video stream at 24fps,
// timebase 1/24 (one tick per frame), with sync samples every syncEvery
// frames. Each packet's Data is a one-byte marker equal to its index so
// tests can verify which frame actually got decoded byte-for-byte.
func newFakeStream(n, syncEvery int) (ports.StreamInfo, []ports.Packet) {
	info := ports.StreamInfo{
		Index:              0,
		Codec:              ports.CodecH264,
		Width:              4,
		Height:             2,
		BitDepth:           8,
		NumComponents:      3,
		FPSNum:             24,
		FPSDen:             1,
		TimebaseNum:        1,
		TimebaseDen:        24,
		ContainerStartTime: 0,
		NbSamplesHint:      int64(n),
		DurationTicks:      int64(n),
	}
	packets := make([]ports.Packet, n)
	for i := 0; i < n; i++ {
		packets[i] = ports.Packet{
			StreamIndex: 0,
			PTS:         int64(i),
			DTS:         int64(i),
			Data:        []byte{byte(i)},
			IsSync:      i%syncEvery == 0,
		}
	}
	return info, packets
}

// newTestReader wires a mock container/decoder/converter/logger together.
// The mock decoder has zero delay (each SendPacket is immediately
// followed by a frame) and the mock converter copies the decoded frame's
// marker byte into the output buffer's first byte, so tests can assert on
// r.GetData()[0] to identify which source packet was actually decoded.
func newTestReader(info ports.StreamInfo, packets []ports.Packet) (*Reader, *mocks.Container, *mocks.Decoder) {
	container := mocks.NewContainer()
	container.StreamInfos = []ports.StreamInfo{info}
	container.Packets = packets

	decoder := mocks.NewDecoder()
	decoder.DelayValue = 0
	var lastData []byte
	sent := false
	decoder.SendPacketFunc = func(data []byte) error {
		lastData = data
		sent = true
		return nil
	}
	decoder.ReceiveFrameFunc = func() (ports.DecodedFrame, error) {
		if !sent {
			return ports.DecodedFrame{}, ports.ErrNoFrameAvailable
		}
		sent = false
		return ports.DecodedFrame{
			Format:  ports.PixFmtRGB24,
			Width:   1,
			Height:  1,
			Planes:  [][]byte{lastData},
			Strides: []int{1},
		}, nil
	}

	converters := mocks.NewConverterCache()
	converters.GetConverterFunc = func(req ports.ConverterRequest) (ports.Converter, error) {
		return &markerConverter{}, nil
	}

	log := mocks.NewLogger()
	r := New("fake.mp4", container, decoder, converters, log)
	return r, container, decoder
}

// markerConverter writes the decoded frame's marker byte into dst[0].
type markerConverter struct{}

func (c *markerConverter) Convert(frame ports.DecodedFrame, dst []byte) error {
	if len(frame.Planes) > 0 && len(frame.Planes[0]) > 0 {
		dst[0] = frame.Planes[0][0]
	}
	return nil
}
