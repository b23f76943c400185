package mocks

import (
	"github.com/yazici/openfx-io/pkg/ports"
)

// Decoder is a mock implementation of ports.NativeDecoder. Delay simulates
// codec reordering: SendPacket buffers up to Delay packets before
// ReceiveFrame starts returning frames, mirroring a real B-frame decoder's
// startup latency.
type Decoder struct {
	OpenFunc         func(params ports.DecoderParams) error
	SendPacketFunc   func(data []byte) error
	ReceiveFrameFunc func() (ports.DecodedFrame, error)
	FlushFunc        func() error
	ResetFunc        func() error
	CloseFunc        func() error

	DelayValue int
	Frame      ports.DecodedFrame

	pending   int
	flushed   bool
	drained   bool
	sentCount int

	OpenCalls   []ports.DecoderParams
	SendCount   int
	FlushCalled bool
	ResetCalled bool
	CloseCalled bool
}

func NewDecoder() *Decoder {
	return &Decoder{DelayValue: 1}
}

func (m *Decoder) Open(params ports.DecoderParams) error {
	m.OpenCalls = append(m.OpenCalls, params)
	if m.OpenFunc != nil {
		return m.OpenFunc(params)
	}
	return nil
}

func (m *Decoder) SendPacket(data []byte) error {
	m.SendCount++
	m.sentCount++
	if m.SendPacketFunc != nil {
		return m.SendPacketFunc(data)
	}
	m.pending++
	return nil
}

func (m *Decoder) ReceiveFrame() (ports.DecodedFrame, error) {
	if m.ReceiveFrameFunc != nil {
		return m.ReceiveFrameFunc()
	}
	if m.pending > m.DelayValue {
		m.pending--
		return m.Frame, nil
	}
	if m.flushed {
		if m.pending > 0 {
			m.pending--
			return m.Frame, nil
		}
		m.drained = true
		return ports.DecodedFrame{}, ports.ErrDecoderEOF
	}
	return ports.DecodedFrame{}, ports.ErrNoFrameAvailable
}

func (m *Decoder) Flush() error {
	m.FlushCalled = true
	m.flushed = true
	if m.FlushFunc != nil {
		return m.FlushFunc()
	}
	return nil
}

func (m *Decoder) Reset() error {
	m.ResetCalled = true
	m.pending = 0
	m.flushed = false
	m.drained = false
	m.sentCount = 0
	if m.ResetFunc != nil {
		return m.ResetFunc()
	}
	return nil
}

func (m *Decoder) Delay() int {
	return m.DelayValue
}

func (m *Decoder) Close() error {
	m.CloseCalled = true
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

var _ ports.NativeDecoder = (*Decoder)(nil)
