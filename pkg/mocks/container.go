package mocks

import (
	"github.com/yazici/openfx-io/pkg/ports"
)

// Container is a mock implementation of ports.Container. Packets is the
// full sequence a real container would deliver in order; ReadPacket walks
// it starting from whatever index SeekNearestSync (or the zero value) last
// landed on.
type Container struct {
	OpenFunc            func(path string) error
	StreamsFunc         func() []ports.StreamInfo
	SeekNearestSyncFunc func(streamIndex, targetFrame int) (int, error)
	ReadPacketFunc      func() (ports.Packet, error)
	FrameCountFunc      func(streamIndex int) (int64, int64)
	CloseFunc           func() error

	StreamInfos []ports.StreamInfo
	Packets     []ports.Packet
	cursor      int

	OpenCalls            []string
	CloseCalled          bool
	SeekNearestSyncCalls int
}

func NewContainer() *Container {
	return &Container{}
}

func (m *Container) Open(path string) error {
	m.OpenCalls = append(m.OpenCalls, path)
	if m.OpenFunc != nil {
		return m.OpenFunc(path)
	}
	return nil
}

func (m *Container) Streams() []ports.StreamInfo {
	if m.StreamsFunc != nil {
		return m.StreamsFunc()
	}
	return m.StreamInfos
}

// SeekNearestSync walks Packets backward from targetFrame looking for the
// nearest IsSync packet belonging to streamIndex, the same contract
// mp4container.Container.SeekNearestSync implements over real sample
// tables.
func (m *Container) SeekNearestSync(streamIndex, targetFrame int) (int, error) {
	m.SeekNearestSyncCalls++
	if m.SeekNearestSyncFunc != nil {
		landed, err := m.SeekNearestSyncFunc(streamIndex, targetFrame)
		if err == nil {
			m.cursor = landed
		}
		return landed, err
	}
	idx := targetFrame
	if idx >= len(m.Packets) {
		idx = len(m.Packets) - 1
	}
	landed := 0
	for i := idx; i >= 0; i-- {
		if m.Packets[i].StreamIndex == streamIndex && m.Packets[i].IsSync {
			landed = i
			break
		}
	}
	m.cursor = landed
	return landed, nil
}

func (m *Container) ReadPacket() (ports.Packet, error) {
	if m.ReadPacketFunc != nil {
		return m.ReadPacketFunc()
	}
	if m.cursor >= len(m.Packets) {
		return ports.Packet{}, ports.ErrEOF
	}
	p := m.Packets[m.cursor]
	m.cursor++
	return p, nil
}

func (m *Container) FrameCount(streamIndex int) (int64, int64) {
	if m.FrameCountFunc != nil {
		return m.FrameCountFunc(streamIndex)
	}
	return 0, int64(len(m.Packets))
}

func (m *Container) Close() error {
	m.CloseCalled = true
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

var _ ports.Container = (*Container)(nil)
