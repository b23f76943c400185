package mocks

import "github.com/yazici/openfx-io/pkg/ports"

// ConverterCache is a mock implementation of ports.ConverterCache.
type ConverterCache struct {
	GetConverterFunc       func(req ports.ConverterRequest) (ports.Converter, error)
	InvalidateOverrideFunc func()

	Requests            []ports.ConverterRequest
	InvalidateCallCount int
}

func NewConverterCache() *ConverterCache {
	return &ConverterCache{}
}

func (m *ConverterCache) GetConverter(req ports.ConverterRequest) (ports.Converter, error) {
	m.Requests = append(m.Requests, req)
	if m.GetConverterFunc != nil {
		return m.GetConverterFunc(req)
	}
	return &Converter{}, nil
}

func (m *ConverterCache) InvalidateOverride() {
	m.InvalidateCallCount++
	if m.InvalidateOverrideFunc != nil {
		m.InvalidateOverrideFunc()
	}
}

var _ ports.ConverterCache = (*ConverterCache)(nil)

// Converter is a mock implementation of ports.Converter.
type Converter struct {
	ConvertFunc  func(frame ports.DecodedFrame, dst []byte) error
	ConvertCalls int
}

func (m *Converter) Convert(frame ports.DecodedFrame, dst []byte) error {
	m.ConvertCalls++
	if m.ConvertFunc != nil {
		return m.ConvertFunc(frame, dst)
	}
	return nil
}

var _ ports.Converter = (*Converter)(nil)
