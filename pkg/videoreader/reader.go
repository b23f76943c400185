// Package videoreader implements a frame-accurate random-access video
// reader: given a container path, it exposes a frame-indexed decode() call
// that seeks, resynchronizes, and recovers from decoder stalls as needed,
// converting each decoded picture into a packed RGB(A) buffer through a
// cached colorspace-aware scaler.
//
// The reader is built as a bidirectional, seekable consumer of
// ports.Container / ports.NativeDecoder, so the state machine below is
// exercised against pkg/mocks fakes without a real container or codec.
package videoreader

import (
	"runtime"
	"sync"

	"github.com/yazici/openfx-io/pkg/ports"
)

// Reader implements ports.VideoReader.
type Reader struct {
	mu sync.Mutex

	container  ports.Container
	decoder    ports.NativeDecoder
	converters ports.ConverterCache
	log        ports.Logger

	streams []*streamDescriptor

	outputBuffer []byte

	err     string
	invalid bool
}

// New opens path and constructs a reader. It never panics: an open failure
// or an empty path leaves the reader in an invalid state instead, safely
// destructible via Close even though it can never decode anything.
//
// container and decoder are unopened instances the reader will drive
// itself (mp4container.New(), ffmpegcodec.New(), or a pkg/mocks fake in
// tests); converters and log must be non-nil.
func New(path string, container ports.Container, decoder ports.NativeDecoder, converters ports.ConverterCache, log ports.Logger) *Reader {
	r := &Reader{
		container:  container,
		decoder:    decoder,
		converters: converters,
		log:        log.WithComponent("videoreader"),
	}
	if path == "" {
		r.invalid = true
		r.err = "empty filename"
		return r
	}
	if err := r.open(path); err != nil {
		r.invalid = true
		r.err = err.Error()
		r.log.Error("open failed: %s", err)
	}
	return r
}

func clampThreads(n int) int {
	if n < 1 {
		return 1
	}
	if n > 16 {
		return 16
	}
	return n
}

func hostCPUCount() int {
	return runtime.NumCPU()
}

func (r *Reader) GetError() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Reader) IsInvalid() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.invalid
}

func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log.Debug("closing reader")
	var firstErr error
	if r.decoder != nil {
		if err := r.decoder.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if r.container != nil {
		if err := r.container.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ ports.VideoReader = (*Reader)(nil)
