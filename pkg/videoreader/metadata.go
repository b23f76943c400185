package videoreader

import "strings"

// GetInfo implements ports.VideoReader.GetInfo.
func (r *Reader) GetInfo(streamIndex int) (width, height int, aspect float64, frames int, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	desc := r.streamAt(streamIndex)
	if desc == nil {
		return 0, 0, 0, 0, false
	}
	return desc.width, desc.height, desc.aspect, int(desc.totalFrames), true
}

// GetFPS implements ports.VideoReader.GetFPS.
func (r *Reader) GetFPS(streamIndex int) (fpsNum, fpsDen int, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	desc := r.streamAt(streamIndex)
	if desc == nil {
		return 0, 0, false
	}
	return desc.fpsNum, desc.fpsDen, true
}

// GetColorspace resolves the working colorspace name from stream 0's
// metadata: an explicit Foundry tag wins, then camera color-gamma
// metadata, falling back to a gamma guess based on the native pixel
// format family.
func (r *Reader) GetColorspace() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	desc := r.streamAt(0)
	if desc == nil {
		return ""
	}
	if v, ok := lookupCaseInsensitive(desc.metadata, "Foundry colorspace"); ok {
		return v
	}
	if v, ok := lookupCaseInsensitive(desc.metadata, "Arri color gamma"); ok {
		switch {
		case strings.HasPrefix(v, "LOG-C"):
			return "AlexaV3LogC"
		case strings.HasPrefix(v, "REC-709"):
			return "rec709"
		}
	}
	if desc.nativeFmt.IsRGBFamily() {
		return "Gamma1.8"
	}
	return "Gamma2.2"
}

func lookupCaseInsensitive(m map[string]string, key string) (string, bool) {
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

func (r *Reader) GetBitDepth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if desc := r.streamAt(0); desc != nil {
		return desc.bitDepth
	}
	return 0
}

func (r *Reader) GetNumComponents() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if desc := r.streamAt(0); desc != nil {
		return desc.numComponents
	}
	return 0
}

func (r *Reader) GetRowSize() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if desc := r.streamAt(0); desc != nil {
		return desc.rowSize()
	}
	return 0
}

func (r *Reader) GetBufferSize() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.outputBuffer)
}

func (r *Reader) GetData() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outputBuffer
}

// streamAt returns the descriptor for streamIndex, or nil if unregistered;
// index 0 always resolves to the first registered stream, whatever its
// container index. Callers must hold r.mu.
func (r *Reader) streamAt(streamIndex int) *streamDescriptor {
	for _, d := range r.streams {
		if d.index == streamIndex {
			return d
		}
	}
	if streamIndex == 0 && len(r.streams) > 0 {
		return r.streams[0]
	}
	return nil
}
