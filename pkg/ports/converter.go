package ports

// Converter performs one configured colorspace-and-scale conversion from a
// decoded native-format frame into a packed output buffer.
type Converter interface {
	// Convert writes frame into dst, which must be exactly large enough
	// for the converter's configured output format and size.
	Convert(frame DecodedFrame, dst []byte) error
}

// ConverterRequest is the full set of parameters that identify a distinct
// converter configuration; the cache rebuilds only when this changes.
type ConverterRequest struct {
	SrcFormat      PixelFormat
	SrcWidth       int
	SrcHeight      int
	SrcRange       ColorRange
	SrcIsRec709    bool
	DstFormat      PixelFormat
	DstWidth       int
	DstHeight      int
	MatrixOverride ColorMatrixOverride
}

// ConverterCache lazily builds and caches a Converter for a given request,
// rebuilding only when the request tuple changes or the color-matrix
// override is flipped.
type ConverterCache interface {
	// GetConverter returns a converter for req, reusing the cached one
	// when the request and override are unchanged since the last call.
	GetConverter(req ConverterRequest) (Converter, error)

	// InvalidateOverride marks the cache dirty because the caller has
	// changed the color-matrix override since the last GetConverter call.
	InvalidateOverride()
}
