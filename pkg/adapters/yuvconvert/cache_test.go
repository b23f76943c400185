package yuvconvert

import (
	"testing"

	"github.com/yazici/openfx-io/pkg/ports"
)

func TestCacheReusesConverterForSameRequest(t *testing.T) {
	c := New()
	req := baseRequest(ports.PixFmtRGB24, ports.PixFmtPackedRGB8, 4, 4)

	first, err := c.GetConverter(req)
	if err != nil {
		t.Fatalf("GetConverter: %v", err)
	}
	second, err := c.GetConverter(req)
	if err != nil {
		t.Fatalf("GetConverter: %v", err)
	}
	if first != second {
		t.Fatalf("expected the same cached converter instance for an unchanged request")
	}
}

func TestCacheRebuildsOnRequestChange(t *testing.T) {
	c := New()
	req1 := baseRequest(ports.PixFmtRGB24, ports.PixFmtPackedRGB8, 4, 4)
	req2 := baseRequest(ports.PixFmtRGB24, ports.PixFmtPackedRGB8, 8, 8)

	first, err := c.GetConverter(req1)
	if err != nil {
		t.Fatalf("GetConverter: %v", err)
	}
	second, err := c.GetConverter(req2)
	if err != nil {
		t.Fatalf("GetConverter: %v", err)
	}
	if first == second {
		t.Fatalf("expected a rebuilt converter after the request tuple changed")
	}
}

func TestCacheInvalidateOverrideForcesRebuild(t *testing.T) {
	c := New()
	req := baseRequest(ports.PixFmtYUV420P, ports.PixFmtPackedRGB8, 4, 4)

	first, err := c.GetConverter(req)
	if err != nil {
		t.Fatalf("GetConverter: %v", err)
	}
	c.InvalidateOverride()
	second, err := c.GetConverter(req)
	if err != nil {
		t.Fatalf("GetConverter: %v", err)
	}
	if first == second {
		t.Fatalf("expected InvalidateOverride to force a rebuild even for the same request")
	}
}

func TestCacheSetOverrideChangesMatrixSelection(t *testing.T) {
	c := New()
	req := baseRequest(ports.PixFmtYUV420P, ports.PixFmtPackedRGB8, 2, 2)

	c.SetOverride(ports.OverrideRec709)
	conv, err := c.GetConverter(req)
	if err != nil {
		t.Fatalf("GetConverter: %v", err)
	}
	built := conv.(*converter)
	if built.matrix != coeffsRec709 {
		t.Fatalf("expected Rec.709 matrix after SetOverride, got %+v", built.matrix)
	}
}

func TestGetConverterFailureDoesNotCacheHalfBuiltState(t *testing.T) {
	c := New()
	bad := baseRequest(ports.PixFmtYUV420P10LE, ports.PixFmtPackedRGB8, 2, 2)
	if _, err := c.GetConverter(bad); err == nil {
		t.Fatalf("expected an error for an unsupported source format")
	}

	good := baseRequest(ports.PixFmtRGB24, ports.PixFmtPackedRGB8, 2, 2)
	if _, err := c.GetConverter(good); err != nil {
		t.Fatalf("GetConverter after a prior failure should still succeed: %v", err)
	}
}
