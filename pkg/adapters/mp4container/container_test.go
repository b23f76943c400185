package mp4container

import (
	"bytes"
	"testing"
)

func lengthPrefixed(nalus ...[]byte) []byte {
	var out []byte
	for _, n := range nalus {
		l := len(n)
		out = append(out, byte(l>>24), byte(l>>16), byte(l>>8), byte(l))
		out = append(out, n...)
	}
	return out
}

func TestAvccToAnnexBSingleNALU(t *testing.T) {
	nalu := []byte{0x65, 0xAA, 0xBB, 0xCC}
	in := lengthPrefixed(nalu)

	want := append([]byte{0, 0, 0, 1}, nalu...)
	got := avccToAnnexB(in)
	if !bytes.Equal(got, want) {
		t.Fatalf("avccToAnnexB(%x) = %x, want %x", in, got, want)
	}
}

func TestAvccToAnnexBMultipleNALUs(t *testing.T) {
	a := []byte{0x67, 0x01, 0x02}
	b := []byte{0x68, 0x03}
	in := lengthPrefixed(a, b)

	want := append(append([]byte{0, 0, 0, 1}, a...), append([]byte{0, 0, 0, 1}, b...)...)
	got := avccToAnnexB(in)
	if !bytes.Equal(got, want) {
		t.Fatalf("avccToAnnexB(%x) = %x, want %x", in, got, want)
	}
}

// AV1 OBU streams carry no AVCC length prefix; a leading byte sequence that
// doesn't decode to a plausible NALU length must pass through unchanged.
func TestAvccToAnnexBPassesThroughNonAVCCData(t *testing.T) {
	obu := []byte{0x0A, 0x0E, 0x00, 0x00, 0x00, 0x24, 0x4F}
	got := avccToAnnexB(obu)
	if !bytes.Equal(got, obu) {
		t.Fatalf("avccToAnnexB(%x) = %x, want unchanged", obu, got)
	}
}

func TestAvccToAnnexBShortInputPassesThrough(t *testing.T) {
	short := []byte{0x01, 0x02}
	got := avccToAnnexB(short)
	if !bytes.Equal(got, short) {
		t.Fatalf("avccToAnnexB(%x) = %x, want unchanged", short, got)
	}
}
