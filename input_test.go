package pcgbreaker

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"
	"testing"
)

func TestOutputReader_LineMode_HexAndDecimal(t *testing.T) {
	r := NewLineReader(strings.NewReader("0x5FAAB311\n1600198417\n\n0X00000001\n"))

	want := []uint32{0x5FAAB311, 1600198417, 1}
	for i, w := range want {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("Next() #%d: %v", i, err)
		}
		if got != w {
			t.Fatalf("Next() #%d = %#x, want %#x", i, got, w)
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("Next() at end = %v, want io.EOF", err)
	}
}

func TestOutputReader_LineMode_RejectsMalformedToken(t *testing.T) {
	r := NewLineReader(strings.NewReader("not-a-number\n"))
	_, err := r.Next()
	assertBreakerErrorKind(t, err, KindMalformedInput)
}

func TestOutputReader_BinaryMode_NativeAndBigEndian(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(0x5FAAB311))

	r := NewBinaryReader(&buf, NativeEndian)
	got, err := r.Next()
	if err != nil {
		t.Fatalf("Next(): %v", err)
	}
	if got != 0x5FAAB311 {
		t.Fatalf("Next() = %#x, want 0x5FAAB311", got)
	}

	var bigBuf bytes.Buffer
	binary.Write(&bigBuf, binary.BigEndian, uint32(0x5FAAB311))
	r2 := NewBinaryReader(&bigBuf, BigEndian)
	got2, err := r2.Next()
	if err != nil {
		t.Fatalf("Next(): %v", err)
	}
	if got2 != 0x5FAAB311 {
		t.Fatalf("Next() = %#x, want 0x5FAAB311", got2)
	}
}

func TestOutputReader_BinaryMode_RejectsTruncatedWord(t *testing.T) {
	r := NewBinaryReader(bytes.NewReader([]byte{0x01, 0x02}), NativeEndian)
	_, err := r.Next()
	assertBreakerErrorKind(t, err, KindMalformedInput)
}

func TestOutputReader_BinaryMode_EOFAtWordBoundary(t *testing.T) {
	r := NewBinaryReader(bytes.NewReader(nil), NativeEndian)
	_, err := r.Next()
	if err != io.EOF {
		t.Fatalf("Next() at clean EOF = %v, want io.EOF", err)
	}
}
