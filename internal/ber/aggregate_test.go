package ber

import (
	"bytes"
	"errors"
	"testing"
)

func TestSequence_SingleInteger(t *testing.T) {
	enc := NewEncoder(0)
	if err := enc.BeginSequence(TagDefault); err != nil {
		t.Fatalf("BeginSequence failed: %v", err)
	}
	if enc.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", enc.Depth())
	}
	if err := enc.WriteInteger(TagDefault, 5); err != nil {
		t.Fatalf("WriteInteger failed: %v", err)
	}
	if enc.Len() != 0 {
		t.Errorf("expected nothing committed while open, got %d bytes", enc.Len())
	}
	if err := enc.End(); err != nil {
		t.Fatalf("End failed: %v", err)
	}

	expected := []byte{0x30, 0x03, 0x02, 0x01, 0x05}
	if !bytes.Equal(enc.Bytes(), expected) {
		t.Errorf("expected %x, got %x", expected, enc.Bytes())
	}
	if enc.Depth() != 0 {
		t.Errorf("expected depth 0, got %d", enc.Depth())
	}
}

func TestSequence_Empty(t *testing.T) {
	enc := NewEncoder(0)
	if err := enc.BeginSequence(TagDefault); err != nil {
		t.Fatalf("BeginSequence failed: %v", err)
	}
	if err := enc.End(); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if !bytes.Equal(enc.Bytes(), []byte{0x30, 0x00}) {
		t.Errorf("expected 3000, got %x", enc.Bytes())
	}
}

// encodeNested writes SEQUENCE { SET { INTEGER 1, OCTET STRING "ab" } }.
func encodeNested(t *testing.T, opts Options) []byte {
	t.Helper()
	enc, err := NewEncoderWithOptions(opts)
	if err != nil {
		t.Fatalf("NewEncoderWithOptions failed: %v", err)
	}
	steps := []func() error{
		func() error { return enc.BeginSequence(TagDefault) },
		func() error { return enc.BeginSet(TagDefault) },
		func() error { return enc.WriteInteger(TagDefault, 1) },
		func() error { return enc.WriteString(TagDefault, "ab") },
		enc.End,
		enc.End,
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}
	out, err := enc.Flatten()
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}
	return out
}

func TestSequence_Nested(t *testing.T) {
	got := encodeNested(t, Options{})
	expected := []byte{
		0x30, 0x09,
		0x31, 0x07,
		0x02, 0x01, 0x01,
		0x04, 0x02, 'a', 'b',
	}
	if !bytes.Equal(got, expected) {
		t.Errorf("expected %x, got %x", expected, got)
	}
}

func TestSequence_LegacyMode(t *testing.T) {
	t.Run("single integer", func(t *testing.T) {
		enc, err := NewEncoderWithOptions(Options{Mode: ModeLegacy})
		if err != nil {
			t.Fatalf("NewEncoderWithOptions failed: %v", err)
		}
		if err := Encode(enc, Sequence(), Int(5), End()); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		expected := []byte{0x30, 0x84, 0x00, 0x00, 0x00, 0x03, 0x02, 0x01, 0x05}
		if !bytes.Equal(enc.Bytes(), expected) {
			t.Errorf("expected %x, got %x", expected, enc.Bytes())
		}
	})

	t.Run("nested", func(t *testing.T) {
		got := encodeNested(t, Options{Mode: ModeLegacy})
		expected := []byte{
			0x30, 0x84, 0x00, 0x00, 0x00, 0x0D,
			0x31, 0x84, 0x00, 0x00, 0x00, 0x07,
			0x02, 0x01, 0x01,
			0x04, 0x02, 'a', 'b',
		}
		if !bytes.Equal(got, expected) {
			t.Errorf("expected %x, got %x", expected, got)
		}

		// Both forms decode to the same members.
		dec := NewDecoder(got)
		if _, _, err := dec.FirstElement(); err != nil {
			t.Fatalf("FirstElement failed: %v", err)
		}
		if _, _, err := dec.FirstElement(); err != nil {
			t.Fatalf("FirstElement failed: %v", err)
		}
		if v, err := dec.ReadInteger(); err != nil || v != 1 {
			t.Errorf("expected 1, got %d, %v", v, err)
		}
	})
}

func TestSequence_LongContent(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		expected []byte // header of the outer sequence
	}{
		{"one length octet", 200, []byte{0x30, 0x81, 0xCB}},
		{"three length octets", 70000, []byte{0x30, 0x83, 0x01, 0x11, 0x75}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := bytes.Repeat([]byte{'x'}, tt.size)
			enc := NewEncoder(16)
			if err := Encode(enc, Sequence(), OctetString(content), End()); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			out := enc.Bytes()
			if !bytes.Equal(out[:len(tt.expected)], tt.expected) {
				t.Errorf("expected header %x, got %x", tt.expected, out[:len(tt.expected)])
			}

			dec := NewDecoder(out)
			if _, _, err := dec.FirstElement(); err != nil {
				t.Fatalf("FirstElement failed: %v", err)
			}
			v, err := dec.ReadView()
			if err != nil {
				t.Fatalf("ReadView failed: %v", err)
			}
			b, _ := v.Bytes()
			if !bytes.Equal(b, content) {
				t.Error("content did not survive the body move")
			}
		})
	}
}

func TestSequence_TaggedAggregates(t *testing.T) {
	enc := NewEncoder(0)
	err := Encode(enc,
		WithTag(NewTag(ClassApplication, TypeConstructed, 100)),
		Sequence(),
		WithTag(NewTag(ClassContextSpecific, TypeConstructed, 0)),
		Set(),
		Int(1),
		End(),
		End(),
	)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	expected := []byte{0x7F, 0x64, 0x05, 0xA0, 0x03, 0x02, 0x01, 0x01}
	if !bytes.Equal(enc.Bytes(), expected) {
		t.Errorf("expected %x, got %x", expected, enc.Bytes())
	}
}

func TestSequence_Siblings(t *testing.T) {
	enc := NewEncoder(0)
	err := Encode(enc,
		Sequence(), Int(1), End(),
		Sequence(), Sequence(), End(), Bool(true), End(),
	)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	expected := []byte{
		0x30, 0x03, 0x02, 0x01, 0x01,
		0x30, 0x05, 0x30, 0x00, 0x01, 0x01, 0xFF,
	}
	if !bytes.Equal(enc.Bytes(), expected) {
		t.Errorf("expected %x, got %x", expected, enc.Bytes())
	}
}

func TestEnd_Errors(t *testing.T) {
	enc := NewEncoder(0)
	err := enc.End()
	if KindOf(err) != KindUsage || !errors.Is(err, ErrUsage) {
		t.Errorf("expected Usage error, got %v", err)
	}

	if err := enc.Begin(TagDefault); KindOf(err) != KindInvalidValue {
		t.Errorf("Begin(TagDefault): expected InvalidValue error, got %v", err)
	}
	if enc.Depth() != 0 {
		t.Errorf("expected no frame pushed, depth %d", enc.Depth())
	}

	dec := NewDecoder([]byte{0x30, 0x00})
	if err := dec.End(); KindOf(err) != KindUsage {
		t.Errorf("End on decoder: expected Usage error, got %v", err)
	}
}

func TestCursor_FreeWithOpenFrames(t *testing.T) {
	alloc := &TrackingAllocator{}
	enc, err := NewEncoderWithOptions(Options{Allocator: alloc})
	if err != nil {
		t.Fatalf("NewEncoderWithOptions failed: %v", err)
	}
	if err := enc.BeginSequence(TagDefault); err != nil {
		t.Fatalf("BeginSequence failed: %v", err)
	}
	if _, err := enc.Flatten(); KindOf(err) != KindUsage {
		t.Errorf("Flatten: expected Usage error, got %v", err)
	}

	err = enc.Free()
	if !errors.Is(err, ErrUsage) {
		t.Errorf("expected Usage error, got %v", err)
	}
	if alloc.Live() != 0 {
		t.Errorf("expected arena released anyway, %d live", alloc.Live())
	}
}

func TestEncoder_Growth(t *testing.T) {
	alloc := &TrackingAllocator{}
	enc, err := NewEncoderWithOptions(Options{Allocator: alloc, InitialSize: 8})
	if err != nil {
		t.Fatalf("NewEncoderWithOptions failed: %v", err)
	}

	if err := enc.BeginSequence(TagDefault); err != nil {
		t.Fatalf("BeginSequence failed: %v", err)
	}
	for i := 0; i < 1000; i++ {
		if err := enc.WriteInteger(TagDefault, int64(i)); err != nil {
			t.Fatalf("WriteInteger(%d) failed: %v", i, err)
		}
	}
	if err := enc.End(); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if alloc.Calls() < 2 {
		t.Errorf("expected the arena to grow, %d allocations", alloc.Calls())
	}
	if alloc.Live() != 1 {
		t.Errorf("expected only the current arena live, got %d", alloc.Live())
	}

	dec := NewDecoder(enc.Bytes())
	_, end, err := dec.FirstElement()
	if err != nil {
		t.Fatalf("FirstElement failed: %v", err)
	}
	for i := 0; ; i++ {
		v, err := dec.ReadInteger()
		if err != nil {
			t.Fatalf("ReadInteger(%d) failed: %v", i, err)
		}
		if v != int64(i) {
			t.Fatalf("expected %d, got %d", i, v)
		}
		if _, err := dec.NextElement(end); errors.Is(err, ErrNoElements) {
			if i != 999 {
				t.Errorf("expected 1000 members, got %d", i+1)
			}
			break
		}
	}

	if err := enc.Free(); err != nil {
		t.Fatalf("Free failed: %v", err)
	}
	if alloc.Live() != 0 {
		t.Errorf("expected nothing live after Free, got %d", alloc.Live())
	}
}

func TestEncoder_GrowthFailure(t *testing.T) {
	alloc := &TrackingAllocator{FailAfter: 1}
	enc, err := NewEncoderWithOptions(Options{Allocator: alloc, InitialSize: 4})
	if err != nil {
		t.Fatalf("NewEncoderWithOptions failed: %v", err)
	}
	if err := enc.WriteNull(TagDefault); err != nil {
		t.Fatalf("WriteNull failed: %v", err)
	}

	err = enc.WriteOctetString(TagDefault, make([]byte, 100))
	if KindOf(err) != KindResourceExhausted {
		t.Fatalf("expected ResourceExhausted error, got %v", err)
	}
	if !bytes.Equal(enc.Bytes(), []byte{0x05, 0x00}) {
		t.Errorf("expected earlier output intact, got %x", enc.Bytes())
	}
}
