package ber

import (
	"bytes"
	"errors"
	"testing"
)

func TestCursor_PeekTag(t *testing.T) {
	dec := NewDecoder([]byte{0x30, 0x03, 0x02, 0x01, 0x05})

	for i := 0; i < 2; i++ {
		tag, n, err := dec.PeekTag()
		if err != nil {
			t.Fatalf("PeekTag failed: %v", err)
		}
		if tag != TagSequence || n != 3 {
			t.Errorf("expected SEQUENCE of 3, got %s of %d", tag, n)
		}
		if dec.Offset() != 0 {
			t.Errorf("expected offset 0, got %d", dec.Offset())
		}
		if dec.LastTag() != TagDefault {
			t.Errorf("expected tag cache untouched, got %s", dec.LastTag())
		}
	}

	if _, _, err := dec.SkipTag(); err != nil {
		t.Fatalf("SkipTag failed: %v", err)
	}
	if dec.Offset() != 2 || dec.LastTag() != TagSequence {
		t.Errorf("expected offset 2 after SEQUENCE, got %d after %s", dec.Offset(), dec.LastTag())
	}

	tag, _, err := dec.PeekTag()
	if err != nil {
		t.Fatalf("PeekTag failed: %v", err)
	}
	if tag != TagInteger {
		t.Errorf("expected INTEGER, got %s", tag)
	}
	if dec.LastTag() != TagSequence {
		t.Errorf("expected PeekTag to keep LastTag SEQUENCE, got %s", dec.LastTag())
	}
}

func TestCursor_Skip(t *testing.T) {
	dec := NewDecoder([]byte{0x30, 0x03, 0x02, 0x01, 0x05, 0x05, 0x00})
	tag, err := dec.Skip()
	if err != nil {
		t.Fatalf("Skip failed: %v", err)
	}
	if tag != TagSequence || dec.Offset() != 5 {
		t.Errorf("expected SEQUENCE skipped to offset 5, got %s at %d", tag, dec.Offset())
	}
	if err := dec.ReadNull(); err != nil {
		t.Errorf("ReadNull after Skip failed: %v", err)
	}

	dec = NewDecoder([]byte{0x30, 0x05, 0x02})
	if _, err := dec.Skip(); KindOf(err) != KindTruncated {
		t.Errorf("expected Truncated error, got %v", err)
	}
}

func TestElements_Nested(t *testing.T) {
	data := encodeNested(t, Options{})
	dec := NewDecoder(data)

	tag, outerEnd, err := dec.FirstElement()
	if err != nil {
		t.Fatalf("FirstElement failed: %v", err)
	}
	if tag != TagSet || outerEnd != len(data) {
		t.Fatalf("expected SET ending at %d, got %s ending at %d", len(data), tag, outerEnd)
	}

	tag, innerEnd, err := dec.FirstElement()
	if err != nil {
		t.Fatalf("FirstElement failed: %v", err)
	}
	if tag != TagInteger {
		t.Fatalf("expected INTEGER, got %s", tag)
	}
	if v, err := dec.ReadInteger(); err != nil || v != 1 {
		t.Errorf("expected 1, got %d, %v", v, err)
	}

	tag, err = dec.NextElement(innerEnd)
	if err != nil {
		t.Fatalf("NextElement failed: %v", err)
	}
	if tag != TagOctetString {
		t.Fatalf("expected OCTET STRING, got %s", tag)
	}
	v, err := dec.ReadView()
	if err != nil {
		t.Fatalf("ReadView failed: %v", err)
	}
	b, _ := v.Bytes()
	if !bytes.Equal(b, []byte("ab")) {
		t.Errorf("expected ab, got %q", b)
	}

	if _, err := dec.NextElement(innerEnd); !errors.Is(err, ErrNoElements) {
		t.Errorf("expected ErrNoElements in SET, got %v", err)
	}
	_, err = dec.NextElement(outerEnd)
	if !errors.Is(err, ErrNoElements) {
		t.Errorf("expected ErrNoElements in SEQUENCE, got %v", err)
	}
	if KindOf(err) != KindInvalidValue {
		t.Errorf("expected InvalidValue kind like FirstElement, got %v", KindOf(err))
	}
}

func TestFirstElement_Empty(t *testing.T) {
	dec := NewDecoder([]byte{0x30, 0x00, 0x05, 0x00})
	_, end, err := dec.FirstElement()
	if !errors.Is(err, ErrNoElements) || KindOf(err) != KindInvalidValue {
		t.Fatalf("expected ErrNoElements, got %v", err)
	}
	if end != 2 || dec.Offset() != 2 {
		t.Errorf("expected empty aggregate consumed to 2, got end %d offset %d", end, dec.Offset())
	}
	if err := dec.ReadNull(); err != nil {
		t.Errorf("ReadNull after empty aggregate failed: %v", err)
	}
}

func TestFirstElement_Overrun(t *testing.T) {
	// The INTEGER fits the input but not its SEQUENCE.
	dec := NewDecoder([]byte{0x30, 0x02, 0x02, 0x01, 0x05})
	_, _, err := dec.FirstElement()
	if KindOf(err) != KindInvalidValue {
		t.Fatalf("expected InvalidValue error, got %v", err)
	}
	if dec.Offset() != 0 || dec.LastTag() != TagDefault {
		t.Errorf("expected cursor restored, got offset %d tag %s", dec.Offset(), dec.LastTag())
	}
}

func TestNextElement_Overrun(t *testing.T) {
	dec := NewDecoder([]byte{0x30, 0x04, 0x05, 0x00, 0x02, 0x01, 0x05})
	_, end, err := dec.FirstElement()
	if err != nil {
		t.Fatalf("FirstElement failed: %v", err)
	}
	if err := dec.ReadNull(); err != nil {
		t.Fatalf("ReadNull failed: %v", err)
	}
	if _, err := dec.NextElement(end); KindOf(err) != KindInvalidValue {
		t.Errorf("expected InvalidValue error, got %v", err)
	}
	if dec.Offset() != 4 {
		t.Errorf("expected offset 4, got %d", dec.Offset())
	}
}
