package ber

import (
	"bytes"
	"math"
	"testing"
)

func TestIntegerSize(t *testing.T) {
	tests := []struct {
		value    int64
		expected int
	}{
		{0, 1},
		{1, 1},
		{-1, 1},
		{127, 1},
		{128, 2},
		{-128, 1},
		{-129, 2},
		{255, 2},
		{256, 2},
		{32767, 2},
		{32768, 3},
		{-32768, 2},
		{-32769, 3},
		{math.MaxInt32, 4},
		{math.MinInt32, 4},
		{math.MaxInt64, 8},
		{math.MinInt64, 8},
	}

	for _, tt := range tests {
		if got := IntegerSize(tt.value); got != tt.expected {
			t.Errorf("IntegerSize(%d): expected %d, got %d", tt.value, tt.expected, got)
		}
	}
}

func TestCursor_WriteInteger(t *testing.T) {
	tests := []struct {
		name     string
		value    int64
		expected []byte
	}{
		{"zero", 0, []byte{0x02, 0x01, 0x00}},
		{"one", 1, []byte{0x02, 0x01, 0x01}},
		{"minus one", -1, []byte{0x02, 0x01, 0xFF}},
		{"127", 127, []byte{0x02, 0x01, 0x7F}},
		{"128", 128, []byte{0x02, 0x02, 0x00, 0x80}},
		{"-128", -128, []byte{0x02, 0x01, 0x80}},
		{"-129", -129, []byte{0x02, 0x02, 0xFF, 0x7F}},
		{"256", 256, []byte{0x02, 0x02, 0x01, 0x00}},
		{"max int64", math.MaxInt64, []byte{0x02, 0x08, 0x7F, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
		{"min int64", math.MinInt64, []byte{0x02, 0x08, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := NewEncoder(0)
			if err := enc.WriteInteger(TagDefault, tt.value); err != nil {
				t.Fatalf("WriteInteger failed: %v", err)
			}
			if !bytes.Equal(enc.Bytes(), tt.expected) {
				t.Errorf("expected %x, got %x", tt.expected, enc.Bytes())
			}

			dec := NewDecoder(enc.Bytes())
			got, err := dec.ReadInteger()
			if err != nil {
				t.Fatalf("ReadInteger failed: %v", err)
			}
			if got != tt.value {
				t.Errorf("round trip: expected %d, got %d", tt.value, got)
			}
			if dec.LastTag() != TagInteger {
				t.Errorf("expected LastTag INTEGER, got %s", dec.LastTag())
			}
			if dec.Remaining() != 0 {
				t.Errorf("expected all input consumed, %d left", dec.Remaining())
			}
		})
	}
}

// TestInteger_Minimal checks that no encoding carries a leading octet that
// only repeats the sign of the next one.
func TestInteger_Minimal(t *testing.T) {
	values := []int64{math.MinInt64, math.MaxInt64}
	for v := int64(-70000); v <= 70000; v += 7 {
		values = append(values, v)
	}
	for shift := 0; shift < 63; shift++ {
		values = append(values, 1<<shift, -(1 << shift), 1<<shift-1, -(1<<shift)-1)
	}

	for _, v := range values {
		enc := NewEncoder(0)
		if err := enc.WriteInteger(TagDefault, v); err != nil {
			t.Fatalf("WriteInteger(%d) failed: %v", v, err)
		}
		content := enc.Bytes()[2:]
		if len(content) != IntegerSize(v) {
			t.Fatalf("%d: expected %d content octets, got %d", v, IntegerSize(v), len(content))
		}
		if len(content) > 1 {
			redundantZero := content[0] == 0x00 && content[1]&0x80 == 0
			redundantOnes := content[0] == 0xFF && content[1]&0x80 != 0
			if redundantZero || redundantOnes {
				t.Fatalf("%d: encoding %x is not minimal", v, content)
			}
		}
		got, err := NewDecoder(enc.Bytes()).ReadInteger()
		if err != nil {
			t.Fatalf("ReadInteger(%x) failed: %v", enc.Bytes(), err)
		}
		if got != v {
			t.Fatalf("round trip: expected %d, got %d", v, got)
		}
	}
}

func TestCursor_WriteEnumerated(t *testing.T) {
	enc := NewEncoder(0)
	if err := enc.WriteEnumerated(TagDefault, 2); err != nil {
		t.Fatalf("WriteEnumerated failed: %v", err)
	}
	expected := []byte{0x0A, 0x01, 0x02}
	if !bytes.Equal(enc.Bytes(), expected) {
		t.Errorf("expected %x, got %x", expected, enc.Bytes())
	}

	dec := NewDecoder(enc.Bytes())
	got, err := dec.ReadEnumerated()
	if err != nil {
		t.Fatalf("ReadEnumerated failed: %v", err)
	}
	if got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if dec.LastTag() != TagEnumerated {
		t.Errorf("expected LastTag ENUMERATED, got %s", dec.LastTag())
	}
}

func TestCursor_WriteInteger_ExplicitTag(t *testing.T) {
	enc := NewEncoder(0)
	tag := NewTag(ClassContextSpecific, TypePrimitive, 1)
	if err := enc.WriteInteger(tag, 5); err != nil {
		t.Fatalf("WriteInteger failed: %v", err)
	}
	expected := []byte{0x81, 0x01, 0x05}
	if !bytes.Equal(enc.Bytes(), expected) {
		t.Errorf("expected %x, got %x", expected, enc.Bytes())
	}

	dec := NewDecoder(enc.Bytes())
	got, err := dec.ReadInteger()
	if err != nil {
		t.Fatalf("ReadInteger failed: %v", err)
	}
	if got != 5 || dec.LastTag() != tag {
		t.Errorf("expected 5 tagged %s, got %d tagged %s", tag, got, dec.LastTag())
	}
}

func TestCursor_ReadInteger_Errors(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		wantKind Kind
	}{
		{"zero length", []byte{0x02, 0x00}, KindInvalidValue},
		{"nine octets", []byte{0x02, 0x09, 0x01, 0, 0, 0, 0, 0, 0, 0, 0}, KindOverflow},
		{"truncated content", []byte{0x02, 0x02, 0x01}, KindTruncated},
		{"missing length", []byte{0x02}, KindMalformedLength},
		{"empty", []byte{}, KindMalformedTag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := NewDecoder(tt.data)
			_, err := dec.ReadInteger()
			if KindOf(err) != tt.wantKind {
				t.Fatalf("expected %s error, got %v", tt.wantKind, err)
			}
			if dec.Offset() != 0 {
				t.Errorf("expected nothing consumed, offset is %d", dec.Offset())
			}
			if dec.LastTag() != TagDefault {
				t.Errorf("expected tag cache untouched, got %s", dec.LastTag())
			}
		})
	}
}
