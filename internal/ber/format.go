package ber

import "fmt"

// EncodeItem is one step of an Encode call.
type EncodeItem interface {
	encode(c *Cursor, s *encodeState) error
}

// DecodeItem is one step of a Decode call. release undoes any allocation
// the step made and resets its output.
type DecodeItem interface {
	decode(c *Cursor, s *decodeState) error
	release()
}

// Item is a step usable in both Encode and Decode.
type Item interface {
	EncodeItem
	DecodeItem
}

type encodeState struct {
	tag Tag // override for the next value, TagDefault when unset
}

// take returns the pending tag override, or TagDefault, and clears it.
func (s *encodeState) take() Tag {
	t := s.tag
	s.tag = TagDefault
	return t
}

type decodeState struct {
	tag  Tag
	ends []int
}

// expect checks the next tag against a pending WithTag and clears it.
func (s *decodeState) expect(c *Cursor) error {
	want := s.tag
	if want == TagDefault {
		return nil
	}
	s.tag = TagDefault
	got, _, err := c.PeekTag()
	if err != nil {
		return err
	}
	if got != want {
		return &TagMismatchError{Offset: c.ptr, Expected: want, Actual: got}
	}
	return nil
}

type encodeFunc func(c *Cursor, s *encodeState) error

func (f encodeFunc) encode(c *Cursor, s *encodeState) error { return f(c, s) }

type decodeStep struct {
	run  func(c *Cursor, s *decodeState) error
	undo func()
}

func (d decodeStep) decode(c *Cursor, s *decodeState) error {
	if err := s.expect(c); err != nil {
		return err
	}
	return d.run(c, s)
}

func (d decodeStep) release() {
	if d.undo != nil {
		d.undo()
	}
}

// both is a step with an encode and a decode side. Its decode side does
// not consume a pending WithTag on its own.
type both struct {
	enc encodeFunc
	dec func(c *Cursor, s *decodeState) error
}

func (b both) encode(c *Cursor, s *encodeState) error { return b.enc(c, s) }
func (b both) decode(c *Cursor, s *decodeState) error { return b.dec(c, s) }
func (b both) release()                               {}

// Encode writes items in order. If a step fails, the encoder is put back
// to its state before the call: output written by the call is discarded,
// aggregates it opened are dropped and aggregates it closed are reopened.
func Encode(c *Cursor, items ...EncodeItem) error {
	if err := c.checkEncoding("Encode"); err != nil {
		return err
	}
	g := c.guard()
	s := encodeState{tag: TagDefault}
	for i, it := range items {
		if err := it.encode(c, &s); err != nil {
			c.unguard(g, true)
			return fmt.Errorf("encode item %d: %w", i, err)
		}
	}
	c.unguard(g, false)
	return nil
}

// Decode reads items in order. If a step fails, every output filled by
// earlier steps is released and reset, and the read position is restored.
func Decode(c *Cursor, items ...DecodeItem) error {
	if err := c.checkDecoding("Decode"); err != nil {
		return err
	}
	start, last := c.ptr, c.tag
	s := decodeState{tag: TagDefault}
	for i, it := range items {
		if err := it.decode(c, &s); err != nil {
			for j := i; j >= 0; j-- {
				items[j].release()
			}
			return c.fail(start, last, fmt.Errorf("decode item %d: %w", i, err))
		}
	}
	return nil
}

// WithTag makes the next value step use t instead of its default tag.
// When decoding, the next unit must carry t.
func WithTag(t Tag) Item {
	return both{
		enc: func(_ *Cursor, s *encodeState) error {
			s.tag = t
			return nil
		},
		dec: func(_ *Cursor, s *decodeState) error {
			s.tag = t
			return nil
		},
	}
}

// Sequence opens a SEQUENCE. When decoding it consumes the header of the
// next aggregate whatever its tag.
func Sequence() Item {
	return aggregate(TagSequence)
}

// Set opens a SET.
func Set() Item {
	return aggregate(TagSet)
}

func aggregate(def Tag) Item {
	return both{
		enc: func(c *Cursor, s *encodeState) error {
			return c.Begin(orDefault(s.take(), def))
		},
		dec: func(c *Cursor, s *decodeState) error {
			if err := s.expect(c); err != nil {
				return err
			}
			_, n, err := c.SkipTag()
			if err != nil {
				return err
			}
			s.ends = append(s.ends, c.ptr+n)
			return nil
		},
	}
}

// End closes the innermost Sequence or Set. When decoding, members left
// unread are skipped.
func End() Item {
	return both{
		enc: func(c *Cursor, _ *encodeState) error {
			return c.End()
		},
		dec: func(c *Cursor, s *decodeState) error {
			k := len(s.ends)
			if k == 0 {
				return newError(KindUsage, c.ptr, "End without an open aggregate", nil)
			}
			end := s.ends[k-1]
			s.ends = s.ends[:k-1]
			if c.ptr > end {
				return newError(KindInvalidValue, c.ptr, fmt.Sprintf("members overran their aggregate by %d octets", c.ptr-end), nil)
			}
			c.ptr = end
			return nil
		},
	}
}

// Hook calls fn with the cursor. It does not consume a pending WithTag.
func Hook(fn func(c *Cursor) error) Item {
	return both{
		enc: func(c *Cursor, _ *encodeState) error { return fn(c) },
		dec: func(c *Cursor, _ *decodeState) error { return fn(c) },
	}
}

// Bool writes a BOOLEAN.
func Bool(v bool) EncodeItem {
	return encodeFunc(func(c *Cursor, s *encodeState) error {
		return c.WriteBoolean(s.take(), v)
	})
}

// Int writes an INTEGER.
func Int(v int64) EncodeItem {
	return encodeFunc(func(c *Cursor, s *encodeState) error {
		return c.WriteInteger(s.take(), v)
	})
}

// Enum writes an ENUMERATED.
func Enum(v int64) EncodeItem {
	return encodeFunc(func(c *Cursor, s *encodeState) error {
		return c.WriteEnumerated(s.take(), v)
	})
}

// OctetString writes an OCTET STRING.
func OctetString(b []byte) EncodeItem {
	return encodeFunc(func(c *Cursor, s *encodeState) error {
		return c.WriteOctetString(s.take(), b)
	})
}

// String writes s as an OCTET STRING.
func String(v string) EncodeItem {
	return encodeFunc(func(c *Cursor, s *encodeState) error {
		return c.WriteString(s.take(), v)
	})
}

// BitString writes the first bits bits of b as a BIT STRING.
func BitString(b []byte, bits int) EncodeItem {
	return encodeFunc(func(c *Cursor, s *encodeState) error {
		return c.WriteBitString(s.take(), b, bits)
	})
}

// Null writes a NULL.
func Null() EncodeItem {
	return encodeFunc(func(c *Cursor, s *encodeState) error {
		return c.WriteNull(s.take())
	})
}

// OID writes a dotted object identifier.
func OID(oid string) EncodeItem {
	return encodeFunc(func(c *Cursor, s *encodeState) error {
		return c.WriteOID(s.take(), oid)
	})
}

// Strings writes each string as an OCTET STRING. A pending WithTag applies
// to all of them.
func Strings(ss []string) EncodeItem {
	return encodeFunc(func(c *Cursor, s *encodeState) error {
		t := s.take()
		for _, v := range ss {
			if err := c.WriteString(t, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Values writes each byte slice as an OCTET STRING.
func Values(vs [][]byte) EncodeItem {
	return encodeFunc(func(c *Cursor, s *encodeState) error {
		t := s.take()
		for _, v := range vs {
			if err := c.WriteOctetString(t, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Raw writes pre-encoded units verbatim. It does not consume a pending WithTag.
func Raw(b []byte) EncodeItem {
	return encodeFunc(func(c *Cursor, _ *encodeState) error {
		return c.WriteRaw(b)
	})
}

// ScanBool reads a BOOLEAN into dst.
func ScanBool(dst *bool) DecodeItem {
	return decodeStep{run: func(c *Cursor, _ *decodeState) (err error) {
		*dst, err = c.ReadBoolean()
		return err
	}}
}

// ScanInt reads an INTEGER into dst.
func ScanInt(dst *int64) DecodeItem {
	return decodeStep{run: func(c *Cursor, _ *decodeState) (err error) {
		*dst, err = c.ReadInteger()
		return err
	}}
}

// ScanEnum reads an ENUMERATED into dst.
func ScanEnum(dst *int64) DecodeItem {
	return decodeStep{run: func(c *Cursor, _ *decodeState) (err error) {
		*dst, err = c.ReadEnumerated()
		return err
	}}
}

// ScanOctetString reads an owned copy of an OCTET STRING into dst.
func ScanOctetString(dst *Value, opts StringOption) DecodeItem {
	return decodeStep{
		run: func(c *Cursor, _ *decodeState) (err error) {
			*dst, err = c.ReadOctetString(opts)
			return err
		},
		undo: dst.Release,
	}
}

// ScanString reads an OCTET STRING into dst as a Go string.
func ScanString(dst *string) DecodeItem {
	return decodeStep{
		run: func(c *Cursor, _ *decodeState) (err error) {
			*dst, err = c.ReadString()
			return err
		},
		undo: func() { *dst = "" },
	}
}

// ScanView reads a borrowed view of an OCTET STRING into dst.
func ScanView(dst *View) DecodeItem {
	return decodeStep{
		run: func(c *Cursor, _ *decodeState) (err error) {
			*dst, err = c.ReadView()
			return err
		},
		undo: func() { *dst = View{} },
	}
}

// ScanBitString reads a BIT STRING into dst and its bit count into bits.
func ScanBitString(dst *Value, bits *int) DecodeItem {
	return decodeStep{
		run: func(c *Cursor, _ *decodeState) (err error) {
			*dst, *bits, err = c.ReadBitString()
			return err
		},
		undo: func() {
			dst.Release()
			*bits = 0
		},
	}
}

// ScanNull reads a NULL.
func ScanNull() DecodeItem {
	return decodeStep{run: func(c *Cursor, _ *decodeState) error {
		return c.ReadNull()
	}}
}

// ScanOID reads an OBJECT IDENTIFIER into dst in dotted form.
func ScanOID(dst *string) DecodeItem {
	return decodeStep{
		run: func(c *Cursor, _ *decodeState) (err error) {
			*dst, err = c.ReadOID()
			return err
		},
		undo: func() { *dst = "" },
	}
}

// ScanTag stores the tag of the next unit in dst without consuming it.
func ScanTag(dst *Tag) DecodeItem {
	return decodeStep{run: func(c *Cursor, _ *decodeState) (err error) {
		*dst, _, err = c.PeekTag()
		return err
	}}
}

// ScanLen consumes the header of the next unit and stores its content
// length in dst.
func ScanLen(dst *int) DecodeItem {
	return decodeStep{run: func(c *Cursor, _ *decodeState) (err error) {
		_, *dst, err = c.SkipTag()
		return err
	}}
}

// Skip consumes the next unit.
func Skip() DecodeItem {
	return decodeStep{run: func(c *Cursor, _ *decodeState) error {
		_, err := c.Skip()
		return err
	}}
}

// ScanStrings reads an aggregate of strings into dst.
func ScanStrings(dst *[]string) DecodeItem {
	return decodeStep{
		run: func(c *Cursor, _ *decodeState) (err error) {
			*dst, err = c.ReadStrings()
			return err
		},
		undo: func() { *dst = nil },
	}
}

// ScanValues reads an aggregate of octet strings into owned Values.
func ScanValues(dst *[]Value, opts StringOption) DecodeItem {
	return decodeStep{
		run: func(c *Cursor, _ *decodeState) (err error) {
			*dst, err = c.ReadValues(opts)
			return err
		},
		undo: func() {
			ReleaseValues(*dst)
			*dst = nil
		},
	}
}

// ScanMembers reads an aggregate of octet strings into records, storing
// each member at field.
func ScanMembers[T any](dst *[]T, opts StringOption, field func(*T) *Value) DecodeItem {
	return decodeStep{
		run: func(c *Cursor, _ *decodeState) (err error) {
			*dst, err = ReadMembers(c, opts, field)
			return err
		},
		undo: func() {
			for i := range *dst {
				field(&(*dst)[i]).Release()
			}
			*dst = nil
		},
	}
}
