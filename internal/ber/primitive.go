package ber

import "fmt"

// StringOption controls how ReadOctetString materializes content.
type StringOption uint8

const (
	// StringNoEmpty returns a null Value for zero-length content instead
	// of an empty allocation.
	StringNoEmpty StringOption = 1 << iota
	// StringTerminate places a NUL octet after the content.
	StringTerminate
)

// WriteBoolean writes a BOOLEAN. True is encoded as 0xFF.
func (c *Cursor) WriteBoolean(t Tag, v bool) error {
	b := [1]byte{0x00}
	if v {
		b[0] = 0xFF
	}
	return c.writeUnit(orDefault(t, TagBoolean), b[:])
}

// ReadBoolean reads a unit with boolean content. Any nonzero content is true.
func (c *Cursor) ReadBoolean() (bool, error) {
	v, err := c.readInteger("boolean")
	return v != 0, err
}

// WriteNull writes a NULL.
func (c *Cursor) WriteNull(t Tag) error {
	return c.writeUnit(orDefault(t, TagNull))
}

// ReadNull reads a unit that must have zero-length content.
func (c *Cursor) ReadNull() error {
	start, last := c.ptr, c.tag
	tag, n, err := c.readHeader()
	if err != nil {
		return err
	}
	if n != 0 {
		return c.fail(start, last, newError(KindInvalidValue, start, fmt.Sprintf("null with %d content octets", n), nil))
	}
	c.trace("get", tag, start, c.ptr)
	return nil
}

// WriteOctetString writes an OCTET STRING.
func (c *Cursor) WriteOctetString(t Tag, b []byte) error {
	return c.writeUnit(orDefault(t, TagOctetString), b)
}

// WriteString writes s as an OCTET STRING.
func (c *Cursor) WriteString(t Tag, s string) error {
	return c.WriteOctetString(t, []byte(s))
}

// ReadOctetString reads a unit and copies its content into memory from the
// cursor's Allocator. The caller owns the result and must Release it.
func (c *Cursor) ReadOctetString(opts StringOption) (Value, error) {
	start, last := c.ptr, c.tag
	tag, n, err := c.readHeader()
	if err != nil {
		return Value{}, err
	}
	if n == 0 && opts&StringNoEmpty != 0 {
		c.trace("get", tag, start, c.ptr)
		return Value{}, nil
	}

	size := n
	if opts&StringTerminate != 0 {
		size++
	}
	out, err := c.alloc.Alloc(size)
	if err != nil {
		return Value{}, c.fail(start, last, newError(KindResourceExhausted, start, "cannot allocate string", err))
	}
	copy(out, c.buf[c.ptr:c.ptr+n])
	if size > n {
		out[n] = 0
	}
	c.ptr += n
	c.trace("get", tag, start, c.ptr)
	return Value{data: out[:n], alloc: c.alloc}, nil
}

// ReadString reads a unit and returns its content as a Go string.
func (c *Cursor) ReadString() (string, error) {
	v, err := c.ReadView()
	if err != nil {
		return "", err
	}
	return string(c.buf[v.off : v.off+v.n]), nil
}

// ReadView reads a unit and returns a borrowed view of its content. No
// memory is allocated.
func (c *Cursor) ReadView() (View, error) {
	start := c.ptr
	tag, n, err := c.readHeader()
	if err != nil {
		return View{}, err
	}
	v := View{c: c, gen: c.gen, off: c.ptr, n: n}
	c.ptr += n
	c.trace("get", tag, start, c.ptr)
	return v, nil
}

// WriteBitString writes a BIT STRING holding the first bits bits of b.
// The unused-bits octet is derived from bits.
func (c *Cursor) WriteBitString(t Tag, b []byte, bits int) error {
	if bits < 0 {
		return newError(KindInvalidValue, c.wpos(), "negative bit count", nil)
	}
	byteLen := (bits + 7) / 8
	if byteLen > len(b) {
		return newError(KindInvalidValue, c.wpos(), fmt.Sprintf("%d bits need %d octets, have %d", bits, byteLen, len(b)), nil)
	}
	unused := [1]byte{byte(byteLen*8 - bits)}
	return c.writeUnit(orDefault(t, TagBitString), unused[:], b[:byteLen])
}

// ReadBitString reads a BIT STRING and returns its octets with the number
// of significant bits.
func (c *Cursor) ReadBitString() (Value, int, error) {
	start, last := c.ptr, c.tag
	tag, n, err := c.readHeader()
	if err != nil {
		return Value{}, 0, err
	}
	if n == 0 {
		return Value{}, 0, c.fail(start, last, newError(KindInvalidValue, start, "bit string without unused-bits octet", nil))
	}
	unused := int(c.buf[c.ptr])
	byteLen := n - 1
	if unused > 7 || (byteLen == 0 && unused != 0) {
		return Value{}, 0, c.fail(start, last, newError(KindInvalidValue, start, fmt.Sprintf("invalid unused bit count %d", unused), nil))
	}

	out, err := c.alloc.Alloc(byteLen)
	if err != nil {
		return Value{}, 0, c.fail(start, last, newError(KindResourceExhausted, start, "cannot allocate bit string", err))
	}
	copy(out, c.buf[c.ptr+1:c.ptr+n])
	c.ptr += n
	c.trace("get", tag, start, c.ptr)
	return Value{data: out, alloc: c.alloc}, byteLen*8 - unused, nil
}
