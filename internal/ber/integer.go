package ber

import "fmt"

// IntegerSize returns the number of content octets of the minimal two's
// complement encoding of v.
func IntegerSize(v int64) int {
	n := 1
	for v > 127 || v < -128 {
		n++
		v >>= 8
	}
	return n
}

// putInteger writes the minimal two's complement encoding of v into dst.
func putInteger(dst []byte, v int64) []byte {
	n := IntegerSize(v)
	for i := 0; i < n; i++ {
		dst[i] = byte(v >> (8 * (n - 1 - i)))
	}
	return dst[:n]
}

// decodeInteger sign-extends big-endian two's complement octets.
func decodeInteger(b []byte) int64 {
	var result int64
	if b[0]&0x80 != 0 {
		result = -1
	}
	for _, o := range b {
		result = result<<8 | int64(o)
	}
	return result
}

// WriteInteger writes an INTEGER, or a unit tagged t with integer content.
func (c *Cursor) WriteInteger(t Tag, v int64) error {
	var tmp [maxIntOctets]byte
	return c.writeUnit(orDefault(t, TagInteger), putInteger(tmp[:], v))
}

// WriteEnumerated writes an ENUMERATED, or a unit tagged t with integer content.
func (c *Cursor) WriteEnumerated(t Tag, v int64) error {
	var tmp [maxIntOctets]byte
	return c.writeUnit(orDefault(t, TagEnumerated), putInteger(tmp[:], v))
}

// ReadInteger reads a unit with integer content. The tag is not checked;
// it is available as LastTag.
func (c *Cursor) ReadInteger() (int64, error) {
	return c.readInteger("integer")
}

// ReadEnumerated reads a unit with enumerated content.
func (c *Cursor) ReadEnumerated() (int64, error) {
	return c.readInteger("enumerated")
}

func (c *Cursor) readInteger(what string) (int64, error) {
	start, last := c.ptr, c.tag
	tag, n, err := c.readHeader()
	if err != nil {
		return 0, err
	}
	if n > maxIntOctets {
		return 0, c.fail(start, last, newError(KindOverflow, start, fmt.Sprintf("%s of %d octets too large for int64", what, n), nil))
	}
	if n == 0 {
		return 0, c.fail(start, last, newError(KindInvalidValue, start, what+" must have at least 1 byte", nil))
	}

	v := decodeInteger(c.buf[c.ptr : c.ptr+n])
	c.ptr += n
	c.trace("get", tag, start, c.ptr)
	return v, nil
}
