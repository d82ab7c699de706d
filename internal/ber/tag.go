package ber

import (
	"fmt"
	"strconv"
)

// Tag holds the identifier octets of a unit exactly as they appear on the
// wire, packed big-endian. A tag is at most four octets long.
type Tag uint32

// NewTag builds a tag from a class, a constructed flag and a tag number.
// Numbers above 30 use the high-tag-number form. Numbers that do not fit
// in four octets yield TagDefault.
func NewTag(class, constructed int, number uint32) Tag {
	first := Tag(class&0xC0) | Tag(constructed&TypeConstructed)
	if number <= 30 {
		return first | Tag(number)
	}

	// 7 bits per continuation octet, at most three of them
	if number >= 1<<21 {
		return TagDefault
	}
	t := first | 0x1F
	n := 1
	for v := number >> 7; v > 0; v >>= 7 {
		n++
	}
	for i := n - 1; i >= 0; i-- {
		b := Tag(number>>(7*i)) & 0x7F
		if i > 0 {
			b |= 0x80
		}
		t = t<<8 | b
	}
	return t
}

// Len returns the number of octets of t on the wire.
func (t Tag) Len() int {
	switch {
	case t <= 0xFF:
		return 1
	case t <= 0xFFFF:
		return 2
	case t <= 0xFFFFFF:
		return 3
	default:
		return 4
	}
}

// first returns the leading identifier octet.
func (t Tag) first() byte {
	return byte(t >> (8 * (t.Len() - 1)))
}

// Class returns the class bits of t (one of the Class constants).
func (t Tag) Class() int {
	return int(t.first() & 0xC0)
}

// Constructed reports whether the constructed bit of t is set.
func (t Tag) Constructed() bool {
	return t.first()&TypeConstructed != 0
}

// Number returns the tag number of t.
func (t Tag) Number() uint32 {
	if t.first()&0x1F != 0x1F {
		return uint32(t.first() & 0x1F)
	}
	var n uint32
	for i := t.Len() - 2; i >= 0; i-- {
		n = n<<7 | uint32(t>>(8*i))&0x7F
	}
	return n
}

var universalNames = map[uint32]string{
	1:  "BOOLEAN",
	2:  "INTEGER",
	3:  "BIT STRING",
	4:  "OCTET STRING",
	5:  "NULL",
	6:  "OBJECT IDENTIFIER",
	10: "ENUMERATED",
	12: "UTF8String",
	16: "SEQUENCE",
	17: "SET",
}

// String returns a readable form such as "SEQUENCE" or "[APPLICATION 1]".
func (t Tag) String() string {
	if t == TagDefault {
		return "default"
	}
	num := t.Number()
	switch t.Class() {
	case ClassUniversal:
		if name, ok := universalNames[num]; ok {
			return name
		}
		return "[UNIVERSAL " + strconv.FormatUint(uint64(num), 10) + "]"
	case ClassApplication:
		return fmt.Sprintf("[APPLICATION %d]", num)
	case ClassContextSpecific:
		return fmt.Sprintf("[%d]", num)
	default:
		return fmt.Sprintf("[PRIVATE %d]", num)
	}
}

// ReadTag reads the identifier octets at the current position and stores
// the result as LastTag. On failure nothing is consumed.
func (c *Cursor) ReadTag() (Tag, error) {
	if err := c.checkDecoding("ReadTag"); err != nil {
		return TagDefault, err
	}
	start := c.ptr
	if start >= c.end {
		return TagDefault, newError(KindMalformedTag, start, "cannot read tag", ErrUnexpectedEOF)
	}

	b := c.buf[start]
	tag := Tag(b)
	n := 1
	if b&0x1F == 0x1F {
		for {
			if start+n >= c.end {
				return TagDefault, newError(KindMalformedTag, start, "truncated long form tag", ErrUnexpectedEOF)
			}
			if n == maxTagOctets {
				return TagDefault, newError(KindMalformedTag, start, "tag exceeds four octets", nil)
			}
			b = c.buf[start+n]
			tag = tag<<8 | Tag(b)
			n++
			if b&0x80 == 0 {
				break
			}
		}
	}

	c.ptr += n
	c.tag = tag
	return tag, nil
}

// WriteTag writes the identifier octets of t.
func (c *Cursor) WriteTag(t Tag) error {
	if err := c.checkEncoding("WriteTag"); err != nil {
		return err
	}
	if t == TagDefault {
		return newError(KindInvalidValue, c.wpos(), "cannot write the default tag sentinel", nil)
	}
	var tmp [maxTagOctets]byte
	return c.write(putTag(tmp[:], t))
}

// putTag writes t into dst and returns the written prefix of dst.
func putTag(dst []byte, t Tag) []byte {
	n := t.Len()
	for i := 0; i < n; i++ {
		dst[i] = byte(t >> (8 * (n - 1 - i)))
	}
	return dst[:n]
}

// orDefault resolves TagDefault to def.
func orDefault(t, def Tag) Tag {
	if t == TagDefault {
		return def
	}
	return t
}
