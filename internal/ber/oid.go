package ber

import (
	"math"
	"strconv"
)

// DecodeOIDInto writes the dotted form of the DER OID content der into dst
// and returns the number of bytes written.
func DecodeOIDInto(dst, der []byte) (int, error) {
	var (
		n     int
		val   uint64
		first = true
		tmp   [21]byte
	)
	emit := func(dot bool, v uint64) bool {
		s := strconv.AppendUint(tmp[:0], v, 10)
		need := len(s)
		if dot {
			need++
		}
		if n+need > len(dst) {
			return false
		}
		if dot {
			dst[n] = '.'
			n++
		}
		n += copy(dst[n:], s)
		return true
	}

	for i, b := range der {
		val |= uint64(b & 0x7F)
		if b&0x80 == 0 {
			if first {
				// Initial "x.y": val = x*40+y, x <= 2, y < 40 if x < 2
				x := uint64(2)
				if val < 80 {
					x = val / 40
				}
				val -= x * 40
				if !emit(false, x) {
					return 0, newError(KindOverflow, i, "destination too small for OID", ErrShortBuffer)
				}
				first = false
			}
			if !emit(true, val) {
				return 0, newError(KindOverflow, i, "destination too small for OID", ErrShortBuffer)
			}
			val = 0
		} else if val-1 < math.MaxUint64>>7 {
			val <<= 7
		} else if val == 0 {
			return 0, newError(KindInvalidValue, i, "OID component starts with 0x80", nil)
		} else {
			return 0, newError(KindOverflow, i, "OID component overflows uint64", nil)
		}
	}
	if val != 0 {
		return 0, newError(KindInvalidValue, len(der)-1, "truncated OID component", nil)
	}
	if first {
		return 0, newError(KindInvalidValue, 0, "empty OID", nil)
	}
	return n, nil
}

// DecodeOID returns the dotted form of the DER OID content der.
func DecodeOID(der []byte) (string, error) {
	dst := make([]byte, 4*len(der)+4)
	n, err := DecodeOIDInto(dst, der)
	if err != nil {
		return "", err
	}
	return string(dst[:n]), nil
}

// parseArc parses the decimal component starting at s[i] and returns it
// with the index just past it.
func parseArc(s string, i int) (uint64, int, bool) {
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == i {
		return 0, i, false
	}
	v, err := strconv.ParseUint(s[i:j], 10, 64)
	if err != nil {
		return 0, i, false
	}
	return v, j, true
}

// EncodeOIDInto writes the DER content of the dotted OID into dst and
// returns the number of bytes written.
func EncodeOIDInto(dst []byte, oid string) (int, error) {
	x, i, ok := parseArc(oid, 0)
	if !ok || x > 2 {
		return 0, newError(KindInvalidValue, 0, "OID must start with 0, 1 or 2", nil)
	}
	if i >= len(oid) || oid[i] != '.' {
		return 0, newError(KindInvalidValue, i, "OID needs at least two components", nil)
	}
	y, next, ok := parseArc(oid, i+1)
	if !ok {
		return 0, newError(KindInvalidValue, i+1, "malformed OID component", nil)
	}
	limit := uint64(math.MaxUint64 - 80)
	if x < 2 {
		limit = 39
	}
	if y > limit {
		return 0, newError(KindOverflow, i+1, "second OID component out of range", nil)
	}
	i = next

	n := 0
	val := x*40 + y
	for {
		// Write the component low-end first, then reverse it
		start := n
		for {
			if n >= len(dst) {
				return 0, newError(KindOverflow, i, "destination too small for OID", ErrShortBuffer)
			}
			dst[n] = byte(val&0x7F) | 0x80
			n++
			if val >>= 7; val == 0 {
				break
			}
		}
		dst[start] &= 0x7F
		for l, r := start, n-1; l < r; l, r = l+1, r-1 {
			dst[l], dst[r] = dst[r], dst[l]
		}

		if i == len(oid) {
			return n, nil
		}
		if oid[i] != '.' {
			return 0, newError(KindInvalidValue, i, "malformed OID component", nil)
		}
		val, next, ok = parseArc(oid, i+1)
		if !ok {
			return 0, newError(KindInvalidValue, i+1, "malformed OID component", nil)
		}
		i = next
	}
}

// EncodeOID returns the DER content of the dotted OID.
func EncodeOID(oid string) ([]byte, error) {
	dst := make([]byte, len(oid))
	n, err := EncodeOIDInto(dst, oid)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}

// WriteOID writes an OBJECT IDENTIFIER, or a unit tagged t with OID content.
func (c *Cursor) WriteOID(t Tag, oid string) error {
	der, err := EncodeOID(oid)
	if err != nil {
		return err
	}
	return c.writeUnit(orDefault(t, TagOID), der)
}

// ReadOID reads a unit with OID content and returns its dotted form.
func (c *Cursor) ReadOID() (string, error) {
	start, last := c.ptr, c.tag
	tag, n, err := c.readHeader()
	if err != nil {
		return "", err
	}
	oid, err := DecodeOID(c.buf[c.ptr : c.ptr+n])
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.Offset += c.ptr
		}
		return "", c.fail(start, last, err)
	}
	c.ptr += n
	c.trace("get", tag, start, c.ptr)
	return oid, nil
}
