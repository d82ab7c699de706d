package ber

import "fmt"

// LengthSize returns the number of octets the minimal encoding of n takes.
func LengthSize(n int) int {
	if n <= MaxShortFormLength {
		return 1
	}
	size := 1
	for v := uint64(n); v > 0; v >>= 8 {
		size++
	}
	return size
}

// putLength writes n into dst using size octets and returns the written
// prefix. size is either LengthSize(n) or reservedLength.
func putLength(dst []byte, n, size int) []byte {
	if size == 1 {
		dst[0] = byte(n)
		return dst[:1]
	}
	dst[0] = byte(LengthLongFormBit | (size - 1))
	for i := 1; i < size; i++ {
		dst[i] = byte(uint64(n) >> (8 * (size - 1 - i)))
	}
	return dst[:size]
}

func checkLength(n, offset int) error {
	if n < 0 {
		return newError(KindInvalidValue, offset, "negative length", nil)
	}
	if uint64(n) > MaxLength {
		return newError(KindOverflow, offset, fmt.Sprintf("length %d exceeds %d", n, uint64(MaxLength)), nil)
	}
	return nil
}

// WriteLength writes n in short form when it is at most 127, otherwise in
// the minimal long form.
func (c *Cursor) WriteLength(n int) error {
	if err := c.checkEncoding("WriteLength"); err != nil {
		return err
	}
	if err := checkLength(n, c.wpos()); err != nil {
		return err
	}
	var tmp [reservedLength]byte
	return c.write(putLength(tmp[:], n, LengthSize(n)))
}

// ReadLength reads a definite length at the current position. The length
// is checked against the remaining input before it is returned. On failure
// nothing is consumed.
func (c *Cursor) ReadLength() (int, error) {
	if err := c.checkDecoding("ReadLength"); err != nil {
		return 0, err
	}
	start := c.ptr
	if start >= c.end {
		return 0, newError(KindMalformedLength, start, "cannot read length", ErrUnexpectedEOF)
	}

	b := c.buf[start]
	used := 1
	var n uint64
	if b&LengthLongFormBit == 0 {
		n = uint64(b)
	} else {
		count := int(b & 0x7F)
		if count == 0 {
			return 0, newError(KindMalformedLength, start, "indefinite length encoding", ErrIndefiniteLength)
		}
		if count > maxLengthOctets {
			return 0, newError(KindMalformedLength, start, fmt.Sprintf("%d length octets exceed %d", count, maxLengthOctets), nil)
		}
		if c.end-start-1 < count {
			return 0, newError(KindMalformedLength, start, "truncated length encoding", ErrUnexpectedEOF)
		}
		for i := 1; i <= count; i++ {
			n = n<<8 | uint64(c.buf[start+i])
		}
		used += count
	}

	if limit := c.opts.MaxContentLength; limit > 0 && n > uint64(limit) {
		return 0, newError(KindOverflow, start, fmt.Sprintf("length %d exceeds limit %d", n, limit), nil)
	}
	if n > uint64(c.end-start-used) {
		return 0, newError(KindTruncated, start, fmt.Sprintf("length %d exceeds %d remaining bytes", n, c.end-start-used), ErrUnexpectedEOF)
	}

	c.ptr += used
	return int(n), nil
}

// readHeader reads a tag and a length. On failure nothing is consumed and
// LastTag is unchanged.
func (c *Cursor) readHeader() (Tag, int, error) {
	start, last := c.ptr, c.tag
	tag, err := c.ReadTag()
	if err != nil {
		return TagDefault, 0, err
	}
	n, err := c.ReadLength()
	if err != nil {
		return TagDefault, 0, c.fail(start, last, err)
	}
	return tag, n, nil
}
