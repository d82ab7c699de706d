package ber

// extendSize is the minimum growth step of an encoder arena.
const extendSize = 4060

// wpos returns where the next octet is written: the body of the innermost
// open aggregate, or the committed end of the arena.
func (c *Cursor) wpos() int {
	if n := len(c.frames); n > 0 {
		return c.frames[n-1].wr
	}
	return c.ptr
}

// ensure grows the arena so that offsets below need are writable.
func (c *Cursor) ensure(need int) error {
	if need <= len(c.buf) {
		return nil
	}
	size := need
	if len(c.buf) > 0 {
		size = max(len(c.buf)+extendSize, 2*len(c.buf))
	}
	if size < need {
		size = need
	}

	nb, err := c.alloc.Alloc(size)
	if err != nil {
		return newError(KindResourceExhausted, c.wpos(), "cannot grow encode buffer", err)
	}
	copy(nb, c.buf[:c.wpos()])
	if c.owned && c.buf != nil {
		c.alloc.Free(c.buf)
	}
	c.buf = nb
	c.end = len(nb)
	c.owned = true
	return nil
}

// advance moves the write position n octets forward, counting them as
// content of the innermost open aggregate.
func (c *Cursor) advance(n int) {
	if k := len(c.frames); k > 0 {
		f := &c.frames[k-1]
		f.wr += n
		f.clen += n
		return
	}
	c.ptr += n
}

// write appends p at the write position.
func (c *Cursor) write(p []byte) error {
	pos := c.wpos()
	if err := c.ensure(pos + len(p)); err != nil {
		return err
	}
	copy(c.buf[pos:], p)
	c.advance(len(p))
	return nil
}

// WriteRaw appends pre-encoded bytes verbatim.
func (c *Cursor) WriteRaw(data []byte) error {
	if err := c.checkEncoding("WriteRaw"); err != nil {
		return err
	}
	return c.write(data)
}

// writeUnit writes a complete primitive unit: tag, minimal length, content.
// Either the whole unit is written or nothing is.
func (c *Cursor) writeUnit(t Tag, content ...[]byte) error {
	if err := c.checkEncoding("write"); err != nil {
		return err
	}
	if t == TagDefault {
		return newError(KindInvalidValue, c.wpos(), "cannot write the default tag sentinel", nil)
	}
	n := 0
	for _, p := range content {
		n += len(p)
	}
	start := c.wpos()
	if err := checkLength(n, start); err != nil {
		return err
	}

	var hdr [maxTagOctets + reservedLength]byte
	h := len(putTag(hdr[:], t))
	h += len(putLength(hdr[h:], n, LengthSize(n)))
	if err := c.ensure(start + h + n); err != nil {
		return err
	}

	pos := start + copy(c.buf[start:], hdr[:h])
	for _, p := range content {
		pos += copy(c.buf[pos:], p)
	}
	c.advance(h + n)
	c.trace("put", t, start, pos)
	return nil
}
