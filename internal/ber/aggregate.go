package ber

import "fmt"

// Begin opens a constructed unit tagged t. Its header is written by the
// matching End, once the content length is known.
func (c *Cursor) Begin(t Tag) error {
	if err := c.checkEncoding("Begin"); err != nil {
		return err
	}
	if t == TagDefault {
		return newError(KindInvalidValue, c.wpos(), "cannot begin an aggregate with the default tag sentinel", nil)
	}
	hdr := c.wpos()
	reserved := t.Len() + reservedLength
	if err := c.ensure(hdr + reserved); err != nil {
		return err
	}
	c.frames = append(c.frames, frame{
		tag:      t,
		hdr:      hdr,
		reserved: reserved,
		wr:       hdr + reserved,
	})
	return nil
}

// BeginSequence opens a SEQUENCE, or an aggregate tagged t.
func (c *Cursor) BeginSequence(t Tag) error {
	return c.Begin(orDefault(t, TagSequence))
}

// BeginSet opens a SET, or an aggregate tagged t.
func (c *Cursor) BeginSet(t Tag) error {
	return c.Begin(orDefault(t, TagSet))
}

// End closes the innermost open aggregate. In canonical mode the length is
// written in minimal form and the body moved down over the unused part of
// the reservation; in legacy mode the full reservation is kept.
func (c *Cursor) End() error {
	if err := c.checkEncoding("End"); err != nil {
		return err
	}
	k := len(c.frames)
	if k == 0 {
		return newError(KindUsage, c.ptr, "End without an open aggregate", nil)
	}
	f := c.frames[k-1]
	if uint64(f.clen) > MaxLength {
		return newError(KindOverflow, f.hdr, fmt.Sprintf("aggregate content of %d octets exceeds %d", f.clen, uint64(MaxLength)), nil)
	}
	c.preserve(k - 1)

	lenLen := reservedLength
	if c.opts.Mode == ModeCanonical {
		lenLen = LengthSize(f.clen)
	}
	h := len(putTag(c.buf[f.hdr:], f.tag))
	h += len(putLength(c.buf[f.hdr+h:], f.clen, lenLen))
	if h < f.reserved {
		body := f.hdr + f.reserved
		copy(c.buf[f.hdr+h:], c.buf[body:body+f.clen])
	}
	total := h + f.clen
	c.frames = c.frames[:k-1]

	if k > 1 {
		parent := &c.frames[k-2]
		parent.wr = f.hdr + total
		parent.clen += total
	} else {
		c.ptr = f.hdr + total
	}
	c.trace("put", f.tag, f.hdr, f.hdr+total)
	return nil
}

// encodeGuard is the state an Encode call restores on failure: the open
// aggregates and write position at entry, and the bodies of aggregates
// that were open at entry and closed during the call.
type encodeGuard struct {
	outer  *encodeGuard
	frames []frame
	ptr    int
	gen    uint64
	low    int // aggregates below this depth have not been closed
	saved  []savedBody
}

type savedBody struct {
	off  int
	data []byte
}

// guard starts recording for an Encode call and returns it.
func (c *Cursor) guard() *encodeGuard {
	g := &encodeGuard{
		outer:  c.guards,
		frames: append([]frame(nil), c.frames...),
		ptr:    c.ptr,
		gen:    c.gen,
		low:    len(c.frames),
	}
	c.guards = g
	return g
}

// unguard stops recording g. If restore is set, the cursor is put back to
// the state g recorded.
func (c *Cursor) unguard(g *encodeGuard, restore bool) {
	c.guards = g.outer
	if !restore || c.gen != g.gen {
		return
	}
	for i := len(g.saved) - 1; i >= 0; i-- {
		b := g.saved[i]
		if b.off+len(b.data) <= len(c.buf) {
			copy(c.buf[b.off:], b.data)
		}
	}
	c.frames = append(c.frames[:0], g.frames...)
	c.ptr = g.ptr
}

// preserve saves the body of aggregate k, about to be closed, for every
// guard that saw it open.
func (c *Cursor) preserve(k int) {
	for g := c.guards; g != nil; g = g.outer {
		if k >= g.low || g.gen != c.gen {
			continue
		}
		f := g.frames[k]
		g.saved = append(g.saved, savedBody{off: f.hdr, data: append([]byte(nil), c.buf[f.hdr:f.wr]...)})
		g.low = k
	}
}

// Flatten returns a copy of the encoded bytes. It fails while aggregates
// are still open.
func (c *Cursor) Flatten() ([]byte, error) {
	if err := c.checkEncoding("Flatten"); err != nil {
		return nil, err
	}
	if len(c.frames) > 0 {
		return nil, newError(KindUsage, c.ptr, fmt.Sprintf("flatten with %d open aggregates", len(c.frames)), nil)
	}
	out := make([]byte, c.ptr)
	copy(out, c.buf[:c.ptr])
	return out, nil
}
