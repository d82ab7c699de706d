package ber

import "fmt"

// peek decodes the header at the current position and restores the read
// position and LastTag. It also reports the size of the header.
func (c *Cursor) peek() (Tag, int, int, error) {
	start, last := c.ptr, c.tag
	tag, n, err := c.readHeader()
	if err != nil {
		return TagDefault, 0, 0, err
	}
	hlen := c.ptr - start
	c.ptr, c.tag = start, last
	return tag, n, hlen, nil
}

// PeekTag returns the tag and content length of the next unit without
// consuming anything. It is the only idempotent read.
func (c *Cursor) PeekTag() (Tag, int, error) {
	tag, n, _, err := c.peek()
	return tag, n, err
}

// SkipTag consumes the tag and length of the next unit and returns them.
// The content is left unread.
func (c *Cursor) SkipTag() (Tag, int, error) {
	return c.readHeader()
}

// Skip consumes the whole next unit.
func (c *Cursor) Skip() (Tag, error) {
	start := c.ptr
	tag, n, err := c.readHeader()
	if err != nil {
		return TagDefault, err
	}
	c.ptr += n
	c.trace("skip", tag, start, c.ptr)
	return tag, nil
}

// FirstElement consumes the header of an aggregate and peeks its first
// member. It returns the member's tag and the offset where the aggregate
// ends, to be passed to NextElement. An empty aggregate is consumed and
// reported as ErrNoElements.
func (c *Cursor) FirstElement() (Tag, int, error) {
	start, last := c.ptr, c.tag
	_, n, err := c.readHeader()
	if err != nil {
		return TagDefault, 0, err
	}
	end := c.ptr + n
	if n == 0 {
		return TagDefault, end, newError(KindInvalidValue, start, "aggregate has no members", ErrNoElements)
	}
	tag, err := c.member(end)
	if err != nil {
		return TagDefault, 0, c.fail(start, last, err)
	}
	return tag, end, nil
}

// NextElement peeks the next member of the aggregate ending at end. Once
// every member was consumed it fails like FirstElement on an empty
// aggregate: an InvalidValue error wrapping ErrNoElements.
func (c *Cursor) NextElement(end int) (Tag, error) {
	if c.ptr >= end {
		return TagDefault, newError(KindInvalidValue, c.ptr, "no more members", ErrNoElements)
	}
	return c.member(end)
}

// member peeks the unit at the current position and checks that it lies
// within the aggregate ending at end.
func (c *Cursor) member(end int) (Tag, error) {
	tag, n, hlen, err := c.peek()
	if err != nil {
		return TagDefault, err
	}
	if c.ptr+hlen+n > end {
		return TagDefault, newError(KindInvalidValue, c.ptr, fmt.Sprintf("member of %d octets overruns its aggregate", hlen+n), nil)
	}
	return tag, nil
}
