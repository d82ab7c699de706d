package ber

// countMembers consumes the header of an aggregate, counts its members and
// leaves the cursor on the first one. It returns the member count and the
// end of the aggregate.
func (c *Cursor) countMembers() (int, int, error) {
	start, last := c.ptr, c.tag
	_, n, err := c.readHeader()
	if err != nil {
		return 0, 0, err
	}
	body, end := c.ptr, c.ptr+n
	count := 0
	for c.ptr < end {
		if _, err := c.member(end); err != nil {
			return 0, 0, c.fail(start, last, err)
		}
		if _, err := c.Skip(); err != nil {
			return 0, 0, c.fail(start, last, err)
		}
		count++
	}
	c.ptr = body
	return count, end, nil
}

// ReadStrings decodes an aggregate whose members are all strings.
// An empty aggregate yields a nil slice.
func (c *Cursor) ReadStrings() ([]string, error) {
	start, last := c.ptr, c.tag
	n, _, err := c.countMembers()
	if err != nil || n == 0 {
		return nil, err
	}
	out := make([]string, n)
	for i := range out {
		s, err := c.ReadString()
		if err != nil {
			return nil, c.fail(start, last, err)
		}
		out[i] = s
	}
	return out, nil
}

// ReadValues decodes an aggregate whose members are all octet strings into
// owned Values. Either every member is returned or, on failure, none is
// and every allocation made so far has been released.
func (c *Cursor) ReadValues(opts StringOption) ([]Value, error) {
	start, last := c.ptr, c.tag
	n, _, err := c.countMembers()
	if err != nil || n == 0 {
		return nil, err
	}
	out := make([]Value, n)
	for i := range out {
		v, err := c.ReadOctetString(opts)
		if err != nil {
			ReleaseValues(out[:i])
			return nil, c.fail(start, last, err)
		}
		out[i] = v
	}
	return out, nil
}

// ReadMembers decodes an aggregate of octet strings into caller-shaped
// records. field selects where each member is stored inside its record.
// Failure releases every member decoded so far and returns nil.
func ReadMembers[T any](c *Cursor, opts StringOption, field func(*T) *Value) ([]T, error) {
	start, last := c.ptr, c.tag
	n, _, err := c.countMembers()
	if err != nil || n == 0 {
		return nil, err
	}
	out := make([]T, n)
	for i := range out {
		v, err := c.ReadOctetString(opts)
		if err != nil {
			for j := 0; j < i; j++ {
				field(&out[j]).Release()
			}
			return nil, c.fail(start, last, err)
		}
		*field(&out[i]) = v
	}
	return out, nil
}

// ReleaseValues releases every Value in vs.
func ReleaseValues(vs []Value) {
	for i := range vs {
		vs[i].Release()
	}
}
