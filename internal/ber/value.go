package ber

// Value is decoded content owned by the caller. Its bytes come from the
// decoding cursor's Allocator and are returned to it by Release. The zero
// Value is the null value.
type Value struct {
	data  []byte
	alloc Allocator
}

// Bytes returns the content. The slice stays valid until Release.
func (v Value) Bytes() []byte {
	return v.data
}

// Len returns the content length, excluding any terminator.
func (v Value) Len() int {
	return len(v.data)
}

// IsNull reports whether v holds no allocation at all. A zero-length
// string decoded without StringNoEmpty is not null.
func (v Value) IsNull() bool {
	return v.data == nil
}

// Terminated reports whether a NUL octet follows the content.
func (v Value) Terminated() bool {
	return cap(v.data) > len(v.data) && v.data[:len(v.data)+1][len(v.data)] == 0
}

// String returns the content as a string.
func (v Value) String() string {
	return string(v.data)
}

// Release returns the content to its allocator and resets v to null.
func (v *Value) Release() {
	if v.alloc != nil && v.data != nil {
		v.alloc.Free(v.data[:cap(v.data)])
	}
	*v = Value{}
}

// View is a borrowed window into a decoder's input. It is only usable
// while the cursor it came from has not been freed.
type View struct {
	c   *Cursor
	gen uint64
	off int
	n   int
}

// Bytes returns the viewed bytes, or ErrStaleView once the cursor was freed.
func (v View) Bytes() ([]byte, error) {
	if v.c == nil {
		return nil, nil
	}
	if v.c.gen != v.gen {
		return nil, newError(KindUsage, v.off, "stale view", ErrStaleView)
	}
	return v.c.buf[v.off : v.off+v.n : v.off+v.n], nil
}

// Len returns the length of the viewed content.
func (v View) Len() int {
	return v.n
}

// Offset returns the position of the viewed content in the cursor input.
func (v View) Offset() int {
	return v.off
}

// Copy returns an owned Value holding the viewed bytes. The zero View
// copies to the null Value.
func (v View) Copy() (Value, error) {
	b, err := v.Bytes()
	if err != nil || v.c == nil {
		return Value{}, err
	}
	alloc := v.c.alloc
	out, err := alloc.Alloc(len(b))
	if err != nil {
		return Value{}, newError(KindResourceExhausted, v.off, "cannot copy view", err)
	}
	copy(out, b)
	return Value{data: out, alloc: alloc}, nil
}
