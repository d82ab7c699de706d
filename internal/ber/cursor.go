package ber

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/KilimcininKorOglu/lber/internal/logging"
)

// Options configures a Cursor. The zero value is canonical mode, no
// tracing, heap allocation and no incoming length limit.
type Options struct {
	// Mode selects canonical (minimal) or legacy (fixed) aggregate lengths.
	Mode Mode
	// Trace logs every encoded and decoded unit at debug level.
	Trace bool
	// Allocator backs encode arenas and owned decode results.
	Allocator Allocator
	// Logger receives trace output. Nil discards it.
	Logger logging.Logger
	// MaxContentLength rejects decoded lengths above this value when > 0.
	MaxContentLength int
	// InitialSize is the starting arena size of an encoder.
	InitialSize int
}

// frame is one open aggregate. All positions are offsets into Cursor.buf.
type frame struct {
	tag      Tag
	hdr      int // offset of the reserved header
	reserved int // header octets reserved at hdr
	wr       int // next write offset inside the body
	clen     int // content octets written so far
}

// Cursor is the shared encode/decode state: one byte arena with a current
// position and an end, the last decoded tag, and the open aggregates of an
// encoder. A Cursor is not safe for concurrent use.
type Cursor struct {
	buf    []byte
	ptr    int
	end    int
	tag    Tag
	frames []frame
	guards *encodeGuard // innermost running Encode

	opts     Options
	alloc    Allocator
	log      logging.Logger
	gen      uint64
	encoding bool
	owned    bool // buf came from alloc
}

// NewDecoder creates a cursor reading data with default options.
func NewDecoder(data []byte) *Cursor {
	return NewDecoderWithOptions(data, Options{})
}

// NewDecoderWithOptions creates a cursor reading data. The cursor borrows
// data; it is never written to.
func NewDecoderWithOptions(data []byte, opts Options) *Cursor {
	c := &Cursor{
		buf: data,
		end: len(data),
		tag: TagDefault,
	}
	c.setOptions(opts)
	return c
}

// NewEncoder creates a heap-backed encoder with the given initial capacity.
func NewEncoder(capacity int) *Cursor {
	c, _ := NewEncoderWithOptions(Options{InitialSize: capacity})
	return c
}

// NewEncoderWithOptions creates an encoder whose arena comes from
// opts.Allocator.
func NewEncoderWithOptions(opts Options) (*Cursor, error) {
	c := &Cursor{
		tag:      TagDefault,
		encoding: true,
	}
	c.setOptions(opts)

	size := opts.InitialSize
	if size <= 0 {
		size = 64
	}
	if err := c.ensure(size); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Cursor) setOptions(opts Options) {
	c.opts = opts
	c.alloc = opts.Allocator
	if c.alloc == nil {
		c.alloc = HeapAllocator{}
	}
	c.log = opts.Logger
	if c.log == nil {
		c.log = logging.NewNop()
	}
}

// Options returns the options the cursor was created with.
func (c *Cursor) Options() Options {
	return c.opts
}

// Offset returns the current read position, or the committed write
// position of an encoder.
func (c *Cursor) Offset() int {
	return c.ptr
}

// Remaining returns the number of bytes left to read.
func (c *Cursor) Remaining() int {
	if c.encoding {
		return 0
	}
	return c.end - c.ptr
}

// Len returns the number of committed bytes of an encoder, or the input
// length of a decoder.
func (c *Cursor) Len() int {
	if c.encoding {
		return c.ptr
	}
	return c.end
}

// LastTag returns the most recently consumed tag. PeekTag does not change it.
func (c *Cursor) LastTag() Tag {
	return c.tag
}

// Depth returns the number of open aggregates.
func (c *Cursor) Depth() int {
	return len(c.frames)
}

// Bytes returns the encoded bytes of every closed top-level unit, or the
// whole input of a decoder. The slice aliases the cursor's arena.
func (c *Cursor) Bytes() []byte {
	if c.encoding {
		return c.buf[:c.ptr]
	}
	return c.buf[:c.end]
}

// Reset rewinds a decoder to the start of its input, or empties an encoder
// for reuse. Views taken from an encoder arena become stale.
func (c *Cursor) Reset() {
	c.ptr = 0
	c.tag = TagDefault
	c.frames = c.frames[:0]
	if c.encoding {
		c.gen++
	}
}

// Free releases the cursor's arena. Freeing with open aggregates is a
// usage error; the arena is released regardless. Any later View access
// reports ErrStaleView.
func (c *Cursor) Free() error {
	var err error
	if len(c.frames) > 0 {
		err = newError(KindUsage, c.ptr, fmt.Sprintf("cursor freed with %d open aggregates", len(c.frames)), nil)
	}
	if c.owned && c.buf != nil {
		c.alloc.Free(c.buf)
	}
	c.buf = nil
	c.ptr, c.end = 0, 0
	c.frames = nil
	c.owned = false
	c.gen++
	return err
}

// Dump writes the cursor positions followed by a hex dump of the unread
// input of a decoder, or the committed output of an encoder.
func (c *Cursor) Dump(w io.Writer) error {
	data := c.buf[c.ptr:c.end]
	if c.encoding {
		data = c.buf[:c.ptr]
	}
	if _, err := fmt.Fprintf(w, "ber_dump: len=%d ptr=%d end=%d depth=%d\n", len(c.buf), c.ptr, c.end, len(c.frames)); err != nil {
		return err
	}
	_, err := io.WriteString(w, hex.Dump(data))
	return err
}

// trace logs one unit spanning buf[start:stop].
func (c *Cursor) trace(op string, tag Tag, start, stop int) {
	if !c.opts.Trace {
		return
	}
	c.log.Debug("ber "+op,
		"tag", tag.String(),
		"offset", start,
		"len", stop-start,
		"dump", hex.EncodeToString(c.buf[start:stop]),
	)
}

// fail restores a read position and tag cache and returns err.
func (c *Cursor) fail(ptr int, tag Tag, err error) error {
	c.ptr = ptr
	c.tag = tag
	return err
}

func (c *Cursor) checkDecoding(op string) error {
	if c.encoding {
		return newError(KindUsage, c.ptr, op+" on an encoder", nil)
	}
	return nil
}

func (c *Cursor) checkEncoding(op string) error {
	if !c.encoding {
		return newError(KindUsage, c.ptr, op+" on a decoder", nil)
	}
	return nil
}
