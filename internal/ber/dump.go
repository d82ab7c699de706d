package ber

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxDumpDepth bounds the nesting ParseElements follows.
const maxDumpDepth = 64

// Element is one decoded unit of an element tree.
type Element struct {
	Offset      int       `json:"offset" yaml:"offset" msgpack:"offset"`
	Tag         string    `json:"tag" yaml:"tag" msgpack:"tag"`
	Class       string    `json:"class" yaml:"class" msgpack:"class"`
	Number      uint32    `json:"number" yaml:"number" msgpack:"number"`
	Constructed bool      `json:"constructed" yaml:"constructed" msgpack:"constructed"`
	HeaderLen   int       `json:"header_len" yaml:"header_len" msgpack:"header_len"`
	Length      int       `json:"length" yaml:"length" msgpack:"length"`
	Value       string    `json:"value,omitempty" yaml:"value,omitempty" msgpack:"value,omitempty"`
	Text        string    `json:"text,omitempty" yaml:"text,omitempty" msgpack:"text,omitempty"`
	Children    []Element `json:"children,omitempty" yaml:"children,omitempty" msgpack:"children,omitempty"`
}

var classNames = map[int]string{
	ClassUniversal:       "universal",
	ClassApplication:     "application",
	ClassContextSpecific: "context",
	ClassPrivate:         "private",
}

// ParseElements decodes every top-level unit of data into an element tree.
func ParseElements(data []byte, opts Options) ([]Element, error) {
	c := NewDecoderWithOptions(data, opts)
	var out []Element
	for c.Remaining() > 0 {
		e, err := c.element(0)
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (c *Cursor) element(depth int) (Element, error) {
	if depth > maxDumpDepth {
		return Element{}, newError(KindOverflow, c.ptr, fmt.Sprintf("nesting deeper than %d", maxDumpDepth), nil)
	}
	start := c.ptr
	tag, n, err := c.PeekTag()
	if err != nil {
		return Element{}, err
	}
	e := Element{
		Offset:      start,
		Tag:         tag.String(),
		Class:       classNames[tag.Class()],
		Number:      tag.Number(),
		Constructed: tag.Constructed(),
		Length:      n,
	}

	if !tag.Constructed() {
		v, err := c.ReadView()
		if err != nil {
			return Element{}, err
		}
		b, err := v.Bytes()
		if err != nil {
			return Element{}, err
		}
		e.HeaderLen = v.Offset() - start
		e.Value = hex.EncodeToString(b)
		e.Text = describe(tag, b)
		return e, nil
	}

	_, end, err := c.FirstElement()
	e.HeaderLen = c.ptr - start
	if errors.Is(err, ErrNoElements) {
		return e, nil
	}
	if err != nil {
		return Element{}, err
	}
	for {
		child, err := c.element(depth + 1)
		if err != nil {
			return Element{}, err
		}
		e.Children = append(e.Children, child)
		if _, err := c.NextElement(end); err != nil {
			if errors.Is(err, ErrNoElements) {
				return e, nil
			}
			return Element{}, err
		}
	}
}

// describe renders the content of well-known universal types.
func describe(tag Tag, b []byte) string {
	switch tag {
	case TagBoolean:
		if len(b) == 1 {
			return strconv.FormatBool(b[0] != 0)
		}
	case TagInteger, TagEnumerated:
		if len(b) > 0 && len(b) <= maxIntOctets {
			return strconv.FormatInt(decodeInteger(b), 10)
		}
	case TagOID:
		if oid, err := DecodeOID(b); err == nil {
			return oid
		}
	case TagNull:
		return ""
	}
	if tag.Class() != ClassUniversal || tag == TagOctetString || tag.Number() == 12 {
		if printable(b) {
			return string(b)
		}
	}
	return ""
}

func printable(b []byte) bool {
	if len(b) == 0 || !utf8.Valid(b) {
		return false
	}
	for _, r := range string(b) {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

// WriteTree writes an indented text rendering of elems.
func WriteTree(w io.Writer, elems []Element) error {
	return writeTree(w, elems, 0)
}

func writeTree(w io.Writer, elems []Element, depth int) error {
	indent := strings.Repeat("  ", depth)
	for _, e := range elems {
		line := fmt.Sprintf("%6d: %s%s (%d+%d)", e.Offset, indent, e.Tag, e.HeaderLen, e.Length)
		switch {
		case e.Text != "":
			line += " " + strconv.Quote(e.Text)
		case e.Value != "":
			line += " " + e.Value
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if err := writeTree(w, e.Children, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Dump parses data and writes its element tree to w. Units decoded before
// a failure are still written.
func Dump(w io.Writer, data []byte) error {
	elems, err := ParseElements(data, Options{})
	if werr := WriteTree(w, elems); werr != nil {
		return werr
	}
	return err
}
