package vdf

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrMalformedBinary indicates the input violates the binary key-value grammar.
var ErrMalformedBinary = errors.New("malformed binary key-value data")

// maxDepth bounds map nesting so hostile input cannot exhaust the stack.
const maxDepth = 128

// DecodeError describes where and why decoding failed.
// It matches ErrMalformedBinary with errors.Is.
type DecodeError struct {
	Offset int    // byte offset at which the problem was detected
	Reason string // what was wrong
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", ErrMalformedBinary, e.Offset, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return ErrMalformedBinary
}

type decoder struct {
	buf []byte
	pos int
}

func (d *decoder) fail(format string, args ...any) error {
	return &DecodeError{Offset: d.pos, Reason: fmt.Sprintf(format, args...)}
}

// Decode parses a complete document. The root map ends at its own end tag;
// anything after it is ignored.
func Decode(data []byte) (*Map, error) {
	d := &decoder{buf: data}
	root, err := d.readMap(0)
	if err != nil {
		return nil, err
	}
	return root, nil
}

func (d *decoder) readMap(depth int) (*Map, error) {
	if depth > maxDepth {
		return nil, d.fail("nesting deeper than %d", maxDepth)
	}
	m := NewMap()
	for {
		if d.pos >= len(d.buf) {
			return nil, d.fail("unterminated map")
		}
		tag := d.buf[d.pos]
		d.pos++
		if tag == tagEnd {
			return m, nil
		}
		if !known(Kind(tag)) {
			d.pos--
			return nil, d.fail("unknown type tag 0x%02x", tag)
		}

		key, err := d.readCString()
		if err != nil {
			return nil, err
		}

		var v Value
		switch Kind(tag) {
		case KindMap:
			child, err := d.readMap(depth + 1)
			if err != nil {
				return nil, err
			}
			v = MapValue(child)
		case KindString:
			s, err := d.readCString()
			if err != nil {
				return nil, err
			}
			v = String(s)
		case KindInt32:
			b, err := d.take(4, key)
			if err != nil {
				return nil, err
			}
			v = Int32(int32(binary.LittleEndian.Uint32(b)))
		case KindFloat32:
			b, err := d.take(4, key)
			if err != nil {
				return nil, err
			}
			v = Value{Kind: KindFloat32, num: uint64(binary.LittleEndian.Uint32(b))}
		case KindUint64:
			b, err := d.take(8, key)
			if err != nil {
				return nil, err
			}
			v = Uint64(binary.LittleEndian.Uint64(b))
		case KindInt64:
			b, err := d.take(8, key)
			if err != nil {
				return nil, err
			}
			v = Int64(int64(binary.LittleEndian.Uint64(b)))
		}
		m.entries = append(m.entries, Entry{Key: key, Value: v})
	}
}

func (d *decoder) readCString() (string, error) {
	end := bytes.IndexByte(d.buf[d.pos:], 0)
	if end < 0 {
		return "", d.fail("unterminated string")
	}
	s := string(d.buf[d.pos : d.pos+end])
	d.pos += end + 1
	return s, nil
}

func (d *decoder) take(n int, key string) ([]byte, error) {
	if len(d.buf)-d.pos < n {
		return nil, d.fail("truncated value for key %q: need %d bytes, have %d", key, n, len(d.buf)-d.pos)
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func known(k Kind) bool {
	switch k {
	case KindMap, KindString, KindInt32, KindFloat32, KindUint64, KindInt64:
		return true
	}
	return false
}
