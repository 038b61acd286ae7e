package vdf

import (
	"bytes"
	"encoding/binary"
)

// Encode serializes m as a complete document, root terminator included.
// Keys and string values must not contain NUL bytes.
func Encode(m *Map) []byte {
	var buf bytes.Buffer
	writeMap(&buf, m)
	return buf.Bytes()
}

func writeMap(buf *bytes.Buffer, m *Map) {
	var scratch [8]byte
	for _, e := range m.Entries() {
		v := e.Value
		buf.WriteByte(byte(v.Kind))
		buf.WriteString(e.Key)
		buf.WriteByte(0)

		switch v.Kind {
		case KindMap:
			writeMap(buf, v.m)
			continue
		case KindString:
			buf.WriteString(v.str)
			buf.WriteByte(0)
		case KindInt32, KindFloat32:
			binary.LittleEndian.PutUint32(scratch[:4], uint32(v.num))
			buf.Write(scratch[:4])
		case KindUint64, KindInt64:
			binary.LittleEndian.PutUint64(scratch[:], v.num)
			buf.Write(scratch[:])
		}
	}
	buf.WriteByte(tagEnd)
}
