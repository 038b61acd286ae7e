package vdf

import (
	"math"
	"strconv"
)

// Kind is the wire tag of a value.
type Kind byte

// Wire tags.
const (
	KindMap     Kind = 0x00
	KindString  Kind = 0x01
	KindInt32   Kind = 0x02
	KindFloat32 Kind = 0x03
	KindUint64  Kind = 0x07
	KindInt64   Kind = 0x0A

	tagEnd byte = 0x08
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindMap:
		return "map"
	case KindString:
		return "string"
	case KindInt32:
		return "int32"
	case KindFloat32:
		return "float32"
	case KindUint64:
		return "uint64"
	case KindInt64:
		return "int64"
	default:
		return "0x" + strconv.FormatUint(uint64(k), 16)
	}
}

// Value is a single typed value. Only the field matching Kind is meaningful.
type Value struct {
	Kind Kind
	str  string
	num  uint64 // int32, int64, uint64 and float32 bits
	m    *Map
}

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, str: s} }

// Int32 returns an int32 value.
func Int32(v int32) Value { return Value{Kind: KindInt32, num: uint64(uint32(v))} }

// Int64 returns an int64 value.
func Int64(v int64) Value { return Value{Kind: KindInt64, num: uint64(v)} }

// Uint64 returns a uint64 value.
func Uint64(v uint64) Value { return Value{Kind: KindUint64, num: v} }

// Float32 returns a float32 value.
func Float32(v float32) Value { return Value{Kind: KindFloat32, num: uint64(math.Float32bits(v))} }

// MapValue returns a nested map value. A nil m is replaced by an empty map.
func MapValue(m *Map) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{Kind: KindMap, m: m}
}

// IsMap reports whether v is a nested map.
func (v Value) IsMap() bool { return v.Kind == KindMap }

// Map returns the nested map, or nil if v is a scalar.
func (v Value) Map() *Map {
	if v.Kind != KindMap {
		return nil
	}
	return v.m
}

// Str returns the string payload. It is empty for non-string kinds.
func (v Value) Str() string { return v.str }

// Int returns the payload of an integer kind widened to int64.
// The second result is false for strings, floats and maps.
func (v Value) Int() (int64, bool) {
	switch v.Kind {
	case KindInt32:
		return int64(int32(uint32(v.num))), true
	case KindInt64:
		return int64(v.num), true
	case KindUint64:
		return int64(v.num), true
	default:
		return 0, false
	}
}

// Uint returns the payload of a uint64 value.
func (v Value) Uint() uint64 { return v.num }

// Float returns the payload of a float32 value.
func (v Value) Float() float32 { return math.Float32frombits(uint32(v.num)) }

// Text renders a scalar as text. Numeric kinds use base 10; maps render empty.
func (v Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.str
	case KindInt32, KindInt64:
		n, _ := v.Int()
		return strconv.FormatInt(n, 10)
	case KindUint64:
		return strconv.FormatUint(v.num, 10)
	case KindFloat32:
		return strconv.FormatFloat(float64(v.Float()), 'g', -1, 32)
	default:
		return ""
	}
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	if v.Kind == KindMap {
		return Value{Kind: KindMap, m: v.m.Clone()}
	}
	return v
}

// Equal reports whether v and o have the same kind and payload, recursively.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	if v.Kind == KindMap {
		return v.m.Equal(o.m)
	}
	return v.str == o.str && v.num == o.num
}

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   string
	Value Value
}

// Map is an ordered key/value collection. Keys keep their first-insertion
// order, which is also wire order.
type Map struct {
	entries []Entry
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{}
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns the entries in order. The slice must not be modified.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}
	return m.entries
}

// Keys returns the keys in order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, m.Len())
	for _, e := range m.Entries() {
		keys = append(keys, e.Key)
	}
	return keys
}

func (m *Map) index(key string) int {
	if m == nil {
		return -1
	}
	for i := range m.entries {
		if m.entries[i].Key == key {
			return i
		}
	}
	return -1
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	i := m.index(key)
	if i < 0 {
		return Value{}, false
	}
	return m.entries[i].Value, true
}

// Set stores v under key, replacing an existing entry in place or appending.
func (m *Map) Set(key string, v Value) *Map {
	if i := m.index(key); i >= 0 {
		m.entries[i].Value = v
		return m
	}
	m.entries = append(m.entries, Entry{Key: key, Value: v})
	return m
}

// Delete removes key. It reports whether the key was present.
func (m *Map) Delete(key string) bool {
	i := m.index(key)
	if i < 0 {
		return false
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	return true
}

// Child returns the nested map under key, or nil if key is absent or scalar.
func (m *Map) Child(key string) *Map {
	v, ok := m.Get(key)
	if !ok {
		return nil
	}
	return v.Map()
}

// EnsureChild returns the nested map under key, creating it when absent.
// A scalar stored under key is replaced.
func (m *Map) EnsureChild(key string) *Map {
	if c := m.Child(key); c != nil {
		return c
	}
	c := NewMap()
	m.Set(key, MapValue(c))
	return c
}

// GetString returns the text of the scalar under key.
func (m *Map) GetString(key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok || v.IsMap() {
		return "", false
	}
	return v.Text(), true
}

// Clone returns a deep copy of m.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	c := &Map{entries: make([]Entry, len(m.entries))}
	for i, e := range m.entries {
		c.entries[i] = Entry{Key: e.Key, Value: e.Value.Clone()}
	}
	return c
}

// Equal reports whether m and o hold the same entries in the same order
// with the same kinds.
func (m *Map) Equal(o *Map) bool {
	if m.Len() != o.Len() {
		return false
	}
	for i, e := range m.Entries() {
		oe := o.entries[i]
		if e.Key != oe.Key || !e.Value.Equal(oe.Value) {
			return false
		}
	}
	return true
}
