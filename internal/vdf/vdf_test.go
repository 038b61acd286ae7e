package vdf

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// cat joins byte fragments; strings are written as-is (callers add NULs).
func cat(parts ...any) []byte {
	var buf bytes.Buffer
	for _, p := range parts {
		switch v := p.(type) {
		case byte:
			buf.WriteByte(v)
		case int:
			buf.WriteByte(byte(v))
		case string:
			buf.WriteString(v)
		case []byte:
			buf.Write(v)
		}
	}
	return buf.Bytes()
}

func sampleDoc() []byte {
	return cat(
		0x00, "480\x00",
		0x01, "gamename\x00", "Spacewar\x00",
		0x01, "version\x00", "7\x00",
		0x00, "stats\x00",
		0x00, "1\x00",
		0x01, "type\x00", "4\x00",
		0x02, "bit\x00", []byte{0x1f, 0x00, 0x00, 0x00},
		0x08,
		0x08,
		0x08,
		0x08,
	)
}

func TestDecode(t *testing.T) {
	root, err := Decode(sampleDoc())
	require.NoError(t, err)

	require.Equal(t, []string{"480"}, root.Keys())
	game := root.Child("480")
	require.NotNil(t, game)

	name, ok := game.GetString("gamename")
	assert.True(t, ok)
	assert.Equal(t, "Spacewar", name)

	block := game.Child("stats").Child("1")
	require.NotNil(t, block)

	bit, ok := block.Get("bit")
	require.True(t, ok)
	assert.Equal(t, KindInt32, bit.Kind)
	n, ok := bit.Int()
	assert.True(t, ok)
	assert.Equal(t, int64(31), n)

	typ, _ := block.Get("type")
	assert.Equal(t, KindString, typ.Kind)
}

func TestEncode_RoundTripBytes(t *testing.T) {
	doc := sampleDoc()
	root, err := Decode(doc)
	require.NoError(t, err)
	assert.Equal(t, doc, Encode(root))
}

func TestEncode_PreservesDeclaredKinds(t *testing.T) {
	m := NewMap()
	m.EnsureChild("10").
		Set("s", String("5")).
		Set("i", Int32(5)).
		Set("neg", Int32(-2)).
		Set("u", Uint64(1<<40)).
		Set("l", Int64(-1<<40)).
		Set("f", Float32(1.5))

	got, err := Decode(Encode(m))
	require.NoError(t, err)
	require.True(t, m.Equal(got), "decoded tree differs from the encoded one")

	child := got.Child("10")
	for key, want := range map[string]Kind{
		"s": KindString, "i": KindInt32, "neg": KindInt32,
		"u": KindUint64, "l": KindInt64, "f": KindFloat32,
	} {
		v, ok := child.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, want, v.Kind, key)
	}
	neg, _ := child.Get("neg")
	n, _ := neg.Int()
	assert.Equal(t, int64(-2), n)
	f, _ := child.Get("f")
	assert.InDelta(t, 1.5, f.Float(), 0)
}

func TestEncode_EmptyRoot(t *testing.T) {
	assert.Equal(t, []byte{0x08}, Encode(NewMap()))

	got, err := Decode([]byte{0x08})
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestDecode_IgnoresTrailingBytes(t *testing.T) {
	doc := append(sampleDoc(), 0xde, 0xad)
	root, err := Decode(doc)
	require.NoError(t, err)
	assert.Equal(t, 1, root.Len())
}

func TestDecode_Malformed(t *testing.T) {
	doc := sampleDoc()
	tests := []struct {
		name string
		data []byte
	}{
		{"empty input", nil},
		{"unknown type tag", cat(0x00, "480\x00", 0x99, "x\x00", "y\x00", 0x08, 0x08)},
		{"unsupported wide string tag", cat(0x05, "k\x00", 0x08)},
		{"truncated mid-string", doc[:12]},
		{"truncated mid-key", cat(0x01, "gamen")},
		{"truncated int32", cat(0x02, "bit\x00", 0x01, 0x00)},
		{"truncated uint64", cat(0x07, "n\x00", 0x01, 0x02, 0x03)},
		{"missing map terminator", doc[:len(doc)-2]},
		{"missing root terminator", doc[:len(doc)-1]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.data)
			require.Error(t, err)
			assert.Nil(t, got, "no partial tree on failure")
			assert.True(t, errors.Is(err, ErrMalformedBinary), "error %v should match ErrMalformedBinary", err)

			var decErr *DecodeError
			require.True(t, errors.As(err, &decErr))
			assert.GreaterOrEqual(t, decErr.Offset, 0)
		})
	}
}

func TestDecode_UnknownTagOffset(t *testing.T) {
	data := cat(0x01, "a\x00", "b\x00", 0x99, "x\x00", 0x08)
	_, err := Decode(data)

	var decErr *DecodeError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, 5, decErr.Offset)
	assert.Contains(t, decErr.Reason, "0x99")
}

func TestDecode_DepthLimit(t *testing.T) {
	var buf bytes.Buffer
	for i := 0; i <= maxDepth+1; i++ {
		buf.WriteByte(0x00)
		buf.WriteString("n\x00")
	}
	_, err := Decode(buf.Bytes())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedBinary))
}

func TestMap_SetReplacesInPlace(t *testing.T) {
	m := NewMap()
	m.Set("a", String("1")).Set("b", String("2")).Set("a", Int32(3))

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	v, _ := m.Get("a")
	assert.Equal(t, KindInt32, v.Kind)

	assert.True(t, m.Delete("a"))
	assert.False(t, m.Delete("a"))
	assert.Equal(t, []string{"b"}, m.Keys())
}

func TestMap_CloneIsDeep(t *testing.T) {
	m := NewMap()
	m.EnsureChild("x").Set("k", String("v"))

	c := m.Clone()
	c.Child("x").Set("k", String("changed"))

	v, _ := m.Child("x").GetString("k")
	assert.Equal(t, "v", v)
}

func TestMap_MarshalJSONKeepsOrder(t *testing.T) {
	m := NewMap()
	m.Set("z", String("last")).Set("a", Int32(1))
	m.EnsureChild("m").Set("f", Float32(0.5))

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"z":"last","a":1,"m":{"f":0.5}}`, string(data))
}

func TestMap_YAMLNode(t *testing.T) {
	m := NewMap()
	m.Set("name", String("Spacewar")).Set("bit", Int32(3))

	out, err := yaml.Marshal(m.YAMLNode())
	require.NoError(t, err)
	assert.Equal(t, "name: Spacewar\nbit: 3\n", string(out))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "int32", KindInt32.String())
	assert.Equal(t, "0x99", Kind(0x99).String())
}
