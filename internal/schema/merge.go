package schema

import (
	"strconv"

	"github.com/thoreinstein/slsah/internal/vdf"
)

// Merge folds src into a copy of dst and returns the copy; neither input is
// modified. A map in src is merged recursively into the map at the same key
// in dst, which is created if missing. A scalar in src replaces whatever dst
// holds at that key. When dst already holds a scalar there, the new value is
// written in dst's wire type if it converts exactly, so a field the Steam
// client stored as int32 stays int32. Keys only present in dst are kept, so
// merging never deletes and Merge(s, Merge(s, d)) equals Merge(s, d).
func Merge(src, dst *vdf.Map) *vdf.Map {
	out := dst.Clone()
	if out == nil {
		out = vdf.NewMap()
	}
	mergeInto(src, out)
	return out
}

func mergeInto(src, dst *vdf.Map) {
	for _, e := range src.Entries() {
		if e.Value.IsMap() {
			mergeInto(e.Value.Map(), dst.EnsureChild(e.Key))
			continue
		}
		v := e.Value
		if prev, ok := dst.Get(e.Key); ok && !prev.IsMap() && prev.Kind != v.Kind {
			if conv, ok := convert(v, prev.Kind); ok {
				v = conv
			}
		}
		dst.Set(e.Key, v)
	}
}

// convert re-encodes a scalar as kind. It fails when the text form does not
// parse as kind or would lose precision.
func convert(v vdf.Value, kind vdf.Kind) (vdf.Value, bool) {
	s := v.Text()
	switch kind {
	case vdf.KindString:
		return vdf.String(s), true
	case vdf.KindInt32:
		n, err := strconv.ParseInt(s, 10, 32)
		return vdf.Int32(int32(n)), err == nil
	case vdf.KindInt64:
		n, err := strconv.ParseInt(s, 10, 64)
		return vdf.Int64(n), err == nil
	case vdf.KindUint64:
		n, err := strconv.ParseUint(s, 10, 64)
		return vdf.Uint64(n), err == nil
	case vdf.KindFloat32:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil || strconv.FormatFloat(f, 'g', -1, 32) != s {
			return vdf.Value{}, false
		}
		return vdf.Float32(float32(f)), true
	default:
		return vdf.Value{}, false
	}
}
