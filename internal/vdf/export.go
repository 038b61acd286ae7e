package vdf

import (
	"bytes"
	"encoding/json"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MarshalJSON renders m as a JSON object in wire order. Integers become JSON
// numbers and strings stay strings, so the declared kinds remain visible.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(e.Value.plain())
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// plain converts v to the Go value that best represents it in text formats.
// Nested maps stay *Map so their order survives MarshalJSON.
func (v Value) plain() any {
	switch v.Kind {
	case KindMap:
		return v.m
	case KindString:
		return v.str
	case KindInt32, KindInt64:
		n, _ := v.Int()
		return n
	case KindUint64:
		return v.num
	case KindFloat32:
		return v.Float()
	default:
		return nil
	}
}

// ToAny converts m to nested map[string]any. Order is lost; use it for
// encoders that sort keys anyway.
func (m *Map) ToAny() map[string]any {
	out := make(map[string]any, m.Len())
	for _, e := range m.Entries() {
		if e.Value.IsMap() {
			out[e.Key] = e.Value.m.ToAny()
			continue
		}
		out[e.Key] = e.Value.plain()
	}
	return out
}

// YAMLNode converts m to a yaml.v3 mapping node in wire order.
func (m *Map) YAMLNode() *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range m.Entries() {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key}
		var val *yaml.Node
		switch e.Value.Kind {
		case KindMap:
			val = e.Value.m.YAMLNode()
		case KindString:
			val = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Value.str}
		case KindFloat32:
			val = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float",
				Value: strconv.FormatFloat(float64(e.Value.Float()), 'g', -1, 32)}
		default:
			val = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: e.Value.Text()}
		}
		node.Content = append(node.Content, key, val)
	}
	return node
}
