package header

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Gianuzzi/DeepSpyce/pkg/codec"
	"gopkg.in/yaml.v3"
)

// MarshalJSON renders the header as a JSON object in wire order.
func (h *Header) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range h.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v := e.Value.Interface()
		if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			v = e.Value.String()
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML renders the header as a YAML mapping in wire order.
func (h *Header) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range h.Entries() {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key}
		val := &yaml.Node{Kind: yaml.ScalarNode}
		switch e.Value.Kind() {
		case codec.KindInteger:
			val.Tag = "!!int"
		case codec.KindFloat:
			val.Tag = "!!float"
		case codec.KindText:
			val.Tag = "!!str"
		default:
			val.Tag = "!!null"
		}
		val.Value = e.Value.String()
		switch e.Value.Kind() {
		case codec.KindFloat:
			val.Value = yamlFloat(e.Value.Float())
		case codec.KindNull:
			val.Value = "null"
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}

func yamlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// UnmarshalYAML reads a YAML mapping of scalars, keeping document order.
// Integers become Integer values, other numbers Float, strings Text and
// null Null.
func (h *Header) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("header: expected a mapping, got yaml kind %d", node.Kind)
	}
	out := New()
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("header: value of %q is not a scalar", k.Value)
		}
		var raw any
		if err := v.Decode(&raw); err != nil {
			return fmt.Errorf("header: value of %q: %w", k.Value, err)
		}
		val, ok := codec.ValueOf(raw)
		if !ok {
			// bools and timestamps have no wire representation; keep the text
			val = codec.Text(v.Value)
		}
		out.Set(k.Value, val)
	}
	*h = *out
	return nil
}
