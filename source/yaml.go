package source

import (
	"errors"
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/reoring/bsonskema/value"
)

// ReadYAML reads every document of a multi-document YAML stream. Mappings keep
// their key order; aliases are expanded; Extended JSON wrappers are recognized
// as in JSON input.
func ReadYAML(r io.Reader) ([]value.Value, error) {
	dec := yaml.NewDecoder(r)
	var out []value.Value
	for {
		var node yaml.Node
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, err
		}
		v, err := FromYAMLNode(&node)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

// FromYAMLNode converts a decoded yaml.v3 node tree into a value.
func FromYAMLNode(n *yaml.Node) (value.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null{}, nil
		}
		return FromYAMLNode(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("source: line %d: dangling alias", n.Line)
		}
		return FromYAMLNode(n.Alias)
	case yaml.SequenceNode:
		out := make(value.Array, 0, len(n.Content))
		for i, c := range n.Content {
			v, err := FromYAMLNode(c)
			if err != nil {
				return nil, fmt.Errorf("%d: %w", i, err)
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		d := value.NewDocument()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, vn := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("source: line %d: mapping keys must be scalars", k.Line)
			}
			v, err := FromYAMLNode(vn)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k.Value, err)
			}
			d.Set(k.Value, v)
		}
		if v, ok, err := unwrap(d); ok || err != nil {
			return v, err
		}
		return d, nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	}
	return nil, fmt.Errorf("source: line %d: unsupported YAML node kind %d", n.Line, n.Kind)
}

func yamlScalar(n *yaml.Node) (value.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return value.Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return value.Boolean(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			// out of int64 range
			return numberFromText(n.Value)
		}
		if i >= math.MinInt32 && i <= math.MaxInt32 {
			return value.Int32(i), nil
		}
		return value.Int64(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return value.Double(f), nil
	}
	return value.String(n.Value), nil
}
