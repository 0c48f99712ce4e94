package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is a parsed definition file:
//
//	types:
//	  Person:
//	    fields:
//	      _id:     {type: id, generate: true, unique: true}
//	      name:    {type: string, required: true, pattern: "^[A-Z]"}
//	      status:  {type: string, enum: [active, retired]}
//	      age:     {type: int32, optional: true, min: 0}
//	      friends: {type: Person, array: true, optional: true}
//
// Types and fields keep their declaration order.
type File struct {
	Types []TypeDef
}

// TypeDef is one record type.
type TypeDef struct {
	Name   string
	Fields []FieldDef
}

// FieldDef is one field of a record type.
type FieldDef struct {
	Name     string
	Type     string   `yaml:"type"`
	Array    bool     `yaml:"array"`
	Optional bool     `yaml:"optional"`
	Required bool     `yaml:"required"`
	Unique   bool     `yaml:"unique"`
	Index    bool     `yaml:"index"`
	Generate bool     `yaml:"generate"`
	Enum     []string `yaml:"enum"`
	Pattern  string   `yaml:"pattern"`
	Min      *float64 `yaml:"min"`
	Max      *float64 `yaml:"max"`
}

type rawFile struct {
	Types yaml.Node `yaml:"types"`
}

type rawType struct {
	Fields yaml.Node `yaml:"fields"`
}

// Parse reads a definition file from r.
func Parse(r io.Reader) (*File, error) {
	var raw rawFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("schemafile: empty definition file")
		}
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	if raw.Types.Kind != yaml.MappingNode {
		return nil, errors.New("schemafile: types must be a mapping")
	}
	f := &File{}
	err := eachPair(&raw.Types, func(name string, n *yaml.Node) error {
		var rt rawType
		if err := n.Decode(&rt); err != nil {
			return fmt.Errorf("schemafile: type %q: %w", name, err)
		}
		td := TypeDef{Name: name}
		if rt.Fields.Kind != yaml.MappingNode {
			return fmt.Errorf("schemafile: type %q: fields must be a mapping", name)
		}
		err := eachPair(&rt.Fields, func(field string, fn *yaml.Node) error {
			var fd FieldDef
			if err := fn.Decode(&fd); err != nil {
				return fmt.Errorf("schemafile: type %q field %q: %w", name, field, err)
			}
			fd.Name = field
			td.Fields = append(td.Fields, fd)
			return nil
		})
		if err != nil {
			return err
		}
		f.Types = append(f.Types, td)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ParseBytes is Parse over a byte slice.
func ParseBytes(b []byte) (*File, error) { return Parse(bytes.NewReader(b)) }

// Load parses and compiles the definition file at path.
func Load(path string) (*Registry, Diag, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	f, err := ParseBytes(b)
	if err != nil {
		return nil, nil, err
	}
	return Compile(f)
}

// eachPair visits the pairs of a mapping node in order, rejecting duplicate keys.
func eachPair(m *yaml.Node, fn func(key string, v *yaml.Node) error) error {
	seen := map[string]bool{}
	for i := 0; i+1 < len(m.Content); i += 2 {
		k := m.Content[i]
		if seen[k.Value] {
			return fmt.Errorf("schemafile: line %d: duplicate key %q", k.Line, k.Value)
		}
		seen[k.Value] = true
		if err := fn(k.Value, m.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}
