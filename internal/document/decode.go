// ABOUTME: Order-preserving JSON and YAML decoders producing document Values
// ABOUTME: Object members keep source order so reports follow the file layout
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ErrEmptyDocument is returned when the input holds no value at all
var ErrEmptyDocument = errors.New("document is empty")

// ErrAliasExpansion is returned when YAML aliases expand to far more nodes
// than the source contains
var ErrAliasExpansion = errors.New("document expands aliases excessively")

// SyntaxError locates a JSON decoding failure in the input stream
type SyntaxError struct {
	Offset int64 // byte offset at which decoding stopped
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("offset %d: %v", e.Offset, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// maxDepth bounds nesting; it also stops alias cycles in YAML input
const maxDepth = 512

// DecodeJSON reads exactly one JSON value from r
func DecodeJSON(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeJSONValue(dec, 0)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, ErrEmptyDocument
		}
		return Value{}, &SyntaxError{Offset: dec.InputOffset(), Err: err}
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return Value{}, &SyntaxError{Offset: dec.InputOffset(), Err: err}
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder, depth int) (Value, error) {
	if depth > maxDepth {
		return Value{}, fmt.Errorf("document nesting exceeds %d levels", maxDepth)
	}

	tok, err := dec.Token()
	if err != nil {
		if depth > 0 && errors.Is(err, io.EOF) {
			return Value{}, io.ErrUnexpectedEOF
		}
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			var members []Member
			for dec.More() {
				keyTok, err := closingToken(dec)
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key at offset %d is not a string", dec.InputOffset())
				}
				val, err := decodeJSONValue(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				members = append(members, Member{Key: key, Value: val})
			}
			if _, err := closingToken(dec); err != nil {
				return Value{}, err
			}
			return Object(members...), nil
		case '[':
			items := []Value{}
			for dec.More() {
				val, err := decodeJSONValue(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				items = append(items, val)
			}
			if _, err := closingToken(dec); err != nil {
				return Value{}, err
			}
			return Value{kind: KindArray, items: items}, nil
		}
		return Value{}, fmt.Errorf("unexpected delimiter %q at offset %d", t, dec.InputOffset())
	case json.Number:
		return FromAny(t)
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

// closingToken reads a token that must exist inside an open container
func closingToken(dec *json.Decoder) (json.Token, error) {
	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, io.ErrUnexpectedEOF
	}
	return tok, err
}

// DecodeYAML reads the first YAML document from r. Aliases and merge keys
// are resolved; mapping keys must be scalars.
func DecodeYAML(r io.Reader) (Value, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, ErrEmptyDocument
		}
		return Value{}, err
	}
	root := &node
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return Value{}, ErrEmptyDocument
		}
		root = node.Content[0]
	}
	w := &yamlWalker{budget: aliasExpansionFactor*countYAMLNodes(root) + minExpansionBudget}
	return w.node(root, 0)
}

const (
	// Converted node count allowed per node written in the source
	aliasExpansionFactor = 64
	minExpansionBudget   = 10000
)

// yamlWalker converts a yaml.Node tree, following aliases. Each converted
// node spends one unit of budget so alias bombs fail instead of expanding.
type yamlWalker struct {
	budget int
}

// countYAMLNodes counts the nodes written in the source, not following aliases
func countYAMLNodes(n *yaml.Node) int {
	count := 1
	for _, c := range n.Content {
		count += countYAMLNodes(c)
	}
	return count
}

func (w *yamlWalker) node(n *yaml.Node, depth int) (Value, error) {
	if depth > maxDepth {
		return Value{}, fmt.Errorf("line %d: document nesting exceeds %d levels", n.Line, maxDepth)
	}
	w.budget--
	if w.budget < 0 {
		return Value{}, fmt.Errorf("line %d: %w", n.Line, ErrAliasExpansion)
	}

	switch n.Kind {
	case yaml.AliasNode:
		if n.Alias == nil {
			return Value{}, fmt.Errorf("line %d: unresolved alias %q", n.Line, n.Value)
		}
		return w.node(n.Alias, depth+1)
	case yaml.ScalarNode:
		return fromYAMLScalar(n)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := w.node(c, depth+1)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return Value{kind: KindArray, items: items}, nil
	case yaml.MappingNode:
		return w.mapping(n, depth)
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return w.node(n.Content[0], depth+1)
	}
	return Value{}, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
}

func fromYAMLScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return numberLiteral(n.Value, f), nil
	}
	// !!str, !!timestamp, !!binary and custom tags keep their source text
	return String(n.Value), nil
}

func (w *yamlWalker) mapping(n *yaml.Node, depth int) (Value, error) {
	var members []Member
	var merged []Member

	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valNode := n.Content[i], n.Content[i+1]

		if keyNode.ShortTag() == "!!merge" {
			m, err := w.node(valNode, depth+1)
			if err != nil {
				return Value{}, err
			}
			switch m.Kind() {
			case KindObject:
				merged = append(merged, m.members...)
			case KindArray:
				for _, item := range m.items {
					merged = append(merged, item.members...)
				}
			default:
				return Value{}, fmt.Errorf("line %d: merge value must be a mapping", keyNode.Line)
			}
			continue
		}

		if keyNode.Kind != yaml.ScalarNode {
			return Value{}, fmt.Errorf("line %d: mapping key must be a scalar", keyNode.Line)
		}
		val, err := w.node(valNode, depth+1)
		if err != nil {
			return Value{}, err
		}
		members = append(members, Member{Key: keyNode.Value, Value: val})
	}

	// Explicit keys win over merged ones
	if len(merged) > 0 {
		explicit := make(map[string]bool, len(members))
		for _, m := range members {
			explicit[m.Key] = true
		}
		for _, m := range merged {
			if !explicit[m.Key] {
				members = append(members, m)
			}
		}
	}
	return Object(members...), nil
}
