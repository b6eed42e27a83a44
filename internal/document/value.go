// ABOUTME: Tagged-variant value model for loosely-typed catalog documents
// ABOUTME: Kind-checked accessors let validators descend without panicking on shape mismatches
package document

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
)

// Kind identifies the runtime shape of a Value
type Kind int

const (
	// KindMissing is the kind of an absent field. Decoding never produces it.
	KindMissing Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindMissing: "missing",
	KindNull:    "null",
	KindBool:    "boolean",
	KindNumber:  "number",
	KindString:  "string",
	KindArray:   "array",
	KindObject:  "object",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Member is one key/value pair of an object, in document order
type Member struct {
	Key   string
	Value Value
}

// Value is an immutable node of a decoded document.
// The zero Value is a missing value.
type Value struct {
	kind    Kind
	str     string // string payload, or the source literal of a number
	num     float64
	b       bool
	items   []Value
	members []Member
	index   map[string]int
}

// Missing returns the value reported for absent fields
func Missing() Value { return Value{} }

// Null returns a JSON null
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String returns a string value
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric value
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f, str: strconv.FormatFloat(f, 'g', -1, 64)}
}

func numberLiteral(literal string, f float64) Value {
	return Value{kind: KindNumber, num: f, str: literal}
}

// Array returns an array holding a copy of items
func Array(items ...Value) Value {
	return Value{kind: KindArray, items: slices.Clone(items)}
}

// Object returns an object with the given members in order.
// A repeated key keeps its first position and takes the last value.
func Object(members ...Member) Value {
	v := Value{
		kind:    KindObject,
		members: make([]Member, 0, len(members)),
		index:   make(map[string]int, len(members)),
	}
	for _, m := range members {
		if i, ok := v.index[m.Key]; ok {
			v.members[i].Value = m.Value
			continue
		}
		v.index[m.Key] = len(v.members)
		v.members = append(v.members, m)
	}
	return v
}

// FromAny converts a decoded Go value (as produced by encoding/json or
// yaml.v3 into interface{}) into a Value. Map keys are sorted.
func FromAny(in any) (Value, error) {
	switch t := in.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return numberLiteral(t.String(), f), nil
	case float64:
		return Number(t), nil
	case float32:
		return Number(float64(t)), nil
	case int:
		return numberLiteral(strconv.Itoa(t), float64(t)), nil
	case int32:
		return numberLiteral(strconv.FormatInt(int64(t), 10), float64(t)), nil
	case int64:
		return numberLiteral(strconv.FormatInt(t, 10), float64(t)), nil
	case uint:
		return numberLiteral(strconv.FormatUint(uint64(t), 10), float64(t)), nil
	case uint64:
		return numberLiteral(strconv.FormatUint(t, 10), float64(t)), nil
	case []string:
		items := make([]Value, len(t))
		for i, s := range t {
			items[i] = String(s)
		}
		return Value{kind: KindArray, items: items}, nil
	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			v, err := FromAny(e)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = v
		}
		return Value{kind: KindArray, items: items}, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]Member, len(keys))
		for i, k := range keys {
			v, err := FromAny(t[k])
			if err != nil {
				return Value{}, fmt.Errorf("%q: %w", k, err)
			}
			members[i] = Member{Key: k, Value: v}
		}
		return Object(members...), nil
	case map[string]string:
		m := make(map[string]any, len(t))
		for k, s := range t {
			m[k] = s
		}
		return FromAny(m)
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", in)
	}
}

// MustFromAny is FromAny for literals known to be convertible
func MustFromAny(in any) Value {
	v, err := FromAny(in)
	if err != nil {
		panic(err)
	}
	return v
}

// Kind returns the runtime kind of v
func (v Value) Kind() Kind { return v.kind }

// Is reports whether v has kind k
func (v Value) Is(k Kind) bool { return v.kind == k }

// IsMissing reports whether v stands for an absent field
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Literal returns the source text of a number, or "" for other kinds
func (v Value) Literal() string {
	if v.kind != KindNumber {
		return ""
	}
	if v.str == "" {
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	}
	return v.str
}

// AsString returns the string payload when v is a string
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsNumber returns the numeric payload when v is a number
func (v Value) AsNumber() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Len returns the element count of an array or the member count of an
// object, and 0 for every other kind
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	}
	return 0
}

// Items returns a copy of the elements of an array, or nil
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return slices.Clone(v.items)
}

// Index returns element i of an array, or a missing value
func (v Value) Index(i int) Value {
	if v.kind != KindArray || i < 0 || i >= len(v.items) {
		return Value{}
	}
	return v.items[i]
}

// Members returns a copy of the members of an object in document order
func (v Value) Members() []Member {
	if v.kind != KindObject {
		return nil
	}
	return slices.Clone(v.members)
}

// Keys returns the member keys of an object in document order
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, len(v.members))
	for i, m := range v.members {
		keys[i] = m.Key
	}
	return keys
}

// Field looks up a member by key. Looking up an absent key, or any key on
// a value that is not an object, yields a missing value.
func (v Value) Field(name string) Value {
	if v.kind != KindObject {
		return Value{}
	}
	i, ok := v.index[name]
	if !ok {
		return Value{}
	}
	return v.members[i].Value
}

// Has reports whether v is an object with a member named name
func (v Value) Has(name string) bool {
	if v.kind != KindObject {
		return false
	}
	_, ok := v.index[name]
	return ok
}

// Interface converts v back into plain Go values: map[string]any, []any,
// string, float64, bool or nil. Missing values convert to nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindArray:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.members))
		for _, m := range v.members {
			out[m.Key] = m.Value.Interface()
		}
		return out
	}
	return nil
}

// Equal reports deep equality. Object member order is ignored.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.num == o.num || (math.IsNaN(v.num) && math.IsNaN(o.num))
	case KindString:
		return v.str == o.str
	case KindArray:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.members) != len(o.members) {
			return false
		}
		for _, m := range v.members {
			if !o.Has(m.Key) || !m.Value.Equal(o.Field(m.Key)) {
				return false
			}
		}
		return true
	}
	return true
}

// String renders v compactly for reports
func (v Value) String() string {
	switch v.kind {
	case KindMissing:
		return "<missing>"
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return v.Literal()
	case KindString:
		return strconv.Quote(v.str)
	}
	data, err := json.Marshal(v.Interface())
	if err != nil {
		return fmt.Sprintf("<%s>", v.kind)
	}
	return string(data)
}
