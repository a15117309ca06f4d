package ir

import "fmt"

// Type discriminates the variants of a Node.
type Type int

const (
	NullType Type = iota
	BoolType
	NumberType
	StringType
	TimestampType
	ObjectType
	ArrayType
	SetType
)

var typeNames = map[Type]string{
	NullType:      "null",
	BoolType:      "bool",
	NumberType:    "number",
	StringType:    "string",
	TimestampType: "timestamp",
	ObjectType:    "object",
	ArrayType:     "array",
	SetType:       "set",
}

var namedTypes = func() map[string]Type {
	res := make(map[string]Type, len(typeNames))
	for t, n := range typeNames {
		res[n] = t
	}
	return res
}()

// Types returns all node types in rank order.
func Types() []Type {
	return []Type{
		NullType, BoolType, NumberType, StringType, TimestampType,
		ObjectType, ArrayType, SetType,
	}
}

func (t Type) String() string {
	n, ok := typeNames[t]
	if !ok {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return n
}

func (t Type) MarshalText() ([]byte, error) {
	n, ok := typeNames[t]
	if !ok {
		return nil, fmt.Errorf("%w: unknown type %d", errInternal, int(t))
	}
	return []byte(n), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	v, ok := namedTypes[string(d)]
	if !ok {
		return fmt.Errorf("%w: unknown type %q", errInternal, string(d))
	}
	*t = v
	return nil
}

// IsScalar indicates whether t is a leaf type carrying a single value.
func (t Type) IsScalar() bool {
	switch t {
	case ObjectType, ArrayType, SetType:
		return false
	}
	return true
}

// IsContainer indicates whether t holds child nodes.
func (t Type) IsContainer() bool {
	return !t.IsScalar()
}
