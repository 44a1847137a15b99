package base

import (
	"fmt"
	"strings"
)

// Type identifies a base type. The numeric values are part of the binary
// encoding and must not change.
type Type uint8

const (
	TypeUnknown Type = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeText
	TypePoint
)

// Kind classifies base types for bounding-box dispatch.
type Kind uint8

const (
	KindDiscrete Kind = iota + 1
	KindNumeric
	KindSpatial
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindDiscrete:
		return "discrete"
	case KindNumeric:
		return "numeric"
	case KindSpatial:
		return "spatial"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// traits is the static description of a base type.
type traits struct {
	name         string
	temporalName string
	kind         Kind
	continuous   bool
}

// traitTable is indexed by Type. It is a compile-time constant table and is
// never mutated.
var traitTable = [...]traits{
	TypeBool:  {name: "bool", temporalName: "tbool", kind: KindDiscrete},
	TypeInt:   {name: "int", temporalName: "tint", kind: KindNumeric},
	TypeFloat: {name: "float", temporalName: "tfloat", kind: KindNumeric, continuous: true},
	TypeText:  {name: "text", temporalName: "ttext", kind: KindDiscrete},
	TypePoint: {name: "point", temporalName: "tgeompoint", kind: KindSpatial, continuous: true},
}

// Valid reports whether t is a known base type.
func (t Type) Valid() bool {
	return t > TypeUnknown && int(t) < len(traitTable)
}

func (t Type) traits() traits {
	if !t.Valid() {
		panic(fmt.Sprintf("base: unknown type tag %d", uint8(t)))
	}
	return traitTable[t]
}

// Kind returns the bounding-box category of t.
func (t Type) Kind() Kind {
	return t.traits().kind
}

// Continuous reports whether values of t may be linearly interpolated.
func (t Type) Continuous() bool {
	return t.traits().continuous
}

// Name returns the base type name, e.g. "float".
func (t Type) Name() string {
	return t.traits().name
}

// TemporalName returns the name of the temporal type over t, e.g. "tfloat".
func (t Type) TemporalName() string {
	return t.traits().temporalName
}

// String returns the base type name, or a placeholder for unknown tags.
func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("type(%d)", uint8(t))
	}
	return traitTable[t].name
}

// Registry resolves type names to base types.
// Construct one with NewRegistry at startup and pass it to parsers and codecs.
type Registry struct {
	byName map[string]Type
	types  []Type
}

// NewRegistry returns a registry holding every built-in base type under both
// its base name and its temporal name.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]Type)}
	for t := TypeBool; int(t) < len(traitTable); t++ {
		tr := traitTable[t]
		r.byName[tr.name] = t
		r.byName[tr.temporalName] = t
		r.types = append(r.types, t)
	}
	r.byName["geompoint"] = TypePoint
	return r
}

// Lookup resolves a base or temporal type name, case-insensitively.
func (r *Registry) Lookup(name string) (Type, bool) {
	t, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// Types returns the registered base types in tag order.
func (r *Registry) Types() []Type {
	return append([]Type(nil), r.types...)
}
