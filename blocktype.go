package blockly

import "fmt"

// BlockType describes the shape of a block: which connections it exposes,
// the compatibility tags on each, its named inputs, and its fields.
// Definitions are usually built through the registry package and handed to
// a workspace via its type resolver.
type BlockType struct {
	// Name is the type name blocks of this shape are created under.
	Name string

	// Output declares an output connection; nil means none.
	Output *CheckSpec

	// Previous declares a previous-statement connection; nil means none.
	// A type may declare Output or Previous, never both.
	Previous *CheckSpec

	// Next declares a next-statement connection; nil means none.
	Next *CheckSpec

	// Inputs declares the block's named slots, in display order.
	Inputs []InputSpec

	// Fields declares the block's editable values, in display order.
	Fields []FieldSpec
}

// CheckSpec declares the compatibility tags of a connection. A nil Tags
// set accepts anything.
type CheckSpec struct {
	Tags []string
}

// InputSpec declares one named slot. Kind must be InputValue or
// NextStatement.
type InputSpec struct {
	Name string
	Kind Kind
	Tags []string
}

// FieldSpec declares one editable field and its default value.
type FieldSpec struct {
	Name    string
	Default string
}

// Validate reports whether the definition is internally consistent.
func (bt *BlockType) Validate() error {
	if bt.Name == "" {
		return fmt.Errorf("blockly: block type has no name")
	}
	if bt.Output != nil && bt.Previous != nil {
		return fmt.Errorf("blockly: block type %q declares both an output and a previous connection", bt.Name)
	}
	seen := make(map[string]bool, len(bt.Inputs))
	for _, in := range bt.Inputs {
		if in.Name == "" {
			return fmt.Errorf("blockly: block type %q has an unnamed input", bt.Name)
		}
		if seen[in.Name] {
			return fmt.Errorf("blockly: block type %q declares input %q twice", bt.Name, in.Name)
		}
		seen[in.Name] = true
		if in.Kind != InputValue && in.Kind != NextStatement {
			return fmt.Errorf("blockly: block type %q input %q has kind %s, want input or next", bt.Name, in.Name, in.Kind)
		}
	}
	fields := make(map[string]bool, len(bt.Fields))
	for _, f := range bt.Fields {
		if f.Name == "" {
			return fmt.Errorf("blockly: block type %q has an unnamed field", bt.Name)
		}
		if fields[f.Name] {
			return fmt.Errorf("blockly: block type %q declares field %q twice", bt.Name, f.Name)
		}
		fields[f.Name] = true
	}
	return nil
}

// TypeResolver resolves block type names to definitions. The registry
// package provides the standard implementation; a workspace needs one only
// to create blocks by name.
type TypeResolver interface {
	// ResolveType returns the definition registered under name, or an
	// error wrapping ErrUnknownType.
	ResolveType(name string) (*BlockType, error)
}

// ResolverFunc adapts a function to the TypeResolver interface.
type ResolverFunc func(name string) (*BlockType, error)

// ResolveType implements TypeResolver.
func (f ResolverFunc) ResolveType(name string) (*BlockType, error) {
	return f(name)
}
