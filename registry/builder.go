package registry

import (
	"fmt"

	"github.com/codiplaykz/blockly"
)

// Builder assembles a block type definition through chained calls. Use
// Type to start one and Build to finish it.
type Builder struct {
	bt  blockly.BlockType
	err error
}

// Type starts a builder for a block type with the given name.
func Type(name string) *Builder {
	return &Builder{bt: blockly.BlockType{Name: name}}
}

// Output declares an output connection accepting the given tags; no tags
// means "accepts anything".
func (b *Builder) Output(tags ...string) *Builder {
	if b.bt.Output != nil {
		b.fail("output declared twice")
	}
	b.bt.Output = &blockly.CheckSpec{Tags: cloneTags(tags)}
	return b
}

// Previous declares a previous-statement connection.
func (b *Builder) Previous(tags ...string) *Builder {
	if b.bt.Previous != nil {
		b.fail("previous declared twice")
	}
	b.bt.Previous = &blockly.CheckSpec{Tags: cloneTags(tags)}
	return b
}

// Next declares a next-statement connection.
func (b *Builder) Next(tags ...string) *Builder {
	if b.bt.Next != nil {
		b.fail("next declared twice")
	}
	b.bt.Next = &blockly.CheckSpec{Tags: cloneTags(tags)}
	return b
}

// ValueInput declares a named expression slot.
func (b *Builder) ValueInput(name string, tags ...string) *Builder {
	b.bt.Inputs = append(b.bt.Inputs, blockly.InputSpec{
		Name: name,
		Kind: blockly.InputValue,
		Tags: cloneTags(tags),
	})
	return b
}

// StatementInput declares a named nested statement slot.
func (b *Builder) StatementInput(name string, tags ...string) *Builder {
	b.bt.Inputs = append(b.bt.Inputs, blockly.InputSpec{
		Name: name,
		Kind: blockly.NextStatement,
		Tags: cloneTags(tags),
	})
	return b
}

// Field declares a named field with its default value.
func (b *Builder) Field(name, def string) *Builder {
	b.bt.Fields = append(b.bt.Fields, blockly.FieldSpec{Name: name, Default: def})
	return b
}

// Build validates and returns the definition.
func (b *Builder) Build() (*blockly.BlockType, error) {
	if b.err != nil {
		return nil, b.err
	}
	bt := b.bt
	if err := bt.Validate(); err != nil {
		return nil, err
	}
	return &bt, nil
}

// MustBuild is Build panicking on error, for static vocabularies.
func MustBuild(b *Builder) *blockly.BlockType {
	bt, err := b.Build()
	if err != nil {
		panic(err)
	}
	return bt
}

func (b *Builder) fail(msg string) {
	if b.err == nil {
		b.err = fmt.Errorf("registry: block type %q: %s", b.bt.Name, msg)
	}
}

func cloneTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
