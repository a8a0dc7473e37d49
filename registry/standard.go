package registry

import "github.com/codiplaykz/blockly"

// Tag names used by the standard vocabulary.
const (
	TagNumber  = "Number"
	TagBoolean = "Boolean"
	TagString  = "String"
)

// Standard returns a registry preloaded with the common editor vocabulary:
// literals, arithmetic and logic expressions, control flow, variables, and
// text output. The codegen package ships emitters for every type in it.
func Standard() *Registry {
	r := New()
	for _, bt := range standardTypes() {
		// Static definitions validate by construction.
		if err := r.Register(bt); err != nil {
			panic(err)
		}
	}
	return r
}

func standardTypes() []*blockly.BlockType {
	return []*blockly.BlockType{
		MustBuild(Type("math_number").
			Output(TagNumber).
			Field("NUM", "0")),
		MustBuild(Type("math_arithmetic").
			Output(TagNumber).
			Field("OP", "ADD").
			ValueInput("A", TagNumber).
			ValueInput("B", TagNumber)),
		MustBuild(Type("logic_compare").
			Output(TagBoolean).
			Field("OP", "EQ").
			ValueInput("A").
			ValueInput("B")),
		MustBuild(Type("logic_boolean").
			Output(TagBoolean).
			Field("BOOL", "TRUE")),
		MustBuild(Type("controls_if").
			Previous().
			Next().
			ValueInput("IF0", TagBoolean).
			StatementInput("DO0").
			StatementInput("ELSE")),
		MustBuild(Type("controls_repeat").
			Previous().
			Next().
			ValueInput("TIMES", TagNumber).
			StatementInput("DO")),
		MustBuild(Type("variables_get").
			Output().
			Field("VAR", "item")),
		MustBuild(Type("variables_set").
			Previous().
			Next().
			Field("VAR", "item").
			ValueInput("VALUE")),
		MustBuild(Type("text").
			Output(TagString).
			Field("TEXT", "")),
		MustBuild(Type("text_print").
			Previous().
			Next().
			ValueInput("TEXT")),
	}
}
