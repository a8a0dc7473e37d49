package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/codiplaykz/blockly"
	"github.com/codiplaykz/blockly/registry"
)

// EmitterFunc renders one block as Go code. Statement blocks return a full
// statement, value blocks an expression.
type EmitterFunc func(e *Emitter, b *blockly.Block) (jen.Code, error)

// Emitter is the per-file emission context handed to every EmitterFunc. It
// carries the recursion helpers and the function-scoped state: hoisted
// variables and the loop counter.
type Emitter struct {
	gen   *Generator
	loops int
	vars  *varScope
}

// Emit renders a single block through its registered emitter.
func (e *Emitter) Emit(b *blockly.Block) (jen.Code, error) {
	fn, ok := e.gen.emitters[b.Type()]
	if !ok {
		return nil, newEmitError(b, "", "", ErrNoEmitter)
	}
	return fn(e, b)
}

// Value renders the expression attached to the named value input.
// An empty slot is an error: every built-in consumer needs its operands.
func (e *Emitter) Value(b *blockly.Block, input string) (jen.Code, error) {
	in := b.Input(input)
	if in == nil || in.TargetBlock() == nil {
		return nil, newEmitError(b, input, "", ErrEmptyInput)
	}
	return e.Emit(in.TargetBlock())
}

// Statements renders the stack nested under the named statement input.
// An unoccupied input yields an empty body.
func (e *Emitter) Statements(b *blockly.Block, input string) ([]jen.Code, error) {
	in := b.Input(input)
	if in == nil || in.TargetBlock() == nil {
		return nil, nil
	}
	return e.chain(in.TargetBlock())
}

// Field returns the named field value.
func (e *Emitter) Field(b *blockly.Block, name string) (string, error) {
	v, ok := b.Field(name)
	if !ok {
		return "", newEmitError(b, "", name, blockly.ErrUnknownField)
	}
	return v, nil
}

// LoopVar hands out the next free loop variable name: i, j, k, then i4
// onward.
func (e *Emitter) LoopVar() string {
	e.loops++
	switch e.loops {
	case 1:
		return "i"
	case 2:
		return "j"
	case 3:
		return "k"
	}
	return "i" + strconv.Itoa(e.loops)
}

// VarIdent derives the Go identifier used for a workspace variable name.
// Custom emitters that touch variables should go through it so they agree
// with the hoisted declarations.
func (e *Emitter) VarIdent(name string) string {
	return localIdent(name)
}

// stack renders one top-level stack as a function body: hoisted variable
// declarations first, then the statement chain.
func (e *Emitter) stack(root *blockly.Block) ([]jen.Code, error) {
	e.loops = 0
	e.vars = &varScope{types: make(map[string]string)}
	e.scanVars(root)

	var out []jen.Code
	for _, id := range e.vars.order {
		out = append(out, jen.Var().Id(id).Id(e.vars.types[id]))
		// Assignment alone does not count as use.
		out = append(out, jen.Id("_").Op("=").Id(id))
	}
	body, err := e.chain(root)
	if err != nil {
		return nil, err
	}
	return append(out, body...), nil
}

// chain renders a block and everything below it on the next chain.
func (e *Emitter) chain(b *blockly.Block) ([]jen.Code, error) {
	var out []jen.Code
	for cur := b; cur != nil; cur = cur.NextBlock() {
		code, err := e.Emit(cur)
		if err != nil {
			return nil, err
		}
		out = append(out, code)
	}
	return out, nil
}

// varScope tracks the variables a function touches, in first-use order.
type varScope struct {
	order []string
	types map[string]string
}

func (s *varScope) record(ident, typ string) {
	if cur, ok := s.types[ident]; ok {
		if cur == "any" && typ != "any" {
			s.types[ident] = typ
		}
		return
	}
	s.order = append(s.order, ident)
	s.types[ident] = typ
}

// scanVars collects every variable the standard variables_get and
// variables_set blocks reference below root, inferring each one's Go type
// from the compatibility tags of the value wired to it.
func (e *Emitter) scanVars(root *blockly.Block) {
	for _, b := range root.Descendants() {
		switch b.Type() {
		case "variables_set":
			raw, ok := b.Field("VAR")
			if !ok {
				continue
			}
			typ := "any"
			if in := b.Input("VALUE"); in != nil {
				if vb := in.TargetBlock(); vb != nil && vb.OutputConnection() != nil {
					typ = goTypeForTags(vb.OutputConnection().Tags())
				}
			}
			e.vars.record(localIdent(raw), typ)
		case "variables_get":
			raw, ok := b.Field("VAR")
			if !ok {
				continue
			}
			typ := "any"
			if out := b.OutputConnection(); out != nil && out.Target() != nil {
				typ = goTypeForTags(out.Target().Tags())
			}
			e.vars.record(localIdent(raw), typ)
		}
	}
}

// goTypeForTags maps a standard compatibility tag to a Go type. Untagged
// and multi-tagged connections fall back to any.
func goTypeForTags(tags []string) string {
	if len(tags) != 1 {
		return "any"
	}
	switch tags[0] {
	case registry.TagNumber:
		return "float64"
	case registry.TagBoolean:
		return "bool"
	case registry.TagString:
		return "string"
	default:
		return "any"
	}
}

func builtinEmitters() map[string]EmitterFunc {
	return map[string]EmitterFunc{
		"math_number":     emitNumber,
		"math_arithmetic": emitArithmetic,
		"logic_compare":   emitCompare,
		"logic_boolean":   emitBoolean,
		"controls_if":     emitIf,
		"controls_repeat": emitRepeat,
		"variables_get":   emitVarGet,
		"variables_set":   emitVarSet,
		"text":            emitText,
		"text_print":      emitPrint,
	}
}

func emitNumber(e *Emitter, b *blockly.Block) (jen.Code, error) {
	raw, err := e.Field(b, "NUM")
	if err != nil {
		return nil, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, newEmitError(b, "", "NUM", fmt.Errorf("%w: %q is not a number", ErrBadField, raw))
	}
	return jen.Lit(f), nil
}

var arithmeticOps = map[string]string{
	"ADD":      "+",
	"MINUS":    "-",
	"MULTIPLY": "*",
	"DIVIDE":   "/",
}

func emitArithmetic(e *Emitter, b *blockly.Block) (jen.Code, error) {
	op, err := e.Field(b, "OP")
	if err != nil {
		return nil, err
	}
	left, err := e.Value(b, "A")
	if err != nil {
		return nil, err
	}
	right, err := e.Value(b, "B")
	if err != nil {
		return nil, err
	}
	if op == "POWER" {
		return jen.Qual("math", "Pow").Call(left, right), nil
	}
	sym, ok := arithmeticOps[op]
	if !ok {
		return nil, newEmitError(b, "", "OP", fmt.Errorf("%w: unknown operator %q", ErrBadField, op))
	}
	return jen.Parens(jen.Add(left).Op(sym).Add(right)), nil
}

var compareOps = map[string]string{
	"EQ":  "==",
	"NEQ": "!=",
	"LT":  "<",
	"LTE": "<=",
	"GT":  ">",
	"GTE": ">=",
}

func emitCompare(e *Emitter, b *blockly.Block) (jen.Code, error) {
	op, err := e.Field(b, "OP")
	if err != nil {
		return nil, err
	}
	sym, ok := compareOps[op]
	if !ok {
		return nil, newEmitError(b, "", "OP", fmt.Errorf("%w: unknown operator %q", ErrBadField, op))
	}
	left, err := e.Value(b, "A")
	if err != nil {
		return nil, err
	}
	right, err := e.Value(b, "B")
	if err != nil {
		return nil, err
	}
	return jen.Parens(jen.Add(left).Op(sym).Add(right)), nil
}

func emitBoolean(e *Emitter, b *blockly.Block) (jen.Code, error) {
	raw, err := e.Field(b, "BOOL")
	if err != nil {
		return nil, err
	}
	switch raw {
	case "TRUE":
		return jen.True(), nil
	case "FALSE":
		return jen.False(), nil
	}
	return nil, newEmitError(b, "", "BOOL", fmt.Errorf("%w: %q is not a boolean", ErrBadField, raw))
}

func emitIf(e *Emitter, b *blockly.Block) (jen.Code, error) {
	cond, err := e.Value(b, "IF0")
	if err != nil {
		return nil, err
	}
	body, err := e.Statements(b, "DO0")
	if err != nil {
		return nil, err
	}
	els, err := e.Statements(b, "ELSE")
	if err != nil {
		return nil, err
	}
	stmt := jen.If(cond).Block(body...)
	if len(els) > 0 {
		stmt = stmt.Else().Block(els...)
	}
	return stmt, nil
}

func emitRepeat(e *Emitter, b *blockly.Block) (jen.Code, error) {
	times, err := e.Value(b, "TIMES")
	if err != nil {
		return nil, err
	}
	// Claim the counter before emitting the body so outer loops get the
	// earlier names.
	v := e.LoopVar()
	body, err := e.Statements(b, "DO")
	if err != nil {
		return nil, err
	}
	// Number values are float64 end to end, so the counter is one too.
	return jen.For(
		jen.Id(v).Op(":=").Lit(0.0),
		jen.Id(v).Op("<").Add(times),
		jen.Id(v).Op("++"),
	).Block(body...), nil
}

func emitVarGet(e *Emitter, b *blockly.Block) (jen.Code, error) {
	raw, err := e.Field(b, "VAR")
	if err != nil {
		return nil, err
	}
	return jen.Id(localIdent(raw)), nil
}

func emitVarSet(e *Emitter, b *blockly.Block) (jen.Code, error) {
	raw, err := e.Field(b, "VAR")
	if err != nil {
		return nil, err
	}
	val, err := e.Value(b, "VALUE")
	if err != nil {
		return nil, err
	}
	return jen.Id(localIdent(raw)).Op("=").Add(val), nil
}

func emitText(e *Emitter, b *blockly.Block) (jen.Code, error) {
	raw, err := e.Field(b, "TEXT")
	if err != nil {
		return nil, err
	}
	return jen.Lit(raw), nil
}

func emitPrint(e *Emitter, b *blockly.Block) (jen.Code, error) {
	val, err := e.Value(b, "TEXT")
	if err != nil {
		return nil, err
	}
	return jen.Qual("fmt", "Println").Call(val), nil
}
