package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codiplaykz/blockly"
	"github.com/codiplaykz/blockly/registry"
)

func TestRegisterAndResolve(t *testing.T) {
	t.Parallel()

	r := registry.New()
	bt, err := registry.Type("color_pick").
		Output("Colour").
		Field("COLOUR", "#ff0000").
		Build()
	require.NoError(t, err)
	require.NoError(t, r.Register(bt))

	got, err := r.ResolveType("color_pick")
	require.NoError(t, err)
	assert.Same(t, bt, got)
	assert.Equal(t, 1, r.Len())

	_, err = r.ResolveType("color_blend")
	require.Error(t, err)
	assert.ErrorIs(t, err, blockly.ErrUnknownType)
}

func TestRegisterReplaces(t *testing.T) {
	t.Parallel()

	r := registry.New()
	first := registry.MustBuild(registry.Type("greeting").Field("TEXT", "hi"))
	second := registry.MustBuild(registry.Type("greeting").Field("TEXT", "hello"))
	require.NoError(t, r.Register(first))
	require.NoError(t, r.Register(second))

	got, err := r.ResolveType("greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Fields[0].Default)
	assert.Equal(t, 1, r.Len())
}

func TestRegisterRejectsInvalid(t *testing.T) {
	t.Parallel()

	r := registry.New()
	err := r.Register(&blockly.BlockType{
		Name:     "confused",
		Output:   &blockly.CheckSpec{},
		Previous: &blockly.CheckSpec{},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declares both an output and a previous")
	assert.Zero(t, r.Len())
}

func TestDeregister(t *testing.T) {
	t.Parallel()

	r := registry.New()
	require.NoError(t, r.Register(registry.MustBuild(registry.Type("gone").Output())))
	r.Deregister("gone")
	r.Deregister("never_there")

	_, err := r.ResolveType("gone")
	assert.ErrorIs(t, err, blockly.ErrUnknownType)
	assert.Zero(t, r.Len())
}

func TestNamesSorted(t *testing.T) {
	t.Parallel()

	r := registry.New()
	for _, name := range []string{"zebra", "apple", "mango"} {
		require.NoError(t, r.Register(registry.MustBuild(registry.Type(name).Output())))
	}
	assert.Equal(t, []string{"apple", "mango", "zebra"}, r.Names())
}

func TestBuilder(t *testing.T) {
	t.Parallel()

	bt, err := registry.Type("robot_move").
		Previous("Robot").
		Next("Robot").
		ValueInput("SPEED", "Number").
		StatementInput("ON_DONE").
		Field("DIR", "FWD").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "robot_move", bt.Name)
	assert.Nil(t, bt.Output)
	assert.Equal(t, []string{"Robot"}, bt.Previous.Tags)
	assert.Equal(t, []string{"Robot"}, bt.Next.Tags)
	require.Len(t, bt.Inputs, 2)
	assert.Equal(t, blockly.InputValue, bt.Inputs[0].Kind)
	assert.Equal(t, []string{"Number"}, bt.Inputs[0].Tags)
	assert.Equal(t, blockly.NextStatement, bt.Inputs[1].Kind)
	assert.Nil(t, bt.Inputs[1].Tags)
	require.Len(t, bt.Fields, 1)
	assert.Equal(t, "FWD", bt.Fields[0].Default)
}

func TestBuilderErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		builder *registry.Builder
		errText string
	}{
		{
			name:    "unnamed_type",
			builder: registry.Type(""),
			errText: "has no name",
		},
		{
			name:    "output_declared_twice",
			builder: registry.Type("t").Output("A").Output("B"),
			errText: "output declared twice",
		},
		{
			name:    "previous_declared_twice",
			builder: registry.Type("t").Previous().Previous(),
			errText: "previous declared twice",
		},
		{
			name:    "next_declared_twice",
			builder: registry.Type("t").Next().Next(),
			errText: "next declared twice",
		},
		{
			name:    "output_and_previous",
			builder: registry.Type("t").Output().Previous(),
			errText: "declares both an output and a previous",
		},
		{
			name:    "unnamed_input",
			builder: registry.Type("t").ValueInput(""),
			errText: "unnamed input",
		},
		{
			name:    "duplicate_input",
			builder: registry.Type("t").ValueInput("A").StatementInput("A"),
			errText: `declares input "A" twice`,
		},
		{
			name:    "duplicate_field",
			builder: registry.Type("t").Field("X", "1").Field("X", "2"),
			errText: `declares field "X" twice`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.builder.Build()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestMustBuild(t *testing.T) {
	t.Parallel()

	bt := registry.MustBuild(registry.Type("fine").Output())
	assert.Equal(t, "fine", bt.Name)

	assert.Panics(t, func() {
		registry.MustBuild(registry.Type("broken").Output().Output())
	})
}

// TestStandardVocabulary pins the shipped editor vocabulary so codegen and
// examples can rely on it.
func TestStandardVocabulary(t *testing.T) {
	t.Parallel()

	r := registry.Standard()
	assert.Equal(t, []string{
		"controls_if",
		"controls_repeat",
		"logic_boolean",
		"logic_compare",
		"math_arithmetic",
		"math_number",
		"text",
		"text_print",
		"variables_get",
		"variables_set",
	}, r.Names())

	num, err := r.ResolveType("math_number")
	require.NoError(t, err)
	require.NotNil(t, num.Output)
	assert.Equal(t, []string{registry.TagNumber}, num.Output.Tags)
	assert.Equal(t, "0", num.Fields[0].Default)

	repeat, err := r.ResolveType("controls_repeat")
	require.NoError(t, err)
	assert.Nil(t, repeat.Output)
	require.NotNil(t, repeat.Previous)
	require.NotNil(t, repeat.Next)
	require.Len(t, repeat.Inputs, 2)
	assert.Equal(t, blockly.InputValue, repeat.Inputs[0].Kind)
	assert.Equal(t, []string{registry.TagNumber}, repeat.Inputs[0].Tags)
	assert.Equal(t, blockly.NextStatement, repeat.Inputs[1].Kind)

	get, err := r.ResolveType("variables_get")
	require.NoError(t, err)
	require.NotNil(t, get.Output)
	assert.Nil(t, get.Output.Tags)
}

func TestStandardResolvesForWorkspace(t *testing.T) {
	t.Parallel()

	w := blockly.NewWorkspace(blockly.WithResolver(registry.Standard()))
	expr, err := w.NewBlock("math_arithmetic")
	require.NoError(t, err)
	lit, err := w.NewBlock("math_number")
	require.NoError(t, err)
	require.NoError(t, expr.Input("A").Connection().Connect(lit.OutputConnection()))
	assert.Same(t, expr, lit.Parent())
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "colors.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
blocks:
  - name: color_pick
    output:
      tags: [Colour]
    fields:
      - name: COLOUR
        default: "#ff0000"
  - name: color_blend
    output:
      tags: [Colour]
    inputs:
      - name: A
        kind: value
        tags: [Colour]
      - name: DO
        kind: statement
`), 0o644))

	r := registry.New()
	require.NoError(t, r.LoadFile(path))
	assert.Equal(t, 2, r.Len())

	pick, err := r.ResolveType("color_pick")
	require.NoError(t, err)
	assert.Equal(t, []string{"Colour"}, pick.Output.Tags)
	assert.Equal(t, "#ff0000", pick.Fields[0].Default)

	blend, err := r.ResolveType("color_blend")
	require.NoError(t, err)
	require.Len(t, blend.Inputs, 2)
	assert.Equal(t, blockly.InputValue, blend.Inputs[0].Kind)
	assert.Equal(t, blockly.NextStatement, blend.Inputs[1].Kind)
}

func TestLoadFileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		errText string
	}{
		{
			name:    "not_yaml",
			yaml:    "blocks: [",
			errText: "parse",
		},
		{
			name: "unknown_input_kind",
			yaml: `
blocks:
  - name: oops
    inputs:
      - name: A
        kind: bogus
`,
			errText: "unknown input kind",
		},
		{
			name: "invalid_definition",
			yaml: `
blocks:
  - name: confused
    output: {}
    previous: {}
`,
			errText: "declares both an output and a previous",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "bad.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			r := registry.New()
			err := r.LoadFile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
			assert.Zero(t, r.Len())
		})
	}

	t.Run("missing_file", func(t *testing.T) {
		t.Parallel()

		r := registry.New()
		err := r.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read")
	})
}

// TestLoadFileAtomic checks that a file registers all of its blocks or none
// of them.
func TestLoadFileAtomic(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mixed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
blocks:
  - name: fine
    output: {}
  - name: broken
    inputs:
      - name: A
        kind: bogus
`), 0o644))

	r := registry.New()
	require.Error(t, r.LoadFile(path))
	assert.Zero(t, r.Len())
	_, err := r.ResolveType("fine")
	assert.ErrorIs(t, err, blockly.ErrUnknownType)
}

func TestLoadDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("10-base.yaml", `
blocks:
  - name: greeting
    fields:
      - name: TEXT
        default: hi
  - name: farewell
    fields:
      - name: TEXT
        default: bye
`)
	// Later files override earlier ones in name order.
	write("20-override.yml", `
blocks:
  - name: greeting
    fields:
      - name: TEXT
        default: hello
`)
	write("notes.txt", "not a definition file")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "sub", "nested.yaml"),
		[]byte("blocks:\n  - name: hidden\n"), 0o644))

	r := registry.New()
	require.NoError(t, r.LoadDir(dir))
	assert.Equal(t, []string{"farewell", "greeting"}, r.Names())

	greeting, err := r.ResolveType("greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", greeting.Fields[0].Default)
}

func TestLoadDirMissing(t *testing.T) {
	t.Parallel()

	r := registry.New()
	err := r.LoadDir(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read dir")
}
