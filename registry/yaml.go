package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/codiplaykz/blockly"
)

// YAML document shape for definition files.
type fileSpec struct {
	Blocks []blockSpec `yaml:"blocks"`
}

type blockSpec struct {
	Name     string      `yaml:"name"`
	Output   *checkSpec  `yaml:"output"`
	Previous *checkSpec  `yaml:"previous"`
	Next     *checkSpec  `yaml:"next"`
	Inputs   []inputSpec `yaml:"inputs"`
	Fields   []fieldSpec `yaml:"fields"`
}

type checkSpec struct {
	Tags []string `yaml:"tags"`
}

type inputSpec struct {
	Name string   `yaml:"name"`
	Kind string   `yaml:"kind"`
	Tags []string `yaml:"tags"`
}

type fieldSpec struct {
	Name    string `yaml:"name"`
	Default string `yaml:"default"`
}

// LoadFile reads a YAML definition file and registers every block type in
// it. A file that fails to parse or validate registers nothing.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("registry: read %s: %w", path, err)
	}
	return r.loadYAML(data, path)
}

// LoadDir loads every .yaml and .yml file directly inside dir, in name
// order.
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("registry: read dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !isYAML(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	for _, f := range files {
		if err := r.LoadFile(f); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) loadYAML(data []byte, src string) error {
	var spec fileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return fmt.Errorf("registry: parse %s: %w", src, err)
	}
	types := make([]*blockly.BlockType, 0, len(spec.Blocks))
	for _, bs := range spec.Blocks {
		bt, err := bs.blockType()
		if err != nil {
			return fmt.Errorf("registry: %s: %w", src, err)
		}
		if err := bt.Validate(); err != nil {
			return fmt.Errorf("registry: %s: %w", src, err)
		}
		types = append(types, bt)
	}
	// Register only after the whole file checked out.
	for _, bt := range types {
		if err := r.Register(bt); err != nil {
			return err
		}
	}
	return nil
}

func (bs blockSpec) blockType() (*blockly.BlockType, error) {
	bt := &blockly.BlockType{Name: bs.Name}
	if bs.Output != nil {
		bt.Output = &blockly.CheckSpec{Tags: bs.Output.Tags}
	}
	if bs.Previous != nil {
		bt.Previous = &blockly.CheckSpec{Tags: bs.Previous.Tags}
	}
	if bs.Next != nil {
		bt.Next = &blockly.CheckSpec{Tags: bs.Next.Tags}
	}
	for _, in := range bs.Inputs {
		kind, err := inputKind(in.Kind)
		if err != nil {
			return nil, fmt.Errorf("block %q input %q: %w", bs.Name, in.Name, err)
		}
		bt.Inputs = append(bt.Inputs, blockly.InputSpec{Name: in.Name, Kind: kind, Tags: in.Tags})
	}
	for _, f := range bs.Fields {
		bt.Fields = append(bt.Fields, blockly.FieldSpec{Name: f.Name, Default: f.Default})
	}
	return bt, nil
}

func inputKind(s string) (blockly.Kind, error) {
	switch s {
	case "value":
		return blockly.InputValue, nil
	case "statement":
		return blockly.NextStatement, nil
	default:
		return 0, fmt.Errorf("unknown input kind %q, want value or statement", s)
	}
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
