// Package registry manages block type definitions and resolves them for
// workspaces, implementing the blockly.TypeResolver interface.
//
// Definitions are built with a small chaining DSL:
//
//	bt, err := registry.Type("math_number").
//	    Output("Number").
//	    Field("NUM", "0").
//	    Build()
//
// or loaded from YAML files:
//
//	blocks:
//	  - name: controls_repeat
//	    previous: {}
//	    next: {}
//	    inputs:
//	      - {name: TIMES, kind: value, tags: [Number]}
//	      - {name: DO, kind: statement}
//
// A Registry is safe for concurrent use, so a Watcher can reload
// definition files in the background while workspaces resolve types.
// Standard returns a registry preloaded with the common vocabulary the
// codegen package knows how to emit.
package registry
