// Package codegen renders workspaces as Go source files.
//
// # Generation model
//
// Each top-level statement stack in a workspace becomes one function; the
// blocks chained through next connections become its statements, and the
// value trees plugged into their inputs become expressions. Top-level
// blocks that carry an output connection are loose expression scraps with
// no effect and are skipped. Variables referenced by the standard
// variables_get and variables_set blocks are hoisted to the top of the
// enclosing function, typed from the compatibility tags of the values
// wired to them.
//
// # Emitters
//
// Emission is driven by a registry of EmitterFunc keyed by block type name.
// A Generator starts with built-in emitters for the whole standard
// vocabulary (see the registry package) and accepts replacements or
// additions through Register. Emitter funcs receive the per-file Emitter
// context, which carries the recursion helpers Emit, Value, Statements,
// Field, and LoopVar.
//
// # Output
//
// Files are built with jennifer, which tracks imports as code is emitted,
// then verified and formatted through golang.org/x/tools/imports before
// they reach disk. WriteAll fans the per-workspace work out over an
// errgroup with a bounded worker count.
package codegen
