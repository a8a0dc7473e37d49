// Package serial is the standard serializer for blockly workspaces.
//
// It snapshots block subtrees into msgpack-encoded State values and
// rebuilds them, implementing the blockly.Serializer interface the core
// consumes for placeholder templates and event payloads:
//
//	ws := blockly.NewWorkspace(
//	    blockly.WithResolver(registry.Standard()),
//	    blockly.WithSerializer(serial.Codec{}),
//	)
//
// # State
//
// A State records a block's type, fields, and occupied slots, each slot
// carrying its occupant subtree and any placeholder template (itself an
// encoded State). Two capture modes exist: event payloads keep block ids
// so history replay restores the same ids, while placeholder templates
// strip them so every respawn mints fresh ones.
//
// # Loading
//
// SaveWorkspace and LoadWorkspace move whole workspaces. Loading rebuilds
// trees through the ordinary connection protocol with event delivery
// disabled, so a load is silent and not undoable. Per-connection
// compatibility tag overrides made with SetTags are not part of the state;
// tags always come back from the block type definition.
package serial
