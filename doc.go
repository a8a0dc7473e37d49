// Package blockly implements the connection graph protocol of a visual,
// block-based program editor: the rules by which program fragments
// ("blocks") attach to one another to form a forest of trees.
//
// The protocol maintains two invariants across every public operation:
// links are strictly reciprocal, and the block graph is a forest in which
// every block has at most one parent. Everything else in the package
// exists to keep those invariants through the cascades a single connect or
// disconnect can trigger: displaced blocks re-homed or orphaned,
// placeholder blocks dissolving and respawning from templates, and grouped
// event recording so a whole cascade undoes as one action.
//
// # Connections
//
// A Connection is a typed attachment point owned by one block. Its Kind
// fixes its role: InputValue and NextStatement connections sit on the
// parent side of a link ("superior"), OutputValue and PreviousStatement on
// the child side ("inferior"). Connect accepts the pair in either order
// and always routes the attach logic through the superior side:
//
//	child, _ := ws.NewBlock("math_number")
//	parent, _ := ws.NewBlock("math_arithmetic")
//	err := parent.Input("A").Connection().Connect(child.OutputConnection())
//
// A checker refusal is reported as an IncompatibleError carrying the
// checker's reason; TryConnect folds it into a bool for callers that do
// not care why.
//
// # Orphans and placeholders
//
// Connecting into an occupied slot displaces the occupant. A displaced
// placeholder is captured as the slot's new template and destroyed; a
// displaced ordinary block is re-homed onto the incoming chain when it has
// exactly one eligible slot there, and otherwise left parentless with a
// deferred bump notification scheduled on the workspace's Scheduler.
// Disconnecting a slot that carries a template respawns a fresh
// placeholder into it.
//
// # Events and undo
//
// Every mutation is recorded through the workspace's events.Recorder as
// pure data: Move, Create, Delete, and Change events. The outermost public
// call opens an event group that nested cascade calls share, and
// Workspace.Undo replays whole groups, so arbitrarily deep cascades are
// atomic from the undo system's point of view.
//
// # Collaborators
//
// The protocol consumes its collaborators as interfaces: Checker decides
// link compatibility (BasicChecker is the default policy), TypeResolver
// turns type names into BlockType definitions (implemented by the registry
// package), and Serializer snapshots and rebuilds block subtrees
// (implemented by the serial package). A workspace without a serializer
// supports everything except placeholder templates and state-carrying
// event payloads.
//
// All of it is single-threaded and synchronous. The only deferred work
// is the orphan bump notification, which runs on the deterministic
// Scheduler when the caller advances it.
package blockly
