// Package events records workspace mutations for undo/redo and change listeners.
//
// The block editor's connection protocol emits one event per logical mutation
// (a block moving to a new parent, a block being created or deleted, a field
// changing). Cascading operations such as orphan re-homing and shadow respawn
// are grouped so that an arbitrarily deep cascade undoes as a single user
// action.
//
// # Recorder
//
// A Recorder is owned by a workspace and shared by every block in it:
//
//	rec := events.NewRecorder()
//	rec.AddListener(func(e events.Event) {
//	    log.Println(e.Kind(), e.GroupID())
//	})
//
// Firing is synchronous and single-threaded: listeners run on the caller's
// goroutine before Fire returns. There is no queue and no batching.
//
// # Grouping
//
// Events fired while a group is open share its id. The connection protocol
// opens a group around its outermost call only; nested calls observe the open
// group and never close it:
//
//	done := rec.ScopedGroup()
//	defer done()
//	// ... fire any number of events; all carry the same group id ...
//
// # Disabling
//
// Disable/Enable nest. While disabled, Fire drops events entirely; the
// deserializer relies on this to rebuild state that was already recorded:
//
//	rec.Disable()
//	defer rec.Enable()
//
// # Undo recording
//
// RecordingUndo is orthogonal to Enabled: events still fire while it is off,
// but consumers maintaining undo stacks skip them, and the protocol skips
// undo-only side effects (shadow respawn, deferred bump scheduling).
//
// # Event data
//
// Events are plain data: they carry ids and serialized state, never object
// references, so this package has no dependency on the block entities.
// The root package interprets them when applying undo.
package events
