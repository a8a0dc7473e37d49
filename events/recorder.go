package events

import (
	"github.com/google/uuid"
)

// Listener receives every event fired through a Recorder.
type Listener func(Event)

// Recorder collects mutation events for a single workspace.
//
// A Recorder is not safe for concurrent use; the connection protocol it
// serves is single-threaded.
type Recorder struct {
	disabled   int
	recordUndo bool
	group      string

	listeners []listenerEntry
	nextToken int
}

type listenerEntry struct {
	token int
	fn    Listener
}

// NewRecorder returns a Recorder with event firing enabled and undo
// recording on.
func NewRecorder() *Recorder {
	return &Recorder{recordUndo: true}
}

// Enabled reports whether fired events are delivered. Disable and Enable
// nest: Enabled returns true only when every Disable has been balanced.
func (r *Recorder) Enabled() bool {
	return r.disabled == 0
}

// Disable suppresses event delivery until a matching Enable.
func (r *Recorder) Disable() {
	r.disabled++
}

// Enable reverses one prior Disable. Extra calls are ignored.
func (r *Recorder) Enable() {
	if r.disabled > 0 {
		r.disabled--
	}
}

// RecordingUndo reports whether fired events should enter undo history.
func (r *Recorder) RecordingUndo() bool {
	return r.recordUndo
}

// SetRecordUndo toggles undo recording. Events fired while it is off still
// reach listeners but are stamped as not undoable.
func (r *Recorder) SetRecordUndo(record bool) {
	r.recordUndo = record
}

// GroupID returns the open event group id, or "" when none is open.
func (r *Recorder) GroupID() string {
	return r.group
}

// SetGroup sets the open group id directly. Pass "" to close the group.
// Most callers should prefer ScopedGroup.
func (r *Recorder) SetGroup(id string) {
	r.group = id
}

// NewGroup opens a fresh group with a generated id and returns it.
// Any previously open group is replaced.
func (r *Recorder) NewGroup() string {
	r.group = uuid.NewString()
	return r.group
}

// ScopedGroup ensures a group is open for the duration of an operation.
// If no group is open, a fresh one is opened and the returned func closes
// it; if one is already open, the returned func is a no-op. This is the
// guard the connection protocol acquires at the top of each outermost
// public call so that cascades share one undoable group.
func (r *Recorder) ScopedGroup() func() {
	if r.group != "" {
		return func() {}
	}
	r.NewGroup()
	return func() { r.group = "" }
}

// AddListener registers fn and returns a token for RemoveListener.
// Listeners are invoked in registration order.
func (r *Recorder) AddListener(fn Listener) int {
	r.nextToken++
	r.listeners = append(r.listeners, listenerEntry{token: r.nextToken, fn: fn})
	return r.nextToken
}

// RemoveListener unregisters the listener identified by token.
func (r *Recorder) RemoveListener(token int) {
	for i, e := range r.listeners {
		if e.token == token {
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

// Fire stamps e with the open group and the undo-recording flag, then
// delivers it to every listener. Events are dropped while the recorder is
// disabled, and no-op events (e.g. a move that changed nothing) are dropped
// unconditionally.
func (r *Recorder) Fire(e Event) {
	if !r.Enabled() || e == nil || e.IsNoop() {
		return
	}
	b := e.base()
	if b.Group == "" {
		b.Group = r.group
	}
	b.RecordUndo = r.recordUndo
	for _, l := range r.listeners {
		l.fn(e)
	}
}
