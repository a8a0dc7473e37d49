package events

// Kind identifies the concrete type of an Event.
type Kind string

// Event kinds fired by the connection protocol and block lifecycle.
const (
	KindMove   Kind = "move"
	KindCreate Kind = "create"
	KindDelete Kind = "delete"
	KindChange Kind = "change"
)

// Change event elements.
const (
	// ElementField is a Change to a named block field value.
	ElementField = "field"

	// ElementTags is a Change to a connection's compatibility tags.
	ElementTags = "tags"
)

// Event is a recorded workspace mutation. Implementations are the concrete
// types in this package; the interface is closed.
type Event interface {
	// WorkspaceID identifies the workspace the event occurred in.
	WorkspaceID() string

	// GroupID identifies the undo group, or "" when ungrouped.
	GroupID() string

	// Recorded reports whether the event entered undo history
	// (the recorder's undo flag at fire time).
	Recorded() bool

	// Kind returns the event's kind.
	Kind() Kind

	// IsNoop reports whether the event describes no actual change.
	// No-op events are dropped by Recorder.Fire.
	IsNoop() bool

	base() *Base
}

// Base carries the fields common to all events. The Group and RecordUndo
// fields are stamped by Recorder.Fire; constructors only need Workspace.
type Base struct {
	Workspace  string
	Group      string
	RecordUndo bool
}

// WorkspaceID implements Event.
func (b *Base) WorkspaceID() string { return b.Workspace }

// GroupID implements Event.
func (b *Base) GroupID() string { return b.Group }

// Recorded implements Event.
func (b *Base) Recorded() bool { return b.RecordUndo }

func (b *Base) base() *Base { return b }

// Move records a block changing parents. Old fields capture the state
// before the move, New fields after. An empty parent id means the block
// was (or became) top-level; an empty input name with a non-empty parent
// id means attachment through the parent's next connection.
type Move struct {
	Base
	BlockID      string
	OldParentID  string
	OldInputName string
	NewParentID  string
	NewInputName string
}

// Kind implements Event.
func (*Move) Kind() Kind { return KindMove }

// IsNoop reports whether the move left the block where it was.
func (m *Move) IsNoop() bool {
	return m.OldParentID == m.NewParentID && m.OldInputName == m.NewInputName
}

// Create records a block (and its attached subtree) entering the
// workspace. State is the serialized form used to rebuild it on undo-redo;
// ChildIDs lists the block and every descendant created with it.
type Create struct {
	Base
	BlockID  string
	State    []byte
	ChildIDs []string
}

// Kind implements Event.
func (*Create) Kind() Kind { return KindCreate }

// IsNoop implements Event.
func (*Create) IsNoop() bool { return false }

// Delete records a block (and its attached subtree) leaving the
// workspace. State is the serialized form captured before disposal so undo
// can re-materialize it; ChildIDs lists every disposed block id.
type Delete struct {
	Base
	BlockID   string
	State     []byte
	ChildIDs  []string
	WasShadow bool
}

// Kind implements Event.
func (*Delete) Kind() Kind { return KindDelete }

// IsNoop implements Event.
func (*Delete) IsNoop() bool { return false }

// Change records an in-place mutation of a block: a field value or a
// connection's compatibility tags. Element is one of the Element
// constants; Name identifies the field or connection role.
type Change struct {
	Base
	BlockID string
	Element string
	Name    string
	Old     string
	New     string
}

// Kind implements Event.
func (*Change) Kind() Kind { return KindChange }

// IsNoop reports whether the change left the value untouched.
func (c *Change) IsNoop() bool { return c.Old == c.New }

var (
	_ Event = (*Move)(nil)
	_ Event = (*Create)(nil)
	_ Event = (*Delete)(nil)
	_ Event = (*Change)(nil)
)
