package blockly

import (
	"fmt"

	"github.com/codiplaykz/blockly/events"
)

// Block is one program fragment: a node of the workspace forest. Its
// connections are created with it from its type definition and live until
// the block is disposed.
//
// A block is ordinary or a placeholder ("shadow"). Placeholders are
// template-backed fillers: they dissolve when displaced and respawn from
// the template stored on the connection that holds them.
type Block struct {
	id        string
	typeName  string
	def       *BlockType
	workspace *Workspace

	parent   *Block
	output   *Connection
	previous *Connection
	next     *Connection
	inputs   []*Input
	fields   map[string]string

	shadow    bool
	disposed  bool
	disposing bool
}

// ID returns the block's workspace-unique id.
func (b *Block) ID() string {
	return b.id
}

// Type returns the block's type name.
func (b *Block) Type() string {
	return b.typeName
}

// Definition returns the type definition the block was built from.
func (b *Block) Definition() *BlockType {
	return b.def
}

// Workspace returns the workspace the block lives on.
func (b *Block) Workspace() *Workspace {
	return b.workspace
}

// Parent returns the block this one is attached under, or nil when the
// block is top-level.
func (b *Block) Parent() *Block {
	return b.parent
}

// RootBlock returns the top of the tree this block sits in, which is the
// block itself when it is top-level.
func (b *Block) RootBlock() *Block {
	r := b
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// IsShadow reports whether the block is a placeholder.
func (b *Block) IsShadow() bool {
	return b.shadow
}

// SetShadow marks the block as a placeholder or an ordinary block. A
// placeholder must not hold ordinary children.
func (b *Block) SetShadow(shadow bool) error {
	if b.shadow == shadow {
		return nil
	}
	if shadow {
		for _, child := range b.Children() {
			if !child.IsShadow() {
				return newProtocolError("set-shadow", "placeholder would hold an ordinary child", nil)
			}
		}
	}
	b.shadow = shadow
	return nil
}

// Disposed reports whether the block has been disposed.
func (b *Block) Disposed() bool {
	return b.disposed
}

func (b *Block) isDeadOrDying() bool {
	return b.disposed || b.disposing
}

// OutputConnection returns the block's output connection, or nil.
func (b *Block) OutputConnection() *Connection {
	return b.output
}

// PreviousConnection returns the block's previous connection, or nil.
func (b *Block) PreviousConnection() *Connection {
	return b.previous
}

// NextConnection returns the block's next connection, or nil.
func (b *Block) NextConnection() *Connection {
	return b.next
}

// NextBlock returns the block attached to the next connection, or nil.
func (b *Block) NextBlock() *Block {
	if b.next == nil {
		return nil
	}
	return b.next.TargetBlock()
}

// Inputs returns the block's named slots in declaration order.
func (b *Block) Inputs() []*Input {
	out := make([]*Input, len(b.inputs))
	copy(out, b.inputs)
	return out
}

// Input returns the named slot, or nil.
func (b *Block) Input(name string) *Input {
	for _, in := range b.inputs {
		if in.name == name {
			return in
		}
	}
	return nil
}

// InputWithBlock returns the input whose connection holds child, or nil
// when child is not attached through any of the block's inputs.
func (b *Block) InputWithBlock(child *Block) *Input {
	for _, in := range b.inputs {
		if in.conn.TargetBlock() == child {
			return in
		}
	}
	return nil
}

// inputWithConnection returns the input holding c, or nil.
func (b *Block) inputWithConnection(c *Connection) *Input {
	for _, in := range b.inputs {
		if in.conn == c {
			return in
		}
	}
	return nil
}

// Connections returns every connection the block exposes.
func (b *Block) Connections() []*Connection {
	out := make([]*Connection, 0, len(b.inputs)+3)
	if b.output != nil {
		out = append(out, b.output)
	}
	if b.previous != nil {
		out = append(out, b.previous)
	}
	if b.next != nil {
		out = append(out, b.next)
	}
	for _, in := range b.inputs {
		out = append(out, in.conn)
	}
	return out
}

// connectionByRole resolves the role keys used in recorded events:
// "output", "previous", "next", or "input:NAME".
func (b *Block) connectionByRole(role string) *Connection {
	switch role {
	case "output":
		return b.output
	case "previous":
		return b.previous
	case "next":
		return b.next
	}
	const prefix = "input:"
	if len(role) > len(prefix) && role[:len(prefix)] == prefix {
		if in := b.Input(role[len(prefix):]); in != nil {
			return in.conn
		}
	}
	return nil
}

// Children returns the blocks attached directly below this one: every
// occupied input plus the next connection's occupant, in that order.
func (b *Block) Children() []*Block {
	var out []*Block
	for _, in := range b.inputs {
		if t := in.conn.TargetBlock(); t != nil {
			out = append(out, t)
		}
	}
	if b.next != nil {
		if t := b.next.TargetBlock(); t != nil {
			out = append(out, t)
		}
	}
	return out
}

// Descendants returns the block and every block attached below it,
// depth-first.
func (b *Block) Descendants() []*Block {
	out := []*Block{b}
	for _, child := range b.Children() {
		out = append(out, child.Descendants()...)
	}
	return out
}

// LastConnectionInStack walks the next-statement chain from this block and
// returns the first next connection that is unoccupied, or occupied by a
// placeholder when ignoreShadows is set. It returns nil when the chain
// ends in a block with no next connection.
func (b *Block) LastConnectionInStack(ignoreShadows bool) *Connection {
	next := b.next
	for next != nil {
		nb := next.TargetBlock()
		if nb == nil || (ignoreShadows && nb.IsShadow()) {
			return next
		}
		next = nb.next
	}
	return nil
}

// onlyValueConnection returns the block's single occupied value input, or
// nil when there are zero or several.
func (b *Block) onlyValueConnection() *Connection {
	var found *Connection
	for _, in := range b.inputs {
		c := in.conn
		if c.kind == InputValue && c.IsConnected() {
			if found != nil {
				return nil
			}
			found = c
		}
	}
	return found
}

// Field returns the named field's value.
func (b *Block) Field(name string) (string, bool) {
	v, ok := b.fields[name]
	return v, ok
}

// SetField updates the named field and records a change event.
func (b *Block) SetField(name, value string) error {
	if b.disposed {
		return ErrDisposed
	}
	old, ok := b.fields[name]
	if !ok {
		return fmt.Errorf("%w: %q on %s", ErrUnknownField, name, b.describe())
	}
	if old == value {
		return nil
	}
	b.fields[name] = value
	rec := b.workspace.events
	if rec.Enabled() {
		rec.Fire(&events.Change{
			Base:    events.Base{Workspace: b.workspace.ID()},
			BlockID: b.id,
			Element: events.ElementField,
			Name:    name,
			Old:     old,
			New:     value,
		})
	}
	return nil
}

// FieldNames returns the block's field names in declaration order.
func (b *Block) FieldNames() []string {
	out := make([]string, 0, len(b.def.Fields))
	for _, f := range b.def.Fields {
		out = append(out, f.Name)
	}
	return out
}

// SetParent records the block's new parent after its connections have been
// linked, maintaining the workspace's top-block list. The protocol calls
// it as the reparent step of connect and disconnect; calling it out of
// line with the connection state is a protocol violation.
func (b *Block) SetParent(p *Block) error {
	if b.parent == p {
		return nil
	}
	var linked *Block
	if b.previous != nil && b.previous.IsConnected() {
		linked = b.previous.TargetBlock()
	}
	if linked == nil && b.output != nil && b.output.IsConnected() {
		linked = b.output.TargetBlock()
	}
	if p != nil && linked == nil {
		return newProtocolError("set-parent", "block not connected to new parent", nil)
	}
	if p != nil && linked != p {
		return newProtocolError("set-parent", "block connected to a superior that is not the new parent", nil)
	}
	if b.parent == nil {
		b.workspace.removeTopBlock(b)
	}
	b.parent = p
	if p == nil {
		b.workspace.addTopBlock(b)
	}
	return nil
}

// Unplug disconnects the block from its parent. With healStack set, a
// block in the middle of a structure is cut out and the gap closed: a
// statement block's next child is reconnected to its old parent, and an
// expression block's single ordinary value child is reconnected to the
// slot this block vacated, checker permitting.
func (b *Block) Unplug(healStack bool) error {
	if b == nil || b.disposed {
		return nil
	}
	if b.output != nil {
		return b.unplugFromRow(healStack)
	}
	if b.previous != nil {
		return b.unplugFromStack(healStack)
	}
	return nil
}

func (b *Block) unplugFromRow(heal bool) error {
	var parentConn *Connection
	if b.output.IsConnected() {
		parentConn = b.output.target
		if err := b.output.Disconnect(); err != nil {
			return err
		}
	}
	if parentConn == nil || !heal {
		return nil
	}
	// Heal only when exactly one ordinary value child leaves no ambiguity
	// about what should take this block's place.
	thisConn := b.onlyValueConnection()
	if thisConn == nil || !thisConn.IsConnected() || thisConn.TargetBlock().IsShadow() {
		return nil
	}
	childConn := thisConn.target
	if err := childConn.Disconnect(); err != nil {
		return err
	}
	if b.workspace.checker.CanConnect(parentConn, childConn, false) {
		return parentConn.Connect(childConn)
	}
	return nil
}

func (b *Block) unplugFromStack(heal bool) error {
	var prevTarget *Connection
	if b.previous.IsConnected() {
		prevTarget = b.previous.target
		if err := b.previous.Disconnect(); err != nil {
			return err
		}
	}
	nextBlock := b.NextBlock()
	if !heal || nextBlock == nil || nextBlock.IsShadow() {
		return nil
	}
	nextTarget := b.next.target
	if err := nextTarget.Disconnect(); err != nil {
		return err
	}
	if prevTarget != nil && b.workspace.checker.CanConnect(prevTarget, nextTarget, false) {
		return prevTarget.Connect(nextTarget)
	}
	return nil
}

// Dispose removes the block from its workspace. The block is first
// unplugged from its parent; with recursive set its whole subtree goes
// with it, otherwise ordinary children are detached to top level first
// (placeholder children always dissolve with their owner). One delete
// event covering everything destroyed is recorded.
func (b *Block) Dispose(recursive bool) error {
	if b == nil || b.isDeadOrDying() {
		return nil
	}
	w := b.workspace
	b.disposing = true
	done := w.events.ScopedGroup()
	defer done()
	if err := b.Unplug(false); err != nil {
		return err
	}
	if !recursive {
		for _, child := range b.Children() {
			if !child.IsShadow() {
				if err := child.Unplug(false); err != nil {
					return err
				}
			}
		}
	}
	if w.events.Enabled() {
		state, err := w.snapshot(b)
		if err != nil {
			state = nil
		}
		ids := make([]string, 0, 8)
		for _, d := range b.Descendants() {
			ids = append(ids, d.id)
		}
		w.events.Fire(&events.Delete{
			Base:      events.Base{Workspace: w.ID()},
			BlockID:   b.id,
			State:     state,
			ChildIDs:  ids,
			WasShadow: b.shadow,
		})
	}
	return b.disposeInternal()
}

// disposeInternal tears the block and its remaining subtree down with
// events suppressed; the covering delete event has already been fired.
func (b *Block) disposeInternal() error {
	rec := b.workspace.events
	rec.Disable()
	defer rec.Enable()
	return b.disposeInner()
}

func (b *Block) disposeInner() error {
	b.disposing = true
	w := b.workspace
	for _, child := range b.Children() {
		if err := child.disposeInner(); err != nil {
			return err
		}
	}
	for _, c := range b.Connections() {
		if err := c.dispose(); err != nil {
			return err
		}
	}
	w.removeTopBlock(b)
	delete(w.blocks, b.id)
	w.scheduler.Cancel(b.id)
	b.parent = nil
	b.fields = nil
	b.disposed = true
	return nil
}

// parentLocation returns the parent id and input name locating the
// block's attachment point, for move events. Both are empty for a
// top-level block; a parent id with an empty input name means attachment
// through the parent's next connection.
func (b *Block) parentLocation() (parentID, inputName string) {
	p := b.parent
	if p == nil {
		return "", ""
	}
	conn := b.output
	if conn == nil || !conn.IsConnected() {
		conn = b.previous
	}
	if conn == nil || !conn.IsConnected() {
		return p.id, ""
	}
	if in := p.inputWithConnection(conn.target); in != nil {
		return p.id, in.name
	}
	return p.id, ""
}

// describe returns the block's type and id for diagnostics.
func (b *Block) describe() string {
	return fmt.Sprintf("%s block %q", b.typeName, b.id)
}
