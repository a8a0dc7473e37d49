package blockly

import (
	"github.com/codiplaykz/blockly/events"
)

// Connect links c to other. The pair may be given in either order;
// superiority is a property of kind, not of call order, so the attach
// logic always runs on the superior side.
//
// Connecting an already-linked pair is a no-op. A refusal by the
// compatibility checker returns an IncompatibleError carrying the
// checker's reason; callers that only care about success should use
// TryConnect. If the superior connection is already occupied, the occupant
// is displaced through orphan resolution before the new link is made, and
// the whole cascade is recorded under a single event group.
func (c *Connection) Connect(other *Connection) error {
	if c == nil || other == nil {
		return newProtocolError("connect", "nil connection", c)
	}
	if c.disposed || other.disposed {
		return ErrDisposed
	}
	if c.target == other {
		return nil
	}
	if reason := c.checker().CanConnectWithReason(c, other, false); reason != CanConnect {
		return newIncompatibleError(reason, c, other)
	}
	sup, inf := c, other
	if !c.IsSuperior() {
		sup, inf = other, c
	}
	if isAncestor(inf.block, sup.block) {
		return newProtocolError("connect", "link would make a block its own descendant", c)
	}
	done := c.recorder().ScopedGroup()
	defer done()
	return sup.attach(inf)
}

// TryConnect attempts to link c to other and reports success. Checker
// refusals and protocol errors both yield false; callers that need the
// distinction use Connect.
func (c *Connection) TryConnect(other *Connection) bool {
	return c.Connect(other) == nil
}

// Disconnect severs the link held by c. It may be called on either side of
// the pair. The child block is reparented to top level and one move event
// is recorded; afterwards, if the parent connection carries a placeholder
// template and the detached child was not itself a placeholder, a fresh
// placeholder is respawned in the vacated slot.
//
// Returns ErrNotConnected when c holds no link, and a protocol violation
// when the reciprocal invariant is found already broken.
func (c *Connection) Disconnect() error {
	if c == nil {
		return newProtocolError("disconnect", "nil connection", nil)
	}
	if c.disposed {
		return ErrDisposed
	}
	other := c.target
	if other == nil {
		return ErrNotConnected
	}
	if other.target != c {
		return newProtocolError("disconnect", "reciprocal link broken", c)
	}
	parent, child := c, other
	if !c.IsSuperior() {
		parent, child = other, c
	}
	childBlock := child.block
	done := c.recorder().ScopedGroup()
	defer done()
	if err := disconnectInternal(parent, child); err != nil {
		return err
	}
	if !childBlock.IsShadow() {
		return parent.respawnShadow()
	}
	return nil
}

// attach runs the superior side of the connect protocol: vacate the child
// connection, resolve any occupant of the parent connection, make the
// reciprocal link, reparent, and record one move event for the child.
func (parent *Connection) attach(child *Connection) error {
	parentBlock, childBlock := parent.block, child.block
	if child.IsConnected() {
		if err := child.Disconnect(); err != nil {
			return err
		}
	}
	if parent.IsConnected() {
		if err := parent.resolveOccupant(childBlock); err != nil {
			return err
		}
	}
	rec := parent.recorder()
	var ev *events.Move
	if rec.Enabled() {
		ev = newMoveEvent(childBlock)
	}
	if err := connectReciprocally(parent, child); err != nil {
		return err
	}
	if err := childBlock.SetParent(parentBlock); err != nil {
		return err
	}
	if ev != nil {
		recordNewLocation(ev, childBlock)
		rec.Fire(ev)
	}
	return nil
}

// disconnectInternal clears both sides of a link and reparents the child
// block to top level, recording one move event. Shadow respawn is the
// caller's concern.
func disconnectInternal(parent, child *Connection) error {
	childBlock := child.block
	rec := parent.recorder()
	var ev *events.Move
	if rec.Enabled() {
		ev = newMoveEvent(childBlock)
	}
	parent.target = nil
	child.target = nil
	if err := childBlock.SetParent(nil); err != nil {
		return err
	}
	if ev != nil {
		recordNewLocation(ev, childBlock)
		rec.Fire(ev)
	}
	return nil
}

// connectReciprocally sets both target fields of a validated pair. The
// public entry points have already rejected nil and disposed endpoints;
// reaching this step with either is a protocol violation.
func connectReciprocally(a, b *Connection) error {
	if a == nil || b == nil {
		return newProtocolError("connect", "nil connection in reciprocal link", nil)
	}
	if a.disposed || b.disposed {
		return newProtocolError("connect", "disposed connection in reciprocal link", a)
	}
	a.target = b
	b.target = a
	return nil
}

// isAncestor reports whether a is b or an ancestor of b.
func isAncestor(a, b *Block) bool {
	for p := b; p != nil; p = p.parent {
		if p == a {
			return true
		}
	}
	return false
}

// newMoveEvent captures a block's current location as the old side of a
// move event. recordNewLocation fills in the new side after the move.
func newMoveEvent(b *Block) *events.Move {
	ev := &events.Move{
		Base:    events.Base{Workspace: b.workspace.ID()},
		BlockID: b.id,
	}
	ev.OldParentID, ev.OldInputName = b.parentLocation()
	return ev
}

func recordNewLocation(ev *events.Move, b *Block) {
	ev.NewParentID, ev.NewInputName = b.parentLocation()
}
