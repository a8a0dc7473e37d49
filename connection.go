package blockly

import (
	"fmt"
	"slices"
	"strings"

	"github.com/codiplaykz/blockly/events"
)

// Connection is a typed attachment point owned by exactly one block. Two
// connections of counterpart kinds may hold a mutual link; the link
// relation is strictly reciprocal at the boundary of every public
// operation.
//
// Connections are created alongside their owning block and live until that
// block is disposed. They are not safe for concurrent use.
type Connection struct {
	block    *Block
	kind     Kind
	target   *Connection
	tags     []string
	template []byte
	disposed bool
}

// newConnection builds a connection owned by b. Tags come from the block
// type's check spec; nil accepts anything.
func newConnection(b *Block, kind Kind, tags []string) *Connection {
	return &Connection{block: b, kind: kind, tags: slices.Clone(tags)}
}

// Block returns the owning block.
func (c *Connection) Block() *Block {
	return c.block
}

// Kind returns the connection's kind.
func (c *Connection) Kind() Kind {
	return c.kind
}

// Target returns the connection on the other side of the link, or nil.
func (c *Connection) Target() *Connection {
	return c.target
}

// TargetBlock returns the block on the other side of the link, or nil.
func (c *Connection) TargetBlock() *Block {
	if c.target == nil {
		return nil
	}
	return c.target.block
}

// IsConnected reports whether the connection holds a link.
func (c *Connection) IsConnected() bool {
	return c.target != nil
}

// IsSuperior reports whether this connection sits on the parent side of
// its links.
func (c *Connection) IsSuperior() bool {
	return c.kind.IsSuperior()
}

// Disposed reports whether the connection has been disposed.
func (c *Connection) Disposed() bool {
	return c.disposed
}

// Tags returns the compatibility tag set. A nil result means the
// connection accepts anything. The returned slice must not be mutated.
func (c *Connection) Tags() []string {
	return c.tags
}

// SetTags replaces the compatibility tag set. Calling it with no arguments
// clears the set, meaning "accept anything"; a single argument becomes a
// one-element set. If the connection is currently linked and the checker no
// longer accepts the pair under the new tags, the subordinate block of the
// pair is unplugged as a side effect.
func (c *Connection) SetTags(tags ...string) error {
	if c.disposed {
		return ErrDisposed
	}
	old := c.tags
	if len(tags) == 0 {
		c.tags = nil
	} else {
		c.tags = slices.Clone(tags)
	}
	rec := c.recorder()
	if rec.Enabled() {
		rec.Fire(&events.Change{
			Base:    events.Base{Workspace: c.block.workspace.ID()},
			BlockID: c.block.id,
			Element: events.ElementTags,
			Name:    c.roleName(),
			Old:     encodeTags(old),
			New:     encodeTags(c.tags),
		})
	}
	if c.IsConnected() && !c.checker().CanConnect(c, c.target, false) {
		child := c.block
		if c.IsSuperior() {
			child = c.TargetBlock()
		}
		return child.Unplug(false)
	}
	return nil
}

// Template returns the stored placeholder template, or nil. The core
// treats it as an opaque blob owned by the serializer.
func (c *Connection) Template() []byte {
	return c.template
}

// SetTemplate stores data as the placeholder template. If the connection is
// unoccupied the template is materialized immediately, subject to the usual
// respawn conditions; if the current occupant is itself a placeholder it is
// replaced by a fresh one built from data. Pass nil to clear the template.
// Templates belong on superior connections only.
func (c *Connection) SetTemplate(data []byte) error {
	if c.disposed {
		return ErrDisposed
	}
	if data != nil && !c.IsSuperior() {
		return newProtocolError("set-template", "placeholder template on inferior connection", c)
	}
	c.template = data
	occupant := c.TargetBlock()
	switch {
	case occupant == nil:
		return c.respawnShadow()
	case occupant.IsShadow():
		if err := occupant.Dispose(true); err != nil {
			return err
		}
		return c.respawnShadow()
	}
	return nil
}

// String returns a human-readable locator naming the connection's role and
// its owning block, for diagnostics.
func (c *Connection) String() string {
	b := c.block
	if b == nil {
		return "orphan connection"
	}
	switch {
	case b.output == c:
		return "output connection of " + b.describe()
	case b.previous == c:
		return "previous connection of " + b.describe()
	case b.next == c:
		return "next connection of " + b.describe()
	}
	if in := b.inputWithConnection(c); in != nil {
		return fmt.Sprintf("input %q connection on %s", in.name, b.describe())
	}
	return "orphan connection"
}

// NearbyConnections returns candidate connections within maxDistance of
// this one. The core has no spatial knowledge and always returns nil;
// rendering layers that track coordinates override the behavior by
// wrapping the workspace.
func (c *Connection) NearbyConnections(maxDistance float64) []*Connection {
	return nil
}

// roleName returns the stable role key used to address this connection in
// recorded events: "output", "previous", "next", or "input:NAME".
func (c *Connection) roleName() string {
	b := c.block
	if b == nil {
		return ""
	}
	switch {
	case b.output == c:
		return "output"
	case b.previous == c:
		return "previous"
	case b.next == c:
		return "next"
	}
	if in := b.inputWithConnection(c); in != nil {
		return "input:" + in.name
	}
	return ""
}

// checker returns the workspace's compatibility checker.
func (c *Connection) checker() Checker {
	return c.block.workspace.checker
}

// recorder returns the workspace's event recorder.
func (c *Connection) recorder() *events.Recorder {
	return c.block.workspace.events
}

// dispose severs any existing link, disposing an attached placeholder
// outright and unplugging an attached ordinary block, then marks the
// connection disposed. Called during the owning block's teardown.
func (c *Connection) dispose() error {
	if c.disposed {
		return nil
	}
	if c.target != nil {
		c.template = nil
		t := c.target
		tb := t.block
		switch {
		case tb.isDeadOrDying():
			// Both sides are going away; sever directly.
			t.target = nil
			c.target = nil
		case c.IsSuperior() && tb.IsShadow():
			if err := tb.Dispose(true); err != nil {
				return err
			}
		default:
			child := c.block
			if c.IsSuperior() {
				child = tb
			}
			if err := child.Unplug(false); err != nil {
				return err
			}
		}
	}
	c.template = nil
	c.disposed = true
	return nil
}

// encodeTags flattens a tag set for event payloads. decodeTags reverses it.
func encodeTags(tags []string) string {
	return strings.Join(tags, ",")
}

// decodeTags parses an event payload back into a tag set. An empty payload
// means "accept anything".
func decodeTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
