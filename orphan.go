package blockly

// resolveOccupant vacates an occupied superior connection so that incoming
// can take its place. A placeholder occupant is captured as the
// connection's new template and destroyed; an ordinary occupant is
// disconnected and then re-homed onto the incoming chain when a unique
// eligible slot exists, or left parentless with a deferred bump
// notification scheduled.
//
// The connection's own template is cleared for the duration so the
// occupant's detachment cannot respawn a placeholder mid-resolution, and
// restored once resolution has fully completed.
func (parent *Connection) resolveOccupant(incoming *Block) error {
	w := parent.block.workspace
	occupant := parent.TargetBlock()

	restore := parent.template
	parent.template = nil
	defer func() { parent.template = restore }()

	if occupant.IsShadow() {
		state, err := w.snapshotTemplate(occupant)
		if err != nil {
			return err
		}
		if err := occupant.Dispose(true); err != nil {
			return err
		}
		restore = state
		return nil
	}

	var orphan *Connection
	switch parent.kind {
	case InputValue:
		orphan = occupant.OutputConnection()
		if orphan == nil {
			return newProtocolError("connect", "displaced block has no output connection", parent)
		}
	case NextStatement:
		orphan = occupant.PreviousConnection()
		if orphan == nil {
			return newProtocolError("connect", "displaced block has no previous connection", parent)
		}
	default:
		return newProtocolError("connect", "occupied inferior connection", parent)
	}

	if err := parent.Disconnect(); err != nil {
		return err
	}
	if home := connectionForOrphan(incoming, orphan); home != nil {
		return orphan.Connect(home)
	}
	orphan.onFailedConnect(parent)
	return nil
}

// connectionForOrphan finds the unique connection on the incoming chain
// that can re-home the orphaned connection, or nil when the orphan has no
// home there.
func connectionForOrphan(start *Block, orphan *Connection) *Connection {
	if orphan.kind == OutputValue {
		return connectionForOrphanedOutput(start, orphan)
	}
	// Statement orphan: splice onto the end of the incoming stack.
	last := start.LastConnectionInStack(true)
	if last != nil && last.checker().CanConnect(orphan, last, false) {
		return last
	}
	return nil
}

// connectionForOrphanedOutput descends from start through blocks exposing
// exactly one input compatible with the orphaned output. The walk stops at
// the first unoccupied slot or the first placeholder occupant, which is
// displaced on connect. Zero or multiple candidates at any level means
// the orphan has no home.
func connectionForOrphanedOutput(start *Block, orphan *Connection) *Connection {
	for block := start; block != nil; {
		conn := singleCompatibleInput(block, orphan)
		if conn == nil {
			return nil
		}
		block = conn.TargetBlock()
		if block == nil || block.IsShadow() {
			return conn
		}
	}
	return nil
}

// singleCompatibleInput returns block's one value input that accepts the
// orphaned output, or nil when there are zero or several.
func singleCompatibleInput(block *Block, orphan *Connection) *Connection {
	var found *Connection
	checker := orphan.checker()
	for _, in := range block.inputs {
		conn := in.conn
		if conn == nil || !checker.CanConnect(orphan, conn, false) {
			continue
		}
		if found != nil {
			return nil
		}
		found = conn
	}
	return found
}

// onFailedConnect schedules the deferred bump notification for a
// connection whose block ended up orphaned, keyed by the block's id.
func (c *Connection) onFailedConnect(against *Connection) {
	c.block.workspace.scheduleBump(c, against)
}
