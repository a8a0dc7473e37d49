package blockly

import (
	"log/slog"

	"github.com/codiplaykz/blockly/events"
)

// recordForUndo is the workspace's own recorder listener. Events stamped
// as recorded land on the undo stack and invalidate the redo stack; events
// replayed by Undo itself are stamped otherwise and pass through.
func (w *Workspace) recordForUndo(e events.Event) {
	if !e.Recorded() {
		return
	}
	w.undoStack = append(w.undoStack, e)
	if w.undoLimit > 0 && len(w.undoStack) > w.undoLimit {
		w.undoStack = w.undoStack[len(w.undoStack)-w.undoLimit:]
	}
	w.redoStack = w.redoStack[:0]
}

// UndoAvailable reports whether there is history to undo.
func (w *Workspace) UndoAvailable() bool {
	return len(w.undoStack) > 0
}

// RedoAvailable reports whether there is history to redo.
func (w *Workspace) RedoAvailable() bool {
	return len(w.redoStack) > 0
}

// ClearUndo drops all undo and redo history.
func (w *Workspace) ClearUndo() {
	w.undoStack = nil
	w.redoStack = nil
}

// Undo reverses the most recent undoable action, or re-applies the most
// recently undone one when redo is set. Events recorded under one group
// replay together, so a connect cascade reverses as a single action.
// Replay runs with undo recording off: the mutations it performs still
// reach listeners but do not re-enter history.
func (w *Workspace) Undo(redo bool) error {
	in, out := &w.undoStack, &w.redoStack
	if redo {
		in, out = &w.redoStack, &w.undoStack
	}
	if len(*in) == 0 {
		return nil
	}
	last := len(*in) - 1
	ev := (*in)[last]
	*in = (*in)[:last]
	batch := []events.Event{ev}
	for len(*in) > 0 && ev.GroupID() != "" && (*in)[len(*in)-1].GroupID() == ev.GroupID() {
		batch = append(batch, (*in)[len(*in)-1])
		*in = (*in)[:len(*in)-1]
	}
	prior := w.events.RecordingUndo()
	w.events.SetRecordUndo(false)
	defer w.events.SetRecordUndo(prior)
	for _, e := range batch {
		*out = append(*out, e)
		if err := w.apply(e, redo); err != nil {
			return err
		}
	}
	return nil
}

// apply replays one recorded event: forward for redo, inverted for undo.
func (w *Workspace) apply(e events.Event, forward bool) error {
	switch ev := e.(type) {
	case *events.Move:
		return w.applyMove(ev, forward)
	case *events.Create:
		return w.applyCreate(ev, forward)
	case *events.Delete:
		return w.applyDelete(ev, forward)
	case *events.Change:
		return w.applyChange(ev, forward)
	default:
		w.log.Warn("cannot replay unknown event kind", slog.String("kind", string(e.Kind())))
		return nil
	}
}

func (w *Workspace) applyMove(e *events.Move, forward bool) error {
	b := w.BlockByID(e.BlockID)
	if b == nil {
		w.log.Warn("cannot move missing block", slog.String("block", e.BlockID))
		return nil
	}
	parentID, inputName := e.OldParentID, e.OldInputName
	if forward {
		parentID, inputName = e.NewParentID, e.NewInputName
	}
	if b.Parent() != nil {
		if err := b.Unplug(false); err != nil {
			return err
		}
	}
	if parentID == "" {
		return nil
	}
	parent := w.BlockByID(parentID)
	if parent == nil {
		w.log.Warn("cannot reattach block to missing parent",
			slog.String("block", e.BlockID), slog.String("parent", parentID))
		return nil
	}
	var parentConn *Connection
	if inputName != "" {
		if in := parent.Input(inputName); in != nil {
			parentConn = in.conn
		}
	} else {
		parentConn = parent.NextConnection()
	}
	blockConn := b.OutputConnection()
	if blockConn == nil {
		blockConn = b.PreviousConnection()
	}
	if parentConn == nil || blockConn == nil {
		w.log.Warn("cannot reattach block, connection missing",
			slog.String("block", e.BlockID), slog.String("parent", parentID),
			slog.String("input", inputName))
		return nil
	}
	return blockConn.Connect(parentConn)
}

func (w *Workspace) applyCreate(e *events.Create, forward bool) error {
	if forward {
		return w.rematerialize(e.State, e.BlockID)
	}
	b := w.BlockByID(e.BlockID)
	if b == nil {
		w.log.Warn("cannot delete missing block", slog.String("block", e.BlockID))
		return nil
	}
	return b.Dispose(true)
}

func (w *Workspace) applyDelete(e *events.Delete, forward bool) error {
	if forward {
		b := w.BlockByID(e.BlockID)
		if b == nil {
			w.log.Warn("cannot delete missing block", slog.String("block", e.BlockID))
			return nil
		}
		return b.Dispose(true)
	}
	return w.rematerialize(e.State, e.BlockID)
}

func (w *Workspace) applyChange(e *events.Change, forward bool) error {
	b := w.BlockByID(e.BlockID)
	if b == nil {
		w.log.Warn("cannot change missing block", slog.String("block", e.BlockID))
		return nil
	}
	value := e.Old
	if forward {
		value = e.New
	}
	switch e.Element {
	case events.ElementField:
		return b.SetField(e.Name, value)
	case events.ElementTags:
		conn := b.connectionByRole(e.Name)
		if conn == nil {
			w.log.Warn("cannot change tags on missing connection",
				slog.String("block", e.BlockID), slog.String("role", e.Name))
			return nil
		}
		return conn.SetTags(decodeTags(value)...)
	default:
		w.log.Warn("cannot replay unknown change element", slog.String("element", e.Element))
		return nil
	}
}

// rematerialize rebuilds a block from a recorded state payload.
func (w *Workspace) rematerialize(state []byte, id string) error {
	if len(state) == 0 {
		w.log.Warn("no recorded state to rebuild block", slog.String("block", id))
		return nil
	}
	if w.serializer == nil {
		return ErrNoSerializer
	}
	_, err := w.serializer.Materialize(state, w)
	return err
}
