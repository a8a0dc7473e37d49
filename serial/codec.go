package serial

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/codiplaykz/blockly"
	"github.com/codiplaykz/blockly/events"
)

// Codec implements blockly.Serializer with msgpack-encoded State blobs.
// It is stateless and safe to share between workspaces.
type Codec struct{}

// compile-time check that Codec satisfies blockly.Serializer.
var _ blockly.Serializer = Codec{}

// SerializeBlock snapshots b and its subtree with ids preserved.
func (Codec) SerializeBlock(b *blockly.Block) ([]byte, error) {
	data, err := msgpack.Marshal(captureState(b, true))
	if err != nil {
		return nil, fmt.Errorf("serial: encode block state: %w", err)
	}
	return data, nil
}

// SerializeTemplate snapshots b as a placeholder template, without ids.
func (Codec) SerializeTemplate(b *blockly.Block) ([]byte, error) {
	data, err := msgpack.Marshal(captureState(b, false))
	if err != nil {
		return nil, fmt.Errorf("serial: encode template: %w", err)
	}
	return data, nil
}

// Materialize rebuilds a block subtree from data on w. Construction runs
// with event delivery suppressed and fires one create event for the root
// afterwards; its payload re-serializes the built subtree so a redo can
// restore the same ids even when data itself carried none.
func (c Codec) Materialize(data []byte, w *blockly.Workspace) (*blockly.Block, error) {
	var st State
	if err := msgpack.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("serial: decode state: %w", err)
	}
	rec := w.Events()
	rec.Disable()
	root, err := buildBlock(&st, w)
	rec.Enable()
	if err != nil {
		return nil, err
	}
	if rec.Enabled() {
		payload, perr := c.SerializeBlock(root)
		if perr != nil {
			payload = nil
		}
		descendants := root.Descendants()
		ids := make([]string, 0, len(descendants))
		for _, d := range descendants {
			ids = append(ids, d.ID())
		}
		rec.Fire(&events.Create{
			Base:     events.Base{Workspace: w.ID()},
			BlockID:  root.ID(),
			State:    payload,
			ChildIDs: ids,
		})
	}
	return root, nil
}

// SaveWorkspace snapshots every top-level tree on w, ids preserved.
func SaveWorkspace(w *blockly.Workspace) ([]byte, error) {
	ws := &WorkspaceState{}
	for _, top := range w.TopBlocks() {
		ws.Blocks = append(ws.Blocks, captureState(top, true))
	}
	data, err := msgpack.Marshal(ws)
	if err != nil {
		return nil, fmt.Errorf("serial: encode workspace: %w", err)
	}
	return data, nil
}

// LoadWorkspace rebuilds saved trees onto w. The load is silent: event
// delivery is disabled throughout, so nothing is recorded and the load is
// not undoable. Existing blocks on w are left in place.
func LoadWorkspace(data []byte, w *blockly.Workspace) error {
	var ws WorkspaceState
	if err := msgpack.Unmarshal(data, &ws); err != nil {
		return fmt.Errorf("serial: decode workspace: %w", err)
	}
	rec := w.Events()
	rec.Disable()
	defer rec.Enable()
	for _, st := range ws.Blocks {
		if _, err := buildBlock(st, w); err != nil {
			return err
		}
	}
	return nil
}
