package serial

import (
	"fmt"

	"github.com/codiplaykz/blockly"
)

// State is the serialized form of one block and everything attached below
// it. Field and input order follows the block type declaration, which
// keeps encoding deterministic.
type State struct {
	Type   string       `msgpack:"type"`
	ID     string       `msgpack:"id,omitempty"`
	Shadow bool         `msgpack:"shadow,omitempty"`
	Fields []Field      `msgpack:"fields,omitempty"`
	Inputs []InputState `msgpack:"inputs,omitempty"`

	// Next holds the occupant of the next connection; NextTemplate its
	// placeholder template, if any.
	Next         *State `msgpack:"next,omitempty"`
	NextTemplate []byte `msgpack:"next_template,omitempty"`
}

// Field is one field value.
type Field struct {
	Name  string `msgpack:"name"`
	Value string `msgpack:"value"`
}

// InputState records one occupied or template-carrying input slot.
type InputState struct {
	Name     string `msgpack:"name"`
	Block    *State `msgpack:"block,omitempty"`
	Template []byte `msgpack:"template,omitempty"`
}

// WorkspaceState is the serialized form of a whole workspace: its
// top-level trees in creation order.
type WorkspaceState struct {
	Blocks []*State `msgpack:"blocks"`
}

// captureState snapshots b into a State. With withIDs set the blocks keep
// their ids; templates are captured without them.
func captureState(b *blockly.Block, withIDs bool) *State {
	st := &State{Type: b.Type(), Shadow: b.IsShadow()}
	if withIDs {
		st.ID = b.ID()
	}
	for _, name := range b.FieldNames() {
		v, _ := b.Field(name)
		st.Fields = append(st.Fields, Field{Name: name, Value: v})
	}
	for _, in := range b.Inputs() {
		conn := in.Connection()
		is := InputState{Name: in.Name(), Template: conn.Template()}
		if t := conn.TargetBlock(); t != nil {
			is.Block = captureState(t, withIDs)
		}
		if is.Block != nil || is.Template != nil {
			st.Inputs = append(st.Inputs, is)
		}
	}
	if nc := b.NextConnection(); nc != nil {
		st.NextTemplate = nc.Template()
		if t := nc.TargetBlock(); t != nil {
			st.Next = captureState(t, withIDs)
		}
	}
	return st
}

// buildBlock rebuilds a State on w through the ordinary connection
// protocol and returns the subtree's root block.
func buildBlock(st *State, w *blockly.Workspace) (*blockly.Block, error) {
	if st == nil || st.Type == "" {
		return nil, fmt.Errorf("serial: state has no block type")
	}
	var (
		b   *blockly.Block
		err error
	)
	if st.ID != "" {
		b, err = w.NewBlockWithID(st.Type, st.ID)
	} else {
		b, err = w.NewBlock(st.Type)
	}
	if err != nil {
		return nil, err
	}
	if st.Shadow {
		if err := b.SetShadow(true); err != nil {
			return nil, err
		}
	}
	for _, f := range st.Fields {
		if err := b.SetField(f.Name, f.Value); err != nil {
			return nil, err
		}
	}
	for _, is := range st.Inputs {
		in := b.Input(is.Name)
		if in == nil {
			return nil, fmt.Errorf("serial: block type %q has no input %q", st.Type, is.Name)
		}
		if err := restoreSlot(in.Connection(), is.Template, is.Block, w); err != nil {
			return nil, err
		}
	}
	if st.Next != nil || st.NextTemplate != nil {
		nc := b.NextConnection()
		if nc == nil {
			return nil, fmt.Errorf("serial: block type %q has no next connection", st.Type)
		}
		if err := restoreSlot(nc, st.NextTemplate, st.Next, w); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// restoreSlot rebuilds one slot: template first, then the recorded
// occupant. Materializing the template into the empty slot and letting the
// occupant displace it reproduces the saved state exactly, including a
// shadow occupant that had drifted from its template.
func restoreSlot(conn *blockly.Connection, template []byte, occupant *State, w *blockly.Workspace) error {
	if template != nil {
		if err := conn.SetTemplate(template); err != nil {
			return err
		}
	}
	if occupant == nil {
		return nil
	}
	child, err := buildBlock(occupant, w)
	if err != nil {
		return err
	}
	childConn := child.OutputConnection()
	if childConn == nil {
		childConn = child.PreviousConnection()
	}
	if childConn == nil {
		return fmt.Errorf("serial: block type %q cannot attach to a slot", occupant.Type)
	}
	return conn.Connect(childConn)
}
