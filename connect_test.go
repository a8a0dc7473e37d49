package blockly_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codiplaykz/blockly"
	"github.com/codiplaykz/blockly/events"
)

func TestConnectLinksPair(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		parentType string
		childType  string
		parentConn func(*blockly.Block) *blockly.Connection
		childConn  func(*blockly.Block) *blockly.Connection
		wantInput  string
	}{
		{
			name:       "value_input",
			parentType: "sum",
			childType:  "num",
			parentConn: func(b *blockly.Block) *blockly.Connection { return b.Input("A").Connection() },
			childConn:  func(b *blockly.Block) *blockly.Connection { return b.OutputConnection() },
			wantInput:  "A",
		},
		{
			name:       "next_statement",
			parentType: "step",
			childType:  "step",
			parentConn: func(b *blockly.Block) *blockly.Connection { return b.NextConnection() },
			childConn:  func(b *blockly.Block) *blockly.Connection { return b.PreviousConnection() },
		},
		{
			name:       "nested_statement",
			parentType: "wrap",
			childType:  "step",
			parentConn: func(b *blockly.Block) *blockly.Connection { return b.Input("DO").Connection() },
			childConn:  func(b *blockly.Block) *blockly.Connection { return b.PreviousConnection() },
			wantInput:  "DO",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := newTestWorkspace(t)
			parent := newBlock(t, w, tt.parentType)
			child := newBlock(t, w, tt.childType)
			pc, cc := tt.parentConn(parent), tt.childConn(child)

			log := recordEvents(w)
			require.NoError(t, pc.Connect(cc))

			assert.Same(t, cc, pc.Target())
			assert.Same(t, pc, cc.Target())
			assert.Same(t, child, pc.TargetBlock())
			assert.Same(t, parent, cc.TargetBlock())
			assert.True(t, pc.IsConnected())
			assert.Same(t, parent, child.Parent())
			assert.Same(t, parent, child.RootBlock())

			moves := log.moves()
			require.Len(t, moves, 1)
			assert.Equal(t, child.ID(), moves[0].BlockID)
			assert.Empty(t, moves[0].OldParentID)
			assert.Empty(t, moves[0].OldInputName)
			assert.Equal(t, parent.ID(), moves[0].NewParentID)
			assert.Equal(t, tt.wantInput, moves[0].NewInputName)
			assert.NotEmpty(t, moves[0].GroupID())
			assert.True(t, moves[0].Recorded())
		})
	}
}

// TestConnectEitherSideDrives checks that calling Connect from the child
// side behaves exactly like calling it from the parent side.
func TestConnectEitherSideDrives(t *testing.T) {
	t.Parallel()

	w := newTestWorkspace(t)
	parent := newBlock(t, w, "sum")
	child := newBlock(t, w, "num")

	require.NoError(t, child.OutputConnection().Connect(parent.Input("B").Connection()))
	assert.Same(t, parent, child.Parent())
	assert.Same(t, child, parent.Input("B").TargetBlock())
}

func TestConnectIdempotent(t *testing.T) {
	t.Parallel()

	w := newTestWorkspace(t)
	parent := newBlock(t, w, "sum")
	child := newBlock(t, w, "num")
	pc := parent.Input("A").Connection()
	mustConnect(t, pc, child.OutputConnection())

	log := recordEvents(w)
	require.NoError(t, pc.Connect(child.OutputConnection()))
	require.NoError(t, child.OutputConnection().Connect(pc))
	assert.Empty(t, log.all)
}

// TestConnectMovesBetweenParents checks that a block already connected
// elsewhere is vacated from its old slot as part of the new connect, with
// both moves recorded under the one group.
func TestConnectMovesBetweenParents(t *testing.T) {
	t.Parallel()

	w := newTestWorkspace(t)
	first := newBlock(t, w, "sum")
	second := newBlock(t, w, "sum")
	child := newBlock(t, w, "num")
	mustConnect(t, first.Input("A").Connection(), child.OutputConnection())

	log := recordEvents(w)
	require.NoError(t, second.Input("B").Connection().Connect(child.OutputConnection()))

	assert.Same(t, second, child.Parent())
	assert.False(t, first.Input("A").Connection().IsConnected())

	moves := log.moves()
	require.Len(t, moves, 2)
	assert.Equal(t, first.ID(), moves[0].OldParentID)
	assert.Equal(t, "A", moves[0].OldInputName)
	assert.Empty(t, moves[0].NewParentID)
	assert.Empty(t, moves[1].OldParentID)
	assert.Equal(t, second.ID(), moves[1].NewParentID)
	assert.Equal(t, "B", moves[1].NewInputName)
	log.singleGroup(t)
}

func TestConnectRefusals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pair func(t *testing.T) (*blockly.Connection, *blockly.Connection)
		want blockly.Reason
	}{
		{
			name: "self_connection",
			pair: func(t *testing.T) (*blockly.Connection, *blockly.Connection) {
				w := newTestWorkspace(t)
				b := newBlock(t, w, "sum")
				return b.Input("A").Connection(), b.OutputConnection()
			},
			want: blockly.SelfConnection,
		},
		{
			name: "two_inferiors",
			pair: func(t *testing.T) (*blockly.Connection, *blockly.Connection) {
				w := newTestWorkspace(t)
				return newBlock(t, w, "num").OutputConnection(), newBlock(t, w, "step").PreviousConnection()
			},
			want: blockly.WrongType,
		},
		{
			name: "two_superiors",
			pair: func(t *testing.T) (*blockly.Connection, *blockly.Connection) {
				w := newTestWorkspace(t)
				return newBlock(t, w, "sum").Input("A").Connection(), newBlock(t, w, "sum").Input("B").Connection()
			},
			want: blockly.WrongType,
		},
		{
			name: "value_into_statement_slot",
			pair: func(t *testing.T) (*blockly.Connection, *blockly.Connection) {
				w := newTestWorkspace(t)
				return newBlock(t, w, "wrap").Input("DO").Connection(), newBlock(t, w, "num").OutputConnection()
			},
			want: blockly.WrongType,
		},
		{
			name: "different_workspaces",
			pair: func(t *testing.T) (*blockly.Connection, *blockly.Connection) {
				w1 := newTestWorkspace(t)
				w2 := newTestWorkspace(t)
				return newBlock(t, w1, "sum").Input("A").Connection(), newBlock(t, w2, "num").OutputConnection()
			},
			want: blockly.DifferentWorkspaces,
		},
		{
			name: "shadow_parent_of_ordinary_child",
			pair: func(t *testing.T) (*blockly.Connection, *blockly.Connection) {
				w := newTestWorkspace(t)
				s, err := w.NewShadowBlock("sum")
				require.NoError(t, err)
				return s.Input("A").Connection(), newBlock(t, w, "num").OutputConnection()
			},
			want: blockly.ShadowParent,
		},
		{
			name: "tag_mismatch",
			pair: func(t *testing.T) (*blockly.Connection, *blockly.Connection) {
				w := newTestWorkspace(t)
				return newBlock(t, w, "sum").Input("A").Connection(), newBlock(t, w, "flag").OutputConnection()
			},
			want: blockly.ChecksFailed,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a, b := tt.pair(t)
			err := a.Connect(b)
			require.Error(t, err)
			assert.ErrorIs(t, err, blockly.ErrIncompatible)
			assert.True(t, blockly.IsIncompatible(err))
			reason, ok := blockly.ConnectReason(err)
			require.True(t, ok)
			assert.Equal(t, tt.want, reason)

			// A refusal leaves no trace on either side.
			assert.False(t, a.IsConnected())
			assert.False(t, b.IsConnected())
			assert.False(t, a.TryConnect(b))
		})
	}
}

// TestConnectShadowUnderOrdinary checks the asymmetry of the placeholder
// rule: a placeholder may sit under an ordinary parent even though the
// reverse is refused.
func TestConnectShadowUnderOrdinary(t *testing.T) {
	t.Parallel()

	w := newTestWorkspace(t)
	parent := newBlock(t, w, "sum")
	s, err := w.NewShadowBlock("num")
	require.NoError(t, err)

	require.NoError(t, parent.Input("A").Connection().Connect(s.OutputConnection()))
	assert.Same(t, parent, s.Parent())
}

func TestConnectCycleRejected(t *testing.T) {
	t.Parallel()

	w := newTestWorkspace(t)
	outer := newBlock(t, w, "sum")
	inner := newBlock(t, w, "sum")
	mustConnect(t, outer.Input("A").Connection(), inner.OutputConnection())

	err := inner.Input("A").Connection().Connect(outer.OutputConnection())
	require.Error(t, err)
	assert.True(t, blockly.IsProtocolViolation(err))
	assert.ErrorIs(t, err, blockly.ErrProtocolViolation)

	// Deeper cycles are caught the same way.
	deep := newBlock(t, w, "neg")
	mustConnect(t, inner.Input("B").Connection(), deep.OutputConnection())
	err = deep.Input("OPERAND").Connection().Connect(outer.OutputConnection())
	assert.True(t, blockly.IsProtocolViolation(err))
}

func TestConnectNilAndDisposed(t *testing.T) {
	t.Parallel()

	w := newTestWorkspace(t)
	b := newBlock(t, w, "sum")

	err := b.Input("A").Connection().Connect(nil)
	require.Error(t, err)
	assert.True(t, blockly.IsProtocolViolation(err))

	var none *blockly.Connection
	err = none.Connect(b.Input("A").Connection())
	require.Error(t, err)
	assert.True(t, blockly.IsProtocolViolation(err))
	assert.False(t, none.TryConnect(b.Input("A").Connection()))

	dead := newBlock(t, w, "num")
	conn := dead.OutputConnection()
	require.NoError(t, dead.Dispose(true))
	assert.True(t, conn.Disposed())
	assert.ErrorIs(t, b.Input("A").Connection().Connect(conn), blockly.ErrDisposed)
}

func TestDisconnect(t *testing.T) {
	t.Parallel()

	t.Run("value_link", func(t *testing.T) {
		t.Parallel()

		w := newTestWorkspace(t)
		parent := newBlock(t, w, "sum")
		child := newBlock(t, w, "num")
		pc := parent.Input("A").Connection()
		mustConnect(t, pc, child.OutputConnection())

		log := recordEvents(w)
		require.NoError(t, pc.Disconnect())

		assert.Nil(t, pc.Target())
		assert.Nil(t, child.OutputConnection().Target())
		assert.Nil(t, child.Parent())
		assert.Contains(t, w.TopBlocks(), child)

		moves := log.moves()
		require.Len(t, moves, 1)
		assert.Equal(t, child.ID(), moves[0].BlockID)
		assert.Equal(t, parent.ID(), moves[0].OldParentID)
		assert.Equal(t, "A", moves[0].OldInputName)
		assert.Empty(t, moves[0].NewParentID)
	})

	t.Run("from_child_side", func(t *testing.T) {
		t.Parallel()

		w := newTestWorkspace(t)
		top := newBlock(t, w, "step")
		next := newBlock(t, w, "step")
		mustConnect(t, top.NextConnection(), next.PreviousConnection())

		require.NoError(t, next.PreviousConnection().Disconnect())
		assert.Nil(t, top.NextConnection().Target())
		assert.Nil(t, next.Parent())
	})

	t.Run("not_connected", func(t *testing.T) {
		t.Parallel()

		w := newTestWorkspace(t)
		b := newBlock(t, w, "num")
		err := b.OutputConnection().Disconnect()
		assert.ErrorIs(t, err, blockly.ErrNotConnected)
		assert.True(t, blockly.IsNotConnected(err))
	})

	t.Run("nil_receiver", func(t *testing.T) {
		t.Parallel()

		var none *blockly.Connection
		assert.True(t, blockly.IsProtocolViolation(none.Disconnect()))
	})
}

// TestConnectGroupCovers checks that a plain connect and its cascade share
// one event group while independent operations get fresh groups.
func TestConnectGroupCovers(t *testing.T) {
	t.Parallel()

	w := newTestWorkspace(t)
	parent := newBlock(t, w, "sum")
	a := newBlock(t, w, "num")
	b := newBlock(t, w, "num")

	log := recordEvents(w)
	mustConnect(t, parent.Input("A").Connection(), a.OutputConnection())
	mustConnect(t, parent.Input("B").Connection(), b.OutputConnection())

	moves := log.moves()
	require.Len(t, moves, 2)
	assert.NotEmpty(t, moves[0].GroupID())
	assert.NotEmpty(t, moves[1].GroupID())
	assert.NotEqual(t, moves[0].GroupID(), moves[1].GroupID())
}

func TestConnectEventKindsOrder(t *testing.T) {
	t.Parallel()

	w := newTestWorkspace(t)
	parent := newBlock(t, w, "wrap")
	child := newBlock(t, w, "step")

	log := recordEvents(w)
	mustConnect(t, parent.Input("DO").Connection(), child.PreviousConnection())
	require.NoError(t, child.PreviousConnection().Disconnect())

	assert.Equal(t, []events.Kind{events.KindMove, events.KindMove}, log.kinds())
}
