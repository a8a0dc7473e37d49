package blockly

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorsTestConn(t *testing.T) *Connection {
	t.Helper()
	w := NewWorkspace(WithResolver(ResolverFunc(func(name string) (*BlockType, error) {
		return &BlockType{Name: name, Output: &CheckSpec{Tags: []string{"Number"}}}, nil
	})))
	b, err := w.NewBlock("lit")
	require.NoError(t, err)
	return b.OutputConnection()
}

func TestProtocolErrorFormat(t *testing.T) {
	t.Parallel()

	conn := errorsTestConn(t)
	err := newProtocolError("connect", "nil connection", conn)
	assert.Equal(t, "connect", err.Op())
	assert.Contains(t, err.Error(), "blockly: connect: nil connection")
	assert.Contains(t, err.Error(), "output connection of lit block")
	assert.Equal(t, conn.String(), err.Conn())
	assert.ErrorIs(t, err, ErrProtocolViolation)

	bare := newProtocolError("disconnect", "boom", nil)
	assert.Equal(t, "blockly: disconnect: boom", bare.Error())
	assert.Empty(t, bare.Conn())
}

func TestProtocolErrorDetection(t *testing.T) {
	t.Parallel()

	err := newProtocolError("connect", "x", nil)
	assert.True(t, IsProtocolViolation(err))
	assert.True(t, IsProtocolViolation(fmt.Errorf("outer: %w", err)))
	assert.True(t, IsProtocolViolation(ErrProtocolViolation))
	assert.False(t, IsProtocolViolation(nil))
	assert.False(t, IsProtocolViolation(errors.New("unrelated")))
}

func TestIncompatibleErrorFormat(t *testing.T) {
	t.Parallel()

	a := errorsTestConn(t)
	b := errorsTestConn(t)
	err := newIncompatibleError(DifferentWorkspaces, a, b)
	assert.Equal(t, DifferentWorkspaces, err.Reason())
	assert.Contains(t, err.Error(), "cannot connect")
	assert.Contains(t, err.Error(), a.String())
	assert.Contains(t, err.Error(), b.String())
	assert.Contains(t, err.Error(), "different workspaces")
	assert.ErrorIs(t, err, ErrIncompatible)
	assert.True(t, IsIncompatible(err))
	assert.True(t, IsIncompatible(fmt.Errorf("outer: %w", err)))
	assert.False(t, IsIncompatible(errors.New("unrelated")))
}

func TestConnectReason(t *testing.T) {
	t.Parallel()

	reason, ok := ConnectReason(newIncompatibleError(ChecksFailed, nil, nil))
	require.True(t, ok)
	assert.Equal(t, ChecksFailed, reason)

	reason, ok = ConnectReason(fmt.Errorf("outer: %w", newIncompatibleError(WrongType, nil, nil)))
	require.True(t, ok)
	assert.Equal(t, WrongType, reason)

	_, ok = ConnectReason(errors.New("unrelated"))
	assert.False(t, ok)
	_, ok = ConnectReason(nil)
	assert.False(t, ok)
}

func TestSentinelPredicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func(error) bool
		err  error
	}{
		{name: "not_connected", fn: IsNotConnected, err: ErrNotConnected},
		{name: "disposed", fn: IsDisposed, err: ErrDisposed},
		{name: "unknown_type", fn: IsUnknownType, err: ErrUnknownType},
		{name: "bad_template", fn: IsBadTemplate, err: ErrBadTemplate},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.True(t, tt.fn(tt.err))
			assert.True(t, tt.fn(fmt.Errorf("wrapped: %w", tt.err)))
			assert.False(t, tt.fn(nil))
			assert.False(t, tt.fn(errors.New("unrelated")))
		})
	}
}
