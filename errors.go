package blockly

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for the connection protocol.
var (
	// ErrProtocolViolation is returned for out-of-protocol misuse: nil or
	// disposed endpoints handed to the link step, a displaced block lacking
	// the connection kind its slot requires, a respawned placeholder
	// matching neither side of its connection, broken reciprocity detected
	// on disconnect, or a link that would make a block its own descendant.
	// It marks a programmer error, never an expected outcome.
	ErrProtocolViolation = errors.New("blockly: connection protocol violation")

	// ErrNotConnected is returned by Disconnect when the connection has no
	// link to sever.
	ErrNotConnected = errors.New("blockly: connection not connected")

	// ErrIncompatible is returned by Connect when the compatibility checker
	// refuses the pair. TryConnect folds it into a false return.
	ErrIncompatible = errors.New("blockly: connections not compatible")

	// ErrDisposed is returned when an operation touches a disposed
	// connection, block, or workspace.
	ErrDisposed = errors.New("blockly: use after dispose")

	// ErrNoSerializer is returned when an operation needs to snapshot or
	// materialize placeholder content but the workspace has no serializer
	// configured.
	ErrNoSerializer = errors.New("blockly: no serializer configured")

	// ErrUnknownType is returned when a block type name cannot be resolved
	// through the workspace's type resolver.
	ErrUnknownType = errors.New("blockly: unknown block type")

	// ErrBadTemplate is returned when a stored placeholder template cannot
	// be materialized into a block.
	ErrBadTemplate = errors.New("blockly: bad placeholder template")

	// ErrUnknownField is returned when a field name is not declared by the
	// block's type.
	ErrUnknownField = errors.New("blockly: unknown field")
)

// ProtocolError reports out-of-protocol misuse of the connection pair
// protocol. It names the operation that detected the violation and the
// connection involved, if known.
type ProtocolError struct {
	op     string // operation that detected the violation, e.g. "connect"
	detail string // what was violated
	conn   string // locator of the primary connection, if known
}

// Error returns the error string.
func (e *ProtocolError) Error() string {
	if e.conn != "" {
		return fmt.Sprintf("blockly: %s: %s (%s)", e.op, e.detail, e.conn)
	}
	return fmt.Sprintf("blockly: %s: %s", e.op, e.detail)
}

// Is reports whether the target error matches ErrProtocolViolation.
// This allows errors.Is(protocolErr, ErrProtocolViolation) to return true.
func (e *ProtocolError) Is(err error) bool {
	return err == ErrProtocolViolation
}

// Op returns the operation that detected the violation.
func (e *ProtocolError) Op() string {
	return e.op
}

// Conn returns the locator of the connection involved, if known.
func (e *ProtocolError) Conn() string {
	return e.conn
}

// newProtocolError returns a new ProtocolError for op, locating c when
// non-nil.
func newProtocolError(op, detail string, c *Connection) *ProtocolError {
	e := &ProtocolError{op: op, detail: detail}
	if c != nil {
		e.conn = c.String()
	}
	return e
}

// IsProtocolViolation returns true if the error is a protocol violation.
func IsProtocolViolation(err error) bool {
	if err == nil {
		return false
	}
	var e *ProtocolError
	return errors.As(err, &e) || errors.Is(err, ErrProtocolViolation)
}

// IncompatibleError reports a Connect refused by the compatibility checker.
// It carries the checker's reason so callers do not have to re-query the
// checker to explain the refusal.
type IncompatibleError struct {
	reason Reason
	a, b   string // locators of the two connections
}

// Error returns the error string.
func (e *IncompatibleError) Error() string {
	return fmt.Sprintf("blockly: cannot connect %s to %s: %s", e.a, e.b, e.reason)
}

// Is reports whether the target error matches ErrIncompatible.
// This allows errors.Is(incompatibleErr, ErrIncompatible) to return true.
func (e *IncompatibleError) Is(err error) bool {
	return err == ErrIncompatible
}

// Reason returns the checker's refusal reason.
func (e *IncompatibleError) Reason() Reason {
	return e.reason
}

// newIncompatibleError returns a new IncompatibleError for the pair (a, b).
func newIncompatibleError(reason Reason, a, b *Connection) *IncompatibleError {
	e := &IncompatibleError{reason: reason}
	if a != nil {
		e.a = a.String()
	}
	if b != nil {
		e.b = b.String()
	}
	return e
}

// IsIncompatible returns true if the error is a checker refusal.
func IsIncompatible(err error) bool {
	if err == nil {
		return false
	}
	var e *IncompatibleError
	return errors.As(err, &e) || errors.Is(err, ErrIncompatible)
}

// ConnectReason extracts the checker's refusal reason from a Connect error.
// The second return is false when err carries no reason.
func ConnectReason(err error) (Reason, bool) {
	var e *IncompatibleError
	if errors.As(err, &e) {
		return e.reason, true
	}
	return CanConnect, false
}

// IsNotConnected returns true if the error is ErrNotConnected.
func IsNotConnected(err error) bool {
	return errors.Is(err, ErrNotConnected)
}

// IsDisposed returns true if the error is ErrDisposed.
func IsDisposed(err error) bool {
	return errors.Is(err, ErrDisposed)
}

// IsUnknownType returns true if the error is ErrUnknownType.
func IsUnknownType(err error) bool {
	return errors.Is(err, ErrUnknownType)
}

// IsBadTemplate returns true if the error is ErrBadTemplate.
func IsBadTemplate(err error) bool {
	return errors.Is(err, ErrBadTemplate)
}
