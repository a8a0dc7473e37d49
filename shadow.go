package blockly

import "fmt"

// respawnShadow materializes a placeholder from the connection's stored
// template and links it through the standard connect protocol, so the new
// link lands in the same event group as the disconnect that exposed the
// slot. It is a no-op unless a template is present, the workspace is live,
// and undo recording is active.
func (c *Connection) respawnShadow() error {
	if c.template == nil {
		return nil
	}
	b := c.block
	w := b.workspace
	if w == nil || w.Disposed() || b.isDeadOrDying() {
		return nil
	}
	if !w.events.RecordingUndo() {
		return nil
	}
	if w.serializer == nil {
		return ErrNoSerializer
	}
	shadow, err := w.serializer.Materialize(c.template, w)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadTemplate, err)
	}
	if !shadow.IsShadow() {
		if err := shadow.SetShadow(true); err != nil {
			return err
		}
	}
	var child *Connection
	switch c.kind {
	case InputValue:
		child = shadow.OutputConnection()
	case NextStatement:
		child = shadow.PreviousConnection()
	default:
		return newProtocolError("respawn", "placeholder template on inferior connection", c)
	}
	if child == nil {
		// A template must match the connection kind it was captured from.
		derr := shadow.Dispose(true)
		if derr != nil {
			return derr
		}
		return newProtocolError("respawn", "placeholder matches neither side of the connection", c)
	}
	return c.Connect(child)
}
