package codegen

import (
	"errors"
	"strings"

	"github.com/codiplaykz/blockly"
)

// Sentinel errors for common emission failures.
var (
	// ErrNoEmitter indicates a block type with no registered emitter.
	ErrNoEmitter = errors.New("blockly: no emitter for block type")
	// ErrEmptyInput indicates a required value input with nothing attached.
	ErrEmptyInput = errors.New("blockly: required input is empty")
	// ErrBadField indicates a field value the emitter cannot interpret.
	ErrBadField = errors.New("blockly: bad field value")
)

// EmitError locates an emission failure on a specific block.
type EmitError struct {
	BlockID   string
	BlockType string
	Input     string // input name, if the failure is input-scoped
	Field     string // field name, if the failure is field-scoped
	Cause     error
}

// Error implements the error interface.
func (e *EmitError) Error() string {
	var b strings.Builder
	b.WriteString("blockly: emit error")
	if e.BlockType != "" {
		b.WriteString(" on ")
		b.WriteString(e.BlockType)
	}
	if e.BlockID != "" {
		b.WriteString(" (block: ")
		b.WriteString(e.BlockID)
		b.WriteString(")")
	}
	if e.Input != "" {
		b.WriteString(" input ")
		b.WriteString(e.Input)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *EmitError) Unwrap() error {
	return e.Cause
}

// IsEmitError reports whether the error is an EmitError.
func IsEmitError(err error) bool {
	var emitErr *EmitError
	return errors.As(err, &emitErr)
}

func newEmitError(b *blockly.Block, input, field string, cause error) *EmitError {
	e := &EmitError{Input: input, Field: field, Cause: cause}
	if b != nil {
		e.BlockID = b.ID()
		e.BlockType = b.Type()
	}
	return e
}
