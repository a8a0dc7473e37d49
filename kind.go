package blockly

import "fmt"

// Kind classifies a connection's role on its owning block. It is fixed at
// creation and determines which side of a link drives the attach and
// detach logic.
type Kind int

// Connection kinds.
const (
	// OutputValue is the single upward connection of an expression block.
	OutputValue Kind = iota + 1

	// InputValue is a named slot on a block that accepts one expression.
	InputValue

	// PreviousStatement is the upward connection of a statement block.
	PreviousStatement

	// NextStatement is the downward connection continuing a statement
	// stack, or a statement slot nested inside a block.
	NextStatement
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case OutputValue:
		return "output"
	case InputValue:
		return "input"
	case PreviousStatement:
		return "previous"
	case NextStatement:
		return "next"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsSuperior reports whether connections of this kind sit on the parent
// side of a link. InputValue and NextStatement are superior; OutputValue
// and PreviousStatement are inferior.
func (k Kind) IsSuperior() bool {
	return k == InputValue || k == NextStatement
}

// Counterpart returns the kind that may link opposite this one.
func (k Kind) Counterpart() Kind {
	switch k {
	case OutputValue:
		return InputValue
	case InputValue:
		return OutputValue
	case PreviousStatement:
		return NextStatement
	case NextStatement:
		return PreviousStatement
	default:
		return 0
	}
}

// valid reports whether k is one of the four declared kinds.
func (k Kind) valid() bool {
	return k >= OutputValue && k <= NextStatement
}
