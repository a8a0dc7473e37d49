package blockly

import (
	"fmt"
	"strings"
)

// Reason classifies the outcome of a compatibility query. CanConnect means
// the pair may link; every other value names the first failed check.
type Reason int

// Compatibility reason codes, in the order the checks run.
const (
	// CanConnect means the two connections may be linked.
	CanConnect Reason = iota
	// TargetNull means one or both connections were nil.
	TargetNull
	// SelfConnection means both connections belong to the same block.
	SelfConnection
	// WrongType means the inferior kind is not the counterpart of the
	// superior kind (e.g. an output offered to a next-statement slot).
	WrongType
	// DifferentWorkspaces means the two blocks live on different
	// workspaces.
	DifferentWorkspaces
	// ShadowParent means a placeholder block would acquire an ordinary
	// block as its child.
	ShadowParent
	// ChecksFailed means the compatibility tag sets do not intersect.
	ChecksFailed
	// DragChecksFailed means a drag-context policy refused the pair.
	// BasicChecker never produces it; spatial checkers layered on top do.
	DragChecksFailed
)

// String returns a short, stable name for the reason.
func (r Reason) String() string {
	switch r {
	case CanConnect:
		return "can connect"
	case TargetNull:
		return "target is nil"
	case SelfConnection:
		return "self connection"
	case WrongType:
		return "wrong connection kind"
	case DifferentWorkspaces:
		return "different workspaces"
	case ShadowParent:
		return "shadow block cannot parent an ordinary block"
	case ChecksFailed:
		return "compatibility tags do not intersect"
	case DragChecksFailed:
		return "drag checks failed"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Checker decides whether two connections may be linked. The workspace
// consults its checker on every Connect call and on every SetTags
// revalidation; implementations must therefore be side-effect free.
//
// The drag flag marks queries issued on behalf of an in-progress drag
// gesture. The core protocol always passes false; rendering layers that
// probe candidate targets mid-drag pass true and may apply stricter
// policy.
type Checker interface {
	// CanConnect reports whether a and b may be linked.
	CanConnect(a, b *Connection, drag bool) bool

	// CanConnectWithReason reports why a and b may or may not be linked.
	// It returns CanConnect when the pair is acceptable.
	CanConnectWithReason(a, b *Connection, drag bool) Reason

	// ErrorMessage renders a human-readable diagnostic for a refusal.
	ErrorMessage(reason Reason, a, b *Connection) string
}

// BasicChecker is the default compatibility policy: structural safety
// checks followed by tag-intersection checks. It carries no state and is
// safe to share between workspaces. Custom policies usually embed it and
// override a single method.
type BasicChecker struct{}

// compile-time check that BasicChecker satisfies Checker.
var _ Checker = BasicChecker{}

// CanConnect reports whether a and b may be linked.
func (c BasicChecker) CanConnect(a, b *Connection, drag bool) bool {
	return c.CanConnectWithReason(a, b, drag) == CanConnect
}

// CanConnectWithReason reports why a and b may or may not be linked.
func (c BasicChecker) CanConnectWithReason(a, b *Connection, drag bool) Reason {
	if reason := c.SafetyChecks(a, b); reason != CanConnect {
		return reason
	}
	if !c.TypeChecks(a, b) {
		return ChecksFailed
	}
	if drag && !c.DragChecks(a, b) {
		return DragChecksFailed
	}
	return CanConnect
}

// SafetyChecks runs the structural checks that hold regardless of tags:
// non-nil endpoints, distinct blocks, counterpart kinds, a shared
// workspace, and no ordinary block under a placeholder parent.
func (BasicChecker) SafetyChecks(a, b *Connection) Reason {
	if a == nil || b == nil {
		return TargetNull
	}
	sup, inf := a, b
	if !a.IsSuperior() {
		sup, inf = b, a
	}
	supBlock, infBlock := sup.Block(), inf.Block()
	switch {
	case supBlock == infBlock:
		return SelfConnection
	case inf.Kind() != sup.Kind().Counterpart():
		return WrongType
	case supBlock.Workspace() != infBlock.Workspace():
		return DifferentWorkspaces
	case supBlock.IsShadow() && !infBlock.IsShadow():
		return ShadowParent
	}
	return CanConnect
}

// TypeChecks reports whether the tag sets of a and b intersect. A nil tag
// set accepts anything.
func (BasicChecker) TypeChecks(a, b *Connection) bool {
	ta, tb := a.Tags(), b.Tags()
	if ta == nil || tb == nil {
		return true
	}
	for _, tag := range ta {
		for _, other := range tb {
			if tag == other {
				return true
			}
		}
	}
	return false
}

// DragChecks applies drag-context policy. BasicChecker has no spatial
// knowledge and accepts every pair that passed the earlier checks.
func (BasicChecker) DragChecks(a, b *Connection) bool {
	return true
}

// ErrorMessage renders a human-readable diagnostic for a refusal.
func (BasicChecker) ErrorMessage(reason Reason, a, b *Connection) string {
	switch reason {
	case SelfConnection:
		return "attempted to connect a block to itself"
	case DifferentWorkspaces:
		return "blocks are not on the same workspace"
	case WrongType:
		return "attempted to connect incompatible kinds"
	case TargetNull:
		return "target connection is nil"
	case ChecksFailed:
		var sb strings.Builder
		sb.WriteString("connection checks failed: ")
		fmt.Fprintf(&sb, "%s expected %s, found %s", a, tagList(a.Tags()), tagList(b.Tags()))
		return sb.String()
	case ShadowParent:
		return "connecting an ordinary block to a shadow block"
	case DragChecksFailed:
		return "drag checks failed"
	case CanConnect:
		return "the connections can connect"
	default:
		return fmt.Sprintf("unknown connection failure (%d)", int(reason))
	}
}

// tagList formats a tag set for diagnostics.
func tagList(tags []string) string {
	if tags == nil {
		return "[any]"
	}
	return "[" + strings.Join(tags, ", ") + "]"
}
