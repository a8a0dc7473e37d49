package blockly

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/codiplaykz/blockly/events"
)

// DefaultUndoLimit bounds the undo stack unless overridden with
// WithUndoLimit.
const DefaultUndoLimit = 1024

// Serializer snapshots blocks to opaque state blobs and rebuilds them.
// The core uses it for placeholder templates and for the payloads of
// create and delete events; the serial package provides the standard
// implementation.
type Serializer interface {
	// SerializeBlock snapshots b and its attached subtree, preserving
	// block ids so that replaying history can restore them.
	SerializeBlock(b *Block) ([]byte, error)

	// SerializeTemplate snapshots b as a placeholder template. Ids are
	// stripped so every materialization mints fresh ones.
	SerializeTemplate(b *Block) ([]byte, error)

	// Materialize rebuilds a block subtree from data on w and returns its
	// root. The new blocks are top-level; connecting them is the caller's
	// concern.
	Materialize(data []byte, w *Workspace) (*Block, error)
}

// BumpHandler receives the deferred notification for a block that ended up
// orphaned: its primary connection and the connection it was displaced
// from. Rendering layers use it to nudge the orphan visually clear.
type BumpHandler func(orphan, against *Connection)

// Workspace owns an arena of blocks and the collaborators the connection
// protocol consumes: the compatibility checker, the event recorder, the
// serializer, the type resolver, and the deferred-task scheduler.
//
// A workspace is not safe for concurrent use; all mutation must come
// from one goroutine.
type Workspace struct {
	id         string
	log        *slog.Logger
	events     *events.Recorder
	checker    Checker
	serializer Serializer
	resolver   TypeResolver
	scheduler  *Scheduler
	bump       BumpHandler
	bumpDelay  time.Duration

	blocks    map[string]*Block
	topBlocks []*Block

	undoStack []events.Event
	redoStack []events.Event
	undoLimit int
	listener  int

	disposed bool
}

// Option configures a workspace.
type Option func(*Workspace)

// WithID sets the workspace id instead of generating one.
func WithID(id string) Option {
	return func(w *Workspace) { w.id = id }
}

// WithChecker replaces the default BasicChecker compatibility policy.
func WithChecker(c Checker) Option {
	return func(w *Workspace) { w.checker = c }
}

// WithSerializer wires the serializer used for placeholder templates and
// event payloads. Without one, placeholder capture and respawn fail with
// ErrNoSerializer and event payloads are left empty.
func WithSerializer(s Serializer) Option {
	return func(w *Workspace) { w.serializer = s }
}

// WithResolver wires the type resolver consulted by NewBlock.
func WithResolver(r TypeResolver) Option {
	return func(w *Workspace) { w.resolver = r }
}

// WithLogger sets the workspace logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(w *Workspace) { w.log = l }
}

// WithBumpHandler registers the receiver of deferred orphan notifications.
func WithBumpHandler(h BumpHandler) Option {
	return func(w *Workspace) { w.bump = h }
}

// WithBumpDelay overrides the BumpDelay used for deferred notifications.
func WithBumpDelay(d time.Duration) Option {
	return func(w *Workspace) { w.bumpDelay = d }
}

// WithUndoLimit bounds the undo stack to n entries; n <= 0 removes the
// bound.
func WithUndoLimit(n int) Option {
	return func(w *Workspace) { w.undoLimit = n }
}

// NewWorkspace returns an empty workspace. The returned workspace records
// undo history through its own recorder until Dispose.
func NewWorkspace(opts ...Option) *Workspace {
	w := &Workspace{
		id:        uuid.NewString(),
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		events:    events.NewRecorder(),
		checker:   BasicChecker{},
		scheduler: NewScheduler(),
		bumpDelay: BumpDelay,
		blocks:    make(map[string]*Block),
		undoLimit: DefaultUndoLimit,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.listener = w.events.AddListener(w.recordForUndo)
	return w
}

// ID returns the workspace id.
func (w *Workspace) ID() string {
	return w.id
}

// Events returns the workspace's event recorder.
func (w *Workspace) Events() *events.Recorder {
	return w.events
}

// Checker returns the compatibility checker in use.
func (w *Workspace) Checker() Checker {
	return w.checker
}

// Serializer returns the configured serializer, or nil.
func (w *Workspace) Serializer() Serializer {
	return w.serializer
}

// Resolver returns the configured type resolver, or nil.
func (w *Workspace) Resolver() TypeResolver {
	return w.resolver
}

// Scheduler returns the deferred-task scheduler. Callers drive it with
// Advance or Flush to fire pending bump notifications.
func (w *Workspace) Scheduler() *Scheduler {
	return w.scheduler
}

// Disposed reports whether the workspace has been disposed.
func (w *Workspace) Disposed() bool {
	return w.disposed
}

// BlockByID returns the live block with the given id, or nil.
func (w *Workspace) BlockByID(id string) *Block {
	return w.blocks[id]
}

// BlockCount returns the number of live blocks.
func (w *Workspace) BlockCount() int {
	return len(w.blocks)
}

// TopBlocks returns the parentless blocks in creation order.
func (w *Workspace) TopBlocks() []*Block {
	out := make([]*Block, len(w.topBlocks))
	copy(out, w.topBlocks)
	return out
}

// AllBlocks returns every live block, top blocks first, each followed by
// its subtree depth-first.
func (w *Workspace) AllBlocks() []*Block {
	var out []*Block
	for _, top := range w.topBlocks {
		out = append(out, top.Descendants()...)
	}
	return out
}

func (w *Workspace) addTopBlock(b *Block) {
	if w.disposed || b.isDeadOrDying() {
		return
	}
	w.topBlocks = append(w.topBlocks, b)
}

func (w *Workspace) removeTopBlock(b *Block) {
	if i := slices.Index(w.topBlocks, b); i >= 0 {
		w.topBlocks = slices.Delete(w.topBlocks, i, i+1)
	}
}

// NewBlock creates a top-level ordinary block of the named type with a
// generated id and records a create event.
func (w *Workspace) NewBlock(typeName string) (*Block, error) {
	return w.newBlock(typeName, uuid.NewString(), false)
}

// NewBlockWithID creates a block under a caller-chosen id, which must be
// unused. Deserialization uses it to restore stable ids.
func (w *Workspace) NewBlockWithID(typeName, id string) (*Block, error) {
	if id == "" {
		return nil, fmt.Errorf("blockly: empty block id")
	}
	return w.newBlock(typeName, id, false)
}

// NewShadowBlock creates a top-level placeholder block of the named type.
func (w *Workspace) NewShadowBlock(typeName string) (*Block, error) {
	return w.newBlock(typeName, uuid.NewString(), true)
}

func (w *Workspace) newBlock(typeName, id string, shadow bool) (*Block, error) {
	if w.disposed {
		return nil, ErrDisposed
	}
	if _, taken := w.blocks[id]; taken {
		return nil, fmt.Errorf("blockly: block id %q already in use", id)
	}
	bt, err := w.resolveType(typeName)
	if err != nil {
		return nil, err
	}
	b := &Block{
		id:        id,
		typeName:  bt.Name,
		def:       bt,
		workspace: w,
		shadow:    shadow,
		fields:    make(map[string]string, len(bt.Fields)),
	}
	if bt.Output != nil {
		b.output = newConnection(b, OutputValue, bt.Output.Tags)
	}
	if bt.Previous != nil {
		b.previous = newConnection(b, PreviousStatement, bt.Previous.Tags)
	}
	if bt.Next != nil {
		b.next = newConnection(b, NextStatement, bt.Next.Tags)
	}
	for _, spec := range bt.Inputs {
		b.inputs = append(b.inputs, &Input{
			name:  spec.Name,
			block: b,
			conn:  newConnection(b, spec.Kind, spec.Tags),
		})
	}
	for _, f := range bt.Fields {
		b.fields[f.Name] = f.Default
	}
	w.blocks[id] = b
	w.topBlocks = append(w.topBlocks, b)
	if w.events.Enabled() {
		done := w.events.ScopedGroup()
		defer done()
		state, serr := w.snapshot(b)
		if serr != nil {
			state = nil
		}
		w.events.Fire(&events.Create{
			Base:     events.Base{Workspace: w.id},
			BlockID:  b.id,
			State:    state,
			ChildIDs: []string{b.id},
		})
	}
	return b, nil
}

func (w *Workspace) resolveType(typeName string) (*BlockType, error) {
	if w.resolver == nil {
		return nil, fmt.Errorf("%w: %q (no type resolver configured)", ErrUnknownType, typeName)
	}
	bt, err := w.resolver.ResolveType(typeName)
	if err != nil {
		return nil, err
	}
	if err := bt.Validate(); err != nil {
		return nil, err
	}
	return bt, nil
}

// snapshot serializes b with ids preserved, for event payloads.
func (w *Workspace) snapshot(b *Block) ([]byte, error) {
	if w.serializer == nil {
		return nil, ErrNoSerializer
	}
	return w.serializer.SerializeBlock(b)
}

// snapshotTemplate serializes b as a placeholder template.
func (w *Workspace) snapshotTemplate(b *Block) ([]byte, error) {
	if w.serializer == nil {
		return nil, ErrNoSerializer
	}
	return w.serializer.SerializeTemplate(b)
}

// scheduleBump queues the deferred orphan notification for a connection
// whose block just failed to find a home. The task is keyed by the block
// id, fires after the bump delay, and re-validates its preconditions at
// fire time: the block must still exist, still be parentless, and the
// workspace must still be live.
func (w *Workspace) scheduleBump(orphan, against *Connection) {
	if !w.events.RecordingUndo() {
		return
	}
	group := w.events.GroupID()
	id := orphan.block.id
	w.scheduler.Schedule(id, w.bumpDelay, func() {
		if w.disposed || orphan.disposed {
			return
		}
		b := w.BlockByID(id)
		if b == nil || b.isDeadOrDying() || b.Parent() != nil {
			return
		}
		prev := w.events.GroupID()
		w.events.SetGroup(group)
		defer w.events.SetGroup(prev)
		if w.bump != nil {
			w.bump(orphan, against)
			return
		}
		w.log.Debug("bump after failed connect",
			slog.String("block", id),
			slog.String("connection", orphan.String()))
	})
}

// Clear disposes every block on the workspace as one undoable action.
func (w *Workspace) Clear() error {
	done := w.events.ScopedGroup()
	defer done()
	for len(w.topBlocks) > 0 {
		if err := w.topBlocks[0].Dispose(true); err != nil {
			return err
		}
	}
	return nil
}

// Dispose clears the workspace and retires it. Undo history and pending
// deferred tasks are dropped; further block creation fails with
// ErrDisposed.
func (w *Workspace) Dispose() error {
	if w.disposed {
		return nil
	}
	w.events.RemoveListener(w.listener)
	if err := w.Clear(); err != nil {
		return err
	}
	w.scheduler.Clear()
	w.undoStack = nil
	w.redoStack = nil
	w.disposed = true
	return nil
}
