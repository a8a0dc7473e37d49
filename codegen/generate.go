package codegen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/codiplaykz/blockly"
)

// Generator renders workspaces as Go source files. Configure it by
// chaining the With methods, then call File, Source, or WriteAll.
type Generator struct {
	pkg      string
	workers  int
	logger   *slog.Logger
	emitters map[string]EmitterFunc

	mu      sync.Mutex
	metrics Metrics
}

// Metrics tracks what a generator has written so far.
type Metrics struct {
	FilesGenerated int
	TotalBytes     int64
}

// New returns a generator with the built-in emitters for the standard
// vocabulary, emitting into package "program".
func New() *Generator {
	g := &Generator{
		pkg:      "program",
		workers:  runtime.GOMAXPROCS(0),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		emitters: make(map[string]EmitterFunc),
	}
	for name, fn := range builtinEmitters() {
		g.emitters[name] = fn
	}
	return g
}

// WithPackage sets the output package name.
func (g *Generator) WithPackage(pkg string) *Generator {
	if pkg != "" {
		g.pkg = pkg
	}
	return g
}

// WithWorkers sets the number of parallel workers used by WriteAll.
func (g *Generator) WithWorkers(n int) *Generator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// WithLogger sets the logger.
func (g *Generator) WithLogger(l *slog.Logger) *Generator {
	if l != nil {
		g.logger = l
	}
	return g
}

// Register installs an emitter for a block type, replacing any existing
// one. Configure emitters before generating; Register is not safe against
// concurrent WriteAll.
func (g *Generator) Register(blockType string, fn EmitterFunc) *Generator {
	if blockType != "" && fn != nil {
		g.emitters[blockType] = fn
	}
	return g
}

// Metrics returns a snapshot of the generation metrics.
func (g *Generator) Metrics() Metrics {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.metrics
}

// File renders a workspace as a jennifer file. Each top-level statement
// stack becomes one function named after name, with an ordinal suffix from
// the second stack on. Top-level value blocks are skipped.
func (g *Generator) File(name string, ws *blockly.Workspace) (*jen.File, error) {
	f := jen.NewFile(g.pkg)
	f.HeaderComment("Code generated by blockly. DO NOT EDIT.")

	e := &Emitter{gen: g}
	n := 0
	for _, b := range ws.TopBlocks() {
		if b.OutputConnection() != nil {
			g.logger.Debug("skipping loose value block", "block", b.ID(), "type", b.Type())
			continue
		}
		stmts, err := e.stack(b)
		if err != nil {
			return nil, err
		}
		fname := exportedIdent(name)
		if n > 0 {
			fname += strconv.Itoa(n + 1)
		}
		f.Func().Id(fname).Params().Block(stmts...)
		n++
	}
	return f, nil
}

// Source renders a workspace and returns the formatted Go source.
func (g *Generator) Source(name string, ws *blockly.Workspace) ([]byte, error) {
	f, err := g.File(name, ws)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	out, err := imports.Process(FileName(name), buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", name, err)
	}
	return out, nil
}

// WriteAll generates one file per workspace under outDir, in parallel.
// The map key is the workspace name the file and its functions are named
// after.
func (g *Generator) WriteAll(ctx context.Context, workspaces map[string]*blockly.Workspace, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)

	for name, ws := range workspaces {
		name, ws := name, ws
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return g.writeFile(name, ws, outDir)
			}
		})
	}
	return eg.Wait()
}

func (g *Generator) writeFile(name string, ws *blockly.Workspace, outDir string) error {
	f, err := g.File(name, ws)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	fullPath := filepath.Join(outDir, FileName(name))
	formatted, err := imports.Process(fullPath, buf.Bytes(), nil)
	if err != nil {
		// Keep the unformatted output around for debugging.
		debugPath := fullPath + ".error"
		_ = os.WriteFile(debugPath, buf.Bytes(), 0o644)
		return fmt.Errorf("format %s: %w (unformatted written to %s)", FileName(name), err, debugPath)
	}

	if err := os.WriteFile(fullPath, formatted, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", FileName(name), err)
	}

	g.mu.Lock()
	g.metrics.FilesGenerated++
	g.metrics.TotalBytes += int64(len(formatted))
	g.mu.Unlock()

	g.logger.Debug("generated", "file", FileName(name), "bytes", len(formatted))
	return nil
}
