package blockly_test

import (
	"testing"

	"github.com/codiplaykz/blockly"
	"github.com/codiplaykz/blockly/serial"
)

func benchWorkspace(b *testing.B) *blockly.Workspace {
	b.Helper()
	return blockly.NewWorkspace(
		blockly.WithResolver(testVocab()),
		blockly.WithSerializer(serial.Codec{}),
	)
}

func BenchmarkConnectDisconnect(b *testing.B) {
	w := benchWorkspace(b)
	parent, err := w.NewBlock("sum")
	if err != nil {
		b.Fatal(err)
	}
	child, err := w.NewBlock("num")
	if err != nil {
		b.Fatal(err)
	}
	pc := parent.Input("A").Connection()
	cc := child.OutputConnection()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := pc.Connect(cc); err != nil {
			b.Fatal(err)
		}
		if err := pc.Disconnect(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDisplacementCascade(b *testing.B) {
	w := benchWorkspace(b)
	parent, err := w.NewBlock("sum")
	if err != nil {
		b.Fatal(err)
	}
	first, err := w.NewBlock("neg")
	if err != nil {
		b.Fatal(err)
	}
	second, err := w.NewBlock("neg")
	if err != nil {
		b.Fatal(err)
	}
	slot := parent.Input("A").Connection()
	if err := slot.Connect(first.OutputConnection()); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Each connect displaces the occupant into the incoming block's
		// free slot, swapping the two on every iteration.
		incoming := second
		if i%2 == 1 {
			incoming = first
		}
		if err := slot.Connect(incoming.OutputConnection()); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNewBlockDispose(b *testing.B) {
	w := benchWorkspace(b)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		blk, err := w.NewBlock("num")
		if err != nil {
			b.Fatal(err)
		}
		if err := blk.Dispose(true); err != nil {
			b.Fatal(err)
		}
	}
}
