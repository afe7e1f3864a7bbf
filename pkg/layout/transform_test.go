package layout

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chemlayout/pkg/graph"
)

func TestScale(t *testing.T) {
	tests := []struct {
		name         string
		nodes        []graph.Node
		availW       float64
		availH       float64
		maxScale     float64
		wantScale    float64
		wantW, wantH float64
	}{
		{
			name:      "width bound",
			nodes:     nodesAt([2]float64{-100, -10}, [2]float64{100, 10}),
			availW:    100,
			availH:    100,
			maxScale:  2.5,
			wantScale: 0.5,
			wantW:     100,
			wantH:     10,
		},
		{
			name:      "height bound",
			nodes:     nodesAt([2]float64{-10, -200}, [2]float64{10, 200}),
			availW:    1000,
			availH:    100,
			maxScale:  2.5,
			wantScale: 0.25,
			wantW:     5,
			wantH:     100,
		},
		{
			name:      "capped",
			nodes:     nodesAt([2]float64{-10, -10}, [2]float64{10, 10}),
			availW:    1000,
			availH:    1000,
			maxScale:  2.5,
			wantScale: 2.5,
			wantW:     50,
			wantH:     50,
		},
		{
			// Zero height is treated as 100: min(720/50, 520/100, 2.5) = 2.5.
			name:      "horizontal chain",
			nodes:     nodesAt([2]float64{-25, 0}, [2]float64{25, 0}),
			availW:    720,
			availH:    520,
			maxScale:  2.5,
			wantScale: 2.5,
			wantW:     125,
			wantH:     0,
		},
		{
			// Both extents are 100 after substitution: min(40/100, 60/100, 2.5).
			name:      "single node",
			nodes:     nodesAt([2]float64{4, 8}),
			availW:    40,
			availH:    60,
			maxScale:  2.5,
			wantScale: 0.4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scale(tt.nodes, tt.availW, tt.availH, tt.maxScale, nil)
			if math.Abs(got-tt.wantScale) > tol {
				t.Fatalf("Scale() = %v, want %v", got, tt.wantScale)
			}
			b, _ := ComputeBounds(tt.nodes)
			if math.Abs(b.Width()-tt.wantW) > tol || math.Abs(b.Height()-tt.wantH) > tol {
				t.Errorf("scaled size = %vx%v, want %vx%v", b.Width(), b.Height(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestScaleNoDrawableArea(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	nodes := nodesAt([2]float64{-10, 0}, [2]float64{10, 0})

	if got := Scale(nodes, -5, 100, 2.5, logger); got != 1 {
		t.Errorf("Scale() = %v, want 1", got)
	}
	if nodes[0].X != -10 || nodes[1].X != 10 {
		t.Errorf("positions changed: %+v", nodes)
	}
	if !strings.Contains(buf.String(), "no drawable area") {
		t.Errorf("expected warning, got %q", buf.String())
	}
}

func TestScaleEmpty(t *testing.T) {
	if got := Scale(nil, 100, 100, 2.5, nil); got != 1 {
		t.Errorf("Scale(nil) = %v, want 1", got)
	}
}

func TestCenter(t *testing.T) {
	nodes := nodesAt([2]float64{0, 0}, [2]float64{40, 10}, [2]float64{20, 30})

	Center(nodes, 400, 300)

	b, _ := ComputeBounds(nodes)
	if math.Abs(b.CenterX()-400) > tol || math.Abs(b.CenterY()-300) > tol {
		t.Fatalf("center = (%v, %v), want (400, 300)", b.CenterX(), b.CenterY())
	}
	if b.Width() != 40 || b.Height() != 30 {
		t.Errorf("size changed to %vx%v", b.Width(), b.Height())
	}
}

func TestCenterIdempotent(t *testing.T) {
	nodes := nodesAt([2]float64{-3.3, 7.1}, [2]float64{12.9, -4.4}, [2]float64{0.5, 0.25})

	Center(nodes, 123.456, -78.9)
	first := append([]graph.Node(nil), nodes...)
	Center(nodes, 123.456, -78.9)

	for i := range nodes {
		if math.Abs(nodes[i].X-first[i].X) > tol || math.Abs(nodes[i].Y-first[i].Y) > tol {
			t.Errorf("node %d moved on second center: %+v -> %+v", i, first[i], nodes[i])
		}
	}
}

func TestCenterEmpty(t *testing.T) {
	Center(nil, 10, 10)
}
