package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadDocument(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantGraphs int
		wantErr    error
		anyErr     bool
		check      func(t *testing.T, gs []Graph)
	}{
		{
			name: "BareGraph",
			input: `{
				"nodes": [
					{"id": "a", "x": 1, "y": 2, "label": "C"},
					{"id": "b"}
				],
				"edges": [
					{"from": "a", "to": "b", "order": 2}
				]
			}`,
			wantGraphs: 1,
			check: func(t *testing.T, gs []Graph) {
				g := gs[0]
				if g.NodeCount() != 2 || g.EdgeCount() != 1 {
					t.Fatalf("counts = %d/%d, want 2/1", g.NodeCount(), g.EdgeCount())
				}
				if n := g.Node("a"); n == nil || n.X != 1 || n.Y != 2 || n.Label != "C" {
					t.Errorf("node a = %+v", n)
				}
				if g.Edges[0].Order != 2 {
					t.Errorf("order = %v, want 2", g.Edges[0].Order)
				}
			},
		},
		{
			name: "MultiGraph",
			input: `{"graphs": [
				{"name": "r", "nodes": [{"id": "a"}], "edges": []},
				{"name": "p", "nodes": [{"id": "a"}], "edges": []}
			]}`,
			wantGraphs: 2,
			check: func(t *testing.T, gs []Graph) {
				if gs[0].Name != "r" || gs[1].Name != "p" {
					t.Errorf("names = %q, %q", gs[0].Name, gs[1].Name)
				}
			},
		},
		{
			name:       "DanglingEdgeAccepted",
			input:      `{"nodes": [{"id": "a"}], "edges": [{"from": "a", "to": "ghost"}]}`,
			wantGraphs: 1,
			check: func(t *testing.T, gs []Graph) {
				if got := len(gs[0].DanglingEdges()); got != 1 {
					t.Errorf("dangling = %d, want 1", got)
				}
			},
		},
		{
			name:    "DuplicateID",
			input:   `{"nodes": [{"id": "a"}, {"id": "a"}], "edges": []}`,
			wantErr: ErrDuplicateNodeID,
		},
		{
			name:    "EmptyID",
			input:   `{"nodes": [{"id": ""}], "edges": []}`,
			wantErr: ErrEmptyNodeID,
		},
		{
			name:    "EmptyEndpoint",
			input:   `{"nodes": [{"id": "a"}], "edges": [{"from": "a", "to": ""}]}`,
			wantErr: ErrEmptyEdgeEndpoint,
		},
		{
			name:    "NoGraphs",
			input:   `{"graphs": []}`,
			wantErr: ErrNoGraphs,
		},
		{
			name:   "Invalid",
			input:  `{invalid json}`,
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs, err := ReadDocument(strings.NewReader(tt.input))

			if tt.wantErr != nil || tt.anyErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadDocument: %v", err)
			}
			if len(gs) != tt.wantGraphs {
				t.Fatalf("graphs = %d, want %d", len(gs), tt.wantGraphs)
			}
			if tt.check != nil {
				tt.check(t, gs)
			}
		})
	}
}

func TestReadDocumentFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.json")

	if err := WriteDocumentFile([]Graph{{Nodes: []Node{{ID: "A"}}}}, path); err != nil {
		t.Fatal(err)
	}

	gs, err := ReadDocumentFile(path)
	if err != nil {
		t.Fatalf("ReadDocumentFile: %v", err)
	}
	if len(gs) != 1 || gs[0].NodeCount() != 1 {
		t.Errorf("got %+v", gs)
	}
}

func TestReadDocumentFileNotFound(t *testing.T) {
	if _, err := ReadDocumentFile("nonexistent.json"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestWriteDocument(t *testing.T) {
	var buf bytes.Buffer
	g := Graph{
		Nodes: []Node{{ID: "a"}, {ID: "b", X: 10}},
		Edges: []Edge{{From: "a", To: "b"}},
	}
	if err := WriteDocument([]Graph{g}, &buf); err != nil {
		t.Fatalf("WriteDocument: %v", err)
	}

	var doc struct {
		Graphs []Graph `json:"graphs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Graphs) != 1 || len(doc.Graphs[0].Nodes) != 2 {
		t.Errorf("got %+v", doc)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := Graph{
		Nodes: []Node{{ID: "a", Meta: map[string]any{"symbol": "C"}}},
		Edges: []Edge{{From: "a", To: "a"}},
	}
	c := g.Clone()
	c.Nodes[0].X = 42
	c.Nodes[0].Meta["symbol"] = "N"
	c.Edges[0].Order = 3

	if g.Nodes[0].X != 0 {
		t.Error("clone shares node slice")
	}
	if g.Nodes[0].Meta["symbol"] != "C" {
		t.Error("clone shares metadata map")
	}
	if g.Edges[0].Order != 0 {
		t.Error("clone shares edge slice")
	}
}

func TestIndexFirstOccurrenceWins(t *testing.T) {
	g := Graph{Nodes: []Node{{ID: "a"}, {ID: "b"}, {ID: "a"}}}
	idx := g.Index()
	if idx["a"] != 0 || idx["b"] != 1 {
		t.Errorf("Index() = %v", idx)
	}
}

func TestEffectiveOrder(t *testing.T) {
	tests := []struct {
		order float64
		want  float64
	}{
		{0, 1},
		{-1, 1},
		{1, 1},
		{1.5, 1.5},
		{3, 3},
	}
	for _, tt := range tests {
		if got := (Edge{Order: tt.order}).EffectiveOrder(); got != tt.want {
			t.Errorf("EffectiveOrder(%v) = %v, want %v", tt.order, got, tt.want)
		}
	}
}

func TestScene(t *testing.T) {
	s := Scene{
		Width: 800, Height: 600, Padding: 40,
		Graphs: []Graph{
			{Nodes: []Node{{ID: "a"}, {ID: "b"}}, Edges: []Edge{{From: "a", To: "b"}}},
			{Nodes: []Node{{ID: "c"}}},
		},
	}
	if s.NodeCount() != 3 || s.EdgeCount() != 1 {
		t.Errorf("counts = %d/%d, want 3/1", s.NodeCount(), s.EdgeCount())
	}

	path := filepath.Join(t.TempDir(), "scene.json")
	if err := WriteSceneFile(s, path); err != nil {
		t.Fatalf("WriteSceneFile: %v", err)
	}
	got, err := ReadSceneFile(path)
	if err != nil {
		t.Fatalf("ReadSceneFile: %v", err)
	}
	if got.Width != 800 || len(got.Graphs) != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestUnmarshalSceneRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"ZeroWidth", `{"width": 0, "height": 10, "graphs": [{"nodes": []}]}`},
		{"NoGraphs", `{"width": 10, "height": 10, "graphs": []}`},
		{"Malformed", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UnmarshalScene([]byte(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestReadSceneFileNotFound(t *testing.T) {
	_, err := ReadSceneFile(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want not-exist", err)
	}
}
