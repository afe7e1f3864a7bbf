package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Scene - Layout Result
// =============================================================================

// Scene is the serialization format for a computed layout: the viewport it
// was fitted to and the graphs with final positions.
//
// Arranged is true when the graphs were placed side by side
// (multi-graph arrangement) rather than fitted individually.
type Scene struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Padding  float64 `json:"padding"`
	Spacing  float64 `json:"spacing,omitempty"`
	Arranged bool    `json:"arranged,omitempty"`
	Graphs   []Graph `json:"graphs"`
}

// NodeCount returns the total number of nodes across all graphs.
func (s *Scene) NodeCount() int {
	n := 0
	for i := range s.Graphs {
		n += len(s.Graphs[i].Nodes)
	}
	return n
}

// EdgeCount returns the total number of edges across all graphs.
func (s *Scene) EdgeCount() int {
	n := 0
	for i := range s.Graphs {
		n += len(s.Graphs[i].Edges)
	}
	return n
}

// MarshalScene serializes a Scene to pretty-printed JSON bytes.
func MarshalScene(s Scene) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// UnmarshalScene deserializes JSON bytes into a Scene.
// A scene must carry positive dimensions and at least one graph.
func UnmarshalScene(data []byte) (Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return Scene{}, fmt.Errorf("unmarshal scene: %w", err)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return Scene{}, fmt.Errorf("scene must have positive width and height")
	}
	if len(s.Graphs) == 0 {
		return Scene{}, ErrNoGraphs
	}
	return s, nil
}

// WriteSceneFile writes a Scene to a JSON file.
func WriteSceneFile(s Scene, path string) error {
	data, err := MarshalScene(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadSceneFile reads a Scene from a JSON file.
func ReadSceneFile(path string) (Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scene{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalScene(data)
}
