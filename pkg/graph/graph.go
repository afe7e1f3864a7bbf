package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrEmptyNodeID is returned by [Graph.Validate] for a node without an ID.
	ErrEmptyNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.Validate] when two nodes share an ID.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrEmptyEdgeEndpoint is returned by [Graph.Validate] for an edge with an
	// empty From or To.
	ErrEmptyEdgeEndpoint = errors.New("edge endpoint must not be empty")

	// ErrNoGraphs is returned when a document decodes to zero graphs.
	ErrNoGraphs = errors.New("document contains no graphs")
)

// =============================================================================
// Document Serialization API
// =============================================================================

// MarshalGraph converts a single graph to indented JSON bytes.
func MarshalGraph(g Graph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// MarshalDocument converts graphs to indented JSON bytes in the
// {"graphs": [...]} form.
func MarshalDocument(graphs []Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDocument(graphs, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDocument writes graphs as JSON to an io.Writer.
func WriteDocument(graphs []Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Document{Graphs: graphs}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteDocumentFile writes graphs to a JSON file.
func WriteDocumentFile(graphs []Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteDocument(graphs, f)
}

// ReadDocument decodes one or more graphs from r.
// Every graph is validated with [Graph.Validate].
func ReadDocument(r io.Reader) ([]Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(doc.Graphs) == 0 {
		return nil, ErrNoGraphs
	}
	for i := range doc.Graphs {
		if err := doc.Graphs[i].Validate(); err != nil {
			return nil, fmt.Errorf("graph %d: %w", i, err)
		}
	}
	return doc.Graphs, nil
}

// ReadDocumentFile reads a JSON file and returns the decoded graphs.
func ReadDocumentFile(path string) ([]Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDocument(f)
}
