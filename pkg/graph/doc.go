// Package graph provides the positioned graph model and its serialization.
//
// This package defines the canonical wire format for chemlayout's graph
// data, used for JSON files, API requests and responses, and caching.
//
// # Core Types
//
//   - [Graph]: positioned nodes and undirected, optionally weighted edges
//   - [Node], [Edge]: shared structural types
//   - [Document]: one or more graphs (input format)
//   - [Scene]: graphs after layout plus the viewport they were fitted to
//
// The layout engine reads and rewrites only [Node.X] and [Node.Y]. Labels
// and metadata belong to callers (the chem package stores the element
// symbol and formal charge under [MetaSymbol] and [MetaCharge]).
//
// # Graph Serialization
//
// Graphs use a simple node-link JSON format:
//
//	{
//	  "name": "ethanol",
//	  "nodes": [{"id": "a0", "x": 0, "y": 0, "label": "C"}, {"id": "a1", "x": 50, "y": 0}],
//	  "edges": [{"from": "a0", "to": "a1", "order": 1}]
//	}
//
// Several graphs are wrapped in a document:
//
//	{"graphs": [{...}, {...}]}
//
// [ReadDocument] accepts either form.
//
// # Dangling Edges
//
// Edges may reference IDs that are not in the node set. They are preserved
// on round trip and ignored by the layout engine; [Graph.DanglingEdges]
// lists them.
//
// # Concurrency
//
// Graph values are plain data. They are safe for concurrent reads but not
// concurrent writes; the layout engine mutates positions in place.
package graph
