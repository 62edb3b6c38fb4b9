package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pedigraph/pedigraph/pkg/kin"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts an in-memory graph to JSON bytes.
// Persons are sorted by ID for deterministic output.
func MarshalGraph(g *kin.Graph, rootID string) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(g, rootID, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a family graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g *kin.Graph, rootID, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(g, rootID, f)
}

// WriteGraph writes a family graph as JSON to an io.Writer.
// Use MarshalGraph for in-memory serialization or WriteGraphFile for files.
func WriteGraph(g *kin.Graph, rootID string, w io.Writer) error {
	return writeGraphTo(g, rootID, w)
}

// ReadGraphFile reads a JSON family document and returns the decoded
// graph plus the document's declared root ID (empty when the document
// does not name one).
func ReadGraphFile(path string) (*kin.Graph, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readGraphFrom(f)
}

// ReadGraph decodes a JSON family document from an io.Reader.
// Use ReadGraphFile for files or pass bytes.NewReader for in-memory data.
func ReadGraph(r io.Reader) (*kin.Graph, string, error) {
	return readGraphFrom(r)
}

// UnmarshalGraph deserializes JSON bytes to a Graph document.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeGraphTo(g *kin.Graph, rootID string, w io.Writer) error {
	out := FromKin(g, rootID)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readGraphFrom(r io.Reader) (*kin.Graph, string, error) {
	var data Graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, "", fmt.Errorf("decode: %w", err)
	}
	g, err := data.ToKin()
	if err != nil {
		return nil, "", err
	}
	return g, data.Root, nil
}
