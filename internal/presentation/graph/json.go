package graph

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/playgraph/pkg/domain"
)

// DocumentVersion identifies the JSON output schema; bump it when the shape
// of the document changes incompatibly.
const DocumentVersion = 1

// Document is the versioned JSON envelope around the rendered plays.
type Document struct {
	Version int             `json:"version"`
	Title   string          `json:"title,omitempty"`
	Graphs  []*domain.Graph `json:"graphs"`
}

// GenerateJSON marshals the rendered plays into the versioned document.
func GenerateJSON(title string, graphs []*domain.Graph) (string, error) {
	doc := Document{
		Version: DocumentVersion,
		Title:   title,
		Graphs:  graphs,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal graph document: %w", err)
	}
	return string(data) + "\n", nil
}
