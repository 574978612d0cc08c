// Package document is the boundary to the host design document. The
// rest of the tool only sees scanned text items and a SetText
// operation; how the scene tree is stored is this package's business.
package document

import (
	"copytune/internal/category"
)

// Node is one element of the design scene tree
type Node struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Characters string   `json:"characters,omitempty"`
	FontSize   *float64 `json:"fontSize,omitempty"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Children   []*Node  `json:"children,omitempty"`
}

// Node types that carry structural meaning for context derivation.
// Plain groups are skipped.
const (
	TypeText      = "TEXT"
	TypeFrame     = "FRAME"
	TypeComponent = "COMPONENT"
	TypeInstance  = "INSTANCE"
)

// TextItem is one scanned text element. It is mutated in place as the
// rewrite/review/apply flow proceeds and discarded on re-scan.
type TextItem struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Original  string            `json:"characters"`
	Context   string            `json:"context"`
	Category  category.Category `json:"category"`
	FontSize  *float64          `json:"fontSize,omitempty"`
	X         float64           `json:"x"`
	Y         float64           `json:"y"`
	Optimized string            `json:"optimized,omitempty"`
	Applied   bool              `json:"applied,omitempty"`
}

// Source is what the optimization flow needs from the host document
type Source interface {
	// Scan returns the text items under the given node ids, or the
	// whole document when no ids are given.
	Scan(ids ...string) ([]*TextItem, error)

	// SetText replaces the characters of a text node. It fails when
	// the id no longer resolves to a text node.
	SetText(id, newText string) error
}
