package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"copytune/internal/category"
)

// ErrNodeNotFound is returned by SetText when the id does not resolve
// to a text node.
var ErrNodeNotFound = errors.New("text node not found")

// How far up the ancestor chain each derivation looks
const (
	classifyDepth = 5
	contextDepth  = 3
)

// unknownLocation is used when no structural ancestor exists
const unknownLocation = "未知位置"

// Snapshot is a design document loaded from a JSON scene-tree export.
// It implements Source.
type Snapshot struct {
	Name string  `json:"name"`
	Root *Node   `json:"root"`
	path string
}

// Load reads a snapshot from disk
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if snap.Root == nil {
		return nil, fmt.Errorf("snapshot %s has no root node", path)
	}

	snap.path = path
	return &snap, nil
}

// Save writes the snapshot back to the file it was loaded from
func (s *Snapshot) Save() error {
	if s.path == "" {
		return errors.New("snapshot has no backing file")
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// Scan collects text items under the given node ids, or under the root
// when no ids are given. Items come back in tree order.
func (s *Snapshot) Scan(ids ...string) ([]*TextItem, error) {
	roots := []*Node{s.Root}
	if len(ids) > 0 {
		roots = nil
		for _, id := range ids {
			n, _ := findNode(s.Root, nil, id)
			if n == nil {
				return nil, fmt.Errorf("scan: node %s: %w", id, ErrNodeNotFound)
			}
			roots = append(roots, n)
		}
	}

	var items []*TextItem
	for _, root := range roots {
		_, ancestors := findNode(s.Root, nil, root.ID)
		collectTexts(root, ancestors, &items)
	}
	return items, nil
}

// SetText replaces the characters of the text node with the given id
func (s *Snapshot) SetText(id, newText string) error {
	n, _ := findNode(s.Root, nil, id)
	if n == nil || n.Type != TypeText {
		return fmt.Errorf("set text %s: %w", id, ErrNodeNotFound)
	}
	n.Characters = newText
	return nil
}

// collectTexts walks the subtree depth-first, building one TextItem per
// text node. ancestors is the chain above node, nearest last.
func collectTexts(node *Node, ancestors []*Node, out *[]*TextItem) {
	if node.Type == TypeText {
		*out = append(*out, &TextItem{
			ID:       node.ID,
			Name:     node.Name,
			Original: node.Characters,
			Context:  deriveContext(ancestors),
			Category: category.Classify(node.Characters, classifyNames(node, ancestors), node.FontSize),
			FontSize: node.FontSize,
			X:        node.X,
			Y:        node.Y,
		})
		return
	}
	chain := append(ancestors, node)
	for _, child := range node.Children {
		collectTexts(child, chain, out)
	}
}

// classifyNames joins the node's own name with its nearest ancestor
// names, leaf first, for the classifier's context match.
func classifyNames(node *Node, ancestors []*Node) []string {
	names := []string{strings.ToLower(node.Name)}
	for i := len(ancestors) - 1; i >= 0 && len(names) < classifyDepth; i-- {
		names = append(names, strings.ToLower(ancestors[i].Name))
	}
	return names
}

// deriveContext renders the ancestor chain as a root-to-leaf path,
// keeping only frames, components, and instances. An element with no
// structural ancestor gets an explicit placeholder, never "".
func deriveContext(ancestors []*Node) string {
	var parts []string
	for i := len(ancestors) - 1; i >= 0 && len(ancestors)-1-i < contextDepth; i-- {
		a := ancestors[i]
		if a.Type == TypeFrame || a.Type == TypeComponent || a.Type == TypeInstance {
			parts = append(parts, a.Name)
		}
	}
	if len(parts) == 0 {
		return unknownLocation
	}

	// parts were collected leaf-to-root; flip to reading order
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}

// findNode locates a node by id and returns it with its ancestor
// chain, nearest last.
func findNode(node *Node, ancestors []*Node, id string) (*Node, []*Node) {
	if node.ID == id {
		return node, ancestors
	}
	chain := append(ancestors, node)
	for _, child := range node.Children {
		if n, a := findNode(child, chain, id); n != nil {
			return n, a
		}
	}
	return nil, nil
}
