package fbx

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Node is one record of an ASCII FBX document: a name, attribute values and
// nested child records.
type Node struct {
	Name     string
	Attrs    []interface{}
	Children []*Node
}

// NewNode creates a node with the given name and attributes.
func NewNode(name string, attrs ...interface{}) *Node {
	return &Node{Name: name, Attrs: attrs}
}

// Add appends a child record and returns the node for chaining.
func (n *Node) Add(child *Node) *Node {
	n.Children = append(n.Children, child)
	return n
}

// AddNew creates a child record in place and returns it.
func (n *Node) AddNew(name string, attrs ...interface{}) *Node {
	child := NewNode(name, attrs...)
	n.Children = append(n.Children, child)
	return child
}

// Dump writes the node and its children in ASCII FBX form at the given
// indentation depth.
func (n *Node) Dump(w io.Writer, depth int) error {
	indent := strings.Repeat("\t", depth)

	attrs := make([]string, len(n.Attrs))
	for i, a := range n.Attrs {
		attrs[i] = formatAttr(a)
	}

	if len(n.Children) == 0 {
		_, err := fmt.Fprintf(w, "%s%s: %s\n", indent, n.Name, strings.Join(attrs, ", "))
		return err
	}

	head := ""
	if len(attrs) > 0 {
		head = strings.Join(attrs, ", ") + " "
	}
	if _, err := fmt.Fprintf(w, "%s%s: %s{\n", indent, n.Name, head); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := c.Dump(w, depth+1); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s}\n", indent)
	return err
}

// formatAttr renders one attribute value. Strings are quoted, floats use
// the shortest round-trip representation, and integer types pass through.
func formatAttr(a interface{}) string {
	switch v := a.(type) {
	case string:
		return strconv.Quote(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}
