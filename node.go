package hxview

import (
	"bytes"
	"fmt"

	"github.com/a-h/templ"
)

// Node is an element of a render tree.
type Node interface {
	// Render appends the node's markup to buf.
	Render(buf *bytes.Buffer) error
}

// Container is a node that accepts children, and so can be the target of
// a builder.
type Container interface {
	Node
	ChildNodes() *Children
}

// Children is an ordered list of nodes.
type Children struct {
	nodes []Node
}

// Append adds n after the existing children.
func (c *Children) Append(n Node) {
	c.nodes = append(c.nodes, n)
}

// Nodes returns the children in insertion order.
func (c *Children) Nodes() []Node {
	return c.nodes
}

// Len returns the number of children.
func (c *Children) Len() int {
	return len(c.nodes)
}

// Render renders every child into buf in insertion order and stops at the
// first error.
func (c *Children) Render(buf *bytes.Buffer) error {
	for _, n := range c.nodes {
		if err := n.Render(buf); err != nil {
			return err
		}
	}
	return nil
}

// Text is a leaf holding a scalar. It is escaped on output.
type Text struct {
	Value any
}

// Render implements Node.
func (t Text) Render(buf *bytes.Buffer) error {
	if t.Value == nil {
		return nil
	}
	buf.WriteString(templ.EscapeString(fmt.Sprint(t.Value)))
	return nil
}

// Raw is a leaf holding markup that is written unescaped.
type Raw string

// Render implements Node.
func (r Raw) Render(buf *bytes.Buffer) error {
	buf.WriteString(string(r))
	return nil
}
