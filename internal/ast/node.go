package ast

import (
	"reflect"
	"strings"

	"plsqldoc/internal/source"
	"plsqldoc/internal/token"
)

// Element is one entry of a node: a token or a child node, never both.
type Element struct {
	Tok  *token.Token
	Node Syntax
}

// Syntax is implemented by every node variant.
type Syntax interface {
	Base() *Node
}

// Node is the envelope shared by all variants: the kind tag and the ordered
// elements the node was built from.
type Node struct {
	kind  Kind
	elems []Element
}

func (n *Node) Base() *Node { return n }

// Kind returns the variant tag.
func (n *Node) Kind() Kind { return n.kind }

// Elements returns the ordered tokens and children.
func (n *Node) Elements() []Element { return n.elems }

// Tokens returns every significant token under n in source order.
func (n *Node) Tokens() []*token.Token {
	var out []*token.Token
	n.appendTokens(&out)
	return out
}

func (n *Node) appendTokens(out *[]*token.Token) {
	for _, e := range n.elems {
		if e.Tok != nil {
			*out = append(*out, e.Tok)
			continue
		}
		e.Node.Base().appendTokens(out)
	}
}

// FirstToken returns the first significant token, or nil for an empty node.
func (n *Node) FirstToken() *token.Token {
	for _, e := range n.elems {
		if e.Tok != nil {
			return e.Tok
		}
		if t := e.Node.Base().FirstToken(); t != nil {
			return t
		}
	}
	return nil
}

// LastToken returns the last significant token, or nil for an empty node.
func (n *Node) LastToken() *token.Token {
	for i := len(n.elems) - 1; i >= 0; i-- {
		e := n.elems[i]
		if e.Tok != nil {
			return e.Tok
		}
		if t := e.Node.Base().LastToken(); t != nil {
			return t
		}
	}
	return nil
}

// Span covers the first and last significant tokens.
func (n *Node) Span() source.Span {
	first, last := n.FirstToken(), n.LastToken()
	if first == nil {
		return source.Span{}
	}
	return first.Span.Cover(last.Span)
}

// String reproduces the source text of the node, trivia included.
func (n *Node) String() string {
	var sb strings.Builder
	for _, t := range n.Tokens() {
		sb.WriteString(t.FullText())
	}
	return sb.String()
}

// Text is the source text without the outer trivia.
func (n *Node) Text() string {
	toks := n.Tokens()
	var sb strings.Builder
	for i, t := range toks {
		if i > 0 {
			for j := range t.Leading {
				sb.WriteString(t.Leading[j].Text)
			}
		}
		sb.WriteString(t.Text)
		if i < len(toks)-1 {
			for j := range t.Trailing {
				sb.WriteString(t.Trailing[j].Text)
			}
		}
	}
	return sb.String()
}

// Children returns the direct child nodes.
func (n *Node) Children() []Syntax {
	var out []Syntax
	for _, e := range n.elems {
		if e.Node != nil {
			out = append(out, e.Node)
		}
	}
	return out
}

// DocComments returns every doc comment reachable from n, in source order.
func (n *Node) DocComments() []*token.Token {
	var out []*token.Token
	for _, t := range n.Tokens() {
		for i := range t.Leading {
			if t.Leading[i].Kind == token.DocComment {
				out = append(out, &t.Leading[i])
			}
		}
		for i := range t.Trailing {
			if t.Trailing[i].Kind == token.DocComment {
				out = append(out, &t.Trailing[i])
			}
		}
	}
	return out
}

// Inspect walks the tree depth-first; f returning false skips the children.
func Inspect(s Syntax, f func(Syntax) bool) {
	if isNil(s) || !f(s) {
		return
	}
	for _, c := range s.Base().Children() {
		Inspect(c, f)
	}
}

// ===== builder =====

// Slot is one piece of a node under construction; absent pieces are empty.
type Slot struct {
	elems []Element
}

// T is a token slot.
func T(tok *token.Token) Slot {
	if tok == nil {
		return Slot{}
	}
	return Slot{elems: []Element{{Tok: tok}}}
}

// Ts is a slot of consecutive tokens.
func Ts(toks []*token.Token) Slot {
	s := Slot{elems: make([]Element, 0, len(toks))}
	for _, t := range toks {
		if t != nil {
			s.elems = append(s.elems, Element{Tok: t})
		}
	}
	return s
}

// N is a node slot; a nil node (typed or not) is absent.
func N(s Syntax) Slot {
	if isNil(s) {
		return Slot{}
	}
	return Slot{elems: []Element{{Node: s}}}
}

// Ns is a slot of consecutive nodes.
func Ns[S Syntax](nodes []S) Slot {
	s := Slot{elems: make([]Element, 0, len(nodes))}
	for _, n := range nodes {
		if !isNil(n) {
			s.elems = append(s.elems, Element{Node: n})
		}
	}
	return s
}

// Sep interleaves items with their separators: item, sep, item, sep, ...
func Sep[S Syntax](items []S, seps []*token.Token) Slot {
	s := Slot{elems: make([]Element, 0, len(items)+len(seps))}
	for i, n := range items {
		if !isNil(n) {
			s.elems = append(s.elems, Element{Node: n})
		}
		if i < len(seps) && seps[i] != nil {
			s.elems = append(s.elems, Element{Tok: seps[i]})
		}
	}
	return s
}

func (n *Node) build(kind Kind, slots ...Slot) {
	size := 0
	for _, s := range slots {
		size += len(s.elems)
	}
	n.kind = kind
	n.elems = make([]Element, 0, size)
	for _, s := range slots {
		n.elems = append(n.elems, s.elems...)
	}
}

type finisher interface {
	Syntax
	finish()
}

// Finish builds the element list of a variant from its fields and returns it.
// Fields must be set before the call; the node is immutable afterwards.
func Finish[S finisher](n S) S {
	n.finish()
	return n
}

func isNil(s any) bool {
	if s == nil {
		return true
	}
	v := reflect.ValueOf(s)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return v.IsNil()
	}
	return false
}
