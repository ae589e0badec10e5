// Package ast contains definitions for the in-memory representation of an
// hbx template.  The tree is produced by a front end (a parser is not part
// of this module) and consumed by the hbxjs compiler together with the
// original template text.
package ast

import (
	"bytes"
	"fmt"
	"strings"
)

// Node represents any singular piece of an hbx template.  For example, a
// run of text or a mustache expression.
type Node interface {
	String() string // String returns the hbx source representation of this node.
	Location() Loc  // location of the node in the original input
}

// Expr is any node usable in expression position: paths, literals and
// sub-expressions.
type Expr interface {
	Node
	exprNode()
}

// Position is a line/column pair in the template source.  Lines are
// 1-based, columns are 0-based byte counts from the start of the line.
type Position struct {
	Line   int
	Column int
}

// Loc delimits a node in the template source.  Nodes embed a Loc and
// fulfill that part of the Node interface for free.
type Loc struct {
	Start Position
	End   Position
}

// Location returns this location.
func (l Loc) Location() Loc { return l }

// Template is the root of a parsed hbx file.
type Template struct {
	Loc
	Body []Node
}

func (t *Template) String() string {
	var b bytes.Buffer
	for _, n := range t.Body {
		fmt.Fprint(&b, n)
	}
	return b.String()
}

// Children returns the top-level nodes of the template.
func (t *Template) Children() []Node { return t.Body }

// TextNode is a run of literal text.  Character references are carried
// verbatim; the compiler decodes them.
type TextNode struct {
	Loc
	Chars string
}

func (t *TextNode) String() string { return t.Chars }

// CommentStatement is an hbx comment; it produces no output.
type CommentStatement struct {
	Loc
	Value string
}

func (c *CommentStatement) String() string { return "{{!--" + c.Value + "--}}" }

// ElementNode is an HTML element or a component invocation.  Components
// are distinguished by tag shape (leading capital, a dot, or an @ prefix).
type ElementNode struct {
	Loc
	Tag            string
	TagLoc         Loc
	SelfClosing    bool
	Attributes     []*AttrNode
	Modifiers      []*ElementModifierStatement
	BlockParams    []string
	BlockParamLocs []Loc
	Children       []Node
}

func (e *ElementNode) String() string {
	var b bytes.Buffer
	b.WriteByte('<')
	b.WriteString(e.Tag)
	for _, attr := range e.Attributes {
		b.WriteByte(' ')
		b.WriteString(attr.String())
	}
	for _, mod := range e.Modifiers {
		b.WriteByte(' ')
		b.WriteString(mod.String())
	}
	if len(e.BlockParams) > 0 {
		b.WriteString(" as |" + strings.Join(e.BlockParams, " ") + "|")
	}
	if e.SelfClosing {
		b.WriteString(" />")
		return b.String()
	}
	b.WriteByte('>')
	for _, child := range e.Children {
		fmt.Fprint(&b, child)
	}
	b.WriteString("</" + e.Tag + ">")
	return b.String()
}

// AttrNode is a single attribute of an element.  Value is a *TextNode, a
// *MustacheStatement or a *ConcatStatement; a nil Value denotes a bare
// (valueless) attribute.
type AttrNode struct {
	Loc
	Name    string
	NameLoc Loc
	Value   Node
}

func (a *AttrNode) String() string {
	if a.Value == nil {
		return a.Name
	}
	switch v := a.Value.(type) {
	case *TextNode:
		return fmt.Sprintf("%s=%q", a.Name, v.Chars)
	default:
		return a.Name + "=" + a.Value.String()
	}
}

// ConcatStatement is an attribute value interpolating several parts, as in
// class="a {{b}} c".  Parts are *TextNode and *MustacheStatement.
type ConcatStatement struct {
	Loc
	Parts []Node
}

func (c *ConcatStatement) String() string {
	var b bytes.Buffer
	b.WriteByte('"')
	for _, p := range c.Parts {
		fmt.Fprint(&b, p)
	}
	b.WriteByte('"')
	return b.String()
}

// MustacheStatement is a {{...}} expression in content or attribute
// position.
type MustacheStatement struct {
	Loc
	Path     Expr
	Params   []Expr
	Hash     Hash
	Trusting bool // {{{...}}}
}

func (m *MustacheStatement) String() string {
	open, close := "{{", "}}"
	if m.Trusting {
		open, close = "{{{", "}}}"
	}
	return open + callBody(m.Path, m.Params, m.Hash) + close
}

// BlockStatement is a {{#name ...}}...{{/name}} form with an optional
// {{else}} inverse.
type BlockStatement struct {
	Loc
	Path    Expr
	Params  []Expr
	Hash    Hash
	Program *Block
	Inverse *Block
}

func (b *BlockStatement) String() string {
	var buf bytes.Buffer
	buf.WriteString("{{#" + callBody(b.Path, b.Params, b.Hash))
	if b.Program != nil && len(b.Program.BlockParams) > 0 {
		buf.WriteString(" as |" + strings.Join(b.Program.BlockParams, " ") + "|")
	}
	buf.WriteString("}}")
	if b.Program != nil {
		for _, n := range b.Program.Body {
			fmt.Fprint(&buf, n)
		}
	}
	if b.Inverse != nil {
		buf.WriteString("{{else}}")
		for _, n := range b.Inverse.Body {
			fmt.Fprint(&buf, n)
		}
	}
	buf.WriteString("{{/" + b.Path.String() + "}}")
	return buf.String()
}

// Block is the body of one branch of a BlockStatement.
type Block struct {
	Loc
	Body           []Node
	BlockParams    []string
	BlockParamLocs []Loc
}

func (b *Block) String() string {
	var buf bytes.Buffer
	for _, n := range b.Body {
		fmt.Fprint(&buf, n)
	}
	return buf.String()
}

// ElementModifierStatement is a {{modifier ...}} attached to an element
// open tag.
type ElementModifierStatement struct {
	Loc
	Path   Expr
	Params []Expr
	Hash   Hash
}

func (m *ElementModifierStatement) String() string {
	return "{{" + callBody(m.Path, m.Params, m.Hash) + "}}"
}

// Hash is the set of named arguments of a call-like form.  Order is the
// source order and is preserved through compilation.
type Hash struct {
	Pairs []*HashPair
}

// Empty reports whether the hash has no pairs.
func (h Hash) Empty() bool { return len(h.Pairs) == 0 }

// Get returns the pair with the given key, or nil.
func (h Hash) Get(key string) *HashPair {
	for _, p := range h.Pairs {
		if p.Key == key {
			return p
		}
	}
	return nil
}

// HashPair is one key=value named argument.
type HashPair struct {
	Loc
	Key   string
	Value Expr
}

func (p *HashPair) String() string { return p.Key + "=" + p.Value.String() }

func callBody(path Expr, params []Expr, hash Hash) string {
	var b bytes.Buffer
	b.WriteString(path.String())
	for _, p := range params {
		b.WriteByte(' ')
		b.WriteString(p.String())
	}
	for _, p := range hash.Pairs {
		b.WriteByte(' ')
		b.WriteString(p.String())
	}
	return b.String()
}
