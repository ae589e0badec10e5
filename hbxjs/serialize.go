package hbxjs

import (
	"strconv"
	"strings"
)

// GenPos is a 0-based line/column position in the generated output.
type GenPos struct {
	Line   int
	Column int
}

// MappingNode relates a span of generated code back to a template range.
// Nodes nest the way the builder nodes that carried ranges nest; the tree
// is returned on CompileResult.  The V3 source map is encoded from the
// segments the emitter records alongside each node.
type MappingNode struct {
	GenStart GenPos
	GenEnd   GenPos
	Source   SourceRange
	Name     string
	Children []*MappingNode
}

// mapSegment is one generated-position -> source-offset association.
type mapSegment struct {
	genLine int
	genCol  int
	srcOff  int
	nameIdx int // -1 when unnamed
}

type emitOptions struct {
	enabled    bool
	indent     string
	baseIndent int
	newline    string
	emitPure   bool
}

// emitter is the single recursive printer.  It tracks the generated
// (line, column) and produces mapping segments for every builder node
// carrying a source range.  It never fails on known node kinds; an unknown
// node type produces no output.
type emitter struct {
	opts    emitOptions
	ix      *rangeIndex
	b       strings.Builder
	line    int
	col     int
	depth   int
	segs    []mapSegment
	names   []string
	nameIdx map[string]int
	stack   []*MappingNode
	roots   []*MappingNode
}

func newEmitter(opts emitOptions, ix *rangeIndex) *emitter {
	if opts.indent == "" {
		opts.indent = "  "
	}
	if opts.newline == "" {
		opts.newline = "\n"
	}
	return &emitter{opts: opts, ix: ix, nameIdx: map[string]int{}}
}

func (e *emitter) write(s string) {
	e.b.WriteString(s)
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			e.line++
			e.col = 0
		} else {
			e.col++
		}
	}
}

func (e *emitter) newline() {
	if !e.opts.enabled {
		e.write(" ")
		return
	}
	e.write(e.opts.newline)
	e.write(strings.Repeat(e.opts.indent, e.opts.baseIndent+e.depth))
}

// nameIndex interns a name into the names table.
func (e *emitter) nameIndex(name string) int {
	if name == "" {
		return -1
	}
	if idx, ok := e.nameIdx[name]; ok {
		return idx
	}
	idx := len(e.names)
	e.names = append(e.names, name)
	e.nameIdx[name] = idx
	return idx
}

// enter opens a mapping node for a ranged builder node and records the
// segment at the current generated position.
func (e *emitter) enter(r *SourceRange, name string) *MappingNode {
	if r == nil {
		return nil
	}
	node := &MappingNode{
		GenStart: GenPos{Line: e.line, Column: e.col},
		Source:   *r,
		Name:     name,
	}
	if len(e.stack) > 0 {
		top := e.stack[len(e.stack)-1]
		top.Children = append(top.Children, node)
	} else {
		e.roots = append(e.roots, node)
	}
	e.stack = append(e.stack, node)
	e.segs = append(e.segs, mapSegment{
		genLine: e.line,
		genCol:  e.col,
		srcOff:  r.Start,
		nameIdx: e.nameIndex(name),
	})
	return node
}

func (e *emitter) exit(node *MappingNode) {
	if node == nil {
		return
	}
	node.GenEnd = GenPos{Line: e.line, Column: e.col}
	e.stack = e.stack[:len(e.stack)-1]
}

// pureCallee reports whether the callee identifier is in the pure set.
func pureCallee(callee jsExpr) bool {
	switch c := callee.(type) {
	case *jsIdent:
		return PureFunctions[c.Name]
	case *jsRef:
		return PureFunctions[c.Code]
	}
	return false
}

func escapeSingle(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (e *emitter) expr(x jsExpr) {
	switch n := x.(type) {
	case *jsLit:
		m := e.enter(n.Range, "")
		e.write(n.Text)
		e.exit(m)

	case *jsStr:
		m := e.enter(n.Range, "")
		if n.Single {
			e.write("'" + escapeSingle(n.Value) + "'")
		} else {
			e.write(strconv.Quote(n.Value))
		}
		e.exit(m)

	case *jsIdent:
		m := e.enter(n.Range, n.MappingName)
		e.write(n.Name)
		e.exit(m)

	case *jsRef:
		m := e.enter(n.Range, n.MappingName)
		e.write(n.Code)
		e.exit(m)

	case *jsMember:
		e.expr(n.Object)
		m := e.enter(n.PropRange, n.Property)
		if n.Computed {
			open := "["
			if n.Optional {
				open = "?.["
			}
			prop := n.Property
			if !isNumeric(prop) {
				prop = strconv.Quote(prop)
			}
			e.write(open + prop + "]")
		} else if n.Optional {
			e.write("?." + n.Property)
		} else {
			e.write("." + n.Property)
		}
		e.exit(m)

	case *jsCall:
		m := e.enter(n.Range, "")
		if e.opts.emitPure && pureCallee(n.Callee) {
			e.write("/*#__PURE__*/")
		}
		e.expr(n.Callee)
		e.write("(")
		if n.Formatted && e.opts.enabled && len(n.Args) > 0 {
			e.depth++
			for i, a := range n.Args {
				if i > 0 {
					e.write(",")
				}
				e.newline()
				e.expr(a)
			}
			e.depth--
			e.newline()
		} else {
			for i, a := range n.Args {
				if i > 0 {
					e.write(", ")
				}
				e.expr(a)
			}
		}
		e.write(")")
		e.exit(m)

	case *jsArrow:
		m := e.enter(n.Range, "")
		e.write("(" + strings.Join(n.Params, ", ") + ") => ")
		if n.Body != nil {
			e.expr(n.Body)
		} else {
			e.stmtBlock(n.Stmts)
		}
		e.exit(m)

	case *jsArray:
		m := e.enter(n.Range, "")
		e.write("[")
		if n.Formatted && e.opts.enabled && len(n.Items) > 0 {
			e.depth++
			for i, item := range n.Items {
				if i > 0 {
					e.write(",")
				}
				e.newline()
				e.expr(item)
			}
			e.depth--
			e.newline()
		} else {
			for i, item := range n.Items {
				if i > 0 {
					e.write(", ")
				}
				e.expr(item)
			}
		}
		e.write("]")
		e.exit(m)

	case *jsObject:
		m := e.enter(n.Range, "")
		e.write("{")
		if n.Formatted && e.opts.enabled && len(n.Props) > 0 {
			e.depth++
			for i, p := range n.Props {
				if i > 0 {
					e.write(",")
				}
				e.newline()
				e.objectProp(p)
			}
			e.depth--
			e.newline()
		} else {
			for i, p := range n.Props {
				if i > 0 {
					e.write(", ")
				}
				e.objectProp(p)
			}
		}
		e.write("}")
		e.exit(m)

	case *jsSpread:
		e.write("...")
		e.expr(n.Arg)

	case *jsBinary:
		e.expr(n.L)
		e.write(" " + n.Op + " ")
		e.expr(n.R)

	case *jsCond:
		e.expr(n.Test)
		e.write(" ? ")
		e.expr(n.Cons)
		e.write(" : ")
		e.expr(n.Alt)

	case *jsRaw:
		m := e.enter(n.Range, "")
		e.write(n.Code)
		e.exit(m)

	case *jsReactiveGetter:
		m := e.enter(n.Range, "")
		e.write("() => ")
		e.expr(n.Inner)
		e.exit(m)

	case *jsIIFE:
		e.write("(() => ")
		e.stmtBlock(n.Stmts)
		e.write(")()")
	}
}

func (e *emitter) objectProp(p jsObjectProp) {
	m := e.enter(p.KeyRange, p.Key)
	switch {
	case p.Key == "":
		e.write("''")
	case isIdentSafe(p.Key):
		e.write(p.Key)
	default:
		e.write("'" + escapeSingle(p.Key) + "'")
	}
	e.exit(m)
	e.write(": ")
	e.expr(p.Value)
}

func (e *emitter) stmt(s jsStmt) {
	switch n := s.(type) {
	case *jsVarDecl:
		e.write(n.Kind + " " + n.Name + " = ")
		e.expr(n.Init)
		e.write(";")
	case *jsReturn:
		e.write("return ")
		e.expr(n.Arg)
		e.write(";")
	case *jsExprStmt:
		e.expr(n.Expr)
		e.write(";")
	}
}

func (e *emitter) stmtBlock(stmts []jsStmt) {
	e.write("{")
	if e.opts.enabled {
		e.depth++
		for _, s := range stmts {
			e.newline()
			e.stmt(s)
		}
		e.depth--
		e.newline()
	} else {
		for _, s := range stmts {
			e.write(" ")
			e.stmt(s)
		}
		e.write(" ")
	}
	e.write("}")
}

// mappingRoot wraps the accumulated top-level mapping nodes in a single
// tree node spanning the whole emission.
func (e *emitter) mappingRoot() *MappingNode {
	return &MappingNode{
		GenStart: GenPos{},
		GenEnd:   GenPos{Line: e.line, Column: e.col},
		Source:   SourceRange{Start: 0, End: len(e.ix.source)},
		Children: e.roots,
	}
}
