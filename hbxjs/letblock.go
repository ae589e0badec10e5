package hbxjs

import (
	"fmt"
	"strings"

	"github.com/hbxjs/hbx/ast"
)

// visitLet lowers {{#let a b as |x y|}} into a raw IIFE value.  Primitive
// right-hand sides are stored directly; anything else becomes a thunk, and
// references through the block params substitute the generated Let_*
// names (calling the thunks).  Inside the emitted body, this. is rewritten
// to self. with a quote-aware scanner.
func (s *state) visitLet(b *ast.BlockStatement) Child {
	if b.Program == nil || len(b.Program.BlockParams) == 0 {
		s.errorf("E001", "let requires at least one block param")
		return nil
	}
	s.letCount++
	id := s.letCount

	s.scope.push()
	defer s.scope.pop()

	var decls []string
	for i, name := range b.Program.BlockParams {
		if i >= len(b.Params) {
			break
		}
		v := s.visitExpr(b.Params[i], false)
		_, primitive := v.(*Literal)
		emitName := fmt.Sprintf("Let_%s_scope%d", letSafeName(name), id)
		rhs := s.exprString(s.buildValue(v, false))
		if !primitive {
			rhs = "() => " + rhs
		}
		decls = append(decls, "let "+emitName+" = "+rhs+";")

		if strings.HasPrefix(name, "$") || name == "this" || name == "self" {
			s.warnf("W002", "%q is a reserved binding name", name)
		}
		s.scope.addBinding(&binding{
			Kind:     bindLet,
			Name:     name,
			EmitName: emitName,
			Thunk:    !primitive,
		})
		s.bindings[name] = true
	}

	children := s.visitBody(b.Program.Body)
	parts := make([]string, 0, len(children))
	for _, c := range children {
		parts = append(parts, s.exprString(s.buildChild(c)))
	}

	inner := strings.Join(decls, " ")
	if inner != "" {
		inner += " "
	}
	inner += "return [" + strings.Join(parts, ", ") + "];"
	inner = rewriteThisToSelf(inner)

	return &Raw{Code: "...(() => { let self = this; " + inner + " })()"}
}

// exprString serializes a builder expression on a single line, without
// contributing to the outer mapping state.
func (s *state) exprString(x jsExpr) string {
	em := newEmitter(emitOptions{}, s.ix)
	em.expr(x)
	return em.b.String()
}

func letSafeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '_' || r == '$',
			r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// rewriteThisToSelf replaces this. with self. outside string literals.
// The scanner tracks quote and backslash state character by character; a
// blind replace would corrupt string contents.
func rewriteThisToSelf(code string) string {
	var b strings.Builder
	var quote byte
	for i := 0; i < len(code); {
		c := code[i]
		if quote != 0 {
			b.WriteByte(c)
			if c == '\\' && i+1 < len(code) {
				b.WriteByte(code[i+1])
				i += 2
				continue
			}
			if c == quote {
				quote = 0
			}
			i++
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
			b.WriteByte(c)
			i++
		default:
			if strings.HasPrefix(code[i:], "this.") &&
				(i == 0 || !isIdentByte(code[i-1])) {
				b.WriteString("self.")
				i += len("this.")
				continue
			}
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}
