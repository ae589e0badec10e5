package hbxjs

import (
	"strconv"
	"strings"

	"github.com/hbxjs/hbx/ast"
)

// isIdentSafe reports whether name can be used with dotted member access.
func isIdentSafe(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func isNumeric(name string) bool {
	if name == "" {
		return false
	}
	_, err := strconv.Atoi(name)
	return err == nil
}

// accessor renders one member access for the expression string form.
func accessor(name string) string {
	switch {
	case isNumeric(name):
		return "[" + name + "]"
	case isIdentSafe(name):
		return "." + name
	default:
		return "[" + strconv.Quote(name) + "]"
	}
}

// resolvePath turns a template path into an IR path.  Resolution:
//
//	@x        -> this[$args].x (or a computed member for unsafe names)
//	this.*    -> unchanged
//	bound x   -> unchanged (let-bindings substitute their generated name)
//	unknown x -> unchanged; the lowerer decides what unknown heads mean
func (s *state) resolvePath(p *ast.PathExpression) *Path {
	out := &Path{
		Range: s.ix.rangeOfNode(p),
		This:  p.This,
	}
	headLoc := p.HeadLoc()
	if headLoc != (ast.Loc{}) {
		r := s.ix.rangeOf(headLoc)
		out.RootRange = &r
	}
	for _, part := range p.Parts {
		out.Parts = append(out.Parts, PathSegment{Name: part.Name, Range: s.ix.rangeOf(part.Loc)})
	}

	var expr strings.Builder
	switch {
	case p.This:
		out.Known = true
		out.RootExpr = "this"
		expr.WriteString("this")
		for _, part := range p.Parts {
			expr.WriteString(accessor(part.Name))
		}

	case p.Data:
		if len(p.Parts) == 0 {
			break
		}
		out.IsArg = true
		out.Known = true
		out.ArgName = p.Parts[0].Name
		out.RootExpr = ArgsAlias
		expr.WriteString(ArgsAlias)
		for _, part := range p.Parts {
			expr.WriteString(accessor(part.Name))
		}

	default:
		if len(p.Parts) == 0 {
			break
		}
		head := p.Parts[0].Name
		out.Known = s.scope.hasBinding(head)
		if b := s.scope.resolve(head); b != nil && b.Kind == bindLet {
			root := b.EmitName
			if b.Thunk {
				root += "()"
				out.EmitCall = true
			}
			out.RootExpr = root
			expr.WriteString(root)
		} else {
			out.RootExpr = head
			expr.WriteString(head)
		}
		for _, part := range p.Parts[1:] {
			expr.WriteString(accessor(part.Name))
		}
	}

	out.Expression = optionalChain(expr.String())
	return out
}

// optionalChain applies the optional-chaining policy to a resolved
// expression string: with three or more dot segments, and neither quotes
// nor a runtime-symbol prefix, interior dots become ?.; `this.` and
// `this[$args].` are never optional.
func optionalChain(expr string) string {
	if strings.ContainsAny(expr, `"'`) || strings.HasPrefix(expr, "$_") {
		return expr
	}
	if strings.Count(expr, ".") < 2 {
		return expr
	}
	out := strings.ReplaceAll(expr, ".", "?.")
	out = strings.ReplaceAll(out, "this?.", "this.")
	out = strings.ReplaceAll(out, "this["+SymArgsProperty+"]?.", "this["+SymArgsProperty+"].")
	return out
}
