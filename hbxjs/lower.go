package hbxjs

import (
	"strconv"
	"strings"
)

// buildChildren lowers a children list with the current context.
func (s *state) buildChildren(children []Child) []jsExpr {
	out := make([]jsExpr, 0, len(children))
	for _, c := range children {
		out = append(out, s.buildChild(c))
	}
	return out
}

func (s *state) buildChild(c Child) jsExpr {
	switch c := c.(type) {
	case *Element:
		if c.Runtime != nil || isComponentTag(c.Tag) || c.TagBound {
			return s.buildComponent(c)
		}
		return s.buildElement(c)
	case *Control:
		return s.buildControl(c)
	case Value:
		return s.buildValue(c, false)
	}
	return bLit("null")
}

// buildValue lowers one serialized value.  wrap asks for a reactive getter
// around paths; whether that happens also depends on compat mode.
func (s *state) buildValue(v Value, wrap bool) jsExpr {
	switch v := v.(type) {
	case *Literal:
		return s.buildLiteral(v)
	case *Raw:
		return bRaw(v.Code)
	case *Spread:
		return bSpread(bRef(v.Expression))
	case *Getter:
		return bArrow(nil, s.buildValue(v.Value, false))
	case *Concat:
		return s.buildConcat(v)
	case *Path:
		return s.buildPath(v, wrap)
	case *Helper:
		return s.buildHelper(v)
	}
	return bLit("null")
}

func (s *state) buildLiteral(v *Literal) jsExpr {
	switch val := v.Val.(type) {
	case string:
		return withRange(bStr(val), v.Range)
	case bool:
		return withRange(bLit(strconv.FormatBool(val)), v.Range)
	case float64:
		return withRange(bLit(strconv.FormatFloat(val, 'g', -1, 64)), v.Range)
	case int:
		return withRange(bLit(strconv.Itoa(val)), v.Range)
	case Undefined:
		return withRange(bLit("undefined"), v.Range)
	case nil:
		return withRange(bLit("null"), v.Range)
	}
	return bLit("null")
}

// buildConcat joins the parts with ''.  Inner paths are built without
// reactive-getter wrapping; the outer getter supplies reactivity.
func (s *state) buildConcat(c *Concat) jsExpr {
	items := make([]jsExpr, 0, len(c.Parts))
	for _, p := range c.Parts {
		items = append(items, s.buildValue(p, false))
	}
	return bMethod(bArray(items...), "join", bStrSingle(""))
}

// buildPath lowers a path into a member chain rooted at a runtime
// reference.  Unknown heads in compat mode fall back to the maybe-helper
// lookup; optional chaining starts at segment index 1 for plain heads and
// index 2 for this- and argument-rooted paths.
func (s *state) buildPath(p *Path, wrap bool) jsExpr {
	if !p.This && !p.IsArg && !p.Known && !strings.HasPrefix(p.RootExpr, "$_") &&
		s.flags.GlimmerCompat && !s.plainPaths {
		args := []jsExpr{withRange(bStr(p.Expression), p.Range), bArray()}
		if s.flags.WithEvalSupport {
			args = append(args, bRef(s.ctxExpr()))
		}
		expr := jsExpr(bCall(bRef(SymMaybeHelper), args...))
		if wrap {
			expr = withRange(bGetter(expr), p.Range)
		}
		return expr
	}

	parts := p.Parts
	if len(parts) == 0 && !p.This && !p.IsArg {
		parts = deriveParts(p)
	}

	var (
		root    string
		mapName string
		tail    []PathSegment
		optFrom int
	)
	switch {
	case p.This:
		root, mapName, tail, optFrom = "this", "this", parts, 2
	case p.IsArg:
		root, mapName, tail, optFrom = ArgsAlias, p.ArgName, parts, 2
	default:
		if len(parts) == 0 {
			return &jsRef{Code: p.RootExpr, MappingName: p.RootExpr, Range: p.RootRange}
		}
		root, mapName, tail, optFrom = p.RootExpr, parts[0].Name, parts[1:], 1
		if root == "" {
			root = parts[0].Name
		}
	}

	// optionality applies from the configured index, and only once the
	// chain is three or more segments long
	chain := 1+len(tail) >= 3
	var expr jsExpr = &jsRef{Code: root, MappingName: mapName, Range: p.RootRange}
	for i, seg := range tail {
		optional := chain && i+1 >= optFrom
		m := &jsMember{Object: expr, Property: seg.Name, Optional: optional}
		if seg.Range != (SourceRange{}) {
			r := seg.Range
			m.PropRange = &r
		}
		if isNumeric(seg.Name) || !isIdentSafe(seg.Name) {
			m.Computed = true
		}
		expr = m
	}
	if wrap && s.flags.GlimmerCompat && !s.plainPaths {
		return withRange(bGetter(expr), p.Range)
	}
	return expr
}

// deriveParts reconstructs segments from the resolved expression when a
// path carries none and its source span matches the expression text.
// Visitor-produced paths always populate parts; this survives only for
// hand-built values.
func deriveParts(p *Path) []PathSegment {
	if p.Range == nil || p.Expression == "" {
		return nil
	}
	if p.Range.End-p.Range.Start != len(p.Expression) ||
		strings.ContainsAny(p.Expression, `"'[]?`) {
		return nil
	}
	offset := p.Range.Start
	var segs []PathSegment
	for _, name := range strings.Split(p.Expression, ".") {
		segs = append(segs, PathSegment{
			Name:  name,
			Range: SourceRange{Start: offset, End: offset + len(name)},
		})
		offset += len(name) + 1
	}
	return segs
}

// helperKnown applies the knownness test to a helper head: bound, this.,
// this[, a runtime symbol, or an @-argument.  Local bindings shadow
// built-ins.
func (s *state) helperKnown(h *Helper) bool {
	if h.FnPath != nil && (h.FnPath.This || h.FnPath.IsArg || h.FnPath.Known) {
		return true
	}
	return strings.HasPrefix(h.Name, "$_")
}

// buildHelper dispatches a helper call.  Precedence: the element marker,
// known heads, unless, built-ins, the contextual keywords, then the
// maybe-helper fallback.
func (s *state) buildHelper(h *Helper) jsExpr {
	if h.Name == markerElement && !(h.FnPath != nil && h.FnPath.Known) {
		return s.buildElementHelper(h)
	}
	if s.helperKnown(h) {
		return s.buildKnownHelper(h)
	}
	if h.Name == "unless" {
		return s.buildBuiltin("if", SymIfHelper, unlessToIf(h))
	}
	if sym, ok := BuiltInHelpers[h.Name]; ok {
		return s.buildBuiltin(h.Name, sym, h)
	}
	if sym, ok := keywordHelpers[h.Name]; ok {
		args := []jsExpr{bArray(s.buildPositional(h, true)...)}
		args = append(args, s.buildNamedObject(h.Named))
		return withRange(bCall(bRef(sym), args...), h.Range)
	}
	return s.buildMaybeHelper(h)
}

// unlessToIf rewrites unless(c, a, b) into if(c, b, a); with a single
// branch the synthetic else is an empty string.
func unlessToIf(h *Helper) *Helper {
	out := &Helper{Name: "if", Range: h.Range, PathRange: h.PathRange, Named: h.Named}
	switch len(h.Positional) {
	case 0:
		return out
	case 1:
		out.Positional = h.Positional
	case 2:
		out.Positional = []Value{h.Positional[0], &Literal{Val: ""}, h.Positional[1]}
	default:
		out.Positional = []Value{h.Positional[0], h.Positional[2], h.Positional[1]}
	}
	return out
}

// buildPositional lowers positional arguments with the standard
// treatment; wrap=false leaves paths bare.
func (s *state) buildPositional(h *Helper, wrap bool) []jsExpr {
	out := make([]jsExpr, 0, len(h.Positional))
	for _, v := range h.Positional {
		out = append(out, s.buildValue(v, wrap))
	}
	return out
}

func (s *state) buildNamedObject(named []NamedValue) jsExpr {
	props := make([]jsObjectProp, 0, len(named))
	for _, nv := range named {
		props = append(props, jsObjectProp{Key: nv.Key, Value: s.buildValue(nv.Value, true)})
	}
	return bObject(props...)
}

// helperFnRef lowers the callee reference of a known helper, without a
// reactive getter.
func (s *state) helperFnRef(h *Helper) jsExpr {
	if h.FnPath != nil {
		return s.buildPath(h.FnPath, false)
	}
	return bRef(h.Name)
}

// buildKnownHelper emits a call through a known binding: either routed
// through the helper manager or called directly.  Directly-called
// positional paths carry no reactive getter.
func (s *state) buildKnownHelper(h *Helper) jsExpr {
	fn := s.helperFnRef(h)
	if s.flags.WithHelperManager {
		args := []jsExpr{fn, bArray(s.buildPositional(h, true)...)}
		if len(h.Named) > 0 {
			args = append(args, s.buildNamedObject(h.Named))
		}
		return withRange(bCall(bRef(SymMaybeHelper), args...), h.Range)
	}
	var args []jsExpr
	for _, v := range h.Positional {
		if _, isPath := v.(*Path); isPath {
			args = append(args, s.buildValue(v, false))
			continue
		}
		args = append(args, s.buildValue(v, true))
	}
	if len(h.Named) > 0 {
		args = append(args, s.buildNamedObject(h.Named))
	}
	return withRange(bCall(fn, args...), h.Range)
}

// buildMaybeHelper emits the unknown-name fallback.  Arguments pass
// through without reactive wrapping or further fallbacks; the runtime
// resolves the name.  The context is appended only with eval support.
func (s *state) buildMaybeHelper(h *Helper) jsExpr {
	prev := s.plainPaths
	s.plainPaths = true
	pos := s.buildPositional(h, false)
	var namedObj jsExpr
	if len(h.Named) > 0 {
		namedObj = s.buildNamedObject(h.Named)
	}
	s.plainPaths = prev

	name := withRange(bStr(h.Name), h.PathRange)
	args := []jsExpr{name, bArray(pos...)}
	if namedObj != nil {
		args = append(args, namedObj)
	} else if s.flags.WithEvalSupport {
		args = append(args, bObject())
	}
	if s.flags.WithEvalSupport {
		args = append(args, bRef(s.ctxExpr()))
	}
	return withRange(bCall(bRef(SymMaybeHelper), args...), h.Range)
}

// buildBuiltin emits the runtime built-in call shapes.
func (s *state) buildBuiltin(name, sym string, h *Helper) jsExpr {
	ctx := s.ctxExpr()
	switch {
	case reactiveSet[name]:
		args := make([]jsExpr, 0, len(h.Positional)+1)
		for _, v := range h.Positional {
			args = append(args, s.reactiveArg(v))
		}
		if len(h.Named) > 0 {
			args = append(args, s.buildNamedObject(h.Named))
		}
		return withRange(bCall(bRef(sym), args...), h.Range)

	case name == "hash":
		props := make([]jsObjectProp, 0, len(h.Named))
		for _, nv := range h.Named {
			inner := nv.Value
			if g, ok := inner.(*Getter); ok {
				inner = g.Value
			}
			props = append(props, jsObjectProp{Key: nv.Key, Value: bArrow(nil, s.buildValue(inner, false))})
		}
		return withRange(bCall(bRef(sym), bObject(props...)), h.Range)

	case name == "fn":
		var args []jsExpr
		for i, v := range h.Positional {
			if i == 0 {
				args = append(args, s.buildValue(v, false))
				continue
			}
			args = append(args, s.buildValue(v, true))
		}
		if len(h.Named) > 0 {
			args = append(args, s.buildNamedObject(h.Named))
		}
		return withRange(bCall(bRef(sym), args...), h.Range)

	case name == "has-block" || name == "has-block-params":
		bound := bMethod(bRef(sym), "bind", bRef(ctx), bRef(SymLocalSlots))
		if len(h.Positional) == 0 {
			return withRange(bound, h.Range)
		}
		return withRange(bCall(bound, s.buildPositional(h, true)...), h.Range)

	case name == "debugger":
		args := append([]jsExpr{bRef(ctx)}, s.buildPositional(h, true)...)
		return withRange(bMethod(bRef(sym), "call", args...), h.Range)

	default:
		args := s.buildPositional(h, true)
		if len(h.Named) > 0 {
			args = append(args, s.buildNamedObject(h.Named))
		}
		return withRange(bCall(bRef(sym), args...), h.Range)
	}
}

// reactiveArg filters one positional argument of the reactive built-ins:
// literals, paths, getters and spreads pass as built; helpers, raws and
// concats defer behind an arrow.
func (s *state) reactiveArg(v Value) jsExpr {
	switch v.(type) {
	case *Literal, *Path, *Getter, *Spread:
		return s.buildValue(v, true)
	default:
		return bArrow(nil, s.buildValue(v, false))
	}
}

// buildElementHelper emits the dynamic-element component wrapper: a
// function component that forwards args, attributes and slots onto a tag
// chosen at runtime.
func (s *state) buildElementHelper(h *Helper) jsExpr {
	tag := "''"
	if len(h.Positional) > 0 {
		tag = s.exprString(s.buildValue(h.Positional[0], false))
	}
	code := "function() { " +
		SymGetArgs + "(this, arguments); " +
		"const " + SymLocalFW + " = " + SymGetFW + "(this, arguments); " +
		"const " + SymLocalSlots + " = " + SymGetSlots + "(this, arguments); " +
		"return " + SymFinalize + "([" +
		SymTag + "(" + tag + ", [[], [], [], " + SymLocalFW + "], this, [" +
		SymSlot + "('default', () => [], " + SymLocalSlots + ", this)])], this); }"
	return withRange(bRaw(code), h.Range)
}
