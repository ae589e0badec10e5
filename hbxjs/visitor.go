package hbxjs

import (
	"html"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hbxjs/hbx/ast"
)

// htmlAttrs lists names set with setAttribute rather than as DOM
// properties.  aria-* and data-* names and @-prefixed args also go to the
// attribute channel; a splat only marks the element (HasSplat).
var htmlAttrs = map[string]bool{
	"class": true, "id": true, "style": true, "href": true, "src": true,
	"alt": true, "title": true, "role": true, "name": true, "target": true,
	"rel": true, "placeholder": true, "type": true, "method": true,
	"action": true, "enctype": true, "lang": true, "dir": true,
	"media": true, "charset": true, "content": true, "http-equiv": true,
	"integrity": true, "crossorigin": true, "loading": true, "srcset": true,
	"sizes": true, "download": true, "accept": true, "list": true,
	"pattern": true, "min": true, "max": true, "step": true, "form": true,
	"width": true, "height": true,
	// common svg presentation attributes
	"d": true, "viewBox": true, "fill": true, "stroke": true,
	"stroke-width": true, "cx": true, "cy": true, "r": true, "x": true,
	"y": true, "x1": true, "x2": true, "y1": true, "y2": true,
	"points": true, "transform": true, "xmlns": true,
}

// propRemap maps attribute spellings to DOM property names.
var propRemap = map[string]string{
	"class":           "className",
	"for":             "htmlFor",
	"readonly":        "readOnly",
	"tabindex":        "tabIndex",
	"colspan":         "colSpan",
	"rowspan":         "rowSpan",
	"maxlength":       "maxLength",
	"cellpadding":     "cellPadding",
	"cellspacing":     "cellSpacing",
	"usemap":          "useMap",
	"frameborder":     "frameBorder",
	"contenteditable": "contentEditable",
}

// booleanAttrs are the attributes whose bare/empty form means true.
var booleanAttrs = map[string]bool{
	"disabled": true, "checked": true, "selected": true, "readonly": true,
	"required": true, "autofocus": true, "multiple": true, "open": true,
	"hidden": true, "loop": true, "muted": true, "controls": true,
	"autoplay": true, "novalidate": true, "default": true, "defer": true,
	"async": true, "reversed": true, "itemscope": true, "inert": true,
}

func (s *state) visitBody(nodes []ast.Node) []Child {
	var out []Child
	for _, n := range nodes {
		if c := s.visitNode(n); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (s *state) visitNode(n ast.Node) Child {
	s.at(n)
	switch n := n.(type) {
	case *ast.TextNode:
		if v := s.visitText(n); v != nil {
			return v
		}
		return nil
	case *ast.CommentStatement:
		return nil
	case *ast.MustacheStatement:
		return s.visitMustache(n, false)
	case *ast.BlockStatement:
		return s.visitBlock(n)
	case *ast.ElementNode:
		return s.visitElement(n)
	}
	return nil
}

// visitText decodes character references and drops whitespace-only runs
// that span a newline or are longer than one character.
func (s *state) visitText(n *ast.TextNode) *Literal {
	decoded := html.UnescapeString(n.Chars)
	if strings.TrimSpace(decoded) == "" {
		if strings.ContainsRune(decoded, '\n') || len(decoded) > 1 {
			return nil
		}
	}
	return &Literal{Val: decoded, Range: s.ix.rangeOfNode(n)}
}

// visitExpr serializes an expression-position node.  Sub-expressions are
// cached so nodes shared through mustaches are visited at most once; wrap
// adds a getter around helper results.
func (s *state) visitExpr(e ast.Expr, wrap bool) Value {
	switch e := e.(type) {
	case *ast.StringLiteral:
		return &Literal{Val: e.Value, Range: s.ix.rangeOfNode(e)}
	case *ast.NumberLiteral:
		return &Literal{Val: e.Value, Range: s.ix.rangeOfNode(e)}
	case *ast.BooleanLiteral:
		return &Literal{Val: e.Value, Range: s.ix.rangeOfNode(e)}
	case *ast.NullLiteral:
		return &Literal{Val: nil, Range: s.ix.rangeOfNode(e)}
	case *ast.UndefinedLiteral:
		return &Literal{Val: Undefined{}, Range: s.ix.rangeOfNode(e)}
	case *ast.PathExpression:
		return s.resolvePath(e)
	case *ast.SubExpression:
		h, ok := s.seen[e]
		if !ok {
			h = s.makeHelper(e.Path, e.Params, e.Hash, s.ix.rangeOfNode(e))
			s.seen[e] = h
		}
		if wrap {
			return &Getter{Value: h}
		}
		return h
	}
	return &Literal{Val: nil}
}

// makeHelper builds a helper value from a call-like form.  Member-style
// heads (this.fn, @fn, x.y) keep their resolved expression as the helper
// name; plain heads keep the bare identifier so dispatch can consult the
// scope and the built-in table.
func (s *state) makeHelper(pathE ast.Expr, params []ast.Expr, hash ast.Hash, rng *SourceRange) *Helper {
	h := &Helper{Range: rng}
	if p, ok := pathE.(*ast.PathExpression); ok {
		rp := s.resolvePath(p)
		h.PathRange = s.ix.rangeOfNode(p)
		h.FnPath = rp
		if p.This || p.Data || len(p.Parts) > 1 || rp.EmitCall {
			h.Name = rp.Expression
		} else {
			h.Name = p.Head()
		}
	}
	for _, param := range params {
		h.Positional = append(h.Positional, s.visitExpr(param, false))
	}
	for _, pair := range hash.Pairs {
		h.Named = append(h.Named, NamedValue{Key: pair.Key, Value: s.visitExpr(pair.Value, false)})
	}
	return h
}

// visitMustache serializes a {{...}} in content or attribute position.
// reactive marks positions (attribute values) where helper results must be
// wrapped in a getter.
func (s *state) visitMustache(m *ast.MustacheStatement, reactive bool) Child {
	s.at(m)
	path, isPath := m.Path.(*ast.PathExpression)

	if isPath && !path.This && !path.Data {
		head := path.Head()
		if (head == "yield" || head == "outlet") && !s.scope.hasBinding(head) {
			return s.visitYield(m)
		}
	}

	if len(m.Params) == 0 && m.Hash.Empty() {
		if !isPath {
			return s.visitExpr(m.Path, false)
		}
		if path.This || path.Data || s.scope.hasBinding(path.Head()) {
			return s.resolvePath(path)
		}
	}

	h := s.makeHelper(m.Path, m.Params, m.Hash, s.ix.rangeOfNode(m))
	if reactive && h.Name != "has-block" && h.Name != "has-block-params" {
		return &Getter{Value: h}
	}
	return h
}

// visitYield lowers {{yield ...}} / {{outlet}} into a yield control.
func (s *state) visitYield(m *ast.MustacheStatement) Child {
	name := "default"
	if to := m.Hash.Get("to"); to != nil {
		if lit, ok := to.Value.(*ast.StringLiteral); ok {
			name = lit.Value
		}
	}
	ctl := &Control{
		Type:  controlYield,
		Key:   name,
		Range: s.ix.rangeOfNode(m),
	}
	for _, p := range m.Params {
		v := s.visitExpr(p, false)
		ctl.Params = append(ctl.Params, v)
		if path, ok := v.(*Path); ok {
			ctl.BlockParams = append(ctl.BlockParams, path.Expression)
		}
	}
	return ctl
}

// visitBlock serializes a {{#name ...}} form.  in-element, unless, let,
// if and each are recognized; all other names flow through as generic
// controls typed by their name.
func (s *state) visitBlock(b *ast.BlockStatement) Child {
	s.at(b)
	path, _ := b.Path.(*ast.PathExpression)
	if path == nil {
		s.errorf("E001", "block path must be a plain name")
		return nil
	}
	name := path.Head()
	if len(b.Params) == 0 {
		s.errorf("E001", "block %q requires at least one argument", name)
		return nil
	}
	rng := s.ix.rangeOfNode(b)

	switch name {
	case "let":
		return s.visitLet(b)

	case "in-element":
		target := s.visitExpr(b.Params[0], false)
		ctl := &Control{Type: controlInElement, Condition: target, Range: rng}
		ctl.Children = s.visitBranch(b.Program)
		return ctl

	case "if", "unless":
		cond := s.visitExpr(b.Params[0], true)
		ctl := &Control{Type: controlIf, Condition: cond, Range: rng}
		if name == "unless" {
			if b.Inverse != nil {
				ctl.Children = s.visitBranch(b.Inverse)
			} else {
				ctl.Children = []Child{&Literal{Val: ""}}
			}
			ctl.Inverse = s.visitBranch(b.Program)
			return ctl
		}
		ctl.Children = s.visitBranch(b.Program)
		if b.Inverse != nil {
			ctl.Inverse = s.visitBranch(b.Inverse)
		}
		return ctl

	case "each":
		ctl := &Control{Type: controlEach, Range: rng}
		ctl.Condition = s.visitExpr(b.Params[0], true)
		if key := b.Hash.Get("key"); key != nil {
			ctl.HasKey = true
			switch kv := key.Value.(type) {
			case *ast.StringLiteral:
				ctl.Key = kv.Value
			default:
				if v, ok := s.visitExpr(key.Value, false).(*Path); ok {
					ctl.Key = v.Expression
				}
			}
			if ctl.Key == "@index" {
				s.warnf("W003", "@index is not a stable list key; using @identity")
				ctl.Key = "@identity"
			}
		}
		if sync := b.Hash.Get("sync"); sync != nil {
			if lit, ok := sync.Value.(*ast.BooleanLiteral); ok {
				ctl.IsSync = lit.Value
			}
		}
		if b.Program != nil {
			ctl.BlockParams = b.Program.BlockParams
			for _, loc := range b.Program.BlockParamLocs {
				ctl.BlockParamRanges = append(ctl.BlockParamRanges, s.ix.rangeOf(loc))
			}
			ctl.Children = s.visitBranch(b.Program)
		}
		return ctl

	default:
		ctl := &Control{Type: name, Condition: s.visitExpr(b.Params[0], false), Range: rng}
		if b.Program != nil {
			ctl.BlockParams = b.Program.BlockParams
			ctl.Children = s.visitBranch(b.Program)
		}
		if b.Inverse != nil {
			ctl.Inverse = s.visitBranch(b.Inverse)
		}
		return ctl
	}
}

// visitBranch visits one block branch with its params in scope.  Binding
// add/remove pairs on every exit path.
func (s *state) visitBranch(blk *ast.Block) []Child {
	if blk == nil {
		return nil
	}
	s.scope.push()
	defer s.scope.pop()
	for i, name := range blk.BlockParams {
		var r *SourceRange
		if i < len(blk.BlockParamLocs) {
			rr := s.ix.rangeOf(blk.BlockParamLocs[i])
			r = &rr
		}
		s.addBlockParam(name, r)
	}
	return s.visitBody(blk.Body)
}

func isComponentTag(tag string) bool {
	if tag == "" || strings.HasPrefix(tag, ":") {
		return false
	}
	if strings.HasPrefix(tag, "@") || strings.Contains(tag, ".") {
		return true
	}
	r, _ := utf8.DecodeRuneInString(tag)
	return unicode.IsUpper(r)
}

// visitElement serializes an element, splitting its attributes into the
// attribute, property and event channels, and applying namespace wrapping
// and the text-child optimization.
func (s *state) visitElement(el *ast.ElementNode) Child {
	s.at(el)
	rng := s.ix.rangeOfNode(el)

	if (el.Tag == "svg" || el.Tag == "math") && !s.nsWrapped[el] {
		s.nsWrapped[el] = true
		sym := SymSVGProvider
		if el.Tag == "math" {
			sym = SymMathProvider
		}
		inner := s.visitElement(el)
		return &Element{
			Runtime:  &RuntimeTag{Symbol: sym},
			Children: []Child{inner},
			Range:    rng,
		}
	}

	tag := el.Tag
	if isComponentTag(tag) && s.opts.CustomizeComponentName != nil {
		tag = s.opts.CustomizeComponentName(tag)
	}

	out := &Element{
		Tag:         tag,
		SelfClosing: el.SelfClosing,
		Range:       rng,
	}
	head := el.Tag
	if i := strings.IndexByte(head, '.'); i >= 0 {
		head = head[:i]
	}
	out.TagBound = s.scope.hasBinding(head)
	if s.flags.WithEvalSupport {
		out.ScopeNames = s.scope.allBindingNames()
	}
	if el.TagLoc != (ast.Loc{}) {
		// ranges use the original tag spelling; renames must not shift them
		start := s.ix.offset(el.TagLoc.Start)
		out.TagRange = &SourceRange{Start: start, End: start + len(el.Tag)}
	}

	s.scope.push()
	defer s.scope.pop()
	out.BlockParams = el.BlockParams
	for i, name := range el.BlockParams {
		var r *SourceRange
		if i < len(el.BlockParamLocs) {
			rr := s.ix.rangeOf(el.BlockParamLocs[i])
			r = &rr
			out.BlockParamRanges = append(out.BlockParamRanges, rr)
		}
		s.addBlockParam(name, r)
	}

	for _, attr := range el.Attributes {
		s.visitAttr(out, attr)
	}
	for _, mod := range el.Modifiers {
		s.visitModifier(out, mod)
	}

	children := s.visitBody(el.Children)
	if el.Tag == "foreignObject" && len(children) > 0 {
		children = []Child{&Element{
			Runtime:  &RuntimeTag{Symbol: SymHTMLProvider},
			Children: children,
		}}
	}
	out.Children = children

	s.textChildOptimization(out)
	return out
}

// visitAttr routes one attribute into the right channel.
func (s *state) visitAttr(out *Element, attr *ast.AttrNode) {
	s.at(attr)
	name := attr.Name
	attrRange := s.ix.rangeOfNode(attr)
	var nameRange *SourceRange
	if attr.NameLoc != (ast.Loc{}) {
		r := s.ix.rangeOf(attr.NameLoc)
		nameRange = &r
	}

	switch {
	case name == "...attributes":
		out.HasSplat = true
		return

	case strings.HasPrefix(name, "style."):
		prop := strings.TrimPrefix(name, "style.")
		v := s.attrValue(attr.Value, true)
		out.Events = append(out.Events, Event{
			Name: EventOnCreated,
			Handler: &Helper{Name: markerOnCreated, Positional: []Value{
				&Raw{Code: SymStyle},
				&Literal{Val: prop},
				v,
			}},
			Range: attrRange,
		})
		return

	case name == "@oncreated":
		v := s.attrValue(attr.Value, false)
		out.Events = append(out.Events, Event{Name: EventOnCreated, Handler: s.asCreatedHandler(v), Range: attrRange})
		return

	case name == "@textContent":
		v := s.attrValue(attr.Value, true)
		out.Events = append(out.Events, Event{Name: EventTextContent, Handler: v, Range: attrRange})
		return
	}

	empty := attr.Value == nil
	if t, ok := attr.Value.(*ast.TextNode); ok && t.Chars == "" {
		empty = true
	}

	lname := strings.ToLower(name)
	toAttr := htmlAttrs[name] || htmlAttrs[lname] ||
		strings.HasPrefix(lname, "aria-") || strings.HasPrefix(lname, "data-") ||
		strings.HasPrefix(name, "@")

	if toAttr {
		var v Value = &Literal{Val: ""}
		if !empty {
			v = s.attrValue(attr.Value, true)
		}
		out.Attributes = append(out.Attributes, Attr{Name: name, Value: v, Range: attrRange, NameRange: nameRange})
		return
	}

	pname := name
	if mapped, ok := propRemap[lname]; ok {
		pname = mapped
	}
	var v Value
	if empty {
		if booleanAttrs[lname] {
			v = &Literal{Val: true}
		} else {
			v = &Literal{Val: ""}
		}
	} else {
		v = s.attrValue(attr.Value, true)
	}
	out.Properties = append(out.Properties, Prop{Name: pname, Value: v, Range: attrRange})
}

// attrValue serializes an attribute value node.  reactive marks contexts
// where helper values must defer through a getter.
func (s *state) attrValue(v ast.Node, reactive bool) Value {
	switch v := v.(type) {
	case nil:
		return &Literal{Val: ""}
	case *ast.TextNode:
		return &Literal{Val: html.UnescapeString(v.Chars), Range: s.ix.rangeOfNode(v)}
	case *ast.MustacheStatement:
		if val, ok := s.visitMustache(v, reactive).(Value); ok {
			return val
		}
		s.errorf("E002", "block form is not allowed in attribute position")
		return &Literal{Val: ""}
	case *ast.ConcatStatement:
		return s.visitConcat(v)
	}
	return &Literal{Val: ""}
}

// visitConcat serializes an interpolated attribute value into a getter
// over a concat; inner parts carry no wrapper of their own.
func (s *state) visitConcat(c *ast.ConcatStatement) Value {
	concat := &Concat{}
	for _, part := range c.Parts {
		switch part := part.(type) {
		case *ast.TextNode:
			concat.Parts = append(concat.Parts, &Literal{Val: html.UnescapeString(part.Chars), Range: s.ix.rangeOfNode(part)})
		case *ast.MustacheStatement:
			if v, ok := s.visitMustache(part, false).(Value); ok {
				concat.Parts = append(concat.Parts, v)
			}
		}
	}
	return &Getter{Value: concat}
}

// asCreatedHandler shapes an @oncreated value into the creation-hook
// helper form: the callee first, then the surviving positional tail.
func (s *state) asCreatedHandler(v Value) Value {
	if h, ok := v.(*Helper); ok {
		fn := Value(h.FnPath)
		if h.FnPath == nil {
			fn = &Raw{Code: h.Name}
		}
		return &Helper{
			Name:       markerOnCreated,
			Positional: append([]Value{fn}, h.Positional...),
			Named:      h.Named,
			PathRange:  h.PathRange,
			Range:      h.Range,
		}
	}
	return &Helper{Name: markerOnCreated, Positional: []Value{v}}
}

// visitModifier shapes element modifiers into events.  The on modifier
// attaches under its event name; custom modifiers run at creation.
func (s *state) visitModifier(out *Element, mod *ast.ElementModifierStatement) {
	s.at(mod)
	rng := s.ix.rangeOfNode(mod)
	path, _ := mod.Path.(*ast.PathExpression)
	if path == nil {
		return
	}

	if path.Head() == "on" && !path.This && !path.Data && !s.scope.hasBinding("on") {
		if len(mod.Params) < 2 {
			s.errorf("E003", "the on modifier requires an event name and a handler")
			return
		}
		evName, ok := mod.Params[0].(*ast.StringLiteral)
		if !ok {
			s.errorf("E003", "the on modifier event name must be a string literal")
			return
		}
		h := &Helper{Name: markerOnHandler, PathRange: s.ix.rangeOfNode(mod.Path)}
		for _, p := range mod.Params[1:] {
			h.Positional = append(h.Positional, s.visitExpr(p, false))
		}
		out.Events = append(out.Events, Event{Name: evName.Value, Handler: h, Range: rng})
		return
	}

	h := s.makeHelper(mod.Path, mod.Params, mod.Hash, rng)
	h.Name, h.ModName = markerModifier, h.Name
	out.Events = append(out.Events, Event{Name: EventOnCreated, Handler: h, Range: rng})
}

// textChildOptimization replaces a single text-like child of a plain
// element with a textContent event, so the runtime skips child diffing.
func (s *state) textChildOptimization(el *Element) {
	if len(el.Children) != 1 || el.Runtime != nil {
		return
	}
	if isComponentTag(el.Tag) || strings.HasPrefix(el.Tag, ":") {
		return
	}
	r, _ := utf8.DecodeRuneInString(el.Tag)
	if !unicode.IsLower(r) {
		return
	}
	v, ok := el.Children[0].(Value)
	if !ok {
		return
	}
	scan := valueScan(v)
	if strings.Contains(scan, SymSlot) || strings.Contains(scan, "...") {
		return
	}
	el.Children = nil
	el.Events = append(el.Events, Event{Name: EventTextContent, Handler: v})
	el.HasStableChild = true
}

// valueScan flattens a value for substring checks in optimizations.
func valueScan(v Value) string {
	switch v := v.(type) {
	case *Literal:
		if s, ok := v.Val.(string); ok {
			return s
		}
		return ""
	case *Path:
		return v.Expression
	case *Spread:
		return "..." + v.Expression
	case *Raw:
		return v.Code
	case *Getter:
		return valueScan(v.Value)
	case *Concat:
		var b strings.Builder
		for _, p := range v.Parts {
			b.WriteString(valueScan(p))
		}
		return b.String()
	case *Helper:
		var b strings.Builder
		b.WriteString(v.Name)
		for _, p := range v.Positional {
			b.WriteByte(' ')
			b.WriteString(valueScan(p))
		}
		for _, nv := range v.Named {
			b.WriteByte(' ')
			b.WriteString(nv.Key + "=" + valueScan(nv.Value))
		}
		return b.String()
	}
	return ""
}
