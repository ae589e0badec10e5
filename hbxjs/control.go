package hbxjs

// buildControl lowers one control-flow node.
func (s *state) buildControl(c *Control) jsExpr {
	ctx := s.ctxExpr()
	switch c.Type {
	case controlIf:
		branchCtx := s.nextCtx()
		innerCtx := s.nextCtx()
		call := bCall(bRef(SymIf),
			s.buildValue(c.Condition, false),
			s.branchArrow(c.Children, branchCtx, innerCtx),
			s.branchArrow(c.Inverse, branchCtx, innerCtx),
			bRef(ctx))
		call.Range = c.Range
		return call

	case controlEach:
		return s.buildEach(c)

	case controlYield:
		params := make([]jsExpr, 0, len(c.Params))
		for _, p := range c.Params {
			params = append(params, s.buildValue(p, false))
		}
		call := bCall(bRef(SymSlot),
			bStrSingle(c.Key),
			bArrow(nil, bArray(params...)),
			bRef(SymLocalSlots),
			bRef(ctx))
		call.Range = c.Range
		return call

	case controlInElement:
		bodyCtx := s.nextCtx()
		var body []jsExpr
		s.withCtx(bodyCtx, func() { body = s.buildChildren(c.Children) })
		call := bCall(bRef(SymInElement),
			s.buildValue(c.Condition, false),
			bArrow([]string{bodyCtx}, bFormattedArray(body...)),
			bRef(ctx))
		call.Range = c.Range
		return call

	default:
		bodyCtx := s.nextCtx()
		var body []jsExpr
		s.withCtx(bodyCtx, func() { body = s.buildChildren(c.Children) })
		call := bCall(bIdent(c.Type),
			s.buildValue(c.Condition, false),
			bArrow(append(append([]string{}, c.BlockParams...), bodyCtx), bFormattedArray(body...)),
			bRef(ctx))
		call.Range = c.Range
		return call
	}
}

// branchArrow renders one if-branch: an empty branch yields no children,
// anything else re-enters through the unstable-child wrapper.
func (s *state) branchArrow(children []Child, branchCtx, innerCtx string) jsExpr {
	if len(children) == 0 {
		return bArrow([]string{branchCtx}, bArray())
	}
	var body []jsExpr
	s.withCtx(innerCtx, func() { body = s.buildChildren(children) })
	ucw := bCall(bRef(SymUCW),
		bArrow([]string{innerCtx}, bFormattedArray(body...)),
		bRef(branchCtx))
	return bArrow([]string{branchCtx}, ucw)
}

// buildEach emits the list primitive.  Missing block params pad with the
// noop and index locals; a stable single child inlines the body without
// the unstable-child wrapper; references to the index param are rewritten
// onto its cell value.
func (s *state) buildEach(c *Control) jsExpr {
	ctx := s.ctxExpr()
	sym := SymEach
	if c.IsSync {
		sym = SymEachSync
	}

	itemParam := SymNoop
	indexParam := SymIndex
	if len(c.BlockParams) > 0 {
		itemParam = c.BlockParams[0]
	}
	if len(c.BlockParams) > 1 {
		indexParam = c.BlockParams[1]
	}

	bodyCtx := s.nextCtx()
	var bodyExpr jsExpr
	if hasStableChildsForControlNode(c.Children) {
		var body []jsExpr
		s.withCtx(bodyCtx, func() { body = s.buildChildren(c.Children) })
		bodyExpr = bFormattedArray(body...)
	} else {
		innerCtx := s.nextCtx()
		var body []jsExpr
		s.withCtx(innerCtx, func() { body = s.buildChildren(c.Children) })
		bodyExpr = bCall(bRef(SymUCW),
			bArrow([]string{innerCtx}, bFormattedArray(body...)),
			bRef(bodyCtx))
	}
	fn := bArrow([]string{itemParam, indexParam, bodyCtx}, bodyExpr)
	rewriteIndexRefs(fn, indexParam)

	var key jsExpr = bLit("null")
	if c.HasKey {
		key = bStr(c.Key)
	}
	call := bCall(bRef(sym), s.buildValue(c.Condition, false), fn, key, bRef(ctx))
	call.Range = c.Range
	return call
}

// hasStableChildsForControlNode is true iff there is exactly one real
// child, and it is an element with no events and no children, or an
// element explicitly marked stable.
func hasStableChildsForControlNode(children []Child) bool {
	if len(children) != 1 {
		return false
	}
	el, ok := children[0].(*Element)
	if !ok {
		return false
	}
	if el.HasStableChild {
		return true
	}
	return len(el.Events) == 0 && len(el.Children) == 0
}

// rewriteIndexRefs rewrites identifier references to the index param onto
// the runtime cell (<name> -> <name>.value), traversing the whole
// expression subtree.
func rewriteIndexRefs(node jsNode, name string) {
	walkJS(node, func(n jsNode) {
		switch n := n.(type) {
		case *jsIdent:
			if n.Name == name {
				n.Name = name + ".value"
			}
		case *jsRef:
			if n.Code == name {
				n.Code = name + ".value"
			}
		}
	})
}

// walkJS invokes fn on node and every descendant.
func walkJS(node jsNode, fn func(jsNode)) {
	if node == nil {
		return
	}
	fn(node)
	switch n := node.(type) {
	case *jsMember:
		walkJS(n.Object, fn)
	case *jsCall:
		walkJS(n.Callee, fn)
		for _, a := range n.Args {
			walkJS(a, fn)
		}
	case *jsArrow:
		if n.Body != nil {
			walkJS(n.Body, fn)
		}
		for _, st := range n.Stmts {
			walkJS(st, fn)
		}
	case *jsArray:
		for _, item := range n.Items {
			walkJS(item, fn)
		}
	case *jsObject:
		for _, p := range n.Props {
			walkJS(p.Value, fn)
		}
	case *jsSpread:
		walkJS(n.Arg, fn)
	case *jsBinary:
		walkJS(n.L, fn)
		walkJS(n.R, fn)
	case *jsCond:
		walkJS(n.Test, fn)
		walkJS(n.Cons, fn)
		walkJS(n.Alt, fn)
	case *jsReactiveGetter:
		walkJS(n.Inner, fn)
	case *jsIIFE:
		for _, st := range n.Stmts {
			walkJS(st, fn)
		}
	case *jsVarDecl:
		walkJS(n.Init, fn)
	case *jsReturn:
		walkJS(n.Arg, fn)
	case *jsExprStmt:
		walkJS(n.Expr, fn)
	}
}
