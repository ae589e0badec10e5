package hbxjs

import "strings"

// buildComponent emits COMPONENT(tag, ARGS(args, slots, props), ctx), or
// the dynamic variant when the tag is resolved at runtime (a dotted path
// or a RuntimeTag provider).
func (s *state) buildComponent(e *Element) jsExpr {
	ctx := s.ctxExpr()

	dynamic := strings.Contains(e.Tag, ".")
	var tagExpr jsExpr
	switch {
	case e.Runtime != nil:
		if e.Runtime.Symbol == "" {
			s.internalf("empty runtime tag symbol")
		}
		dynamic = true
		tagExpr = bRef(e.Runtime.Symbol)
	case strings.HasPrefix(e.Tag, "@"):
		name := strings.TrimPrefix(e.Tag, "@")
		head, tail, _ := strings.Cut(name, ".")
		code := ArgsAlias + accessor(head)
		for tail != "" {
			var seg string
			seg, tail, _ = strings.Cut(tail, ".")
			code += accessor(seg)
		}
		dynamic = true
		tagExpr = &jsRef{Code: code, MappingName: head, Range: e.TagRange}
	default:
		tagExpr = &jsIdent{Name: e.Tag, MappingName: e.Tag, Range: e.TagRange}
	}

	argsExpr := bCall(bRef(SymArgs), s.componentArgs(e), s.componentSlots(e), s.componentProps(e))

	sym := SymComponent
	if dynamic {
		tagExpr = bArrow(nil, tagExpr)
		sym = SymDynamicComponent
	}
	return &jsCall{
		Callee:    bRef(sym),
		Args:      []jsExpr{tagExpr, argsExpr, bRef(ctx)},
		Formatted: true,
		Range:     e.Range,
	}
}

// componentArgs packs the @-arguments, plus the scope and eval hooks when
// eval support is on.
func (s *state) componentArgs(e *Element) jsExpr {
	var props []jsObjectProp
	for _, a := range e.Attributes {
		if !strings.HasPrefix(a.Name, "@") {
			continue
		}
		props = append(props, jsObjectProp{
			Key:      strings.TrimPrefix(a.Name, "@"),
			KeyRange: a.NameRange,
			Value:    s.buildValue(a.Value, false),
		})
	}
	if s.flags.WithEvalSupport {
		names := make([]jsExpr, 0, len(e.ScopeNames))
		for _, n := range e.ScopeNames {
			names = append(names, bRef(n))
		}
		props = append(props,
			jsObjectProp{Key: SymScopeKey, Value: bArrow(nil, bArray(names...))},
			jsObjectProp{Key: SymEvalKey, Value: bRaw("($v) => eval($v)")},
		)
	}
	return bObject(props...)
}

// componentSlots partitions the children into named slots (child elements
// whose tag starts with a colon) and the default slot, and emits the flag
// and factory pair for each.
func (s *state) componentSlots(e *Element) jsExpr {
	type slot struct {
		name     string
		params   []string
		children []Child
	}
	def := slot{name: "default", params: e.BlockParams}
	var named []slot
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok && strings.HasPrefix(el.Tag, ":") {
			named = append(named, slot{
				name:     strings.TrimPrefix(el.Tag, ":"),
				params:   el.BlockParams,
				children: el.Children,
			})
			continue
		}
		def.children = append(def.children, c)
	}

	var props []jsObjectProp
	for _, sl := range append([]slot{def}, named...) {
		flag := "false"
		if len(sl.params) > 0 {
			flag = "true"
		}
		props = append(props, jsObjectProp{Key: sl.name + "_", Value: bLit(flag)})

		slotCtx := s.nextCtx()
		var body []jsExpr
		s.withCtx(slotCtx, func() {
			body = s.buildChildren(sl.children)
		})
		props = append(props, jsObjectProp{
			Key:   sl.name,
			Value: bArrow(append([]string{slotCtx}, sl.params...), bFormattedArray(body...)),
		})
	}
	return bObject(props...)
}

// componentProps builds the forwarded-props triple.  A splat spreads the
// outer forwarding triple into each channel.
func (s *state) componentProps(e *Element) jsExpr {
	props := make([]jsExpr, 0, len(e.Properties))
	for _, p := range e.Properties {
		props = append(props, s.channelPair(p.Name, s.buildValue(p.Value, true), p.Range))
	}
	var attrs []jsExpr
	for _, a := range e.Attributes {
		if strings.HasPrefix(a.Name, "@") {
			continue
		}
		v := s.buildValue(a.Value, true)
		if a.Name == "class" {
			props = append(props, s.channelPair("", v, a.Range))
			continue
		}
		attrs = append(attrs, s.channelPair(a.Name, v, a.Range))
	}
	events := make([]jsExpr, 0, len(e.Events))
	for _, ev := range e.Events {
		events = append(events, s.channelPair(ev.Name, s.buildEventHandler(ev), ev.Range))
	}

	if e.HasSplat {
		props = append(props, bSpread(bComputed(bRef(SymLocalFW), "0", false)))
		attrs = append(attrs, bSpread(bComputed(bRef(SymLocalFW), "1", false)))
		events = append(events, bSpread(bComputed(bRef(SymLocalFW), "2", false)))
	}
	return bArray(bArray(props...), bArray(attrs...), bArray(events...))
}
