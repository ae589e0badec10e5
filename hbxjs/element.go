package hbxjs

// buildElement emits TAG('<tag>', <props>, ctx, <children>?).  <props> is
// the empty-props sentinel or [properties, attributes, events] with the
// forwarded-attributes local appended when the element carries a splat.
func (s *state) buildElement(e *Element) jsExpr {
	if e.Runtime != nil {
		s.internalf("runtime tag %q reached the element path", e.Runtime.Symbol)
	}
	ctx := s.ctxExpr()

	props := make([]jsExpr, 0, len(e.Properties))
	for _, p := range e.Properties {
		props = append(props, s.channelPair(p.Name, s.buildValue(p.Value, true), p.Range))
	}
	var attrs []jsExpr
	for _, a := range e.Attributes {
		v := s.buildValue(a.Value, true)
		if a.Name == "class" {
			// class merges through the empty-key property channel
			props = append(props, s.channelPair("", v, a.Range))
			continue
		}
		attrs = append(attrs, s.channelPair(a.Name, v, a.Range))
	}
	events := make([]jsExpr, 0, len(e.Events))
	for _, ev := range e.Events {
		events = append(events, s.channelPair(ev.Name, s.buildEventHandler(ev), ev.Range))
	}

	var propsExpr jsExpr
	if len(props) == 0 && len(attrs) == 0 && len(events) == 0 && !e.HasSplat {
		propsExpr = bRef(SymEmptyDOMProps)
	} else {
		items := []jsExpr{bArray(props...), bArray(attrs...), bArray(events...)}
		if e.HasSplat {
			items = append(items, bRef(SymLocalFW))
		}
		propsExpr = bArray(items...)
	}

	tag := bStrSingle(e.Tag)
	tag.Range = e.TagRange
	args := []jsExpr{tag, propsExpr, bRef(ctx)}
	if len(e.Children) > 0 {
		args = append(args, bFormattedArray(s.buildChildren(e.Children)...))
	}
	return &jsCall{Callee: bRef(SymTag), Args: args, Formatted: len(e.Children) > 0, Range: e.Range}
}

// channelPair renders one [key, value] entry of a props channel.
func (s *state) channelPair(key string, value jsExpr, r *SourceRange) jsExpr {
	k := bStrSingle(key)
	pair := bArray(k, value)
	pair.Range = r
	return pair
}

// buildEventHandler lowers one event-channel handler.  Creation hooks and
// on-handlers receive the node (and event) before the captured tail;
// custom modifiers optionally route through the modifier manager.
func (s *state) buildEventHandler(ev Event) jsExpr {
	h, ok := ev.Handler.(*Helper)
	if !ok {
		return s.buildValue(ev.Handler, true)
	}

	switch h.Name {
	case markerOnCreated:
		if len(h.Positional) == 0 {
			return bArrow([]string{"$n"}, bRef("$n"))
		}
		fn := s.buildValue(h.Positional[0], false)
		args := []jsExpr{bRef("$n")}
		for _, v := range h.Positional[1:] {
			args = append(args, s.buildValue(v, true))
		}
		return bArrow([]string{"$n"}, bCall(fn, args...))

	case markerOnHandler:
		if len(h.Positional) == 0 {
			return bArrow([]string{"$e", "$n"}, bRef("$n"))
		}
		fn := s.buildValue(h.Positional[0], false)
		args := []jsExpr{bRef("$e"), bRef("$n")}
		for _, v := range h.Positional[1:] {
			args = append(args, s.buildValue(v, true))
		}
		return bArrow([]string{"$e", "$n"}, bCall(fn, args...))

	case markerModifier:
		return s.buildModifier(h)
	}
	return s.buildValue(ev.Handler, true)
}

func (s *state) buildModifier(h *Helper) jsExpr {
	known := h.FnPath != nil && (h.FnPath.This || h.FnPath.IsArg || h.FnPath.Known)

	if s.flags.WithModifierManager {
		var ref jsExpr
		if known {
			ref = s.buildPath(h.FnPath, false)
		} else {
			ref = withRange(bStr(h.ModName), h.PathRange)
		}
		args := []jsExpr{ref, bRef("$n"), bArray(s.buildPositional(h, true)...)}
		if len(h.Named) > 0 {
			args = append(args, s.buildNamedObject(h.Named))
		}
		return bArrow([]string{"$n"}, bCall(bRef(SymMaybeModifier), args...))
	}

	var fn jsExpr
	if known {
		fn = s.buildPath(h.FnPath, false)
	} else {
		fn = &jsRef{Code: h.ModName, MappingName: h.ModName, Range: h.PathRange}
	}
	args := append([]jsExpr{bRef("$n")}, s.buildPositional(h, true)...)
	if len(h.Named) > 0 {
		args = append(args, s.buildNamedObject(h.Named))
	}
	return bArrow([]string{"$n"}, bCall(fn, args...))
}
