package hbxjs

import "testing"

func TestOptionalChain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a", "a"},
		{"this.a", "this.a"},
		{"a.b", "a.b"},
		{"a.b.c", "a?.b?.c"},
		{"this.a.b", "this.a?.b"},
		{"this.a.b.c", "this.a?.b?.c"},
		{"this[$args].x.y", "this[$args].x?.y"},
		{"a.list[0].b", "a?.list[0]?.b"},
		{`a["x y"].b.c`, `a["x y"].b.c`}, // quotes suppress chaining
		{"$_slot.a.b.c", "$_slot.a.b.c"}, // runtime symbols pass through
	}
	for _, test := range tests {
		if got := optionalChain(test.in); got != test.want {
			t.Errorf("optionalChain(%q) = %q, want %q", test.in, got, test.want)
		}
	}
}

func TestResolvePath(t *testing.T) {
	s := newState("", Options{})

	p := s.resolvePath(tPath("this.a.b.c"))
	if !p.This || p.Expression != "this.a?.b?.c" {
		t.Errorf("this path resolved to %+v", p)
	}

	p = s.resolvePath(tPath("@title"))
	if !p.IsArg || p.ArgName != "title" || p.Expression != "this[$args].title" {
		t.Errorf("arg path resolved to %+v", p)
	}

	p = s.resolvePath(tPath("@data-x"))
	if p.Expression != `this[$args]["data-x"]` {
		t.Errorf("unsafe arg name resolved to %q", p.Expression)
	}

	s.scope.addBinding(&binding{Kind: bindBlockParam, Name: "item"})
	p = s.resolvePath(tPath("item.name"))
	if !p.Known || p.Expression != "item.name" {
		t.Errorf("bound path resolved to %+v", p)
	}
	s.scope.removeBinding("item")

	p = s.resolvePath(tPath("mystery"))
	if p.Known || p.Expression != "mystery" {
		t.Errorf("unknown path resolved to %+v", p)
	}

	s.scope.addBinding(&binding{Kind: bindLet, Name: "v", EmitName: "Let_v_scope1", Thunk: true})
	p = s.resolvePath(tPath("v.x"))
	if p.Expression != "Let_v_scope1().x" {
		t.Errorf("let thunk resolved to %q", p.Expression)
	}
}

func TestRewriteThisToSelf(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"this.a + this.b", "self.a + self.b"},
		{`"this.a" + this.b`, `"this.a" + self.b`},
		{`'it\'s this.x' + this.y`, `'it\'s this.x' + self.y`},
		{"xthis.a", "xthis.a"},
		{"this[$args].x", "this[$args].x"},
		{"`tick this.q`", "`tick this.q`"},
	}
	for _, test := range tests {
		if got := rewriteThisToSelf(test.in); got != test.want {
			t.Errorf("rewriteThisToSelf(%q) = %q, want %q", test.in, got, test.want)
		}
	}
}

func TestIsIdentSafe(t *testing.T) {
	for name, want := range map[string]bool{
		"a": true, "_x": true, "$y": true, "a1": true,
		"1a": false, "a-b": false, "": false, "a b": false,
	} {
		if got := isIdentSafe(name); got != want {
			t.Errorf("isIdentSafe(%q) = %v, want %v", name, got, want)
		}
	}
}
