package hbxjs

import (
	"strings"
	"testing"

	"github.com/andreyvit/diff"

	"github.com/hbxjs/hbx/ast"
	"github.com/hbxjs/hbx/errortypes"
)

type emitTest struct {
	name string
	tpl  *ast.Template
	opts Options
	want string // expected roots, without the arrow shell
}

func runEmitTests(t *testing.T, tests []emitTest) {
	t.Helper()
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := compileBody(t, test.tpl, test.opts)
			if got != test.want {
				t.Errorf("emission mismatch:\n%s", diff.LineDiff(test.want, got))
			}
		})
	}
}

func TestElementEmission(t *testing.T) {
	runEmitTests(t, []emitTest{
		{
			name: "empty template",
			tpl:  tTpl(),
			want: "",
		},
		{
			name: "plain div",
			tpl:  tTpl(tElem("div", nil)),
			want: "$_tag('div', $_edp, this)",
		},
		{
			name: "class attribute merges through the empty-key property",
			tpl: tTpl(tElem("div",
				[]*ast.AttrNode{tAttr("class", tMustache("this.x"))},
				tText("Hi"))),
			want: `$_tag('div', [[['', () => this.x]], [], [['textContent', "Hi"]]], this)`,
		},
		{
			name: "static attribute stays in the attribute channel",
			tpl: tTpl(tElem("a",
				[]*ast.AttrNode{tAttr("href", tText("/x"))})),
			want: `$_tag('a', [[], [['href', "/x"]], []], this)`,
		},
		{
			name: "property channel with name remap",
			tpl: tTpl(tElem("label",
				[]*ast.AttrNode{tAttr("for", tText("field"))})),
			want: `$_tag('label', [[['htmlFor', "field"]], [], []], this)`,
		},
		{
			name: "boolean attribute with no value becomes a true property",
			tpl: tTpl(tElem("input",
				[]*ast.AttrNode{tAttr("disabled", nil)})),
			want: `$_tag('input', [[['disabled', true]], [], []], this)`,
		},
		{
			name: "interpolated class builds a joined getter",
			tpl: tTpl(tElem("a",
				[]*ast.AttrNode{tAttr("class", &ast.ConcatStatement{Parts: []ast.Node{
					tText("b "), tMustache("this.c"),
				}})})),
			want: `$_tag('a', [[['', () => ["b ", this.c].join('')]], [], []], this)`,
		},
		{
			name: "style dot attribute becomes a creation hook",
			tpl: tTpl(tElem("p",
				[]*ast.AttrNode{tAttr("style.color", tMustache("this.c"))})),
			want: `$_tag('p', [[], [], [['oncreated', ($n) => $_style($n, "color", () => this.c)]]], this)`,
		},
		{
			name: "inline if helper in attribute position",
			tpl: tTpl(tElem("div",
				[]*ast.AttrNode{tAttr("title", tMustache("if", tPath("this.a"), tStr("x"), tStr("y")))})),
			want: `$_tag('div', [[], [['title', () => $_ifHelper(() => this.a, "x", "y")]], []], this)`,
		},
		{
			name: "on modifier and text child share the event channel",
			tpl: tTpl(&ast.ElementNode{
				Tag: "button",
				Modifiers: []*ast.ElementModifierStatement{{
					Path:   tPath("on"),
					Params: []ast.Expr{tStr("click"), tPath("this.save")},
				}},
				Children: []ast.Node{tText("Go")},
			}),
			want: `$_tag('button', [[], [], [['click', ($e, $n) => this.save($e, $n)], ['textContent', "Go"]]], this)`,
		},
		{
			name: "splat forwards through the props tail",
			tpl: tTpl(tElem("div",
				[]*ast.AttrNode{tAttr("...attributes", nil), tAttr("id", tText("x"))})),
			want: `$_tag('div', [[], [['id', "x"]], [], $fw], this)`,
		},
	})
}

func TestControlFlowEmission(t *testing.T) {
	runEmitTests(t, []emitTest{
		{
			name: "if with else",
			tpl: tTpl(tBlock("if", []ast.Expr{tPath("this.a")}, tHash(),
				tProgram(nil, tText("A")), tProgram(nil, tText("B")))),
			want: `$_if(this.a, (ctx1) => $_ucw((ctx2) => ["A"], ctx1), (ctx1) => $_ucw((ctx2) => ["B"], ctx1), this)`,
		},
		{
			name: "if without else gets an empty branch",
			tpl: tTpl(tBlock("if", []ast.Expr{tPath("this.a")}, tHash(),
				tProgram(nil, tText("A")), nil)),
			want: `$_if(this.a, (ctx1) => $_ucw((ctx2) => ["A"], ctx1), (ctx1) => [], this)`,
		},
		{
			name: "unless swaps branches with a synthetic empty then",
			tpl: tTpl(tBlock("unless", []ast.Expr{tPath("this.a")}, tHash(),
				tProgram(nil, tText("A")), nil)),
			want: `$_if(this.a, (ctx1) => $_ucw((ctx2) => [""], ctx1), (ctx1) => $_ucw((ctx2) => ["A"], ctx1), this)`,
		},
		{
			name: "each with key and index rewriting",
			tpl: tTpl(tBlock("each", []ast.Expr{tPath("this.items")},
				tHash(tPair("key", tStr("id"))),
				tProgram([]string{"it", "i"},
					tElem("li", nil, tMustache("it.name"), tText(" "), tMustache("i"))), nil)),
			want: `$_each(this.items, (it, i, ctx1) => $_ucw((ctx2) => [$_tag('li', $_edp, ctx2, [it.name, " ", i.value])], ctx1), "id", this)`,
		},
		{
			name: "stable single child inlines the body",
			tpl: tTpl(tBlock("each", []ast.Expr{tPath("this.xs")}, tHash(),
				tProgram([]string{"x"}, tElem("li", nil, tMustache("x"))), nil)),
			want: `$_each(this.xs, (x, $index, ctx1) => [$_tag('li', [[], [], [['textContent', () => x]]], ctx1)], null, this)`,
		},
		{
			name: "sync each",
			tpl: tTpl(tBlock("each", []ast.Expr{tPath("this.xs")},
				tHash(tPair("sync", tBool(true))),
				tProgram([]string{"x"}, tElem("li", nil, tMustache("x"))), nil)),
			want: `$_eachSync(this.xs, (x, $index, ctx1) => [$_tag('li', [[], [], [['textContent', () => x]]], ctx1)], null, this)`,
		},
		{
			name: "in-element",
			tpl: tTpl(tBlock("in-element", []ast.Expr{tPath("this.target")}, tHash(),
				tProgram(nil, tElem("p", nil)), nil)),
			want: `$_inElement(this.target, (ctx1) => [$_tag('p', $_edp, ctx1)], this)`,
		},
		{
			name: "yield with a named slot",
			tpl: tTpl(tMustacheHash("yield",
				tHash(tPair("to", tStr("header"))), tPath("this.x"))),
			want: `$_slot('header', () => [this.x], $slots, this)`,
		},
		{
			name: "outlet is the default slot",
			tpl:  tTpl(tMustache("outlet")),
			want: `$_slot('default', () => [], $slots, this)`,
		},
		{
			name: "generic block flows through by name",
			tpl: tTpl(tBlock("animate", []ast.Expr{tPath("this.el")}, tHash(),
				tProgram([]string{"v"}, tMustache("v")), nil)),
			want: `animate(this.el, (v, ctx1) => [v], this)`,
		},
		{
			name: "let block emits a rewritten iife",
			tpl: tTpl(tBlock("let", []ast.Expr{tPath("this.name")}, tHash(),
				tProgram([]string{"n"}, tMustache("n")), nil)),
			want: `...(() => { let self = this; let Let_n_scope1 = () => self.name; return [Let_n_scope1()]; })()`,
		},
		{
			name: "let block keeps primitive values direct",
			tpl: tTpl(tBlock("let", []ast.Expr{tStr("hi")}, tHash(),
				tProgram([]string{"n"}, tMustache("n")), nil)),
			want: `...(() => { let self = this; let Let_n_scope1 = "hi"; return [Let_n_scope1]; })()`,
		},
	})
}

func TestHelperEmission(t *testing.T) {
	runEmitTests(t, []emitTest{
		{
			name: "unknown helper resolves through the maybe helper",
			tpl:  tTpl(tMustacheHash("unknown", tHash(tPair("foo", tNum(1))), tPath("a"), tPath("b"))),
			want: `$_maybeHelper("unknown", [a, b], {foo: 1})`,
		},
		{
			name: "unknown helper appends the context with eval support",
			tpl:  tTpl(tMustache("unknown", tPath("a"))),
			opts: Options{Flags: &Flags{GlimmerCompat: true, WithEvalSupport: true}},
			want: `$_maybeHelper("unknown", [a], {}, this)`,
		},
		{
			name: "local binding shadows a built-in",
			tpl:  tTpl(tMustache("or", tPath("this.a"), tPath("this.b"))),
			opts: Options{Bindings: []string{"or"}},
			want: `or(this.a, this.b)`,
		},
		{
			name: "known helper routes through the helper manager",
			tpl:  tTpl(tMustache("fmt", tPath("this.x"))),
			opts: Options{
				Flags:    &Flags{GlimmerCompat: true, WithHelperManager: true},
				Bindings: []string{"fmt"},
			},
			want: `$_maybeHelper(fmt, [() => this.x])`,
		},
		{
			name: "member helper calls through this",
			tpl:  tTpl(tMustache("this.format", tStr("x"))),
			want: `this.format("x")`,
		},
		{
			name: "argument helper calls through the args property",
			tpl:  tTpl(tMustache("@format", tStr("x"))),
			want: `this[$args].format("x")`,
		},
		{
			name: "hash defers each value",
			tpl:  tTpl(tMustache("fmt", tSubHash("hash", tHash(tPair("a", tPath("this.b")))))),
			opts: Options{Bindings: []string{"fmt"}},
			want: `fmt($_hash({a: () => this.b}))`,
		},
		{
			name: "fn keeps its function reference bare",
			tpl:  tTpl(tMustache("fn", tPath("this.save"), tPath("this.id"))),
			want: `$_fn(this.save, () => this.id)`,
		},
		{
			name: "has-block binds slots without arguments",
			tpl:  tTpl(tMustache("has-block")),
			want: `$_hasBlock.bind(this, $slots)`,
		},
		{
			name: "has-block-params invokes the bound form with arguments",
			tpl:  tTpl(tMustache("has-block-params", tStr("x"))),
			want: `$_hasBlockParams.bind(this, $slots)("x")`,
		},
		{
			name: "debugger calls with the context",
			tpl:  tTpl(tMustache("debugger")),
			want: `$_debugger.call(this)`,
		},
		{
			name: "inline unless becomes a swapped if",
			tpl:  tTpl(tElem("div", []*ast.AttrNode{tAttr("title", tMustache("unless", tPath("this.a"), tStr("x")))})),
			want: `$_tag('div', [[], [['title', () => $_ifHelper(() => this.a, "", "x")]], []], this)`,
		},
		{
			name: "keyword helper packs positional and named",
			tpl:  tTpl(tMustacheHash("component", tHash(tPair("x", tNum(1))), tStr("my-box"))),
			want: `$_componentHelper(["my-box"], {x: 1})`,
		},
		{
			name: "element helper emits the dynamic element wrapper",
			tpl:  tTpl(tMustache("element", tStr("div"))),
			want: `function() { $_GET_ARGS(this, arguments); const $fw = $_GET_FW(this, arguments); const $slots = $_GET_SLOTS(this, arguments); return $_FIN([$_tag("div", [[], [], [], $fw], this, [$_slot('default', () => [], $slots, this)])], this); }`,
		},
	})
}

func TestPathEmission(t *testing.T) {
	runEmitTests(t, []emitTest{
		{
			name: "short this path stays unchained",
			tpl:  tTpl(tMustache("this.a")),
			want: `this.a`,
		},
		{
			name: "long this path chains after the first hop",
			tpl:  tTpl(tMustache("this.a.b.c")),
			want: `this.a?.b?.c`,
		},
		{
			name: "argument root is never optional",
			tpl:  tTpl(tMustache("@title")),
			want: `this[$args].title`,
		},
		{
			name: "argument tail chains from the second segment",
			tpl:  tTpl(tMustache("@title.x.y")),
			want: `this[$args].title?.x?.y`,
		},
		{
			name: "numeric segments use computed members",
			tpl:  tTpl(tMustache("this.list.0.name")),
			want: `this.list?.[0]?.name`,
		},
		{
			name: "unknown bare path falls back to the maybe helper",
			tpl:  tTpl(tElem("div", []*ast.AttrNode{tAttr("title", tMustache("missing", tPath("a")))})),
			want: `$_tag('div', [[], [['title', () => $_maybeHelper("missing", [a])]], []], this)`,
		},
	})
}

func TestComponentEmission(t *testing.T) {
	runEmitTests(t, []emitTest{
		{
			name: "component with arg and splat",
			tpl: tTpl(&ast.ElementNode{
				Tag:         "Comp",
				SelfClosing: true,
				Attributes: []*ast.AttrNode{
					tAttr("@x", tMustache("this.y")),
					tAttr("...attributes", nil),
				},
			}),
			want: `$_c(Comp, $_args({x: this.y}, {default_: false, default: (ctx1) => []}, [[...$fw[0]], [...$fw[1]], [...$fw[2]]]), this)`,
		},
		{
			name: "named slot with block params",
			tpl: tTpl(tElem("Panel", nil,
				&ast.ElementNode{Tag: ":header", BlockParams: []string{"t"}, Children: []ast.Node{tMustache("t")}},
				tText("body"))),
			want: `$_c(Panel, $_args({}, {default_: false, default: (ctx1) => ["body"], header_: true, header: (ctx2, t) => [t]}, [[], [], []]), this)`,
		},
		{
			name: "dotted tag goes dynamic",
			tpl:  tTpl(&ast.ElementNode{Tag: "this.comp", SelfClosing: true}),
			want: `$_dc(() => this.comp, $_args({}, {default_: false, default: (ctx1) => []}, [[], [], []]), this)`,
		},
		{
			name: "argument tag goes dynamic through the args property",
			tpl:  tTpl(&ast.ElementNode{Tag: "@widget", SelfClosing: true}),
			want: `$_dc(() => this[$args].widget, $_args({}, {default_: false, default: (ctx1) => []}, [[], [], []]), this)`,
		},
		{
			name: "svg wraps in the namespace provider",
			tpl:  tTpl(tElem("svg", []*ast.AttrNode{tAttr("class", tText("icon"))})),
			want: `$_dc(() => $_svgProvider, $_args({}, {default_: false, default: (ctx1) => [$_tag('svg', [[['', "icon"]], [], []], ctx1)]}, [[], [], []]), this)`,
		},
		{
			name: "customize component name",
			tpl:  tTpl(&ast.ElementNode{Tag: "MyBox", SelfClosing: true}),
			opts: Options{CustomizeComponentName: func(name string) string {
				return "Renamed" + name
			}},
			want: `$_c(RenamedMyBox, $_args({}, {default_: false, default: (ctx1) => []}, [[], [], []]), this)`,
		},
	})
}

func TestTextFiltering(t *testing.T) {
	runEmitTests(t, []emitTest{
		{
			name: "whitespace spanning a newline is dropped",
			tpl:  tTpl(tText("\n  "), tElem("div", nil), tText("  \n")),
			want: `$_tag('div', $_edp, this)`,
		},
		{
			name: "single space survives",
			tpl:  tTpl(tMustache("this.a"), tText(" "), tMustache("this.b")),
			want: `this.a, " ", this.b`,
		},
		{
			name: "entities decode",
			tpl:  tTpl(tElem("p", nil, tText("a&amp;b&#33;"))),
			want: `$_tag('p', [[], [], [['textContent', "a&b!"]]], this)`,
		},
	})
}

func TestCompileDiagnostics(t *testing.T) {
	t.Run("block without arguments is an error", func(t *testing.T) {
		res := compileResult(t, tTpl(tBlock("if", nil, tHash(), tProgram(nil), nil)), Options{})
		if len(res.Errors) != 1 || res.Errors[0].Code != "E001" {
			t.Fatalf("want one E001, got %v", res.Errors)
		}
	})

	t.Run("at-index key downgrades with a warning", func(t *testing.T) {
		tpl := tTpl(tBlock("each", []ast.Expr{tPath("this.xs")},
			tHash(tPair("key", tStr("@index"))),
			tProgram([]string{"x"}, tElem("li", nil, tMustache("x"))), nil))
		res := compileResult(t, tpl, Options{})
		if len(res.Warnings) != 1 || res.Warnings[0].Code != "W003" {
			t.Fatalf("want one W003, got %v", res.Warnings)
		}
		if !strings.Contains(res.Code, `"@identity"`) {
			t.Errorf("key not downgraded: %s", res.Code)
		}
	})

	t.Run("reserved block param warns", func(t *testing.T) {
		tpl := tTpl(tBlock("each", []ast.Expr{tPath("this.xs")}, tHash(),
			tProgram([]string{"$x"}, tMustache("$x")), nil))
		res := compileResult(t, tpl, Options{})
		if len(res.Warnings) != 1 || res.Warnings[0].Code != "W002" {
			t.Fatalf("want one W002, got %v", res.Warnings)
		}
	})
}

// Internal-invariant violations surface as the error return of Compile,
// not as diagnostic-bag entries; the position travels with them.
func TestInternalInvariantErrorsArePositioned(t *testing.T) {
	s := newState("", Options{Filename: "t.hbx"})
	var err error
	func() {
		defer errRecover(&err)
		s.buildElement(&Element{Runtime: &RuntimeTag{Symbol: SymSVGProvider}})
	}()
	if err == nil {
		t.Fatal("expected an internal error")
	}
	if !strings.Contains(err.Error(), "internal compiler error") {
		t.Errorf("unexpected message: %v", err)
	}
	fp := errortypes.ToErrFilePos(err)
	if fp == nil {
		t.Fatalf("error carries no position: %v", err)
	}
	if fp.File() != "t.hbx" {
		t.Errorf("file = %q, want t.hbx", fp.File())
	}
	if d, ok := fp.(*errortypes.Diagnostic); !ok || d.Code != "E100" {
		t.Errorf("unexpected diagnostic: %v", fp)
	}
}

func TestCompileBindings(t *testing.T) {
	tpl := tTpl(tBlock("each", []ast.Expr{tPath("this.xs")}, tHash(),
		tProgram([]string{"x"}, tMustache("x")), nil))
	res := compileResult(t, tpl, Options{Bindings: []string{"or"}})
	for _, want := range []string{"or", "x"} {
		if !res.Bindings[want] {
			t.Errorf("missing binding %q in %v", want, res.Bindings)
		}
	}
}

func TestLexicalScopeCallback(t *testing.T) {
	tpl := tTpl(tMustache("translate", tStr("hello")))
	res := compileResult(t, tpl, Options{
		LexicalScope: func(name string) bool { return name == "translate" },
	})
	want := `() => { return [translate("hello")]; }`
	if res.Code != want {
		t.Errorf("emission mismatch:\n%s", diff.LineDiff(want, res.Code))
	}
}

func TestCompatModeOff(t *testing.T) {
	tpl := tTpl(tElem("div", []*ast.AttrNode{tAttr("class", tMustache("this.x"))}))
	res := compileResult(t, tpl, Options{Flags: &Flags{}})
	want := `() => { return [$_tag('div', [[['', this.x]], [], []], this)]; }`
	if res.Code != want {
		t.Errorf("emission mismatch:\n%s", diff.LineDiff(want, res.Code))
	}
}
