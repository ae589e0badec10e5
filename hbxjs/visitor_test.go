package hbxjs

import (
	"strings"
	"testing"

	"github.com/hbxjs/hbx/ast"
)

func TestElementEventsEmission(t *testing.T) {
	runEmitTests(t, []emitTest{
		{
			name: "oncreated arg shapes the creation hook",
			tpl: tTpl(tElem("div",
				[]*ast.AttrNode{tAttr("@oncreated", tMustache("this.setup", tNum(1)))})),
			want: `$_tag('div', [[], [], [['oncreated', ($n) => this.setup($n, 1)]]], this)`,
		},
		{
			name: "oncreated with a bare handler",
			tpl: tTpl(tElem("div",
				[]*ast.AttrNode{tAttr("@oncreated", tMustache("this.setup"))})),
			want: `$_tag('div', [[], [], [['oncreated', ($n) => this.setup($n)]]], this)`,
		},
		{
			name: "textContent arg goes to the event channel",
			tpl: tTpl(tElem("div",
				[]*ast.AttrNode{tAttr("@textContent", tMustache("this.msg"))})),
			want: `$_tag('div', [[], [], [['textContent', () => this.msg]]], this)`,
		},
		{
			name: "custom modifier runs at creation",
			tpl: tTpl(&ast.ElementNode{
				Tag: "div",
				Modifiers: []*ast.ElementModifierStatement{{
					Path:   tPath("autofocus"),
					Params: []ast.Expr{tPath("this.x")},
				}},
			}),
			want: `$_tag('div', [[], [], [['oncreated', ($n) => autofocus($n, () => this.x)]]], this)`,
		},
		{
			name: "custom modifier routes through the modifier manager",
			tpl: tTpl(&ast.ElementNode{
				Tag: "div",
				Modifiers: []*ast.ElementModifierStatement{{
					Path:   tPath("autofocus"),
					Params: []ast.Expr{tPath("this.x")},
				}},
			}),
			opts: Options{Flags: &Flags{GlimmerCompat: true, WithModifierManager: true}},
			want: `$_tag('div', [[], [], [['oncreated', ($n) => $_maybeModifier("autofocus", $n, [() => this.x])]]], this)`,
		},
	})
}

func TestForeignObjectNamespaceSwitch(t *testing.T) {
	runEmitTests(t, []emitTest{
		{
			name: "foreignObject children return to the html namespace",
			tpl: tTpl(tElem("svg", nil,
				tElem("foreignObject", nil, tElem("div", nil)))),
			want: `$_dc(() => $_svgProvider, $_args({}, {default_: false, default: (ctx1) => [$_tag('svg', $_edp, ctx1, [$_tag('foreignObject', $_edp, ctx1, [$_dc(() => $_htmlProvider, $_args({}, {default_: false, default: (ctx2) => [$_tag('div', $_edp, ctx2)]}, [[], [], []]), ctx1)])])]}, [[], [], []]), this)`,
		},
	})
}

func TestEvalSupportScopePlumbing(t *testing.T) {
	tpl := tTpl(tBlock("each", []ast.Expr{tPath("this.xs")}, tHash(),
		tProgram([]string{"x"}, &ast.ElementNode{Tag: "Row", SelfClosing: true}), nil))
	res := compileResult(t, tpl, Options{Flags: &Flags{GlimmerCompat: true, WithEvalSupport: true}})
	if !strings.Contains(res.Code, "$_scope: () => [x]") {
		t.Errorf("scope hook missing: %s", res.Code)
	}
	if !strings.Contains(res.Code, "$_eval: ($v) => eval($v)") {
		t.Errorf("eval hook missing: %s", res.Code)
	}
}

func TestRenderDiagnostics(t *testing.T) {
	source := "{{#if}}{{/if}}"
	blk := &ast.BlockStatement{
		Loc:  srcLoc(1, 0, 1, 14),
		Path: tPath("if"),
	}
	res := compileResult(t, tTpl(blk), Options{Filename: "t.hbx"})
	if len(res.Errors) != 1 {
		t.Fatalf("want one error, got %v", res.Errors)
	}
	out := RenderDiagnostics(res, source, DiagnosticsOptions{})
	for _, want := range []string{"t.hbx:1:0: E001", "   1 | {{#if}}{{/if}}", "     | ^"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered diagnostics missing %q:\n%s", want, out)
		}
	}
}
