package hbxjs

import (
	"strings"
	"testing"

	"github.com/hbxjs/hbx/ast"
)

// Test trees are built by hand, the way the front end would produce them.
// Locations are zero unless a test cares about mapping.

func tText(s string) *ast.TextNode { return &ast.TextNode{Chars: s} }

func tPath(orig string) *ast.PathExpression {
	p := &ast.PathExpression{Original: orig}
	rest := orig
	switch {
	case orig == "this":
		p.This = true
		return p
	case strings.HasPrefix(orig, "this."):
		p.This = true
		rest = strings.TrimPrefix(orig, "this.")
	case strings.HasPrefix(orig, "@"):
		p.Data = true
		rest = strings.TrimPrefix(orig, "@")
	}
	for _, seg := range strings.Split(rest, ".") {
		p.Parts = append(p.Parts, ast.PathPart{Name: seg})
	}
	return p
}

func tStr(v string) *ast.StringLiteral  { return &ast.StringLiteral{Value: v} }
func tNum(v float64) *ast.NumberLiteral { return &ast.NumberLiteral{Value: v} }
func tBool(v bool) *ast.BooleanLiteral  { return &ast.BooleanLiteral{Value: v} }

func tPair(key string, v ast.Expr) *ast.HashPair { return &ast.HashPair{Key: key, Value: v} }

func tHash(pairs ...*ast.HashPair) ast.Hash { return ast.Hash{Pairs: pairs} }

func tMustache(path string, params ...ast.Expr) *ast.MustacheStatement {
	return &ast.MustacheStatement{Path: tPath(path), Params: params}
}

func tMustacheHash(path string, hash ast.Hash, params ...ast.Expr) *ast.MustacheStatement {
	return &ast.MustacheStatement{Path: tPath(path), Params: params, Hash: hash}
}

func tSub(path string, params ...ast.Expr) *ast.SubExpression {
	return &ast.SubExpression{Path: tPath(path), Params: params}
}

func tSubHash(path string, hash ast.Hash, params ...ast.Expr) *ast.SubExpression {
	return &ast.SubExpression{Path: tPath(path), Params: params, Hash: hash}
}

func tProgram(params []string, body ...ast.Node) *ast.Block {
	return &ast.Block{Body: body, BlockParams: params}
}

func tBlock(name string, params []ast.Expr, hash ast.Hash, program, inverse *ast.Block) *ast.BlockStatement {
	return &ast.BlockStatement{
		Path:    tPath(name),
		Params:  params,
		Hash:    hash,
		Program: program,
		Inverse: inverse,
	}
}

func tAttr(name string, value ast.Node) *ast.AttrNode { return &ast.AttrNode{Name: name, Value: value} }

func tElem(tag string, attrs []*ast.AttrNode, children ...ast.Node) *ast.ElementNode {
	return &ast.ElementNode{Tag: tag, Attributes: attrs, Children: children}
}

func tTpl(nodes ...ast.Node) *ast.Template { return &ast.Template{Body: nodes} }

// compileBody compiles a template and strips the arrow shell, returning
// the joined roots for compact expectations.
func compileBody(t *testing.T, tpl *ast.Template, opts Options) string {
	t.Helper()
	res, err := Compile(tpl, "", opts)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	for _, d := range res.Errors {
		t.Fatalf("unexpected compile error: %v", d)
	}
	code := res.Code
	const pre = "() => { return ["
	const post = "]; }"
	if !strings.HasPrefix(code, pre) || !strings.HasSuffix(code, post) {
		t.Fatalf("unexpected shell: %q", code)
	}
	return code[len(pre) : len(code)-len(post)]
}

func compileResult(t *testing.T, tpl *ast.Template, opts Options) *CompileResult {
	t.Helper()
	res, err := Compile(tpl, "", opts)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return res
}
