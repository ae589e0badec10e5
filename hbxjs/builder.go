package hbxjs

// The JS expression AST emitted by the lowerer.  Builders are pure
// constructors; serialization happens in one exhaustive match in
// serialize.go.  Template-level control flow lowers entirely to
// expressions; the only statements are variable declarations, returns and
// expression statements.

type jsNode interface {
	jsNode()
}

type jsExpr interface {
	jsNode
	jsExpr()
}

type jsStmt interface {
	jsNode
	jsStmt()
}

// jsLit is a literal spelled verbatim: numbers, booleans, null, undefined.
type jsLit struct {
	Text  string
	Range *SourceRange
}

// jsStr is a string literal.  Single selects '...' over the default
// JSON-escaped "..." form.
type jsStr struct {
	Value  string
	Single bool
	Range  *SourceRange
}

// jsIdent is a plain identifier.  MappingName feeds the source-map names
// table when set.
type jsIdent struct {
	Name        string
	MappingName string
	Range       *SourceRange
}

// jsRef is a runtime reference emitted verbatim: a runtime symbol, a path
// root such as this[$args], or a rewritten index cell like i.value.
type jsRef struct {
	Code        string
	MappingName string
	Range       *SourceRange
}

// jsMember is obj.prop, obj?.prop, obj["prop"] or obj?.["prop"].
type jsMember struct {
	Object    jsExpr
	Property  string
	Computed  bool
	Optional  bool
	PropRange *SourceRange
}

// jsCall is callee(args...).  Formatted places one argument per line.
type jsCall struct {
	Callee    jsExpr
	Args      []jsExpr
	Formatted bool
	Range     *SourceRange
}

// jsArrow is (params) => body.  Either Body or Stmts is set; with Stmts
// the arrow has a statement body.
type jsArrow struct {
	Params []string
	Body   jsExpr
	Stmts  []jsStmt
	Range  *SourceRange
}

// jsArray is [items...].  Formatted places one item per line.
type jsArray struct {
	Items     []jsExpr
	Formatted bool
	Range     *SourceRange
}

// jsObjectProp is one key: value pair of an object literal.
type jsObjectProp struct {
	Key      string
	Value    jsExpr
	KeyRange *SourceRange
}

// jsObject is {props...}.
type jsObject struct {
	Props     []jsObjectProp
	Formatted bool
	Range     *SourceRange
}

// jsSpread is ...arg.
type jsSpread struct {
	Arg jsExpr
}

// jsBinary is (l op r).
type jsBinary struct {
	Op   string
	L, R jsExpr
}

// jsCond is test ? cons : alt.
type jsCond struct {
	Test, Cons, Alt jsExpr
}

// jsRaw is verbatim code; it still participates in line/column tracking.
type jsRaw struct {
	Code  string
	Range *SourceRange
}

// jsReactiveGetter prints () => inner; it marks reactivity-driven wrapping
// so built-in dispatch can unwrap it without guessing.
type jsReactiveGetter struct {
	Inner jsExpr
	Range *SourceRange
}

// jsIIFE prints (() => { stmts })().
type jsIIFE struct {
	Stmts []jsStmt
}

type jsVarDecl struct {
	Kind string // let or const
	Name string
	Init jsExpr
}

type jsReturn struct {
	Arg jsExpr
}

type jsExprStmt struct {
	Expr jsExpr
}

func (*jsLit) jsNode()            {}
func (*jsStr) jsNode()            {}
func (*jsIdent) jsNode()          {}
func (*jsRef) jsNode()            {}
func (*jsMember) jsNode()         {}
func (*jsCall) jsNode()           {}
func (*jsArrow) jsNode()          {}
func (*jsArray) jsNode()          {}
func (*jsObject) jsNode()         {}
func (*jsSpread) jsNode()         {}
func (*jsBinary) jsNode()         {}
func (*jsCond) jsNode()           {}
func (*jsRaw) jsNode()            {}
func (*jsReactiveGetter) jsNode() {}
func (*jsIIFE) jsNode()           {}
func (*jsVarDecl) jsNode()        {}
func (*jsReturn) jsNode()         {}
func (*jsExprStmt) jsNode()       {}

func (*jsLit) jsExpr()            {}
func (*jsStr) jsExpr()            {}
func (*jsIdent) jsExpr()          {}
func (*jsRef) jsExpr()            {}
func (*jsMember) jsExpr()         {}
func (*jsCall) jsExpr()           {}
func (*jsArrow) jsExpr()          {}
func (*jsArray) jsExpr()          {}
func (*jsObject) jsExpr()         {}
func (*jsSpread) jsExpr()         {}
func (*jsBinary) jsExpr()         {}
func (*jsCond) jsExpr()           {}
func (*jsRaw) jsExpr()            {}
func (*jsReactiveGetter) jsExpr() {}
func (*jsIIFE) jsExpr()           {}

func (*jsVarDecl) jsStmt()  {}
func (*jsReturn) jsStmt()   {}
func (*jsExprStmt) jsStmt() {}

func bLit(text string) *jsLit                  { return &jsLit{Text: text} }
func bStr(v string) *jsStr                     { return &jsStr{Value: v} }
func bStrSingle(v string) *jsStr               { return &jsStr{Value: v, Single: true} }
func bIdent(name string) *jsIdent              { return &jsIdent{Name: name} }
func bRef(code string) *jsRef                  { return &jsRef{Code: code} }
func bRaw(code string) *jsRaw                  { return &jsRaw{Code: code} }
func bSpread(arg jsExpr) *jsSpread             { return &jsSpread{Arg: arg} }
func bBinary(op string, l, r jsExpr) *jsBinary { return &jsBinary{Op: op, L: l, R: r} }
func bCond(t, c, a jsExpr) *jsCond             { return &jsCond{Test: t, Cons: c, Alt: a} }

func bMember(obj jsExpr, prop string, optional bool) *jsMember {
	return &jsMember{Object: obj, Property: prop, Optional: optional}
}

func bComputed(obj jsExpr, prop string, optional bool) *jsMember {
	return &jsMember{Object: obj, Property: prop, Computed: true, Optional: optional}
}

func bCall(callee jsExpr, args ...jsExpr) *jsCall {
	return &jsCall{Callee: callee, Args: args}
}

// bMethod is the method-call builder: obj.name(args...).
func bMethod(obj jsExpr, name string, args ...jsExpr) *jsCall {
	return &jsCall{Callee: bMember(obj, name, false), Args: args}
}

func bArrow(params []string, body jsExpr) *jsArrow {
	return &jsArrow{Params: params, Body: body}
}

func bArrowStmts(params []string, stmts ...jsStmt) *jsArrow {
	return &jsArrow{Params: params, Stmts: stmts}
}

func bArray(items ...jsExpr) *jsArray { return &jsArray{Items: items} }

// bFormattedArray is an array whose items are placed one per line when
// formatting is on.
func bFormattedArray(items ...jsExpr) *jsArray {
	return &jsArray{Items: items, Formatted: true}
}

func bObject(props ...jsObjectProp) *jsObject { return &jsObject{Props: props} }

func bGetter(inner jsExpr) *jsReactiveGetter { return &jsReactiveGetter{Inner: inner} }

func bIIFE(stmts ...jsStmt) *jsIIFE { return &jsIIFE{Stmts: stmts} }

func bVar(kind, name string, init jsExpr) *jsVarDecl {
	return &jsVarDecl{Kind: kind, Name: name, Init: init}
}

func bReturn(arg jsExpr) *jsReturn   { return &jsReturn{Arg: arg} }
func bExprStmt(e jsExpr) *jsExprStmt { return &jsExprStmt{Expr: e} }

// withRange attaches a source range to a builder node, returning the node.
func withRange[T jsExpr](node T, r *SourceRange) T {
	if r == nil {
		return node
	}
	switch n := any(node).(type) {
	case *jsLit:
		n.Range = r
	case *jsStr:
		n.Range = r
	case *jsIdent:
		n.Range = r
	case *jsRef:
		n.Range = r
	case *jsCall:
		n.Range = r
	case *jsArrow:
		n.Range = r
	case *jsArray:
		n.Range = r
	case *jsObject:
		n.Range = r
	case *jsRaw:
		n.Range = r
	case *jsReactiveGetter:
		n.Range = r
	}
	return node
}
