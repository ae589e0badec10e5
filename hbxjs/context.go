package hbxjs

import (
	"fmt"
	"strings"

	"github.com/hbxjs/hbx/ast"
	"github.com/hbxjs/hbx/errortypes"
)

// state is the per-compilation context.  One compilation owns one state;
// concurrent compilations are safe because nothing here is shared.
type state struct {
	opts  Options
	flags Flags
	src   string
	ix    *rangeIndex
	scope *scope

	errors   []*errortypes.Diagnostic
	warnings []*errortypes.Diagnostic

	ctxCount int
	letCount int

	seen      map[ast.Node]Value
	nsWrapped map[*ast.ElementNode]bool
	bindings  map[string]bool
	ctxStack  []string

	// plainPaths suspends the maybe-helper fallback and reactive wrapping
	// while building arguments that the runtime resolves itself.
	plainPaths bool

	node     ast.Node // current node, for diagnostics
	lastNode ast.Node
}

func newState(source string, opts Options) *state {
	flags := Flags{GlimmerCompat: true}
	if opts.Flags != nil {
		flags = *opts.Flags
	}
	s := &state{
		opts:     opts,
		flags:    flags,
		src:      source,
		ix:       newRangeIndex(source),
		scope:    &scope{lexical: opts.LexicalScope},
		seen:      map[ast.Node]Value{},
		nsWrapped: map[*ast.ElementNode]bool{},
		bindings:  map[string]bool{},
		ctxStack:  []string{"this"},
	}
	s.scope.push()
	for _, name := range opts.Bindings {
		s.scope.addBinding(&binding{Kind: bindHelper, Name: name})
		s.bindings[name] = true
	}
	return s
}

// at marks the state to be on node n, for diagnostics.
func (s *state) at(node ast.Node) {
	s.lastNode = s.node
	s.node = node
}

// internalf reports an internal-invariant violation and terminates
// processing.  The panic carries a positioned E100 error anchored at the
// current node; errRecover converts it back to an error at the API
// boundary.
func (s *state) internalf(format string, args ...interface{}) {
	line, col := 0, 0
	if s.node != nil {
		if r := s.ix.rangeOfNode(s.node); r != nil {
			line, col = s.ix.lineOf(r.Start)
		}
	}
	panic(errortypes.NewErrFilePosf("E100", s.opts.Filename, line, col, format, args...))
}

// internalError is the wrapper errRecover puts around an invariant
// violation.  Cause exposes the positioned diagnostic, so callers recover
// the template position with errortypes.ToErrFilePos.
type internalError struct {
	cause error
}

func (e *internalError) Error() string { return "internal compiler error: " + e.cause.Error() }
func (e *internalError) Cause() error  { return e.cause }

// errRecover is the handler that turns panics into returns from the top
// level of Compile.
func errRecover(errp *error) {
	switch e := recover().(type) {
	case nil:
	case error:
		if errortypes.IsErrFilePos(e) {
			*errp = &internalError{cause: e}
			return
		}
		*errp = e
	default:
		*errp = fmt.Errorf("%v", e)
	}
}

func (s *state) diag(code, format string, args ...interface{}) *errortypes.Diagnostic {
	d := &errortypes.Diagnostic{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Filename: s.opts.Filename,
	}
	if s.node != nil {
		if r := s.ix.rangeOfNode(s.node); r != nil {
			d.Start, d.End = r.Start, r.End
			d.SrcLine, d.SrcCol = s.ix.lineOf(r.Start)
			d.Snippet = s.ix.snippet(r.Start)
			d.Pointer = strings.Repeat(" ", d.SrcCol) + "^"
		}
	}
	return d
}

// errorf records a template-author error; compilation continues.
func (s *state) errorf(code, format string, args ...interface{}) {
	s.errors = append(s.errors, s.diag(code, format, args...))
}

// warnf records a warning.
func (s *state) warnf(code, format string, args ...interface{}) {
	s.warnings = append(s.warnings, s.diag(code, format, args...))
}

// nextCtx allocates the next ctxN identifier.
func (s *state) nextCtx() string {
	s.ctxCount++
	return fmt.Sprintf("ctx%d", s.ctxCount)
}

// ctxExpr is the innermost context expression: this at the root, ctxN
// inside control-flow wrappers.
func (s *state) ctxExpr() string {
	return s.ctxStack[len(s.ctxStack)-1]
}

// withCtx runs fn with name as the innermost context, restoring the stack
// on every exit path.
func (s *state) withCtx(name string, fn func()) {
	s.ctxStack = append(s.ctxStack, name)
	defer func() { s.ctxStack = s.ctxStack[:len(s.ctxStack)-1] }()
	fn()
}

// addBlockParam binds a block-param name, warning on reserved names.
func (s *state) addBlockParam(name string, r *SourceRange) {
	if strings.HasPrefix(name, "$") || name == "this" || name == "self" {
		s.warnf("W002", "%q is a reserved binding name", name)
	}
	s.scope.addBinding(&binding{Kind: bindBlockParam, Name: name, Range: r})
	s.bindings[name] = true
}
