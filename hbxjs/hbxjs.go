// Package hbxjs compiles parsed hbx templates into javascript that builds
// and updates a DOM tree through a small runtime with fine-grained
// reactivity.  The generated code requires the runtime library to already
// have been loaded; the symbol table in symbols.go fixes the contract.
package hbxjs

import (
	"io"
	"strings"

	"github.com/hbxjs/hbx/ast"
	"github.com/hbxjs/hbx/errortypes"
)

// Flags select compilation modes.
type Flags struct {
	// GlimmerCompat enables reactive-getter wrapping of paths and the
	// maybe-helper fallback for unknown names.
	GlimmerCompat bool
	// WithHelperManager routes known helper calls through the runtime
	// helper manager.
	WithHelperManager bool
	// WithModifierManager routes modifier calls through the runtime
	// modifier manager.
	WithModifierManager bool
	// WithEvalSupport threads the current context into maybe-helper calls
	// and exposes template scope to debugger eval.
	WithEvalSupport bool
}

// FormatOptions configure the serializer.
type FormatOptions struct {
	Enabled    bool
	Indent     string // default two spaces
	BaseIndent int
	Newline    string // default \n
	EmitPure   bool   // annotate pure runtime calls with /*#__PURE__*/
}

// SourceMapOptions configure V3 source-map emission.
type SourceMapOptions struct {
	Enabled        bool
	Inline         bool // append a sourceMappingURL data-URL footer
	IncludeContent bool
	SourceRoot     string
}

// DiagnosticsOptions configure error rendering.
type DiagnosticsOptions struct {
	ContextLines int
	BaseOffset   int
}

// Options for javascript generation.  The zero value is usable; nil Flags
// default to glimmer-compat mode.
type Options struct {
	Flags       *Flags
	Bindings    []string // pre-populated known-binding set
	Filename    string
	Format      FormatOptions
	SourceMap   SourceMapOptions
	Diagnostics DiagnosticsOptions

	// CustomizeComponentName renames PascalCase, namespaced and @-prefixed
	// tags before emission.  It must not change tag-name lengths relied on
	// by source maps; tag ranges are computed from the original spelling.
	CustomizeComponentName func(name string) string

	// LexicalScope decides knownness for names not bound in template
	// scope.
	LexicalScope func(name string) bool
}

// CompileResult is the only artifact that outlives a compilation.
type CompileResult struct {
	Code        string
	MappingTree *MappingNode
	Errors      []*errortypes.Diagnostic
	Warnings    []*errortypes.Diagnostic
	Bindings    map[string]bool
	SourceMap   *SourceMap
}

// Compile translates one parsed template into javascript.  Template-author
// mistakes are reported in CompileResult.Errors; a non-nil error is
// returned only for internal-invariant violations.
func Compile(tpl *ast.Template, source string, opts Options) (res *CompileResult, err error) {
	defer errRecover(&err)

	s := newState(source, opts)
	children := s.visitBody(tpl.Body)
	roots := s.buildChildren(children)

	if got := s.scope.depth(); got != 1 {
		s.internalf("scope imbalance after traversal: %d frames", got)
	}

	em := newEmitter(emitOptions{
		enabled:    opts.Format.Enabled,
		indent:     opts.Format.Indent,
		baseIndent: opts.Format.BaseIndent,
		newline:    opts.Format.Newline,
		emitPure:   opts.Format.EmitPure,
	}, s.ix)
	em.expr(bArrowStmts(nil, bReturn(bFormattedArray(roots...))))

	res = &CompileResult{
		Code:        em.b.String(),
		MappingTree: em.mappingRoot(),
		Errors:      s.errors,
		Warnings:    s.warnings,
		Bindings:    s.bindings,
	}

	if opts.SourceMap.Enabled {
		m := &SourceMap{
			Version:    3,
			File:       opts.Filename,
			SourceRoot: opts.SourceMap.SourceRoot,
			Sources:    []string{sourceName(opts.Filename)},
			Names:      em.names,
			Mappings:   encodeMappings(em.segs, s.ix),
		}
		if m.Names == nil {
			m.Names = []string{}
		}
		if opts.SourceMap.IncludeContent {
			m.SourcesContent = []string{source}
		}
		res.SourceMap = m
		if opts.SourceMap.Inline {
			res.Code += "\n//# sourceMappingURL=" + m.InlineURL()
		}
	}
	return res, nil
}

func sourceName(filename string) string {
	if filename == "" {
		return "template.hbx"
	}
	return filename
}

// RenderDiagnostics formats every error and warning of a compilation with
// source excerpts and caret pointers, honoring the diagnostics options.
func RenderDiagnostics(res *CompileResult, source string, opts DiagnosticsOptions) string {
	ropts := errortypes.RenderOptions{
		ContextLines: opts.ContextLines,
		BaseOffset:   opts.BaseOffset,
	}
	var out []string
	for _, d := range res.Errors {
		out = append(out, d.Render(source, ropts))
	}
	for _, d := range res.Warnings {
		out = append(out, d.Render(source, ropts))
	}
	return strings.Join(out, "\n\n")
}

// Write compiles the template and writes the javascript to the given
// writer.  The first error encountered is returned; template-author
// diagnostics do not stop emission.
func Write(out io.Writer, tpl *ast.Template, source string, opts Options) error {
	res, err := Compile(tpl, source, opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, res.Code)
	return err
}
