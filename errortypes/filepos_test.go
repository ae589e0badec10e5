package errortypes

import (
	"fmt"
	"strings"
	"testing"
)

type wrapped struct {
	cause error
}

func (w *wrapped) Error() string { return "wrapped: " + w.cause.Error() }
func (w *wrapped) Cause() error  { return w.cause }

func TestIsErrFilePos(t *testing.T) {
	err := NewErrFilePosf("E100", "a.hbx", 3, 7, "unexpected %q", "x")
	if !IsErrFilePos(err) {
		t.Error("expected an ErrFilePos")
	}
	if IsErrFilePos(fmt.Errorf("plain")) {
		t.Error("plain errors are not ErrFilePos")
	}
	if IsErrFilePos(nil) {
		t.Error("nil is not ErrFilePos")
	}

	// two wrappers deep: the chain walk finds the positioned error
	w := &wrapped{cause: &wrapped{cause: err}}
	if !IsErrFilePos(w) {
		t.Error("unwrapping via Cause failed")
	}
	fp := ToErrFilePos(w)
	if fp == nil || fp.File() != "a.hbx" || fp.Line() != 3 || fp.Col() != 7 {
		t.Errorf("unexpected position: %v", fp)
	}
	if d, ok := fp.(*Diagnostic); !ok || d.Code != "E100" {
		t.Errorf("unexpected diagnostic: %v", fp)
	}
	if ToErrFilePos(&wrapped{cause: fmt.Errorf("plain")}) != nil {
		t.Error("chains without positions resolve to nil")
	}
}

func TestDiagnosticSeverity(t *testing.T) {
	if (&Diagnostic{Code: "E001"}).Severity() != SeverityError {
		t.Error("E codes are errors")
	}
	if (&Diagnostic{Code: "W003"}).Severity() != SeverityWarning {
		t.Error("W codes are warnings")
	}
}

func TestDiagnosticRender(t *testing.T) {
	d := &Diagnostic{
		Code:     "E001",
		Message:  "block requires at least one argument",
		Filename: "t.hbx",
		SrcLine:  2,
		SrcCol:   3,
		Hint:     "pass a condition",
	}
	out := d.Render("first\n{{#if}}{{/if}}\nlast", RenderOptions{ContextLines: 1})
	for _, want := range []string{
		"t.hbx:2:3: E001: block requires at least one argument",
		"   1 | first",
		"   2 | {{#if}}{{/if}}",
		"     |    ^",
		"hint: pass a condition",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render output missing %q:\n%s", want, out)
		}
	}
}

func TestDiagnosticRenderBaseOffset(t *testing.T) {
	d := &Diagnostic{Code: "W002", Message: "reserved", SrcLine: 1}
	out := d.Render("x", RenderOptions{BaseOffset: 10})
	if !strings.Contains(out, "  11 | x") {
		t.Errorf("base offset not applied:\n%s", out)
	}
}
