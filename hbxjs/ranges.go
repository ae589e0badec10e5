package hbxjs

import (
	"sort"
	"strings"

	"github.com/hbxjs/hbx/ast"
)

// SourceRange delimits a node as byte offsets into the template source.
type SourceRange struct {
	Start int
	End   int
}

// rangeIndex converts between the parser's line/column positions and byte
// offsets.  It is built once per compilation and read-only thereafter.
type rangeIndex struct {
	source      string
	lineOffsets []int // byte offset of the start of each line
}

func newRangeIndex(source string) *rangeIndex {
	offsets := []int{0}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return &rangeIndex{source: source, lineOffsets: offsets}
}

// offset converts a 1-based line and 0-based column to a byte offset.
// Out-of-range lines degrade to the column; they never panic.
func (ix *rangeIndex) offset(pos ast.Position) int {
	line := pos.Line - 1
	if line < 0 || line >= len(ix.lineOffsets) {
		return pos.Column
	}
	return ix.lineOffsets[line] + pos.Column
}

// rangeOf converts a node location into a SourceRange.
func (ix *rangeIndex) rangeOf(loc ast.Loc) SourceRange {
	return SourceRange{Start: ix.offset(loc.Start), End: ix.offset(loc.End)}
}

// rangeOfNode returns the range of an AST node, or nil for zero locations.
func (ix *rangeIndex) rangeOfNode(n ast.Node) *SourceRange {
	loc := n.Location()
	if loc == (ast.Loc{}) {
		return nil
	}
	r := ix.rangeOf(loc)
	return &r
}

// position converts a byte offset back to a 0-based line and column, as
// required by source-map segments.
func (ix *rangeIndex) position(offset int) (line, col int) {
	line = sort.Search(len(ix.lineOffsets), func(i int) bool {
		return ix.lineOffsets[i] > offset
	}) - 1
	if line < 0 {
		return 0, offset
	}
	return line, offset - ix.lineOffsets[line]
}

// text returns the source covered by r, clamped to the source bounds.
func (ix *rangeIndex) text(r SourceRange) string {
	start, end := r.Start, r.End
	if start < 0 {
		start = 0
	}
	if end > len(ix.source) {
		end = len(ix.source)
	}
	if start >= end {
		return ""
	}
	return ix.source[start:end]
}

// lineOf returns the 1-based line and 0-based column of a byte offset.
func (ix *rangeIndex) lineOf(offset int) (line, col int) {
	l, c := ix.position(offset)
	return l + 1, c
}

// snippet returns the full source line containing offset, for diagnostics.
func (ix *rangeIndex) snippet(offset int) string {
	line, _ := ix.position(offset)
	if line < 0 || line >= len(ix.lineOffsets) {
		return ""
	}
	start := ix.lineOffsets[line]
	end := len(ix.source)
	if nl := strings.IndexByte(ix.source[start:], '\n'); nl >= 0 {
		end = start + nl
	}
	return ix.source[start:end]
}
