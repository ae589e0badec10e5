package hbxjs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hbxjs/hbx/ast"
)

func TestRangeIndexOffsets(t *testing.T) {
	ix := newRangeIndex("ab\ncd\n\nefg")

	assert.Equal(t, 0, ix.offset(ast.Position{Line: 1, Column: 0}))
	assert.Equal(t, 1, ix.offset(ast.Position{Line: 1, Column: 1}))
	assert.Equal(t, 3, ix.offset(ast.Position{Line: 2, Column: 0}))
	assert.Equal(t, 6, ix.offset(ast.Position{Line: 3, Column: 0}))
	assert.Equal(t, 9, ix.offset(ast.Position{Line: 4, Column: 2}))

	// out-of-range lines degrade to the column, they never panic
	assert.Equal(t, 5, ix.offset(ast.Position{Line: 99, Column: 5}))
	assert.Equal(t, 5, ix.offset(ast.Position{Line: 0, Column: 5}))
}

func TestRangeIndexInverse(t *testing.T) {
	source := "ab\ncd\n\nefg"
	ix := newRangeIndex(source)
	for off := 0; off < len(source); off++ {
		line, col := ix.position(off)
		assert.Equal(t, off, ix.lineOffsets[line]+col, "offset %d", off)
	}
	line, col := ix.position(4)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)
}

func TestRangeIndexRangeOf(t *testing.T) {
	ix := newRangeIndex("ab\ncd")
	r := ix.rangeOf(ast.Loc{
		Start: ast.Position{Line: 1, Column: 1},
		End:   ast.Position{Line: 2, Column: 2},
	})
	assert.Equal(t, SourceRange{Start: 1, End: 5}, r)
	assert.Equal(t, "b\ncd", ix.text(r))
}

func TestRangeIndexSnippet(t *testing.T) {
	ix := newRangeIndex("first\nsecond line\nthird")
	assert.Equal(t, "second line", ix.snippet(8))
	line, col := ix.lineOf(8)
	assert.Equal(t, 2, line)
	assert.Equal(t, 2, col)
}
