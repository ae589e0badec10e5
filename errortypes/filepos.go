// Package errortypes carries positioned compiler diagnostics.
package errortypes

import "fmt"

// ErrFilePos is an error that knows where in a template file it arose.
// Diagnostic implements it; so does any wrapper that forwards these
// accessors.
type ErrFilePos interface {
	error
	File() string
	Line() int
	Col() int
}

// NewErrFilePosf creates a coded error pinned to a template position.
// The compiler reserves it for internal-invariant violations (code E100),
// which surface as the error return of Compile rather than as entries in
// the diagnostic bag.
func NewErrFilePosf(code, file string, line, col int, format string, args ...interface{}) error {
	return &Diagnostic{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Filename: file,
		SrcLine:  line,
		SrcCol:   col,
	}
}

// IsErrFilePos reports whether err carries a file position, directly or
// anywhere down its Cause chain.
func IsErrFilePos(err error) bool {
	return ToErrFilePos(err) != nil
}

// ToErrFilePos walks err's Cause chain and returns the first positioned
// error found, or nil when the chain has none.
func ToErrFilePos(err error) ErrFilePos {
	for err != nil {
		if fp, ok := err.(ErrFilePos); ok {
			return fp
		}
		c, ok := err.(interface{ Cause() error })
		if !ok {
			return nil
		}
		err = c.Cause()
	}
	return nil
}
