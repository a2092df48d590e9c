// errors.go — caret-snippet rendering for user-facing errors.
//
// WrapErrorWithSource turns the interpreter's typed errors
// (*SyntaxError, *ReferenceError, *TypeError) into readable multi-line
// snippets with a caret under the offending column:
//
//	SYNTAX ERROR at 2:7: expected ',' or ')'
//
//	   1 | do(
//	   2 |   +(1 2))
//	       |       ^
//
// Up to one line of context is shown before and after the error line.
// Any other error kind is returned unchanged. Line/Col are 1-based and
// clamped to the source bounds, so rendering never fails on short or
// empty input. Output is plain text; the CLI adds color on top.
package egg

import (
	"fmt"
	"strings"
)

// WrapErrorWithSource returns err augmented with a caret-annotated
// snippet of src, or err unchanged when it is not an interpreter error.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source label (file
// path, "<repl>", ...) shown in the header.
func WrapErrorWithName(err error, srcName, src string) error {
	switch e := err.(type) {
	case *SyntaxError:
		return fmt.Errorf("%s", snippet(src, "SYNTAX ERROR", srcName, e.Line, e.Col, e.Msg))
	case *ReferenceError:
		return fmt.Errorf("%s", snippet(src, "REFERENCE ERROR", srcName, e.Line, e.Col, e.Msg))
	case *TypeError:
		return fmt.Errorf("%s", snippet(src, "TYPE ERROR", srcName, e.Line, e.Col, e.Msg))
	default:
		return err
	}
}

// snippet builds the header plus a numbered excerpt with a caret under
// the 1-based column. Coordinates are clamped so out-of-range positions
// still render.
func snippet(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
