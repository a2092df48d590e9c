// printer.go — rendering Values back to text.
//
// Two forms exist: the REPL form (strings quoted, produced by
// FormatValue) and the display form used by the print builtin (strings
// raw). Arrays render as array(...) calls so REPL output reads back as
// source.
package egg

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatValue renders v the way the REPL shows results.
func FormatValue(v Value) string { return stringify(v, true) }

func displayString(v Value) string { return stringify(v, false) }

func stringify(v Value, quote bool) string {
	switch v.Tag {
	case VTBool:
		return strconv.FormatBool(v.Data.(bool))
	case VTInt:
		return strconv.FormatInt(v.Data.(int64), 10)
	case VTNum:
		return strconv.FormatFloat(v.Data.(float64), 'g', -1, 64)
	case VTStr:
		if quote {
			return strconv.Quote(v.Data.(string))
		}
		return v.Data.(string)
	case VTArray:
		xs := v.Data.([]Value)
		parts := make([]string, len(xs))
		for i, x := range xs {
			// Elements always quote, even under print, so nested
			// strings stay readable.
			parts[i] = stringify(x, true)
		}
		return "array(" + strings.Join(parts, ", ") + ")"
	case VTFun:
		f := v.Data.(*Fun)
		if f.Native != nil {
			return "<native " + f.NativeName + ">"
		}
		return fmt.Sprintf("<fun/%d>", len(f.Params))
	default:
		return "<unknown>"
	}
}
