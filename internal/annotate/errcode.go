package annotate

import (
	"fmt"
	"strconv"

	"plsqldoc/internal/ast"
)

// noDataFound is the ANSI code 100 that Oracle raises as ORA-01403.
const noDataFound = 100

// ErrorCode reads the integer of an EXCEPTION_INIT argument: 100, +100,
// -20001.
func ErrorCode(e ast.Expr) (int, bool) {
	sign := 1
	if u, ok := e.(*ast.Unary); ok {
		switch {
		case u.Op.IsOp("-"):
			sign = -1
		case u.Op.IsOp("+"):
		default:
			return 0, false
		}
		e = u.Operand
	}
	lit, ok := e.(*ast.Literal)
	if !ok || lit.IsString() {
		return 0, false
	}
	n, err := strconv.Atoi(lit.Value())
	if err != nil {
		return 0, false
	}
	return sign * n, true
}

// ErrorID maps an error code to its canonical identifier: -20001 ->
// "ORA-20001", 100 -> "ORA-01403" (no data found).
func ErrorID(code int) string {
	if code == noDataFound {
		return "ORA-01403"
	}
	if code < 0 {
		code = -code
	}
	return fmt.Sprintf("ORA-%05d", code)
}
