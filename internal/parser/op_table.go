package parser

import "plsqldoc/internal/token"

// Таблица приоритетов бинарных операторов.
// Чем больше число, тем выше приоритет.
const (
	precOr      = 1 // OR
	precAnd     = 2 // AND
	precNot     = 3 // NOT (префикс)
	precCompare = 4 // = <> < > <= >= IS NULL LIKE BETWEEN IN
	precAdd     = 5 // + - ||
	precMul     = 6 // * / MOD
	precPow     = 7 // **
)

// binaryPrec возвращает приоритет и правую ассоциативность оператора.
// Для не-операторов приоритет -1.
func binaryPrec(tok *token.Token) (int, bool) {
	switch tok.Kind {
	case token.Slash:
		// '/' в начале строки завершает единицу, а не делит
		if tok.StartsLine() {
			return -1, false
		}
		return precMul, false
	case token.Operator:
		switch tok.Text {
		case "=", "<>", "!=", "^=", "~=", "<", ">", "<=", ">=":
			return precCompare, false
		case "+", "-", "||":
			return precAdd, false
		case "*":
			return precMul, false
		case "**":
			return precPow, true
		}
	case token.Keyword, token.Ident:
		if tok.Is("MOD") {
			return precMul, false
		}
	case token.Reserved:
		switch {
		case tok.Is("OR"):
			return precOr, false
		case tok.Is("AND"):
			return precAnd, false
		}
	}
	return -1, false
}

// isUnaryOp: + - PRIOR.
func isUnaryOp(tok *token.Token) bool {
	return tok.IsOp("+") || tok.IsOp("-") || tok.Is("PRIOR")
}

// likeOps: варианты LIKE.
var likeOps = wordSet(`LIKE LIKE2 LIKE4 LIKEC`)
