package ast

import (
	"fmt"

	"plsqldoc/internal/diag"
	"plsqldoc/internal/token"
)

// ResolveToken normalises an optional token: nil, a *token.Token, or a token
// slice of length 0 or 1 (as returned by TryMatchSequence). Anything else
// panics with *diag.InvalidArgumentError.
func ResolveToken(v any) *token.Token {
	switch t := v.(type) {
	case nil:
		return nil
	case *token.Token:
		return t
	case []*token.Token:
		switch len(t) {
		case 0:
			return nil
		case 1:
			return t[0]
		}
		panic(diag.InvalidArgument("token slice of length %d", len(t)))
	}
	panic(diag.InvalidArgument("cannot resolve %s as a token", fmt.Sprintf("%T", v)))
}
