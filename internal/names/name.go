// Package names models PL/SQL object names: one to three dot-separated
// identifier parts, with the text as written and a canonical value used for
// every comparison.
package names

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"plsqldoc/internal/diag"
	"plsqldoc/internal/source"
	"plsqldoc/internal/token"
)

// MaxParts is the longest qualified name: schema.package.member.
const MaxParts = 3

var upper = cases.Upper(language.Und)

// Name is an immutable qualified name.
type Name struct {
	parts  []*token.Token
	values []string
	text   string
	value  string
}

// New builds a name from 1..3 identifier tokens.
func New(parts ...*token.Token) (Name, error) {
	if len(parts) == 0 || len(parts) > MaxParts {
		return Name{}, diag.InvalidArgument("invalid argument count: a name takes 1..%d parts, got %d", MaxParts, len(parts))
	}
	texts := make([]string, len(parts))
	values := make([]string, len(parts))
	for i, p := range parts {
		if p == nil {
			return Name{}, diag.InvalidArgument("name part %d is nil", i)
		}
		texts[i] = p.Text
		values[i] = PartValue(p)
	}
	return Name{
		parts:  append([]*token.Token(nil), parts...),
		values: values,
		text:   strings.Join(texts, "."),
		value:  strings.Join(values, "."),
	}, nil
}

// Must is New for callers that already checked the arity.
func Must(parts ...*token.Token) Name {
	n, err := New(parts...)
	if err != nil {
		panic(err)
	}
	return n
}

// PartValue canonicalises one identifier: quoted parts keep their case
// without the quotes, plain parts are upper-cased.
func PartValue(tok *token.Token) string {
	if tok.IsQuoted() {
		return tok.Trimmed
	}
	return upper.String(tok.Text)
}

// IsZero reports whether n is the zero Name.
func (n Name) IsZero() bool { return len(n.parts) == 0 }

// Text returns the name as written.
func (n Name) Text() string { return n.text }

// Value returns the canonical name.
func (n Name) Value() string { return n.value }

func (n Name) String() string { return n.text }

// Len is the written length: the part lengths plus the separating dots.
func (n Name) Len() int {
	if len(n.parts) == 0 {
		return 0
	}
	l := len(n.parts) - 1
	for _, p := range n.parts {
		l += len(p.Text)
	}
	return l
}

// Parts returns the tokens of the name.
func (n Name) Parts() []*token.Token { return n.parts }

// Count returns the number of parts.
func (n Name) Count() int { return len(n.parts) }

// PartValues returns the canonical value of every part.
func (n Name) PartValues() []string { return n.values }

// Last returns the value of the final part, the unqualified object name.
func (n Name) Last() string {
	vs := n.PartValues()
	if len(vs) == 0 {
		return ""
	}
	return vs[len(vs)-1]
}

// Span covers the written name.
func (n Name) Span() source.Span {
	if len(n.parts) == 0 {
		return source.Span{}
	}
	return n.parts[0].Span.Cover(n.parts[len(n.parts)-1].Span)
}

// Equal compares canonical values.
func (n Name) Equal(other Name) bool { return n.value == other.value }

// Compare orders names by canonical value.
func (n Name) Compare(other Name) int { return strings.Compare(n.value, other.value) }

// HasSuffix reports whether the trailing parts of n equal all parts of other:
// "PKG.PROC" has suffix "PROC", and "SCOTT.PKG.PROC" has suffix "PKG.PROC".
func (n Name) HasSuffix(other Name) bool {
	mine, theirs := n.PartValues(), other.PartValues()
	if len(theirs) == 0 || len(theirs) > len(mine) {
		return false
	}
	off := len(mine) - len(theirs)
	for i := range theirs {
		if mine[off+i] != theirs[i] {
			return false
		}
	}
	return true
}

// Qualify prefixes n with owner parts, keeping the 3-part limit.
func (n Name) Qualify(owner Name) (Name, error) {
	parts := make([]*token.Token, 0, len(owner.parts)+len(n.parts))
	parts = append(parts, owner.parts...)
	parts = append(parts, n.parts...)
	return New(parts...)
}

// Member is the last part: the routine or field of pkg.member.
func (n Name) Member() string { return n.Last() }

// Unit is the part before the member, or the only part.
func (n Name) Unit() string {
	switch len(n.values) {
	case 0:
		return ""
	case 1:
		return n.values[0]
	}
	return n.values[len(n.values)-2]
}

// Owner is the schema of a three-part name, "" otherwise.
func (n Name) Owner() string {
	if len(n.values) < MaxParts {
		return ""
	}
	return n.values[0]
}
