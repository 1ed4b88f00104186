package ast

import (
	"fmt"

	"plsqldoc/internal/names"
	"plsqldoc/internal/token"
)

// Annotation is the resolved meaning of a pragma, attached to its target.
type Annotation struct {
	Kind   AnnotationKind
	Pragma *PragmaDecl
	// Message is the DEPRECATE text (quotes stripped).
	Message string
	// Code and ErrorID are set by EXCEPTION_INIT: -20001 -> "ORA-20001".
	Code    int
	ErrorID string
	Args    []Expr
}

func (a Annotation) String() string {
	switch {
	case a.ErrorID != "":
		return fmt.Sprintf("%s(%s)", a.Kind, a.ErrorID)
	case a.Message != "":
		return fmt.Sprintf("%s(%q)", a.Kind, a.Message)
	}
	return a.Kind.String()
}

// Decl is a declaration: a node with an optional name, a doc comment and
// annotations appended by the resolver.
type Decl interface {
	Syntax
	DeclName() names.Name
	Annotations() []Annotation
	Annotate(a Annotation)
	Doc() *token.Token
	Comment() *DocComment
	SetComment(c *DocComment)
}

type declBase struct {
	Node
	annotations []Annotation
	comment     *DocComment
}

// Comment is the parsed doc comment, set when a CommentParser is configured.
func (d *declBase) Comment() *DocComment { return d.comment }

func (d *declBase) SetComment(c *DocComment) { d.comment = c }

// Annotations returns the annotations in the order they were applied.
func (d *declBase) Annotations() []Annotation { return d.annotations }

// Annotate appends a resolved annotation.
func (d *declBase) Annotate(a Annotation) { d.annotations = append(d.annotations, a) }

// HasAnnotation reports whether an annotation of kind k was applied.
func (d *declBase) HasAnnotation(k AnnotationKind) bool {
	for i := range d.annotations {
		if d.annotations[i].Kind == k {
			return true
		}
	}
	return false
}

// Doc returns the doc comment directly above the declaration or, failing
// that, one trailing its last token on the same line.
func (d *declBase) Doc() *token.Token {
	first := d.FirstToken()
	if first == nil {
		return nil
	}
	if doc := token.LastDoc(first.Leading); doc != nil {
		return doc
	}
	if last := d.LastToken(); last != nil {
		return token.FirstDoc(last.Trailing)
	}
	return nil
}

// CommentParser turns a doc comment token into structured documentation.
// Implementations live outside this module.
type CommentParser interface {
	ParseComment(tok *token.Token) (*DocComment, error)
}

// DocComment is the result of a CommentParser.
type DocComment struct {
	Full    string
	Summary string
	Body    string
	Tags    []DocTag
}

// DocTag is one "@name value" entry.
type DocTag struct {
	Name  string
	Value string
}
