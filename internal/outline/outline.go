// Package outline extracts the documentation model from a parsed script:
// what each unit declares, with signatures, doc text and annotations. It
// is the data a renderer consumes.
package outline

import (
	"plsqldoc/internal/ast"
	"plsqldoc/internal/source"
)

// Outline describes one script file.
type Outline struct {
	File  string  `json:"file" yaml:"file" msgpack:"file"`
	Units []*Unit `json:"units" yaml:"units" msgpack:"units"`
	// Errors counts units that could not be read (ast.ErrorUnit).
	Errors int `json:"errors,omitempty" yaml:"errors,omitempty" msgpack:"errors"`
}

// Unit is a documented top-level object.
type Unit struct {
	Kind        string       `json:"kind" yaml:"kind" msgpack:"kind"`
	Name        string       `json:"name" yaml:"name" msgpack:"name"`
	Text        string       `json:"text,omitempty" yaml:"text,omitempty" msgpack:"text"`
	ID          string       `json:"id,omitempty" yaml:"id,omitempty" msgpack:"id"`
	Pos         Pos          `json:"pos" yaml:"pos" msgpack:"pos"`
	OrReplace   bool         `json:"or_replace,omitempty" yaml:"or_replace,omitempty" msgpack:"or_replace"`
	Doc         *Doc         `json:"doc,omitempty" yaml:"doc,omitempty" msgpack:"doc"`
	Signature   string       `json:"signature,omitempty" yaml:"signature,omitempty" msgpack:"signature"`
	Supertype   string       `json:"supertype,omitempty" yaml:"supertype,omitempty" msgpack:"supertype"`
	Target      string       `json:"target,omitempty" yaml:"target,omitempty" msgpack:"target"`
	Type        string       `json:"type,omitempty" yaml:"type,omitempty" msgpack:"type"`
	Properties  []Property   `json:"properties,omitempty" yaml:"properties,omitempty" msgpack:"properties"`
	Annotations []Annotation `json:"annotations,omitempty" yaml:"annotations,omitempty" msgpack:"annotations"`
	Members     []*Member    `json:"members,omitempty" yaml:"members,omitempty" msgpack:"members"`
}

// Member is a declaration inside a unit.
type Member struct {
	Kind        string       `json:"kind" yaml:"kind" msgpack:"kind"`
	Name        string       `json:"name" yaml:"name" msgpack:"name"`
	Text        string       `json:"text,omitempty" yaml:"text,omitempty" msgpack:"text"`
	ID          string       `json:"id,omitempty" yaml:"id,omitempty" msgpack:"id"`
	Pos         Pos          `json:"pos" yaml:"pos" msgpack:"pos"`
	Doc         *Doc         `json:"doc,omitempty" yaml:"doc,omitempty" msgpack:"doc"`
	Signature   string       `json:"signature,omitempty" yaml:"signature,omitempty" msgpack:"signature"`
	Type        string       `json:"type,omitempty" yaml:"type,omitempty" msgpack:"type"`
	Default     string       `json:"default,omitempty" yaml:"default,omitempty" msgpack:"default"`
	Returns     string       `json:"returns,omitempty" yaml:"returns,omitempty" msgpack:"returns"`
	Params      []Param      `json:"params,omitempty" yaml:"params,omitempty" msgpack:"params"`
	Fields      []Field      `json:"fields,omitempty" yaml:"fields,omitempty" msgpack:"fields"`
	Definition  bool         `json:"definition,omitempty" yaml:"definition,omitempty" msgpack:"definition"`
	Annotations []Annotation `json:"annotations,omitempty" yaml:"annotations,omitempty" msgpack:"annotations"`
}

type Param struct {
	Name    string `json:"name" yaml:"name" msgpack:"name"`
	Mode    string `json:"mode" yaml:"mode" msgpack:"mode"`
	NoCopy  bool   `json:"nocopy,omitempty" yaml:"nocopy,omitempty" msgpack:"nocopy"`
	Type    string `json:"type" yaml:"type" msgpack:"type"`
	Default string `json:"default,omitempty" yaml:"default,omitempty" msgpack:"default"`
}

type Field struct {
	Name    string `json:"name" yaml:"name" msgpack:"name"`
	Type    string `json:"type" yaml:"type" msgpack:"type"`
	Default string `json:"default,omitempty" yaml:"default,omitempty" msgpack:"default"`
}

type Property struct {
	Name  string `json:"name" yaml:"name" msgpack:"name"`
	Value string `json:"value,omitempty" yaml:"value,omitempty" msgpack:"value"`
}

// Annotation is a resolved pragma.
type Annotation struct {
	Kind    string `json:"kind" yaml:"kind" msgpack:"kind"`
	Message string `json:"message,omitempty" yaml:"message,omitempty" msgpack:"message"`
	ErrorID string `json:"error_id,omitempty" yaml:"error_id,omitempty" msgpack:"error_id"`
}

// Pos is a 1-based source range.
type Pos struct {
	Line    int `json:"line" yaml:"line" msgpack:"line"`
	Column  int `json:"column" yaml:"column" msgpack:"column"`
	EndLine int `json:"end_line" yaml:"end_line" msgpack:"end_line"`
	EndCol  int `json:"end_column" yaml:"end_column" msgpack:"end_column"`
}

func posOf(sp source.Span) Pos {
	return Pos{Line: sp.Start.Line, Column: sp.Start.Column, EndLine: sp.End.Line, EndCol: sp.End.Column}
}

// Deprecated reports the DEPRECATE message and whether the member has one.
func (m *Member) Deprecated() (string, bool) {
	for _, a := range m.Annotations {
		if a.Kind == ast.AnnDeprecated.String() {
			return a.Message, true
		}
	}
	return "", false
}

// Find returns the first member whose canonical name is name.
func (u *Unit) Find(name string) *Member {
	for _, m := range u.Members {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Routines returns the function and procedure members.
func (u *Unit) Routines() []*Member {
	var out []*Member
	for _, m := range u.Members {
		if m.Kind == KindFunction || m.Kind == KindProcedure {
			out = append(out, m)
		}
	}
	return out
}
