package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"plsqldoc/internal/ast"
	"plsqldoc/internal/source"
)

type treeNode struct {
	label    string
	children []*treeNode
}

// TreeNode is the exported form of a syntax node for JSON/YAML dumps.
type TreeNode struct {
	Kind     string      `json:"kind" yaml:"kind"`
	Span     string      `json:"span" yaml:"span"`
	Name     string      `json:"name,omitempty" yaml:"name,omitempty"`
	Value    string      `json:"value,omitempty" yaml:"value,omitempty"`
	Children []*TreeNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// BuildTree converts a syntax subtree.
func BuildTree(s ast.Syntax) *TreeNode {
	n := s.Base()
	out := &TreeNode{Kind: n.Kind().String(), Span: formatSpan(n.Span())}
	out.Name, out.Value = describe(s)
	for _, c := range n.Children() {
		out.Children = append(out.Children, BuildTree(c))
	}
	return out
}

// describe picks the interesting bits of a node for its label.
func describe(s ast.Syntax) (name, value string) {
	if d, ok := s.(ast.Decl); ok {
		if dn := d.DeclName(); !dn.IsZero() {
			name = dn.Value()
		}
		if anns := d.Annotations(); len(anns) > 0 {
			parts := make([]string, len(anns))
			for i, a := range anns {
				parts[i] = a.String()
			}
			value = strings.Join(parts, ", ")
		}
		return name, value
	}
	switch v := s.(type) {
	case *ast.Reference, *ast.Literal, *ast.Null:
		return "", ast.ExprValue(v.(ast.Expr))
	case *ast.Invocation:
		return v.Name.Value(), ""
	case *ast.Binary:
		return "", v.Op.Text
	case *ast.Unary:
		return "", v.Op.Text
	case ast.TypeExpr:
		return "", ast.TypeName(v)
	case *ast.RoutineHeading:
		return v.Name.Value(), v.UniqueID().Value()
	case *ast.Label:
		return v.Name().Value(), ""
	case *ast.SQL:
		return "", v.Verb()
	}
	return "", ""
}

func formatSpan(sp source.Span) string {
	if !sp.Start.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%s-%s", sp.Start, sp.End)
}

func toTreeNode(n *TreeNode) *treeNode {
	label := n.Kind
	if n.Name != "" {
		label += " " + n.Name
	}
	if n.Value != "" {
		label += " [" + n.Value + "]"
	}
	label += " (" + n.Span + ")"
	tn := &treeNode{label: label}
	for _, c := range n.Children {
		tn.children = append(tn.children, toTreeNode(c))
	}
	return tn
}

func writeTree(w io.Writer, n *treeNode, prefix string, last, root bool) error {
	branch, next := "", ""
	if !root {
		if last {
			branch, next = "└─ ", "   "
		} else {
			branch, next = "├─ ", "│  "
		}
	}
	if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, branch, n.label); err != nil {
		return err
	}
	for i, c := range n.children {
		if err := writeTree(w, c, prefix+next, i == len(n.children)-1, false); err != nil {
			return err
		}
	}
	return nil
}

// FormatTree prints the script as an indented tree of node kinds:
//
//	Script (1:1-9:2)
//	└─ PackageSpec EMP_API (1:1-9:2)
//	   ├─ CreatePrefix (1:1-1:18)
func FormatTree(w io.Writer, script *ast.Script) error {
	if script == nil {
		return nil
	}
	return writeTree(w, toTreeNode(BuildTree(script)), "", true, true)
}

// FormatTreeJSON dumps the tree as JSON.
func FormatTreeJSON(w io.Writer, script *ast.Script) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildTree(script))
}

// FormatTreeYAML dumps the tree as YAML.
func FormatTreeYAML(w io.Writer, script *ast.Script) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(BuildTree(script)); err != nil {
		return err
	}
	return enc.Close()
}
