// Package annotate applies pragmas to the declarations they refer to. It runs
// once per finished declaration list and only appends annotations; the tree
// shape never changes.
package annotate

import (
	"fmt"

	"plsqldoc/internal/ast"
	"plsqldoc/internal/diag"
	"plsqldoc/internal/names"
)

// Result summarises one Resolve call.
type Result struct {
	// Applied counts annotations appended (a sibling pragma may add many).
	Applied int
	// Dangling pragmas found no target; each was reported.
	Dangling []*ast.PragmaDecl
	// Unknown pragmas are not in the catalogue and were left alone.
	Unknown []*ast.PragmaDecl
}

type resolver struct {
	owner ast.Decl
	rep   diag.Reporter
	res   Result
}

// Resolve attaches the pragmas of decls to their targets. owner is the unit,
// type or routine the list belongs to, nil for anonymous blocks.
//
// Siblings pragmas are applied first, to every other declaration whose name
// matches. The rest are handled in one left-to-right walk: Parent tries the
// owner, Previous scans backward, Next waits for the following declarations.
// Whatever stays unmatched is reported as dangling.
func Resolve(owner ast.Decl, decls []ast.Decl, rep diag.Reporter) Result {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	r := &resolver{owner: owner, rep: rep}

	var siblings, rest []ast.Decl
	for _, d := range decls {
		pr, ok := d.(*ast.PragmaDecl)
		if !ok {
			rest = append(rest, d)
			continue
		}
		if _, known := pr.Spec(); !known {
			r.unknown(pr)
			continue
		}
		if pr.Hints.Has(ast.SearchSiblings) {
			siblings = append(siblings, pr)
			continue
		}
		rest = append(rest, pr)
	}

	for _, d := range siblings {
		r.applySiblings(d.(*ast.PragmaDecl), decls)
	}
	r.walk(rest)
	return r.res
}

// applySiblings аннотирует все подходящие объявления списка.
func (r *resolver) applySiblings(pr *ast.PragmaDecl, decls []ast.Decl) {
	matched := false
	for _, d := range decls {
		if !isTarget(d) {
			continue
		}
		if pr.IsDefault() {
			if _, ok := d.(*ast.RoutineDecl); !ok {
				continue
			}
		} else if !matches(pr, d.DeclName()) {
			continue
		}
		r.apply(pr, d)
		matched = true
	}
	if !matched {
		r.dangling(pr)
	}
}

func (r *resolver) walk(decls []ast.Decl) {
	var pending []*ast.PragmaDecl
	for i, d := range decls {
		pr, ok := d.(*ast.PragmaDecl)
		if !ok {
			if isTarget(d) {
				pending = r.consume(pending, d)
			}
			continue
		}
		switch {
		case pr.Hints.Has(ast.SearchParent) && r.matchOwner(pr):
			r.apply(pr, r.owner)
		case pr.Hints.Has(ast.SearchPrevious) && r.matchPrevious(pr, decls[:i]):
		case pr.Hints.Has(ast.SearchNext):
			pending = append(pending, pr)
		case pr.Hints == ast.SearchParent && r.owner == nil:
			// PRAGMA AUTONOMOUS_TRANSACTION в анонимном блоке: цели нет, и это не ошибка
		default:
			r.dangling(pr)
		}
	}
	for _, pr := range pending {
		r.dangling(pr)
	}
}

// consume applies every pending pragma that names d; the others stay queued.
func (r *resolver) consume(pending []*ast.PragmaDecl, d ast.Decl) []*ast.PragmaDecl {
	kept := pending[:0]
	for _, pr := range pending {
		if matches(pr, d.DeclName()) {
			r.apply(pr, d)
			continue
		}
		kept = append(kept, pr)
	}
	return kept
}

func (r *resolver) matchOwner(pr *ast.PragmaDecl) bool {
	if r.owner == nil {
		return false
	}
	return matches(pr, r.owner.DeclName())
}

// matchPrevious annotates the nearest preceding declaration with a matching name.
func (r *resolver) matchPrevious(pr *ast.PragmaDecl, before []ast.Decl) bool {
	for i := len(before) - 1; i >= 0; i-- {
		d := before[i]
		if !isTarget(d) || !matches(pr, d.DeclName()) {
			continue
		}
		r.apply(pr, d)
		return true
	}
	return false
}

func (r *resolver) apply(pr *ast.PragmaDecl, target ast.Decl) {
	target.Annotate(r.annotation(pr))
	r.res.Applied++
}

func (r *resolver) annotation(pr *ast.PragmaDecl) ast.Annotation {
	spec, _ := pr.Spec()
	a := ast.Annotation{Kind: spec.Kind, Pragma: pr, Args: pr.Args}
	switch spec.Kind {
	case ast.AnnDeprecated:
		if len(pr.Args) > 1 {
			if lit, ok := pr.Args[1].(*ast.Literal); ok && lit.IsString() {
				a.Message = lit.Value()
			}
		}
	case ast.AnnExceptionInit:
		if len(pr.Args) < 2 {
			break
		}
		code, ok := ErrorCode(pr.Args[1])
		if !ok {
			diag.ReportWarning(r.rep, diag.SemaPragmaArgs, pr.Args[1].Base().Span(),
				fmt.Sprintf("EXCEPTION_INIT error code must be an integer literal, got %q", ast.ExprValue(pr.Args[1]))).Emit()
			break
		}
		a.Code, a.ErrorID = code, ErrorID(code)
	}
	return a
}

func (r *resolver) dangling(pr *ast.PragmaDecl) {
	r.res.Dangling = append(r.res.Dangling, pr)
	msg := fmt.Sprintf("PRAGMA %s does not apply to any declaration", pr.PragmaName())
	if t := pr.Target(); !t.IsZero() {
		msg = fmt.Sprintf("PRAGMA %s: no declaration named %s", pr.PragmaName(), t.Text())
	}
	diag.ReportWarning(r.rep, diag.SemaDanglingPragma, pr.Span(), msg).Emit()
}

// unknown reports an unknown pragma name once per session when the reporter
// keeps a "seen" set, every time otherwise.
func (r *resolver) unknown(pr *ast.PragmaDecl) {
	r.res.Unknown = append(r.res.Unknown, pr)
	if once, ok := r.rep.(diag.OnceReporter); ok && !once.Once("pragma:"+pr.PragmaName()) {
		return
	}
	diag.ReportInfo(r.rep, diag.SemaUnknownPragma, pr.NameTok.Span,
		fmt.Sprintf("unknown PRAGMA %s is ignored", pr.PragmaName())).Emit()
}

// isTarget: pragmas, directives and skipped items never receive annotations.
func isTarget(d ast.Decl) bool {
	switch d.(type) {
	case *ast.PragmaDecl, *ast.Directive, *ast.SkippedDecl:
		return false
	}
	return true
}

// matches compares the pragma target with a declaration name. A pragma
// without a target matches anything; DEPRECATE also accepts qualified
// partial names (pkg.proc against proc, or the other way round).
func matches(pr *ast.PragmaDecl, name names.Name) bool {
	target := pr.Target()
	if target.IsZero() {
		return true
	}
	if name.IsZero() {
		return false
	}
	if target.Equal(name) {
		return true
	}
	spec, _ := pr.Spec()
	if spec.Kind != ast.AnnDeprecated {
		return false
	}
	return target.HasSuffix(name) || name.HasSuffix(target)
}
