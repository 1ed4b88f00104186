package parser

import (
	"fmt"
	"strings"

	"plsqldoc/internal/ast"
	"plsqldoc/internal/diag"
	"plsqldoc/internal/names"
	"plsqldoc/internal/stream"
	"plsqldoc/internal/token"
)

// passthroughVerbs start SQL statements kept as text at script level.
var passthroughVerbs = wordSet(`
	ALTER DROP GRANT REVOKE COMMENT INSERT UPDATE DELETE MERGE SELECT WITH COMMIT ROLLBACK
	SAVEPOINT TRUNCATE ANALYZE LOCK CALL EXPLAIN AUDIT NOAUDIT RENAME FLASHBACK PURGE
`)

// sqlplusCommands run to the end of their line.
var sqlplusCommands = wordSet(`
	SET PROMPT SPOOL SHOW EXEC EXECUTE WHENEVER DEFINE UNDEFINE COLUMN VARIABLE VAR PRINT
	CONNECT CONN DISCONNECT START REM REMARK DESCRIBE DESC PAUSE ACCEPT HOST CLEAR BREAK COMPUTE
	TTITLE BTITLE EXIT QUIT TIMING RUN LIST SPO STORE REPHEADER REPFOOTER ARCHIVE RECOVER
	STARTUP SHUTDOWN PASSWORD COPY APPEND CHANGE DEL EDIT GET INPUT SAVE XQUERY
`)

// bodiedUnits end with '/' rather than the first ';'. AND is the start of
// CREATE AND COMPILE JAVA SOURCE.
var bodiedUnits = wordSet(`TRIGGER JAVA AND`)

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}

func inSet(set map[string]struct{}, tok *token.Token) bool {
	if !tok.Kind.IsWord() || tok.IsQuoted() {
		return false
	}
	_, ok := set[tok.Word()]
	return ok
}

// parseUnit выбирает по первому токену нужный распознаватель единицы.
func (p *Parser) parseUnit() (ast.Unit, error) {
	tok := p.peek()
	switch {
	case tok.Kind == token.Preprocessor:
		return p.parseDirective()
	case tok.Kind == token.Slash || tok.Kind == token.Semicolon:
		term, err := p.parseTerminator(true)
		if err != nil {
			return nil, err
		}
		return ast.Finish(&ast.EmptyUnit{Term: term}), nil
	case tok.Is("CREATE"):
		return p.parseCreate()
	case tok.Is("DECLARE") || tok.Is("BEGIN") || tok.IsOp("<<"):
		return p.parseAnonymousBlock()
	case tok.IsOp("@") && tok.StartsLine():
		return p.parseSQLPlus(), nil
	case inSet(sqlplusCommands, tok) && tok.StartsLine() && !p.isSQLSet():
		return p.parseSQLPlus(), nil
	case inSet(passthroughVerbs, tok) || tok.Is("SET"):
		return p.parsePassthrough()
	}
	return nil, p.c.Expected("a PL/SQL unit, SQL statement or SQL*Plus command")
}

// isSQLSet: SET TRANSACTION / SET ROLE / SET CONSTRAINTS are SQL.
func (p *Parser) isSQLSet() bool {
	return p.peek().Is("SET") && stream.Words("TRANSACTION", "ROLE", "CONSTRAINT", "CONSTRAINTS").Match(p.c.PeekN(1))
}

// parseTerminator reads ';' optionally followed by '/' on its own line. With
// required unset a missing terminator yields nil.
func (p *Parser) parseTerminator(required bool) (*ast.Terminator, error) {
	semi := p.accept(pSemi)
	var slash *token.Token
	if p.atUnitSlash() {
		slash = p.advance()
	}
	if semi == nil && slash == nil {
		if !required {
			return nil, nil
		}
		if p.c.EOF() {
			p.report(diag.SynMissingTerminator, diag.SevWarning, p.peek().Span, "missing ';' at end of input")
			return nil, nil
		}
		return nil, p.c.Expected("';'")
	}
	return ast.Finish(&ast.Terminator{Semi: semi, Slash: slash}), nil
}

// parseSlashTerminator is parseTerminator for units whose last ';' belongs
// to their body: only the optional '/' remains.
func (p *Parser) parseSlashTerminator() *ast.Terminator {
	if !p.atUnitSlash() {
		return nil
	}
	return ast.Finish(&ast.Terminator{Slash: p.advance()})
}

func (p *Parser) parseSQLPlus() ast.Unit {
	first := p.advance()
	toks := []*token.Token{first}
	for !p.c.EOF() && !p.peek().StartsLine() {
		toks = append(toks, p.advance())
	}
	cmd := first.Word()
	if first.IsOp("@") {
		cmd = "@"
	}
	return ast.Finish(&ast.SQLPlusCommand{Command: cmd, Toks: toks})
}

func (p *Parser) parsePassthrough() (ast.Unit, error) {
	verb := p.peek().Word()
	toks := p.scanToSemi()
	term, err := p.parseTerminator(true)
	if err != nil {
		return nil, err
	}
	return ast.Finish(&ast.Passthrough{Verb: verb, Toks: toks, Term: term}), nil
}

func (p *Parser) parseAnonymousBlock() (ast.Unit, error) {
	labels, err := p.parseLabels()
	if err != nil {
		return nil, err
	}
	block, err := p.parseBlock(false)
	if err != nil {
		return nil, err
	}
	term, err := p.parseTerminator(true)
	if err != nil {
		return nil, err
	}
	return ast.Finish(&ast.AnonymousBlock{Labels: labels, Block: block, Term: term}), nil
}

// parseDirective reads $IF cond $THEN, $ELSIF cond $THEN, $ELSE, $END and
// $ERROR expr $END.
func (p *Parser) parseDirective() (*ast.Directive, error) {
	kw := p.advance()
	d := &ast.Directive{Keyword: kw}
	switch strings.ToUpper(kw.Text) {
	case "$IF", "$ELSIF":
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		d.Cond = cond
		if d.Then, err = p.expect(stream.Kind(token.Preprocessor).Named("$THEN")); err != nil {
			return nil, err
		}
	case "$ERROR":
		msg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		d.Cond = msg
		if d.End, err = p.expect(stream.Kind(token.Preprocessor).Named("$END")); err != nil {
			return nil, err
		}
	}
	return ast.Finish(d), nil
}

// ===== CREATE =====

func (p *Parser) parseCreatePrefix() *ast.CreatePrefix {
	prefix := &ast.CreatePrefix{Create: p.advance()}
	if orRepl := p.acceptWords("OR", "REPLACE"); orRepl != nil {
		prefix.Or, prefix.Replace = orRepl[0], orRepl[1]
	}
	prefix.Editionable = p.accept(stream.Words("EDITIONABLE", "NONEDITIONABLE", "EDITIONING"))
	return ast.Finish(prefix)
}

func (p *Parser) parseCreate() (ast.Unit, error) {
	prefix := p.parseCreatePrefix()
	switch tok := p.peek(); {
	case tok.Is("FUNCTION") || tok.Is("PROCEDURE"):
		return p.parseRoutineUnit(prefix)
	case tok.Is("PACKAGE") && p.c.PeekN(1).Is("BODY"):
		return p.parsePackageBody(prefix)
	case tok.Is("PACKAGE"):
		return p.parsePackageSpec(prefix)
	case tok.Is("TYPE") && p.c.PeekN(1).Is("BODY"):
		return p.parseOpaqueUnit(prefix, "TYPE BODY", true)
	case tok.Is("TYPE"):
		return p.parseCreateType(prefix)
	case tok.Is("SYNONYM") || (tok.Is("PUBLIC") && p.c.PeekN(1).Is("SYNONYM")):
		return p.parseSynonym(prefix)
	case tok.Kind.IsWord():
		return p.parseOpaqueUnit(prefix, tok.Word(), inSet(bodiedUnits, tok))
	}
	return nil, p.c.Expected("unit type after CREATE")
}

// parseOpaqueUnit keeps an unsupported CREATE statement as tokens. Bodied
// units (triggers, type bodies, Java sources) run to the '/' line; the rest
// to the first ';'.
func (p *Parser) parseOpaqueUnit(prefix *ast.CreatePrefix, unitType string, bodied bool) (ast.Unit, error) {
	start := p.peek()
	if p.Once("opaque:" + unitType) {
		p.report(diag.SynOpaqueUnit, diag.SevInfo, start.Span,
			fmt.Sprintf("CREATE %s is kept as opaque text", unitType))
	}
	name := p.sniffUnitName(len(strings.Fields(unitType)))

	var toks []*token.Token
	var term *ast.Terminator
	if bodied {
		m := p.c.Mark()
		for !p.c.EOF() && !p.atUnitSlash() {
			if p.peek().Kind == token.Semicolon && p.c.PeekN(1).Kind == token.Slash && p.c.PeekN(1).StartsLine() {
				break
			}
			p.c.Next()
		}
		toks = p.c.Since(m)
		term, _ = p.parseTerminator(false)
	} else {
		toks = p.scanToSemi()
		var err error
		if term, err = p.parseTerminator(true); err != nil {
			return nil, err
		}
	}
	u := &ast.OpaqueUnit{Prefix: prefix, UnitType: unitType, Name: name, Toks: toks, Term: term}
	return commented(p, ast.Finish(u)), nil
}

// sniffUnitName guesses the object name after skip type words and the
// usual modifiers, without consuming anything.
func (p *Parser) sniffUnitName(skip int) names.Name {
	m := p.c.Mark()
	defer p.c.Reset(m)
	for range skip {
		p.advance()
	}
	for p.atWord("FORCE", "NOFORCE", "GLOBAL", "TEMPORARY", "PRIVATE", "UNIQUE", "BITMAP", "MATERIALIZED",
		"VIEW", "TABLE", "INDEX", "SOURCE", "COMPILE", "RESOLVE", "JAVA", "CLASS", "RESOURCE", "NAMED") {
		p.advance()
	}
	if !p.at(pIdent) {
		return names.Name{}
	}
	_, n, err := p.parseName()
	if err != nil {
		return names.Name{}
	}
	return n
}

// parseUnitProps reads AUTHID, ACCESSIBLE BY, DEFAULT COLLATION and SHARING.
func (p *Parser) parseUnitProps() ([]*ast.Property, error) {
	var props []*ast.Property
	for {
		var (
			words []*token.Token
			err   error
		)
		switch {
		case p.atWord("AUTHID"):
			words, err = p.c.MatchSequence(stream.Word("AUTHID"), stream.Words("DEFINER", "CURRENT_USER"))
		case p.atWord("ACCESSIBLE"):
			words, err = p.parseAccessibleBy()
		case p.c.AtSequence(pDefault, stream.Word("COLLATION")):
			words, err = p.c.MatchSequence(pDefault, stream.Word("COLLATION"), pIdent)
		case p.atWord("SHARING"):
			words, err = p.c.MatchSequence(stream.Word("SHARING"), stream.Op("="), pIdent)
		default:
			return props, nil
		}
		if err != nil {
			return nil, err
		}
		props = append(props, ast.Finish(&ast.Property{Words: words}))
	}
}

func (p *Parser) parseAccessibleBy() ([]*token.Token, error) {
	head, err := p.c.MatchSequence(stream.Word("ACCESSIBLE"), stream.Word("BY"))
	if err != nil {
		return nil, err
	}
	list, err := p.balanced()
	if err != nil {
		return nil, err
	}
	return append(head, list...), nil
}

// parseEndLabel reads END [name] and warns when the label differs from want.
func (p *Parser) parseEndLabel(want names.Name) (end, label *token.Token, err error) {
	if end, err = p.expectWord("END"); err != nil {
		return nil, nil, err
	}
	label = p.accept(pIdent)
	if label != nil && !want.IsZero() && names.PartValue(label) != want.Last() {
		p.report(diag.SynMismatchedEndLabel, diag.SevWarning, label.Span,
			fmt.Sprintf("END %s does not match %s", label.Text, want.Text()))
	}
	return end, label, nil
}

// ===== packages =====

func (p *Parser) parsePackageSpec(prefix *ast.CreatePrefix) (ast.Unit, error) {
	spec := &ast.PackageSpec{Prefix: prefix, Package: p.advance()}
	var err error
	if spec.NameToks, spec.Name, err = p.parseName(); err != nil {
		return nil, err
	}
	if spec.Props, err = p.parseUnitProps(); err != nil {
		return nil, err
	}
	if spec.Is, err = p.expect(pIsAs); err != nil {
		return nil, err
	}
	if spec.Decls, err = p.parseDecls(true); err != nil {
		return nil, err
	}
	if spec.End, spec.EndName, err = p.parseEndLabel(spec.Name); err != nil {
		return nil, err
	}
	if spec.Term, err = p.parseTerminator(true); err != nil {
		return nil, err
	}
	spec = commented(p, ast.Finish(spec))
	p.resolve(spec, spec.Decls)
	return spec, nil
}

func (p *Parser) parsePackageBody(prefix *ast.CreatePrefix) (ast.Unit, error) {
	body := &ast.PackageBody{Prefix: prefix, Package: p.advance(), BodyTok: p.advance()}
	var err error
	if body.NameToks, body.Name, err = p.parseName(); err != nil {
		return nil, err
	}
	if body.Props, err = p.parseUnitProps(); err != nil {
		return nil, err
	}
	if body.Is, err = p.expect(pIsAs); err != nil {
		return nil, err
	}
	if body.Body, err = p.parseBody(body.Name, true); err != nil {
		return nil, err
	}
	if body.Term, err = p.parseTerminator(true); err != nil {
		return nil, err
	}
	body = commented(p, ast.Finish(body))
	p.resolve(body, body.Decls())
	return body, nil
}

// ===== standalone routines =====

func (p *Parser) parseRoutineUnit(prefix *ast.CreatePrefix) (ast.Unit, error) {
	heading, err := p.parseHeading()
	if err != nil {
		return nil, err
	}
	r := &ast.RoutineUnit{Prefix: prefix, Heading: heading}
	if r.Is = p.accept(pIsAs); r.Is != nil {
		if err := p.rejectCallSpec(); err != nil {
			return nil, err
		}
		if r.Body, err = p.parseBody(heading.Name, false); err != nil {
			return nil, err
		}
	}
	if r.Term, err = p.parseTerminator(true); err != nil {
		return nil, err
	}
	r = commented(p, ast.Finish(r))
	if r.Body != nil {
		p.resolve(r, r.Body.Decls)
	}
	return r, nil
}

// rejectCallSpec fails on LANGUAGE C|JAVA and EXTERNAL bodies.
func (p *Parser) rejectCallSpec() error {
	if tok := p.peek(); tok.Is("LANGUAGE") || tok.Is("EXTERNAL") {
		return &diag.NotImplementedError{Construct: "call specification (" + tok.Word() + ")", Span: tok.Span}
	}
	return nil
}

// ===== object types =====

func (p *Parser) parseCreateType(prefix *ast.CreatePrefix) (ast.Unit, error) {
	typeTok := p.advance()
	nameToks, name, err := p.parseName()
	if err != nil {
		return nil, err
	}
	force := p.acceptWord("FORCE")
	var oid []*token.Token
	if p.atWord("OID") {
		if oid, err = p.c.MatchSequence(stream.Word("OID"), pString); err != nil {
			return nil, err
		}
	}
	props, err := p.parseUnitProps()
	if err != nil {
		return nil, err
	}

	obj := &ast.ObjectType{Prefix: prefix, TypeTok: typeTok, NameToks: nameToks, Name: name, Force: force,
		OID: oid, Props: props}

	switch {
	case p.atWord("UNDER"):
		obj.Under = p.advance()
		if obj.SupertypeToks, obj.Supertype, err = p.parseName(); err != nil {
			return nil, err
		}
	case p.at(pIsAs):
		is := p.advance()
		switch tok := p.peek(); {
		case tok.Is("TABLE"):
			return p.finishNestedTable(prefix, typeTok, nameToks, name, force, props, is)
		case tok.Is("VARRAY") || tok.Is("VARYING"):
			return nil, &diag.NotImplementedError{Construct: "VARRAY", Span: tok.Span}
		case tok.Is("OBJECT"):
			obj.Is, obj.ObjectTok = is, p.advance()
		default:
			return nil, p.c.Expected("OBJECT, TABLE OF or VARRAY")
		}
	default:
		// incomplete type: CREATE TYPE t;
		if obj.Term, err = p.parseTerminator(true); err != nil {
			return nil, err
		}
		return commented(p, ast.Finish(obj)), nil
	}

	if p.at(pLParen) {
		obj.LParen = p.advance()
		if obj.Members, obj.Commas, err = p.parseMembers(); err != nil {
			return nil, err
		}
		if obj.RParen, err = p.expect(pRParen); err != nil {
			return nil, err
		}
	}
	for {
		mod := p.c.TryMatchSequence(stream.Word("NOT"), stream.Words("FINAL", "INSTANTIABLE", "PERSISTABLE"))
		if mod == nil {
			if t := p.accept(stream.Words("FINAL", "INSTANTIABLE", "PERSISTABLE")); t != nil {
				mod = []*token.Token{t}
			}
		}
		if mod == nil {
			break
		}
		obj.Modifiers = append(obj.Modifiers, mod...)
	}
	if obj.Term, err = p.parseTerminator(true); err != nil {
		return nil, err
	}
	for _, m := range obj.Members {
		if r, ok := m.(*ast.RoutineDecl); ok && r.Heading.IsConstructor() {
			r.Heading.PatchResult(name)
		}
	}
	obj = commented(p, ast.Finish(obj))
	p.resolve(obj, obj.Members)
	return obj, nil
}

func (p *Parser) finishNestedTable(prefix *ast.CreatePrefix, typeTok *token.Token, nameToks []*token.Token,
	name names.Name, force *token.Token, props []*ast.Property, is *token.Token,
) (ast.Unit, error) {
	table, err := p.parseTableType()
	if err != nil {
		return nil, err
	}
	term, err := p.parseTerminator(true)
	if err != nil {
		return nil, err
	}
	nt := &ast.NestedTableType{Prefix: prefix, TypeTok: typeTok, NameToks: nameToks, Name: name, Force: force,
		Props: props, Is: is, Table: table, Term: term}
	return commented(p, ast.Finish(nt)), nil
}

// parseMembers reads the comma separated attribute, method and pragma list
// of an object type.
func (p *Parser) parseMembers() ([]ast.Decl, []*token.Token, error) {
	var (
		members []ast.Decl
		commas  []*token.Token
	)
	for {
		m, err := p.parseMember()
		if err != nil {
			return nil, nil, err
		}
		members = append(members, m)
		c := p.accept(pComma)
		if c == nil {
			return members, commas, nil
		}
		commas = append(commas, c)
	}
}

func (p *Parser) parseMember() (ast.Decl, error) {
	switch {
	case p.atWord("PRAGMA"):
		return p.parsePragma(true)
	case p.at(methodStart):
		heading, err := p.parseHeading()
		if err != nil {
			return nil, err
		}
		return commented(p, ast.Finish(&ast.RoutineDecl{Heading: heading})), nil
	}
	nameTok, err := p.expect(pIdent)
	if err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return commented(p, ast.Finish(&ast.AttributeDecl{NameTok: nameTok, Type: typ})), nil
}

// ===== synonyms =====

func (p *Parser) parseSynonym(prefix *ast.CreatePrefix) (ast.Unit, error) {
	syn := &ast.Synonym{Prefix: prefix, Public: p.acceptWord("PUBLIC"), SynonymTok: p.advance()}
	var err error
	if syn.NameToks, syn.Name, err = p.parseName(); err != nil {
		return nil, err
	}
	if syn.For, err = p.expectWord("FOR"); err != nil {
		return nil, err
	}
	if syn.TargetToks, syn.Target, err = p.parseName(); err != nil {
		return nil, err
	}
	if at := p.acceptOp("@"); at != nil {
		syn.Link = []*token.Token{at}
		first, err := p.expect(pIdent)
		if err != nil {
			return nil, err
		}
		syn.Link = append(syn.Link, first)
		for p.c.AtSequence(pDot, pWord) {
			syn.Link = append(syn.Link, p.advance(), p.advance())
		}
	}
	if syn.Term, err = p.parseTerminator(true); err != nil {
		return nil, err
	}
	return commented(p, ast.Finish(syn)), nil
}
