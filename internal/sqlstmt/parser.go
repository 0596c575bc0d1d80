package sqlstmt

import (
	"github.com/pkg/errors"
)

// Parse turns SQL text into a Stmt.
func Parse(sql string) (Stmt, error) {
	p := &parser{lex: newLexer(sql)}
	if err := p.advance(); err != nil {
		return nil, err
	}

	var (
		stmt Stmt
		err  error
	)
	switch {
	case p.cur.isKeyword("select"):
		stmt, err = p.parseSelect()
	case p.cur.isKeyword("insert"):
		stmt, err = p.parseInsert()
	case p.cur.isKeyword("delete"):
		stmt, err = p.parseDelete()
	default:
		return nil, errors.Errorf("sqlstmt: expected select, insert, or delete, got %q", p.cur.text)
	}
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, errors.Errorf("sqlstmt: unexpected trailing input near %q", p.cur.text)
	}
	return stmt, nil
}

type parser struct {
	lex *lexer
	cur token
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

func (p *parser) expectKeyword(kw string) error {
	if !p.cur.isKeyword(kw) {
		return errors.Errorf("sqlstmt: expected %q, got %q", kw, p.cur.text)
	}
	return p.advance()
}

func (p *parser) expectKind(kind tokenKind, what string) (token, error) {
	if p.cur.kind != kind {
		return token{}, errors.Errorf("sqlstmt: expected %s, got %q", what, p.cur.text)
	}
	t := p.cur
	return t, p.advance()
}

func (p *parser) parseQualifiedName() (db, table string, err error) {
	dbTok, err := p.expectKind(tokIdent, "database name")
	if err != nil {
		return "", "", err
	}
	if _, err := p.expectKind(tokDot, "'.'"); err != nil {
		return "", "", err
	}
	tblTok, err := p.expectKind(tokIdent, "table name")
	if err != nil {
		return "", "", err
	}
	return dbTok.text, tblTok.text, nil
}

func (p *parser) parseSelect() (Stmt, error) {
	if err := p.expectKeyword("select"); err != nil {
		return nil, err
	}

	var projection Expr
	switch {
	case p.cur.kind == tokStar:
		projection = All{}
		if err := p.advance(); err != nil {
			return nil, err
		}
	case p.cur.isKeyword("count"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expectKind(tokLParen, "'('"); err != nil {
			return nil, err
		}
		if _, err := p.expectKind(tokRParen, "')'"); err != nil {
			return nil, err
		}
		projection = Count{}
	default:
		return nil, errors.Errorf("sqlstmt: expected '*' or 'count()', got %q", p.cur.text)
	}

	if err := p.expectKeyword("from"); err != nil {
		return nil, err
	}
	db, table, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}

	var where Expr
	if p.cur.isKeyword("where") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		where, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}

	var orderBy string
	if p.cur.isKeyword("order") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectKeyword("by"); err != nil {
			return nil, err
		}
		ident, err := p.expectKind(tokIdent, "column name")
		if err != nil {
			return nil, err
		}
		orderBy = ident.text
	}

	return Select{Projection: projection, Db: db, Table: table, Where: where, OrderBy: orderBy}, nil
}

func (p *parser) parseInsert() (Stmt, error) {
	if err := p.expectKeyword("insert"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("into"); err != nil {
		return nil, err
	}
	db, table, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}

	keys, err := p.parseIdentList()
	if err != nil {
		return nil, err
	}

	if err := p.expectKeyword("values"); err != nil {
		return nil, err
	}

	var rows [][]string
	for {
		row, err := p.parseLiteralRow()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
		if p.cur.kind != tokComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	return Insert{Db: db, Table: table, Keys: keys, Rows: rows}, nil
}

func (p *parser) parseIdentList() ([]string, error) {
	if _, err := p.expectKind(tokLParen, "'('"); err != nil {
		return nil, err
	}
	var idents []string
	for {
		t, err := p.expectKind(tokIdent, "column name")
		if err != nil {
			return nil, err
		}
		idents = append(idents, t.text)
		if p.cur.kind != tokComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expectKind(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return idents, nil
}

func (p *parser) parseLiteralRow() ([]string, error) {
	if _, err := p.expectKind(tokLParen, "'('"); err != nil {
		return nil, err
	}
	var values []string
	for {
		if p.cur.kind != tokNumber && p.cur.kind != tokIdent {
			return nil, errors.Errorf("sqlstmt: expected a literal value, got %q", p.cur.text)
		}
		values = append(values, p.cur.text)
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.kind != tokComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expectKind(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return values, nil
}

func (p *parser) parseDelete() (Stmt, error) {
	if err := p.expectKeyword("delete"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("from"); err != nil {
		return nil, err
	}
	db, table, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}

	var where Expr
	if p.cur.isKeyword("where") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		where, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}

	return Delete{Db: db, Table: table, Where: where}, nil
}

// parseExpr parses '<primary> [ = <primary> ]'.
func (p *parser) parseExpr() (Expr, error) {
	left, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.kind == tokEq {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parsePrimaryExpr()
		if err != nil {
			return nil, err
		}
		return OpEq{Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *parser) parsePrimaryExpr() (Expr, error) {
	switch {
	case p.cur.isKeyword("true"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Bool(true), nil
	case p.cur.isKeyword("false"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Bool(false), nil
	case p.cur.kind == tokNumber:
		n, err := parseInt32(p.cur.text)
		if err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Number(n), nil
	case p.cur.kind == tokIdent:
		name := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ColumnRef(name), nil
	default:
		return nil, errors.Errorf("sqlstmt: expected an expression, got %q", p.cur.text)
	}
}
