// Package sqlsubset parses the small family of SQL statements the HRIS
// data layer issues, so they can run against the JSON document store.
//
// Supported shapes:
//
//	SELECT NOW()
//	SELECT * | COUNT(*) FROM t [WHERE c op v [AND ...]] [ORDER BY c [ASC|DESC]] [LIMIT n]
//	INSERT INTO t (c1, c2, ...) VALUES (v1, v2, ...) [RETURNING ...]
//	UPDATE t SET c = v | c = CURRENT_TIMESTAMP [, ...] WHERE id = v
//	DELETE FROM t WHERE id = v
//
// where op is one of =, LIKE, ILIKE, >=, <= and v is a $n placeholder or a
// literal. Anything else is rejected.
package sqlsubset

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/record"
)

type parser struct {
	tokens []token
	pos    int
}

// Parse turns sql into a statement with unbound placeholders.
func Parse(sql string) (record.Statement, error) {
	tokens, err := lex(sql)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", record.ErrUnsupportedStatement, err)
	}
	p := &parser{tokens: tokens}

	head := p.peek()
	var stmt record.Statement
	switch {
	case head.keyword("SELECT"):
		stmt, err = p.parseSelect()
	case head.keyword("INSERT"):
		stmt, err = p.parseInsert()
	case head.keyword("UPDATE"):
		stmt, err = p.parseUpdate()
	case head.keyword("DELETE"):
		stmt, err = p.parseDelete()
	default:
		return nil, fmt.Errorf("%w: %q", record.ErrUnsupportedStatement, head.String())
	}
	if err != nil {
		return nil, err
	}

	if p.peek().symbol(";") {
		p.next()
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %q at offset %d", record.ErrUnsupportedStatement, t.String(), t.pos)
	}
	return stmt, nil
}

// ParseAndBind parses sql and resolves its placeholders against args.
func ParseAndBind(sql string, args []any) (record.Statement, error) {
	stmt, err := Parse(sql)
	if err != nil {
		return nil, err
	}
	return record.Bind(stmt, args)
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) unexpected(t token, want string) error {
	return fmt.Errorf("%w: expected %s, got %q at offset %d", record.ErrUnsupportedStatement, want, t.String(), t.pos)
}

func (p *parser) expectKeyword(kw string) error {
	t := p.next()
	if !t.keyword(kw) {
		return p.unexpected(t, kw)
	}
	return nil
}

func (p *parser) expectSymbol(s string) error {
	t := p.next()
	if !t.symbol(s) {
		return p.unexpected(t, strconv.Quote(s))
	}
	return nil
}

func (p *parser) identifier() (string, error) {
	t := p.next()
	if t.kind != tokIdent && t.kind != tokQuotedIdent {
		return "", p.unexpected(t, "identifier")
	}
	name := t.text
	// Accept a schema-qualified name and keep the table part.
	if t.kind == tokIdent {
		if i := strings.LastIndexByte(name, '.'); i >= 0 {
			name = name[i+1:]
		}
	}
	if !record.ValidIdentifier(name) {
		return "", fmt.Errorf("%w: %q", record.ErrInvalidIdentifier, name)
	}
	return name, nil
}

// operand parses a placeholder or a literal.
func (p *parser) operand() (any, error) {
	t := p.next()
	switch t.kind {
	case tokPlaceholder:
		n, err := strconv.Atoi(t.text[1:])
		if err != nil || n < 1 {
			return nil, p.unexpected(t, "placeholder")
		}
		return record.Placeholder(n), nil
	case tokNumber:
		return json.Number(t.text), nil
	case tokString:
		return t.text, nil
	case tokIdent:
		switch {
		case t.keyword("NULL"):
			return nil, nil
		case t.keyword("TRUE"):
			return true, nil
		case t.keyword("FALSE"):
			return false, nil
		}
	}
	return nil, p.unexpected(t, "placeholder or literal")
}

func (p *parser) isTimestampExpr() bool {
	t := p.peek()
	if t.keyword("CURRENT_TIMESTAMP") {
		p.next()
		return true
	}
	if t.keyword("NOW") && p.tokens[p.pos+1].symbol("(") {
		p.next()
		p.next()
		if p.peek().symbol(")") {
			p.next()
			return true
		}
		p.pos -= 2
	}
	return false
}

func (p *parser) parseSelect() (record.Statement, error) {
	p.next() // SELECT

	var stmt record.SelectStatement
	t := p.next()
	switch {
	case t.keyword("NOW"):
		if err := p.expectSymbol("("); err != nil {
			return nil, err
		}
		if err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		if p.peek().keyword("AS") {
			p.next()
			if _, err := p.identifier(); err != nil {
				return nil, err
			}
		}
		return record.NowStatement{}, nil
	case t.symbol("*"):
	case t.keyword("COUNT"):
		if err := p.expectSymbol("("); err != nil {
			return nil, err
		}
		if err := p.expectSymbol("*"); err != nil {
			return nil, err
		}
		if err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		if p.peek().keyword("AS") {
			p.next()
			if _, err := p.identifier(); err != nil {
				return nil, err
			}
		}
		stmt.Count = true
	default:
		return nil, p.unexpected(t, "* or COUNT(*)")
	}

	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	table, err := p.identifier()
	if err != nil {
		return nil, err
	}
	stmt.Query.Table = table

	if p.peek().keyword("WHERE") {
		p.next()
		filter, err := p.parseConjunction()
		if err != nil {
			return nil, err
		}
		stmt.Query.Filter = filter
	}

	if p.peek().keyword("ORDER") {
		p.next()
		if err := p.expectKeyword("BY"); err != nil {
			return nil, err
		}
		col, err := p.identifier()
		if err != nil {
			return nil, err
		}
		order := &record.Order{Column: col}
		switch {
		case p.peek().keyword("ASC"):
			p.next()
		case p.peek().keyword("DESC"):
			p.next()
			order.Desc = true
		}
		if p.peek().symbol(",") {
			return nil, fmt.Errorf("%w: multi-column ORDER BY", record.ErrUnsupportedStatement)
		}
		stmt.Query.Order = order
	}

	if p.peek().keyword("LIMIT") {
		p.next()
		v, err := p.operand()
		if err != nil {
			return nil, err
		}
		stmt.LimitValue = v
	}

	return stmt, nil
}

func (p *parser) parseConjunction() (record.Filter, error) {
	var filter record.Filter
	for {
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		filter = append(filter, cond)

		t := p.peek()
		switch {
		case t.keyword("AND"):
			p.next()
		case t.keyword("OR"):
			return nil, fmt.Errorf("%w: OR at offset %d", record.ErrUnsupportedPredicate, t.pos)
		default:
			return filter, nil
		}
	}
}

func (p *parser) parseCondition() (record.Condition, error) {
	if t := p.peek(); t.symbol("(") || t.keyword("NOT") || t.keyword("EXISTS") {
		return record.Condition{}, fmt.Errorf("%w: %q at offset %d", record.ErrUnsupportedPredicate, t.String(), t.pos)
	}

	colTok := p.peek()
	col, err := p.identifier()
	if err != nil {
		return record.Condition{}, fmt.Errorf("%w: %v", record.ErrUnsupportedPredicate, err)
	}
	if p.peek().symbol("(") {
		return record.Condition{}, fmt.Errorf("%w: function %s() at offset %d", record.ErrUnsupportedPredicate, colTok.text, colTok.pos)
	}

	opTok := p.next()
	var op record.Op
	switch {
	case opTok.symbol("="):
		op = record.OpEq
	case opTok.symbol(">="):
		op = record.OpGte
	case opTok.symbol("<="):
		op = record.OpLte
	case opTok.keyword("LIKE"), opTok.keyword("ILIKE"):
		op = record.OpLike
	default:
		return record.Condition{}, fmt.Errorf("%w: operator %q at offset %d", record.ErrUnsupportedPredicate, opTok.String(), opTok.pos)
	}

	v, err := p.operand()
	if err != nil {
		return record.Condition{}, fmt.Errorf("%w: %v", record.ErrUnsupportedPredicate, err)
	}
	return record.Condition{Column: col, Op: op, Value: v}, nil
}

func (p *parser) parseInsert() (record.Statement, error) {
	p.next() // INSERT
	if err := p.expectKeyword("INTO"); err != nil {
		return nil, err
	}
	table, err := p.identifier()
	if err != nil {
		return nil, err
	}
	stmt := record.InsertStatement{Table: table}

	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	for {
		col, err := p.identifier()
		if err != nil {
			return nil, err
		}
		stmt.Columns = append(stmt.Columns, col)
		if p.peek().symbol(",") {
			p.next()
			continue
		}
		break
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}

	if err := p.expectKeyword("VALUES"); err != nil {
		return nil, err
	}
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	for {
		if p.isTimestampExpr() {
			stmt.Values = append(stmt.Values, record.CurrentTimestamp{})
		} else {
			v, err := p.operand()
			if err != nil {
				return nil, err
			}
			stmt.Values = append(stmt.Values, v)
		}
		if p.peek().symbol(",") {
			p.next()
			continue
		}
		break
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	if p.peek().symbol(",") {
		return nil, fmt.Errorf("%w: multi-row VALUES", record.ErrUnsupportedStatement)
	}
	if len(stmt.Values) != len(stmt.Columns) {
		return nil, fmt.Errorf("%w: %d columns but %d values", record.ErrUnsupportedStatement, len(stmt.Columns), len(stmt.Values))
	}

	if p.peek().keyword("RETURNING") {
		p.next()
		if p.peek().symbol("*") {
			p.next()
			stmt.ReturnAll = true
		} else {
			for {
				if _, err := p.identifier(); err != nil {
					return nil, err
				}
				if p.peek().symbol(",") {
					p.next()
					continue
				}
				break
			}
		}
	}
	return stmt, nil
}

func (p *parser) parseUpdate() (record.Statement, error) {
	p.next() // UPDATE
	table, err := p.identifier()
	if err != nil {
		return nil, err
	}
	stmt := record.UpdateStatement{Table: table}

	if err := p.expectKeyword("SET"); err != nil {
		return nil, err
	}
	for {
		col, err := p.identifier()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol("="); err != nil {
			return nil, err
		}
		var v any
		if p.isTimestampExpr() {
			v = record.CurrentTimestamp{}
		} else {
			v, err = p.operand()
			if err != nil {
				return nil, err
			}
		}
		stmt.Set = append(stmt.Set, record.Assignment{Column: col, Value: v})
		if p.peek().symbol(",") {
			p.next()
			continue
		}
		break
	}

	id, err := p.parseByID(record.ErrUpdateRequiresID)
	if err != nil {
		return nil, err
	}
	stmt.ID = id
	return stmt, nil
}

func (p *parser) parseDelete() (record.Statement, error) {
	p.next() // DELETE
	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	table, err := p.identifier()
	if err != nil {
		return nil, err
	}
	id, err := p.parseByID(record.ErrDeleteRequiresID)
	if err != nil {
		return nil, err
	}
	return record.DeleteStatement{Table: table, ID: id}, nil
}

// parseByID accepts exactly WHERE id = v and nothing else.
func (p *parser) parseByID(shapeErr error) (any, error) {
	if !p.peek().keyword("WHERE") {
		return nil, shapeErr
	}
	p.next()
	if !p.peek().keyword("id") {
		return nil, shapeErr
	}
	p.next()
	if !p.peek().symbol("=") {
		return nil, shapeErr
	}
	p.next()
	v, err := p.operand()
	if err != nil {
		return nil, shapeErr
	}
	if t := p.peek(); t.kind != tokEOF && !t.symbol(";") && !t.keyword("RETURNING") {
		return nil, shapeErr
	}
	if p.peek().keyword("RETURNING") {
		p.next()
		for p.peek().kind != tokEOF && !p.peek().symbol(";") {
			p.next()
		}
	}
	return v, nil
}
