package record

import (
	"fmt"
)

// Placeholder is a 1-based $n reference into the parameter list.
type Placeholder int

// CurrentTimestamp marks a SET column = CURRENT_TIMESTAMP assignment.
type CurrentTimestamp struct{}

// Statement is a parsed SQL statement of the supported subset.
type Statement interface {
	statementNode()
}

type NowStatement struct{}

type SelectStatement struct {
	Query Query
	Count bool
	// LimitValue holds an unbound LIMIT operand; Bind moves it into Query.Limit.
	LimitValue any
}

type InsertStatement struct {
	Table     string
	Columns   []string
	Values    []any
	ReturnAll bool
}

type Assignment struct {
	Column string
	Value  any
}

type UpdateStatement struct {
	Table string
	Set   []Assignment
	ID    any
}

type DeleteStatement struct {
	Table string
	ID    any
}

func (NowStatement) statementNode()    {}
func (SelectStatement) statementNode() {}
func (InsertStatement) statementNode() {}
func (UpdateStatement) statementNode() {}
func (DeleteStatement) statementNode() {}

// Bind resolves every Placeholder in stmt against args.
func Bind(stmt Statement, args []any) (Statement, error) {
	resolve := func(v any) (any, error) {
		p, ok := v.(Placeholder)
		if !ok {
			return v, nil
		}
		if int(p) < 1 || int(p) > len(args) {
			return nil, fmt.Errorf("%w: $%d with %d argument(s)", ErrMissingParameter, p, len(args))
		}
		return args[p-1], nil
	}

	switch s := stmt.(type) {
	case NowStatement:
		return s, nil
	case SelectStatement:
		out := s
		out.Query.Filter = make(Filter, len(s.Query.Filter))
		for i, c := range s.Query.Filter {
			v, err := resolve(c.Value)
			if err != nil {
				return nil, err
			}
			c.Value = v
			out.Query.Filter[i] = c
		}
		if s.LimitValue != nil {
			v, err := resolve(s.LimitValue)
			if err != nil {
				return nil, err
			}
			n, ok := ToInt64(v)
			if !ok || n < 0 {
				return nil, fmt.Errorf("%w: LIMIT %v", ErrUnsupportedStatement, v)
			}
			out.Query.Limit = int(n)
			out.LimitValue = nil
		}
		return out, nil
	case InsertStatement:
		out := s
		out.Values = make([]any, len(s.Values))
		for i, v := range s.Values {
			r, err := resolve(v)
			if err != nil {
				return nil, err
			}
			out.Values[i] = r
		}
		return out, nil
	case UpdateStatement:
		out := s
		out.Set = make([]Assignment, len(s.Set))
		for i, a := range s.Set {
			r, err := resolve(a.Value)
			if err != nil {
				return nil, err
			}
			a.Value = r
			out.Set[i] = a
		}
		id, err := resolve(s.ID)
		if err != nil {
			return nil, err
		}
		out.ID = id
		return out, nil
	case DeleteStatement:
		out := s
		id, err := resolve(s.ID)
		if err != nil {
			return nil, err
		}
		out.ID = id
		return out, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedStatement, stmt)
}
