package record

import "strings"

// Op is one of the four comparison operators both backends support.
type Op string

const (
	OpEq   Op = "="
	OpLike Op = "LIKE"
	OpGte  Op = ">="
	OpLte  Op = "<="
)

func (o Op) Valid() bool {
	switch o {
	case OpEq, OpLike, OpGte, OpLte:
		return true
	}
	return false
}

// Condition compares one column against a value. After parsing, Value may
// still be a Placeholder until the statement is bound.
type Condition struct {
	Column string
	Op     Op
	Value  any
}

// Filter is a conjunction. There is no OR and no nesting.
type Filter []Condition

func Eq(col string, v any) Condition   { return Condition{Column: col, Op: OpEq, Value: v} }
func Like(col string, v any) Condition { return Condition{Column: col, Op: OpLike, Value: v} }
func Gte(col string, v any) Condition  { return Condition{Column: col, Op: OpGte, Value: v} }
func Lte(col string, v any) Condition  { return Condition{Column: col, Op: OpLte, Value: v} }

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike quotes the LIKE wildcards in s so it matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Where builds a filter from conditions.
func Where(conds ...Condition) Filter {
	return Filter(conds)
}

type Order struct {
	Column string
	Desc   bool
}

// Query selects rows from one table.
type Query struct {
	Table  string
	Filter Filter
	Order  *Order
	Limit  int
}

func OrderBy(col string, desc bool) *Order {
	return &Order{Column: col, Desc: desc}
}
