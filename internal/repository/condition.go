package repository

import "fmt"

type conditionKind int

const (
	condEq conditionKind = iota
	condEqFold
	condIsNull
	condGte
	condLte
	condContainsFold
	condAnyOf
)

// Condition is one predicate over a table column. Conditions passed together are ANDed.
type Condition struct {
	kind    conditionKind
	column  string
	columns []string
	value   any
	group   []Condition
}

// Eq matches rows whose column equals value.
func Eq(column string, value any) Condition {
	return Condition{kind: condEq, column: column, value: value}
}

// EqFold matches rows whose text column equals value, ignoring case.
func EqFold(column, value string) Condition {
	return Condition{kind: condEqFold, column: column, value: value}
}

// IsNull matches rows whose column is NULL.
func IsNull(column string) Condition {
	return Condition{kind: condIsNull, column: column}
}

// Gte matches rows whose column is non-NULL and >= value.
func Gte(column string, value any) Condition {
	return Condition{kind: condGte, column: column, value: value}
}

// Lte matches rows whose column is non-NULL and <= value.
func Lte(column string, value any) Condition {
	return Condition{kind: condLte, column: column, value: value}
}

// ContainsFold matches rows where any of columns contains term, ignoring case.
func ContainsFold(term string, columns ...string) Condition {
	return Condition{kind: condContainsFold, columns: columns, value: term}
}

// AnyOf matches rows satisfying at least one of conds.
func AnyOf(conds ...Condition) Condition {
	return Condition{kind: condAnyOf, group: conds}
}

// Order sorts by one column. NULLs sort after every value ascending and before
// every value descending.
type Order struct {
	Column string
	Desc   bool
}

// QueryOptions composes filter, sort and pagination.
type QueryOptions struct {
	Where   []Condition
	OrderBy []Order
	Limit   int
	Offset  int
}

// validateColumns rejects references to columns the table does not declare.
func validateColumns(t columnSet, conds []Condition, orders []Order) error {
	for _, c := range conds {
		if err := validateCondition(t, c); err != nil {
			return err
		}
	}
	for _, o := range orders {
		if t.columnIndex(o.Column) < 0 {
			return fmt.Errorf("%s: unknown sort column %q", t.name, o.Column)
		}
	}
	return nil
}

func validateCondition(t columnSet, c Condition) error {
	switch c.kind {
	case condAnyOf:
		for _, inner := range c.group {
			if err := validateCondition(t, inner); err != nil {
				return err
			}
		}
	case condContainsFold:
		for _, col := range c.columns {
			if t.columnIndex(col) < 0 {
				return fmt.Errorf("%s: unknown column %q", t.name, col)
			}
		}
	default:
		if t.columnIndex(c.column) < 0 {
			return fmt.Errorf("%s: unknown column %q", t.name, c.column)
		}
	}
	return nil
}
