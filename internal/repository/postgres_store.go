package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Database is the subset of *pgxpool.Pool the Postgres unit of work depends on.
type Database interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// sqlBuilder accumulates positional arguments while rendering SQL fragments.
type sqlBuilder struct {
	args []any
}

func (b *sqlBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *sqlBuilder) where(prefix string, conds []Condition) string {
	if len(conds) == 0 {
		return ""
	}
	clauses := make([]string, 0, len(conds))
	for _, c := range conds {
		clauses = append(clauses, b.condition(prefix, c))
	}
	return " WHERE " + strings.Join(clauses, " AND ")
}

func (b *sqlBuilder) condition(prefix string, c Condition) string {
	col := prefix + c.column
	switch c.kind {
	case condEq:
		if c.value == nil {
			return col + " IS NULL"
		}
		return fmt.Sprintf("%s=%s", col, b.arg(c.value))
	case condEqFold:
		return fmt.Sprintf("LOWER(%s)=LOWER(%s)", col, b.arg(c.value))
	case condIsNull:
		return col + " IS NULL"
	case condGte:
		return fmt.Sprintf("%s >= %s", col, b.arg(c.value))
	case condLte:
		return fmt.Sprintf("%s <= %s", col, b.arg(c.value))
	case condContainsFold:
		placeholder := b.arg("%" + escapeLike(strings.ToLower(fmt.Sprint(c.value))) + "%")
		parts := make([]string, len(c.columns))
		for i, column := range c.columns {
			parts[i] = fmt.Sprintf("LOWER(%s%s) LIKE %s ESCAPE '\\'", prefix, column, placeholder)
		}
		return "(" + strings.Join(parts, " OR ") + ")"
	case condAnyOf:
		if len(c.group) == 0 {
			return "FALSE"
		}
		parts := make([]string, len(c.group))
		for i, inner := range c.group {
			parts[i] = b.condition(prefix, inner)
		}
		return "(" + strings.Join(parts, " OR ") + ")"
	}
	return "TRUE"
}

func (b *sqlBuilder) orderAndPage(prefix string, orders []Order, limit, offset int) string {
	var sb strings.Builder
	parts := make([]string, 0, len(orders)+1)
	for _, o := range orders {
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts = append(parts, fmt.Sprintf("%s%s %s", prefix, o.Column, dir))
	}
	parts = append(parts, prefix+"id ASC")
	sb.WriteString(" ORDER BY ")
	sb.WriteString(strings.Join(parts, ", "))
	if limit > 0 {
		sb.WriteString(" LIMIT " + b.arg(limit))
	}
	if offset > 0 {
		sb.WriteString(" OFFSET " + b.arg(offset))
	}
	return sb.String()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func qualified(prefix string, columns []string) string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = prefix + c
	}
	return strings.Join(out, ", ")
}

// translatePgError maps driver errors onto repository sentinels.
func translatePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503", "23505":
			return fmt.Errorf("%w: %s", ErrConstraint, pgErr.ConstraintName)
		}
	}
	return err
}

type pgStore[T any] struct {
	uow *pgUnitOfWork
	t   *table[T]
}

func newPgStore[T any](uow *pgUnitOfWork, t *table[T]) *pgStore[T] {
	return &pgStore[T]{uow: uow, t: t}
}

func (s *pgStore[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id=$1`, qualified("", s.t.columns), s.t.name)
	entity, err := s.t.scan(s.uow.conn().QueryRow(ctx, query, id))
	if err != nil {
		return nil, translatePgError(err)
	}
	return entity, nil
}

func (s *pgStore[T]) Find(ctx context.Context, conds ...Condition) ([]T, error) {
	return s.Query(ctx, QueryOptions{Where: conds})
}

func (s *pgStore[T]) FirstOrDefault(ctx context.Context, conds ...Condition) (*T, error) {
	items, err := s.Query(ctx, QueryOptions{Where: conds, Limit: 1})
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return &items[0], nil
}

func (s *pgStore[T]) Any(ctx context.Context, conds ...Condition) (bool, error) {
	if err := validateColumns(s.t.columnSet, conds, nil); err != nil {
		return false, err
	}
	b := &sqlBuilder{}
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s%s)`, s.t.name, b.where("", conds))
	var exists bool
	if err := s.uow.conn().QueryRow(ctx, query, b.args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *pgStore[T]) Count(ctx context.Context, conds ...Condition) (int, error) {
	if err := validateColumns(s.t.columnSet, conds, nil); err != nil {
		return 0, err
	}
	b := &sqlBuilder{}
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, s.t.name, b.where("", conds))
	var count int
	if err := s.uow.conn().QueryRow(ctx, query, b.args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *pgStore[T]) Query(ctx context.Context, opts QueryOptions) ([]T, error) {
	if err := validateColumns(s.t.columnSet, opts.Where, opts.OrderBy); err != nil {
		return nil, err
	}
	b := &sqlBuilder{}
	query := fmt.Sprintf(`SELECT %s FROM %s`, qualified("", s.t.columns), s.t.name) +
		b.where("", opts.Where) +
		b.orderAndPage("", opts.OrderBy, opts.Limit, opts.Offset)

	rows, err := s.uow.conn().Query(ctx, query, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []T
	for rows.Next() {
		entity, err := s.t.scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *entity)
	}
	return result, rows.Err()
}

// Add, Update and Remove read entity values when SaveChanges runs, so later
// in-memory edits to a staged entity are persisted too.

func (s *pgStore[T]) Add(entity *T) {
	placeholders := make([]string, len(s.t.columns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		s.t.name, qualified("", s.t.columns), strings.Join(placeholders, ","))
	s.uow.stage(func(ctx context.Context, q querier) error {
		_, err := q.Exec(ctx, query, s.t.values(entity)...)
		return err
	})
}

func (s *pgStore[T]) Update(entity *T) {
	sets := make([]string, 0, len(s.t.columns)-1)
	for i, col := range s.t.columns[1:] {
		sets = append(sets, fmt.Sprintf("%s=$%d", col, i+2))
	}
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id=$1`, s.t.name, strings.Join(sets, ", "))
	s.uow.stage(func(ctx context.Context, q querier) error {
		cmd, err := q.Exec(ctx, query, s.t.values(entity)...)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *pgStore[T]) Remove(entity *T) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id=$1`, s.t.name)
	s.uow.stage(func(ctx context.Context, q querier) error {
		_, err := q.Exec(ctx, query, s.t.id(entity))
		return err
	})
}
