package repository

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/task-team-service/internal/domain"
)

type memberKey struct {
	teamID uuid.UUID
	userID uuid.UUID
}

// MemoryDB is a process-local store used when no database is configured and by tests.
type MemoryDB struct {
	mu sync.Mutex

	users     map[uuid.UUID]domain.User
	teams     map[uuid.UUID]domain.Team
	tasks     map[uuid.UUID]domain.Task
	roles     map[uuid.UUID]domain.Role
	userRoles map[domain.UserRoleAssignment]struct{}
	members   map[memberKey]domain.TeamMember
}

// NewMemoryDB returns an empty store.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		users:     map[uuid.UUID]domain.User{},
		teams:     map[uuid.UUID]domain.Team{},
		tasks:     map[uuid.UUID]domain.Task{},
		roles:     map[uuid.UUID]domain.Role{},
		userRoles: map[domain.UserRoleAssignment]struct{}{},
		members:   map[memberKey]domain.TeamMember{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (db *MemoryDB) snapshot() *MemoryDB {
	return &MemoryDB{
		users:     cloneMap(db.users),
		teams:     cloneMap(db.teams),
		tasks:     cloneMap(db.tasks),
		roles:     cloneMap(db.roles),
		userRoles: cloneMap(db.userRoles),
		members:   cloneMap(db.members),
	}
}

func (db *MemoryDB) restore(s *MemoryDB) {
	db.users = s.users
	db.teams = s.teams
	db.tasks = s.tasks
	db.roles = s.roles
	db.userRoles = s.userRoles
	db.members = s.members
}

// memTable binds a table descriptor to the map holding its rows and to the
// integrity checks run before each write.
type memTable[T any] struct {
	*table[T]
	rows          func(db *MemoryDB) map[uuid.UUID]T
	checkWrite    func(db *MemoryDB, entity *T) error
	beforeRemove  func(db *MemoryDB, id uuid.UUID) error
	prepareInsert func(entity T) T
}

type memStore[T any] struct {
	uow *memoryUnitOfWork
	t   *memTable[T]
}

func (s *memStore[T]) GetByID(_ context.Context, id uuid.UUID) (*T, error) {
	var (
		entity T
		ok     bool
	)
	s.uow.read(func(db *MemoryDB) {
		entity, ok = s.t.rows(db)[id]
	})
	if !ok {
		return nil, ErrNotFound
	}
	return &entity, nil
}

func (s *memStore[T]) Find(ctx context.Context, conds ...Condition) ([]T, error) {
	return s.Query(ctx, QueryOptions{Where: conds})
}

func (s *memStore[T]) FirstOrDefault(ctx context.Context, conds ...Condition) (*T, error) {
	items, err := s.Query(ctx, QueryOptions{Where: conds, Limit: 1})
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return &items[0], nil
}

func (s *memStore[T]) Any(ctx context.Context, conds ...Condition) (bool, error) {
	n, err := s.Count(ctx, conds...)
	return n > 0, err
}

func (s *memStore[T]) Count(_ context.Context, conds ...Condition) (int, error) {
	if err := validateColumns(s.t.columnSet, conds, nil); err != nil {
		return 0, err
	}
	count := 0
	s.uow.read(func(db *MemoryDB) {
		for _, row := range s.t.rows(db) {
			row := row
			if matchesAll(s.t.table, &row, conds) {
				count++
			}
		}
	})
	return count, nil
}

func (s *memStore[T]) Query(_ context.Context, opts QueryOptions) ([]T, error) {
	if err := validateColumns(s.t.columnSet, opts.Where, opts.OrderBy); err != nil {
		return nil, err
	}
	var result []T
	s.uow.read(func(db *MemoryDB) {
		for _, row := range s.t.rows(db) {
			row := row
			if matchesAll(s.t.table, &row, opts.Where) {
				result = append(result, row)
			}
		}
	})
	sortRows(s.t.table, result, opts.OrderBy)
	return page(result, opts.Limit, opts.Offset), nil
}

func (s *memStore[T]) Add(entity *T) {
	s.uow.stage(func(db *MemoryDB) error {
		rows := s.t.rows(db)
		id := s.t.id(entity)
		if _, exists := rows[id]; exists {
			return fmt.Errorf("%w: duplicate %s id %s", ErrConstraint, s.t.name, id)
		}
		if s.t.checkWrite != nil {
			if err := s.t.checkWrite(db, entity); err != nil {
				return err
			}
		}
		row := *entity
		if s.t.prepareInsert != nil {
			row = s.t.prepareInsert(row)
		}
		rows[id] = row
		return nil
	})
}

func (s *memStore[T]) Update(entity *T) {
	s.uow.stage(func(db *MemoryDB) error {
		rows := s.t.rows(db)
		id := s.t.id(entity)
		if _, exists := rows[id]; !exists {
			return ErrNotFound
		}
		if s.t.checkWrite != nil {
			if err := s.t.checkWrite(db, entity); err != nil {
				return err
			}
		}
		row := *entity
		if s.t.prepareInsert != nil {
			row = s.t.prepareInsert(row)
		}
		rows[id] = row
		return nil
	})
}

func (s *memStore[T]) Remove(entity *T) {
	s.uow.stage(func(db *MemoryDB) error {
		id := s.t.id(entity)
		if s.t.beforeRemove != nil {
			if err := s.t.beforeRemove(db, id); err != nil {
				return err
			}
		}
		delete(s.t.rows(db), id)
		return nil
	})
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func matchesAll[T any](t *table[T], entity *T, conds []Condition) bool {
	for _, c := range conds {
		if !matches(t, entity, c) {
			return false
		}
	}
	return true
}

func matches[T any](t *table[T], entity *T, c Condition) bool {
	switch c.kind {
	case condAnyOf:
		for _, inner := range c.group {
			if matches(t, entity, inner) {
				return true
			}
		}
		return false
	case condContainsFold:
		term := strings.ToLower(fmt.Sprint(c.value))
		for _, col := range c.columns {
			if s, ok := normalize(t.value(entity, col)).(string); ok && strings.Contains(strings.ToLower(s), term) {
				return true
			}
		}
		return false
	}

	v := normalize(t.value(entity, c.column))
	switch c.kind {
	case condEq:
		want := normalize(c.value)
		if want == nil {
			return v == nil
		}
		return v != nil && compareValues(v, want) == 0
	case condEqFold:
		s, ok := v.(string)
		return ok && strings.EqualFold(s, fmt.Sprint(c.value))
	case condIsNull:
		return v == nil
	case condGte:
		return v != nil && compareValues(v, normalize(c.value)) >= 0
	case condLte:
		return v != nil && compareValues(v, normalize(c.value)) <= 0
	}
	return false
}

func normalize(v any) any {
	switch x := v.(type) {
	case *uuid.UUID:
		if x == nil {
			return nil
		}
		return *x
	case *time.Time:
		if x == nil {
			return nil
		}
		return *x
	case *string:
		if x == nil {
			return nil
		}
		return *x
	case int16:
		return int(x)
	case int32:
		return int(x)
	case int64:
		return int(x)
	}
	return v
}

// compareValues orders two normalized values. nil sorts after everything.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case int:
		if y, ok := b.(int); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case uuid.UUID:
		if y, ok := b.(uuid.UUID); ok {
			return bytes.Compare(x[:], y[:])
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			}
			return 1
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func sortRows[T any](t *table[T], rows []T, orders []Order) {
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range orders {
			c := compareValues(normalize(t.value(&rows[i], o.Column)), normalize(t.value(&rows[j], o.Column)))
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		a, b := t.id(&rows[i]), t.id(&rows[j])
		return bytes.Compare(a[:], b[:]) < 0
	})
}
