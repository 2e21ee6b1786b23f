package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type pgMutation func(ctx context.Context, q querier) error

type pgUnitOfWork struct {
	db      Database
	tx      pgx.Tx
	pending []pgMutation

	users *pgUserRepository
	teams *pgTeamRepository
	tasks *pgTaskRepository
	roles *pgRoleRepository
}

type pgUnitOfWorkFactory struct {
	db Database
}

// NewPostgresUnitOfWorkFactory builds units of work backed by db.
func NewPostgresUnitOfWorkFactory(db Database) UnitOfWorkFactory {
	return &pgUnitOfWorkFactory{db: db}
}

func (f *pgUnitOfWorkFactory) New() UnitOfWork {
	uow := &pgUnitOfWork{db: f.db}
	uow.users = &pgUserRepository{pgStore: newPgStore(uow, usersTable)}
	uow.teams = &pgTeamRepository{pgStore: newPgStore(uow, teamsTable)}
	uow.tasks = &pgTaskRepository{pgStore: newPgStore(uow, tasksTable)}
	uow.roles = &pgRoleRepository{pgStore: newPgStore(uow, rolesTable)}
	return uow
}

func (u *pgUnitOfWork) Users() UserRepository { return u.users }
func (u *pgUnitOfWork) Teams() TeamRepository { return u.teams }
func (u *pgUnitOfWork) Tasks() TaskRepository { return u.tasks }
func (u *pgUnitOfWork) Roles() RoleRepository { return u.roles }

func (u *pgUnitOfWork) conn() querier {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *pgUnitOfWork) stage(m pgMutation) {
	u.pending = append(u.pending, m)
}

func (u *pgUnitOfWork) SaveChanges(ctx context.Context) (int, error) {
	pending := u.pending
	u.pending = nil
	if len(pending) == 0 {
		return 0, nil
	}

	if u.tx != nil {
		if err := apply(ctx, u.tx, pending); err != nil {
			return 0, err
		}
		return len(pending), nil
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	if err := apply(ctx, tx, pending); err != nil {
		_ = tx.Rollback(ctx)
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(pending), nil
}

func apply(ctx context.Context, q querier, pending []pgMutation) error {
	for _, m := range pending {
		if err := m(ctx, q); err != nil {
			return translatePgError(err)
		}
	}
	return nil
}

func (u *pgUnitOfWork) BeginTransaction(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already in progress")
	}
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return err
	}
	u.tx = tx
	return nil
}

func (u *pgUnitOfWork) CommitTransaction(ctx context.Context) error {
	if u.tx == nil {
		return ErrNoTransaction
	}
	tx := u.tx
	u.tx = nil
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	return nil
}

func (u *pgUnitOfWork) RollbackTransaction(ctx context.Context) error {
	if u.tx == nil {
		return ErrNoTransaction
	}
	tx := u.tx
	u.tx = nil
	u.pending = nil
	return tx.Rollback(ctx)
}
