package repository

import (
	"context"
	"fmt"

	"github.com/spec-kit/task-team-service/internal/domain"
)

type memMutation func(db *MemoryDB) error

type memoryUnitOfWork struct {
	db       *MemoryDB
	pending  []memMutation
	inTx     bool
	txBackup *MemoryDB

	users *memUserRepository
	teams *memTeamRepository
	tasks *memTaskRepository
	roles *memRoleRepository
}

type memoryUnitOfWorkFactory struct {
	db *MemoryDB
}

// NewMemoryUnitOfWorkFactory builds units of work over db.
func NewMemoryUnitOfWorkFactory(db *MemoryDB) UnitOfWorkFactory {
	return &memoryUnitOfWorkFactory{db: db}
}

func (f *memoryUnitOfWorkFactory) New() UnitOfWork {
	uow := &memoryUnitOfWork{db: f.db}
	uow.users = &memUserRepository{memStore: &memStore[domain.User]{uow: uow, t: memUsers}}
	uow.teams = &memTeamRepository{memStore: &memStore[domain.Team]{uow: uow, t: memTeams}}
	uow.tasks = &memTaskRepository{memStore: &memStore[domain.Task]{uow: uow, t: memTasks}}
	uow.roles = &memRoleRepository{memStore: &memStore[domain.Role]{uow: uow, t: memRoles}}
	return uow
}

func (u *memoryUnitOfWork) Users() UserRepository { return u.users }
func (u *memoryUnitOfWork) Teams() TeamRepository { return u.teams }
func (u *memoryUnitOfWork) Tasks() TaskRepository { return u.tasks }
func (u *memoryUnitOfWork) Roles() RoleRepository { return u.roles }

// read runs fn against the store. An open transaction already holds the lock.
func (u *memoryUnitOfWork) read(fn func(db *MemoryDB)) {
	if !u.inTx {
		u.db.mu.Lock()
		defer u.db.mu.Unlock()
	}
	fn(u.db)
}

func (u *memoryUnitOfWork) stage(m memMutation) {
	u.pending = append(u.pending, m)
}

func (u *memoryUnitOfWork) SaveChanges(_ context.Context) (int, error) {
	pending := u.pending
	u.pending = nil
	if len(pending) == 0 {
		return 0, nil
	}

	if !u.inTx {
		u.db.mu.Lock()
		defer u.db.mu.Unlock()
	}
	backup := u.db.snapshot()
	for _, m := range pending {
		if err := m(u.db); err != nil {
			u.db.restore(backup)
			return 0, err
		}
	}
	return len(pending), nil
}

func (u *memoryUnitOfWork) BeginTransaction(_ context.Context) error {
	if u.inTx {
		return fmt.Errorf("transaction already in progress")
	}
	u.db.mu.Lock()
	u.inTx = true
	u.txBackup = u.db.snapshot()
	return nil
}

func (u *memoryUnitOfWork) CommitTransaction(_ context.Context) error {
	if !u.inTx {
		return ErrNoTransaction
	}
	u.inTx = false
	u.txBackup = nil
	u.db.mu.Unlock()
	return nil
}

func (u *memoryUnitOfWork) RollbackTransaction(_ context.Context) error {
	if !u.inTx {
		return ErrNoTransaction
	}
	u.db.restore(u.txBackup)
	u.inTx = false
	u.txBackup = nil
	u.pending = nil
	u.db.mu.Unlock()
	return nil
}
