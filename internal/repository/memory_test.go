package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/task-team-service/internal/domain"
)

type fixture struct {
	uows    UnitOfWorkFactory
	creator *domain.User
	worker  *domain.User
	team    *domain.Team
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{uows: NewMemoryUnitOfWorkFactory(NewMemoryDB())}
	now := time.Now().UTC()

	f.creator = &domain.User{ID: uuid.New(), Email: "boss@example.com", FullName: "Boss", Role: domain.RoleManager, CreatedAt: now}
	f.worker = &domain.User{ID: uuid.New(), Email: "Worker@Example.com", FullName: "Worker", Role: domain.RoleEmployee, CreatedAt: now}
	f.team = &domain.Team{ID: uuid.New(), Name: "Eng", CreatedAt: now}

	uow := f.uows.New()
	uow.Users().Add(f.creator)
	uow.Users().Add(f.worker)
	uow.Teams().Add(f.team)
	n, err := uow.SaveChanges(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	return f
}

func (f *fixture) addTask(t *testing.T, title string, mutate func(*domain.Task)) *domain.Task {
	t.Helper()
	task := &domain.Task{
		ID:              uuid.New(),
		Title:           title,
		Status:          domain.TaskStatusTodo,
		CreatedByUserID: f.creator.ID,
		TeamID:          f.team.ID,
		CreatedAt:       time.Now().UTC(),
	}
	if mutate != nil {
		mutate(task)
	}
	uow := f.uows.New()
	uow.Tasks().Add(task)
	_, err := uow.SaveChanges(context.Background())
	require.NoError(t, err)
	return task
}

func TestStoreReadsStagedWritesOnlyAfterSave(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uow := f.uows.New()

	team := &domain.Team{ID: uuid.New(), Name: "Ops", CreatedAt: time.Now().UTC()}
	uow.Teams().Add(team)

	_, err := uow.Teams().GetByID(ctx, team.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = uow.SaveChanges(ctx)
	require.NoError(t, err)

	got, err := uow.Teams().GetByID(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ops", got.Name)
}

func TestSaveChangesIsAtomic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uow := f.uows.New()

	uow.Teams().Add(&domain.Team{ID: uuid.New(), Name: "Ops", CreatedAt: time.Now().UTC()})
	uow.Tasks().Add(&domain.Task{ID: uuid.New(), Title: "orphan", CreatedByUserID: f.creator.ID, TeamID: uuid.New()})

	_, err := uow.SaveChanges(ctx)
	assert.ErrorIs(t, err, ErrConstraint)

	count, err := uow.Teams().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	n, err := uow.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestConditions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	due := time.Date(2030, 1, 10, 0, 0, 0, 0, time.UTC)
	f.addTask(t, "Fix 100% bug", func(task *domain.Task) { task.DueDate = &due })
	f.addTask(t, "Write docs", func(task *domain.Task) {
		task.Description = "Document the BUG tracker"
		task.Assign(f.worker.ID)
	})
	f.addTask(t, "Plan", nil)

	tasks := f.uows.New().Tasks()

	found, err := tasks.Find(ctx, ContainsFold("bug", "title", "description"))
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = tasks.Find(ctx, ContainsFold("100%", "title"))
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = tasks.Find(ctx, IsNull("assign_to_user_id"))
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = tasks.Find(ctx, Gte("due_date", due.Add(-time.Hour)))
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = tasks.Find(ctx, Lte("due_date", due.Add(-time.Hour)))
	require.NoError(t, err)
	assert.Empty(t, found)

	exists, err := tasks.Any(ctx, Eq("status", domain.TaskStatusInProgress.Rank()))
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = tasks.ExistsForUser(ctx, f.worker.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	first, err := tasks.FirstOrDefault(ctx, Eq("title", "missing"))
	require.NoError(t, err)
	assert.Nil(t, first)

	_, err = tasks.Find(ctx, Eq("no_such_column", 1))
	assert.Error(t, err)
}

func TestUserLookupByEmailIgnoresCase(t *testing.T) {
	f := newFixture(t)
	user, err := f.uows.New().Users().GetByEmail(context.Background(), "worker@example.COM")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, f.worker.ID, user.ID)
}

func TestTaskListFilterSortAndPaging(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"c", "a", "d", "b"} {
		i := i
		f.addTask(t, title, func(task *domain.Task) {
			task.CreatedAt = base.Add(time.Duration(i) * time.Hour)
			if i%2 == 0 {
				due := base.AddDate(0, 0, 10-i)
				task.DueDate = &due
			}
		})
	}

	tasks := f.uows.New().Tasks()

	items, total, err := tasks.List(ctx, TaskFilter{SortBy: TaskSortCreatedAt, Descending: true, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].Title)
	assert.Equal(t, "d", items[1].Title)
	assert.Equal(t, "Boss", items[0].CreatedByUserName)
	assert.Equal(t, "Eng", items[0].TeamName)
	assert.Nil(t, items[0].AssignToUserName)

	items, _, err = tasks.List(ctx, TaskFilter{SortBy: TaskSortTitle, Limit: 10, Offset: 1})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "b", items[0].Title)

	items, _, err = tasks.List(ctx, TaskFilter{SortBy: TaskSortDueDate, Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, "d", items[0].Title)
	assert.Equal(t, "c", items[1].Title)
	assert.Nil(t, items[2].DueDate)
	assert.Nil(t, items[3].DueDate)
}

func TestRemoveGuards(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	task := f.addTask(t, "Fix bug", func(task *domain.Task) { task.Assign(f.worker.ID) })

	uow := f.uows.New()
	uow.Teams().Remove(f.team)
	_, err := uow.SaveChanges(ctx)
	assert.ErrorIs(t, err, ErrConstraint)

	uow.Users().Remove(f.creator)
	_, err = uow.SaveChanges(ctx)
	assert.ErrorIs(t, err, ErrConstraint)

	uow.Users().Remove(f.worker)
	_, err = uow.SaveChanges(ctx)
	require.NoError(t, err)

	got, err := uow.Tasks().GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AssignToUserID)
}

func TestMembershipAndRoles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uow := f.uows.New()

	role := &domain.Role{ID: uuid.New(), Name: "Employee"}
	uow.Roles().Add(role)
	uow.Roles().AssignRole(f.worker.ID, role.ID)
	uow.Teams().AddMember(domain.TeamMember{TeamID: f.team.ID, UserID: f.worker.ID, JoinedAt: time.Now().UTC()})
	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)

	roles, err := uow.Roles().RolesForUser(ctx, f.worker.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Employee"}, roles)

	member, err := uow.Teams().IsMember(ctx, f.team.ID, f.worker.ID)
	require.NoError(t, err)
	assert.True(t, member)

	members, err := uow.Teams().ListMembers(ctx, f.team.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Worker", members[0].FullName)

	uow.Roles().Add(&domain.Role{ID: uuid.New(), Name: "Employee"})
	_, err = uow.SaveChanges(ctx)
	assert.ErrorIs(t, err, ErrConstraint)

	uow.Users().Remove(f.worker)
	_, err = uow.SaveChanges(ctx)
	require.NoError(t, err)

	roles, err = uow.Roles().RolesForUser(ctx, f.worker.ID)
	require.NoError(t, err)
	assert.Empty(t, roles)

	member, err = uow.Teams().IsMember(ctx, f.team.ID, f.worker.ID)
	require.NoError(t, err)
	assert.False(t, member)
}

func TestExplicitTransactionRollback(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uow := f.uows.New()

	require.NoError(t, uow.BeginTransaction(ctx))
	uow.Teams().Add(&domain.Team{ID: uuid.New(), Name: "Temp", CreatedAt: time.Now().UTC()})
	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)

	count, err := uow.Teams().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, uow.RollbackTransaction(ctx))
	assert.ErrorIs(t, uow.CommitTransaction(ctx), ErrNoTransaction)

	count, err = f.uows.New().Teams().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGetWithTasks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addTask(t, "one", nil)
	f.addTask(t, "two", nil)

	team, err := f.uows.New().Teams().GetWithTasks(ctx, f.team.ID)
	require.NoError(t, err)
	assert.Len(t, team.Tasks, 2)

	_, err = f.uows.New().Teams().GetWithTasks(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now \\`, escapeLike(`50% off_now \`))
}

func TestSQLBuilder(t *testing.T) {
	b := &sqlBuilder{}
	where := b.where("t.", []Condition{
		ContainsFold("Bug", "title", "description"),
		Eq("team_id", "x"),
		AnyOf(Eq("created_by_user_id", "u"), IsNull("assign_to_user_id")),
	})
	assert.Equal(t,
		` WHERE (LOWER(t.title) LIKE $1 ESCAPE '\' OR LOWER(t.description) LIKE $1 ESCAPE '\') AND t.team_id=$2 AND (t.created_by_user_id=$3 OR t.assign_to_user_id IS NULL)`,
		where)
	assert.Equal(t, []any{"%bug%", "x", "u"}, b.args)

	order := b.orderAndPage("t.", []Order{{Column: "due_date", Desc: true}}, 10, 20)
	assert.Equal(t, ` ORDER BY t.due_date DESC, t.id ASC LIMIT $4 OFFSET $5`, order)
}

// userRow feeds fixed column values to a table scan function.
type userRow struct {
	id   uuid.UUID
	role string
}

func (r userRow) Scan(dest ...any) error {
	*dest[0].(*uuid.UUID) = r.id
	*dest[1].(*string) = "a@example.com"
	*dest[2].(*string) = "hash"
	*dest[3].(*string) = "A"
	*dest[4].(*string) = r.role
	*dest[5].(*time.Time) = time.Now().UTC()
	*dest[6].(**time.Time) = nil
	return nil
}

func TestUsersTableScanNormalizesRole(t *testing.T) {
	id := uuid.New()

	user, err := usersTable.scan(userRow{id: id, role: "manager"})
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, domain.RoleManager, user.Role)

	_, err = usersTable.scan(userRow{id: id, role: "Owner"})
	assert.EqualError(t, err, `users: unknown role "Owner"`)
}
