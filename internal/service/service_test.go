package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/task-team-service/internal/auth"
	"github.com/spec-kit/task-team-service/internal/config"
	"github.com/spec-kit/task-team-service/internal/domain"
	"github.com/spec-kit/task-team-service/internal/events"
	"github.com/spec-kit/task-team-service/internal/persistence"
	"github.com/spec-kit/task-team-service/internal/repository"
	apperrors "github.com/spec-kit/task-team-service/pkg/util/errorutil"
)

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) handle(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type harness struct {
	uows     repository.UnitOfWorkFactory
	auth     *AuthService
	tasks    *TaskService
	teams    *TeamService
	users    *UserService
	recorded *recorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	uows := repository.NewMemoryUnitOfWorkFactory(repository.NewMemoryDB())
	require.NoError(t, persistence.NewSeeder(uows, bcrypt.MinCost, true, zap.NewNop()).Seed(ctx))

	dispatcher := events.NewInMemoryDispatcher()
	rec := &recorder{}
	for _, eventType := range events.AllEventTypes() {
		dispatcher.Subscribe(eventType, rec.handle)
	}

	clock := func() time.Time { return fixedNow }
	return &harness{
		uows: uows,
		auth: NewAuthService(uows, auth.NewTokenManager("test-secret-0123456789abcdef", "iss", "aud", time.Hour)),
		tasks: NewTaskService(TaskDependencies{
			UnitOfWorks: uows,
			Dispatcher:  dispatcher,
			Logger:      zap.NewNop(),
			Clock:       clock,
		}),
		teams: NewTeamService(uows, clock),
		users: NewUserService(UserDependencies{
			UnitOfWorks: uows,
			Identity: config.IdentityConfig{
				RequireDigit:       true,
				RequireLowercase:   true,
				RequireUppercase:   true,
				RequiredLength:     6,
				RequireUniqueEmail: true,
			},
			BcryptCost: bcrypt.MinCost,
			Clock:      clock,
		}),
		recorded: rec,
	}
}

func (h *harness) user(t *testing.T, email string) *domain.User {
	t.Helper()
	user, err := h.uows.New().Users().GetByEmail(context.Background(), email)
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

func (h *harness) caller(t *testing.T, email string) domain.Caller {
	user := h.user(t, email)
	return domain.Caller{UserID: user.ID, Role: user.Role}
}

func (h *harness) team(t *testing.T, name string) *domain.Team {
	t.Helper()
	team, err := h.teams.Create(context.Background(), TeamInput{Name: name})
	require.NoError(t, err)
	return team
}

func assertFailure(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperrors.IsFailure(err, message), "want failure %q, got %v", message, err)
}

func assertValidation(t *testing.T, err error, messages ...string) {
	t.Helper()
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, apperrors.CodeValidationFailed, de.Code)
	for _, m := range messages {
		assert.Contains(t, de.Errors, m)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.auth.Login(ctx, LoginInput{Email: "nobody@demo.com", Password: "Whatever1"})
	assertFailure(t, err, MsgInvalidCredentials)

	_, err = h.auth.Login(ctx, LoginInput{Email: "admin@demo.com", Password: "wrong"})
	assertFailure(t, err, MsgInvalidCredentials)

	res, err := h.auth.Login(ctx, LoginInput{Email: "ADMIN@demo.com", Password: "Admin123"})
	require.NoError(t, err)
	assert.Equal(t, "admin@demo.com", res.User.Email)

	claims, err := h.auth.TokenManager().ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, []string{"Admin"}, claims.Roles)
}

func TestLoginValidation(t *testing.T) {
	h := newHarness(t)
	_, err := h.auth.Login(context.Background(), LoginInput{Email: "not-an-email"})
	assertValidation(t, err, "Invalid email format", "Password is required")

	_, err = h.auth.Login(context.Background(), LoginInput{})
	de := apperrors.ToDomainError(err)
	assert.Equal(t, []string{"Email is required", "Password is required"}, de.Errors)
}

func TestCreateTaskDefaultsAndChecks(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	manager := h.caller(t, "manager@demo.com")
	eng := h.team(t, "Eng")

	created, err := h.tasks.Create(ctx, manager, CreateTaskInput{Title: "Fix bug", TeamID: eng.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusTodo, created.Status)
	assert.Equal(t, manager.UserID, created.CreatedByUserID)
	assert.Equal(t, "Manager User", created.CreatedByUserName)
	assert.Equal(t, "Eng", created.TeamName)
	assert.Nil(t, created.AssignToUserName)
	assert.Equal(t, fixedNow, created.CreatedAt)

	// An assignee given at creation does not advance the status.
	employee := h.user(t, "employee@demo.com")
	withAssignee, err := h.tasks.Create(ctx, manager, CreateTaskInput{Title: "Review", TeamID: eng.ID, AssignToUserID: &employee.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusTodo, withAssignee.Status)
	require.NotNil(t, withAssignee.AssignToUserName)
	assert.Equal(t, "Employee User", *withAssignee.AssignToUserName)

	missing := uuid.New()
	_, err = h.tasks.Create(ctx, manager, CreateTaskInput{Title: "x", TeamID: eng.ID, CreatedByUserID: &missing})
	assertFailure(t, err, MsgCreatedByNotFound)
	_, err = h.tasks.Create(ctx, manager, CreateTaskInput{Title: "x", TeamID: uuid.New()})
	assertFailure(t, err, MsgTeamNotFound)
	_, err = h.tasks.Create(ctx, manager, CreateTaskInput{Title: "x", TeamID: eng.ID, AssignToUserID: &missing})
	assertFailure(t, err, MsgAssignedUserNotFound)

	past := fixedNow.Add(-time.Hour)
	_, err = h.tasks.Create(ctx, manager, CreateTaskInput{DueDate: &past})
	assertValidation(t, err, "Task title is required", "Team ID is required", "Due date must be in the future")

	assert.Equal(t, []events.EventType{events.EventTaskCreated, events.EventTaskCreated}, h.recorded.types())
}

func TestAssignAdvancesOnlyTodo(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	manager := h.caller(t, "manager@demo.com")
	employee := h.user(t, "employee@demo.com")
	eng := h.team(t, "Eng")

	task, err := h.tasks.Create(ctx, manager, CreateTaskInput{Title: "Fix bug", TeamID: eng.ID})
	require.NoError(t, err)

	assigned, err := h.tasks.Assign(ctx, manager, task.ID, AssignTaskInput{AssignToUserID: employee.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, assigned.Status)
	require.NotNil(t, assigned.UpdatedAt)

	_, err = h.tasks.UpdateStatus(ctx, manager, task.ID, UpdateTaskStatusInput{Status: domain.TaskStatusDone})
	require.NoError(t, err)
	reassigned, err := h.tasks.Assign(ctx, manager, task.ID, AssignTaskInput{AssignToUserID: manager.UserID})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusDone, reassigned.Status)
	assert.Equal(t, "Manager User", *reassigned.AssignToUserName)

	_, err = h.tasks.Assign(ctx, manager, uuid.New(), AssignTaskInput{AssignToUserID: employee.ID})
	assertFailure(t, err, MsgTaskNotFound)
	_, err = h.tasks.Assign(ctx, manager, task.ID, AssignTaskInput{AssignToUserID: uuid.New()})
	assertFailure(t, err, MsgAssigneeNotFound)
	_, err = h.tasks.Assign(ctx, manager, task.ID, AssignTaskInput{})
	assertValidation(t, err, "Assign to user ID is required")
}

func TestUpdateTaskKeepsStatusAndAssignee(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	manager := h.caller(t, "manager@demo.com")
	employee := h.user(t, "employee@demo.com")
	eng := h.team(t, "Eng")
	ops := h.team(t, "Ops")

	task, err := h.tasks.Create(ctx, manager, CreateTaskInput{Title: "Fix bug", TeamID: eng.ID})
	require.NoError(t, err)
	_, err = h.tasks.Assign(ctx, manager, task.ID, AssignTaskInput{AssignToUserID: employee.ID})
	require.NoError(t, err)

	due := fixedNow.Add(48 * time.Hour)
	updated, err := h.tasks.Update(ctx, manager, task.ID, UpdateTaskInput{Title: "Fix bug fast", Description: "now", TeamID: ops.ID, DueDate: &due})
	require.NoError(t, err)
	assert.Equal(t, "Fix bug fast", updated.Title)
	assert.Equal(t, "Ops", updated.TeamName)
	assert.Equal(t, domain.TaskStatusInProgress, updated.Status)
	assert.True(t, updated.IsAssignedTo(employee.ID))
	require.NotNil(t, updated.DueDate)
	assert.True(t, due.Equal(*updated.DueDate))

	_, err = h.tasks.Update(ctx, manager, task.ID, UpdateTaskInput{Title: "x", TeamID: uuid.New()})
	assertFailure(t, err, MsgTeamNotFound)
	_, err = h.tasks.Update(ctx, manager, uuid.New(), UpdateTaskInput{Title: "x", TeamID: eng.ID})
	assertFailure(t, err, MsgTaskNotFound)
}

func TestEmployeeMayOnlyMoveOwnTasks(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	manager := h.caller(t, "manager@demo.com")
	employee := h.caller(t, "employee@demo.com")
	eng := h.team(t, "Eng")

	task, err := h.tasks.Create(ctx, manager, CreateTaskInput{Title: "Fix bug", TeamID: eng.ID})
	require.NoError(t, err)

	_, err = h.tasks.UpdateStatus(ctx, employee, task.ID, UpdateTaskStatusInput{Status: domain.TaskStatusDone})
	assertFailure(t, err, MsgNotYourTask)

	_, err = h.tasks.Assign(ctx, manager, task.ID, AssignTaskInput{AssignToUserID: employee.UserID})
	require.NoError(t, err)
	moved, err := h.tasks.UpdateStatus(ctx, employee, task.ID, UpdateTaskStatusInput{Status: domain.TaskStatusDone})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusDone, moved.Status)

	// Any transition is allowed, including back to Todo.
	back, err := h.tasks.UpdateStatus(ctx, manager, task.ID, UpdateTaskStatusInput{Status: domain.TaskStatusTodo})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusTodo, back.Status)

	_, err = h.tasks.UpdateStatus(ctx, manager, task.ID, UpdateTaskStatusInput{Status: "Blocked"})
	assertValidation(t, err, "Invalid task status")
}

func TestDeleteTask(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	manager := h.caller(t, "manager@demo.com")
	eng := h.team(t, "Eng")

	task, err := h.tasks.Create(ctx, manager, CreateTaskInput{Title: "Fix bug", TeamID: eng.ID})
	require.NoError(t, err)
	require.NoError(t, h.tasks.Delete(ctx, manager, task.ID))

	_, err = h.tasks.Get(ctx, task.ID)
	assertFailure(t, err, MsgTaskNotFound)
	assertFailure(t, h.tasks.Delete(ctx, manager, task.ID), MsgTaskNotFound)
	assert.Contains(t, h.recorded.types(), events.EventTaskDeleted)
}

func TestListTasks(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	manager := h.caller(t, "manager@demo.com")
	employee := h.user(t, "employee@demo.com")
	eng := h.team(t, "Eng")
	ops := h.team(t, "Ops")

	tick := fixedNow
	h.tasks.now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	due := fixedNow.Add(72 * time.Hour)
	titles := []string{"Alpha report", "beta release", "Gamma REPORT", "Delta"}
	ids := make([]uuid.UUID, len(titles))
	for i, title := range titles {
		in := CreateTaskInput{Title: title, TeamID: eng.ID}
		if i%2 == 1 {
			in.TeamID = ops.ID
		}
		if i == 3 {
			in.DueDate = &due
		}
		created, err := h.tasks.Create(ctx, manager, in)
		require.NoError(t, err)
		ids[i] = created.ID
	}
	_, err := h.tasks.Assign(ctx, manager, ids[0], AssignTaskInput{AssignToUserID: employee.ID})
	require.NoError(t, err)

	page, err := h.tasks.List(ctx, TaskListQuery{SortBy: "unknown"})
	require.NoError(t, err)
	assert.Equal(t, 4, page.TotalCount)
	assert.Equal(t, 1, page.PageNumber)
	assert.Equal(t, 10, page.PageSize)
	assert.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Items, 4)
	assert.Equal(t, ids[3], page.Items[0].ID, "newest first by default")
	assert.Equal(t, ids[0], page.Items[3].ID)

	page, err = h.tasks.List(ctx, TaskListQuery{SearchTerm: "report"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalCount)

	status := domain.TaskStatusInProgress
	page, err = h.tasks.List(ctx, TaskListQuery{Status: &status})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, ids[0], page.Items[0].ID)

	page, err = h.tasks.List(ctx, TaskListQuery{TeamID: &ops.ID, SortBy: "Title", SortOrder: "ASC"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Delta", page.Items[0].Title)

	from := fixedNow
	page, err = h.tasks.List(ctx, TaskListQuery{DueDateFrom: &from})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, ids[3], page.Items[0].ID)

	page, err = h.tasks.List(ctx, TaskListQuery{SortBy: "dueDate", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, ids[3], page.Items[0].ID, "tasks without a due date sort last ascending")

	page, err = h.tasks.List(ctx, TaskListQuery{PageNumber: 2, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, ids[0], page.Items[0].ID)

	page, err = h.tasks.List(ctx, TaskListQuery{PageSize: 1000, PageNumber: -3})
	require.NoError(t, err)
	assert.Equal(t, 100, page.PageSize)
	assert.Equal(t, 1, page.PageNumber)
}

func TestNotifyOverdue(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	manager := h.caller(t, "manager@demo.com")
	eng := h.team(t, "Eng")

	soon := fixedNow.Add(time.Hour)
	overdue, err := h.tasks.Create(ctx, manager, CreateTaskInput{Title: "Late", TeamID: eng.ID, DueDate: &soon})
	require.NoError(t, err)
	finished, err := h.tasks.Create(ctx, manager, CreateTaskInput{Title: "Finished", TeamID: eng.ID, DueDate: &soon})
	require.NoError(t, err)
	_, err = h.tasks.UpdateStatus(ctx, manager, finished.ID, UpdateTaskStatusInput{Status: domain.TaskStatusDone})
	require.NoError(t, err)
	_, err = h.tasks.Create(ctx, manager, CreateTaskInput{Title: "Open ended", TeamID: eng.ID})
	require.NoError(t, err)

	h.tasks.now = func() time.Time { return fixedNow.Add(2 * time.Hour) }
	n, err := h.tasks.NotifyOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var last events.Event
	for _, e := range h.recorded.events {
		if e.Type == events.EventTaskOverdue {
			last = e
		}
	}
	assert.Equal(t, overdue.ID, last.TaskID)
	assert.Nil(t, last.Actor)
}

func TestTeamLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	manager := h.caller(t, "manager@demo.com")

	_, err := h.teams.Create(ctx, TeamInput{})
	assertValidation(t, err, "Team name is required")

	eng := h.team(t, "Eng")
	h.team(t, "Ack")
	teams, err := h.teams.List(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "Ack", teams[0].Name)

	updated, err := h.teams.Update(ctx, eng.ID, TeamInput{Name: "Engineering", Description: "builders"})
	require.NoError(t, err)
	assert.Equal(t, "Engineering", updated.Name)
	require.NotNil(t, updated.UpdatedAt)
	_, err = h.teams.Update(ctx, uuid.New(), TeamInput{Name: "x"})
	assertFailure(t, err, MsgTeamNotFound)

	task, err := h.tasks.Create(ctx, manager, CreateTaskInput{Title: "Fix bug", TeamID: eng.ID})
	require.NoError(t, err)
	assertFailure(t, h.teams.Delete(ctx, eng.ID), MsgTeamHasTasks)

	require.NoError(t, h.tasks.Delete(ctx, manager, task.ID))
	require.NoError(t, h.teams.Delete(ctx, eng.ID))
	_, err = h.teams.Get(ctx, eng.ID)
	assertFailure(t, err, MsgTeamNotFound)
	assertFailure(t, h.teams.Delete(ctx, eng.ID), MsgTeamNotFound)
}

func TestTeamMembership(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	eng := h.team(t, "Eng")
	employee := h.user(t, "employee@demo.com")
	manager := h.user(t, "manager@demo.com")

	require.NoError(t, h.teams.AddMember(ctx, eng.ID, manager.ID))
	require.NoError(t, h.teams.AddMember(ctx, eng.ID, employee.ID))
	assertFailure(t, h.teams.AddMember(ctx, eng.ID, employee.ID), MsgAlreadyMember)
	assertFailure(t, h.teams.AddMember(ctx, uuid.New(), employee.ID), MsgTeamNotFound)
	assertFailure(t, h.teams.AddMember(ctx, eng.ID, uuid.New()), MsgUserNotFound)

	members, err := h.teams.ListMembers(ctx, eng.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "Employee User", members[0].FullName)

	require.NoError(t, h.teams.RemoveMember(ctx, eng.ID, employee.ID))
	assertFailure(t, h.teams.RemoveMember(ctx, eng.ID, employee.ID), MsgNotMember)

	_, err = h.teams.ListMembers(ctx, uuid.New())
	assertFailure(t, err, MsgTeamNotFound)
}

func TestCreateUser(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	user, err := h.users.Create(ctx, CreateUserInput{FullName: "New Hire", Email: "hire@demo.com", Password: "Hire123", Role: domain.RoleEmployee})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, user.Role)
	assert.NotEqual(t, "Hire123", user.PasswordHash)

	roles, err := h.uows.New().Roles().RolesForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Employee"}, roles)

	_, err = h.users.Create(ctx, CreateUserInput{FullName: "Dup", Email: "HIRE@demo.com", Password: "Hire123", Role: domain.RoleEmployee})
	assertFailure(t, err, MsgEmailExists)

	_, err = h.users.Create(ctx, CreateUserInput{FullName: "Weak", Email: "weak@demo.com", Password: "abcdef", Role: domain.RoleEmployee})
	assertFailure(t, err, "Failed to create user: Passwords must have at least one digit ('0'-'9')., Passwords must have at least one uppercase ('A'-'Z').")

	_, err = h.users.Create(ctx, CreateUserInput{Email: "bad", Password: "abc", Role: "Boss"})
	assertValidation(t, err, "Full name is required", "Invalid email format", "Password must be at least 6 characters", "Invalid role")

	res, err := h.auth.Login(ctx, LoginInput{Email: "hire@demo.com", Password: "Hire123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)
}

func TestUpdateUser(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	employee := h.user(t, "employee@demo.com")

	same, err := h.users.Update(ctx, employee.ID, UpdateUserInput{FullName: "Employee Renamed", Email: "employee@demo.com", Role: domain.RoleEmployee})
	require.NoError(t, err)
	assert.Equal(t, "Employee Renamed", same.FullName)

	_, err = h.users.Update(ctx, employee.ID, UpdateUserInput{FullName: "x", Email: "manager@demo.com", Role: domain.RoleEmployee})
	assertFailure(t, err, MsgEmailExists)
	_, err = h.users.Update(ctx, uuid.New(), UpdateUserInput{FullName: "x", Email: "x@demo.com", Role: domain.RoleEmployee})
	assertFailure(t, err, MsgUserNotFound)

	promoted, err := h.users.Update(ctx, employee.ID, UpdateUserInput{FullName: "Lead", Email: "lead@demo.com", Role: domain.RoleManager})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, promoted.Role)
	roles, err := h.uows.New().Roles().RolesForUser(ctx, employee.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Manager"}, roles)

	fetched, err := h.users.Get(ctx, employee.ID)
	require.NoError(t, err)
	assert.Equal(t, "lead@demo.com", fetched.Email)
}

func TestDeleteUserGuard(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	manager := h.caller(t, "manager@demo.com")
	employee := h.user(t, "employee@demo.com")
	eng := h.team(t, "Eng")

	task, err := h.tasks.Create(ctx, manager, CreateTaskInput{Title: "Fix bug", TeamID: eng.ID, AssignToUserID: &employee.ID})
	require.NoError(t, err)
	require.NoError(t, h.teams.AddMember(ctx, eng.ID, employee.ID))

	assertFailure(t, h.users.Delete(ctx, employee.ID), MsgUserHasTasks)
	assertFailure(t, h.users.Delete(ctx, manager.UserID), MsgUserHasTasks)

	require.NoError(t, h.tasks.Delete(ctx, manager, task.ID))
	require.NoError(t, h.users.Delete(ctx, employee.ID))
	_, err = h.users.Get(ctx, employee.ID)
	assertFailure(t, err, MsgUserNotFound)

	members, err := h.teams.ListMembers(ctx, eng.ID)
	require.NoError(t, err)
	assert.Empty(t, members)
	assertFailure(t, h.users.Delete(ctx, employee.ID), MsgUserNotFound)

	users, err := h.users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Admin User", users[0].FullName)
}

func TestEventHandlerErrorsDoNotFailRequests(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventTaskCreated, func(context.Context, events.Event) error {
		return assert.AnError
	})
	h.tasks = NewTaskService(TaskDependencies{UnitOfWorks: h.uows, Dispatcher: dispatcher, Logger: zap.NewNop()})

	manager := h.caller(t, "manager@demo.com")
	eng := h.team(t, "Eng")
	_, err := h.tasks.Create(ctx, manager, CreateTaskInput{Title: "Fix bug", TeamID: eng.ID})
	require.NoError(t, err)
}
