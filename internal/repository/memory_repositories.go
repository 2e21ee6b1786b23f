package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/spec-kit/task-team-service/internal/domain"
)

var memUsers = &memTable[domain.User]{
	table: usersTable,
	rows:  func(db *MemoryDB) map[uuid.UUID]domain.User { return db.users },
	beforeRemove: func(db *MemoryDB, id uuid.UUID) error {
		for taskID, task := range db.tasks {
			if task.CreatedByUserID == id {
				return fmt.Errorf("%w: user %s created task %s", ErrConstraint, id, taskID)
			}
		}
		for taskID, task := range db.tasks {
			if task.IsAssignedTo(id) {
				task.AssignToUserID = nil
				db.tasks[taskID] = task
			}
		}
		for link := range db.userRoles {
			if link.UserID == id {
				delete(db.userRoles, link)
			}
		}
		for key := range db.members {
			if key.userID == id {
				delete(db.members, key)
			}
		}
		return nil
	},
}

var memTeams = &memTable[domain.Team]{
	table: teamsTable,
	rows:  func(db *MemoryDB) map[uuid.UUID]domain.Team { return db.teams },
	beforeRemove: func(db *MemoryDB, id uuid.UUID) error {
		for taskID, task := range db.tasks {
			if task.TeamID == id {
				return fmt.Errorf("%w: team %s owns task %s", ErrConstraint, id, taskID)
			}
		}
		for key := range db.members {
			if key.teamID == id {
				delete(db.members, key)
			}
		}
		return nil
	},
	prepareInsert: func(team domain.Team) domain.Team {
		team.Tasks = nil
		return team
	},
}

var memTasks = &memTable[domain.Task]{
	table: tasksTable,
	rows:  func(db *MemoryDB) map[uuid.UUID]domain.Task { return db.tasks },
	checkWrite: func(db *MemoryDB, task *domain.Task) error {
		if _, ok := db.teams[task.TeamID]; !ok {
			return fmt.Errorf("%w: team %s does not exist", ErrConstraint, task.TeamID)
		}
		if _, ok := db.users[task.CreatedByUserID]; !ok {
			return fmt.Errorf("%w: user %s does not exist", ErrConstraint, task.CreatedByUserID)
		}
		if task.AssignToUserID != nil {
			if _, ok := db.users[*task.AssignToUserID]; !ok {
				return fmt.Errorf("%w: user %s does not exist", ErrConstraint, *task.AssignToUserID)
			}
		}
		return nil
	},
}

var memRoles = &memTable[domain.Role]{
	table: rolesTable,
	rows:  func(db *MemoryDB) map[uuid.UUID]domain.Role { return db.roles },
	checkWrite: func(db *MemoryDB, role *domain.Role) error {
		for id, existing := range db.roles {
			if id != role.ID && existing.Name == role.Name {
				return fmt.Errorf("%w: role %q already exists", ErrConstraint, role.Name)
			}
		}
		return nil
	},
	beforeRemove: func(db *MemoryDB, id uuid.UUID) error {
		for link := range db.userRoles {
			if link.RoleID == id {
				delete(db.userRoles, link)
			}
		}
		return nil
	},
}

type memUserRepository struct {
	*memStore[domain.User]
}

func (r *memUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.FirstOrDefault(ctx, EqFold("email", email))
}

func (r *memUserRepository) ListOrderedByName(ctx context.Context) ([]domain.User, error) {
	return r.Query(ctx, QueryOptions{OrderBy: []Order{{Column: "full_name"}}})
}

type memTeamRepository struct {
	*memStore[domain.Team]
}

func (r *memTeamRepository) GetWithTasks(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	team, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tasks, err := r.uow.tasks.Query(ctx, QueryOptions{
		Where:   []Condition{Eq("team_id", id)},
		OrderBy: []Order{{Column: "created_at"}},
	})
	if err != nil {
		return nil, err
	}
	team.Tasks = tasks
	return team, nil
}

func (r *memTeamRepository) ListOrderedByName(ctx context.Context) ([]domain.Team, error) {
	return r.Query(ctx, QueryOptions{OrderBy: []Order{{Column: "name"}}})
}

func (r *memTeamRepository) ListMembers(_ context.Context, teamID uuid.UUID) ([]domain.User, error) {
	var result []domain.User
	r.uow.read(func(db *MemoryDB) {
		for key := range db.members {
			if key.teamID != teamID {
				continue
			}
			if user, ok := db.users[key.userID]; ok {
				result = append(result, user)
			}
		}
	})
	sortRows(usersTable, result, []Order{{Column: "full_name"}})
	return result, nil
}

func (r *memTeamRepository) IsMember(_ context.Context, teamID, userID uuid.UUID) (bool, error) {
	var ok bool
	r.uow.read(func(db *MemoryDB) {
		_, ok = db.members[memberKey{teamID: teamID, userID: userID}]
	})
	return ok, nil
}

func (r *memTeamRepository) AddMember(member domain.TeamMember) {
	r.uow.stage(func(db *MemoryDB) error {
		if _, ok := db.teams[member.TeamID]; !ok {
			return fmt.Errorf("%w: team %s does not exist", ErrConstraint, member.TeamID)
		}
		if _, ok := db.users[member.UserID]; !ok {
			return fmt.Errorf("%w: user %s does not exist", ErrConstraint, member.UserID)
		}
		key := memberKey{teamID: member.TeamID, userID: member.UserID}
		if _, exists := db.members[key]; !exists {
			db.members[key] = member
		}
		return nil
	})
}

func (r *memTeamRepository) RemoveMember(teamID, userID uuid.UUID) {
	r.uow.stage(func(db *MemoryDB) error {
		delete(db.members, memberKey{teamID: teamID, userID: userID})
		return nil
	})
}

type memTaskRepository struct {
	*memStore[domain.Task]
}

func (r *memTaskRepository) GetDetails(_ context.Context, id uuid.UUID) (*domain.TaskDetails, error) {
	var (
		details domain.TaskDetails
		ok      bool
	)
	r.uow.read(func(db *MemoryDB) {
		var task domain.Task
		if task, ok = db.tasks[id]; ok {
			details = taskDetailsFrom(db, task)
		}
	})
	if !ok {
		return nil, ErrNotFound
	}
	return &details, nil
}

func (r *memTaskRepository) List(_ context.Context, filter TaskFilter) ([]domain.TaskDetails, int, error) {
	conds := filter.Conditions()
	orders := filter.Order()
	if err := validateColumns(tasksTable.columnSet, conds, orders); err != nil {
		return nil, 0, err
	}

	var (
		result []domain.TaskDetails
		total  int
	)
	r.uow.read(func(db *MemoryDB) {
		var matched []domain.Task
		for _, task := range db.tasks {
			task := task
			if matchesAll(tasksTable, &task, conds) {
				matched = append(matched, task)
			}
		}
		sortRows(tasksTable, matched, orders)
		total = len(matched)
		for _, task := range page(matched, filter.Limit, filter.Offset) {
			result = append(result, taskDetailsFrom(db, task))
		}
	})
	return result, total, nil
}

func (r *memTaskRepository) ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	return r.Any(ctx, AnyOf(Eq("created_by_user_id", userID), Eq("assign_to_user_id", userID)))
}

func taskDetailsFrom(db *MemoryDB, task domain.Task) domain.TaskDetails {
	details := domain.TaskDetails{
		Task:              task,
		CreatedByUserName: db.users[task.CreatedByUserID].FullName,
		TeamName:          db.teams[task.TeamID].Name,
	}
	if task.AssignToUserID != nil {
		if assignee, ok := db.users[*task.AssignToUserID]; ok {
			name := assignee.FullName
			details.AssignToUserName = &name
		}
	}
	return details
}

type memRoleRepository struct {
	*memStore[domain.Role]
}

func (r *memRoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	return r.FirstOrDefault(ctx, Eq("name", name))
}

func (r *memRoleRepository) RolesForUser(_ context.Context, userID uuid.UUID) ([]string, error) {
	var names []string
	r.uow.read(func(db *MemoryDB) {
		for link := range db.userRoles {
			if link.UserID != userID {
				continue
			}
			if role, ok := db.roles[link.RoleID]; ok {
				names = append(names, role.Name)
			}
		}
	})
	sort.Strings(names)
	return names, nil
}

func (r *memRoleRepository) AssignRole(userID, roleID uuid.UUID) {
	r.uow.stage(func(db *MemoryDB) error {
		if _, ok := db.users[userID]; !ok {
			return fmt.Errorf("%w: user %s does not exist", ErrConstraint, userID)
		}
		if _, ok := db.roles[roleID]; !ok {
			return fmt.Errorf("%w: role %s does not exist", ErrConstraint, roleID)
		}
		db.userRoles[domain.UserRoleAssignment{UserID: userID, RoleID: roleID}] = struct{}{}
		return nil
	})
}

func (r *memRoleRepository) ClearUserRoles(userID uuid.UUID) {
	r.uow.stage(func(db *MemoryDB) error {
		for link := range db.userRoles {
			if link.UserID == userID {
				delete(db.userRoles, link)
			}
		}
		return nil
	})
}
