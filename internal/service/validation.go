package service

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/spec-kit/task-team-service/internal/domain"
	apperrors "github.com/spec-kit/task-team-service/pkg/util/errorutil"
)

var validate = validator.New()

// ruleSet collects every failed rule message for one request.
type ruleSet struct {
	errs []string
}

func (r *ruleSet) require(ok bool, message string) {
	if !ok {
		r.errs = append(r.errs, message)
	}
}

// tag applies a validator tag to value and records message when it fails.
func (r *ruleSet) tag(value any, tag, message string) {
	if err := validate.Var(value, tag); err != nil {
		r.errs = append(r.errs, message)
	}
}

func (r *ruleSet) err() error {
	if len(r.errs) == 0 {
		return nil
	}
	return apperrors.NewValidationError(r.errs)
}

func (r *ruleSet) email(email string) {
	r.require(strings.TrimSpace(email) != "", "Email is required")
	if strings.TrimSpace(email) != "" {
		r.tag(email, "email", "Invalid email format")
	}
}

func (r *ruleSet) dueDate(due *time.Time, now time.Time) {
	if due != nil {
		r.require(due.After(now), "Due date must be in the future")
	}
}

// LoginInput carries credentials.
type LoginInput struct {
	Email    string
	Password string
}

func (in LoginInput) Validate() error {
	var r ruleSet
	r.email(in.Email)
	r.require(in.Password != "", "Password is required")
	return r.err()
}

// CreateTaskInput describes task creation payload. A nil CreatedByUserID means
// the caller is the creator.
type CreateTaskInput struct {
	Title           string
	Description     string
	CreatedByUserID *uuid.UUID
	TeamID          uuid.UUID
	AssignToUserID  *uuid.UUID
	DueDate         *time.Time
}

func (in CreateTaskInput) Validate(now time.Time) error {
	var r ruleSet
	taskFields(&r, in.Title, in.Description, in.TeamID, in.DueDate, now)
	if in.CreatedByUserID != nil {
		r.require(*in.CreatedByUserID != uuid.Nil, "Created by user ID is required")
	}
	return r.err()
}

// UpdateTaskInput rewrites the editable task fields.
type UpdateTaskInput struct {
	Title       string
	Description string
	TeamID      uuid.UUID
	DueDate     *time.Time
}

func (in UpdateTaskInput) Validate(now time.Time) error {
	var r ruleSet
	taskFields(&r, in.Title, in.Description, in.TeamID, in.DueDate, now)
	return r.err()
}

func taskFields(r *ruleSet, title, description string, teamID uuid.UUID, due *time.Time, now time.Time) {
	r.require(strings.TrimSpace(title) != "", "Task title is required")
	r.tag(title, "max=200", "Task title must not exceed 200 characters")
	r.tag(description, "max=2000", "Description must not exceed 2000 characters")
	r.require(teamID != uuid.Nil, "Team ID is required")
	r.dueDate(due, now)
}

// AssignTaskInput names the new assignee.
type AssignTaskInput struct {
	AssignToUserID uuid.UUID
}

func (in AssignTaskInput) Validate() error {
	var r ruleSet
	r.require(in.AssignToUserID != uuid.Nil, "Assign to user ID is required")
	return r.err()
}

// UpdateTaskStatusInput carries the requested status.
type UpdateTaskStatusInput struct {
	Status domain.TaskStatus
}

func (in UpdateTaskStatusInput) Validate() error {
	var r ruleSet
	r.require(in.Status.Valid(), "Invalid task status")
	return r.err()
}

// TeamInput is shared by team creation and update.
type TeamInput struct {
	Name        string
	Description string
}

func (in TeamInput) Validate() error {
	var r ruleSet
	r.require(strings.TrimSpace(in.Name) != "", "Team name is required")
	r.tag(in.Name, "max=200", "Team name must not exceed 200 characters")
	r.tag(in.Description, "max=1000", "Description must not exceed 1000 characters")
	return r.err()
}

// CreateUserInput describes a new account.
type CreateUserInput struct {
	FullName string
	Email    string
	Password string
	Role     domain.UserRole
}

func (in CreateUserInput) Validate() error {
	var r ruleSet
	userFields(&r, in.FullName, in.Email, in.Role)
	r.require(in.Password != "", "Password is required")
	if in.Password != "" {
		r.tag(in.Password, "min=6", "Password must be at least 6 characters")
	}
	return r.err()
}

// UpdateUserInput rewrites an account's profile and role.
type UpdateUserInput struct {
	FullName string
	Email    string
	Role     domain.UserRole
}

func (in UpdateUserInput) Validate() error {
	var r ruleSet
	userFields(&r, in.FullName, in.Email, in.Role)
	return r.err()
}

func userFields(r *ruleSet, fullName, email string, role domain.UserRole) {
	r.require(strings.TrimSpace(fullName) != "", "Full name is required")
	r.tag(fullName, "max=200", "Full name must not exceed 200 characters")
	r.email(email)
	r.tag(email, "max=200", "Email must not exceed 200 characters")
	r.require(role.Valid(), "Invalid role")
}
