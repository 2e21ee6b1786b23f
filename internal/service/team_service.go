package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/spec-kit/task-team-service/internal/domain"
	"github.com/spec-kit/task-team-service/internal/repository"
	apperrors "github.com/spec-kit/task-team-service/pkg/util/errorutil"
)

// TeamService manages teams and their membership.
type TeamService struct {
	uows repository.UnitOfWorkFactory
	now  Clock
}

// NewTeamService constructs the service. A nil clock uses the system clock.
func NewTeamService(uows repository.UnitOfWorkFactory, clock Clock) *TeamService {
	if clock == nil {
		clock = systemClock
	}
	return &TeamService{uows: uows, now: clock}
}

func (s *TeamService) Create(ctx context.Context, in TeamInput) (*domain.Team, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	team := &domain.Team{
		ID:          uuid.New(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   s.now(),
	}
	uow := s.uows.New()
	uow.Teams().Add(team)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *TeamService) Update(ctx context.Context, id uuid.UUID, in TeamInput) (*domain.Team, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	uow := s.uows.New()
	team, err := uow.Teams().GetByID(ctx, id)
	if err != nil {
		return nil, failIfNotFound(err, MsgTeamNotFound)
	}
	now := s.now()
	team.Name = in.Name
	team.Description = in.Description
	team.UpdatedAt = &now
	uow.Teams().Update(team)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return nil, err
	}
	return team, nil
}

// Delete removes a team that owns no tasks.
func (s *TeamService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uows.New()
	team, err := uow.Teams().GetWithTasks(ctx, id)
	if err != nil {
		return failIfNotFound(err, MsgTeamNotFound)
	}
	if len(team.Tasks) > 0 {
		return apperrors.NewFailure(MsgTeamHasTasks)
	}
	uow.Teams().Remove(team)
	_, err = uow.SaveChanges(ctx)
	return err
}

func (s *TeamService) Get(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	team, err := s.uows.New().Teams().GetByID(ctx, id)
	if err != nil {
		return nil, failIfNotFound(err, MsgTeamNotFound)
	}
	return team, nil
}

// List returns every team ordered by name.
func (s *TeamService) List(ctx context.Context) ([]domain.Team, error) {
	teams, err := s.uows.New().Teams().ListOrderedByName(ctx)
	if err != nil {
		return nil, err
	}
	if teams == nil {
		teams = []domain.Team{}
	}
	return teams, nil
}

func (s *TeamService) ListMembers(ctx context.Context, teamID uuid.UUID) ([]domain.User, error) {
	uow := s.uows.New()
	if _, err := uow.Teams().GetByID(ctx, teamID); err != nil {
		return nil, failIfNotFound(err, MsgTeamNotFound)
	}
	members, err := uow.Teams().ListMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = []domain.User{}
	}
	return members, nil
}

func (s *TeamService) AddMember(ctx context.Context, teamID, userID uuid.UUID) error {
	uow := s.uows.New()
	member, err := s.checkMembership(ctx, uow, teamID, userID)
	if err != nil {
		return err
	}
	if member {
		return apperrors.NewFailure(MsgAlreadyMember)
	}
	uow.Teams().AddMember(domain.TeamMember{TeamID: teamID, UserID: userID, JoinedAt: s.now()})
	_, err = uow.SaveChanges(ctx)
	return err
}

func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	uow := s.uows.New()
	member, err := s.checkMembership(ctx, uow, teamID, userID)
	if err != nil {
		return err
	}
	if !member {
		return apperrors.NewFailure(MsgNotMember)
	}
	uow.Teams().RemoveMember(teamID, userID)
	_, err = uow.SaveChanges(ctx)
	return err
}

// checkMembership resolves both sides of a membership before reporting whether it exists.
func (s *TeamService) checkMembership(ctx context.Context, uow repository.UnitOfWork, teamID, userID uuid.UUID) (bool, error) {
	if _, err := uow.Teams().GetByID(ctx, teamID); err != nil {
		return false, failIfNotFound(err, MsgTeamNotFound)
	}
	found, err := exists(uow.Users().GetByID(ctx, userID))
	if err != nil {
		return false, err
	}
	if !found {
		return false, apperrors.NewFailure(MsgUserNotFound)
	}
	return uow.Teams().IsMember(ctx, teamID, userID)
}
