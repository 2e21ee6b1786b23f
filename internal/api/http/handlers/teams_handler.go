package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-team-service/internal/api/dto"
	"github.com/spec-kit/task-team-service/internal/service"
)

// TeamsHandler manages team endpoints.
type TeamsHandler struct {
	service *service.TeamService
}

// NewTeamsHandler constructs handler.
func NewTeamsHandler(teamService *service.TeamService) *TeamsHandler {
	return &TeamsHandler{service: teamService}
}

// List GET /api/teams.
func (h *TeamsHandler) List(c *fiber.Ctx) error {
	teams, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, dto.NewTeamList(teams), "")
}

// Get GET /api/teams/:id.
func (h *TeamsHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "Team")
	if err != nil {
		return err
	}
	team, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, dto.NewTeamResponse(team), "")
}

// Create POST /api/teams.
func (h *TeamsHandler) Create(c *fiber.Ctx) error {
	var req dto.TeamRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	team, err := h.service.Create(c.UserContext(), req.Input())
	if err != nil {
		return err
	}
	return ok(c, dto.NewTeamResponse(team), service.MsgTeamCreated)
}

// Update PUT /api/teams/:id.
func (h *TeamsHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "Team")
	if err != nil {
		return err
	}
	var req dto.TeamRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	team, err := h.service.Update(c.UserContext(), id, req.Input())
	if err != nil {
		return err
	}
	return ok(c, dto.NewTeamResponse(team), service.MsgTeamUpdated)
}

// Delete DELETE /api/teams/:id.
func (h *TeamsHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "Team")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return ok(c, true, service.MsgTeamDeleted)
}

// Members GET /api/teams/:id/members.
func (h *TeamsHandler) Members(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "Team")
	if err != nil {
		return err
	}
	members, err := h.service.ListMembers(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, dto.NewUserList(members), "")
}

// AddMember POST /api/teams/:id/members/:userId.
func (h *TeamsHandler) AddMember(c *fiber.Ctx) error {
	teamID, err := pathID(c, "id", "Team")
	if err != nil {
		return err
	}
	userID, err := pathID(c, "userId", "User")
	if err != nil {
		return err
	}
	if err := h.service.AddMember(c.UserContext(), teamID, userID); err != nil {
		return err
	}
	return ok(c, true, service.MsgMemberAdded)
}

// RemoveMember DELETE /api/teams/:id/members/:userId.
func (h *TeamsHandler) RemoveMember(c *fiber.Ctx) error {
	teamID, err := pathID(c, "id", "Team")
	if err != nil {
		return err
	}
	userID, err := pathID(c, "userId", "User")
	if err != nil {
		return err
	}
	if err := h.service.RemoveMember(c.UserContext(), teamID, userID); err != nil {
		return err
	}
	return ok(c, true, service.MsgMemberRemoved)
}
