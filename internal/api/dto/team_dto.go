package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/task-team-service/internal/domain"
	"github.com/spec-kit/task-team-service/internal/service"
)

// TeamRequest is shared by create and update.
type TeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TeamResponse describes a team.
type TeamResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (r TeamRequest) Input() service.TeamInput {
	return service.TeamInput{Name: r.Name, Description: r.Description}
}

func NewTeamResponse(t *domain.Team) TeamResponse {
	return TeamResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}

func NewTeamList(teams []domain.Team) []TeamResponse {
	out := make([]TeamResponse, 0, len(teams))
	for i := range teams {
		out = append(out, NewTeamResponse(&teams[i]))
	}
	return out
}
