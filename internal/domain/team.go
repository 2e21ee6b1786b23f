package domain

import (
	"time"

	"github.com/google/uuid"
)

// Team groups users and owns tasks.
type Team struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   *time.Time

	// Tasks is populated only by fetch profiles that load the collection.
	Tasks []Task
}

// TeamMember links a user to a team.
type TeamMember struct {
	TeamID   uuid.UUID
	UserID   uuid.UUID
	JoinedAt time.Time
}
