package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/task-team-service/internal/api/dto"
	"github.com/spec-kit/task-team-service/internal/auth"
	"github.com/spec-kit/task-team-service/internal/domain"
	apperrors "github.com/spec-kit/task-team-service/pkg/util/errorutil"
)

const msgInvalidBody = "Invalid request body"

func callerFrom(c *fiber.Ctx) (domain.Caller, error) {
	principal, found := auth.PrincipalFromContext(c)
	if !found {
		return domain.Caller{}, apperrors.NewUnauthorized("authentication required")
	}
	return principal.Caller(), nil
}

// pathID parses a UUID route parameter. Anything else is treated as an unknown route.
func pathID(c *fiber.Ctx, name, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperrors.NewNotFound(resource)
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError([]string{msgInvalidBody})
	}
	return nil
}

func queryUUID(c *fiber.Ctx, key string, errs *[]string) *uuid.UUID {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		*errs = append(*errs, "Invalid "+key)
		return nil
	}
	return &id
}

func queryTime(c *fiber.Ctx, key string, errs *[]string) *time.Time {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	t, err := dto.ParseTimestamp(raw)
	if err != nil {
		*errs = append(*errs, "Invalid "+key)
		return nil
	}
	return &t
}

func ok(c *fiber.Ctx, data any, message string) error {
	return c.JSON(dto.OK(data, message))
}
