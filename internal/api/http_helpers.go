package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rutkovskaya/habita/internal/services"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// respondHabitError maps service errors to the API taxonomy: rule violations
// become 400 with every violation listed, ownership and missing records are
// both 404, anything else is a server fault.
func (handler *Handler) respondHabitError(c *fiber.Ctx, err error) error {
	var validationErr *services.HabitValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":      validationErr.Violations[0],
			"violations": validationErr.Violations,
		})
	}
	if errors.Is(err, services.ErrHabitNotFound) {
		return apiError(c, fiber.StatusNotFound, "habit not found")
	}
	handler.log.Error().Err(err).Str("path", c.Path()).Msg("habit request failed")
	return apiError(c, fiber.StatusInternalServerError, "internal error")
}

func habitIDParam(c *fiber.Ctx) (uint, error) {
	raw := c.Params("id")
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid habit id")
	}
	return uint(parsed), nil
}

func pageRequestFromQuery(c *fiber.Ctx) services.PageRequest {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", services.DefaultPageSize)
	return services.NormalizePageRequest(page, pageSize)
}
