package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rutkovskaya/habita/internal/models"
	"github.com/rutkovskaya/habita/internal/services"
)

func (handler *Handler) ListHabits(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	page, err := handler.habits.ListOwned(user.ID, pageRequestFromQuery(c))
	if err != nil {
		return handler.respondHabitError(c, err)
	}
	return c.JSON(newHabitPageResponse(page))
}

func (handler *Handler) CreateHabit(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var payload habitPayload
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if field := payload.missingCreateField(); field != "" {
		return apiError(c, fiber.StatusBadRequest, fmt.Sprintf("%s is required", field))
	}

	relatedHabitID, _, err := payload.relatedHabitRef()
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	input := services.HabitInput{
		Place:          *payload.Place,
		TimeOfDay:      *payload.TimeOfDay,
		Action:         *payload.Action,
		RelatedHabitID: relatedHabitID,
		Periodicity:    models.DefaultPeriodicityDays,
		Duration:       *payload.Duration,
	}
	if payload.IsPleasant != nil {
		input.IsPleasant = *payload.IsPleasant
	}
	if payload.Periodicity != nil {
		input.Periodicity = *payload.Periodicity
	}
	if payload.Reward != nil {
		input.Reward = *payload.Reward
	}
	if payload.IsPublic != nil {
		input.IsPublic = *payload.IsPublic
	}

	habit, err := handler.habits.Create(user.ID, input)
	if err != nil {
		return handler.respondHabitError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newHabitResponse(habit))
}

func (handler *Handler) GetHabit(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	habitID, err := habitIDParam(c)
	if err != nil {
		return apiError(c, fiber.StatusNotFound, "habit not found")
	}

	habit, err := handler.habits.Get(user.ID, habitID)
	if err != nil {
		return handler.respondHabitError(c, err)
	}
	return c.JSON(newHabitResponse(habit))
}

// UpdateHabit serves PUT and PATCH alike: only fields present in the body
// change, and the merged state is re-validated as a whole.
func (handler *Handler) UpdateHabit(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	habitID, err := habitIDParam(c)
	if err != nil {
		return apiError(c, fiber.StatusNotFound, "habit not found")
	}

	var payload habitPayload
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	relatedHabitID, clearRelated, err := payload.relatedHabitRef()
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	patch := services.HabitPatch{
		Place:             payload.Place,
		TimeOfDay:         payload.TimeOfDay,
		Action:            payload.Action,
		IsPleasant:        payload.IsPleasant,
		RelatedHabitID:    relatedHabitID,
		ClearRelatedHabit: clearRelated,
		Periodicity:       payload.Periodicity,
		Reward:            payload.Reward,
		Duration:          payload.Duration,
		IsPublic:          payload.IsPublic,
	}

	habit, err := handler.habits.Update(user.ID, habitID, patch)
	if err != nil {
		return handler.respondHabitError(c, err)
	}
	return c.JSON(newHabitResponse(habit))
}

func (handler *Handler) DeleteHabit(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	habitID, err := habitIDParam(c)
	if err != nil {
		return apiError(c, fiber.StatusNotFound, "habit not found")
	}

	if err := handler.habits.Delete(user.ID, habitID); err != nil {
		return handler.respondHabitError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) ListPublicHabits(c *fiber.Ctx) error {
	page, err := handler.habits.ListPublic(pageRequestFromQuery(c))
	if err != nil {
		return handler.respondHabitError(c, err)
	}
	return c.JSON(newPublicHabitPageResponse(page))
}

// TriggerSweep runs the reminder sweep on demand, outside the hourly
// schedule. Meant for testing and administration.
func (handler *Handler) TriggerSweep(c *fiber.Ctx) error {
	if handler.dispatcher == nil {
		return apiError(c, fiber.StatusServiceUnavailable, "reminders are not configured")
	}
	stats := handler.dispatcher.Sweep(c.UserContext())
	return c.JSON(stats)
}
