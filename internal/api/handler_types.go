package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rutkovskaya/habita/internal/models"
	"github.com/rutkovskaya/habita/internal/reminder"
	"github.com/rutkovskaya/habita/internal/services"
)

const contextUserKey = "current_user"

type Handler struct {
	auth       *services.AuthService
	habits     *services.HabitService
	dispatcher *reminder.Dispatcher
	throttle   *loginThrottle
	log        zerolog.Logger
}

func NewHandler(auth *services.AuthService, habits *services.HabitService, dispatcher *reminder.Dispatcher, log zerolog.Logger) *Handler {
	return &Handler{
		auth:       auth,
		habits:     habits,
		dispatcher: dispatcher,
		throttle:   newLoginThrottle(),
		log:        log,
	}
}

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok
}
