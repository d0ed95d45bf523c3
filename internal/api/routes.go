package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	users := app.Group("/users")
	users.Post("/register", handler.Register)
	users.Post("/token", handler.IssueToken)
	users.Post("/token/refresh", handler.RefreshToken)
	users.Get("/me", handler.AuthRequired, handler.CurrentUser)
	users.Patch("/me", handler.AuthRequired, handler.UpdateCurrentUser)

	habits := app.Group("/habits", handler.AuthRequired)
	habits.Get("/", handler.ListHabits)
	habits.Post("/", handler.CreateHabit)
	// registered before /:id so "public" is never read as a habit id
	habits.Get("/public", handler.ListPublicHabits)
	habits.Get("/:id", handler.GetHabit)
	habits.Put("/:id", handler.UpdateHabit)
	habits.Patch("/:id", handler.UpdateHabit)
	habits.Delete("/:id", handler.DeleteHabit)

	reminders := app.Group("/reminders", handler.AuthRequired)
	reminders.Post("/sweep", handler.TriggerSweep)
}
