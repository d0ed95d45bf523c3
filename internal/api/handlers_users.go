package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rutkovskaya/habita/internal/services"
)

type registerPayload struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	TelegramChatID  string `json:"telegram_chat_id"`
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	var payload registerPayload
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	input := services.RegistrationInput{
		Email:           payload.Email,
		Username:        payload.Username,
		Password:        payload.Password,
		PasswordConfirm: payload.PasswordConfirm,
		TelegramChatID:  payload.TelegramChatID,
	}
	if message := services.ValidateRegistrationInput(input); message != "" {
		return apiError(c, fiber.StatusBadRequest, message)
	}

	user, err := handler.auth.Register(input)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return apiError(c, fiber.StatusConflict, "email already exists")
		}
		handler.log.Error().Err(err).Msg("registration failed")
		return apiError(c, fiber.StatusInternalServerError, "failed to create account")
	}

	return c.Status(fiber.StatusCreated).JSON(newUserResponse(user))
}

type tokenPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (handler *Handler) IssueToken(c *fiber.Ctx) error {
	var payload tokenPayload
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	key := throttleKey(c)
	now := time.Now()
	if handler.throttle.blocked(key, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many failed attempts, try again later")
	}

	user, err := handler.auth.Authenticate(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			handler.throttle.recordFailure(key, now)
			return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		handler.log.Error().Err(err).Msg("token issue failed")
		return apiError(c, fiber.StatusInternalServerError, "failed to issue token")
	}
	handler.throttle.reset(key)

	pair, err := handler.auth.IssueTokenPair(user)
	if err != nil {
		handler.log.Error().Err(err).Msg("token signing failed")
		return apiError(c, fiber.StatusInternalServerError, "failed to issue token")
	}
	return c.JSON(pair)
}

type refreshPayload struct {
	Refresh string `json:"refresh"`
}

func (handler *Handler) RefreshToken(c *fiber.Ctx) error {
	var payload refreshPayload
	if err := c.BodyParser(&payload); err != nil || strings.TrimSpace(payload.Refresh) == "" {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	access, err := handler.auth.RefreshAccessToken(payload.Refresh)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "invalid refresh token")
	}
	return c.JSON(fiber.Map{"access": access})
}

func (handler *Handler) CurrentUser(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(newUserResponse(*user))
}

type profilePayload struct {
	Username       *string `json:"username"`
	TelegramChatID *string `json:"telegram_chat_id"`
}

// UpdateCurrentUser changes the profile fields a user owns; registering a
// telegram chat id here is what opts the account into reminders.
func (handler *Handler) UpdateCurrentUser(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var payload profilePayload
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	updates := make(map[string]any, 2)
	if payload.Username != nil {
		username := strings.TrimSpace(*payload.Username)
		if username == "" {
			return apiError(c, fiber.StatusBadRequest, "username cannot be empty")
		}
		updates["username"] = username
	}
	if payload.TelegramChatID != nil {
		updates["telegram_chat_id"] = strings.TrimSpace(*payload.TelegramChatID)
	}
	if len(updates) == 0 {
		return c.JSON(newUserResponse(*user))
	}

	if err := handler.auth.UpdateProfile(user.ID, updates); err != nil {
		handler.log.Error().Err(err).Uint("user_id", user.ID).Msg("profile update failed")
		return apiError(c, fiber.StatusInternalServerError, "failed to update profile")
	}

	updated, err := handler.auth.FindByID(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load profile")
	}
	return c.JSON(newUserResponse(updated))
}
