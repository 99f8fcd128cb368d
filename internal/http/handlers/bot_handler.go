package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"orderly/internal/bot"
)

// BotHandler lets a chat transport feed user events into the conversation
// machine and relay the replies.
type BotHandler struct {
	Machine *bot.Machine
}

type botEvent struct {
	UserID int64  `json:"user_id"`
	Kind   string `json:"kind"`
	Value  string `json:"value"`
}

type botReply struct {
	bot.Reply
	Error string `json:"error,omitempty"`
}

// POST /bot/events
func (h *BotHandler) Event(c *fiber.Ctx) error {
	var in botEvent
	if err := c.BodyParser(&in); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	if in.UserID == 0 {
		return jsonError(c, fiber.StatusBadRequest, "missing user_id")
	}

	reply, err := h.Machine.Handle(c.UserContext(), in.UserID, bot.Event{Kind: bot.EventKind(in.Kind), Value: in.Value})
	switch {
	case err == nil:
		return c.JSON(botReply{Reply: reply})
	case errors.Is(err, bot.ErrStaleSelection):
		return c.Status(fiber.StatusConflict).JSON(botReply{Reply: reply, Error: "selection is no longer offered"})
	case errors.Is(err, bot.ErrUnexpectedText):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(botReply{Reply: reply, Error: "please pick one of the options"})
	case errors.Is(err, bot.ErrInvalidText):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(botReply{Reply: reply, Error: "answer must be 1-256 characters"})
	case errors.Is(err, bot.ErrUnknownEvent):
		return jsonError(c, fiber.StatusBadRequest, "unknown event kind")
	}
	return err
}
