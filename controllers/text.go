// path: controllers/text.go
package controllers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"parkwatch/models"
	"parkwatch/sms"
	"parkwatch/validation"
)

type textPayload struct {
	Number      string `json:"number"`
	Message     string `json:"message"`
	Carrier     string `json:"carrier"`
	GetCarriers string `json:"getcarriers"`
}

// HandleSendText passes one text through the carrier gateway. The envelope
// uses success/message rather than ok/error, matching the gateway's callers.
func (h *Handlers) HandleSendText(c *fiber.Ctx) error {
	var p textPayload
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.TextResp{Success: false, Message: "invalid JSON"})
	}

	if parseBool(p.GetCarriers) {
		return c.JSON(models.TextResp{Success: true, Carriers: sms.Carriers()})
	}

	number := validation.StripPhone(p.Number)
	if number == "" || strings.TrimSpace(p.Message) == "" {
		return c.JSON(models.TextResp{
			Success: false,
			Message: "Number and message parameters are required.",
		})
	}
	// The gateway accepts 9 or 10 digit numbers; registration is stricter.
	if len(number) < 9 || len(number) > 10 {
		return c.JSON(models.TextResp{Success: false, Message: "Invalid phone number."})
	}

	err := h.Texts.Send(c.Context(), number, p.Message, p.Carrier, "us")
	if err != nil {
		if errors.Is(err, sms.ErrUnknownCarrier) {
			return c.JSON(models.TextResp{
				Success: false,
				Message: fmt.Sprintf("Carrier %s not supported! POST getcarriers=1 to get a list of supported carriers", p.Carrier),
			})
		}
		return c.JSON(models.TextResp{
			Success: false,
			Message: fmt.Sprintf("Communication with SMS gateway failed. Error message: '%s'", err.Error()),
		})
	}
	return c.JSON(models.TextResp{Success: true})
}
