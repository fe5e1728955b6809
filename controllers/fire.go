// path: controllers/fire.go
package controllers

import (
	"github.com/gofiber/fiber/v2"

	"parkwatch/models"
)

// HandleBroadcastFire runs one full fan-out synchronously and reports the
// summary. This is the administrative trigger; the submission path goes
// through the dispatcher instead.
func (h *Handlers) HandleBroadcastFire(c *fiber.Ctx) error {
	sum, err := h.Broadcast.BroadcastFireAlert(c.Context())
	if err != nil {
		return serverErr(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(models.BroadcastResp{
		OK:         true,
		RunID:      sum.RunID,
		Recipients: sum.Recipients,
		Sent:       sum.Sent,
		Failed:     sum.Failed,
	})
}
