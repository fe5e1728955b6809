// path: controllers/registrations.go
package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"parkwatch/database"
	"parkwatch/metrics"
	"parkwatch/models"
	"parkwatch/validation"
)

type emailPayload struct {
	Email string `json:"email"`
}

type phonePayload struct {
	Number string `json:"number"`
}

func (h *Handlers) HandleRegisterEmail(c *fiber.Ctx) error {
	var p emailPayload
	if err := c.BodyParser(&p); err != nil {
		return badReq(c, "invalid JSON")
	}
	address := strings.TrimSpace(p.Email)
	if errs := validation.Email(address); len(errs) > 0 {
		return invalid(c, errs)
	}

	reg, err := h.Emails.Insert(c.Context(), address)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			metrics.RegistrationConflictsTotal.WithLabelValues("email").Inc()
			return conflict(c, "email already registered")
		}
		return serverErr(c, err)
	}
	metrics.RegistrationsTotal.WithLabelValues("email").Inc()
	return c.Status(fiber.StatusCreated).JSON(models.RegistrationResp{OK: true, ID: reg.ID.Hex()})
}

func (h *Handlers) HandleListEmails(c *fiber.Ctx) error {
	regs, err := h.Emails.ListEmails(c.Context())
	if err != nil {
		return serverErr(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "data": regs})
}

func (h *Handlers) HandleRegisterPhone(c *fiber.Ctx) error {
	var p phonePayload
	if err := c.BodyParser(&p); err != nil {
		return badReq(c, "invalid JSON")
	}
	if errs := validation.Phone(p.Number); len(errs) > 0 {
		return invalid(c, errs)
	}

	reg, err := h.Phones.Insert(c.Context(), validation.StripPhone(p.Number))
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			metrics.RegistrationConflictsTotal.WithLabelValues("phone").Inc()
			return conflict(c, "number already registered")
		}
		return serverErr(c, err)
	}
	metrics.RegistrationsTotal.WithLabelValues("phone").Inc()
	return c.Status(fiber.StatusCreated).JSON(models.RegistrationResp{OK: true, ID: reg.ID.Hex()})
}

func (h *Handlers) HandleListPhones(c *fiber.Ctx) error {
	regs, err := h.Phones.ListNumbers(c.Context())
	if err != nil {
		return serverErr(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "data": regs})
}
