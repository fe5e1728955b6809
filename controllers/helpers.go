// path: controllers/helpers.go
package controllers

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/gofiber/fiber/v2"

	"parkwatch/validation"
)

type ErrorResp struct {
	OK     bool                    `json:"ok"`
	Error  string                  `json:"error"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

func badReq(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResp{OK: false, Error: msg})
}

// invalid reports every failing field of a payload.
func invalid(c *fiber.Ctx, errs validation.Errors) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResp{OK: false, Error: errs.Error(), Fields: errs})
}

// conflict reports a uniqueness violation, distinct from a store outage.
func conflict(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusConflict).JSON(ErrorResp{OK: false, Error: msg})
}

func serverErr(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResp{OK: false, Error: err.Error()})
}

// parseBool understands common truthy strings.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// randString returns a short, safe random string (hex) of length n.
func randString(n int) string {
	if n <= 0 {
		n = 6
	}
	// hex doubles length; allocate enough bytes to cover n hex chars
	b := make([]byte, (n+1)/2)
	_, _ = rand.Read(b) // crypto-safe; errors are extremely rare
	s := hex.EncodeToString(b)
	if len(s) > n {
		return s[:n]
	}
	return s
}
