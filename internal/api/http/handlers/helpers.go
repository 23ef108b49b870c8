package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManasMalla/devfest-vizag-2025/pkg/util/errorutil"
)

const unknownFieldPrefix = "json: unknown field "

// parseBody decodes a JSON body into out. Fields out does not declare, type
// mismatches and trailing data are validation failures.
func parseBody(c *fiber.Ctx, out any) error {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return bodyError(err)
	}
	if dec.More() {
		return errorutil.NewValidationError("Invalid request body.", nil)
	}
	return nil
}

func bodyError(err error) error {
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return errorutil.NewValidationError("Invalid input.", map[string]any{typeErr.Field: "Invalid type."})
	case strings.HasPrefix(err.Error(), unknownFieldPrefix):
		field := strings.Trim(strings.TrimPrefix(err.Error(), unknownFieldPrefix), `"`)
		return errorutil.NewValidationError("Invalid input.", map[string]any{field: "Unknown field."})
	default:
		return errorutil.NewValidationError("Invalid request body.", nil)
	}
}

func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errorutil.NewValidationError("Invalid input.", map[string]any{key: "Must be a positive number."})
	}
	return v, nil
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"data": data})
}

func created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": data})
}

func noContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
