package utils

import (
	"github.com/gofiber/fiber/v2"
)

// Response is the JSON envelope of every API answer
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SuccessResponse writes a 200 JSON response
func SuccessResponse(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse writes an error JSON response and logs server side failures
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	response := Response{
		Success: false,
		Message: message,
	}
	if err != nil {
		response.Error = err.Error()
	}

	if status >= fiber.StatusInternalServerError {
		entry := GetLogger().WithFields(map[string]interface{}{
			"status": status,
			"path":   c.Path(),
		})
		if err != nil {
			entry = entry.WithError(err)
		}
		entry.Error(message)
	}

	return c.Status(status).JSON(response)
}
