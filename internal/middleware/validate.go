package middleware

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// QueryKey is the context key under which validated query structs are stored.
const QueryKey = "query"

var validate = validator.New()

// ValidateQuery parses and validates the request's query parameters into a
// fresh T per request. Failures are client errors: a missing required
// parameter yields a 400 naming the parameter.
func ValidateQuery[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := new(T)
		if err := c.QueryParser(params); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid query parameters",
			})
		}

		if err := validate.Struct(params); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": verrs[0].Field() + " parameter is required",
				})
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid query parameters",
			})
		}

		c.Locals(QueryKey, params)
		return c.Next()
	}
}

// Query retrieves the validated query struct stored by ValidateQuery.
func Query[T any](c *fiber.Ctx) *T {
	params, _ := c.Locals(QueryKey).(*T)
	return params
}
