// handlers/player.go
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"region-quest-system/services"
)

func SetupPlayerRoutes(app *fiber.App, playerService *services.PlayerService) {
	app.Post("/players/signup", func(c *fiber.Ctx) error {
		var in services.SignupInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"ok":      false,
				"message": "요청 형식이 올바르지 않습니다.",
			})
		}
		return c.JSON(playerService.Signup(in))
	})

	app.Post("/players/login", func(c *fiber.Ctx) error {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"ok":      false,
				"message": "요청 형식이 올바르지 않습니다.",
			})
		}
		return c.JSON(playerService.Login(body.Email, body.Password))
	})
}
