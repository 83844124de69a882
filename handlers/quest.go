// handlers/quest.go
package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"region-quest-system/middleware"
	"region-quest-system/services"
)

// Handlers stay thin: parse the request, call the service, return its
// {ok,...} result as-is. Callers branch on ok, not on status codes.
func SetupQuestRoutes(app *fiber.App, questService *services.QuestService, feedService *services.FeedService, commentService *services.CommentService) {
	// Quest lookups are open to anonymous players; completion status just
	// stays false without a token.
	app.Get("/quests", func(c *fiber.Ctx) error {
		lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
		lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
		if errLat != nil || errLng != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"ok":      false,
				"message": "lat, lng 쿼리 파라미터가 필요합니다.",
			})
		}
		return c.JSON(questService.ResolveQuests(c.Context(), lat, lng, middleware.PlayerID(c)))
	})

	app.Get("/quests/:id", func(c *fiber.Ctx) error {
		return c.JSON(questService.GetQuest(c.Params("id"), middleware.PlayerID(c)))
	})

	app.Post("/quests/:id/complete", func(c *fiber.Ctx) error {
		playerID := middleware.PlayerID(c)
		if playerID == "" {
			return unauthorized(c)
		}
		return c.JSON(questService.CompleteQuest(c.Params("id"), playerID))
	})

	app.Post("/quests/:id/feed", func(c *fiber.Ctx) error {
		playerID := middleware.PlayerID(c)
		if playerID == "" {
			return unauthorized(c)
		}
		var in services.FeedInput
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c)
		}
		return c.JSON(feedService.FeedQuest(c.Params("id"), playerID, in))
	})

	app.Post("/feeds/:feedId/comments", func(c *fiber.Ctx) error {
		playerID := middleware.PlayerID(c)
		if playerID == "" {
			return unauthorized(c)
		}
		var body struct {
			Comment string `json:"comment"`
		}
		if err := c.BodyParser(&body); err != nil {
			return badRequest(c)
		}
		return c.JSON(commentService.CreateComment(c.Params("feedId"), playerID, body.Comment))
	})

	app.Patch("/comments/:id", func(c *fiber.Ctx) error {
		playerID := middleware.PlayerID(c)
		if playerID == "" {
			return unauthorized(c)
		}
		var body struct {
			Comment string `json:"comment"`
		}
		if err := c.BodyParser(&body); err != nil {
			return badRequest(c)
		}
		return c.JSON(commentService.UpdateComment(c.Params("id"), playerID, body.Comment))
	})

	app.Delete("/comments/:id", func(c *fiber.Ctx) error {
		playerID := middleware.PlayerID(c)
		if playerID == "" {
			return unauthorized(c)
		}
		return c.JSON(commentService.DeleteComment(c.Params("id"), playerID))
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"ok":      false,
		"message": "로그인이 필요합니다.",
	})
}

func badRequest(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"ok":      false,
		"message": "요청 형식이 올바르지 않습니다.",
	})
}
