package handlers

import (
	"time"

	"link-downloader-go/models"

	"github.com/gofiber/fiber/v2"
)

// LivenessMessage is the body of GET /
const LivenessMessage = "server is running"

// HandleRoot handles GET /
func (h *Handler) HandleRoot(c *fiber.Ctx) error {
	return c.SendString(LivenessMessage)
}

// HandleHealth handles GET /health
// @Summary Health check
// @Description Check if the server is running
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /health [get]
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(models.HealthResponse{
		Status:          "ok",
		Timestamp:       time.Now().UnixMilli(),
		ActiveDownloads: h.procs.Count(),
	})
}
