package handlers

import (
	"log"

	"link-downloader-go/models"
	"link-downloader-go/utils"

	"github.com/gofiber/fiber/v2"
)

// HandleListDownloads handles GET /api/downloads
// @Summary List active downloads
// @Tags downloads
// @Produce json
// @Success 200 {array} models.ActiveDownload
// @Router /api/downloads [get]
func (h *Handler) HandleListDownloads(c *fiber.Ctx) error {
	return c.JSON(h.procs.List())
}

// HandleCancelDownload handles DELETE /api/downloads/:id
// @Summary Cancel download
// @Description Kill the yt-dlp process behind an active download
// @Tags downloads
// @Produce json
// @Param id path string true "Download ID"
// @Success 200 {object} models.CancelResponse
// @Failure 400 {object} models.ErrorResponse "Invalid download ID"
// @Failure 404 {object} models.ErrorResponse "Download not active"
// @Router /api/downloads/{id} [delete]
func (h *Handler) HandleCancelDownload(c *fiber.Ctx) error {
	id := c.Params("id")

	if !utils.ValidateDownloadID(id) {
		return utils.BadRequest(c, utils.ErrInvalidDownloadID, "Invalid download ID format")
	}

	if !h.procs.Cancel(id) {
		return utils.NotFound(c, utils.ErrDownloadNotFound, "Download not found")
	}

	log.Printf("[Download %s] Cancelled by request\n", id)

	return c.JSON(models.CancelResponse{
		Success: true,
	})
}
