package handlers

import (
	"errors"
	"log"

	"link-downloader-go/models"
	"link-downloader-go/services"
	"link-downloader-go/utils"

	"github.com/gofiber/fiber/v2"
)

// HandleGetInfo handles POST /api/get-info
// @Summary Get media info
// @Description Fetch title, thumbnail, duration and the available video encodings
// @Tags info
// @Accept json
// @Produce json
// @Param request body models.InfoRequest true "Source URL"
// @Success 200 {object} models.MediaSummary
// @Failure 400 {object} models.ErrorResponse "Missing URL"
// @Failure 500 {object} models.ErrorResponse "Extraction failed"
// @Router /api/get-info [post]
func (h *Handler) HandleGetInfo(c *fiber.Ctx) error {
	var req models.InfoRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.BadRequest(c, utils.ErrInvalidRequest, "Invalid request body")
		}
	}

	if err := utils.ValidateSourceURL(req.URL); err != nil {
		return utils.BadRequest(c, utils.ErrMissingURL, "URL is required")
	}

	summary, err := h.resolver.Resolve(c.UserContext(), req.URL)
	if err != nil {
		log.Printf("[Info] %s: %v\n", req.URL, err)

		if errors.Is(err, services.ErrBadMetadata) {
			return utils.InternalError(c, utils.ErrProcessingFailed, "Error processing video data")
		}
		return utils.InternalError(c, utils.ErrFetchFailed, "Failed to fetch info")
	}

	return c.JSON(summary)
}
