package handlers

import (
	"bufio"
	"context"
	"log"
	"time"

	"link-downloader-go/config"
	"link-downloader-go/models"
	"link-downloader-go/services"
	"link-downloader-go/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// HeaderDownloadID carries the ID usable with DELETE /api/downloads/:id
const HeaderDownloadID = "X-Download-Id"

// HandleDownload handles GET /api/download
// @Summary Download media
// @Description Stream the chosen encoding merged with the best audio as an MP4 attachment
// @Tags download
// @Produce octet-stream
// @Param url query string true "Source URL"
// @Param title query string false "Title used for the filename"
// @Param formatId query string false "Encoding id from /api/get-info"
// @Success 200 {file} binary "MP4 stream"
// @Failure 400 {object} models.ErrorResponse "Invalid parameters"
// @Failure 500 {object} models.ErrorResponse "Download could not start"
// @Router /api/download [get]
func (h *Handler) HandleDownload(c *fiber.Ctx) error {
	var req models.DownloadRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.BadRequest(c, utils.ErrInvalidRequest, "Invalid query parameters")
	}

	if err := utils.ValidateSourceURL(req.URL); err != nil {
		return utils.BadRequest(c, utils.ErrMissingURL, "URL is required")
	}
	if err := utils.ValidateFormatID(req.FormatID); err != nil {
		return utils.BadRequest(c, utils.ErrInvalidFormatID, err.Error())
	}

	filename := utils.DownloadFilename(req.Title)

	// Not tied to the request context: the body is written after the handler returns
	proc, err := h.ytdlp.StartDownload(context.Background(), req)
	if err != nil {
		log.Printf("[Download] Failed to start for %s: %v\n", req.URL, err)
		return utils.InternalError(c, utils.ErrInternalError, "Failed to start download")
	}

	log.Printf("[Download %s] Started: %s (format %q)\n", proc.ID, req.URL, req.FormatID)

	c.Set(fiber.HeaderContentDisposition, utils.ContentDisposition(filename))
	c.Set(fiber.HeaderContentType, config.OutputContentType)
	c.Set(HeaderDownloadID, proc.ID)

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		h.pipe(proc, w)
	})

	return nil
}

// pipe forwards the process output to the response until the process exits,
// the client goes away or the process stays silent for the idle timeout. The
// process is killed on every exit path.
func (h *Handler) pipe(proc *services.Process, w *bufio.Writer) {
	defer func() {
		_ = proc.Close()
	}()

	var limiter *rate.Limiter
	if limit := h.cfg.StreamRateLimit; limit > 0 {
		limiter = rate.NewLimiter(rate.Limit(limit), max(limit, h.cfg.BufferSize))
	}

	// idle stays nil, and never fires, when the timeout is disabled
	var timer *time.Timer
	var idle <-chan time.Time
	if timeout := h.cfg.StreamIdleTimeout; timeout > 0 {
		timer = time.NewTimer(timeout)
		defer timer.Stop()
		idle = timer.C
	}

	chunks := proc.Chunks()

stream:
	for {
		select {
		case chunk, ok := <-chunks:
			if !ok {
				break stream
			}

			if limiter != nil {
				if err := limiter.WaitN(context.Background(), len(chunk)); err != nil {
					log.Printf("[Download %s] Rate limiter: %v\n", proc.ID, err)
					return
				}
			}

			if _, err := w.Write(chunk); err != nil {
				log.Printf("[Download %s] Client gone after %d bytes: %v\n", proc.ID, proc.Bytes(), err)
				return
			}
			if err := w.Flush(); err != nil {
				log.Printf("[Download %s] Client gone after %d bytes: %v\n", proc.ID, proc.Bytes(), err)
				return
			}

			// Idle time counts from the last delivered chunk
			if timer != nil {
				timer.Reset(h.cfg.StreamIdleTimeout)
			}

		case <-idle:
			log.Printf("[Download %s] No output for %v after %d bytes, killing\n", proc.ID, h.cfg.StreamIdleTimeout, proc.Bytes())
			return
		}
	}

	if err := proc.Wait(); err != nil {
		log.Printf("[Download %s] yt-dlp exited after %d bytes: %v: %s\n", proc.ID, proc.Bytes(), err, proc.Stderr())
		return
	}

	log.Printf("[Download %s] Completed: %d bytes\n", proc.ID, proc.Bytes())
}
