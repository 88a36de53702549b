package server

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"link-downloader-go/config"
	"link-downloader-go/handlers"
	"link-downloader-go/services"
	"link-downloader-go/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

const (
	shutdownTimeout = 10 * time.Second
	probeTimeout    = 10 * time.Second
)

// Server wires the Fiber app, the yt-dlp runner and the reaper
type Server struct {
	cfg   *config.Config
	app   *fiber.App
	procs *services.ProcessRegistry
	ytdlp *services.YtDlp

	mu   sync.Mutex
	cron *cron.Cron
}

// New builds a server from cfg. Nothing is started until Listen.
func New(cfg *config.Config) (*Server, error) {
	procs, err := services.NewProcessRegistry()
	if err != nil {
		return nil, err
	}

	ytdlp := services.NewYtDlp(cfg, procs)
	resolver := services.NewResolver(ytdlp, cfg.InfoTimeout)
	h := handlers.New(cfg, resolver, ytdlp, procs)

	app := fiber.New(fiber.Config{
		AppName:       "Link Downloader Go",
		ServerHeader:  "link-downloader-go",
		CaseSensitive: true,
		StrictRouting: false,
		// Responses are streamed, only the get-info body is parsed
		BodyLimit: 64 * 1024,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.AllowedOrigin,
		AllowMethods:  "GET,POST,DELETE,OPTIONS",
		AllowHeaders:  "Content-Type,Accept",
		ExposeHeaders: fmt.Sprintf("%s,%s", fiber.HeaderContentDisposition, handlers.HeaderDownloadID),
	}))

	// Liveness
	app.Get("/", h.HandleRoot)
	app.Get("/health", h.HandleHealth)

	// API routes
	api := app.Group("/api")
	if cfg.RateLimitMax > 0 {
		api.Use(limiter.New(limiter.Config{
			Max:          cfg.RateLimitMax,
			Expiration:   cfg.RateLimitWindow,
			LimitReached: utils.TooManyRequests,
		}))
	}
	api.Post("/get-info", h.HandleGetInfo)
	api.Get("/download", h.HandleDownload)
	api.Get("/downloads", h.HandleListDownloads)
	api.Delete("/downloads/:id", h.HandleCancelDownload)

	return &Server{
		cfg:   cfg,
		app:   app,
		procs: procs,
		ytdlp: ytdlp,
	}, nil
}

// App returns the underlying Fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts the reaper and serves until Shutdown is called
func (s *Server) Listen() error {
	reaper, err := utils.StartReaper(s.cfg.ReapSchedule, s.cfg.MaxDownloadAge, s.procs)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cron = reaper
	s.mu.Unlock()

	s.probeTools()

	addr := fmt.Sprintf(":%d", s.cfg.Port)
	log.Printf("Server running at http://localhost%s\n", addr)

	return s.app.Listen(addr)
}

// Shutdown kills running downloads, stops accepting requests and stops the reaper
func (s *Server) Shutdown() error {
	s.procs.CloseAll()
	err := s.app.ShutdownWithTimeout(shutdownTimeout)
	// Downloads started while the listener was closing
	s.procs.CloseAll()

	s.mu.Lock()
	reaper := s.cron
	s.mu.Unlock()
	if reaper != nil {
		<-reaper.Stop().Done()
	}

	return err
}

// probeTools logs the external tool versions. Missing tools are reported but
// do not stop the server.
func (s *Server) probeTools() {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	if version, err := s.ytdlp.Version(ctx); err != nil {
		log.Printf("[Startup] yt-dlp unavailable (%s): %v\n", s.cfg.YtDlpPath, err)
	} else {
		log.Printf("[Startup] yt-dlp %s\n", version)
	}

	if path, err := services.FFmpegAvailable(s.cfg.FFmpegLocation); err != nil {
		log.Printf("[Startup] %v\n", err)
	} else {
		log.Printf("[Startup] ffmpeg at %s\n", path)
	}
}
