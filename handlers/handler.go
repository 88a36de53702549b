package handlers

import (
	"link-downloader-go/config"
	"link-downloader-go/services"
)

// Handler serves the HTTP API
type Handler struct {
	cfg      *config.Config
	resolver *services.Resolver
	ytdlp    *services.YtDlp
	procs    *services.ProcessRegistry
}

// New creates a handler
func New(cfg *config.Config, resolver *services.Resolver, ytdlp *services.YtDlp, procs *services.ProcessRegistry) *Handler {
	return &Handler{
		cfg:      cfg,
		resolver: resolver,
		ytdlp:    ytdlp,
		procs:    procs,
	}
}
