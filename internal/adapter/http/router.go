package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ServerConfig struct {
	BodyLimitMB  int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewApp builds the fiber application with middleware and every route.
func NewApp(h *Handler, cfg ServerConfig, logger *zap.Logger) *fiber.App {
	if cfg.BodyLimitMB < 1 {
		cfg.BodyLimitMB = 4
	}
	app := fiber.New(fiber.Config{
		AppName:               "resume-builder",
		BodyLimit:             cfg.BodyLimitMB * 1024 * 1024,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler:          ErrorHandler(logger),
		DisableStartupMessage: true,
	})

	app.Use(RequestID(), Logger(logger), Recover(logger))

	app.Get("/healthz", h.Health)

	api := app.Group("/api")
	api.Get("/templates", h.Templates)

	authed := api.Group("", RequireUser())
	authed.Post("/preview", h.Preview)
	authed.Post("/export/:encoding", h.Export)

	authed.Post("/form/progress", h.Progress)
	authed.Post("/form/:section/entries", h.AddEntry)
	authed.Delete("/form/:section/entries/:index", h.RemoveEntry)

	authed.Get("/drafts", h.ListDrafts)
	authed.Post("/drafts", h.SaveDraft)
	authed.Get("/drafts/:id", h.GetDraft)
	authed.Delete("/drafts/:id", h.DeleteDraft)
	authed.Get("/drafts/:id/export/:encoding", h.ExportDraft)

	return app
}
