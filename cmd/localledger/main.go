package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"localledger/internal/config"
	"localledger/internal/http/handlers"
	applog "localledger/internal/log"
	"localledger/internal/repos"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			// The gateway expects TwiML even on failure; never leak internals.
			c.Set(fiber.HeaderContentType, "application/xml")
			return c.Status(fiber.StatusInternalServerError).
				SendString("<?xml version=\"1.0\" encoding=\"UTF-8\"?><Response><Message>❌ An error occurred. Please try again.</Message></Response>")
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	if cfg.Debug {
		app.Use(logger.New())
	}
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	// ---------- Routes ----------
	deps := handlers.NewDeps(db, cfg)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Welcome to LocalLedger"})
	})
	app.Post("/webhook", deps.Webhook.Receive)
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	log.Fatal(app.Listen(":" + cfg.Port))
}
