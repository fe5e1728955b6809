// path: main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"parkwatch/alerts"
	"parkwatch/config"
	"parkwatch/controllers"
	"parkwatch/database"
	"parkwatch/mailer"
	"parkwatch/metrics"
	"parkwatch/routes"
	"parkwatch/sms"
)

func main() {
	root := &cobra.Command{
		Use:           "parkwatch",
		Short:         "Forest Lakes Park activity tracker API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, args []string) error { return runServe() },
	}
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  func(cmd *cobra.Command, args []string) error { return runServe() },
	})
	root.AddCommand(&cobra.Command{
		Use:   "broadcast",
		Short: "Trigger one fire-alert fan-out and print the summary",
		RunE:  func(cmd *cobra.Command, args []string) error { return runBroadcast() },
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	log, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer log.Sync()

	metrics.Register()

	db, err := database.Open(context.Background(), cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	sender := mailer.NewSendGrid(cfg.SendGridKey, cfg.FromEmail)
	broadcaster := alerts.NewBroadcaster(db.Emails(), sender, cfg.AlertWorkers, log)
	fireReports := alerts.NewFireReports(broadcaster, log)
	fireReports.Start()

	h := &controllers.Handlers{
		Sightings: db.Sightings(),
		Emails:    db.Emails(),
		Phones:    db.Phones(),
		Fire:      fireReports,
		Broadcast: broadcaster,
		Texts:     sms.NewGateway(sender, log),
		Log:       log,
		UploadDir: cfg.UploadDir,
	}

	app := fiber.New()
	app.Use(recover.New())

	// Log concise request lines
	app.Use(logger.New(logger.Config{
		TimeFormat: "15:04:05",
	}))

	// CORS (dev-friendly)
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "*",
		AllowCredentials: false,
		MaxAge:           int((12 * time.Hour).Seconds()),
	}))

	app.Use(instrument())

	// Static preview for uploaded files
	app.Static("/uploads", cfg.UploadDir)

	// Health
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API
	routes.Register(app, h)

	errCh := make(chan error, 1)
	go func() {
		log.Info("API listening", zap.String("addr", cfg.ListenAddr))
		errCh <- app.Listen(cfg.ListenAddr)
	}()

	// Wait for interrupt signal for graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case s := <-sig:
		log.Info("shutting down", zap.String("signal", s.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	fireReports.Close()
	if err := db.Close(ctx); err != nil {
		log.Error("store disconnect failed", zap.Error(err))
	}
	log.Info("shutdown complete")
	return nil
}

func runBroadcast() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	log, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer log.Sync()

	metrics.Register()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close(context.Background())

	sender := mailer.NewSendGrid(cfg.SendGridKey, cfg.FromEmail)
	broadcaster := alerts.NewBroadcaster(db.Emails(), sender, cfg.AlertWorkers, log)

	sum, err := broadcaster.BroadcastFireAlert(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("run %s: %d recipients, %d sent, %d failed\n", sum.RunID, sum.Recipients, sum.Sent, sum.Failed)
	return nil
}

// instrument records per-route request counts and latency, after routing so
// the matched route path is available.
func instrument() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		if route == "" {
			route = c.Path()
		}
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		metrics.HTTPRequestDuration.WithLabelValues(route, c.Method()).Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()
		return err
	}
}
