package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"clinic-desk/core/loader"
	"clinic-desk/core/middleware/auth"
	"clinic-desk/core/middleware/rayid"
	"clinic-desk/core/middleware/requestlog"
	"clinic-desk/core/server"
	"clinic-desk/feature/frontdesk"
	visitreconcile "clinic-desk/feature/frontdesk/reconcile"
	"clinic-desk/feature/person"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "clinic-desk/docs/swagger"
)

// @title Clinic Desk API
// @version 1.0
// @description Front-desk API for the clinic waiting list and treatment log.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the front-desk server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Configuration, logger and stores
		rt, err := loadRuntime()
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer rt.close()
		cfg, logg := rt.cfg, rt.logger

		// 2. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// 3. Initialize Feature Loader
		frontDesk := frontdesk.NewFeature(rt.stores, cfg.FrontDesk, nil, logg)

		mgr := loader.NewManager()
		mgr.Register(person.NewFeature(rt.stores, logg))
		mgr.Register(frontDesk)
		mgr.Register(visitreconcile.NewFeature(rt.stores, frontDesk.Synchronizer(), rt.archive(), logg))

		checkYearSchema(frontDesk.Synchronizer(), cfg.FrontDesk, logg)

		// Middleware Registration
		// RayID must be first so every log line carries it.
		app.Use(rayid.New())
		app.Use(requestlog.New(logg))

		// Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/health", server.Health(rt.stores, 5*time.Second))

		// Auth protects everything registered after it.
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))
		if !cfg.Server.HasApiKey() {
			logg.Warn("API key not configured, requests are not authenticated")
		}

		// 4. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 5. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 6. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		timeout := time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
		if err := app.ShutdownWithTimeout(timeout); err != nil {
			logg.Warn("Shutdown did not complete cleanly", zap.Error(err))
		}
	},
}

// checkYearSchema warns about missing yearly tables before the first check-in hits them.
func checkYearSchema(sync *frontdesk.Synchronizer, cfg frontdesk.Config, logg *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	year := strconv.Itoa(time.Now().In(cfg.Location()).Year())
	report, err := sync.CheckSchema(ctx, year)
	if err != nil {
		logg.Warn("Schema check failed", zap.String("year", year), zap.Error(err))
		return
	}
	for table, tr := range report.Tables {
		if tr.Status == "ok" {
			continue
		}
		logg.Warn("Yearly table not ready",
			zap.String("table", table),
			zap.String("store", string(tr.Store)),
			zap.String("status", tr.Status),
			zap.Strings("missing_columns", tr.MissingColumns),
			zap.String("error", tr.Error))
	}
}

func init() {
	RootCmd.AddCommand(startCmd)
}
