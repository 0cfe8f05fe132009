package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"datajoin/core/loader"
	"datajoin/core/logger"
	"datajoin/core/middleware/auth"
	"datajoin/core/middleware/rayid"
	"datajoin/feature/integrity"
	"datajoin/feature/scenes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "datajoin/docs/swagger"
)

// @title Datajoin API
// @version 1.0
// @description API for joining datasets to stored scenes.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the datajoin server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		rt, err := newRuntime()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		logg := rt.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		shutdownTracing, err := rt.tracing(os.Stdout)
		if err != nil {
			logg.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(ctx); err != nil {
				logg.Warn("Failed to flush traces", zap.Error(err))
			}
		}()

		// The database is optional, scenes live in memory without it
		_ = rt.connect(false)

		app, err := newApp(rt)
		if err != nil {
			logg.Fatal("Failed to build server", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			if err := app.Listen(":" + rt.cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

// newApp wires middleware and features into a fiber app.
func newApp(rt *runtime) (*fiber.App, error) {
	logg := rt.logger

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             rt.cfg.Server.BodyLimit(),
	})

	var registry *prometheus.Registry
	if rt.cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	sceneService, err := rt.sceneService(registryOrNil(registry))
	if err != nil {
		return nil, err
	}

	mgr := loader.NewManager(logg)
	mgr.Register(scenes.NewFeature(sceneService))
	mgr.Register(integrity.NewFeature(rt.client, rt.cfg.Storage.Bucket, logg, rt.db, rt.cfg.Join.DatasetPrefix))

	// RayID first so every log line below carries it
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	// Public endpoints
	app.Get("/swagger/*", swagger.HandlerDefault)
	if registry != nil {
		app.Get(rt.cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey}))

	if err := mgr.LoadAll(app); err != nil {
		return nil, err
	}
	return app, nil
}

// registryOrNil avoids handing a typed nil to an interface parameter.
func registryOrNil(r *prometheus.Registry) prometheus.Registerer {
	if r == nil {
		return nil
	}
	return r
}

func init() {
	RootCmd.AddCommand(startCmd)
}
