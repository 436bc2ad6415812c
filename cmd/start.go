package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"content-transfer/core/config"
	"content-transfer/core/database"
	"content-transfer/core/loader"
	"content-transfer/core/logger"
	"content-transfer/core/middleware/auth"
	"content-transfer/core/middleware/rayid"
	"content-transfer/core/repository"

	"content-transfer/feature/transfer"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the content transfer server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Open the content repository
		repo, err := buildRepository(cfg, logg)
		if err != nil {
			logg.Fatal("Failed to open content repository", zap.Error(err))
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We log our own startup message
		})

		// 5. Initialize Feature Loader
		mgr := loader.NewManager(logg)
		mgr.Register(transfer.NewFeature(transfer.NewService(repo, logg, cfg.Repository.User)))

		// Middleware Registration
		// RayID must be first so every log line can be correlated.
		app.Use(rayid.New())

		// Request logging with Zap + RayID.
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

		// Auth protects every endpoint.
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 6. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

// buildRepository opens the configured repository backend. The mysql backend
// migrates its schema on startup; the memory backend starts from the built-in
// seed state.
func buildRepository(cfg *config.Config, logg *zap.Logger) (repository.Repository, error) {
	if !cfg.Repository.IsValidBackend() {
		return nil, fmt.Errorf("unknown repository backend %q", cfg.Repository.Backend)
	}

	if cfg.Repository.Backend == repository.BackendMemory {
		logg.Info("Using in-memory repository backend")
		return repository.NewMemory(), nil
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(db); err != nil {
		return nil, err
	}
	logg.Info("Connected to repository database",
		zap.String("host", cfg.Database.Host),
		zap.String("name", cfg.Database.Name),
	)
	return repository.NewGorm(db), nil
}

func init() {
	RootCmd.AddCommand(startCmd)
}
