package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/martijn/jobboard/internal/api/middleware"
	"github.com/martijn/jobboard/internal/core/repository"
	"github.com/martijn/jobboard/internal/core/service"
	"github.com/martijn/jobboard/internal/infrastructure/sqlstore"
	"github.com/martijn/jobboard/pkg/config"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	envFile string
	cfg     *config.Config
	logger  *slog.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "jobboard",
	Short: "Jobboard - users, jobs and applications over a REST API",
	Long: `Jobboard is a small job board backend.

It provides:
- Token based authentication with admin and per-user access rules
- User accounts and job postings with partial updates
- Job search by title, minimum salary and equity
- Job applications with an application state
- SQLite or PostgreSQL storage`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		// A .env file is optional; real environment variables win.
		if err := godotenv.Load(envFile); err != nil && cmd.Flags().Changed("env-file") {
			return fmt.Errorf("failed to load env file: %w", err)
		}

		// Load configuration
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err = newLogger(cfg, os.Stderr)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)

		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/jobboard/config.yml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")
}

func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return slog.New(slog.NewJSONHandler(w, opts)), nil
}

// initServices opens the database and wires repositories and services.
func initServices() (*Services, error) {
	// Initialize database
	db, err := sqlstore.New(sqlstore.Options{
		Driver:          cfg.DatabaseDriver,
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		QueryTimeout:    cfg.QueryTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize repositories
	userRepo := sqlstore.NewUserRepository(db)
	jobRepo := sqlstore.NewJobRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, service.AuthOptions{
		JWTSecret:     cfg.JWTSecretKey,
		JWTAlgorithm:  cfg.JWTAlgorithm,
		BcryptCost:    cfg.BcryptCost,
		TokenLifetime: cfg.TokenLifetime,
	})
	userService := service.NewUserService(userRepo, jobRepo, authService, logger)
	jobService := service.NewJobService(jobRepo, logger)

	services := &Services{
		DB:          db,
		UserRepo:    userRepo,
		JobRepo:     jobRepo,
		AuthService: authService,
		UserService: userService,
		JobService:  jobService,
	}

	// Rate limiter for /auth, shared through redis when configured
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("invalid redis_url: %w", err)
		}
		services.Redis = redis.NewClient(opts)
		services.Limiter = middleware.NewRedisLimiter(services.Redis)
	} else {
		services.Limiter = middleware.NewMemoryLimiter()
	}

	return services, nil
}

// Services holds all initialized services
type Services struct {
	DB          *sqlstore.DB
	Redis       *redis.Client
	UserRepo    repository.UserRepository
	JobRepo     repository.JobRepository
	AuthService *service.AuthService
	UserService *service.UserService
	JobService  *service.JobService
	Limiter     middleware.Limiter
}

// Close closes all resources
func (s *Services) Close() {
	if s.Redis != nil {
		s.Redis.Close()
	}
	if s.DB != nil {
		s.DB.Close()
	}
}
