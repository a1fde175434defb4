package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/siprista/backend/internal/app/controllers"
	appMigrations "github.com/siprista/backend/internal/app/migrations"
	"github.com/siprista/backend/internal/app/models/dto"
	appRepos "github.com/siprista/backend/internal/app/repositories"
	appRoutes "github.com/siprista/backend/internal/app/routes"
	appServices "github.com/siprista/backend/internal/app/services"
	"github.com/siprista/backend/internal/config"
	"github.com/siprista/backend/internal/db"
	appMiddleware "github.com/siprista/backend/internal/middleware"
	pkgAuth "github.com/siprista/backend/internal/pkg/auth"
	"github.com/siprista/backend/internal/pkg/helpers"
	"github.com/siprista/backend/internal/pkg/logger"
	"github.com/siprista/backend/internal/pkg/session"
	"github.com/siprista/backend/internal/pkg/websocket"
	"github.com/siprista/backend/internal/seed"
)

// ServiceName tags every log entry and prefixes the metrics.
const ServiceName = "siprista"

// DefaultConfigPath is read relative to the working directory.
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos              *appRepos.Repositories
	Sessions           session.Store
	JWTService         *pkgAuth.JWTService
	AuthService        *appServices.AuthService
	StudentService     appServices.StudentService
	GuruService        appServices.GuruService
	AchievementService appServices.AchievementService
	ReportService      appServices.ReportService
	Hub                *websocket.Hub
	AuthMiddleware     *appMiddleware.AuthMiddleware
	Metrics            *appMiddleware.Metrics
	Controllers        appRoutes.Controllers
	Logger             zerolog.Logger

	redis *redis.Client
}

// Close releases connections owned by the dependencies. The database pool is closed by its owner.
func (d *Dependencies) Close() {
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close redis client")
		}
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.Config{
		Level:   logger.ParseLevel(cfg.Logging.Level),
		Pretty:  strings.EqualFold(cfg.Logging.Format, "text"),
		Service: ServiceName,
	})
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects, applies pending migrations and ensures the default data.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	if err := Migrate(ctx, database, lgr); err != nil {
		database.Close()
		return nil, err
	}

	opts := seed.Options{
		AdminEmail:    cfg.Seed.AdminEmail,
		AdminPassword: cfg.Seed.AdminPassword,
		Demo:          cfg.Seed.Demo,
	}
	if _, err := seed.CreateDefaultData(ctx, database.Pool, opts, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// Migrate applies every pending migration.
func Migrate(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	migrator, err := appMigrations.NewMigrator(database.Pool, lgr)
	if err != nil {
		return fmt.Errorf("failed to prepare migrations: %w", err)
	}
	defer migrator.Close()

	if err := migrator.Up(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// NewSessionStore returns the store selected by session.driver. For redis the client
// is returned too so the caller can close it.
func NewSessionStore(ctx context.Context, cfg *config.Config, repos *appRepos.Repositories) (session.Store, *redis.Client, error) {
	if !cfg.UsesRedisSessions() {
		return repos.SessionRepository, nil, nil
	}
	client, err := session.NewRedisClient(ctx, session.RedisConfig{
		Addr:     cfg.Session.Redis.Addr,
		Password: cfg.Session.Redis.Password,
		DB:       cfg.Session.Redis.DB,
	})
	if err != nil {
		return nil, nil, err
	}
	return session.NewRedisStore(client), client, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	deps.Repos = appRepos.NewRepositories(database.Pool)

	store, redisClient, err := NewSessionStore(ctx, cfg, deps.Repos)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize session store")
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}
	deps.Sessions, deps.redis = store, redisClient
	lgr.Info().Str("driver", cfg.Session.Driver).Msg("Session store ready")

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    cfg.TokenTTL(),
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.Hub = websocket.NewHub(lgr)

	deps.AuthService = appServices.NewAuthService(deps.Repos.AccountRepository, deps.Sessions, deps.JWTService, helpers.SystemClock, lgr)
	deps.StudentService = appServices.NewStudentService(deps.Repos.StudentRepository, deps.Hub)
	deps.GuruService = appServices.NewGuruService(deps.Repos.AccountRepository, deps.Hub)
	deps.AchievementService = appServices.NewAchievementService(
		deps.Repos.AchievementRepository,
		deps.Repos.StudentRepository,
		deps.Repos.AccountRepository,
		deps.Hub,
	)
	deps.ReportService = appServices.NewReportService(
		deps.Repos.AchievementRepository,
		deps.Repos.StudentRepository,
		deps.Repos.AccountRepository,
		helpers.SystemClock,
		helpers.LoadLocation(cfg.Report.Timezone),
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthService)

	deps.Metrics = appMiddleware.NewMetrics(ServiceName)
	deps.Metrics.Registry().MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: ServiceName,
		Name:      "live_clients",
		Help:      "Connected live report clients.",
	}, func() float64 { return float64(deps.Hub.ClientsCount()) }))

	deps.Controllers = appRoutes.Controllers{
		Auth:        appControllers.NewAuthController(deps.AuthService, lgr),
		Student:     appControllers.NewStudentController(deps.StudentService),
		Guru:        appControllers.NewGuruController(deps.GuruService),
		Achievement: appControllers.NewAchievementController(deps.AchievementService),
		Report:      appControllers.NewReportController(deps.ReportService, deps.Hub),
		Health:      appControllers.NewHealthController(database),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestLogger(lgr),
		appMiddleware.CORS(),
		deps.Metrics.Middleware(),
	)

	appRoutes.SetupSwagger(router)
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("Endpoint tidak ditemukan", "NOT_FOUND"))
	})

	return router
}
