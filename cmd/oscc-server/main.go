package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/oscc/capture/internal/config"
	"github.com/oscc/capture/internal/domain/casehistory"
	"github.com/oscc/capture/internal/domain/clinic"
	"github.com/oscc/capture/internal/domain/consent"
	"github.com/oscc/capture/internal/domain/labwork"
	"github.com/oscc/capture/internal/domain/participant"
	"github.com/oscc/capture/internal/domain/sample"
	"github.com/oscc/capture/internal/domain/screening"
	"github.com/oscc/capture/internal/domain/study"
	"github.com/oscc/capture/internal/export"
	"github.com/oscc/capture/internal/platform/auth"
	"github.com/oscc/capture/internal/platform/blobstore"
	"github.com/oscc/capture/internal/platform/db"
	"github.com/oscc/capture/internal/platform/health"
	"github.com/oscc/capture/internal/platform/middleware"
	"github.com/oscc/capture/internal/platform/tablestore"
)

const version = "0.1.0"

// RegisterAdapter exposes the participant register to the domains that
// validate against it. Declared here so the participant package does not
// have to know about its consumers.
type RegisterAdapter struct {
	svc *participant.Service
}

// GroupAndCohort implements screening.ParticipantSource.
func (a *RegisterAdapter) GroupAndCohort(ctx context.Context, researchID string) (string, string, error) {
	p, err := a.svc.Get(ctx, researchID)
	if err != nil {
		return "", "", err
	}
	return p.Group, p.Cohort, nil
}

// Cohort implements consent.ParticipantSource and sample.ParticipantSource.
func (a *RegisterAdapter) Cohort(ctx context.Context, researchID string) (string, error) {
	p, err := a.svc.Get(ctx, researchID)
	if err != nil {
		return "", err
	}
	return p.Cohort, nil
}

// Exists implements casehistory.ParticipantChecker.
func (a *RegisterAdapter) Exists(ctx context.Context, researchID string) (bool, error) {
	_, err := a.svc.Get(ctx, researchID)
	if err != nil {
		if errors.Is(err, participant.ErrParticipantNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// StudyDefaultsAdapter implements consent.StudyDefaults over the study
// register.
type StudyDefaultsAdapter struct {
	svc *study.Service
}

func (a *StudyDefaultsAdapter) DefaultConsentTaker(ctx context.Context, studyID string) (string, error) {
	st, err := a.svc.GetStudy(ctx, studyID)
	if err != nil {
		return "", err
	}
	return st.DefaultConsentTaker, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "oscc-server",
		Short: "OSCC study data capture API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the capture API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every table as a zip of CSV files",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			return runExport(out)
		},
	}
	cmd.Flags().String("out", export.ArchiveName, "output archive path")
	return cmd
}

// fullSchema is the union of every domain's declared tables.
func fullSchema() tablestore.Schema {
	return tablestore.Merge(
		study.Schema,
		participant.Schema,
		screening.Schema,
		consent.Schema,
		casehistory.Schema,
		sample.Schema,
		labwork.Schema,
		clinic.Schema,
	)
}

// newStore builds the configured table backend. The returned cleanup
// releases the connection pool for the postgres driver.
func newStore(ctx context.Context, cfg *config.Config, schema tablestore.Schema) (tablestore.Store, func(), error) {
	switch cfg.StorageDriver {
	case "postgres":
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		store := tablestore.NewPostgresStore(pool, schema)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	default:
		store, err := tablestore.NewFlatFileStore(cfg.DataDir, schema)
		if err != nil {
			return nil, nil, fmt.Errorf("opening data dir: %w", err)
		}
		return store, func() {}, nil
	}
}

func newBlobStore(ctx context.Context, cfg *config.Config) (blobstore.BlobStore, error) {
	switch cfg.BlobDriver {
	case "s3":
		return blobstore.NewS3BlobStore(ctx, blobstore.S3Config{
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretKey,
			PathStyle:       cfg.S3PathStyle,
		})
	case "memory":
		return blobstore.NewInMemoryBlobStore(), nil
	default:
		return blobstore.NewFSBlobStore(cfg.BlobRoot)
	}
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "" || os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	schema := fullSchema()
	store, closeStore, err := newStore(ctx, cfg, schema)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open table store")
	}
	defer closeStore()
	logger.Info().Str("driver", cfg.StorageDriver).Msg("table store ready")

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open blob store")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		jwtCfg := auth.JWTConfig{
			Issuer:   cfg.AuthIssuer,
			Audience: cfg.AuthAudience,
			JWKSURL:  cfg.AuthJWKSURL,
		}
		if cfg.JWTSecret != "" {
			jwtCfg.SigningKey = []byte(cfg.JWTSecret)
		}
		e.Use(auth.JWTMiddleware(jwtCfg))
	}

	// Metrics
	metrics := middleware.NewHTTPMetrics(prometheus.DefaultRegisterer)
	e.Use(metrics.Middleware())
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health checks
	health.NewHandler(store, version).RegisterRoutes(e)

	apiV1 := e.Group("/api/v1")

	// Repositories
	studySvc := study.NewService(
		study.NewStudyRepoStore(store),
		study.NewLabRepoStore(store),
		study.NewInvestigatorRepoStore(store),
	)
	participantSvc := participant.NewService(
		participant.NewRepoStore(store),
		participant.NewStatusStore(store),
		participant.NewCascadeStore(store),
		blobs,
	)
	register := &RegisterAdapter{svc: participantSvc}

	screeningSvc := screening.NewService(screening.NewRepoStore(store), register)
	consentSvc := consent.NewService(consent.NewRepoStore(store), register, &StudyDefaultsAdapter{svc: studySvc})
	caseHistorySvc := casehistory.NewService(
		casehistory.NewHistoryRepoStore(store),
		casehistory.NewMedicationRepoStore(store),
		casehistory.NewDocumentRepoStore(store),
		register,
	)
	sampleSvc := sample.NewService(sample.NewRepoStore(store), register, consentSvc)
	labworkSvc := labwork.NewService(
		labwork.NewLabResultRepoStore(store),
		labwork.NewRiskResultRepoStore(store),
		labwork.NewSampleSourceStore(store),
	)
	clinicSvc := clinic.NewService(
		clinic.NewPatientRepoStore(store),
		clinic.NewVisitRepoStore(store),
		clinic.NewImageRepoStore(store),
		clinic.NewTreatmentRepoStore(store),
	)
	exportSvc := export.NewService(store, schema)

	// Routes
	study.NewHandler(studySvc).RegisterRoutes(apiV1)
	participant.NewHandler(participantSvc).RegisterRoutes(apiV1)
	screening.NewHandler(screeningSvc).RegisterRoutes(apiV1)
	consent.NewHandler(consentSvc).RegisterRoutes(apiV1)
	casehistory.NewHandler(caseHistorySvc).RegisterRoutes(apiV1)
	sample.NewHandler(sampleSvc).RegisterRoutes(apiV1)
	labwork.NewHandler(labworkSvc).RegisterRoutes(apiV1)
	clinic.NewHandler(clinicSvc).RegisterRoutes(apiV1)
	export.NewHandler(exportSvc).RegisterRoutes(apiV1)

	// File uploads (consent PDFs, lesion photos, reports)
	blobGroup := apiV1.Group("", auth.RequireRole(
		auth.RoleAdmin, auth.RoleCoordinator, auth.RoleInvestigator,
		auth.RoleClinician, auth.RoleLabTech,
	))
	blobstore.NewBlobHandler(blobs).RegisterRoutes(blobGroup)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

func runExport(out string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := context.Background()
	schema := fullSchema()
	store, closeStore, err := newStore(ctx, cfg, schema)
	if err != nil {
		return err
	}
	defer closeStore()

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	defer f.Close()

	if err := export.NewService(store, schema).WriteArchive(ctx, f); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}
