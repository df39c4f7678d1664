package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/voxgeo/server/config"
	"github.com/voxgeo/server/controllers"
	"github.com/voxgeo/server/middleware"
	"github.com/voxgeo/server/repository"
	"github.com/voxgeo/server/routes"
	"github.com/voxgeo/server/voting"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "voxgeo",
		Short:         "Voter intent collection and campaign dashboard server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./voxgeo.yaml)")

	load := func() (config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return cfg, err
		}
		return cfg, config.SetupLogger(cfg.Log)
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if _, err := openGormStore(cfg); err != nil {
				return err
			}
			logrus.Info("migrated successfully")
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "seed-demo",
		Short: "Replace every vote intention with generated demo data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			now := uint64(time.Now().UnixNano())
			n, err := voting.ResetDemo(cmd.Context(), store, rand.New(rand.NewPCG(now, now>>1)),
				cfg.Demo.Records, cfg.Demo.Center.Lat, cfg.Demo.Center.Lng)
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{"records": n, "center": cfg.Demo.Center.Name}).Info("demo data seeded")
			return nil
		},
	})

	return root
}

// openGormStore connects to PostgreSQL and migrates the tables.
func openGormStore(cfg config.Config) (*repository.GormStore, error) {
	db, err := config.ConnectDB(cfg.Database)
	if err != nil {
		return nil, err
	}
	store := repository.NewGormStore(db)
	if err := store.Migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

func openStore(cfg config.Config) (repository.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		logrus.Warn("using in-memory store, data is lost on exit")
		return repository.NewMemoryStore(), nil
	case config.DriverPostgres, "":
		return openGormStore(cfg)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	metrics := middleware.NewMetrics()
	limiter := middleware.NewIPRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst, 5*time.Minute)
	mapCenter := cfg.Map.DefaultCenter.Place()
	demoCenter := cfg.Demo.Center.Place()

	r := routes.NewRouter(routes.Handlers{
		Votes:        controllers.NewVoteHandler(store, metrics, demoCenter, cfg.Demo.Records),
		Voters:       controllers.NewVoterHandler(store),
		Surveys:      controllers.NewSurveyHandler(store, metrics),
		Dashboard:    controllers.NewDashboardHandler(store, mapCenter),
		Health:       controllers.NewHealthHandler(store),
		Pages:        controllers.NewPageHandler(mapCenter, demoCenter),
		Metrics:      metrics,
		WriteLimiter: limiter,
	}, cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
		AllowWildcard:    true,
	}))
	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		limiter.Run(ctx)
		return nil
	})
	g.Go(func() error {
		logrus.WithField("port", cfg.Server.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logrus.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
