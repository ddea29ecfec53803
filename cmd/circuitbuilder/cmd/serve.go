package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Leumas-Tech/CircuitBuilder/internal/config"
	"github.com/Leumas-Tech/CircuitBuilder/internal/httpapi"
	"github.com/Leumas-Tech/CircuitBuilder/internal/launch"
	"github.com/Leumas-Tech/CircuitBuilder/internal/service"
	"github.com/Leumas-Tech/CircuitBuilder/internal/store"
	"github.com/Leumas-Tech/CircuitBuilder/pkg/catalog"
)

var (
	serveAddr    string
	serveStore   string
	serveStatic  string
	serveNoWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the circuit, component and code asset API. The component catalog
is reloaded whenever a definition file changes.

Examples:
  circuitbuilder serve
  circuitbuilder serve --addr 127.0.0.1:8080 --store sqlite
  circuitbuilder serve --static ./public`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "",
		"listen address (default "+config.DefaultAddr+")")
	serveCmd.Flags().StringVar(&serveStore, "store", "",
		"circuit store backend: file or sqlite")
	serveCmd.Flags().StringVar(&serveStatic, "static", "",
		"directory with the browser front end")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false,
		"do not reload the component catalog on changes")
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.StoreSQLite:
		if err := os.MkdirAll(cfg.Paths.Circuits, 0755); err != nil {
			return nil, err
		}
		return store.NewSQLiteStore(cfg.Store.SQLite)
	default:
		return store.NewFileStore(cfg.Paths.Circuits)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveStore != "" {
		cfg.Store.Backend = serveStore
		if cfg.Store.Backend == config.StoreSQLite && cfg.Store.SQLite == "" {
			cfg.Store.SQLite = filepath.Join(cfg.Paths.Circuits, "circuits.db")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	cat := catalog.NewMemoryCatalog()
	if err := cat.LoadDir(cfg.Paths.Components); err != nil {
		return fmt.Errorf("failed to load components: %w", err)
	}
	logger.Info("Component catalog loaded",
		zap.String("path", cfg.Paths.Components),
		zap.Int("components", cat.Len()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !serveNoWatch {
		err := catalog.Watch(ctx, cfg.Paths.Components, cat, func(err error) {
			if err != nil {
				logger.Warn("Component catalog reload failed", zap.Error(err))
				return
			}
			logger.Info("Component catalog reloaded", zap.Int("components", cat.Len()))
		})
		if err != nil {
			return err
		}
	}

	svc := service.New(service.Options{
		Store:       st,
		Catalog:     cat,
		Launcher:    launch.New(cfg.KiCad.Executable),
		Logger:      logger,
		CircuitsDir: cfg.Paths.Circuits,
		AssetsDir:   cfg.Paths.Assets,
	})

	router := httpapi.NewRouter(svc, logger)
	if serveStatic != "" {
		router.Static = http.FileServer(http.Dir(serveStatic))
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("Server listening", zap.String("addr", cfg.Server.Addr), zap.String("store", cfg.Store.Backend))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
