package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/xtding233/craft-odds/internal/config"
	"github.com/xtding233/craft-odds/internal/httpapi"
	"github.com/xtding233/craft-odds/internal/mcptools"
	"github.com/xtding233/craft-odds/internal/refdata"
	"github.com/xtding233/craft-odds/internal/rpc"
	"github.com/xtding233/craft-odds/internal/service"
	"github.com/xtding233/craft-odds/internal/storage"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.ParseServer(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("craft-odds: %v", err)
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	// stdout carries the MCP stdio stream, so logs always go to stderr
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		config.Exitf("craft-odds: %v", err)
	}
}

func run(ctx context.Context, cfg config.Server, logger *slog.Logger) error {
	loader := refdata.NewLoader(cfg.DataDir, logger)

	if cfg.ImportDB {
		return importDB(ctx, cfg.DBPath, loader, logger)
	}

	store, err := loadStore(ctx, cfg, loader)
	if err != nil {
		return err
	}
	holder := refdata.NewHolder(store)
	odds := service.New(holder, logger)

	switch cfg.Mode {
	case config.ModeGRPC:
		srv := rpc.NewServer(odds, logger)
		defer startWatch(cfg, loader, holder, logger, srv.SyncHealth)()
		return serveGRPC(ctx, cfg.GRPCAddr, srv, logger)
	case config.ModeMCP:
		defer startWatch(cfg, loader, holder, logger, nil)()
		return mcptools.Serve(ctx, mcptools.NewServer(odds, store.Version), &mcp.StdioTransport{}, logger)
	default:
		defer startWatch(cfg, loader, holder, logger, nil)()
		return serveHTTP(ctx, cfg.HTTPAddr, httpapi.New(odds, logger), logger)
	}
}

// loadStore reads the snapshot from the database when one is configured and
// from the data directory otherwise.
func loadStore(ctx context.Context, cfg config.Server, loader *refdata.Loader) (*refdata.Store, error) {
	if cfg.DBPath == "" {
		return loader.Load()
	}
	db, err := storage.OpenAndInit(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	store, err := db.LoadStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot from %s: %w", cfg.DBPath, err)
	}
	return store, nil
}

func importDB(ctx context.Context, path string, loader *refdata.Loader, logger *slog.Logger) error {
	store, err := loader.Load()
	if err != nil {
		return err
	}
	db, err := storage.OpenAndInit(ctx, path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	if err := db.SaveStore(ctx, store); err != nil {
		return fmt.Errorf("import into %s: %w", path, err)
	}
	logger.Info("reference data imported", "db", path, "version", store.Version, "tools", len(store.Tools()))
	return nil
}

// startWatch reloads the data directory when its files change and returns a
// function stopping the watcher. Database-backed snapshots are not watched.
func startWatch(cfg config.Server, loader *refdata.Loader, holder *refdata.Holder, logger *slog.Logger, onReload func()) func() {
	if !cfg.Watch || cfg.DBPath != "" {
		return func() {}
	}
	paths, err := loader.WatchPaths()
	if err != nil {
		logger.Warn("file watch disabled", "error", err)
		return func() {}
	}
	w := refdata.NewFileWatcher(paths, cfg.WatchInterval, func(path string) {
		logger.Info("reference data changed", "path", path)
		if err := loader.Reload(holder); err != nil {
			return
		}
		if onReload != nil {
			onReload()
		}
	})
	w.Start()
	logger.Debug("watching reference data", "files", len(paths), "interval", cfg.WatchInterval)
	return w.Stop
}

func serveHTTP(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func serveGRPC(ctx context.Context, addr string, srv *rpc.Server, logger *slog.Logger) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(lis) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("grpc server shutting down")
	srv.Stop()
	return <-errCh
}
