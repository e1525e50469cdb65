// Entry point for the refmill HTTP service: upload a .docx with free-text
// endnotes, receive it back with every endnote rewritten as a formatted
// citation.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/refmill/refmill/guard"
	"github.com/refmill/refmill/history"
	"github.com/refmill/refmill/openlibrary"
	"github.com/refmill/refmill/pipeline"
)

// config is the service configuration: YAML file base, env overrides.
type config struct {
	Port           string `yaml:"port"`
	LogLevel       string `yaml:"log_level"`
	OpenLibraryURL string `yaml:"openlibrary_url"`
	HistoryDB      string `yaml:"history_db"` // "disabled" turns history off
	MaxUploadMB    int64  `yaml:"max_upload_mb"`
}

func loadConfig() config {
	cfg := config{
		Port:           "8090",
		LogLevel:       "info",
		OpenLibraryURL: openlibrary.DefaultBaseURL,
		HistoryDB:      "db/history.db",
		MaxUploadMB:    16,
	}

	path := env("CONFIG_FILE", "refmill.yaml")
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			slog.Error("config file", "path", path, "error", err)
			os.Exit(1)
		}
	}

	cfg.Port = env("PORT", cfg.Port)
	cfg.LogLevel = env("LOG_LEVEL", cfg.LogLevel)
	cfg.OpenLibraryURL = env("OPENLIBRARY_URL", cfg.OpenLibraryURL)
	cfg.HistoryDB = env("HISTORY_DB", cfg.HistoryDB)
	if v := os.Getenv("MAX_UPLOAD_MB"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxUploadMB = n
		}
	}
	return cfg
}

func main() {
	cfg := loadConfig()
	mcpTransport := env("MCP_TRANSPORT", "")

	// Logging. MCP-over-stdio owns stdout, so logs go to stderr there.
	var lvl slog.Level
	switch cfg.LogLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logOut := os.Stdout
	if mcpTransport == "stdio" {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Enrichment client.
	enricher := openlibrary.New(openlibrary.Config{
		BaseURL: cfg.OpenLibraryURL,
		Logger:  logger,
	})

	// Pipeline.
	proc := pipeline.New(pipeline.Config{
		Enricher: enricher,
		Logger:   logger,
	})

	// MCP mode: serve the pipeline tools over stdio instead of HTTP.
	if mcpTransport == "stdio" {
		srv := mcp.NewServer(&mcp.Implementation{
			Name:    "refmill",
			Version: "1.0.0",
		}, nil)
		proc.RegisterMCP(srv)
		slog.Info("MCP stdio starting")
		if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
			slog.Error("MCP stdio", "error", err)
			os.Exit(1)
		}
		return
	}

	// Processing history (optional).
	var hist *history.Store
	if cfg.HistoryDB != "" && cfg.HistoryDB != "disabled" {
		db, err := openHistoryDB(cfg.HistoryDB)
		if err != nil {
			slog.Error("history db", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		hist = history.NewStore(db)
		if err := hist.Init(); err != nil {
			slog.Error("history init", "error", err)
			os.Exit(1)
		}
		defer hist.Close()
	}

	maxUpload := cfg.MaxUploadMB << 20

	// Router.
	r := chi.NewRouter()
	for _, mw := range guard.DefaultStack(maxUpload) {
		r.Use(mw)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/process", processHandler(proc, hist, maxUpload))
	if hist != nil {
		r.Get("/api/history", historyHandler(hist))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

func openHistoryDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	return db, nil
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
