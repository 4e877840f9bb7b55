package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/inkpress/blogger-import/app/api"
	"github.com/inkpress/blogger-import/app/cfg"
	"github.com/inkpress/blogger-import/app/database"
	"github.com/inkpress/blogger-import/app/feed"
	"github.com/inkpress/blogger-import/app/importer"
	"github.com/inkpress/blogger-import/app/media"
	"github.com/inkpress/blogger-import/app/sanitize"
)

func main() {
	_ = godotenv.Load()

	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	slog.Info("Starting Blogger import", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Migrations applied", "version", version, "dirty", dirty)

	userRepo := database.NewUserRepository(db)
	topicRepo := database.NewTopicRepository(db)
	contentRepo := database.NewContentRepository(db)
	mediaRepo := database.NewMediaRepository(db)

	imp := importer.New(
		feed.NewParser(),
		userRepo, topicRepo, contentRepo, mediaRepo,
		media.NewHTTPFetcher(time.Duration(appCfg.FetchTimeout)*time.Second, appCfg.FetchRateLimit, appCfg.UserAgent),
		media.NewDiskStorage(appCfg.MediaDir),
		sanitize.New(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	defaultAuthor, password, err := importer.EnsureUser(ctx, userRepo, appCfg.DefaultAuthor)
	if err != nil {
		slog.Error("Failed to resolve default author", "username", appCfg.DefaultAuthor, "error", err)
		os.Exit(1)
	}
	if password != "" {
		slog.Info("Created default author with a one-time password",
			"username", defaultAuthor.Username, "password", password)
	}

	opts := importer.Options{
		CreateNewUsers: appCfg.CreateNewUsers,
		DownloadMedia:  appCfg.DownloadMedia,
	}

	if appCfg.ImportFile != "" {
		if err := runImportFile(ctx, imp, appCfg.ImportFile, defaultAuthor.ID, opts); err != nil {
			os.Exit(1)
		}
		return
	}

	handler := api.NewHandler(imp, defaultAuthor.ID, opts)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
}

// runImportFile imports one export document from disk and reports the
// created users, including their one-time passwords.
func runImportFile(ctx context.Context, imp *importer.Importer, path, defaultAuthorID string, opts importer.Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("Failed to read import file", "path", path, "error", err)
		return err
	}

	users, err := imp.Run(ctx, data, defaultAuthorID, opts)
	for _, user := range users {
		if user.GeneratedPassword != "" {
			slog.Info("Created user with a one-time password",
				"username", user.Username, "password", user.GeneratedPassword)
		}
	}
	if err != nil {
		slog.Error("Import failed", "path", path, "error", err)
		return err
	}

	slog.Info("Import completed", "path", path, "users", len(users))
	return nil
}
