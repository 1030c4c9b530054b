package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"inkwell/internal/auth"
	"inkwell/internal/config"
	"inkwell/internal/editor"
	"inkwell/internal/handler"
	"inkwell/internal/httputil"
	"inkwell/internal/middleware"
	"inkwell/internal/repository/postgres"
	"inkwell/internal/service"
	"inkwell/internal/storage"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// JWT verifier backed by the identity provider's JWKS endpoint
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	noteRepo := postgres.NewNoteRepository(repoConfig)
	notebookRepo := postgres.NewNotebookRepository(repoConfig)
	tagRepo := postgres.NewTagRepository(repoConfig)
	attachmentRepo := postgres.NewAttachmentRepository(repoConfig)
	sharedLinkRepo := postgres.NewSharedLinkRepository(repoConfig)
	templateRepo := postgres.NewTemplateRepository(repoConfig)
	versionRepo := postgres.NewNoteVersionRepository(repoConfig)

	// Object storage for attachments
	blobStorage, err := storage.NewClient(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create storage client: %v", err)
	}

	// Editing sessions: debounced autosave plus the upload pipeline
	clock := editor.NewClock()
	notifier := editor.NewLogNotifier(logger)
	manager := editor.NewManager(noteRepo, clock, config.AutosaveDelay, notifier, logger)
	uploader := editor.NewUploader(blobStorage, attachmentRepo, clock, notifier, logger)

	// Services
	noteService := service.NewNoteService(noteRepo, versionRepo, logger)
	notebookService := service.NewNotebookService(notebookRepo, logger)
	tagService := service.NewTagService(tagRepo, noteRepo, logger)
	shareService := service.NewShareService(sharedLinkRepo, noteRepo, logger)
	exportService := service.NewExportService(noteRepo, logger)
	templateService, err := service.NewTemplateService(templateRepo, noteService, logger)
	if err != nil {
		log.Fatalf("Failed to load template registry: %v", err)
	}

	// Handlers
	editorHandler := handler.NewEditorHandler(manager, uploader, logger)
	noteHandler := handler.NewNoteHandler(noteService, logger)
	notebookHandler := handler.NewNotebookHandler(notebookService, logger)
	tagHandler := handler.NewTagHandler(tagService, logger)
	attachmentHandler := handler.NewAttachmentHandler(attachmentRepo, uploader, blobStorage, logger)
	shareHandler := handler.NewShareHandler(shareService, logger)
	exportHandler := handler.NewExportHandler(exportService, logger)
	templateHandler := handler.NewTemplateHandler(templateService, logger)

	logger.Info("services initialized")

	// HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"time":   time.Now(),
		})
	})

	// Editor session routes
	mux.HandleFunc("POST /api/editor/open/{id}", editorHandler.OpenNote)
	mux.HandleFunc("GET /api/editor/status", editorHandler.Status)
	mux.HandleFunc("POST /api/editor/content", editorHandler.ContentChanged)
	mux.HandleFunc("POST /api/editor/title", editorHandler.TitleChanged)
	mux.HandleFunc("POST /api/editor/title/blur", editorHandler.TitleBlur)
	mux.HandleFunc("POST /api/editor/close", editorHandler.CloseSession)
	mux.HandleFunc("POST /api/editor/files", editorHandler.UploadFiles)
	mux.HandleFunc("POST /api/editor/favorite", editorHandler.ToggleFavorite)
	mux.HandleFunc("POST /api/editor/trash", editorHandler.MoveToTrash)
	mux.HandleFunc("POST /api/editor/restore", editorHandler.RestoreFromTrash)
	mux.HandleFunc("DELETE /api/editor/note", editorHandler.DeletePermanently)
	mux.HandleFunc("GET /api/editor/state", editorHandler.GetAppState)
	mux.HandleFunc("PATCH /api/editor/state", editorHandler.UpdateAppState)

	// Note routes
	mux.HandleFunc("POST /api/notes", noteHandler.CreateNote)
	mux.HandleFunc("GET /api/notes", noteHandler.ListNotes)
	mux.HandleFunc("GET /api/notes/search", noteHandler.SearchNotes) // Must come before {id} route
	mux.HandleFunc("GET /api/notes/{id}", noteHandler.GetNote)
	mux.HandleFunc("PUT /api/notes/{id}/pin", noteHandler.SetPinned)
	mux.HandleFunc("POST /api/notes/{id}/versions", noteHandler.SnapshotVersion)
	mux.HandleFunc("GET /api/notes/{id}/versions", noteHandler.ListVersions)
	mux.HandleFunc("GET /api/notes/{id}/export", exportHandler.ExportNote)

	// Notebook routes
	mux.HandleFunc("POST /api/notebooks", notebookHandler.CreateNotebook)
	mux.HandleFunc("GET /api/notebooks", notebookHandler.ListNotebooks)
	mux.HandleFunc("GET /api/notebooks/{id}", notebookHandler.GetNotebook)
	mux.HandleFunc("PATCH /api/notebooks/{id}", notebookHandler.UpdateNotebook)
	mux.HandleFunc("DELETE /api/notebooks/{id}", notebookHandler.DeleteNotebook)

	// Tag routes
	mux.HandleFunc("POST /api/tags", tagHandler.CreateTag)
	mux.HandleFunc("GET /api/tags", tagHandler.ListTags)
	mux.HandleFunc("PATCH /api/tags/{id}", tagHandler.UpdateTag)
	mux.HandleFunc("DELETE /api/tags/{id}", tagHandler.DeleteTag)
	mux.HandleFunc("GET /api/notes/{id}/tags", tagHandler.ListNoteTags)
	mux.HandleFunc("PUT /api/notes/{id}/tags/{tagID}", tagHandler.AttachTag)
	mux.HandleFunc("DELETE /api/notes/{id}/tags/{tagID}", tagHandler.DetachTag)

	// Attachment routes (uploads go through /api/editor/files)
	mux.HandleFunc("GET /api/notes/{id}/attachments", attachmentHandler.ListByNote)
	mux.HandleFunc("GET /api/attachments/{id}", attachmentHandler.GetAttachment)
	mux.HandleFunc("DELETE /api/attachments/{id}", attachmentHandler.DeleteAttachment)

	// Share routes; redemption is public
	mux.HandleFunc("POST /api/shares", shareHandler.CreateLink)
	mux.HandleFunc("DELETE /api/shares/{id}", shareHandler.Deactivate)
	mux.HandleFunc("GET /api/notes/{id}/shares", shareHandler.ListByNote)
	mux.HandleFunc("POST /api/shared/{token}", shareHandler.Redeem)

	// Template routes
	mux.HandleFunc("GET /api/templates", templateHandler.ListTemplates)
	mux.HandleFunc("POST /api/templates", templateHandler.CreateTemplate)
	mux.HandleFunc("GET /api/templates/{id}", templateHandler.GetTemplate)
	mux.HandleFunc("DELETE /api/templates/{id}", templateHandler.DeleteTemplate)
	mux.HandleFunc("POST /api/templates/{id}/instantiate", templateHandler.InstantiateTemplate)

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	httpHandler = middleware.AuthMiddleware(jwtVerifier)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Serve until interrupted, then flush every open editing session so
	// buffered edits survive the restart.
	shutdownCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-shutdownCtx.Done()
	logger.Info("shutting down")

	manager.Shutdown()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(timeoutCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	logger.Info("server stopped")
}
