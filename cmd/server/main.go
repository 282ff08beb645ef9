package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Flashcards-Program/Flashcards/internal/content"
	"github.com/Flashcards-Program/Flashcards/internal/db"
	"github.com/Flashcards-Program/Flashcards/internal/handlers"
	"github.com/Flashcards-Program/Flashcards/internal/middleware"
	"github.com/Flashcards-Program/Flashcards/internal/update"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const version = "1.0.0"

const (
	defaultContentURL  = "https://api.github.com/repos/Flashcards-Program/Flashcards-Vakken/contents/Vakken"
	defaultVersionsURL = "https://raw.githubusercontent.com/Flashcards-Program/Flashcards/refs/heads/main/versions.json"
	defaultSplashURL   = "https://raw.githubusercontent.com/Flashcards-Program/Flashcards/refs/heads/main/splash.json"
)

func main() {
	log := newLogger()
	defer log.Sync()

	// Data directory
	dataDir := os.Getenv("FLASHCARDS_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}

	// Open SQLite database (pure Go driver)
	dbPath := filepath.Join(dataDir, "flashcards.db")
	database, err := sql.Open("sqlite", dbPath)
	if err != nil {
		log.Fatalw("opening database failed", "path", dbPath, "error", err)
	}
	defer database.Close()

	database.Exec("PRAGMA journal_mode=WAL")
	database.Exec("PRAGMA foreign_keys=ON")

	if _, err := database.Exec(db.SchemaSQL); err != nil {
		log.Fatalw("initializing schema failed", "error", err)
	}

	queries := db.New(database)
	sessions := middleware.NewSessionStore()
	store := content.NewStore()
	status := update.NewStatus(version)

	// One-shot startup work: fetch the content tree, splash lines and the
	// release manifest, then hand everything over to the request handlers.
	go fetchStartupData(store, status, log)

	tmpl := handlers.NewTemplateRenderer()

	authHandler := handlers.NewAuthHandler(queries, sessions, tmpl, log)
	homeHandler := handlers.NewHomeHandler(queries, store, status, tmpl)
	studyHandler := handlers.NewStudyHandler(queries, sessions, store, tmpl, log)
	reviewHandler := handlers.NewReviewHandler(queries, sessions, tmpl, log)
	prefsHandler := handlers.NewPrefsHandler(queries, log)

	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("/", homeHandler.Home)
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			authHandler.Login(w, r)
		} else {
			authHandler.LoginPage(w, r)
		}
	})
	mux.HandleFunc("/register", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			authHandler.Register(w, r)
		} else {
			authHandler.RegisterPage(w, r)
		}
	})
	mux.HandleFunc("/logout", authHandler.Logout)

	// Study routes: selection cascade, advanced setup, review, results
	mux.HandleFunc("/study", middleware.RequireAuth(studyHandler.Setup))
	mux.HandleFunc("/study/select", middleware.RequireAuth(studyHandler.Select))
	mux.HandleFunc("/study/paragraphs", middleware.RequireAuth(studyHandler.Paragraphs))
	mux.HandleFunc("/study/continue", middleware.RequireAuth(studyHandler.Continue))
	mux.HandleFunc("/study/advanced", middleware.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			studyHandler.AdvancedSubmit(w, r)
		} else {
			studyHandler.AdvancedPage(w, r)
		}
	}))
	mux.HandleFunc("/study/start", middleware.RequireAuth(studyHandler.Start))
	mux.HandleFunc("/study/review", middleware.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			reviewHandler.Action(w, r)
		} else {
			reviewHandler.Page(w, r)
		}
	}))
	mux.HandleFunc("/study/results", middleware.RequireAuth(reviewHandler.Results))

	// API routes
	mux.HandleFunc("/api/preferences", middleware.RequireAuth(prefsHandler.SetPreferences))

	handler := sessions.AuthMiddleware(mux)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8282"
	}

	log.Infow("flashcards server starting", "version", version, "port", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}

func newLogger() *zap.SugaredLogger {
	var cfg zap.Config
	switch os.Getenv("LOG_MODE") {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger.Sugar()
}

func fetchStartupData(store *content.Store, status *update.Status, log *zap.SugaredLogger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	contentURL := os.Getenv("FLASHCARDS_CONTENT_URL")
	if contentURL == "" {
		contentURL = defaultContentURL
	}
	versionsURL := os.Getenv("FLASHCARDS_VERSIONS_URL")
	if versionsURL == "" {
		versionsURL = defaultVersionsURL
	}
	splashURL := os.Getenv("FLASHCARDS_SPLASH_URL")
	if splashURL == "" {
		splashURL = defaultSplashURL
	}

	client := content.NewClient(contentURL, os.Getenv("FLASHCARDS_CONTENT_TOKEN"), log)

	tree, err := client.FetchTree(ctx)
	if err != nil {
		log.Errorw("fetching content tree failed", "error", err)
	} else {
		store.SetTree(tree)
		log.Infow("content tree loaded", "grades", len(tree))
	}

	if lines, err := client.FetchSplash(ctx, splashURL); err != nil {
		log.Warnw("fetching splash text failed", "error", err)
	} else {
		store.SetSplash(lines)
	}

	info, err := update.Check(ctx, versionsURL, version)
	if err != nil {
		log.Warnw("release check failed", "error", err)
		return
	}
	status.Set(info)
	if info.Available {
		log.Infow("newer release available", "current", info.Current, "latest", info.Latest)
	}
}
