package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/khuang/screenroast/handlers"
	"github.com/khuang/screenroast/lib/auth"
	"github.com/khuang/screenroast/lib/db"
	"github.com/khuang/screenroast/lib/generate"
	"github.com/khuang/screenroast/lib/schedule"
	"github.com/khuang/screenroast/lib/state"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "screenroast.db"
	}

	store, err := db.Open(dbPath, logger)
	if err != nil {
		logger.Error("Failed to open database", slog.Any("error", err))
		os.Exit(1)
	}

	st, err := state.Load(store, logger)
	if err != nil {
		logger.Error("Failed to load state", slog.Any("error", err))
		os.Exit(1)
	}

	text := generate.NewOpenAI(os.Getenv("OPENAI_API_KEY"), logger)
	gen := generate.New(st, text, logger)

	authSvc := auth.Service{
		Secret:   sessionSecret(logger),
		TokenTTL: 12 * time.Hour,
	}

	sched := schedule.New(st, gen, logger)
	go sched.Run(context.Background())

	router := handlers.NewRouter(st, gen, authSvc, store.DB())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info("Starting server", slog.String("port", port))
	if err := http.ListenAndServe(":"+port, router); err != nil {
		logger.Error("Server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

// sessionSecret reads SESSION_SECRET, generating a process-local one when
// unset. Sessions then do not survive a restart, which matches the original
// login behavior.
func sessionSecret(logger *slog.Logger) []byte {
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		return []byte(s)
	}
	logger.Warn("SESSION_SECRET not set; admin sessions will not survive restarts")
	return []byte(time.Now().Format(time.RFC3339Nano) + "-screenroast-session")
}
