package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/yumyai/termclust/internal/config"
	"github.com/yumyai/termclust/internal/util"
	"github.com/yumyai/termclust/logger"
	"github.com/yumyai/termclust/pkg/db"
	"github.com/yumyai/termclust/pkg/handler"
	"github.com/yumyai/termclust/pkg/middle"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

func main() {

	VERSION := "0.1.0"

	// Try load env
	dotenvErr := godotenv.Load()

	cfg, cfgErr := config.Load(os.Getenv)

	// Establish logger
	level, levelErr := logger.ParseLevel(cfg.LogLevel)
	if err := logger.InitLogger(level); err != nil {
		panic(err)
	}
	defer logger.Sync() // Make sure that the buffered is flushed.

	if dotenvErr != nil {
		logger.Warn("No .env found, using local environment")
	}
	if levelErr != nil {
		logger.Warn("Bad log level, using info", zap.Error(levelErr))
	}
	if cfgErr != nil {
		logger.Fatal("Invalid configuration", zap.Error(cfgErr))
	}

	if !util.DirExists(filepath.Dir(cfg.DBPath)) {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			logger.Fatal("Cannot create database directory", zap.String("DB_LOC", cfg.DBPath), zap.Error(err))
		}
	}

	// Connect to db
	sqlDB, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		logger.Fatal("Cannot open database", zap.String("DB_LOC", cfg.DBPath), zap.Error(err))
	}
	defer sqlDB.Close()

	store := db.NewEnrichmentDB(sqlDB)
	if err := store.InitSchema(context.Background()); err != nil {
		logger.Fatal("Cannot initialise database", zap.Error(err))
	}

	app := &handler.AppContext{
		Store:    store,
		Jobs:     handler.NewClusterJobManager(),
		Defaults: cfg.Clustering,
	}

	logger.Info("Start:", zap.String("Version", VERSION))
	logger.Info("Open database on", zap.String("DB_LOC", cfg.DBPath))
	logger.Info("Clustering defaults",
		zap.Float64("similarity_threshold", cfg.Clustering.SimilarityThreshold),
		zap.Int("min_cluster_size", cfg.Clustering.MinClusterSize),
		zap.Int("max_cluster_size", cfg.Clustering.MaxClusterSize))

	mwLogger := middle.CreateMiddlewareLogger(level)
	mux := middle.Chain(handler.NewRouter(app),
		middle.RequestIDMiddleware(mwLogger),
		middle.LoggingMiddleware(mwLogger))

	logger.Info("Server starting on", zap.String("addr", cfg.Addr))
	httpErr := http.ListenAndServe(cfg.Addr, mux)
	if httpErr != nil {
		logger.Error("Error starting server:", zap.String("error message", httpErr.Error()))
	}
}
