package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/linyijun92/naruto-rebirth-game/internal/catalog"
	"github.com/linyijun92/naruto-rebirth-game/internal/config"
	"github.com/linyijun92/naruto-rebirth-game/internal/serverapp"
	"github.com/linyijun92/naruto-rebirth-game/internal/storage"
)

func main() {
	logger := log.New(os.Stdout, "", 0)

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	gameData, err := catalog.Load(cfg.GameDataPath)
	if err != nil {
		logger.Fatalf("load game data: %v", err)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := storage.Migrate(context.Background(), db); err != nil {
		logger.Fatalf("migrate database: %v", err)
	}

	handler, err := serverapp.NewHandler(serverapp.Options{
		Config:  cfg,
		DB:      db,
		Catalog: gameData,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatalf("build server: %v", err)
	}

	logger.Printf("listening on %s", cfg.Addr)
	logger.Fatal(http.ListenAndServe(cfg.Addr, handler))
}
