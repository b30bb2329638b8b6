package main

import (
	"log"
	"net/http"
	"os"

	"reaction-games/internal/config"
	"reaction-games/internal/db"
	"reaction-games/internal/engine"
	"reaction-games/internal/games"
	"reaction-games/internal/server"

	"gorm.io/gorm"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("dotenv load failed error=%v", err)
	}
	cfg := config.Load()

	var conn *gorm.DB
	if os.Getenv("DATABASE_URL") != "" {
		opened, err := db.Open(db.Pool{
			MaxOpenConns:           cfg.DBMaxOpenConns,
			MaxIdleConns:           cfg.DBMaxIdleConns,
			ConnMaxLifetimeSeconds: cfg.DBConnMaxLifetimeSeconds,
			ConnMaxIdleTimeSeconds: cfg.DBConnMaxIdleTimeSeconds,
		})
		if err != nil {
			log.Fatalf("database open failed error=%v", err)
		}
		if err := db.Migrate(opened); err != nil {
			log.Fatalf("database migrate failed error=%v", err)
		}
		conn = opened
	} else {
		log.Println("DATABASE_URL not set, running without match history")
	}

	registry := engine.NewRegistry()
	games.RegisterAll(registry)

	addr := ":8080"
	if env := os.Getenv("PORT"); env != "" {
		addr = ":" + env
	}

	srv := server.New(conn, cfg, registry)
	log.Printf("reaction-games server listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}
