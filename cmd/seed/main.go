package main

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/endcrown/liberty-engine/internal/auth"
	"github.com/endcrown/liberty-engine/internal/config"
	"github.com/endcrown/liberty-engine/internal/db"
	"github.com/endcrown/liberty-engine/internal/seeds"
	"github.com/endcrown/liberty-engine/internal/setting"
	"github.com/endcrown/liberty-engine/internal/wiki"
)

// waitForDatabase pings until the database accepts connections, so the seed
// binary can run before postgres finishes starting in a compose setup.
func waitForDatabase(dsn string) {
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("Invalid DATABASE_URL: %v", err)
	}
	defer conn.Close()

	for attempt := 1; attempt <= 10; attempt++ {
		if err = conn.Ping(); err == nil {
			return
		}
		log.Printf("Database not ready (attempt %d): %v", attempt, err)
		time.Sleep(time.Second)
	}
	log.Fatalf("Database never became ready: %v", err)
}

func main() {
	_ = godotenv.Load(".env.local")
	cfg := config.Load()

	waitForDatabase(cfg.DatabaseURL)
	conn := db.Connect(cfg.DatabaseURL)

	auth.Init()
	wiki.Init()
	if err := setting.Migrate(conn); err != nil {
		log.Fatalf("Failed to migrate settings table: %v", err)
	}

	if err := seeds.SeedAll(conn); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
