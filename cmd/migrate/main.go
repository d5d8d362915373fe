package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/AnimeLoL/SeoArr/internal/config"
	"github.com/AnimeLoL/SeoArr/internal/database"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|hash-password <password>]")
	}

	command := os.Args[1]

	// hash-password needs no database: it prints the bcrypt hash to store
	// under the admin_password_hash site setting.
	if command == "hash-password" {
		if len(os.Args) < 3 {
			log.Fatal("Usage: migrate hash-password <password>")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(os.Args[2]), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Hashing failed: %v", err)
		}
		fmt.Println(string(hash))
		return
	}

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch command {
	case "up":
		if err := database.InitSchema(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migration completed successfully")
	case "down":
		if err := migrateDown(db); err != nil {
			log.Fatalf("Migration rollback failed: %v", err)
		}
		log.Println("Migration rolled back successfully")
	default:
		log.Fatalf("Unknown command: %s. Use 'up', 'down' or 'hash-password'", command)
	}
}

func migrateDown(db *sql.DB) error {
	tables := []string{"seo_settings", "site_settings", "taxonomies", "movies"}
	for _, table := range tables {
		if _, err := db.Exec("DROP TABLE IF EXISTS " + table); err != nil {
			return fmt.Errorf("dropping %s: %w", table, err)
		}
	}
	return nil
}
