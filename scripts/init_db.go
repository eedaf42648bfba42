//go:build ignore
// +build ignore

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

// Creates the quotes schema. Run with: go run scripts/init_db.go
func main() {
	fmt.Println("=== Database Initialization Script ===")
	fmt.Println()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  Warning: Could not load .env file: %v\n", err)
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		fmt.Println("❌ DATABASE_URL environment variable not set")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fmt.Println("📡 Connecting to PostgreSQL server...")
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		fmt.Printf("❌ Failed to connect to PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	schema := `
	CREATE TABLE IF NOT EXISTS quotes (
		id            UUID PRIMARY KEY,
		property_name TEXT NOT NULL,
		client_name   TEXT NOT NULL DEFAULT '',
		status        TEXT NOT NULL DEFAULT 'draft',
		inputs        JSONB NOT NULL,
		mortgage      JSONB,
		projection    JSONB,
		exits         JSONB,
		snapshot_key  TEXT,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_quotes_created_at ON quotes (created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_quotes_status ON quotes (status);
	`

	fmt.Println("📦 Creating quotes schema...")
	if _, err := conn.Exec(ctx, schema); err != nil {
		fmt.Printf("❌ Failed to create schema: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Schema ready!")
}
