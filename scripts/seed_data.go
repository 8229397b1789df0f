//go:build ignore

// seed_data.go loads the fixture crossing records into PostgreSQL.
// Run with: go run scripts/seed_data.go [-print] [-reset]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/frontera-ops/crossing-risk/internal/seed"
	"github.com/frontera-ops/crossing-risk/internal/storage"
)

func main() {
	printOnly := flag.Bool("print", false, "print the seed SQL instead of executing it")
	reset := flag.Bool("reset", false, "truncate crossing_records before seeding")
	flag.Parse()

	now := time.Now()
	if *printOnly {
		fmt.Print(seed.GenerateSQL(now))
		return
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "postgres://postgres@localhost:5432/crossings?sslmode=disable"
	}

	ctx := context.Background()
	db, err := storage.NewPostgresDB(ctx, dsn)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()

	if *reset {
		if _, err := db.ExecContext(ctx, "TRUNCATE crossing_records"); err != nil {
			log.Fatalf("reset: %v", err)
		}
	}

	n, err := seed.Load(ctx, storage.NewPostgresRepository(db), now)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("Seeded %d crossing records", n)
}
