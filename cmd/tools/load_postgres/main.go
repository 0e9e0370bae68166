package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"

	"github.com/kapu/lw-directory-scraper/internal/domain"
	"github.com/kapu/lw-directory-scraper/internal/service/database"
	"github.com/kapu/lw-directory-scraper/internal/service/export"
)

// CLI flags
var (
	input      = flag.String("input", "LW_Lawyers.json", "Exported records to load")
	table      = flag.String("table", "L_W_Directory", "Destination table")
	columnSize = flag.Int("column-size", 2000, "VARCHAR size of created columns")
	dryRun     = flag.Bool("dry-run", false, "Validate and summarise without touching the database")
	dbHost     = flag.String("db-host", "localhost", "PostgreSQL host")
	dbPort     = flag.Int("db-port", 5432, "PostgreSQL port")
	dbUser     = flag.String("db-user", "lw_user", "PostgreSQL user")
	dbPass     = flag.String("db-pass", "", "PostgreSQL password")
	dbName     = flag.String("db-name", "lw_directory", "PostgreSQL database")
)

func main() {
	flag.Parse()

	log.Println("===========================")
	log.Println("Lawyer records to PostgreSQL")
	log.Println("===========================")

	if *dryRun {
		log.Println("[DRY RUN MODE] No database changes will be made")
	}

	records, err := export.ReadJSON(*input)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", *input, err)
	}
	log.Printf("✓ Loaded %d records", len(records))

	if err := validateRecords(records); err != nil {
		log.Fatalf("Data validation failed: %v", err)
	}
	log.Println("✓ Data validation passed")

	bundle := domain.NewExportBundle(records)

	if *dryRun {
		log.Println("✓ Dry-run completed successfully")
		printSummary(bundle)
		return
	}

	db, err := connectDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	inserted, err := database.SaveBundle(ctx, db, *table, *columnSize, bundle)
	if err != nil {
		log.Fatalf("Failed to insert records: %v", err)
	}
	log.Printf("✓ Inserted %d records into %s", inserted, *table)
}

// validateRecords rejects files that are not lawyer exports: every record
// must carry a profile URL. Repeated URLs are reported but allowed, since a
// lawyer listed under two letters is exported twice.
func validateRecords(records []domain.Record) error {
	seen := make(map[string]int, len(records))
	for i, record := range records {
		url, ok := record.Value(domain.FieldWebpageURL)
		if !ok || url == "" {
			return fmt.Errorf("record %d: missing %s", i, domain.FieldWebpageURL)
		}
		if prev, dup := seen[url]; dup {
			log.Printf("  → Duplicate profile %s (records %d and %d)", url, prev, i)
			continue
		}
		seen[url] = i
	}
	return nil
}

func connectDB() (*sql.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		*dbHost, *dbPort, *dbUser, *dbPass, *dbName)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func printSummary(bundle domain.ExportBundle) {
	log.Println("\n===== Load Summary =====")
	log.Printf("Total records: %d", len(bundle.Records))
	log.Printf("Columns: %d", len(bundle.Columns))

	for _, column := range bundle.Columns {
		filled := 0
		for _, record := range bundle.Records {
			if value, ok := record.Value(column); ok && value != "" {
				filled++
			}
		}
		log.Printf("  %-26s %d/%d filled", column, filled, len(bundle.Records))
	}
}
