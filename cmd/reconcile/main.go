// ABOUTME: Reconciliation utility that copies locally captured leads into the backend database.
// ABOUTME: Recovers leads whose best-effort POST to /api/contact never arrived, with dry-run and backup.

package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/harperreed/roofdesk/config"
	"github.com/harperreed/roofdesk/db"
	"github.com/harperreed/roofdesk/kv"
	"github.com/harperreed/roofdesk/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	dbPath := flag.String("db", cfg.ResolvedDBPath(), "Path to backend database file")
	kvDir := flag.String("kv", cfg.ResolvedKVDir(), "Path to local store directory")
	dryRun := flag.Bool("dry-run", false, "Show what would happen without making changes")
	backup := flag.Bool("backup", true, "Create backup before writing")
	flag.Parse()

	copied, err := reconcile(*dbPath, *kvDir, *dryRun, *backup)
	if err != nil {
		log.Fatalf("Reconcile failed: %v", err)
	}

	if *dryRun {
		log.Printf("Dry run: %d lead(s) would be copied", copied)
		return
	}
	log.Printf("Reconcile completed: %d lead(s) copied", copied)
}

func reconcile(dbPath, kvDir string, dryRun, createBackup bool) (int, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return 0, fmt.Errorf("database file does not exist: %s", dbPath)
	}

	kvStore, err := kv.Open(kvDir)
	if err != nil {
		return 0, fmt.Errorf("failed to open local store: %w", err)
	}
	defer func() { _ = kvStore.Close() }()

	leads, err := store.NewLeadStore(kvStore)
	if err != nil {
		return 0, fmt.Errorf("failed to load local leads: %w", err)
	}

	database, err := db.OpenDatabase(dbPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	if createBackup && !dryRun {
		if _, err := backupDatabase(database, dbPath); err != nil {
			return 0, err
		}
	}

	return copyMissing(database, leads, dryRun)
}

// copyMissing inserts every local lead the backend has no row for.
func copyMissing(database *sql.DB, leads *store.LeadStore, dryRun bool) (int, error) {
	copied := 0
	for _, lead := range leads.All() {
		existing, err := db.GetLead(database, lead.ID)
		if err != nil {
			return copied, fmt.Errorf("failed to look up lead %s: %w", lead.ID, err)
		}
		if existing != nil {
			continue
		}

		log.Printf("Missing from backend: %s (%s, %s)", lead.FullName(), lead.ID, lead.Date.Format("2006-01-02"))
		if dryRun {
			copied++
			continue
		}

		l := lead
		if err := db.CreateLead(database, &l); err != nil {
			return copied, fmt.Errorf("failed to copy lead %s: %w", lead.ID, err)
		}
		copied++
	}
	return copied, nil
}

// backupDatabase snapshots the open database, including commits still in the WAL.
func backupDatabase(database *sql.DB, path string) (string, error) {
	backupPath := fmt.Sprintf("%s.backup.%s", path, time.Now().Format("20060102-150405"))
	log.Printf("Creating backup: %s", backupPath)

	if _, err := database.Exec(`VACUUM INTO ?`, backupPath); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	return backupPath, nil
}
