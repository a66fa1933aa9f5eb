package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"financebooks/internal/archive"
	"financebooks/internal/categorize"
	"financebooks/internal/config"
	"financebooks/internal/database"
	"financebooks/internal/ingest"
	"financebooks/internal/logger"
	"financebooks/internal/version"
)

func main() {
	// Handle --version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("FinanceBooks %s (built %s, commit %s)\n",
			version.Version, version.BuildTime, version.GitCommit)
		os.Exit(0)
	}

	// Initialize logger first
	logger.Init()
	log := logger.Default()
	log.Info("run_starting", "version", version.Version)

	cfg := config.Load()

	// Open database
	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Error("database_open_failed", "path", cfg.DBPath, "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	// Initialize schema and run the category-column migration
	if err := db.Init(); err != nil {
		log.Error("database_init_failed", "error", err.Error())
		os.Exit(1)
	}
	if err := db.EnsureCategoryColumn(); err != nil {
		log.Error("database_migrate_failed", "error", err.Error())
		os.Exit(1)
	}

	arch, err := archive.New(cfg.ArchiveDir)
	if err != nil {
		log.Error("archive_init_failed", "path", cfg.ArchiveDir, "error", err.Error())
		os.Exit(1)
	}

	ctx := context.Background()

	// Ingest every statement in the invoice directory, one at a time.
	ing := ingest.New(db, arch, log)
	ing.IngestDir(ctx, cfg.InvoiceDir)

	// Categorization runs over the whole store after ingestion.
	classifier, err := categorize.NewGeminiClassifier(ctx, cfg.GeminiModel)
	if err != nil {
		log.Error("classifier_init_failed", "error", err.Error())
		os.Exit(1)
	}

	wf := categorize.NewWorkflow(db, classifier, log)
	proposals, err := wf.Propose(ctx)
	if err != nil {
		log.Error("categorize_failed", "error", err.Error())
		os.Exit(1)
	}
	if len(proposals) == 0 {
		fmt.Println("No uncategorized transactions found.")
		return
	}

	wf.Render(os.Stdout, proposals)

	fmt.Print("\nDo you want to save these categories? (y/n): ")
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	if strings.EqualFold(strings.TrimSpace(line), "y") {
		if err := wf.Commit(proposals); err != nil {
			log.Error("categories_save_failed", "error", err.Error())
			os.Exit(1)
		}
		fmt.Println("Categories saved to database.")
		return
	}

	fmt.Println("Categories not saved.")
	if err := wf.ExportPending(cfg.PendingFile, proposals); err != nil {
		log.Error("categories_export_failed", "error", err.Error())
		os.Exit(1)
	}
	fmt.Printf("Categories exported to %s for manual review.\n", cfg.PendingFile)
}
