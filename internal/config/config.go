package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the ingestion batch.
type Config struct {
	DBPath      string // SQLite database file
	InvoiceDir  string // root directory holding bank/ and card/ subfolders
	ArchiveDir  string // root directory files are moved to after persistence
	PendingFile string // CSV written when proposed categories are declined
	GeminiModel string // model name passed to the classifier service
}

// Load reads configuration from a .env file (if present) and the environment,
// falling back to local-development defaults.
func Load() *Config {
	godotenv.Load()

	return &Config{
		DBPath:      getenv("FINANCEBOOKS_DB_PATH", "./data/finance_data.db"),
		InvoiceDir:  getenv("FINANCEBOOKS_INVOICE_DIR", "./invoices"),
		ArchiveDir:  getenv("FINANCEBOOKS_ARCHIVE_DIR", "./invoice_archive"),
		PendingFile: getenv("FINANCEBOOKS_PENDING_FILE", "./pending_categories.csv"),
		GeminiModel: getenv("GEMINI_MODEL", "gemini-2.0-flash"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
