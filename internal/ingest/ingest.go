package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"financebooks/internal/archive"
	"financebooks/internal/database"
	"financebooks/internal/logger"
	"financebooks/internal/models"
	"financebooks/internal/parser"
	"financebooks/internal/pdftext"
)

// Ingestor runs the full pipeline for one statement document: classify,
// locate the activity section, extract summary and line items, persist, and
// archive. Documents are processed strictly one at a time.
type Ingestor struct {
	DB      *database.DB
	Archive *archive.Store

	// Open yields the per-page text provider for a file. Tests swap in a
	// fake; production uses pdftotext.
	Open func(path string) (pdftext.Document, error)

	// RefDate anchors year imputation for printed MM/DD dates.
	RefDate time.Time

	Log *slog.Logger
}

// New returns an Ingestor wired to the real PDF text provider and the
// current wall clock.
func New(db *database.DB, arch *archive.Store, log *slog.Logger) *Ingestor {
	return &Ingestor{
		DB:      db,
		Archive: arch,
		Open: func(path string) (pdftext.Document, error) {
			return pdftext.Open(path)
		},
		RefDate: time.Now(),
		Log:     log,
	}
}

// IngestDir ingests every statement file under the type-keyed subfolders of
// root, sequentially. Per-document failures are logged and never abort the
// batch.
func (ing *Ingestor) IngestDir(ctx context.Context, root string) {
	var files []string
	for _, sub := range []string{"bank", "card"} {
		matches, err := filepath.Glob(filepath.Join(root, sub, "*.pdf"))
		if err != nil {
			ing.Log.Error("scan_invoice_dir_failed", "dir", sub, "error", err.Error())
			continue
		}
		files = append(files, matches...)
	}

	for _, f := range files {
		// Failures are already logged with file context; the batch moves on.
		ing.IngestFile(ctx, f)
	}
}

// IngestFile runs the pipeline for a single document. The returned error
// reports persistence-layer failures only; classification and extraction
// failures are handled locally (logged, document skipped) so one malformed
// statement cannot poison a batch.
func (ing *Ingestor) IngestFile(ctx context.Context, path string) error {
	log := ing.Log.With("file", path)
	ctx = logger.WithLogger(ctx, log)
	log.Info("processing_file")

	doc, err := ing.Open(path)
	if err != nil {
		log.Error("open_document_failed", "error", err.Error())
		return fmt.Errorf("open document: %w", err)
	}

	firstPage, err := doc.PageText(1)
	if err != nil {
		log.Error("read_first_page_failed", "error", err.Error())
		return fmt.Errorf("read first page: %w", err)
	}

	typ := parser.DetectType(firstPage)
	if typ == models.StatementUnknown {
		log.Info("unknown_statement_type")
		return nil
	}

	section, err := parser.CollectSection(ctx, doc, typ, 1)
	if err != nil {
		log.Error("collect_section_failed", "error", err.Error())
		return fmt.Errorf("collect section: %w", err)
	}

	var persistErr error
	switch typ {
	case models.StatementBank:
		sum, err := parser.ExtractBankSummary(ctx, firstPage)
		if err != nil {
			log.Info("summary_extraction_failed", "error", err.Error())
			return nil
		}

		txns, err := parser.ExtractBankLineItems(ctx, section, ing.RefDate)
		if err != nil {
			// Summary still persists; the untrusted line items do not.
			log.Info("line_item_extraction_failed", "error", err.Error())
			txns = nil
		}
		for i := range txns {
			txns[i].InvoiceID = sum.InvoiceID
		}

		log = log.With("invoice_id", sum.InvoiceID)
		log.Info("statement_extracted", "type", typ, "transactions", len(txns))
		persistErr = ing.DB.SaveBankStatement(&sum, txns)

	case models.StatementCard:
		sum, err := parser.ExtractCardSummary(ctx, firstPage)
		if err != nil {
			log.Info("summary_extraction_failed", "error", err.Error())
			return nil
		}

		txns, err := parser.ExtractCardLineItems(ctx, section, ing.RefDate)
		if err != nil {
			log.Info("line_item_extraction_failed", "error", err.Error())
			txns = nil
		}
		for i := range txns {
			txns[i].InvoiceID = sum.InvoiceID
		}

		log = log.With("invoice_id", sum.InvoiceID)
		log.Info("statement_extracted", "type", typ, "transactions", len(txns))
		persistErr = ing.DB.SaveCardStatement(&sum, txns)
	}

	if persistErr != nil {
		log.Error("persist_failed", "error", persistErr.Error())
		log.Info("file_not_archived")
		return fmt.Errorf("persist statement: %w", persistErr)
	}

	// Archival runs only after the commit; a move failure never reverses
	// the database state.
	if err := ing.Archive.Move(path, string(typ)); err != nil {
		log.Warn("archive_failed", "error", err.Error())
	} else {
		log.Info("file_archived", "dest", ing.Archive.Path(string(typ), filepath.Base(path)))
	}

	return nil
}
