package categorize

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"financebooks/internal/models"
)

// Store is the slice of the database the categorization workflow needs.
type Store interface {
	GetUncategorizedTransactions() ([]models.UncategorizedTransaction, error)
	UpdateTransactionCategories(categorized map[int64]string) error
}

// Proposal is one staged category assignment awaiting operator review.
type Proposal struct {
	ID          int64
	Description string
	Category    string
}

// Workflow stages classifier-proposed categories for human confirmation and
// commits or exports them afterwards. Nothing touches the store until the
// operator confirms.
type Workflow struct {
	store      Store
	classifier Classifier
	log        *slog.Logger
}

func NewWorkflow(store Store, classifier Classifier, log *slog.Logger) *Workflow {
	return &Workflow{store: store, classifier: classifier, log: log}
}

// Propose selects every transaction without a category and asks the
// classifier for one, sequentially. A failed call or a response outside the
// enumeration degrades that row to Other; it never aborts the batch. The
// staged category is always a member of the fixed set.
func (w *Workflow) Propose(ctx context.Context) ([]Proposal, error) {
	rows, err := w.store.GetUncategorizedTransactions()
	if err != nil {
		return nil, fmt.Errorf("select uncategorized: %w", err)
	}

	categories := models.Categories()
	allowed := make(map[string]bool, len(categories))
	for _, c := range categories {
		allowed[c] = true
	}

	proposals := make([]Proposal, 0, len(rows))
	for _, r := range rows {
		category := models.CategoryOther

		raw, err := w.classifier.Categorize(ctx, r.Desc, categories)
		if err != nil {
			w.log.Warn("categorize_call_failed", "id", r.ID, "error", err.Error())
		} else if trimmed := strings.TrimSpace(raw); allowed[trimmed] {
			category = trimmed
		} else {
			w.log.Warn("categorize_invalid_response", "id", r.ID, "response", raw)
		}

		proposals = append(proposals, Proposal{ID: r.ID, Description: r.Desc, Category: category})
	}

	return proposals, nil
}

// Render writes the review table for the operator.
func (w *Workflow) Render(out io.Writer, proposals []Proposal) {
	fmt.Fprintln(out, "\nProposed categories for review:")
	for _, p := range proposals {
		fmt.Fprintf(out, "  %-16s %s\n", p.Category, p.Description)
	}
}

// Commit writes the confirmed batch to the store by transaction id.
func (w *Workflow) Commit(proposals []Proposal) error {
	batch := make(map[int64]string, len(proposals))
	for _, p := range proposals {
		batch[p.ID] = p.Category
	}
	if err := w.store.UpdateTransactionCategories(batch); err != nil {
		return fmt.Errorf("save categories: %w", err)
	}
	w.log.Info("categories_saved", "count", len(batch))
	return nil
}

// ExportPending writes the declined batch to a CSV of description and
// category for manual reconciliation later.
func (w *Workflow) ExportPending(path string, proposals []Proposal) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"description", "category"}); err != nil {
		return fmt.Errorf("write pending header: %w", err)
	}
	for _, p := range proposals {
		if err := cw.Write([]string{p.Description, p.Category}); err != nil {
			return fmt.Errorf("write pending row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush pending file: %w", err)
	}

	w.log.Info("categories_exported", "path", path, "count", len(proposals))
	return nil
}
