package categorize

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"financebooks/internal/models"
)

type fakeStore struct {
	rows  []models.UncategorizedTransaction
	saved map[int64]string
	err   error
}

func (s *fakeStore) GetUncategorizedTransactions() ([]models.UncategorizedTransaction, error) {
	return s.rows, s.err
}

func (s *fakeStore) UpdateTransactionCategories(categorized map[int64]string) error {
	s.saved = categorized
	return s.err
}

type fakeClassifier struct {
	fn func(description string) (string, error)
}

func (c fakeClassifier) Categorize(ctx context.Context, description string, categories []string) (string, error) {
	return c.fn(description)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProposeValidatesClassifierOutput(t *testing.T) {
	store := &fakeStore{rows: []models.UncategorizedTransaction{
		{ID: 1, Desc: "COFFEE SHOP PORTLAND OR"},
		{ID: 2, Desc: "AMAZON MKTPL*XY12AB"},
		{ID: 3, Desc: "UNKNOWN MERCHANT 123"},
		{ID: 4, Desc: "FLAKY MERCHANT"},
	}}
	classifier := fakeClassifier{fn: func(description string) (string, error) {
		switch description {
		case "COFFEE SHOP PORTLAND OR":
			return "Dining", nil
		case "AMAZON MKTPL*XY12AB":
			// Sloppy but recoverable model output.
			return "  Shopping\n", nil
		case "UNKNOWN MERCHANT 123":
			// Not in the category set.
			return "Miscellaneous expenses", nil
		default:
			return "", fmt.Errorf("model unavailable")
		}
	}}

	wf := NewWorkflow(store, classifier, discardLogger())
	proposals, err := wf.Propose(context.Background())
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if len(proposals) != 4 {
		t.Fatalf("got %d proposals, want 4", len(proposals))
	}

	want := []string{"Dining", "Shopping", "Other", "Other"}
	for i, p := range proposals {
		if p.Category != want[i] {
			t.Errorf("proposals[%d].Category = %q, want %q", i, p.Category, want[i])
		}
	}
}

func TestProposeStoreError(t *testing.T) {
	store := &fakeStore{err: fmt.Errorf("disk on fire")}
	wf := NewWorkflow(store, fakeClassifier{fn: func(string) (string, error) { return "Other", nil }}, discardLogger())

	if _, err := wf.Propose(context.Background()); err == nil {
		t.Fatal("expected store error to propagate")
	}
}

func TestProposeEmpty(t *testing.T) {
	wf := NewWorkflow(&fakeStore{}, fakeClassifier{fn: func(string) (string, error) {
		t.Fatal("classifier called with no uncategorized rows")
		return "", nil
	}}, discardLogger())

	proposals, err := wf.Propose(context.Background())
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if len(proposals) != 0 {
		t.Errorf("got %d proposals, want 0", len(proposals))
	}
}

func TestCommit(t *testing.T) {
	store := &fakeStore{}
	wf := NewWorkflow(store, nil, discardLogger())

	proposals := []Proposal{
		{ID: 7, Description: "COFFEE SHOP", Category: "Dining"},
		{ID: 9, Description: "PAYROLL", Category: "Income"},
	}
	if err := wf.Commit(proposals); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if len(store.saved) != 2 || store.saved[7] != "Dining" || store.saved[9] != "Income" {
		t.Errorf("saved batch = %v", store.saved)
	}
}

func TestRender(t *testing.T) {
	wf := NewWorkflow(&fakeStore{}, nil, discardLogger())

	var b strings.Builder
	wf.Render(&b, []Proposal{{ID: 1, Description: "COFFEE SHOP", Category: "Dining"}})

	out := b.String()
	if !strings.Contains(out, "Dining") || !strings.Contains(out, "COFFEE SHOP") {
		t.Errorf("render output missing fields: %q", out)
	}
}

func TestExportPending(t *testing.T) {
	wf := NewWorkflow(&fakeStore{}, nil, discardLogger())
	path := filepath.Join(t.TempDir(), "pending_categories.csv")

	proposals := []Proposal{
		{ID: 1, Description: "COFFEE SHOP, PORTLAND", Category: "Dining"},
		{ID: 2, Description: "PAYROLL", Category: "Income"},
	}
	if err := wf.ExportPending(path, proposals); err != nil {
		t.Fatalf("ExportPending: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open exported file: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read exported csv: %v", err)
	}
	want := [][]string{
		{"description", "category"},
		{"COFFEE SHOP, PORTLAND", "Dining"},
		{"PAYROLL", "Income"},
	}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d", len(records), len(want))
	}
	for i := range want {
		for j := range want[i] {
			if records[i][j] != want[i][j] {
				t.Errorf("records[%d][%d] = %q, want %q", i, j, records[i][j], want[i][j])
			}
		}
	}
}
