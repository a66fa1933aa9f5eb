package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"financebooks/internal/archive"
	"financebooks/internal/database"
	"financebooks/internal/pdftext"
)

const bankPageOne = `JPMorgan Chase Bank, N.A.
P O Box 182051
Columbus, OH 43218-2051

January 01, 2025 through January 31, 2025

00000123456783923
CUSTOMER SERVICE INFORMATION

Chase Total Checking

CHECKING SUMMARY
Beginning Balance                              $100.00
Deposits and Additions                          50.00
Electronic Withdrawals                         -20.00
Ending Balance                                 $130.00
`

const bankPageTwo = `TRANSACTION DETAIL

Beginning Balance
50.00
Ending Balance

01/05  ONLINE TRANSFER FROM SAVINGS               150.00
01/10  CHECK PAID                    - 20.00      130.00

A Monthly Service Fee was not charged this period.
`

const cardPageOne = `ACCOUNT SUMMARY
Account Number: XXXX XXXX XXXX 0907
Previous Balance             $500.00
Purchases                    +$250.00
New Balance                  $650.00
Opening/Closing Date         01/03/25 - 02/02/25
Credit Access Line           $5,000.00
Available Credit             $4,350.00
`

const cardPageTwo = `ACCOUNT ACTIVITY

01/14  COFFEE SHOP PORTLAND OR        4.50
01/20  AUTOMATIC PAYMENT - THANK YOU      -100.00

INTEREST CHARGES
`

type fakeDoc struct {
	pages []string
}

func (d fakeDoc) PageCount() int { return len(d.pages) }

func (d fakeDoc) PageText(page int) (string, error) {
	if page < 1 || page > len(d.pages) {
		return "", fmt.Errorf("page %d out of range", page)
	}
	return d.pages[page-1], nil
}

// newTestIngestor wires an Ingestor to a temp database, a temp archive and a
// fake document provider keyed by file path.
func newTestIngestor(t *testing.T, docs map[string][]string) *Ingestor {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Init(); err != nil {
		t.Fatalf("init database: %v", err)
	}
	if err := db.EnsureCategoryColumn(); err != nil {
		t.Fatalf("migrate database: %v", err)
	}

	arch, err := archive.New(t.TempDir())
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}

	return &Ingestor{
		DB:      db,
		Archive: arch,
		Open: func(path string) (pdftext.Document, error) {
			pages, ok := docs[path]
			if !ok {
				return nil, fmt.Errorf("no fake document for %s", path)
			}
			return fakeDoc{pages: pages}, nil
		},
		RefDate: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		Log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// writeStatementFile creates a placeholder file standing in for the PDF on
// disk so archival has something to move.
func writeStatementFile(t *testing.T, dir, name string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("%PDF-1.4 placeholder"), 0644); err != nil {
		t.Fatalf("write statement file: %v", err)
	}
	return path
}

func TestIngestBankDocument(t *testing.T) {
	src := writeStatementFile(t, t.TempDir(), "statement.pdf")
	ing := newTestIngestor(t, map[string][]string{src: {bankPageOne, bankPageTwo}})

	if err := ing.IngestFile(context.Background(), src); err != nil {
		t.Fatalf("IngestFile: %v", err)
	}

	sum, err := ing.DB.GetBankSummary("3923_20250101")
	if err != nil {
		t.Fatalf("GetBankSummary: %v", err)
	}
	if sum.BeginningBalance != 100 || sum.EndingBalance != 130 {
		t.Errorf("balances = %v/%v, want 100/130", sum.BeginningBalance, sum.EndingBalance)
	}

	txns, err := ing.DB.GetTransactions("3923_20250101")
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txns))
	}
	if txns[0].Amount != 50 || txns[1].Amount != -20 {
		t.Errorf("amounts = %v/%v, want 50/-20", txns[0].Amount, txns[1].Amount)
	}
	if txns[0].InvoiceID != "3923_20250101" {
		t.Errorf("transaction InvoiceID = %q", txns[0].InvoiceID)
	}

	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source file still present after archival")
	}
	if _, err := os.Stat(ing.Archive.Path("bank", "statement.pdf")); err != nil {
		t.Errorf("archived file missing: %v", err)
	}
}

func TestIngestCardDocument(t *testing.T) {
	src := writeStatementFile(t, t.TempDir(), "card.pdf")
	ing := newTestIngestor(t, map[string][]string{src: {cardPageOne, cardPageTwo}})

	if err := ing.IngestFile(context.Background(), src); err != nil {
		t.Fatalf("IngestFile: %v", err)
	}

	sum, err := ing.DB.GetCardSummary("0907_20250103")
	if err != nil {
		t.Fatalf("GetCardSummary: %v", err)
	}
	if sum.CardNumber != "0907" || sum.CurrentBalance != 250 {
		t.Errorf("card summary = %+v", sum)
	}

	txns, err := ing.DB.GetTransactions("0907_20250103")
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txns))
	}
	// Printed signs inverted: the charge negative, the payment positive.
	if txns[0].Amount != -4.50 {
		t.Errorf("txns[0].Amount = %v, want -4.50", txns[0].Amount)
	}
	if txns[1].Amount != 100 {
		t.Errorf("txns[1].Amount = %v, want 100", txns[1].Amount)
	}
	if txns[0].ResBalance != nil {
		t.Error("card transaction carries a running balance")
	}
	if txns[0].Category != nil {
		t.Errorf("category set before the review workflow ran: %q", *txns[0].Category)
	}

	if _, err := os.Stat(ing.Archive.Path("card", "card.pdf")); err != nil {
		t.Errorf("archived file missing: %v", err)
	}
}

func TestIngestUnknownDocumentSkipped(t *testing.T) {
	src := writeStatementFile(t, t.TempDir(), "letter.pdf")
	ing := newTestIngestor(t, map[string][]string{src: {"Dear customer, your rate is changing."}})

	if err := ing.IngestFile(context.Background(), src); err != nil {
		t.Fatalf("IngestFile: %v", err)
	}

	// Nothing persisted, nothing moved.
	if _, err := ing.DB.GetBankSummary("3923_20250101"); err == nil {
		t.Error("unexpected bank summary for unknown document")
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("unknown document was moved: %v", err)
	}
}

func TestIngestSummaryFailureSkipsDocument(t *testing.T) {
	// Recognized as a bank statement but the header fields are unreadable.
	src := writeStatementFile(t, t.TempDir(), "garbled.pdf")
	ing := newTestIngestor(t, map[string][]string{src: {"Chase Total Checking\nsmudged scan"}})

	if err := ing.IngestFile(context.Background(), src); err != nil {
		t.Fatalf("IngestFile: %v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("document with failed summary was moved: %v", err)
	}
}

func TestIngestDepositMismatchKeepsSummary(t *testing.T) {
	// Two deposit rows against a single bolded amount: the line items are
	// untrusted and dropped, but the summary still lands and the file is
	// archived.
	pageTwo := `Beginning Balance
50.00
Ending Balance

01/05  ONLINE TRANSFER FROM SAVINGS               150.00
01/07  REMOTE ONLINE DEPOSIT                      200.00

A Monthly Service Fee was not charged this period.
`
	src := writeStatementFile(t, t.TempDir(), "mismatch.pdf")
	ing := newTestIngestor(t, map[string][]string{src: {bankPageOne, pageTwo}})

	if err := ing.IngestFile(context.Background(), src); err != nil {
		t.Fatalf("IngestFile: %v", err)
	}

	if _, err := ing.DB.GetBankSummary("3923_20250101"); err != nil {
		t.Errorf("summary not persisted: %v", err)
	}
	txns, err := ing.DB.GetTransactions("3923_20250101")
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if len(txns) != 0 {
		t.Errorf("got %d transactions, want 0 for untrusted line items", len(txns))
	}
	if _, err := os.Stat(ing.Archive.Path("bank", "mismatch.pdf")); err != nil {
		t.Errorf("archived file missing: %v", err)
	}
}

func TestIngestPersistFailureKeepsFile(t *testing.T) {
	src := writeStatementFile(t, t.TempDir(), "statement.pdf")
	ing := newTestIngestor(t, map[string][]string{src: {bankPageOne, bankPageTwo}})

	// A closed database makes every write fail.
	ing.DB.Close()

	if err := ing.IngestFile(context.Background(), src); err == nil {
		t.Fatal("expected persistence error")
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("file moved despite persistence failure: %v", err)
	}
}

func TestIngestDir(t *testing.T) {
	root := t.TempDir()
	bankSrc := writeStatementFile(t, filepath.Join(root, "bank"), "jan.pdf")
	cardSrc := writeStatementFile(t, filepath.Join(root, "card"), "jan.pdf")
	writeStatementFile(t, root, "stray.pdf") // not under a type subfolder

	ing := newTestIngestor(t, map[string][]string{
		bankSrc: {bankPageOne, bankPageTwo},
		cardSrc: {cardPageOne, cardPageTwo},
	})

	ing.IngestDir(context.Background(), root)

	if _, err := ing.DB.GetBankSummary("3923_20250101"); err != nil {
		t.Errorf("bank statement not ingested: %v", err)
	}
	if _, err := ing.DB.GetCardSummary("0907_20250103"); err != nil {
		t.Errorf("card statement not ingested: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "stray.pdf")); err != nil {
		t.Errorf("file outside type subfolders was touched: %v", err)
	}
}
