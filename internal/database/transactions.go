package database

import (
	"database/sql"
	"fmt"
	"time"

	"financebooks/internal/models"
)

// replaceTransactions swaps out every transaction row for an invoice inside
// the caller's transaction. Rows matching a pre-existing row on (date, desc)
// keep that row's created_on; everything else gets "now". modified_on is
// always "now".
func replaceTransactions(tx *sql.Tx, invoiceID string, txns []models.Transaction) error {
	rows, err := tx.Query(`SELECT date, "desc", created_on FROM transactions WHERE invoice_id = ?`, invoiceID)
	if err != nil {
		return fmt.Errorf("read existing transactions: %w", err)
	}

	existing := make(map[string]time.Time)
	for rows.Next() {
		var (
			date, desc string
			createdOn  time.Time
		)
		if err := rows.Scan(&date, &desc, &createdOn); err != nil {
			rows.Close()
			return fmt.Errorf("scan existing transaction: %w", err)
		}
		existing[date+"\x00"+desc] = createdOn
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("read existing transactions: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM transactions WHERE invoice_id = ?`, invoiceID); err != nil {
		return fmt.Errorf("delete existing transactions: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO transactions
		(invoice_id, date, "desc", transaction_amt, res_balance, adjusted_date,
		 created_on, modified_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare transaction insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for i, t := range txns {
		createdOn := now
		if prior, ok := existing[t.Date+"\x00"+t.Desc]; ok {
			createdOn = prior
		}

		var balance any
		if t.ResBalance != nil {
			balance = *t.ResBalance
		}

		var adjusted any
		if !t.AdjustedDate.IsZero() {
			adjusted = t.AdjustedDate.Format(dateLayout)
		}

		if _, err := stmt.Exec(invoiceID, t.Date, t.Desc, t.Amount, balance, adjusted, createdOn, now); err != nil {
			return fmt.Errorf("insert transaction %d: %w", i, err)
		}
	}

	return nil
}

// GetTransactions returns all transaction rows for an invoice, in stored
// order (ascending adjusted date, then insertion order).
func (db *DB) GetTransactions(invoiceID string) ([]models.Transaction, error) {
	rows, err := db.Query(`
		SELECT id, invoice_id, date, "desc", transaction_amt, res_balance,
		       adjusted_date, category, created_on, modified_on
		FROM transactions
		WHERE invoice_id = ?
		ORDER BY adjusted_date, id
	`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var (
			t        models.Transaction
			balance  sql.NullFloat64
			adjusted sql.NullTime
			category sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.InvoiceID, &t.Date, &t.Desc, &t.Amount, &balance,
			&adjusted, &category, &t.CreatedOn, &t.ModifiedOn); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if balance.Valid {
			t.ResBalance = &balance.Float64
		}
		if adjusted.Valid {
			t.AdjustedDate = adjusted.Time
		}
		if category.Valid {
			t.Category = &category.String
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// GetUncategorizedTransactions returns the id and description of every
// transaction with no category yet and a non-empty description.
func (db *DB) GetUncategorizedTransactions() ([]models.UncategorizedTransaction, error) {
	rows, err := db.Query(`
		SELECT id, "desc"
		FROM transactions
		WHERE (category IS NULL OR category = '')
		  AND "desc" IS NOT NULL
		  AND "desc" != ''
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query uncategorized transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.UncategorizedTransaction
	for rows.Next() {
		var t models.UncategorizedTransaction
		if err := rows.Scan(&t.ID, &t.Desc); err != nil {
			return nil, fmt.Errorf("scan uncategorized transaction: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// UpdateTransactionCategories writes confirmed categories by transaction id,
// advancing modified_on on each updated row.
func (db *DB) UpdateTransactionCategories(categorized map[int64]string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		UPDATE transactions
		SET category = ?, modified_on = CURRENT_TIMESTAMP
		WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("prepare category update: %w", err)
	}
	defer stmt.Close()

	for id, category := range categorized {
		if _, err := stmt.Exec(category, id); err != nil {
			return fmt.Errorf("update category for transaction %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
