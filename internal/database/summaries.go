package database

import (
	"fmt"

	"financebooks/internal/models"
)

// Dates are stored as YYYY-MM-DD text; the driver parses DATE/DATETIME
// columns back into time.Time on scan.
const dateLayout = "2006-01-02"

// SaveBankStatement persists a bank summary and its extracted transactions in
// one database transaction. The summary upsert keys on invoice_id: re-ingesting
// the same statement overwrites every field except created_on. Transactions are
// fully replaced for the invoice, with created_on carried over for rows whose
// (date, desc) matches a pre-existing row. Any failure rolls the whole
// document back.
func (db *DB) SaveBankStatement(sum *models.BankSummary, txns []models.Transaction) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO bank_summary
		(invoice_id, beginning_balance, ending_balance, deposits, withdrawals,
		 date_start, date_end, account_number, created_on, modified_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?,
			COALESCE((SELECT created_on FROM bank_summary WHERE invoice_id = ?), CURRENT_TIMESTAMP),
			CURRENT_TIMESTAMP)
		ON CONFLICT(invoice_id) DO UPDATE SET
			beginning_balance=excluded.beginning_balance,
			ending_balance=excluded.ending_balance,
			deposits=excluded.deposits,
			withdrawals=excluded.withdrawals,
			date_start=excluded.date_start,
			date_end=excluded.date_end,
			account_number=excluded.account_number,
			modified_on=CURRENT_TIMESTAMP
	`, sum.InvoiceID, sum.BeginningBalance, sum.EndingBalance, sum.Deposits, sum.Withdrawals,
		sum.DateStart.Format(dateLayout), sum.DateEnd.Format(dateLayout), sum.AccountNumber,
		sum.InvoiceID)
	if err != nil {
		return fmt.Errorf("upsert bank summary: %w", err)
	}

	if len(txns) > 0 {
		if err := replaceTransactions(tx, sum.InvoiceID, txns); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// SaveCardStatement is the card counterpart of SaveBankStatement.
func (db *DB) SaveCardStatement(sum *models.CardSummary, txns []models.Transaction) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO card_summary
		(invoice_id, card_number, previous_balance, current_balance, date_start,
		 date_end, cash_advances, balance_transfers, fees, interest,
		 available_credit, credit_limit, created_on, modified_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			COALESCE((SELECT created_on FROM card_summary WHERE invoice_id = ?), CURRENT_TIMESTAMP),
			CURRENT_TIMESTAMP)
		ON CONFLICT(invoice_id) DO UPDATE SET
			card_number=excluded.card_number,
			previous_balance=excluded.previous_balance,
			current_balance=excluded.current_balance,
			date_start=excluded.date_start,
			date_end=excluded.date_end,
			cash_advances=excluded.cash_advances,
			balance_transfers=excluded.balance_transfers,
			fees=excluded.fees,
			interest=excluded.interest,
			available_credit=excluded.available_credit,
			credit_limit=excluded.credit_limit,
			modified_on=CURRENT_TIMESTAMP
	`, sum.InvoiceID, sum.CardNumber, sum.PreviousBalance, sum.CurrentBalance,
		sum.DateStart.Format(dateLayout), sum.DateEnd.Format(dateLayout),
		sum.CashAdvances, sum.BalanceTransfers, sum.Fees, sum.Interest,
		sum.AvailableCredit, sum.CreditLimit,
		sum.InvoiceID)
	if err != nil {
		return fmt.Errorf("upsert card summary: %w", err)
	}

	if len(txns) > 0 {
		if err := replaceTransactions(tx, sum.InvoiceID, txns); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetBankSummary returns the bank summary for an invoice id.
func (db *DB) GetBankSummary(invoiceID string) (*models.BankSummary, error) {
	var s models.BankSummary
	err := db.QueryRow(`
		SELECT invoice_id, beginning_balance, ending_balance, deposits, withdrawals,
		       date_start, date_end, account_number, created_on, modified_on
		FROM bank_summary WHERE invoice_id = ?
	`, invoiceID).Scan(&s.InvoiceID, &s.BeginningBalance, &s.EndingBalance, &s.Deposits,
		&s.Withdrawals, &s.DateStart, &s.DateEnd, &s.AccountNumber, &s.CreatedOn, &s.ModifiedOn)
	if err != nil {
		return nil, fmt.Errorf("query bank summary: %w", err)
	}
	return &s, nil
}

// GetCardSummary returns the card summary for an invoice id.
func (db *DB) GetCardSummary(invoiceID string) (*models.CardSummary, error) {
	var s models.CardSummary
	err := db.QueryRow(`
		SELECT invoice_id, card_number, previous_balance, current_balance, date_start,
		       date_end, cash_advances, balance_transfers, fees, interest,
		       available_credit, credit_limit, created_on, modified_on
		FROM card_summary WHERE invoice_id = ?
	`, invoiceID).Scan(&s.InvoiceID, &s.CardNumber, &s.PreviousBalance, &s.CurrentBalance,
		&s.DateStart, &s.DateEnd, &s.CashAdvances, &s.BalanceTransfers, &s.Fees, &s.Interest,
		&s.AvailableCredit, &s.CreditLimit, &s.CreatedOn, &s.ModifiedOn)
	if err != nil {
		return nil, fmt.Errorf("query card summary: %w", err)
	}
	return &s, nil
}
