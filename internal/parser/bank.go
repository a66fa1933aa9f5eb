package parser

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"financebooks/internal/logger"
	"financebooks/internal/models"
)

// Summary field schema for checking-account statements. Patterns run over
// the first page only.
var bankSummaryFields = []field{
	{key: "beginning", re: regexp.MustCompile(`Beginning Balance\s+\$([\d.,]+)`), captures: []string{"balance"}},
	{key: "ending", re: regexp.MustCompile(`Ending Balance\s+\$([\d.,]+)`), captures: []string{"balance"}},
	{key: "deposits", re: regexp.MustCompile(`Deposits and Additions\s+([\d,.]+)`), captures: []string{"additions"}},
	{key: "electronic", re: regexp.MustCompile(`Electronic Withdrawals\s+-([\d,.]+)`), captures: []string{"withdrawals"}},
	{key: "date", re: regexp.MustCompile(`\n(?P<start>[\w ,]+?)\s*through\s*(?P<end>[\w ,]+)\n`), captures: []string{"start", "end"}},
	{key: "account", re: regexp.MustCompile(`(\d+)\nCUSTOMER`), captures: []string{"number"}},
}

// bankDateLayout is how checking statements print the period boundaries.
const bankDateLayout = "January 2, 2006"

var (
	// A withdrawal row prints date, description, a signed amount and the
	// running balance on one line.
	bankWithdrawalPattern = regexp.MustCompile(`(?P<date>\d{2}/\d{2})\s+(?P<desc>.*?)\s+(?P<amt>-?\s*[\d,]+\.\d{2})\s+(?P<bal>[\d,.]+)\n`)

	// A deposit row prints only date, description and running balance; the
	// credited amount appears separately in the bolded totals block. The
	// description class excludes "-" so rows carrying a negative amount
	// (withdrawals) can never match.
	bankDepositPattern = regexp.MustCompile(`(?P<date>\d{2}/\d{2})\s+(?P<desc>[^-\n]*?)\s+(?P<bal>[\d,.]+)\n`)

	// The bolded per-deposit totals printed between the beginning and ending
	// balance lines, one amount per line.
	bankDepositTotalsPattern = regexp.MustCompile(`Beginning Balance.*\n([\d,.\n]+)\nEnding Balance`)
)

// ExtractBankSummary pulls the fixed header fields from a checking
// statement's first page and derives the statement's invoice id. Optional
// numeric fields default to 0; a missing date range or account number is a
// hard failure, as is an unparseable date, since the invoice id cannot be
// derived without them.
func ExtractBankSummary(ctx context.Context, firstPage string) (models.BankSummary, error) {
	vals := extractFields(bankSummaryFields, firstPage)

	sum := models.BankSummary{
		BeginningBalance: parseAmount(vals["beginning_balance"]),
		EndingBalance:    parseAmount(vals["ending_balance"]),
		Deposits:         parseAmount(vals["deposits_additions"]),
		AccountNumber:    vals["account_number"],
	}

	// withdrawal totals are stored negated
	if w := parseAmount(vals["electronic_withdrawals"]); w != 0 {
		sum.Withdrawals = -w
	}

	if sum.AccountNumber == "" || vals["date_start"] == "" || vals["date_end"] == "" {
		logger.Ctx(ctx).Info("summary_fields_missing", "type", "bank")
		return models.BankSummary{}, fmt.Errorf("bank summary: required fields missing")
	}

	var err error
	sum.DateStart, err = time.Parse(bankDateLayout, strings.TrimSpace(vals["date_start"]))
	if err != nil {
		return models.BankSummary{}, fmt.Errorf("bank summary: parse start date: %w", err)
	}
	sum.DateEnd, err = time.Parse(bankDateLayout, strings.TrimSpace(vals["date_end"]))
	if err != nil {
		return models.BankSummary{}, fmt.Errorf("bank summary: parse end date: %w", err)
	}

	sum.InvoiceID = lastFour(sum.AccountNumber) + "_" + sum.DateStart.Format("20060102")
	return sum, nil
}

// ExtractBankLineItems parses every activity row out of a checking
// statement's section text and reconciles deposit rows against the bolded
// per-deposit totals block. The count of bolded amounts must exactly equal
// the count of deposit rows: a partial correspondence cannot be trusted, so
// any mismatch fails the whole document's line items.
//
// ref supplies the year imputed onto printed MM/DD dates (see adjustDate).
// Rows come back sorted ascending by adjusted date, ties in original order.
func ExtractBankLineItems(ctx context.Context, section string, ref time.Time) ([]models.Transaction, error) {
	if strings.TrimSpace(section) == "" {
		return nil, nil
	}
	if !strings.HasSuffix(section, "\n") {
		section += "\n"
	}

	type row struct {
		date, desc string
		amt        float64
		bal        float64
	}

	var rows []row
	for _, m := range bankWithdrawalPattern.FindAllStringSubmatch(section, -1) {
		rows = append(rows, row{date: m[1], desc: m[2], amt: parseAmount(m[3]), bal: parseAmount(m[4])})
	}

	depStart := len(rows)
	for _, m := range bankDepositPattern.FindAllStringSubmatch(section, -1) {
		rows = append(rows, row{date: m[1], desc: m[2], bal: parseAmount(m[3])})
	}

	// Recover deposit amounts from the bolded totals block and apply them to
	// the deposit rows in document order.
	if nDeposits := len(rows) - depStart; nDeposits > 0 {
		m := bankDepositTotalsPattern.FindStringSubmatch(section)
		if m == nil {
			logger.Ctx(ctx).Info("deposit_amounts_not_found")
			return nil, fmt.Errorf("bank line items: deposit amounts not found despite deposit rows present")
		}

		var amounts []string
		for _, a := range strings.Split(m[1], "\n") {
			if strings.TrimSpace(a) != "" {
				amounts = append(amounts, a)
			}
		}
		if len(amounts) != nDeposits {
			logger.Ctx(ctx).Info("deposit_count_mismatch", "bolded", len(amounts), "rows", nDeposits)
			return nil, fmt.Errorf("bank line items: number of deposit amounts does not match the number of line items")
		}

		for i, a := range amounts {
			rows[depStart+i].amt = parseAmount(a)
		}
	}

	txns := make([]models.Transaction, 0, len(rows))
	for _, r := range rows {
		adj, err := adjustDate(r.date, ref)
		if err != nil {
			return nil, fmt.Errorf("bank line items: %w", err)
		}
		bal := r.bal
		txns = append(txns, models.Transaction{
			Date:         r.date,
			Desc:         r.desc,
			Amount:       r.amt,
			ResBalance:   &bal,
			AdjustedDate: adj,
		})
	}

	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].AdjustedDate.Before(txns[j].AdjustedDate)
	})
	return txns, nil
}
