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

// Summary field schema for credit-card statements.
var cardSummaryFields = []field{
	{key: "card", re: regexp.MustCompile(`X{4}\s+(\d{4})`), captures: []string{"number"}},
	{key: "previous", re: regexp.MustCompile(`Previous Balance\s+\$([\d,.]+)`), captures: []string{"balance"}},
	{key: "current", re: regexp.MustCompile(`Purchases\s+\+\$([\d,.]+)`), captures: []string{"balance"}},
	{key: "date", re: regexp.MustCompile(`Opening/Closing Date\s+(?P<start>\d+/\d+/\d+)[\s\-]+(?P<end>\d+/\d+/\d+)`), captures: []string{"start", "end"}},
	{key: "cash", re: regexp.MustCompile(`Cash Advances\s+\$(-?[\d,.]+)`), captures: []string{"advances"}},
	{key: "balance", re: regexp.MustCompile(`Balance Transfers\s+\$(-?[\d,.]+)`), captures: []string{"transfers"}},
	{key: "fees", re: regexp.MustCompile(`Fees Charged\s+\$(-?[\d,.]+)`), captures: []string{"charged"}},
	{key: "interest", re: regexp.MustCompile(`Interest Charged\s+\$(-?[\d,.]+)`), captures: []string{"charged"}},
	{key: "available", re: regexp.MustCompile(`Available Credit\s+\$([\d,.]+)`), captures: []string{"credit"}},
	{key: "credit", re: regexp.MustCompile(`Credit Access Line\s+\$([\d,.]+)`), captures: []string{"limit"}},
}

// cardDateLayout is how card statements print the opening/closing dates.
const cardDateLayout = "01/02/06"

// A card activity row prints date, description and a signed amount. Charges
// print positive, credits negative.
var cardTransactionPattern = regexp.MustCompile(`(?P<date>\d{2}/\d{2})\s+(?P<desc>.*?)\s+(?P<amt>-?[\d,.]+)\n`)

// ExtractCardSummary pulls the fixed header fields from a card statement's
// first page and derives the invoice id from the card's last four digits and
// the opening date.
func ExtractCardSummary(ctx context.Context, firstPage string) (models.CardSummary, error) {
	vals := extractFields(cardSummaryFields, firstPage)

	sum := models.CardSummary{
		CardNumber:       vals["card_number"],
		PreviousBalance:  parseAmount(vals["previous_balance"]),
		CurrentBalance:   parseAmount(vals["current_balance"]),
		CashAdvances:     parseAmount(vals["cash_advances"]),
		BalanceTransfers: parseAmount(vals["balance_transfers"]),
		Fees:             parseAmount(vals["fees_charged"]),
		Interest:         parseAmount(vals["interest_charged"]),
		AvailableCredit:  parseAmount(vals["available_credit"]),
		CreditLimit:      parseAmount(vals["credit_limit"]),
	}

	if sum.CardNumber == "" || vals["date_start"] == "" || vals["date_end"] == "" {
		logger.Ctx(ctx).Info("summary_fields_missing", "type", "card")
		return models.CardSummary{}, fmt.Errorf("card summary: required fields missing")
	}

	var err error
	sum.DateStart, err = time.Parse(cardDateLayout, strings.TrimSpace(vals["date_start"]))
	if err != nil {
		return models.CardSummary{}, fmt.Errorf("card summary: parse start date: %w", err)
	}
	sum.DateEnd, err = time.Parse(cardDateLayout, strings.TrimSpace(vals["date_end"]))
	if err != nil {
		return models.CardSummary{}, fmt.Errorf("card summary: parse end date: %w", err)
	}

	sum.InvoiceID = sum.CardNumber + "_" + sum.DateStart.Format("20060102")
	return sum, nil
}

// ExtractCardLineItems parses card activity rows from the section text. The
// stored sign convention is inverted from the printed one so that charges
// come out negative and credits positive, matching the bank convention. Card
// statements carry no running balance, so ResBalance stays nil.
func ExtractCardLineItems(ctx context.Context, section string, ref time.Time) ([]models.Transaction, error) {
	if strings.TrimSpace(section) == "" {
		return nil, nil
	}
	if !strings.HasSuffix(section, "\n") {
		section += "\n"
	}

	var txns []models.Transaction
	for _, m := range cardTransactionPattern.FindAllStringSubmatch(section, -1) {
		adj, err := adjustDate(m[1], ref)
		if err != nil {
			return nil, fmt.Errorf("card line items: %w", err)
		}
		txns = append(txns, models.Transaction{
			Date:         m[1],
			Desc:         m[2],
			Amount:       -parseAmount(m[3]),
			AdjustedDate: adj,
		})
	}

	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].AdjustedDate.Before(txns[j].AdjustedDate)
	})
	return txns, nil
}
