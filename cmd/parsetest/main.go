package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"financebooks/internal/models"
	"financebooks/internal/parser"
	"financebooks/internal/pdftext"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: parsetest <path-to-pdf>")
		os.Exit(1)
	}

	path := os.Args[1]
	ctx := context.Background()

	doc, err := pdftext.Open(path)
	if err != nil {
		fmt.Printf("Error reading PDF: %v\n", err)
		os.Exit(1)
	}

	firstPage, err := doc.PageText(1)
	if err != nil {
		fmt.Printf("Error reading first page: %v\n", err)
		os.Exit(1)
	}

	typ := parser.DetectType(firstPage)
	fmt.Printf("Statement type: %s (%d pages)\n", typ, doc.PageCount())
	if typ == models.StatementUnknown {
		os.Exit(1)
	}

	section, err := parser.CollectSection(ctx, doc, typ, 1)
	if err != nil {
		fmt.Printf("Error collecting activity section: %v\n", err)
		os.Exit(1)
	}

	ref := time.Now()
	var txns []models.Transaction

	switch typ {
	case models.StatementBank:
		sum, err := parser.ExtractBankSummary(ctx, firstPage)
		if err != nil {
			fmt.Printf("Error extracting summary: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nInvoice ID:        %s\n", sum.InvoiceID)
		fmt.Printf("Account:           %s\n", sum.AccountNumber)
		fmt.Printf("Period:            %s - %s\n",
			sum.DateStart.Format("2006-01-02"), sum.DateEnd.Format("2006-01-02"))
		fmt.Printf("Beginning Balance: $%.2f\n", sum.BeginningBalance)
		fmt.Printf("Ending Balance:    $%.2f\n", sum.EndingBalance)
		fmt.Printf("Deposits:          $%.2f\n", sum.Deposits)
		fmt.Printf("Withdrawals:       $%.2f\n", sum.Withdrawals)

		txns, err = parser.ExtractBankLineItems(ctx, section, ref)
		if err != nil {
			fmt.Printf("Error extracting line items: %v\n", err)
			os.Exit(1)
		}
		printTransactions(txns)
		verifyBalance(sum.BeginningBalance, sum.EndingBalance, txns)

	case models.StatementCard:
		sum, err := parser.ExtractCardSummary(ctx, firstPage)
		if err != nil {
			fmt.Printf("Error extracting summary: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nInvoice ID:        %s\n", sum.InvoiceID)
		fmt.Printf("Card (last 4):     %s\n", sum.CardNumber)
		fmt.Printf("Period:            %s - %s\n",
			sum.DateStart.Format("2006-01-02"), sum.DateEnd.Format("2006-01-02"))
		fmt.Printf("Previous Balance:  $%.2f\n", sum.PreviousBalance)
		fmt.Printf("Purchases:         $%.2f\n", sum.CurrentBalance)
		fmt.Printf("Available Credit:  $%.2f\n", sum.AvailableCredit)

		txns, err = parser.ExtractCardLineItems(ctx, section, ref)
		if err != nil {
			fmt.Printf("Error extracting line items: %v\n", err)
			os.Exit(1)
		}
		printTransactions(txns)
	}
}

func printTransactions(txns []models.Transaction) {
	fmt.Printf("\nTransactions: %d\n", len(txns))
	fmt.Println("-----------------")
	for _, t := range txns {
		balance := "          "
		if t.ResBalance != nil {
			balance = fmt.Sprintf("%10.2f", *t.ResBalance)
		}
		fmt.Printf("  %s | %10.2f | %s | %s\n",
			t.AdjustedDate.Format("2006-01-02"), t.Amount, balance, truncate(t.Desc, 50))
	}
}

func verifyBalance(beginning, ending float64, txns []models.Transaction) {
	var total float64
	for _, t := range txns {
		total += t.Amount
	}
	calculated := beginning + total

	fmt.Println("\nBalance Verification:")
	fmt.Println("---------------------")
	fmt.Printf("  Beginning Balance:  $%10.2f\n", beginning)
	fmt.Printf("  Net Activity:       $%10.2f\n", total)
	fmt.Printf("  Calculated Ending:  $%10.2f\n", calculated)
	fmt.Printf("  Statement Ending:   $%10.2f\n", ending)
	if diff := calculated - ending; diff != 0 {
		fmt.Printf("  DIFFERENCE:         $%10.2f (may indicate missing transactions)\n", diff)
	} else {
		fmt.Println("  Balances match!")
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
