package parser

import (
	"context"
	"strings"

	"financebooks/internal/logger"
	"financebooks/internal/models"
	"financebooks/internal/pdftext"
)

// Marker phrases that identify each statement layout and bound its
// activity section.
const (
	bankTypeMarker = "Chase Total Checking"
	cardTypeMarker = "ACCOUNT SUMMARY"

	bankSectionEnd    = "A Monthly Service Fee"
	cardSectionEnd    = "INTEREST CHARGES"
	cardActivityStart = "ACCOUNT ACTIVITY"
)

// DetectType classifies a statement from its first-page text. Documents
// matching neither marker come back as StatementUnknown and must be skipped
// by the caller.
func DetectType(firstPage string) models.StatementType {
	if strings.Contains(firstPage, bankTypeMarker) {
		return models.StatementBank
	}
	if strings.Contains(firstPage, cardTypeMarker) {
		return models.StatementCard
	}
	return models.StatementUnknown
}

// CollectSection walks pages forward from startPage and returns the
// concatenated text covering the statement's activity section: every page up
// to and including the first one containing the type's terminal marker, or
// through the last page if the marker never appears.
//
// Card statements print several pages of offers and summaries before the
// activity listing, so for cards the walk first skips ahead to the page
// containing the activity marker; if that marker is never found the section
// is empty and the miss is logged. Unknown types yield empty text.
func CollectSection(ctx context.Context, doc pdftext.Document, typ models.StatementType, startPage int) (string, error) {
	var terminal string
	switch typ {
	case models.StatementBank:
		terminal = bankSectionEnd
	case models.StatementCard:
		terminal = cardSectionEnd
	default:
		return "", nil
	}

	total := doc.PageCount()
	page := startPage
	content, err := doc.PageText(page)
	if err != nil {
		return "", err
	}

	if typ == models.StatementCard {
		for !strings.Contains(content, cardActivityStart) {
			if page == total {
				logger.Ctx(ctx).Info("transaction_details_not_found", "pages", total)
				return "", nil
			}
			page++
			if content, err = doc.PageText(page); err != nil {
				return "", err
			}
		}
	}

	var b strings.Builder
	b.WriteString(content)
	for !strings.Contains(content, terminal) && page < total {
		page++
		if content, err = doc.PageText(page); err != nil {
			return "", err
		}
		b.WriteString(content)
	}

	return b.String(), nil
}
