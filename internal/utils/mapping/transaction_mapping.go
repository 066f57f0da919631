package mapping

import (
	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
	"github.com/pocketledger/pocket_ledger_sync/internal/models"
)

// ToModelLeg converts a domain leg to its database row.
func ToModelLeg(leg domain.TransactionLeg) models.TransactionRow {
	return models.TransactionRow{
		JournalID:       leg.JournalID,
		GroupID:         leg.GroupID,
		Amount:          leg.Amount,
		Kind:            string(leg.Kind),
		Description:     leg.Description,
		Date:            leg.Date,
		SourceName:      leg.SourceName,
		DestinationName: leg.DestinationName,
		CurrencyCode:    leg.CurrencyCode,
		CategoryName:    leg.CategoryName,
		BudgetName:      leg.BudgetName,
		BillName:        leg.BillName,
		PiggyBankName:   leg.PiggyBankName,
		Tags:            leg.Tags,
		Notes:           leg.Notes,
		AttachmentURIs:  leg.AttachmentURIs,
	}
}

// ToDomainLeg converts a database row back to a domain leg. isPending marks
// rows living in the draft store.
func ToDomainLeg(row models.TransactionRow, isPending bool) domain.TransactionLeg {
	return domain.TransactionLeg{
		JournalID:       row.JournalID,
		GroupID:         row.GroupID,
		Amount:          row.Amount,
		Kind:            domain.TransactionKind(row.Kind),
		Description:     row.Description,
		Date:            row.Date,
		SourceName:      row.SourceName,
		DestinationName: row.DestinationName,
		CurrencyCode:    row.CurrencyCode,
		CategoryName:    row.CategoryName,
		BudgetName:      row.BudgetName,
		BillName:        row.BillName,
		PiggyBankName:   row.PiggyBankName,
		Tags:            row.Tags,
		Notes:           row.Notes,
		AttachmentURIs:  row.AttachmentURIs,
		IsPending:       isPending,
	}
}
