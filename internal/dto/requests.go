package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
)

// StageLegRequest is the payload for staging one draft leg under a master id.
type StageLegRequest struct {
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Kind            string          `json:"kind" binding:"required,oneof=withdrawal deposit transfer"`
	Description     string          `json:"description" binding:"required"`
	Date            time.Time       `json:"date" binding:"required"`
	SourceName      string          `json:"sourceName"`
	DestinationName string          `json:"destinationName"`
	CurrencyCode    string          `json:"currencyCode" binding:"required,len=3"`
	CategoryName    string          `json:"categoryName"`
	BudgetName      string          `json:"budgetName"`
	BillName        string          `json:"billName"`
	PiggyBankName   string          `json:"piggyBankName"`
	Tags            []string        `json:"tags"`
	Notes           string          `json:"notes"`
	AttachmentURIs  []string        `json:"attachmentURIs"`
}

// ToDomainLeg converts the request into an unstaged domain leg. The draft
// store assigns the local journal id.
func (r StageLegRequest) ToDomainLeg() domain.TransactionLeg {
	kind, _ := domain.ParseTransactionKind(r.Kind)
	return domain.TransactionLeg{
		Amount:          r.Amount,
		Kind:            kind,
		Description:     r.Description,
		Date:            r.Date,
		SourceName:      r.SourceName,
		DestinationName: r.DestinationName,
		CurrencyCode:    r.CurrencyCode,
		CategoryName:    r.CategoryName,
		BudgetName:      r.BudgetName,
		BillName:        r.BillName,
		PiggyBankName:   r.PiggyBankName,
		Tags:            r.Tags,
		Notes:           r.Notes,
		AttachmentURIs:  r.AttachmentURIs,
		IsPending:       true,
	}
}

// SubmitGroupRequest is the payload for submitting a staged group.
type SubmitGroupRequest struct {
	GroupTitle string `json:"groupTitle" binding:"required"`
}
