package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRow is the database representation of one transaction leg, used
// by both the draft store and the local ledger mirror.
type TransactionRow struct {
	JournalID       int64
	GroupID         int64
	Amount          decimal.Decimal
	Kind            string
	Description     string
	Date            time.Time
	SourceName      string
	DestinationName string
	CurrencyCode    string
	CategoryName    string
	BudgetName      string
	BillName        string
	PiggyBankName   string
	Tags            []string
	Notes           string
	AttachmentURIs  []string
}

// GroupIndexRow links one journal id to its transaction group.
type GroupIndexRow struct {
	GroupID    int64
	JournalID  int64
	GroupTitle string
}

// PendingSubmissionRow is the database representation of a deferred
// submission.
type PendingSubmissionRow struct {
	MasterID   int64
	GroupTitle string
	CreatedAt  time.Time
}
