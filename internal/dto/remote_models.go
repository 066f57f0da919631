package dto

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
)

// FlexInt64 unmarshals a JSON value that the remote ledger emits either as a
// number or as a quoted string, depending on server version.
type FlexInt64 int64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt64) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*f = FlexInt64(n)
	return nil
}

// RemoteLeg is one transaction leg as the remote ledger returns it.
type RemoteLeg struct {
	TransactionJournalID FlexInt64       `json:"transaction_journal_id"`
	Type                 string          `json:"type"`
	Description          string          `json:"description"`
	Date                 time.Time       `json:"date"`
	Amount               decimal.Decimal `json:"amount"`
	CurrencyCode         string          `json:"currency_code"`
	SourceName           string          `json:"source_name"`
	DestinationName      string          `json:"destination_name"`
	CategoryName         string          `json:"category_name"`
	BudgetName           string          `json:"budget_name"`
	BillName             string          `json:"bill_name"`
	PiggyBankName        string          `json:"piggy_bank_name"`
	Tags                 []string        `json:"tags"`
	Notes                string          `json:"notes"`
	InternalReference    string          `json:"internal_reference"`
}

// GroupAttributes is the attribute envelope of a transaction group.
type GroupAttributes struct {
	GroupTitle   string      `json:"group_title"`
	Transactions []RemoteLeg `json:"transactions"`
}

// GroupData is one transaction group record.
type GroupData struct {
	ID         FlexInt64       `json:"id"`
	Attributes GroupAttributes `json:"attributes"`
}

// GroupResponse is the body of a group create/update call.
type GroupResponse struct {
	Data GroupData `json:"data"`
}

// Pagination mirrors the remote listing's page metadata.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

// PageMeta wraps pagination.
type PageMeta struct {
	Pagination Pagination `json:"pagination"`
}

// PageResponse is one page of the remote paginated listing or search.
type PageResponse struct {
	Data []GroupData `json:"data"`
	Meta PageMeta    `json:"meta"`
}

// ToDomainLegs converts a remote group into mirror rows plus their group
// index entries, preserving the remote leg order.
func (g GroupData) ToDomainLegs() ([]domain.TransactionLeg, []domain.GroupIndexEntry) {
	legs := make([]domain.TransactionLeg, 0, len(g.Attributes.Transactions))
	entries := make([]domain.GroupIndexEntry, 0, len(g.Attributes.Transactions))
	for _, rl := range g.Attributes.Transactions {
		kind, err := domain.ParseTransactionKind(rl.Type)
		if err != nil {
			kind = domain.KindWithdrawal
		}
		legs = append(legs, domain.TransactionLeg{
			JournalID:       int64(rl.TransactionJournalID),
			GroupID:         int64(g.ID),
			Amount:          rl.Amount,
			Kind:            kind,
			Description:     rl.Description,
			Date:            rl.Date,
			SourceName:      rl.SourceName,
			DestinationName: rl.DestinationName,
			CurrencyCode:    rl.CurrencyCode,
			CategoryName:    rl.CategoryName,
			BudgetName:      rl.BudgetName,
			BillName:        rl.BillName,
			PiggyBankName:   rl.PiggyBankName,
			Tags:            rl.Tags,
			Notes:           rl.Notes,
		})
		entries = append(entries, domain.GroupIndexEntry{
			GroupID:    int64(g.ID),
			JournalID:  int64(rl.TransactionJournalID),
			GroupTitle: g.Attributes.GroupTitle,
		})
	}
	return legs, entries
}

// RemoteAttachment is one attachment record as the remote ledger returns it.
type RemoteAttachment struct {
	ID         FlexInt64 `json:"id"`
	Attributes struct {
		Filename    string    `json:"filename"`
		DownloadURL string    `json:"download_url"`
		UploadURL   string    `json:"upload_url"`
		Size        int64     `json:"size"`
		CreatedAt   time.Time `json:"created_at"`
	} `json:"attributes"`
}

// AttachmentsResponse is the body of an attachments listing.
type AttachmentsResponse struct {
	Data []RemoteAttachment `json:"data"`
}

// DecodeGroupResponse parses a group create/update body.
func DecodeGroupResponse(body []byte) (*GroupResponse, error) {
	var resp GroupResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
