package dto

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
)

// Remote field names for the flat indexed submission form.
const (
	FieldType              = "type"
	FieldDescription       = "description"
	FieldDate              = "date"
	FieldAmount            = "amount"
	FieldCurrencyCode      = "currency_code"
	FieldSourceName        = "source_name"
	FieldDestinationName   = "destination_name"
	FieldCategoryName      = "category_name"
	FieldBudgetName        = "budget_name"
	FieldBillName          = "bill_name"
	FieldPiggyBankName     = "piggy_bank_name"
	FieldTags              = "tags"
	FieldNotes             = "notes"
	FieldInternalReference = "internal_reference"
	FieldJournalID         = "transaction_journal_id"
)

// LegFields holds the serialized fields of one leg, keyed by remote field
// name. Optional fields are present only when non-empty.
type LegFields map[string]string

// GroupSubmission is the assembled remote group-create (or update) payload:
// a group title plus one ordered LegFields per staged leg.
//
// IdempotencyKey is a client-generated token sent with the submission so a
// retry after a partial success does not duplicate the group remotely.
type GroupSubmission struct {
	GroupTitle     string
	IdempotencyKey string
	Legs           []LegFields
}

// BuildGroupSubmission serializes staged legs into their field-indexed form,
// preserving staging order. Legs carrying staged attachment references get
// the transient internal_reference marker set to their local-draft journal id
// so the authoritative response can be correlated back to those attachments.
func BuildGroupSubmission(groupTitle string, idempotencyKey string, legs []domain.TransactionLeg) GroupSubmission {
	sub := GroupSubmission{
		GroupTitle:     groupTitle,
		IdempotencyKey: idempotencyKey,
		Legs:           make([]LegFields, 0, len(legs)),
	}
	for _, leg := range legs {
		fields := LegFields{
			FieldType:            string(leg.Kind),
			FieldDescription:     leg.Description,
			FieldDate:            leg.Date.UTC().Format(time.RFC3339),
			FieldAmount:          leg.Amount.String(),
			FieldCurrencyCode:    leg.CurrencyCode,
			FieldDestinationName: leg.DestinationName,
		}
		setIfPresent(fields, FieldSourceName, leg.SourceName)
		setIfPresent(fields, FieldCategoryName, leg.CategoryName)
		setIfPresent(fields, FieldBudgetName, leg.BudgetName)
		setIfPresent(fields, FieldBillName, leg.BillName)
		setIfPresent(fields, FieldPiggyBankName, leg.PiggyBankName)
		setIfPresent(fields, FieldNotes, leg.Notes)
		if len(leg.Tags) > 0 {
			fields[FieldTags] = strings.Join(leg.Tags, ",")
		}
		if len(leg.AttachmentURIs) > 0 {
			// Correlation marker: the remote ledger assigns the final journal
			// id, so the echoed local-draft id is the only key available to
			// re-associate staged attachments from the response.
			fields[FieldInternalReference] = strconv.FormatInt(leg.JournalID, 10)
		}
		sub.Legs = append(sub.Legs, fields)
	}
	return sub
}

// FormValues flattens the submission into the remote wire encoding, e.g.
// transactions[0][amount]=10. Index bookkeeping lives here and nowhere else.
func (s GroupSubmission) FormValues() url.Values {
	values := url.Values{}
	values.Set("group_title", s.GroupTitle)
	for i, fields := range s.Legs {
		for name, value := range fields {
			values.Set(fmt.Sprintf("transactions[%d][%s]", i, name), value)
		}
	}
	return values
}

// BuildMarkerRemoval builds the follow-up update payload that clears the
// transient internal_reference marker from each leg of a committed group.
func BuildMarkerRemoval(group *GroupData) GroupSubmission {
	sub := GroupSubmission{
		GroupTitle: group.Attributes.GroupTitle,
		Legs:       make([]LegFields, 0, len(group.Attributes.Transactions)),
	}
	for _, leg := range group.Attributes.Transactions {
		sub.Legs = append(sub.Legs, LegFields{
			FieldJournalID:         strconv.FormatInt(int64(leg.TransactionJournalID), 10),
			FieldInternalReference: "",
		})
	}
	return sub
}

func setIfPresent(fields LegFields, name, value string) {
	if value != "" {
		fields[name] = value
	}
}
