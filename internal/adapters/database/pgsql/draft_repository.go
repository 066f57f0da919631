package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pocketledger/pocket_ledger_sync/internal/apperrors"
	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
	portsrepo "github.com/pocketledger/pocket_ledger_sync/internal/core/ports/repositories"
	"github.com/pocketledger/pocket_ledger_sync/internal/models"
	"github.com/pocketledger/pocket_ledger_sync/internal/utils"
	"github.com/pocketledger/pocket_ledger_sync/internal/utils/mapping"
)

// PgxDraftRepository persists draft legs and their group index. Drafts live
// in tables of their own so a half-composed group never leaks into mirror
// queries and survives process restarts untouched.
type PgxDraftRepository struct {
	BaseRepository
}

// NewDraftRepository creates a new repository over the draft store tables.
func NewDraftRepository(pool *pgxpool.Pool) portsrepo.DraftRepositoryFacade {
	return &PgxDraftRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DraftRepositoryFacade = (*PgxDraftRepository)(nil)

// StageLeg inserts the leg under a fresh local-draft journal id and appends
// it to the group index for masterID, both within one transaction.
func (r *PgxDraftRepository) StageLeg(ctx context.Context, masterID int64, leg domain.TransactionLeg) (domain.TransactionLeg, error) {
	localID, err := utils.GenerateLocalJournalID()
	if err != nil {
		return domain.TransactionLeg{}, apperrors.NewAppError(500, "failed to generate local journal id", err)
	}
	leg.JournalID = localID
	leg.IsPending = true

	tx, err := r.Begin(ctx)
	if err != nil {
		return domain.TransactionLeg{}, err
	}
	defer r.Rollback(ctx, tx)

	row := mapping.ToModelLeg(leg)
	_, err = tx.Exec(ctx, `
		INSERT INTO draft_transactions (
			journal_id, amount, kind, description, date,
			source_name, destination_name, currency_code,
			category_name, budget_name, bill_name, piggy_bank_name,
			tags, notes, attachment_uris
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`,
		row.JournalID,
		row.Amount,
		row.Kind,
		row.Description,
		row.Date,
		row.SourceName,
		row.DestinationName,
		row.CurrencyCode,
		row.CategoryName,
		row.BudgetName,
		row.BillName,
		row.PiggyBankName,
		row.Tags,
		row.Notes,
		row.AttachmentURIs,
	)
	if err != nil {
		return domain.TransactionLeg{}, apperrors.NewAppError(500, "failed to insert draft leg", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO draft_group_index (master_id, journal_id)
		VALUES ($1, $2);
	`, masterID, row.JournalID)
	if err != nil {
		return domain.TransactionLeg{}, apperrors.NewAppError(500, "failed to index draft leg", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return domain.TransactionLeg{}, err
	}
	return leg, nil
}

// LegsForMaster returns the staged legs of a master id in staging order.
func (r *PgxDraftRepository) LegsForMaster(ctx context.Context, masterID int64) ([]domain.TransactionLeg, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT t.journal_id, t.amount, t.kind, t.description, t.date,
		       t.source_name, t.destination_name, t.currency_code,
		       t.category_name, t.budget_name, t.bill_name, t.piggy_bank_name,
		       t.tags, t.notes, t.attachment_uris
		FROM draft_transactions t
		JOIN draft_group_index gi ON gi.journal_id = t.journal_id
		WHERE gi.master_id = $1
		ORDER BY gi.seq ASC;
	`, masterID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query draft legs", err)
	}
	defer rows.Close()

	var legs []domain.TransactionLeg
	for rows.Next() {
		var row models.TransactionRow
		if err := rows.Scan(
			&row.JournalID, &row.Amount, &row.Kind, &row.Description, &row.Date,
			&row.SourceName, &row.DestinationName, &row.CurrencyCode,
			&row.CategoryName, &row.BudgetName, &row.BillName, &row.PiggyBankName,
			&row.Tags, &row.Notes, &row.AttachmentURIs,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan draft leg", err)
		}
		legs = append(legs, mapping.ToDomainLeg(row, true))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate draft legs", err)
	}
	return legs, nil
}

// PurgeMaster deletes all legs and index rows of a master id. Purging an
// absent master id is a no-op.
func (r *PgxDraftRepository) PurgeMaster(ctx context.Context, masterID int64) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	_, err = tx.Exec(ctx, `
		DELETE FROM draft_transactions
		WHERE journal_id IN (
			SELECT journal_id FROM draft_group_index WHERE master_id = $1
		);
	`, masterID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to purge draft legs", err)
	}

	_, err = tx.Exec(ctx, `DELETE FROM draft_group_index WHERE master_id = $1;`, masterID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to purge draft group index", err)
	}

	return r.Commit(ctx, tx)
}

// AttachmentsFor returns the staged attachment references of one local-draft
// journal id.
func (r *PgxDraftRepository) AttachmentsFor(ctx context.Context, localJournalID int64) ([]string, error) {
	var uris []string
	err := r.Pool.QueryRow(ctx, `
		SELECT attachment_uris FROM draft_transactions WHERE journal_id = $1;
	`, localJournalID).Scan(&uris)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, apperrors.NewAppError(500, "failed to read staged attachments", err)
	}
	return uris, nil
}
