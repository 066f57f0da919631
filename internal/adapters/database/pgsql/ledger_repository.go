package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/pocket_ledger_sync/internal/apperrors"
	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
	portsrepo "github.com/pocketledger/pocket_ledger_sync/internal/core/ports/repositories"
	"github.com/pocketledger/pocket_ledger_sync/internal/models"
	"github.com/pocketledger/pocket_ledger_sync/internal/utils/mapping"
)

// PgxLedgerRepository persists the local mirror of remote ledger data.
type PgxLedgerRepository struct {
	BaseRepository
}

// NewLedgerRepository creates a new repository over the mirror tables.
func NewLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// windowFilter builds the WHERE fragment and arguments for a mirror window,
// continuing placeholder numbering from argOffset.
func windowFilter(window domain.MirrorWindow, argOffset int) (string, []any) {
	clause := ""
	args := []any{}
	if !window.Range.IsUnscoped() {
		clause += fmt.Sprintf(" AND date >= $%d AND date <= $%d", argOffset, argOffset+1)
		args = append(args, window.Range.StartOfDay(), window.Range.EndOfDay())
		argOffset += 2
	}
	if window.Kind != domain.KindAll && window.Kind != "" {
		clause += fmt.Sprintf(" AND kind = $%d", argOffset)
		args = append(args, string(window.Kind))
	}
	return clause, args
}

// ReplaceWindow deletes every mirrored row inside the window and inserts the
// fetched rows with their group index entries, all in one transaction, so a
// concurrent reader sees either the old slice or the new one.
func (r *PgxLedgerRepository) ReplaceWindow(ctx context.Context, window domain.MirrorWindow, legs []domain.TransactionLeg, entries []domain.GroupIndexEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	clause, args := windowFilter(window, 1)
	_, err = tx.Exec(ctx, `
		DELETE FROM group_index
		WHERE journal_id IN (SELECT journal_id FROM transactions WHERE TRUE`+clause+`);
	`, args...)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete window group index", err)
	}
	_, err = tx.Exec(ctx, `DELETE FROM transactions WHERE TRUE`+clause+`;`, args...)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete window rows", err)
	}

	batch := &pgx.Batch{}
	queueLegInserts(batch, legs, entries)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert window rows", err)
	}

	return r.Commit(ctx, tx)
}

// UpsertLegs inserts or updates mirrored rows by journal id without touching
// other rows.
func (r *PgxLedgerRepository) UpsertLegs(ctx context.Context, legs []domain.TransactionLeg, entries []domain.GroupIndexEntry) error {
	if len(legs) == 0 && len(entries) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	queueLegInserts(batch, legs, entries)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to upsert mirror rows", err)
	}

	return r.Commit(ctx, tx)
}

// queueLegInserts queues idempotent inserts for legs and index entries.
// Conflicting journal ids take the incoming (remote-authoritative) values.
func queueLegInserts(batch *pgx.Batch, legs []domain.TransactionLeg, entries []domain.GroupIndexEntry) {
	legQuery := `
		INSERT INTO transactions (
			journal_id, group_id, amount, kind, description, date,
			source_name, destination_name, currency_code,
			category_name, budget_name, bill_name, piggy_bank_name, tags, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (journal_id) DO UPDATE SET
			group_id = EXCLUDED.group_id,
			amount = EXCLUDED.amount,
			kind = EXCLUDED.kind,
			description = EXCLUDED.description,
			date = EXCLUDED.date,
			source_name = EXCLUDED.source_name,
			destination_name = EXCLUDED.destination_name,
			currency_code = EXCLUDED.currency_code,
			category_name = EXCLUDED.category_name,
			budget_name = EXCLUDED.budget_name,
			bill_name = EXCLUDED.bill_name,
			piggy_bank_name = EXCLUDED.piggy_bank_name,
			tags = EXCLUDED.tags,
			notes = EXCLUDED.notes;
	`
	for _, leg := range legs {
		row := mapping.ToModelLeg(leg)
		batch.Queue(legQuery,
			row.JournalID, row.GroupID, row.Amount, row.Kind, row.Description, row.Date,
			row.SourceName, row.DestinationName, row.CurrencyCode,
			row.CategoryName, row.BudgetName, row.BillName, row.PiggyBankName, row.Tags, row.Notes,
		)
	}

	entryQuery := `
		INSERT INTO group_index (group_id, journal_id, group_title)
		VALUES ($1, $2, $3)
		ON CONFLICT (journal_id) DO UPDATE SET
			group_id = EXCLUDED.group_id,
			group_title = EXCLUDED.group_title;
	`
	for _, entry := range entries {
		row := models.GroupIndexRow(entry)
		batch.Queue(entryQuery, row.GroupID, row.JournalID, row.GroupTitle)
	}
}

// DeleteByJournalID removes one mirrored row and its index entry. Idempotent.
func (r *PgxLedgerRepository) DeleteByJournalID(ctx context.Context, journalID int64) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM group_index WHERE journal_id = $1;`, journalID); err != nil {
		return apperrors.NewAppError(500, "failed to delete group index row", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE journal_id = $1;`, journalID); err != nil {
		return apperrors.NewAppError(500, "failed to delete mirror row", err)
	}

	return r.Commit(ctx, tx)
}

// CountInWindow counts mirrored rows inside the window.
func (r *PgxLedgerRepository) CountInWindow(ctx context.Context, window domain.MirrorWindow) (int, error) {
	clause, args := windowFilter(window, 1)
	var count int
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE TRUE`+clause+`;`, args...).Scan(&count)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to count window rows", err)
	}
	return count, nil
}

// SumByCurrency sums mirrored amounts inside the window per currency code.
func (r *PgxLedgerRepository) SumByCurrency(ctx context.Context, window domain.MirrorWindow) (map[string]decimal.Decimal, error) {
	clause, args := windowFilter(window, 1)
	rows, err := r.Pool.Query(ctx, `
		SELECT currency_code, COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE TRUE`+clause+`
		GROUP BY currency_code;
	`, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to sum window by currency", err)
	}
	defer rows.Close()

	sums := make(map[string]decimal.Decimal)
	for rows.Next() {
		var code string
		var sum decimal.Decimal
		if err := rows.Scan(&code, &sum); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan currency sum", err)
		}
		sums[code] = sum
	}
	return sums, rows.Err()
}

// SumByTag sums mirrored amounts inside the window for rows carrying tag,
// per currency code.
func (r *PgxLedgerRepository) SumByTag(ctx context.Context, window domain.MirrorWindow, tag string) (map[string]decimal.Decimal, error) {
	clause, args := windowFilter(window, 2)
	args = append([]any{tag}, args...)
	rows, err := r.Pool.Query(ctx, `
		SELECT currency_code, COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE $1 = ANY(tags)`+clause+`
		GROUP BY currency_code;
	`, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to sum window by tag", err)
	}
	defer rows.Close()

	sums := make(map[string]decimal.Decimal)
	for rows.Next() {
		var code string
		var sum decimal.Decimal
		if err := rows.Scan(&code, &sum); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan tag sum", err)
		}
		sums[code] = sum
	}
	return sums, rows.Err()
}

func (r *PgxLedgerRepository) distinctColumn(ctx context.Context, column string, window domain.MirrorWindow) ([]string, error) {
	clause, args := windowFilter(window, 1)
	// column comes from a fixed internal set, never from user input.
	rows, err := r.Pool.Query(ctx, `
		SELECT DISTINCT `+column+`
		FROM transactions
		WHERE `+column+` <> ''`+clause+`
		ORDER BY `+column+`;
	`, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list distinct "+column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan distinct "+column, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// DistinctCategories lists distinct non-empty category names in the window.
func (r *PgxLedgerRepository) DistinctCategories(ctx context.Context, window domain.MirrorWindow) ([]string, error) {
	return r.distinctColumn(ctx, "category_name", window)
}

// DistinctBudgets lists distinct non-empty budget names in the window.
func (r *PgxLedgerRepository) DistinctBudgets(ctx context.Context, window domain.MirrorWindow) ([]string, error) {
	return r.distinctColumn(ctx, "budget_name", window)
}

// DistinctSourceAccounts lists distinct source account names in the window.
func (r *PgxLedgerRepository) DistinctSourceAccounts(ctx context.Context, window domain.MirrorWindow) ([]string, error) {
	return r.distinctColumn(ctx, "source_name", window)
}

// DistinctDestinationAccounts lists distinct destination account names in the window.
func (r *PgxLedgerRepository) DistinctDestinationAccounts(ctx context.Context, window domain.MirrorWindow) ([]string, error) {
	return r.distinctColumn(ctx, "destination_name", window)
}

// SearchByDescription retrieves mirrored rows whose description contains the
// query, case-insensitively, newest first.
func (r *PgxLedgerRepository) SearchByDescription(ctx context.Context, query string) ([]domain.TransactionLeg, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT journal_id, group_id, amount, kind, description, date,
		       source_name, destination_name, currency_code,
		       category_name, budget_name, bill_name, piggy_bank_name, tags, notes
		FROM transactions
		WHERE description ILIKE '%' || $1 || '%'
		ORDER BY date DESC, journal_id DESC;
	`, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to search mirror by description", err)
	}
	defer rows.Close()

	return scanLegs(rows)
}

// LegsForGroup retrieves the mirrored legs of one remote group in index order.
func (r *PgxLedgerRepository) LegsForGroup(ctx context.Context, groupID int64) ([]domain.TransactionLeg, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT t.journal_id, t.group_id, t.amount, t.kind, t.description, t.date,
		       t.source_name, t.destination_name, t.currency_code,
		       t.category_name, t.budget_name, t.bill_name, t.piggy_bank_name, t.tags, t.notes
		FROM transactions t
		JOIN group_index gi ON gi.journal_id = t.journal_id
		WHERE gi.group_id = $1
		ORDER BY gi.seq ASC;
	`, groupID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query group legs", err)
	}
	defer rows.Close()

	return scanLegs(rows)
}

func scanLegs(rows pgx.Rows) ([]domain.TransactionLeg, error) {
	var legs []domain.TransactionLeg
	for rows.Next() {
		var row models.TransactionRow
		if err := rows.Scan(
			&row.JournalID, &row.GroupID, &row.Amount, &row.Kind, &row.Description, &row.Date,
			&row.SourceName, &row.DestinationName, &row.CurrencyCode,
			&row.CategoryName, &row.BudgetName, &row.BillName, &row.PiggyBankName, &row.Tags, &row.Notes,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan mirror row", err)
		}
		legs = append(legs, mapping.ToDomainLeg(row, false))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate mirror rows", err)
	}
	return legs, nil
}
