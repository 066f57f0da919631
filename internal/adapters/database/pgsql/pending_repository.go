package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pocketledger/pocket_ledger_sync/internal/apperrors"
	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
	portsrepo "github.com/pocketledger/pocket_ledger_sync/internal/core/ports/repositories"
	"github.com/pocketledger/pocket_ledger_sync/internal/models"
)

// PgxPendingRepository persists deferred submissions awaiting retry.
type PgxPendingRepository struct {
	BaseRepository
}

// NewPendingRepository creates a new repository over the pending table.
func NewPendingRepository(pool *pgxpool.Pool) portsrepo.PendingRepositoryFacade {
	return &PgxPendingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PendingRepositoryFacade = (*PgxPendingRepository)(nil)

// SavePending records a deferred submission. A second save for the same
// master id overwrites the first, so repeated failed retries keep exactly
// one record per group.
func (r *PgxPendingRepository) SavePending(ctx context.Context, pending domain.PendingSubmission) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO pending_submissions (master_id, group_title, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (master_id) DO UPDATE SET
			group_title = EXCLUDED.group_title,
			created_at = EXCLUDED.created_at;
	`, pending.MasterID, pending.GroupTitle, pending.CreatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save pending submission", err)
	}
	return nil
}

// ListPending retrieves all deferred submissions, oldest first.
func (r *PgxPendingRepository) ListPending(ctx context.Context) ([]domain.PendingSubmission, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT master_id, group_title, created_at
		FROM pending_submissions
		ORDER BY created_at ASC, master_id ASC;
	`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list pending submissions", err)
	}
	defer rows.Close()

	var pendings []domain.PendingSubmission
	for rows.Next() {
		var row models.PendingSubmissionRow
		if err := rows.Scan(&row.MasterID, &row.GroupTitle, &row.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan pending submission", err)
		}
		pendings = append(pendings, domain.PendingSubmission(row))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate pending submissions", err)
	}
	return pendings, nil
}

// FindPending retrieves the deferred submission for a master id.
func (r *PgxPendingRepository) FindPending(ctx context.Context, masterID int64) (*domain.PendingSubmission, error) {
	var p domain.PendingSubmission
	err := r.Pool.QueryRow(ctx, `
		SELECT master_id, group_title, created_at
		FROM pending_submissions
		WHERE master_id = $1;
	`, masterID).Scan(&p.MasterID, &p.GroupTitle, &p.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find pending submission", err)
	}
	return &p, nil
}

// DeletePending removes the deferred submission for a master id. Deleting an
// absent master id is a no-op.
func (r *PgxPendingRepository) DeletePending(ctx context.Context, masterID int64) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM pending_submissions WHERE master_id = $1;`, masterID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete pending submission", err)
	}
	return nil
}
