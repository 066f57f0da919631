package services

import (
	"context"

	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
	"github.com/pocketledger/pocket_ledger_sync/internal/dto"
)

// RemoteLedgerClient is the thin protocol boundary to the remote ledger.
//
// Error contract: transport-level failures (no response obtained) are
// returned wrapped in apperrors.ErrRemoteUnreachable; structured rejections
// are returned as *dto.RemoteError carrying the status code and error body.
type RemoteLedgerClient interface {
	// CreateGroup submits a group of legs as one atomic remote write.
	CreateGroup(ctx context.Context, sub dto.GroupSubmission) (*dto.GroupResponse, error)

	// UpdateGroup updates an existing remote group, e.g. to clear the
	// transient correlation marker after attachments are linked.
	UpdateGroup(ctx context.Context, groupID int64, sub dto.GroupSubmission) (*dto.GroupResponse, error)

	// DeleteByID deletes one remote transaction by journal id and returns
	// the raw status code. Transport failures return a non-nil error.
	DeleteByID(ctx context.Context, journalID int64) (int, error)

	// ListPage fetches one page of the remote paginated listing for a window.
	ListPage(ctx context.Context, window domain.MirrorWindow, page int) (*dto.PageResponse, error)

	// SearchText runs the remote full-text search.
	SearchText(ctx context.Context, query string) (*dto.PageResponse, error)

	// AttachmentsForJournal lists the remote attachments of a journal id.
	AttachmentsForJournal(ctx context.Context, journalID int64) ([]dto.RemoteAttachment, error)
}

// AttachableType identifies what kind of remote record attachments belong to.
type AttachableType string

// AttachableTypeTransaction marks attachments destined for a transaction leg.
const AttachableTypeTransaction AttachableType = "TRANSACTION"

// AttachmentUploader receives locally staged attachment references once the
// leg that carried them has been committed and owns the byte transport from
// there on. Implementations must not block submission.
type AttachmentUploader interface {
	UploadFor(ctx context.Context, uris []string, remoteJournalID int64, kind AttachableType)
}
