package attachments

import (
	"context"

	"github.com/pocketledger/pocket_ledger_sync/internal/middleware"
	portssvc "github.com/pocketledger/pocket_ledger_sync/internal/core/ports/services"
)

// LoggingUploader hands staged attachment references off by logging them.
// Byte transport to the remote ledger is owned by a separate delivery
// pipeline; this adapter records the correlation so that pipeline can pick
// the files up.
type LoggingUploader struct{}

// NewLoggingUploader creates the default uploader.
func NewLoggingUploader() *LoggingUploader {
	return &LoggingUploader{}
}

var _ portssvc.AttachmentUploader = (*LoggingUploader)(nil)

// UploadFor records the handoff. Never blocks the caller.
func (u *LoggingUploader) UploadFor(ctx context.Context, uris []string, remoteJournalID int64, kind portssvc.AttachableType) {
	if len(uris) == 0 {
		return
	}
	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Info("attachments handed off for upload",
		"remote_journal_id", remoteJournalID,
		"attachable_type", string(kind),
		"count", len(uris),
	)
}
