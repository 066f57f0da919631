package domain

import "time"

// PendingSubmission records that a draft group could not reach the remote
// ledger because of connectivity loss and must be retried later. It carries
// exactly what is needed to reconstruct the submission call.
//
// Lifecycle: created on network failure during submission; deleted once a
// retry either commits or is rejected with a non-network error.
type PendingSubmission struct {
	MasterID   int64     `json:"masterID"`
	GroupTitle string    `json:"groupTitle"`
	CreatedAt  time.Time `json:"createdAt"`
}
