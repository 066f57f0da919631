package domain

// GroupIndexEntry links one journal id to the transaction group it belongs to.
//
// GroupID is either a remote transaction-group id (after synchronization) or a
// client-generated master id (while the group is still a draft). Every journal
// id appears in exactly one group at a time; rows are ordered by insertion so
// leg order survives the round trip to the remote ledger.
type GroupIndexEntry struct {
	GroupID    int64  `json:"groupID"`
	JournalID  int64  `json:"journalID"`
	GroupTitle string `json:"groupTitle"`
}
