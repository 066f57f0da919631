package services

// ServiceContainer bundles the service facades for handler registration.
type ServiceContainer struct {
	Draft  DraftSvcFacade
	Sync   SyncSvcFacade
	Mirror MirrorSvcFacade
	Search SearchSvcFacade
}
