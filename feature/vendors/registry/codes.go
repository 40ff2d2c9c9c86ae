package registry

// Event codes reported through the events.Sink. The 2xxx block is owned by
// this package.
const (
	CodeRefreshStart      = 2001
	CodeSourceResolved    = 2002
	CodeCacheListed       = 2003
	CodeRefreshSkipped    = 2004
	CodeDownloadFailed    = 2005
	CodeParseFailed       = 2006
	CodeLockUnavailable   = 2007
	CodeSnapshotActivated = 2008
	CodeEntriesPruned     = 2009
	CodeInitialLoadFailed = 2010
	CodeFallbackActive    = 2011
	CodeSchedulerFault    = 2012
)
