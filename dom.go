package glubpage

// Mount point ids the renderer writes into.
const (
	LatestPostsID = "latest-posts"
	AllPostsID    = "all-posts"
	AdSlotID      = "ad-slot"
	AffiliatesID  = "affiliates"
)

// Document is the page the renderer writes into.
type Document interface {
	// ElementByID returns the element with the given id, or nil if the
	// page has none.
	ElementByID(id string) Element
}

// Element is a mount point.
type Element interface {
	SetInnerHTML(markup string)
}

// ReadyNotifier is implemented by documents that may still be loading when
// Mount is called.
type ReadyNotifier interface {
	Loading() bool
	// OnReady registers fn to be called once the document structure is
	// available.
	OnReady(fn func())
}
