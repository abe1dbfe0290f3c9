package model

import (
	"strings"
	"time"
)

// RootPath is the normalized path of the content tree root.
const RootPath = "/"

// Entry represents a single directory listing item.
type Entry struct {
	// Name is the display name of the entry, without any path prefix
	Name string `json:"name" yaml:"name"`
	// IsDir reports whether the entry is a directory
	IsDir bool `json:"isDir" yaml:"isDir"`
}

// Session holds the navigation and pagination state of one remote node.
type Session struct {
	// NodeID is the stable identifier of the remote node (e.g. "!a4f21c88")
	NodeID string `json:"nodeId" yaml:"nodeId"`
	// CurrentPath is the normalized absolute path of the current directory
	CurrentPath string `json:"currentPath" yaml:"currentPath"`
	// PendingPages are precomputed page texts awaiting an explicit next/all
	PendingPages []string `json:"pendingPages,omitempty" yaml:"pendingPages,omitempty"`
	// NextPageIndex is the cursor into PendingPages; always in [0, len]
	NextPageIndex int `json:"nextPageIndex,omitempty" yaml:"nextPageIndex,omitempty"`
	// LastListing is the listing the node saw last; numeric selections
	// resolve against it rather than a re-fetched directory
	LastListing []Entry `json:"lastListing,omitempty" yaml:"lastListing,omitempty"`
	// LastActivity orders concurrent session writes and drives idle expiry
	LastActivity time.Time `json:"lastActivity" yaml:"lastActivity"`
}

// NewSession returns a fresh session for nodeID rooted at RootPath.
func NewSession(nodeID string) Session {
	return Session{NodeID: nodeID, CurrentPath: RootPath}
}

// NavigateTo returns a session positioned at path. The previous listing is
// retained until the new directory renders; pagination is discarded.
func (s Session) NavigateTo(path string) Session {
	return Session{
		NodeID:       s.NodeID,
		CurrentPath:  path,
		LastListing:  s.LastListing,
		LastActivity: s.LastActivity,
	}
}

// NavigateBack returns a session positioned at the parent directory. The
// root is its own parent. Listing and pagination are discarded.
func (s Session) NavigateBack() Session {
	return Session{
		NodeID:       s.NodeID,
		CurrentPath:  ParentPath(s.CurrentPath),
		LastActivity: s.LastActivity,
	}
}

// NavigateHome returns a session reset to the root directory.
func (s Session) NavigateHome() Session {
	return Session{
		NodeID:       s.NodeID,
		CurrentPath:  RootPath,
		LastActivity: s.LastActivity,
	}
}

// WithListing returns a session remembering the listing just shown.
func (s Session) WithListing(entries []Entry) Session {
	next := s
	next.LastListing = make([]Entry, len(entries))
	copy(next.LastListing, entries)
	return next
}

// WithPages returns a session buffering pages with the cursor at index.
func (s Session) WithPages(pages []string, index int) Session {
	next := s
	next.PendingPages = make([]string, len(pages))
	copy(next.PendingPages, pages)
	next.NextPageIndex = index
	return next
}

// ClearPagination returns a session with no buffered pages.
func (s Session) ClearPagination() Session {
	next := s
	next.PendingPages = nil
	next.NextPageIndex = 0
	return next
}

// Touched returns a session with LastActivity set to now.
func (s Session) Touched(now time.Time) Session {
	next := s
	next.LastActivity = now
	return next
}

// HasPending reports whether unserved pages remain in the buffer.
func (s Session) HasPending() bool {
	return s.NextPageIndex < len(s.PendingPages)
}

// EntryAt resolves a 1-based selection against the remembered listing.
func (s Session) EntryAt(index int) (Entry, bool) {
	if index < 1 || index > len(s.LastListing) {
		return Entry{}, false
	}
	return s.LastListing[index-1], true
}

// ResolvePath joins an entry name onto the current directory path.
func (s Session) ResolvePath(name string) string {
	if s.CurrentPath == RootPath {
		return RootPath + name
	}
	return s.CurrentPath + "/" + name
}

// ParentPath returns the parent of a normalized absolute path; the parent
// of the root is the root itself.
func ParentPath(path string) string {
	if path == RootPath {
		return RootPath
	}
	trimmed := strings.TrimRight(path, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx <= 0 {
		return RootPath
	}
	return trimmed[:idx]
}
