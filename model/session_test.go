package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParentPath(t *testing.T) {
	testCases := []struct {
		description string
		path        string
		expected    string
	}{
		{
			description: "root is its own parent",
			path:        "/",
			expected:    "/",
		},
		{
			description: "top level entry",
			path:        "/documents",
			expected:    "/",
		},
		{
			description: "nested entry",
			path:        "/documents/archive",
			expected:    "/documents",
		},
		{
			description: "trailing slash",
			path:        "/documents/archive/",
			expected:    "/documents",
		},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.expected, ParentPath(testCase.path), testCase.description)
	}
}

func TestSession_Navigation(t *testing.T) {
	session := NewSession("!a4f21c88")
	assert.Equal(t, RootPath, session.CurrentPath)

	listing := []Entry{
		{Name: "documents", IsDir: true},
		{Name: "readme.txt", IsDir: false},
	}
	session = session.WithListing(listing)

	descended := session.NavigateTo("/documents")
	assert.Equal(t, "/documents", descended.CurrentPath)
	assert.Equal(t, "!a4f21c88", descended.NodeID)
	assert.Len(t, descended.LastListing, 2, "listing survives until the new directory renders")
	assert.Empty(t, descended.PendingPages)

	back := descended.NavigateBack()
	assert.Equal(t, RootPath, back.CurrentPath)
	assert.Empty(t, back.LastListing)

	home := descended.NavigateHome()
	assert.Equal(t, RootPath, home.CurrentPath)
}

func TestSession_EntryAt(t *testing.T) {
	session := NewSession("!node1").WithListing([]Entry{
		{Name: "a", IsDir: true},
		{Name: "b.txt", IsDir: false},
	})

	entry, ok := session.EntryAt(1)
	assert.True(t, ok)
	assert.Equal(t, "a", entry.Name)
	assert.True(t, entry.IsDir)

	entry, ok = session.EntryAt(2)
	assert.True(t, ok)
	assert.Equal(t, "b.txt", entry.Name)

	_, ok = session.EntryAt(0)
	assert.False(t, ok)
	_, ok = session.EntryAt(3)
	assert.False(t, ok)
}

func TestSession_ResolvePath(t *testing.T) {
	session := NewSession("!node1")
	assert.Equal(t, "/welcome.txt", session.ResolvePath("welcome.txt"))

	session = session.NavigateTo("/documents")
	assert.Equal(t, "/documents/readme.txt", session.ResolvePath("readme.txt"))
}

func TestSession_Pagination(t *testing.T) {
	pages := []string{"one [1/3]", "two [2/3]", "three [3/3]"}
	session := NewSession("!node1").WithPages(pages, 1)

	assert.True(t, session.HasPending())
	assert.Equal(t, 1, session.NextPageIndex)
	assert.Equal(t, pages, session.PendingPages)

	cleared := session.ClearPagination()
	assert.False(t, cleared.HasPending())
	assert.Empty(t, cleared.PendingPages)
	assert.Zero(t, cleared.NextPageIndex)

	exhausted := session.WithPages(pages, 3)
	assert.False(t, exhausted.HasPending())
}

func TestSession_Touched(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	session := NewSession("!node1").Touched(now)
	assert.Equal(t, now, session.LastActivity)
}
