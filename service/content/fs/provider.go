// Package fs provides a content provider backed by the viant/afs virtual
// filesystem. Any afs scheme works as a content root: file:///srv/gopher,
// mem://localhost/content or embed:///content with an embedded filesystem
// supplied as a storage option.
package fs

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/meshgopher/model"
	"github.com/viant/meshgopher/service/content"
)

// Provider serves directory listings and file content from an afs location.
type Provider struct {
	fs      afs.Service
	rootURL string
	options []storage.Option
}

// New creates a content provider rooted at rootURL. The root must exist and
// be a directory.
func New(ctx context.Context, rootURL string, options ...storage.Option) (*Provider, error) {
	if rootURL == "" {
		return nil, fmt.Errorf("content root URL cannot be empty")
	}
	rootURL = url.Normalize(rootURL, file.Scheme)
	fs := afs.New()
	object, err := fs.Object(ctx, rootURL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to access content root %v: %w", rootURL, err)
	}
	if !object.IsDir() {
		return nil, fmt.Errorf("content root %v is not a directory", rootURL)
	}
	return &Provider{
		fs:      fs,
		rootURL: rootURL,
		options: options,
	}, nil
}

// List returns the entries of the directory at navPath, directories first,
// each group sorted case-insensitively by name. Hidden entries are omitted.
func (p *Provider) List(ctx context.Context, navPath string) ([]model.Entry, error) {
	location, err := p.locationURL(navPath)
	if err != nil {
		return nil, err
	}
	object, err := p.object(ctx, location)
	if err != nil {
		return nil, err
	}
	if !object.IsDir() {
		return nil, content.ErrNotFound
	}
	objects, err := p.fs.List(ctx, location, p.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %v: %w", location, err)
	}
	var entries []model.Entry
	for _, candidate := range objects {
		// afs includes the listed directory itself
		if url.Equals(location, candidate.URL()) {
			continue
		}
		name := candidate.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		entries = append(entries, model.Entry{Name: name, IsDir: candidate.IsDir()})
	}
	sortEntries(entries)
	return entries, nil
}

// Read returns the content of the file at navPath.
func (p *Provider) Read(ctx context.Context, navPath string) (string, error) {
	location, err := p.locationURL(navPath)
	if err != nil {
		return "", err
	}
	object, err := p.object(ctx, location)
	if err != nil {
		return "", err
	}
	if object.IsDir() {
		return "", content.ErrNotAFile
	}
	data, err := p.fs.DownloadWithURL(ctx, location, p.options...)
	if err != nil {
		return "", fmt.Errorf("failed to read %v: %w", location, err)
	}
	return string(data), nil
}

// locationURL maps a navigation path onto the content root. Paths that climb
// outside the root are rejected before any filesystem access happens.
func (p *Provider) locationURL(navPath string) (string, error) {
	for _, segment := range strings.Split(navPath, "/") {
		if segment == ".." {
			return "", content.ErrAccessDenied
		}
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+navPath), "/")
	if cleaned == "" {
		return p.rootURL, nil
	}
	return url.Join(p.rootURL, cleaned), nil
}

func (p *Provider) object(ctx context.Context, URL string) (storage.Object, error) {
	exists, err := p.fs.Exists(ctx, URL, p.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to check %v: %w", URL, err)
	}
	if !exists {
		return nil, content.ErrNotFound
	}
	object, err := p.fs.Object(ctx, URL, p.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to access %v: %w", URL, err)
	}
	return object, nil
}

func sortEntries(entries []model.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
}

// ensure Provider implements the content contract
var _ content.Provider = (*Provider)(nil)
