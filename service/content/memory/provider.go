// Package memory provides a content provider assembled in memory. It backs
// examples and tests where no on-disk content tree is wanted.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/viant/meshgopher/model"
	"github.com/viant/meshgopher/service/content"
)

type node struct {
	isDir    bool
	text     string
	children map[string]*node
}

// Provider serves a content tree assembled with AddDir and AddFile.
type Provider struct {
	mu   sync.RWMutex
	root *node
}

// New creates an empty in-memory content tree.
func New() *Provider {
	return &Provider{root: newDir()}
}

// AddDir adds a directory, creating intermediate directories as needed.
// It returns the provider for chaining.
func (p *Provider) AddDir(navPath string) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	segments, err := splitPath(navPath)
	if err != nil {
		return p
	}
	p.ensureDirs(segments)
	return p
}

// AddFile adds a file with the supplied text, creating intermediate
// directories as needed. It returns the provider for chaining.
func (p *Provider) AddFile(navPath, text string) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	segments, err := splitPath(navPath)
	if err != nil || len(segments) == 0 {
		return p
	}
	parent := p.ensureDirs(segments[:len(segments)-1])
	parent.children[segments[len(segments)-1]] = &node{text: text}
	return p
}

// List returns the entries of the directory at navPath, directories first,
// each group sorted case-insensitively by name.
func (p *Provider) List(ctx context.Context, navPath string) ([]model.Entry, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	target, err := p.lookup(navPath)
	if err != nil {
		return nil, err
	}
	if !target.isDir {
		return nil, content.ErrNotFound
	}
	var entries []model.Entry
	for name, child := range target.children {
		entries = append(entries, model.Entry{Name: name, IsDir: child.isDir})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
	return entries, nil
}

// Read returns the content of the file at navPath.
func (p *Provider) Read(ctx context.Context, navPath string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	target, err := p.lookup(navPath)
	if err != nil {
		return "", err
	}
	if target.isDir {
		return "", content.ErrNotAFile
	}
	return target.text, nil
}

func newDir() *node {
	return &node{isDir: true, children: map[string]*node{}}
}

func (p *Provider) ensureDirs(segments []string) *node {
	current := p.root
	for _, segment := range segments {
		child, ok := current.children[segment]
		if !ok || !child.isDir {
			child = newDir()
			current.children[segment] = child
		}
		current = child
	}
	return current
}

func (p *Provider) lookup(navPath string) (*node, error) {
	segments, err := splitPath(navPath)
	if err != nil {
		return nil, err
	}
	current := p.root
	for _, segment := range segments {
		if !current.isDir {
			return nil, content.ErrNotFound
		}
		child, ok := current.children[segment]
		if !ok {
			return nil, content.ErrNotFound
		}
		current = child
	}
	return current, nil
}

// splitPath breaks a navigation path into segments, rejecting parent
// traversal so the contract matches filesystem-backed providers.
func splitPath(navPath string) ([]string, error) {
	var segments []string
	for _, segment := range strings.Split(navPath, "/") {
		switch segment {
		case "", ".":
		case "..":
			return nil, content.ErrAccessDenied
		default:
			segments = append(segments, segment)
		}
	}
	return segments, nil
}

// ensure Provider implements the content contract
var _ content.Provider = (*Provider)(nil)
