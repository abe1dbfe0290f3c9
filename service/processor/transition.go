package processor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/viant/meshgopher/model"
	"github.com/viant/meshgopher/policy"
	"github.com/viant/meshgopher/service/content"
	"github.com/viant/meshgopher/service/parser"
	"github.com/viant/meshgopher/service/renderer"
	"github.com/viant/meshgopher/service/transport"
)

// commandFor parses the event text. A blank message greets the node with
// the root menu, matching first-contact behaviour.
func commandFor(event *transport.Event) parser.Command {
	if strings.TrimSpace(event.Text) == "" {
		return parser.Command{Kind: parser.KindHome, Raw: event.Text}
	}
	return parser.Parse(event.Text)
}

// transition applies a parsed command to the session, producing the pages
// to deliver and the session state to persist afterwards. Failures keep
// the prior state so the node can simply try again.
func (s *Service) transition(ctx context.Context, current model.Session, command parser.Command) (model.Session, []string, error) {
	switch command.Kind {
	case parser.KindHelp:
		return current, s.plain(parser.HelpText), nil
	case parser.KindHome:
		return s.showDirectory(ctx, current.NavigateHome(), current)
	case parser.KindBack:
		return s.showDirectory(ctx, current.NavigateBack(), current)
	case parser.KindNext:
		return s.nextPages(current)
	case parser.KindAll:
		return s.allPages(current)
	case parser.KindSelect:
		return s.selectEntry(ctx, current, command.Index)
	}
	return current, s.plain(fmt.Sprintf("Unknown command: %s\nSend ? for help", command.Raw)), nil
}

// showDirectory lists the directory target points at. On failure the prior
// session state is kept untouched.
func (s *Service) showDirectory(ctx context.Context, target, prior model.Session) (model.Session, []string, error) {
	if !s.allowed(ctx, target.CurrentPath) {
		return prior, s.plain(fmt.Sprintf("Access denied: %s", target.CurrentPath)), nil
	}
	entries, err := s.provider.List(ctx, target.CurrentPath)
	if err != nil {
		return s.contentFailure(prior, target.CurrentPath, err)
	}
	return s.paginate(target.WithListing(entries), renderer.Render(target.CurrentPath, entries))
}

// selectEntry resolves a 1-based selection against the last listing the
// node saw.
func (s *Service) selectEntry(ctx context.Context, current model.Session, index int) (model.Session, []string, error) {
	entry, ok := current.EntryAt(index)
	if !ok {
		return current, s.plain(fmt.Sprintf("Invalid selection: %d", index)), nil
	}
	target := current.ResolvePath(entry.Name)
	if entry.IsDir {
		return s.showDirectory(ctx, current.NavigateTo(target), current)
	}
	return s.showFile(ctx, current, target)
}

// showFile reads a file and pages it out. The current directory and
// listing stay put so further selections keep working.
func (s *Service) showFile(ctx context.Context, current model.Session, path string) (model.Session, []string, error) {
	if !s.allowed(ctx, path) {
		return current, s.plain(fmt.Sprintf("Access denied: %s", path)), nil
	}
	text, err := s.provider.Read(ctx, path)
	if err != nil {
		return s.contentFailure(current, path, err)
	}
	if strings.TrimSpace(text) == "" {
		return current.ClearPagination(), s.plain("(empty file)"), nil
	}
	return s.paginate(current, text)
}

// nextPages serves the following batch from the pagination buffer.
func (s *Service) nextPages(current model.Session) (model.Session, []string, error) {
	if !current.HasPending() {
		return current, s.plain("No content to page through"), nil
	}
	end := current.NextPageIndex + s.config.AutoSendThreshold
	if end > len(current.PendingPages) {
		end = len(current.PendingPages)
	}
	pages := append([]string(nil), current.PendingPages[current.NextPageIndex:end]...)
	if end >= len(current.PendingPages) {
		return current.ClearPagination(), pages, nil
	}
	return current.WithPages(current.PendingPages, end), pages, nil
}

// allPages flushes the rest of the pagination buffer.
func (s *Service) allPages(current model.Session) (model.Session, []string, error) {
	if !current.HasPending() {
		return current, s.plain("No content to page through"), nil
	}
	pages := append([]string(nil), current.PendingPages[current.NextPageIndex:]...)
	return current.ClearPagination(), pages, nil
}

// paginate cuts fresh content into pages and applies the auto-send
// threshold: small batches go out whole, larger ones leave a buffer the
// node pulls with next or all.
func (s *Service) paginate(next model.Session, text string) (model.Session, []string, error) {
	pages := s.plain(text)
	if len(pages) <= s.config.AutoSendThreshold {
		return next.ClearPagination(), pages, nil
	}
	return next.WithPages(pages, s.config.AutoSendThreshold), pages[:s.config.AutoSendThreshold], nil
}

// plain cuts a fixed reply into radio-sized pages without touching the
// pagination buffer.
func (s *Service) plain(text string) []string {
	pages := s.chunker.Chunk(text)
	out := make([]string, len(pages))
	for i, page := range pages {
		out[i] = page.Text
	}
	return out
}

// contentFailure maps provider errors onto the fixed user-visible replies;
// anything unexpected surfaces as a truncated generic error.
func (s *Service) contentFailure(prior model.Session, path string, err error) (model.Session, []string, error) {
	switch {
	case errors.Is(err, content.ErrNotFound):
		return prior, s.plain(fmt.Sprintf("Path not found: %s", path)), nil
	case errors.Is(err, content.ErrAccessDenied):
		return prior, s.plain(fmt.Sprintf("Access denied: %s", path)), nil
	}
	log.Printf("content access failed for %s: %v", path, err)
	return prior, s.plain(s.errorReply(err)), err
}

// errorReply renders "Error: ..." clipped to a single message so even a
// verbose failure fits one radio frame.
func (s *Service) errorReply(err error) string {
	message := fmt.Sprintf("Error: %s", err.Error())
	maxSize := s.chunker.MaxSize()
	if len(message) <= maxSize {
		return message
	}
	keep := maxSize - len("Error: ...")
	return fmt.Sprintf("Error: %s...", err.Error()[:keep])
}

// allowed consults the policy carried by the event context.
func (s *Service) allowed(ctx context.Context, path string) bool {
	return policy.FromContext(ctx).IsAllowed(path)
}
